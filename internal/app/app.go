// Package app wires the server together: config validation, logging,
// the store, the engines, the HTTP surface, and the maintenance
// scheduler, with a graceful shutdown path.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"huddle/pkg/admin"
	"huddle/pkg/api"
	"huddle/pkg/auth"
	"huddle/pkg/channels"
	"huddle/pkg/config"
	"huddle/pkg/dms"
	"huddle/pkg/logger"
	"huddle/pkg/maintenance"
	"huddle/pkg/messages"
	"huddle/pkg/store"
	"huddle/pkg/users"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	store    *store.Store
	ident    *auth.Service
	services api.Services

	srv *http.Server
}

// New initializes everything that does not need a running context: the
// logger, the store, and the engines. Call Run to start the HTTP server
// and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	logger.Init(eff.Config.Logging.Level)
	if dir := eff.Config.Logging.AuditDir; dir != "" {
		if err := logger.AttachAuditFileSink(dir); err != nil {
			return nil, fmt.Errorf("audit sink: %w", err)
		}
	}

	st, err := store.Open(eff.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
	}
	st.SetSnapshotWarnBytes(eff.Config.SnapshotWarnBytes())

	ident := auth.NewService(st, []byte(eff.Config.Security.TokenSecret), eff.Config.SessionTTL())
	a := &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		store:     st,
		ident:     ident,
		services: api.Services{
			Ident:    ident,
			Channels: channels.NewService(st, ident),
			DMs:      dms.NewService(st, ident),
			Messages: messages.NewEngine(st, ident),
			Users:    users.NewService(st, ident),
			Admin:    admin.NewService(st, ident),
		},
	}
	return a, nil
}

// Run starts the maintenance scheduler and the HTTP server, then blocks
// until ctx is canceled or the server fails.
func (a *App) Run(ctx context.Context) error {
	stopMaint, err := maintenance.Start(ctx, maintenance.Options{
		Enabled: a.eff.Config.Maintenance.Enabled,
		Cron:    a.eff.Config.Maintenance.Cron,
	}, a.ident, a.store)
	if err != nil {
		return err
	}
	defer stopMaint()

	a.printBanner()

	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shutCtx); err != nil {
			logger.Error("http_shutdown_failed", "error", err)
		}
		return a.store.Close()
	case err := <-errCh:
		_ = a.store.Close()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
