// Package maintenance runs the cron-scheduled housekeeping pass:
// purging expired sessions and reporting collection sizes. Scheduling
// uses full cron syntax, sleeping until the next computed tick.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"huddle/pkg/auth"
	"huddle/pkg/logger"
	"huddle/pkg/models"
	"huddle/pkg/store"
)

// Options configures the scheduler.
type Options struct {
	Enabled bool
	Cron    string
}

// Start launches the scheduler when enabled and returns a cancel func.
// An empty cron expression defaults to daily at 03:00.
func Start(ctx context.Context, opts Options, ident *auth.Service, st *store.Store) (context.CancelFunc, error) {
	if !opts.Enabled {
		logger.Info("maintenance_disabled")
		return func() {}, nil
	}

	cronExpr := opts.Cron
	if cronExpr == "" {
		cronExpr = "0 3 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid maintenance cron expression: %s", opts.Cron)
	}

	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, ident, st)
	logger.Info("maintenance_scheduler_started", "cron", cronExpr)
	return cancel, nil
}

// RunOnce performs a single housekeeping pass.
func RunOnce(ident *auth.Service, st *store.Store) error {
	swept, err := ident.SweepExpiredSessions()
	if err != nil {
		return fmt.Errorf("sweep sessions: %w", err)
	}
	var users, channels, dms, msgs int
	if err := st.View(func(s *models.State) error {
		users, channels, dms, msgs = len(s.Users), len(s.Channels), len(s.DMs), len(s.Messages)
		return nil
	}); err != nil {
		return err
	}
	logger.Info("maintenance_run",
		"sessions_swept", swept,
		"users", users, "channels", channels, "dms", dms, "messages", msgs)
	return nil
}

func runScheduler(ctx context.Context, cronExpr string, ident *auth.Service, st *store.Store) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("maintenance_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("maintenance_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if err := RunOnce(ident, st); err != nil {
				logger.Error("maintenance_run_error", "error", err)
			}
		case <-ctx.Done():
			logger.Info("maintenance_scheduler_stopping")
			return
		}
	}
}
