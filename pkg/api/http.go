// Package api assembles the HTTP surface: every engine gets its routes
// registered on a shared /v1 subrouter. Authentication is not resolved
// here; each engine call resolves the bearer token itself so the error
// precedence rules stay inside the engines.
package api

import (
	"github.com/gorilla/mux"

	"huddle/pkg/admin"
	"huddle/pkg/api/handlers"
	"huddle/pkg/auth"
	"huddle/pkg/channels"
	"huddle/pkg/dms"
	"huddle/pkg/messages"
	"huddle/pkg/users"
)

// Services carries the engines the router exposes.
type Services struct {
	Ident    *auth.Service
	Channels *channels.Service
	DMs      *dms.Service
	Messages *messages.Engine
	Users    *users.Service
	Admin    *admin.Service
}

// NewRouter builds the versioned API router.
func NewRouter(s Services) *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterAuth(v1, s.Ident)
	handlers.RegisterChannels(v1, s.Channels)
	handlers.RegisterDMs(v1, s.DMs)
	handlers.RegisterMessages(v1, s.Messages)
	handlers.RegisterUsers(v1, s.Users)
	handlers.RegisterAdmin(v1, s.Admin)
	return r
}
