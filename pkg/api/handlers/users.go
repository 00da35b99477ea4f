package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"huddle/pkg/auth"
	"huddle/pkg/users"
	"huddle/pkg/utils"
)

type userHandlers struct {
	svc *users.Service
}

// RegisterUsers registers the profile endpoints.
func RegisterUsers(r *mux.Router, svc *users.Service) {
	h := &userHandlers{svc: svc}
	r.HandleFunc("/users", h.list).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", h.profile).Methods(http.MethodGet)
}

func (h *userHandlers) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(auth.BearerToken(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"users": out})
}

func (h *userHandlers) profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(auth.BearerToken(r), pathID(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"user": p})
}
