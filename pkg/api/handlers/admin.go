package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"huddle/pkg/admin"
	"huddle/pkg/auth"
	"huddle/pkg/models"
	"huddle/pkg/utils"
)

type adminHandlers struct {
	svc *admin.Service
}

// RegisterAdmin registers the global-owner-only endpoints.
func RegisterAdmin(r *mux.Router, svc *admin.Service) {
	h := &adminHandlers{svc: svc}
	r.HandleFunc("/admin/users/{id}", h.removeUser).Methods(http.MethodDelete)
	r.HandleFunc("/admin/users/{id}/permission", h.changePermission).Methods(http.MethodPost)
	r.HandleFunc("/admin/stats", h.stats).Methods(http.MethodGet)
	r.HandleFunc("/admin/clear", h.clear).Methods(http.MethodPost)
}

func (h *adminHandlers) removeUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveUser(auth.BearerToken(r), pathID(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

type permissionReq struct {
	PermissionID int `json:"permission_id"`
}

func (h *adminHandlers) changePermission(w http.ResponseWriter, r *http.Request) {
	var req permissionReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.svc.ChangePermission(auth.BearerToken(r), pathID(r, "id"), models.Permission(req.PermissionID))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *adminHandlers) stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Stats(auth.BearerToken(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, s)
}

func (h *adminHandlers) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(auth.BearerToken(r)); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}
