package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"huddle/pkg/auth"
	"huddle/pkg/dms"
	"huddle/pkg/utils"
)

type dmHandlers struct {
	svc *dms.Service
}

// RegisterDMs registers DM lifecycle and history endpoints.
func RegisterDMs(r *mux.Router, svc *dms.Service) {
	h := &dmHandlers{svc: svc}
	r.HandleFunc("/dms", h.create).Methods(http.MethodPost)
	r.HandleFunc("/dms", h.list).Methods(http.MethodGet)
	r.HandleFunc("/dms/{id}", h.details).Methods(http.MethodGet)
	r.HandleFunc("/dms/{id}/leave", h.leave).Methods(http.MethodPost)
	r.HandleFunc("/dms/{id}/messages", h.messages).Methods(http.MethodGet)
}

type createDMReq struct {
	UserIDs []int64 `json:"user_ids"`
}

func (h *dmHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req createDMReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.svc.Create(auth.BearerToken(r), req.UserIDs)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]int64{"dm_id": id})
}

func (h *dmHandlers) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(auth.BearerToken(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"dms": out})
}

func (h *dmHandlers) details(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Details(auth.BearerToken(r), pathID(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, d)
}

func (h *dmHandlers) leave(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Leave(auth.BearerToken(r), pathID(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *dmHandlers) messages(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Messages(auth.BearerToken(r), pathID(r, "id"), queryInt(r, "start"))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, page)
}
