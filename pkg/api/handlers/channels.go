package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"huddle/pkg/auth"
	"huddle/pkg/channels"
	"huddle/pkg/utils"
)

type channelHandlers struct {
	svc *channels.Service
}

// RegisterChannels registers channel lifecycle, membership and history
// endpoints.
func RegisterChannels(r *mux.Router, svc *channels.Service) {
	h := &channelHandlers{svc: svc}
	r.HandleFunc("/channels", h.create).Methods(http.MethodPost)
	r.HandleFunc("/channels", h.list).Methods(http.MethodGet)
	r.HandleFunc("/channels/all", h.listAll).Methods(http.MethodGet)
	r.HandleFunc("/channels/{id}", h.details).Methods(http.MethodGet)
	r.HandleFunc("/channels/{id}/join", h.join).Methods(http.MethodPost)
	r.HandleFunc("/channels/{id}/invite", h.invite).Methods(http.MethodPost)
	r.HandleFunc("/channels/{id}/leave", h.leave).Methods(http.MethodPost)
	r.HandleFunc("/channels/{id}/addowner", h.addOwner).Methods(http.MethodPost)
	r.HandleFunc("/channels/{id}/removeowner", h.removeOwner).Methods(http.MethodPost)
	r.HandleFunc("/channels/{id}/messages", h.messages).Methods(http.MethodGet)
}

type createChannelReq struct {
	Name   string `json:"name"`
	Public bool   `json:"is_public"`
}

func (h *channelHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req createChannelReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.svc.Create(auth.BearerToken(r), req.Name, req.Public)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]int64{"channel_id": id})
}

func (h *channelHandlers) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(auth.BearerToken(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"channels": out})
}

func (h *channelHandlers) listAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListAll(auth.BearerToken(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"channels": out})
}

func (h *channelHandlers) details(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Details(auth.BearerToken(r), pathID(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, d)
}

func (h *channelHandlers) join(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Join(auth.BearerToken(r), pathID(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

type memberReq struct {
	UserID int64 `json:"user_id"`
}

func (h *channelHandlers) invite(w http.ResponseWriter, r *http.Request) {
	var req memberReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.Invite(auth.BearerToken(r), pathID(r, "id"), req.UserID); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *channelHandlers) leave(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Leave(auth.BearerToken(r), pathID(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *channelHandlers) addOwner(w http.ResponseWriter, r *http.Request) {
	var req memberReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.AddOwner(auth.BearerToken(r), pathID(r, "id"), req.UserID); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *channelHandlers) removeOwner(w http.ResponseWriter, r *http.Request) {
	var req memberReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.RemoveOwner(auth.BearerToken(r), pathID(r, "id"), req.UserID); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *channelHandlers) messages(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Messages(auth.BearerToken(r), pathID(r, "id"), queryInt(r, "start"))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, page)
}
