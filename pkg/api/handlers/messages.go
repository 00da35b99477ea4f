package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"huddle/pkg/auth"
	"huddle/pkg/messages"
	"huddle/pkg/utils"
)

type messageHandlers struct {
	engine *messages.Engine
}

// RegisterMessages registers send, edit, remove, react and pin
// endpoints. Sends hang off the container routes; everything else is
// addressed by message id alone, which encodes its container kind.
func RegisterMessages(r *mux.Router, engine *messages.Engine) {
	h := &messageHandlers{engine: engine}
	r.HandleFunc("/channels/{id}/messages", h.send).Methods(http.MethodPost)
	r.HandleFunc("/dms/{id}/messages", h.sendDM).Methods(http.MethodPost)
	r.HandleFunc("/messages/{id}", h.edit).Methods(http.MethodPut)
	r.HandleFunc("/messages/{id}", h.remove).Methods(http.MethodDelete)
	r.HandleFunc("/messages/{id}/react", h.react).Methods(http.MethodPost)
	r.HandleFunc("/messages/{id}/unreact", h.unreact).Methods(http.MethodPost)
	r.HandleFunc("/messages/{id}/pin", h.pin).Methods(http.MethodPost)
	r.HandleFunc("/messages/{id}/unpin", h.unpin).Methods(http.MethodPost)
}

type textReq struct {
	Message string `json:"message"`
}

type reactReq struct {
	ReactID int `json:"react_id"`
}

func (h *messageHandlers) send(w http.ResponseWriter, r *http.Request) {
	var req textReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.engine.Send(auth.BearerToken(r), pathID(r, "id"), req.Message)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]int64{"message_id": id})
}

func (h *messageHandlers) sendDM(w http.ResponseWriter, r *http.Request) {
	var req textReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.engine.SendDM(auth.BearerToken(r), pathID(r, "id"), req.Message)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]int64{"message_id": id})
}

func (h *messageHandlers) edit(w http.ResponseWriter, r *http.Request) {
	var req textReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.engine.Edit(auth.BearerToken(r), pathID(r, "id"), req.Message); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *messageHandlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Remove(auth.BearerToken(r), pathID(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *messageHandlers) react(w http.ResponseWriter, r *http.Request) {
	var req reactReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.engine.React(auth.BearerToken(r), pathID(r, "id"), req.ReactID); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *messageHandlers) unreact(w http.ResponseWriter, r *http.Request) {
	var req reactReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.engine.Unreact(auth.BearerToken(r), pathID(r, "id"), req.ReactID); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *messageHandlers) pin(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Pin(auth.BearerToken(r), pathID(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (h *messageHandlers) unpin(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Unpin(auth.BearerToken(r), pathID(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}
