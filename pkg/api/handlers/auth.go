package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"huddle/pkg/auth"
	"huddle/pkg/utils"
)

type authHandlers struct {
	ident *auth.Service
}

// RegisterAuth registers the registration, login and logout endpoints.
func RegisterAuth(r *mux.Router, ident *auth.Service) {
	h := &authHandlers{ident: ident}
	r.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
}

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
}

type sessionResp struct {
	UserID int64  `json:"user_id"`
	Token  string `json:"token"`
}

func (h *authHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	uid, token, err := h.ident.Register(req.Email, req.Password, req.NameFirst, req.NameLast)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sessionResp{UserID: uid, Token: token})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	uid, token, err := h.ident.Login(req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sessionResp{UserID: uid, Token: token})
}

func (h *authHandlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.ident.Logout(auth.BearerToken(r)); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}
