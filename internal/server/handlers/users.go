package handlers

import (
	"net/http"

	"github.com/walletscope/walletscope/internal/common"
)

type registerRequest struct {
	Email    string `json:"email"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Verifier []byte `json:"verifier"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type saltResponse struct {
	Salt []byte `json:"salt"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := h.users.Register(r.Context(), req.Email, req.Salt, req.Verifier); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, nil)
}

func (h *Handler) getSalt(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		h.writeError(w, r, common.ErrValidation)
		return
	}

	salt, err := h.users.GetSalt(r.Context(), email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, &saltResponse{Salt: salt})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Verifier)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, &loginResponse{AccessToken: token})
}
