package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type walletDTO struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
	Chain   string `json:"chain,omitempty"`
}

type addWalletRequest struct {
	Address string `json:"address"`
	Label   string `json:"label"`
	Chain   string `json:"chain"`
}

func (h *Handler) listWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.wallets.List(r.Context(), h.userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]*walletDTO, 0, len(wallets))
	for _, wl := range wallets {
		out = append(out, &walletDTO{ID: wl.ID, Address: wl.Address, Label: wl.Label, Chain: wl.Chain})
	}

	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) addWallet(w http.ResponseWriter, r *http.Request) {
	var req addWalletRequest
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	wl, err := h.wallets.Add(r.Context(), h.userID(r), req.Address, req.Label, req.Chain)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, &walletDTO{ID: wl.ID, Address: wl.Address, Label: wl.Label, Chain: wl.Chain})
}

func (h *Handler) removeWallet(w http.ResponseWriter, r *http.Request) {
	if err := h.wallets.Remove(r.Context(), h.userID(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nil)
}
