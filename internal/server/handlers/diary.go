package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/server/models"
)

// metadataDTO mirrors the client's diary header shape. is_new tells a fresh
// client to run first-time setup instead of unlock.
type metadataDTO struct {
	Salt              []byte `json:"salt"`
	VerificationToken []byte `json:"verification_token"`
	IsNew             bool   `json:"is_new"`
}

// noteDTO is the wire form of one encrypted record.
type noteDTO struct {
	ID         string     `json:"id"`
	Ciphertext []byte     `json:"ciphertext"`
	Nonce      []byte     `json:"nonce"`
	Scope      string     `json:"scope"`
	Type       string     `json:"type"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
}

func (h *Handler) getDiaryMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.diary.GetMeta(r.Context(), h.userID(r))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// no diary yet is a normal state, not an error
			h.writeJSON(w, http.StatusOK, &metadataDTO{IsNew: true})
			return
		}
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, &metadataDTO{
		Salt:              meta.Salt,
		VerificationToken: meta.VerificationToken,
	})
}

func (h *Handler) setupDiary(w http.ResponseWriter, r *http.Request) {
	var req metadataDTO
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.diary.Setup(r.Context(), h.userID(r), req.Salt, req.VerificationToken); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, nil)
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.diary.ListNotes(r.Context(), h.userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]*noteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, &noteDTO{
			ID:         n.ID,
			Ciphertext: n.Ciphertext,
			Nonce:      n.Nonce,
			Scope:      n.Scope,
			Type:       n.Type,
			Tags:       n.Tags,
			CreatedAt:  n.CreatedAt,
			EditedAt:   n.EditedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, out)
}

// saveNote serves both POST /api/diary/notes and PUT /api/diary/notes/{id}.
// Both paths are upserts so offline queue replays stay idempotent.
func (h *Handler) saveNote(w http.ResponseWriter, r *http.Request) {
	var req noteDTO
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if id := chi.URLParam(r, "id"); id != "" && id != req.ID {
		h.writeError(w, r, common.ErrValidation)
		return
	}

	note := &models.Note{
		ID:         req.ID,
		UserID:     h.userID(r),
		Scope:      req.Scope,
		Type:       req.Type,
		Tags:       req.Tags,
		Ciphertext: req.Ciphertext,
		Nonce:      req.Nonce,
		CreatedAt:  req.CreatedAt,
		EditedAt:   req.EditedAt,
	}

	if err := h.diary.SaveNote(r.Context(), note); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.diary.DeleteNote(r.Context(), h.userID(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, nil)
}
