// Package handlers exposes the JSON REST API: account auth, the diary
// header, encrypted note records, and the wallet watchlist.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/logging"
	"github.com/walletscope/walletscope/internal/server/auth"
	"github.com/walletscope/walletscope/internal/server/models"
)

// UserService is the account surface the handlers consume.
type UserService interface {
	Register(ctx context.Context, email string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, email string) ([]byte, error)
	Login(ctx context.Context, email string, verifier []byte) (string, error)
}

// DiaryService stores diary headers and encrypted note records.
type DiaryService interface {
	GetMeta(ctx context.Context, userID string) (*models.DiaryMeta, error)
	Setup(ctx context.Context, userID string, salt, verificationToken []byte) error
	ListNotes(ctx context.Context, userID string) ([]*models.Note, error)
	SaveNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, userID, noteID string) error
}

// WalletService manages the watchlist.
type WalletService interface {
	List(ctx context.Context, userID string) ([]*models.Wallet, error)
	Add(ctx context.Context, userID, address, label, chain string) (*models.Wallet, error)
	Remove(ctx context.Context, userID, walletID string) error
}

type Handler struct {
	users   UserService
	diary   DiaryService
	wallets WalletService
	logger  logging.Logger
}

// NewRouter assembles the chi router with the public account endpoints and
// the token-guarded diary and watchlist endpoints.
func NewRouter(users UserService, diary DiaryService, wallets WalletService, secretKey []byte, logger logging.Logger) *chi.Mux {
	h := &Handler{users: users, diary: diary, wallets: wallets, logger: logger.With("component", "http")}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", h.ping)
	r.Post("/api/users/register", h.register)
	r.Get("/api/users/salt", h.getSalt)
	r.Post("/api/users/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(secretKey))

		r.Get("/api/diary/meta", h.getDiaryMeta)
		r.Post("/api/diary/setup", h.setupDiary)
		r.Get("/api/diary/notes", h.listNotes)
		r.Post("/api/diary/notes", h.saveNote)
		r.Put("/api/diary/notes/{id}", h.saveNote)
		r.Delete("/api/diary/notes/{id}", h.deleteNote)

		r.Get("/api/wallets", h.listWallets)
		r.Post("/api/wallets", h.addWallet)
		r.Delete("/api/wallets/{id}", h.removeWallet)
	})

	return r
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// writeJSON marshals v with the given status. A nil v sends just the status.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(context.Background(), "response encode failed", "error", err.Error())
	}
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrValidation
	}
	return nil
}

// writeError maps service errors onto HTTP statuses. Unknown errors become
// 500 without detail; the cause goes to the log, not the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		http.Error(w, "invalid request", http.StatusBadRequest)
	case errors.Is(err, common.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, common.ErrAlreadyInitialized), errors.Is(err, common.ErrAlreadyExists):
		http.Error(w, "conflict", http.StatusConflict)
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) userID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
