// Package services contains server-side business logic. This file implements
// UserService, which handles registration, auth salt lookup, and login.
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/server/auth"
	"github.com/walletscope/walletscope/internal/server/config"
	"github.com/walletscope/walletscope/internal/server/models"
	"github.com/walletscope/walletscope/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create users
// - GetSalt: return the auth salt for an email
// - Login: verify the client-derived verifier and mint an access token
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user with the given email, salt, and verifier.
func (s *UserService) Register(ctx context.Context, email string, salt, verifier []byte) (*models.User, error) {
	if email == "" || len(salt) == 0 || len(verifier) == 0 {
		return nil, common.ErrValidation
	}
	user := &models.User{Email: email, Salt: salt, Verifier: verifier}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return u, nil
}

// GetSalt returns the user's stored salt. For unknown emails it returns a
// decoy salt derived from the email, so the response does not reveal whether
// the account exists and stays stable across calls.
func (s *UserService) GetSalt(ctx context.Context, email string) ([]byte, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return s.decoySalt(email), nil
		}
		return nil, common.ErrInternal
	}
	return user.Salt, nil
}

// Login verifies the provided verifierCandidate against the stored verifier
// and, on success, returns a signed access token.
func (s *UserService) Login(ctx context.Context, email string, verifierCandidate []byte) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}
	if !s.checkVerifier(user.Verifier, verifierCandidate) {
		return "", common.ErrUnauthorized
	}
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}

// --- helpers below ---

func (s *UserService) decoySalt(email string) []byte {
	mac := hmac.New(sha256.New, s.jwtSecret)
	mac.Write([]byte("auth salt decoy:" + email))
	return mac.Sum(nil)
}

func (s *UserService) checkVerifier(verifier []byte, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
