package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/walletscope/walletscope/internal/common"
)

func TestHTTPClient_FetchMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/diary/meta", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(Metadata{Salt: []byte("salt"), IsNew: true})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetToken("tok")

	md, err := c.FetchMetadata(context.Background())
	require.NoError(t, err)
	require.True(t, md.IsNew)
	require.Equal(t, []byte("salt"), md.Salt)
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"server error", http.StatusInternalServerError, ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, ErrUnavailable},
		{"unauthorized", http.StatusUnauthorized, common.ErrUnauthorized},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"conflict", http.StatusConflict, ErrAlreadyInitialized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL)
			err := c.Setup(context.Background(), []byte("s"), []byte("v"))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPClient_NetworkErrorIsUnavailable(t *testing.T) {
	// a closed server produces a transport-level error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.ListNotes(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_NoteRecordWire(t *testing.T) {
	var got NoteRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	rec := &NoteRecord{
		ID:         "id-1",
		Ciphertext: []byte{1, 2, 3},
		Nonce:      []byte{4, 5, 6},
		Scope:      "global",
		Type:       "todo",
		Tags:       []string{"entry"},
	}
	require.NoError(t, c.CreateNote(context.Background(), rec))
	require.Equal(t, rec.ID, got.ID)
	require.Equal(t, rec.Ciphertext, got.Ciphertext)
	require.Equal(t, rec.Nonce, got.Nonce)
	require.Equal(t, rec.Tags, got.Tags)
}

func TestHTTPClient_Login_InstallsToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login":
			_ = json.NewEncoder(w).Encode(loginResponse{AccessToken: "tok-123"})
		case "/api/diary/notes":
			auth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	require.NoError(t, c.Login(context.Background(), "u@example.com", []byte("v")))

	_, err := c.ListNotes(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", auth)
}
