package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/walletscope/walletscope/internal/common"
)

// HTTPClient implements Client over the backend's JSON REST API.
// The access token is attached as a bearer credential on every request;
// obtaining and refreshing it is the caller's concern.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do performs a JSON request. A nil in sends no body; a nil out discards the
// response body. Network errors and 5xx responses are mapped to
// ErrUnavailable, 401 to common.ErrUnauthorized, 404 to ErrNotFound and
// 409 to ErrAlreadyInitialized.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthHeaderName, common.AuthScheme+" "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrAlreadyInitialized
	case resp.StatusCode >= 400:
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) FetchMetadata(ctx context.Context) (*Metadata, error) {
	var md Metadata
	if err := c.do(ctx, http.MethodGet, "/api/diary/meta", nil, &md); err != nil {
		return nil, err
	}
	return &md, nil
}

func (c *HTTPClient) Setup(ctx context.Context, salt, verificationToken []byte) error {
	in := Metadata{Salt: salt, VerificationToken: verificationToken}
	return c.do(ctx, http.MethodPost, "/api/diary/setup", &in, nil)
}

func (c *HTTPClient) ListNotes(ctx context.Context) ([]*NoteRecord, error) {
	var recs []*NoteRecord
	if err := c.do(ctx, http.MethodGet, "/api/diary/notes", nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *HTTPClient) CreateNote(ctx context.Context, rec *NoteRecord) error {
	return c.do(ctx, http.MethodPost, "/api/diary/notes", rec, nil)
}

func (c *HTTPClient) UpdateNote(ctx context.Context, rec *NoteRecord) error {
	return c.do(ctx, http.MethodPut, "/api/diary/notes/"+rec.ID, rec, nil)
}

func (c *HTTPClient) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/diary/notes/"+id, nil, nil)
}

// credentials DTOs for the account endpoints. These are outside the Client
// interface: the diary library itself does not deal with account auth.
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

// Register creates an account. The caller supplies the auth salt and the
// derived verifier; the password itself never travels to the server.
func (c *HTTPClient) Register(ctx context.Context, email string, salt, verifier []byte) error {
	return c.do(ctx, http.MethodPost, "/api/users/register", &registerRequest{Email: email, Salt: salt, Verifier: verifier}, nil)
}

// GetAuthSalt fetches the account auth salt for the given email.
func (c *HTTPClient) GetAuthSalt(ctx context.Context, email string) ([]byte, error) {
	var out saltResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/salt?email="+url.QueryEscape(email), nil, &out); err != nil {
		return nil, err
	}
	return out.Salt, nil
}

// Login exchanges (email, verifier) for an access token and installs it on
// the client.
func (c *HTTPClient) Login(ctx context.Context, email string, verifier []byte) error {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/login", &loginRequest{Email: email, Verifier: verifier}, &out); err != nil {
		return err
	}
	c.token = out.AccessToken
	return nil
}

// Ping probes server reachability. It does not require auth.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil)
}

// Wallet is a watchlist entry as the backend returns it.
type Wallet struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
	Chain   string `json:"chain,omitempty"`
}

type addWalletRequest struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
	Chain   string `json:"chain,omitempty"`
}

// ListWallets returns the account's wallet watchlist.
func (c *HTTPClient) ListWallets(ctx context.Context) ([]*Wallet, error) {
	var out []*Wallet
	if err := c.do(ctx, http.MethodGet, "/api/wallets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddWallet puts an address on the watchlist.
func (c *HTTPClient) AddWallet(ctx context.Context, address, label, chain string) (*Wallet, error) {
	var out Wallet
	if err := c.do(ctx, http.MethodPost, "/api/wallets", &addWalletRequest{Address: address, Label: label, Chain: chain}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveWallet takes an address off the watchlist by entry id.
func (c *HTTPClient) RemoveWallet(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/wallets/"+url.PathEscape(id), nil, nil)
}
