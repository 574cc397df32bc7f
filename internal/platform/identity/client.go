package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/witcharon/salesconnfig/internal/platform/config"
)

// Client talks to the hosted auth provider's REST surface. User-scoped
// calls carry the anon key; admin calls carry the service-role key. The
// service-role key never leaves this package except inside requests to
// the provider itself.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// Principal is the provider's view of an authenticated user.
type Principal struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at"`
}

// Session is a freshly issued token pair plus its lifetime in seconds.
type Session struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int        `json:"expires_in"`
	User         *Principal `json:"user"`
}

// Error carries the provider's status code and message through to the
// handler layer, which passes the message on verbatim.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity provider: %s (status %d)", e.Message, e.StatusCode)
}

func NewClient(cfg config.IdentityConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceRoleKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetUser resolves the principal behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*Principal, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil, c.anonKey)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var principal Principal
	if err := c.do(req, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

// RefreshSession trades a refresh token for a new token pair.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", body, c.anonKey)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignInWithPassword performs the password grant on behalf of the login
// page.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body, c.anonKey)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil, c.anonKey)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return c.do(req, nil)
}

// AdminCreateUser creates an account with the credential already
// confirmed, so the operator-created user can sign in immediately.
func (c *Client) AdminCreateUser(ctx context.Context, email, password string, emailConfirm bool) (*Principal, error) {
	body := map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": emailConfirm,
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/admin/users", body, c.serviceKey)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	var principal Principal
	if err := c.do(req, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

// AdminDeleteUser removes an account. Used as the compensation step when
// account creation partially fails.
func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/auth/v1/admin/users/"+id, nil, c.serviceKey)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	return c.do(req, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}, apiKey string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &Error{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// readErrorMessage digs the human-readable message out of the provider's
// error body, which uses a handful of different field names.
func readErrorMessage(body io.Reader) string {
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		ErrorField       string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return "request failed"
	}
	for _, m := range []string{payload.Message, payload.Msg, payload.ErrorDescription, payload.ErrorField} {
		if m != "" {
			return m
		}
	}
	return "request failed"
}
