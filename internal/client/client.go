// Package client is the Go client for the Makerburg API. It implements the
// identity and saved-item interfaces the state synchronizer needs, speaking
// the same JSON the HTTP handlers emit.
//
// SESSIONS VIA COOKIE JAR:
// The server issues an HttpOnly session cookie on register/login. The
// client holds it in a cookiejar, so every later request carries the
// session automatically - the same shape a browser client has.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/appstate"
)

const defaultTimeout = 15 * time.Second

// Client talks to one Makerburg server.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, logger *slog.Logger) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base URL %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: creating cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
		logger: logger,
	}, nil
}

// errorResponse mirrors the server's error envelope.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// userPayload mirrors the server's account responses.
type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Register creates an account. The session cookie lands in the jar.
func (c *Client) Register(ctx context.Context, email, password string) (*appstate.Principal, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

// Login verifies credentials. The session cookie lands in the jar.
func (c *Client) Login(ctx context.Context, email, password string) (*appstate.Principal, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*appstate.Principal, error) {
	body := map[string]string{"email": email, "password": password}

	var user userPayload
	if err := c.do(ctx, http.MethodPost, path, body, &user); err != nil {
		return nil, err
	}
	return &appstate.Principal{ID: user.ID, Email: user.Email}, nil
}

// ResolveSession asks the server who the current session belongs to.
// Returns nil on ANY failure (an expired cookie, a dead server, a 401)
// because at startup "can't prove logged in" and "logged out" are the same
// thing to the caller.
func (c *Client) ResolveSession(ctx context.Context) *appstate.Principal {
	var user userPayload
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		c.logger.Debug("session did not resolve", slog.String("error", err.Error()))
		return nil
	}
	return &appstate.Principal{ID: user.ID, Email: user.Email}
}

// Logout tells the server to clear the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// do sends one JSON request and decodes the response into out (if non-nil).
//
// ERROR TRANSLATION:
// Transport failures become apperror.ErrNetwork; HTTP error statuses are
// mapped back to the same sentinels the server-side services returned, so
// code above the client behaves identically against the API and against an
// in-process repository.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encoding %s body: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("client: building %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, apperror.Network(path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp, path)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decoding %s response: %w", path, apperror.Network(path, err))
		}
	}
	return nil
}

// decodeError turns an HTTP error response back into a domain error.
func (c *Client) decodeError(resp *http.Response, path string) error {
	var envelope errorResponse
	message := http.StatusText(resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		message = envelope.Message
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apperror.ValidationFailed("", message)
	case http.StatusUnauthorized:
		return apperror.Unauthorized(message)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, apperror.ErrNotFound)
	case http.StatusConflict:
		return apperror.Conflict(message)
	default:
		return apperror.Network(path, fmt.Errorf("server returned %d: %s", resp.StatusCode, message))
	}
}
