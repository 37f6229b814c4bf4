package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/navgate/navgate/session"
)

// ErrUnauthorized matches any [*StatusError] carrying a 401.
var ErrUnauthorized = errors.New("api: unauthorized")

// ErrProtocol is returned when the backend answers 2xx with a body that
// does not decode as the expected envelope.
var ErrProtocol = errors.New("api: malformed response")

// StatusError is a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s", e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// LoginRequest carries the credentials for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup payload: a full user record plus the initial
// password. The password never appears anywhere else in this module.
type Registration struct {
	session.User
	Password string `json:"password"`
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the identity backend. It is stateless; cookies live in
// the http.Client's jar.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL. httpClient may be nil,
// in which case http.DefaultClient is used — note the default client has no
// cookie jar and therefore no credentials.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Me asks the identity endpoint who is acting. A (nil, nil) return is the
// backend's explicit "nobody" answer; an error is a transport or protocol
// failure and says nothing about session state.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return decodeUserData(env.Data)
}

// Refresh renews the caller's credential server-side. Success has no body
// contract beyond "it did not error"; the renewed credential arrives via
// Set-Cookie into the client's jar.
func (c *Client) Refresh(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/auth/refresh", nil)
	return err
}

// Login authenticates with email and password. When the backend includes
// the full user record in the response it is returned, letting the caller
// seed the session store without a redundant Me call; (nil, nil) means
// login succeeded but no record came back.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*session.User, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/login", req)
	if err != nil {
		return nil, err
	}
	return decodeUserData(env.Data)
}

// Register creates an account via the signup endpoint and returns the
// created record when the backend includes one.
func (c *Client) Register(ctx context.Context, reg Registration) (*session.User, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/signup", reg)
	if err != nil {
		return nil, err
	}
	return decodeUserData(env.Data)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    envelopeMessage(raw),
		}
	}

	env := &envelope{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
	}
	return env, nil
}

func decodeUserData(data json.RawMessage) (*session.User, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var u session.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if !u.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrProtocol, string(u.Role))
	}
	return &u, nil
}

func envelopeMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return env.Message
}
