// Package client is the HTTP and websocket transport for a board
// session: it implements the coordinator's remote surface against the
// reference server and feeds pushed snapshots back into it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/roach88/boardflow/internal/board"
)

// Client talks to a boardflow server with a bearer session token.
// The zero value is not usable; construct with New.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New creates a client for the server at baseURL (no trailing slash).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token.
func (c *Client) Token() string { return c.token }

// SetToken installs a session token obtained elsewhere.
func (c *Client) SetToken(token string) { c.token = token }

// Signup registers a new account and installs the session token.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/api/auth/signup", email, password)
}

// Login authenticates an existing account and installs the session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (string, error) {
	var resp struct {
		UserID string `json:"user_id"`
		Token  string `json:"token"`
	}
	err := c.do(ctx, "POST", path, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.UserID, nil
}

// Boards fetches the caller's full snapshot.
func (c *Client) Boards(ctx context.Context) ([]board.Board, error) {
	var boards []board.Board
	if err := c.do(ctx, "GET", "/api/boards", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// CreateBoard creates a board. The owner is the session user; the
// ownerID argument exists to satisfy the remote surface and is ignored.
func (c *Client) CreateBoard(ctx context.Context, name, _ string) (string, error) {
	return c.create(ctx, "/api/boards", map[string]any{"name": name})
}

func (c *Client) UpdateBoard(ctx context.Context, id, name string) error {
	return c.do(ctx, "PATCH", "/api/boards/"+id, map[string]any{"name": name}, nil)
}

func (c *Client) DeleteBoard(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/boards/"+id, nil, nil)
}

func (c *Client) CreateColumn(ctx context.Context, boardID, name string, pos float64) (string, error) {
	return c.create(ctx, "/api/boards/"+boardID+"/columns", map[string]any{
		"name":     name,
		"position": pos,
	})
}

func (c *Client) UpdateColumn(ctx context.Context, id string, patch board.ColumnPatch) error {
	return c.do(ctx, "PATCH", "/api/columns/"+id, patch, nil)
}

func (c *Client) DeleteColumn(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/columns/"+id, nil, nil)
}

func (c *Client) CreateCard(ctx context.Context, columnID, title string, pos float64) (string, error) {
	return c.create(ctx, "/api/columns/"+columnID+"/cards", map[string]any{
		"title":    title,
		"position": pos,
	})
}

func (c *Client) UpdateCard(ctx context.Context, id string, patch board.CardPatch) error {
	return c.do(ctx, "PATCH", "/api/cards/"+id, patch, nil)
}

func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/cards/"+id, nil, nil)
}

func (c *Client) CreateLabel(ctx context.Context, boardID, name, color string) (string, error) {
	return c.create(ctx, "/api/boards/"+boardID+"/labels", map[string]any{
		"name":  name,
		"color": color,
	})
}

func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/labels/"+id, nil, nil)
}

func (c *Client) AssignLabel(ctx context.Context, cardID, labelID string) error {
	return c.do(ctx, "POST", "/api/cards/"+cardID+"/labels", map[string]any{
		"label_id": labelID,
	}, nil)
}

func (c *Client) UnassignLabel(ctx context.Context, cardID, labelID string) error {
	return c.do(ctx, "DELETE", "/api/cards/"+cardID+"/labels/"+labelID, nil, nil)
}

// create posts a creation request and returns the server-issued id.
func (c *Client) create(ctx context.Context, path string, body any) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, "POST", path, body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// StatusError is a non-2xx server response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// do issues one JSON request. A non-2xx status becomes a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
