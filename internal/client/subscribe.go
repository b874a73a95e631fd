package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/roach88/boardflow/internal/board"
)

// SnapshotFunc receives each pushed boards-for-user snapshot, including
// the initial one delivered on connect. Typically this is the
// coordinator's ApplySnapshot.
type SnapshotFunc func(boards []board.Board)

// Subscribe opens the server's websocket and invokes fn for every
// snapshot frame until the context is cancelled or the connection
// drops. It blocks; run it in its own goroutine.
func (c *Client) Subscribe(ctx context.Context, fn SnapshotFunc, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	wsURL, err := c.websocketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial subscription: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read subscription: %w", err)
		}

		var msg struct {
			Type   string        `json:"type"`
			Boards []board.Board `json:"boards"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Warn("discarding malformed snapshot frame", "error", err)
			continue
		}
		if msg.Type != "snapshot" {
			logger.Debug("ignoring frame", "type", msg.Type)
			continue
		}
		fn(msg.Boards)
	}
}

// websocketURL derives ws(s)://.../api/ws?token=... from the base URL.
func (c *Client) websocketURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/ws"
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
