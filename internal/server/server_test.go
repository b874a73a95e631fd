package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/boardflow/internal/auth"
	"github.com/roach88/boardflow/internal/backend"
	"github.com/roach88/boardflow/internal/board"
)

// testServer boots the full stack against a temp sqlite file.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := backend.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := New(store, auth.NewService("test-secret"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// signup registers a user and returns the session token.
func signup(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	var resp map[string]string
	doJSON(t, ts, "POST", "/api/auth/signup", "",
		map[string]string{"email": email, "password": "hunter2222"},
		http.StatusCreated, &resp)
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

// doJSON issues a request and decodes the response when out is non-nil.
func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any, wantStatus int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out))
	}
}

func TestSignupAndLogin(t *testing.T) {
	ts := testServer(t)
	signup(t, ts, "u@example.com")

	var resp map[string]string
	doJSON(t, ts, "POST", "/api/auth/login", "",
		map[string]string{"email": "u@example.com", "password": "hunter2222"},
		http.StatusOK, &resp)
	assert.NotEmpty(t, resp["token"])

	doJSON(t, ts, "POST", "/api/auth/login", "",
		map[string]string{"email": "u@example.com", "password": "wrong"},
		http.StatusUnauthorized, nil)
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	ts := testServer(t)
	doJSON(t, ts, "POST", "/api/auth/signup", "",
		map[string]string{"email": "u@example.com", "password": "short"},
		http.StatusBadRequest, nil)
}

func TestMutations_RequireSession(t *testing.T) {
	ts := testServer(t)

	doJSON(t, ts, "GET", "/api/boards", "", nil, http.StatusUnauthorized, nil)
	doJSON(t, ts, "POST", "/api/boards", "", map[string]string{"name": "x"},
		http.StatusUnauthorized, nil)
	doJSON(t, ts, "POST", "/api/boards", "garbage-token",
		map[string]string{"name": "x"}, http.StatusUnauthorized, nil)
}

func TestBoardLifecycleOverHTTP(t *testing.T) {
	ts := testServer(t)
	token := signup(t, ts, "u@example.com")

	var created map[string]string
	doJSON(t, ts, "POST", "/api/boards", token,
		map[string]string{"name": "sprint"}, http.StatusCreated, &created)
	boardID := created["id"]
	require.NotEmpty(t, boardID)

	var col map[string]string
	doJSON(t, ts, "POST", "/api/boards/"+boardID+"/columns", token,
		map[string]any{"name": "todo", "position": 1000.0}, http.StatusCreated, &col)
	var card map[string]string
	doJSON(t, ts, "POST", "/api/columns/"+col["id"]+"/cards", token,
		map[string]any{"title": "write tests", "position": 1000.0}, http.StatusCreated, &card)

	var label map[string]string
	doJSON(t, ts, "POST", "/api/boards/"+boardID+"/labels", token,
		map[string]string{"name": "urgent", "color": "#ff0000"}, http.StatusCreated, &label)
	doJSON(t, ts, "POST", "/api/cards/"+card["id"]+"/labels", token,
		map[string]string{"label_id": label["id"]}, http.StatusNoContent, nil)

	var boards []board.Board
	doJSON(t, ts, "GET", "/api/boards", token, nil, http.StatusOK, &boards)
	require.Len(t, boards, 1)
	require.Len(t, boards[0].Columns, 1)
	require.Len(t, boards[0].Columns[0].Cards, 1)
	got := boards[0].Columns[0].Cards[0]
	assert.Equal(t, "write tests", got.Title)
	require.Len(t, got.Labels, 1)
	assert.Equal(t, "urgent", got.Labels[0].Label.Name)

	doJSON(t, ts, "DELETE", "/api/boards/"+boardID, token, nil, http.StatusNoContent, nil)
	doJSON(t, ts, "GET", "/api/boards", token, nil, http.StatusOK, &boards)
	assert.Empty(t, boards)
}

func TestUpdateCard_PatchOverHTTP(t *testing.T) {
	ts := testServer(t)
	token := signup(t, ts, "u@example.com")

	var created map[string]string
	doJSON(t, ts, "POST", "/api/boards", token,
		map[string]string{"name": "b"}, http.StatusCreated, &created)
	var col map[string]string
	doJSON(t, ts, "POST", "/api/boards/"+created["id"]+"/columns", token,
		map[string]any{"name": "todo", "position": 1000.0}, http.StatusCreated, &col)
	var card map[string]string
	doJSON(t, ts, "POST", "/api/columns/"+col["id"]+"/cards", token,
		map[string]any{"title": "t", "position": 1000.0}, http.StatusCreated, &card)

	due := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	doJSON(t, ts, "PATCH", "/api/cards/"+card["id"], token,
		map[string]any{"title": "t2", "due_date": due.Format(time.RFC3339)},
		http.StatusNoContent, nil)

	var boards []board.Board
	doJSON(t, ts, "GET", "/api/boards", token, nil, http.StatusOK, &boards)
	got := boards[0].Columns[0].Cards[0]
	assert.Equal(t, "t2", got.Title)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	doJSON(t, ts, "PATCH", "/api/cards/"+card["id"], token,
		map[string]any{"clear_due_date": true}, http.StatusNoContent, nil)
	boards = nil
	doJSON(t, ts, "GET", "/api/boards", token, nil, http.StatusOK, &boards)
	assert.Nil(t, boards[0].Columns[0].Cards[0].DueDate)
}

func TestOwnership_Forbidden(t *testing.T) {
	ts := testServer(t)
	owner := signup(t, ts, "owner@example.com")
	intruder := signup(t, ts, "intruder@example.com")

	var created map[string]string
	doJSON(t, ts, "POST", "/api/boards", owner,
		map[string]string{"name": "mine"}, http.StatusCreated, &created)

	doJSON(t, ts, "PATCH", "/api/boards/"+created["id"], intruder,
		map[string]string{"name": "stolen"}, http.StatusForbidden, nil)
	doJSON(t, ts, "DELETE", "/api/boards/"+created["id"], intruder, nil,
		http.StatusForbidden, nil)

	// The board is untouched.
	var boards []board.Board
	doJSON(t, ts, "GET", "/api/boards", owner, nil, http.StatusOK, &boards)
	require.Len(t, boards, 1)
	assert.Equal(t, "mine", boards[0].Name)
}

func TestMutation_UnknownEntity404(t *testing.T) {
	ts := testServer(t)
	token := signup(t, ts, "u@example.com")

	doJSON(t, ts, "PATCH", "/api/cards/ghost", token,
		map[string]string{"title": "x"}, http.StatusNotFound, nil)
	doJSON(t, ts, "DELETE", "/api/columns/ghost", token, nil, http.StatusNotFound, nil)
}

func TestWebsocket_PushesSnapshotAfterWrite(t *testing.T) {
	ts := testServer(t)
	token := signup(t, ts, "u@example.com")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Initial snapshot on connect.
	var initial snapshotMessage
	readFrame(t, conn, &initial)
	assert.Equal(t, "snapshot", initial.Type)
	assert.Empty(t, initial.Boards)

	doJSON(t, ts, "POST", "/api/boards", token,
		map[string]string{"name": "pushed"}, http.StatusCreated, nil)

	var after snapshotMessage
	readFrame(t, conn, &after)
	require.Len(t, after.Boards, 1)
	assert.Equal(t, "pushed", after.Boards[0].Name)
}

func TestWebsocket_ScopedToUser(t *testing.T) {
	ts := testServer(t)
	alice := signup(t, ts, "alice@example.com")
	bob := signup(t, ts, "bob@example.com")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws?token=" + alice
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var initial snapshotMessage
	readFrame(t, conn, &initial)

	// Bob's write must not reach Alice's subscription.
	doJSON(t, ts, "POST", "/api/boards", bob,
		map[string]string{"name": "bobs"}, http.StatusCreated, nil)

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "no frame should arrive for another user's write")
}

func TestWebsocket_RejectsBadToken(t *testing.T) {
	ts := testServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws?token=bad"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestClose_DisconnectsSubscribersAndStopsPushes(t *testing.T) {
	store, err := backend.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := New(store, auth.NewService("test-secret"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	token := signup(t, ts, "u@example.com")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	var initial snapshotMessage
	readFrame(t, conn, &initial)

	srv.Close()

	// The hub closes the subscriber's send channel; its write pump sends
	// a close frame and reads fail promptly.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// Pushes against a closed hub return instead of blocking forever.
	pushed := make(chan struct{})
	go func() {
		srv.hub.Push("anyone", []byte("{}"))
		close(pushed)
	}()
	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("Push blocked after Close")
	}

	// A subscription arriving after Close is shut down, not parked on a
	// dead register channel. The upgrade handshake may still complete;
	// the connection must then die.
	if conn2, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		conn2.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, readErr := conn2.ReadMessage()
		assert.Error(t, readErr, "post-close subscription must be closed")
		conn2.Close()
	}
}

// readFrame reads one websocket frame with a deadline.
func readFrame(t *testing.T, conn *websocket.Conn, out *snapshotMessage) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "frame: %s", raw)
}
