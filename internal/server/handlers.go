package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roach88/boardflow/internal/auth"
	"github.com/roach88/boardflow/internal/backend"
	"github.com/roach88/boardflow/internal/board"
)

var (
	errMissingAuth   = errors.New("missing authorization header")
	errBadAuthFormat = errors.New("invalid authorization format")
)

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// storeError maps backend failures to status codes.
func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, backend.ErrNoSuchEntity) {
		httpError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("store operation failed", "op", op, "error", err)
	httpError(w, http.StatusInternalServerError, "storage error")
}

// pushSnapshot loads the user's boards and fans them out to websocket
// subscribers. Called after every committed write.
func (s *Server) pushSnapshot(userID string) {
	boards, err := s.store.BoardsForUser(context.Background(), userID)
	if err != nil {
		s.logger.Error("snapshot load failed", "user_id", userID, "error", err)
		return
	}
	payload, err := json.Marshal(snapshotMessage{Type: "snapshot", Boards: boards})
	if err != nil {
		s.logger.Error("snapshot encode failed", "user_id", userID, "error", err)
		return
	}
	s.hub.Push(userID, payload)
}

// snapshotMessage is the websocket frame pushed after each write.
type snapshotMessage struct {
	Type   string        `json:"type"`
	Boards []board.Board `json:"boards"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		httpError(w, http.StatusBadRequest, "email and a password of at least 8 characters are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hash failed", "error", err)
		httpError(w, http.StatusInternalServerError, "signup failed")
		return
	}
	userID, err := s.store.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		httpError(w, http.StatusConflict, "email already registered")
		return
	}
	token, err := s.sessions.IssueToken(userID)
	if err != nil {
		s.logger.Error("token issue failed", "error", err)
		httpError(w, http.StatusInternalServerError, "signup failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user_id": userID, "token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	userID, hash, err := s.store.UserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(hash, req.Password) {
		httpError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.sessions.IssueToken(userID)
	if err != nil {
		s.logger.Error("token issue failed", "error", err)
		httpError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user_id": userID, "token": token})
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.store.BoardsForUser(r.Context(), requestUser(r))
	if err != nil {
		s.storeError(w, "list boards", err)
		return
	}
	if boards == nil {
		boards = []board.Board{}
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	userID := requestUser(r)
	id, err := s.store.CreateBoard(r.Context(), req.Name, userID)
	if err != nil {
		s.storeError(w, "create board", err)
		return
	}
	s.committed(userID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleRenameBoard(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]
	var req struct {
		Name string `json:"name"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	userID, ok := s.authorizeBoard(w, r, boardID)
	if !ok {
		return
	}
	if err := s.store.RenameBoard(r.Context(), boardID, req.Name); err != nil {
		s.storeError(w, "rename board", err)
		return
	}
	s.committed(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]
	userID, ok := s.authorizeBoard(w, r, boardID)
	if !ok {
		return
	}
	if err := s.store.DeleteBoard(r.Context(), boardID); err != nil {
		s.storeError(w, "delete board", err)
		return
	}
	s.committed(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]
	var req struct {
		Name     string  `json:"name"`
		Position float64 `json:"position"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	userID, ok := s.authorizeBoard(w, r, boardID)
	if !ok {
		return
	}
	id, err := s.store.CreateColumn(r.Context(), boardID, req.Name, req.Position)
	if err != nil {
		s.storeError(w, "create column", err)
		return
	}
	s.committed(userID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	columnID := mux.Vars(r)["id"]
	var patch board.ColumnPatch
	if !readJSON(w, r, &patch) {
		return
	}
	userID, ok := s.authorizeColumn(w, r, columnID)
	if !ok {
		return
	}
	if err := s.store.UpdateColumn(r.Context(), columnID, patch); err != nil {
		s.storeError(w, "update column", err)
		return
	}
	s.committed(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	columnID := mux.Vars(r)["id"]
	userID, ok := s.authorizeColumn(w, r, columnID)
	if !ok {
		return
	}
	if err := s.store.DeleteColumn(r.Context(), columnID); err != nil {
		s.storeError(w, "delete column", err)
		return
	}
	s.committed(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	columnID := mux.Vars(r)["id"]
	var req struct {
		Title    string  `json:"title"`
		Position float64 `json:"position"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	userID, ok := s.authorizeColumn(w, r, columnID)
	if !ok {
		return
	}
	id, err := s.store.CreateCard(r.Context(), columnID, req.Title, req.Position)
	if err != nil {
		s.storeError(w, "create card", err)
		return
	}
	s.committed(userID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]
	var patch board.CardPatch
	if !readJSON(w, r, &patch) {
		return
	}
	userID, ok := s.authorizeCard(w, r, cardID)
	if !ok {
		return
	}
	if err := s.store.UpdateCard(r.Context(), cardID, patch); err != nil {
		s.storeError(w, "update card", err)
		return
	}
	s.committed(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]
	userID, ok := s.authorizeCard(w, r, cardID)
	if !ok {
		return
	}
	if err := s.store.DeleteCard(r.Context(), cardID); err != nil {
		s.storeError(w, "delete card", err)
		return
	}
	s.committed(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	userID, ok := s.authorizeBoard(w, r, boardID)
	if !ok {
		return
	}
	id, err := s.store.CreateLabel(r.Context(), boardID, req.Name, req.Color)
	if err != nil {
		s.storeError(w, "create label", err)
		return
	}
	s.committed(userID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	labelID := mux.Vars(r)["id"]
	userID, ok := s.authorizeLabel(w, r, labelID)
	if !ok {
		return
	}
	if err := s.store.DeleteLabel(r.Context(), labelID); err != nil {
		s.storeError(w, "delete label", err)
		return
	}
	s.committed(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssignLabel(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]
	var req struct {
		LabelID string `json:"label_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	userID, ok := s.authorizeCard(w, r, cardID)
	if !ok {
		return
	}
	if err := s.store.AssignLabel(r.Context(), cardID, req.LabelID); err != nil {
		s.storeError(w, "assign label", err)
		return
	}
	s.committed(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnassignLabel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cardID, labelID := vars["id"], vars["labelID"]
	userID, ok := s.authorizeCard(w, r, cardID)
	if !ok {
		return
	}
	if err := s.store.UnassignLabel(r.Context(), cardID, labelID); err != nil {
		s.storeError(w, "unassign label", err)
		return
	}
	s.committed(userID)
	w.WriteHeader(http.StatusNoContent)
}

// handleSubscribe upgrades to a websocket and registers the client for
// snapshot pushes. An initial snapshot is delivered on connect.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, err := s.sessions.VerifyToken(token)
	if err != nil {
		httpError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{hub: s.hub, conn: conn, send: make(chan []byte, 8), userID: userID}
	if !s.hub.subscribe(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()

	s.pushSnapshot(userID)
}

// committed fans a fresh snapshot out after a successful write. Done in
// a goroutine so slow subscribers never hold up the HTTP response.
func (s *Server) committed(userID string) {
	go s.pushSnapshot(userID)
}

// authorizeBoard checks the request's user owns the board.
func (s *Server) authorizeBoard(w http.ResponseWriter, r *http.Request, boardID string) (string, bool) {
	userID := requestUser(r)
	owner, err := s.store.OwnerOf(r.Context(), boardID)
	if err != nil {
		s.storeError(w, "authorize", err)
		return "", false
	}
	if owner != userID {
		httpError(w, http.StatusForbidden, "not your board")
		return "", false
	}
	return userID, true
}

func (s *Server) authorizeColumn(w http.ResponseWriter, r *http.Request, columnID string) (string, bool) {
	boardID, err := s.store.BoardOfColumn(r.Context(), columnID)
	if err != nil {
		s.storeError(w, "authorize", err)
		return "", false
	}
	return s.authorizeBoard(w, r, boardID)
}

func (s *Server) authorizeCard(w http.ResponseWriter, r *http.Request, cardID string) (string, bool) {
	boardID, err := s.store.BoardOfCard(r.Context(), cardID)
	if err != nil {
		s.storeError(w, "authorize", err)
		return "", false
	}
	return s.authorizeBoard(w, r, boardID)
}

func (s *Server) authorizeLabel(w http.ResponseWriter, r *http.Request, labelID string) (string, bool) {
	boardID, err := s.store.BoardOfLabel(r.Context(), labelID)
	if err != nil {
		s.storeError(w, "authorize", err)
		return "", false
	}
	return s.authorizeBoard(w, r, boardID)
}
