// Package transport is a reference transport adapter exercising the
// command surface (§6.1) and event surface (§6.3) over HTTP and SSE. It
// satisfies the transport contract of §6.4 without being part of the
// core: authentication, JSON encoding, and SSE framing are all owned
// here, not by internal/controller.
package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/oakwood/tworooms/internal/controller"
	"github.com/oakwood/tworooms/internal/eventbus"
	"github.com/oakwood/tworooms/internal/model"
	"github.com/oakwood/tworooms/internal/store"
	"github.com/oakwood/tworooms/internal/telemetry"
)

// sessionCookie carries a player's connection token, satisfying §6.4(a):
// a connection must be authenticated to a (gameId, playerId) pair before
// any command is forwarded.
const sessionCookie = "tworooms_session"

// Server wires the Controller into chi routes.
type Server struct {
	ctrl  *controller.Controller
	store *store.Store
	log   controller.Logger
}

// New returns a Server backed by ctrl.
func New(ctrl *controller.Controller, st *store.Store, log controller.Logger) *Server {
	return &Server{ctrl: ctrl, store: st, log: log}
}

// Routes mounts every endpoint this adapter exposes onto r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health/live", s.handleLive)
	r.Get("/health/ready", s.handleReady)

	r.Post("/games", s.handleCreateGame)
	r.Post("/games/{code}/join", s.handleJoinGame)
	r.Post("/games/{gameID}/commands", s.handleSubmitCommand)
	r.Get("/games/{gameID}/events", s.handleStreamEvents)
	r.Post("/games/{gameID}/reconnect", s.handleReconnect)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("store not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type createGameRequest struct {
	HostName string `json:"hostName"`
}

type gameEnvelope struct {
	GameID   string `json:"gameId"`
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := s.ctrl.CreateGame(req.HostName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hostID := g.HostID()
	s.issueSession(w, g.ID, hostID)
	writeJSON(w, http.StatusCreated, gameEnvelope{GameID: g.ID, Code: g.Code, PlayerID: hostID})
}

type joinGameRequest struct {
	PlayerName string `json:"playerName"`
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, p, err := s.ctrl.JoinGame(code, req.PlayerName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.issueSession(w, g.ID, p.ID)
	writeJSON(w, http.StatusOK, gameEnvelope{GameID: g.ID, Code: g.Code, PlayerID: p.ID})
}

// issueSession mints a connection token and immediately records it via
// Reconnect, so the very first subscription already has a token to
// present (§6.4's authentication requirement applies from the first
// connection, not only re-connections).
func (s *Server) issueSession(w http.ResponseWriter, gameID, playerID string) {
	token := uuid.NewString()
	if err := s.ctrl.Reconnect(gameID, playerID, token); err != nil {
		if s.log != nil {
			s.log.Warnw("transport: failed to record initial session", "gameId", gameID, "playerId", playerID, "err", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    gameID + ":" + playerID + ":" + token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

var errBadSession = errors.New("transport: missing or invalid session")

// authenticate implements §6.4(a): it resolves the session cookie to a
// (gameId, playerId) pair and checks the carried token against the
// player's current ConnectionToken before any command is forwarded.
func (s *Server) authenticate(r *http.Request, gameID string) (*model.Game, string, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, "", errBadSession
	}
	gid, pid, token, ok := splitSession(c.Value)
	if !ok || gid != gameID {
		return nil, "", errBadSession
	}

	g, err := s.store.GetByID(gameID)
	if err != nil {
		return nil, "", err
	}
	p, ok := g.Players[pid]
	if !ok || p.ConnectionToken != token {
		return nil, "", errBadSession
	}
	return g, pid, nil
}

func splitSession(v string) (gameID, playerID, token string, ok bool) {
	parts := strings.SplitN(v, ":", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

type submitCommandRequest struct {
	Type    controller.CommandType `json:"type"`
	Payload map[string]any         `json:"payload"`
}

func (s *Server) handleSubmitCommand(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	_, playerID, err := s.authenticate(r, gameID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req submitCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := controller.Command{
		Type:      req.Type,
		PlayerID:  playerID,
		Payload:   req.Payload,
		Timestamp: time.Now(),
	}

	start := time.Now()
	res := s.ctrl.Submit(gameID, cmd)
	outcome := "accepted"
	if !res.OK {
		outcome = "denied"
	}
	telemetry.CommandsTotal.WithLabelValues(string(req.Type), outcome).Inc()
	telemetry.CommandProcessingDuration.WithLabelValues(string(req.Type)).Observe(time.Since(start).Seconds())

	if !res.OK {
		writeJSON(w, http.StatusUnprocessableEntity, res.Err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payload": res.Payload, "warnings": res.Warnings})
}

func (s *Server) handleReconnect(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	c, err := r.Cookie(sessionCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, errBadSession.Error())
		return
	}
	gid, pid, _, ok := splitSession(c.Value)
	if !ok || gid != gameID {
		writeError(w, http.StatusUnauthorized, errBadSession.Error())
		return
	}

	s.issueSession(w, gameID, pid)
	writeJSON(w, http.StatusOK, map[string]any{"playerId": pid})
}

// wireEvent is the transport-level projection of model.Event, matching
// the field names of §6.3's `{type, payload, timestamp, sequenceNumber}`.
type wireEvent struct {
	Type           model.EventType `json:"type"`
	Payload        any             `json:"payload"`
	Timestamp      time.Time       `json:"timestamp"`
	SequenceNumber int64           `json:"sequenceNumber"`
}

// handleStreamEvents opens a datastar SSE stream and pushes every event
// the bus delivers to this subscriber, live or replayed, as a signals
// patch keyed under "event" (§6.3, §6.4(b)/(c)). The query parameter
// "acked" conveys the client's highest acknowledged sequence number;
// omitting it replays the whole retained journal.
func (s *Server) handleStreamEvents(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	_, playerID, err := s.authenticate(r, gameID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var acked int64
	if raw := r.URL.Query().Get("acked"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "acked must be an integer")
			return
		}
		acked = v
	}

	sub := &eventbus.Subscriber{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		Events:   make(chan model.Event, 256),
		Done:     make(chan struct{}),
	}

	if err := s.ctrl.Subscribe(gameID, sub, acked); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer s.ctrl.Unsubscribe(gameID, sub.ID)

	telemetry.SubscribersActive.Inc()
	defer telemetry.SubscribersActive.Dec()

	sse := datastar.NewSSE(w, r)

	for {
		select {
		case <-r.Context().Done():
			_ = s.ctrl.Disconnect(gameID, playerID)
			return
		case <-sub.Done:
			return
		case ev, ok := <-sub.Events:
			if !ok {
				return
			}
			telemetry.EventsPublishedTotal.WithLabelValues(string(ev.Type)).Inc()
			wire := wireEvent{Type: ev.Type, Payload: ev.Payload, Timestamp: ev.Timestamp, SequenceNumber: ev.Sequence}
			if err := sse.MarshalAndPatchSignals(map[string]any{"event": wire}); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
