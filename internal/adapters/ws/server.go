// Package ws serves one live seating session per WebSocket connection.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"svw.info/seating/internal/domain"
	"svw.info/seating/internal/session"
	"svw.info/seating/internal/usecase"
)

const (
	TypeStart = "start"
	TypeAct   = "act"
	TypeHint  = "hint"

	TypeState = "state"
	TypeHints = "hints"
	TypeError = "error"
)

// InMsg is a client frame. Start carries LevelID/Player, act carries Action.
type InMsg struct {
	Type    string          `json:"type"`
	LevelID int             `json:"levelId,omitempty"`
	Player  string          `json:"player,omitempty"`
	Action  *session.Action `json:"action,omitempty"`
	Locale  string          `json:"locale,omitempty"`
}

type OutMsg struct {
	Type    string          `json:"type"`
	State   *session.State  `json:"state,omitempty"`
	Outcome session.Outcome `json:"outcome,omitempty"`
	Message string          `json:"message,omitempty"`
	NextID  int             `json:"nextLevelId,omitempty"`
	Hints   []domain.Hint   `json:"hints,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// connState is the per-connection state shared by the reader loop.
type connState struct {
	sessionID string
	// locale comes from the upgrade request's Accept-Language; frames may override it.
	locale string
}

func (c connState) localeFor(msg InMsg) string {
	if msg.Locale != "" {
		return msg.Locale
	}
	return c.locale
}

type Server struct {
	uc  *usecase.Service
	log *slog.Logger

	upgrader websocket.Upgrader
}

func NewServer(uc *usecase.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		uc:  uc,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		cs := connState{locale: r.Header.Get("Accept-Language")}
		cs.sessionID = s.handshake(ctx, conn, cs)
		if cs.sessionID == "" {
			return
		}
		defer s.uc.EndSession(cs.sessionID)

		out := make(chan OutMsg, 8)

		// Writer goroutine.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case <-ctx.Done():
					return
				case m := <-out:
					if err := writeJSON(conn, m); err != nil {
						cancel()
						_ = conn.Close()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg InMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				s.send(ctx, out, OutMsg{Type: TypeError, Error: "invalid JSON"})
				continue
			}
			s.send(ctx, out, s.dispatch(ctx, cs, msg))
		}
		cancel()
		<-done
	}
}

func (s *Server) send(ctx context.Context, out chan<- OutMsg, m OutMsg) {
	select {
	case out <- m:
	case <-ctx.Done():
	}
}

func (s *Server) dispatch(ctx context.Context, cs connState, msg InMsg) OutMsg {
	locale := cs.localeFor(msg)
	switch msg.Type {
	case TypeAct:
		if msg.Action == nil {
			return OutMsg{Type: TypeError, Error: "act without action"}
		}
		res, err := s.uc.Act(ctx, cs.sessionID, locale, *msg.Action)
		if err != nil {
			return OutMsg{Type: TypeError, Error: err.Error(), Message: s.uc.Describe(locale, err)}
		}
		return OutMsg{Type: TypeState, State: &res.State, Outcome: res.Outcome, Message: res.Message, NextID: res.NextID}
	case TypeHint:
		hs, err := s.uc.Hints(ctx, cs.sessionID, locale)
		if err != nil {
			return OutMsg{Type: TypeError, Error: err.Error()}
		}
		if hs == nil {
			hs = []domain.Hint{}
		}
		return OutMsg{Type: TypeHints, Hints: hs}
	}
	return OutMsg{Type: TypeError, Error: "unknown message type " + msg.Type}
}

// handshake expects a start frame and answers it with the initial state.
func (s *Server) handshake(ctx context.Context, conn *websocket.Conn, cs connState) string {
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return ""
	}
	var start InMsg
	if err := json.Unmarshal(raw, &start); err != nil || start.Type != TypeStart {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected start"), time.Now().Add(time.Second))
		return ""
	}
	player := start.Player
	if player == "" {
		player = "local"
	}
	st, err := s.uc.StartSession(ctx, player, start.LevelID)
	if err != nil {
		_ = writeJSON(conn, OutMsg{Type: TypeError, Error: err.Error(), Message: s.uc.Describe(cs.localeFor(start), err)})
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "cannot start"), time.Now().Add(time.Second))
		return ""
	}
	if err := writeJSON(conn, OutMsg{Type: TypeState, State: &st}); err != nil {
		s.uc.EndSession(st.ID)
		return ""
	}
	s.log.Debug("ws session started", "session", st.ID, "player", player, "level", start.LevelID)
	return st.ID
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
