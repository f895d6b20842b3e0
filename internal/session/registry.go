package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"svw.info/seating/internal/domain"
)

// ErrNotFound is returned for unknown or closed session ids.
var ErrNotFound = errors.New("session not found")

// Action is one player interaction, as sent by the adapters.
type Action struct {
	Type        string `json:"type"` // select|seat|place|unseat|reset|check
	CharacterID string `json:"characterId,omitempty"`
	SeatID      string `json:"seatId,omitempty"`
}

// Apply dispatches a to the matching operation. Only "check" yields an outcome.
func (s *Session) Apply(a Action) (Outcome, error) {
	switch a.Type {
	case "select":
		return OutcomeNone, s.ClickCharacter(a.CharacterID)
	case "seat":
		return OutcomeNone, s.ClickSeat(a.SeatID)
	case "place":
		return OutcomeNone, s.Place(a.CharacterID, a.SeatID)
	case "unseat":
		return OutcomeNone, s.Unseat(a.SeatID)
	case "reset":
		s.Reset()
		return OutcomeNone, nil
	case "check":
		return s.Check(), nil
	}
	return OutcomeNone, ErrUnknownAction
}

// Registry keeps live sessions by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Open starts a fresh session for player on lvl.
func (r *Registry) Open(player string, lvl *domain.Level) State {
	s := New(uuid.NewString(), player, lvl)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return s.State()
}

// With runs fn on the session while holding the registry lock.
func (r *Registry) With(id string, fn func(*Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	return fn(s)
}

// Close forgets a session; partial seating is not kept.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
