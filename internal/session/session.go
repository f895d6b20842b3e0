// Package session owns the mutable state of one play-through of a level.
package session

import (
	"errors"
	"fmt"

	"svw.info/seating/internal/domain"
	"svw.info/seating/internal/topology"
	"svw.info/seating/internal/validator"
)

var (
	ErrSeatOccupied     = errors.New("seat already taken")
	ErrUnknownSeat      = errors.New("unknown seat")
	ErrUnknownCharacter = errors.New("unknown character")
	ErrUnknownAction    = errors.New("unknown action")
)

// Outcome of a Check.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeNotSeated Outcome = "not_seated"
	OutcomeConflicts Outcome = "conflicts"
	OutcomeSolved    Outcome = "solved"
)

// Session is not safe for concurrent use; Registry serialises access.
type Session struct {
	ID     string
	Player string
	Level  *domain.Level

	seats      []domain.Seat
	seatIndex  map[string]bool
	assignment domain.Assignment
	selected   string
	conflicts  []string
	solved     bool
}

// State is a copy of the session safe to hand to callers.
type State struct {
	ID         string            `json:"id"`
	LevelID    int               `json:"levelId"`
	Seats      []domain.Seat     `json:"seats"`
	Assignment domain.Assignment `json:"assignment"`
	Selected   string            `json:"selected,omitempty"`
	Conflicts  []string          `json:"conflicts"`
	Complete   bool              `json:"complete"`
	Solved     bool              `json:"solved"`
}

func New(id, player string, lvl *domain.Level) *Session {
	s := &Session{ID: id, Player: player, Level: lvl}
	s.seats = topology.BuildSeats(lvl.SeatCount, lvl.Layout)
	s.seatIndex = make(map[string]bool, len(s.seats))
	for _, seat := range s.seats {
		s.seatIndex[seat.ID] = true
	}
	s.Reset()
	return s
}

// Reset empties every seat and clears selection and conflicts.
func (s *Session) Reset() {
	s.assignment = domain.NewAssignment(s.seats)
	s.selected = ""
	s.touch()
}

func (s *Session) touch() {
	s.conflicts = []string{}
	s.solved = false
}

// ClickCharacter unseats a seated character, otherwise toggles its selection.
func (s *Session) ClickCharacter(id string) error {
	if _, ok := s.Level.Character(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCharacter, id)
	}
	if seat, ok := s.assignment.SeatOf(id); ok {
		s.assignment[seat] = ""
		s.selected = ""
		s.touch()
		return nil
	}
	if s.selected == id {
		s.selected = ""
	} else {
		s.selected = id
	}
	s.conflicts = []string{}
	return nil
}

// ClickSeat seats the selected character, or sends the occupant back to the pool
// when nothing is selected.
func (s *Session) ClickSeat(seatID string) error {
	if !s.seatIndex[seatID] {
		return fmt.Errorf("%w: %q", ErrUnknownSeat, seatID)
	}
	if s.selected == "" {
		return s.Unseat(seatID)
	}
	if s.assignment[seatID] != "" {
		return ErrSeatOccupied
	}
	s.assignment[seatID] = s.selected
	s.selected = ""
	s.touch()
	return nil
}

// Place seats characterID on seatID, moving it if it already sits elsewhere.
func (s *Session) Place(characterID, seatID string) error {
	if !s.seatIndex[seatID] {
		return fmt.Errorf("%w: %q", ErrUnknownSeat, seatID)
	}
	if _, ok := s.Level.Character(characterID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCharacter, characterID)
	}
	occupant := s.assignment[seatID]
	if occupant == characterID {
		return nil
	}
	if occupant != "" {
		return ErrSeatOccupied
	}
	if prev, ok := s.assignment.SeatOf(characterID); ok {
		s.assignment[prev] = ""
	}
	s.assignment[seatID] = characterID
	if s.selected == characterID {
		s.selected = ""
	}
	s.touch()
	return nil
}

// Unseat empties seatID. Empty seats are left alone.
func (s *Session) Unseat(seatID string) error {
	if !s.seatIndex[seatID] {
		return fmt.Errorf("%w: %q", ErrUnknownSeat, seatID)
	}
	if s.assignment[seatID] == "" {
		return nil
	}
	s.assignment[seatID] = ""
	s.touch()
	return nil
}

// Check requires everyone seated before rules are validated.
func (s *Session) Check() Outcome {
	if !validator.IsComplete(s.assignment, s.Level.Characters) {
		return OutcomeNotSeated
	}
	res := validator.Validate(s.assignment, s.Level.Characters, s.seats)
	if !res.Valid {
		s.conflicts = res.Conflicts
		return OutcomeConflicts
	}
	s.solved = true
	return OutcomeSolved
}

// Assignment returns a snapshot of the current seating.
func (s *Session) Assignment() domain.Assignment { return s.assignment.Clone() }

func (s *Session) Seats() []domain.Seat { return s.seats }

func (s *Session) State() State {
	conflicts := make([]string, len(s.conflicts))
	copy(conflicts, s.conflicts)
	return State{
		ID:         s.ID,
		LevelID:    s.Level.ID,
		Seats:      s.seats,
		Assignment: s.assignment.Clone(),
		Selected:   s.selected,
		Conflicts:  conflicts,
		Complete:   validator.IsComplete(s.assignment, s.Level.Characters),
		Solved:     s.solved,
	}
}
