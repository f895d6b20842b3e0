package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"svw.info/seating/internal/domain"
	"svw.info/seating/internal/i18n"
	"svw.info/seating/internal/ports"
	"svw.info/seating/internal/session"
	"svw.info/seating/internal/topology"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrLevelLocked   = errors.New("level is locked")
)

var errNotConfigured = errors.New("usecase dependency not configured")

type Service struct {
	Validator ports.Validator
	Catalog   ports.LevelCatalog
	Store     ports.ProgressStore
	Hinter    ports.Hinter
	Messages  ports.Messages
	Sessions  *session.Registry
	Log       *slog.Logger

	now func() time.Time
}

func NewService(v ports.Validator, c ports.LevelCatalog, p ports.ProgressStore, h ports.Hinter, m ports.Messages, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Validator: v, Catalog: c, Store: p, Hinter: h, Messages: m, Sessions: session.NewRegistry(), Log: logger, now: time.Now}
}

// LevelView is a level together with its generated seats.
type LevelView struct {
	Level *domain.Level `json:"level"`
	Seats []domain.Seat `json:"seats"`
}

// CheckResult is a stateless validation of a submitted assignment.
type CheckResult struct {
	domain.Result
	Complete bool `json:"complete"`
}

// ActResult is the session state after one action. Message is set for check outcomes.
type ActResult struct {
	State   session.State   `json:"state"`
	Outcome session.Outcome `json:"outcome,omitempty"`
	Message string          `json:"message,omitempty"`
	NextID  int             `json:"nextLevelId,omitempty"`
}

func (u *Service) level(id int) (*domain.Level, error) {
	if u.Catalog == nil {
		return nil, errNotConfigured
	}
	lvl, ok := u.Catalog.Level(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrLevelNotFound, id)
	}
	return lvl, nil
}

// Levels lists the catalog with the player's unlocked/completed flags.
func (u *Service) Levels(ctx context.Context, player string) ([]domain.LevelMeta, error) {
	if u.Catalog == nil || u.Store == nil {
		return nil, errNotConfigured
	}
	p, err := u.Store.Load(ctx, player)
	if err != nil {
		return nil, err
	}
	metas := u.Catalog.List()
	for i := range metas {
		metas[i].Unlocked = p.IsUnlocked(metas[i].ID)
		metas[i].Completed = p.IsCompleted(metas[i].ID)
	}
	return metas, nil
}

// Level returns a copy of the level with character names resolved for locale.
func (u *Service) Level(ctx context.Context, id int, locale string) (LevelView, error) {
	lvl, err := u.level(id)
	if err != nil {
		return LevelView{}, err
	}
	view := *lvl
	view.Characters = make([]domain.Character, len(lvl.Characters))
	copy(view.Characters, lvl.Characters)
	if u.Messages != nil {
		for i := range view.Characters {
			view.Characters[i].Name = u.Messages.CharacterName(locale, view.Characters[i])
		}
	}
	return LevelView{Level: &view, Seats: topology.BuildSeats(lvl.SeatCount, lvl.Layout)}, nil
}

// Validate checks an assignment without touching any session or progress.
func (u *Service) Validate(ctx context.Context, levelID int, a domain.Assignment) (CheckResult, error) {
	if u.Validator == nil {
		return CheckResult{}, errNotConfigured
	}
	lvl, err := u.level(levelID)
	if err != nil {
		return CheckResult{}, err
	}
	seats := topology.BuildSeats(lvl.SeatCount, lvl.Layout)
	res, complete, err := u.Validator.Validate(ctx, lvl, seats, a)
	if err != nil {
		return CheckResult{}, err
	}
	return CheckResult{Result: res, Complete: complete}, nil
}

// StartSession opens a play-through of an unlocked level.
func (u *Service) StartSession(ctx context.Context, player string, levelID int) (session.State, error) {
	if u.Store == nil {
		return session.State{}, errNotConfigured
	}
	lvl, err := u.level(levelID)
	if err != nil {
		return session.State{}, err
	}
	p, err := u.Store.Load(ctx, player)
	if err != nil {
		return session.State{}, err
	}
	if !p.IsUnlocked(levelID) {
		return session.State{}, fmt.Errorf("%w: %d", ErrLevelLocked, levelID)
	}
	st := u.Sessions.Open(player, lvl)
	u.Log.Debug("session opened", "session", st.ID, "player", player, "level", levelID)
	return st, nil
}

// Act applies one player action. A successful check records the level as completed.
func (u *Service) Act(ctx context.Context, sessionID, locale string, a session.Action) (ActResult, error) {
	if u.Catalog == nil {
		return ActResult{}, errNotConfigured
	}
	var (
		out     ActResult
		player  string
		lvlID   int
		lvlName string
	)
	err := u.Sessions.With(sessionID, func(s *session.Session) error {
		outcome, err := s.Apply(a)
		if err != nil {
			return err
		}
		out = ActResult{State: s.State(), Outcome: outcome}
		player, lvlID, lvlName = s.Player, s.Level.ID, s.Level.Name
		return nil
	})
	if err != nil {
		return ActResult{}, err
	}
	switch out.Outcome {
	case session.OutcomeNotSeated:
		out.Message = u.text(locale, i18n.KeyNotSeated)
	case session.OutcomeConflicts:
		out.Message = u.text(locale, i18n.KeyConflicts)
	case session.OutcomeSolved:
		out.Message = u.text(locale, i18n.KeySolved, lvlName)
	}
	if out.Outcome != session.OutcomeSolved {
		return out, nil
	}
	if err := u.complete(ctx, player, lvlID); err != nil {
		return ActResult{}, err
	}
	if next, ok := u.Catalog.Next(lvlID); ok {
		out.NextID = next.ID
	}
	u.Log.Info("level solved", "session", sessionID, "player", player, "level", lvlID)
	return out, nil
}

func (u *Service) text(locale, key string, args ...any) string {
	if u.Messages == nil {
		return ""
	}
	return u.Messages.Text(locale, key, args...)
}

// Describe renders err for the player. Errors without a catalog entry fall back to err.Error().
func (u *Service) Describe(locale string, err error) string {
	if errors.Is(err, session.ErrSeatOccupied) {
		if msg := u.text(locale, i18n.KeyOccupied); msg != "" {
			return msg
		}
	}
	return err.Error()
}

func (u *Service) complete(ctx context.Context, player string, levelID int) error {
	if u.Store == nil {
		return errNotConfigured
	}
	p, err := u.Store.Load(ctx, player)
	if err != nil {
		return err
	}
	p.MarkComplete(levelID, u.now())
	return u.Store.Save(ctx, player, p)
}

// Hints explains the current violations of a session's seating.
func (u *Service) Hints(ctx context.Context, sessionID, locale string) ([]domain.Hint, error) {
	if u.Hinter == nil {
		return nil, errNotConfigured
	}
	var (
		lvl *domain.Level
		a   domain.Assignment
	)
	if err := u.Sessions.With(sessionID, func(s *session.Session) error {
		lvl, a = s.Level, s.Assignment()
		return nil
	}); err != nil {
		return nil, err
	}
	return u.Hinter.Hint(ctx, lvl, a, locale)
}

// EndSession discards a session and its partial seating.
func (u *Service) EndSession(sessionID string) {
	u.Sessions.Close(sessionID)
}

// Persistence
func (u *Service) Progress(ctx context.Context, player string) (domain.Progress, error) {
	if u.Store == nil {
		return domain.Progress{}, errNotConfigured
	}
	return u.Store.Load(ctx, player)
}

func (u *Service) ResetProgress(ctx context.Context, player string) error {
	if u.Store == nil {
		return errNotConfigured
	}
	return u.Store.Reset(ctx, player)
}
