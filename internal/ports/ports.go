package ports

import (
	"context"

	"svw.info/seating/internal/domain"
)

// Validator checks an assignment snapshot against a level's rules.
type Validator interface {
	Validate(ctx context.Context, lvl *domain.Level, seats []domain.Seat, a domain.Assignment) (res domain.Result, complete bool, err error)
	Diagnose(ctx context.Context, lvl *domain.Level, seats []domain.Seat, a domain.Assignment) ([]domain.Violation, error)
}

// LevelCatalog serves read-only level data.
type LevelCatalog interface {
	List() []domain.LevelMeta
	Level(id int) (*domain.Level, bool)
	Next(id int) (*domain.Level, bool)
}

// Hinter explains the current violations of an assignment in the player's language.
type Hinter interface {
	Hint(ctx context.Context, lvl *domain.Level, a domain.Assignment, locale string) ([]domain.Hint, error)
}

// ProgressStore persists a player's unlocked/completed record.
type ProgressStore interface {
	Load(ctx context.Context, player string) (domain.Progress, error)
	Save(ctx context.Context, player string, p domain.Progress) error
	Reset(ctx context.Context, player string) error
}

// Messages renders player-facing text in the requested locale.
type Messages interface {
	Text(locale, key string, args ...any) string
	CharacterName(locale string, c domain.Character) string
}
