package validator

import (
	"context"

	"svw.info/seating/internal/domain"
)

// RuleValidator checks seating assignments against every seated character's rules.
type RuleValidator struct{}

func New() *RuleValidator { return &RuleValidator{} }

func (v *RuleValidator) Validate(ctx context.Context, lvl *domain.Level, seats []domain.Seat, a domain.Assignment) (domain.Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, false, err
	}
	return Validate(a, lvl.Characters, seats), IsComplete(a, lvl.Characters), nil
}

func (v *RuleValidator) Diagnose(ctx context.Context, lvl *domain.Level, seats []domain.Seat, a domain.Assignment) ([]domain.Violation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Diagnose(a, lvl.Characters, seats), nil
}

// Validate returns the ids of seated characters that break at least one of their rules.
// Seats are walked in the given order and each character stops at its first failing rule.
// Entries whose seat or character cannot be resolved are skipped.
func Validate(a domain.Assignment, characters []domain.Character, seats []domain.Seat) domain.Result {
	r := rosterOf(characters)
	conf := make([]string, 0, 4)
	seen := make(map[string]bool)
	for _, seat := range seats {
		id := a[seat.ID]
		if id == "" || seen[id] {
			continue
		}
		c, ok := r[id]
		if !ok {
			continue
		}
		for _, rule := range c.Rules {
			if check(rule, c, seat, a, r) != ReasonNone {
				conf = append(conf, id)
				seen[id] = true
				break
			}
		}
	}
	return domain.Result{Valid: len(conf) == 0, Conflicts: conf}
}

// Diagnose lists every failing rule, without stopping at the first per character.
func Diagnose(a domain.Assignment, characters []domain.Character, seats []domain.Seat) []domain.Violation {
	r := rosterOf(characters)
	var out []domain.Violation
	for _, seat := range seats {
		id := a[seat.ID]
		if id == "" {
			continue
		}
		c, ok := r[id]
		if !ok {
			continue
		}
		for _, rule := range c.Rules {
			if reason := check(rule, c, seat, a, r); reason != ReasonNone {
				out = append(out, domain.Violation{
					CharacterID: id,
					SeatID:      seat.ID,
					Rule:        rule,
					Reason:      string(reason),
				})
			}
		}
	}
	return out
}

// IsComplete reports whether as many seats are occupied as there are characters.
func IsComplete(a domain.Assignment, characters []domain.Character) bool {
	return a.Seated() == len(characters)
}
