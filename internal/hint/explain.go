package hint

import (
	"context"

	"svw.info/seating/internal/domain"
	"svw.info/seating/internal/i18n"
	"svw.info/seating/internal/topology"
	"svw.info/seating/internal/validator"
)

// Explainer turns rule violations into player-facing hints.
type Explainer struct {
	Messages *i18n.Bundle
	// DefaultLocale is used when a request names no locale.
	DefaultLocale string
}

func NewExplainer(b *i18n.Bundle) *Explainer { return &Explainer{Messages: b} }

// Hint returns one hint per failing rule, in seat order. No violations means no hints.
func (h *Explainer) Hint(ctx context.Context, lvl *domain.Level, a domain.Assignment, locale string) ([]domain.Hint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if locale == "" {
		locale = h.DefaultLocale
	}
	seats := topology.BuildSeats(lvl.SeatCount, lvl.Layout)
	violations := validator.Diagnose(a, lvl.Characters, seats)
	out := make([]domain.Hint, 0, len(violations))
	for _, v := range violations {
		ch, _ := lvl.Character(v.CharacterID)
		name := h.Messages.CharacterName(locale, ch)
		out = append(out, domain.Hint{
			Message:     h.Messages.Text(locale, i18n.KeyViolation, name, h.Messages.RuleDescription(locale, v.Rule)),
			CharacterID: v.CharacterID,
			SeatID:      v.SeatID,
		})
	}
	return out, nil
}
