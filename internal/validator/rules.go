package validator

import "svw.info/seating/internal/domain"

// Reason explains why a rule failed. ReasonNone means satisfied.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonAdjacentForbidden Reason = "adjacent_forbidden" // a neighbour has the forbidden type
	ReasonAdjacentMissing   Reason = "adjacent_missing"   // no neighbour has the required type
	ReasonOnEdge            Reason = "on_edge"
	ReasonNotOnEdge         Reason = "not_on_edge"
	ReasonCoexists          Reason = "coexists" // another seated character has the target type
)

type roster map[string]domain.Character

// rosterOf indexes characters by id. The first character with a given id wins.
func rosterOf(characters []domain.Character) roster {
	r := make(roster, len(characters))
	for _, c := range characters {
		if _, dup := r[c.ID]; dup {
			continue
		}
		r[c.ID] = c
	}
	return r
}

// Evaluate reports whether rule holds for character sitting on seat.
func Evaluate(rule domain.Rule, character domain.Character, seat domain.Seat, a domain.Assignment, characters []domain.Character) bool {
	return Check(rule, character, seat, a, characters) == ReasonNone
}

// Check is Evaluate with the failure reason. Unknown rule kinds always pass.
func Check(rule domain.Rule, character domain.Character, seat domain.Seat, a domain.Assignment, characters []domain.Character) Reason {
	return check(rule, character, seat, a, rosterOf(characters))
}

func check(rule domain.Rule, character domain.Character, seat domain.Seat, a domain.Assignment, r roster) Reason {
	switch rule.Kind {
	case domain.NotNextTo:
		if neighbourHas(seat, a, r, rule.Target) {
			return ReasonAdjacentForbidden
		}
	case domain.MustNextTo:
		if !neighbourHas(seat, a, r, rule.Target) {
			return ReasonAdjacentMissing
		}
	case domain.NotEdge:
		if seat.IsEdge {
			return ReasonOnEdge
		}
	case domain.MustEdge:
		if !seat.IsEdge {
			return ReasonNotOnEdge
		}
	case domain.NotSameRow:
		for _, id := range a {
			if id == "" || id == character.ID {
				continue
			}
			if c, ok := r[id]; ok && c.Type == rule.Target {
				return ReasonCoexists
			}
		}
	}
	return ReasonNone
}

// neighbourHas reports whether any seat adjacent to seat holds a character of type t.
// Empty seats and unknown character ids are skipped.
func neighbourHas(seat domain.Seat, a domain.Assignment, r roster, t domain.CharacterType) bool {
	for _, adj := range seat.Adjacent {
		id := a[adj]
		if id == "" {
			continue
		}
		if c, ok := r[id]; ok && c.Type == t {
			return true
		}
	}
	return false
}
