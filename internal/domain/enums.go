package domain

// Difficulty labels a level's tier in the catalog.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Layout selects the seat topology.
type Layout string

const (
	Line   Layout = "line"   // seats 0..n-1, two edge seats
	Circle Layout = "circle" // ring, no edge seats
)

// CharacterType is the token kind rules refer to. Only compared for equality.
type CharacterType string

const (
	Hat     CharacterType = "hat"
	Glasses CharacterType = "glasses"
	Red     CharacterType = "red"
	Book    CharacterType = "book"
	Music   CharacterType = "music"
)

// CharacterTypes lists the closed set in catalog order.
var CharacterTypes = []CharacterType{Hat, Glasses, Red, Book, Music}

// Known reports whether t belongs to the closed set.
func (t CharacterType) Known() bool {
	for _, k := range CharacterTypes {
		if k == t {
			return true
		}
	}
	return false
}

// RuleKind identifies what a rule constrains.
type RuleKind string

const (
	NotNextTo  RuleKind = "not_next_to"  // forbid-adjacent-to(target)
	MustNextTo RuleKind = "must_next_to" // require-adjacent-to(target)
	NotEdge    RuleKind = "not_edge"
	MustEdge   RuleKind = "must_edge"
	NotSameRow RuleKind = "not_same_row" // forbid-coexist-with(target)
)

// Targeted reports whether rules of this kind carry a target type.
func (k RuleKind) Targeted() bool {
	switch k {
	case NotNextTo, MustNextTo, NotSameRow:
		return true
	}
	return false
}
