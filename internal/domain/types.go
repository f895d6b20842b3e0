package domain

// Rule is one constraint carried by a character. Target is ignored for edge kinds.
type Rule struct {
	Kind   RuleKind      `json:"type" yaml:"type"`
	Target CharacterType `json:"targetType,omitempty" yaml:"target,omitempty"`
}

// Character is a token to be seated. Immutable once a level is loaded.
type Character struct {
	ID    string        `json:"id"`
	Type  CharacterType `json:"type"`
	Rules []Rule        `json:"rules"`
	Name  string        `json:"name,omitempty"`
	Emoji string        `json:"emoji,omitempty"`
}

// Seat is one position of a generated layout.
type Seat struct {
	ID       string   `json:"id"`
	Position int      `json:"position"`
	IsEdge   bool     `json:"isEdge"`
	Adjacent []string `json:"adjacentSeats"`
}

// Level is static puzzle data.
type Level struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Layout      Layout      `json:"layout"`
	SeatCount   int         `json:"seatCount"`
	Characters  []Character `json:"characters"`
	Difficulty  Difficulty  `json:"difficulty"`
}

// Character returns the character with the given id.
func (l *Level) Character(id string) (Character, bool) {
	for _, c := range l.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// LevelMeta is a lightweight listing entry.
type LevelMeta struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Layout     Layout     `json:"layout"`
	SeatCount  int        `json:"seatCount"`
	Difficulty Difficulty `json:"difficulty"`
	Unlocked   bool       `json:"unlocked"`
	Completed  bool       `json:"completed"`
}

// Assignment maps seat id to character id. An empty string or a missing key is an empty seat.
type Assignment map[string]string

// NewAssignment returns an assignment with every seat empty.
func NewAssignment(seats []Seat) Assignment {
	a := make(Assignment, len(seats))
	for _, s := range seats {
		a[s.ID] = ""
	}
	return a
}

// SeatOf returns the seat holding characterID.
func (a Assignment) SeatOf(characterID string) (string, bool) {
	if characterID == "" {
		return "", false
	}
	for seatID, id := range a {
		if id == characterID {
			return seatID, true
		}
	}
	return "", false
}

// Seated counts non-empty seats.
func (a Assignment) Seated() int {
	n := 0
	for _, id := range a {
		if id != "" {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Result is the outcome of validating an assignment.
type Result struct {
	Valid     bool     `json:"isValid"`
	Conflicts []string `json:"conflicts"`
}

// Violation is one failing rule of one seated character.
type Violation struct {
	CharacterID string `json:"characterId"`
	SeatID      string `json:"seatId"`
	Rule        Rule   `json:"rule"`
	Reason      string `json:"reason"`
}

// Hint is a human-readable explanation shown to the player.
type Hint struct {
	Message     string `json:"message"`
	CharacterID string `json:"characterId,omitempty"`
	SeatID      string `json:"seatId,omitempty"`
}
