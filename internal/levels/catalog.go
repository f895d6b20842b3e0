// Package levels loads and checks the puzzle catalog.
package levels

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"svw.info/seating/internal/domain"
	"svw.info/seating/internal/topology"
)

//go:embed data/levels.yaml data/level.schema.json
var assets embed.FS

const schemaURL = "https://svw.info/seating/level.schema.json"

// ErrInvalidLevel wraps every authoring error found while loading a catalog.
var ErrInvalidLevel = errors.New("invalid level")

type fileCatalog struct {
	Levels []fileLevel `yaml:"levels"`
}

type fileLevel struct {
	ID          int               `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Layout      domain.Layout     `yaml:"layout"`
	SeatCount   int               `yaml:"seat_count"`
	Difficulty  domain.Difficulty `yaml:"difficulty"`
	Characters  []fileCharacter   `yaml:"characters"`
}

type fileCharacter struct {
	ID    string               `yaml:"id"`
	Type  domain.CharacterType `yaml:"type"`
	Name  string               `yaml:"name"`
	Emoji string               `yaml:"emoji"`
	Rules []domain.Rule        `yaml:"rules"`
}

var typeEmoji = map[domain.CharacterType]string{
	domain.Hat:     "🎩",
	domain.Glasses: "👓",
	domain.Red:     "❤️",
	domain.Book:    "📚",
	domain.Music:   "🎧",
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := assets.ReadFile("data/level.schema.json")
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Catalog is an ordered, read-only set of levels.
type Catalog struct {
	levels []*domain.Level
	byID   map[int]int
}

// LoadEmbedded returns the built-in catalog.
func LoadEmbedded() (*Catalog, error) {
	raw, err := assets.ReadFile("data/levels.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse checks a YAML catalog against the schema, decodes it and runs the authoring checks.
func Parse(raw []byte) (*Catalog, error) {
	if err := checkSchema(raw); err != nil {
		return nil, err
	}
	var f fileCatalog
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("levels.yaml: %w", err)
	}
	c := &Catalog{byID: make(map[int]int, len(f.Levels))}
	for _, fl := range f.Levels {
		lvl, err := fl.toLevel()
		if err != nil {
			return nil, err
		}
		// unlocking follows ids, so they must run 1..n in catalog order
		if want := len(c.levels) + 1; lvl.ID != want {
			return nil, fmt.Errorf("level %d: expected id %d: %w", lvl.ID, want, ErrInvalidLevel)
		}
		c.byID[lvl.ID] = len(c.levels)
		c.levels = append(c.levels, lvl)
	}
	return c, nil
}

func checkSchema(raw []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile level schema: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("levels.yaml: %w", err)
	}
	// The validator expects encoding/json shaped values.
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("levels.yaml: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(js, &normalized); err != nil {
		return fmt.Errorf("levels.yaml: %w", err)
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return nil
}

func (fl fileLevel) toLevel() (*domain.Level, error) {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("level %d: %s: %w", fl.ID, fmt.Sprintf(format, args...), ErrInvalidLevel)
	}
	if err := topology.CheckShape(fl.SeatCount, fl.Layout); err != nil {
		return nil, fail("%v", err)
	}
	if fl.SeatCount < len(fl.Characters) {
		return nil, fail("%d characters do not fit %d seats", len(fl.Characters), fl.SeatCount)
	}
	lvl := &domain.Level{
		ID:          fl.ID,
		Name:        strings.TrimSpace(fl.Name),
		Description: strings.TrimSpace(fl.Description),
		Layout:      fl.Layout,
		SeatCount:   fl.SeatCount,
		Difficulty:  fl.Difficulty,
		Characters:  make([]domain.Character, 0, len(fl.Characters)),
	}
	seen := make(map[string]bool, len(fl.Characters))
	for i, fc := range fl.Characters {
		if !fc.Type.Known() {
			return nil, fail("character %d: unknown type %q", i, fc.Type)
		}
		id := strings.TrimSpace(fc.ID)
		if id == "" {
			id = strconv.Itoa(fl.ID) + "-" + strconv.Itoa(i)
		}
		if seen[id] {
			return nil, fail("duplicate character id %q", id)
		}
		seen[id] = true
		rules := make([]domain.Rule, 0, len(fc.Rules))
		for j, r := range fc.Rules {
			if r.Kind.Targeted() && !r.Target.Known() {
				return nil, fail("character %s rule %d: %s needs a target", id, j, r.Kind)
			}
			if !r.Kind.Targeted() {
				r.Target = ""
			}
			rules = append(rules, r)
		}
		ch := domain.Character{ID: id, Type: fc.Type, Rules: rules, Name: fc.Name, Emoji: fc.Emoji}
		if ch.Emoji == "" {
			ch.Emoji = typeEmoji[fc.Type]
		}
		lvl.Characters = append(lvl.Characters, ch)
	}
	return lvl, nil
}

// Len is the number of levels.
func (c *Catalog) Len() int { return len(c.levels) }

// List returns listing entries in catalog order. Unlocked/Completed are left for the caller.
func (c *Catalog) List() []domain.LevelMeta {
	out := make([]domain.LevelMeta, 0, len(c.levels))
	for _, l := range c.levels {
		out = append(out, domain.LevelMeta{
			ID:         l.ID,
			Name:       l.Name,
			Layout:     l.Layout,
			SeatCount:  l.SeatCount,
			Difficulty: l.Difficulty,
		})
	}
	return out
}

// Level looks a level up by id.
func (c *Catalog) Level(id int) (*domain.Level, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.levels[i], true
}

// Next returns the level following id in catalog order.
func (c *Catalog) Next(id int) (*domain.Level, bool) {
	i, ok := c.byID[id]
	if !ok || i+1 >= len(c.levels) {
		return nil, false
	}
	return c.levels[i+1], true
}
