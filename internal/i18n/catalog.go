// Package i18n holds the player-facing strings of the game.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"svw.info/seating/internal/domain"
)

// BaseLocale is the fallback for unknown or missing locales.
const BaseLocale = "en-US"

// Message keys shared with callers.
const (
	KeyNotSeated = "check.not_seated"
	KeyConflicts = "check.conflicts"
	KeySolved    = "check.solved"
	KeyOccupied  = "seat.occupied"
	KeyViolation = "hint.violation"
)

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle resolves message keys for the loaded locales.
type Bundle struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

// LoadEmbedded loads the locales shipped with the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/<locale>/<namespace>.yaml files.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{builder: catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale)))}
	seen := map[language.Tag]bool{}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var f catalogFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(f.Locale)
		if dir := filepath.Base(filepath.Dir(path)); locale != dir {
			return nil, fmt.Errorf("catalog %s: locale %q must match path locale %q", path, locale, dir)
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: parse locale: %w", path, err)
		}
		for key, msg := range f.Messages {
			if err := b.builder.SetString(tag, strings.TrimSpace(key), msg); err != nil {
				return nil, fmt.Errorf("catalog %s: key %q: %w", path, key, err)
			}
		}
		if !seen[tag] {
			seen[tag] = true
			b.tags = append(b.tags, tag)
		}
	}
	base := language.MustParse(BaseLocale)
	if !seen[base] {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	// the matcher falls back to its first tag
	sort.SliceStable(b.tags, func(i, j int) bool { return b.tags[i] == base && b.tags[j] != base })
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Locales lists the loaded locales, base locale first.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.tags))
	for _, t := range b.tags {
		out = append(out, t.String())
	}
	return out
}

// Match picks the best loaded locale for an Accept-Language style string.
func (b *Bundle) Match(locale string) language.Tag {
	wanted, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(wanted) == 0 {
		return b.tags[0]
	}
	_, idx, _ := b.matcher.Match(wanted...)
	return b.tags[idx]
}

// Printer returns a printer bound to the best match for locale.
func (b *Bundle) Printer(locale string) *message.Printer {
	return message.NewPrinter(b.Match(locale), message.Catalog(b.builder))
}

// Text formats the message stored under key.
func (b *Bundle) Text(locale, key string, args ...any) string {
	return b.Printer(locale).Sprintf(key, args...)
}

// CharacterName is the author's name for c, or the localized default for its type.
func (b *Bundle) CharacterName(locale string, c domain.Character) string {
	if c.Name != "" {
		return c.Name
	}
	if !c.Type.Known() {
		return c.ID
	}
	return b.Printer(locale).Sprintf("name." + string(c.Type))
}

// RuleDescription renders a rule as shown on a character card.
func (b *Bundle) RuleDescription(locale string, r domain.Rule) string {
	p := b.Printer(locale)
	switch r.Kind {
	case domain.NotNextTo, domain.MustNextTo, domain.NotSameRow:
		return p.Sprintf("rule."+string(r.Kind), p.Sprintf("type."+string(r.Target)))
	case domain.NotEdge, domain.MustEdge:
		return p.Sprintf("rule." + string(r.Kind))
	default:
		return p.Sprintf("rule.unknown")
	}
}
