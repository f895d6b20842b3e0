package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"svw.info/seating/internal/domain"
)

var (
	ErrInvalidPlayer = errors.New("invalid player id")

	playerRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)
)

func checkPlayer(player string) (string, error) {
	p := strings.TrimSpace(player)
	if !playerRe.MatchString(p) || p == "." || p == ".." {
		return "", ErrInvalidPlayer
	}
	return p, nil
}

// FS stores one JSON progress file per player.
type FS struct {
	dir string
	now func() time.Time
}

func NewFS(dir string) *FS { return &FS{dir: dir, now: time.Now} }

func (s *FS) pathFor(player string) string {
	return filepath.Join(s.dir, "progress", player+".json")
}

func (s *FS) Load(ctx context.Context, player string) (domain.Progress, error) {
	p, err := checkPlayer(player)
	if err != nil {
		return domain.Progress{}, err
	}
	data, err := os.ReadFile(s.pathFor(p))
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultProgress(s.now()), nil
	}
	if err != nil {
		return domain.Progress{}, err
	}
	var out domain.Progress
	if err := json.Unmarshal(data, &out); err != nil {
		return domain.Progress{}, err
	}
	if out.CurrentLevel == 0 {
		out.CurrentLevel = 1
	}
	if out.CompletedLevels == nil {
		out.CompletedLevels = []int{}
	}
	return out, nil
}

func (s *FS) Save(ctx context.Context, player string, pr domain.Progress) error {
	p, err := checkPlayer(player)
	if err != nil {
		return err
	}
	pr.LastPlayedAt = s.now().UTC()
	target := s.pathFor(p)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	// write-then-rename; readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(target), p+".*.tmp")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pr); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (s *FS) Reset(ctx context.Context, player string) error {
	p, err := checkPlayer(player)
	if err != nil {
		return err
	}
	if err := os.Remove(s.pathFor(p)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
