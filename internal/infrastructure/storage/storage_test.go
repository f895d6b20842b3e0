package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/seating/internal/domain"
	"svw.info/seating/internal/ports"
)

var fixed = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func stores(t *testing.T) map[string]ports.ProgressStore {
	t.Helper()
	fs := NewFS(t.TempDir())
	fs.now = func() time.Time { return fixed }

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "seating.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.now = func() time.Time { return fixed }

	return map[string]ports.ProgressStore{"fs": fs, "sqlite": db}
}

func TestProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p, err := st.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, domain.DefaultProgress(fixed), p)

			p.MarkComplete(1, fixed)
			p.MarkComplete(3, fixed)
			p.MarkComplete(2, fixed)
			require.NoError(t, st.Save(ctx, "alice", p))

			got, err := st.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, []int{1, 3, 2}, got.CompletedLevels, "completion order is kept")
			assert.Equal(t, 4, got.CurrentLevel)
			assert.True(t, got.LastPlayedAt.Equal(fixed))

			other, err := st.Load(ctx, "bob")
			require.NoError(t, err)
			assert.Empty(t, other.CompletedLevels, "players are isolated")

			require.NoError(t, st.Reset(ctx, "alice"))
			require.NoError(t, st.Reset(ctx, "alice"), "reset is idempotent")
			got, err = st.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, 1, got.CurrentLevel)
			assert.Empty(t, got.CompletedLevels)
		})
	}
}

func TestProgressOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p := domain.DefaultProgress(fixed)
			p.MarkComplete(1, fixed)
			require.NoError(t, st.Save(ctx, "carol", p))
			p.MarkComplete(2, fixed)
			require.NoError(t, st.Save(ctx, "carol", p))

			got, err := st.Load(ctx, "carol")
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2}, got.CompletedLevels)
			assert.Equal(t, 3, got.CurrentLevel)
		})
	}
}

func TestInvalidPlayer(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "..", "../etc/passwd", "a b"} {
				_, err := st.Load(ctx, bad)
				require.ErrorIs(t, err, ErrInvalidPlayer, bad)
				require.ErrorIs(t, st.Save(ctx, bad, domain.Progress{}), ErrInvalidPlayer, bad)
				require.ErrorIs(t, st.Reset(ctx, bad), ErrInvalidPlayer, bad)
			}
		})
	}
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	require.Error(t, err)
}
