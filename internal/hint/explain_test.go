package hint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/seating/internal/domain"
	"svw.info/seating/internal/i18n"
	"svw.info/seating/internal/levels"
)

func TestExplainerHint(t *testing.T) {
	b, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	h := NewExplainer(b)

	lvl := &domain.Level{
		ID: 1, Layout: domain.Line, SeatCount: 3,
		Characters: []domain.Character{
			{ID: "a", Type: domain.Hat, Rules: []domain.Rule{
				{Kind: domain.NotNextTo, Target: domain.Glasses},
				{Kind: domain.NotEdge},
			}},
			{ID: "b", Type: domain.Glasses},
			{ID: "c", Type: domain.Red},
		},
	}
	a := domain.Assignment{"seat-0": "a", "seat-1": "b", "seat-2": "c"}

	hints, err := h.Hint(context.Background(), lvl, a, "en-US")
	require.NoError(t, err)
	require.Len(t, hints, 2)
	assert.Equal(t, "Mr. Hat: Must not sit next to a glasses wearer", hints[0].Message)
	assert.Equal(t, "Mr. Hat: Must not sit at either end", hints[1].Message)
	assert.Equal(t, "seat-0", hints[0].SeatID)

	zh, err := h.Hint(context.Background(), lvl, a, "zh-CN")
	require.NoError(t, err)
	assert.Equal(t, "帽子先生：不能坐在戴眼镜的人旁边", zh[0].Message)

	h.DefaultLocale = "zh-CN"
	zh, err = h.Hint(context.Background(), lvl, a, "")
	require.NoError(t, err)
	assert.Equal(t, "帽子先生：不能坐在端位", zh[1].Message)

	a = domain.Assignment{"seat-1": "a"}
	hints, err = h.Hint(context.Background(), lvl, a, "en-US")
	require.NoError(t, err)
	assert.Empty(t, hints)
}

func TestExplainerKeepsAuthoredName(t *testing.T) {
	b, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	lvl := &domain.Level{
		ID: 1, Layout: domain.Line, SeatCount: 2,
		Characters: []domain.Character{
			{ID: "a", Type: domain.Book, Name: "Bea", Rules: []domain.Rule{{Kind: domain.NotEdge}}},
		},
	}
	hints, err := NewExplainer(b).Hint(context.Background(), lvl, domain.Assignment{"seat-0": "a"}, "zh-CN")
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, "Bea：不能坐在端位", hints[0].Message)
}

func TestExplainerEmbeddedLevelInChinese(t *testing.T) {
	b, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	cat, err := levels.LoadEmbedded()
	require.NoError(t, err)
	lvl, ok := cat.Level(1)
	require.True(t, ok)

	a := domain.Assignment{"seat-0": "1-0", "seat-1": "1-1", "seat-2": "1-2"}
	hints, err := NewExplainer(b).Hint(context.Background(), lvl, a, "zh-CN")
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, "帽子先生：不能坐在戴眼镜的人旁边", hints[0].Message)
}
