package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/seating/internal/hint"
	"svw.info/seating/internal/i18n"
	"svw.info/seating/internal/infrastructure/storage"
	"svw.info/seating/internal/levels"
	"svw.info/seating/internal/session"
	"svw.info/seating/internal/usecase"
	"svw.info/seating/internal/validator"
)

func dial(t *testing.T, header http.Header) (*websocket.Conn, *usecase.Service) {
	t.Helper()
	cat, err := levels.LoadEmbedded()
	require.NoError(t, err)
	msgs, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	uc := usecase.NewService(validator.New(), cat, storage.NewFS(t.TempDir()), hint.NewExplainer(msgs), msgs, nil)

	srv := httptest.NewServer(NewServer(uc, nil).Handler())
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, uc
}

func roundTrip(t *testing.T, conn *websocket.Conn, in InMsg) OutMsg {
	t.Helper()
	require.NoError(t, conn.WriteJSON(in))
	var out OutMsg
	require.NoError(t, conn.ReadJSON(&out))
	return out
}

func TestSessionOverWebSocket(t *testing.T) {
	conn, _ := dial(t, nil)

	out := roundTrip(t, conn, InMsg{Type: TypeStart, LevelID: 1, Player: "dora"})
	require.Equal(t, TypeState, out.Type)
	require.NotNil(t, out.State)
	assert.Len(t, out.State.Seats, 3)

	for _, a := range []session.Action{
		{Type: "place", CharacterID: "1-0", SeatID: "seat-0"},
		{Type: "place", CharacterID: "1-1", SeatID: "seat-1"},
		{Type: "place", CharacterID: "1-2", SeatID: "seat-2"},
	} {
		a := a
		out = roundTrip(t, conn, InMsg{Type: TypeAct, Action: &a})
		require.Equal(t, TypeState, out.Type, out.Error)
	}

	out = roundTrip(t, conn, InMsg{Type: TypeAct, Action: &session.Action{Type: "check"}})
	assert.Equal(t, session.OutcomeConflicts, out.Outcome)
	assert.Equal(t, []string{"1-0"}, out.State.Conflicts)
	assert.Equal(t, "Someone is unhappy with the seating!", out.Message)

	out = roundTrip(t, conn, InMsg{Type: TypeHint, Locale: "en-US"})
	require.Equal(t, TypeHints, out.Type)
	require.Len(t, out.Hints, 1)

	out = roundTrip(t, conn, InMsg{Type: TypeAct, Action: &session.Action{Type: "place", CharacterID: "1-1", SeatID: "seat-2"}})
	assert.Equal(t, TypeError, out.Type)
	assert.NotEmpty(t, out.Error)
	assert.Equal(t, "This seat is already taken!", out.Message)

	out = roundTrip(t, conn, InMsg{Type: "dance"})
	assert.Equal(t, TypeError, out.Type)
}

func TestStartRequired(t *testing.T) {
	conn, _ := dial(t, nil)
	require.NoError(t, conn.WriteJSON(InMsg{Type: TypeAct, Action: &session.Action{Type: "check"}}))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
}

func TestStartLockedLevel(t *testing.T) {
	conn, uc := dial(t, nil)
	out := roundTrip(t, conn, InMsg{Type: TypeStart, LevelID: 5})
	assert.Equal(t, TypeError, out.Type)
	assert.Contains(t, out.Error, usecase.ErrLevelLocked.Error())
	assert.Zero(t, uc.Sessions.Len())
}

func TestUpgradeLocaleIsTheFallback(t *testing.T) {
	conn, _ := dial(t, http.Header{"Accept-Language": {"zh-CN,zh;q=0.9"}})

	out := roundTrip(t, conn, InMsg{Type: TypeStart, LevelID: 1})
	require.Equal(t, TypeState, out.Type)

	out = roundTrip(t, conn, InMsg{Type: TypeAct, Action: &session.Action{Type: "check"}})
	assert.Equal(t, "还有人没有入座呢！", out.Message)

	for _, a := range []session.Action{
		{Type: "place", CharacterID: "1-0", SeatID: "seat-0"},
		{Type: "place", CharacterID: "1-1", SeatID: "seat-1"},
	} {
		a := a
		out = roundTrip(t, conn, InMsg{Type: TypeAct, Action: &a})
		require.Equal(t, TypeState, out.Type, out.Error)
	}

	out = roundTrip(t, conn, InMsg{Type: TypeHint})
	require.Equal(t, TypeHints, out.Type)
	require.Len(t, out.Hints, 1)
	assert.Equal(t, "帽子先生：不能坐在戴眼镜的人旁边", out.Hints[0].Message)

	out = roundTrip(t, conn, InMsg{Type: TypeHint, Locale: "en-US"})
	require.Len(t, out.Hints, 1)
	assert.Equal(t, "Mr. Hat: Must not sit next to a glasses wearer", out.Hints[0].Message)
}
