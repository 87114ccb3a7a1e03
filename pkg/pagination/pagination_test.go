package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, DefaultLimit, NormalizeLimit(-3))
	require.Equal(t, 7, NormalizeLimit(7))
	require.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
	require.Equal(t, 8, LimitWithBuffer(7))
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 123, time.UTC), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	require.NoError(t, err)
	require.True(t, in.CreatedAt.Equal(out.CreatedAt))
	require.Equal(t, in.ID, out.ID)
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	cur, err := ParseCursor("")
	require.NoError(t, err)
	require.Nil(t, cur)

	_, err = ParseCursor("%%%")
	require.Error(t, err)

	_, err = ParseCursor("bm9waXBl")
	require.Error(t, err)

	_, err = ParseCursor(base64.RawURLEncoding.EncodeToString([]byte(`{"t":"2026-03-01T00:00:00Z"}`)))
	require.ErrorIs(t, err, errMalformedCursor)
}

func TestScopeRejectsBadCursorUpFront(t *testing.T) {
	_, err := Scope(Params{Cursor: "%%%"})
	require.ErrorIs(t, err, errMalformedCursor)

	scope, err := Scope(Params{Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, scope)
}

func TestBuildPage(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]Cursor, 4)
	for i := range rows {
		rows[i] = Cursor{CreatedAt: base.Add(time.Duration(i) * time.Hour), ID: uuid.New()}
	}
	identity := func(c Cursor) Cursor { return c }

	page := BuildPage(rows, 3, identity)
	require.Len(t, page.Items, 3)
	require.NotEmpty(t, page.NextCursor)
	next, err := ParseCursor(page.NextCursor)
	require.NoError(t, err)
	require.Equal(t, rows[2].ID, next.ID)

	last := BuildPage(rows[:2], 3, identity)
	require.Len(t, last.Items, 2)
	require.Empty(t, last.NextCursor)

	empty := BuildPage[Cursor](nil, 3, identity)
	require.NotNil(t, empty.Items)
}
