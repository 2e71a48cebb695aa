package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursor(createdAt, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(cursor.CreatedAt))
	assert.Equal(t, int64(42), cursor.ID)

	// Non-UTC input round trips to the same instant
	local := createdAt.In(time.FixedZone("TRT", 3*60*60))
	cursor, err = DecodeCursor(EncodeCursor(local, 7))
	require.NoError(t, err)
	assert.True(t, local.Equal(cursor.CreatedAt))
}

func TestDecodeCursorError(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeCursor(base64.URLEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeCursor(base64.URLEncoding.EncodeToString([]byte("notadate|1")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")

	_, err = DecodeCursor(base64.URLEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z|abc")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "id parse")
}

func TestCursorAfter(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &Cursor{CreatedAt: base, ID: 10}

	assert.True(t, c.After(base.Add(-time.Second), 99), "older rows come after")
	assert.False(t, c.After(base.Add(time.Second), 1), "newer rows come before")
	assert.True(t, c.After(base, 9), "same instant, lower id comes after")
	assert.False(t, c.After(base, 10), "the cursor row itself is excluded")

	var none *Cursor
	assert.True(t, none.After(base, 1))
}
