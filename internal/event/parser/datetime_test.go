package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jst(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

func TestExtractStartAt(t *testing.T) {
	loc := jst(t)

	t.Run("date and time present", func(t *testing.T) {
		got, err := ExtractStartAt("面接は 2025-03-10 14:30 からです", loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, loc), got)
	})

	t.Run("slash separated date", func(t *testing.T) {
		got, err := ExtractStartAt("2025/3/5 9:05 開始", loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 5, 9, 5, 0, 0, loc), got)
	})

	t.Run("first match of each wins", func(t *testing.T) {
		got, err := ExtractStartAt("2025-03-10 の 14:30、予備日 2025-03-12 の 16:00", loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, loc), got)
	})

	t.Run("date without time fails", func(t *testing.T) {
		_, err := ExtractStartAt("2025-03-10 に実施します", loc)
		assert.ErrorIs(t, err, ErrNoDateTime)
	})

	t.Run("time without date fails", func(t *testing.T) {
		_, err := ExtractStartAt("14:30 にお越しください", loc)
		assert.ErrorIs(t, err, ErrNoDateTime)
	})

	t.Run("impossible month fails instead of panicking", func(t *testing.T) {
		_, err := ExtractStartAt("2025-13-10 14:30", loc)
		assert.ErrorIs(t, err, ErrNoDateTime)
	})

	t.Run("day overflow fails instead of rolling over", func(t *testing.T) {
		_, err := ExtractStartAt("2025-02-31 14:30", loc)
		assert.ErrorIs(t, err, ErrNoDateTime)
	})

	t.Run("empty text fails", func(t *testing.T) {
		_, err := ExtractStartAt("", loc)
		assert.ErrorIs(t, err, ErrNoDateTime)
	})
}

func TestParseHeaderDate(t *testing.T) {
	loc := jst(t)

	t.Run("rfc2822 header converted to reference zone", func(t *testing.T) {
		got := ParseHeaderDate("Mon, 10 Mar 2025 01:02:03 +0000", loc)
		assert.Equal(t, time.Date(2025, 3, 10, 10, 2, 3, 0, loc), got)
	})

	t.Run("unparseable header falls back to now", func(t *testing.T) {
		before := time.Now()
		got := ParseHeaderDate("not a date", loc)
		assert.WithinDuration(t, before, got, 5*time.Second)
		assert.Equal(t, loc, got.Location())
	})

	t.Run("empty header falls back to now", func(t *testing.T) {
		before := time.Now()
		got := ParseHeaderDate("", loc)
		assert.WithinDuration(t, before, got, 5*time.Second)
	})
}
