package sys

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "water t...", Truncate("water the plants", 10))
	assert.Equal(t, "ñññ...", Truncate("ñññññññ", 6))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestContainsLower(t *testing.T) {
	assert.True(t, ContainsLower("Good Morning everyone", "MORNING"))
	assert.True(t, ContainsLower("anything", ""))
	assert.False(t, ContainsLower("hello", "bye"))
}

func TestFormatLocalTime(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mon Mar 10 21:00 JST", FormatLocalTime(at, tokyo))
}
