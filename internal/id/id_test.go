package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	for range 500 {
		id, err := Generate("req")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}
}

func TestGenerate_Format(t *testing.T) {
	id := MustGenerate("req")
	assert.True(t, strings.HasPrefix(id, "req-"))
	assert.Len(t, id, len("req-")+21)
}

func TestUserID(t *testing.T) {
	u := NewUserID()
	assert.True(t, ValidUserID(u))
	assert.False(t, ValidUserID("not-a-user"))

	got, err := NormalizeUserID("5F0C7A36-3F5E-4D8C-9D62-2A4F7B1E9C10")
	require.NoError(t, err)
	assert.Equal(t, "5f0c7a36-3f5e-4d8c-9d62-2a4f7b1e9c10", got)

	_, err = NormalizeUserID("")
	assert.Error(t, err)
}

func TestGuestClock_StrictlyIncreasing(t *testing.T) {
	frozen := time.UnixMilli(1_760_000_000_000)
	c := &GuestClock{now: func() time.Time { return frozen }}

	a, b, d := c.Next(), c.Next(), c.Next()

	assert.Equal(t, frozen.UnixMilli(), a)
	assert.Equal(t, a+1, b)
	assert.Equal(t, b+1, d)
}

func TestGuestClock_Seed(t *testing.T) {
	frozen := time.UnixMilli(1_000)
	c := &GuestClock{now: func() time.Time { return frozen }}

	c.Seed(5_000)
	assert.Equal(t, int64(5_001), c.Next())

	c.Seed(10)
	assert.Equal(t, int64(5_002), c.Next(), "lower seed is ignored")
}

func TestNewGuestClock_UsesWallClock(t *testing.T) {
	before := time.Now().UnixMilli()
	got := NewGuestClock().Next()
	assert.GreaterOrEqual(t, got, before)
}
