package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	m.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := m.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	m.Delete(ctx, "k")
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	current := time.Now()
	m.now = func() time.Time { return current }

	m.Set(ctx, "k", []byte("v"), 5*time.Minute)

	current = current.Add(4 * time.Minute)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok, "entry past its TTL must miss")
}
