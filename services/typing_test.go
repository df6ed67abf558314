package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypingSetAndClear(t *testing.T) {
	store := NewMemoryTypingStore()
	ctx := context.Background()

	// Флаг направленный: "1 печатает 2" не означает "2 печатает 1"
	assert.NoError(t, store.SetTyping(ctx, 1, 2, true))

	typing, err := store.IsTyping(ctx, 1, 2)
	assert.NoError(t, err)
	assert.True(t, typing)

	typing, err = store.IsTyping(ctx, 2, 1)
	assert.NoError(t, err)
	assert.False(t, typing)

	assert.NoError(t, store.SetTyping(ctx, 1, 2, false))
	typing, err = store.IsTyping(ctx, 1, 2)
	assert.NoError(t, err)
	assert.False(t, typing)
}

func TestTypingDecay(t *testing.T) {
	store := NewMemoryTypingStore()
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	assert.NoError(t, store.SetTyping(ctx, 1, 2, true))

	typing, _ := store.IsTyping(ctx, 1, 2)
	assert.True(t, typing)

	// Клиент не прислал isTyping=false - TTL подчищает сам
	current = current.Add(typingTTL() + time.Second)
	typing, _ = store.IsTyping(ctx, 1, 2)
	assert.False(t, typing)
}

func TestTypingUnknownPair(t *testing.T) {
	store := NewMemoryTypingStore()

	typing, err := store.IsTyping(context.Background(), 7, 8)
	assert.NoError(t, err)
	assert.False(t, typing)
}
