package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"messenger/db"
	"messenger/models"
)

// Контракт Store проверяется на обеих реализациях: GormStore поверх
// in-memory sqlite и MemoryStore.
func setupStores(t *testing.T) map[string]Store {
	t.Helper()
	if err := db.ConnectTestDB(); err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}
	return map[string]Store{
		"gorm":   NewGormStore(),
		"memory": NewMemoryStore(),
	}
}

func createPair(t *testing.T, store Store, prefix string) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	a := &models.User{Username: prefix + "_a", Settings: models.DefaultSettings()}
	b := &models.User{Username: prefix + "_b", Settings: models.DefaultSettings()}
	assert.NoError(t, store.CreateUser(ctx, a))
	assert.NoError(t, store.CreateUser(ctx, b))
	return a.ID, b.ID
}

func TestStoreConversationContract(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			aliceID, bobID := createPair(t, store, "conv_"+name)

			// Чужое сообщение в выборку пары попасть не должно
			outsider := &models.User{Username: "conv_" + name + "_c"}
			assert.NoError(t, store.CreateUser(ctx, outsider))

			msgs := []*models.Message{
				{SenderID: aliceID, ReceiverID: bobID, Content: "one"},
				{SenderID: bobID, ReceiverID: aliceID, Content: "two"},
				{SenderID: aliceID, ReceiverID: outsider.ID, Content: "other"},
			}
			for _, m := range msgs {
				assert.NoError(t, store.CreateMessage(ctx, m))
				assert.False(t, m.Timestamp.IsZero())
			}

			conversation, err := store.ListConversation(ctx, aliceID, bobID)
			assert.NoError(t, err)
			assert.Len(t, conversation, 2)
			assert.Equal(t, "one", conversation[0].Content)
			assert.Equal(t, "two", conversation[1].Content)

			reversed, err := store.ListConversation(ctx, bobID, aliceID)
			assert.NoError(t, err)
			assert.Equal(t, conversation, reversed)

			// Tombstone скрывает сообщение из любых выборок
			assert.NoError(t, store.SoftDeleteMessage(ctx, msgs[0].ID))
			conversation, err = store.ListConversation(ctx, aliceID, bobID)
			assert.NoError(t, err)
			assert.Len(t, conversation, 1)

			deleted, err := store.GetMessage(ctx, msgs[0].ID)
			assert.NoError(t, err)
			assert.True(t, deleted.IsDeleted)
		})
	}
}

func TestStoreMarkReadContract(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			aliceID, bobID := createPair(t, store, "read_"+name)

			msg := &models.Message{SenderID: aliceID, ReceiverID: bobID, Content: "hi"}
			assert.NoError(t, store.CreateMessage(ctx, msg))

			assert.NoError(t, store.MarkMessagesRead(ctx, nil))
			assert.NoError(t, store.MarkMessagesRead(ctx, []int64{msg.ID, 999999}))
			assert.NoError(t, store.MarkMessagesRead(ctx, []int64{msg.ID}))

			stored, err := store.GetMessage(ctx, msg.ID)
			assert.NoError(t, err)
			assert.True(t, stored.IsRead)
		})
	}
}

func TestStoreUserContract(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			user := &models.User{
				Username:    fmt.Sprintf("user_%s", name),
				DisplayName: "User",
				Settings:    models.DefaultSettings(),
			}
			assert.NoError(t, store.CreateUser(ctx, user))
			assert.NotZero(t, user.ID)

			byName, err := store.GetUserByUsername(ctx, user.Username)
			assert.NoError(t, err)
			assert.Equal(t, user.ID, byName.ID)

			_, err = store.GetUser(ctx, 999999)
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, store.SetUserOnline(ctx, user.ID, true))
			at := time.Now().Add(-time.Minute)
			assert.NoError(t, store.TouchLastActive(ctx, user.ID, at))

			stored, err := store.GetUser(ctx, user.ID)
			assert.NoError(t, err)
			assert.True(t, stored.IsOnline)
			assert.WithinDuration(t, at, stored.LastActive, time.Second)

			settings := stored.Settings
			settings.DarkMode = true
			assert.NoError(t, store.UpdateUserSettings(ctx, user.ID, settings))
			stored, err = store.GetUser(ctx, user.ID)
			assert.NoError(t, err)
			assert.True(t, stored.Settings.DarkMode)
			assert.True(t, stored.Settings.Notifications)

			err = store.UpdateUserSettings(ctx, 999999, settings)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreSessionContract(t *testing.T) {
	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID, _ := createPair(t, store, "sess_"+name)

			session := &models.UserSession{
				UserID:    userID,
				Token:     fmt.Sprintf("token_%s", name),
				ExpiresAt: time.Now().Add(time.Hour),
			}
			assert.NoError(t, store.CreateSession(ctx, session))

			stored, err := store.GetSession(ctx, session.Token)
			assert.NoError(t, err)
			assert.Equal(t, userID, stored.UserID)

			assert.NoError(t, store.DeleteUserSessions(ctx, userID))
			_, err = store.GetSession(ctx, session.Token)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
