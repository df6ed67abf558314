package services

import (
	"context"
	"fmt"
	"log"

	"github.com/brianvoe/gofakeit/v7"

	"messenger/models"
	"messenger/storage"
)

// SeedDemoUsers создает n демо-пользователей с паролем "password".
// Существующие username не перетираются.
func SeedDemoUsers(ctx context.Context, store storage.Store, n int) error {
	passwordHash, err := HashPassword("password")
	if err != nil {
		return err
	}

	created := 0
	for i := 0; i < n; i++ {
		username := gofakeit.Username()
		if _, err := store.GetUserByUsername(ctx, username); err == nil {
			continue
		}
		user := &models.User{
			Username:     username,
			PasswordHash: passwordHash,
			DisplayName:  gofakeit.Name(),
			Avatar:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
			Settings:     models.DefaultSettings(),
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", username, err)
		}
		created++
	}
	log.Printf("seeded %d demo users", created)
	return nil
}
