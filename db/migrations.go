package db

import (
	"fmt"

	"gorm.io/gorm"
)

// createMessageIndexes создает составные индексы под выборку диалога:
// пара участников + ordering по timestamp
func createMessageIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_messages_sender_receiver_ts",
			sql:  "CREATE INDEX IF NOT EXISTS idx_messages_sender_receiver_ts ON messages (sender_id, receiver_id, timestamp)",
		},
		{
			name: "idx_messages_receiver_unread",
			sql:  "CREATE INDEX IF NOT EXISTS idx_messages_receiver_unread ON messages (receiver_id, is_read)",
		},
		{
			name: "idx_user_sessions_expires_at",
			sql:  "CREATE INDEX IF NOT EXISTS idx_user_sessions_expires_at ON user_sessions (expires_at)",
		},
	}
	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}
