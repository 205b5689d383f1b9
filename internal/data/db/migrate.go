package db

import (
	"fmt"

	types "github.com/yungbote/moodly-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// identity + auth
		&types.User{},
		&types.UserToken{},

		// journal
		&types.CustomMood{},
		&types.MoodEntry{},
	)
}

// EnsureMoodIndexes adds the partial index the feed query relies on.
// Postgres only; sqlite gets the plain composite index from the model tags.
func EnsureMoodIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_mood_entry_feed
		ON mood_entry (user_id, created_at DESC, id DESC)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_mood_entry_feed: %w", err)
	}
	return nil
}
