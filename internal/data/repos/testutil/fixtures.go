package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/moodly-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, label string, at time.Time) *types.MoodEntry {
	tb.Helper()
	e := &types.MoodEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Mood:      datatypes.NewJSONType(types.MoodSnapshot{Emoji: "🙂", Label: label, ColorTag: "bg-slate-100 border-slate-200"}),
		CreatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed entry: %v", err)
	}
	return e
}
