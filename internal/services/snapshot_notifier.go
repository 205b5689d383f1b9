package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/moodly-backend/internal/modules/insights"
	"github.com/yungbote/moodly-backend/internal/realtime"
)

// SnapshotNotifier pushes full-state updates to a user's channel.
type SnapshotNotifier interface {
	EntriesSnapshot(ctx context.Context, userID uuid.UUID, snap *EntriesSnapshot)
	CatalogChanged(ctx context.Context, userID uuid.UUID, defs []insights.MoodDefinition)
	ThemeChanged(ctx context.Context, userID uuid.UUID, theme string)
}

type snapshotNotifier struct {
	emit SSEEmitter
}

func NewSnapshotNotifier(emit SSEEmitter) SnapshotNotifier {
	return &snapshotNotifier{emit: emit}
}

func (n *snapshotNotifier) EntriesSnapshot(ctx context.Context, userID uuid.UUID, snap *EntriesSnapshot) {
	if n == nil || n.emit == nil || userID == uuid.Nil || snap == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventMoodEntriesSnapshot,
		Data:    snap,
	})
}

func (n *snapshotNotifier) CatalogChanged(ctx context.Context, userID uuid.UUID, defs []insights.MoodDefinition) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventMoodCatalogChanged,
		Data:    map[string]any{"moods": defs},
	})
}

func (n *snapshotNotifier) ThemeChanged(ctx context.Context, userID uuid.UUID, theme string) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventUserThemeChanged,
		Data:    map[string]any{"preferred_theme": theme},
	})
}
