package realtime

type SSEEvent string

const (
	SSEEventMoodEntriesSnapshot SSEEvent = "MoodEntriesSnapshot"
	SSEEventMoodCatalogChanged  SSEEvent = "MoodCatalogChanged"
	SSEEventUserThemeChanged    SSEEvent = "UserThemeChanged"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// Supersedes reports whether a newer message of this event replaces an
// undelivered older one. Full-state events do; everything else is queued.
func (e SSEEvent) Supersedes() bool {
	switch e {
	case SSEEventMoodEntriesSnapshot, SSEEventMoodCatalogChanged:
		return true
	default:
		return false
	}
}
