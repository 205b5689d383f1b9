package insights

import (
	"time"

	"github.com/google/uuid"
)

// Entry is the read-only view of a journal entry the engines work on.
// Mood is the snapshot taken when the entry was logged.
type Entry struct {
	ID        uuid.UUID      `json:"id"`
	Mood      MoodDefinition `json:"mood"`
	Note      string         `json:"note"`
	CreatedAt time.Time      `json:"created_at"`
}

type civilDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) civilDay {
	y, m, d := t.In(loc).Date()
	return civilDay{year: y, month: m, day: d}
}

// prev uses noon so DST transitions never skip or repeat a date.
func (d civilDay) prev(loc *time.Location) civilDay {
	return dayOf(time.Date(d.year, d.month, d.day-1, 12, 0, 0, 0, loc), loc)
}
