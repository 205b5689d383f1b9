package insights

import (
	"sort"
	"time"
)

// CurrentStreakDays counts consecutive calendar days, ending on now's date, that
// have at least one entry. Several entries on one day count once. Days are
// evaluated in now's location. The input slice is not modified.
func CurrentStreakDays(entries []Entry, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}
	loc := now.Location()

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	expected := dayOf(now, loc)
	var last civilDay
	streak := 0
	for _, e := range sorted {
		d := dayOf(e.CreatedAt, loc)
		if streak > 0 && d == last {
			continue
		}
		if d != expected {
			break
		}
		streak++
		last = d
		expected = d.prev(loc)
	}
	return streak
}
