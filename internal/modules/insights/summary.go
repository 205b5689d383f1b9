package insights

import "time"

type Summary struct {
	TopMood      *TopMood `json:"top_mood"`
	StreakDays   int      `json:"streak_days"`
	Badges       []Badge  `json:"badges"`
	TotalEntries int      `json:"total_entries"`
}

type derivation struct {
	name string
	run  func(sum *Summary, entries []Entry, catalog *Catalog, now time.Time)
}

var derivations = []derivation{
	{name: "top_mood", run: func(sum *Summary, entries []Entry, catalog *Catalog, now time.Time) {
		sum.TopMood = TopMoodOfMonth(entries, catalog, now)
	}},
	{name: "streak", run: func(sum *Summary, entries []Entry, _ *Catalog, now time.Time) {
		sum.StreakDays = CurrentStreakDays(entries, now)
	}},
	{name: "badges", run: func(sum *Summary, entries []Entry, catalog *Catalog, now time.Time) {
		sum.Badges = ComputeBadges(entries, catalog, now)
	}},
}

// Summarize runs every derivation against the same snapshot. A derivation
// that panics leaves its field at the zero value and is named in failed; the
// others still run.
func Summarize(entries []Entry, catalog *Catalog, now time.Time) (sum Summary, failed []string) {
	sum = Summary{TotalEntries: len(entries), Badges: []Badge{}}
	for _, d := range derivations {
		if !guarded(func() { d.run(&sum, entries, catalog, now) }) {
			failed = append(failed, d.name)
		}
	}
	return sum, failed
}

func guarded(fn func()) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	fn()
	return true
}
