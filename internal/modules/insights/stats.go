package insights

import "time"

type TopMood struct {
	Label    string `json:"mood_label"`
	Emoji    string `json:"emoji"`
	ColorTag string `json:"color_tag"`
	Count    int    `json:"count"`
}

// TopMoodOfMonth returns the most frequent mood among entries logged in now's
// calendar month (in now's location), or nil when there are none.
//
// Entries are scanned in the order given (newest first in practice). A label
// only takes the lead by strictly exceeding the current best count, so among
// tied labels the one that reached the count first wins.
//
// The winner is resolved against catalog; a label the catalog no longer
// knows yields nil rather than a partial record.
func TopMoodOfMonth(entries []Entry, catalog *Catalog, now time.Time) *TopMood {
	loc := now.Location()
	year, month, _ := now.Date()

	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, e := range entries {
		y, m, _ := e.CreatedAt.In(loc).Date()
		if y != year || m != month {
			continue
		}
		label := e.Mood.Label
		counts[label]++
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	if bestCount == 0 {
		return nil
	}
	def, ok := catalog.Lookup(best)
	if !ok {
		return nil
	}
	return &TopMood{
		Label:    def.Label,
		Emoji:    def.Emoji,
		ColorTag: def.ColorTag,
		Count:    bestCount,
	}
}
