package insights

import (
	"fmt"
	"time"
)

type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// Badge is derived from the entry list on every change and never stored.
type Badge struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Tier        Tier   `json:"tier"`
	Color       string `json:"color"`
}

var tierColors = map[Tier]string{
	TierBronze: "bg-orange-100 text-orange-700",
	TierSilver: "bg-slate-100 text-slate-700",
	TierGold:   "bg-yellow-100 text-yellow-700",
}

const (
	streakBadgeDays    = 3
	momentumBadgeDays  = 7
	championBadgeDays  = 30
	masterBadgeEntries = 10
	expertBadgeEntries = 50
	legendBadgeEntries = 100
	moodKingCount      = 10
)

func newBadge(id, icon, label, description string, tier Tier) Badge {
	return Badge{ID: id, Icon: icon, Label: label, Description: description, Tier: tier, Color: tierColors[tier]}
}

// ComputeBadges returns every unlocked badge. Thresholds are additive: a
// 10-day streak unlocks both the streak badge and "7-Day Momentum".
// Order: streak badges, volume badges, then one "King" badge per mood label
// logged at least ten times, in first-seen order.
func ComputeBadges(entries []Entry, catalog *Catalog, now time.Time) []Badge {
	return badgesFor(CurrentStreakDays(entries, now), entries, catalog)
}

func badgesFor(streak int, entries []Entry, catalog *Catalog) []Badge {
	badges := make([]Badge, 0, 4)

	if streak >= streakBadgeDays {
		badges = append(badges, newBadge("streak", "🔥",
			fmt.Sprintf("%d Day Streak", streak),
			fmt.Sprintf("Logged a mood %d days in a row", streak), TierBronze))
	}
	if streak >= momentumBadgeDays {
		badges = append(badges, newBadge("streak-7", "⚡", "7-Day Momentum", "Logged a mood every day for a week", TierSilver))
	}
	if streak >= championBadgeDays {
		badges = append(badges, newBadge("streak-30", "🏆", "30-Day Champion", "Logged a mood every day for 30 days", TierGold))
	}

	total := len(entries)
	if total >= masterBadgeEntries {
		badges = append(badges, newBadge("entries-10", "📝", "Mood Master", "Logged 10 entries", TierBronze))
	}
	if total >= expertBadgeEntries {
		badges = append(badges, newBadge("entries-50", "🌟", "Mood Expert", "Logged 50 entries", TierSilver))
	}
	if total >= legendBadgeEntries {
		badges = append(badges, newBadge("entries-100", "👑", "Mood Legend", "Logged 100 entries", TierGold))
	}

	counts := make(map[string]int)
	snapshot := make(map[string]MoodDefinition)
	order := make([]string, 0, 8)
	for _, e := range entries {
		label := e.Mood.Label
		if _, seen := counts[label]; !seen {
			order = append(order, label)
			snapshot[label] = e.Mood
		}
		counts[label]++
	}
	for _, label := range order {
		if counts[label] < moodKingCount {
			continue
		}
		icon := snapshot[label].Emoji
		if def, ok := catalog.Lookup(label); ok {
			icon = def.Emoji
		}
		badges = append(badges, newBadge("mood-king-"+LabelKey(label), icon,
			label+" King",
			fmt.Sprintf("Logged %s %d times", label, counts[label]), TierGold))
	}
	return badges
}
