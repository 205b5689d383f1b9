package insights

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	shareNoteRunes = 80
	shareMinStreak = 2
	shareHashtags  = "#Moodly #MoodJournal"
	shareEllipsis  = "…"
)

// ShareText renders the social-share message for one entry.
func ShareText(e Entry, streakDays int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Feeling %s today", e.Mood.Emoji, e.Mood.Label)
	if note := excerpt(e.Note, shareNoteRunes); note != "" {
		fmt.Fprintf(&b, "\n\n\"%s\"", note)
	}
	if streakDays >= shareMinStreak {
		fmt.Fprintf(&b, "\n\n🔥 %d days of checking in", streakDays)
	}
	b.WriteString("\n\n" + shareHashtags)
	return b.String()
}

func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max-1])) + shareEllipsis
}
