package insights

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

type Category string

const (
	CategoryManifesting   Category = "manifesting"
	CategorySelfAwareness Category = "self-awareness"
	CategorySelfLove      Category = "self-love"
	// CategoryAny selects from the whole quote table.
	CategoryAny Category = ""
)

type Quote struct {
	Text     string   `json:"quote" yaml:"quote"`
	Author   string   `json:"author" yaml:"author"`
	Category Category `json:"category" yaml:"category"`
}

// RandomSource is satisfied by *math/rand.Rand.
type RandomSource interface {
	Intn(n int) int
}

var ErrEmptyQuoteTable = errors.New("quote table has no candidates")

// CategoryForMood maps a mood label to its quote category. Labels outside the
// known set, custom moods and the empty label all map to CategoryAny.
func CategoryForMood(label string) Category {
	switch LabelKey(label) {
	case "happy", "grateful", "confident":
		return CategoryManifesting
	case "sad", "tired":
		return CategorySelfLove
	case "anxious", "calm", "angry":
		return CategorySelfAwareness
	default:
		return CategoryAny
	}
}

// SelectReflection picks one quote uniformly at random from the candidates for
// moodLabel: its category's quotes, or the whole table for CategoryAny.
// A nil rng uses the process-wide source.
func SelectReflection(moodLabel string, table []Quote, rng RandomSource) (Quote, error) {
	category := CategoryForMood(moodLabel)
	candidates := table
	if category != CategoryAny {
		candidates = make([]Quote, 0, len(table))
		for _, q := range table {
			if q.Category == category {
				candidates = append(candidates, q)
			}
		}
	}
	if len(candidates) == 0 {
		return Quote{}, ErrEmptyQuoteTable
	}
	if rng == nil {
		rng = globalSource{}
	}
	i := rng.Intn(len(candidates))
	if i < 0 || i >= len(candidates) {
		return Quote{}, fmt.Errorf("random source returned %d for %d candidates", i, len(candidates))
	}
	return candidates[i], nil
}

type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

const (
	reflectionDivider = "─────────────"
	reflectionClosing = "Don't forget your daily practice 💫"
	defaultOpening    = "✨ Every feeling you have is valid. Today you did something meaningful."
)

// OpeningMessage is the per-mood greeting shown above a reflection.
func OpeningMessage(label string) string {
	switch LabelKey(label) {
	case "happy":
		return "🌟 Good to see you happy! Keep that energy going."
	case "calm":
		return "🧘 Calm is a kind of strength. Protect your inner peace."
	case "sad":
		return "💙 It's okay to feel sad. You are strong and brave."
	case "tired":
		return "🌙 You've worked hard. You deserve rest."
	case "angry":
		return "🔥 Your anger is valid. Noticing it is self-awareness."
	case "anxious":
		return "🌸 You are not alone. Proud of you for checking in."
	case "grateful":
		return "🙏 Gratitude is powerful. Keep noticing the good."
	case "confident":
		return "💪 Yes! Keep believing in yourself."
	default:
		return defaultOpening
	}
}

// ComposeReflection renders the full reflection card text for a mood and quote.
func ComposeReflection(label string, q Quote) string {
	var b strings.Builder
	b.WriteString(OpeningMessage(label))
	b.WriteString("\n\n" + reflectionDivider + "\n\n")
	fmt.Fprintf(&b, "\"%s\"\n\n— %s", q.Text, q.Author)
	b.WriteString("\n\n" + reflectionDivider + "\n\n")
	b.WriteString(reflectionClosing)
	return b.String()
}

// GenerationPrompt builds the system and user prompts for an externally
// generated reflection.
func GenerationPrompt(label string) (system string, user string) {
	system = "You write short, warm journaling reflections. Reply with two to four sentences of plain text. " +
		"Do not give medical advice and do not use lists or markdown."
	label = strings.TrimSpace(label)
	if label == "" {
		return system, "Write a reflection for someone checking in with their mood today."
	}
	return system, fmt.Sprintf("Write a reflection for someone who is feeling %s today.", label)
}
