package insights

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxLabelRunes   = 32
	maxEmojiRunes   = 16
	defaultColorTag = "bg-slate-100 border-slate-200"
)

// ErrValidation marks caller input that was rejected without mutating anything.
var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type MoodDefinition struct {
	Emoji    string `json:"emoji" yaml:"emoji"`
	Label    string `json:"label" yaml:"label"`
	ColorTag string `json:"color_tag" yaml:"color_tag"`
}

// LabelKey is the case-insensitive identity of a mood label.
func LabelKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Catalog is an ordered set of mood definitions with case-insensitive unique labels.
// Add is the only way in, so the uniqueness check lives in one place.
type Catalog struct {
	defs  []MoodDefinition
	index map[string]int
}

func NewCatalog(defs ...MoodDefinition) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(defs))}
	for _, d := range defs {
		if err := c.Add(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add validates def and appends it. On error the catalog is unchanged.
func (c *Catalog) Add(def MoodDefinition) error {
	def, err := normalizeDefinition(def)
	if err != nil {
		return err
	}
	key := LabelKey(def.Label)
	if existing, ok := c.index[key]; ok {
		return invalid("label", "mood %q already exists", c.defs[existing].Label)
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	c.index[key] = len(c.defs)
	c.defs = append(c.defs, def)
	return nil
}

func normalizeDefinition(def MoodDefinition) (MoodDefinition, error) {
	def.Emoji = strings.TrimSpace(def.Emoji)
	def.Label = strings.TrimSpace(def.Label)
	def.ColorTag = strings.TrimSpace(def.ColorTag)
	if def.Emoji == "" {
		return def, invalid("emoji", "emoji is required")
	}
	if def.Label == "" {
		return def, invalid("label", "label is required")
	}
	if utf8.RuneCountInString(def.Emoji) > maxEmojiRunes {
		return def, invalid("emoji", "emoji must be at most %d characters", maxEmojiRunes)
	}
	if utf8.RuneCountInString(def.Label) > maxLabelRunes {
		return def, invalid("label", "label must be at most %d characters", maxLabelRunes)
	}
	if def.ColorTag == "" {
		def.ColorTag = defaultColorTag
	}
	return def, nil
}

// Validate runs the same checks as Add against this catalog without mutating it.
func (c *Catalog) Validate(def MoodDefinition) (MoodDefinition, error) {
	def, err := normalizeDefinition(def)
	if err != nil {
		return def, err
	}
	if existing, ok := c.Lookup(def.Label); ok {
		return def, invalid("label", "mood %q already exists", existing.Label)
	}
	return def, nil
}

func (c *Catalog) Lookup(label string) (MoodDefinition, bool) {
	if c == nil {
		return MoodDefinition{}, false
	}
	i, ok := c.index[LabelKey(label)]
	if !ok {
		return MoodDefinition{}, false
	}
	return c.defs[i], true
}

func (c *Catalog) Contains(label string) bool {
	_, ok := c.Lookup(label)
	return ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.defs)
}

// Definitions returns a copy in insertion order.
func (c *Catalog) Definitions() []MoodDefinition {
	if c == nil {
		return nil
	}
	out := make([]MoodDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *Catalog) Clone() *Catalog {
	out := &Catalog{index: make(map[string]int, c.Len())}
	if c == nil {
		return out
	}
	out.defs = c.Definitions()
	for k, v := range c.index {
		out.index[k] = v
	}
	return out
}
