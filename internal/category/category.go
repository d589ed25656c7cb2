// Package category maps word category tags to their display label, emoji and color.
package category

import "strings"

// The fixed category vocabulary
const (
	Family     = "family"
	Animal     = "animal"
	Food       = "food"
	Vehicle    = "vehicle"
	Color      = "color"
	PersonName = "personname"
	Body       = "body"
	Object     = "object"
	Emotion    = "emotion"
	Action     = "action"
	Other      = "other"
)

// All filters nothing when used as a report filter
const All = "all"

const (
	fallbackEmoji = "🏷️"
	fallbackColor = "#9CA3AF"
)

// Info describes how a category is rendered
type Info struct {
	Key   string
	Label string
	Emoji string
	Color string
	Known bool
}

var vocabulary = []Info{
	{Key: Family, Label: "Family", Emoji: "👨‍👩‍👧", Color: "#F472B6", Known: true},
	{Key: Animal, Label: "Animal", Emoji: "🐶", Color: "#F59E0B", Known: true},
	{Key: Food, Label: "Food", Emoji: "🍎", Color: "#EF4444", Known: true},
	{Key: Vehicle, Label: "Vehicle", Emoji: "🚗", Color: "#3B82F6", Known: true},
	{Key: Color, Label: "Color", Emoji: "🎨", Color: "#8B5CF6", Known: true},
	{Key: PersonName, Label: "Name", Emoji: "🧒", Color: "#EC4899", Known: true},
	{Key: Body, Label: "Body", Emoji: "👃", Color: "#FB923C", Known: true},
	{Key: Object, Label: "Object", Emoji: "🧸", Color: "#A78BFA", Known: true},
	{Key: Emotion, Label: "Emotion", Emoji: "😊", Color: "#FBBF24", Known: true},
	{Key: Action, Label: "Action", Emoji: "🏃", Color: "#10B981", Known: true},
	{Key: Other, Label: "Other", Emoji: "🔖", Color: "#6B7280", Known: true},
}

var byKey = func() map[string]Info {
	m := make(map[string]Info, len(vocabulary))
	for _, info := range vocabulary {
		m[info.Key] = info
	}
	return m
}()

// Keys returns the vocabulary in display order
func Keys() []string {
	keys := make([]string, len(vocabulary))
	for i, info := range vocabulary {
		keys[i] = info.Key
	}
	return keys
}

// Valid reports whether raw is empty or one of the vocabulary keys
func Valid(raw string) bool {
	if raw == "" {
		return true
	}
	_, ok := byKey[raw]
	return ok
}

// Normalize trims and lowercases a user supplied category
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Lookup returns the display info for raw. Unknown values never fail: they
// render with a generic emoji and the raw value as label.
func Lookup(raw string) Info {
	if info, ok := byKey[raw]; ok {
		return info
	}
	if raw == "" {
		return Info{Label: "Uncategorized", Emoji: fallbackEmoji, Color: fallbackColor}
	}
	return Info{Key: raw, Label: raw, Emoji: fallbackEmoji, Color: fallbackColor}
}
