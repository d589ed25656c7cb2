package category

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLabel string
		wantEmoji string
		wantKnown bool
	}{
		{name: "known category", raw: Food, wantLabel: "Food", wantEmoji: "🍎", wantKnown: true},
		{name: "person name", raw: PersonName, wantLabel: "Name", wantEmoji: "🧒", wantKnown: true},
		{name: "unknown tag falls back", raw: "unknown_tag", wantLabel: "unknown_tag", wantEmoji: fallbackEmoji},
		{name: "empty category", raw: "", wantLabel: "Uncategorized", wantEmoji: fallbackEmoji},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Lookup(tt.raw)
			if info.Label != tt.wantLabel {
				t.Errorf("Lookup(%q).Label = %q, want %q", tt.raw, info.Label, tt.wantLabel)
			}
			if info.Emoji != tt.wantEmoji {
				t.Errorf("Lookup(%q).Emoji = %q, want %q", tt.raw, info.Emoji, tt.wantEmoji)
			}
			if info.Known != tt.wantKnown {
				t.Errorf("Lookup(%q).Known = %v, want %v", tt.raw, info.Known, tt.wantKnown)
			}
			if info.Color == "" {
				t.Errorf("Lookup(%q).Color is empty", tt.raw)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, key := range Keys() {
		if !Valid(key) {
			t.Errorf("Valid(%q) = false, want true", key)
		}
	}
	if !Valid("") {
		t.Error("empty category should be valid")
	}
	if Valid("dinosaur") {
		t.Error("Valid(dinosaur) = true, want false")
	}
	if Valid(All) {
		t.Error("the all filter is not a category")
	}
}

func TestKeysOrder(t *testing.T) {
	keys := Keys()
	if len(keys) != 11 {
		t.Fatalf("Keys() returned %d entries, want 11", len(keys))
	}
	if keys[0] != Family || keys[len(keys)-1] != Other {
		t.Errorf("unexpected order: %v", keys)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Food "); got != "food" {
		t.Errorf("Normalize() = %q, want food", got)
	}
}
