package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				UserID:    "user-1",
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			if result := session.IsExpired(); result != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestStatsSummaryHasTopCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     bool
	}{
		{name: "sentinel", category: NoTopCategory, want: false},
		{name: "empty", category: "", want: false},
		{name: "real category", category: "food", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StatsSummary{TopCategory: tt.category}
			if got := s.HasTopCategory(); got != tt.want {
				t.Errorf("HasTopCategory() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmptySummaryEncodesEmptyList(t *testing.T) {
	data, err := json.Marshal(EmptySummary())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"topCategories":[]`) {
		t.Errorf("expected empty topCategories array, got %s", data)
	}
	if !strings.Contains(string(data), `"topCategory":"-"`) {
		t.Errorf("expected sentinel top category, got %s", data)
	}
}

func TestBabyJSONUsesSnakeCasePhoto(t *testing.T) {
	data, err := json.Marshal(Baby{ID: 3, Name: "Pat", PhotoURL: "https://img/pat.jpg"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"photo_url":"https://img/pat.jpg"`) {
		t.Errorf("expected photo_url key, got %s", data)
	}
}
