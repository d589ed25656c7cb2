package service

import (
	"reflect"
	"testing"
	"time"

	"babywords/internal/models"
)

func entry(date, category string) models.WordEntry {
	return models.WordEntry{Word: "w", Date: date, Category: category}
}

func TestDefaultWindow(t *testing.T) {
	today := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	start, end := DefaultWindow(today)
	if start != "2024-02-14" || end != "2024-03-15" {
		t.Errorf("DefaultWindow() = %s..%s, want 2024-02-14..2024-03-15", start, end)
	}
}

func TestBuildSummaryWindows(t *testing.T) {
	// 2024-03-13 is a Wednesday, so this week starts 2024-03-11
	today := time.Date(2024, 3, 13, 18, 0, 0, 0, time.UTC)

	entries := []models.WordEntry{
		entry("2024-03-13", "food"),
		entry("2024-03-13", "animal"),
		entry("2024-03-12", "food"),
		entry("2024-03-11", ""),
		entry("2024-03-10", "food"),   // last Sunday
		entry("2024-03-04", "family"), // last Monday
		entry("2024-03-03", "family"), // two weeks back
		entry("2024-03-14", "animal"), // tomorrow
	}

	got := BuildSummary(entries, today)

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"today", got.Today, 2},
		{"yesterday", got.Yesterday, 1},
		{"thisWeek", got.ThisWeek, 4},
		{"lastWeek", got.LastWeek, 2},
		{"total", got.Total, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
			}
		})
	}

	wantTop := []models.CategoryCount{
		{Category: "food", Count: 3},
		{Category: "animal", Count: 2},
		{Category: "family", Count: 2},
	}
	if !reflect.DeepEqual(got.TopCategories, wantTop) {
		t.Errorf("TopCategories = %+v, want %+v", got.TopCategories, wantTop)
	}
	if got.TopCategory != "food" {
		t.Errorf("TopCategory = %q, want food", got.TopCategory)
	}
}

func TestBuildSummaryMondayBoundary(t *testing.T) {
	monday := time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)
	entries := []models.WordEntry{
		entry("2024-03-11", ""),
		entry("2024-03-10", ""),
		entry("2024-03-04", ""),
		entry("2024-03-03", ""),
	}

	got := BuildSummary(entries, monday)
	if got.ThisWeek != 1 {
		t.Errorf("ThisWeek = %d, want 1", got.ThisWeek)
	}
	if got.LastWeek != 2 {
		t.Errorf("LastWeek = %d, want 2", got.LastWeek)
	}
	if got.Yesterday != 1 {
		t.Errorf("Yesterday = %d, want 1", got.Yesterday)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	got := BuildSummary(nil, time.Now())
	if got.TopCategory != models.NoTopCategory {
		t.Errorf("TopCategory = %q, want sentinel", got.TopCategory)
	}
	if got.TopCategories == nil || len(got.TopCategories) != 0 {
		t.Errorf("TopCategories = %#v, want empty slice", got.TopCategories)
	}
	if got.HasTopCategory() {
		t.Error("empty summary should not report a top category")
	}
}

func TestBuildSummaryIgnoresUncategorized(t *testing.T) {
	got := BuildSummary([]models.WordEntry{entry("2024-01-01", ""), entry("2024-01-02", "")}, time.Now())
	if got.Total != 2 {
		t.Errorf("Total = %d, want 2", got.Total)
	}
	if got.TopCategory != models.NoTopCategory {
		t.Errorf("TopCategory = %q, want sentinel", got.TopCategory)
	}
}
