package service

import (
	"fmt"
	"sort"
	"time"

	"babywords/internal/category"
	"babywords/internal/models"
	"babywords/internal/repository"
	"babywords/internal/validation"
)

const (
	// DefaultStatsWindowDays is the span of the series when no window is given
	DefaultStatsWindowDays = 30
	topCategoryLimit       = 3
)

// StatsService aggregates recorded words into dashboard figures
type StatsService struct {
	wordRepo *repository.WordRepository
	babies   *BabyService
	now      func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(wordRepo *repository.WordRepository, babies *BabyService) *StatsService {
	return &StatsService{
		wordRepo: wordRepo,
		babies:   babies,
		now:      time.Now,
	}
}

// Series returns per-day counts for [start, end]. Empty bounds default to the
// last DefaultStatsWindowDays days through today.
func (s *StatsService) Series(userID string, babyID int64, start, end, cat string) ([]models.DayCount, error) {
	defStart, defEnd := DefaultWindow(s.now())
	if start == "" {
		start = defStart
	}
	if end == "" {
		end = defEnd
	}
	if err := validation.ValidateDate(start); err != nil {
		return nil, err
	}
	if err := validation.ValidateDate(end); err != nil {
		return nil, err
	}
	if start > end {
		return nil, validation.ValidationError{Field: "start", Message: "start must not be after end"}
	}

	cat = category.Normalize(cat)
	if cat == category.All {
		cat = ""
	}

	if _, err := s.babies.GetBaby(userID, babyID); err != nil {
		return nil, err
	}

	counts, err := s.wordRepo.CountWordsByDay(babyID, start, end, cat)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	return counts, nil
}

// Summary returns the scalar counters and top categories for a baby
func (s *StatsService) Summary(userID string, babyID int64) (models.StatsSummary, error) {
	if _, err := s.babies.GetBaby(userID, babyID); err != nil {
		return models.StatsSummary{}, err
	}
	entries, err := s.wordRepo.GetBabyWords(babyID, true)
	if err != nil {
		return models.StatsSummary{}, fmt.Errorf("failed to load summary: %w", err)
	}
	return BuildSummary(entries, s.now()), nil
}

// DefaultWindow returns the ISO bounds of the default series window ending today
func DefaultWindow(today time.Time) (string, string) {
	start := today.AddDate(0, 0, -DefaultStatsWindowDays)
	return start.Format(models.DateLayout), today.Format(models.DateLayout)
}

// BuildSummary counts entries into the dashboard windows relative to today.
// Weeks start on Monday. Each counter only counts entries inside its own window.
func BuildSummary(entries []models.WordEntry, today time.Time) models.StatsSummary {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	todayStr := day.Format(models.DateLayout)
	yesterdayStr := day.AddDate(0, 0, -1).Format(models.DateLayout)

	weekStart := day.AddDate(0, 0, -daysSinceMonday(day))
	thisWeekStart := weekStart.Format(models.DateLayout)
	lastWeekStart := weekStart.AddDate(0, 0, -7).Format(models.DateLayout)
	lastWeekEnd := weekStart.AddDate(0, 0, -1).Format(models.DateLayout)

	summary := models.EmptySummary()
	perCategory := make(map[string]int)

	for _, e := range entries {
		summary.Total++
		switch {
		case e.Date == todayStr:
			summary.Today++
		case e.Date == yesterdayStr:
			summary.Yesterday++
		}
		if e.Date >= thisWeekStart && e.Date <= todayStr {
			summary.ThisWeek++
		}
		if e.Date >= lastWeekStart && e.Date <= lastWeekEnd {
			summary.LastWeek++
		}
		if e.Category != "" {
			perCategory[e.Category]++
		}
	}

	for cat, count := range perCategory {
		summary.TopCategories = append(summary.TopCategories, models.CategoryCount{Category: cat, Count: count})
	}
	sort.Slice(summary.TopCategories, func(i, j int) bool {
		a, b := summary.TopCategories[i], summary.TopCategories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	if len(summary.TopCategories) > topCategoryLimit {
		summary.TopCategories = summary.TopCategories[:topCategoryLimit]
	}
	if len(summary.TopCategories) > 0 {
		summary.TopCategory = summary.TopCategories[0].Category
	}

	return summary
}

func daysSinceMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
