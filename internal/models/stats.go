package models

// NoTopCategory marks a summary without any categorized words yet
const NoTopCategory = "-"

// DayCount is the number of words recorded on one date
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CategoryCount is the number of words recorded in one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StatsSummary holds the dashboard counters for one baby
type StatsSummary struct {
	Today         int             `json:"today"`
	Yesterday     int             `json:"yesterday"`
	ThisWeek      int             `json:"thisWeek"`
	LastWeek      int             `json:"lastWeek"`
	Total         int             `json:"total"`
	TopCategory   string          `json:"topCategory"`
	TopCategories []CategoryCount `json:"topCategories"`
}

// EmptySummary returns the summary shown before any data has loaded
func EmptySummary() StatsSummary {
	return StatsSummary{
		TopCategory:   NoTopCategory,
		TopCategories: []CategoryCount{},
	}
}

// HasTopCategory reports whether TopCategory names a real category
func (s StatsSummary) HasTopCategory() bool {
	return s.TopCategory != "" && s.TopCategory != NoTopCategory
}
