// Package stats is the dashboard view model. It loads the per-day series and
// the summary counters for the active profile and derives trend indicators
// and the top category chart.
package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"babywords/internal/appctx"
	"babywords/internal/category"
	"babywords/internal/client"
	"babywords/internal/models"
	"babywords/internal/validation"
)

// DefaultWindowDays is the length of the window used when none is set
const DefaultWindowDays = 30

// SliceColors are the chart colors of the top three categories
var SliceColors = []string{"#34D399", "#60A5FA", "#FBBF24"}

var (
	// ErrNotReady is returned when no user or profile is selected
	ErrNotReady = errors.New("no signed-in user or active profile")
	// ErrInvalidWindow is returned by SetWindow for bad dates
	ErrInvalidWindow = errors.New("invalid date window")
	// ErrSuperseded is returned by a fetch whose result was discarded
	ErrSuperseded = errors.New("superseded by a newer load")
)

// Store is the part of the remote store the dashboard uses
type Store interface {
	Series(ctx context.Context, q client.SeriesQuery) ([]models.DayCount, error)
	Summary(ctx context.Context, babyID int64, userID string) (*models.StatsSummary, error)
}

// Status is the load state of one resource
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Resource is fetched data with its load status. Data is only meaningful
// when Status is StatusLoaded and Err only when it is StatusFailed.
type Resource[T any] struct {
	Status Status
	Data   T
	Err    error
}

// Window is an inclusive range of ISO dates
type Window struct {
	Start string
	End   string
}

// DefaultWindow returns the last 30 days through today
func DefaultWindow(today time.Time) Window {
	return Window{
		Start: today.AddDate(0, 0, -DefaultWindowDays).Format(models.DateLayout),
		End:   today.Format(models.DateLayout),
	}
}

// Direction is a trend indicator
type Direction int

const (
	None Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// Trend compares a current count with the previous one
func Trend(current, previous int) Direction {
	switch {
	case current > previous:
		return Up
	case current < previous:
		return Down
	default:
		return None
	}
}

type seriesKey struct {
	profileID int64
	userID    string
	window    Window
	category  string
}

type summaryKey struct {
	profileID int64
	userID    string
}

// Option configures a Model
type Option func(*Model)

// WithClock sets the clock used for the default window
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// Model is safe for concurrent use
type Model struct {
	store Store
	now   func() time.Time

	mu       sync.Mutex
	window   Window
	category string

	seriesGen uint64
	seriesKey seriesKey
	series    Resource[[]models.DayCount]

	summaryGen uint64
	summaryKey summaryKey
	summary    Resource[models.StatsSummary]
}

// New creates a model whose window is the default window at creation time
func New(store Store, opts ...Option) *Model {
	m := &Model{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.window = DefaultWindow(m.now())
	m.summary.Data = models.EmptySummary()
	return m
}

// Window returns the current date window
func (m *Model) Window() Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.window
}

// SetWindow changes the date window. Both dates are required and start may
// not be after end.
func (m *Model) SetWindow(start, end string) error {
	for _, date := range []string{start, end} {
		if err := validation.ValidateDate(date); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidWindow, err)
		}
	}
	if start > end {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidWindow, start, end)
	}
	m.mu.Lock()
	m.window = Window{Start: start, End: end}
	m.mu.Unlock()
	return nil
}

// Category returns the category filter, "" meaning all categories
func (m *Model) Category() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.category
}

// SelectCategory scopes the series to one category
func (m *Model) SelectCategory(cat string) {
	cat = category.Normalize(cat)
	if cat == category.All {
		cat = ""
	}
	m.mu.Lock()
	m.category = cat
	m.mu.Unlock()
}

// ResetCategory removes the category filter
func (m *Model) ResetCategory() {
	m.SelectCategory("")
}

// Reset forgets both resources and the category scope after the active
// profile changes. Fetches in flight are superseded. The window is kept.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seriesGen++
	m.summaryGen++
	m.category = ""
	m.series = Resource[[]models.DayCount]{}
	m.summary = Resource[models.StatsSummary]{Data: models.EmptySummary()}
}

// LoadSeries fetches per-day counts for the current window and category.
// The result is sorted by ascending date whatever order the server used.
func (m *Model) LoadSeries(ctx context.Context, sc appctx.Context) error {
	if !sc.Ready() {
		return ErrNotReady
	}

	m.mu.Lock()
	key := seriesKey{
		profileID: sc.ProfileID(),
		userID:    sc.UserID(),
		window:    m.window,
		category:  m.category,
	}
	m.seriesGen++
	gen := m.seriesGen
	m.seriesKey = key
	m.series = Resource[[]models.DayCount]{Status: StatusLoading}
	m.mu.Unlock()

	series, err := m.store.Series(ctx, client.SeriesQuery{
		BabyID:   key.profileID,
		UserID:   key.userID,
		Start:    key.window.Start,
		End:      key.window.End,
		Category: key.category,
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.seriesGen || key != m.seriesKey {
		return ErrSuperseded
	}
	if err != nil {
		m.series = Resource[[]models.DayCount]{Status: StatusFailed, Err: err}
		return fmt.Errorf("failed to load series: %w", err)
	}

	sorted := make([]models.DayCount, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	m.series = Resource[[]models.DayCount]{Status: StatusLoaded, Data: sorted}
	return nil
}

// LoadSummary fetches the counters and top categories in one call
func (m *Model) LoadSummary(ctx context.Context, sc appctx.Context) error {
	if !sc.Ready() {
		return ErrNotReady
	}

	m.mu.Lock()
	key := summaryKey{profileID: sc.ProfileID(), userID: sc.UserID()}
	m.summaryGen++
	gen := m.summaryGen
	m.summaryKey = key
	m.summary = Resource[models.StatsSummary]{Status: StatusLoading, Data: models.EmptySummary()}
	m.mu.Unlock()

	summary, err := m.store.Summary(ctx, key.profileID, key.userID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.summaryGen || key != m.summaryKey {
		return ErrSuperseded
	}
	if err != nil {
		m.summary = Resource[models.StatsSummary]{Status: StatusFailed, Data: models.EmptySummary(), Err: err}
		return fmt.Errorf("failed to load summary: %w", err)
	}
	data := *summary
	if data.TopCategory == "" {
		data.TopCategory = models.NoTopCategory
	}
	data.TopCategories = append([]models.CategoryCount{}, data.TopCategories...)
	m.summary = Resource[models.StatsSummary]{Status: StatusLoaded, Data: data}
	return nil
}

// Series returns the series resource
func (m *Model) Series() Resource[[]models.DayCount] {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.series
	r.Data = append([]models.DayCount(nil), r.Data...)
	return r
}

// Summary returns the summary resource. Until a summary loads, Data is the
// empty summary with the "-" top category.
func (m *Model) Summary() Resource[models.StatsSummary] {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.summary
	r.Data.TopCategories = append([]models.CategoryCount{}, r.Data.TopCategories...)
	return r
}

// HasData reports whether a loaded summary has any words in it
func (m *Model) HasData() bool {
	s := m.Summary()
	return s.Status == StatusLoaded && s.Data.Total > 0
}

// Card is one dashboard counter
type Card struct {
	Label string
	Value string
	Trend Direction
}

// Cards returns the dashboard counters. Today and this week carry a trend
// against yesterday and last week.
func (m *Model) Cards() []Card {
	s := m.Summary().Data

	top := models.NoTopCategory
	if s.HasTopCategory() {
		info := category.Lookup(s.TopCategory)
		top = info.Emoji + " " + info.Label
	}

	return []Card{
		{Label: "Today", Value: strconv.Itoa(s.Today), Trend: Trend(s.Today, s.Yesterday)},
		{Label: "Yesterday", Value: strconv.Itoa(s.Yesterday)},
		{Label: "This week", Value: strconv.Itoa(s.ThisWeek), Trend: Trend(s.ThisWeek, s.LastWeek)},
		{Label: "Last week", Value: strconv.Itoa(s.LastWeek)},
		{Label: "Total", Value: strconv.Itoa(s.Total)},
		{Label: "Top category", Value: top},
	}
}

// Slice is one segment of the top category chart
type Slice struct {
	Category string
	Label    string
	Emoji    string
	Count    int
	Color    string
}

// Slices returns at most three chart segments in count order
func (m *Model) Slices() []Slice {
	top := m.Summary().Data.TopCategories
	if len(top) > len(SliceColors) {
		top = top[:len(SliceColors)]
	}

	slices := make([]Slice, 0, len(top))
	for i, c := range top {
		info := category.Lookup(c.Category)
		slices = append(slices, Slice{
			Category: c.Category,
			Label:    info.Label,
			Emoji:    info.Emoji,
			Count:    c.Count,
			Color:    SliceColors[i],
		})
	}
	return slices
}

// SelectSlice scopes the series to the category of chart segment i and
// reloads it
func (m *Model) SelectSlice(ctx context.Context, sc appctx.Context, i int) error {
	slices := m.Slices()
	if i < 0 || i >= len(slices) {
		return fmt.Errorf("no chart segment %d", i)
	}
	m.SelectCategory(slices[i].Category)
	return m.LoadSeries(ctx, sc)
}
