// Package printers renders view model state as terminal tables.
package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"babywords/internal/category"
	"babywords/internal/models"
	"babywords/internal/viewmodel/report"
	"babywords/internal/viewmodel/stats"
)

const maxBarWidth = 40

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

// Success prints a green acknowledgement
func Success(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, green.Sprintf(format, args...))
}

// Failure prints a red inline error
func Failure(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, red.Sprintf(format, args...))
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

// Babies lists profiles and marks the active one
func Babies(w io.Writer, babies []models.Baby, activeID int64) {
	if len(babies) == 0 {
		_, _ = fmt.Fprintln(w, faint.Sprint("No babies yet. Add one with `babywords babies add NAME`."))
		return
	}

	tbl := newTable()
	tbl.AddRow("", bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Photo"))
	for _, b := range babies {
		marker := ""
		if b.ID == activeID {
			marker = green.Sprint("*")
		}
		photo := b.PhotoURL
		if photo == "" {
			photo = faint.Sprint("default")
		}
		tbl.AddRow(marker, b.ID, b.Name, photo)
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(w, tbl)
}

// Words renders the word report. Loading, failure and an empty list each
// have their own message.
func Words(w io.Writer, st report.State, visible []models.WordEntry, filter string) {
	switch s := st.(type) {
	case report.Idle:
		_, _ = fmt.Fprintln(w, faint.Sprint("Select a baby to see their words."))
		return
	case report.Loading:
		_, _ = fmt.Fprintln(w, faint.Sprint("Loading words..."))
		return
	case report.Failed:
		Failure(w, "Could not load words: %v", s.Err)
		return
	case report.Loaded:
		if s.IsEmpty() {
			_, _ = fmt.Fprintln(w, faint.Sprint("No words yet."))
			return
		}
		if len(visible) == 0 {
			_, _ = fmt.Fprintf(w, "%s\n", faint.Sprintf("No %s words.", category.Lookup(filter).Label))
			return
		}

		tbl := newTable()
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Date"), bold.Sprint("Word"), bold.Sprint("Category"), "")
		for _, e := range visible {
			info := category.Lookup(e.Category)
			note := ""
			switch {
			case s.Errors[e.ID] != "":
				note = red.Sprint(s.Errors[e.ID])
			case s.SavedID == e.ID:
				note = green.Sprint("saved")
			case s.Editing != nil && s.Editing.ID == e.ID:
				note = faint.Sprintf("editing: %s", category.Lookup(s.Editing.Draft).Label)
			}
			tbl.AddRow(e.ID, e.Date, e.Word, info.Emoji+" "+info.Label, note)
		}
		tbl.RightAlign(0)
		_, _ = fmt.Fprintln(w, tbl)
		_, _ = fmt.Fprintln(w, faint.Sprintf("%d of %d words", len(visible), len(s.Entries)))
	}
}

// TrendArrow renders a trend indicator
func TrendArrow(d stats.Direction) string {
	switch d {
	case stats.Up:
		return green.Sprint("▲")
	case stats.Down:
		return red.Sprint("▼")
	default:
		return faint.Sprint("–")
	}
}

// Cards renders the dashboard counters
func Cards(w io.Writer, cards []stats.Card) {
	tbl := newTable()
	for _, c := range cards {
		arrow := ""
		if c.Label == "Today" || c.Label == "This week" {
			arrow = TrendArrow(c.Trend)
		}
		tbl.AddRow(bold.Sprint(c.Label), c.Value, arrow)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// Series renders per-day counts as a horizontal bar chart
func Series(w io.Writer, series []models.DayCount) {
	if len(series) == 0 {
		_, _ = fmt.Fprintln(w, faint.Sprint("No words in this window."))
		return
	}

	peak := 0
	for _, d := range series {
		if d.Count > peak {
			peak = d.Count
		}
	}

	tbl := newTable()
	for _, d := range series {
		tbl.AddRow(d.Date, bar(d.Count, peak), strconv.Itoa(d.Count))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func bar(count, peak int) string {
	if peak <= 0 || count <= 0 {
		return ""
	}
	n := count * maxBarWidth / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// Slices renders the top category breakdown
func Slices(w io.Writer, slices []stats.Slice) {
	if len(slices) == 0 {
		_, _ = fmt.Fprintln(w, faint.Sprint("No categories yet."))
		return
	}

	tbl := newTable()
	for i, s := range slices {
		tbl.AddRow(strconv.Itoa(i+1), s.Emoji+" "+s.Label, strconv.Itoa(s.Count), faint.Sprint(s.Color))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// Categories lists the category vocabulary
func Categories(w io.Writer) {
	tbl := newTable()
	tbl.AddRow(bold.Sprint("Key"), bold.Sprint("Category"))
	for _, key := range category.Keys() {
		info := category.Lookup(key)
		tbl.AddRow(key, info.Emoji+" "+info.Label)
	}
	_, _ = fmt.Fprintln(w, tbl)
}
