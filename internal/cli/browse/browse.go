// Package browse is an interactive terminal view of the word report. It is a
// bubbletea program driving report.Model: every key maps to one report
// intent and the view is re-rendered from the report state.
package browse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"babywords/internal/appctx"
	"babywords/internal/category"
	"babywords/internal/models"
	"babywords/internal/viewmodel/report"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

// doneMsg carries the result of a report call run as a tea.Cmd
type doneMsg struct {
	err error
}

// changedMsg is sent when the report changes outside of Update, such as
// when a saved flash expires
type changedMsg struct{}

// Model is the bubbletea model
type Model struct {
	ctx    context.Context
	report *report.Model
	sc     appctx.Context

	cursor int
	err    error
}

// New returns a browser for the words of sc's active profile
func New(ctx context.Context, vm *report.Model, sc appctx.Context) Model {
	return Model{ctx: ctx, report: vm, sc: sc}
}

// Run starts the program and blocks until the user quits
func Run(ctx context.Context, vm *report.Model, sc appctx.Context, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(New(ctx, vm, sc), opts...)
	unsubscribe := vm.Subscribe(func(report.State) {
		// Subscribers may be called from within Update.
		go p.Send(changedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

func (m Model) run(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: fn()}
	}
}

func (m Model) load() tea.Cmd {
	return m.run(func() error { return m.report.Load(m.ctx, m.sc) })
}

// Init loads the list
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update handles keys and report results
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		if !errors.Is(msg.err, report.ErrSuperseded) {
			m.err = msg.err
		}
		m.clamp()
		return m, nil
	case changedMsg:
		m.clamp()
		return m, nil
	case tea.KeyMsg:
		if editing := m.editing(); editing != nil {
			return m.updateEditing(msg, editing)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "down", "j":
		if m.cursor < len(m.report.Visible())-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "f":
		m.report.SetFilter(nextFilter(m.report.Filter()))
		m.cursor = 0
	case "s":
		m.err = nil
		return m, m.run(func() error { return m.report.ToggleSort(m.ctx, m.sc) })
	case "r":
		m.err = nil
		return m, m.load()
	case "e", "enter":
		if e, ok := m.selected(); ok {
			m.err = m.report.BeginEdit(e.ID)
		}
	case "d":
		if e, ok := m.selected(); ok {
			m.err = nil
			return m, m.run(func() error { return m.report.Remove(m.ctx, e.ID) })
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg, editing *report.Edit) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.report.CancelEdit()
	case "right", "l", "tab":
		m.err = m.report.SetDraft(cycleDraft(editing.Draft, 1))
	case "left", "h", "shift+tab":
		m.err = m.report.SetDraft(cycleDraft(editing.Draft, -1))
	case "enter":
		id, draft := editing.ID, editing.Draft
		m.err = nil
		return m, m.run(func() error { return m.report.CommitEdit(m.ctx, id, draft) })
	}
	return m, nil
}

// editing returns the entry in edit mode, if any
func (m Model) editing() *report.Edit {
	if st, ok := m.report.State().(report.Loaded); ok {
		return st.Editing
	}
	return nil
}

func (m Model) selected() (models.WordEntry, bool) {
	visible := m.report.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return models.WordEntry{}, false
	}
	return visible[m.cursor], true
}

// clamp keeps the cursor inside the visible list after it shrinks
func (m *Model) clamp() {
	n := len(m.report.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// nextFilter cycles all, then each category in display order
func nextFilter(current string) string {
	filters := append([]string{category.All}, category.Keys()...)
	return cycle(filters, current, 1)
}

// cycleDraft steps through the categories, uncategorized first
func cycleDraft(current string, step int) string {
	drafts := append([]string{""}, category.Keys()...)
	return cycle(drafts, current, step)
}

func cycle(values []string, current string, step int) string {
	i := -1
	for j, v := range values {
		if v == current {
			i = j
			break
		}
	}
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+step)%n+n)%n]
}

// View renders the report
func (m Model) View() string {
	var b strings.Builder

	order := "newest first"
	if m.report.SortAsc() {
		order = "oldest first"
	}
	filter := "All"
	if f := m.report.Filter(); f != category.All {
		filter = category.Lookup(f).Label
	}
	name := ""
	if m.sc.Profile != nil {
		name = m.sc.Profile.Name
	}
	fmt.Fprintf(&b, "%s  %s\n\n", bold.Sprintf("%s's words", name), faint.Sprintf("%s, %s", filter, order))

	switch st := m.report.State().(type) {
	case report.Idle:
		b.WriteString(faint.Sprint("Select a baby to see their words.") + "\n")
	case report.Loading:
		b.WriteString(faint.Sprint("Loading words...") + "\n")
	case report.Failed:
		b.WriteString(red.Sprintf("Could not load words: %v", st.Err) + "\n")
		b.WriteString(faint.Sprint("r retry  q quit") + "\n")
		return b.String()
	case report.Loaded:
		m.viewLoaded(&b, st)
	}

	if m.err != nil && !isInline(m.err) {
		b.WriteString("\n" + red.Sprint(m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	if m.editing() != nil {
		b.WriteString(faint.Sprint("←/→ category  enter save  esc cancel"))
	} else {
		b.WriteString(faint.Sprint("j/k move  e edit  d delete  f filter  s sort  r reload  q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewLoaded(b *strings.Builder, st report.Loaded) {
	if st.IsEmpty() {
		b.WriteString(faint.Sprint("No words yet.") + "\n")
		return
	}
	visible := m.report.Visible()
	if len(visible) == 0 {
		b.WriteString(faint.Sprintf("No %s words.", category.Lookup(m.report.Filter()).Label) + "\n")
		return
	}

	for i, e := range visible {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		info := category.Lookup(e.Category)
		label := info.Emoji + " " + info.Label
		if st.Editing != nil && st.Editing.ID == e.ID {
			draft := category.Lookup(st.Editing.Draft)
			label = bold.Sprintf("‹ %s %s ›", draft.Emoji, draft.Label)
		}

		line := fmt.Sprintf("%s%s  %-16s %s", marker, e.Date, e.Word, label)
		switch {
		case st.Errors[e.ID] != "":
			line += "  " + red.Sprint(st.Errors[e.ID])
		case st.SavedID == e.ID:
			line += "  " + green.Sprint("✓ saved")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(faint.Sprintf("\n%d of %d words", len(visible), len(st.Entries)) + "\n")
}

// isInline reports whether err is already shown next to its entry
func isInline(err error) bool {
	var werr *report.WriteError
	return errors.As(err, &werr) && werr.Op != report.OpAdd
}
