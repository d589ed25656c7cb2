package browse

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"babywords/internal/appctx"
	"babywords/internal/models"
	"babywords/internal/viewmodel/report"
)

func init() {
	color.NoColor = true
}

type fakeStore struct {
	mu       sync.Mutex
	words    []models.WordEntry
	patchErr error
	patched  map[int64]string
	deleted  []int64
}

func (f *fakeStore) ListWords(ctx context.Context, babyID int64, userID string, sortAsc bool) ([]models.WordEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.WordEntry, 0, len(f.words))
	if sortAsc {
		for i := len(f.words) - 1; i >= 0; i-- {
			out = append(out, f.words[i])
		}
		return out, nil
	}
	return append(out, f.words...), nil
}

func (f *fakeStore) AddWord(ctx context.Context, userID string, entry models.WordEntry) (*models.WordEntry, error) {
	return nil, errors.New("not supported")
}

func (f *fakeStore) PatchWordCategory(ctx context.Context, id int64, cat string) (*models.WordEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	for i, w := range f.words {
		if w.ID == id {
			f.words[i].Category = cat
			if f.patched == nil {
				f.patched = map[int64]string{}
			}
			f.patched[id] = cat
			updated := f.words[i]
			return &updated, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeStore) DeleteWord(ctx context.Context, id int64, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.words {
		if w.ID == id {
			f.words = append(f.words[:i], f.words[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return errors.New("not found")
}

func newStore() *fakeStore {
	// newest first, the way the server returns them by default
	return &fakeStore{words: []models.WordEntry{
		{ID: 3, BabyID: 1, Word: "apple", Date: "2024-03-03", Category: "food"},
		{ID: 2, BabyID: 1, Word: "dog", Date: "2024-03-02", Category: "animal"},
		{ID: 1, BabyID: 1, Word: "mama", Date: "2024-03-01", Category: "family"},
	}}
}

func session() appctx.Context {
	return appctx.Context{
		User:    &appctx.User{ID: "u1", Email: "parent@example.com"},
		Profile: &appctx.Profile{ID: 1, Name: "Ada"},
	}
}

// start builds a browser and runs its Init command
func start(t *testing.T, store *fakeStore) (Model, *report.Model) {
	t.Helper()
	vm := report.New(store, report.WithAfterFunc(func(time.Duration, func()) {}))
	m := New(context.Background(), vm, session())
	return send(t, m, m.Init()), vm
}

// send feeds the message produced by cmd back into the model
func send(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

// press delivers a key and runs any command it returns
func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return send(t, next.(Model), cmd)
}

func TestInitLoads(t *testing.T) {
	m, vm := start(t, newStore())

	if _, ok := vm.State().(report.Loaded); !ok {
		t.Fatalf("state = %T, want Loaded", vm.State())
	}
	view := m.View()
	for _, want := range []string{"Ada's words", "apple", "dog", "mama", "3 of 3 words"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCursorMovement(t *testing.T) {
	m, _ := start(t, newStore())

	tests := []struct {
		key  string
		want int
	}{
		{"k", 0},
		{"j", 1},
		{"j", 2},
		{"j", 2},
		{"k", 1},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		if m.cursor != tt.want {
			t.Fatalf("after %q cursor = %d, want %d", tt.key, m.cursor, tt.want)
		}
	}
}

func TestFilterCycles(t *testing.T) {
	m, vm := start(t, newStore())

	m = press(t, m, "j")
	m = press(t, m, "f")
	if vm.Filter() != "family" {
		t.Fatalf("filter = %q, want family", vm.Filter())
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want reset to 0", m.cursor)
	}
	if got := vm.Visible(); len(got) != 1 || got[0].Word != "mama" {
		t.Errorf("visible = %v, want only mama", got)
	}

	press(t, m, "f")
	if vm.Filter() != "animal" {
		t.Fatalf("filter = %q, want animal", vm.Filter())
	}
	if got := vm.Visible(); len(got) != 1 || got[0].Word != "dog" {
		t.Errorf("visible = %v, want only dog", got)
	}
}

func TestToggleSort(t *testing.T) {
	m, vm := start(t, newStore())

	m = press(t, m, "s")
	if !vm.SortAsc() {
		t.Fatal("sort should be ascending")
	}
	if got := vm.Visible(); got[0].Word != "mama" {
		t.Errorf("first word = %q, want mama", got[0].Word)
	}
	if !strings.Contains(m.View(), "oldest first") {
		t.Errorf("view should show oldest first:\n%s", m.View())
	}
}

func TestEditAndCommit(t *testing.T) {
	store := newStore()
	m, vm := start(t, store)

	m = press(t, m, "e")
	st := vm.State().(report.Loaded)
	if st.Editing == nil || st.Editing.ID != 3 || st.Editing.Draft != "food" {
		t.Fatalf("editing = %+v, want word 3 with draft food", st.Editing)
	}

	// food -> vehicle
	m = press(t, m, "right")
	if got := vm.State().(report.Loaded).Editing.Draft; got != "vehicle" {
		t.Fatalf("draft = %q, want vehicle", got)
	}

	m = press(t, m, "enter")
	if m.err != nil {
		t.Fatalf("commit error: %v", m.err)
	}
	st = vm.State().(report.Loaded)
	if st.Editing != nil {
		t.Error("edit mode should close after save")
	}
	if st.SavedID != 3 {
		t.Errorf("SavedID = %d, want 3", st.SavedID)
	}
	if store.patched[3] != "vehicle" {
		t.Errorf("patched = %v, want 3 -> vehicle", store.patched)
	}
	if !strings.Contains(m.View(), "✓ saved") {
		t.Errorf("view missing saved mark:\n%s", m.View())
	}
}

func TestEditFailureKeepsDraft(t *testing.T) {
	store := newStore()
	store.patchErr = errors.New("server down")
	m, vm := start(t, store)

	m = press(t, m, "e")
	m = press(t, m, "left")
	m = press(t, m, "enter")

	var werr *report.WriteError
	if !errors.As(m.err, &werr) {
		t.Fatalf("err = %v, want *report.WriteError", m.err)
	}
	st := vm.State().(report.Loaded)
	if st.Editing == nil || st.Editing.Draft != "animal" {
		t.Fatalf("editing = %+v, want draft animal kept", st.Editing)
	}
	if !strings.Contains(m.View(), "server down") {
		t.Errorf("view missing inline error:\n%s", m.View())
	}
}

func TestCancelEdit(t *testing.T) {
	m, vm := start(t, newStore())

	m = press(t, m, "e")
	m = press(t, m, "esc")
	if vm.State().(report.Loaded).Editing != nil {
		t.Error("esc should leave edit mode")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestDelete(t *testing.T) {
	store := newStore()
	m, vm := start(t, store)

	m = press(t, m, "j")
	m = press(t, m, "j")
	m = press(t, m, "d")
	if len(store.deleted) != 1 || store.deleted[0] != 1 {
		t.Fatalf("deleted = %v, want [1]", store.deleted)
	}
	if n := len(vm.Visible()); n != 2 {
		t.Fatalf("visible = %d, want 2", n)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want clamped to 1", m.cursor)
	}
}

func TestCycle(t *testing.T) {
	values := []string{"", "a", "b"}
	tests := []struct {
		current string
		step    int
		want    string
	}{
		{"", 1, "a"},
		{"b", 1, ""},
		{"", -1, "b"},
		{"zzz", 1, ""},
	}
	for _, tt := range tests {
		if got := cycle(values, tt.current, tt.step); got != tt.want {
			t.Errorf("cycle(%q, %d) = %q, want %q", tt.current, tt.step, got, tt.want)
		}
	}
}
