// Package report is the view model behind the word report. It owns the
// in-memory word list for the active profile, derives the filtered view and
// reconciles category edits, deletes and additions with the remote store.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"babywords/internal/appctx"
	"babywords/internal/category"
	"babywords/internal/models"
	"babywords/internal/validation"
)

// DefaultFlash is how long the saved and added acknowledgements stay visible
const DefaultFlash = 2 * time.Second

var (
	// ErrNotReady is returned when no user or profile is selected
	ErrNotReady = errors.New("no signed-in user or active profile")
	// ErrInvalidInput is returned for input refused before any remote call
	ErrInvalidInput = errors.New("invalid input")
	// ErrSuperseded is returned by a fetch whose result was discarded
	// because a newer fetch was issued
	ErrSuperseded = errors.New("superseded by a newer load")
	// ErrNotLoaded is returned by intents that need a list
	ErrNotLoaded = errors.New("word list not loaded")
	// ErrUnknownEntry is returned for an ID not in the loaded list
	ErrUnknownEntry = errors.New("word not in list")
	// ErrNotEditing is returned by SetDraft without an entry in edit mode
	ErrNotEditing = errors.New("no word is being edited")
)

// Store is the part of the remote word store the report uses
type Store interface {
	ListWords(ctx context.Context, babyID int64, userID string, sortAsc bool) ([]models.WordEntry, error)
	AddWord(ctx context.Context, userID string, entry models.WordEntry) (*models.WordEntry, error)
	PatchWordCategory(ctx context.Context, id int64, category string) (*models.WordEntry, error)
	DeleteWord(ctx context.Context, id int64, userID string) error
}

// Option configures a Model
type Option func(*Model)

// WithFlash sets how long acknowledgements and inline errors stay visible
func WithFlash(d time.Duration) Option {
	return func(m *Model) {
		m.flash = d
	}
}

// WithAfterFunc replaces the timer used to clear acknowledgements
func WithAfterFunc(fn func(time.Duration, func())) Option {
	return func(m *Model) {
		m.afterFunc = fn
	}
}

// pendingWrite is a write acknowledged while a fetch was in flight. It is
// replayed against the list when that fetch lands.
type pendingWrite struct {
	op       Op
	id       int64
	category string
	entry    models.WordEntry
}

// Model is safe for concurrent use. Store calls are made without holding the
// lock so the model stays responsive while requests are outstanding.
type Model struct {
	store     Store
	flash     time.Duration
	afterFunc func(time.Duration, func())

	mu        sync.Mutex
	state     State
	filter    string
	sortAsc   bool
	gen       uint64
	seedDraft bool
	pending   []pendingWrite
	added     bool
	addErr    string
	listeners map[int]func(State)
	nextSub   int
}

// New creates a model in the Idle state with the "all" filter and
// newest-first sorting
func New(store Store, opts ...Option) *Model {
	m := &Model{
		store:     store,
		flash:     DefaultFlash,
		afterFunc: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		state:     Idle{},
		filter:    category.All,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn to be called after every state change. The returned
// function removes the subscription.
func (m *Model) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// update runs fn under the lock and notifies subscribers when fn reports a
// change
func (m *Model) update(fn func() bool) {
	m.mu.Lock()
	if !fn() {
		m.mu.Unlock()
		return
	}
	snapshot := copyState(m.state)
	listeners := make([]func(State), 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// State returns a copy of the current state
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyState(m.state)
}

// SortAsc reports the current sort direction
func (m *Model) SortAsc() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortAsc
}

// Filter returns the active category filter
func (m *Model) Filter() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter
}

// Added reports whether a word was just added
func (m *Model) Added() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.added
}

// AddError returns the inline message of the last failed add, if still shown
func (m *Model) AddError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addErr
}

// Load fetches the list for the context's profile and user in the current
// sort direction. The result replaces the list wholesale. When another Load
// is issued before this one resolves, this result is discarded and
// ErrSuperseded is returned.
func (m *Model) Load(ctx context.Context, sc appctx.Context) error {
	if !sc.Ready() {
		m.update(func() bool {
			m.state = Idle{}
			m.pending = nil
			return true
		})
		return ErrNotReady
	}

	var (
		key Key
		gen uint64
	)
	m.update(func() bool {
		key = Key{ProfileID: sc.ProfileID(), UserID: sc.UserID(), SortAsc: m.sortAsc}
		m.gen++
		gen = m.gen

		var carried *Edit
		switch st := m.state.(type) {
		case Loaded:
			if st.Key.sameOwner(key) {
				carried = copyEdit(st.Editing)
				m.seedDraft = false
			}
		case Loading:
			if st.Key.sameOwner(key) {
				carried = st.PendingEdit
			}
		}
		if !m.ownerIs(key) {
			m.pending = nil
			m.seedDraft = false
		}
		m.state = Loading{Key: key, PendingEdit: carried}
		return true
	})

	entries, err := m.store.ListWords(ctx, key.ProfileID, key.UserID, key.SortAsc)

	superseded := false
	m.update(func() bool {
		loading, ok := m.state.(Loading)
		if m.gen != gen || !ok || loading.Key != key {
			superseded = true
			return false
		}
		if err != nil {
			m.state = Failed{Key: key, Err: err}
			m.pending = nil
			return true
		}
		m.state = m.land(loading, entries)
		return true
	})

	if superseded {
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("failed to load words: %w", err)
	}
	return nil
}

// ownerIs reports whether the current state belongs to the same profile and
// user as key
func (m *Model) ownerIs(key Key) bool {
	switch st := m.state.(type) {
	case Loading:
		return st.Key.sameOwner(key)
	case Loaded:
		return st.Key.sameOwner(key)
	case Failed:
		return st.Key.sameOwner(key)
	}
	return false
}

// land builds the Loaded state from a fetched list, replaying writes that
// were acknowledged while the fetch was in flight
func (m *Model) land(loading Loading, fetched []models.WordEntry) Loaded {
	entries := make([]models.WordEntry, len(fetched))
	copy(entries, fetched)

	for _, w := range m.pending {
		switch w.op {
		case OpPatch:
			if i := indexOf(entries, w.id); i >= 0 {
				entries[i].Category = w.category
			}
		case OpRemove:
			if i := indexOf(entries, w.id); i >= 0 {
				entries = append(entries[:i], entries[i+1:]...)
			}
		case OpAdd:
			if indexOf(entries, w.entry.ID) < 0 {
				entries = insertSorted(entries, w.entry, loading.Key.SortAsc)
			}
		}
	}
	m.pending = nil

	loaded := Loaded{Key: loading.Key, Entries: entries, Errors: map[int64]string{}}
	if edit := loading.PendingEdit; edit != nil {
		if i := indexOf(entries, edit.ID); i >= 0 {
			loaded.Editing = copyEdit(edit)
			if m.seedDraft {
				loaded.Editing.Draft = entries[i].Category
			}
		}
	}
	m.seedDraft = false
	return loaded
}

// Reset drops the list, pending writes and acknowledgements and returns to
// Idle. A fetch in flight is superseded. Filter and sort direction are kept.
func (m *Model) Reset() {
	m.update(func() bool {
		m.gen++
		m.state = Idle{}
		m.pending = nil
		m.seedDraft = false
		m.added = false
		m.addErr = ""
		return true
	})
}

// ToggleSort flips the sort direction and reloads. Sorting is done by the
// server, so this always re-enters Loading.
func (m *Model) ToggleSort(ctx context.Context, sc appctx.Context) error {
	m.mu.Lock()
	m.sortAsc = !m.sortAsc
	m.mu.Unlock()
	return m.Load(ctx, sc)
}

// SetFilter selects the category shown by Visible. Entries match only when
// their category equals filter exactly; callers normalize user input first.
// "all" or "" shows every entry. It never fetches.
func (m *Model) SetFilter(filter string) {
	if filter == "" {
		filter = category.All
	}
	m.update(func() bool {
		if m.filter == filter {
			return false
		}
		m.filter = filter
		return true
	})
}

// Visible returns the loaded entries that pass the current filter, in list
// order. It is nil unless the list is loaded.
func (m *Model) Visible() []models.WordEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	loaded, ok := m.state.(Loaded)
	if !ok {
		return nil
	}
	return FilterEntries(loaded.Entries, m.filter)
}

// FilterEntries returns the entries whose category equals filter, or a copy
// of all of them when filter is "all"
func FilterEntries(entries []models.WordEntry, filter string) []models.WordEntry {
	out := make([]models.WordEntry, 0, len(entries))
	for _, e := range entries {
		if filter == category.All || e.Category == filter {
			out = append(out, e)
		}
	}
	return out
}

// BeginEdit puts id in edit mode, abandoning any other edit, and seeds the
// draft with the entry's category. While a fetch is in flight the edit is
// held and applied when the list lands.
func (m *Model) BeginEdit(id int64) error {
	var err error
	m.update(func() bool {
		switch st := m.state.(type) {
		case Loaded:
			i := indexOf(st.Entries, id)
			if i < 0 {
				err = ErrUnknownEntry
				return false
			}
			st.Editing = &Edit{ID: id, Draft: st.Entries[i].Category}
			delete(st.Errors, id)
			m.state = st
			return true
		case Loading:
			st.PendingEdit = &Edit{ID: id}
			m.seedDraft = true
			m.state = st
			return true
		default:
			err = ErrNotLoaded
			return false
		}
	})
	return err
}

// SetDraft changes the draft category of the entry in edit mode
func (m *Model) SetDraft(draft string) error {
	err := ErrNotEditing
	m.update(func() bool {
		switch st := m.state.(type) {
		case Loaded:
			if st.Editing == nil {
				return false
			}
			st.Editing = &Edit{ID: st.Editing.ID, Draft: draft}
			m.state = st
		case Loading:
			if st.PendingEdit == nil {
				return false
			}
			st.PendingEdit = &Edit{ID: st.PendingEdit.ID, Draft: draft}
			m.seedDraft = false
			m.state = st
		default:
			return false
		}
		err = nil
		return true
	})
	return err
}

// CancelEdit leaves edit mode without saving
func (m *Model) CancelEdit() {
	m.update(func() bool {
		switch st := m.state.(type) {
		case Loaded:
			if st.Editing == nil {
				return false
			}
			st.Editing = nil
			m.state = st
			return true
		case Loading:
			if st.PendingEdit == nil {
				return false
			}
			st.PendingEdit = nil
			m.state = st
			return true
		}
		return false
	})
}

// currentKey returns the key of the list being shown or fetched
func (m *Model) currentKey() (Key, bool) {
	switch st := m.state.(type) {
	case Loaded:
		return st.Key, true
	case Loading:
		return st.Key, true
	}
	return Key{}, false
}

// CommitEdit saves a new category for id. Only the category is sent. On
// success the entry is updated in place and marked saved for a short time.
// On failure the list is unchanged, edit mode stays open with its draft and
// a *WriteError is returned.
func (m *Model) CommitEdit(ctx context.Context, id int64, cat string) error {
	cat = category.Normalize(cat)
	if err := validation.ValidateCategory(cat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var (
		key Key
		err error
	)
	m.update(func() bool {
		var ok bool
		if key, ok = m.currentKey(); !ok {
			err = ErrNotLoaded
			return false
		}
		if st, loaded := m.state.(Loaded); loaded {
			if indexOf(st.Entries, id) < 0 {
				err = ErrUnknownEntry
				return false
			}
			if st.Editing != nil && st.Editing.ID == id {
				st.Editing = &Edit{ID: id, Draft: cat}
				m.state = st
				return true
			}
		}
		return false
	})
	if err != nil {
		return err
	}

	saved, storeErr := m.store.PatchWordCategory(ctx, id, cat)
	if storeErr != nil {
		return m.writeFailed(key, OpPatch, id, storeErr)
	}
	// Only trust an echo of the same entry; a bare acknowledgement keeps cat.
	if saved != nil && saved.ID == id {
		cat = saved.Category
	}

	markedSaved := false
	m.update(func() bool {
		switch st := m.state.(type) {
		case Loaded:
			if !st.Key.sameOwner(key) {
				return false
			}
			if i := indexOf(st.Entries, id); i >= 0 {
				st.Entries[i].Category = cat
			}
			if st.Editing != nil && st.Editing.ID == id {
				st.Editing = nil
			}
			delete(st.Errors, id)
			st.SavedID = id
			m.state = st
			markedSaved = true
			return true
		case Loading:
			if st.Key.sameOwner(key) {
				m.pending = append(m.pending, pendingWrite{op: OpPatch, id: id, category: cat})
				if st.PendingEdit != nil && st.PendingEdit.ID == id {
					st.PendingEdit = nil
					m.state = st
					return true
				}
			}
		}
		return false
	})
	if markedSaved {
		m.afterFunc(m.flash, func() { m.clearSaved(id) })
	}
	return nil
}

// Remove deletes id on the server, then removes it from the list. On failure
// the entry stays and a *WriteError is returned.
func (m *Model) Remove(ctx context.Context, id int64) error {
	var (
		key Key
		err error
	)
	m.update(func() bool {
		var ok bool
		if key, ok = m.currentKey(); !ok {
			err = ErrNotLoaded
			return false
		}
		if st, loaded := m.state.(Loaded); loaded && indexOf(st.Entries, id) < 0 {
			err = ErrUnknownEntry
		}
		return false
	})
	if err != nil {
		return err
	}

	if storeErr := m.store.DeleteWord(ctx, id, key.UserID); storeErr != nil {
		return m.writeFailed(key, OpRemove, id, storeErr)
	}

	m.update(func() bool {
		switch st := m.state.(type) {
		case Loaded:
			if !st.Key.sameOwner(key) {
				return false
			}
			if i := indexOf(st.Entries, id); i >= 0 {
				st.Entries = append(st.Entries[:i], st.Entries[i+1:]...)
			}
			if st.Editing != nil && st.Editing.ID == id {
				st.Editing = nil
			}
			if st.SavedID == id {
				st.SavedID = 0
			}
			delete(st.Errors, id)
			m.state = st
			return true
		case Loading:
			if st.Key.sameOwner(key) {
				m.pending = append(m.pending, pendingWrite{op: OpRemove, id: id})
			}
		}
		return false
	})
	return nil
}

// AddWord records a new word for the context's profile. Missing word, date,
// profile or user, or an unknown category, is refused without a remote call.
// On success the added flag is raised for a short time and the word is
// inserted into a loaded list of the same profile.
func (m *Model) AddWord(ctx context.Context, sc appctx.Context, word, date, cat string) error {
	word = strings.TrimSpace(word)
	date = strings.TrimSpace(date)
	cat = category.Normalize(cat)
	if !sc.Ready() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrNotReady)
	}
	for _, err := range []error{
		validation.ValidateWord(word),
		validation.ValidateDate(date),
		validation.ValidateCategory(cat),
	} {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	entry := models.WordEntry{BabyID: sc.ProfileID(), Word: word, Date: date, Category: cat}
	created, err := m.store.AddWord(ctx, sc.UserID(), entry)
	if err != nil {
		wErr := &WriteError{Op: OpAdd, Err: err}
		m.update(func() bool {
			m.addErr = wErr.Error()
			return true
		})
		m.afterFunc(m.flash, m.clearAddError)
		return wErr
	}

	owner := Key{ProfileID: sc.ProfileID(), UserID: sc.UserID()}
	m.update(func() bool {
		m.added = true
		m.addErr = ""

		switch st := m.state.(type) {
		case Loaded:
			if st.Key.sameOwner(owner) && indexOf(st.Entries, created.ID) < 0 {
				st.Entries = insertSorted(st.Entries, *created, st.Key.SortAsc)
				m.state = st
			}
		case Loading:
			if st.Key.sameOwner(owner) {
				m.pending = append(m.pending, pendingWrite{op: OpAdd, entry: *created})
			}
		}
		return true
	})
	m.afterFunc(m.flash, m.clearAdded)
	return nil
}

// writeFailed records an inline error for id and wraps err
func (m *Model) writeFailed(key Key, op Op, id int64, err error) error {
	wErr := &WriteError{Op: op, ID: id, Err: err}
	msg := wErr.Error()
	recorded := false
	m.update(func() bool {
		st, ok := m.state.(Loaded)
		if !ok || !st.Key.sameOwner(key) || indexOf(st.Entries, id) < 0 {
			return false
		}
		st.Errors[id] = msg
		m.state = st
		recorded = true
		return true
	})
	if recorded {
		m.afterFunc(m.flash, func() { m.clearError(id, msg) })
	}
	return wErr
}

func (m *Model) clearSaved(id int64) {
	m.update(func() bool {
		st, ok := m.state.(Loaded)
		if !ok || st.SavedID != id {
			return false
		}
		st.SavedID = 0
		m.state = st
		return true
	})
}

func (m *Model) clearError(id int64, msg string) {
	m.update(func() bool {
		st, ok := m.state.(Loaded)
		if !ok || st.Errors[id] != msg {
			return false
		}
		delete(st.Errors, id)
		return true
	})
}

func (m *Model) clearAdded() {
	m.update(func() bool {
		if !m.added {
			return false
		}
		m.added = false
		return true
	})
}

func (m *Model) clearAddError() {
	m.update(func() bool {
		if m.addErr == "" {
			return false
		}
		m.addErr = ""
		return true
	})
}

func indexOf(entries []models.WordEntry, id int64) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// insertSorted places e where the server would have: by date, then by ID,
// in the list's direction
func insertSorted(entries []models.WordEntry, e models.WordEntry, asc bool) []models.WordEntry {
	less := func(a, b models.WordEntry) bool {
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.ID < b.ID
	}
	i := sort.Search(len(entries), func(i int) bool {
		if asc {
			return less(e, entries[i])
		}
		return less(entries[i], e)
	})
	entries = append(entries, models.WordEntry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = e
	return entries
}
