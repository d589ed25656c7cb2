package report

import (
	"fmt"

	"babywords/internal/models"
)

// Key identifies one list fetch. A result is applied only while the model's
// latest fetch still has the same key.
type Key struct {
	ProfileID int64
	UserID    string
	SortAsc   bool
}

func (k Key) sameOwner(other Key) bool {
	return k.ProfileID == other.ProfileID && k.UserID == other.UserID
}

// Edit is the single entry in edit mode and its draft category
type Edit struct {
	ID    int64
	Draft string
}

// State is one of Idle, Loading, Loaded or Failed
type State interface {
	isState()
}

// Idle means no user or profile is known yet
type Idle struct{}

// Loading means a fetch for Key is in flight. An edit started before the
// list lands is kept in PendingEdit and applied once it does.
type Loading struct {
	Key         Key
	PendingEdit *Edit
}

// Loaded holds the last successful fetch. An empty Entries slice is a valid
// result and not an error.
type Loaded struct {
	Key     Key
	Entries []models.WordEntry
	Editing *Edit
	// SavedID is the entry whose category save was just acknowledged
	SavedID int64
	// Errors holds transient inline write errors keyed by entry ID
	Errors map[int64]string
}

// IsEmpty reports whether the profile has no words yet
func (l Loaded) IsEmpty() bool {
	return len(l.Entries) == 0
}

// Failed means the fetch for Key failed
type Failed struct {
	Key Key
	Err error
}

func (Idle) isState()    {}
func (Loading) isState() {}
func (Loaded) isState()  {}
func (Failed) isState()  {}

// Op names a write operation
type Op string

const (
	OpAdd    Op = "add"
	OpPatch  Op = "patch"
	OpRemove Op = "remove"
)

// WriteError is a failed write. The local list is left as it was, so the
// caller may retry the same operation.
type WriteError struct {
	Op  Op
	ID  int64
	Err error
}

func (e *WriteError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s word %d failed: %v", e.Op, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func copyEdit(e *Edit) *Edit {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func copyState(s State) State {
	switch st := s.(type) {
	case Loading:
		st.PendingEdit = copyEdit(st.PendingEdit)
		return st
	case Loaded:
		entries := make([]models.WordEntry, len(st.Entries))
		copy(entries, st.Entries)
		errs := make(map[int64]string, len(st.Errors))
		for id, msg := range st.Errors {
			errs[id] = msg
		}
		st.Entries = entries
		st.Errors = errs
		st.Editing = copyEdit(st.Editing)
		return st
	default:
		return s
	}
}
