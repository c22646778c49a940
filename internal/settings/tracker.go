package settings

import (
	"strings"
	"sync"
)

// State is the dirty state of a settings form.
type State int

const (
	Clean State = iota
	Dirty
)

func (s State) String() string {
	if s == Dirty {
		return "dirty"
	}
	return "clean"
}

// Link is an anchor the user activated while editing.
type Link struct {
	Href string
	// Toggle carries the anchor's data-bs-toggle attribute; modal and tab
	// toggles never leave the page.
	Toggle string
}

// Navigable reports whether following the link would leave the page.
func (l Link) Navigable() bool {
	href := strings.TrimSpace(l.Href)
	return href != "" && !strings.HasSuffix(href, "#") && l.Toggle == ""
}

// Tracker records whether the form has unsaved edits and which navigation is
// waiting on the user's decision. The unload guard and the in-app link guard
// both read the same flag.
type Tracker struct {
	mu      sync.Mutex
	state   State
	changed map[Field]bool
	pending string
	waiting bool
}

// NewTracker creates a clean tracker.
func NewTracker() *Tracker {
	return &Tracker{changed: make(map[Field]bool)}
}

// MarkDirty records an edit. The avatar upload marks the form dirty without
// naming a field.
func (t *Tracker) MarkDirty(fields ...Field) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Dirty
	for _, f := range fields {
		t.changed[f] = true
	}
}

// MarkClean clears the flag and any pending navigation.
func (t *Tracker) MarkClean() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clear()
}

func (t *Tracker) clear() {
	t.state = Clean
	t.changed = make(map[Field]bool)
	t.pending = ""
	t.waiting = false
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Dirty reports whether there are unsaved edits.
func (t *Tracker) Dirty() bool {
	return t.State() == Dirty
}

// Changed lists the fields edited since the form was last clean, in form order.
func (t *Tracker) Changed() []Field {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Field, 0, len(t.changed))
	for _, f := range Fields() {
		if t.changed[f] {
			out = append(out, f)
		}
	}
	return out
}

// GuardUnload reports whether a page unload must ask for confirmation.
func (t *Tracker) GuardUnload() bool {
	return t.Dirty()
}

// Intercept decides whether a link activation must be held for confirmation.
// While a confirmation is open the first captured target is kept, so the
// user leaves to the link they originally chose.
func (t *Tracker) Intercept(l Link) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Dirty || !l.Navigable() {
		return false
	}
	if !t.waiting {
		t.pending = strings.TrimSpace(l.Href)
		t.waiting = true
	}
	return true
}

// Pending returns the captured navigation target.
func (t *Tracker) Pending() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending, t.waiting
}

// ConfirmLeave discards the unsaved edits and returns the captured target.
// ok is false when nothing was waiting.
func (t *Tracker) ConfirmLeave() (target string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	target, ok = t.pending, t.waiting
	t.clear()
	return target, ok
}

// CancelLeave keeps the edits and forgets the captured target.
func (t *Tracker) CancelLeave() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = ""
	t.waiting = false
}
