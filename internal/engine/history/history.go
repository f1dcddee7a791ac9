package history

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/prefpane/internal/config/notify"
	"github.com/dshills/prefpane/internal/logging"
	"github.com/dshills/prefpane/internal/property"
)

// DefaultMaxEntries is the log bound used when none is configured.
const DefaultMaxEntries = 1000

// Paths on which history state transitions are published.
const (
	PathUndoAvailable = "history.undoAvailable"
	PathRedoAvailable = "history.redoAvailable"
	PathCurrentChange = "history.currentChange"
	PathChanges       = "history.changes"
)

// ErrUnsupportedSetting is returned when a setting's cell is neither a
// property.Value nor a property.List.
var ErrUnsupportedSetting = errors.New("setting has no observable property")

type listenerKind int

const (
	kindValue listenerKind = iota
	kindList
)

// registration is the recording listener attached to one setting.
type registration struct {
	kind       listenerKind
	id         property.ListenerID
	onValue    property.ChangeListener
	onList     property.ListChangeListener
	suppressed int
}

// state is the derived view published to observers.
type state struct {
	undoAvailable bool
	redoAvailable bool
	current       Change
	size          int
}

// History is a linear undo/redo log of setting changes.
//
// position is the index of the last applied change (-1 if none);
// validPosition is the highest index reachable by Redo.
// -1 <= position <= validPosition <= len(changes)-1 always holds.
type History struct {
	mu sync.Mutex

	changes       []Change
	position      int
	validPosition int

	listeners map[Setting]*registration

	// Configuration
	maxEntries int
	notifier   *notify.Notifier
	logger     *logging.Logger

	published state
}

// Option configures a History.
type Option func(*History)

// WithMaxEntries bounds the log. The oldest entries are evicted first.
func WithMaxEntries(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxEntries = n
		}
	}
}

// WithNotifier publishes state transitions on the history.* paths.
func WithNotifier(n *notify.Notifier) Option {
	return func(h *History) {
		h.notifier = n
	}
}

// WithLogger sets the logger. Recording and cursor moves log at debug level.
func WithLogger(l *logging.Logger) Option {
	return func(h *History) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{
		position:      -1,
		validPosition: -1,
		listeners:     make(map[Setting]*registration),
		maxEntries:    DefaultMaxEntries,
		logger:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AttachChangeListener starts recording changes of setting.
// Scalar cells get a change listener, list cells a structural listener.
// Attaching an already attached setting is a no-op.
func (h *History) AttachChangeListener(setting Setting) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.listeners[setting]; ok {
		return nil
	}

	reg := &registration{}
	switch cell := setting.Property().(type) {
	case property.List:
		reg.kind = kindList
		reg.onList = func(oldItems, newItems []any) {
			h.recordList(NewListChange(setting, oldItems, newItems))
		}
		reg.id = cell.AddListListener(reg.onList)
	case property.Value:
		reg.kind = kindValue
		reg.onValue = func(oldValue, newValue any) {
			if !property.Equal(oldValue, newValue) {
				h.record(NewValueChange(setting, oldValue, newValue))
			}
		}
		reg.id = cell.AddListener(reg.onValue)
	default:
		return fmt.Errorf("attach %s: %w", setting.Path(), ErrUnsupportedSetting)
	}

	h.listeners[setting] = reg
	return nil
}

// DetachChangeListener stops recording changes of setting.
// Entries already in the log are kept.
func (h *History) DetachChangeListener(setting Setting) {
	h.mu.Lock()
	reg, ok := h.listeners[setting]
	attached := ok && reg.suppressed == 0
	if ok {
		delete(h.listeners, setting)
	}
	h.mu.Unlock()

	if attached {
		setting.Property().RemoveListener(reg.id)
	}
}

// IsAttached reports whether setting has a recording listener.
func (h *History) IsAttached(setting Setting) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.listeners[setting]
	return ok
}

// record adds a scalar change, compounding or overwriting per the entry at
// the cursor.
func (h *History) record(candidate *ValueChange) {
	h.mu.Lock()
	h.logStateLocked("record, before")

	lastIndex := len(h.changes) - 1

	var current Change
	if h.position >= 0 && h.position <= lastIndex {
		current = h.changes[h.position]
	}

	// same setting as the change at the cursor => compounded change
	compoundable, _ := current.(*ValueChange)
	compounded := compoundable != nil && compoundable.Setting() == candidate.Setting()

	// the change at the cursor has equal old and new value
	redundant := current != nil && current.IsRedundant()

	// there is an element after the cursor => overwrite it instead of appending
	elementExists := h.position < lastIndex

	switch {
	case compounded:
		h.logger.Debug("compounded change", "path", candidate.Setting().Path())
		compoundable.SetNewValue(candidate.NewValue())
	case redundant:
		h.logger.Debug("redundant change overwritten", "path", current.Setting().Path())
		h.changes[h.position] = candidate
	case elementExists:
		h.logger.Debug("overwriting next slot", "path", candidate.Setting().Path())
		h.position++
		h.changes[h.position] = candidate
	default:
		h.logger.Debug("appending change", "path", candidate.Setting().Path())
		h.changes = append(h.changes, candidate)
		h.position++
	}

	h.commitLocked()
	h.logStateLocked("record, after")
	h.mu.Unlock()

	h.publish(true)
}

// recordList adds a list change at the slot after the cursor.
func (h *History) recordList(candidate *ListChange) {
	h.mu.Lock()
	h.logStateLocked("record list, before")

	h.changes = append(h.changes[:h.position+1], candidate)
	h.position++

	h.commitLocked()
	h.logStateLocked("record list, after")
	h.mu.Unlock()

	h.publish(true)
}

// commitLocked discards everything after the cursor, moves the redo horizon
// to the cursor and enforces the size bound.
func (h *History) commitLocked() {
	if h.position != len(h.changes)-1 {
		h.logger.Debug("invalidating forward changes", "count", len(h.changes)-1-h.position)
		clear(h.changes[h.position+1:])
		h.changes = h.changes[:h.position+1]
	}

	h.validPosition = h.position

	if h.maxEntries > 0 && len(h.changes) > h.maxEntries {
		excess := len(h.changes) - h.maxEntries
		kept := make([]Change, h.maxEntries)
		copy(kept, h.changes[excess:])
		h.changes = kept
		h.position -= excess
		h.validPosition -= excess
		h.logger.Debug("evicted oldest changes", "count", excess)
	}

	h.checkInvariantsLocked()
}

// Undo reverts the change at the cursor and moves the cursor back.
// Returns false if there is nothing to undo.
func (h *History) Undo() bool {
	h.mu.Lock()
	h.logStateLocked("undo, before")
	if !h.undoAvailableLocked() {
		h.mu.Unlock()
		return false
	}
	change := h.changes[h.position]
	from := h.position
	h.position--
	to := h.position
	h.checkInvariantsLocked()
	h.mu.Unlock()

	h.apply(change, change.OldValue(), from, to, change.Undo)

	h.mu.Lock()
	h.logStateLocked("undo, after")
	h.mu.Unlock()

	h.publish(false)
	return true
}

// Redo moves the cursor forward and re-applies the change there.
// Returns false if there is nothing to redo.
func (h *History) Redo() bool {
	h.mu.Lock()
	h.logStateLocked("redo, before")
	if !h.redoAvailableLocked() {
		h.mu.Unlock()
		return false
	}
	from := h.position
	h.position++
	to := h.position
	change := h.changes[h.position]
	h.checkInvariantsLocked()
	h.mu.Unlock()

	h.apply(change, change.NewValue(), from, to, change.Redo)

	h.mu.Lock()
	h.logStateLocked("redo, after")
	h.mu.Unlock()

	h.publish(false)
	return true
}

// apply writes a change with its recording listener suppressed. The cursor
// has already moved from -> to. If write panics before the cell holds want,
// the cursor goes back to from so it keeps describing the cell, and the
// panic continues.
func (h *History) apply(change Change, want any, from, to int, write func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if !property.Equal(cellValue(change.Setting()), want) {
			h.mu.Lock()
			if h.position == to {
				h.position = from
			}
			h.mu.Unlock()
		}
		panic(r)
	}()

	_ = h.DoWithoutListeners(change.Setting(), func() error {
		write()
		return nil
	})
}

func cellValue(setting Setting) any {
	switch cell := setting.Property().(type) {
	case property.List:
		return cell.Items()
	case property.Value:
		return cell.Get()
	}
	return nil
}

// UndoAll undoes every applied change and returns how many were undone.
func (h *History) UndoAll() int {
	n := 0
	for h.Undo() {
		n++
	}
	return n
}

// Clear drops the whole log. Attached listeners stay attached.
func (h *History) Clear() {
	h.mu.Lock()
	clear(h.changes)
	h.changes = nil
	h.position = -1
	h.validPosition = -1
	h.checkInvariantsLocked()
	h.mu.Unlock()

	h.publish(true)
}

// UndoAvailable reports whether Undo would do something.
func (h *History) UndoAvailable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.undoAvailableLocked()
}

// RedoAvailable reports whether Redo would do something.
func (h *History) RedoAvailable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.redoAvailableLocked()
}

// Changes returns a copy of the log in chronological order.
func (h *History) Changes() []Change {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Change, len(h.changes))
	copy(out, h.changes)
	return out
}

// CurrentChange returns the change at the cursor, or nil.
func (h *History) CurrentChange() Change {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentLocked()
}

// Position returns the cursor (-1 when nothing is applied).
func (h *History) Position() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

// ValidPosition returns the redo horizon.
func (h *History) ValidPosition() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.validPosition
}

// Len returns the number of entries in the log.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.changes)
}

// MaxEntries returns the log bound.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

func (h *History) undoAvailableLocked() bool {
	return h.position >= 0
}

func (h *History) redoAvailableLocked() bool {
	return h.position < h.validPosition
}

func (h *History) currentLocked() Change {
	if h.position >= 0 && h.position < len(h.changes) {
		return h.changes[h.position]
	}
	return nil
}

// checkInvariantsLocked panics if the cursor bookkeeping is broken.
// That can only happen through a bug in this package.
func (h *History) checkInvariantsLocked() {
	n := len(h.changes)
	if h.position < -1 || h.position > h.validPosition || h.validPosition > n-1 {
		panic(fmt.Sprintf("history: invariant violated: position=%d validPosition=%d size=%d",
			h.position, h.validPosition, n))
	}
}

func (h *History) logStateLocked(msg string) {
	h.logger.Debug(msg,
		"size", len(h.changes),
		"position", h.position,
		"validPosition", h.validPosition,
	)
}

// publish sends state transitions to the notifier. logChanged forces a
// history.changes event even when the size is unchanged (compounding,
// overwriting).
func (h *History) publish(logChanged bool) {
	if h.notifier == nil {
		return
	}

	h.mu.Lock()
	prev := h.published
	next := state{
		undoAvailable: h.undoAvailableLocked(),
		redoAvailable: h.redoAvailableLocked(),
		current:       h.currentLocked(),
		size:          len(h.changes),
	}
	h.published = next
	h.mu.Unlock()

	if logChanged || prev.size != next.size {
		h.notifier.NotifySet(PathChanges, prev.size, next.size, notify.SourceHistory)
	}
	if prev.undoAvailable != next.undoAvailable {
		h.notifier.NotifySet(PathUndoAvailable, prev.undoAvailable, next.undoAvailable, notify.SourceHistory)
	}
	if prev.redoAvailable != next.redoAvailable {
		h.notifier.NotifySet(PathRedoAvailable, prev.redoAvailable, next.redoAvailable, notify.SourceHistory)
	}
	if prev.current != next.current {
		h.notifier.NotifySet(PathCurrentChange, prev.current, next.current, notify.SourceHistory)
	}
}
