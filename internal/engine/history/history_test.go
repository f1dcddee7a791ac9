package history

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/dshills/prefpane/internal/config/notify"
	"github.com/dshills/prefpane/internal/property"
)

type testSetting struct {
	path string
	prop property.Property
}

func (s *testSetting) Path() string                 { return s.path }
func (s *testSetting) Property() property.Property { return s.prop }

func newValueSetting(path string, initial any) (*testSetting, *property.Object) {
	cell := property.NewObject(initial)
	return &testSetting{path: path, prop: cell}, cell
}

func newListSetting(path string, items ...any) (*testSetting, *property.ListProperty) {
	cell := property.NewList(items...)
	return &testSetting{path: path, prop: cell}, cell
}

func attach(t *testing.T, h *History, settings ...*testSetting) {
	t.Helper()
	for _, s := range settings {
		if err := h.AttachChangeListener(s); err != nil {
			t.Fatalf("AttachChangeListener(%s): %v", s.path, err)
		}
	}
}

// checkInvariants verifies the cursor bookkeeping from the outside.
func checkInvariants(t *testing.T, h *History) {
	t.Helper()
	pos, valid, n := h.Position(), h.ValidPosition(), h.Len()
	if pos < -1 || pos > valid || valid > n-1 {
		t.Fatalf("invariant violated: position=%d validPosition=%d size=%d", pos, valid, n)
	}
	if h.UndoAvailable() != (pos >= 0) {
		t.Fatalf("UndoAvailable() = %v at position %d", h.UndoAvailable(), pos)
	}
	if h.RedoAvailable() != (pos < valid) {
		t.Fatalf("RedoAvailable() = %v at position %d validPosition %d", h.RedoAvailable(), pos, valid)
	}
}

func assertLog(t *testing.T, h *History, wantLen, wantPos int) {
	t.Helper()
	if h.Len() != wantLen {
		t.Errorf("Len() = %d, want %d", h.Len(), wantLen)
	}
	if h.Position() != wantPos {
		t.Errorf("Position() = %d, want %d", h.Position(), wantPos)
	}
	checkInvariants(t, h)
}

func TestNew(t *testing.T) {
	h := New()
	if h.Position() != -1 || h.ValidPosition() != -1 {
		t.Errorf("new history position=%d validPosition=%d, want -1/-1", h.Position(), h.ValidPosition())
	}
	if h.UndoAvailable() || h.RedoAvailable() {
		t.Error("new history should have nothing to undo or redo")
	}
	if h.CurrentChange() != nil {
		t.Error("CurrentChange() should be nil")
	}
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries() = %d, want %d", h.MaxEntries(), DefaultMaxEntries)
	}
}

func TestUndoRedoOnEmpty(t *testing.T) {
	h := New()
	if h.Undo() {
		t.Error("Undo() on empty history returned true")
	}
	if h.Redo() {
		t.Error("Redo() on empty history returned true")
	}
	checkInvariants(t, h)
}

func TestBrightnessScenario(t *testing.T) {
	h := New()
	brightness, cell := newValueSetting("display.brightness", 50)
	attach(t, h, brightness)

	cell.Set(60)
	assertLog(t, h, 1, 0)
	assertChange(t, h.Changes()[0], 50, 60)

	cell.Set(70)
	assertLog(t, h, 1, 0)
	assertChange(t, h.Changes()[0], 50, 70)

	if !h.Undo() {
		t.Fatal("Undo() returned false")
	}
	if cell.Get() != 50 {
		t.Errorf("brightness = %v after undo, want 50", cell.Get())
	}
	assertLog(t, h, 1, -1)
	if !h.RedoAvailable() {
		t.Error("redo should be available after undo")
	}

	if !h.Redo() {
		t.Fatal("Redo() returned false")
	}
	if cell.Get() != 70 {
		t.Errorf("brightness = %v after redo, want 70", cell.Get())
	}
	assertLog(t, h, 1, 0)

	cell.Set(80)
	assertLog(t, h, 1, 0)
	assertChange(t, h.Changes()[0], 50, 80)
	if h.RedoAvailable() {
		t.Error("redo should not be available after a new edit")
	}
}

func assertChange(t *testing.T, c Change, oldValue, newValue any) {
	t.Helper()
	if !property.Equal(c.OldValue(), oldValue) || !property.Equal(c.NewValue(), newValue) {
		t.Errorf("change = %v → %v, want %v → %v", c.OldValue(), c.NewValue(), oldValue, newValue)
	}
}

func TestCompoundingSameSetting(t *testing.T) {
	h := New()
	s, cell := newValueSetting("font.size", 12)
	attach(t, h, s)

	cell.Set(13)
	cell.Set(14)
	cell.Set(15)

	assertLog(t, h, 1, 0)
	assertChange(t, h.CurrentChange(), 12, 15)
}

func TestDifferentSettingsAppend(t *testing.T) {
	h := New()
	a, cellA := newValueSetting("a", 1)
	b, cellB := newValueSetting("b", "x")
	attach(t, h, a, b)

	cellA.Set(2)
	cellB.Set("y")
	cellA.Set(3)

	assertLog(t, h, 3, 2)
	changes := h.Changes()
	assertChange(t, changes[0], 1, 2)
	assertChange(t, changes[1], "x", "y")
	assertChange(t, changes[2], 2, 3)
}

func TestRedundantEntryIsOverwritten(t *testing.T) {
	h := New()
	brightness, bCell := newValueSetting("brightness", 50)
	night, nCell := newValueSetting("nightMode", true)
	attach(t, h, brightness, night)

	bCell.Set(60)
	bCell.Set(50) // compounds into 50 → 50
	if !h.CurrentChange().IsRedundant() {
		t.Fatal("compounded change should be redundant")
	}

	nCell.Set(false)

	assertLog(t, h, 1, 0)
	if h.CurrentChange().Setting() != night {
		t.Error("redundant entry was not replaced by the new change")
	}
}

func TestRedundantCandidateOverwritesRedundantEntry(t *testing.T) {
	h := New()
	a, aCell := newValueSetting("a", 1)
	b, _ := newValueSetting("b", 7)
	attach(t, h, a, b)

	aCell.Set(2)
	aCell.Set(1) // 1 → 1, redundant

	h.record(NewValueChange(b, 7, 7))
	assertLog(t, h, 1, 0)

	h.record(NewValueChange(a, 5, 5))
	assertLog(t, h, 1, 0)
	if h.CurrentChange().Setting() != a {
		t.Error("expected the latest redundant candidate at the cursor")
	}
}

func TestRecordAfterUndoDiscardsRedo(t *testing.T) {
	h := New()
	a, aCell := newValueSetting("a", 1)
	b, bCell := newValueSetting("b", 1)
	c, cCell := newValueSetting("c", 1)
	attach(t, h, a, b, c)

	aCell.Set(2)
	bCell.Set(2)
	h.Undo()

	cCell.Set(2)

	if h.RedoAvailable() {
		t.Error("redo should be unavailable after recording")
	}
	if h.Len()-1 != h.Position() || h.Position() != h.ValidPosition() {
		t.Errorf("size-1=%d position=%d validPosition=%d, want all equal", h.Len()-1, h.Position(), h.ValidPosition())
	}
	assertLog(t, h, 2, 1)
	if h.CurrentChange().Setting() != c {
		t.Error("new change should sit at the cursor")
	}
	if bCell.Get() != 1 {
		t.Errorf("b = %v, want 1 after undo", bCell.Get())
	}
}

func TestRecordAfterUndoAllOverwritesFirstSlot(t *testing.T) {
	h := New()
	a, aCell := newValueSetting("a", 1)
	b, bCell := newValueSetting("b", 1)
	c, cCell := newValueSetting("c", 1)
	attach(t, h, a, b, c)

	aCell.Set(2)
	bCell.Set(2)
	if n := h.UndoAll(); n != 2 {
		t.Fatalf("UndoAll() = %d, want 2", n)
	}

	cCell.Set(3)

	assertLog(t, h, 1, 0)
	if h.CurrentChange().Setting() != c {
		t.Error("first slot should hold the new change")
	}
}

func TestRecordAfterUndoOnSameSettingCompounds(t *testing.T) {
	h := New()
	a, aCell := newValueSetting("a", 1)
	b, bCell := newValueSetting("b", 1)
	attach(t, h, a, b)

	aCell.Set(2)
	bCell.Set(2)
	h.Undo()

	aCell.Set(5)

	assertLog(t, h, 1, 0)
	assertChange(t, h.CurrentChange(), 1, 5)
}

func TestFavoritesListScenario(t *testing.T) {
	h := New()
	favorites, cell := newListSetting("favorites", "A")
	attach(t, h, favorites)

	cell.Add("B")
	assertLog(t, h, 1, 0)
	lc, ok := h.CurrentChange().(*ListChange)
	if !ok {
		t.Fatalf("CurrentChange() is %T, want *ListChange", h.CurrentChange())
	}
	if !property.Equal(lc.OldItems(), []any{"A"}) || !property.Equal(lc.NewItems(), []any{"A", "B"}) {
		t.Errorf("list change = %v → %v", lc.OldItems(), lc.NewItems())
	}

	cell.Remove("A")
	assertLog(t, h, 2, 1)

	h.Undo()
	if !property.Equal(cell.Items(), []any{"A", "B"}) {
		t.Errorf("items = %v after first undo, want [A B]", cell.Items())
	}
	if !h.RedoAvailable() || h.Position() != 0 {
		t.Errorf("after first undo: position=%d redo=%v", h.Position(), h.RedoAvailable())
	}

	h.Undo()
	if !property.Equal(cell.Items(), []any{"A"}) {
		t.Errorf("items = %v after second undo, want [A]", cell.Items())
	}
	assertLog(t, h, 2, -1)
	if h.Undo() {
		t.Error("third undo should fail")
	}

	h.Redo()
	h.Redo()
	if !property.Equal(cell.Items(), []any{"B"}) {
		t.Errorf("items = %v after redo, want [B]", cell.Items())
	}
	if h.RedoAvailable() {
		t.Error("redo should be exhausted")
	}
}

func TestListChangesNeverCompound(t *testing.T) {
	h := New()
	s, cell := newListSetting("tags")
	attach(t, h, s)

	cell.Add("x")
	cell.Add("y")
	cell.Add("z")

	assertLog(t, h, 3, 2)
}

func TestListChangeAfterUndoIsKept(t *testing.T) {
	h := New()
	s, cell := newListSetting("tags")
	attach(t, h, s)

	cell.Add("x")
	cell.Add("y")
	h.Undo()
	cell.Add("z")

	assertLog(t, h, 2, 1)
	if !property.Equal(cell.Items(), []any{"x", "z"}) {
		t.Errorf("items = %v, want [x z]", cell.Items())
	}
	h.Undo()
	if !property.Equal(cell.Items(), []any{"x"}) {
		t.Errorf("items = %v after undo, want [x]", cell.Items())
	}
}

func TestUndoDoesNotRecord(t *testing.T) {
	h := New()
	s, cell := newValueSetting("a", 1)
	attach(t, h, s)

	cell.Set(2)
	h.Undo()
	h.Redo()
	h.Undo()

	assertLog(t, h, 1, -1)
	if cell.ListenerCount() != 1 {
		t.Errorf("ListenerCount() = %d, want 1", cell.ListenerCount())
	}

	// listener is active again after suppression
	cell.Set(9)
	assertLog(t, h, 1, 0)
	assertChange(t, h.CurrentChange(), 1, 9)
}

func TestUnattachedSettingGeneratesNoHistory(t *testing.T) {
	h := New()
	_, cell := newValueSetting("a", 1)

	cell.Set(2)

	assertLog(t, h, 0, -1)
}

func TestAttachIsIdempotent(t *testing.T) {
	h := New()
	s, cell := newValueSetting("a", 1)
	l, list := newListSetting("l")
	attach(t, h, s, s, l, l)

	if cell.ListenerCount() != 1 {
		t.Errorf("value ListenerCount() = %d, want 1", cell.ListenerCount())
	}
	if list.ListenerCount() != 1 {
		t.Errorf("list ListenerCount() = %d, want 1", list.ListenerCount())
	}

	cell.Set(2)
	assertLog(t, h, 1, 0)
}

func TestAttachUnsupported(t *testing.T) {
	h := New()
	s := &testSetting{path: "broken"}

	err := h.AttachChangeListener(s)
	if !errors.Is(err, ErrUnsupportedSetting) {
		t.Errorf("err = %v, want ErrUnsupportedSetting", err)
	}
	if h.IsAttached(s) {
		t.Error("unsupported setting should not be attached")
	}
}

func TestDetachChangeListener(t *testing.T) {
	h := New()
	s, cell := newValueSetting("a", 1)
	attach(t, h, s)

	cell.Set(2)
	h.DetachChangeListener(s)
	cell.Set(3)

	if h.IsAttached(s) {
		t.Error("IsAttached() should be false")
	}
	if cell.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", cell.ListenerCount())
	}
	assertLog(t, h, 1, 0)
	assertChange(t, h.CurrentChange(), 1, 2)
}

func TestDoWithoutListeners(t *testing.T) {
	t.Run("suppresses recording", func(t *testing.T) {
		h := New()
		s, cell := newValueSetting("a", 1)
		attach(t, h, s)

		err := h.DoWithoutListeners(s, func() error {
			cell.Set(5)
			return nil
		})
		if err != nil {
			t.Fatalf("DoWithoutListeners: %v", err)
		}
		assertLog(t, h, 0, -1)

		cell.Set(6)
		assertLog(t, h, 1, 0)
	})

	t.Run("error propagates and listener returns", func(t *testing.T) {
		h := New()
		s, cell := newValueSetting("a", 1)
		attach(t, h, s)
		boom := errors.New("boom")

		err := h.DoWithoutListeners(s, func() error {
			cell.Set(5)
			return boom
		})
		if err != boom {
			t.Errorf("err = %v, want %v", err, boom)
		}
		if cell.ListenerCount() != 1 {
			t.Errorf("ListenerCount() = %d, want 1", cell.ListenerCount())
		}
		cell.Set(6)
		assertLog(t, h, 1, 0)
	})

	t.Run("panic re-attaches listener", func(t *testing.T) {
		h := New()
		s, list := newListSetting("l", "A")
		attach(t, h, s)

		func() {
			defer func() {
				if recover() == nil {
					t.Error("expected panic to propagate")
				}
			}()
			_ = h.DoWithoutListeners(s, func() error {
				list.Add("B")
				panic("action failed")
			})
		}()

		if list.ListenerCount() != 1 {
			t.Errorf("ListenerCount() = %d, want 1", list.ListenerCount())
		}
		assertLog(t, h, 0, -1)
		list.Add("C")
		assertLog(t, h, 1, 0)
	})

	t.Run("no listener runs action", func(t *testing.T) {
		h := New()
		s, cell := newValueSetting("a", 1)
		ran := false

		err := h.DoWithoutListeners(s, func() error {
			ran = true
			cell.Set(2)
			return nil
		})
		if err != nil || !ran {
			t.Errorf("ran=%v err=%v", ran, err)
		}
	})

	t.Run("nested keeps listener detached", func(t *testing.T) {
		h := New()
		s, cell := newValueSetting("a", 1)
		attach(t, h, s)

		_ = h.DoWithoutListeners(s, func() error {
			_ = h.DoWithoutListeners(s, func() error {
				cell.Set(2)
				return nil
			})
			cell.Set(3)
			return nil
		})

		assertLog(t, h, 0, -1)
		if cell.ListenerCount() != 1 {
			t.Errorf("ListenerCount() = %d, want 1", cell.ListenerCount())
		}
	})

	t.Run("other settings keep recording", func(t *testing.T) {
		h := New()
		a, aCell := newValueSetting("a", 1)
		b, bCell := newValueSetting("b", 1)
		attach(t, h, a, b)

		_ = h.DoWithoutListeners(a, func() error {
			aCell.Set(2)
			bCell.Set(2)
			return nil
		})

		assertLog(t, h, 1, 0)
		if h.CurrentChange().Setting() != b {
			t.Error("change of b should be recorded")
		}
	})
}

func TestDetachWhileSuppressed(t *testing.T) {
	h := New()
	s, cell := newValueSetting("a", 1)
	attach(t, h, s)

	_ = h.DoWithoutListeners(s, func() error {
		h.DetachChangeListener(s)
		return nil
	})

	if cell.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", cell.ListenerCount())
	}
}

func TestMaxEntriesEvictsOldest(t *testing.T) {
	h := New(WithMaxEntries(3))
	settings := make([]*property.Object, 5)
	for i := range settings {
		s, cell := newValueSetting(string(rune('a'+i)), 0)
		attach(t, h, s)
		settings[i] = cell
	}

	for _, cell := range settings {
		cell.Set(1)
	}

	assertLog(t, h, 3, 2)
	if got := h.Changes()[0].Setting().Path(); got != "c" {
		t.Errorf("oldest kept change = %s, want c", got)
	}
	if n := h.UndoAll(); n != 3 {
		t.Errorf("UndoAll() = %d, want 3", n)
	}
	if settings[0].Get() != 1 || settings[2].Get() != 0 {
		t.Error("evicted changes must not be undone")
	}
}

func TestClear(t *testing.T) {
	h := New()
	s, cell := newValueSetting("a", 1)
	attach(t, h, s)

	cell.Set(2)
	h.Clear()
	assertLog(t, h, 0, -1)

	cell.Set(3)
	assertLog(t, h, 1, 0)
}

func TestUndoRedoRestoresValues(t *testing.T) {
	h := New()
	num, numCell := newValueSetting("num", 1.5)
	str, strCell := newValueSetting("str", "a")
	list, listCell := newListSetting("list", "x")
	attach(t, h, num, str, list)

	numCell.Set(2.5)
	strCell.Set("b")
	listCell.Add("y")

	before := []any{numCell.Get(), strCell.Get(), listCell.Items()}
	for h.UndoAvailable() {
		h.Undo()
	}
	if numCell.Get() != 1.5 || strCell.Get() != "a" || !property.Equal(listCell.Items(), []any{"x"}) {
		t.Errorf("undo all: num=%v str=%v list=%v", numCell.Get(), strCell.Get(), listCell.Items())
	}
	for h.RedoAvailable() {
		h.Redo()
	}
	after := []any{numCell.Get(), strCell.Get(), listCell.Items()}
	if !property.Equal(before, after) {
		t.Errorf("redo all = %v, want %v", after, before)
	}
}

func TestRandomSequenceKeepsInvariants(t *testing.T) {
	h := New(WithMaxEntries(8))
	rng := rand.New(rand.NewSource(42))

	var cells []*property.Object
	for i := 0; i < 3; i++ {
		s, cell := newValueSetting(string(rune('a'+i)), 0)
		attach(t, h, s)
		cells = append(cells, cell)
	}
	list, listCell := newListSetting("list")
	attach(t, h, list)

	for i := 0; i < 500; i++ {
		switch rng.Intn(5) {
		case 0, 1:
			cells[rng.Intn(len(cells))].Set(rng.Intn(4))
		case 2:
			listCell.Add(i)
		case 3:
			h.Undo()
		case 4:
			if h.UndoAvailable() {
				cur := h.CurrentChange()
				h.Undo()
				h.Redo()
				if h.CurrentChange() != cur {
					t.Fatalf("step %d: undo+redo moved the cursor", i)
				}
			} else {
				h.Redo()
			}
		}
		checkInvariants(t, h)
	}
}

func TestUndoRedoThenValueRoundTrip(t *testing.T) {
	h := New()
	s, cell := newValueSetting("a", "start")
	attach(t, h, s)
	cell.Set("middle")
	other, otherCell := newValueSetting("b", 0)
	attach(t, h, other)
	otherCell.Set(1)

	h.Undo()
	h.Redo()

	if otherCell.Get() != 1 || cell.Get() != "middle" {
		t.Errorf("values after undo+redo: a=%v b=%v", cell.Get(), otherCell.Get())
	}
}

func TestNotifierPublishesState(t *testing.T) {
	n := notify.New()
	defer n.Close()
	h := New(WithNotifier(n))
	s, cell := newValueSetting("a", 1)
	attach(t, h, s)

	events := map[string][]any{}
	n.SubscribePath("history", func(change notify.Change) {
		events[change.Path] = append(events[change.Path], change.NewValue)
	})

	cell.Set(2) // undo becomes available
	cell.Set(3) // compounded: only the log changes
	h.Undo()    // undo unavailable, redo available
	h.Redo()

	wantBool := func(path string, want ...bool) {
		t.Helper()
		got := events[path]
		if len(got) != len(want) {
			t.Fatalf("%s events = %v, want %v", path, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s[%d] = %v, want %v", path, i, got[i], want[i])
			}
		}
	}
	wantBool(PathUndoAvailable, true, false, true)
	wantBool(PathRedoAvailable, true, false)

	if len(events[PathChanges]) != 2 {
		t.Errorf("changes events = %v, want 2 entries", events[PathChanges])
	}
	current := events[PathCurrentChange]
	if len(current) != 3 {
		t.Fatalf("currentChange events = %d, want 3", len(current))
	}
	if c, ok := current[1].(Change); ok && c != nil {
		t.Errorf("currentChange after undo = %v, want nil", c)
	}
}

func TestChangeDescription(t *testing.T) {
	s, _ := newValueSetting("display.brightness", 50)
	c := NewValueChange(s, 50, 60)
	if got := c.Description(); got != "display.brightness: 50 → 60" {
		t.Errorf("Description() = %q", got)
	}

	l, _ := newListSetting("favorites")
	lc := NewListChange(l, []any{"A"}, []any{"A", "B"})
	if got := lc.Description(); !strings.HasPrefix(got, "favorites: [A] → [A B]") {
		t.Errorf("Description() = %q", got)
	}
	if c.ID() == lc.ID() {
		t.Error("changes should have distinct IDs")
	}
	if c.Timestamp().IsZero() {
		t.Error("timestamp not set")
	}
}

func TestListChangeSnapshotsAreIsolated(t *testing.T) {
	l, cell := newListSetting("l")
	oldItems := []any{"A"}
	lc := NewListChange(l, oldItems, []any{"A", "B"})
	oldItems[0] = "mutated"

	if lc.OldItems()[0] != "A" {
		t.Error("ListChange shares the caller's slice")
	}
	if lc.IsRedundant() {
		t.Error("different snapshots should not be redundant")
	}

	lc.Redo()
	if !property.Equal(cell.Items(), []any{"A", "B"}) {
		t.Errorf("Redo() items = %v", cell.Items())
	}
	lc.Undo()
	if !property.Equal(cell.Items(), []any{"A"}) {
		t.Errorf("Undo() items = %v", cell.Items())
	}
}

func TestValueChangeRedundant(t *testing.T) {
	s, _ := newValueSetting("a", 1)
	tests := []struct {
		oldValue, newValue any
		want               bool
	}{
		{1, 1, true},
		{1, 2, false},
		{"x", "x", true},
		{[]string{"a"}, []string{"a"}, true},
		{nil, nil, true},
		{nil, 0, false},
	}

	for _, tt := range tests {
		if got := NewValueChange(s, tt.oldValue, tt.newValue).IsRedundant(); got != tt.want {
			t.Errorf("IsRedundant(%v, %v) = %v, want %v", tt.oldValue, tt.newValue, got, tt.want)
		}
	}
}

// faultyCell panics on Set while fail is true, before writing.
type faultyCell struct {
	*property.Object
	fail bool
}

func (c *faultyCell) Set(v any) {
	if c.fail {
		panic("write refused")
	}
	c.Object.Set(v)
}

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	fn()
}

func TestFailedWriteKeepsCursor(t *testing.T) {
	h := New()
	cell := &faultyCell{Object: property.NewObject(1)}
	s := &testSetting{path: "a", prop: cell}
	attach(t, h, s)

	cell.Set(2)
	assertLog(t, h, 1, 0)

	cell.fail = true
	mustPanic(t, func() { h.Undo() })
	assertLog(t, h, 1, 0)
	if cell.Get() != 2 {
		t.Errorf("cell = %v, want 2", cell.Get())
	}

	cell.fail = false
	if !h.Undo() || cell.Get() != 1 {
		t.Fatalf("Undo after recovery: cell = %v", cell.Get())
	}
	assertLog(t, h, 1, -1)

	cell.fail = true
	mustPanic(t, func() { h.Redo() })
	assertLog(t, h, 1, -1)
	if !h.RedoAvailable() {
		t.Error("redo lost after failed write")
	}

	// The recording listener is back after the panic.
	cell.fail = false
	cell.Set(3)
	assertLog(t, h, 1, 0)
}

func TestPanickingListenerAfterWriteMovesCursor(t *testing.T) {
	h := New()
	s, cell := newValueSetting("a", 1)
	attach(t, h, s)
	cell.Set(2)

	cell.AddListener(func(_, newValue any) {
		if newValue == 1 {
			panic("listener failed")
		}
	})

	mustPanic(t, func() { h.Undo() })
	if cell.Get() != 1 {
		t.Fatalf("cell = %v, want 1", cell.Get())
	}
	assertLog(t, h, 1, -1)
}
