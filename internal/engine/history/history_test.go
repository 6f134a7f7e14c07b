package history

import (
	"bytes"
	"errors"
	"image/color"
	"log"
	"strings"
	"testing"

	"github.com/dshills/pixelstorm/internal/engine/layer"
	"github.com/dshills/pixelstorm/internal/engine/surface"
)

var (
	red  = surface.MustParseColor("#ff0000")
	blue = surface.MustParseColor("#0000ff")
)

// layerState is a comparable copy of one layer.
type layerState struct {
	visible bool
	content *surface.Bitmap
}

func captureState(c *layer.Collection) []layerState {
	var result []layerState
	for _, l := range c.Layers() {
		result = append(result, layerState{visible: l.Visible(), content: l.Content().Clone()})
	}
	return result
}

func assertState(t *testing.T, c *layer.Collection, want []layerState) {
	t.Helper()
	got := captureState(c)
	if len(got) != len(want) {
		t.Fatalf("layer count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].visible != want[i].visible {
			t.Errorf("layer %d visible = %v, want %v", i, got[i].visible, want[i].visible)
		}
		if !got[i].content.Equal(want[i].content) {
			t.Errorf("layer %d pixels differ", i)
		}
	}
}

// newTestManager returns a manager reset to an 8x8 white document.
func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m := NewManager(layer.NewCollection(8, 8), opts...)
	m.SetInitialCommand(NewDocument(8, 8, surface.White))
	if err := m.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	return m
}

func mustAdd(t *testing.T, m *Manager, cmds ...Command) {
	t.Helper()
	for _, cmd := range cmds {
		if err := m.Add(cmd); err != nil {
			t.Fatalf("Add(%s) failed: %v", cmd.Description(), err)
		}
	}
}

// recorder counts history notifications.
type recorder struct {
	name  string
	calls int
	log   *[]string
}

func (r *recorder) OnHistoryChanged() {
	r.calls++
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
}

// failingCommand always fails to apply.
type failingCommand struct{}

func (failingCommand) Apply(*surface.Canvas, *layer.Collection) error { return errors.New("boom") }
func (failingCommand) Category() Category                           { return Generic }
func (failingCommand) Description() string                          { return "fail" }

// optOutCommand is a generic command that skips visibility restore.
type optOutCommand struct{ FillRectCommand }

func (optOutCommand) RestoresVisibility() bool { return false }

func TestNewManagerEmpty(t *testing.T) {
	m := newTestManager(t)
	if m.CanUndo() || m.CanRedo() {
		t.Error("fresh manager should have no history")
	}
	if m.IsBusy() {
		t.Error("IsBusy() should always be false")
	}
	if m.Layers().Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Layers().Count())
	}
	if got := m.Layers().Current().Primary().At(0, 0); got.R != 0xff || got.A != 0xff {
		t.Errorf("initial command not applied, pixel = %v", got)
	}
}

func TestUndoAllReturnsToInitialState(t *testing.T) {
	m := newTestManager(t)
	initial := captureState(m.Layers())

	cmds := []Command{
		NewFillRectCommand(0, 0, 4, 4, red),
		NewInsertLayerCommand(),
		NewStrokeCommand(2, blue, Point{0, 0}, Point{7, 7}),
		NewSelectLayerCommand(1),
		NewFillRectCommand(4, 4, 4, 4, blue),
		NewInsertLayerCommand(),
		NewMergeDownCommand(),
		NewClearCommand(),
	}
	mustAdd(t, m, cmds...)

	if !m.CanUndo() {
		t.Fatal("CanUndo() should be true")
	}
	for i := range cmds {
		if err := m.Undo(); err != nil {
			t.Fatalf("Undo %d failed: %v", i, err)
		}
	}

	if m.CanUndo() {
		t.Error("CanUndo() should be false after undoing everything")
	}
	assertState(t, m.Layers(), initial)
}

func TestAddClearsRedo(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewFillRectCommand(0, 0, 1, 1, red), NewFillRectCommand(1, 1, 1, 1, red))

	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if !m.CanRedo() {
		t.Fatal("CanRedo() should be true after undo")
	}

	mustAdd(t, m, NewClearCommand())
	if m.CanRedo() {
		t.Error("CanRedo() should be false after Add")
	}
	if m.RedoCount() != 0 {
		t.Errorf("RedoCount() = %d, want 0", m.RedoCount())
	}
}

func TestAddNilClearsRedo(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewFillRectCommand(0, 0, 1, 1, red))
	m.Undo()

	rec := &recorder{}
	m.AddListener(rec)
	if err := m.Add(nil); err != nil {
		t.Fatal(err)
	}
	if m.CanRedo() || m.CanUndo() {
		t.Error("Add(nil) should only discard the undone branch")
	}
	if rec.calls != 1 {
		t.Errorf("listener calls = %d, want 1", rec.calls)
	}
}

func TestRedoUndoRoundTrip(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m,
		NewFillRectCommand(0, 0, 4, 4, red),
		NewStrokeCommand(1, blue, Point{0, 7}, Point{7, 0}),
		NewFillRectCommand(2, 2, 2, 2, blue),
	)
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}

	before := captureState(m.Layers())
	if err := m.Redo(); err != nil {
		t.Fatal(err)
	}
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	assertState(t, m.Layers(), before)
}

func TestUndoInsertLayerRemovesTopLayer(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewInsertLayerCommand(), NewFillRectCommand(0, 0, 2, 2, red))
	mustAdd(t, m, NewSelectLayerCommand(1), NewFillRectCommand(4, 4, 2, 2, blue), NewSelectLayerCommand(0))
	mustAdd(t, m, NewInsertLayerCommand())

	before := captureState(m.Layers())
	if len(before) != 3 {
		t.Fatalf("layer count = %d, want 3", len(before))
	}

	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	assertState(t, m.Layers(), before[1:])
}

func TestUndoPreservesVisibility(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewInsertLayerCommand(), NewInsertLayerCommand())
	layers := m.Layers().Layers()
	layers[0].SetVisible(false)
	layers[2].SetVisible(false)

	mustAdd(t, m, NewSelectLayerCommand(1), NewFillRectCommand(0, 0, 8, 8, red))
	before := m.Layers().Visibility()

	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	after := m.Layers().Visibility()
	if len(after) != len(before) {
		t.Fatalf("Visibility() = %v, want %v", after, before)
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("layer %d visible = %v, want %v", i, after[i], before[i])
		}
	}
}

func TestUndoWithHiddenLayerKeepsContent(t *testing.T) {
	m := newTestManager(t)
	bg := m.Layers().Current().Content().Clone()
	mustAdd(t, m, NewInsertLayerCommand())
	base, _ := m.Layers().LayerAt(1)
	base.SetVisible(false)

	mustAdd(t, m, NewFillRectCommand(0, 0, 2, 2, red))
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}

	base, _ = m.Layers().LayerAt(1)
	if base.Visible() {
		t.Fatal("layer 1 should still be hidden after undo")
	}
	if !base.Content().Equal(bg) {
		t.Error("hidden layer should keep its replayed content")
	}
	if !base.Primary().IsEmpty() {
		t.Error("hidden layer should composite nothing")
	}
}

func TestUndoMergeDoesNotRestoreVisibility(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewInsertLayerCommand(), NewFillRectCommand(0, 0, 2, 2, red))
	bottom, _ := m.Layers().LayerAt(1)
	bottom.SetVisible(false)

	mustAdd(t, m, NewMergeDownCommand())
	if m.Layers().Count() != 1 {
		t.Fatalf("Count() after merge = %d, want 1", m.Layers().Count())
	}
	if !m.Layers().Current().Visible() {
		t.Error("merged layer should be visible")
	}

	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if m.Layers().Count() != 2 {
		t.Fatalf("Count() after undo = %d, want 2", m.Layers().Count())
	}
	for i, v := range m.Layers().Visibility() {
		if !v {
			t.Errorf("layer %d should be visible after replay", i)
		}
	}
}

func TestVisibilityRestorerOptOut(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewInsertLayerCommand())
	m.Layers().Layers()[1].SetVisible(false)

	mustAdd(t, m, &optOutCommand{*NewFillRectCommand(0, 0, 1, 1, red)})
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if !m.Layers().Layers()[1].Visible() {
		t.Error("opt-out command should not restore visibility")
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	m := newTestManager(t)
	before := captureState(m.Layers())
	rec := &recorder{}
	m.AddListener(rec)

	if err := m.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
	if err := m.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() error = %v, want ErrNothingToRedo", err)
	}
	if m.UndoCount() != 0 || m.RedoCount() != 0 {
		t.Error("failed undo/redo should not change the stacks")
	}
	if rec.calls != 0 {
		t.Errorf("listener calls = %d, want 0", rec.calls)
	}
	assertState(t, m.Layers(), before)
}

func TestScenarioInsertStrokeUndoRedo(t *testing.T) {
	m := newTestManager(t)
	baseline := captureState(m.Layers())

	mustAdd(t, m, NewInsertLayerCommand())
	if m.Layers().Count() != 2 {
		t.Fatalf("Count() = %d, want 2", m.Layers().Count())
	}
	mustAdd(t, m, NewStrokeCommand(1, red, Point{1, 1}, Point{5, 1}))
	stroked := captureState(m.Layers())

	for range 2 {
		if err := m.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	assertState(t, m.Layers(), baseline)

	for range 2 {
		if err := m.Redo(); err != nil {
			t.Fatal(err)
		}
	}
	assertState(t, m.Layers(), stroked)
	if got := m.Layers().Layers()[0].Content().At(3, 1); got.R != 0xff {
		t.Errorf("stroke pixel = %v, want red", got)
	}
}

func TestRedoOnHiddenLayerDrawsOnAlternate(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewInsertLayerCommand(), NewFillRectCommand(0, 0, 2, 2, red))
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}

	top := m.Layers().Current()
	top.SetVisible(false)
	if err := m.Redo(); err != nil {
		t.Fatal(err)
	}

	if !top.Primary().IsEmpty() {
		t.Error("redo on hidden layer should not draw on the primary surface")
	}
	if got := top.Alternate().At(0, 0); got.R != 0xff {
		t.Errorf("alternate pixel = %v, want red", got)
	}
}

func TestAddOnHiddenLayerDrawsOnPrimary(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewInsertLayerCommand())

	top := m.Layers().Current()
	top.SetVisible(false)
	mustAdd(t, m, NewFillRectCommand(0, 0, 2, 2, red), NewSelectLayerCommand(0))

	if got := top.Primary().At(0, 0); got.R != 0xff {
		t.Errorf("primary pixel = %v, want red", got)
	}
	if !top.Content().IsEmpty() {
		t.Error("hidden layer content should not include the drawing before a replay")
	}

	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	top = m.Layers().Current()
	if top.Visible() {
		t.Error("layer should stay hidden after undo")
	}
	if got := top.Content().At(0, 0); got.R != 0xff {
		t.Errorf("content pixel after replay = %v, want red", got)
	}
}

func TestAddFailurePropagates(t *testing.T) {
	m := newTestManager(t)
	rec := &recorder{}
	m.AddListener(rec)

	err := m.Add(failingCommand{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Add() error = %v, want boom", err)
	}
	if rec.calls != 0 {
		t.Error("listeners should not be notified on failure")
	}
	if m.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1 (no rollback)", m.UndoCount())
	}

	if err := m.Reset(); err != nil {
		t.Fatal(err)
	}
	if m.CanUndo() {
		t.Error("Reset should clear the history")
	}
}

func TestUndoReplayFailurePropagates(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewSelectLayerCommand(0), NewClearCommand())

	// Corrupt the oldest entry so the replay fails.
	m.applied.entries[0].command = NewSelectLayerCommand(5)
	if err := m.Undo(); !errors.Is(err, layer.ErrIndexOutOfRange) {
		t.Errorf("Undo() error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestListenersNotifiedInOrder(t *testing.T) {
	m := newTestManager(t)
	var calls []string
	a := &recorder{name: "a", log: &calls}
	b := &recorder{name: "b", log: &calls}
	m.AddListener(a)
	m.AddListener(b)
	m.AddListener(a)

	mustAdd(t, m, NewClearCommand())
	m.Undo()
	m.Redo()
	m.Reset()

	want := "a,b,a,b,a,b,a,b"
	if got := strings.Join(calls, ","); got != want {
		t.Errorf("notifications = %s, want %s", got, want)
	}

	m.RemoveListener(a)
	mustAdd(t, m, NewClearCommand())
	if a.calls != 4 || b.calls != 5 {
		t.Errorf("calls a=%d b=%d, want 4 and 5", a.calls, b.calls)
	}
}

func TestSnapshotNilWithoutInitial(t *testing.T) {
	m := NewManager(layer.NewCollection(2, 2))
	if snap := m.Snapshot(); snap != nil {
		t.Errorf("Snapshot() = %v, want nil", snap)
	}
}

func TestSnapshotOrder(t *testing.T) {
	a := NewFillRectCommand(0, 0, 1, 1, red)
	b := NewFillRectCommand(1, 1, 1, 1, red)
	c := NewFillRectCommand(2, 2, 1, 1, red)

	tests := []struct {
		name  string
		order SnapshotOrder
		want  []Command
	}{
		{"legacy", OrderLegacy, []Command{c, b, a}},
		{"chronological", OrderChronological, []Command{a, b, c}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, WithSnapshotOrder(tt.order))
			mustAdd(t, m, a, b, c)
			m.Undo()
			m.Undo()

			snap := m.Snapshot()
			if snap == nil {
				t.Fatal("Snapshot() = nil")
			}
			if len(snap.Commands) != len(tt.want) {
				t.Fatalf("len(Commands) = %d, want %d", len(snap.Commands), len(tt.want))
			}
			for i := range tt.want {
				if snap.Commands[i] != tt.want[i] {
					t.Errorf("Commands[%d] = %s, want %s", i, snap.Commands[i].Description(), tt.want[i].Description())
				}
			}
		})
	}
}

func TestLoadThenSnapshot(t *testing.T) {
	initial := NewDocument(8, 8, surface.White)
	cmds := []Command{
		NewInsertLayerCommand(),
		NewFillRectCommand(0, 0, 2, 2, red),
		NewStrokeCommand(1, blue, Point{0, 0}),
	}

	m := NewManager(layer.NewCollection(8, 8))
	if err := m.Load(&Snapshot{Initial: initial, Commands: cmds}); err != nil {
		t.Fatal(err)
	}
	if m.UndoCount() != len(cmds) {
		t.Fatalf("UndoCount() = %d, want %d", m.UndoCount(), len(cmds))
	}

	snap := m.Snapshot()
	if snap.Initial != initial {
		t.Error("initial command not preserved")
	}
	// Legacy order lists applied commands newest first.
	for i, cmd := range snap.Commands {
		if want := cmds[len(cmds)-1-i]; cmd != want {
			t.Errorf("Commands[%d] = %s, want %s", i, cmd.Description(), want.Description())
		}
	}
}

func TestLoadChronologicalRoundTrip(t *testing.T) {
	src := newTestManager(t, WithSnapshotOrder(OrderChronological))
	mustAdd(t, src, NewInsertLayerCommand(), NewFillRectCommand(0, 0, 3, 3, red), NewMergeDownCommand())
	want := captureState(src.Layers())

	dst := NewManager(layer.NewCollection(8, 8))
	if err := dst.Load(src.Snapshot()); err != nil {
		t.Fatal(err)
	}
	assertState(t, dst.Layers(), want)
}

func TestLoadNil(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewClearCommand())
	if err := m.Load(nil); err != nil {
		t.Fatal(err)
	}
	if m.UndoCount() != 1 {
		t.Error("Load(nil) should be a no-op")
	}
}

func TestResetWithoutInitial(t *testing.T) {
	m := NewManager(layer.NewCollection(2, 2))
	mustAdd(t, m, NewFillRectCommand(0, 0, 2, 2, red))
	if err := m.Reset(); err != nil {
		t.Fatal(err)
	}
	if !m.Layers().Current().Primary().IsEmpty() {
		t.Error("Reset without initial command should leave an empty baseline")
	}
}

func TestInitialCommandSizeMismatch(t *testing.T) {
	m := NewManager(layer.NewCollection(4, 4))
	m.SetInitialCommand(NewDocument(8, 8, surface.White))
	if err := m.Reset(); !errors.Is(err, ErrDocumentSize) {
		t.Errorf("Reset() error = %v, want ErrDocumentSize", err)
	}
}

func TestAddGroup(t *testing.T) {
	m := newTestManager(t)
	err := m.AddGroup("Two boxes",
		NewFillRectCommand(0, 0, 1, 1, red),
		NewFillRectCommand(2, 2, 1, 1, red),
	)
	if err != nil {
		t.Fatal(err)
	}
	if m.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", m.UndoCount())
	}
	if info, _ := m.PeekUndo(); info.Description != "Two boxes" {
		t.Errorf("PeekUndo().Description = %q, want %q", info.Description, "Two boxes")
	}

	err = m.AddGroup("bad", NewClearCommand(), NewInsertLayerCommand())
	if !errors.Is(err, ErrStructuralInCompound) {
		t.Errorf("AddGroup() error = %v, want ErrStructuralInCompound", err)
	}
	if m.UndoCount() != 1 {
		t.Error("rejected group should not be recorded")
	}
}

func TestCompoundCommandRebindsBetweenSteps(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewInsertLayerCommand())
	mustAdd(t, m, NewCompoundCommand("",
		NewSelectLayerCommand(1),
		NewFillRectCommand(0, 0, 1, 1, blue),
	))

	top, _ := m.Layers().LayerAt(0)
	if !top.Content().IsEmpty() {
		t.Error("fill should land on the selected layer, not the previous one")
	}
	bottom, _ := m.Layers().LayerAt(1)
	if got := bottom.Content().At(0, 0); got.B != 0xff {
		t.Errorf("bottom pixel = %v, want blue", got)
	}
}

func TestUndoRedoInfo(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewInsertLayerCommand(), NewClearCommand())
	m.Undo()

	undo := m.UndoInfo()
	if len(undo) != 1 || undo[0].Category != InsertLayer {
		t.Errorf("UndoInfo() = %+v", undo)
	}
	redo := m.RedoInfo()
	if len(redo) != 1 || redo[0].Description != "Clear layer" {
		t.Errorf("RedoInfo() = %+v", redo)
	}
	if info, ok := m.PeekRedo(); !ok || info.Timestamp.IsZero() {
		t.Error("PeekRedo() should report a timestamped entry")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	m := newTestManager(t, WithLogger(log.New(&buf, "", 0)))
	mustAdd(t, m, NewClearCommand())
	m.Undo()

	if !strings.Contains(buf.String(), "undo \"Clear layer\": replayed 0 commands") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{Generic, "generic"},
		{InsertLayer, "insert_layer"},
		{MergeLayers, "merge_layers"},
		{Category(9), "category(9)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseSnapshotOrder(t *testing.T) {
	for in, want := range map[string]SnapshotOrder{"": OrderLegacy, "legacy": OrderLegacy, "chronological": OrderChronological} {
		got, err := ParseSnapshotOrder(in)
		if err != nil || got != want {
			t.Errorf("ParseSnapshotOrder(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSnapshotOrder("newest"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestMergeLayersUpward(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, NewInsertLayerCommand(), NewFillRectCommand(0, 0, 1, 1, red))
	mustAdd(t, m, NewMergeLayersCommand(1, 0))

	if m.Layers().Count() != 1 {
		t.Fatalf("Count() = %d, want 1", m.Layers().Count())
	}
	l := m.Layers().Current()
	if got := l.Content().At(0, 0); got.R != 0xff || got.G != 0 {
		t.Errorf("pixel (0,0) = %v, want red on top", got)
	}
	if got := l.Content().At(5, 5); got != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("pixel (5,5) = %v, want white", got)
	}

	if err := m.Add(NewMergeLayersCommand(0, 0)); !errors.Is(err, ErrInvalidMerge) {
		t.Errorf("self merge error = %v, want ErrInvalidMerge", err)
	}
}
