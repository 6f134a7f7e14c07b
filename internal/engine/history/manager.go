package history

import (
	"fmt"
	"time"

	"github.com/dshills/pixelstorm/internal/engine/layer"
	"github.com/dshills/pixelstorm/internal/engine/surface"
)

// Manager owns the edit history of one document and rebuilds the layer
// collection by replaying it.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	layers *layer.Collection
	canvas *surface.Canvas

	applied stack
	undone  stack
	initial Command

	listeners []Listener

	// Configuration
	order  SnapshotOrder
	logger Logger
	now    func() time.Time
}

// NewManager creates a history manager for layers.
func NewManager(layers *layer.Collection, opts ...Option) *Manager {
	m := &Manager{
		layers: layers,
		canvas: surface.NewCanvas(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Layers returns the collection the manager replays into.
func (m *Manager) Layers() *layer.Collection {
	return m.layers
}

// SetInitialCommand sets the command every replay starts from.
// It is not executed until the next Reset, Load or Undo.
func (m *Manager) SetInitialCommand(cmd Command) {
	m.initial = cmd
}

// InitialCommand returns the initial command, or nil.
func (m *Manager) InitialCommand() Command {
	return m.initial
}

// Add applies cmd and records it. The undone branch is discarded.
// A nil command only discards the undone branch.
//
// The canvas is bound to the current layer's primary surface even when the
// layer is hidden. A hidden layer keeps its content on the alternate
// surface, so the drawing is not part of the layer content until a replay
// rebuilds the layer visible and hides it again.
//
// If Apply fails the command stays recorded and listeners are not notified;
// callers should Reset.
func (m *Manager) Add(cmd Command) error {
	m.undone.clear()

	if cmd != nil {
		m.applied.push(&entry{command: cmd, timestamp: m.now()})
		m.bindCurrent()
		if err := cmd.Apply(m.canvas, m.layers); err != nil {
			return fmt.Errorf("apply %q: %w", cmd.Description(), err)
		}
	}

	m.notify()
	return nil
}

// Undo removes the most recent command and rebuilds the layers by replaying
// the initial command and the remaining history. Layer visibility survives
// the replay unless the undone command opts out.
func (m *Manager) Undo() error {
	e, ok := m.applied.pop()
	if !ok {
		return ErrNothingToUndo
	}
	m.undone.push(e)
	cmd := e.command

	n := m.layers.Count()
	if cmd.Category() == InsertLayer {
		n--
		if err := m.layers.RemoveAt(0); err != nil {
			return fmt.Errorf("undo %q: %w", cmd.Description(), err)
		}
	}

	restore := restoresVisibility(cmd)
	visible := make([]bool, max(n, 0))
	for i := range visible {
		visible[i] = true
		if !restore {
			continue
		}
		if l, err := m.layers.LayerAt(i); err == nil {
			visible[i] = l.Visible()
		}
	}

	if err := m.replay(); err != nil {
		return fmt.Errorf("undo %q: %w", cmd.Description(), err)
	}

	if restore {
		for i, v := range visible {
			l, err := m.layers.LayerAt(i)
			if err != nil {
				break
			}
			l.SetVisible(v)
		}
	}

	m.logf("undo %q: replayed %d commands", cmd.Description(), m.applied.len())
	m.notify()
	return nil
}

// Redo re-applies the most recently undone command on the current state.
func (m *Manager) Redo() error {
	e, ok := m.undone.pop()
	if !ok {
		return ErrNothingToRedo
	}
	m.applied.push(e)

	if cur := m.layers.Current(); cur == nil {
		m.canvas.Bind(nil)
	} else if cur.Visible() {
		m.canvas.Bind(cur.Primary())
	} else {
		m.canvas.Bind(cur.Alternate())
	}

	if err := e.command.Apply(m.canvas, m.layers); err != nil {
		return fmt.Errorf("redo %q: %w", e.command.Description(), err)
	}

	m.notify()
	return nil
}

// Reset clears both stacks and rebuilds the baseline state from the
// initial command.
func (m *Manager) Reset() error {
	m.applied.clear()
	m.undone.clear()
	m.layers.Reset()

	if m.initial != nil {
		m.bindCurrent()
		if err := m.initial.Apply(m.canvas, m.layers); err != nil {
			return fmt.Errorf("apply initial command: %w", err)
		}
	}

	m.notify()
	return nil
}

// Load replaces the whole history with snap: the initial command is set,
// the manager is reset and every command is added in order.
// A nil snapshot is a no-op.
func (m *Manager) Load(snap *Snapshot) error {
	if snap == nil {
		return nil
	}

	m.SetInitialCommand(snap.Initial)
	if err := m.Reset(); err != nil {
		return err
	}
	for i, cmd := range snap.Commands {
		if err := m.Add(cmd); err != nil {
			return fmt.Errorf("load command %d: %w", i, err)
		}
	}
	return nil
}

// CanUndo returns true if undo is available.
func (m *Manager) CanUndo() bool {
	return m.applied.len() > 0
}

// CanRedo returns true if redo is available.
func (m *Manager) CanRedo() bool {
	return m.undone.len() > 0
}

// IsBusy always returns false. All operations run synchronously.
func (m *Manager) IsBusy() bool {
	return false
}

// UndoCount returns the number of undo operations available.
func (m *Manager) UndoCount() int {
	return m.applied.len()
}

// RedoCount returns the number of redo operations available.
func (m *Manager) RedoCount() int {
	return m.undone.len()
}

// replay resets the layers and re-applies the initial command and every
// applied command, oldest first.
func (m *Manager) replay() error {
	m.layers.Reset()

	if m.initial != nil {
		m.bindCurrent()
		if err := m.initial.Apply(m.canvas, m.layers); err != nil {
			return fmt.Errorf("apply initial command: %w", err)
		}
	}

	for e := range m.applied.bottomUp() {
		m.bindCurrent()
		if err := e.command.Apply(m.canvas, m.layers); err != nil {
			return fmt.Errorf("replay %q: %w", e.command.Description(), err)
		}
	}
	return nil
}

// bindCurrent binds the canvas to the primary surface of the current layer.
func (m *Manager) bindCurrent() {
	if cur := m.layers.Current(); cur != nil {
		m.canvas.Bind(cur.Primary())
		return
	}
	m.canvas.Bind(nil)
}

func (m *Manager) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}
