package history

import "time"

// CommandInfo provides read-only info about a recorded command.
// Used for displaying undo/redo history to users.
type CommandInfo struct {
	Description string    // Human-readable description
	Category    Category  // Structural kind
	Timestamp   time.Time // When the command was recorded
}

func (e *entry) info() CommandInfo {
	return CommandInfo{
		Description: e.command.Description(),
		Category:    e.command.Category(),
		Timestamp:   e.timestamp,
	}
}

// UndoInfo returns the commands that can be undone, next undo first.
func (m *Manager) UndoInfo() []CommandInfo {
	result := make([]CommandInfo, 0, m.applied.len())
	for e := range m.applied.topDown() {
		result = append(result, e.info())
	}
	return result
}

// RedoInfo returns the commands that can be redone, next redo first.
func (m *Manager) RedoInfo() []CommandInfo {
	result := make([]CommandInfo, 0, m.undone.len())
	for e := range m.undone.topDown() {
		result = append(result, e.info())
	}
	return result
}

// PeekUndo returns info about the next undo without performing it.
func (m *Manager) PeekUndo() (CommandInfo, bool) {
	e, ok := m.applied.peek()
	if !ok {
		return CommandInfo{}, false
	}
	return e.info(), true
}

// PeekRedo returns info about the next redo without performing it.
func (m *Manager) PeekRedo() (CommandInfo, bool) {
	e, ok := m.undone.peek()
	if !ok {
		return CommandInfo{}, false
	}
	return e.info(), true
}
