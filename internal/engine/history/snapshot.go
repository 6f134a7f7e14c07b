package history

// Snapshot is the flat, persistable form of a history.
type Snapshot struct {
	Initial  Command
	Commands []Command
}

// Snapshot returns the history as a flat command log, or nil when no initial
// command is set. The order of Commands depends on the manager's
// SnapshotOrder; Load adds them back in the order given.
func (m *Manager) Snapshot() *Snapshot {
	if m.initial == nil {
		return nil
	}

	cmds := make([]Command, 0, m.applied.len()+m.undone.len())
	switch m.order {
	case OrderChronological:
		for e := range m.applied.bottomUp() {
			cmds = append(cmds, e.command)
		}
		for e := range m.undone.topDown() {
			cmds = append(cmds, e.command)
		}
	default:
		for e := range m.undone.bottomUp() {
			cmds = append(cmds, e.command)
		}
		for e := range m.applied.topDown() {
			cmds = append(cmds, e.command)
		}
	}

	return &Snapshot{
		Initial:  m.initial,
		Commands: cmds,
	}
}
