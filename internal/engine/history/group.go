package history

// AddGroup records cmds as a single undo unit.
// Structural commands cannot be grouped; nothing is recorded if one is present.
func (m *Manager) AddGroup(name string, cmds ...Command) error {
	if len(cmds) == 0 {
		return nil
	}
	if len(cmds) == 1 {
		// Single command doesn't need grouping
		return m.Add(cmds[0])
	}

	compound := NewCompoundCommand(name, cmds...)
	if err := compound.Validate(); err != nil {
		return err
	}
	return m.Add(compound)
}
