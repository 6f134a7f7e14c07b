package history

import "slices"

// Listener is notified after every successful history mutation.
type Listener interface {
	OnHistoryChanged()
}

// AddListener registers l. Registering the same listener twice is a no-op.
// l must be of a comparable type, such as a pointer.
func (m *Manager) AddListener(l Listener) {
	if l == nil || slices.Contains(m.listeners, l) {
		return
	}
	m.listeners = append(m.listeners, l)
}

// RemoveListener unregisters l.
func (m *Manager) RemoveListener(l Listener) {
	if i := slices.Index(m.listeners, l); i >= 0 {
		m.listeners = slices.Delete(m.listeners, i, i+1)
	}
}

// notify calls every listener in registration order.
func (m *Manager) notify() {
	for _, l := range slices.Clone(m.listeners) {
		l.OnHistoryChanged()
	}
}
