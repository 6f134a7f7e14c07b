package history

import (
	"fmt"
	"time"
)

// SnapshotOrder selects how Snapshot flattens the two stacks.
type SnapshotOrder int

const (
	// OrderLegacy lists the undone commands oldest-undone first, then the
	// applied commands newest first. It matches previously saved histories
	// and is not chronological once anything has been undone.
	OrderLegacy SnapshotOrder = iota

	// OrderChronological lists the applied commands oldest first, then the
	// undone commands in redo order.
	OrderChronological
)

// String returns the order name.
func (o SnapshotOrder) String() string {
	switch o {
	case OrderLegacy:
		return "legacy"
	case OrderChronological:
		return "chronological"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseSnapshotOrder parses "legacy" or "chronological".
func ParseSnapshotOrder(s string) (SnapshotOrder, error) {
	switch s {
	case "", "legacy":
		return OrderLegacy, nil
	case "chronological":
		return OrderChronological, nil
	default:
		return OrderLegacy, fmt.Errorf("unknown snapshot order %q", s)
	}
}

// Option configures a Manager during creation.
type Option func(*Manager)

// Logger receives replay traces. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// WithLogger traces replays to logger.
func WithLogger(logger Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithSnapshotOrder sets the ordering used by Snapshot.
func WithSnapshotOrder(order SnapshotOrder) Option {
	return func(m *Manager) {
		m.order = order
	}
}

// WithClock sets the time source used to stamp recorded commands.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
