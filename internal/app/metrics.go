package app

import (
	"sort"
	"sync"
	"time"
)

// OpStats summarizes the timing of one kind of operation.
type OpStats struct {
	Count uint64
	Total time.Duration
	Max   time.Duration
}

// Average returns the mean duration, or zero when nothing was recorded.
func (s OpStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Metrics tracks how long history operations take. Undo is the expensive
// one: it replays the whole remaining history.
type Metrics struct {
	mu  sync.Mutex
	ops map[string]*OpStats

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		ops:       make(map[string]*OpStats),
		startTime: time.Now(),
	}
}

// Record adds one timed operation.
func (m *Metrics) Record(op string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.ops[op]
	if !ok {
		s = &OpStats{}
		m.ops[op] = s
	}
	s.Count++
	s.Total += d
	if d > s.Max {
		s.Max = d
	}
}

// Stats returns the stats of op.
func (m *Metrics) Stats(op string) OpStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.ops[op]; ok {
		return *s
	}
	return OpStats{}
}

// Ops returns the recorded operation names in sorted order.
func (m *Metrics) Ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ops := make([]string, 0, len(m.ops))
	for op := range m.ops {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Uptime returns the time since the tracker was created.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
