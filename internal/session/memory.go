// Package session implements the per-session coaching engine: bounded signal
// memory, trend estimation, the coaching gate, moment detection, and the
// orchestrator that sequences them.
package session

import "github.com/thebtf/stagewhisper/pkg/models"

// DefaultMemoryCapacity bounds how many signal events a session retains.
const DefaultMemoryCapacity = 50

// Memory is a bounded, time-ordered buffer of signal events. Oldest events are
// evicted first once capacity is reached. Memory assumes single-writer access;
// the orchestrator serializes appends for its session.
type Memory struct {
	capacity int
	events   []models.SignalEvent
}

// NewMemory creates a memory buffer with the given capacity. Non-positive
// capacities fall back to the default.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &Memory{
		capacity: capacity,
		events:   make([]models.SignalEvent, 0, capacity),
	}
}

// Append adds an event, evicting the oldest when the buffer is full. Events
// are never mutated after append.
func (m *Memory) Append(ev models.SignalEvent) {
	if len(m.events) == m.capacity {
		copy(m.events, m.events[1:])
		m.events = m.events[:m.capacity-1]
	}
	m.events = append(m.events, ev)
}

// Recent returns the last n events of the given kind in arrival order, fewer
// if there is less history.
func (m *Memory) Recent(kind models.EventKind, n int) []models.SignalEvent {
	if n <= 0 {
		return nil
	}
	out := make([]models.SignalEvent, 0, n)
	for i := len(m.events) - 1; i >= 0 && len(out) < n; i-- {
		if m.events[i].Kind == kind {
			out = append(out, m.events[i])
		}
	}
	// Collected newest-first; restore arrival order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Latest returns the most recent event of the given kind.
func (m *Memory) Latest(kind models.EventKind) (models.SignalEvent, bool) {
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].Kind == kind {
			return m.events[i], true
		}
	}
	return models.SignalEvent{}, false
}

// All returns a snapshot of the full history in arrival order. The returned
// slice is a defensive copy; callers cannot corrupt session state through it.
func (m *Memory) All() []models.SignalEvent {
	out := make([]models.SignalEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Len returns the number of retained events.
func (m *Memory) Len() int {
	return len(m.events)
}
