// Package eventlog defines the simulator's timeline records and the
// sinks that consume them.
package eventlog

import (
	"sync"
	"time"
)

// Categories of timeline records emitted by the kernel.
const (
	CategoryProcess = "PROCESS"
	CategoryMemory  = "MEMORY"
	CategoryCPU     = "CPU"
	CategoryIO      = "IO"
)

// A Record describes one state-changing event in the simulation.
type Record struct {
	Step     int
	Time     time.Time
	Category string
	Message  string
	PID      int
	Metadata map[string]string
}

// A Timeline is the append-only sequence of all records emitted during
// one simulation run. It stamps each record with a monotonically
// increasing step number.
type Timeline struct {
	lock     sync.Mutex
	nextStep int
	records  []Record
}

// NewTimeline creates an empty Timeline.
func NewTimeline() *Timeline {
	return &Timeline{nextStep: 1}
}

// Append stamps the record with the next step number and the current
// time, stores it, and returns the stamped record.
func (t *Timeline) Append(r Record) Record {
	t.lock.Lock()
	defer t.lock.Unlock()

	r.Step = t.nextStep
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	t.nextStep++
	t.records = append(t.records, r)

	return r
}

// Len returns the number of records stored.
func (t *Timeline) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.records)
}

// Last returns the most recent records, up to limit. A non-positive
// limit returns the whole timeline.
func (t *Timeline) Last(limit int) []Record {
	t.lock.Lock()
	defer t.lock.Unlock()

	start := 0
	if limit > 0 && limit < len(t.records) {
		start = len(t.records) - limit
	}

	out := make([]Record, len(t.records)-start)
	copy(out, t.records[start:])

	return out
}
