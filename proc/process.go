// Package proc defines the process entity, the unit of scheduling and
// memory ownership in the simulation.
package proc

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/minoslab/minos/eventlog"
)

// PID is the identifier of a process. PIDs increase monotonically and
// are never reused, even after the process terminates.
type PID int

// State is a lifecycle state of a process.
type State string

// The lifecycle states. Terminated is terminal.
const (
	StateNew        State = "NEW"
	StateReady      State = "READY"
	StateRunning    State = "RUNNING"
	StateWaiting    State = "WAITING"
	StateTerminated State = "TERMINATED"
)

// MaxPriority is the priority assigned to interrupt service processes.
// Larger numbers mean higher priority.
const MaxPriority = math.MaxInt

// DefaultPriority is the priority assigned to processes that do not ask
// for a specific one.
const DefaultPriority = 5

// A Transition is one immutable entry of a process's lifecycle audit
// log.
type Transition struct {
	Time  time.Time
	State State
	Note  string
}

// A Process is a simulated process. It owns a transition log and an
// event history, both append-only.
type Process struct {
	PID           PID
	Name          string
	Priority      int
	State         State
	MemorySize    uint64
	MemoryAddress uint64
	CPUTime       int
	CreatedAt     time.Time

	// CPUBursts holds the synthetic CPU demand of the process. IOBursts
	// interleaves with it and holds one element fewer.
	CPUBursts []int
	IOBursts  []int

	History     []eventlog.Record
	Transitions []Transition
}

// New creates a process in the NEW state with generated burst profiles.
func New(pid PID, name string, priority int, memorySize uint64) *Process {
	p := &Process{
		PID:        pid,
		Name:       name,
		Priority:   priority,
		State:      StateNew,
		MemorySize: memorySize,
		CreatedAt:  time.Now(),
	}

	p.CPUBursts = generateCPUBursts()
	p.IOBursts = generateIOBursts(len(p.CPUBursts))

	return p
}

func (p *Process) String() string {
	return fmt.Sprintf("Process(pid=%d, name=%s, state=%s, priority=%d)",
		p.PID, p.Name, p.State, p.Priority)
}

// SetState applies the new state and appends a transition record. The
// state machine is permissive: no transition is rejected based on the
// prior state.
func (p *Process) SetState(state State, note string) {
	p.State = state
	p.Transitions = append(p.Transitions, Transition{
		Time:  time.Now(),
		State: state,
		Note:  note,
	})
}

// HeadCPUBurst returns the next CPU burst of the process. The bool
// return value indicates whether the profile has any bursts left.
func (p *Process) HeadCPUBurst() (int, bool) {
	if len(p.CPUBursts) == 0 {
		return 0, false
	}

	return p.CPUBursts[0], true
}

func generateCPUBursts() []int {
	bursts := make([]int, 2+rand.Intn(3))
	for i := range bursts {
		bursts[i] = 2 + rand.Intn(5)
	}

	return bursts
}

func generateIOBursts(numCPUBursts int) []int {
	if numCPUBursts <= 1 {
		return nil
	}

	bursts := make([]int, numCPUBursts-1)
	for i := range bursts {
		bursts[i] = 1 + rand.Intn(3)
	}

	return bursts
}
