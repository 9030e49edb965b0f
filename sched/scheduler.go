// Package sched implements the CPU scheduler: a ready queue and a
// running slot ordered by a selectable policy.
package sched

import (
	"errors"
	"sort"
	"strings"

	"github.com/minoslab/minos/proc"
)

// ErrUnknownPolicy is returned when a policy name is not recognized.
var ErrUnknownPolicy = errors.New("unknown scheduling policy")

// Policy selects the ordering of the ready queue.
type Policy string

// The supported policies. Ties are broken by the current queue order.
const (
	// PolicyRR and PolicyFIFO keep arrival order.
	PolicyRR   Policy = "RR"
	PolicyFIFO Policy = "FIFO"

	// PolicySJF orders by the head element of the CPU-burst profile,
	// shortest first. Processes with an exhausted profile sort last.
	PolicySJF Policy = "SJF"

	// PolicyPriority orders by descending priority value: a larger
	// number means a higher priority and is scheduled first.
	PolicyPriority Policy = "PRIORITY"
)

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	policy := Policy(strings.ToUpper(name))
	switch policy {
	case PolicyRR, PolicyFIFO, PolicySJF, PolicyPriority:
		return policy, nil
	}

	return "", ErrUnknownPolicy
}

// A Scheduler multiplexes the CPU among the live processes. It owns the
// authoritative table of live processes; a process is in at most one of
// the ready queue and the running slot at any instant.
type Scheduler struct {
	quantum int
	policy  Policy

	readyQueue []*proc.Process
	running    *proc.Process
	processes  map[proc.PID]*proc.Process
}

// AddProcess admits a process: it joins the live table, becomes READY
// and is queued per the active policy.
func (s *Scheduler) AddProcess(p *proc.Process) {
	s.processes[p.PID] = p
	p.SetState(proc.StateReady, "admitted to ready queue")
	s.readyQueue = append(s.readyQueue, p)
	s.sortReadyQueue()
}

// SetPolicy switches the active policy and re-orders the ready queue
// immediately.
func (s *Scheduler) SetPolicy(policy Policy) error {
	switch policy {
	case PolicyRR, PolicyFIFO, PolicySJF, PolicyPriority:
	default:
		return ErrUnknownPolicy
	}

	s.policy = policy
	s.sortReadyQueue()

	return nil
}

// Policy returns the active policy.
func (s *Scheduler) Policy() Policy {
	return s.policy
}

// Quantum returns the CPU time credited per dispatch.
func (s *Scheduler) Quantum() int {
	return s.quantum
}

// ScheduleNext returns a still-running process to the ready queue,
// re-orders the queue per the active policy, and dispatches the head as
// the new running process, crediting it one quantum. Returns nil when
// the ready queue is empty.
func (s *Scheduler) ScheduleNext() *proc.Process {
	if s.running != nil && s.running.State == proc.StateRunning {
		s.running.SetState(proc.StateReady, "returned to ready queue")
		s.readyQueue = append(s.readyQueue, s.running)
	}

	s.sortReadyQueue()

	if len(s.readyQueue) == 0 {
		s.running = nil
		return nil
	}

	next := s.readyQueue[0]
	s.readyQueue = s.readyQueue[1:]

	s.running = next
	next.SetState(proc.StateRunning, "dispatched")
	next.CPUTime += s.quantum

	return next
}

// RemoveProcess terminates a process and purges it from the ready
// queue, the running slot and the live table. The return value
// indicates whether the process was found.
func (s *Scheduler) RemoveProcess(pid proc.PID) bool {
	p, found := s.processes[pid]
	if !found {
		return false
	}

	p.SetState(proc.StateTerminated, "terminated")

	newQueue := make([]*proc.Process, 0, len(s.readyQueue))
	for _, queued := range s.readyQueue {
		if queued.PID != pid {
			newQueue = append(newQueue, queued)
		}
	}
	s.readyQueue = newQueue

	if s.running != nil && s.running.PID == pid {
		s.running = nil
	}

	delete(s.processes, pid)

	return true
}

// Requeue appends a process to the tail of the ready queue without
// changing its state.
func (s *Scheduler) Requeue(p *proc.Process) {
	s.readyQueue = append(s.readyQueue, p)
}

// PromoteToFront moves a queued process to the head of the ready queue.
// The return value indicates whether the process was queued.
func (s *Scheduler) PromoteToFront(pid proc.PID) bool {
	for i, queued := range s.readyQueue {
		if queued.PID != pid {
			continue
		}

		s.readyQueue = append(s.readyQueue[:i], s.readyQueue[i+1:]...)
		s.readyQueue = append([]*proc.Process{queued}, s.readyQueue...)

		return true
	}

	return false
}

// ClearRunning empties the running slot.
func (s *Scheduler) ClearRunning() {
	s.running = nil
}

// RunningProcess returns the process currently holding the CPU, or nil.
func (s *Scheduler) RunningProcess() *proc.Process {
	return s.running
}

// Process returns a live process by PID.
func (s *Scheduler) Process(pid proc.PID) (*proc.Process, bool) {
	p, found := s.processes[pid]
	return p, found
}

// Processes returns the live processes ordered by PID.
func (s *Scheduler) Processes() []*proc.Process {
	out := make([]*proc.Process, 0, len(s.processes))
	for _, p := range s.processes {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].PID < out[j].PID
	})

	return out
}

// ReadyQueue returns a snapshot of the ready queue in dispatch order.
func (s *Scheduler) ReadyQueue() []*proc.Process {
	out := make([]*proc.Process, len(s.readyQueue))
	copy(out, s.readyQueue)

	return out
}

func (s *Scheduler) sortReadyQueue() {
	switch s.policy {
	case PolicyPriority:
		sort.SliceStable(s.readyQueue, func(i, j int) bool {
			return s.readyQueue[i].Priority > s.readyQueue[j].Priority
		})
	case PolicySJF:
		sort.SliceStable(s.readyQueue, func(i, j int) bool {
			bi, oki := s.readyQueue[i].HeadCPUBurst()
			bj, okj := s.readyQueue[j].HeadCPUBurst()
			if !oki {
				return false
			}
			if !okj {
				return true
			}
			return bi < bj
		})
	}
}
