package sched

import (
	"github.com/minoslab/minos/proc"
)

// A Builder can build schedulers.
type Builder struct {
	quantum int
	policy  Policy
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		quantum: 2,
		policy:  PolicyRR,
	}
}

// WithQuantum sets the CPU time credited per dispatch.
func (b Builder) WithQuantum(quantum int) Builder {
	b.quantum = quantum
	return b
}

// WithPolicy sets the initial scheduling policy.
func (b Builder) WithPolicy(policy Policy) Builder {
	b.policy = policy
	return b
}

// Build builds the scheduler.
func (b Builder) Build() *Scheduler {
	if b.quantum <= 0 {
		panic("quantum must be positive")
	}

	if _, err := ParsePolicy(string(b.policy)); err != nil {
		panic("unknown scheduling policy " + string(b.policy))
	}

	return &Scheduler{
		quantum:   b.quantum,
		policy:    b.policy,
		processes: make(map[proc.PID]*proc.Process),
	}
}
