package proc

import (
	"sync/atomic"
)

// PIDGenerator can generate PIDs.
type PIDGenerator interface {
	// Generate a PID
	Generate() PID
}

// NewPIDGenerator returns a generator that hands out PIDs sequentially,
// starting from 1. Generated PIDs are never reused.
func NewPIDGenerator() PIDGenerator {
	return &sequentialPIDGenerator{}
}

type sequentialPIDGenerator struct {
	nextPID int64
}

func (g *sequentialPIDGenerator) Generate() PID {
	return PID(atomic.AddInt64(&g.nextPID, 1))
}
