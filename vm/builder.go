package vm

import (
	"github.com/minoslab/minos/proc"
)

// A Builder can build virtual memory managers.
type Builder struct {
	numFrames int
	pageSize  uint64
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numFrames: 64,
		pageSize:  16,
	}
}

// WithNumFrames sets the number of physical frames in the shared pool.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithPageSize sets the page size the manager works with.
func (b Builder) WithPageSize(n uint64) Builder {
	b.pageSize = n
	return b
}

// Build builds the virtual memory manager.
func (b Builder) Build() *Manager {
	if b.numFrames <= 0 {
		panic("number of frames must be positive")
	}

	if b.pageSize == 0 {
		panic("page size must be positive")
	}

	m := &Manager{
		pageSize:   b.pageSize,
		numFrames:  b.numFrames,
		frameTable: make(map[int]frameOwner),
		pageTables: make(map[proc.PID]*pageTable),
	}

	m.freeFrames = make([]int, b.numFrames)
	for i := range m.freeFrames {
		m.freeFrames[i] = i
	}

	return m
}
