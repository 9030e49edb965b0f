package kernel

import (
	"math/rand"
	"time"

	"github.com/rs/xid"

	"github.com/minoslab/minos/device"
	"github.com/minoslab/minos/eventlog"
	"github.com/minoslab/minos/hooking"
	"github.com/minoslab/minos/memalloc"
	"github.com/minoslab/minos/proc"
	"github.com/minoslab/minos/sched"
	"github.com/minoslab/minos/vm"
	"github.com/minoslab/minos/vm/tlb"
)

// A Builder can build kernels.
type Builder struct {
	totalMemory uint64
	quantum     int
	policy      sched.Policy
	numFrames   int
	pageSize    uint64
	tlbCapacity int
	seed        int64
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		totalMemory: 1024,
		quantum:     2,
		policy:      sched.PolicyRR,
		numFrames:   64,
		pageSize:    16,
		tlbCapacity: 8,
	}
}

// WithTotalMemory sets the physical memory capacity.
func (b Builder) WithTotalMemory(n uint64) Builder {
	b.totalMemory = n
	return b
}

// WithQuantum sets the CPU time credited per dispatch.
func (b Builder) WithQuantum(n int) Builder {
	b.quantum = n
	return b
}

// WithPolicy sets the initial scheduling policy.
func (b Builder) WithPolicy(policy sched.Policy) Builder {
	b.policy = policy
	return b
}

// WithNumFrames sets the number of frames in the shared pool.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithPageSize sets the page size.
func (b Builder) WithPageSize(n uint64) Builder {
	b.pageSize = n
	return b
}

// WithTLBCapacity sets the number of entries the TLB can hold.
func (b Builder) WithTLBCapacity(n int) Builder {
	b.tlbCapacity = n
	return b
}

// WithRandSeed fixes the seed of the kernel's random source, making the
// page selection and I/O decisions of the cycles deterministic.
func (b Builder) WithRandSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// Build builds the kernel and wires all the components together.
func (b Builder) Build() *Kernel {
	if b.totalMemory == 0 {
		panic("total memory must be positive")
	}

	seed := b.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	k := &Kernel{
		HookableBase: *hooking.NewHookableBase(),
		id:           xid.New().String(),
		startTime:    time.Now(),
		rand:         rand.New(rand.NewSource(seed)),
		allocator:    memalloc.New(b.totalMemory),
		devices:      device.NewRegistry(),
		timeline:     eventlog.NewTimeline(),
		pidGen:       proc.NewPIDGenerator(),
		archive:      make(map[proc.PID]*proc.Process),
	}

	k.vm = vm.MakeBuilder().
		WithNumFrames(b.numFrames).
		WithPageSize(b.pageSize).
		Build()

	k.tlb = tlb.MakeBuilder().
		WithCapacity(b.tlbCapacity).
		Build()

	k.scheduler = sched.MakeBuilder().
		WithQuantum(b.quantum).
		WithPolicy(b.policy).
		Build()

	return k
}
