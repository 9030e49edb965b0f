package tlb

import (
	"github.com/minoslab/minos/vm/tlb/internal"
)

// A Builder can build TLBs.
type Builder struct {
	capacity int
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		capacity: 8,
	}
}

// WithCapacity sets the number of translations the TLB can hold.
func (b Builder) WithCapacity(n int) Builder {
	b.capacity = n
	return b
}

// Build builds the TLB.
func (b Builder) Build() *TLB {
	if b.capacity < 1 {
		panic("TLB capacity must be at least 1")
	}

	return &TLB{
		capacity: b.capacity,
		set:      internal.NewSet(),
	}
}
