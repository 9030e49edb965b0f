package tlb

import (
	"go.uber.org/mock/gomock"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/minoslab/minos/proc"
	"github.com/minoslab/minos/vm/tlb/internal"
)

var _ = ginkgo.Describe("TLB", func() {
	var (
		mockCtrl *gomock.Controller
		set      *MockSet
		t        *TLB
	)

	ginkgo.BeforeEach(func() {
		mockCtrl = gomock.NewController(ginkgo.GinkgoT())
		set = NewMockSet(mockCtrl)
		t = &TLB{capacity: 3, set: set}
	})

	ginkgo.It("should visit the entry and count a hit on a cached translation",
		func() {
			set.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(true)
			set.EXPECT().Visit(gomock.Any(), gomock.Any())

			result := t.Access(1, 0)

			Expect(result.Hit).To(BeTrue())
			Expect(t.hits).To(Equal(uint64(1)))
			Expect(t.misses).To(Equal(uint64(0)))
		})

	ginkgo.It("should insert the entry and count a miss on an uncached translation",
		func() {
			set.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(false)
			set.EXPECT().Add(gomock.Any(), gomock.Any())
			set.EXPECT().Len().Return(1)

			result := t.Access(1, 0)

			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeNil())
			Expect(t.misses).To(Equal(uint64(1)))
		})

	ginkgo.It("should evict the LRU entry when over capacity", func() {
		set.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(false)
		set.EXPECT().Add(gomock.Any(), gomock.Any())
		set.EXPECT().Len().Return(4)
		set.EXPECT().Evict().Return(internal.Key{PID: 1, Page: 0}, true)
		set.EXPECT().Len().Return(3)

		result := t.Access(4, 0)

		Expect(result.Hit).To(BeFalse())
		Expect(result.Evicted).ToNot(BeNil())
		Expect(result.Evicted.PID).To(Equal(proc.PID(1)))
		Expect(result.Evicted.Page).To(Equal(0))
	})
})

var _ = ginkgo.Describe("TLB with a real set", func() {
	var t *TLB

	ginkgo.BeforeEach(func() {
		t = MakeBuilder().WithCapacity(3).Build()
	})

	ginkgo.It("should evict the least-recently-touched entry first", func() {
		t.Access(1, 0)
		t.Access(2, 1)
		t.Access(3, 2)

		result := t.Access(4, 0)

		Expect(result.Evicted).ToNot(BeNil())
		Expect(*result.Evicted).To(Equal(Entry{PID: 1, Page: 0}))

		result = t.Access(1, 0)
		Expect(result.Hit).To(BeFalse(), "the evicted entry misses")
	})

	ginkgo.It("should keep re-touched entries resident", func() {
		t.Access(1, 0)
		t.Access(2, 1)
		t.Access(3, 2)
		t.Access(1, 0)

		result := t.Access(4, 0)

		Expect(*result.Evicted).To(Equal(Entry{PID: 2, Page: 1}))

		result = t.Access(1, 0)
		Expect(result.Hit).To(BeTrue())
	})

	ginkgo.It("should report entries from LRU to MRU", func() {
		t.Access(1, 0)
		t.Access(2, 1)
		t.Access(1, 0)

		status := t.Status()

		Expect(status.Entries).To(Equal([]Entry{
			{PID: 2, Page: 1},
			{PID: 1, Page: 0},
		}))
		Expect(status.Size).To(Equal(2))
		Expect(status.Hits).To(Equal(uint64(1)))
		Expect(status.Misses).To(Equal(uint64(2)))
	})

	ginkgo.It("should shrink by evicting LRU entries immediately", func() {
		t.Access(1, 0)
		t.Access(2, 1)
		t.Access(3, 2)

		evicted := t.SetCapacity(1)

		Expect(evicted).To(Equal([]Entry{
			{PID: 1, Page: 0},
			{PID: 2, Page: 1},
		}))
		Expect(t.Status().Size).To(Equal(1))
	})

	ginkgo.It("should clamp the capacity to at least 1", func() {
		t.SetCapacity(0)

		Expect(t.Status().Capacity).To(Equal(1))
	})

	ginkgo.It("should flush a process's entries on invalidation", func() {
		t.Access(1, 0)
		t.Access(1, 1)
		t.Access(2, 0)

		removed := t.Invalidate(1)

		Expect(removed).To(Equal(2))
		Expect(t.Status().Entries).To(Equal([]Entry{{PID: 2, Page: 0}}))
		Expect(t.Status().Misses).To(Equal(uint64(3)),
			"invalidation does not touch the counters")
	})

	ginkgo.It("should clear entries and counters on reset", func() {
		t.Access(1, 0)
		t.Access(1, 0)

		t.Reset()

		status := t.Status()
		Expect(status.Size).To(Equal(0))
		Expect(status.Hits).To(Equal(uint64(0)))
		Expect(status.Misses).To(Equal(uint64(0)))
	})
})

var _ = ginkgo.Describe("Builder", func() {
	ginkgo.It("should panic on a capacity below 1", func() {
		Expect(func() {
			MakeBuilder().WithCapacity(0).Build()
		}).To(Panic())
	})
})
