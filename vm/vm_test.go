package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/minoslab/minos/proc"
)

var _ = Describe("Manager", func() {
	var m *Manager

	BeforeEach(func() {
		m = MakeBuilder().
			WithNumFrames(4).
			WithPageSize(16).
			Build()
	})

	Context("when creating spaces", func() {
		It("should round the page count up", func() {
			Expect(m.CreateSpace(1, 256)).To(Equal(16))
			Expect(m.CreateSpace(2, 100)).To(Equal(7))
		})

		It("should give every space at least one page", func() {
			Expect(m.CreateSpace(1, 0)).To(Equal(1))
		})
	})

	Context("when accessing pages", func() {
		BeforeEach(func() {
			m.CreateSpace(1, 100)
		})

		It("should reject processes without a space", func() {
			_, err := m.AccessPage(2, 0)

			Expect(err).To(MatchError(ErrUnknownProcess))
		})

		It("should reject pages beyond the space", func() {
			_, err := m.AccessPage(1, 7)

			Expect(err).To(MatchError(ErrPageOutOfRange))
		})

		It("should fault on the first access and hit afterwards", func() {
			access, err := m.AccessPage(1, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(access.Fault).To(BeTrue())

			access, err = m.AccessPage(1, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(access.Fault).To(BeFalse())
			Expect(m.Status().PageFaults).To(Equal(uint64(1)))
		})

		It("should count faults per process and globally", func() {
			m.CreateSpace(2, 100)

			m.AccessPage(1, 0)
			m.AccessPage(1, 1)
			m.AccessPage(2, 0)
			m.AccessPage(1, 0)

			faults, found := m.Faults(1)
			Expect(found).To(BeTrue())
			Expect(faults).To(Equal(uint64(2)))

			faults, _ = m.Faults(2)
			Expect(faults).To(Equal(uint64(1)))
			Expect(m.Status().PageFaults).To(Equal(uint64(3)))
		})

		It("should conserve frames", func() {
			m.AccessPage(1, 0)
			m.AccessPage(1, 1)

			status := m.Status()

			Expect(status.FramesUsed + status.FramesFree).
				To(Equal(status.FramesTotal))
			Expect(status.FramesUsed).To(Equal(2))
		})
	})

	Context("when the frame pool is exhausted", func() {
		BeforeEach(func() {
			m.CreateSpace(1, 100)
		})

		It("should evict the least recently used frame", func() {
			for page := 0; page < 4; page++ {
				m.AccessPage(1, page)
			}

			access, err := m.AccessPage(1, 4)

			Expect(err).ToNot(HaveOccurred())
			Expect(access.Fault).To(BeTrue())
			Expect(access.Evicted).ToNot(BeNil())
			Expect(access.Evicted.PID).To(Equal(proc.PID(1)))
			Expect(access.Evicted.Page).To(Equal(0))
		})

		It("should honor recency over insertion order", func() {
			for page := 0; page < 4; page++ {
				m.AccessPage(1, page)
			}
			m.AccessPage(1, 0)

			access, _ := m.AccessPage(1, 4)

			Expect(access.Evicted.Page).To(Equal(1))
		})

		It("should evict across processes", func() {
			m.CreateSpace(2, 100)

			m.AccessPage(1, 0)
			m.AccessPage(2, 0)
			m.AccessPage(2, 1)
			m.AccessPage(2, 2)

			access, _ := m.AccessPage(2, 3)

			Expect(access.Evicted.PID).To(Equal(proc.PID(1)))

			// The evicted page faults again on its next access.
			access, err := m.AccessPage(1, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(access.Fault).To(BeTrue())
		})
	})

	Context("when releasing spaces", func() {
		It("should return all frames of the process", func() {
			m.CreateSpace(1, 100)
			m.AccessPage(1, 0)
			m.AccessPage(1, 1)

			m.ReleaseSpace(1)

			status := m.Status()
			Expect(status.FramesFree).To(Equal(4))

			_, found := m.PageCount(1)
			Expect(found).To(BeFalse())
		})

		It("should keep released frames out of the eviction order", func() {
			m.CreateSpace(1, 100)
			m.CreateSpace(2, 100)
			for page := 0; page < 4; page++ {
				m.AccessPage(1, page)
			}

			m.ReleaseSpace(1)

			for page := 0; page < 4; page++ {
				access, err := m.AccessPage(2, page)
				Expect(err).ToNot(HaveOccurred())
				Expect(access.Evicted).To(BeNil())
			}
		})

		It("should ignore unknown processes", func() {
			Expect(func() { m.ReleaseSpace(42) }).ToNot(Panic())
		})
	})
})

var _ = Describe("Builder", func() {
	It("should panic on a non-positive frame count", func() {
		Expect(func() {
			MakeBuilder().WithNumFrames(0).Build()
		}).To(Panic())
	})

	It("should panic on a zero page size", func() {
		Expect(func() {
			MakeBuilder().WithPageSize(0).Build()
		}).To(Panic())
	})
})
