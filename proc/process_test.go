package proc

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Process", func() {
	var p *Process

	BeforeEach(func() {
		p = New(1, "demo", DefaultPriority, 100)
	})

	It("should start in the NEW state", func() {
		Expect(p.State).To(Equal(StateNew))
		Expect(p.Transitions).To(BeEmpty())
	})

	It("should generate interleaved burst profiles", func() {
		Expect(len(p.CPUBursts)).To(And(
			BeNumerically(">=", 2),
			BeNumerically("<=", 4)))
		Expect(p.IOBursts).To(HaveLen(len(p.CPUBursts) - 1))

		for _, b := range p.CPUBursts {
			Expect(b).To(And(
				BeNumerically(">=", 2),
				BeNumerically("<=", 6)))
		}
		for _, b := range p.IOBursts {
			Expect(b).To(And(
				BeNumerically(">=", 1),
				BeNumerically("<=", 3)))
		}
	})

	It("should record transitions in order", func() {
		p.SetState(StateReady, "admitted")
		p.SetState(StateRunning, "dispatched")
		p.SetState(StateReady, "quantum expired")

		Expect(p.State).To(Equal(StateReady))
		Expect(p.Transitions).To(HaveLen(3))
		Expect(p.Transitions[0].State).To(Equal(StateReady))
		Expect(p.Transitions[1].State).To(Equal(StateRunning))
		Expect(p.Transitions[1].Note).To(Equal("dispatched"))
		Expect(p.Transitions[2].State).To(Equal(StateReady))
	})

	It("should not reject any transition", func() {
		p.SetState(StateTerminated, "killed")
		p.SetState(StateRunning, "permissive machine")

		Expect(p.State).To(Equal(StateRunning))
		Expect(p.Transitions).To(HaveLen(2))
	})

	It("should report the head CPU burst", func() {
		p.CPUBursts = []int{4, 2}

		burst, ok := p.HeadCPUBurst()

		Expect(ok).To(BeTrue())
		Expect(burst).To(Equal(4))
	})

	It("should report the absence of CPU bursts", func() {
		p.CPUBursts = nil

		_, ok := p.HeadCPUBurst()

		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("PIDGenerator", func() {
	It("should generate increasing PIDs starting from 1", func() {
		g := NewPIDGenerator()

		Expect(g.Generate()).To(Equal(PID(1)))
		Expect(g.Generate()).To(Equal(PID(2)))
		Expect(g.Generate()).To(Equal(PID(3)))
	})

	It("should not share state between generators", func() {
		g1 := NewPIDGenerator()
		g2 := NewPIDGenerator()

		g1.Generate()

		Expect(g2.Generate()).To(Equal(PID(1)))
	})
})
