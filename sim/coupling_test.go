package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StaticCoupling", func() {
	var (
		a, b, c  *ModelBase
		coupling *StaticCoupling
	)

	BeforeEach(func() {
		a = NewModelBase("A")
		b = NewModelBase("B")
		c = NewModelBase("C")
		coupling = NewStaticCoupling()
	})

	It("should return destinations in connection order", func() {
		out := a.AddOutputPort("out")
		bIn := b.AddInputPort("in")
		cIn := c.AddInputPort("in")

		Expect(coupling.Connect(out, cIn)).To(Succeed())
		Expect(coupling.Connect(out, bIn)).To(Succeed())

		Expect(coupling.Destinations(out.ID())).
			To(Equal([]PortID{"C.in", "B.in"}))
		Expect(coupling.Sources()).To(Equal([]PortID{"A.out"}))
	})

	It("should return nothing for unconnected ports", func() {
		Expect(coupling.Destinations("A.out")).To(BeEmpty())
	})

	It("should reject an input as source", func() {
		in := a.AddInputPort("in")
		bIn := b.AddInputPort("in")
		Expect(coupling.Connect(in, bIn)).To(MatchError(ErrInvalidCoupling))
	})

	It("should reject an output as destination", func() {
		out := a.AddOutputPort("out")
		bOut := b.AddOutputPort("out")
		Expect(coupling.Connect(out, bOut)).To(MatchError(ErrInvalidCoupling))
	})

	It("should reject coupling a model to itself", func() {
		out := a.AddOutputPort("out")
		in := a.AddInputPort("in")
		Expect(coupling.Connect(out, in)).To(MatchError(ErrInvalidCoupling))
	})

	It("should reject duplicated edges", func() {
		out := a.AddOutputPort("out")
		in := b.AddInputPort("in")
		Expect(coupling.Connect(out, in)).To(Succeed())
		Expect(coupling.Connect(out, in)).To(MatchError(ErrInvalidCoupling))
	})
})
