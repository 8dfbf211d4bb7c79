package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Port", func() {
	var base *ModelBase

	BeforeEach(func() {
		base = NewModelBase("Market.Stock")
	})

	It("should create ports", func() {
		in := base.AddInputPort("price")
		out := base.AddOutputPort("new_price")

		Expect(in.Owner()).To(Equal("Market.Stock"))
		Expect(in.Name()).To(Equal("price"))
		Expect(in.Direction()).To(Equal(DirInput))
		Expect(out.Direction()).To(Equal(DirOutput))
		Expect(in.Direction().String()).To(Equal("in"))
		Expect(out.Direction().String()).To(Equal("out"))
		Expect(in.ID()).To(Equal(PortID("Market.Stock.price")))
		Expect(base.InputPorts()).To(Equal([]Port{in}))
		Expect(base.OutputPorts()).To(Equal([]Port{out}))
		Expect(base.IsInput(in)).To(BeTrue())
		Expect(base.IsInput(out)).To(BeFalse())
	})

	It("should panic on duplicated port names", func() {
		base.AddInputPort("price")
		Expect(func() { base.AddOutputPort("price") }).To(Panic())
	})

	It("should panic on empty port names", func() {
		Expect(func() { base.AddInputPort("") }).To(Panic())
	})

	It("should compare ports by value", func() {
		in := base.AddInputPort("price")
		Expect(in == Port{owner: "Market.Stock", name: "price", dir: DirInput}).
			To(BeTrue())
		Expect(in.IsZero()).To(BeFalse())
		Expect(Port{}.IsZero()).To(BeTrue())
	})

	It("should split port ids at the last dot", func() {
		model, port, err := PortID("Market.Stock.price").Split()
		Expect(err).ToNot(HaveOccurred())
		Expect(model).To(Equal("Market.Stock"))
		Expect(port).To(Equal("price"))
	})

	It("should reject malformed port ids", func() {
		for _, id := range []PortID{"Stock", ".price", "Stock."} {
			_, _, err := id.Split()
			Expect(err).To(MatchError(ErrInvalidPortID))
		}
	})
})

var _ = Describe("ModelBase", func() {
	It("should start undefined and waiting forever", func() {
		base := NewModelBase("Stock")
		Expect(base.Phase()).To(Equal(PhaseUndefined))
		Expect(base.TimeAdvance()).To(Equal(Infinity))
	})

	It("should hold in a phase", func() {
		base := NewModelBase("Stock")
		base.HoldIn(Active, 3)
		Expect(base.Phase()).To(Equal(Active))
		Expect(base.TimeAdvance()).To(Equal(VTime(3)))

		base.Passivate()
		Expect(base.Phase()).To(Equal(Passive))
		Expect(base.TimeAdvance()).To(Equal(Infinity))
	})

	It("should keep the deadline when elapsing", func() {
		base := NewModelBase("Stock")
		base.HoldIn(Active, 5)
		base.Elapse(2)
		Expect(base.TimeAdvance()).To(Equal(VTime(3)))

		base.Passivate()
		base.Elapse(2)
		Expect(base.TimeAdvance()).To(Equal(Infinity))
	})
})
