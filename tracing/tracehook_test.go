package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/devsim/examples/sawtooth"
	"github.com/sarchlab/devsim/sim"
)

var _ = Describe("CollectTrace", func() {
	var (
		mockCtrl  *gomock.Controller
		tracer    *MockTracer
		scheduler *sim.Scheduler
		stock     *sawtooth.Comp
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tracer = NewMockTracer(mockCtrl)
		scheduler = sim.NewScheduler(nil)
		stock = sawtooth.MakeBuilder().Build("Stock")
		Expect(scheduler.Register(stock)).To(Succeed())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should panic if the tracer is attached twice", func() {
		CollectTrace(scheduler, tracer)
		Expect(func() { CollectTrace(scheduler, tracer) }).To(Panic())
	})

	It("should convert hooks into records", func() {
		CollectTrace(scheduler, tracer)

		var (
			msgs        []MsgRecord
			transitions []TransitionRecord
		)

		tracer.EXPECT().TraceMsg(gomock.Any()).
			Do(func(m MsgRecord) { msgs = append(msgs, m) }).
			AnyTimes()
		tracer.EXPECT().TraceTransition(gomock.Any()).
			Do(func(tr TransitionRecord) { transitions = append(transitions, tr) }).
			AnyTimes()
		tracer.EXPECT().StartStep(sim.Zero)
		tracer.EXPECT().EndStep(sim.Zero)

		price := decimal.RequireFromString("10.00")
		Expect(scheduler.Inject(stock.StockPrice.ID(), 0, price)).To(Succeed())
		Expect(scheduler.Inject("Stock.volume", 0, price)).ToNot(Succeed())
		Expect(scheduler.Run()).To(Succeed())

		statuses := make([]MsgStatus, 0, len(msgs))
		for _, m := range msgs {
			statuses = append(statuses, m.Status)
		}

		Expect(statuses).To(Equal([]MsgStatus{
			MsgInjected, MsgRouted, MsgDropped, MsgEmitted, MsgEmitted,
		}))
		Expect(msgs[1].Dst).To(Equal(stock.StockPrice.ID()))
		Expect(msgs[2].Dst).To(Equal(sim.PortID("Stock.volume")))
		Expect(msgs[4].Src).To(Equal(stock.NewStockPrice.ID()))
		Expect(msgs[4].Value.StringFixed(2)).To(Equal("11.00"))

		Expect(transitions).To(HaveLen(3))
		Expect(transitions[0].Kind).To(Equal(TransitionExternal))
		Expect(transitions[0].Phase).To(Equal(sim.Active))
		Expect(transitions[1].Kind).To(Equal(TransitionOutput))
		Expect(transitions[1].NumOutputs).To(Equal(2))
		Expect(transitions[2].Kind).To(Equal(TransitionInternal))
		Expect(transitions[2].TimeAdvance).To(Equal(sim.Infinity))
	})
})
