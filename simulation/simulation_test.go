package simulation

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/sarchlab/devsim/examples/hourclock"
	"github.com/sarchlab/devsim/examples/sawtooth"
	"github.com/sarchlab/devsim/sim"
)

var _ = Describe("Simulation", func() {
	var (
		dir        string
		simulation *Simulation
		clock      *hourclock.Comp
		stock      *sawtooth.Comp
	)

	build := func(b Builder) {
		simulation = b.
			WithOutputFileName(filepath.Join(dir, "trace")).
			Build()

		clock = hourclock.MakeBuilder().
			WithStartHour(9).
			WithCount(3).
			Build("Clock")
		stock = sawtooth.MakeBuilder().Build("Stock")

		Expect(simulation.RegisterModel(clock)).To(Succeed())
		Expect(simulation.RegisterModel(stock)).To(Succeed())
		Expect(simulation.Connect(clock.Hour, stock.TimeHours)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "devsim_simulation")
		Expect(err).NotTo(HaveOccurred())

		DeferCleanup(func() { os.RemoveAll(dir) })
	})

	AfterEach(func() {
		simulation.Terminate()
	})

	It("should panic if a monitor port is given without monitoring", func() {
		Expect(func() {
			MakeBuilder().WithoutMonitoring().WithMonitorPort(8080).Build()
		}).To(Panic())
		simulation = MakeBuilder().
			WithoutMonitoring().
			WithOutputFileName(filepath.Join(dir, "unused")).
			Build()
	})

	It("should run without recording", func() {
		simulation = MakeBuilder().
			WithoutMonitoring().
			WithoutRecording().
			Build()

		clock := hourclock.MakeBuilder().WithCount(2).Build("Clock")
		Expect(simulation.RegisterModel(clock)).To(Succeed())

		Expect(simulation.Run(sim.Infinity)).To(Succeed())

		Expect(simulation.GetDataRecorder()).To(BeNil())
		Expect(simulation.GetDBTracer()).To(BeNil())
		Expect(simulation.GetStepCounter().NumSteps()).To(Equal(uint64(2)))
		Expect(simulation.Terminate).NotTo(Panic())
	})

	It("should panic if a recorder is configured without recording", func() {
		Expect(func() {
			MakeBuilder().
				WithoutMonitoring().
				WithoutRecording().
				WithOutputFileName(filepath.Join(dir, "unused")).
				Build()
		}).To(Panic())
		simulation = MakeBuilder().
			WithoutMonitoring().
			WithoutRecording().
			Build()
	})

	Context("without monitoring", func() {
		BeforeEach(func() {
			build(MakeBuilder().WithoutMonitoring())
		})

		It("should give each run an ID", func() {
			Expect(simulation.ID()).NotTo(BeEmpty())
			Expect(simulation.GetMonitor()).To(BeNil())
		})

		It("should find models by name", func() {
			Expect(simulation.GetModelByName("Stock")).To(BeIdenticalTo(stock))
			Expect(func() { simulation.GetModelByName("None") }).To(Panic())
		})

		It("should reject duplicated models", func() {
			err := simulation.RegisterModel(
				sawtooth.MakeBuilder().Build("Stock"))

			Expect(err).To(MatchError(sim.ErrDuplicatedModel))
		})

		It("should run the coupled models to quiescence", func() {
			Expect(simulation.GetScheduler().Inject(
				stock.StockPrice.ID(), 0, decimal.RequireFromString("10.00"),
			)).To(Succeed())

			Expect(simulation.Run(sim.Infinity)).To(Succeed())

			state := stock.State().(sawtooth.State)
			Expect(state.Hour.Equal(decimal.NewFromInt(11))).To(BeTrue())
			Expect(state.OutHour.Equal(decimal.NewFromInt(12))).To(BeTrue())
			Expect(state.OutPrice.Equal(decimal.RequireFromString("11.00"))).
				To(BeTrue())
			Expect(stock.TimeAdvance()).To(Equal(sim.Infinity))

			count := simulation.GetStepCounter().GetTransitionCount("Clock")
			Expect(count.Internal).To(Equal(uint64(3)))

			msgs, transitions := simulation.GetDBTracer().NumRecords()
			Expect(msgs).To(BeNumerically(">", 0))
			Expect(transitions).To(BeNumerically(">", 0))
		})

		It("should stop at the horizon", func() {
			Expect(simulation.Run(2)).To(Succeed())

			Expect(simulation.GetScheduler().CurrentTime()).
				To(Equal(sim.VTime(1)))
			Expect(clock.State().(hourclock.State).Emitted).To(Equal(2))
		})

		It("should write the records into the output file", func() {
			Expect(simulation.Run(sim.Infinity)).To(Succeed())

			simulation.Terminate()

			_, err := os.Stat(filepath.Join(dir, "trace.sqlite3"))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("with monitoring", func() {
		BeforeEach(func() {
			build(MakeBuilder())
		})

		It("should remove the progress bar after the run", func() {
			Expect(simulation.GetMonitor()).NotTo(BeNil())

			Expect(simulation.Run(10)).To(Succeed())

			Expect(simulation.GetScheduler().CurrentTime()).
				To(Equal(sim.VTime(2)))
			Expect(simulation.progress.bar).To(BeNil())
		})
	})
})
