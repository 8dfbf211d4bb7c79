package tracing

import (
	"database/sql"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/sarchlab/devsim/datarecording"
	"github.com/sarchlab/devsim/sim"
)

var _ = Describe("DBTracer", func() {
	var (
		path     string
		recorder datarecording.DataRecorder
		tracer   *DBTracer
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "trace")
		recorder = datarecording.New(path)
		tracer = NewDBTracer(recorder)
	})

	AfterEach(func() {
		recorder.Close()
	})

	count := func(table string) int {
		db, err := sql.Open("sqlite3", path+".sqlite3")
		Expect(err).ToNot(HaveOccurred())
		defer db.Close()

		var n int
		Expect(db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)).
			To(Succeed())

		return n
	}

	It("should create the tables", func() {
		Expect(recorder.ListTables()).
			To(ConsistOf("exec_info", "trace_msgs", "trace_transitions"))
	})

	It("should record messages and transitions", func() {
		tracer.TraceMsg(MsgRecord{
			ID:     "1",
			Time:   3,
			Src:    "Clock.hour",
			Dst:    "Stock.time_hours",
			Value:  decimal.NewFromInt(9),
			Status: MsgRouted,
		})
		tracer.TraceTransition(TransitionRecord{
			Time:        3,
			Model:       "Stock",
			Kind:        TransitionExternal,
			Phase:       sim.Active,
			TimeAdvance: 0,
		})
		tracer.TraceTransition(TransitionRecord{
			Time:        3,
			Model:       "Stock",
			Kind:        TransitionInternal,
			Phase:       sim.Passive,
			TimeAdvance: sim.Infinity,
		})
		tracer.Terminate()

		msgs, transitions := tracer.NumRecords()
		Expect(msgs).To(Equal(uint64(1)))
		Expect(transitions).To(Equal(uint64(2)))
		Expect(count("trace_msgs")).To(Equal(1))
		Expect(count("trace_transitions")).To(Equal(2))
	})

	It("should only record inside the time range", func() {
		tracer.SetTimeRange(5, 10)

		for _, t := range []sim.VTime{4, 5, 9, 10} {
			tracer.TraceTransition(TransitionRecord{Time: t, Model: "Stock"})
		}
		tracer.Terminate()

		_, transitions := tracer.NumRecords()
		Expect(transitions).To(Equal(uint64(2)))
		Expect(count("trace_transitions")).To(Equal(2))
	})
})
