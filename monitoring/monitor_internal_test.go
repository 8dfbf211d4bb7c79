package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/devsim/examples/hourclock"
	"github.com/sarchlab/devsim/sim"
	"github.com/sarchlab/devsim/tracing"
)

var _ = Describe("Monitor", func() {
	var (
		scheduler *sim.Scheduler
		counter   *tracing.StepCountTracer
		monitor   *Monitor
	)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		monitor.router().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		scheduler = sim.NewScheduler(nil)
		clock := hourclock.MakeBuilder().
			WithPeriod(2).
			WithCount(3).
			Build("Clock")
		Expect(scheduler.Register(clock)).To(Succeed())

		counter = tracing.NewStepCountTracer()
		tracing.CollectTrace(scheduler, counter)

		monitor = NewMonitor()
		monitor.RegisterScheduler(scheduler)
		monitor.RegisterStepCounter(counter)
	})

	It("should list models", func() {
		rec := get("/api/list_models")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`["Clock"]`))
	})

	It("should report the current time", func() {
		rec := get("/api/now")

		Expect(rec.Body.String()).To(MatchJSON(`{"now":0}`))
	})

	It("should step the simulation", func() {
		rec := get("/api/step")

		rsp := stepRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Progressed).To(BeTrue())
		Expect(rsp.Now).To(Equal(uint64(0)))
		Expect(rsp.Error).To(BeEmpty())

		rec = get("/api/step")
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Now).To(Equal(uint64(2)))
	})

	It("should describe a model", func() {
		get("/api/step")

		rec := get("/api/model/Clock")

		rsp := modelRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Name).To(Equal("Clock"))
		Expect(rsp.LastEvent).To(Equal("0"))
		Expect(rsp.NextEvent).To(Equal("2"))
		Expect(rsp.TimeAdvance).To(Equal("2"))
		Expect(rsp.State).NotTo(BeNil())
	})

	It("should describe a model while the simulation runs", func() {
		long := hourclock.MakeBuilder().WithCount(2000).Build("Long")
		Expect(scheduler.Register(long)).To(Succeed())

		rec := get("/api/run")
		Expect(rec.Code).To(Equal(http.StatusAccepted))

		for i := 0; i < 50; i++ {
			rec = get("/api/model/Long")
			Expect(rec.Code).To(Equal(http.StatusOK))

			rsp := modelRsp{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
			Expect(rsp.Name).To(Equal("Long"))
		}

		rec = get("/api/field/" + url.PathEscape(`{"model_name":"Long"}`))
		Expect(rec.Code).To(Equal(http.StatusOK))

		Eventually(scheduler.CurrentTime).Should(Equal(sim.VTime(1999)))
	})

	It("should return 404 for unknown models", func() {
		rec := get("/api/model/Nobody")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should return 404 for fields of unknown models", func() {
		rec := get("/api/field/" + url.PathEscape(`{"model_name":"Nobody"}`))

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject malformed field requests", func() {
		rec := get("/api/field/" + url.PathEscape("{not json"))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should count transitions", func() {
		Expect(scheduler.Run()).To(Succeed())

		rec := get("/api/transitions")

		rsp := struct {
			Steps  uint64                             `json:"steps"`
			Models map[string]tracing.TransitionCount `json:"models"`
		}{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Steps).To(Equal(uint64(3)))
		Expect(rsp.Models).To(HaveKey("Clock"))
		Expect(rsp.Models["Clock"].Internal).To(Equal(uint64(3)))
	})

	It("should show progress bars until they complete", func() {
		bar := monitor.CreateProgressBar("Simulated time", 10)
		bar.IncrementInProgress(4)
		bar.MoveInProgressToFinished(3)

		rec := get("/api/progress")

		bars := []ProgressBar{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].ID).To(Equal(bar.ID))
		Expect(bars[0].Finished).To(Equal(uint64(3)))
		Expect(bars[0].InProgress).To(Equal(uint64(1)))

		monitor.CompleteProgressBar(bar)

		rec = get("/api/progress")
		Expect(rec.Body.String()).To(MatchJSON(`[]`))
	})

	It("should refuse privileged port numbers", func() {
		monitor.WithPortNumber(80)

		Expect(monitor.portNumber).To(Equal(0))
	})

	It("should serve on a random port", func() {
		addr := monitor.StartServer()
		defer monitor.StopServer()

		rsp, err := http.Get("http://" + addr + "/api/now")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
	})
})
