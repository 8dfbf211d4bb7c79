// Package monitoring turns a running simulation into an HTTP server that
// can be queried and controlled.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
	"github.com/syifan/goseth"

	"github.com/sarchlab/devsim/sim"
	"github.com/sarchlab/devsim/tracing"
)

// Scheduler is the part of the scheduler that the monitor needs.
type Scheduler interface {
	sim.Engine

	Observe(name string, f func(m sim.AtomicModel)) bool
	NextEventTime(name string) (sim.VTime, bool)
	LastEventTime(name string) (sim.VTime, bool)
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	scheduler   Scheduler
	stepCounter *tracing.StepCountTracer
	portNumber  int
	openBrowser bool

	server   *http.Server
	listener net.Listener

	runLock sync.Mutex
	running bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		logrus.Warnf("Port number %d is assigned to the monitoring server, "+
			"which is not allowed. Using a random port instead.", portNumber)

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes the monitor open the server address in a browser when
// the server starts.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterScheduler registers the scheduler that is used in the simulation.
func (m *Monitor) RegisterScheduler(s Scheduler) {
	m.scheduler = s
}

// RegisterStepCounter registers a tracer that counts the transitions of the
// models.
func (m *Monitor) RegisterStepCounter(t *tracing.StepCountTracer) {
	m.stepCounter = t
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseScheduler)
	r.HandleFunc("/api/continue", m.continueScheduler)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/step", m.step)
	r.HandleFunc("/api/list_models", m.listModels)
	r.HandleFunc("/api/model/{name}", m.modelDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/transitions", m.listTransitions)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server and returns the address it
// listens on.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = fmt.Sprintf(":%d", m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			dieOnErr(err)
		}
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			logrus.WithError(err).Warn("cannot open browser")
		}
	}

	return listener.Addr().String()
}

// StopServer shuts the server down.
func (m *Monitor) StopServer() {
	if m.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := m.server.Shutdown(ctx)
	if err != nil {
		logrus.WithError(err).Warn("cannot stop monitoring server")
	}

	m.server = nil
}

func (m *Monitor) pauseScheduler(w http.ResponseWriter, _ *http.Request) {
	m.scheduler.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueScheduler(w http.ResponseWriter, _ *http.Request) {
	m.scheduler.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.scheduler.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%d}", uint64(now))
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	m.runLock.Lock()
	defer m.runLock.Unlock()

	if m.running {
		w.WriteHeader(http.StatusConflict)
		return
	}

	m.running = true

	go func() {
		err := m.scheduler.Run()
		if err != nil {
			logrus.WithError(err).Error("simulation stopped")
		}

		m.runLock.Lock()
		m.running = false
		m.runLock.Unlock()
	}()

	w.WriteHeader(http.StatusAccepted)
}

type stepRsp struct {
	Progressed bool   `json:"progressed"`
	Now        uint64 `json:"now"`
	Error      string `json:"error,omitempty"`
}

func (m *Monitor) step(w http.ResponseWriter, _ *http.Request) {
	progressed, err := m.scheduler.Step()

	rsp := stepRsp{
		Progressed: progressed,
		Now:        uint64(m.scheduler.CurrentTime()),
	}

	if err != nil {
		rsp.Error = err.Error()
		w.WriteHeader(http.StatusInternalServerError)
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listModels(w http.ResponseWriter, _ *http.Request) {
	names := []string{}
	for _, model := range m.scheduler.Models() {
		names = append(names, model.Name())
	}

	writeJSON(w, names)
}

type modelRsp struct {
	Name        string `json:"name"`
	Phase       string `json:"phase"`
	TimeAdvance string `json:"time_advance"`
	LastEvent   string `json:"last_event"`
	NextEvent   string `json:"next_event"`
	State       any    `json:"state,omitempty"`
}

func (m *Monitor) modelDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rsp := modelRsp{Name: name}

	found := m.scheduler.Observe(name, func(model sim.AtomicModel) {
		rsp.Phase = model.Phase().String()
		rsp.TimeAdvance = model.TimeAdvance().String()

		if reporter, ok := model.(sim.StateReporter); ok {
			rsp.State = reporter.State()
		}
	})
	if !found {
		modelNotFound(w)
		return
	}

	tL, _ := m.scheduler.LastEventTime(name)
	tN, _ := m.scheduler.NextEventTime(name)
	rsp.LastEvent = tL.String()
	rsp.NextEvent = tN.String()

	writeJSON(w, rsp)
}

type fieldReq struct {
	ModelName string `json:"model_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	buf := bytes.NewBuffer(nil)

	found := m.scheduler.Observe(req.ModelName, func(model sim.AtomicModel) {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(model)
		serializer.SetMaxDepth(1)

		if req.FieldName != "" {
			err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
			if err != nil {
				return
			}
		}

		err = serializer.Serialize(buf)
	})
	if !found {
		modelNotFound(w)
		return
	}

	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	_, err = w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) listTransitions(w http.ResponseWriter, _ *http.Request) {
	if m.stepCounter == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	counts := make(map[string]tracing.TransitionCount)
	for _, name := range m.stepCounter.GetModelNames() {
		counts[name] = m.stepCounter.GetTransitionCount(name)
	}

	writeJSON(w, struct {
		Steps   uint64                             `json:"steps"`
		Dropped uint64                             `json:"dropped"`
		Models  map[string]tracing.TransitionCount `json:"models"`
	}{
		Steps:   m.stepCounter.NumSteps(),
		Dropped: m.stepCounter.NumDropped(),
		Models:  counts,
	})
}

func modelNotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Model not found"))
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		logrus.Panic(err)
	}
}
