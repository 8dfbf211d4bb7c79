package simulation

import (
	"context"

	"github.com/rs/xid"
	"go.opentelemetry.io/otel/trace"

	"github.com/sarchlab/devsim/datarecording"
	"github.com/sarchlab/devsim/monitoring"
	"github.com/sarchlab/devsim/sim"
	"github.com/sarchlab/devsim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn          bool
	recordingOn        bool
	monitorPort        int
	openBrowser        bool
	outputFileName     string
	recorderConfig     *datarecording.RecorderConfig
	otelOn             bool
	otelTracer         trace.Tracer
	maxStepsPerInstant int
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:          true,
		recordingOn:        true,
		maxStepsPerInstant: sim.DefaultMaxStepsPerInstant,
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithoutRecording sets the simulation to not write traces into a database.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithRecorderConfig replaces the default SQLite recorder with the given
// backend configuration.
func (b Builder) WithRecorderConfig(cfg datarecording.RecorderConfig) Builder {
	b.recorderConfig = &cfg
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page once the server starts.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithOpenTelemetry exports the steps and transitions as spans. A nil tracer
// uses the globally registered tracer provider.
func (b Builder) WithOpenTelemetry(tracer trace.Tracer) Builder {
	b.otelOn = true
	b.otelTracer = tracer

	return b
}

// WithMaxStepsPerInstant sets the livelock guard of the scheduler.
func (b Builder) WithMaxStepsPerInstant(n int) Builder {
	b.maxStepsPerInstant = n
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}

	if !b.recordingOn && (b.recorderConfig != nil || b.outputFileName != "") {
		panic("recorder cannot be configured when recording is disabled")
	}

	if b.recorderConfig != nil && b.outputFileName != "" {
		panic("output file name and recorder config are exclusive")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{}
	s.id = xid.New().String()

	s.coupling = sim.NewStaticCoupling()
	s.scheduler = sim.NewScheduler(s.coupling).
		WithMaxStepsPerInstant(b.maxStepsPerInstant)

	if b.recordingOn {
		b.buildRecording(s)
	}

	s.stepCounter = tracing.NewStepCountTracer()
	tracing.CollectTrace(s.scheduler, s.stepCounter)

	if b.otelOn {
		otelTracer := tracing.NewOTelTracer(context.Background(), b.otelTracer)
		tracing.CollectTrace(s.scheduler, otelTracer)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		if b.openBrowser {
			s.monitor.WithBrowser()
		}

		s.monitor.RegisterScheduler(s.scheduler)
		s.monitor.RegisterStepCounter(s.stepCounter)
		s.monitor.StartServer()

		s.progress = &progressHook{}
		s.scheduler.AcceptHook(s.progress)
	}

	return s
}

func (b Builder) buildRecording(s *Simulation) {
	cfg := datarecording.RecorderConfig{Path: b.outputFileName}
	if b.recorderConfig != nil {
		cfg = *b.recorderConfig
	}

	if cfg.Type == "" && cfg.Path == "" {
		cfg.Path = "devsim_" + s.id
	}

	s.dataRecorder = datarecording.NewWithConfig(cfg)

	s.dbTracer = tracing.NewDBTracer(s.dataRecorder)
	tracing.CollectTrace(s.scheduler, s.dbTracer)
}
