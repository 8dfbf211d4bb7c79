package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/devsim/datarecording"
	"github.com/sarchlab/devsim/sim"
	"github.com/sarchlab/devsim/simulation"
)

// recorderNone disables trace recording.
const recorderNone = "none"

// newSimulation builds a simulation from the global flags. The recorder is
// given explicitly so that commands can change the default.
func newSimulation(recorder string) (*simulation.Simulation, error) {
	b := simulation.MakeBuilder().
		WithMaxStepsPerInstant(maxStepsPerInstant)

	if monitorOn {
		if monitorPort != 0 {
			b = b.WithMonitorPort(monitorPort)
		}

		if openBrowser {
			b = b.WithBrowser()
		}
	} else {
		b = b.WithoutMonitoring()
	}

	switch recorder {
	case recorderNone:
		if outputPath != "" {
			return nil, fmt.Errorf("--output cannot be used with --recorder=%s",
				recorderNone)
		}

		b = b.WithoutRecording()
	case datarecording.BackendSQLite:
		if outputPath != "" {
			b = b.WithOutputFileName(outputPath)
		}
	case datarecording.BackendClickHouse:
		b = b.WithRecorderConfig(datarecording.RecorderConfig{
			Type:    datarecording.BackendClickHouse,
			ConnStr: clickHouseDSN,
		})
	default:
		return nil, fmt.Errorf("unknown recorder %q", recorder)
	}

	if otelOn {
		b = b.WithOpenTelemetry(nil)
	}

	s := b.Build()

	scheduler := s.GetScheduler()
	scheduler.AcceptHook(sim.NewMsgLogger(logrus.StandardLogger()))
	scheduler.AcceptHook(sim.NewTransitionLogger(logrus.StandardLogger()))

	return s, nil
}

// outputPrinter writes one line per output produced by a model.
type outputPrinter struct {
	w io.Writer
}

func (p *outputPrinter) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosOutput {
		return
	}

	detail, ok := ctx.Detail.(sim.TransitionDetail)
	if !ok {
		return
	}

	for _, o := range detail.Outputs {
		fmt.Fprintf(p.w, "%s\t%s\t%s\n", o.Time, o.Port, o.Value)
	}
}
