package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/devsim/config"
	"github.com/sarchlab/devsim/sim"
)

// runCmd runs a simulation described by a scenario file.
var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run the simulation described by a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := config.LoadScenario(args[0])
		if err != nil {
			return err
		}

		s, err := newSimulation(recorderType)
		if err != nil {
			return err
		}
		defer s.Terminate()

		out := cmd.OutOrStdout()
		s.GetScheduler().AcceptHook(&outputPrinter{w: out})

		models, err := config.Build(scenario, s)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"run":     s.ID(),
			"models":  len(models),
			"horizon": scenario.HorizonTime(),
		}).Info("starting simulation")

		if err := s.Run(scenario.HorizonTime()); err != nil {
			return err
		}

		logrus.WithField("now", s.GetScheduler().CurrentTime()).
			Info("simulation complete")

		return printStates(out, models)
	},
}

// printStates writes the final state of every model that reports one.
func printStates(w io.Writer, models []sim.AtomicModel) error {
	for _, m := range models {
		reporter, ok := m.(sim.StateReporter)
		if !ok {
			continue
		}

		data, err := json.Marshal(reporter.State())
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\t%s\n", m.Name(), data)
	}

	return nil
}
