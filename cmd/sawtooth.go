package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sarchlab/devsim/examples/sawtooth"
	"github.com/sarchlab/devsim/sim"
)

var (
	sawtoothHour  string
	sawtoothPrice string
)

// sawtoothCmd feeds one hour and one price to a Sawtooth model at time 0. It
// records a trace only if --recorder or --output is given.
var sawtoothCmd = &cobra.Command{
	Use:   "sawtooth",
	Short: "Feed an hour and a price to a Sawtooth model and print its outputs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		hour, err := decimal.NewFromString(sawtoothHour)
		if err != nil {
			return err
		}

		price, err := decimal.NewFromString(sawtoothPrice)
		if err != nil {
			return err
		}

		s, err := newSimulation(sawtoothRecorder(cmd))
		if err != nil {
			return err
		}
		defer s.Terminate()

		out := cmd.OutOrStdout()
		s.GetScheduler().AcceptHook(&outputPrinter{w: out})

		stock := sawtooth.MakeBuilder().Build("Stock")
		if err := s.RegisterModel(stock); err != nil {
			return err
		}

		scheduler := s.GetScheduler()
		if err := scheduler.Inject(stock.TimeHours.ID(), 0, hour); err != nil {
			return err
		}

		if err := scheduler.Inject(stock.StockPrice.ID(), 0, price); err != nil {
			return err
		}

		if err := s.Run(sim.Infinity); err != nil {
			return err
		}

		return printStates(out, []sim.AtomicModel{stock})
	},
}

// sawtoothRecorder disables recording unless a recorder or an output file
// is asked for.
func sawtoothRecorder(cmd *cobra.Command) string {
	if f := cmd.Flag("recorder"); (f != nil && f.Changed) || outputPath != "" {
		return recorderType
	}

	return recorderNone
}

func init() {
	sawtoothCmd.Flags().StringVar(&sawtoothHour, "hour", "9",
		"Hour of the day")
	sawtoothCmd.Flags().StringVar(&sawtoothPrice, "price", "10.00",
		"Stock price")
}
