// Package cmd implements the devsim command line.
package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

var (
	logLevel           string
	monitorOn          bool
	monitorPort        int
	openBrowser        bool
	outputPath         string
	recorderType       string
	clickHouseDSN      string
	otelOn             bool
	maxStepsPerInstant int
)

// envDefaults maps flags to the environment variables that seed them. A flag
// given on the command line wins over the environment.
var envDefaults = map[string]string{
	"log":          "DEVSIM_LOG_LEVEL",
	"monitor-port": "DEVSIM_MONITOR_PORT",
	"output":       "DEVSIM_OUTPUT",
}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "devsim",
	Short: "Discrete-event simulator of coupled atomic DEVS models",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := applyEnvDefaults(cmd.Flags()); err != nil {
			return err
		}

		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}

		logrus.SetLevel(level)

		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command. Exit handlers, such as the flushing of
// recorders, run before the process exits.
func Execute() {
	loadDotEnv(".env")

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadDotEnv(path string) {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warnf("cannot load %s", path)
	}
}

func applyEnvDefaults(flags *pflag.FlagSet) error {
	for name, env := range envDefaults {
		flag := flags.Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}

		value, found := lookupEnv(env)
		if !found {
			continue
		}

		if err := flag.Value.Set(value); err != nil {
			return err
		}
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().BoolVar(&monitorOn, "monitor", false,
		"Serve the monitoring API while the simulation runs")
	rootCmd.PersistentFlags().IntVar(&monitorPort, "monitor-port", 0,
		"Port of the monitoring server, random if 0")
	rootCmd.PersistentFlags().BoolVar(&openBrowser, "browser", false,
		"Open the monitoring server in a browser")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output", "",
		"Name of the SQLite trace file, without the .sqlite3 suffix")
	rootCmd.PersistentFlags().StringVar(&recorderType, "recorder", "sqlite",
		"Trace backend (sqlite, clickhouse, none)")
	rootCmd.PersistentFlags().StringVar(&clickHouseDSN, "clickhouse-dsn", "",
		"ClickHouse DSN, used with --recorder=clickhouse")
	rootCmd.PersistentFlags().BoolVar(&otelOn, "otel", false,
		"Export steps and transitions as OpenTelemetry spans")
	rootCmd.PersistentFlags().IntVar(&maxStepsPerInstant,
		"max-steps-per-instant", 10000,
		"Steps allowed at one simulated time before the run is aborted")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sawtoothCmd)
}
