package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"energy-dashboard/internal/observability/metrics"
)

var (
	cfgFile string
	log     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "energy-dashboard",
	Short: "Aggregate school energy data into chart-ready results",
	Long: `energy-dashboard resolves named chart configurations from a YAML
catalog, aggregates half-hourly meter readings into bucketed series and
exports the results.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		metrics.Init()
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return DefaultConfigPath()
}

// loadConfig loads the configuration file
func loadConfig() (*Config, error) {
	return LoadConfig(getConfigPath())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
