package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/pathway"
	"github.com/aretw0/pathway/internal/logging"
)

var (
	flagModules  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pathway",
	Short: "Population simulator for declarative state-machine pathways",
	Long: `Pathway loads declarative pathway modules (JSON or YAML), shares them
read-only across a simulated population, and advances each entity's private
state chain through simulated time.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagModules, "modules", "modules", "directory containing module descriptions")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func newLogger() *slog.Logger {
	return logging.New(logging.ParseLevel(flagLogLevel))
}

func newEngine(log *slog.Logger, opts ...pathway.Option) (*pathway.Engine, error) {
	opts = append([]pathway.Option{pathway.WithLogger(log)}, opts...)
	return pathway.New(flagModules, opts...)
}
