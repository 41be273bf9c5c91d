// Command autoseq runs the shuttle autonomous routine against simulated
// hardware. It exists for tuning and regression-checking mission configs
// without a robot on the floor.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger zerolog.Logger

func main() {
	// Optional .env for AUTOSEQ_* overrides; absence is not an error.
	_ = godotenv.Load()

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:           "autoseq",
		Short:         "Simulate and validate shuttle autonomous missions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newCheckCmd())

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
