// Command thermoctl reads and fuses thermocouple data from MCC 134
// DAQ boards.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/logger"
)

var (
	debugFlag   bool
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "thermoctl",
	Short: "Read and fuse MCC 134 thermocouple data",
	Long: `thermoctl acquires thermocouple readings from MCC 134 DAQ boards.
Readings can be printed once, streamed at a fixed rate, or fused into
the JSON output of another line-oriented producer process.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Init(debugFlag, verboseFlag, logger.IsService())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// sessionContext returns a context cancelled by the first SIGINT or
// SIGTERM. Loops exit at their next iteration boundary.
func sessionContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
		cancel()
	}()

	return ctx, cancel
}

// applyLogLevel raises the log level from the config file unless the
// debug/verbose flags already did.
func applyLogLevel(level string) {
	if debugFlag || verboseFlag {
		return
	}
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLogLevel(logger.DebugLevel)
	case "info":
		logger.SetLogLevel(logger.InfoLevel)
	case "warn":
		logger.SetLogLevel(logger.WarnLevel)
	case "error":
		logger.SetLogLevel(logger.ErrorLevel)
	}
}

func logFailure(err error) {
	var domainErr errors.Error
	if errors.As(err, &domainErr) {
		logger.ErrorWithCode(domainErr).Msg("Command failed")
		return
	}
	logger.Error().Err(err).Msg("Command failed")
}
