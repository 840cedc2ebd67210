package main

import (
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/witt/thermoctl/internal/collect"
	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/hat"
	"codeberg.org/witt/thermoctl/internal/logger"
	"codeberg.org/witt/thermoctl/internal/output"
	"codeberg.org/witt/thermoctl/internal/stream"
	"codeberg.org/witt/thermoctl/internal/telemetry"
)

var (
	getConfig  string
	getAddress uint8
	getChannel uint8
	getTCType  string

	getTemp       bool
	getADC        bool
	getCJC        bool
	getSerial     bool
	getCaliDate   bool
	getCaliCoeffs bool
	getInterval   bool

	getJSON   bool
	getStream float64
	getClean  bool
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Read thermocouple data once or as a stream",
	Long: `Read the selected quantities for one channel, or for every source
of a config file. With --stream, readings repeat at the given rate
until interrupted; static board data is printed with the first cycle
only. Without data selectors, the temperature is read.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sources, cfg, err := resolveSources(getConfig, "", getAddress, getChannel, getTCType)
		if err != nil {
			return err
		}
		if cfg != nil {
			applyLogLevel(cfg.LogLevel)
		}

		quantities := collect.Quantities{Temperature: getTemp, Voltage: getADC, CJC: getCJC}
		info := collect.InfoFields{
			Serial:          getSerial,
			CalibrationDate: getCaliDate,
			Calibration:     getCaliCoeffs,
			UpdateInterval:  getInterval,
		}
		if !quantities.Any() && !info.Any() {
			quantities.Temperature = true
		}

		recorder := telemetry.NewNoop()
		if cfg != nil && cfg.Telemetry && cmd.Flags().Changed("stream") {
			tcfg := telemetry.DefaultConfig()
			if cfg.Database != "" {
				tcfg.DBPath = cfg.Database
			}
			service, err := telemetry.NewService(tcfg)
			if err != nil {
				return err
			}
			recorder = service
			defer func() {
				if err := recorder.Close(); err != nil {
					logger.Warn().Err(err).Msg("Failed to close telemetry")
				}
			}()
		}

		streamer := stream.New(hat.NewDriver(), stream.Options{
			Sources:    sources,
			RateHz:     getStream,
			Quantities: quantities,
			Info:       info,
			Writer:     output.NewWriter(os.Stdout, getJSON, getClean),
			Recorder:   recorder,
		})

		ctx, cancel := sessionContext()
		defer cancel()

		if cmd.Flags().Changed("stream") {
			return streamer.Run(ctx)
		}

		return streamer.Once(ctx)
	},
}

func init() {
	flags := getCmd.Flags()
	flags.StringVarP(&getConfig, "config", "C", "", "read all sources from a YAML/JSON config file")
	flags.Uint8VarP(&getAddress, "address", "a", 0, "board address (0-7)")
	flags.Uint8VarP(&getChannel, "channel", "c", 0, "channel number (0-3)")
	flags.StringVarP(&getTCType, "tc-type", "t", config.DefaultTCType, "thermocouple type (J K T E R S B N)")

	flags.BoolVarP(&getTemp, "temp", "T", false, "read the temperature")
	flags.BoolVarP(&getADC, "adc", "A", false, "read the raw ADC voltage")
	flags.BoolVarP(&getCJC, "cjc", "J", false, "read the cold-junction temperature")
	flags.BoolVarP(&getSerial, "serial", "s", false, "read the board serial number")
	flags.BoolVarP(&getCaliDate, "cali-date", "D", false, "read the factory calibration date")
	flags.BoolVarP(&getCaliCoeffs, "cali-coeffs", "O", false, "read the calibration coefficients")
	flags.BoolVarP(&getInterval, "update-interval", "i", false, "read the board update interval")

	flags.BoolVarP(&getJSON, "json", "j", false, "output as JSON")
	flags.Float64VarP(&getStream, "stream", "S", 1, "stream readings at the given rate in Hz")
	flags.BoolVarP(&getClean, "clean", "l", false, "plain key/value output without decoration")

	rootCmd.AddCommand(getCmd)
}
