package main

import (
	"github.com/spf13/cobra"

	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/hat"
	"codeberg.org/witt/thermoctl/internal/logger"
)

var (
	setAddress  uint8
	setChannel  uint8
	setSlope    float64
	setOffset   float64
	setInterval uint8
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Write board settings",
	Long: `Write calibration coefficients or the update interval to a board.
Slope and offset must be given together; they are stored per channel.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		errFactory := errors.New()

		if setAddress >= hat.MaxBoards || setChannel >= hat.NumChannels {
			return errFactory.WithData(errors.ErrInvalidArgument, struct {
				Address uint8
				Channel uint8
			}{Address: setAddress, Channel: setChannel})
		}

		slopeSet := cmd.Flags().Changed("cali-slope")
		offsetSet := cmd.Flags().Changed("cali-offset")
		intervalSet := cmd.Flags().Changed("update-interval")

		if slopeSet != offsetSet {
			return errFactory.WithMessage(errors.ErrInvalidArgument,
				"calibration slope and offset must be given together")
		}
		if !slopeSet && !intervalSet {
			return errFactory.WithMessage(errors.ErrInvalidArgument, "nothing to write")
		}

		driver := hat.NewDriver()
		if err := driver.Open(setAddress); err != nil {
			return errFactory.Wrap(errors.ErrOpenBoard, err)
		}
		defer func() {
			if err := driver.Close(setAddress); err != nil {
				logger.Warn().Uint8("address", setAddress).Err(err).Msg("Failed to close board")
			}
		}()

		if slopeSet {
			cal := hat.Calibration{Slope: setSlope, Offset: setOffset}
			if err := driver.WriteCalibration(setAddress, setChannel, cal); err != nil {
				return errFactory.Wrap(errors.ErrConfigureBoard, err)
			}
			logger.Info().
				Uint8("address", setAddress).
				Uint8("channel", setChannel).
				Float64("slope", setSlope).
				Float64("offset", setOffset).
				Msg("Calibration written")
		}

		if intervalSet {
			if err := driver.SetUpdateInterval(setAddress, setInterval); err != nil {
				return errFactory.Wrap(errors.ErrConfigureBoard, err)
			}
			logger.Info().
				Uint8("address", setAddress).
				Uint8("interval", setInterval).
				Msg("Update interval written")
		}

		return nil
	},
}

func init() {
	flags := setCmd.Flags()
	flags.Uint8VarP(&setAddress, "address", "a", 0, "board address (0-7)")
	flags.Uint8VarP(&setChannel, "channel", "c", 0, "channel number (0-3)")
	flags.Float64VarP(&setSlope, "cali-slope", "S", 0, "calibration slope to write")
	flags.Float64VarP(&setOffset, "cali-offset", "O", 0, "calibration offset to write")
	flags.Uint8VarP(&setInterval, "update-interval", "i", 0, "update interval in seconds (1-255)")

	rootCmd.AddCommand(setCmd)
}
