package main

import (
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/witt/thermoctl/internal/bridge"
	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/hat"
)

var (
	fuseConfig     string
	fuseAddress    uint8
	fuseChannel    uint8
	fuseKey        string
	fuseTCType     string
	fuseTimeFormat string
)

var fuseCmd = &cobra.Command{
	Use:   "fuse [flags] -- <producer args...>",
	Short: "Inject readings into a producer's JSON output",
	Long: `Spawn the producer and forward its output line by line. Each JSON
object line gets a TIMESTAMP and a THERMOCOUPLE member with the
current readings; other lines pass through untouched. The exit code
is the producer's own.

Arguments after -- are passed to the producer command line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := fuseKey
		if key == "" {
			key = config.FusedKey
		}
		sources, cfg, err := resolveSources(fuseConfig, key, fuseAddress, fuseChannel, fuseTCType)
		if err != nil {
			return err
		}
		if cfg != nil {
			applyLogLevel(cfg.LogLevel)
		}

		timeFormat := fuseTimeFormat
		if timeFormat == "" && cfg != nil {
			timeFormat = cfg.TimeFormat
		}

		producerArgs := args
		if dash := cmd.ArgsLenAtDash(); dash >= 0 {
			producerArgs = args[dash:]
		}

		session := bridge.NewSession(hat.NewDriver(), bridge.Options{
			Sources:    sources,
			TimeFormat: timeFormat,
			Argv:       bridge.ProducerArgv(producerArgs),
			Out:        os.Stdout,
		})

		ctx, cancel := sessionContext()
		defer cancel()

		code, err := session.Run(ctx)
		if err != nil {
			logFailure(err)
		}
		os.Exit(code)

		return nil
	},
}

func init() {
	flags := fuseCmd.Flags()
	flags.StringVarP(&fuseConfig, "config", "C", "", "read all sources from a YAML/JSON config file")
	flags.Uint8VarP(&fuseAddress, "address", "a", 0, "board address (0-7)")
	flags.Uint8VarP(&fuseChannel, "channel", "c", 0, "channel number (0-3)")
	flags.StringVarP(&fuseKey, "key", "k", "", "source key for the injected readings")
	flags.StringVarP(&fuseTCType, "tc-type", "t", config.DefaultTCType, "thermocouple type (J K T E R S B N)")
	flags.StringVarP(&fuseTimeFormat, "time-format", "T", "", "strftime format for injected timestamps")

	rootCmd.AddCommand(fuseCmd)
}
