package main

import (
	"github.com/spf13/cobra"

	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/logger"
)

var initConfigOutput string

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write an example configuration file",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := config.WriteExample(initConfigOutput); err != nil {
			return err
		}
		logger.Info().Str("path", initConfigOutput).Msg("Example configuration written")

		return nil
	},
}

func init() {
	initConfigCmd.Flags().StringVarP(&initConfigOutput, "output", "o", "thermoctl.yaml", "destination file")
	rootCmd.AddCommand(initConfigCmd)
}
