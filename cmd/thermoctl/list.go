package main

import (
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/hat"
	"codeberg.org/witt/thermoctl/internal/output"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List detected MCC 134 boards",
	RunE: func(_ *cobra.Command, _ []string) error {
		boards, err := hat.NewDriver().List()
		if err != nil {
			return errors.New().Wrap(errors.ErrListBoards, err)
		}

		return output.NewWriter(os.Stdout, listJSON, false).WriteBoards(boards)
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listJSON, "json", "j", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}
