package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/tonecycle/internal/types"
)

var resetOpts messageOptions

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the tone cycle for a session",
	RunE: func(_ *cobra.Command, _ []string) error {
		return stdoutMessage(types.MessageResetTone, &resetOpts)
	},
}

func init() {
	resetOpts.register(resetCmd, false)
	rootCmd.AddCommand(resetCmd)
}
