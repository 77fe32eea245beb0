package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/tonecycle/internal/types"
)

var cycleOpts messageOptions

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Rewrite text into the next batch of tones",
	Long: "Continues the tone cycle for the text. Editing the text, the guide or its version starts " +
		"the cycle over; once every tone has been used a notice is printed instead.",
	RunE: func(_ *cobra.Command, _ []string) error {
		return stdoutMessage(types.MessageCycleTone, &cycleOpts)
	},
}

func init() {
	cycleOpts.register(cycleCmd, true)
	rootCmd.AddCommand(cycleCmd)
}
