package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/tonecycle/internal/types"
)

var rewriteOpts messageOptions

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite text into the first batch of tones",
	Long: "Starts a new tone cycle for the text and prints one variant per tone in the first batch. " +
		"Run 'cycle' with the same text to get the next batch.",
	RunE: func(_ *cobra.Command, _ []string) error {
		return stdoutMessage(types.MessageRewrite, &rewriteOpts)
	},
}

func init() {
	rewriteOpts.register(rewriteCmd, true)
	rootCmd.AddCommand(rewriteCmd)
}
