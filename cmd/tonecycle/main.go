// Package main provides the tonecycle CLI and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/tonecycle/internal/config"
	"github.com/jonathan/tonecycle/internal/logging"
)

var (
	configPath string
	verbose    bool

	// appEnv is loaded once before any command runs
	appEnv *config.Env
)

var rootCmd = &cobra.Command{
	Use:   "tonecycle",
	Short: "Multi-tone UI copy rewriter",
	Long: "tonecycle rewrites short pieces of interface text into several tone-controlled variants, " +
		"cycling through a catalogue of tones across repeated invocations.",
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		env, err := config.LoadEnv()
		if err != nil {
			return err
		}
		appEnv = env
		logging.Init(logging.ParseEnvironment(env.Environment))
		logging.SetVerbose(verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print directives, attempts and diagnostics")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
