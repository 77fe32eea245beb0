package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/tonecycle/internal/guideline"
	"github.com/jonathan/tonecycle/internal/observability"
	"github.com/jonathan/tonecycle/internal/schemas"
)

var lintStrict bool

var lintGuideCmd = &cobra.Command{
	Use:   "lint-guide <path-or-url>",
	Short: "Check a style guide against the guide schema",
	Long: "Reports where a guide departs from the documented shape and prints the directives and tone " +
		"catalogue it normalizes to. Findings are advisory unless --strict is set.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLintGuide(cmd.Context(), args[0], lintStrict, os.Stdout)
	},
}

func init() {
	lintGuideCmd.Flags().BoolVar(&lintStrict, "strict", false, "Exit non-zero when the guide has lint findings")
	rootCmd.AddCommand(lintGuideCmd)
}

func runLintGuide(ctx context.Context, location string, strict bool, out io.Writer) error {
	doc, err := guideline.Open(ctx, location)
	if err != nil {
		return err
	}

	var issues []string
	if err := schemas.LintGuide(doc); err != nil {
		var ve *schemas.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		issues = ve.Messages()
	}

	_, _ = fmt.Fprintf(out, "Guide version: %s\n", guideline.Version(doc))
	p := observability.NewPrinter(out)
	p.PrintLint(issues)
	directives, catalogue := guideline.Normalize(doc, "")
	p.PrintDirectives(directives, catalogue)

	if strict && len(issues) > 0 {
		return fmt.Errorf("guide has %d lint finding(s)", len(issues))
	}
	return nil
}
