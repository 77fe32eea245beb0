// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/tonecycle/internal/ingestion"
	"github.com/jonathan/tonecycle/internal/parsing"
	"github.com/jonathan/tonecycle/internal/rewriting"
	"github.com/jonathan/tonecycle/internal/tonecycle"
	"github.com/jonathan/tonecycle/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fit(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// fit truncates to width runes
func fit(line string, width int) string {
	if utf8.RuneCountInString(line) <= width {
		return line
	}
	runes := []rune(line)
	return string(runes[:width-3]) + "..."
}

// PrintSelection outputs what was ingested from the selection
func (p *Printer) PrintSelection(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}
	p.printBox("SELECTION", fmt.Sprintf("Format: %s\nSize:   %d runes, %d lines\nDigest: %s",
		meta.Format, meta.Runes, meta.Lines, meta.ShortDigest()))
}

// PrintDirectives outputs the normalized style guide and tone catalogue
func (p *Printer) PrintDirectives(d *types.StyleDirectives, catalogue []types.ToneConfig) {
	if d == nil {
		return
	}

	var sb strings.Builder
	if d.Overview != "" {
		sb.WriteString(fmt.Sprintf("Overview: %s\n", d.Overview))
	}
	if len(d.BannedTerms) > 0 {
		sb.WriteString(fmt.Sprintf("Banned:   %s\n", strings.Join(d.BannedTerms, ", ")))
	}
	for _, g := range d.RequiredPhraseGroups {
		sb.WriteString(fmt.Sprintf("Required: %s (%s)\n", g.Label, strings.Join(g.Phrases, " | ")))
	}
	if l := d.LengthPreference; l != nil {
		sb.WriteString(fmt.Sprintf("Length:   %s %d-%d chars\n", l.Label, l.MinChars, l.MaxChars))
	}
	for _, s := range d.ScenarioHints {
		sb.WriteString(fmt.Sprintf("Scenario: %s\n", s))
	}
	if d.PronounConsistency {
		sb.WriteString("Pronouns: keep the copy pronoun-free\n")
	}

	labels := make([]string, len(catalogue))
	for i, t := range catalogue {
		labels[i] = t.Label
	}
	sb.WriteString(fmt.Sprintf("Tones:    %s\n", strings.Join(labels, ", ")))

	p.printBox("STYLE DIRECTIVES", sb.String())
}

// PrintBatch outputs the tones served this call and the cycle position
func (p *Printer) PrintBatch(batch []types.ToneConfig, state tonecycle.State) {
	var sb strings.Builder
	for i, t := range batch {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, t.Label, t.Key))
	}
	if len(batch) == 0 {
		sb.WriteString("(cycle exhausted)\n")
	}
	sb.WriteString(fmt.Sprintf("\nCursor: %d/%d  Completed: %t\n", state.Cursor, state.Total, state.Completed))
	p.printBox("TONE BATCH", sb.String())
}

// PrintAttempts outputs one block per service call with rejections and parse diagnostics
func (p *Printer) PrintAttempts(attempts []rewriting.Attempt) {
	if len(attempts) == 0 {
		return
	}

	var sb strings.Builder
	for _, a := range attempts {
		sb.WriteString(fmt.Sprintf("Attempt %d  prompt=%s  pending=%s\n", a.Number, a.PromptForm, strings.Join(a.Pending, ",")))
		if a.Err != "" {
			sb.WriteString(fmt.Sprintf("  error: %s\n", a.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("  parse: %s via %s, %d recovered, %d accepted\n", a.Kind, strategyLabel(a), a.Recovered, a.Accepted))

		count := min(len(a.Rejections), maxItemsToShow)
		for _, r := range a.Rejections[:count] {
			line := fmt.Sprintf("  ✗ %s", r.Reason)
			if r.Tone != "" {
				line += " [" + r.Tone + "]"
			}
			if len(r.Issues) > 0 {
				line += ": " + strings.Join(r.Issues, "; ")
			}
			sb.WriteString(line + "\n")
		}
		if len(a.Rejections) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(a.Rejections)-maxItemsToShow))
		}
		for _, d := range a.Diagnostics {
			sb.WriteString(fmt.Sprintf("  · %s: %s\n", d.Stage, d.Message))
		}
	}
	p.printBox("ATTEMPTS", sb.String())
}

func strategyLabel(a rewriting.Attempt) string {
	if a.Strategy == "" {
		return string(parsing.KindUnrecoverable)
	}
	return a.Strategy
}

// PrintVariants outputs the numbered variants with any validation issues
func (p *Printer) PrintVariants(variants []types.RewriteVariant) {
	if len(variants) == 0 {
		return
	}

	var sb strings.Builder
	for _, v := range variants {
		tone := v.ToneLabel
		if tone == "" {
			tone = "untagged"
		}
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", v.Number, tone, v.Text))
		for _, issue := range v.Issues {
			sb.WriteString(fmt.Sprintf("   ⚠ %s\n", issue))
		}
		for _, issue := range v.SoftIssues {
			sb.WriteString(fmt.Sprintf("   · %s\n", issue))
		}
	}
	p.printBox(fmt.Sprintf("VARIANTS (%d)", len(variants)), sb.String())
}

// PrintLint outputs guide lint findings
func (p *Printer) PrintLint(messages []string) {
	if len(messages) == 0 {
		p.printBox("GUIDE LINT", "✓ NO ISSUES FOUND")
		return
	}
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString("• " + m + "\n")
	}
	p.printBox(fmt.Sprintf("GUIDE LINT (%d)", len(messages)), sb.String())
}
