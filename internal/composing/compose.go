// Package composing builds the prompt sent to the text-generation service for one
// batch of tone tasks.
package composing

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/tonecycle/internal/prompts"
	"github.com/jonathan/tonecycle/internal/types"
	"github.com/jonathan/tonecycle/internal/validation"
)

const promptFile = "rewrite.json"

// TokenBudget is the hard prompt size limit, in estimated tokens
const TokenBudget = 1500

// CharsPerToken approximates the tokenizer
const CharsPerToken = 4

// Form records which composition fit within the budget
type Form string

const (
	FormFull      Form = "full"
	FormCore      Form = "core"
	FormTruncated Form = "truncated"
)

// Prompt is the composed request text
type Prompt struct {
	Text string
	Form Form
	// Sections holds the task section of each task, in task order
	Sections []string
}

// Composer builds prompts under a character budget
type Composer struct {
	budget int
}

// NewComposer creates a composer with the given budget in characters.
// A non-positive budget selects TokenBudget * CharsPerToken.
func NewComposer(budgetChars int) *Composer {
	if budgetChars <= 0 {
		budgetChars = TokenBudget * CharsPerToken
	}
	return &Composer{budget: budgetChars}
}

// Budget returns the character budget
func (c *Composer) Budget() int {
	return c.budget
}

// Compose builds the prompt with the default budget
func Compose(tasks []types.ToneTask, directives *types.StyleDirectives, source, mode string) Prompt {
	return NewComposer(0).Compose(tasks, directives, source, mode)
}

// Compose builds the prompt for tasks. The full form is used when it fits; otherwise
// the core form; otherwise the core instruction block is cut to make room for the
// untouched source block.
func (c *Composer) Compose(tasks []types.ToneTask, directives *types.StyleDirectives, source, mode string) Prompt {
	if directives == nil {
		directives = &types.StyleDirectives{}
	}
	bucket := LengthBucket(directives.LengthPreference)
	sourceBlock := sourceBlock(source, mode)

	fullSections := taskSections(tasks, bucket, true)
	full := instructionBlock(directives, mode, fullSections, true) + "\n\n" + sourceBlock
	if runeLen(full) <= c.budget {
		return Prompt{Text: full, Form: FormFull, Sections: fullSections}
	}

	coreSections := taskSections(tasks, bucket, false)
	coreInstruction := instructionBlock(directives, mode, coreSections, false)
	core := coreInstruction + "\n\n" + sourceBlock
	if runeLen(core) <= c.budget {
		return Prompt{Text: core, Form: FormCore, Sections: coreSections}
	}

	remaining := c.budget - runeLen(sourceBlock) - 2
	if remaining <= 0 {
		return Prompt{Text: truncate(sourceBlock, c.budget), Form: FormTruncated, Sections: coreSections}
	}
	text := strings.TrimRight(truncate(coreInstruction, remaining), " \n") + "\n\n" + sourceBlock
	return Prompt{Text: text, Form: FormTruncated, Sections: coreSections}
}

// EstimateTokens approximates the token count of text
func EstimateTokens(text string) int {
	n := runeLen(text)
	return (n + CharsPerToken - 1) / CharsPerToken
}

// LengthBucket maps a length preference to short, medium or long
func LengthBucket(pref *types.LengthPreference) string {
	if pref == nil {
		return "short"
	}
	label := strings.ToLower(pref.Label)
	for _, bucket := range []string{"short", "medium", "long"} {
		if strings.Contains(label, bucket) {
			return bucket
		}
	}
	switch {
	case pref.MaxChars == 0:
		return "short"
	case pref.MaxChars <= 60:
		return "short"
	case pref.MaxChars <= 140:
		return "medium"
	default:
		return "long"
	}
}

func taskSections(tasks []types.ToneTask, bucket string, full bool) []string {
	sections := make([]string, len(tasks))
	for i, task := range tasks {
		header := prompts.Render(promptFile, "task-header", map[string]string{
			"Ordinal": strconv.Itoa(i + 1),
			"Label":   task.Tone.Label,
		})
		block := prompts.Render(promptFile, "task-block", map[string]string{
			"ToneKey":      task.Tone.Key,
			"LengthBucket": bucket,
			"Instruction":  instruction(task.Tone, bucket, full),
		})
		sections[i] = header + "\n" + block
	}
	return sections
}

func instruction(tone types.ToneConfig, bucket string, full bool) string {
	if !full {
		return prompts.Render(promptFile, "instruction-core", map[string]string{
			"Label":        tone.Label,
			"LengthBucket": bucket,
		})
	}
	notes := ""
	if len(tone.Notes) > 0 {
		notes = " Cues: " + strings.Join(tone.Notes, "; ") + "."
	}
	return prompts.Render(promptFile, "instruction-full", map[string]string{
		"Label": tone.Label,
		"Notes": notes,
	})
}

func instructionBlock(d *types.StyleDirectives, mode string, sections []string, full bool) string {
	parts := []string{preamble(mode)}
	parts = append(parts, styleLines(d, full)...)
	parts = append(parts, sections...)
	parts = append(parts, prompts.MustGet(promptFile, "uniqueness-reminder"))
	return strings.Join(parts, "\n\n")
}

func preamble(mode string) string {
	if mode == types.ModeCompose {
		return prompts.MustGet(promptFile, "preamble-compose")
	}
	return prompts.MustGet(promptFile, "preamble-rewrite")
}

func sourceBlock(source, mode string) string {
	key := "source-rewrite"
	if mode == types.ModeCompose {
		key = "source-compose"
	}
	return prompts.Render(promptFile, key, map[string]string{"Source": strings.TrimSpace(source)})
}

// styleLines renders the directives. The core form keeps only what the validator
// enforces.
func styleLines(d *types.StyleDirectives, full bool) []string {
	var lines []string
	if full && d.Overview != "" {
		lines = append(lines, prompts.Render(promptFile, "style-overview", map[string]string{"Overview": d.Overview}))
	}
	if full && len(d.Requirements) > 0 {
		lines = append(lines, prompts.Render(promptFile, "style-requirements", map[string]string{"Items": bullets(d.Requirements)}))
	}
	if len(d.BannedTerms) > 0 {
		lines = append(lines, prompts.Render(promptFile, "style-banned", map[string]string{"Terms": strings.Join(d.BannedTerms, ", ")}))
	}
	if len(d.RequiredPhraseGroups) > 0 {
		groups := make([]string, len(d.RequiredPhraseGroups))
		for i, g := range d.RequiredPhraseGroups {
			groups[i] = fmt.Sprintf("- %s: %s", g.Label, strings.Join(g.Phrases, " | "))
		}
		lines = append(lines, prompts.Render(promptFile, "style-required", map[string]string{"Groups": strings.Join(groups, "\n")}))
	}
	if length := describeLength(d.LengthPreference, full); length != "" {
		lines = append(lines, prompts.Render(promptFile, "style-length", map[string]string{"Length": length}))
	}
	lines = append(lines, prompts.Render(promptFile, "style-sentences", map[string]string{"MaxSentences": strconv.Itoa(validation.MaxSentences)}))
	if full && len(d.SentenceHints) > 0 {
		lines = append(lines, prompts.Render(promptFile, "style-sentence-hints", map[string]string{"Items": bullets(d.SentenceHints)}))
	}
	if full && len(d.ScenarioHints) > 0 {
		lines = append(lines, prompts.Render(promptFile, "style-scenarios", map[string]string{"Items": bullets(d.ScenarioHints)}))
	}
	if d.PronounConsistency {
		lines = append(lines, prompts.MustGet(promptFile, "style-pronouns"))
	}
	return lines
}

func describeLength(pref *types.LengthPreference, full bool) string {
	if pref == nil {
		return ""
	}
	var parts []string
	if pref.Label != "" {
		parts = append(parts, pref.Label)
	}
	switch {
	case pref.MinChars > 0 && pref.MaxChars > 0:
		parts = append(parts, fmt.Sprintf("%d-%d characters", pref.MinChars, pref.MaxChars))
	case pref.MaxChars > 0:
		parts = append(parts, fmt.Sprintf("at most %d characters", pref.MaxChars))
	case pref.MinChars > 0:
		parts = append(parts, fmt.Sprintf("at least %d characters", pref.MinChars))
	}
	if full && pref.Structure != "" {
		parts = append(parts, pref.Structure)
	}
	if full && pref.Description != "" {
		parts = append(parts, pref.Description)
	}
	return strings.Join(parts, "; ")
}

func bullets(items []string) string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "- " + item
	}
	return strings.Join(out, "\n")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if runeLen(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
