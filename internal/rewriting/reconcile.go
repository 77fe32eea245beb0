package rewriting

import (
	"fmt"
	"strings"

	"github.com/jonathan/tonecycle/internal/parsing"
	"github.com/jonathan/tonecycle/internal/types"
	"github.com/jonathan/tonecycle/internal/validation"
)

// Rejection reasons
const (
	RejectEmpty       = "empty text"
	RejectCommentary  = "commentary"
	RejectEcho        = "template echo"
	RejectUnmatched   = "unmatched tone"
	RejectNoTask      = "no unfilled task"
	RejectDuplicate   = "duplicate"
	RejectInvalid     = "invalid"
	RejectDuplicateOf = "duplicate of another task"
)

// Rejection records a recovered variant that was not accepted
type Rejection struct {
	Tone   string   `json:"tone,omitempty"`
	Text   string   `json:"text"`
	Reason string   `json:"reason"`
	Issues []string `json:"issues,omitempty"`
}

// batch is the mutable state of one cycle
type batch struct {
	tasks    []types.ToneTask
	rules    types.ValidationRules
	strict   bool
	deduper  *validation.Deduper
	soft     [][]string
	fallback []candidate
}

type candidate struct {
	text   string
	issues []string
	soft   []string
}

func newBatch(tones []types.ToneConfig, rules types.ValidationRules, strict bool) *batch {
	tasks := make([]types.ToneTask, len(tones))
	for i, tone := range tones {
		tasks[i] = types.ToneTask{Tone: tone}
	}
	return &batch{
		tasks:    tasks,
		rules:    rules,
		strict:   strict,
		deduper:  validation.NewDeduper(false),
		soft:     make([][]string, len(tones)),
		fallback: make([]candidate, len(tones)),
	}
}

// pending returns the indexes of unfilled tasks in catalogue order
func (b *batch) pending() []int {
	var out []int
	for i := range b.tasks {
		if !b.tasks[i].Filled() {
			out = append(out, i)
		}
	}
	return out
}

func (b *batch) accepted() int {
	n := 0
	for i := range b.tasks {
		if b.tasks[i].Filled() {
			n++
		}
	}
	return n
}

// reconcile assigns recovered variants to tasks. Filled tasks are never overwritten.
func (b *batch) reconcile(variants []types.ModelVariant) (accepted int, rejected []Rejection) {
	for _, v := range variants {
		text := strings.TrimSpace(v.Text)
		reject := func(reason string, issues []string) {
			rejected = append(rejected, Rejection{Tone: v.Tone, Text: parsing.Snippet(text), Reason: reason, Issues: issues})
		}

		switch {
		case text == "":
			reject(RejectEmpty, nil)
			continue
		case validation.IsCommentary(text):
			reject(RejectCommentary, nil)
			continue
		case validation.IsTemplateEcho(text):
			reject(RejectEcho, nil)
			continue
		}

		idx, ok := b.match(v.Tone)
		if !ok {
			if strings.TrimSpace(v.Tone) != "" && b.strict {
				reject(RejectUnmatched, nil)
			} else {
				reject(RejectNoTask, nil)
			}
			continue
		}

		if b.deduper.Seen(text) {
			reject(RejectDuplicate, nil)
			continue
		}

		result := validation.ValidateVariant(text, b.rules)
		if !result.Valid {
			if b.fallback[idx].text == "" {
				b.fallback[idx] = candidate{text: text, issues: result.Issues, soft: result.SoftIssues}
			}
			reject(RejectInvalid, result.Issues)
			continue
		}

		b.tasks[idx].Result = text
		b.soft[idx] = result.SoftIssues
		b.deduper.Accept(text)
		accepted++
	}
	return accepted, rejected
}

// match finds the task for a declared tone. Untagged variants, and unmatched ones
// when not strict, take the first unfilled task.
func (b *batch) match(tone string) (int, bool) {
	pending := b.pending()
	if len(pending) == 0 {
		return 0, false
	}
	if strings.TrimSpace(tone) == "" {
		return pending[0], true
	}

	key := validation.NormalizeKey(tone)
	for _, i := range pending {
		t := b.tasks[i].Tone
		if validation.NormalizeKey(t.Key) == key || validation.NormalizeKey(t.Label) == key {
			return i, true
		}
	}
	if b.strict {
		return 0, false
	}
	return pending[0], true
}

// clearDuplicates empties every task whose text repeats an earlier task's text so
// its tone is requested again. reconcile already refuses keys the deduper has seen,
// so after an attempt this finds nothing unless a task was filled some other way;
// it holds the no-two-tasks-share-a-key invariant at the attempt boundary.
func (b *batch) clearDuplicates() []Rejection {
	var cleared []Rejection
	seen := make(map[string]int)
	for i := range b.tasks {
		if !b.tasks[i].Filled() {
			continue
		}
		key := validation.ComparisonKey(b.tasks[i].Result)
		if first, dup := seen[key]; dup {
			cleared = append(cleared, Rejection{
				Tone:   b.tasks[i].Tone.Key,
				Text:   parsing.Snippet(b.tasks[i].Result),
				Reason: RejectDuplicateOf,
				Issues: []string{fmt.Sprintf("same as %s", b.tasks[first].Tone.Label)},
			})
			b.tasks[i].Result = ""
			b.soft[i] = nil
			continue
		}
		seen[key] = i
	}
	return cleared
}
