package rewriting

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/tonecycle/internal/composing"
	"github.com/jonathan/tonecycle/internal/llm"
	"github.com/jonathan/tonecycle/internal/logging"
	"github.com/jonathan/tonecycle/internal/parsing"
	"github.com/jonathan/tonecycle/internal/types"
	"github.com/jonathan/tonecycle/internal/validation"
)

// Placeholder stands in for a task that never received any text
const Placeholder = "(no response)"

// Request is one batch to rewrite
type Request struct {
	Tones      []types.ToneConfig
	Directives *types.StyleDirectives
	Source     string
	Mode       string
}

// Attempt records one service call
type Attempt struct {
	Number      int                  `json:"number"`
	Pending     []string             `json:"pending"`
	PromptForm  composing.Form       `json:"prompt_form"`
	Kind        parsing.Kind         `json:"kind,omitempty"`
	Strategy    string               `json:"strategy,omitempty"`
	Recovered   int                  `json:"recovered"`
	Accepted    int                  `json:"accepted"`
	Rejections  []Rejection          `json:"rejections,omitempty"`
	Diagnostics []parsing.Diagnostic `json:"diagnostics,omitempty"`
	Err         string               `json:"error,omitempty"`
}

// Outcome is the result of a batch
type Outcome struct {
	Variants []types.RewriteVariant
	// Output is the numbered list, or the failure message when Failed
	Output   string
	Failed   bool
	Tasks    []types.ToneTask
	Attempts []Attempt
}

// Config configures a Rewriter
type Config struct {
	Policy      Policy
	Params      llm.GenerationParams
	BudgetChars int
}

// DefaultRewriterConfig returns the default policy and generation parameters
func DefaultRewriterConfig() Config {
	return Config{
		Policy: DefaultPolicy(),
		Params: llm.DefaultGenerationParams(),
	}
}

// Rewriter runs the attempt loop for one batch at a time. It issues service calls
// strictly one after another.
type Rewriter struct {
	client   llm.Client
	composer *composing.Composer
	policy   Policy
	params   llm.GenerationParams
	log      zerolog.Logger
}

// New creates a Rewriter
func New(client llm.Client, cfg Config) (*Rewriter, error) {
	if client == nil {
		return nil, &Error{Message: "text-generation client is required"}
	}
	return &Rewriter{
		client:   client,
		composer: composing.NewComposer(cfg.BudgetChars),
		policy:   cfg.Policy,
		params:   cfg.Params,
		log:      logging.Component("rewriting"),
	}, nil
}

// Rewrite runs attempts until the target count is accepted or the ceiling is hit,
// then drains the tasks into the numbered output.
func (r *Rewriter) Rewrite(ctx context.Context, req Request) *Outcome {
	b := newBatch(req.Tones, validation.RulesFromDirectives(req.Directives), r.policy.StrictToneMatch)
	target := r.policy.target(len(b.tasks))
	maxAttempts := r.policy.maxAttempts()

	var (
		attempts []Attempt
		lastErr  error
		replied  bool
	)

	for n := 1; n <= maxAttempts && b.accepted() < target; n++ {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
		pending := b.pending()
		if len(pending) == 0 {
			break
		}

		pendingTasks := make([]types.ToneTask, len(pending))
		labels := make([]string, len(pending))
		for i, idx := range pending {
			pendingTasks[i] = b.tasks[idx]
			labels[i] = b.tasks[idx].Tone.Label
		}

		prompt := r.composer.Compose(pendingTasks, req.Directives, req.Source, req.Mode)
		for i, idx := range pending {
			b.tasks[idx].Prompt = prompt.Sections[i]
		}

		attempt := Attempt{Number: n, Pending: labels, PromptForm: prompt.Form}
		reply, err := r.generate(ctx, prompt.Text)
		if err != nil {
			lastErr = err
			attempt.Err = err.Error()
			attempts = append(attempts, attempt)
			r.log.Warn().Err(err).Int("attempt", n).Msg("text-generation call failed")
			continue
		}
		replied = true

		parsed := parsing.Parse(reply)
		attempt.Kind = parsed.Kind
		attempt.Strategy = parsed.Strategy
		attempt.Recovered = len(parsed.Variants)
		attempt.Diagnostics = parsed.Diagnostics
		if parsed.Kind == parsing.KindUnrecoverable {
			r.log.Warn().Int("attempt", n).Int("diagnostics", len(parsed.Diagnostics)).Msg("reply could not be parsed, using raw text")
		}
		for _, d := range parsed.Diagnostics {
			r.log.Debug().Str("stage", d.Stage).Str("snippet", d.Snippet).Msg(d.Message)
		}

		accepted, rejected := b.reconcile(parsed.Variants)
		rejected = append(rejected, b.clearDuplicates()...)
		attempt.Accepted = accepted
		attempt.Rejections = rejected
		attempts = append(attempts, attempt)

		r.log.Debug().
			Int("attempt", n).
			Int("pending", len(pending)).
			Str("strategy", string(parsed.Kind)).
			Int("accepted", b.accepted()).
			Int("target", target).
			Msg("attempt finished")
	}

	out := r.finish(b)
	out.Attempts = attempts

	if !replied && lastErr != nil && b.accepted() == 0 {
		out.Failed = true
		out.Variants = nil
		out.Output = "Request failed: " + lastErr.Error()
	}
	return out
}

// generate calls the service, bounded by the per-attempt timeout when set
func (r *Rewriter) generate(ctx context.Context, prompt string) (string, error) {
	if r.policy.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.policy.AttemptTimeout)
		defer cancel()
	}
	return r.client.Generate(ctx, prompt, r.params)
}

// finish drains tasks in catalogue order, expands unexpanded envelopes, dedupes and
// numbers the result
func (r *Rewriter) finish(b *batch) *Outcome {
	type entry struct {
		tone   types.ToneConfig
		text   string
		issues []string
		soft   []string
	}

	var drained []entry
	for i, task := range b.tasks {
		switch {
		case task.Filled():
			drained = append(drained, entry{tone: task.Tone, text: task.Result, soft: b.soft[i]})
		case b.fallback[i].text != "":
			fb := b.fallback[i]
			drained = append(drained, entry{tone: task.Tone, text: fb.text, issues: fb.issues, soft: fb.soft})
		default:
			drained = append(drained, entry{tone: task.Tone, text: Placeholder})
		}
	}

	// flattening keeps duplicates; the presentation pass below removes them
	var flat []entry
	for _, e := range drained {
		expanded := expandEnvelope(e.text)
		if len(expanded) == 0 {
			flat = append(flat, e)
			continue
		}
		for _, v := range expanded {
			flat = append(flat, entry{tone: e.tone, text: v.Text, issues: validation.ValidateVariant(v.Text, b.rules).Issues})
		}
	}

	deduper := validation.NewDeduper(false)
	out := &Outcome{Tasks: b.tasks}
	lines := make([]string, 0, len(flat))
	for _, e := range flat {
		if e.text != Placeholder && !deduper.Accept(e.text) {
			continue
		}
		n := len(out.Variants) + 1
		out.Variants = append(out.Variants, types.RewriteVariant{
			Number:     n,
			ToneKey:    e.tone.Key,
			ToneLabel:  e.tone.Label,
			Text:       e.text,
			Issues:     e.issues,
			SoftIssues: e.soft,
		})
		lines = append(lines, fmt.Sprintf("%d. %s", n, e.text))
	}
	out.Output = strings.Join(lines, "\n\n")
	return out
}

// expandEnvelope returns the entries of text when text is itself a variants payload
func expandEnvelope(text string) []types.ModelVariant {
	if !strings.Contains(text, `"variants"`) {
		return nil
	}
	res := parsing.Parse(text)
	if res.Kind != parsing.KindParsed && res.Kind != parsing.KindFragments {
		return nil
	}
	return res.Variants
}
