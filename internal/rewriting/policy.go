// Package rewriting turns a batch of tones into validated, deduplicated variants by
// calling the text-generation service until enough variants are accepted or the
// attempt budget runs out.
package rewriting

import "time"

// Policy bounds the retry loop
type Policy struct {
	// MaxAttempts is the ceiling on service calls per batch
	MaxAttempts int
	// TargetCount is the number of accepted variants to aim for; 0 means one per task
	TargetCount int
	// AttemptTimeout bounds each service call; 0 means no deadline
	AttemptTimeout time.Duration
	// StrictToneMatch discards variants whose declared tone matches no task.
	// When false they fill the first unfilled task instead.
	StrictToneMatch bool
}

// DefaultMaxAttempts is the attempt ceiling used when the policy leaves it unset
const DefaultMaxAttempts = 4

// DefaultPolicy returns the policy used by the CLI and the server
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     DefaultMaxAttempts,
		StrictToneMatch: true,
	}
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p Policy) target(tasks int) int {
	if p.TargetCount <= 0 || p.TargetCount > tasks {
		return tasks
	}
	return p.TargetCount
}
