package validation

import (
	"regexp"
	"strings"
)

// CommentaryPhrases are fragments that show up when the service talks about the task
// instead of writing copy. Matching is case-insensitive.
var CommentaryPhrases = []string{
	"source copy",
	"assumed intent",
	"inferred intent",
	"no source text",
	"no text was provided",
	"no copy was provided",
	"without the original copy",
	"since no copy",
	"missing source",
}

// TemplateEchoMarkers are fragments of the prompt template itself; a line carrying
// one of them is the service repeating instructions back.
var TemplateEchoMarkers = []string{
	"task_block",
	"tone_key:",
	"length_bucket:",
	"instruction:",
	"uniqueness reminder",
	"one json entry per task",
}

var taskHeaderPattern = regexp.MustCompile(`(?i)^\W*task\s+\d+\b`)

// IsCommentary reports whether text echoes meta-commentary about the request
func IsCommentary(text string) bool {
	return containsAny(strings.ToLower(text), CommentaryPhrases)
}

// IsTemplateEcho reports whether a line repeats the prompt template or a task header
func IsTemplateEcho(line string) bool {
	if taskHeaderPattern.MatchString(line) {
		return true
	}
	return containsAny(strings.ToLower(line), TemplateEchoMarkers)
}

func containsAny(lower string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
