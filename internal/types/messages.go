package types

// Message types accepted by the orchestrator
const (
	MessageRewrite   = "rewrite"
	MessageCycleTone = "cycle-tone"
	MessageResetTone = "reset-tone-cycle"

	// MessageRewriteDone is the only response type
	MessageRewriteDone = "rewrite-done"
)

// Rewrite modes
const (
	ModeRewrite = "rewrite"
	ModeCompose = "compose"
)

// Message is a request coming from the host environment. Guideline is kept as
// decoded JSON of any shape; normalization decides what it can use.
type Message struct {
	Type      string `json:"type" validate:"required,oneof=rewrite cycle-tone reset-tone-cycle"`
	Key       string `json:"key,omitempty"`
	Text      string `json:"text,omitempty" validate:"required_unless=Type reset-tone-cycle"`
	Guideline any    `json:"guideline,omitempty"`
	Mode      string `json:"mode,omitempty" validate:"omitempty,oneof=rewrite compose"`
}

// Response is sent back to the host environment
type Response struct {
	Type     string           `json:"type"`
	Output   string           `json:"output"`
	Error    bool             `json:"error"`
	Variants []RewriteVariant `json:"variants,omitempty"`
}
