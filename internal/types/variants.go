package types

// ModelVariant is one entry recovered from the text-generation service's reply
type ModelVariant struct {
	Tone   string `json:"tone,omitempty"`
	Length string `json:"length,omitempty"`
	Text   string `json:"text"`
}

// VariantEnvelope is the wire format exchanged with the text-generation service
type VariantEnvelope struct {
	Variants []ModelVariant `json:"variants"`
}

// ValidationResult holds the outcome of checking one variant against ValidationRules
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Issues     []string `json:"issues,omitempty"`
	SoftIssues []string `json:"soft_issues,omitempty"`
}

// RewriteVariant is an accepted, numbered entry of the final output list
type RewriteVariant struct {
	Number     int      `json:"number"`
	ToneKey    string   `json:"tone_key,omitempty"`
	ToneLabel  string   `json:"tone_label,omitempty"`
	Text       string   `json:"text"`
	Issues     []string `json:"issues,omitempty"`
	SoftIssues []string `json:"soft_issues,omitempty"`
}
