package types

// ToneConfig is one entry of the tone catalogue
type ToneConfig struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Notes []string `json:"notes,omitempty"`
}

// ToneTask is one tone selected for the current batch.
// Result stays empty until a variant is accepted for the task.
type ToneTask struct {
	Tone   ToneConfig `json:"tone"`
	Prompt string     `json:"prompt,omitempty"`
	Result string     `json:"result,omitempty"`
}

// Filled reports whether the task already holds an accepted variant
func (t *ToneTask) Filled() bool {
	return t.Result != ""
}
