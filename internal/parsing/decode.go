package parsing

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonathan/tonecycle/internal/types"
)

var (
	textFields   = []string{"text", "copy", "variant", "content", "output"}
	toneFields   = []string{"tone", "tone_key", "toneKey", "tone_label"}
	lengthFields = []string{"length", "length_bucket", "lengthBucket"}
)

// decodeVariants accepts {"variants":[...]}, a bare array of entries, or a single
// entry object. Entries may be objects or plain strings.
func decodeVariants(s string) ([]types.ModelVariant, error) {
	var data any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, err
	}

	var entries []any
	switch v := data.(type) {
	case []any:
		entries = v
	case map[string]any:
		if list, ok := v["variants"].([]any); ok {
			entries = list
		} else if _, present := v["variants"]; present {
			return nil, errors.New("variants is not a list")
		} else {
			entries = []any{v}
		}
	default:
		return nil, errors.New("payload is neither an object nor a list")
	}

	var out []types.ModelVariant
	for _, e := range entries {
		if variant, ok := variantFromEntry(e); ok {
			out = append(out, variant)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no entry carries text")
	}
	return out, nil
}

func variantFromEntry(e any) (types.ModelVariant, bool) {
	switch v := e.(type) {
	case string:
		text := strings.TrimSpace(v)
		return types.ModelVariant{Text: text}, text != ""
	case map[string]any:
		variant := types.ModelVariant{
			Tone:   firstField(v, toneFields),
			Length: firstField(v, lengthFields),
			Text:   firstField(v, textFields),
		}
		return variant, variant.Text != ""
	}
	return types.ModelVariant{}, false
}

func firstField(obj map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}
