package guideline

import (
	"sort"
	"strings"

	"github.com/jonathan/tonecycle/internal/logging"
	"github.com/jonathan/tonecycle/internal/types"
	"github.com/jonathan/tonecycle/internal/validation"
)

// MaxActiveTones caps the tone catalogue
const MaxActiveTones = 12

// FallbackToneLabel replaces a preferred tone the catalogue does not know
const FallbackToneLabel = "Clear"

// defaultTones pad the catalogue up to MaxActiveTones
var defaultTones = []types.ToneConfig{
	{Key: "clear", Label: "Clear", Notes: []string{"Plain words, one idea at a time"}},
	{Key: "friendly", Label: "Friendly", Notes: []string{"Warm and approachable, like a helpful colleague"}},
	{Key: "confident", Label: "Confident", Notes: []string{"Direct statements, no hedging"}},
	{Key: "empathetic", Label: "Empathetic", Notes: []string{"Acknowledge how the reader feels before the action"}},
	{Key: "playful", Label: "Playful", Notes: []string{"Light wordplay, never at the reader's expense"}},
	{Key: "persuasive", Label: "Persuasive", Notes: []string{"Lead with the benefit, end with the action"}},
	{Key: "reassuring", Label: "Reassuring", Notes: []string{"Remove doubt and confirm that things are handled"}},
	{Key: "concise", Label: "Concise", Notes: []string{"As few words as the meaning allows"}},
	{Key: "urgent", Label: "Urgent", Notes: []string{"Time-sensitive, action first"}},
	{Key: "professional", Label: "Professional", Notes: []string{"Polished and neutral"}},
	{Key: "enthusiastic", Label: "Enthusiastic", Notes: []string{"Upbeat energy without exclamation overload"}},
	{Key: "calm", Label: "Calm", Notes: []string{"Steady, unhurried rhythm"}},
}

// DefaultTones returns a copy of the built-in tone list
func DefaultTones() []types.ToneConfig {
	out := make([]types.ToneConfig, len(defaultTones))
	copy(out, defaultTones)
	return out
}

// BuildCatalogue returns the guide's tones, preferred tone first, padded with
// defaults up to MaxActiveTones without repeating a label.
func BuildCatalogue(obj map[string]any) []types.ToneConfig {
	tones := guideTones(obj["tones"])

	if preferred := firstString(obj, "preferredTone", "preferred_tone"); preferred != "" {
		tones = promote(tones, preferred)
	}

	if len(tones) > MaxActiveTones {
		tones = tones[:MaxActiveTones]
	}
	return pad(tones)
}

func guideTones(v any) []types.ToneConfig {
	var tones []types.ToneConfig
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if tone, ok := toneFromEntry("", item); ok {
				tones = append(tones, tone)
			}
		}
	default:
		obj, ok := asObject(v)
		if !ok {
			return nil
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if tone, ok := toneFromEntry(k, obj[k]); ok {
				tones = append(tones, tone)
			}
		}
	}
	return uniqueTones(tones)
}

func toneFromEntry(key string, v any) (types.ToneConfig, bool) {
	var tone types.ToneConfig
	if s, ok := asString(v); ok {
		tone.Label = s
	} else if obj, ok := asObject(v); ok {
		tone.Key = firstString(obj, "key", "id")
		tone.Label = firstString(obj, "label", "name", "title")
		tone.Notes = dedupeStrings(allStrings(obj, "notes", "cues", "guidance", "description"))
	} else {
		return tone, false
	}

	if tone.Key == "" {
		tone.Key = key
	}
	if tone.Label == "" {
		tone.Label = tone.Key
	}
	if tone.Label == "" {
		return tone, false
	}
	tone.Key = validation.NormalizeKey(tone.Key)
	if tone.Key == "" {
		tone.Key = validation.NormalizeKey(tone.Label)
	}
	return tone, tone.Key != ""
}

// promote moves the preferred tone to the front; an unknown preference puts the
// fallback tone there instead.
func promote(tones []types.ToneConfig, preferred string) []types.ToneConfig {
	if idx := indexOfTone(tones, preferred); idx >= 0 {
		return moveToFront(tones, idx)
	}

	logging.Warn().
		Str("component", "guideline").
		Str("preferred_tone", preferred).
		Str("fallback", FallbackToneLabel).
		Msg("preferred tone not recognized, using fallback")

	if idx := indexOfTone(tones, FallbackToneLabel); idx >= 0 {
		return moveToFront(tones, idx)
	}
	fallback := defaultTones[indexOfTone(defaultTones, FallbackToneLabel)]
	return append([]types.ToneConfig{fallback}, tones...)
}

func indexOfTone(tones []types.ToneConfig, name string) int {
	want := validation.NormalizeKey(name)
	for i, t := range tones {
		if t.Key == want || validation.NormalizeKey(t.Label) == want {
			return i
		}
	}
	return -1
}

func moveToFront(tones []types.ToneConfig, idx int) []types.ToneConfig {
	out := make([]types.ToneConfig, 0, len(tones))
	out = append(out, tones[idx])
	out = append(out, tones[:idx]...)
	return append(out, tones[idx+1:]...)
}

func pad(tones []types.ToneConfig) []types.ToneConfig {
	labels := make(map[string]bool, len(tones))
	keys := make(map[string]bool, len(tones))
	for _, t := range tones {
		labels[strings.ToLower(t.Label)] = true
		keys[t.Key] = true
	}
	for _, d := range defaultTones {
		if len(tones) >= MaxActiveTones {
			break
		}
		if labels[strings.ToLower(d.Label)] || keys[d.Key] {
			continue
		}
		tones = append(tones, d)
		labels[strings.ToLower(d.Label)] = true
		keys[d.Key] = true
	}
	return tones
}

func uniqueTones(tones []types.ToneConfig) []types.ToneConfig {
	seenLabel := make(map[string]bool)
	seenKey := make(map[string]bool)
	var out []types.ToneConfig
	for _, t := range tones {
		label := strings.ToLower(t.Label)
		if seenLabel[label] || seenKey[t.Key] {
			continue
		}
		seenLabel[label] = true
		seenKey[t.Key] = true
		out = append(out, t)
	}
	return out
}
