package guideline

import (
	"fmt"
	"strings"
)

// Field readers never fail: anything that does not have the expected shape is
// treated as absent.

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		s = strings.TrimSpace(s)
		return s, s != ""
	case int, int64, float64:
		return fmt.Sprint(s), true
	}
	return "", false
}

// asStrings accepts a string or an array of strings; non-string elements are skipped
func asStrings(v any) []string {
	if s, ok := asString(v); ok {
		return []string{s}
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := asString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// firstString returns the first key of obj holding a non-empty string
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := asString(obj[k]); ok {
			return s
		}
	}
	return ""
}

// allStrings concatenates the string lists found under every key
func allStrings(obj map[string]any, keys ...string) []string {
	var out []string
	for _, k := range keys {
		out = append(out, asStrings(obj[k])...)
	}
	return out
}

func firstInt(obj map[string]any, keys ...string) int {
	for _, k := range keys {
		if n, ok := asInt(obj[k]); ok {
			return n
		}
	}
	return 0
}

// nested walks nested objects; it returns nil as soon as a segment is missing
func nested(obj map[string]any, keys ...string) any {
	var cur any = obj
	for _, k := range keys {
		m, ok := asObject(cur)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}
