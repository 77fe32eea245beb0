package guideline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a guide document from a JSON or YAML file.
// The document is returned as generic data; Normalize does the interpretation.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read guide file", Cause: err}
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses guide bytes. YAML is tried for .yaml/.yml files and as a fallback
// when the content is not valid JSON.
func Decode(data []byte, ext string) (map[string]any, error) {
	ext = strings.ToLower(ext)

	var doc map[string]any
	if ext != ".yaml" && ext != ".yml" {
		if err := json.Unmarshal(data, &doc); err == nil {
			return doc, nil
		}
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Message: "guide is neither valid JSON nor YAML", Cause: err}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Version returns the guide's declared version, or a short content hash when the
// guide does not declare one. Anything that is not an object versions as "none",
// matching the default catalogue it normalizes to.
func Version(guide any) string {
	doc, ok := asObject(guide)
	if !ok || len(doc) == 0 {
		return "none"
	}
	if v, ok := asString(doc["version"]); ok {
		return v
	}
	// encoding/json sorts map keys, which keeps the hash stable
	data, err := json.Marshal(doc)
	if err != nil {
		return "unversioned"
	}
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:6])
}

// LoadError represents a failure to read or decode a guide document
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	prefix := "guide load error"
	if e.Path != "" {
		prefix = fmt.Sprintf("guide load error (%s)", e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
