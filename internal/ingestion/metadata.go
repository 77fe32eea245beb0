package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Selection formats
const (
	FormatPlain = "plain"
	FormatHTML  = "html"
)

// Metadata describes an ingested selection
type Metadata struct {
	Format     string    `json:"format"`
	IngestedAt time.Time `json:"ingested_at"`
	// Digest is the SHA-256 of the cleaned text, hex encoded
	Digest string `json:"digest"`
	Runes  int    `json:"runes"`
	Lines  int    `json:"lines"`
}

// NewMetadata describes cleaned content
func NewMetadata(content string, format string) *Metadata {
	sum := sha256.Sum256([]byte(content))
	lines := 0
	if content != "" {
		lines = 1
		for _, r := range content {
			if r == '\n' {
				lines++
			}
		}
	}
	return &Metadata{
		Format:     format,
		IngestedAt: time.Now().UTC(),
		Digest:     hex.EncodeToString(sum[:]),
		Runes:      utf8.RuneCountInString(content),
		Lines:      lines,
	}
}

// ShortDigest is the first 12 hex characters of Digest
func (m *Metadata) ShortDigest() string {
	if len(m.Digest) < 12 {
		return m.Digest
	}
	return m.Digest[:12]
}
