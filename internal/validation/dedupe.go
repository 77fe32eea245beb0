package validation

// Deduper remembers the comparison keys accepted so far in one cycle
type Deduper struct {
	seen            map[string]bool
	allowDuplicates bool
}

// NewDeduper creates a deduper. allowDuplicates is only meant for the final
// flattening pass; acceptance always runs with it off.
func NewDeduper(allowDuplicates bool) *Deduper {
	return &Deduper{seen: make(map[string]bool), allowDuplicates: allowDuplicates}
}

// Accept records text and reports whether it is new (or duplicates are tolerated)
func (d *Deduper) Accept(text string) bool {
	key := ComparisonKey(text)
	if d.seen[key] && !d.allowDuplicates {
		return false
	}
	d.seen[key] = true
	return true
}

// Seen reports whether text's comparison key was already accepted
func (d *Deduper) Seen(text string) bool {
	return d.seen[ComparisonKey(text)]
}

// Forget removes text's comparison key so an equivalent variant can be accepted again
func (d *Deduper) Forget(text string) {
	delete(d.seen, ComparisonKey(text))
}

// DedupeTexts keeps the first occurrence of every comparison key, preserving order
func DedupeTexts(texts []string) []string {
	d := NewDeduper(false)
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if d.Accept(t) {
			out = append(out, t)
		}
	}
	return out
}
