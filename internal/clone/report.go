package clone

import (
	"sort"
	"strings"
)

// Report accumulates human-readable change messages during a clone.
// Append-only; rendering never consumes or mutates it.
type Report struct {
	messages []string
	seen     map[string]struct{}
}

func NewReport() *Report {
	return &Report{seen: make(map[string]struct{})}
}

// Add appends a message. Duplicates are allowed; each sanitization event
// gets its own line.
func (r *Report) Add(msg string) {
	r.messages = append(r.messages, msg)
}

// AddOnce appends a message unless an identical one was already recorded.
// Used for informational detections (macros, sound tags) that may occur
// many times in one document.
func (r *Report) AddOnce(msg string) {
	if _, ok := r.seen[msg]; ok {
		return
	}
	r.seen[msg] = struct{}{}
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of the accumulated messages in insertion order.
func (r *Report) Messages() []string {
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Render produces the downloadable text report for a policy. Empty when
// nothing was recorded. Lines are sorted lexicographically so related
// messages group together regardless of traversal order.
func (r *Report) Render(policyName string) string {
	if len(r.messages) == 0 {
		return ""
	}

	lines := r.Messages()
	sort.Strings(lines)

	var b strings.Builder
	header := "Clone report for " + policyName
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(header)))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}
