package clone

import (
	"regexp"
	"strings"
)

// IDSource produces fresh unique identifiers. Injected so tests can make
// remapping deterministic; production wiring uses uuid.NewString.
type IDSource func() string

var (
	// Canonical 36-char unique ids (8-4-4-4-12 hex groups). Used both as
	// node keys and as values referencing those keys, so remapping must be
	// referentially consistent.
	uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

	// Bare 32-char hex screen hooks. A UUID's longest hyphen-free run is
	// 12 chars, so this cannot match inside one.
	screenHookPattern = regexp.MustCompile(`\b[0-9a-fA-F]{32}\b`)

	// Macros and sound tags are reported, never rewritten. The character
	// classes exclude quotes and colons so JSON structure in the
	// serialized document can never match.
	macroPattern    = regexp.MustCompile(`\$\([A-Za-z0-9_.\-]+\)`)
	soundTagPattern = regexp.MustCompile(`\{[A-Za-z0-9_\-]+\}`)
)

// remapIdentifiers rewrites every unique id and screen hook in the
// serialized document to a freshly generated value, consistently: all
// occurrences of one original value map to the same new value. Macro and
// sound-tag detections are recorded once each on the report.
func remapIdentifiers(doc []byte, ids IDSource, report *Report) []byte {
	text := string(doc)

	for _, m := range macroPattern.FindAllString(text, -1) {
		report.AddOnce("Found macro " + m + "; it may need to be recreated in the destination org")
	}
	for _, m := range soundTagPattern.FindAllString(text, -1) {
		report.AddOnce("Found sound tag " + m + "; it may need to be recreated in the destination org")
	}

	// One explicit old->new map per token class; substitution happens in a
	// single pass over the document so freshly generated values are never
	// themselves rescanned.
	var pairs []string
	seen := make(map[string]struct{})

	for _, old := range uuidPattern.FindAllString(text, -1) {
		if _, ok := seen[old]; ok {
			continue
		}
		seen[old] = struct{}{}
		pairs = append(pairs, old, ids())
	}
	for _, old := range screenHookPattern.FindAllString(text, -1) {
		if _, ok := seen[old]; ok {
			continue
		}
		seen[old] = struct{}{}
		pairs = append(pairs, old, hexToken(ids()))
	}

	if len(pairs) == 0 {
		return doc
	}
	return []byte(strings.NewReplacer(pairs...).Replace(text))
}

// hexToken derives a 32-char hex token from a generated id.
func hexToken(id string) string {
	return strings.ReplaceAll(id, "-", "")
}
