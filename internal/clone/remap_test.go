package clone

import (
	"fmt"
	"strings"
	"testing"
)

// seqIDs returns a deterministic id source producing valid uuid-shaped
// values 00000001-..., 00000002-..., etc.
func seqIDs() IDSource {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%08d-0000-0000-0000-000000000000", n)
	}
}

func TestRemap_UniqueIDsConsistent(t *testing.T) {
	old := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	doc := fmt.Sprintf(`{"nodes":[{"nodeID":"%s"}],"connections":[{"source":{"nodeID":"%s"},"dest":{"nodeID":"%s"}}]}`, old, old, old)

	out := string(remapIdentifiers([]byte(doc), seqIDs(), NewReport()))

	if strings.Contains(out, old) {
		t.Fatalf("old id survived remap: %s", out)
	}
	want := "00000001-0000-0000-0000-000000000000"
	if got := strings.Count(out, want); got != 3 {
		t.Fatalf("expected 3 consistent occurrences of %s, got %d: %s", want, got, out)
	}
}

func TestRemap_DistinctIDsGetDistinctReplacements(t *testing.T) {
	a := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	b := "6ba7b811-9dad-11d1-80b4-00c04fd430c8"
	doc := fmt.Sprintf(`{"a":"%s","b":"%s"}`, a, b)

	out := string(remapIdentifiers([]byte(doc), seqIDs(), NewReport()))

	if !strings.Contains(out, "00000001-") || !strings.Contains(out, "00000002-") {
		t.Fatalf("expected two distinct replacements: %s", out)
	}
}

func TestRemap_DuplicateScreenHooksShareOneToken(t *testing.T) {
	hook := "deadbeefdeadbeefdeadbeefdeadbeef"
	doc := fmt.Sprintf(`{"nodes":[{"variables":{"hook":"%s","again":"%s"}},{"config":{"hook":"%s"}}]}`, hook, hook, hook)

	out := string(remapIdentifiers([]byte(doc), seqIDs(), NewReport()))

	if strings.Contains(out, hook) {
		t.Fatalf("old screen hook survived remap: %s", out)
	}
	// hexToken of the first generated id.
	want := "00000001000000000000000000000000"
	if got := strings.Count(out, want); got != 3 {
		t.Fatalf("expected all 3 occurrences replaced with one token, got %d of %s: %s", got, want, out)
	}
}

func TestRemap_HookPatternIgnoresUUIDSegments(t *testing.T) {
	// A uuid contains no 32-char hyphen-free hex run; the hook pattern
	// must not fire on it.
	doc := `{"id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}`
	ids := seqIDs()
	out := string(remapIdentifiers([]byte(doc), ids, NewReport()))
	if strings.Contains(out, "00000002") {
		t.Fatalf("hook replacement generated for a uuid: %s", out)
	}
}

func TestRemap_MacrosReportedOnceNeverRewritten(t *testing.T) {
	doc := `{"greeting":"$(callerName) $(callerName)","again":"$(callerName)","more":"$(callerName) $(callerName)"}`
	report := NewReport()
	out := string(remapIdentifiers([]byte(doc), seqIDs(), report))

	if strings.Count(out, "$(callerName)") != 5 {
		t.Fatalf("macros must never be rewritten: %s", out)
	}
	var macroLines int
	for _, m := range report.Messages() {
		if strings.Contains(m, "$(callerName)") {
			macroLines++
		}
	}
	if macroLines != 1 {
		t.Fatalf("expected exactly 1 macro report line, got %d", macroLines)
	}
}

func TestRemap_SoundTagsReportedNotJSONBraces(t *testing.T) {
	doc := `{"announce":"{welcome_prompt}","nested":{"k":"v"}}`
	report := NewReport()
	out := string(remapIdentifiers([]byte(doc), seqIDs(), report))

	if out != doc {
		t.Fatalf("sound tags must never be rewritten: %s", out)
	}
	msgs := report.Messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "{welcome_prompt}") {
		t.Fatalf("expected one sound-tag report line, got %v", msgs)
	}
}

func TestRemap_NoTokensIsNoop(t *testing.T) {
	doc := `{"name":"plain"}`
	out := remapIdentifiers([]byte(doc), seqIDs(), NewReport())
	if string(out) != doc {
		t.Fatalf("expected noop, got %s", out)
	}
}
