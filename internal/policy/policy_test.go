package policy

import (
	"encoding/json"
	"testing"
)

func TestTypeDisplay(t *testing.T) {
	cases := map[string]string{
		TypeCall:          "Call",
		TypeDataAnalytics: "Data Analytics",
		TypeDigital:       "Digital",
		"":                "Unknown",
		"WHATEVER":        "Unknown",
	}
	for code, want := range cases {
		if got := TypeDisplay(code); got != want {
			t.Fatalf("TypeDisplay(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestCanDelete(t *testing.T) {
	if CanDelete(&Policy{Source: SourceSystem}) {
		t.Fatalf("SYSTEM policies must not be deletable")
	}
	if !CanDelete(&Policy{Source: "USER"}) {
		t.Fatalf("non-system policies must be deletable")
	}
	if !CanDelete(&Policy{}) {
		t.Fatalf("unmarked policies must be deletable")
	}
	if CanDelete(nil) {
		t.Fatalf("nil policy is not deletable")
	}
}

func TestDisplayName(t *testing.T) {
	p := &Policy{PolicyName: "Current", Name: "Legacy"}
	if p.DisplayName() != "Current" {
		t.Fatalf("current name must win")
	}
	p.PolicyName = ""
	if p.DisplayName() != "Legacy" {
		t.Fatalf("legacy name is the fallback")
	}
}

func TestPolicy_RoundTripPreservesUnknownShapedPayloads(t *testing.T) {
	raw := []byte(`{
		"policyName": "Flow",
		"nodes": [{
			"nodeID": "n1",
			"templateClass": "queue",
			"variables": {"custom": {"deep": [1, 2, 3]}},
			"config": {"vendorFlag": true}
		}]
	}`)
	var p Policy
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := json.Marshal(&p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Policy
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	n := back.Nodes[0]
	if n.Variables["custom"] == nil {
		t.Fatalf("free-form variables must survive a round trip")
	}
	if v, ok := n.Config["vendorFlag"].(bool); !ok || !v {
		t.Fatalf("free-form config must survive a round trip: %+v", n.Config)
	}
}
