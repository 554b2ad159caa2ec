// Package clone implements the policy clone and reference-sanitization
// engine: given a call-flow policy, a reference-context snapshot of the
// destination environment, and connector config, it produces a portable
// copy with every embedded identifier remapped, every org-specific
// reference validated or stripped, and a change report.
//
// The engine is a pure function of its inputs: no I/O, no ambient state,
// no logging. Concurrent invocations are safe because the first step deep
// copies the input document.
package clone

import (
	"encoding/json"
	"errors"
	"fmt"

	"flow-admin/internal/policy"
	"flow-admin/internal/refdata"

	"github.com/google/uuid"
)

// ErrRemapCorrupted means identifier substitution broke the document
// syntax. That indicates a remapping bug, so the clone aborts rather than
// returning a silently corrupted policy.
var ErrRemapCorrupted = errors.New("clone: document failed to re-parse after identifier remap")

var ErrPolicyRequired = errors.New("clone: policy is required")

// Config carries the destination environment's CRM connector coordinates,
// stamped onto record-and-analyze outputs during sanitization.
type Config struct {
	ConnectorID string
	DevOrgID    string
	Namespace   string
}

// Options are the three inputs of a clone plus the injected id source.
type Options struct {
	Policy *policy.Policy
	Refs   refdata.Context
	Config Config

	// IDs defaults to uuid.NewString. Inject a deterministic source in
	// tests.
	IDs IDSource
}

// Result is the sanitized policy plus the accumulated change report.
type Result struct {
	Policy *policy.Policy
	Report *Report
}

// Clone runs the end-to-end algorithm: deep copy, identifier remap,
// per-node sanitization, dangling-edge repair, identity reset. The input
// policy is never mutated. Clone either fully succeeds or returns an
// error before producing anything; missing optional data is never an
// error, only a report entry.
func Clone(opts Options) (Result, error) {
	if opts.Policy == nil {
		return Result{}, ErrPolicyRequired
	}
	ids := opts.IDs
	if ids == nil {
		ids = uuid.NewString
	}
	report := NewReport()

	// Serializing doubles as the deep copy: the caller's document shares
	// nothing with what we mutate below.
	raw, err := json.Marshal(opts.Policy)
	if err != nil {
		return Result{}, fmt.Errorf("clone: serialize policy: %w", err)
	}
	raw = remapIdentifiers(raw, ids, report)

	var p policy.Policy
	if err := json.Unmarshal(raw, &p); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRemapCorrupted, err)
	}

	s := &sanitizer{refs: opts.Refs, cfg: opts.Config, report: report}

	var kept []*policy.Node
	droppedSources := make(map[string]struct{})
	droppedLinked := make(map[string]struct{})
	for _, n := range p.Nodes {
		if n == nil {
			continue
		}
		v := s.sanitizeNode(n)
		if v.dropConnections {
			droppedSources[n.ID] = struct{}{}
		}
		if v.linkedPolicy {
			droppedLinked[n.ID] = struct{}{}
		}
		if !v.drop {
			kept = append(kept, n)
		}
	}
	p.Nodes = kept

	// Surviving nodes may still point back at a dropped linked-policy
	// node; null those back-references.
	for _, n := range p.Nodes {
		if n.ConnectedFromNode == nil {
			continue
		}
		if _, ok := droppedLinked[*n.ConnectedFromNode]; ok {
			n.ConnectedFromNode = nil
			n.ConnectedFromItem = nil
		}
	}

	repairConnections(&p, droppedSources)
	resetIdentity(&p)

	return Result{Policy: &p, Report: report}, nil
}

// repairConnections removes connections sourced from explicitly dropped
// nodes, then sweeps anything dangling so no connection or edge references
// a node absent from the result.
func repairConnections(p *policy.Policy, droppedSources map[string]struct{}) {
	present := make(map[string]struct{}, len(p.Nodes))
	for _, n := range p.Nodes {
		present[n.ID] = struct{}{}
	}

	var conns []*policy.Connection
	for _, c := range p.Connections {
		if c == nil {
			continue
		}
		if _, dropped := droppedSources[c.Source.NodeID]; dropped {
			continue
		}
		if _, ok := present[c.Source.NodeID]; !ok {
			continue
		}
		if _, ok := present[c.Dest.NodeID]; !ok {
			continue
		}
		conns = append(conns, c)
	}
	p.Connections = conns

	var edges []*policy.Edge
	for _, e := range p.Edges {
		if e == nil {
			continue
		}
		if _, ok := present[e.From]; !ok {
			continue
		}
		if _, ok := present[e.To]; !ok {
			continue
		}
		edges = append(edges, e)
	}
	p.Edges = edges
}

// resetIdentity discards the source identity and collapses the legacy
// name/description/type fields into their current counterparts. The caller
// assigns fresh identity on save.
func resetIdentity(p *policy.Policy) {
	p.PolicyID = ""
	p.RemoteID = nil

	if p.PolicyName == "" {
		p.PolicyName = p.Name
	}
	if p.PolicyDescription == "" {
		p.PolicyDescription = p.Description
	}
	if p.PolicyType == "" {
		p.PolicyType = p.Type
	}
	if p.PolicyType == "" {
		p.PolicyType = policy.TypeCall
	}

	p.ID = ""
	p.Name = ""
	p.Description = ""
}
