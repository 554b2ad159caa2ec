package policy

import "fmt"

// Validate runs the structural checks applied before a policy is persisted,
// cloned or not. It returns every violation found, never just the first;
// an empty slice means the policy is saveable.
func Validate(p *Policy) []string {
	var violations []string
	if p == nil {
		return []string{"Policy is required"}
	}

	if len(p.Nodes) == 0 {
		violations = append(violations, "Policy must have at least one node")
	}
	if p.PolicyName == "" && p.Name == "" {
		violations = append(violations, "Policy name is required")
	}

	for _, n := range p.Nodes {
		if n == nil {
			continue
		}
		if n.UIType == UITypeSupportChat && (n.Data == nil || n.Data.Name == "") {
			violations = append(violations, fmt.Sprintf("Node %q: support chat requires a name", nodeLabel(n)))
		}
		// An explicit JSON null label means the editor cleared a required
		// selection without choosing a replacement.
		if n.Data != nil && n.Data.Component != nil && string(n.Data.Component.Label) == "null" {
			violations = append(violations, fmt.Sprintf("Node %q is missing a required selection", nodeLabel(n)))
		}
	}
	return violations
}

func nodeLabel(n *Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
