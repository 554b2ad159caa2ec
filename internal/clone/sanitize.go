package clone

import (
	"fmt"

	"flow-admin/internal/policy"
	"flow-admin/internal/refdata"
)

// verdict is what sanitizing a single node tells the orchestrator.
type verdict struct {
	// drop excludes the node from the result.
	drop bool
	// dropConnections removes every connection sourced from this node.
	dropConnections bool
	// linkedPolicy marks the node id for back-reference cleanup on the
	// surviving nodes.
	linkedPolicy bool
}

// sanitizer applies the per-template-class rules to an already deep-copied
// document. It mutates nodes in place and records changes on the report.
type sanitizer struct {
	refs   refdata.Context
	cfg    Config
	report *Report
}

func (s *sanitizer) sanitizeNode(n *policy.Node) verdict {
	// Legacy entry points predate template classes and cannot be carried
	// into a clone.
	if n.TemplateClass == "" && n.TemplateID == policy.TemplateIDEntry {
		return verdict{drop: true}
	}

	switch n.TemplateClass {
	case policy.ClassTransferNonCallPolicy:
		return verdict{drop: true, dropConnections: true}

	case policy.ClassTransferCallPolicy:
		// Outgoing connections deliberately survive here, unlike the
		// non-call variant above. Long-standing observed behavior; the
		// final dangling-edge sweep keeps the result consistent either
		// way. See DESIGN.md.
		return verdict{drop: true}

	case policy.ClassNumericEntry, policy.ClassDigitalEntry:
		s.clearSubItems(n)
		return verdict{}

	case policy.ClassLinkedCallPolicy, policy.ClassLinkedDataPolicy:
		s.clearLinkedOutputs(n)
		return verdict{drop: true, dropConnections: true, linkedPolicy: true}
	}

	for _, o := range n.Outputs {
		if o != nil {
			s.sanitizeOutput(n, o)
		}
	}
	return verdict{}
}

// clearSubItems strips number/digital-address bindings from an entry point.
func (s *sanitizer) clearSubItems(n *policy.Node) {
	for _, si := range n.SubItems {
		if si == nil {
			continue
		}
		switch {
		case si.Number != "":
			s.report.Add(fmt.Sprintf("Node %q: removed public number %s", nodeLabel(n), si.Number))
		case si.FlowHook != "":
			s.report.Add(fmt.Sprintf("Node %q: removed digital number %s", nodeLabel(n), si.FlowHook))
		}
	}
	n.SubItems = nil
}

// clearLinkedOutputs strips the sub-policy links off a linked-policy node
// before the node itself is dropped, logging one line per link.
func (s *sanitizer) clearLinkedOutputs(n *policy.Node) {
	for _, o := range n.Outputs {
		if o == nil {
			continue
		}
		s.report.Add(fmt.Sprintf("Node %q: removed linked policy %q", nodeLabel(n), linkedPolicyLabel(o)))
	}
	for _, o := range n.DataOutputs {
		if o == nil {
			continue
		}
		s.report.Add(fmt.Sprintf("Node %q: removed linked policy %q", nodeLabel(n), linkedPolicyLabel(o)))
	}
	n.Outputs = nil
	n.DataOutputs = nil
}

func (s *sanitizer) sanitizeOutput(n *policy.Node, o *policy.Output) {
	switch o.TemplateClass {
	case policy.ClassConnectTo:
		s.sanitizeConnect(n, o)
	case policy.ClassFollowMe:
		s.sanitizeFollowMe(n, o)
	case policy.ClassQueue:
		s.sanitizeQueue(n, o)
	case policy.ClassRequestSkills:
		s.sanitizeSkills(n, o)
	case policy.ClassNotify:
		s.sanitizeNotify(o)
	case policy.ClassFinishVoicemail:
		s.sanitizeVoicemail(o)
	case policy.ClassRecord:
		if o.Config != nil {
			// Archived-policy linkage is always org-specific.
			o.Config.ArchivePolicyID = nil
		}
	case policy.ClassRecordAnalyze:
		if o.Config != nil {
			o.Config.ConnectorID = s.cfg.ConnectorID
			o.Config.DevOrgID = s.cfg.DevOrgID
			o.Config.Namespace = s.cfg.Namespace
		}
	case policy.ClassAIKnowledgeBase, policy.ClassAIKnowledgeBaseDigital:
		s.sanitizeKnowledgeBase(n, o)
	case policy.ClassAIAgent, policy.ClassAIAgentDigital:
		s.sanitizeAgent(n, o)
	}
}

// sanitizeConnect validates the per-method target map of a connect output.
func (s *sanitizer) sanitizeConnect(n *policy.Node, o *policy.Output) {
	if o.Config == nil || o.Config.Targets == nil {
		return
	}
	for _, method := range []string{policy.TargetMethodUser, policy.TargetMethodGroup} {
		t := o.Config.Targets[method]
		if t == nil || t.TargetID == "" {
			continue
		}
		if s.targetExists(method, t.TargetID) {
			s.report.Add(targetMessage(n, o, method, t.TargetID, false))
		} else {
			s.report.Add(targetMessage(n, o, method, t.TargetID, true))
			o.Config.Targets[method] = nil
		}
	}
}

// sanitizeFollowMe is the flat-list variant of sanitizeConnect.
func (s *sanitizer) sanitizeFollowMe(n *policy.Node, o *policy.Output) {
	if o.Config == nil {
		return
	}
	for i, t := range o.Config.FollowTargets {
		if t == nil || t.TargetID == "" {
			continue
		}
		if s.targetExists(t.Method, t.TargetID) {
			s.report.Add(targetMessage(n, o, t.Method, t.TargetID, false))
		} else {
			s.report.Add(targetMessage(n, o, t.Method, t.TargetID, true))
			o.Config.FollowTargets[i] = nil
		}
	}
}

func (s *sanitizer) sanitizeQueue(n *policy.Node, o *policy.Output) {
	c := o.Config
	if c == nil {
		return
	}

	for i, rt := range c.RingTargets {
		if rt == nil {
			continue
		}
		rt.HashKey = ""
		if rt.GroupID == "" {
			continue
		}
		if refdata.Exists(rt.GroupID, s.refs.Groups) {
			s.report.Add(targetMessage(n, o, policy.TargetMethodGroup, rt.GroupID, false))
		} else {
			s.report.Add(targetMessage(n, o, policy.TargetMethodGroup, rt.GroupID, true))
			c.RingTargets[i] = nil
		}
	}

	for _, a := range c.Announcements {
		if a == nil || a.SoundID == "" {
			continue
		}
		if refdata.Exists(a.SoundID, s.refs.Sounds) {
			s.report.Add(fmt.Sprintf("Node %q output %q: Sound %s exists, kept", nodeLabel(n), outputLabel(o), a.SoundID))
		} else {
			s.report.Add(fmt.Sprintf("Node %q output %q: Sound %s not found, removed", nodeLabel(n), outputLabel(o), a.SoundID))
			a.SoundID = ""
			a.SoundName = ""
		}
	}

	c.HoldChimes = s.knownChimes(c.HoldChimes)
	c.TransferChimes = s.knownChimes(c.TransferChimes)

	if c.ScreenPop != "" && soundTagPattern.MatchString(c.ScreenPop) {
		s.report.Add(fmt.Sprintf("Node %q output %q: screen pop text might reference a sound tag", nodeLabel(n), outputLabel(o)))
	}
}

// knownChimes keeps only chime values matching a known sound tag. Silent;
// chimes are cosmetic.
func (s *sanitizer) knownChimes(chimes []string) []string {
	if len(chimes) == 0 {
		return chimes
	}
	kept := chimes[:0]
	for _, tag := range chimes {
		if s.refs.SoundTagKnown(tag) {
			kept = append(kept, tag)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func (s *sanitizer) sanitizeSkills(n *policy.Node, o *policy.Output) {
	if o.Config == nil || len(o.Config.Skills) == 0 {
		return
	}
	kept := o.Config.Skills[:0]
	for _, sk := range o.Config.Skills {
		if sk == nil {
			continue
		}
		if refdata.Exists(sk.SkillID, s.refs.Skills) {
			kept = append(kept, sk)
			continue
		}
		s.report.Add(fmt.Sprintf("Node %q: removed skill %q", nodeLabel(n), sk.DisplayName))
	}
	if len(kept) == 0 {
		kept = nil
	}
	o.Config.Skills = kept
}

// sanitizeNotify blanks unknown chatter targets against whichever external
// list matches the declared type. No log lines; these targets are advisory.
func (s *sanitizer) sanitizeNotify(o *policy.Output) {
	if o.Config == nil {
		return
	}
	for _, nt := range o.Config.NotifyTargets {
		if nt == nil {
			continue
		}
		nt.HashKey = ""
		if nt.TargetID == "" {
			continue
		}
		list := s.refs.ExternalUsers
		if nt.Type == policy.TargetMethodGroup {
			list = s.refs.ExternalGroups
		}
		if !refdata.Exists(nt.TargetID, list) {
			nt.TargetID = ""
		}
	}
}

func (s *sanitizer) sanitizeVoicemail(o *policy.Output) {
	if o.Config == nil || o.Config.Mailbox == nil {
		return
	}
	mb := o.Config.Mailbox
	var list []refdata.Record
	switch mb.Type {
	case policy.TargetMethodGroup:
		list = s.refs.Groups
	case policy.TargetMethodUser:
		list = s.refs.Users
	default:
		return
	}
	if mb.BoxID != nil && !refdata.Exists(*mb.BoxID, list) {
		mb.BoxID = nil
		mb.Name = ""
	}
}

func (s *sanitizer) sanitizeKnowledgeBase(n *policy.Node, o *policy.Output) {
	c := o.Config
	if c == nil {
		return
	}
	if c.KnowledgeBaseID != "" {
		s.report.Add(fmt.Sprintf("Node %q output %q: removed knowledge base %s", nodeLabel(n), outputLabel(o), c.KnowledgeBaseID))
	}
	for _, tag := range c.TagFilters {
		s.report.Add(fmt.Sprintf("Node %q output %q: removed tag filter %q", nodeLabel(n), outputLabel(o), tag))
	}
	for _, mf := range c.MetaFilters {
		s.report.Add(fmt.Sprintf("Node %q output %q: removed meta-property filter %q", nodeLabel(n), outputLabel(o), mf.Key))
	}
	c.KnowledgeBaseID = ""
	c.TagFilters = nil
	c.MetaFilters = nil
}

func (s *sanitizer) sanitizeAgent(n *policy.Node, o *policy.Output) {
	c := o.Config
	if c == nil {
		return
	}
	if c.AgentID != nil && *c.AgentID != "" {
		s.report.Add(fmt.Sprintf("Node %q output %q: removed AI agent %s", nodeLabel(n), outputLabel(o), *c.AgentID))
	}
	c.AgentTokens = nil
	c.AgentID = nil
	c.AgentVersion = policy.AgentVersionHead
}

func (s *sanitizer) targetExists(method, targetID string) bool {
	if method == policy.TargetMethodGroup {
		return refdata.Exists(targetID, s.refs.Groups)
	}
	return refdata.Exists(targetID, s.refs.Users)
}

func targetMessage(n *policy.Node, o *policy.Output, method, targetID string, removed bool) string {
	label := "User"
	if method == policy.TargetMethodGroup {
		label = "Group"
	}
	state := "exists, kept"
	if removed {
		state = "not found, removed"
	}
	return fmt.Sprintf("Node %q output %q: %s %s %s", nodeLabel(n), outputLabel(o), label, targetID, state)
}

func nodeLabel(n *policy.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

func outputLabel(o *policy.Output) string {
	if o.Name != "" {
		return o.Name
	}
	return o.ID
}

func linkedPolicyLabel(o *policy.Output) string {
	if o.Config != nil && o.Config.LinkedPolicyName != "" {
		return o.Config.LinkedPolicyName
	}
	return outputLabel(o)
}
