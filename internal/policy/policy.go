package policy

import "encoding/json"

// Policy type codes. Keep these stable; they are persisted on documents.
const (
	TypeCall          = "CALL"
	TypeDataAnalytics = "DATA_ANALYTICS"
	TypeDigital       = "DIGITAL"
)

// SourceSystem marks platform-owned policies that must never be deleted.
const SourceSystem = "SYSTEM"

// Template classes carried on nodes and outputs. The class determines the
// shape of the config payload and which sanitization rule applies on clone.
const (
	ClassNumericEntry         = "numericEntryPoint"
	ClassDigitalEntry         = "digitalEntryPoint"
	ClassTransferCallPolicy   = "transferCallPolicy"
	ClassTransferNonCallPolicy = "transferNonCallPolicy"
	ClassLinkedCallPolicy     = "linkedCallPolicy"
	ClassLinkedDataPolicy     = "linkedDataPolicy"
	ClassConnectTo            = "connectTo"
	ClassFollowMe             = "followMe"
	ClassQueue                = "queue"
	ClassRequestSkills        = "requestSkills"
	ClassNotify               = "notify"
	ClassFinishVoicemail      = "finishVoicemail"
	ClassRecord               = "record"
	ClassRecordAnalyze        = "recordAnalyze"
	ClassAIKnowledgeBase        = "aiKnowledgeBase"
	ClassAIKnowledgeBaseDigital = "aiKnowledgeBaseDigital"
	ClassAIAgent                = "aiAgent"
	ClassAIAgentDigital         = "aiAgentDigital"
)

// TemplateIDEntry is the numeric template of inbound entry-point nodes.
// Legacy entry nodes predate template classes and carry this id with an
// empty templateClass.
const TemplateIDEntry = 1

// Target methods and mailbox/notify target types.
const (
	TargetMethodUser  = "USER"
	TargetMethodGroup = "GROUP"
)

// AgentVersionHead is the floating "latest" version an AI agent output is
// reset to when its concrete agent binding is stripped.
const AgentVersionHead = "HEAD"

// UITypeSupportChat is the editor widget type that requires a configured
// display name before the policy may be saved.
const UITypeSupportChat = "SupportChat"

// Policy is the root call-flow document: a directed graph of nodes plus
// connection metadata. The clone engine never mutates a Policy in place;
// it always works on a deep copy and returns a new document.
//
// Identity is carried twice for legacy reasons: the policy* fields are the
// current shape, the bare id/name/remoteId/description fields are the
// legacy shape still emitted by older exports. Clone collapses them.
type Policy struct {
	PolicyID          string `json:"policyId,omitempty"`
	PolicyName        string `json:"policyName,omitempty"`
	PolicyDescription string `json:"policyDescription,omitempty"`
	PolicyType        string `json:"policyType,omitempty"`

	ID          string `json:"id,omitempty"`
	RemoteID    *int64 `json:"remoteId,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`

	// Source is a provenance marker; SYSTEM policies are platform-owned.
	Source string `json:"source,omitempty"`

	Nodes       []*Node       `json:"nodes,omitempty"`
	Connections []*Connection `json:"connections,omitempty"`
	Edges       []*Edge       `json:"edges,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// DisplayName prefers the current name field and falls back to the legacy one.
func (p *Policy) DisplayName() string {
	if p.PolicyName != "" {
		return p.PolicyName
	}
	return p.Name
}

// Node is a vertex in the flow graph. TemplateClass discriminates behavior;
// nodes without a class are legacy shapes.
type Node struct {
	ID            string `json:"nodeID,omitempty"`
	TemplateID    int    `json:"templateId,omitempty"`
	TemplateClass string `json:"templateClass,omitempty"`
	Name          string `json:"name,omitempty"`
	UIType        string `json:"uiType,omitempty"`

	Outputs []*Output `json:"outputs,omitempty"`
	// DataOutputs are the nested analytics outputs carried by linked
	// data-policy nodes.
	DataOutputs []*Output  `json:"dataOutputs,omitempty"`
	SubItems    []*SubItem `json:"subItems,omitempty"`

	Variables map[string]any `json:"variables,omitempty"`
	Config    map[string]any `json:"config,omitempty"`

	Data *NodeData `json:"data,omitempty"`

	// Back-references to the node/output that connects into this node.
	ConnectedFromNode *string `json:"connectedFromNode,omitempty"`
	ConnectedFromItem *string `json:"connectedFromItem,omitempty"`
}

// NodeData is the editor-facing payload validated before save.
type NodeData struct {
	Name      string         `json:"name,omitempty"`
	Component *ComponentData `json:"component,omitempty"`
}

// ComponentData keeps Label raw so an explicit JSON null (a cleared required
// selection) can be told apart from an absent field.
type ComponentData struct {
	Label json.RawMessage `json:"label,omitempty"`
}

// Output is a named action slot on a node. Config shape is entirely
// determined by TemplateClass.
type Output struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	TemplateClass string `json:"templateClass,omitempty"`

	Variables map[string]any `json:"variables,omitempty"`
	Config    *OutputConfig  `json:"config,omitempty"`
}

// OutputConfig is the union of per-template-class payloads. Only the fields
// belonging to the output's class are populated; the rest stay zero and are
// omitted on the wire.
type OutputConfig struct {
	// connectTo: keyed by target method (USER, GROUP).
	Targets map[string]*Target `json:"targets,omitempty"`
	// followMe: same targets as a flat ordered list.
	FollowTargets []*Target `json:"followTargets,omitempty"`

	// queue
	RingTargets    []*RingTarget   `json:"ringTargets,omitempty"`
	Announcements  []*Announcement `json:"announcements,omitempty"`
	HoldChimes     []string        `json:"holdChimes,omitempty"`
	TransferChimes []string        `json:"transferChimes,omitempty"`
	ScreenPop      string          `json:"screenPop,omitempty"`

	// requestSkills
	Skills []*Skill `json:"skills,omitempty"`

	// notify
	NotifyTargets []*NotifyTarget `json:"notifyTargets,omitempty"`

	// finishVoicemail
	Mailbox *Mailbox `json:"mailbox,omitempty"`

	// record
	ArchivePolicyID *string `json:"archivePolicyId,omitempty"`

	// recordAnalyze: environment-specific CRM connector coordinates.
	ConnectorID string `json:"connectorId,omitempty"`
	DevOrgID    string `json:"devOrgId,omitempty"`
	Namespace   string `json:"namespace,omitempty"`

	// linked policy outputs
	LinkedPolicyID   string `json:"linkedPolicyId,omitempty"`
	LinkedPolicyName string `json:"linkedPolicyName,omitempty"`

	// AI knowledge base
	KnowledgeBaseID string       `json:"knowledgeBaseId,omitempty"`
	TagFilters      []string     `json:"tagFilters,omitempty"`
	MetaFilters     []MetaFilter `json:"metaFilters,omitempty"`

	// AI agent
	AgentID      *string           `json:"agentId,omitempty"`
	AgentVersion string            `json:"agentVersion,omitempty"`
	AgentTokens  map[string]string `json:"agentTokens,omitempty"`
}

// Target is a routed destination on a connect/follow-me output.
type Target struct {
	Method   string `json:"method,omitempty"`
	TargetID string `json:"targetId,omitempty"`
	Name     string `json:"name,omitempty"`
}

// RingTarget is a group rung by a queue output. HashKey is editor-internal
// state that must never survive a clone.
type RingTarget struct {
	GroupID string `json:"groupId,omitempty"`
	Name    string `json:"name,omitempty"`
	HashKey string `json:"$$hashKey,omitempty"`
}

// Announcement is a queue announcement with an optional sound binding.
type Announcement struct {
	SoundID   string `json:"soundId,omitempty"`
	SoundName string `json:"soundName,omitempty"`
}

// Skill is a routing skill requested by a requestSkills output.
type Skill struct {
	SkillID     string `json:"skillId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// NotifyTarget is a chatter/notification destination in the external CRM.
type NotifyTarget struct {
	Type     string `json:"type,omitempty"`
	TargetID string `json:"targetId,omitempty"`
	Name     string `json:"name,omitempty"`
	HashKey  string `json:"$$hashKey,omitempty"`
}

// Mailbox is the destination of a finish-with-voicemail output.
type Mailbox struct {
	Type  string  `json:"type,omitempty"`
	BoxID *string `json:"boxId,omitempty"`
	Name  string  `json:"name,omitempty"`
}

// MetaFilter narrows an AI knowledge-base lookup by document property.
type MetaFilter struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// SubItem is a child binding on a node, e.g. a phone number or a digital
// address attached to an entry point.
type SubItem struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Number   string `json:"number,omitempty"`
	FlowHook string `json:"flowHook,omitempty"`
}

// Connection is a directed edge between nodes.
type Connection struct {
	Source Endpoint `json:"source"`
	Dest   Endpoint `json:"dest"`
}

// Endpoint addresses one side of a connection. ItemID is set when the edge
// originates from a specific output rather than the node itself.
type Endpoint struct {
	NodeID string `json:"nodeID,omitempty"`
	ItemID string `json:"itemID,omitempty"`
}

// Edge is the simplified connection view some exports carry alongside the
// full connection list.
type Edge struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// TypeDisplay maps a policy type code to its UI label.
func TypeDisplay(code string) string {
	switch code {
	case TypeCall:
		return "Call"
	case TypeDataAnalytics:
		return "Data Analytics"
	case TypeDigital:
		return "Digital"
	default:
		return "Unknown"
	}
}

// CanDelete reports whether a policy may be deleted. Platform-owned
// (SYSTEM) policies are protected; everything else is fair game.
func CanDelete(p *Policy) bool {
	if p == nil {
		return false
	}
	return p.Source != SourceSystem
}
