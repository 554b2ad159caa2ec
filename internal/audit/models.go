package audit

import "time"

// Event is an immutable, append-only audit record of an admin action on a
// policy.
//
// Invariants:
// - Events are never updated or deleted.
// - workspace_id is required for tenancy isolation.
// - Actor and ip capture are best-effort; never block a clone on audit
//   failures.
type Event struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// ActorUserID is the authenticated admin causing the event.
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// PolicyID/PolicyName identify the source policy acted upon. PolicyID
	// may be empty for documents that were never persisted.
	PolicyID   string `json:"policy_id,omitempty" db:"policy_id"`
	PolicyName string `json:"policy_name,omitempty" db:"policy_name"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeClone    EventType = "policy_clone"
	EventTypeValidate EventType = "policy_validate"
)
