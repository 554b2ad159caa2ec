package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only. No Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records internal audit information about policy admin actions.
//
// Audit is internal-only; do not expose these records to tenant users by
// default. Callers should treat audit logging as best-effort.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.WorkspaceID == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogClone records a completed policy clone.
func (s *Service) LogClone(ctx context.Context, workspaceID, actorUserID, actorRole, ip, policyID, policyName string, reportLines int) error {
	return s.Append(ctx, Event{
		WorkspaceID: workspaceID,
		Type:        EventTypeClone,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		PolicyID:    policyID,
		PolicyName:  policyName,
		Message:     "policy cloned",
		Metadata:    fmt.Sprintf(`{"report_lines":%d}`, reportLines),
	})
}

// LogValidate records a pre-save validation run.
func (s *Service) LogValidate(ctx context.Context, workspaceID, actorUserID, actorRole, ip, policyID, policyName string, violations int) error {
	return s.Append(ctx, Event{
		WorkspaceID: workspaceID,
		Type:        EventTypeValidate,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		PolicyID:    policyID,
		PolicyName:  policyName,
		Message:     "policy validated",
		Metadata:    fmt.Sprintf(`{"violations":%d}`, violations),
	})
}
