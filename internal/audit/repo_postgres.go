package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo persists audit events.
//
// NOTE: This repo assumes an audit_events table with columns matching Event.
// It only ever INSERTs; the append-only invariant is also enforced at the
// database level (no UPDATE/DELETE grants for the app role).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	if r.db == nil {
		return fmt.Errorf("audit: db not configured")
	}

	const q = `
INSERT INTO audit_events
  (id, workspace_id, type, actor_user_id, actor_role, ip_address,
   policy_id, policy_name, message, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.WorkspaceID, string(e.Type), e.ActorUserID, e.ActorRole, e.IPAddress,
		e.PolicyID, e.PolicyName, e.Message, e.Metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: append: %w", err)
	}
	return nil
}
