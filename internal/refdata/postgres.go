package refdata

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore loads reference-context snapshots from the record store.
//
// NOTE: This store assumes the following tables exist, each carrying
// (workspace_id, id, remote_id, name) plus tag on sounds:
// - sounds
// - users
// - groups
// - skills
// - external_users
// - external_groups
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) Load(ctx context.Context, workspaceID string) (Context, error) {
	if s.db == nil {
		return Context{}, fmt.Errorf("refdata: db not configured")
	}
	if workspaceID == "" {
		return Context{}, fmt.Errorf("refdata: workspace_id required")
	}

	var out Context
	var err error

	if out.Sounds, err = s.listSounds(ctx, workspaceID); err != nil {
		return Context{}, err
	}
	if out.Users, err = s.list(ctx, "users", workspaceID); err != nil {
		return Context{}, err
	}
	if out.Groups, err = s.list(ctx, "groups", workspaceID); err != nil {
		return Context{}, err
	}
	if out.Skills, err = s.list(ctx, "skills", workspaceID); err != nil {
		return Context{}, err
	}
	if out.ExternalUsers, err = s.list(ctx, "external_users", workspaceID); err != nil {
		return Context{}, err
	}
	if out.ExternalGroups, err = s.list(ctx, "external_groups", workspaceID); err != nil {
		return Context{}, err
	}
	return out, nil
}

func (s *PostgresStore) listSounds(ctx context.Context, workspaceID string) ([]Record, error) {
	const q = `
SELECT id, COALESCE(remote_id::text, ''), COALESCE(name, ''), COALESCE(tag, '')
FROM sounds
WHERE workspace_id = $1
ORDER BY id
`
	rows, err := s.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("refdata: list sounds: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.RemoteID, &r.Name, &r.Tag); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// list reads one of the fixed entity tables. table is always a compile-time
// constant from Load; it is never caller input.
func (s *PostgresStore) list(ctx context.Context, table, workspaceID string) ([]Record, error) {
	q := fmt.Sprintf(`
SELECT id, COALESCE(remote_id::text, ''), COALESCE(name, '')
FROM %s
WHERE workspace_id = $1
ORDER BY id
`, table)
	rows, err := s.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("refdata: list %s: %w", table, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.RemoteID, &r.Name); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
