// internal/workers/data-access/query-postgresql/queries/profiles.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"

	"job-board/internal/models"
)

func GetProfile(ctx context.Context, q Querier, id string) (*models.Profile, error) {
	var (
		p               models.Profile
		fullName, phone sql.NullString
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, email, full_name, phone, role, created_at
		FROM profiles
		WHERE id = $1`, id).Scan(&p.ID, &p.Email, &fullName, &phone, &p.Role, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.FullName = fullName.String
	p.Phone = phone.String
	return &p, nil
}

// EnsureProfile creates a regular profile for a first-time user and returns
// the stored role either way.
func EnsureProfile(ctx context.Context, q Querier, id, email string) (models.Role, error) {
	var role models.Role
	err := q.QueryRowContext(ctx, `
		INSERT INTO profiles (id, email, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
		RETURNING role`, id, email, models.RoleRegular).Scan(&role)
	return role, err
}

// InsertAudit writes an audit_log row. Callers treat failures as non-fatal.
func InsertAudit(ctx context.Context, q Querier, eventType, resourceType, resourceID string, details map[string]interface{}) error {
	data, err := json.Marshal(details)
	if err != nil {
		data = []byte("{}")
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details)
		VALUES ($1, $2, $3, $4)`,
		eventType, resourceType, resourceID, data,
	)
	return err
}
