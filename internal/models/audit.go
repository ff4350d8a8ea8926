package models

import "time"

// AuditRecord is a row of the append-only audit_records table.
type AuditRecord struct {
	AuditID        string         `db:"audit_id"`
	Action         string         `db:"action"`
	EntityType     string         `db:"entity_type"`
	EntityID       string         `db:"entity_id"`
	OrganizationID string         `db:"organization_id"`
	ActorID        string         `db:"actor_id"`
	Details        map[string]any `db:"details"`
	CreatedAt      time.Time      `db:"created_at"`
}
