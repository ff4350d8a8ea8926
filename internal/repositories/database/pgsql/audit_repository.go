package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

// auditRepository appends audit records to audit_records. Joined to the
// caller's transaction, so a failed insert rolls the audited change back.
type auditRepository struct {
	BaseRepository
}

func newAuditRepository(pool *pgxpool.Pool) portsrepo.AuditSink {
	return &auditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditSink = (*auditRepository)(nil)

func (r *auditRepository) Record(ctx context.Context, record domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(record)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO audit_records (audit_id, action, entity_type, entity_id, organization_id, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.AuditID, m.Action, m.EntityType, m.EntityID, m.OrganizationID, m.ActorID, m.Details, m.CreatedAt)
	return mapError(err, "failed to record audit")
}
