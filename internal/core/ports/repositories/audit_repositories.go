package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AuditSink records immutable action records. Record fails if the record
// cannot be persisted; callers abort the triggering operation in that case.
type AuditSink interface {
	Record(ctx context.Context, record domain.AuditRecord) error
}
