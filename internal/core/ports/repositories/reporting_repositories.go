package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingRepository aggregates journal entries for reports.
type ReportingRepository interface {
	// SumEntriesByAccount returns debit and credit totals per account for
	// entries dated within [from, to]. A nil from means since inception.
	// Accounts with no entries in range are omitted.
	SumEntriesByAccount(ctx context.Context, organizationID string, from *time.Time, to time.Time) (map[string]domain.AccountActivity, error)
}
