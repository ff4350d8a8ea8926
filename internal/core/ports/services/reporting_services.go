package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingService defines operations for generating ledger reports
type ReportingService interface {
	// TrialBalanceReport builds a hierarchical trial balance with fiscal-year-to-date detail.
	TrialBalanceReport(ctx context.Context, organizationID string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ComparePeriods compares per-account net activity across two periods.
	ComparePeriods(ctx context.Context, organizationID string, current, prior domain.Period) (*domain.PeriodComparison, error)

	// AccountStatement lists an account's entries in a period with running balances.
	AccountStatement(ctx context.Context, organizationID string, accountID string, period domain.Period) (*domain.AccountStatement, error)
}
