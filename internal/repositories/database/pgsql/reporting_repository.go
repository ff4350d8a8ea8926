package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// SumEntriesByAccount aggregates entry amounts per account in [from, to].
// Reversed transactions stay in the sums; their reversals offset them.
func (r *reportingRepository) SumEntriesByAccount(ctx context.Context, organizationID string, from *time.Time, to time.Time) (map[string]domain.AccountActivity, error) {
	query := `
		SELECT
			account_id,
			COALESCE(SUM(CASE WHEN entry_type = 'DEBIT' THEN amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN entry_type = 'CREDIT' THEN amount ELSE 0 END), 0) AS total_credit
		FROM journal_entries
		WHERE organization_id = $1
			AND entry_date <= $2
			AND ($3::timestamptz IS NULL OR entry_date >= $3)
		GROUP BY account_id
	`

	rows, err := r.db(ctx).Query(ctx, query, organizationID, to, from)
	if err != nil {
		return nil, mapError(err, "error querying account activity")
	}
	defer rows.Close()

	result := make(map[string]domain.AccountActivity)
	for rows.Next() {
		var accountID string
		var debits, credits decimal.Decimal
		if err := rows.Scan(&accountID, &debits, &credits); err != nil {
			return nil, mapError(err, "error scanning account activity row")
		}
		result[accountID] = domain.AccountActivity{AccountID: accountID, Debits: debits, Credits: credits}
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating account activity rows")
	}
	return result, nil
}
