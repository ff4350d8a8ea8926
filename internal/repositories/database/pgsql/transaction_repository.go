package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

const transactionColumns = `transaction_id, organization_id, transaction_number, transaction_date, description,
	total_debits, total_credits, status, reversed_at, reversed_by_id, reverses_transaction_id,
	created_at, created_by`

const entryColumns = `entry_id, transaction_id, organization_id, line_no, account_id, entry_type, amount,
	description, reference_type, reference_id, entry_date, created_at`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// entriesFor loads the entries of transactionIDs grouped by transaction, in line order.
func (r *PgxTransactionRepository) entriesFor(ctx context.Context, organizationID string, transactionIDs []string) (map[string][]models.JournalEntry, error) {
	out := make(map[string][]models.JournalEntry, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return out, nil
	}
	rows, err := r.db(ctx).Query(ctx, `SELECT `+entryColumns+` FROM journal_entries
		WHERE organization_id = $1 AND transaction_id = ANY($2)
		ORDER BY transaction_id, line_no`, organizationID, transactionIDs)
	if err != nil {
		return nil, mapError(err, "failed to query journal entries")
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, "failed to scan journal entries")
	}
	for _, e := range entries {
		out[e.TransactionID] = append(out[e.TransactionID], e)
	}
	return out, nil
}

func (r *PgxTransactionRepository) findTransaction(ctx context.Context, organizationID, transactionID string, forUpdate bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions
		WHERE organization_id = $1 AND transaction_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.db(ctx).Query(ctx, query, organizationID, transactionID)
	if err != nil {
		return nil, mapError(err, "failed to find transaction")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("transaction", transactionID)
		}
		return nil, mapError(err, "failed to scan transaction")
	}
	entries, err := r.entriesFor(ctx, organizationID, []string{transactionID})
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(m, entries[transactionID])
	return &txn, nil
}

// FindTransactionByID retrieves a transaction with its entries.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, organizationID, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, organizationID, transactionID, false)
}

// FindTransactionByIDForUpdate retrieves a transaction and locks its header row.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, organizationID, transactionID string) (*domain.Transaction, error) {
	if !inTx(ctx) {
		return nil, fmt.Errorf("FindTransactionByIDForUpdate requires a transaction")
	}
	return r.findTransaction(ctx, organizationID, transactionID, true)
}

// ListTransactions lists transactions newest first. One extra row is fetched to
// decide whether a next page exists.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []any{organizationID}
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE organization_id = $1`
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		query += ` AND (transaction_date, created_at, transaction_id) < ($2, $3, $4)`
		args = append(args, cursor.TransactionDate, cursor.CreatedAt, cursor.TransactionID)
	}
	query += fmt.Sprintf(` ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "failed to list transactions")
	}
	headers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, nil, mapError(err, "failed to scan transactions")
	}

	var token *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[len(headers)-1]
		t := pagination.EncodeToken(pagination.Cursor{TransactionDate: last.TransactionDate, CreatedAt: last.CreatedAt, TransactionID: last.TransactionID})
		token = &t
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TransactionID
	}
	entries, err := r.entriesFor(ctx, organizationID, ids)
	if err != nil {
		return nil, nil, err
	}
	out := make([]domain.Transaction, len(headers))
	for i, h := range headers {
		out[i] = mapping.ToDomainTransaction(h, entries[h.TransactionID])
	}
	return out, token, nil
}

// ListEntries returns entries matching filter in posting order.
func (r *PgxTransactionRepository) ListEntries(ctx context.Context, organizationID string, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	conds := []string{"organization_id = $1"}
	args := []any{organizationID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.AccountID != "" {
		add("account_id = $%d", filter.AccountID)
	}
	if filter.From != nil {
		add("entry_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("entry_date <= $%d", *filter.To)
	}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY entry_date, created_at, line_no`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to list journal entries")
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, "failed to scan journal entries")
	}
	return mapping.ToDomainJournalEntries(entries), nil
}

// LastEntryDate returns the most recent entry date for an account, or nil.
func (r *PgxTransactionRepository) LastEntryDate(ctx context.Context, organizationID, accountID string) (*time.Time, error) {
	var last *time.Time
	err := r.db(ctx).QueryRow(ctx,
		`SELECT MAX(entry_date) FROM journal_entries WHERE organization_id = $1 AND account_id = $2`,
		organizationID, accountID).Scan(&last)
	if err != nil {
		return nil, mapError(err, "failed to find last entry date")
	}
	return last, nil
}

// FindTransactionNumbers maps transaction ids to their numbers.
func (r *PgxTransactionRepository) FindTransactionNumbers(ctx context.Context, organizationID string, transactionIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return out, nil
	}
	rows, err := r.db(ctx).Query(ctx, `SELECT transaction_id, transaction_number FROM ledger_transactions
		WHERE organization_id = $1 AND transaction_id = ANY($2)`, organizationID, transactionIDs)
	if err != nil {
		return nil, mapError(err, "failed to query transaction numbers")
	}
	defer rows.Close()
	for rows.Next() {
		var id, number string
		if err := rows.Scan(&id, &number); err != nil {
			return nil, mapError(err, "failed to scan transaction number")
		}
		out[id] = number
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating transaction numbers")
	}
	return out, nil
}

// NextTransactionSequence takes a transaction-scoped advisory lock on the
// organization and day, then counts the day's numbers. The lock is held until
// the surrounding transaction commits, so concurrent posters see each other's rows.
func (r *PgxTransactionRepository) NextTransactionSequence(ctx context.Context, organizationID string, day time.Time) (int, error) {
	if !inTx(ctx) {
		return 0, fmt.Errorf("NextTransactionSequence requires a transaction")
	}
	prefix := domain.TransactionNumberPrefix(day)
	if _, err := r.db(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, organizationID+"|"+prefix); err != nil {
		return 0, mapError(err, "failed to lock transaction sequence")
	}
	var n int
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM ledger_transactions WHERE organization_id = $1 AND transaction_number LIKE $2`,
		organizationID, prefix+"%").Scan(&n)
	if err != nil {
		return 0, mapError(err, "failed to count transaction sequence")
	}
	return n + 1, nil
}

// SaveTransaction inserts the header and all entries in one batch.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	h := mapping.ToModelTransaction(txn)
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO ledger_transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		h.TransactionID, h.OrganizationID, h.TransactionNumber, h.TransactionDate, h.Description,
		h.TotalDebits, h.TotalCredits, h.Status, h.ReversedAt, h.ReversedByID, h.ReversesTransactionID,
		h.CreatedAt, h.CreatedBy)
	for _, e := range mapping.ToModelJournalEntries(txn.Entries) {
		batch.Queue(`INSERT INTO journal_entries (`+entryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			e.EntryID, e.TransactionID, e.OrganizationID, e.LineNo, e.AccountID, e.EntryType, e.Amount,
			e.Description, e.ReferenceType, e.ReferenceID, e.EntryDate, e.CreatedAt)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return mapError(err, fmt.Sprintf("failed to save transaction %s", h.TransactionID))
		}
	}
	return nil
}

// MarkTransactionReversed links a transaction to its reversal.
func (r *PgxTransactionRepository) MarkTransactionReversed(ctx context.Context, organizationID, transactionID, reversingTransactionID string, reversedAt time.Time) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `
		UPDATE ledger_transactions
		SET status = $3, reversed_at = $4, reversed_by_id = $5
		WHERE organization_id = $1 AND transaction_id = $2`,
		organizationID, transactionID, string(domain.Reversed), reversedAt, reversingTransactionID)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to mark transaction %s reversed", transactionID))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFound("transaction", transactionID)
	}
	return nil
}
