package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const accountColumns = `account_id, organization_id, account_number, name, account_type, liquidity_class,
	parent_account_id, description, is_active, is_system_account, balance, deleted_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, op, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	modelAccs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, op)
	}
	return mapping.ToDomainAccountSlice(modelAccs), nil
}

func (r *PgxAccountRepository) queryAccount(ctx context.Context, op, id, query string, args ...any) (*domain.Account, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	modelAcc, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", id)
		}
		return nil, mapError(err, op)
	}
	acc := mapping.ToDomainAccount(modelAcc)
	return &acc, nil
}

func accountMap(accs []domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accs))
	for _, a := range accs {
		out[a.AccountID] = a
	}
	return out
}

// FindAccountByID retrieves a visible account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE organization_id = $1 AND account_id = $2 AND deleted_at IS NULL`
	return r.queryAccount(ctx, "failed to find account by ID", accountID, query, organizationID, accountID)
}

// FindAccountByNumber retrieves a visible account by its number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, organizationID, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE organization_id = $1 AND account_number = $2 AND deleted_at IS NULL`
	return r.queryAccount(ctx, "failed to find account by number", number, query, organizationID, number)
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE organization_id = $1 AND account_id = ANY($2) AND deleted_at IS NULL`
	accs, err := r.queryAccounts(ctx, "failed to query accounts by IDs", query, organizationID, accountIDs)
	if err != nil {
		return nil, err
	}
	return accountMap(accs), nil
}

// FindAccountsByIDsForUpdate locks the rows in id order so concurrent postings
// touching overlapping accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	if !inTx(ctx) {
		return nil, fmt.Errorf("FindAccountsByIDsForUpdate requires a transaction")
	}
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE organization_id = $1 AND account_id = ANY($2) AND deleted_at IS NULL
		ORDER BY account_id
		FOR UPDATE`
	accs, err := r.queryAccounts(ctx, "failed to lock accounts", query, organizationID, accountIDs)
	if err != nil {
		return nil, err
	}
	return accountMap(accs), nil
}

// ListAccounts retrieves every visible account of an organization ordered by number.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE organization_id = $1 AND deleted_at IS NULL AND ($2 OR is_active)
		ORDER BY account_number`
	return r.queryAccounts(ctx, "failed to list accounts", query, organizationID, includeInactive)
}

// ListChildAccounts retrieves the visible direct children of an account.
func (r *PgxAccountRepository) ListChildAccounts(ctx context.Context, organizationID, parentAccountID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE organization_id = $1 AND parent_account_id = $2 AND deleted_at IS NULL
		ORDER BY account_number`
	return r.queryAccounts(ctx, "failed to list child accounts", query, organizationID, parentAccountID)
}

// CountEntriesForAccount counts journal entries posted to an account.
func (r *PgxAccountRepository) CountEntriesForAccount(ctx context.Context, organizationID, accountID string) (int, error) {
	var n int
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE organization_id = $1 AND account_id = $2`,
		organizationID, accountID).Scan(&n)
	if err != nil {
		return 0, mapError(err, "failed to count entries for account")
	}
	return n, nil
}

// SaveAccount inserts a new account. The partial unique index on
// (organization_id, account_number) reports duplicates among live accounts.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.OrganizationID,
		m.AccountNumber,
		m.Name,
		m.AccountType,
		m.LiquidityClass,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.IsSystemAccount,
		m.Balance,
		m.DeletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to save account %s", m.AccountID))
	}
	return nil
}

// UpdateAccount updates an account's details. Balance and creation stamps are left untouched.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET account_number = $3, name = $4, liquidity_class = $5, parent_account_id = $6,
			description = $7, is_active = $8, last_updated_at = $9, last_updated_by = $10
		WHERE organization_id = $1 AND account_id = $2 AND deleted_at IS NULL`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.OrganizationID,
		m.AccountID,
		m.AccountNumber,
		m.Name,
		m.LiquidityClass,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to update account %s", m.AccountID))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFound("account", m.AccountID)
	}
	return nil
}

// SoftDeleteAccount stamps deleted_at and deactivates the account.
func (r *PgxAccountRepository) SoftDeleteAccount(ctx context.Context, organizationID, accountID, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET deleted_at = $3, is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1 AND account_id = $2 AND deleted_at IS NULL`
	cmdTag, err := r.db(ctx).Exec(ctx, query, organizationID, accountID, now, userID)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to delete account %s", accountID))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFound("account", accountID)
	}
	return nil
}

// UpdateAccountBalances applies every delta in one batch. Ids are sorted to
// keep lock order consistent with FindAccountsByIDsForUpdate.
func (r *PgxAccountRepository) UpdateAccountBalances(ctx context.Context, organizationID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	ids := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	query := `
		UPDATE accounts
		SET balance = balance + $3, last_updated_at = $4, last_updated_by = $5
		WHERE organization_id = $1 AND account_id = $2 AND deleted_at IS NULL`
	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, organizationID, id, balanceChanges[id], now, userID)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	defer br.Close()
	for _, id := range ids {
		cmdTag, err := br.Exec()
		if err != nil {
			return mapError(err, fmt.Sprintf("failed to update balance of account %s", id))
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFound("account", id)
		}
	}
	return nil
}
