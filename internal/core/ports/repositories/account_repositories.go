package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
// Every lookup is scoped to an organization; accounts of other organizations
// and soft-deleted accounts are reported as apperrors.ErrNotFound.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its account number.
	FindAccountByNumber(ctx context.Context, organizationID, number string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are omitted.
	FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all non-deleted accounts of an organization ordered by number.
	ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error)

	// ListChildAccounts retrieves the non-deleted direct children of an account.
	ListChildAccounts(ctx context.Context, organizationID, parentAccountID string) ([]domain.Account, error)

	// CountEntriesForAccount counts journal entries referencing an account.
	CountEntriesForAccount(ctx context.Context, organizationID, accountID string) (int, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. A duplicate number yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details (not its balance).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// SoftDeleteAccount stamps deleted_at on an account.
	SoftDeleteAccount(ctx context.Context, organizationID, accountID, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations used while posting.
// They must be called with a context obtained from TransactionManager.WithinTransaction.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them until the surrounding transaction ends.
	FindAccountsByIDsForUpdate(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalances adds signed deltas to cached balances.
	UpdateAccountBalances(ctx context.Context, organizationID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
