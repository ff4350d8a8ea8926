package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// EntryFilter narrows journal entry range queries. Nil bounds are open.
type EntryFilter struct {
	AccountID string
	From      *time.Time
	To        *time.Time
}

// TransactionReader defines read operations for transactions and their entries.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its entries.
	FindTransactionByID(ctx context.Context, organizationID, transactionID string) (*domain.Transaction, error)

	// ListTransactions lists transactions newest first with cursor pagination.
	ListTransactions(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListEntries returns entries matching filter ordered by entry date then creation time.
	ListEntries(ctx context.Context, organizationID string, filter EntryFilter) ([]domain.JournalEntry, error)

	// LastEntryDate returns the date of the most recent entry for an account, or nil.
	LastEntryDate(ctx context.Context, organizationID, accountID string) (*time.Time, error)

	// FindTransactionNumbers maps transaction ids to their numbers.
	FindTransactionNumbers(ctx context.Context, organizationID string, transactionIDs []string) (map[string]string, error)
}

// TransactionWriter defines write operations. They must run inside
// TransactionManager.WithinTransaction.
type TransactionWriter interface {
	// NextTransactionSequence returns the 1-based sequence for a new transaction
	// created on day, serializing concurrent callers for the same organization and day.
	NextTransactionSequence(ctx context.Context, organizationID string, day time.Time) (int, error)

	// SaveTransaction persists a transaction and all its entries.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// FindTransactionByIDForUpdate retrieves and locks a transaction row.
	FindTransactionByIDForUpdate(ctx context.Context, organizationID, transactionID string) (*domain.Transaction, error)

	// MarkTransactionReversed links a transaction to its reversal.
	MarkTransactionReversed(ctx context.Context, organizationID, transactionID, reversingTransactionID string, reversedAt time.Time) error
}

// TransactionRepositoryFacade combines transaction read and write operations.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
