package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// LedgerWriterSvc posts and reverses transactions.
type LedgerWriterSvc interface {
	// CreateTransaction posts a balanced transaction atomically.
	CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error)

	// ReverseTransaction posts the mirror of a transaction and links the two.
	ReverseTransaction(ctx context.Context, organizationID string, transactionID string, reason string, actorID string) (*domain.Transaction, error)
}

// LedgerReaderSvc reads ledger state.
type LedgerReaderSvc interface {
	GetTransactionByID(ctx context.Context, organizationID string, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, organizationID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// GetAccountBalance reads the cached balance and latest entry date.
	GetAccountBalance(ctx context.Context, organizationID string, accountID string) (*domain.AccountBalance, error)

	// GenerateTrialBalance sums entries dated on or before asOf (nil means now).
	GenerateTrialBalance(ctx context.Context, organizationID string, asOf *time.Time) (*domain.TrialBalance, error)

	// ValidateAccountingEquation checks Assets = Liabilities + Equity on cached balances.
	ValidateAccountingEquation(ctx context.Context, organizationID string) (*domain.AccountingEquationCheck, error)
}

// JournalSvcFacade is the ledger engine.
type JournalSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
