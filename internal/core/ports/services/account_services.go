package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error)

	// GetAccountByNumber retrieves an account by its organization-scoped number.
	GetAccountByNumber(ctx context.Context, organizationID string, number string) (*domain.Account, error)

	// GetChartOfAccounts returns accounts grouped by type, sorted by (type, number).
	GetChartOfAccounts(ctx context.Context, organizationID string, includeInactive bool) (*domain.ChartOfAccounts, error)

	// GetAccountHierarchy returns root accounts with nested children, bounded by domain.MaxHierarchyDepth.
	GetAccountHierarchy(ctx context.Context, organizationID string) ([]domain.AccountNode, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount validates and persists a new account.
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount re-validates changed fields and rejects cyclic reparenting.
	UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount soft-deletes an account with no entries and no children.
	DeleteAccount(ctx context.Context, organizationID string, accountID string, userID string) error

	// CreateStandardChartOfAccounts seeds the built-in template for a business type.
	CreateStandardChartOfAccounts(ctx context.Context, organizationID string, businessType domain.BusinessType, userID string) ([]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
