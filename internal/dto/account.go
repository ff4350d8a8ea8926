package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountNumber   string                 `json:"accountNumber" binding:"required,account_number"`
	Name            string                 `json:"name" binding:"required,max=255"`
	AccountType     domain.AccountType     `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string                `json:"parentAccountID"` // Optional, use pointer for nullability
	Description     string                 `json:"description"`
	LiquidityClass  *domain.LiquidityClass `json:"liquidityClass" binding:"omitempty,oneof=CURRENT NON_CURRENT"`
	IsSystemAccount bool                   `json:"isSystemAccount"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	AccountNumber   *string                `json:"accountNumber" binding:"omitempty,account_number"`
	Name            *string                `json:"name" binding:"omitempty,max=255"`
	Description     *string                `json:"description"`
	ParentAccountID *string                `json:"parentAccountID"`
	ClearParent     bool                   `json:"clearParent"` // makes the account a root account
	LiquidityClass  *domain.LiquidityClass `json:"liquidityClass" binding:"omitempty,oneof=CURRENT NON_CURRENT"`
	IsActive        *bool                  `json:"isActive"`
}

// CreateStandardChartRequest selects the template for seeding a chart of accounts.
type CreateStandardChartRequest struct {
	BusinessType domain.BusinessType `json:"businessType" binding:"required,oneof=SOLE_PROPRIETORSHIP CORPORATION PARTNERSHIP LLC"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                `json:"accountID"`
	OrganizationID  string                `json:"organizationID"`
	AccountNumber   string                `json:"accountNumber"`
	Name            string                `json:"name"`
	AccountType     domain.AccountType    `json:"accountType"`
	LiquidityClass  domain.LiquidityClass `json:"liquidityClass,omitempty"`
	ParentAccountID *string               `json:"parentAccountID,omitempty"`
	Description     string                `json:"description"`
	IsActive        bool                  `json:"isActive"`
	IsSystemAccount bool                  `json:"isSystemAccount"`
	Balance         decimal.Decimal       `json:"balance"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy   string                `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		OrganizationID:  acc.OrganizationID,
		AccountNumber:   acc.AccountNumber,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		LiquidityClass:  acc.LiquidityClass,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		IsSystemAccount: acc.IsSystemAccount,
		Balance:         acc.Balance,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ChartOfAccountsResponse groups accounts by type.
type ChartOfAccountsResponse struct {
	OrganizationID string                                   `json:"organizationID"`
	Groups         map[domain.AccountType][]AccountResponse `json:"groups"`
	Total          int                                      `json:"total"`
}

// ToChartOfAccountsResponse converts a domain chart to its DTO.
func ToChartOfAccountsResponse(chart *domain.ChartOfAccounts) ChartOfAccountsResponse {
	groups := make(map[domain.AccountType][]AccountResponse, len(chart.Groups))
	for t, accounts := range chart.Groups {
		groups[t] = ToListAccountResponse(accounts)
	}
	return ChartOfAccountsResponse{OrganizationID: chart.OrganizationID, Groups: groups, Total: chart.Total}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID           string          `json:"accountID"`
	Balance             decimal.Decimal `json:"balance"`
	LastTransactionDate *time.Time      `json:"lastTransactionDate,omitempty"`
}
