package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID       string          `db:"account_id"`
	OrganizationID  string          `db:"organization_id"`
	AccountNumber   string          `db:"account_number"`
	Name            string          `db:"name"`
	AccountType     string          `db:"account_type"`
	LiquidityClass  string          `db:"liquidity_class"` // '' for income statement accounts
	ParentAccountID *string         `db:"parent_account_id"`
	Description     string          `db:"description"`
	IsActive        bool            `db:"is_active"`
	IsSystemAccount bool            `db:"is_system_account"`
	Balance         decimal.Decimal `db:"balance"`
	DeletedAt       *time.Time      `db:"deleted_at"`
	AuditFields
}
