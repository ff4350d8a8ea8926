package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists the account types in chart order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the closed set of account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalBalance returns the side on which accounts of this type accumulate value.
func (t AccountType) NormalBalance() EntryType {
	if t == Asset || t == Expense {
		return Debit
	}
	return Credit
}

// SortOrder orders account types the way a chart of accounts lists them.
func (t AccountType) SortOrder() int {
	for i, at := range AccountTypes {
		if at == t {
			return i
		}
	}
	return len(AccountTypes)
}

// LiquidityClass tags balance sheet accounts as current or non-current.
type LiquidityClass string

const (
	Current    LiquidityClass = "CURRENT"
	NonCurrent LiquidityClass = "NON_CURRENT"
)

// IsValid reports whether c is a known liquidity class.
func (c LiquidityClass) IsValid() bool {
	return c == Current || c == NonCurrent
}

// AccountNumberLength is the fixed width of an account number.
const AccountNumberLength = 4

// MaxHierarchyDepth bounds how many levels GetAccountHierarchy renders.
// Deeper chains are valid and are simply not expanded further.
const MaxHierarchyDepth = 4

// TypeForAccountNumber returns the account type implied by the leading digit of number.
// 1=ASSET, 2=LIABILITY, 3=EQUITY, 4=REVENUE, 5 or 6=EXPENSE.
func TypeForAccountNumber(number string) (AccountType, bool) {
	if len(number) != AccountNumberLength {
		return "", false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	switch number[0] {
	case '1':
		return Asset, true
	case '2':
		return Liability, true
	case '3':
		return Equity, true
	case '4':
		return Revenue, true
	case '5', '6':
		return Expense, true
	}
	return "", false
}

// AccountNumberMatchesType reports whether number is well formed for accountType.
func AccountNumberMatchesType(number string, accountType AccountType) bool {
	t, ok := TypeForAccountNumber(number)
	return ok && t == accountType
}

// Account represents a node in an organization's chart of accounts.
type Account struct {
	AccountID       string          `json:"accountID"`
	OrganizationID  string          `json:"organizationID"`
	AccountNumber   string          `json:"accountNumber"`
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	LiquidityClass  LiquidityClass  `json:"liquidityClass,omitempty"`
	ParentAccountID *string         `json:"parentAccountID,omitempty"`
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"`
	IsSystemAccount bool            `json:"isSystemAccount"`
	Balance         decimal.Decimal `json:"balance"` // cached, in the account's normal direction
	DeletedAt       *time.Time      `json:"deletedAt,omitempty"`
	AuditFields
}

// IsDeleted reports whether the account has been soft-deleted.
func (a Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// ParentID returns the parent id or "" for root accounts.
func (a Account) ParentID() string {
	if a.ParentAccountID == nil {
		return ""
	}
	return *a.ParentAccountID
}

// IsCurrent reports whether a balance sheet account is classified current.
func (a Account) IsCurrent() bool {
	return a.LiquidityClass == Current
}

func (a Account) nameHas(words ...string) bool {
	name := strings.ToLower(a.Name)
	for _, w := range words {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// IsCash reports whether the account holds cash or cash equivalents.
func (a Account) IsCash() bool {
	return a.AccountType == Asset && a.IsCurrent() && a.nameHas("cash", "bank")
}

// IsReceivable reports whether the account is a receivable.
func (a Account) IsReceivable() bool {
	return a.AccountType == Asset && a.nameHas("receivable")
}

// IsInventory reports whether the account holds inventory.
func (a Account) IsInventory() bool {
	return a.AccountType == Asset && a.nameHas("inventory")
}

// IsPrepaid reports whether the account is a prepaid asset.
func (a Account) IsPrepaid() bool {
	return a.AccountType == Asset && a.nameHas("prepaid")
}

// IsPayable reports whether the account is a trade payable.
func (a Account) IsPayable() bool {
	return a.AccountType == Liability && a.IsCurrent() && a.nameHas("accounts payable", "trade payable")
}

// IsAccumulatedDepreciation reports whether the account is a contra-asset
// accumulating depreciation or amortization.
func (a Account) IsAccumulatedDepreciation() bool {
	return a.AccountType == Asset && a.nameHas("accumulated depreciation", "accumulated amortization")
}

// DefaultLiquidityClass derives a liquidity class for new accounts that do not
// specify one. Only assets and liabilities carry a class.
func DefaultLiquidityClass(accountType AccountType, number, name string) LiquidityClass {
	lower := strings.ToLower(name)
	hasAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
	switch accountType {
	case Asset:
		if hasAny("non-current", "noncurrent", "long-term") {
			return NonCurrent
		}
		if strings.HasPrefix(number, "11") || strings.HasPrefix(number, "12") {
			return Current
		}
		if hasAny("cash", "receivable", "inventory", "prepaid", "current") {
			return Current
		}
		return NonCurrent
	case Liability:
		if hasAny("non-current", "noncurrent", "long-term") {
			return NonCurrent
		}
		if hasAny("payable", "accrued", "short-term", "current") {
			return Current
		}
		return NonCurrent
	}
	return ""
}

// RevenueClass groups revenue on the income statement.
type RevenueClass string

const (
	OperatingRevenue RevenueClass = "OPERATING"
	OtherRevenue     RevenueClass = "OTHER"
)

// ExpenseClass groups expenses on the income statement.
type ExpenseClass string

const (
	CostOfGoodsSold  ExpenseClass = "COGS"
	OperatingExpense ExpenseClass = "OPERATING"
	OtherExpense     ExpenseClass = "OTHER"
)

// RevenueClassOf classifies a revenue account.
func RevenueClassOf(a Account) RevenueClass {
	if a.nameHas("other", "miscellaneous") {
		return OtherRevenue
	}
	return OperatingRevenue
}

// ExpenseClassOf classifies an expense account.
func ExpenseClassOf(a Account) ExpenseClass {
	if a.nameHas("cost of") || strings.HasPrefix(a.AccountNumber, "50") {
		return CostOfGoodsSold
	}
	if a.nameHas("interest", "other", "misc") {
		return OtherExpense
	}
	return OperatingExpense
}

// ChartOfAccounts groups an organization's accounts by type, each group sorted by number.
type ChartOfAccounts struct {
	OrganizationID string                    `json:"organizationID"`
	Groups         map[AccountType][]Account `json:"groups"`
	Total          int                       `json:"total"`
}

// AccountNode is an account with its nested children.
type AccountNode struct {
	Account  Account       `json:"account"`
	Depth    int           `json:"depth"`
	Children []AccountNode `json:"children,omitempty"`
}

// BusinessType selects the standard chart template.
type BusinessType string

const (
	SoleProprietorship BusinessType = "SOLE_PROPRIETORSHIP"
	Corporation        BusinessType = "CORPORATION"
	Partnership        BusinessType = "PARTNERSHIP"
	LLC                BusinessType = "LLC"
)

// IsValid reports whether b is a supported business type.
func (b BusinessType) IsValid() bool {
	switch b {
	case SoleProprietorship, Corporation, Partnership, LLC:
		return true
	}
	return false
}
