package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountActivity is the sum of debit and credit entry amounts posted to one account.
type AccountActivity struct {
	AccountID string          `json:"accountID"`
	Debits    decimal.Decimal `json:"debits"`
	Credits   decimal.Decimal `json:"credits"`
}

// Net returns the activity signed in the normal direction of accountType.
func (a AccountActivity) Net(accountType AccountType) decimal.Decimal {
	if accountType.NormalBalance() == Debit {
		return a.Debits.Sub(a.Credits)
	}
	return a.Credits.Sub(a.Debits)
}

// TrialBalanceEntry is a per-account snapshot derived from entries up to a cutoff.
type TrialBalanceEntry struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	DebitTotal    decimal.Decimal `json:"debitTotal"`
	CreditTotal   decimal.Decimal `json:"creditTotal"`
	Balance       decimal.Decimal `json:"balance"`
	NormalBalance EntryType       `json:"normalBalance"`
}

// TrialBalance lists non-zero account balances and their natural-side totals.
type TrialBalance struct {
	OrganizationID string              `json:"organizationID"`
	AsOfDate       time.Time           `json:"asOfDate"`
	Entries        []TrialBalanceEntry `json:"entries"`
	TotalDebits    decimal.Decimal     `json:"totalDebits"`
	TotalCredits   decimal.Decimal     `json:"totalCredits"`
	IsBalanced     bool                `json:"isBalanced"`
}

// AccountBalance is an account's cached balance and the date of its latest entry.
type AccountBalance struct {
	AccountID           string          `json:"accountID"`
	Balance             decimal.Decimal `json:"balance"`
	LastTransactionDate *time.Time      `json:"lastTransactionDate,omitempty"`
}

// AccountingEquationCheck reports whether Assets = Liabilities + Equity.
type AccountingEquationCheck struct {
	IsValid     bool            `json:"isValid"`
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
	Difference  decimal.Decimal `json:"difference"`
}

// TrialBalanceReportRow is one account of the hierarchical trial balance report.
type TrialBalanceReportRow struct {
	AccountID       string          `json:"accountID"`
	AccountNumber   string          `json:"accountNumber"`
	AccountName     string          `json:"accountName"`
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID *string         `json:"parentAccountID,omitempty"`
	Depth           int             `json:"depth"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	YTDDebits       decimal.Decimal `json:"ytdDebits"`
	YTDCredits      decimal.Decimal `json:"ytdCredits"`
	ClosingBalance  decimal.Decimal `json:"closingBalance"`
	RollupBalance   decimal.Decimal `json:"rollupBalance"`
}

// TrialBalanceReport is a trial balance with hierarchy and fiscal-year-to-date detail.
type TrialBalanceReport struct {
	OrganizationID  string                  `json:"organizationID"`
	AsOfDate        time.Time               `json:"asOfDate"`
	FiscalYearStart time.Time               `json:"fiscalYearStart"`
	Rows            []TrialBalanceReportRow `json:"rows"`
	TotalDebits     decimal.Decimal         `json:"totalDebits"`
	TotalCredits    decimal.Decimal         `json:"totalCredits"`
	IsBalanced      bool                    `json:"isBalanced"`
}

// PeriodComparisonRow compares one account's net activity across two periods.
type PeriodComparisonRow struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	Current       decimal.Decimal `json:"current"`
	Prior         decimal.Decimal `json:"prior"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent *float64        `json:"changePercent,omitempty"`
}

// PeriodComparison is per-account activity for two periods.
type PeriodComparison struct {
	OrganizationID string                `json:"organizationID"`
	Current        Period                `json:"current"`
	Prior          Period                `json:"prior"`
	Rows           []PeriodComparisonRow `json:"rows"`
}

// StatementLine is an entry of an account statement with its running balance.
type StatementLine struct {
	Entry             JournalEntry    `json:"entry"`
	TransactionNumber string          `json:"transactionNumber,omitempty"`
	SignedAmount      decimal.Decimal `json:"signedAmount"`
	RunningBalance    decimal.Decimal `json:"runningBalance"`
}

// AccountStatement lists an account's entries within a period.
type AccountStatement struct {
	Account        Account         `json:"account"`
	Period         Period          `json:"period"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []StatementLine `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
