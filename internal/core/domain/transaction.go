package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the side of a journal entry.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// IsValid reports whether e is DEBIT or CREDIT.
func (e EntryType) IsValid() bool {
	return e == Debit || e == Credit
}

// Opposite flips DEBIT and CREDIT.
func (e EntryType) Opposite() EntryType {
	if e == Debit {
		return Credit
	}
	return Debit
}

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	Posted   TransactionStatus = "POSTED"
	Reversed TransactionStatus = "REVERSED"
)

// BalanceTolerance is the absolute tolerance used for every debit/credit and equation check.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// WithinTolerance reports whether |a-b| < BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(BalanceTolerance)
}

// Transaction is an atomic, balanced unit of financial activity.
type Transaction struct {
	TransactionID         string            `json:"transactionID"`
	OrganizationID        string            `json:"organizationID"`
	TransactionNumber     string            `json:"transactionNumber"`
	TransactionDate       time.Time         `json:"transactionDate"`
	Description           string            `json:"description"`
	TotalDebits           decimal.Decimal   `json:"totalDebits"`
	TotalCredits          decimal.Decimal   `json:"totalCredits"`
	Status                TransactionStatus `json:"status"`
	ReversedAt            *time.Time        `json:"reversedAt,omitempty"`
	ReversedByID          *string           `json:"reversedByTransactionID,omitempty"`
	ReversesTransactionID *string           `json:"reversesTransactionID,omitempty"`
	CreatedAt             time.Time         `json:"createdAt"`
	CreatedBy             string            `json:"createdBy"`
	Entries               []JournalEntry    `json:"entries"`
}

// IsReversed reports whether the transaction has been reversed.
func (t Transaction) IsReversed() bool {
	return t.Status == Reversed || t.ReversedAt != nil
}

// JournalEntry is one leg of a Transaction. Immutable once created.
type JournalEntry struct {
	EntryID        string          `json:"entryID"`
	TransactionID  string          `json:"transactionID"`
	OrganizationID string          `json:"organizationID"`
	AccountID      string          `json:"accountID"`
	EntryType      EntryType       `json:"entryType"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	ReferenceType  *string         `json:"referenceType,omitempty"`
	ReferenceID    *string         `json:"referenceID,omitempty"`
	EntryDate      time.Time       `json:"entryDate"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SignedAmount returns the entry's effect on an account of the given type:
// positive when it moves the balance in the account's normal direction.
func (e JournalEntry) SignedAmount(accountType AccountType) decimal.Decimal {
	if e.EntryType == accountType.NormalBalance() {
		return e.Amount
	}
	return e.Amount.Neg()
}

// Totals returns the debit and credit sums of entries.
func Totals(entries []JournalEntry) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.EntryType {
		case Debit:
			debits = debits.Add(e.Amount)
		case Credit:
			credits = credits.Add(e.Amount)
		}
	}
	return debits, credits
}

// FormatTransactionNumber renders TXN-YYYYMMDD-NNNN.
func FormatTransactionNumber(day time.Time, sequence int) string {
	return fmt.Sprintf("TXN-%s-%04d", day.Format("20060102"), sequence)
}

// TransactionNumberPrefix is the day-scoped prefix shared by a day's transaction numbers.
func TransactionNumberPrefix(day time.Time) string {
	return "TXN-" + day.Format("20060102") + "-"
}
