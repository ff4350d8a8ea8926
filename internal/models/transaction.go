package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the ledger_transactions table.
type Transaction struct {
	TransactionID         string          `db:"transaction_id"`
	OrganizationID        string          `db:"organization_id"`
	TransactionNumber     string          `db:"transaction_number"`
	TransactionDate       time.Time       `db:"transaction_date"`
	Description           string          `db:"description"`
	TotalDebits           decimal.Decimal `db:"total_debits"`
	TotalCredits          decimal.Decimal `db:"total_credits"`
	Status                string          `db:"status"`
	ReversedAt            *time.Time      `db:"reversed_at"`
	ReversedByID          *string         `db:"reversed_by_id"`
	ReversesTransactionID *string         `db:"reverses_transaction_id"`
	CreatedAt             time.Time       `db:"created_at"`
	CreatedBy             string          `db:"created_by"`
}

// JournalEntry is a row of the journal_entries table. LineNo keeps the
// order entries were submitted in.
type JournalEntry struct {
	EntryID        string          `db:"entry_id"`
	TransactionID  string          `db:"transaction_id"`
	OrganizationID string          `db:"organization_id"`
	LineNo         int             `db:"line_no"`
	AccountID      string          `db:"account_id"`
	EntryType      string          `db:"entry_type"`
	Amount         decimal.Decimal `db:"amount"`
	Description    string          `db:"description"`
	ReferenceType  *string         `db:"reference_type"`
	ReferenceID    *string         `db:"reference_id"`
	EntryDate      time.Time       `db:"entry_date"`
	CreatedAt      time.Time       `db:"created_at"`
}
