package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is one leg of a transaction to post.
type CreateEntryRequest struct {
	AccountID     string           `json:"accountID" binding:"required"`
	EntryType     domain.EntryType `json:"entryType" binding:"required"`
	Amount        decimal.Decimal  `json:"amount"`
	Description   string           `json:"description"`
	ReferenceType *string          `json:"referenceType"`
	ReferenceID   *string          `json:"referenceID"`
}

// CreateTransactionRequest defines the data needed to post a balanced transaction.
// Entry count, amounts and balance are validated by the ledger service so that
// every caller gets the same ordered precondition checks.
type CreateTransactionRequest struct {
	TransactionDate time.Time            `json:"transactionDate" binding:"required"`
	Description     string               `json:"description"`
	Entries         []CreateEntryRequest `json:"entries" binding:"dive"`
}

// ReverseTransactionRequest carries the reason for a reversal.
type ReverseTransactionRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}
