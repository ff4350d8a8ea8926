package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor is the position after the last transaction of a page. Transactions
// are listed by transaction date, then creation time, then id, all descending.
type Cursor struct {
	TransactionDate time.Time
	CreatedAt       time.Time
	TransactionID   string
}

// After reports whether a row sorts strictly after the cursor in listing order.
func (c Cursor) After(transactionDate, createdAt time.Time, transactionID string) bool {
	if !transactionDate.Equal(c.TransactionDate) {
		return transactionDate.Before(c.TransactionDate)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return transactionID < c.TransactionID
}

// EncodeToken creates a URL-safe token for the cursor.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.TransactionDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.TransactionID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken. Malformed tokens are validation errors.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, invalid("base64 decode")
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, invalid("split")
	}

	transactionDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, invalid("transaction date parse")
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, invalid("created_at parse")
	}

	return Cursor{TransactionDate: transactionDate, CreatedAt: createdAt, TransactionID: parts[2]}, nil
}

func invalid(stage string) error {
	return apperrors.NewValidation(apperrors.ReasonInvalidPageToken, "invalid pagination token format (%s)", stage)
}
