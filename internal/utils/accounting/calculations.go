package accounting

import (
	"fmt"
	"math"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateSignedAmount applies the correct sign to an entry amount based on account type.
// This is used in both services and repositories to ensure consistent accounting logic.
// DEBIT to ASSET/EXPENSE and CREDIT to LIABILITY/EQUITY/REVENUE are positive.
func CalculateSignedAmount(entry domain.JournalEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
	}
	if !entry.EntryType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown entry type '%s' for account ID %s", entry.EntryType, entry.AccountID)
	}
	return entry.SignedAmount(accountType), nil
}

// BalanceChanges computes the net cached-balance delta per account for a set of entries.
func BalanceChanges(entries []domain.JournalEntry, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accounts))
	for _, e := range entries {
		acc, ok := accounts[e.AccountID]
		if !ok {
			return nil, fmt.Errorf("account %s not loaded", e.AccountID)
		}
		signed, err := CalculateSignedAmount(e, acc.AccountType)
		if err != nil {
			return nil, err
		}
		changes[e.AccountID] = changes[e.AccountID].Add(signed)
	}
	return changes, nil
}

// Ratio divides num by den as a display float. ok is false when den is zero.
func Ratio(num, den decimal.Decimal) (float64, bool) {
	if den.IsZero() {
		return 0, false
	}
	f, _ := num.DivRound(den, 6).Float64()
	return f, true
}

// PercentChange returns (current-prior)/|prior|*100, or nil when prior is zero.
func PercentChange(current, prior decimal.Decimal) *float64 {
	if prior.IsZero() {
		return nil
	}
	f, _ := current.Sub(prior).Mul(hundred).DivRound(prior.Abs(), 4).Float64()
	return &f
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	f, _ := part.Mul(hundred).DivRound(whole, 4).Float64()
	return f
}

// MeanStdDev returns the mean and population standard deviation of values.
func MeanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		stddev += (v - mean) * (v - mean)
	}
	stddev = math.Sqrt(stddev / float64(len(values)))
	return mean, stddev
}

// RoundCurrency rounds to cents.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
