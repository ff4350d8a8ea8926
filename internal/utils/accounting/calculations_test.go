package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateSignedAmount(t *testing.T) {
	debit := domain.JournalEntry{AccountID: "a", EntryType: domain.Debit, Amount: d("10")}
	credit := domain.JournalEntry{AccountID: "a", EntryType: domain.Credit, Amount: d("10")}

	tests := []struct {
		name  string
		entry domain.JournalEntry
		typ   domain.AccountType
		want  string
	}{
		{"debit asset", debit, domain.Asset, "10"},
		{"credit asset", credit, domain.Asset, "-10"},
		{"debit expense", debit, domain.Expense, "10"},
		{"credit liability", credit, domain.Liability, "10"},
		{"debit revenue", debit, domain.Revenue, "-10"},
		{"credit equity", credit, domain.Equity, "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSignedAmount(tt.entry, tt.typ)
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := CalculateSignedAmount(debit, domain.AccountType("GOODWILL"))
	assert.Error(t, err)
	_, err = CalculateSignedAmount(domain.JournalEntry{EntryType: "SIDEWAYS"}, domain.Asset)
	assert.Error(t, err)
}

func TestBalanceChanges_NetsPerAccount(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash":    {AccountID: "cash", AccountType: domain.Asset},
		"revenue": {AccountID: "revenue", AccountType: domain.Revenue},
	}
	entries := []domain.JournalEntry{
		{AccountID: "cash", EntryType: domain.Debit, Amount: d("100")},
		{AccountID: "cash", EntryType: domain.Credit, Amount: d("30")},
		{AccountID: "revenue", EntryType: domain.Credit, Amount: d("70")},
	}

	changes, err := BalanceChanges(entries, accounts)
	require.NoError(t, err)
	assert.True(t, d("70").Equal(changes["cash"]))
	assert.True(t, d("70").Equal(changes["revenue"]))

	_, err = BalanceChanges([]domain.JournalEntry{{AccountID: "ghost", EntryType: domain.Debit, Amount: d("1")}}, accounts)
	assert.Error(t, err)
}

func TestRatiosAndPercentages(t *testing.T) {
	r, ok := Ratio(d("1"), d("3"))
	assert.True(t, ok)
	assert.InDelta(t, 0.333333, r, 1e-9)

	_, ok = Ratio(d("1"), decimal.Zero)
	assert.False(t, ok)

	pc := PercentChange(d("150"), d("100"))
	require.NotNil(t, pc)
	assert.InDelta(t, 50.0, *pc, 1e-9)

	pc = PercentChange(d("-50"), d("-100"))
	require.NotNil(t, pc)
	assert.InDelta(t, 50.0, *pc, 1e-9, "change is measured against the absolute prior value")

	assert.Nil(t, PercentChange(d("10"), decimal.Zero))
	assert.InDelta(t, 25.0, Percent(d("1"), d("4")), 1e-9)
	assert.Equal(t, 0.0, Percent(d("1"), decimal.Zero))
}

func TestMeanStdDev(t *testing.T) {
	mean, sd := MeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 2.0, sd, 1e-9)

	mean, sd = MeanStdDev(nil)
	assert.Zero(t, mean)
	assert.Zero(t, sd)
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, "12.35", RoundCurrency(d("12.345")).String())
	assert.Equal(t, "-0.01", RoundCurrency(d("-0.005")).String())
}
