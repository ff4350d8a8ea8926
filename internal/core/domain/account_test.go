package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAccountNumberMatchesType(t *testing.T) {
	tests := []struct {
		number string
		typ    domain.AccountType
		want   bool
	}{
		{"1000", domain.Asset, true},
		{"1999", domain.Asset, true},
		{"2000", domain.Liability, true},
		{"3100", domain.Equity, true},
		{"4000", domain.Revenue, true},
		{"5000", domain.Expense, true},
		{"6100", domain.Expense, true},
		{"2000", domain.Asset, false},
		{"7000", domain.Expense, false},
		{"0100", domain.Asset, false},
		{"100", domain.Asset, false},
		{"10000", domain.Asset, false},
		{"1a00", domain.Asset, false},
		{"", domain.Asset, false},
	}

	for _, tt := range tests {
		t.Run(tt.number+"_"+string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, domain.AccountNumberMatchesType(tt.number, tt.typ))
		})
	}
}

func TestDefaultLiquidityClass(t *testing.T) {
	tests := []struct {
		name   string
		typ    domain.AccountType
		number string
		want   domain.LiquidityClass
	}{
		{"Cash", domain.Asset, "1010", domain.Current},
		{"Accounts Receivable", domain.Asset, "1100", domain.Current},
		{"Widgets", domain.Asset, "1210", domain.Current},
		{"Prepaid Insurance", domain.Asset, "1300", domain.Current},
		{"Equipment", domain.Asset, "1510", domain.NonCurrent},
		{"Long-term Investments", domain.Asset, "1600", domain.NonCurrent},
		{"Accounts Payable", domain.Liability, "2010", domain.Current},
		{"Accrued Liabilities", domain.Liability, "2100", domain.Current},
		{"Long-term Notes Payable", domain.Liability, "2510", domain.NonCurrent},
		{"Mortgage", domain.Liability, "2600", domain.NonCurrent},
		{"Retained Earnings", domain.Equity, "3200", ""},
		{"Sales", domain.Revenue, "4010", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DefaultLiquidityClass(tt.typ, tt.number, tt.name))
		})
	}
}

func TestExpenseClassOf(t *testing.T) {
	assert.Equal(t, domain.CostOfGoodsSold, domain.ExpenseClassOf(domain.Account{Name: "Cost of Goods Sold", AccountNumber: "5000"}))
	assert.Equal(t, domain.CostOfGoodsSold, domain.ExpenseClassOf(domain.Account{Name: "Freight In", AccountNumber: "5010"}))
	assert.Equal(t, domain.OtherExpense, domain.ExpenseClassOf(domain.Account{Name: "Interest Expense", AccountNumber: "6900"}))
	assert.Equal(t, domain.OperatingExpense, domain.ExpenseClassOf(domain.Account{Name: "Rent Expense", AccountNumber: "6020"}))
}

func TestRevenueClassOf(t *testing.T) {
	assert.Equal(t, domain.OtherRevenue, domain.RevenueClassOf(domain.Account{Name: "Other Income"}))
	assert.Equal(t, domain.OperatingRevenue, domain.RevenueClassOf(domain.Account{Name: "Sales Revenue"}))
}

func TestAccountType_NormalBalance(t *testing.T) {
	assert.Equal(t, domain.Debit, domain.Asset.NormalBalance())
	assert.Equal(t, domain.Debit, domain.Expense.NormalBalance())
	assert.Equal(t, domain.Credit, domain.Liability.NormalBalance())
	assert.Equal(t, domain.Credit, domain.Equity.NormalBalance())
	assert.Equal(t, domain.Credit, domain.Revenue.NormalBalance())
}

func TestRateCashConversionCycle(t *testing.T) {
	assert.Equal(t, domain.CCCExcellent, domain.RateCashConversionCycle(30))
	assert.Equal(t, domain.CCCGood, domain.RateCashConversionCycle(45))
	assert.Equal(t, domain.CCCAverage, domain.RateCashConversionCycle(90))
	assert.Equal(t, domain.CCCPoor, domain.RateCashConversionCycle(90.5))
}
