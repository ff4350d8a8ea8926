package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// FinancialStatementsSvc derives statements from ledger state.
type FinancialStatementsSvc interface {
	GenerateBalanceSheet(ctx context.Context, organizationID string, asOf time.Time) (*domain.BalanceSheet, error)
	GenerateIncomeStatement(ctx context.Context, organizationID string, period domain.Period) (*domain.IncomeStatement, error)
	GenerateCashFlowStatement(ctx context.Context, organizationID string, period domain.Period) (*domain.CashFlowStatement, error)
	CalculateFinancialRatios(balanceSheet domain.BalanceSheet, incomeStatement domain.IncomeStatement) domain.FinancialRatios

	// GenerateFinancialStatements builds all three statements for the period
	// (balance sheet as of its end) plus ratios.
	GenerateFinancialStatements(ctx context.Context, organizationID string, period domain.Period) (*domain.FinancialStatements, error)
}
