package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ForecastOptions tunes projections. Zero values select defaults.
type ForecastOptions struct {
	Horizon    int
	GrowthRate *float64
	Method     domain.ForecastMethod
}

// BalanceSheetAnalysisSvc performs comparative and trend analysis of balance sheets.
type BalanceSheetAnalysisSvc interface {
	GenerateComparativeBalanceSheet(ctx context.Context, organizationID string, current, prior time.Time) (*domain.ComparativeBalanceSheet, error)
	AnalyzeBalanceSheetTrends(ctx context.Context, organizationID string, dates []time.Time) (*domain.TrendAnalysis, error)
}

// IncomeStatementAnalysisSvc performs comparative, break-even and forecast analysis.
type IncomeStatementAnalysisSvc interface {
	GenerateComparativeIncomeStatement(ctx context.Context, organizationID string, current, prior domain.Period) (*domain.ComparativeIncomeStatement, error)
	PerformBreakEvenAnalysis(ctx context.Context, organizationID string, period domain.Period) (*domain.BreakEvenAnalysis, error)
	AnalyzeIncomeTrends(ctx context.Context, organizationID string, periods []domain.Period) (*domain.TrendAnalysis, error)
	GenerateProfitabilityForecast(ctx context.Context, organizationID string, history []domain.Period, opts ForecastOptions) (*domain.ProfitabilityForecast, error)
}

// CashFlowAnalysisSvc analyses and projects cash flows.
type CashFlowAnalysisSvc interface {
	CalculateCashConversionCycle(ctx context.Context, organizationID string, period domain.Period) (*domain.CashConversionCycle, error)
	GenerateCashFlowAnalysis(ctx context.Context, organizationID string, periods []domain.Period) (*domain.CashFlowAnalysis, error)
	GenerateCashFlowForecast(ctx context.Context, organizationID string, history []domain.Period, opts ForecastOptions) (*domain.CashFlowForecast, error)
	RunStressTest(ctx context.Context, organizationID string, period domain.Period, scenarios []domain.StressScenario) (*domain.StressTestReport, error)
}

// ExportSvc renders reports. PDF and Excel are not implemented.
type ExportSvc interface {
	// Export encodes report and returns the payload with its content type.
	Export(report any, format domain.ExportFormat) ([]byte, string, error)
}
