package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

const daysPerYear = 365

// cashFlowAnalysisService works only from generated statements.
type cashFlowAnalysisService struct {
	BaseService
	statements portssvc.FinancialStatementsSvc
	growthRate float64
}

// CashFlowAnalysisOption is a functional option for configuring cash flow analysis
type CashFlowAnalysisOption func(*cashFlowAnalysisService)

// WithCashFlowGrowthRate sets the growth assumption used when history gives none.
func WithCashFlowGrowthRate(rate float64) CashFlowAnalysisOption {
	return func(s *cashFlowAnalysisService) {
		s.growthRate = rate
	}
}

// NewCashFlowAnalysisService creates the cash flow analysis service.
func NewCashFlowAnalysisService(statements portssvc.FinancialStatementsSvc, options ...CashFlowAnalysisOption) portssvc.CashFlowAnalysisSvc {
	svc := &cashFlowAnalysisService{statements: statements, growthRate: defaultGrowthRate}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CashFlowAnalysisSvc = (*cashFlowAnalysisService)(nil)

// CalculateCashConversionCycle uses period-end balances against period flows.
// Components whose flow is zero are reported as 0 and listed in Unavailable.
func (s *cashFlowAnalysisService) CalculateCashConversionCycle(ctx context.Context, organizationID string, period domain.Period) (*domain.CashConversionCycle, error) {
	is, err := s.statements.GenerateIncomeStatement(ctx, organizationID, period)
	if err != nil {
		return nil, err
	}
	if is.TotalRevenue.IsZero() {
		return nil, apperrors.InsufficientData("cash conversion cycle needs revenue in %s", period.Label())
	}
	bs, err := s.statements.GenerateBalanceSheet(ctx, organizationID, period.To)
	if err != nil {
		return nil, err
	}

	ccc := &domain.CashConversionCycle{OrganizationID: organizationID, Period: period}
	days := func(name string, balance, flow decimal.Decimal) float64 {
		r, ok := accounting.Ratio(balance, flow)
		if !ok {
			ccc.Unavailable = append(ccc.Unavailable, name)
			return 0
		}
		return r * daysPerYear
	}
	cogs := is.CostOfGoodsSold.Total
	ccc.DaysSalesOutstanding = days("daysSalesOutstanding", bs.KeyBalances.Receivables, is.TotalRevenue)
	ccc.DaysInventory = days("daysInventory", bs.KeyBalances.Inventory, cogs)
	ccc.DaysPayables = days("daysPayables", bs.KeyBalances.Payables, cogs)
	ccc.Cycle = ccc.DaysSalesOutstanding + ccc.DaysInventory - ccc.DaysPayables
	ccc.Rating = domain.RateCashConversionCycle(ccc.Cycle)
	return ccc, nil
}

func (s *cashFlowAnalysisService) cashFlows(ctx context.Context, organizationID string, periods []domain.Period) ([]*domain.CashFlowStatement, error) {
	out := make([]*domain.CashFlowStatement, 0, len(periods))
	for _, p := range periods {
		cf, err := s.statements.GenerateCashFlowStatement(ctx, organizationID, p)
		if err != nil {
			return nil, err
		}
		out = append(out, cf)
	}
	return out, nil
}

func (s *cashFlowAnalysisService) GenerateCashFlowAnalysis(ctx context.Context, organizationID string, periods []domain.Period) (*domain.CashFlowAnalysis, error) {
	if len(periods) == 0 {
		return nil, apperrors.InsufficientData("cash flow analysis needs at least one period")
	}
	flows, err := s.cashFlows(ctx, organizationID, periods)
	if err != nil {
		return nil, err
	}

	out := &domain.CashFlowAnalysis{
		OrganizationID: organizationID,
		Periods:        make([]domain.CashFlowPeriodSummary, 0, len(flows)),
		TotalFreeCash:  decimal.Zero,
	}
	operating := make([]decimal.Decimal, 0, len(flows))
	for _, cf := range flows {
		summary := domain.CashFlowPeriodSummary{
			Period:       cf.Period,
			NetIncome:    cf.NetIncome,
			Operating:    cf.NetOperatingCash,
			Investing:    cf.NetInvestingCash,
			Financing:    cf.NetFinancingCash,
			NetChange:    cf.NetChangeInCash,
			EndingCash:   cf.EndingCash,
			FreeCashFlow: cf.NetOperatingCash.Add(cf.NetInvestingCash),
		}
		if q, ok := accounting.Ratio(cf.NetOperatingCash, cf.NetIncome); ok {
			summary.EarningsQuality = &q
		}
		out.TotalFreeCash = out.TotalFreeCash.Add(summary.FreeCashFlow)
		out.Periods = append(out.Periods, summary)
		operating = append(operating, cf.NetOperatingCash)
	}
	out.OperatingTrend = buildTrendSeries("netOperatingCash", operating)
	return out, nil
}

// GenerateCashFlowForecast projects average historical flows forward from the
// last ending cash. Only operating cash grows; investing and financing stay at
// their historical averages.
func (s *cashFlowAnalysisService) GenerateCashFlowForecast(ctx context.Context, organizationID string, history []domain.Period, opts portssvc.ForecastOptions) (*domain.CashFlowForecast, error) {
	if len(history) < 2 {
		return nil, apperrors.InsufficientData("cash flow forecast needs at least 2 historical periods, got %d", len(history))
	}
	flows, err := s.cashFlows(ctx, organizationID, history)
	if err != nil {
		return nil, err
	}

	var operating, investing, financing []decimal.Decimal
	for _, cf := range flows {
		operating = append(operating, cf.NetOperatingCash)
		investing = append(investing, cf.NetInvestingCash)
		financing = append(financing, cf.NetFinancingCash)
	}

	fc := &domain.CashFlowForecast{
		OrganizationID: organizationID,
		Method:         forecastMethod(opts.Method),
		GrowthRate:     s.growthRate,
		StartingCash:   flows[len(flows)-1].EndingCash,
	}
	if opts.GrowthRate != nil {
		fc.GrowthRate = *opts.GrowthRate
	} else if g, ok := averageGrowth(operating); ok {
		fc.GrowthRate = g
	}

	avgOperating := meanDecimal(operating)
	avgInvesting := accounting.RoundCurrency(meanDecimal(investing))
	avgFinancing := accounting.RoundCurrency(meanDecimal(financing))
	cash := fc.StartingCash
	horizon := forecastHorizon(opts.Horizon)
	fc.Projections = make([]domain.CashFlowProjection, 0, horizon)
	for k := 1; k <= horizon; k++ {
		op := project(avgOperating, fc.GrowthRate, k, fc.Method)
		net := op.Add(avgInvesting).Add(avgFinancing)
		cash = cash.Add(net)
		fc.Projections = append(fc.Projections, domain.CashFlowProjection{
			Label:      projectionLabel(k),
			Operating:  op,
			Investing:  avgInvesting,
			Financing:  avgFinancing,
			NetChange:  net,
			EndingCash: cash,
		})
	}
	return fc, nil
}

// RunStressTest shocks the period's revenue and expenses and carries the change
// in net income through operating cash to ending cash.
func (s *cashFlowAnalysisService) RunStressTest(ctx context.Context, organizationID string, period domain.Period, scenarios []domain.StressScenario) (*domain.StressTestReport, error) {
	if len(scenarios) == 0 {
		scenarios = domain.DefaultStressScenarios
	}
	is, err := s.statements.GenerateIncomeStatement(ctx, organizationID, period)
	if err != nil {
		return nil, err
	}
	cf, err := s.statements.GenerateCashFlowStatement(ctx, organizationID, period)
	if err != nil {
		return nil, err
	}

	report := &domain.StressTestReport{
		OrganizationID:    organizationID,
		Period:            period,
		BaseNetIncome:     is.NetIncome,
		BaseOperatingCash: cf.NetOperatingCash,
		BaseEndingCash:    cf.EndingCash,
		Results:           make([]domain.StressResult, 0, len(scenarios)),
	}
	months := decimal.NewFromFloat(float64(period.Days()) / 30.0)
	hundred := decimal.NewFromInt(100)
	for _, sc := range scenarios {
		revenue := accounting.RoundCurrency(is.TotalRevenue.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(sc.RevenueChangePct).Div(hundred))))
		expenses := accounting.RoundCurrency(is.TotalExpenses().Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(sc.ExpenseChangePct).Div(hundred))))
		netIncome := revenue.Sub(expenses)
		operating := cf.NetOperatingCash.Add(netIncome.Sub(is.NetIncome))
		ending := cf.BeginningCash.Add(operating).Add(cf.NetInvestingCash).Add(cf.NetFinancingCash)

		res := domain.StressResult{
			Scenario:            sc,
			Revenue:             revenue,
			Expenses:            expenses,
			NetIncome:           netIncome,
			OperatingCash:       operating,
			EndingCash:          ending,
			RemainsCashPositive: ending.IsPositive(),
		}
		if operating.IsNegative() && months.IsPositive() {
			monthlyBurn := operating.Neg().Div(months)
			runway := 0.0
			if ending.IsPositive() {
				runway, _ = accounting.Ratio(ending, monthlyBurn)
			}
			res.RunwayMonths = &runway
		}
		report.Results = append(report.Results, res)
	}

	s.LogDebug(ctx, "Stress test complete",
		slog.String("organization_id", organizationID),
		slog.Int("scenarios", len(report.Results)))
	return report, nil
}
