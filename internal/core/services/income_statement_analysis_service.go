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

// incomeStatementAnalysisService works only from generated income statements.
type incomeStatementAnalysisService struct {
	BaseService
	statements portssvc.FinancialStatementsSvc
	growthRate float64
}

// IncomeAnalysisOption is a functional option for configuring income analysis
type IncomeAnalysisOption func(*incomeStatementAnalysisService)

// WithIncomeGrowthRate sets the growth assumption used when history gives none.
func WithIncomeGrowthRate(rate float64) IncomeAnalysisOption {
	return func(s *incomeStatementAnalysisService) {
		s.growthRate = rate
	}
}

// NewIncomeStatementAnalysisService creates the income statement analysis service.
func NewIncomeStatementAnalysisService(statements portssvc.FinancialStatementsSvc, options ...IncomeAnalysisOption) portssvc.IncomeStatementAnalysisSvc {
	svc := &incomeStatementAnalysisService{statements: statements, growthRate: defaultGrowthRate}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.IncomeStatementAnalysisSvc = (*incomeStatementAnalysisService)(nil)

func (s *incomeStatementAnalysisService) GenerateComparativeIncomeStatement(ctx context.Context, organizationID string, current, prior domain.Period) (*domain.ComparativeIncomeStatement, error) {
	cur, err := s.statements.GenerateIncomeStatement(ctx, organizationID, current)
	if err != nil {
		return nil, err
	}
	pri, err := s.statements.GenerateIncomeStatement(ctx, organizationID, prior)
	if err != nil {
		return nil, err
	}

	out := &domain.ComparativeIncomeStatement{
		OrganizationID:        organizationID,
		Current:               *cur,
		Prior:                 *pri,
		GrossMarginChange:     cur.GrossMargin - pri.GrossMargin,
		OperatingMarginChange: cur.OperatingMargin - pri.OperatingMargin,
		NetMarginChange:       cur.NetMargin - pri.NetMargin,
	}
	for _, pair := range [][2]domain.StatementSection{
		{cur.OperatingRevenue, pri.OperatingRevenue},
		{cur.OtherRevenue, pri.OtherRevenue},
		{cur.CostOfGoodsSold, pri.CostOfGoodsSold},
		{cur.OperatingExpenses, pri.OperatingExpenses},
		{cur.OtherExpenses, pri.OtherExpenses},
	} {
		out.Horizontal = append(out.Horizontal, compareSections(pair[0], pair[1])...)
		out.Vertical = append(out.Vertical, verticalLines(pair[0], cur.TotalRevenue)...)
	}
	totals := []struct {
		name     string
		cur, pri decimal.Decimal
	}{
		{"Total Revenue", cur.TotalRevenue, pri.TotalRevenue},
		{"Gross Profit", cur.GrossProfit, pri.GrossProfit},
		{"Operating Income", cur.OperatingIncome, pri.OperatingIncome},
		{"Net Income", cur.NetIncome, pri.NetIncome},
	}
	for _, t := range totals {
		out.Totals = append(out.Totals, newLineChange("Totals", domain.StatementItem{Name: t.name}, t.cur, t.pri))
	}
	out.SignificantChanges = countSignificant(out.Horizontal)
	return out, nil
}

// PerformBreakEvenAnalysis treats operating expenses as fixed and COGS as variable.
func (s *incomeStatementAnalysisService) PerformBreakEvenAnalysis(ctx context.Context, organizationID string, period domain.Period) (*domain.BreakEvenAnalysis, error) {
	is, err := s.statements.GenerateIncomeStatement(ctx, organizationID, period)
	if err != nil {
		return nil, err
	}
	if !is.TotalRevenue.IsPositive() {
		return nil, apperrors.InsufficientData("break-even analysis needs revenue in %s", period.Label())
	}

	be := &domain.BreakEvenAnalysis{
		OrganizationID:   organizationID,
		Period:           period,
		Revenue:          is.TotalRevenue,
		FixedCosts:       is.OperatingExpenses.Total,
		VariableCosts:    is.CostOfGoodsSold.Total,
		BreakEvenRevenue: decimal.Zero,
		MarginOfSafety:   decimal.Zero,
	}
	cm := decimal.NewFromInt(1).Sub(be.VariableCosts.DivRound(be.Revenue, 8))
	be.ContributionMarginRatio, _ = cm.Round(6).Float64()
	if !cm.IsPositive() {
		s.LogDebug(ctx, "Break-even not achievable", slog.String("organization_id", organizationID))
		return be, nil
	}
	be.Achievable = true
	be.BreakEvenRevenue = accounting.RoundCurrency(be.FixedCosts.Div(cm))
	be.MarginOfSafety = be.Revenue.Sub(be.BreakEvenRevenue)
	be.MarginOfSafetyPercent = accounting.Percent(be.MarginOfSafety, be.Revenue)
	return be, nil
}

func (s *incomeStatementAnalysisService) statementsFor(ctx context.Context, organizationID string, periods []domain.Period) ([]*domain.IncomeStatement, error) {
	out := make([]*domain.IncomeStatement, 0, len(periods))
	for _, p := range periods {
		is, err := s.statements.GenerateIncomeStatement(ctx, organizationID, p)
		if err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, nil
}

func (s *incomeStatementAnalysisService) AnalyzeIncomeTrends(ctx context.Context, organizationID string, periods []domain.Period) (*domain.TrendAnalysis, error) {
	if len(periods) < 3 {
		return nil, apperrors.InsufficientData("trend analysis needs at least 3 periods, got %d", len(periods))
	}
	statements, err := s.statementsFor(ctx, organizationID, periods)
	if err != nil {
		return nil, err
	}

	var revenue, gross, operating, net, expenses []decimal.Decimal
	labels := make([]string, 0, len(periods))
	for i, is := range statements {
		labels = append(labels, periods[i].Label())
		revenue = append(revenue, is.TotalRevenue)
		gross = append(gross, is.GrossProfit)
		operating = append(operating, is.OperatingIncome)
		net = append(net, is.NetIncome)
		expenses = append(expenses, is.TotalExpenses())
	}

	revenueSeries := buildTrendSeries("totalRevenue", revenue)
	if len(revenue) >= 4 {
		revenueSeries.SeasonalIndices = seasonalIndices(revenue)
	}
	return &domain.TrendAnalysis{
		OrganizationID: organizationID,
		Labels:         labels,
		Series: []domain.TrendSeries{
			revenueSeries,
			buildTrendSeries("grossProfit", gross),
			buildTrendSeries("operatingIncome", operating),
			buildTrendSeries("netIncome", net),
			buildTrendSeries("totalExpenses", expenses),
		},
	}, nil
}

// GenerateProfitabilityForecast projects revenue and expenses from the last
// observed period using historical average growth unless a rate is given.
func (s *incomeStatementAnalysisService) GenerateProfitabilityForecast(ctx context.Context, organizationID string, history []domain.Period, opts portssvc.ForecastOptions) (*domain.ProfitabilityForecast, error) {
	if len(history) < 2 {
		return nil, apperrors.InsufficientData("profitability forecast needs at least 2 historical periods, got %d", len(history))
	}
	statements, err := s.statementsFor(ctx, organizationID, history)
	if err != nil {
		return nil, err
	}

	fc := &domain.ProfitabilityForecast{
		OrganizationID: organizationID,
		Method:         forecastMethod(opts.Method),
		History:        make([]domain.ProfitabilityPoint, 0, len(statements)),
	}
	var revenue, expenses []decimal.Decimal
	for i, is := range statements {
		revenue = append(revenue, is.TotalRevenue)
		expenses = append(expenses, is.TotalExpenses())
		fc.History = append(fc.History, domain.ProfitabilityPoint{
			Label:     history[i].Label(),
			Revenue:   is.TotalRevenue,
			Expenses:  is.TotalExpenses(),
			NetIncome: is.NetIncome,
			NetMargin: is.NetMargin,
		})
	}

	fc.RevenueGrowth, fc.ExpenseGrowth = s.growthRate, s.growthRate
	if opts.GrowthRate != nil {
		fc.RevenueGrowth, fc.ExpenseGrowth = *opts.GrowthRate, *opts.GrowthRate
	} else {
		if g, ok := averageGrowth(revenue); ok {
			fc.RevenueGrowth = g
		}
		if g, ok := averageGrowth(expenses); ok {
			fc.ExpenseGrowth = g
		}
	}

	lastRevenue, lastExpenses := revenue[len(revenue)-1], expenses[len(expenses)-1]
	horizon := forecastHorizon(opts.Horizon)
	fc.Projections = make([]domain.ProfitabilityPoint, 0, horizon)
	for k := 1; k <= horizon; k++ {
		rev := project(lastRevenue, fc.RevenueGrowth, k, fc.Method)
		exp := project(lastExpenses, fc.ExpenseGrowth, k, fc.Method)
		ni := rev.Sub(exp)
		margin, _ := accounting.Ratio(ni, rev)
		fc.Projections = append(fc.Projections, domain.ProfitabilityPoint{
			Label:     projectionLabel(k),
			Revenue:   rev,
			Expenses:  exp,
			NetIncome: ni,
			NetMargin: margin,
		})
	}
	return fc, nil
}
