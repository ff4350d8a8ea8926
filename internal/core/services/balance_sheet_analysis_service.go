package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// balanceSheetAnalysisService works only from generated balance sheets.
type balanceSheetAnalysisService struct {
	BaseService
	statements portssvc.FinancialStatementsSvc
}

// NewBalanceSheetAnalysisService creates the balance sheet analysis service.
func NewBalanceSheetAnalysisService(statements portssvc.FinancialStatementsSvc) portssvc.BalanceSheetAnalysisSvc {
	return &balanceSheetAnalysisService{statements: statements}
}

var _ portssvc.BalanceSheetAnalysisSvc = (*balanceSheetAnalysisService)(nil)

func (s *balanceSheetAnalysisService) GenerateComparativeBalanceSheet(ctx context.Context, organizationID string, current, prior time.Time) (*domain.ComparativeBalanceSheet, error) {
	cur, err := s.statements.GenerateBalanceSheet(ctx, organizationID, current)
	if err != nil {
		return nil, err
	}
	pri, err := s.statements.GenerateBalanceSheet(ctx, organizationID, prior)
	if err != nil {
		return nil, err
	}

	out := &domain.ComparativeBalanceSheet{
		OrganizationID: organizationID,
		Current:        *cur,
		Prior:          *pri,
	}
	for _, pair := range [][2]domain.StatementSection{
		{cur.CurrentAssets, pri.CurrentAssets},
		{cur.NonCurrentAssets, pri.NonCurrentAssets},
		{cur.CurrentLiabilities, pri.CurrentLiabilities},
		{cur.NonCurrentLiabilities, pri.NonCurrentLiabilities},
		{cur.Equity, pri.Equity},
	} {
		out.Horizontal = append(out.Horizontal, compareSections(pair[0], pair[1])...)
		out.Vertical = append(out.Vertical, verticalLines(pair[0], cur.TotalAssets)...)
	}
	totals := []struct {
		name     string
		cur, pri decimal.Decimal
	}{
		{"Total Current Assets", cur.CurrentAssets.Total, pri.CurrentAssets.Total},
		{"Total Assets", cur.TotalAssets, pri.TotalAssets},
		{"Total Current Liabilities", cur.CurrentLiabilities.Total, pri.CurrentLiabilities.Total},
		{"Total Liabilities", cur.TotalLiabilities, pri.TotalLiabilities},
		{"Total Equity", cur.TotalEquity, pri.TotalEquity},
		{"Working Capital", cur.CurrentAssets.Total.Sub(cur.CurrentLiabilities.Total), pri.CurrentAssets.Total.Sub(pri.CurrentLiabilities.Total)},
	}
	for _, t := range totals {
		out.Totals = append(out.Totals, newLineChange("Totals", domain.StatementItem{Name: t.name}, t.cur, t.pri))
	}
	out.SignificantChanges = countSignificant(out.Horizontal)

	s.LogDebug(ctx, "Comparative balance sheet generated",
		slog.String("organization_id", organizationID),
		slog.Int("significant_changes", out.SignificantChanges))
	return out, nil
}

func (s *balanceSheetAnalysisService) AnalyzeBalanceSheetTrends(ctx context.Context, organizationID string, dates []time.Time) (*domain.TrendAnalysis, error) {
	if len(dates) < 3 {
		return nil, apperrors.InsufficientData("trend analysis needs at least 3 balance sheet dates, got %d", len(dates))
	}
	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var assets, liabilities, equity, working, cash []decimal.Decimal
	labels := make([]string, 0, len(sorted))
	for _, d := range sorted {
		bs, err := s.statements.GenerateBalanceSheet(ctx, organizationID, d)
		if err != nil {
			return nil, err
		}
		labels = append(labels, d.Format("2006-01-02"))
		assets = append(assets, bs.TotalAssets)
		liabilities = append(liabilities, bs.TotalLiabilities)
		equity = append(equity, bs.TotalEquity)
		working = append(working, bs.CurrentAssets.Total.Sub(bs.CurrentLiabilities.Total))
		cash = append(cash, bs.KeyBalances.Cash)
	}

	return &domain.TrendAnalysis{
		OrganizationID: organizationID,
		Labels:         labels,
		Series: []domain.TrendSeries{
			buildTrendSeries("totalAssets", assets),
			buildTrendSeries("totalLiabilities", liabilities),
			buildTrendSeries("totalEquity", equity),
			buildTrendSeries("workingCapital", working),
			buildTrendSeries("cash", cash),
		},
	}, nil
}
