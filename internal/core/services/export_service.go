package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeJSON = "application/json"
)

type exportService struct{}

// NewExportService creates the report exporter.
func NewExportService() portssvc.ExportSvc {
	return &exportService{}
}

var _ portssvc.ExportSvc = (*exportService)(nil)

func (s *exportService) Export(report any, format domain.ExportFormat) ([]byte, string, error) {
	switch format {
	case domain.ExportJSON:
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode report: %w", err)
		}
		return b, contentTypeJSON, nil
	case domain.ExportCSV:
		rows, err := csvRows(report)
		if err != nil {
			return nil, "", err
		}
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(rows); err != nil {
			return nil, "", fmt.Errorf("failed to write csv: %w", err)
		}
		return buf.Bytes(), contentTypeCSV, nil
	case domain.ExportPDF:
		return nil, "", apperrors.NewNotImplemented("PDF export")
	case domain.ExportExcel:
		return nil, "", apperrors.NewNotImplemented("Excel export")
	}
	return nil, "", apperrors.NewValidation(apperrors.ReasonUnsupportedExport, "unsupported export format %q", format)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func pct(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

func ratio(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func sectionRows(s domain.StatementSection) [][]string {
	rows := make([][]string, 0, len(s.Items)+1)
	for _, it := range s.Items {
		rows = append(rows, []string{s.Title, it.AccountNumber, it.Name, money(it.Amount)})
	}
	return append(rows, []string{s.Title, "", "Total " + s.Title, money(s.Total)})
}

func lineChangeRows(changes []domain.LineChange) [][]string {
	rows := make([][]string, 0, len(changes))
	for _, lc := range changes {
		rows = append(rows, []string{lc.Section, lc.AccountNumber, lc.Name, money(lc.Current), money(lc.Prior), money(lc.Change), pct(lc.ChangePercent), strconv.FormatBool(lc.Significant)})
	}
	return rows
}

var lineChangeHeader = []string{"section", "account_number", "name", "current", "prior", "change", "change_percent", "significant"}

// csvRows flattens the reports that have a tabular shape.
func csvRows(report any) ([][]string, error) {
	switch r := report.(type) {
	case *domain.TrialBalance:
		rows := [][]string{{"account_number", "account_name", "account_type", "debit", "credit"}}
		for _, e := range r.Entries {
			debit, credit := "", ""
			if e.NormalBalance == domain.Debit {
				debit = money(e.Balance)
			} else {
				credit = money(e.Balance)
			}
			rows = append(rows, []string{e.AccountNumber, e.AccountName, string(e.AccountType), debit, credit})
		}
		return append(rows, []string{"", "TOTAL", "", money(r.TotalDebits), money(r.TotalCredits)}), nil

	case *domain.TrialBalanceReport:
		rows := [][]string{{"account_number", "account_name", "account_type", "depth", "opening", "ytd_debits", "ytd_credits", "closing", "rollup"}}
		for _, row := range r.Rows {
			rows = append(rows, []string{row.AccountNumber, row.AccountName, string(row.AccountType), strconv.Itoa(row.Depth),
				money(row.OpeningBalance), money(row.YTDDebits), money(row.YTDCredits), money(row.ClosingBalance), money(row.RollupBalance)})
		}
		return rows, nil

	case *domain.BalanceSheet:
		rows := [][]string{{"section", "account_number", "name", "amount"}}
		for _, s := range []domain.StatementSection{r.CurrentAssets, r.NonCurrentAssets} {
			rows = append(rows, sectionRows(s)...)
		}
		rows = append(rows, []string{"", "", "Total Assets", money(r.TotalAssets)})
		for _, s := range []domain.StatementSection{r.CurrentLiabilities, r.NonCurrentLiabilities} {
			rows = append(rows, sectionRows(s)...)
		}
		rows = append(rows, []string{"", "", "Total Liabilities", money(r.TotalLiabilities)})
		rows = append(rows, sectionRows(r.Equity)...)
		return rows, nil

	case *domain.IncomeStatement:
		rows := [][]string{{"section", "account_number", "name", "amount"}}
		rows = append(rows, sectionRows(r.OperatingRevenue)...)
		rows = append(rows, sectionRows(r.OtherRevenue)...)
		rows = append(rows, []string{"", "", "Total Revenue", money(r.TotalRevenue)})
		rows = append(rows, sectionRows(r.CostOfGoodsSold)...)
		rows = append(rows, []string{"", "", "Gross Profit", money(r.GrossProfit)})
		rows = append(rows, sectionRows(r.OperatingExpenses)...)
		rows = append(rows, []string{"", "", "Operating Income", money(r.OperatingIncome)})
		rows = append(rows, sectionRows(r.OtherExpenses)...)
		return append(rows, []string{"", "", "Net Income", money(r.NetIncome)}), nil

	case *domain.CashFlowStatement:
		rows := [][]string{{"section", "account_number", "name", "amount"}}
		rows = append(rows, sectionRows(r.OperatingActivities)...)
		rows = append(rows, sectionRows(r.InvestingActivities)...)
		rows = append(rows, sectionRows(r.FinancingActivities)...)
		return append(rows,
			[]string{"", "", "Net Change in Cash", money(r.NetChangeInCash)},
			[]string{"", "", "Beginning Cash", money(r.BeginningCash)},
			[]string{"", "", "Ending Cash", money(r.EndingCash)},
		), nil

	case *domain.FinancialRatios:
		return [][]string{
			{"ratio", "value"},
			{"currentRatio", ratio(r.Liquidity.CurrentRatio)},
			{"quickRatio", ratio(r.Liquidity.QuickRatio)},
			{"cashRatio", ratio(r.Liquidity.CashRatio)},
			{"grossMargin", ratio(r.Profitability.GrossMargin)},
			{"operatingMargin", ratio(r.Profitability.OperatingMargin)},
			{"netMargin", ratio(r.Profitability.NetMargin)},
			{"returnOnAssets", ratio(r.Profitability.ReturnOnAssets)},
			{"returnOnEquity", ratio(r.Profitability.ReturnOnEquity)},
			{"debtToAssets", ratio(r.Leverage.DebtToAssets)},
			{"debtToEquity", ratio(r.Leverage.DebtToEquity)},
			{"equityRatio", ratio(r.Leverage.EquityRatio)},
			{"assetTurnover", ratio(r.Efficiency.AssetTurnover)},
			{"receivablesTurnover", ratio(r.Efficiency.ReceivablesTurnover)},
			{"inventoryTurnover", ratio(r.Efficiency.InventoryTurnover)},
		}, nil

	case *domain.ComparativeBalanceSheet:
		rows := [][]string{lineChangeHeader}
		rows = append(rows, lineChangeRows(r.Horizontal)...)
		return append(rows, lineChangeRows(r.Totals)...), nil

	case *domain.ComparativeIncomeStatement:
		rows := [][]string{lineChangeHeader}
		rows = append(rows, lineChangeRows(r.Horizontal)...)
		return append(rows, lineChangeRows(r.Totals)...), nil

	case *domain.PeriodComparison:
		rows := [][]string{{"account_number", "account_name", "account_type", "current", "prior", "change", "change_percent"}}
		for _, row := range r.Rows {
			rows = append(rows, []string{row.AccountNumber, row.AccountName, string(row.AccountType), money(row.Current), money(row.Prior), money(row.Change), pct(row.ChangePercent)})
		}
		return rows, nil

	case *domain.AccountStatement:
		rows := [][]string{{"date", "transaction_number", "entry_type", "amount", "description", "running_balance"}}
		rows = append(rows, []string{r.Period.From.Format("2006-01-02"), "", "", "", "Opening balance", money(r.OpeningBalance)})
		for _, l := range r.Lines {
			rows = append(rows, []string{l.Entry.EntryDate.Format("2006-01-02"), l.TransactionNumber, string(l.Entry.EntryType), money(l.Entry.Amount), l.Entry.Description, money(l.RunningBalance)})
		}
		return rows, nil

	case *domain.TrendAnalysis:
		header := append([]string{"metric"}, r.Labels...)
		header = append(header, "mean_change", "stddev_change", "direction")
		rows := [][]string{header}
		for _, series := range r.Series {
			row := []string{series.Metric}
			for _, v := range series.Values {
				row = append(row, money(v))
			}
			row = append(row, ratio(series.MeanChange), ratio(series.StdDevChange), string(series.Direction))
			rows = append(rows, row)
		}
		return rows, nil

	case *domain.CashFlowAnalysis:
		rows := [][]string{{"period", "net_income", "operating", "investing", "financing", "net_change", "ending_cash", "free_cash_flow"}}
		for _, p := range r.Periods {
			rows = append(rows, []string{p.Period.Label(), money(p.NetIncome), money(p.Operating), money(p.Investing), money(p.Financing), money(p.NetChange), money(p.EndingCash), money(p.FreeCashFlow)})
		}
		return rows, nil

	case *domain.StressTestReport:
		rows := [][]string{{"scenario", "revenue", "expenses", "net_income", "operating_cash", "ending_cash", "runway_months"}}
		for _, res := range r.Results {
			rows = append(rows, []string{res.Scenario.Name, money(res.Revenue), money(res.Expenses), money(res.NetIncome), money(res.OperatingCash), money(res.EndingCash), pct(res.RunwayMonths)})
		}
		return rows, nil
	}
	return nil, apperrors.NewValidation(apperrors.ReasonUnsupportedExport, "report type %T cannot be exported as csv", report)
}
