package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo          portsrepo.AccountReader
	txnRepo              portsrepo.TransactionReader
	reportingRepo        portsrepo.ReportingRepository
	fiscalYearStartMonth time.Month
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithFiscalYearStartMonth sets the first month of the fiscal year used for YTD figures.
func WithFiscalYearStartMonth(month int) ReportingServiceOption {
	return func(s *reportingService) {
		if month >= 1 && month <= 12 {
			s.fiscalYearStartMonth = time.Month(month)
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	accountRepo portsrepo.AccountReader,
	txnRepo portsrepo.TransactionReader,
	reportingRepo portsrepo.ReportingRepository,
	options ...ReportingServiceOption,
) portssvc.ReportingService {
	svc := &reportingService{
		accountRepo:          accountRepo,
		txnRepo:              txnRepo,
		reportingRepo:        reportingRepo,
		fiscalYearStartMonth: time.January,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// fiscalYearStart returns the first day of the fiscal year containing asOf.
func (s *reportingService) fiscalYearStart(asOf time.Time) time.Time {
	start := time.Date(asOf.Year(), s.fiscalYearStartMonth, 1, 0, 0, 0, 0, time.UTC)
	if start.After(asOf) {
		start = start.AddDate(-1, 0, 0)
	}
	return start
}

// TrialBalanceReport generates a hierarchical trial balance as of a specific date
func (s *reportingService) TrialBalanceReport(ctx context.Context, organizationID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	asOf = domain.StartOfDay(asOf)
	fyStart := s.fiscalYearStart(asOf)

	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, true)
	if err != nil {
		return nil, err
	}
	opening, err := s.reportingRepo.SumEntriesByAccount(ctx, organizationID, nil, fyStart.Add(-time.Nanosecond))
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve opening balances", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to retrieve opening balances: %w", err)
	}
	ytd, err := s.reportingRepo.SumEntriesByAccount(ctx, organizationID, &fyStart, domain.EndOfDay(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve year-to-date activity", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to retrieve year-to-date activity: %w", err)
	}

	sortAccounts(accounts)
	rowsByID := make(map[string]*domain.TrialBalanceReportRow, len(accounts))
	children := make(map[string][]string)
	var roots []string
	for _, acc := range accounts {
		open := opening[acc.AccountID].Net(acc.AccountType)
		act := ytd[acc.AccountID]
		row := &domain.TrialBalanceReportRow{
			AccountID:       acc.AccountID,
			AccountNumber:   acc.AccountNumber,
			AccountName:     acc.Name,
			AccountType:     acc.AccountType,
			ParentAccountID: acc.ParentAccountID,
			OpeningBalance:  open,
			YTDDebits:       act.Debits,
			YTDCredits:      act.Credits,
			ClosingBalance:  open.Add(act.Net(acc.AccountType)),
		}
		rowsByID[acc.AccountID] = row
	}
	for _, acc := range accounts {
		if acc.ParentAccountID != nil {
			if _, ok := rowsByID[*acc.ParentAccountID]; ok {
				children[*acc.ParentAccountID] = append(children[*acc.ParentAccountID], acc.AccountID)
				continue
			}
		}
		roots = append(roots, acc.AccountID)
	}

	report := &domain.TrialBalanceReport{
		OrganizationID:  organizationID,
		AsOfDate:        asOf,
		FiscalYearStart: fyStart,
		Rows:            make([]domain.TrialBalanceReportRow, 0, len(accounts)),
		TotalDebits:     decimal.Zero,
		TotalCredits:    decimal.Zero,
	}

	// Depth-first so that every parent row precedes its children. Only roots
	// start a walk, so accounts caught in a parent cycle are never reached.
	var visit func(id string, depth int) decimal.Decimal
	visit = func(id string, depth int) decimal.Decimal {
		row := rowsByID[id]
		row.Depth = depth
		idx := len(report.Rows)
		report.Rows = append(report.Rows, *row)
		rollup := row.ClosingBalance
		for _, child := range children[id] {
			rollup = rollup.Add(visit(child, depth+1))
		}
		report.Rows[idx].RollupBalance = rollup
		return rollup
	}
	for _, id := range roots {
		visit(id, 0)
	}

	for _, row := range report.Rows {
		if row.AccountType.NormalBalance() == domain.Debit {
			report.TotalDebits = report.TotalDebits.Add(row.ClosingBalance)
		} else {
			report.TotalCredits = report.TotalCredits.Add(row.ClosingBalance)
		}
	}
	report.IsBalanced = domain.WithinTolerance(report.TotalDebits, report.TotalCredits)

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("organization_id", organizationID),
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// ComparePeriods compares per-account net activity for two periods
func (s *reportingService) ComparePeriods(ctx context.Context, organizationID string, current, prior domain.Period) (*domain.PeriodComparison, error) {
	if !current.IsValid() || !prior.IsValid() {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidPeriod, "both periods need a start on or before their end")
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, true)
	if err != nil {
		return nil, err
	}
	cur, err := s.activity(ctx, organizationID, current)
	if err != nil {
		return nil, err
	}
	pri, err := s.activity(ctx, organizationID, prior)
	if err != nil {
		return nil, err
	}

	sortAccounts(accounts)
	cmp := &domain.PeriodComparison{
		OrganizationID: organizationID,
		Current:        current,
		Prior:          prior,
		Rows:           []domain.PeriodComparisonRow{},
	}
	for _, acc := range accounts {
		c, cok := cur[acc.AccountID]
		p, pok := pri[acc.AccountID]
		if !cok && !pok {
			continue
		}
		cn, pn := c.Net(acc.AccountType), p.Net(acc.AccountType)
		cmp.Rows = append(cmp.Rows, domain.PeriodComparisonRow{
			AccountID:     acc.AccountID,
			AccountNumber: acc.AccountNumber,
			AccountName:   acc.Name,
			AccountType:   acc.AccountType,
			Current:       cn,
			Prior:         pn,
			Change:        cn.Sub(pn),
			ChangePercent: accounting.PercentChange(cn, pn),
		})
	}
	return cmp, nil
}

func (s *reportingService) activity(ctx context.Context, organizationID string, p domain.Period) (map[string]domain.AccountActivity, error) {
	from := domain.StartOfDay(p.From)
	act, err := s.reportingRepo.SumEntriesByAccount(ctx, organizationID, &from, domain.EndOfDay(p.To))
	if err != nil {
		s.LogError(ctx, err, "Failed to sum entries",
			slog.String("organization_id", organizationID),
			slog.String("period", p.Label()))
		return nil, fmt.Errorf("failed to sum entries for %s: %w", p.Label(), err)
	}
	return act, nil
}

// AccountStatement lists an account's entries in a period with a running balance
func (s *reportingService) AccountStatement(ctx context.Context, organizationID string, accountID string, period domain.Period) (*domain.AccountStatement, error) {
	if !period.IsValid() {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidPeriod, "period end precedes its start")
	}
	account, err := s.accountRepo.FindAccountByID(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	from := domain.StartOfDay(period.From)
	to := domain.EndOfDay(period.To)
	before, err := s.reportingRepo.SumEntriesByAccount(ctx, organizationID, nil, from.Add(-time.Nanosecond))
	if err != nil {
		return nil, err
	}
	entries, err := s.txnRepo.ListEntries(ctx, organizationID, portsrepo.EntryFilter{AccountID: accountID, From: &from, To: &to})
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("account_id", accountID))
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.Before(entries[j].EntryDate)
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	txnIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		txnIDs = append(txnIDs, e.TransactionID)
	}
	numbers, err := s.txnRepo.FindTransactionNumbers(ctx, organizationID, uniqueStrings(txnIDs))
	if err != nil {
		return nil, err
	}

	stmt := &domain.AccountStatement{
		Account:        *account,
		Period:         period,
		OpeningBalance: before[accountID].Net(account.AccountType),
		Lines:          make([]domain.StatementLine, 0, len(entries)),
	}
	running := stmt.OpeningBalance
	for _, e := range entries {
		signed := e.SignedAmount(account.AccountType)
		running = running.Add(signed)
		stmt.Lines = append(stmt.Lines, domain.StatementLine{
			Entry:             e,
			TransactionNumber: numbers[e.TransactionID],
			SignedAmount:      signed,
			RunningBalance:    running,
		})
	}
	stmt.ClosingBalance = running
	return stmt, nil
}
