package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// financialStatementsService derives statements from entry activity.
type financialStatementsService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	reportingRepo portsrepo.ReportingRepository
}

// StatementsServiceOption is a functional option for configuring the statements service
type StatementsServiceOption func(*financialStatementsService)

// WithStatementsClock overrides the clock used for GeneratedAt.
func WithStatementsClock(clock func() time.Time) StatementsServiceOption {
	return func(s *financialStatementsService) {
		s.clock = clock
	}
}

// NewFinancialStatementsService creates the statements engine.
func NewFinancialStatementsService(accountRepo portsrepo.AccountReader, reportingRepo portsrepo.ReportingRepository, options ...StatementsServiceOption) portssvc.FinancialStatementsSvc {
	svc := &financialStatementsService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.FinancialStatementsSvc = (*financialStatementsService)(nil)

// loadAccounts lists every non-deleted account with its liquidity class filled in.
func (s *financialStatementsService) loadAccounts(ctx context.Context, organizationID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("organization_id", organizationID))
		return nil, err
	}
	sortAccounts(accounts)
	for i := range accounts {
		if accounts[i].LiquidityClass == "" {
			accounts[i].LiquidityClass = domain.DefaultLiquidityClass(accounts[i].AccountType, accounts[i].AccountNumber, accounts[i].Name)
		}
	}
	return accounts, nil
}

func (s *financialStatementsService) sum(ctx context.Context, organizationID string, from *time.Time, to time.Time) (map[string]domain.AccountActivity, error) {
	act, err := s.reportingRepo.SumEntriesByAccount(ctx, organizationID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum entries", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to sum entries: %w", err)
	}
	return act, nil
}

func item(acc domain.Account, amount decimal.Decimal) domain.StatementItem {
	return domain.StatementItem{AccountID: acc.AccountID, AccountNumber: acc.AccountNumber, Name: acc.Name, Amount: amount}
}

// GenerateBalanceSheet builds the statement of financial position from entries dated on or before asOf.
func (s *financialStatementsService) GenerateBalanceSheet(ctx context.Context, organizationID string, asOf time.Time) (*domain.BalanceSheet, error) {
	accounts, err := s.loadAccounts(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	activity, err := s.sum(ctx, organizationID, nil, domain.EndOfDay(asOf))
	if err != nil {
		return nil, err
	}
	return buildBalanceSheet(organizationID, domain.StartOfDay(asOf), accounts, activity), nil
}

func buildBalanceSheet(organizationID string, asOf time.Time, accounts []domain.Account, activity map[string]domain.AccountActivity) *domain.BalanceSheet {
	var currentAssets, nonCurrentAssets, currentLiabilities, nonCurrentLiabilities, equity []domain.StatementItem
	earnings := decimal.Zero
	keys := domain.KeyBalances{Cash: decimal.Zero, Receivables: decimal.Zero, Inventory: decimal.Zero, Prepaid: decimal.Zero, Payables: decimal.Zero}

	for _, acc := range accounts {
		act, ok := activity[acc.AccountID]
		if !ok {
			continue
		}
		balance := act.Net(acc.AccountType)
		switch acc.AccountType {
		case domain.Asset:
			if acc.IsCurrent() {
				currentAssets = append(currentAssets, item(acc, balance))
			} else {
				nonCurrentAssets = append(nonCurrentAssets, item(acc, balance))
			}
			switch {
			case acc.IsCash():
				keys.Cash = keys.Cash.Add(balance)
			case acc.IsReceivable():
				keys.Receivables = keys.Receivables.Add(balance)
			case acc.IsInventory():
				keys.Inventory = keys.Inventory.Add(balance)
			case acc.IsPrepaid():
				keys.Prepaid = keys.Prepaid.Add(balance)
			}
		case domain.Liability:
			if acc.IsCurrent() {
				currentLiabilities = append(currentLiabilities, item(acc, balance))
			} else {
				nonCurrentLiabilities = append(nonCurrentLiabilities, item(acc, balance))
			}
			if acc.IsPayable() {
				keys.Payables = keys.Payables.Add(balance)
			}
		case domain.Equity:
			equity = append(equity, item(acc, balance))
		case domain.Revenue:
			earnings = earnings.Add(balance)
		case domain.Expense:
			earnings = earnings.Sub(balance)
		}
	}
	if !earnings.IsZero() {
		equity = append(equity, domain.StatementItem{Name: "Current Earnings", Amount: earnings})
	}

	bs := &domain.BalanceSheet{
		OrganizationID:        organizationID,
		AsOfDate:              asOf,
		CurrentAssets:         domain.NewStatementSection("Current Assets", currentAssets),
		NonCurrentAssets:      domain.NewStatementSection("Non-current Assets", nonCurrentAssets),
		CurrentLiabilities:    domain.NewStatementSection("Current Liabilities", currentLiabilities),
		NonCurrentLiabilities: domain.NewStatementSection("Non-current Liabilities", nonCurrentLiabilities),
		Equity:                domain.NewStatementSection("Equity", equity),
		KeyBalances:           keys,
	}
	bs.TotalAssets = bs.CurrentAssets.Total.Add(bs.NonCurrentAssets.Total)
	bs.TotalLiabilities = bs.CurrentLiabilities.Total.Add(bs.NonCurrentLiabilities.Total)
	bs.TotalEquity = bs.Equity.Total
	bs.Validation.Difference = bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalEquity))
	bs.Validation.BalanceCheck = bs.Validation.Difference.Abs().LessThan(domain.BalanceTolerance)
	return bs
}

// GenerateIncomeStatement builds the statement of performance for period.
func (s *financialStatementsService) GenerateIncomeStatement(ctx context.Context, organizationID string, period domain.Period) (*domain.IncomeStatement, error) {
	if !period.IsValid() {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidPeriod, "period end precedes its start")
	}
	accounts, err := s.loadAccounts(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	from := domain.StartOfDay(period.From)
	activity, err := s.sum(ctx, organizationID, &from, domain.EndOfDay(period.To))
	if err != nil {
		return nil, err
	}
	return buildIncomeStatement(organizationID, period, accounts, activity), nil
}

func buildIncomeStatement(organizationID string, period domain.Period, accounts []domain.Account, activity map[string]domain.AccountActivity) *domain.IncomeStatement {
	var opRevenue, otherRevenue, cogs, opex, otherExpenses []domain.StatementItem
	for _, acc := range accounts {
		act, ok := activity[acc.AccountID]
		if !ok {
			continue
		}
		amount := act.Net(acc.AccountType)
		switch acc.AccountType {
		case domain.Revenue:
			if domain.RevenueClassOf(acc) == domain.OtherRevenue {
				otherRevenue = append(otherRevenue, item(acc, amount))
			} else {
				opRevenue = append(opRevenue, item(acc, amount))
			}
		case domain.Expense:
			switch domain.ExpenseClassOf(acc) {
			case domain.CostOfGoodsSold:
				cogs = append(cogs, item(acc, amount))
			case domain.OtherExpense:
				otherExpenses = append(otherExpenses, item(acc, amount))
			default:
				opex = append(opex, item(acc, amount))
			}
		}
	}

	is := &domain.IncomeStatement{
		OrganizationID:    organizationID,
		Period:            period,
		OperatingRevenue:  domain.NewStatementSection("Operating Revenue", opRevenue),
		OtherRevenue:      domain.NewStatementSection("Other Revenue", otherRevenue),
		CostOfGoodsSold:   domain.NewStatementSection("Cost of Goods Sold", cogs),
		OperatingExpenses: domain.NewStatementSection("Operating Expenses", opex),
		OtherExpenses:     domain.NewStatementSection("Other Expenses", otherExpenses),
	}
	is.TotalRevenue = is.OperatingRevenue.Total.Add(is.OtherRevenue.Total)
	is.GrossProfit = is.TotalRevenue.Sub(is.CostOfGoodsSold.Total)
	is.OperatingIncome = is.GrossProfit.Sub(is.OperatingExpenses.Total)
	is.NetIncome = is.OperatingIncome.Sub(is.OtherExpenses.Total)
	is.GrossMargin, _ = accounting.Ratio(is.GrossProfit, is.TotalRevenue)
	is.OperatingMargin, _ = accounting.Ratio(is.OperatingIncome, is.TotalRevenue)
	is.NetMargin, _ = accounting.Ratio(is.NetIncome, is.TotalRevenue)
	is.Validation.Difference = is.NetIncome.Sub(is.TotalRevenue.Sub(is.TotalExpenses()))
	is.Validation.IsConsistent = is.Validation.Difference.Abs().LessThan(domain.BalanceTolerance)
	return is
}

// GenerateCashFlowStatement derives operating, investing and financing flows
// from balance changes during the period (indirect method).
func (s *financialStatementsService) GenerateCashFlowStatement(ctx context.Context, organizationID string, period domain.Period) (*domain.CashFlowStatement, error) {
	if !period.IsValid() {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidPeriod, "period end precedes its start")
	}
	accounts, err := s.loadAccounts(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	from := domain.StartOfDay(period.From)
	activity, err := s.sum(ctx, organizationID, &from, domain.EndOfDay(period.To))
	if err != nil {
		return nil, err
	}
	opening, err := s.sum(ctx, organizationID, nil, from.Add(-time.Nanosecond))
	if err != nil {
		return nil, err
	}
	is := buildIncomeStatement(organizationID, period, accounts, activity)
	return buildCashFlow(organizationID, period, accounts, activity, opening, is.NetIncome), nil
}

func buildCashFlow(organizationID string, period domain.Period, accounts []domain.Account, activity, opening map[string]domain.AccountActivity, netIncome decimal.Decimal) *domain.CashFlowStatement {
	operating := []domain.StatementItem{{Name: "Net Income", Amount: netIncome}}
	var investing, financing []domain.StatementItem
	beginningCash, cashChange := decimal.Zero, decimal.Zero

	for _, acc := range accounts {
		if acc.IsCash() {
			beginningCash = beginningCash.Add(opening[acc.AccountID].Net(acc.AccountType))
			cashChange = cashChange.Add(activity[acc.AccountID].Net(acc.AccountType))
			continue
		}
		act, ok := activity[acc.AccountID]
		if !ok {
			continue
		}
		delta := act.Net(acc.AccountType)
		if delta.IsZero() {
			continue
		}
		switch acc.AccountType {
		case domain.Asset:
			line := domain.StatementItem{AccountID: acc.AccountID, AccountNumber: acc.AccountNumber, Amount: delta.Neg()}
			switch {
			case acc.IsAccumulatedDepreciation():
				line.Name = "Depreciation and amortization (" + acc.Name + ")"
				operating = append(operating, line)
			case acc.IsCurrent():
				line.Name = "Change in " + acc.Name
				operating = append(operating, line)
			default:
				line.Name = "Purchase/sale of " + acc.Name
				investing = append(investing, line)
			}
		case domain.Liability:
			line := domain.StatementItem{AccountID: acc.AccountID, AccountNumber: acc.AccountNumber, Name: "Change in " + acc.Name, Amount: delta}
			if acc.IsCurrent() {
				operating = append(operating, line)
			} else {
				financing = append(financing, line)
			}
		case domain.Equity:
			financing = append(financing, domain.StatementItem{AccountID: acc.AccountID, AccountNumber: acc.AccountNumber, Name: "Change in " + acc.Name, Amount: delta})
		}
	}

	cf := &domain.CashFlowStatement{
		OrganizationID:      organizationID,
		Period:              period,
		NetIncome:           netIncome,
		OperatingActivities: domain.NewStatementSection("Operating Activities", operating),
		InvestingActivities: domain.NewStatementSection("Investing Activities", investing),
		FinancingActivities: domain.NewStatementSection("Financing Activities", financing),
		BeginningCash:       beginningCash,
	}
	cf.NetOperatingCash = cf.OperatingActivities.Total
	cf.NetInvestingCash = cf.InvestingActivities.Total
	cf.NetFinancingCash = cf.FinancingActivities.Total
	cf.NetChangeInCash = cf.NetOperatingCash.Add(cf.NetInvestingCash).Add(cf.NetFinancingCash)
	cf.EndingCash = beginningCash.Add(cashChange)
	cf.Validation.Difference = cf.NetChangeInCash.Sub(cashChange)
	cf.Validation.Reconciles = cf.Validation.Difference.Abs().LessThan(domain.BalanceTolerance)
	return cf
}

// CalculateFinancialRatios computes ratio families. A zero denominator yields 0
// and the ratio name is listed in Unavailable.
func (s *financialStatementsService) CalculateFinancialRatios(bs domain.BalanceSheet, is domain.IncomeStatement) domain.FinancialRatios {
	return calculateRatios(bs, is)
}

func calculateRatios(bs domain.BalanceSheet, is domain.IncomeStatement) domain.FinancialRatios {
	var r domain.FinancialRatios
	ratio := func(name string, num, den decimal.Decimal) float64 {
		v, ok := accounting.Ratio(num, den)
		if !ok {
			r.Unavailable = append(r.Unavailable, name)
		}
		return v
	}

	ca, cl := bs.CurrentAssets.Total, bs.CurrentLiabilities.Total
	quickAssets := ca.Sub(bs.KeyBalances.Inventory).Sub(bs.KeyBalances.Prepaid)

	r.Liquidity.CurrentRatio = ratio("currentRatio", ca, cl)
	r.Liquidity.QuickRatio = ratio("quickRatio", quickAssets, cl)
	r.Liquidity.CashRatio = ratio("cashRatio", bs.KeyBalances.Cash, cl)

	r.Profitability.GrossMargin = ratio("grossMargin", is.GrossProfit, is.TotalRevenue)
	r.Profitability.OperatingMargin = ratio("operatingMargin", is.OperatingIncome, is.TotalRevenue)
	r.Profitability.NetMargin = ratio("netMargin", is.NetIncome, is.TotalRevenue)
	r.Profitability.ReturnOnAssets = ratio("returnOnAssets", is.NetIncome, bs.TotalAssets)
	r.Profitability.ReturnOnEquity = ratio("returnOnEquity", is.NetIncome, bs.TotalEquity)

	r.Leverage.DebtToAssets = ratio("debtToAssets", bs.TotalLiabilities, bs.TotalAssets)
	r.Leverage.DebtToEquity = ratio("debtToEquity", bs.TotalLiabilities, bs.TotalEquity)
	r.Leverage.EquityRatio = ratio("equityRatio", bs.TotalEquity, bs.TotalAssets)

	r.Efficiency.AssetTurnover = ratio("assetTurnover", is.TotalRevenue, bs.TotalAssets)
	r.Efficiency.ReceivablesTurnover = ratio("receivablesTurnover", is.TotalRevenue, bs.KeyBalances.Receivables)
	r.Efficiency.InventoryTurnover = ratio("inventoryTurnover", is.CostOfGoodsSold.Total, bs.KeyBalances.Inventory)
	return r
}

// GenerateFinancialStatements builds all three statements concurrently. The
// balance sheet is as of the period end.
func (s *financialStatementsService) GenerateFinancialStatements(ctx context.Context, organizationID string, period domain.Period) (*domain.FinancialStatements, error) {
	if !period.IsValid() {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidPeriod, "period end precedes its start")
	}

	var (
		bs *domain.BalanceSheet
		is *domain.IncomeStatement
		cf *domain.CashFlowStatement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bs, err = s.GenerateBalanceSheet(gctx, organizationID, period.To)
		return err
	})
	g.Go(func() error {
		var err error
		is, err = s.GenerateIncomeStatement(gctx, organizationID, period)
		return err
	})
	g.Go(func() error {
		var err error
		cf, err = s.GenerateCashFlowStatement(gctx, organizationID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Financial statements generated",
		slog.String("organization_id", organizationID),
		slog.String("period", period.Label()),
		slog.Bool("balance_check", bs.Validation.BalanceCheck))
	return &domain.FinancialStatements{
		OrganizationID:  organizationID,
		Period:          period,
		BalanceSheet:    *bs,
		IncomeStatement: *is,
		CashFlow:        *cf,
		Ratios:          calculateRatios(*bs, *is),
		GeneratedAt:     s.Now(),
	}, nil
}
