package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.AccountRepo,
		repos.TxManager,
		WithAuditSink(repos.AuditSink),
	)

	container.Journal = NewJournalService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.ReportingRepo,
		repos.TxManager,
		repos.AuditSink,
		WithPostingTimeout(cfg.PostingTimeout),
		WithMaxEntries(cfg.MaxEntriesPerTransaction),
	)

	container.Reporting = NewReportingService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.ReportingRepo,
		WithFiscalYearStartMonth(cfg.FiscalYearStartMonth),
	)

	// Analysis services only see statements, never the ledger store.
	container.Statements = NewFinancialStatementsService(repos.AccountRepo, repos.ReportingRepo)
	container.BalanceAnalysis = NewBalanceSheetAnalysisService(container.Statements)
	container.IncomeAnalysis = NewIncomeStatementAnalysisService(container.Statements, WithIncomeGrowthRate(cfg.ForecastGrowthRate))
	container.CashFlowAnalysis = NewCashFlowAnalysisService(container.Statements, WithCashFlowGrowthRate(cfg.ForecastGrowthRate))
	container.Export = NewExportService()

	return container
}
