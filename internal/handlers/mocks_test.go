package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByNumber(ctx context.Context, organizationID string, number string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetChartOfAccounts(ctx context.Context, organizationID string, includeInactive bool) (*domain.ChartOfAccounts, error) {
	args := m.Called(ctx, organizationID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccounts), args.Error(1)
}

func (m *MockAccountService) GetAccountHierarchy(ctx context.Context, organizationID string) ([]domain.AccountNode, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountNode), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, organizationID string, accountID string, userID string) error {
	args := m.Called(ctx, organizationID, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) CreateStandardChartOfAccounts(ctx context.Context, organizationID string, businessType domain.BusinessType, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, businessType, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, organizationID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockJournalService) ReverseTransaction(ctx context.Context, organizationID string, transactionID string, reason string, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, organizationID, transactionID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockJournalService) GetTransactionByID(ctx context.Context, organizationID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, organizationID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockJournalService) ListTransactions(ctx context.Context, organizationID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, organizationID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockJournalService) GetAccountBalance(ctx context.Context, organizationID string, accountID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, organizationID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockJournalService) GenerateTrialBalance(ctx context.Context, organizationID string, asOf *time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, organizationID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockJournalService) ValidateAccountingEquation(ctx context.Context, organizationID string) (*domain.AccountingEquationCheck, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingEquationCheck), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalanceReport(ctx context.Context, organizationID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, organizationID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

func (m *MockReportingService) ComparePeriods(ctx context.Context, organizationID string, current, prior domain.Period) (*domain.PeriodComparison, error) {
	args := m.Called(ctx, organizationID, current, prior)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodComparison), args.Error(1)
}

func (m *MockReportingService) AccountStatement(ctx context.Context, organizationID string, accountID string, period domain.Period) (*domain.AccountStatement, error) {
	args := m.Called(ctx, organizationID, accountID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountStatement), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock StatementsService ---
type MockStatementsService struct {
	mock.Mock
}

func (m *MockStatementsService) GenerateBalanceSheet(ctx context.Context, organizationID string, asOf time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, organizationID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

func (m *MockStatementsService) GenerateIncomeStatement(ctx context.Context, organizationID string, period domain.Period) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, organizationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}

func (m *MockStatementsService) GenerateCashFlowStatement(ctx context.Context, organizationID string, period domain.Period) (*domain.CashFlowStatement, error) {
	args := m.Called(ctx, organizationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowStatement), args.Error(1)
}

func (m *MockStatementsService) CalculateFinancialRatios(balanceSheet domain.BalanceSheet, incomeStatement domain.IncomeStatement) domain.FinancialRatios {
	args := m.Called(balanceSheet, incomeStatement)
	return args.Get(0).(domain.FinancialRatios)
}

func (m *MockStatementsService) GenerateFinancialStatements(ctx context.Context, organizationID string, period domain.Period) (*domain.FinancialStatements, error) {
	args := m.Called(ctx, organizationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialStatements), args.Error(1)
}

var _ portssvc.FinancialStatementsSvc = (*MockStatementsService)(nil)
