package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
)

type JournalServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	accounts portssvc.AccountSvcFacade
	journal  portssvc.JournalSvcFacade
	now      time.Time

	cash     *domain.Account
	revenue  *domain.Account
	rent     *domain.Account
	payable  *domain.Account
	postDate time.Time
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return suite.now }
	suite.accounts = services.NewAccountService(suite.store, suite.store, services.WithAuditSink(suite.store))
	suite.journal = services.NewJournalService(suite.store, suite.store, suite.store, suite.store, suite.store,
		services.WithJournalClock(clock))
	suite.postDate = day(2024, 1, 10)

	suite.cash = suite.account("1010", "Cash", domain.Asset)
	suite.revenue = suite.account("4010", "Sales Revenue", domain.Revenue)
	suite.rent = suite.account("6020", "Rent Expense", domain.Expense)
	suite.payable = suite.account("2010", "Accounts Payable", domain.Liability)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (suite *JournalServiceTestSuite) account(number, name string, typ domain.AccountType) *domain.Account {
	acc, err := suite.accounts.CreateAccount(suite.ctx, testOrg, dto.CreateAccountRequest{AccountNumber: number, Name: name, AccountType: typ}, "setup")
	suite.Require().NoError(err)
	return acc
}

func entry(accountID string, typ domain.EntryType, amount string) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{AccountID: accountID, EntryType: typ, Amount: dec(amount)}
}

func (suite *JournalServiceTestSuite) request(desc string, entries ...dto.CreateEntryRequest) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{TransactionDate: suite.postDate, Description: desc, Entries: entries}
}

func (suite *JournalServiceTestSuite) balance(acc *domain.Account) decimal.Decimal {
	b, err := suite.journal.GetAccountBalance(suite.ctx, testOrg, acc.AccountID)
	suite.Require().NoError(err)
	return b.Balance
}

func (suite *JournalServiceTestSuite) sale(amount string) *domain.Transaction {
	txn, err := suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Cash sale",
		entry(suite.cash.AccountID, domain.Debit, amount),
		entry(suite.revenue.AccountID, domain.Credit, amount)), "poster")
	suite.Require().NoError(err)
	return txn
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_PostsAndUpdatesBalances() {
	txn := suite.sale("500")

	suite.Equal("TXN-20240115-0001", txn.TransactionNumber)
	suite.Equal(domain.Posted, txn.Status)
	suite.True(txn.TotalDebits.Equal(dec("500")))
	suite.True(txn.TotalCredits.Equal(dec("500")))
	suite.Len(txn.Entries, 2)
	suite.True(txn.TransactionDate.Equal(suite.postDate))

	suite.True(suite.balance(suite.cash).Equal(dec("500")), "cash is debit-normal")
	suite.True(suite.balance(suite.revenue).Equal(dec("500")), "revenue is credit-normal")

	tb, err := suite.journal.GenerateTrialBalance(suite.ctx, testOrg, nil)
	suite.Require().NoError(err)
	suite.True(tb.IsBalanced)
	suite.True(tb.TotalDebits.Equal(dec("500")))
	suite.True(tb.TotalCredits.Equal(dec("500")))
	suite.Len(tb.Entries, 2)

	last := suite.store.AuditRecords()
	suite.Require().NotEmpty(last)
	suite.Equal(domain.AuditTransactionPosted, last[len(last)-1].Action)
	suite.Equal(txn.TransactionID, last[len(last)-1].EntityID)
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_NumbersAreSequentialPerDay() {
	first := suite.sale("10")
	second := suite.sale("20")
	suite.Equal("TXN-20240115-0001", first.TransactionNumber)
	suite.Equal("TXN-20240115-0002", second.TransactionNumber)

	suite.now = suite.now.AddDate(0, 0, 1)
	third := suite.sale("30")
	suite.Equal("TXN-20240116-0001", third.TransactionNumber)
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_Unbalanced() {
	_, err := suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Mismatch",
		entry(suite.cash.AccountID, domain.Debit, "1000"),
		entry(suite.revenue.AccountID, domain.Credit, "999")), "poster")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(apperrors.ReasonUnbalanced, apperrors.Reason(err))
	suite.Contains(err.Error(), "debits 1000, credits 999, difference 1")
	suite.True(suite.balance(suite.cash).IsZero())
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_WithinTolerance() {
	txn, err := suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Rounding",
		entry(suite.cash.AccountID, domain.Debit, "100.005"),
		entry(suite.revenue.AccountID, domain.Credit, "100")), "poster")
	suite.Require().NoError(err)
	suite.NotEmpty(txn.TransactionNumber)
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_RejectsInOrder() {
	long := make([]byte, services.MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'x'
	}
	tests := []struct {
		name   string
		req    dto.CreateTransactionRequest
		kind   error
		reason string
		msg    string
	}{
		{
			name:   "single entry",
			req:    suite.request("One leg", entry(suite.cash.AccountID, domain.Debit, "10")),
			kind:   apperrors.ErrValidation,
			reason: apperrors.ReasonTooFewEntries,
			msg:    "at least 2 entries",
		},
		{
			name:   "zero amount beats empty description",
			req:    suite.request("", entry(suite.cash.AccountID, domain.Debit, "0"), entry(suite.revenue.AccountID, domain.Credit, "0")),
			kind:   apperrors.ErrValidation,
			reason: apperrors.ReasonNonPositiveAmount,
		},
		{
			name:   "negative amount",
			req:    suite.request("Neg", entry(suite.cash.AccountID, domain.Debit, "-5"), entry(suite.revenue.AccountID, domain.Credit, "-5")),
			kind:   apperrors.ErrValidation,
			reason: apperrors.ReasonNonPositiveAmount,
		},
		{
			name:   "invalid entry type",
			req:    suite.request("Type", entry(suite.cash.AccountID, "SIDEWAYS", "5"), entry(suite.revenue.AccountID, domain.Credit, "5")),
			kind:   apperrors.ErrValidation,
			reason: apperrors.ReasonInvalidEntryType,
		},
		{
			name:   "blank description",
			req:    suite.request("   ", entry(suite.cash.AccountID, domain.Debit, "5"), entry(suite.revenue.AccountID, domain.Credit, "5")),
			kind:   apperrors.ErrValidation,
			reason: apperrors.ReasonEmptyDescription,
		},
		{
			name:   "description too long",
			req:    suite.request(string(long), entry(suite.cash.AccountID, domain.Debit, "5"), entry(suite.revenue.AccountID, domain.Credit, "5")),
			kind:   apperrors.ErrValidation,
			reason: apperrors.ReasonDescriptionTooLong,
		},
		{
			name:   "unknown account beats unbalanced",
			req:    suite.request("Ghost", entry("no-such-account", domain.Debit, "5"), entry(suite.revenue.AccountID, domain.Credit, "7")),
			kind:   apperrors.ErrNotFound,
			reason: "NOT_FOUND",
		},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			txn, err := suite.journal.CreateTransaction(suite.ctx, testOrg, tt.req, "poster")
			suite.Nil(txn)
			suite.ErrorIs(err, tt.kind)
			suite.Equal(tt.reason, apperrors.Reason(err))
			if tt.msg != "" {
				suite.Contains(err.Error(), tt.msg)
			}
		})
	}
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_TooManyEntries() {
	journal := services.NewJournalService(suite.store, suite.store, suite.store, suite.store, suite.store, services.WithMaxEntries(2))
	_, err := journal.CreateTransaction(suite.ctx, testOrg, suite.request("Three legs",
		entry(suite.cash.AccountID, domain.Debit, "10"),
		entry(suite.revenue.AccountID, domain.Credit, "5"),
		entry(suite.revenue.AccountID, domain.Credit, "5")), "poster")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(apperrors.ReasonTooManyEntries, apperrors.Reason(err))
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_InactiveAccount() {
	inactive := false
	_, err := suite.accounts.UpdateAccount(suite.ctx, testOrg, suite.rent.AccountID, dto.UpdateAccountRequest{IsActive: &inactive}, "admin")
	suite.Require().NoError(err)

	_, err = suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Rent",
		entry(suite.rent.AccountID, domain.Debit, "100"),
		entry(suite.cash.AccountID, domain.Credit, "100")), "poster")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(apperrors.ReasonInactiveAccount, apperrors.Reason(err))
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_OtherOrganizationsAccount() {
	other, err := suite.accounts.CreateAccount(suite.ctx, "org-other", dto.CreateAccountRequest{AccountNumber: "1010", Name: "Cash", AccountType: domain.Asset}, "x")
	suite.Require().NoError(err)

	_, err = suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Cross-tenant",
		entry(other.AccountID, domain.Debit, "100"),
		entry(suite.revenue.AccountID, domain.Credit, "100")), "poster")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.NotContains(err.Error(), "org-other")
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_AuditFailureRollsBack() {
	suite.store.FailAudit(errors.New("audit store offline"))
	defer suite.store.FailAudit(nil)

	_, err := suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Doomed",
		entry(suite.cash.AccountID, domain.Debit, "250"),
		entry(suite.revenue.AccountID, domain.Credit, "250")), "poster")

	suite.ErrorIs(err, apperrors.ErrAuditFailure)
	suite.True(suite.balance(suite.cash).IsZero())
	suite.True(suite.balance(suite.revenue).IsZero())

	page, err := suite.journal.ListTransactions(suite.ctx, testOrg, dto.ListTransactionsParams{})
	suite.Require().NoError(err)
	suite.Empty(page.Transactions)

	// The failed posting did not consume a sequence number.
	suite.store.FailAudit(nil)
	suite.Equal("TXN-20240115-0001", suite.sale("1").TransactionNumber)
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_TimeoutIsTransient() {
	blocking := blockingTxManager{}
	journal := services.NewJournalService(suite.store, suite.store, suite.store, blocking, suite.store,
		services.WithPostingTimeout(5*time.Millisecond))

	_, err := journal.CreateTransaction(suite.ctx, testOrg, suite.request("Slow",
		entry(suite.cash.AccountID, domain.Debit, "1"),
		entry(suite.revenue.AccountID, domain.Credit, "1")), "poster")

	suite.ErrorIs(err, apperrors.ErrTransient)
	suite.Equal(apperrors.ReasonStoreTimeout, apperrors.Reason(err))
}

// blockingTxManager never runs fn and waits for the deadline instead.
type blockingTxManager struct{}

func (blockingTxManager) WithinTransaction(ctx context.Context, _ func(ctx context.Context) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func (suite *JournalServiceTestSuite) TestReverseTransaction() {
	original := suite.sale("500")
	_, err := suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Rent on credit",
		entry(suite.rent.AccountID, domain.Debit, "120"),
		entry(suite.payable.AccountID, domain.Credit, "120")), "poster")
	suite.Require().NoError(err)

	reversal, err := suite.journal.ReverseTransaction(suite.ctx, testOrg, original.TransactionID, "entered twice", "reviewer")
	suite.Require().NoError(err)

	suite.Equal("REVERSAL: Cash sale", reversal.Description)
	suite.Require().NotNil(reversal.ReversesTransactionID)
	suite.Equal(original.TransactionID, *reversal.ReversesTransactionID)
	for _, e := range reversal.Entries {
		switch e.AccountID {
		case suite.cash.AccountID:
			suite.Equal(domain.Credit, e.EntryType)
		case suite.revenue.AccountID:
			suite.Equal(domain.Debit, e.EntryType)
		}
	}

	suite.True(suite.balance(suite.cash).IsZero())
	suite.True(suite.balance(suite.revenue).IsZero())
	suite.True(suite.balance(suite.rent).Equal(dec("120")), "unrelated postings are untouched")

	reloaded, err := suite.journal.GetTransactionByID(suite.ctx, testOrg, original.TransactionID)
	suite.Require().NoError(err)
	suite.True(reloaded.IsReversed())
	suite.Equal(reversal.TransactionID, *reloaded.ReversedByID)

	_, err = suite.journal.ReverseTransaction(suite.ctx, testOrg, original.TransactionID, "again", "reviewer")
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.ReasonAlreadyReversed, apperrors.Reason(err))

	records := suite.store.AuditRecords()
	suite.Equal(domain.AuditTransactionReversed, records[len(records)-1].Action)
	suite.Equal("entered twice", records[len(records)-1].Details["reason"])
}

func (suite *JournalServiceTestSuite) TestReverseTransaction_NotFound() {
	_, err := suite.journal.ReverseTransaction(suite.ctx, testOrg, "missing", "typo", "reviewer")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestTrialBalance_Cutoff() {
	suite.sale("100")
	suite.postDate = day(2024, 2, 1)
	suite.sale("40")

	before := day(2024, 1, 31)
	tb, err := suite.journal.GenerateTrialBalance(suite.ctx, testOrg, &before)
	suite.Require().NoError(err)
	suite.True(tb.TotalDebits.Equal(dec("100")))
	suite.True(tb.IsBalanced)

	after := day(2024, 2, 1)
	tb, err = suite.journal.GenerateTrialBalance(suite.ctx, testOrg, &after)
	suite.Require().NoError(err)
	suite.True(tb.TotalDebits.Equal(dec("140")))
}

func (suite *JournalServiceTestSuite) TestTrialBalance_IncludesAccountDeactivatedLater() {
	petty := suite.account("1020", "Petty Cash", domain.Asset)

	suite.postDate = day(2024, 1, 1)
	suite.sale("500")
	suite.postDate = day(2024, 1, 2)
	_, err := suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Fund petty cash",
		entry(petty.AccountID, domain.Debit, "100"),
		entry(suite.cash.AccountID, domain.Credit, "100")), "poster")
	suite.Require().NoError(err)
	suite.postDate = day(2024, 2, 1)
	_, err = suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Close petty cash",
		entry(suite.cash.AccountID, domain.Debit, "100"),
		entry(petty.AccountID, domain.Credit, "100")), "poster")
	suite.Require().NoError(err)

	inactive := false
	_, err = suite.accounts.UpdateAccount(suite.ctx, testOrg, petty.AccountID, dto.UpdateAccountRequest{IsActive: &inactive}, "editor")
	suite.Require().NoError(err)

	mid := day(2024, 1, 15)
	tb, err := suite.journal.GenerateTrialBalance(suite.ctx, testOrg, &mid)
	suite.Require().NoError(err)
	suite.True(tb.IsBalanced, "debits %s credits %s", tb.TotalDebits, tb.TotalCredits)
	suite.True(tb.TotalDebits.Equal(dec("500")))
	suite.True(tb.TotalCredits.Equal(dec("500")))
	suite.Len(tb.Entries, 3)

	closed := day(2024, 2, 1)
	tb, err = suite.journal.GenerateTrialBalance(suite.ctx, testOrg, &closed)
	suite.Require().NoError(err)
	suite.True(tb.IsBalanced)
	suite.Len(tb.Entries, 2, "a zero balance is left out whether or not the account is active")
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_DescriptionLimitCountsCharacters() {
	accented := strings.Repeat("é", services.MaxDescriptionLength)
	txn, err := suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request(accented,
		entry(suite.cash.AccountID, domain.Debit, "5"),
		entry(suite.revenue.AccountID, domain.Credit, "5")), "poster")
	suite.Require().NoError(err, "%d characters fit although they take %d bytes", services.MaxDescriptionLength, len(accented))

	_, err = suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request(accented+"é",
		entry(suite.cash.AccountID, domain.Debit, "5"),
		entry(suite.revenue.AccountID, domain.Credit, "5")), "poster")
	suite.Equal(apperrors.ReasonDescriptionTooLong, apperrors.Reason(err))

	reversal, err := suite.journal.ReverseTransaction(suite.ctx, testOrg, txn.TransactionID, "duplicate", "reviewer")
	suite.Require().NoError(err)
	suite.Equal(services.MaxDescriptionLength, utf8.RuneCountInString(reversal.Description))
	suite.True(utf8.ValidString(reversal.Description))
	suite.True(strings.HasPrefix(reversal.Description, "REVERSAL: é"))
}

func (suite *JournalServiceTestSuite) TestValidateAccountingEquation() {
	suite.sale("300")
	_, err := suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Rent on credit",
		entry(suite.rent.AccountID, domain.Debit, "120"),
		entry(suite.payable.AccountID, domain.Credit, "120")), "poster")
	suite.Require().NoError(err)

	check, err := suite.journal.ValidateAccountingEquation(suite.ctx, testOrg)
	suite.Require().NoError(err)
	suite.True(check.IsValid)
	suite.True(check.Assets.Equal(dec("300")))
	suite.True(check.Liabilities.Equal(dec("120")))
	suite.True(check.Equity.Equal(dec("180")))
}

func (suite *JournalServiceTestSuite) TestListTransactions_Pagination() {
	for i := 1; i <= 5; i++ {
		suite.postDate = day(2024, 1, i)
		suite.sale(fmt.Sprint(i))
	}

	page, err := suite.journal.ListTransactions(suite.ctx, testOrg, dto.ListTransactionsParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page.Transactions, 2)
	suite.True(page.Transactions[0].TransactionDate.Equal(day(2024, 1, 5)))
	suite.Require().NotNil(page.NextToken)

	seen := len(page.Transactions)
	for page.NextToken != nil {
		page, err = suite.journal.ListTransactions(suite.ctx, testOrg, dto.ListTransactionsParams{Limit: 2, NextToken: page.NextToken})
		suite.Require().NoError(err)
		seen += len(page.Transactions)
	}
	suite.Equal(5, seen)
}

func (suite *JournalServiceTestSuite) TestGetAccountBalance_LastTransactionDate() {
	b, err := suite.journal.GetAccountBalance(suite.ctx, testOrg, suite.cash.AccountID)
	suite.Require().NoError(err)
	suite.Nil(b.LastTransactionDate)

	suite.sale("5")
	b, err = suite.journal.GetAccountBalance(suite.ctx, testOrg, suite.cash.AccountID)
	suite.Require().NoError(err)
	suite.Require().NotNil(b.LastTransactionDate)
	suite.True(b.LastTransactionDate.Equal(suite.postDate))
}

func (suite *JournalServiceTestSuite) TestCreateTransaction_ConcurrentPostings() {
	const workers = 20
	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txn, err := suite.journal.CreateTransaction(suite.ctx, testOrg, suite.request("Concurrent sale",
				entry(suite.cash.AccountID, domain.Debit, "10"),
				entry(suite.revenue.AccountID, domain.Credit, "10")), "poster")
			if err != nil {
				errs <- err
				return
			}
			numbers <- txn.TransactionNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		suite.Fail("posting failed", err.Error())
	}
	unique := map[string]bool{}
	for n := range numbers {
		suite.False(unique[n], "duplicate transaction number %s", n)
		unique[n] = true
	}
	suite.Len(unique, workers)
	suite.True(suite.balance(suite.cash).Equal(dec("200")))
}
