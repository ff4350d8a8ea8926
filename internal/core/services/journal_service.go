package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

const (
	// DefaultPostingTimeout bounds the atomic posting unit.
	DefaultPostingTimeout = 15 * time.Second
	// DefaultMaxEntries caps the legs of a single transaction.
	DefaultMaxEntries = 100
	// MaxDescriptionLength caps transaction and entry descriptions.
	MaxDescriptionLength = 500
	// MinEntries is the double-entry minimum.
	MinEntries = 2

	reversalPrefix = "REVERSAL: "
)

// journalService is the ledger engine: it posts balanced transactions and
// maintains cached account balances.
type journalService struct {
	BaseService
	accountRepo    portsrepo.AccountRepositoryFacade
	txnRepo        portsrepo.TransactionRepositoryFacade
	reportingRepo  portsrepo.ReportingRepository
	txManager      portsrepo.TransactionManager
	auditSink      portsrepo.AuditSink
	postingTimeout time.Duration
	maxEntries     int
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithPostingTimeout overrides the posting timeout.
func WithPostingTimeout(d time.Duration) JournalServiceOption {
	return func(s *journalService) {
		if d > 0 {
			s.postingTimeout = d
		}
	}
}

// WithMaxEntries overrides the per-transaction entry cap.
func WithMaxEntries(n int) JournalServiceOption {
	return func(s *journalService) {
		if n >= MinEntries {
			s.maxEntries = n
		}
	}
}

// WithJournalClock overrides the clock used for creation timestamps and numbering.
func WithJournalClock(clock func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.clock = clock
	}
}

// NewJournalService creates a new ledger engine.
func NewJournalService(
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	reportingRepo portsrepo.ReportingRepository,
	txManager portsrepo.TransactionManager,
	auditSink portsrepo.AuditSink,
	options ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	svc := &journalService{
		accountRepo:    accountRepo,
		txnRepo:        txnRepo,
		reportingRepo:  reportingRepo,
		txManager:      txManager,
		auditSink:      auditSink,
		postingTimeout: DefaultPostingTimeout,
		maxEntries:     DefaultMaxEntries,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateTransaction validates and posts a balanced transaction.
// Preconditions are checked in order, first failure wins: entry count,
// positive amounts, description, account existence/activity, balance.
func (s *journalService) CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.postingTimeout)
	defer cancel()

	var posted *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		posted, err = s.post(txCtx, organizationID, req, actorID, nil)
		return err
	})
	if err != nil {
		return nil, s.classifyPostingError(ctx, err, organizationID)
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("organization_id", organizationID),
		slog.String("transaction_id", posted.TransactionID),
		slog.String("transaction_number", posted.TransactionNumber),
		slog.Int("entries", len(posted.Entries)))
	return posted, nil
}

// ReverseTransaction posts a mirror of the original with DEBIT and CREDIT
// flipped and marks the original reversed, all in one atomic unit.
func (s *journalService) ReverseTransaction(ctx context.Context, organizationID string, transactionID string, reason string, actorID string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.postingTimeout)
	defer cancel()

	var reversal *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		original, err := s.txnRepo.FindTransactionByIDForUpdate(txCtx, organizationID, transactionID)
		if err != nil {
			return err
		}
		if original.IsReversed() {
			return apperrors.NewConflict(apperrors.ReasonAlreadyReversed, "transaction %s has already been reversed", original.TransactionNumber)
		}

		req := dto.CreateTransactionRequest{
			TransactionDate: domain.StartOfDay(s.Now()),
			Description:     truncate(reversalPrefix+original.Description, MaxDescriptionLength),
			Entries:         make([]dto.CreateEntryRequest, 0, len(original.Entries)),
		}
		for _, e := range original.Entries {
			req.Entries = append(req.Entries, dto.CreateEntryRequest{
				AccountID:     e.AccountID,
				EntryType:     e.EntryType.Opposite(),
				Amount:        e.Amount,
				Description:   truncate(reversalPrefix+e.Description, MaxDescriptionLength),
				ReferenceType: e.ReferenceType,
				ReferenceID:   e.ReferenceID,
			})
		}

		reversal, err = s.post(txCtx, organizationID, req, actorID, &original.TransactionID)
		if err != nil {
			return err
		}

		now := s.Now()
		if err := s.txnRepo.MarkTransactionReversed(txCtx, organizationID, original.TransactionID, reversal.TransactionID, now); err != nil {
			return err
		}
		return s.recordAudit(txCtx, s.auditSink, domain.AuditRecord{
			Action:         domain.AuditTransactionReversed,
			EntityType:     domain.EntityTransaction,
			EntityID:       original.TransactionID,
			OrganizationID: organizationID,
			ActorID:        actorID,
			Details: map[string]any{
				"reversalTransactionID":     reversal.TransactionID,
				"reversalTransactionNumber": reversal.TransactionNumber,
				"reason":                    reason,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, s.classifyPostingError(ctx, err, organizationID, slog.String("transaction_id", transactionID))
	}

	s.LogInfo(ctx, "Transaction reversed",
		slog.String("organization_id", organizationID),
		slog.String("transaction_id", transactionID),
		slog.String("reversal_id", reversal.TransactionID))
	return reversal, nil
}

// post runs every precondition and then persists the transaction, its entries,
// the balance deltas and the audit record. ctx must carry a store transaction.
func (s *journalService) post(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, actorID string, reverses *string) (*domain.Transaction, error) {
	if err := s.validateEntries(req); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(req.Entries))
	for _, e := range req.Entries {
		accountIDs = append(accountIDs, e.AccountID)
	}
	accountIDs = uniqueStrings(accountIDs)
	sort.Strings(accountIDs)

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, organizationID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	if err := checkAccounts(accountIDs, accounts); err != nil {
		return nil, err
	}

	now := s.Now()
	txn := domain.Transaction{
		TransactionID:         uuid.NewString(),
		OrganizationID:        organizationID,
		TransactionDate:       domain.StartOfDay(req.TransactionDate),
		Description:           strings.TrimSpace(req.Description),
		Status:                domain.Posted,
		ReversesTransactionID: reverses,
		CreatedAt:             now,
		CreatedBy:             actorID,
		Entries:               make([]domain.JournalEntry, 0, len(req.Entries)),
	}
	for _, e := range req.Entries {
		txn.Entries = append(txn.Entries, domain.JournalEntry{
			EntryID:        uuid.NewString(),
			TransactionID:  txn.TransactionID,
			OrganizationID: organizationID,
			AccountID:      e.AccountID,
			EntryType:      e.EntryType,
			Amount:         e.Amount,
			Description:    e.Description,
			ReferenceType:  e.ReferenceType,
			ReferenceID:    e.ReferenceID,
			EntryDate:      txn.TransactionDate,
			CreatedAt:      now,
		})
	}
	txn.TotalDebits, txn.TotalCredits = domain.Totals(txn.Entries)
	if !domain.WithinTolerance(txn.TotalDebits, txn.TotalCredits) {
		diff := txn.TotalDebits.Sub(txn.TotalCredits).Abs()
		return nil, apperrors.NewValidation(apperrors.ReasonUnbalanced,
			"transaction is unbalanced: debits %s, credits %s, difference %s",
			txn.TotalDebits.String(), txn.TotalCredits.String(), diff.String())
	}

	// Lock in id order so concurrent postings touching the same accounts cannot deadlock.
	locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, organizationID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	if err := checkAccounts(accountIDs, locked); err != nil {
		return nil, err
	}

	seq, err := s.txnRepo.NextTransactionSequence(ctx, organizationID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate transaction number: %w", err)
	}
	txn.TransactionNumber = domain.FormatTransactionNumber(now, seq)

	changes, err := accounting.BalanceChanges(txn.Entries, locked)
	if err != nil {
		return nil, err
	}
	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	if err := s.accountRepo.UpdateAccountBalances(ctx, organizationID, changes, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to update account balances: %w", err)
	}

	details := map[string]any{
		"transactionNumber": txn.TransactionNumber,
		"totalDebits":       txn.TotalDebits.String(),
		"totalCredits":      txn.TotalCredits.String(),
		"entryCount":        len(txn.Entries),
	}
	if reverses != nil {
		details["reverses"] = *reverses
	}
	if err := s.recordAudit(ctx, s.auditSink, domain.AuditRecord{
		Action:         domain.AuditTransactionPosted,
		EntityType:     domain.EntityTransaction,
		EntityID:       txn.TransactionID,
		OrganizationID: organizationID,
		ActorID:        actorID,
		Details:        details,
		CreatedAt:      now,
	}); err != nil {
		return nil, err
	}
	return &txn, nil
}

// validateEntries checks the preconditions that need no store access.
func (s *journalService) validateEntries(req dto.CreateTransactionRequest) error {
	if len(req.Entries) < MinEntries {
		return apperrors.NewValidation(apperrors.ReasonTooFewEntries, "transaction must have at least 2 entries, got %d", len(req.Entries))
	}
	if len(req.Entries) > s.maxEntries {
		return apperrors.NewValidation(apperrors.ReasonTooManyEntries, "transaction may have at most %d entries, got %d", s.maxEntries, len(req.Entries))
	}
	for i, e := range req.Entries {
		if !e.Amount.IsPositive() {
			return apperrors.NewValidation(apperrors.ReasonNonPositiveAmount, "entry %d amount must be greater than zero, got %s", i, e.Amount.String())
		}
		if !e.EntryType.IsValid() {
			return apperrors.NewValidation(apperrors.ReasonInvalidEntryType, "entry %d has invalid entry type %q", i, e.EntryType)
		}
		if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
			return apperrors.NewValidation(apperrors.ReasonDescriptionTooLong, "entry %d description exceeds %d characters", i, MaxDescriptionLength)
		}
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return apperrors.NewValidation(apperrors.ReasonEmptyDescription, "transaction description is required")
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return apperrors.NewValidation(apperrors.ReasonDescriptionTooLong, "transaction description exceeds %d characters", MaxDescriptionLength)
	}
	if req.TransactionDate.IsZero() {
		return apperrors.NewValidation(apperrors.ReasonInvalidPeriod, "transaction date is required")
	}
	return nil
}

func checkAccounts(ids []string, accounts map[string]domain.Account) error {
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return apperrors.NewNotFound("account", id)
		}
		if !acc.IsActive {
			return apperrors.NewValidation(apperrors.ReasonInactiveAccount, "account %s (%s) is inactive", acc.AccountNumber, acc.Name)
		}
	}
	return nil
}

// classifyPostingError turns deadline expiry into a transient failure and logs the outcome.
func (s *journalService) classifyPostingError(ctx context.Context, err error, organizationID string, attrs ...any) error {
	if !apperrors.IsKnown(err) && (errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		err = apperrors.NewTransient(apperrors.ReasonStoreTimeout, "posting exceeded its execution timeout", err)
	}
	attrs = append(attrs, slog.String("organization_id", organizationID))
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrNotFound):
		s.LogWarn(ctx, err, "Posting rejected", attrs...)
	default:
		s.LogError(ctx, err, "Posting failed", attrs...)
	}
	return err
}

// GetTransactionByID retrieves a transaction with its entries.
func (s *journalService) GetTransactionByID(ctx context.Context, organizationID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, organizationID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to fetch transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactions lists transactions newest first.
func (s *journalService) ListTransactions(ctx context.Context, organizationID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	txns, next, err := s.txnRepo.ListTransactions(ctx, organizationID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("organization_id", organizationID))
		return nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return &dto.ListTransactionsResponse{Transactions: txns, NextToken: next}, nil
}

// GetAccountBalance reads the cached balance plus the most recent entry date.
func (s *journalService) GetAccountBalance(ctx context.Context, organizationID string, accountID string) (*domain.AccountBalance, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}
	last, err := s.txnRepo.LastEntryDate(ctx, organizationID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read last entry date", slog.String("account_id", accountID))
		return nil, err
	}
	return &domain.AccountBalance{AccountID: acc.AccountID, Balance: acc.Balance, LastTransactionDate: last}, nil
}

// GenerateTrialBalance sums DEBIT and CREDIT amounts per account up to the
// cutoff and accumulates each balance on its natural side. Inactive accounts
// are included since they may have carried a balance at the cutoff.
func (s *journalService) GenerateTrialBalance(ctx context.Context, organizationID string, asOf *time.Time) (*domain.TrialBalance, error) {
	cutoff := s.Now()
	if asOf != nil {
		cutoff = *asOf
	}
	cutoff = domain.EndOfDay(cutoff)

	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, true)
	if err != nil {
		return nil, err
	}
	activity, err := s.reportingRepo.SumEntriesByAccount(ctx, organizationID, nil, cutoff)
	if err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{
		OrganizationID: organizationID,
		AsOfDate:       domain.StartOfDay(cutoff),
		Entries:        []domain.TrialBalanceEntry{},
		TotalDebits:    decimal.Zero,
		TotalCredits:   decimal.Zero,
	}
	for _, acc := range accounts {
		act, ok := activity[acc.AccountID]
		if !ok {
			continue
		}
		balance := act.Net(acc.AccountType)
		if !balance.Abs().GreaterThan(domain.BalanceTolerance) {
			continue
		}
		normal := acc.AccountType.NormalBalance()
		tb.Entries = append(tb.Entries, domain.TrialBalanceEntry{
			AccountID:     acc.AccountID,
			AccountNumber: acc.AccountNumber,
			AccountName:   acc.Name,
			AccountType:   acc.AccountType,
			DebitTotal:    act.Debits,
			CreditTotal:   act.Credits,
			Balance:       balance,
			NormalBalance: normal,
		})
		if normal == domain.Debit {
			tb.TotalDebits = tb.TotalDebits.Add(balance)
		} else {
			tb.TotalCredits = tb.TotalCredits.Add(balance)
		}
	}
	tb.IsBalanced = domain.WithinTolerance(tb.TotalDebits, tb.TotalCredits)
	if !tb.IsBalanced {
		s.LogError(ctx, errors.New("trial balance out of balance"), "Ledger integrity check failed",
			slog.String("organization_id", organizationID),
			slog.String("total_debits", tb.TotalDebits.String()),
			slog.String("total_credits", tb.TotalCredits.String()))
	}
	return tb, nil
}

// ValidateAccountingEquation sums cached balances per type; revenue adds to
// equity and expense subtracts from it.
func (s *journalService) ValidateAccountingEquation(ctx context.Context, organizationID string) (*domain.AccountingEquationCheck, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, true)
	if err != nil {
		return nil, err
	}
	check := &domain.AccountingEquationCheck{Assets: decimal.Zero, Liabilities: decimal.Zero, Equity: decimal.Zero}
	for _, acc := range accounts {
		switch acc.AccountType {
		case domain.Asset:
			check.Assets = check.Assets.Add(acc.Balance)
		case domain.Liability:
			check.Liabilities = check.Liabilities.Add(acc.Balance)
		case domain.Equity, domain.Revenue:
			check.Equity = check.Equity.Add(acc.Balance)
		case domain.Expense:
			check.Equity = check.Equity.Sub(acc.Balance)
		}
	}
	check.Difference = check.Assets.Sub(check.Liabilities.Add(check.Equity))
	check.IsValid = check.Difference.Abs().LessThan(domain.BalanceTolerance)
	return check, nil
}

// truncate cuts s to at most max characters.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
