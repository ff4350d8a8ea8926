// Package memory is an in-process ledger store used by tests and the CLI's
// --in-memory mode. It implements every repository port with the same
// organization scoping and atomicity as the pgsql adapter.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

type txKey struct{ store *Store }

type state struct {
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction // entries are kept separately
	entries      []domain.JournalEntry
	audit        []domain.AuditRecord
}

func (s state) clone() state {
	c := state{
		accounts:     make(map[string]domain.Account, len(s.accounts)),
		transactions: make(map[string]domain.Transaction, len(s.transactions)),
		entries:      append([]domain.JournalEntry(nil), s.entries...),
		audit:        append([]domain.AuditRecord(nil), s.audit...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	return c
}

// Store is a mutex-guarded ledger. WithinTransaction holds the write lock for
// the whole unit and restores a snapshot when the unit fails, so failed
// postings leave nothing behind.
type Store struct {
	mu       sync.RWMutex
	data     state
	auditErr error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: state{
		accounts:     map[string]domain.Account{},
		transactions: map[string]domain.Transaction{},
	}}
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.ReportingRepository         = (*Store)(nil)
	_ portsrepo.AuditSink                   = (*Store)(nil)
	_ portsrepo.TransactionManager          = (*Store)(nil)
)

// Provider wires the store into every repository slot.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     s,
		TransactionRepo: s,
		ReportingRepo:   s,
		AuditSink:       s,
		TxManager:       s,
	}
}

// FailAudit makes every subsequent audit write fail with err. nil restores normal behavior.
func (s *Store) FailAudit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditErr = err
}

// AuditRecords returns a copy of the recorded audit trail.
func (s *Store) AuditRecords() []domain.AuditRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AuditRecord(nil), s.data.audit...)
}

func (s *Store) inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{s}).(bool)
	return ok
}

// read runs fn under the read lock unless ctx already holds the write lock.
func (s *Store) read(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewTransient(apperrors.ReasonStoreTimeout, "store operation cancelled", err)
	}
	if s.inTx(ctx) {
		return fn()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}

// write runs fn under the write lock unless ctx already holds it. Writes
// outside WithinTransaction are applied immediately.
func (s *Store) write(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewTransient(apperrors.ReasonStoreTimeout, "store operation cancelled", err)
	}
	if s.inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// WithinTransaction runs fn atomically. Nested calls join the outer unit.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	txCtx := context.WithValue(ctx, txKey{s}, true)
	err := fn(txCtx)
	if err == nil && ctx.Err() != nil {
		err = apperrors.NewTransient(apperrors.ReasonStoreTimeout, "transaction exceeded its deadline", ctx.Err())
	}
	if err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// --- accounts ---

func (s *Store) visibleAccount(organizationID, accountID string) (domain.Account, bool) {
	acc, ok := s.data.accounts[accountID]
	if !ok || acc.OrganizationID != organizationID || acc.IsDeleted() {
		return domain.Account{}, false
	}
	return acc, true
}

func (s *Store) FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := s.read(ctx, func() error {
		acc, ok := s.visibleAccount(organizationID, accountID)
		if !ok {
			return apperrors.NewNotFound("account", accountID)
		}
		out = &acc
		return nil
	})
	return out, err
}

func (s *Store) FindAccountByNumber(ctx context.Context, organizationID, number string) (*domain.Account, error) {
	var out *domain.Account
	err := s.read(ctx, func() error {
		for _, acc := range s.data.accounts {
			if acc.OrganizationID == organizationID && acc.AccountNumber == number && !acc.IsDeleted() {
				a := acc
				out = &a
				return nil
			}
		}
		return apperrors.NewNotFound("account", number)
	})
	return out, err
}

func (s *Store) FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := s.read(ctx, func() error {
		for _, id := range accountIDs {
			if acc, ok := s.visibleAccount(organizationID, id); ok {
				out[id] = acc
			}
		}
		return nil
	})
	return out, err
}

// FindAccountsByIDsForUpdate is FindAccountsByIDs; the transaction's write lock already serializes writers.
func (s *Store) FindAccountsByIDsForUpdate(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	return s.FindAccountsByIDs(ctx, organizationID, accountIDs)
}

func (s *Store) ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error) {
	var out []domain.Account
	err := s.read(ctx, func() error {
		for _, acc := range s.data.accounts {
			if acc.OrganizationID != organizationID || acc.IsDeleted() || (!includeInactive && !acc.IsActive) {
				continue
			}
			out = append(out, acc)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out, err
}

func (s *Store) ListChildAccounts(ctx context.Context, organizationID, parentAccountID string) ([]domain.Account, error) {
	var out []domain.Account
	err := s.read(ctx, func() error {
		for _, acc := range s.data.accounts {
			if acc.OrganizationID == organizationID && !acc.IsDeleted() && acc.ParentID() == parentAccountID {
				out = append(out, acc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out, err
}

func (s *Store) CountEntriesForAccount(ctx context.Context, organizationID, accountID string) (int, error) {
	n := 0
	err := s.read(ctx, func() error {
		for _, e := range s.data.entries {
			if e.OrganizationID == organizationID && e.AccountID == accountID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.write(ctx, func() error {
		if _, exists := s.data.accounts[account.AccountID]; exists {
			return apperrors.ErrDuplicate
		}
		for _, acc := range s.data.accounts {
			if acc.OrganizationID == account.OrganizationID && acc.AccountNumber == account.AccountNumber && !acc.IsDeleted() {
				return apperrors.ErrDuplicate
			}
		}
		s.data.accounts[account.AccountID] = account
		return nil
	})
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	return s.write(ctx, func() error {
		existing, ok := s.visibleAccount(account.OrganizationID, account.AccountID)
		if !ok {
			return apperrors.NewNotFound("account", account.AccountID)
		}
		for _, acc := range s.data.accounts {
			if acc.AccountID != account.AccountID && acc.OrganizationID == account.OrganizationID &&
				acc.AccountNumber == account.AccountNumber && !acc.IsDeleted() {
				return apperrors.ErrDuplicate
			}
		}
		account.Balance = existing.Balance
		account.CreatedAt, account.CreatedBy = existing.CreatedAt, existing.CreatedBy
		s.data.accounts[account.AccountID] = account
		return nil
	})
}

func (s *Store) SoftDeleteAccount(ctx context.Context, organizationID, accountID, userID string, now time.Time) error {
	return s.write(ctx, func() error {
		acc, ok := s.visibleAccount(organizationID, accountID)
		if !ok {
			return apperrors.NewNotFound("account", accountID)
		}
		acc.DeletedAt = &now
		acc.IsActive = false
		acc.LastUpdatedAt, acc.LastUpdatedBy = now, userID
		s.data.accounts[accountID] = acc
		return nil
	})
}

func (s *Store) UpdateAccountBalances(ctx context.Context, organizationID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	return s.write(ctx, func() error {
		for id := range balanceChanges {
			if _, ok := s.visibleAccount(organizationID, id); !ok {
				return apperrors.NewNotFound("account", id)
			}
		}
		for id, delta := range balanceChanges {
			acc := s.data.accounts[id]
			acc.Balance = acc.Balance.Add(delta)
			acc.LastUpdatedAt, acc.LastUpdatedBy = now, userID
			s.data.accounts[id] = acc
		}
		return nil
	})
}

// --- transactions ---

func (s *Store) withEntries(txn domain.Transaction) *domain.Transaction {
	txn.Entries = nil
	for _, e := range s.data.entries {
		if e.TransactionID == txn.TransactionID {
			txn.Entries = append(txn.Entries, e)
		}
	}
	return &txn
}

func (s *Store) FindTransactionByID(ctx context.Context, organizationID, transactionID string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := s.read(ctx, func() error {
		txn, ok := s.data.transactions[transactionID]
		if !ok || txn.OrganizationID != organizationID {
			return apperrors.NewNotFound("transaction", transactionID)
		}
		out = s.withEntries(txn)
		return nil
	})
	return out, err
}

// FindTransactionByIDForUpdate is FindTransactionByID; the transaction's write lock already serializes writers.
func (s *Store) FindTransactionByIDForUpdate(ctx context.Context, organizationID, transactionID string) (*domain.Transaction, error) {
	return s.FindTransactionByID(ctx, organizationID, transactionID)
}

func (s *Store) ListTransactions(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		cursor = &c
	}

	var all []domain.Transaction
	err := s.read(ctx, func() error {
		for _, txn := range s.data.transactions {
			if txn.OrganizationID != organizationID {
				continue
			}
			if cursor != nil && !cursor.After(txn.TransactionDate, txn.CreatedAt, txn.TransactionID) {
				continue
			}
			all = append(all, *s.withEntries(txn))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.After(b.TransactionDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionID > b.TransactionID
	})

	if len(all) <= limit {
		return all, nil, nil
	}
	page := all[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{TransactionDate: last.TransactionDate, CreatedAt: last.CreatedAt, TransactionID: last.TransactionID})
	return page, &token, nil
}

func (s *Store) ListEntries(ctx context.Context, organizationID string, filter portsrepo.EntryFilter) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := s.read(ctx, func() error {
		for _, e := range s.data.entries {
			if e.OrganizationID != organizationID {
				continue
			}
			if filter.AccountID != "" && e.AccountID != filter.AccountID {
				continue
			}
			if filter.From != nil && e.EntryDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && e.EntryDate.After(*filter.To) {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (s *Store) LastEntryDate(ctx context.Context, organizationID, accountID string) (*time.Time, error) {
	var last *time.Time
	err := s.read(ctx, func() error {
		for _, e := range s.data.entries {
			if e.OrganizationID != organizationID || e.AccountID != accountID {
				continue
			}
			if last == nil || e.EntryDate.After(*last) {
				d := e.EntryDate
				last = &d
			}
		}
		return nil
	})
	return last, err
}

func (s *Store) FindTransactionNumbers(ctx context.Context, organizationID string, transactionIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(transactionIDs))
	err := s.read(ctx, func() error {
		for _, id := range transactionIDs {
			if txn, ok := s.data.transactions[id]; ok && txn.OrganizationID == organizationID {
				out[id] = txn.TransactionNumber
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) NextTransactionSequence(ctx context.Context, organizationID string, day time.Time) (int, error) {
	prefix := domain.TransactionNumberPrefix(day)
	n := 0
	err := s.read(ctx, func() error {
		for _, txn := range s.data.transactions {
			if txn.OrganizationID == organizationID && strings.HasPrefix(txn.TransactionNumber, prefix) {
				n++
			}
		}
		return nil
	})
	return n + 1, err
}

func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return s.write(ctx, func() error {
		if _, exists := s.data.transactions[txn.TransactionID]; exists {
			return apperrors.ErrDuplicate
		}
		for _, existing := range s.data.transactions {
			if existing.OrganizationID == txn.OrganizationID && existing.TransactionNumber == txn.TransactionNumber {
				return apperrors.ErrDuplicate
			}
		}
		s.data.entries = append(s.data.entries, txn.Entries...)
		txn.Entries = nil
		s.data.transactions[txn.TransactionID] = txn
		return nil
	})
}

func (s *Store) MarkTransactionReversed(ctx context.Context, organizationID, transactionID, reversingTransactionID string, reversedAt time.Time) error {
	return s.write(ctx, func() error {
		txn, ok := s.data.transactions[transactionID]
		if !ok || txn.OrganizationID != organizationID {
			return apperrors.NewNotFound("transaction", transactionID)
		}
		txn.Status = domain.Reversed
		txn.ReversedAt = &reversedAt
		txn.ReversedByID = &reversingTransactionID
		s.data.transactions[transactionID] = txn
		return nil
	})
}

// --- reporting ---

func (s *Store) SumEntriesByAccount(ctx context.Context, organizationID string, from *time.Time, to time.Time) (map[string]domain.AccountActivity, error) {
	out := map[string]domain.AccountActivity{}
	err := s.read(ctx, func() error {
		for _, e := range s.data.entries {
			if e.OrganizationID != organizationID || e.EntryDate.After(to) {
				continue
			}
			if from != nil && e.EntryDate.Before(*from) {
				continue
			}
			act, ok := out[e.AccountID]
			if !ok {
				act = domain.AccountActivity{AccountID: e.AccountID, Debits: decimal.Zero, Credits: decimal.Zero}
			}
			if e.EntryType == domain.Debit {
				act.Debits = act.Debits.Add(e.Amount)
			} else {
				act.Credits = act.Credits.Add(e.Amount)
			}
			out[e.AccountID] = act
		}
		return nil
	})
	return out, err
}

// --- audit ---

func (s *Store) Record(ctx context.Context, record domain.AuditRecord) error {
	return s.write(ctx, func() error {
		if s.auditErr != nil {
			return s.auditErr
		}
		s.data.audit = append(s.data.audit, record)
		return nil
	})
}
