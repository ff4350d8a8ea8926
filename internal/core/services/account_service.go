package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txManager   portsrepo.TransactionManager
	auditSink   portsrepo.AuditSink
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAuditSink records account changes to sink.
func WithAuditSink(sink portsrepo.AuditSink) AccountServiceOption {
	return func(s *accountService) {
		s.auditSink = sink
	}
}

// WithAccountClock overrides the clock used for audit timestamps.
func WithAccountClock(clock func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.clock = clock
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, txManager portsrepo.TransactionManager, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		txManager:   txManager,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.newAccount(ctx, organizationID, req, userID)
	if err != nil {
		s.LogWarn(ctx, err, "Account rejected",
			slog.String("organization_id", organizationID),
			slog.String("account_number", req.AccountNumber))
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		return s.saveAccount(txCtx, *account, userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("account_number", account.AccountNumber),
		slog.String("organization_id", organizationID))
	return account, nil
}

// newAccount validates req and builds the account without persisting it.
func (s *accountService) newAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidation(apperrors.ReasonEmptyName, "account name is required")
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidAccountType, "invalid account type %q", req.AccountType)
	}
	if !domain.AccountNumberMatchesType(req.AccountNumber, req.AccountType) {
		return nil, invalidNumberError(req.AccountNumber, req.AccountType)
	}

	liquidity := domain.DefaultLiquidityClass(req.AccountType, req.AccountNumber, name)
	if req.LiquidityClass != nil {
		if err := checkLiquidity(*req.LiquidityClass, req.AccountType); err != nil {
			return nil, err
		}
		liquidity = *req.LiquidityClass
	}

	if err := s.ensureNumberFree(ctx, organizationID, req.AccountNumber, ""); err != nil {
		return nil, err
	}

	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, organizationID, *req.ParentAccountID)
		if err != nil {
			return nil, err
		}
		if parent.AccountType != req.AccountType {
			return nil, apperrors.NewValidation(apperrors.ReasonParentTypeMismatch,
				"parent account %s is %s, child must have the same type but is %s", parent.AccountNumber, parent.AccountType, req.AccountType)
		}
	}

	now := s.Now()
	var parentID *string
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		p := *req.ParentAccountID
		parentID = &p
	}
	return &domain.Account{
		AccountID:       uuid.NewString(),
		OrganizationID:  organizationID,
		AccountNumber:   req.AccountNumber,
		Name:            name,
		AccountType:     req.AccountType,
		LiquidityClass:  liquidity,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		IsSystemAccount: req.IsSystemAccount,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}, nil
}

func (s *accountService) saveAccount(ctx context.Context, account domain.Account, userID string) error {
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return apperrors.NewConflict(apperrors.ReasonDuplicateNumber, "account number %s already exists", account.AccountNumber)
		}
		return err
	}
	return s.recordAudit(ctx, s.auditSink, domain.AuditRecord{
		Action:         domain.AuditAccountCreated,
		EntityType:     domain.EntityAccount,
		EntityID:       account.AccountID,
		OrganizationID: account.OrganizationID,
		ActorID:        userID,
		Details: map[string]any{
			"accountNumber": account.AccountNumber,
			"name":          account.Name,
			"accountType":   string(account.AccountType),
		},
	})
}

func (s *accountService) GetAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, organizationID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, organizationID string, number string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, organizationID, number)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by number",
				slog.String("account_number", number))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	var updated *domain.Account
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.lockAccount(txCtx, organizationID, accountID)
		if err != nil {
			return err
		}
		changes := map[string]any{}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperrors.NewValidation(apperrors.ReasonEmptyName, "account name is required")
			}
			if name != account.Name {
				changes["name"] = name
				account.Name = name
			}
		}
		if req.AccountNumber != nil && *req.AccountNumber != account.AccountNumber {
			if !domain.AccountNumberMatchesType(*req.AccountNumber, account.AccountType) {
				return invalidNumberError(*req.AccountNumber, account.AccountType)
			}
			if err := s.ensureNumberFree(txCtx, organizationID, *req.AccountNumber, account.AccountID); err != nil {
				return err
			}
			changes["accountNumber"] = *req.AccountNumber
			account.AccountNumber = *req.AccountNumber
		}
		if req.Description != nil {
			account.Description = *req.Description
			changes["description"] = *req.Description
		}
		if req.LiquidityClass != nil {
			if err := checkLiquidity(*req.LiquidityClass, account.AccountType); err != nil {
				return err
			}
			account.LiquidityClass = *req.LiquidityClass
			changes["liquidityClass"] = string(*req.LiquidityClass)
		}

		switch {
		case req.ClearParent:
			if account.ParentAccountID != nil {
				account.ParentAccountID = nil
				changes["parentAccountID"] = nil
			}
		case req.ParentAccountID != nil && *req.ParentAccountID != account.ParentID():
			if err := s.checkReparent(txCtx, organizationID, account, *req.ParentAccountID); err != nil {
				return err
			}
			p := *req.ParentAccountID
			account.ParentAccountID = &p
			changes["parentAccountID"] = p
		}

		if req.IsActive != nil && *req.IsActive != account.IsActive {
			if !*req.IsActive && !account.Balance.Abs().LessThan(domain.BalanceTolerance) {
				return apperrors.NewConflict(apperrors.ReasonAccountHasBalance,
					"account %s has a non-zero balance of %s and cannot be deactivated", account.AccountNumber, account.Balance.String())
			}
			account.IsActive = *req.IsActive
			changes["isActive"] = *req.IsActive
		}

		account.LastUpdatedAt = s.Now()
		account.LastUpdatedBy = userID
		if err := s.accountRepo.UpdateAccount(txCtx, *account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return apperrors.NewConflict(apperrors.ReasonDuplicateNumber, "account number %s already exists", account.AccountNumber)
			}
			return err
		}
		updated = account
		return s.recordAudit(txCtx, s.auditSink, domain.AuditRecord{
			Action:         domain.AuditAccountUpdated,
			EntityType:     domain.EntityAccount,
			EntityID:       account.AccountID,
			OrganizationID: organizationID,
			ActorID:        userID,
			Details:        changes,
		})
	})
	if err != nil {
		s.LogWarn(ctx, err, "Account update failed",
			slog.String("account_id", accountID),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return updated, nil
}

// lockAccount reads an account and holds its row lock until the unit ends, so
// the balance seen by the deactivation guard cannot move under a posting.
func (s *accountService) lockAccount(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, organizationID, []string{accountID})
	if err != nil {
		return nil, err
	}
	account, ok := accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFound("account", accountID)
	}
	return &account, nil
}

// checkReparent rejects a new parent that is of another type, or is the
// account itself or one of its descendants.
func (s *accountService) checkReparent(ctx context.Context, organizationID string, account *domain.Account, newParentID string) error {
	if newParentID == account.AccountID {
		return apperrors.NewConflict(apperrors.ReasonCircularHierarchy, "account %s cannot be its own parent", account.AccountNumber)
	}
	parent, err := s.accountRepo.FindAccountByID(ctx, organizationID, newParentID)
	if err != nil {
		return err
	}
	if parent.AccountType != account.AccountType {
		return apperrors.NewValidation(apperrors.ReasonParentTypeMismatch,
			"parent account %s is %s, child must have the same type but is %s", parent.AccountNumber, parent.AccountType, account.AccountType)
	}

	// Walk up from the new parent; reaching the account means the parent is a descendant.
	seen := map[string]bool{}
	current := parent
	for {
		if current.AccountID == account.AccountID {
			return apperrors.NewConflict(apperrors.ReasonCircularHierarchy,
				"account %s cannot be moved under its descendant %s", account.AccountNumber, parent.AccountNumber)
		}
		if current.ParentAccountID == nil {
			return nil
		}
		if seen[current.AccountID] {
			return apperrors.NewConflict(apperrors.ReasonCircularHierarchy, "existing hierarchy above %s is cyclic", parent.AccountNumber)
		}
		seen[current.AccountID] = true
		current, err = s.accountRepo.FindAccountByID(ctx, organizationID, *current.ParentAccountID)
		if err != nil {
			return err
		}
	}
}

func (s *accountService) DeleteAccount(ctx context.Context, organizationID string, accountID string, userID string) error {
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.accountRepo.FindAccountByID(txCtx, organizationID, accountID)
		if err != nil {
			return err
		}
		entries, err := s.accountRepo.CountEntriesForAccount(txCtx, organizationID, accountID)
		if err != nil {
			return err
		}
		if entries > 0 {
			return apperrors.NewConflict(apperrors.ReasonAccountHasEntries,
				"account %s has %d journal entries and cannot be deleted", account.AccountNumber, entries)
		}
		children, err := s.accountRepo.ListChildAccounts(txCtx, organizationID, accountID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return apperrors.NewConflict(apperrors.ReasonAccountHasChildren,
				"account %s has %d child accounts and cannot be deleted", account.AccountNumber, len(children))
		}
		now := s.Now()
		if err := s.accountRepo.SoftDeleteAccount(txCtx, organizationID, accountID, userID, now); err != nil {
			return err
		}
		return s.recordAudit(txCtx, s.auditSink, domain.AuditRecord{
			Action:         domain.AuditAccountDeleted,
			EntityType:     domain.EntityAccount,
			EntityID:       accountID,
			OrganizationID: organizationID,
			ActorID:        userID,
			Details:        map[string]any{"accountNumber": account.AccountNumber},
			CreatedAt:      now,
		})
	})
	if err != nil {
		s.LogWarn(ctx, err, "Account deletion failed", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) GetChartOfAccounts(ctx context.Context, organizationID string, includeInactive bool) (*domain.ChartOfAccounts, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("organization_id", organizationID))
		return nil, err
	}
	sortAccounts(accounts)

	chart := &domain.ChartOfAccounts{
		OrganizationID: organizationID,
		Groups:         make(map[domain.AccountType][]domain.Account, len(domain.AccountTypes)),
		Total:          len(accounts),
	}
	for _, t := range domain.AccountTypes {
		chart.Groups[t] = []domain.Account{}
	}
	for _, acc := range accounts {
		chart.Groups[acc.AccountType] = append(chart.Groups[acc.AccountType], acc)
	}
	return chart, nil
}

func (s *accountService) GetAccountHierarchy(ctx context.Context, organizationID string) ([]domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("organization_id", organizationID))
		return nil, err
	}
	sortAccounts(accounts)

	known := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		known[acc.AccountID] = true
	}
	children := make(map[string][]domain.Account)
	var roots []domain.Account
	for _, acc := range accounts {
		if acc.ParentAccountID == nil || !known[*acc.ParentAccountID] {
			roots = append(roots, acc)
			continue
		}
		children[*acc.ParentAccountID] = append(children[*acc.ParentAccountID], acc)
	}

	var build func(acc domain.Account, depth int) domain.AccountNode
	build = func(acc domain.Account, depth int) domain.AccountNode {
		node := domain.AccountNode{Account: acc, Depth: depth}
		if depth+1 >= domain.MaxHierarchyDepth {
			return node
		}
		for _, child := range children[acc.AccountID] {
			node.Children = append(node.Children, build(child, depth+1))
		}
		return node
	}

	nodes := make([]domain.AccountNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, build(root, 0))
	}
	return nodes, nil
}

func (s *accountService) CreateStandardChartOfAccounts(ctx context.Context, organizationID string, businessType domain.BusinessType, userID string) ([]domain.Account, error) {
	if !businessType.IsValid() {
		return nil, apperrors.NewValidation(apperrors.ReasonInvalidBusinessType, "unsupported business type %q", businessType)
	}
	templates, err := sortTemplate(chartTemplate(businessType))
	if err != nil {
		s.LogError(ctx, err, "Standard chart template is malformed", slog.String("business_type", string(businessType)))
		return nil, err
	}

	created := make([]domain.Account, 0, len(templates))
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		idsByNumber := make(map[string]string, len(templates))
		for _, t := range templates {
			req := dto.CreateAccountRequest{
				AccountNumber:   t.Number,
				Name:            t.Name,
				AccountType:     t.Type,
				Description:     t.Description,
				IsSystemAccount: true,
			}
			if t.Parent != "" {
				parentID := idsByNumber[t.Parent]
				req.ParentAccountID = &parentID
			}
			account, err := s.newAccount(txCtx, organizationID, req, userID)
			if err != nil {
				return fmt.Errorf("template account %s: %w", t.Number, err)
			}
			if err := s.saveAccount(txCtx, *account, userID); err != nil {
				return fmt.Errorf("template account %s: %w", t.Number, err)
			}
			idsByNumber[t.Number] = account.AccountID
			created = append(created, *account)
		}
		return s.recordAudit(txCtx, s.auditSink, domain.AuditRecord{
			Action:         domain.AuditChartSeeded,
			EntityType:     domain.EntityChart,
			EntityID:       organizationID,
			OrganizationID: organizationID,
			ActorID:        userID,
			Details: map[string]any{
				"businessType": string(businessType),
				"accounts":     len(created),
			},
		})
	})
	if err != nil {
		s.LogWarn(ctx, err, "Standard chart creation failed",
			slog.String("organization_id", organizationID),
			slog.String("business_type", string(businessType)))
		return nil, err
	}

	s.LogInfo(ctx, "Standard chart of accounts created",
		slog.String("organization_id", organizationID),
		slog.String("business_type", string(businessType)),
		slog.Int("accounts", len(created)))
	return created, nil
}

// ensureNumberFree fails with a conflict when number is taken by an account other than exceptID.
func (s *accountService) ensureNumberFree(ctx context.Context, organizationID, number, exceptID string) error {
	existing, err := s.accountRepo.FindAccountByNumber(ctx, organizationID, number)
	switch {
	case err == nil && existing.AccountID != exceptID:
		return apperrors.NewConflict(apperrors.ReasonDuplicateNumber, "account number %s already exists", number)
	case err == nil, errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return err
	}
}

func invalidNumberError(number string, accountType domain.AccountType) error {
	return apperrors.NewValidation(apperrors.ReasonInvalidAccountNumber,
		"account number %q must be %d digits and start with the digit for %s (1=ASSET, 2=LIABILITY, 3=EQUITY, 4=REVENUE, 5 or 6=EXPENSE)",
		number, domain.AccountNumberLength, accountType)
}

func checkLiquidity(class domain.LiquidityClass, accountType domain.AccountType) error {
	if !class.IsValid() {
		return apperrors.NewValidation(apperrors.ReasonInvalidLiquidity, "invalid liquidity class %q", class)
	}
	if accountType != domain.Asset && accountType != domain.Liability {
		return apperrors.NewValidation(apperrors.ReasonInvalidLiquidity, "only asset and liability accounts carry a liquidity class")
	}
	return nil
}

func sortAccounts(accounts []domain.Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		ti, tj := accounts[i].AccountType.SortOrder(), accounts[j].AccountType.SortOrder()
		if ti != tj {
			return ti < tj
		}
		return accounts[i].AccountNumber < accounts[j].AccountNumber
	})
}
