package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
)

const testOrg = "org-test"

// --- Mock-backed suite ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockAccountRepository
	mockAudit *MockAuditSink
	service   portssvc.AccountSvcFacade
	now       time.Time
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockAudit = new(MockAuditSink)
	suite.now = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	suite.service = services.NewAccountService(suite.mockRepo, passThroughTxManager{},
		services.WithAuditSink(suite.mockAudit),
		services.WithAccountClock(func() time.Time { return suite.now }))
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateAccountRequest{
		AccountNumber: "1010",
		Name:          "  Operating Cash ",
		AccountType:   domain.Asset,
	}

	suite.mockRepo.On("FindAccountByNumber", ctx, testOrg, "1010").Return(nil, apperrors.NewNotFound("account", "1010")).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, mock.MatchedBy(func(r domain.AuditRecord) bool {
		return r.Action == domain.AuditAccountCreated && r.ActorID == userID && r.OrganizationID == testOrg
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, testOrg, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal("Operating Cash", account.Name)
	suite.Equal(testOrg, account.OrganizationID)
	suite.Equal(domain.Current, account.LiquidityClass)
	suite.True(account.IsActive)
	suite.True(account.Balance.IsZero())
	suite.Equal(userID, account.CreatedBy)
	suite.Equal(suite.now, account.CreatedAt)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_EmptyName() {
	req := dto.CreateAccountRequest{AccountNumber: "1010", Name: "   ", AccountType: domain.Asset}

	account, err := suite.service.CreateAccount(context.Background(), testOrg, req, "user")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(apperrors.ReasonEmptyName, apperrors.Reason(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NumberDoesNotMatchType() {
	tests := []struct {
		name   string
		number string
		typ    domain.AccountType
	}{
		{"liability number on asset", "2000", domain.Asset},
		{"too short", "101", domain.Asset},
		{"letters", "1a10", domain.Asset},
		{"seven prefix", "7000", domain.Expense},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := dto.CreateAccountRequest{AccountNumber: tt.number, Name: "X", AccountType: tt.typ}
			_, err := suite.service.CreateAccount(context.Background(), testOrg, req, "user")
			suite.ErrorIs(err, apperrors.ErrValidation)
			suite.Equal(apperrors.ReasonInvalidAccountNumber, apperrors.Reason(err))
		})
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_LiquidityOnlyForBalanceSheetAccounts() {
	class := domain.Current
	req := dto.CreateAccountRequest{AccountNumber: "4010", Name: "Sales", AccountType: domain.Revenue, LiquidityClass: &class}

	_, err := suite.service.CreateAccount(context.Background(), testOrg, req, "user")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(apperrors.ReasonInvalidLiquidity, apperrors.Reason(err))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateNumber() {
	ctx := context.Background()
	existing := &domain.Account{AccountID: "other", AccountNumber: "1010"}
	suite.mockRepo.On("FindAccountByNumber", ctx, testOrg, "1010").Return(existing, nil).Once()

	_, err := suite.service.CreateAccount(ctx, testOrg, dto.CreateAccountRequest{AccountNumber: "1010", Name: "Cash", AccountType: domain.Asset}, "user")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.ReasonDuplicateNumber, apperrors.Reason(err))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveDuplicateBecomesConflict() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByNumber", ctx, testOrg, "1010").Return(nil, apperrors.NewNotFound("account", "1010")).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(ctx, testOrg, dto.CreateAccountRequest{AccountNumber: "1010", Name: "Cash", AccountType: domain.Asset}, "user")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.ReasonDuplicateNumber, apperrors.Reason(err))
	suite.mockAudit.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_AuditFailure() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByNumber", ctx, testOrg, "1010").Return(nil, apperrors.NewNotFound("account", "1010")).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, mock.Anything).Return(assert.AnError).Once()

	account, err := suite.service.CreateAccount(ctx, testOrg, dto.CreateAccountRequest{AccountNumber: "1010", Name: "Cash", AccountType: domain.Asset}, "user")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrAuditFailure)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parentID := "parent"
	suite.mockRepo.On("FindAccountByNumber", ctx, testOrg, "1010").Return(nil, apperrors.NewNotFound("account", "1010")).Once()
	suite.mockRepo.On("FindAccountByID", ctx, testOrg, parentID).
		Return(&domain.Account{AccountID: parentID, AccountNumber: "2000", AccountType: domain.Liability}, nil).Once()

	req := dto.CreateAccountRequest{AccountNumber: "1010", Name: "Cash", AccountType: domain.Asset, ParentAccountID: &parentID}
	_, err := suite.service.CreateAccount(ctx, testOrg, req, "user")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(apperrors.ReasonParentTypeMismatch, apperrors.Reason(err))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnderDeepParent() {
	ctx := context.Background()
	ids := []string{"l0", "l1", "l2", "l3"}
	for i, id := range ids {
		acc := &domain.Account{AccountID: id, AccountNumber: "100" + string(rune('0'+i)), AccountType: domain.Asset}
		if i > 0 {
			p := ids[i-1]
			acc.ParentAccountID = &p
		}
		suite.mockRepo.On("FindAccountByID", ctx, testOrg, id).Return(acc, nil).Maybe()
	}
	suite.mockRepo.On("FindAccountByNumber", ctx, testOrg, "1010").Return(nil, apperrors.NewNotFound("account", "1010")).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.ParentID() == "l3"
	})).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	deepest := "l3"
	req := dto.CreateAccountRequest{AccountNumber: "1010", Name: "Fifth level", AccountType: domain.Asset, ParentAccountID: &deepest}
	account, err := suite.service.CreateAccount(ctx, testOrg, req, "user")

	suite.Require().NoError(err)
	suite.Equal("l3", account.ParentID())
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, testOrg, "missing").Return(nil, apperrors.NewNotFound("account", "missing")).Once()

	account, err := suite.service.GetAccountByID(ctx, testOrg, "missing")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_DeactivateWithBalance() {
	ctx := context.Background()
	acc := domain.Account{AccountID: "a1", AccountNumber: "1010", AccountType: domain.Asset, IsActive: true, Balance: decimal.NewFromInt(25)}
	suite.mockRepo.On("FindAccountsByIDsForUpdate", ctx, testOrg, []string{"a1"}).Return(map[string]domain.Account{"a1": acc}, nil).Once()

	inactive := false
	_, err := suite.service.UpdateAccount(ctx, testOrg, "a1", dto.UpdateAccountRequest{IsActive: &inactive}, "user")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.ReasonAccountHasBalance, apperrors.Reason(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountsByIDsForUpdate", ctx, testOrg, []string{"gone"}).Return(map[string]domain.Account{}, nil).Once()

	name := "Renamed"
	_, err := suite.service.UpdateAccount(ctx, testOrg, "gone", dto.UpdateAccountRequest{Name: &name}, "user")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SelfParent() {
	ctx := context.Background()
	acc := domain.Account{AccountID: "a1", AccountNumber: "1010", AccountType: domain.Asset, IsActive: true}
	suite.mockRepo.On("FindAccountsByIDsForUpdate", ctx, testOrg, []string{"a1"}).Return(map[string]domain.Account{"a1": acc}, nil).Once()

	self := "a1"
	_, err := suite.service.UpdateAccount(ctx, testOrg, "a1", dto.UpdateAccountRequest{ParentAccountID: &self}, "user")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.ReasonCircularHierarchy, apperrors.Reason(err))
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasEntries() {
	ctx := context.Background()
	acc := &domain.Account{AccountID: "a1", AccountNumber: "1010", AccountType: domain.Asset, IsActive: true}
	suite.mockRepo.On("FindAccountByID", ctx, testOrg, "a1").Return(acc, nil).Once()
	suite.mockRepo.On("CountEntriesForAccount", ctx, testOrg, "a1").Return(3, nil).Once()

	err := suite.service.DeleteAccount(ctx, testOrg, "a1", "user")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.ReasonAccountHasEntries, apperrors.Reason(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "SoftDeleteAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetChartOfAccounts_GroupsEveryType() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx, testOrg, false).Return([]domain.Account{
		{AccountID: "e", AccountNumber: "6000", AccountType: domain.Expense},
		{AccountID: "a2", AccountNumber: "1100", AccountType: domain.Asset},
		{AccountID: "a1", AccountNumber: "1010", AccountType: domain.Asset},
	}, nil).Once()

	chart, err := suite.service.GetChartOfAccounts(ctx, testOrg, false)

	suite.Require().NoError(err)
	suite.Equal(3, chart.Total)
	suite.Len(chart.Groups, len(domain.AccountTypes))
	suite.Empty(chart.Groups[domain.Liability])
	suite.Require().Len(chart.Groups[domain.Asset], 2)
	suite.Equal("1010", chart.Groups[domain.Asset][0].AccountNumber)
	suite.Equal("1100", chart.Groups[domain.Asset][1].AccountNumber)
}

// --- Store-backed suite ---

type AccountServiceStoreSuite struct {
	suite.Suite
	store   *memory.Store
	service portssvc.AccountSvcFacade
	ctx     context.Context
}

func (suite *AccountServiceStoreSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.ctx = context.Background()
	suite.service = services.NewAccountService(suite.store, suite.store, services.WithAuditSink(suite.store))
}

func TestAccountServiceStore(t *testing.T) {
	suite.Run(t, new(AccountServiceStoreSuite))
}

func (suite *AccountServiceStoreSuite) create(number, name string, typ domain.AccountType, parent *domain.Account) *domain.Account {
	req := dto.CreateAccountRequest{AccountNumber: number, Name: name, AccountType: typ}
	if parent != nil {
		req.ParentAccountID = &parent.AccountID
	}
	acc, err := suite.service.CreateAccount(suite.ctx, testOrg, req, "user")
	suite.Require().NoError(err)
	return acc
}

func (suite *AccountServiceStoreSuite) TestCreateStandardChart_ParentsPrecedeChildren() {
	accounts, err := suite.service.CreateStandardChartOfAccounts(suite.ctx, testOrg, domain.Corporation, "user")
	suite.Require().NoError(err)

	position := make(map[string]int, len(accounts))
	for i, acc := range accounts {
		position[acc.AccountID] = i
		suite.True(acc.IsSystemAccount)
	}
	numbers := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		numbers[acc.AccountNumber] = true
		if acc.ParentAccountID != nil {
			parentPos, ok := position[*acc.ParentAccountID]
			suite.Require().True(ok, "parent of %s must be part of the chart", acc.AccountNumber)
			suite.Less(parentPos, position[acc.AccountID], "parent of %s must be created first", acc.AccountNumber)
		}
	}
	for _, n := range []string{"1010", "2300", "3300", "3400", "3500"} {
		suite.True(numbers[n], "corporation chart should include %s", n)
	}
	suite.False(numbers["3600"], "partner capital belongs to partnerships only")

	records := suite.store.AuditRecords()
	suite.Require().NotEmpty(records)
	suite.Equal(domain.AuditChartSeeded, records[len(records)-1].Action)
}

func (suite *AccountServiceStoreSuite) TestCreateStandardChart_TwiceConflictsAndRollsBack() {
	first, err := suite.service.CreateStandardChartOfAccounts(suite.ctx, testOrg, domain.SoleProprietorship, "user")
	suite.Require().NoError(err)

	_, err = suite.service.CreateStandardChartOfAccounts(suite.ctx, testOrg, domain.Partnership, "user")
	suite.ErrorIs(err, apperrors.ErrConflict)

	accounts, err := suite.store.ListAccounts(suite.ctx, testOrg, true)
	suite.Require().NoError(err)
	suite.Len(accounts, len(first))
}

func (suite *AccountServiceStoreSuite) TestCreateStandardChart_InvalidBusinessType() {
	_, err := suite.service.CreateStandardChartOfAccounts(suite.ctx, testOrg, domain.BusinessType("COOPERATIVE"), "user")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(apperrors.ReasonInvalidBusinessType, apperrors.Reason(err))
}

func (suite *AccountServiceStoreSuite) TestUpdateAccount_RejectsCycle() {
	root := suite.create("1000", "Current Assets", domain.Asset, nil)
	child := suite.create("1100", "Receivables", domain.Asset, root)
	grandchild := suite.create("1110", "Trade Receivables", domain.Asset, child)

	_, err := suite.service.UpdateAccount(suite.ctx, testOrg, root.AccountID, dto.UpdateAccountRequest{ParentAccountID: &grandchild.AccountID}, "user")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.ReasonCircularHierarchy, apperrors.Reason(err))

	unchanged, err := suite.service.GetAccountByID(suite.ctx, testOrg, root.AccountID)
	suite.Require().NoError(err)
	suite.Nil(unchanged.ParentAccountID)
}

func (suite *AccountServiceStoreSuite) TestUpdateAccount_ReparentAndRename() {
	a := suite.create("1000", "Current Assets", domain.Asset, nil)
	b := suite.create("1010", "Cash", domain.Asset, nil)

	name := "Cash at Bank"
	updated, err := suite.service.UpdateAccount(suite.ctx, testOrg, b.AccountID, dto.UpdateAccountRequest{Name: &name, ParentAccountID: &a.AccountID}, "editor")
	suite.Require().NoError(err)
	suite.Equal(name, updated.Name)
	suite.Equal(a.AccountID, updated.ParentID())
	suite.Equal("editor", updated.LastUpdatedBy)

	hierarchy, err := suite.service.GetAccountHierarchy(suite.ctx, testOrg)
	suite.Require().NoError(err)
	suite.Require().Len(hierarchy, 1)
	suite.Require().Len(hierarchy[0].Children, 1)
	suite.Equal(b.AccountID, hierarchy[0].Children[0].Account.AccountID)
	suite.Equal(1, hierarchy[0].Children[0].Depth)
}

func (suite *AccountServiceStoreSuite) TestUpdateAccount_MoveSubtreeUnderNestedAccount() {
	a := suite.create("1000", "A", domain.Asset, nil)
	b := suite.create("1001", "B", domain.Asset, a)
	c := suite.create("1002", "C", domain.Asset, b)
	x := suite.create("1100", "X", domain.Asset, nil)
	y := suite.create("1101", "Y", domain.Asset, x)

	// a keeps its two levels below and lands under y, putting c on the fifth level.
	moved, err := suite.service.UpdateAccount(suite.ctx, testOrg, a.AccountID, dto.UpdateAccountRequest{ParentAccountID: &y.AccountID}, "user")
	suite.Require().NoError(err)
	suite.Equal(y.AccountID, moved.ParentID())

	reloaded, err := suite.service.GetAccountByID(suite.ctx, testOrg, c.AccountID)
	suite.Require().NoError(err)
	suite.Equal(b.AccountID, reloaded.ParentID())
}

func (suite *AccountServiceStoreSuite) TestDeepChains_RenderBoundedHierarchy() {
	root := suite.create("1000", "Assets", domain.Asset, nil)
	current := suite.create("1100", "Current Assets", domain.Asset, root)
	cash := suite.create("1110", "Cash", domain.Asset, current)
	bank := suite.create("1111", "Bank Accounts", domain.Asset, cash)
	operating := suite.create("1112", "Operating Account", domain.Asset, bank)
	suite.Equal(bank.AccountID, operating.ParentID())

	fixed := suite.create("1500", "Fixed Assets", domain.Asset, nil)
	suite.create("1510", "Equipment", domain.Asset, fixed)
	_, err := suite.service.UpdateAccount(suite.ctx, testOrg, fixed.AccountID, dto.UpdateAccountRequest{ParentAccountID: &operating.AccountID}, "user")
	suite.Require().NoError(err)

	// Moving the chain's root under its own deepest member is still a cycle.
	_, err = suite.service.UpdateAccount(suite.ctx, testOrg, root.AccountID, dto.UpdateAccountRequest{ParentAccountID: &fixed.AccountID}, "user")
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.ReasonCircularHierarchy, apperrors.Reason(err))

	hierarchy, err := suite.service.GetAccountHierarchy(suite.ctx, testOrg)
	suite.Require().NoError(err)
	suite.Require().Len(hierarchy, 1)
	node := hierarchy[0]
	for depth := 1; depth < domain.MaxHierarchyDepth; depth++ {
		suite.Require().Len(node.Children, 1)
		node = node.Children[0]
		suite.Equal(depth, node.Depth)
	}
	suite.Equal(bank.AccountID, node.Account.AccountID)
	suite.Empty(node.Children, "rendering stops at the depth bound")
}

func (suite *AccountServiceStoreSuite) TestDeleteAccount() {
	parent := suite.create("6000", "Operating Expenses", domain.Expense, nil)
	child := suite.create("6010", "Salaries", domain.Expense, parent)

	err := suite.service.DeleteAccount(suite.ctx, testOrg, parent.AccountID, "user")
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.ReasonAccountHasChildren, apperrors.Reason(err))

	suite.Require().NoError(suite.service.DeleteAccount(suite.ctx, testOrg, child.AccountID, "user"))
	_, err = suite.service.GetAccountByID(suite.ctx, testOrg, child.AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	// The number can be reused once the account is gone.
	suite.create("6010", "Wages", domain.Expense, parent)
}

func (suite *AccountServiceStoreSuite) TestOrganizationsAreIsolated() {
	acc := suite.create("1010", "Cash", domain.Asset, nil)

	_, err := suite.service.GetAccountByID(suite.ctx, "org-other", acc.AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	// Another organization may use the same number.
	_, err = suite.service.CreateAccount(suite.ctx, "org-other", dto.CreateAccountRequest{AccountNumber: "1010", Name: "Cash", AccountType: domain.Asset}, "user")
	suite.NoError(err)
}
