package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		OrganizationID:  d.OrganizationID,
		AccountNumber:   d.AccountNumber,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		LiquidityClass:  string(d.LiquidityClass),
		ParentAccountID: d.ParentAccountID,
		Description:     d.Description,
		IsActive:        d.IsActive,
		IsSystemAccount: d.IsSystemAccount,
		Balance:         d.Balance,
		DeletedAt:       d.DeletedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		OrganizationID:  m.OrganizationID,
		AccountNumber:   m.AccountNumber,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		LiquidityClass:  domain.LiquidityClass(m.LiquidityClass),
		ParentAccountID: m.ParentAccountID,
		Description:     m.Description,
		IsActive:        m.IsActive,
		IsSystemAccount: m.IsSystemAccount,
		Balance:         m.Balance,
		DeletedAt:       m.DeletedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
