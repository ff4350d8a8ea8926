package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction.
// Entries are mapped separately with ToModelJournalEntries.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:         d.TransactionID,
		OrganizationID:        d.OrganizationID,
		TransactionNumber:     d.TransactionNumber,
		TransactionDate:       d.TransactionDate,
		Description:           d.Description,
		TotalDebits:           d.TotalDebits,
		TotalCredits:          d.TotalCredits,
		Status:                string(d.Status),
		ReversedAt:            d.ReversedAt,
		ReversedByID:          d.ReversedByID,
		ReversesTransactionID: d.ReversesTransactionID,
		CreatedAt:             d.CreatedAt,
		CreatedBy:             d.CreatedBy,
	}
}

// ToDomainTransaction converts a model Transaction and its entries to a domain Transaction.
func ToDomainTransaction(m models.Transaction, entries []models.JournalEntry) domain.Transaction {
	return domain.Transaction{
		TransactionID:         m.TransactionID,
		OrganizationID:        m.OrganizationID,
		TransactionNumber:     m.TransactionNumber,
		TransactionDate:       m.TransactionDate,
		Description:           m.Description,
		TotalDebits:           m.TotalDebits,
		TotalCredits:          m.TotalCredits,
		Status:                domain.TransactionStatus(m.Status),
		ReversedAt:            m.ReversedAt,
		ReversedByID:          m.ReversedByID,
		ReversesTransactionID: m.ReversesTransactionID,
		CreatedAt:             m.CreatedAt,
		CreatedBy:             m.CreatedBy,
		Entries:               ToDomainJournalEntries(entries),
	}
}

// ToModelJournalEntries numbers entries in submission order.
func ToModelJournalEntries(ds []domain.JournalEntry) []models.JournalEntry {
	ms := make([]models.JournalEntry, len(ds))
	for i, d := range ds {
		ms[i] = models.JournalEntry{
			EntryID:        d.EntryID,
			TransactionID:  d.TransactionID,
			OrganizationID: d.OrganizationID,
			LineNo:         i + 1,
			AccountID:      d.AccountID,
			EntryType:      string(d.EntryType),
			Amount:         d.Amount,
			Description:    d.Description,
			ReferenceType:  d.ReferenceType,
			ReferenceID:    d.ReferenceID,
			EntryDate:      d.EntryDate,
			CreatedAt:      d.CreatedAt,
		}
	}
	return ms
}

// ToDomainJournalEntry converts a model JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:        m.EntryID,
		TransactionID:  m.TransactionID,
		OrganizationID: m.OrganizationID,
		AccountID:      m.AccountID,
		EntryType:      domain.EntryType(m.EntryType),
		Amount:         m.Amount,
		Description:    m.Description,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		EntryDate:      m.EntryDate,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainJournalEntries converts a slice of model JournalEntries.
func ToDomainJournalEntries(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}

// ToModelAuditRecord converts a domain AuditRecord.
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	return models.AuditRecord{
		AuditID:        d.AuditID,
		Action:         string(d.Action),
		EntityType:     d.EntityType,
		EntityID:       d.EntityID,
		OrganizationID: d.OrganizationID,
		ActorID:        d.ActorID,
		Details:        d.Details,
		CreatedAt:      d.CreatedAt,
	}
}
