package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelJournal converts a domain JournalEntry header to a model JournalEntry
func ToModelJournal(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalID:          d.JournalID,
		JournalDate:        d.JournalDate,
		Description:        d.Description,
		Reference:          d.Reference,
		Status:             models.JournalStatus(d.Status),
		OriginalJournalID:  toNullStringPtr(d.OriginalJournalID),
		ReversingJournalID: toNullStringPtr(d.ReversingJournalID),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model JournalEntry to a domain JournalEntry without items
func ToDomainJournal(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalID:          m.JournalID,
		JournalDate:        domain.NormalizeDate(m.JournalDate),
		Description:        m.Description,
		Reference:          m.Reference,
		Status:             domain.JournalStatus(m.Status),
		OriginalJournalID:  fromNullStringPtr(m.OriginalJournalID),
		ReversingJournalID: fromNullStringPtr(m.ReversingJournalID),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalItem converts a domain JournalItem to a model JournalItem
func ToModelJournalItem(d domain.JournalItem) models.JournalItem {
	return models.JournalItem{
		ItemID:      d.ItemID,
		JournalID:   d.JournalID,
		AccountID:   d.AccountID,
		LineNo:      d.LineNo,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainJournalItem converts a model JournalItem to a domain JournalItem
func ToDomainJournalItem(m models.JournalItem) domain.JournalItem {
	return domain.JournalItem{
		ItemID:      m.ItemID,
		JournalID:   m.JournalID,
		AccountID:   m.AccountID,
		LineNo:      m.LineNo,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
