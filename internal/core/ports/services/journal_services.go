package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal entry with its items.
	GetJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListJournals retrieves a page of journal entries.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// PostJournal validates and atomically posts a new entry.
	PostJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error)

	// SaveDraft stores an entry without touching balances.
	SaveDraft(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostDraft validates a draft and posts it.
	PostDraft(ctx context.Context, journalID string, userID string) (*domain.JournalEntry, error)

	// VoidJournal posts the mirror of a posted entry, marks the original void
	// and returns the reversing entry.
	VoidJournal(ctx context.Context, journalID string, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
