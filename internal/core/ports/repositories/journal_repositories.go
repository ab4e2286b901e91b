package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal entry with its items.
	FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListJournals retrieves a page of journal entries, newest first, with items.
	// It returns the entries, a token for the next page, and an error.
	ListJournals(ctx context.Context, limit int, nextToken *string, includeDrafts bool) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data. Every method is a
// single atomic unit: on error nothing it touched is persisted.
type JournalWriter interface {
	// SaveJournal persists an entry and its items. For a posted entry it also
	// applies balanceChanges to the cached account balances, failing with
	// apperrors.ErrUnknownAccount if any account is missing or inactive at commit time.
	//
	// Every write that applies balanceChanges fails with apperrors.ErrConcurrentUpdate
	// when a locked account no longer has the type its change was signed with.
	SaveJournal(ctx context.Context, entry domain.JournalEntry, balanceChanges domain.BalanceChanges) error

	// PostDraft flips a draft entry to posted and applies balanceChanges.
	// A non-draft entry yields apperrors.ErrConflict.
	PostDraft(ctx context.Context, journalID string, balanceChanges domain.BalanceChanges, userID string, now time.Time) error

	// SaveReversal persists the reversing entry, applies balanceChanges and
	// marks the original void. An original that is not posted yields apperrors.ErrConflict.
	SaveReversal(ctx context.Context, originalID string, reversal domain.JournalEntry, balanceChanges domain.BalanceChanges) error
}

// LedgerReader reads posted activity for a single account.
type LedgerReader interface {
	// SumAccountActivity totals posted items of the account dated strictly before `before`.
	SumAccountActivity(ctx context.Context, accountID string, before time.Time) (domain.ActivityTotals, error)

	// ListAccountActivity lists posted items of the account dated within [from, to],
	// ordered by date, entry id and line number.
	ListAccountActivity(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerItem, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LedgerReader
}
