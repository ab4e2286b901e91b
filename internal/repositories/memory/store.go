// Package memory is an in-process ledger store for tests and local runs.
// One RWMutex serializes writers; every write validates before it mutates,
// so a failed call leaves the store untouched.
package memory

import (
	"sync"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	codes    map[string]string // code -> account id
	journals map[string]domain.JournalEntry
	// postedItems counts posted and void journal items per account.
	postedItems map[string]int
}

func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]domain.Account),
		codes:       make(map[string]string),
		journals:    make(map[string]domain.JournalEntry),
		postedItems: make(map[string]int),
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
	_ portsrepo.ReportingRepository     = (*Store)(nil)
)

// NewRepositoryProvider wires a single Store into every repository slot.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   s,
		JournalRepo:   s,
		ReportingRepo: s,
	}
}

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	items := make([]domain.JournalItem, len(e.Items))
	copy(items, e.Items)
	e.Items = items
	return e
}
