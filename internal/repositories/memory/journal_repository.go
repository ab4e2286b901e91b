package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// checkPostableLocked mirrors the row lock + recheck of the SQL store: every
// account must exist, be active when requireActive is set, and still have the
// type its change was signed with.
func (s *Store) checkPostableLocked(balanceChanges domain.BalanceChanges, requireActive bool) error {
	for _, id := range balanceChanges.AccountIDs() {
		acc, ok := s.accounts[id]
		if !ok || (requireActive && !acc.IsActive) {
			return fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, id)
		}
	}
	return accounting.CheckSignedTypes(balanceChanges, s.accounts)
}

func (s *Store) applyBalancesLocked(balanceChanges domain.BalanceChanges, userID string, now time.Time) {
	for id, change := range balanceChanges {
		acc := s.accounts[id]
		acc.Balance = acc.Balance.Add(change.Delta)
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
		s.accounts[id] = acc
	}
}

func (s *Store) insertEntryLocked(entry domain.JournalEntry) error {
	if _, exists := s.journals[entry.JournalID]; exists {
		return fmt.Errorf("%w: journal %s", apperrors.ErrDuplicate, entry.JournalID)
	}
	for _, it := range entry.Items {
		if _, ok := s.accounts[it.AccountID]; !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, it.AccountID)
		}
	}
	return nil
}

func (s *Store) countPostedLocked(items []domain.JournalItem) {
	for _, it := range items {
		s.postedItems[it.AccountID]++
	}
}

func (s *Store) commitEntryLocked(entry domain.JournalEntry) {
	s.journals[entry.JournalID] = cloneEntry(entry)
	if entry.Status.AffectsBalances() {
		s.countPostedLocked(entry.Items)
	}
}

func (s *Store) SaveJournal(_ context.Context, entry domain.JournalEntry, balanceChanges domain.BalanceChanges) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.insertEntryLocked(entry); err != nil {
		return err
	}
	if entry.Status == domain.Posted {
		if err := s.checkPostableLocked(balanceChanges, true); err != nil {
			return err
		}
		s.applyBalancesLocked(balanceChanges, entry.CreatedBy, entry.CreatedAt)
	}
	s.commitEntryLocked(entry)
	return nil
}

func (s *Store) PostDraft(_ context.Context, journalID string, balanceChanges domain.BalanceChanges, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.journals[journalID]
	if !ok {
		return fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: journal %s is %s", apperrors.ErrConflict, journalID, entry.Status)
	}
	if err := s.checkPostableLocked(balanceChanges, true); err != nil {
		return err
	}

	s.applyBalancesLocked(balanceChanges, userID, now)
	s.countPostedLocked(entry.Items)
	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.journals[journalID] = entry
	return nil
}

func (s *Store) SaveReversal(_ context.Context, originalID string, reversal domain.JournalEntry, balanceChanges domain.BalanceChanges) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.journals[originalID]
	if !ok {
		return fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, originalID)
	}
	if original.Status != domain.Posted {
		return fmt.Errorf("%w: journal %s is %s", apperrors.ErrConflict, originalID, original.Status)
	}
	if err := s.insertEntryLocked(reversal); err != nil {
		return err
	}
	if err := s.checkPostableLocked(balanceChanges, false); err != nil {
		return err
	}

	s.applyBalancesLocked(balanceChanges, reversal.CreatedBy, reversal.CreatedAt)
	s.commitEntryLocked(reversal)

	reversalID := reversal.JournalID
	original.Status = domain.Void
	original.ReversingJournalID = &reversalID
	original.LastUpdatedAt = reversal.CreatedAt
	original.LastUpdatedBy = reversal.CreatedBy
	s.journals[originalID] = original
	return nil
}

func (s *Store) FindJournalByID(_ context.Context, journalID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.journals[journalID]
	if !ok {
		return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
	}
	entry = cloneEntry(entry)
	return &entry, nil
}

// journalBefore orders entries newest first: date desc, then id desc.
func journalBefore(a, b domain.JournalEntry) bool {
	if !a.JournalDate.Equal(b.JournalDate) {
		return a.JournalDate.After(b.JournalDate)
	}
	return a.JournalID > b.JournalID
}

func (s *Store) ListJournals(_ context.Context, limit int, nextToken *string, includeDrafts bool) ([]domain.JournalEntry, *string, error) {
	var cursor *domain.JournalEntry
	if nextToken != nil && *nextToken != "" {
		date, id, err := pagination.DecodeJournalCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &domain.JournalEntry{JournalDate: date, JournalID: id}
	}

	s.mu.RLock()
	list := make([]domain.JournalEntry, 0, len(s.journals))
	for _, e := range s.journals {
		if e.Status == domain.Draft && !includeDrafts {
			continue
		}
		if cursor != nil && !journalBefore(*cursor, e) {
			continue
		}
		list = append(list, cloneEntry(e))
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return journalBefore(list[i], list[j]) })

	var next *string
	if len(list) > limit {
		list = list[:limit]
		last := list[limit-1]
		token := pagination.EncodeJournalCursor(last.JournalDate, last.JournalID)
		next = &token
	}
	return list, next, nil
}

// visibleItems walks posted and void entries touching the account; fn sees each item with its entry.
func (s *Store) visibleItems(accountID string, fn func(e domain.JournalEntry, it domain.JournalItem)) {
	for _, e := range s.journals {
		if !e.Status.AffectsBalances() {
			continue
		}
		for _, it := range e.Items {
			if it.AccountID == accountID {
				fn(e, it)
			}
		}
	}
}

func (s *Store) SumAccountActivity(_ context.Context, accountID string, before time.Time) (domain.ActivityTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := domain.ActivityTotals{Debit: decimal.Zero, Credit: decimal.Zero}
	s.visibleItems(accountID, func(e domain.JournalEntry, it domain.JournalItem) {
		if e.JournalDate.Before(before) {
			totals.Debit = totals.Debit.Add(it.Debit)
			totals.Credit = totals.Credit.Add(it.Credit)
			totals.ItemCount++
		}
	})
	return totals, nil
}

func (s *Store) ListAccountActivity(_ context.Context, accountID string, from, to time.Time) ([]domain.LedgerItem, error) {
	type row struct {
		item   domain.LedgerItem
		lineNo int
	}

	s.mu.RLock()
	var rows []row
	s.visibleItems(accountID, func(e domain.JournalEntry, it domain.JournalItem) {
		if e.JournalDate.Before(from) || e.JournalDate.After(to) {
			return
		}
		desc := it.Description
		if desc == "" {
			desc = e.Description
		}
		rows = append(rows, row{
			item: domain.LedgerItem{
				JournalID:   e.JournalID,
				ItemID:      it.ItemID,
				JournalDate: e.JournalDate,
				Reference:   e.Reference,
				Description: desc,
				Debit:       it.Debit,
				Credit:      it.Credit,
			},
			lineNo: it.LineNo,
		})
	})
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.item.JournalDate.Equal(b.item.JournalDate) {
			return a.item.JournalDate.Before(b.item.JournalDate)
		}
		if a.item.JournalID != b.item.JournalID {
			return a.item.JournalID < b.item.JournalID
		}
		return a.lineNo < b.lineNo
	})

	items := make([]domain.LedgerItem, len(rows))
	for i, r := range rows {
		items[i] = r.item
	}
	return items, nil
}
