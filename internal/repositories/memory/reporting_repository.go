package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) AccountActivity(_ context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	wanted := make(map[domain.AccountType]bool, len(filter.Types))
	for _, t := range filter.Types {
		wanted[t] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	byAccount := make(map[string]*domain.AccountActivity)
	for _, e := range s.journals {
		if !e.Status.AffectsBalances() || e.JournalDate.After(filter.To) {
			continue
		}
		if filter.From != nil && e.JournalDate.Before(*filter.From) {
			continue
		}
		for _, it := range e.Items {
			acc := s.accounts[it.AccountID]
			if !wanted[acc.AccountType] {
				continue
			}
			a, ok := byAccount[acc.AccountID]
			if !ok {
				a = &domain.AccountActivity{
					AccountID:   acc.AccountID,
					Code:        acc.Code,
					Name:        acc.Name,
					AccountType: acc.AccountType,
					Totals:      domain.ActivityTotals{Debit: decimal.Zero, Credit: decimal.Zero},
				}
				byAccount[acc.AccountID] = a
			}
			a.Totals.Debit = a.Totals.Debit.Add(it.Debit)
			a.Totals.Credit = a.Totals.Credit.Add(it.Credit)
			a.Totals.ItemCount++
		}
	}

	result := make([]domain.AccountActivity, 0, len(byAccount))
	for _, a := range byAccount {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}
