package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
)

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[account.Code]; taken {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, account.Code)
	}
	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	s.accounts[account.AccountID] = account
	s.codes[account.Code] = account.AccountID
	return nil
}

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &acc, nil
}

func (s *Store) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			found[id] = acc
		}
	}
	return found, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		list = append(list, acc)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

// UpdateAccount overwrites metadata. Balance is owned by journal writes and is kept as stored.
func (s *Store) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	identityChanged := current.Code != account.Code || current.AccountType != account.AccountType
	if identityChanged && s.postedItems[account.AccountID] > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountLocked, current.Code)
	}
	if current.Code != account.Code {
		if _, taken := s.codes[account.Code]; taken {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, account.Code)
		}
		delete(s.codes, current.Code)
		s.codes[account.Code] = account.AccountID
	}

	account.Balance = current.Balance
	account.CreatedAt = current.CreatedAt
	account.CreatedBy = current.CreatedBy
	s.accounts[account.AccountID] = account
	return nil
}
