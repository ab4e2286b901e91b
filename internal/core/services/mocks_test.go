package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveJournal(ctx context.Context, entry domain.JournalEntry, balanceChanges domain.BalanceChanges) error {
	args := m.Called(ctx, entry, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) PostDraft(ctx context.Context, journalID string, balanceChanges domain.BalanceChanges, userID string, now time.Time) error {
	args := m.Called(ctx, journalID, balanceChanges, userID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, originalID string, reversal domain.JournalEntry, balanceChanges domain.BalanceChanges) error {
	args := m.Called(ctx, originalID, reversal, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeDrafts bool) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, limit, nextToken, includeDrafts)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) SumAccountActivity(ctx context.Context, accountID string, before time.Time) (domain.ActivityTotals, error) {
	args := m.Called(ctx, accountID, before)
	return args.Get(0).(domain.ActivityTotals), args.Error(1)
}

func (m *MockJournalRepository) ListAccountActivity(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerItem, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerItem), args.Error(1)
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) AccountActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountActivity), args.Error(1)
}

// --- Mock ReportCache ---
type MockReportCache struct {
	mock.Mock
}

var _ portsrepo.ReportCache = (*MockReportCache)(nil)

func (m *MockReportCache) Generation(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportCache) Fetch(ctx context.Context, generation int64, kind, params string, dest any) (bool, error) {
	args := m.Called(ctx, generation, kind, params, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportCache) Store(ctx context.Context, generation int64, kind, params string, report any) error {
	args := m.Called(ctx, generation, kind, params, report)
	return args.Error(0)
}

func (m *MockReportCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// sameAmounts matches a balance-change map by decimal value rather than representation.
func sameAmounts(want map[string]string) interface{} {
	return mock.MatchedBy(func(got domain.BalanceChanges) bool {
		if len(got) != len(want) {
			return false
		}
		for id, amount := range want {
			v, ok := got[id]
			if !ok || !v.Delta.Equal(decimal.RequireFromString(amount)) {
				return false
			}
		}
		return true
	})
}
