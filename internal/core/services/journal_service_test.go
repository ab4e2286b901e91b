package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockCache       *MockReportCache
	service         portssvc.JournalSvcFacade
	now             time.Time
	userID          string
	cash            domain.Account
	sales           domain.Account
	rent            domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCache = new(MockReportCache)
	suite.now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo,
		services.WithJournalReportCache(suite.mockCache),
		services.WithJournalClock(func() time.Time { return suite.now }))
	suite.userID = uuid.NewString()

	suite.cash = domain.Account{AccountID: uuid.NewString(), Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true}
	suite.sales = domain.Account{AccountID: uuid.NewString(), Code: "4000", Name: "Sales", AccountType: domain.Revenue, IsActive: true}
	suite.rent = domain.Account{AccountID: uuid.NewString(), Code: "5000", Name: "Rent", AccountType: domain.Expense, IsActive: true}
}

func (suite *JournalServiceTestSuite) accounts(accs ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accs))
	for _, a := range accs {
		m[a.AccountID] = a
	}
	return m
}

func (suite *JournalServiceTestSuite) saleRequest(debit, credit string) dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		Date:        "2024-01-15",
		Description: "Cash sale",
		Reference:   "INV-1",
		Items: []dto.CreateJournalItemRequest{
			{AccountID: suite.cash.AccountID, Debit: decimal.RequireFromString(debit)},
			{AccountID: suite.sales.AccountID, Credit: decimal.RequireFromString(credit)},
		},
	}
}

func (suite *JournalServiceTestSuite) TestPostJournal_Success() {
	ctx := context.Background()
	req := suite.saleRequest("1000000", "1000000")

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cash.AccountID, suite.sales.AccountID}).
		Return(suite.accounts(suite.cash, suite.sales), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.JournalEntry"), sameAmounts(map[string]string{
		suite.cash.AccountID:  "1000000",
		suite.sales.AccountID: "1000000",
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx).Return(nil).Once()

	entry, err := suite.service.PostJournal(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.JournalID)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), entry.JournalDate)
	suite.Equal(suite.userID, entry.CreatedBy)
	suite.Require().Len(entry.Items, 2)
	suite.Equal(1, entry.Items[0].LineNo)
	suite.Equal(2, entry.Items[1].LineNo)
	suite.Equal(entry.JournalID, entry.Items[1].JournalID)
	suite.True(entry.TotalDebit().Equal(entry.TotalCredit()))

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_ChangesRecordSignedTypes() {
	ctx := context.Background()
	req := suite.saleRequest("40", "40")
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash, suite.sales), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.MatchedBy(func(changes domain.BalanceChanges) bool {
		return changes[suite.cash.AccountID].AccountType == domain.Asset &&
			changes[suite.sales.AccountID].AccountType == domain.Revenue
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx).Return(nil).Once()

	_, err := suite.service.PostJournal(ctx, req, suite.userID)

	suite.NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_BadDate() {
	ctx := context.Background()
	req := suite.saleRequest("10", "10")
	req.Date = "15/01/2024"

	_, err := suite.service.PostJournal(ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_ValidationOrder() {
	missing := uuid.NewString()
	inactive := suite.rent
	inactive.IsActive = false

	tests := []struct {
		name     string
		items    []dto.CreateJournalItemRequest
		accounts map[string]domain.Account
		wantErr  error
	}{
		{
			name:    "single item fails before account lookup",
			items:   []dto.CreateJournalItemRequest{{AccountID: missing, Debit: decimal.NewFromInt(10)}},
			wantErr: apperrors.ErrInsufficientItems,
		},
		{
			name: "unknown account wins over imbalance",
			items: []dto.CreateJournalItemRequest{
				{AccountID: suite.cash.AccountID, Debit: decimal.NewFromInt(500)},
				{AccountID: missing, Credit: decimal.NewFromInt(400)},
			},
			accounts: suite.accounts(suite.cash),
			wantErr:  apperrors.ErrUnknownAccount,
		},
		{
			name: "inactive account",
			items: []dto.CreateJournalItemRequest{
				{AccountID: suite.cash.AccountID, Credit: decimal.NewFromInt(50)},
				{AccountID: inactive.AccountID, Debit: decimal.NewFromInt(50)},
			},
			accounts: suite.accounts(suite.cash, inactive),
			wantErr:  apperrors.ErrUnknownAccount,
		},
		{
			name: "both sides set wins over imbalance",
			items: []dto.CreateJournalItemRequest{
				{AccountID: suite.cash.AccountID, Debit: decimal.NewFromInt(5), Credit: decimal.NewFromInt(5)},
				{AccountID: suite.sales.AccountID, Credit: decimal.NewFromInt(400)},
			},
			accounts: suite.accounts(suite.cash, suite.sales),
			wantErr:  apperrors.ErrMalformedItem,
		},
		{
			name: "negative amount",
			items: []dto.CreateJournalItemRequest{
				{AccountID: suite.cash.AccountID, Debit: decimal.NewFromInt(-5)},
				{AccountID: suite.sales.AccountID, Credit: decimal.NewFromInt(5)},
			},
			accounts: suite.accounts(suite.cash, suite.sales),
			wantErr:  apperrors.ErrMalformedItem,
		},
		{
			name: "three decimal places",
			items: []dto.CreateJournalItemRequest{
				{AccountID: suite.cash.AccountID, Debit: decimal.RequireFromString("1.005")},
				{AccountID: suite.sales.AccountID, Credit: decimal.RequireFromString("1.005")},
			},
			accounts: suite.accounts(suite.cash, suite.sales),
			wantErr:  apperrors.ErrMalformedItem,
		},
		{
			name: "debits and credits differ",
			items: []dto.CreateJournalItemRequest{
				{AccountID: suite.cash.AccountID, Debit: decimal.NewFromInt(500)},
				{AccountID: suite.sales.AccountID, Credit: decimal.NewFromInt(400)},
			},
			accounts: suite.accounts(suite.cash, suite.sales),
			wantErr:  apperrors.ErrBalanceMismatch,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			ctx := context.Background()
			if tt.accounts != nil {
				suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(tt.accounts, nil).Once()
			}

			_, err := suite.service.PostJournal(ctx, dto.CreateJournalRequest{Date: "2024-01-15", Items: tt.items}, suite.userID)

			suite.Require().Error(err)
			suite.ErrorIs(err, tt.wantErr)
			suite.ErrorIs(err, apperrors.ErrValidation)
			suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
			suite.mockCache.AssertNotCalled(suite.T(), "Invalidate", mock.Anything)
		})
	}
}

func (suite *JournalServiceTestSuite) TestPostJournal_WithinTolerance() {
	ctx := context.Background()
	req := suite.saleRequest("100.01", "100.00")
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash, suite.sales), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.JournalEntry"), sameAmounts(map[string]string{
		suite.cash.AccountID:  "100.01",
		suite.sales.AccountID: "100.00",
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx).Return(nil).Once()

	_, err := suite.service.PostJournal(ctx, req, suite.userID)

	suite.NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_SameAccountTwice() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date: "2024-01-15",
		Items: []dto.CreateJournalItemRequest{
			{AccountID: suite.rent.AccountID, Debit: decimal.NewFromInt(300)},
			{AccountID: suite.rent.AccountID, Debit: decimal.NewFromInt(200)},
			{AccountID: suite.cash.AccountID, Credit: decimal.NewFromInt(500)},
		},
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.rent.AccountID, suite.cash.AccountID}).
		Return(suite.accounts(suite.cash, suite.rent), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.JournalEntry"), sameAmounts(map[string]string{
		suite.rent.AccountID: "500",
		suite.cash.AccountID: "-500",
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx).Return(nil).Once()

	_, err := suite.service.PostJournal(ctx, req, suite.userID)

	suite.NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_StoreRejects() {
	ctx := context.Background()
	req := suite.saleRequest("10", "10")
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash, suite.sales), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrConcurrentUpdate).Once()

	_, err := suite.service.PostJournal(ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrConcurrentUpdate)
	suite.mockCache.AssertNotCalled(suite.T(), "Invalidate", mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_CacheFailureIsSwallowed() {
	ctx := context.Background()
	req := suite.saleRequest("10", "10")
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash, suite.sales), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx).Return(assert.AnError).Once()

	entry, err := suite.service.PostJournal(ctx, req, suite.userID)

	suite.NoError(err)
	suite.NotNil(entry)
}

func (suite *JournalServiceTestSuite) TestSaveDraft_SkipsBalanceAndActivity() {
	ctx := context.Background()
	inactive := suite.sales
	inactive.IsActive = false
	req := suite.saleRequest("500", "400")
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash, inactive), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Status == domain.Draft
	}), mock.MatchedBy(func(changes domain.BalanceChanges) bool {
		return changes == nil
	})).Return(nil).Once()

	entry, err := suite.service.SaveDraft(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertNotCalled(suite.T(), "Invalidate", mock.Anything)
}

func (suite *JournalServiceTestSuite) TestSaveDraft_UnknownAccount() {
	ctx := context.Background()
	req := suite.saleRequest("10", "10")
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash), nil).Once()

	_, err := suite.service.SaveDraft(ctx, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrUnknownAccount)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) draftEntry(status domain.JournalStatus, debit, credit string) *domain.JournalEntry {
	journalID := uuid.NewString()
	return &domain.JournalEntry{
		JournalID:   journalID,
		JournalDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Description: "Office rent",
		Reference:   "RENT-01",
		Status:      status,
		Items: []domain.JournalItem{
			{ItemID: uuid.NewString(), JournalID: journalID, AccountID: suite.rent.AccountID, LineNo: 1, Debit: decimal.RequireFromString(debit), Credit: decimal.Zero},
			{ItemID: uuid.NewString(), JournalID: journalID, AccountID: suite.cash.AccountID, LineNo: 2, Debit: decimal.Zero, Credit: decimal.RequireFromString(credit)},
		},
	}
}

func (suite *JournalServiceTestSuite) TestPostDraft_Success() {
	ctx := context.Background()
	draft := suite.draftEntry(domain.Draft, "750", "750")
	suite.mockJournalRepo.On("FindJournalByID", ctx, draft.JournalID).Return(draft, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash, suite.rent), nil).Once()
	suite.mockJournalRepo.On("PostDraft", ctx, draft.JournalID, sameAmounts(map[string]string{
		suite.rent.AccountID: "750",
		suite.cash.AccountID: "-750",
	}), suite.userID, suite.now).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx).Return(nil).Once()

	entry, err := suite.service.PostDraft(ctx, draft.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal(suite.userID, entry.LastUpdatedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostDraft_Unbalanced() {
	ctx := context.Background()
	draft := suite.draftEntry(domain.Draft, "750", "700")
	suite.mockJournalRepo.On("FindJournalByID", ctx, draft.JournalID).Return(draft, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash, suite.rent), nil).Once()

	_, err := suite.service.PostDraft(ctx, draft.JournalID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrBalanceMismatch)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostDraft_NotADraft() {
	ctx := context.Background()
	posted := suite.draftEntry(domain.Posted, "10", "10")
	suite.mockJournalRepo.On("FindJournalByID", ctx, posted.JournalID).Return(posted, nil).Once()

	_, err := suite.service.PostDraft(ctx, posted.JournalID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestVoidJournal_PostsMirror() {
	ctx := context.Background()
	original := suite.draftEntry(domain.Posted, "750", "750")
	suite.mockJournalRepo.On("FindJournalByID", ctx, original.JournalID).Return(original, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash, suite.rent), nil).Once()
	suite.mockJournalRepo.On("SaveReversal", ctx, original.JournalID, mock.MatchedBy(func(r domain.JournalEntry) bool {
		return r.Status == domain.Posted && r.OriginalJournalID != nil && *r.OriginalJournalID == original.JournalID
	}), sameAmounts(map[string]string{
		suite.rent.AccountID: "-750",
		suite.cash.AccountID: "750",
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx).Return(nil).Once()

	reversal, err := suite.service.VoidJournal(ctx, original.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.NotEqual(original.JournalID, reversal.JournalID)
	suite.Equal(original.JournalDate, reversal.JournalDate)
	suite.Equal(original.Reference, reversal.Reference)
	suite.Require().Len(reversal.Items, 2)
	suite.True(reversal.Items[0].Credit.Equal(decimal.NewFromInt(750)))
	suite.True(reversal.Items[0].Debit.IsZero())
	suite.True(reversal.Items[1].Debit.Equal(decimal.NewFromInt(750)))
	suite.Equal(reversal.JournalID, reversal.Items[0].JournalID)
	suite.NotEqual(original.Items[0].ItemID, reversal.Items[0].ItemID)
	// The original is untouched in memory.
	suite.True(original.Items[0].Debit.Equal(decimal.NewFromInt(750)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidJournal_InactiveAccountAllowed() {
	ctx := context.Background()
	original := suite.draftEntry(domain.Posted, "20", "20")
	inactive := suite.rent
	inactive.IsActive = false
	suite.mockJournalRepo.On("FindJournalByID", ctx, original.JournalID).Return(original, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accounts(suite.cash, inactive), nil).Once()
	suite.mockJournalRepo.On("SaveReversal", ctx, original.JournalID, mock.AnythingOfType("domain.JournalEntry"), mock.Anything).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx).Return(nil).Once()

	_, err := suite.service.VoidJournal(ctx, original.JournalID, suite.userID)

	suite.NoError(err)
}

func (suite *JournalServiceTestSuite) TestVoidJournal_Rejected() {
	for _, status := range []domain.JournalStatus{domain.Draft, domain.Void} {
		suite.Run(string(status), func() {
			suite.SetupTest()
			ctx := context.Background()
			entry := suite.draftEntry(status, "10", "10")
			suite.mockJournalRepo.On("FindJournalByID", ctx, entry.JournalID).Return(entry, nil).Once()

			_, err := suite.service.VoidJournal(ctx, entry.JournalID, suite.userID)

			suite.ErrorIs(err, apperrors.ErrConflict)
			suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func (suite *JournalServiceTestSuite) TestVoidJournal_NotFound() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.VoidJournal(ctx, "nope", suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestListJournals_PassesParams() {
	ctx := context.Background()
	token := "abc"
	entries := []domain.JournalEntry{*suite.draftEntry(domain.Posted, "1", "1")}
	suite.mockJournalRepo.On("ListJournals", ctx, 20, &token, true).Return(entries, "next", nil).Once()

	resp, err := suite.service.ListJournals(ctx, dto.ListJournalsParams{NextToken: token, IncludeDrafts: true})

	suite.Require().NoError(err)
	suite.Len(resp.Journals, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
