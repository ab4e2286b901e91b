package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func sampleEntry(id string, status domain.JournalStatus) *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalID:   id,
		JournalDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		Status:      status,
		Items: []domain.JournalItem{
			{ItemID: id + "-1", JournalID: id, AccountID: "cash", LineNo: 1, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{ItemID: id + "-2", JournalID: id, AccountID: "sales", LineNo: 2, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}
}

func saleBody(debit, credit string) map[string]any {
	return map[string]any{
		"date":        "2024-01-15",
		"description": "Cash sale",
		"items": []map[string]any{
			{"accountID": "cash", "debit": debit},
			{"accountID": "sales", "credit": credit},
		},
	}
}

func (suite *HandlerTestSuite) TestPostJournal_Created() {
	suite.mockJournalService.On("PostJournal", mock.Anything, mock.MatchedBy(func(req dto.CreateJournalRequest) bool {
		return req.Date == "2024-01-15" && len(req.Items) == 2 && req.Items[0].Debit.Equal(decimal.NewFromInt(100))
	}), suite.userID).Return(sampleEntry("j1", domain.Posted), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals", saleBody("100", "100"))

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.JournalResponse
	suite.decode(w, &body)
	suite.Equal("j1", body.JournalID)
	suite.Len(body.Items, 2)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestPostJournal_ErrorMapping() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		retryable  bool
	}{
		{"unbalanced", fmt.Errorf("%w: debit 500, credit 400", apperrors.ErrBalanceMismatch), http.StatusBadRequest, false},
		{"unknown account", apperrors.ErrUnknownAccount, http.StatusBadRequest, false},
		{"malformed item", apperrors.ErrMalformedItem, http.StatusBadRequest, false},
		{"concurrent update", fmt.Errorf("failed to save journal: %w", apperrors.ErrConcurrentUpdate), http.StatusConflict, true},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.mockJournalService.On("PostJournal", mock.Anything, mock.Anything, suite.userID).Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/journals", saleBody("500", "400"))

			suite.Equal(tt.wantStatus, w.Code)
			var body map[string]any
			suite.decode(w, &body)
			suite.NotEmpty(body["error"])
			if tt.retryable {
				suite.Equal(true, body["retryable"])
			} else {
				suite.NotContains(body, "retryable")
			}
		})
	}
}

func (suite *HandlerTestSuite) TestPostJournal_BadDateFormat() {
	body := saleBody("10", "10")
	body["date"] = "15/01/2024"

	w := suite.do(http.MethodPost, "/api/v1/journals", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestSaveDraft() {
	suite.mockJournalService.On("SaveDraft", mock.Anything, mock.Anything, suite.userID).
		Return(sampleEntry("d1", domain.Draft), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/drafts", saleBody("100", "90"))

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.JournalResponse
	suite.decode(w, &body)
	suite.Equal(domain.Draft, body.Status)
}

func (suite *HandlerTestSuite) TestPostDraft_Conflict() {
	suite.mockJournalService.On("PostDraft", mock.Anything, "j1", suite.userID).Return(nil, apperrors.ErrConflict).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j1/post", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestVoidJournal_ReturnsReversal() {
	reversal := sampleEntry("r1", domain.Posted)
	original := "j1"
	reversal.OriginalJournalID = &original
	suite.mockJournalService.On("VoidJournal", mock.Anything, "j1", suite.userID).Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j1/void", nil)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.JournalResponse
	suite.decode(w, &body)
	suite.Equal("r1", body.JournalID)
}

func (suite *HandlerTestSuite) TestGetJournal_NotFound() {
	suite.mockJournalService.On("GetJournalByID", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/nope", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListJournals() {
	next := "token-2"
	resp := &dto.ListJournalsResponse{
		Journals:  []dto.JournalResponse{dto.ToJournalResponse(sampleEntry("j1", domain.Posted))},
		NextToken: &next,
	}
	suite.mockJournalService.On("ListJournals", mock.Anything, dto.ListJournalsParams{
		Limit: 5, NextToken: "token-1", IncludeDrafts: true,
	}).Return(resp, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals?limit=5&nextToken=token-1&includeDrafts=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListJournalsResponse
	suite.decode(w, &body)
	suite.Len(body.Journals, 1)
	suite.Require().NotNil(body.NextToken)
	suite.Equal(next, *body.NextToken)
}

func (suite *HandlerTestSuite) TestListJournals_LimitOutOfRange() {
	w := suite.do(http.MethodGet, "/api/v1/journals?limit=500", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "ListJournals", mock.Anything, mock.Anything)
}
