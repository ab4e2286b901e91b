package handlers_test

import (
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func januaryLedger() *domain.Ledger {
	return &domain.Ledger{
		Account:        domain.Account{AccountID: "a1", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true},
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		OpeningBalance: decimal.NewFromInt(100),
		ClosingBalance: decimal.RequireFromString("125.50"),
		Rows: []domain.LedgerRow{
			{
				JournalID:      "j1",
				ItemID:         "i1",
				Date:           time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
				Reference:      "INV-7",
				Description:    "Cash sale",
				Debit:          decimal.RequireFromString("25.5"),
				Credit:         decimal.Zero,
				RunningBalance: decimal.RequireFromString("125.50"),
			},
		},
	}
}

func (suite *HandlerTestSuite) TestGetOpeningBalance() {
	asOf := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	suite.mockLedgerService.On("GetOpeningBalance", mock.Anything, "a1", asOf).Return(decimal.NewFromInt(300), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/a1/opening-balance?asOf=2024-02-01", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.OpeningBalanceResponse
	suite.decode(w, &body)
	suite.Equal("2024-02-01", body.AsOf)
	suite.True(body.Balance.Equal(decimal.NewFromInt(300)))
}

func (suite *HandlerTestSuite) TestGetOpeningBalance_DefaultsToToday() {
	suite.mockLedgerService.On("GetOpeningBalance", mock.Anything, "a1", mock.AnythingOfType("time.Time")).
		Return(decimal.Zero, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/a1/opening-balance", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetOpeningBalance_UnknownAccount() {
	suite.mockLedgerService.On("GetOpeningBalance", mock.Anything, "ghost", mock.Anything).
		Return(decimal.Zero, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/ghost/opening-balance?asOf=2024-02-01", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetLedger() {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	suite.mockLedgerService.On("GetLedger", mock.Anything, "a1", from, to).Return(januaryLedger(), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/a1/ledger?from=2024-01-01&to=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.LedgerResponse
	suite.decode(w, &body)
	suite.Equal("1000", body.Account.Code)
	suite.Require().Len(body.Rows, 1)
	suite.Equal("2024-01-10", body.Rows[0].Date)
	suite.True(body.ClosingBalance.Equal(decimal.RequireFromString("125.5")))
}

func (suite *HandlerTestSuite) TestGetLedger_InvalidDate() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/a1/ledger?from=January", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "GetLedger", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetLedger_InvertedRange() {
	suite.mockLedgerService.On("GetLedger", mock.Anything, "a1", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrValidation).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/a1/ledger?from=2024-02-01&to=2024-01-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestExportLedger_CSV() {
	suite.mockLedgerService.On("GetLedger", mock.Anything, "a1", mock.Anything, mock.Anything).Return(januaryLedger(), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/a1/ledger/export?from=2024-01-01&to=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "ledger-1000-2024-01-01-2024-01-31.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	suite.Require().Len(lines, 2)
	suite.Equal("Date,Reference,Memo,Debit,Credit,Balance", lines[0])
	suite.Equal("2024-01-10,INV-7,Cash sale,25.50,0.00,125.50", lines[1])
}

func (suite *HandlerTestSuite) TestExportLedger_XLSX() {
	suite.mockLedgerService.On("GetLedger", mock.Anything, "a1", mock.Anything, mock.Anything).Return(januaryLedger(), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/a1/ledger/export?format=xlsx&from=2024-01-01&to=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	suite.True(strings.HasPrefix(w.Body.String(), "PK"), "xlsx is a zip archive")
}

func (suite *HandlerTestSuite) TestExportLedger_UnknownFormat() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/a1/ledger/export?format=pdf", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "GetLedger", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
