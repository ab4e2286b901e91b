package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestTrialBalance() {
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	suite.mockReportingService.On("TrialBalance", mock.Anything, asOf).Return(&domain.TrialBalanceReport{
		AsOf: asOf,
		Rows: []domain.TrialBalanceRow{
			{AccountID: "cash", Code: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: "sales", Code: "4000", AccountName: "Sales", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.TrialBalanceResponse
	suite.decode(w, &body)
	suite.Equal("2024-01-31", body.AsOf)
	suite.Len(body.Rows, 2)
	suite.True(body.Totals.Debit.Equal(body.Totals.Credit))
}

func (suite *HandlerTestSuite) TestProfitAndLoss_DefaultsFromToMonthStart() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	suite.mockReportingService.On("ProfitAndLoss", mock.Anything, from, to).Return(&domain.ProfitLossReport{
		StartDate:    from,
		EndDate:      to,
		Revenue:      []domain.AccountBalance{},
		TotalRevenue: decimal.Zero,
		Expense:      []domain.AccountBalance{},
		TotalExpense: decimal.Zero,
		NetProfit:    decimal.Zero,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/profit-and-loss?to=2024-03-20", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ProfitAndLossResponse
	suite.decode(w, &body)
	suite.Equal("2024-03-01", body.FromDate)
	suite.NotNil(body.Revenue)
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestBalanceSheet_RetainedEarningsRow() {
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	suite.mockReportingService.On("BalanceSheet", mock.Anything, asOf).Return(&domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           []domain.AccountBalance{{AccountID: "cash", Code: "1000", Name: "Cash", Balance: decimal.NewFromInt(900)}},
		TotalAssets:      decimal.NewFromInt(900),
		Liabilities:      []domain.AccountBalance{},
		TotalLiabilities: decimal.Zero,
		Equity:           []domain.AccountBalance{{Name: domain.RetainedEarningsName, Balance: decimal.NewFromInt(900)}},
		TotalEquity:      decimal.NewFromInt(900),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2024-01-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.BalanceSheetResponse
	suite.decode(w, &body)
	suite.Require().Len(body.Equity, 1)
	suite.Equal(domain.RetainedEarningsName, body.Equity[0].Name)
	suite.Empty(body.Equity[0].AccountID)
	suite.NotContains(w.Body.String(), `"accountID":""`)
}

func (suite *HandlerTestSuite) TestReports_InvalidDate() {
	for _, url := range []string{
		"/api/v1/reports/trial-balance?asOf=yesterday",
		"/api/v1/reports/balance-sheet?asOf=2024-13-01",
		"/api/v1/reports/profit-and-loss?from=2024/01/01",
	} {
		w := suite.do(http.MethodGet, url, nil)
		suite.Equal(http.StatusBadRequest, w.Code, url)
	}
}

func (suite *HandlerTestSuite) TestReports_ServiceFailure() {
	suite.mockReportingService.On("TrialBalance", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2024-01-31", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
}
