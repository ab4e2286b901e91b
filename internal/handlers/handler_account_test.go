package handlers_test

import (
	"net/http"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
		Balance:     decimal.Zero,
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
		return req.Code == "1000" && req.AccountType == domain.Asset
	}), suite.userID).Return(account, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"code": "1000", "name": "Cash", "accountType": "asset",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.AccountResponse
	suite.decode(w, &body)
	suite.Equal(account.AccountID, body.AccountID)
	suite.Equal(domain.Asset, body.AccountType)
	suite.True(body.Balance.IsZero())
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateAccount_RejectsUnknownType() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"code": "9000", "name": "Mystery", "accountType": "Cash",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrDuplicateCode).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"code": "1000", "name": "Cash", "accountType": "asset",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestListAccounts() {
	suite.mockAccountService.On("ListAccounts", mock.Anything).Return([]domain.Account{
		{AccountID: "a1", Code: "1000", AccountType: domain.Asset, Balance: decimal.NewFromInt(5)},
		{AccountID: "a2", Code: "4000", AccountType: domain.Revenue, Balance: decimal.NewFromInt(5)},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body []dto.AccountResponse
	suite.decode(w, &body)
	suite.Require().Len(body, 2)
	suite.Equal("1000", body[0].Code)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateAccount_Locked() {
	suite.mockAccountService.On("UpdateAccount", mock.Anything, "a1", mock.MatchedBy(func(req dto.UpdateAccountRequest) bool {
		return req.Code != nil && *req.Code == "1001" && req.Name == nil
	}), suite.userID).Return(nil, apperrors.ErrAccountLocked).Once()

	w := suite.do(http.MethodPatch, "/api/v1/accounts/a1", map[string]any{"code": "1001"})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestDeactivateAccount() {
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, "a1", suite.userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/a1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestInternalErrorsAreNotLeaked() {
	suite.mockAccountService.On("ListAccounts", mock.Anything).
		Return(nil, apperrors.NewAppError(500, "failed to query accounts", assert.AnError)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), assert.AnError.Error())
	suite.Contains(w.Body.String(), "Failed to list accounts")
}
