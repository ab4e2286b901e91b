package dto

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// AccountBalanceResponse represents an account with its amount in a financial report
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID,omitempty"` // Empty for the synthetic retained earnings row
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate     string                   `json:"fromDate"`
	ToDate       string                   `json:"toDate"`
	Revenue      []AccountBalanceResponse `json:"revenue"`
	TotalRevenue decimal.Decimal          `json:"totalRevenue"`
	Expense      []AccountBalanceResponse `json:"expense"`
	TotalExpense decimal.Decimal          `json:"totalExpense"`
	NetProfit    decimal.Decimal          `json:"netProfit"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf             string                   `json:"asOf"`
	Assets           []AccountBalanceResponse `json:"assets"`
	TotalAssets      decimal.Decimal          `json:"totalAssets"`
	Liabilities      []AccountBalanceResponse `json:"liabilities"`
	TotalLiabilities decimal.Decimal          `json:"totalLiabilities"`
	Equity           []AccountBalanceResponse `json:"equity"`
	TotalEquity      decimal.Decimal          `json:"totalEquity"`
}

func toAccountBalanceResponses(rows []domain.AccountBalance) []AccountBalanceResponse {
	res := make([]AccountBalanceResponse, len(rows))
	for i, r := range rows {
		res[i] = AccountBalanceResponse{AccountID: r.AccountID, Code: r.Code, Name: r.Name, Balance: r.Balance}
	}
	return res
}

// ToTrialBalanceResponse converts domain trial balance to response DTO
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: report.AsOf.Format(domain.DateLayout),
		Rows: make([]TrialBalanceRowResponse, len(report.Rows)),
	}
	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.Debit = report.TotalDebit
	response.Totals.Credit = report.TotalCredit
	return response
}

// ToProfitAndLossResponse converts domain P&L report to response DTO
func ToProfitAndLossResponse(report *domain.ProfitLossReport) ProfitAndLossResponse {
	return ProfitAndLossResponse{
		FromDate:     report.StartDate.Format(domain.DateLayout),
		ToDate:       report.EndDate.Format(domain.DateLayout),
		Revenue:      toAccountBalanceResponses(report.Revenue),
		TotalRevenue: report.TotalRevenue,
		Expense:      toAccountBalanceResponses(report.Expense),
		TotalExpense: report.TotalExpense,
		NetProfit:    report.NetProfit,
	}
}

// ToBalanceSheetResponse converts domain balance sheet report to response DTO
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	return BalanceSheetResponse{
		AsOf:             report.AsOf.Format(domain.DateLayout),
		Assets:           toAccountBalanceResponses(report.Assets),
		TotalAssets:      report.TotalAssets,
		Liabilities:      toAccountBalanceResponses(report.Liabilities),
		TotalLiabilities: report.TotalLiabilities,
		Equity:           toAccountBalanceResponses(report.Equity),
		TotalEquity:      report.TotalEquity,
	}
}
