package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RetainedEarningsName labels the synthetic equity row on the balance sheet.
const RetainedEarningsName = "Retained Earnings"

// AccountActivity is the posted debit and credit total of one account over a report window.
type AccountActivity struct {
	AccountID   string
	Code        string
	Name        string
	AccountType AccountType
	Totals      ActivityTotals
}

// ActivityFilter selects the posted items a report aggregates.
// From is inclusive and optional; To is inclusive.
type ActivityFilter struct {
	Types []AccountType
	From  *time.Time
	To    time.Time
}

// AccountBalance is an account with its sign-adjusted balance in a report.
type AccountBalance struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// ProfitLossReport covers revenue and expense activity over a period.
type ProfitLossReport struct {
	StartDate    time.Time        `json:"startDate"`
	EndDate      time.Time        `json:"endDate"`
	Revenue      []AccountBalance `json:"revenue"`
	TotalRevenue decimal.Decimal  `json:"totalRevenue"`
	Expense      []AccountBalance `json:"expense"`
	TotalExpense decimal.Decimal  `json:"totalExpense"`
	NetProfit    decimal.Decimal  `json:"netProfit"`
}

// BalanceSheetReport lists asset, liability and equity balances as of a date.
type BalanceSheetReport struct {
	AsOf             time.Time        `json:"asOf"`
	Assets           []AccountBalance `json:"assets"`
	TotalAssets      decimal.Decimal  `json:"totalAssets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	TotalLiabilities decimal.Decimal  `json:"totalLiabilities"`
	Equity           []AccountBalance `json:"equity"`
	TotalEquity      decimal.Decimal  `json:"totalEquity"`
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account's net in its natural column.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}
