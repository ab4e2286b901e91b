package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// AccountTypes lists every valid type in chart-of-accounts order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal is true for types whose balance grows with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"` // Unique, user-facing
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID string          `json:"parentAccountID"` // Informational only
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"`
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Cache maintained by posting
}

// AccountPatch carries optional metadata changes for an account.
// Nil fields are left untouched.
type AccountPatch struct {
	Code        *string
	Name        *string
	AccountType *AccountType
	Description *string
	IsActive    *bool
}
