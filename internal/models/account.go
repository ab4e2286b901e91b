package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// AccountType is the stored form of an account type.
type AccountType string

// Account is the row shape of the accounts table.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	ParentAccountID sql.NullString  `db:"parent_account_id"`
	Description     string          `db:"description"`
	IsActive        bool            `db:"is_active"`
	AuditFields                     // Embed common audit fields
	Balance         decimal.Decimal `db:"balance"`
}
