package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerItem is a posted item joined with its entry header, as read for one account.
type LedgerItem struct {
	JournalID   string
	ItemID      string
	JournalDate time.Time
	Reference   string
	Description string // Item description, falling back to the entry description
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// LedgerRow is a derived ledger line with the running balance after it.
type LedgerRow struct {
	JournalID      string          `json:"journalID"`
	ItemID         string          `json:"itemID"`
	Date           time.Time       `json:"date"`
	Reference      string          `json:"reference"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// Ledger is the running-balance history of one account over a date range.
type Ledger struct {
	Account        Account         `json:"account"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Rows           []LedgerRow     `json:"rows"`
}

// ActivityTotals is the raw debit and credit sum of a set of posted items.
type ActivityTotals struct {
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	ItemCount int
}
