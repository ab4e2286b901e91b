package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus is the stored form of a journal status.
type JournalStatus string

// JournalEntry is the row shape of the journal_entries table.
type JournalEntry struct {
	JournalID          string         `db:"journal_id"`
	JournalDate        time.Time      `db:"journal_date"`
	Description        string         `db:"description"`
	Reference          string         `db:"reference"`
	Status             JournalStatus  `db:"status"`
	OriginalJournalID  sql.NullString `db:"original_journal_id"`
	ReversingJournalID sql.NullString `db:"reversing_journal_id"`
	AuditFields
}

// JournalItem is the row shape of the journal_items table.
type JournalItem struct {
	ItemID      string          `db:"item_id"`
	JournalID   string          `db:"journal_id"`
	AccountID   string          `db:"account_id"`
	LineNo      int             `db:"line_no"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}
