package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "draft"
	Posted JournalStatus = "posted"
	Void   JournalStatus = "void"
)

// AffectsBalances is true for entries whose items count towards balances,
// ledgers and reports. A voided entry stays in history next to its reversal.
func (s JournalStatus) AffectsBalances() bool {
	return s == Posted || s == Void
}

// JournalEntry is a dated, balanced set of journal items.
type JournalEntry struct {
	JournalID          string        `json:"journalID"`
	JournalDate        time.Time     `json:"journalDate"`
	Description        string        `json:"description"`
	Reference          string        `json:"reference"`
	Status             JournalStatus `json:"status"`
	OriginalJournalID  *string       `json:"originalJournalID,omitempty"`  // Set on a reversal
	ReversingJournalID *string       `json:"reversingJournalID,omitempty"` // Set on a voided entry
	AuditFields
	Items []JournalItem `json:"items,omitempty"`
}

// JournalItem is one debit or credit line of a journal entry.
type JournalItem struct {
	ItemID      string          `json:"itemID"`
	JournalID   string          `json:"journalID"`
	AccountID   string          `json:"accountID"`
	LineNo      int             `json:"lineNo"` // Insertion order, used as ledger tie-break
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Mirror returns a copy of the item with debit and credit swapped.
func (i JournalItem) Mirror() JournalItem {
	i.Debit, i.Credit = i.Credit, i.Debit
	return i
}

// TotalDebit sums the debit side of the entry's items.
func (j JournalEntry) TotalDebit() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range j.Items {
		sum = sum.Add(it.Debit)
	}
	return sum
}

// TotalCredit sums the credit side of the entry's items.
func (j JournalEntry) TotalCredit() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range j.Items {
		sum = sum.Add(it.Credit)
	}
	return sum
}

// AccountIDs returns the distinct accounts referenced by the entry, in first-seen order.
func (j JournalEntry) AccountIDs() []string {
	seen := make(map[string]bool, len(j.Items))
	ids := make([]string, 0, len(j.Items))
	for _, it := range j.Items {
		if !seen[it.AccountID] {
			seen[it.AccountID] = true
			ids = append(ids, it.AccountID)
		}
	}
	return ids
}
