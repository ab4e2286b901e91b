package dto

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRowResponse is one line of an account ledger.
type LedgerRowResponse struct {
	JournalID      string          `json:"journalID"`
	ItemID         string          `json:"itemID"`
	Date           string          `json:"date"`
	Reference      string          `json:"reference"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerResponse is an account ledger with the opening balance that seeds it.
type LedgerResponse struct {
	Account        AccountResponse     `json:"account"`
	From           string              `json:"from"`
	To             string              `json:"to"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
	Rows           []LedgerRowResponse `json:"rows"`
}

// OpeningBalanceResponse is the balance of an account before a date.
type OpeningBalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      string          `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}

// ToLedgerResponse converts a domain.Ledger to LedgerResponse DTO.
func ToLedgerResponse(l *domain.Ledger) LedgerResponse {
	rows := make([]LedgerRowResponse, len(l.Rows))
	for i, r := range l.Rows {
		rows[i] = LedgerRowResponse{
			JournalID:      r.JournalID,
			ItemID:         r.ItemID,
			Date:           r.Date.Format(domain.DateLayout),
			Reference:      r.Reference,
			Description:    r.Description,
			Debit:          r.Debit,
			Credit:         r.Credit,
			RunningBalance: r.RunningBalance,
		}
	}
	return LedgerResponse{
		Account:        ToAccountResponse(&l.Account),
		From:           l.StartDate.Format(domain.DateLayout),
		To:             l.EndDate.Format(domain.DateLayout),
		OpeningBalance: l.OpeningBalance,
		ClosingBalance: l.ClosingBalance,
		Rows:           rows,
	}
}
