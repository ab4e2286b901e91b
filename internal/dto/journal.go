package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalItemRequest is one line of a journal entry request.
type CreateJournalItemRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalRequest defines the data needed to post or draft a journal entry.
// Item-level rules are enforced by the journal service, so the caller always
// gets the same error kind regardless of transport.
type CreateJournalRequest struct {
	Date        string                     `json:"date" binding:"required,datetime=2006-01-02"`
	Description string                     `json:"description" binding:"max=1024"`
	Reference   string                     `json:"reference" binding:"max=128"`
	Items       []CreateJournalItemRequest `json:"items" binding:"dive"`
}

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	Limit         int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken     string `form:"nextToken"`
	IncludeDrafts bool   `form:"includeDrafts"`
}

// JournalItemResponse defines the data returned for a journal item.
type JournalItemResponse struct {
	ItemID      string          `json:"itemID"`
	AccountID   string          `json:"accountID"`
	LineNo      int             `json:"lineNo"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID          string                `json:"journalID"`
	Date               string                `json:"date"`
	Description        string                `json:"description"`
	Reference          string                `json:"reference"`
	Status             domain.JournalStatus  `json:"status"`
	OriginalJournalID  *string               `json:"originalJournalID,omitempty"`
	ReversingJournalID *string               `json:"reversingJournalID,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	CreatedBy          string                `json:"createdBy"`
	Items              []JournalItemResponse `json:"items"`
}

// ListJournalsResponse is one page of journal entries.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToJournalResponse converts a domain.JournalEntry to JournalResponse DTO.
func ToJournalResponse(j *domain.JournalEntry) JournalResponse {
	items := make([]JournalItemResponse, len(j.Items))
	for i, it := range j.Items {
		items[i] = JournalItemResponse{
			ItemID:      it.ItemID,
			AccountID:   it.AccountID,
			LineNo:      it.LineNo,
			Debit:       it.Debit,
			Credit:      it.Credit,
			Description: it.Description,
		}
	}
	return JournalResponse{
		JournalID:          j.JournalID,
		Date:               j.JournalDate.Format(domain.DateLayout),
		Description:        j.Description,
		Reference:          j.Reference,
		Status:             j.Status,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
		Items:              items,
	}
}

// ToListJournalsResponse wraps a page of entries.
func ToListJournalsResponse(journals []domain.JournalEntry, nextToken *string) *ListJournalsResponse {
	res := &ListJournalsResponse{
		Journals:  make([]JournalResponse, len(journals)),
		NextToken: nextToken,
	}
	for i := range journals {
		res.Journals[i] = ToJournalResponse(&journals[i])
	}
	return res
}
