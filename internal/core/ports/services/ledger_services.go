package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerService reconstructs per-account history from posted items.
type LedgerService interface {
	// GetOpeningBalance returns the signed balance of the account from items dated before asOf.
	GetOpeningBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// GetLedger returns the running-balance ledger for [start, end].
	GetLedger(ctx context.Context, accountID string, start, end time.Time) (*domain.Ledger, error)
}
