package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// AccountActivity aggregates posted items per account for the filter.
	// Only accounts with at least one matching item are returned, ordered by code.
	AccountActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error)
}

// ReportCache stores computed reports under a generation. Invalidate moves to a
// new generation, so a reader that captured the generation before computing
// never publishes a result computed across a posting.
type ReportCache interface {
	Generation(ctx context.Context) (int64, error)
	Fetch(ctx context.Context, generation int64, kind, params string, dest any) (bool, error)
	Store(ctx context.Context, generation int64, kind, params string, report any) error
	Invalidate(ctx context.Context) error
}
