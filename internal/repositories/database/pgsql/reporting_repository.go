package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// AccountActivity aggregates posted debits and credits per account
func (r *reportingRepository) AccountActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	types := make([]string, len(filter.Types))
	for i, t := range filter.Types {
		types[i] = string(t)
	}
	var from *time.Time
	if filter.From != nil {
		f := *filter.From
		from = &f
	}

	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			SUM(i.debit) AS total_debit,
			SUM(i.credit) AS total_credit,
			COUNT(i.item_id) AS item_count
		FROM journal_items i
		JOIN accounts a ON i.account_id = a.account_id
		JOIN journal_entries j ON i.journal_id = j.journal_id
		WHERE j.status = ANY($1)
			AND a.account_type = ANY($2)
			AND j.journal_date <= $3
			AND ($4::date IS NULL OR j.journal_date >= $4::date)
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, visibleStatuses, types, filter.To, from)
	if err != nil {
		return nil, fmt.Errorf("error querying account activity: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountActivity{}
	for rows.Next() {
		var row domain.AccountActivity
		var accountType string

		if err := rows.Scan(
			&row.AccountID,
			&row.Code,
			&row.Name,
			&accountType,
			&row.Totals.Debit,
			&row.Totals.Credit,
			&row.Totals.ItemCount,
		); err != nil {
			return nil, fmt.Errorf("error scanning account activity row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account activity rows: %w", err)
	}
	return result, nil
}
