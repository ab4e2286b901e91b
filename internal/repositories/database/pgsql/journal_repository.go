package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const journalColumns = `journal_id, journal_date, description, reference, status,
	original_journal_id, reversing_journal_id, created_at, created_by, last_updated_at, last_updated_by`

// visibleStatuses are the statuses whose items count towards balances and reports.
var visibleStatuses = []string{string(domain.Posted), string(domain.Void)}

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and ledger reads.
func newPgxJournalRepository(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool, LockTimeout: lockTimeout}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (domain.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalID,
		&m.JournalDate,
		&m.Description,
		&m.Reference,
		&m.Status,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return mapping.ToDomainJournal(m), nil
}

// insertEntryInTx writes the header and, in one batch, the items of an entry.
func insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournal(entry)
	_, err := tx.Exec(ctx, `
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		m.JournalID,
		m.JournalDate,
		m.Description,
		m.Reference,
		m.Status,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapPgError(err, "failed to insert journal "+m.JournalID)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO journal_items (item_id, journal_id, account_id, line_no, debit, credit, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, it := range entry.Items {
		mi := mapping.ToModelJournalItem(it)
		batch.Queue(itemQuery, mi.ItemID, mi.JournalID, mi.AccountID, mi.LineNo, mi.Debit, mi.Credit, mi.Description, mi.CreatedAt)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return wrapPgError(err, "failed to insert items for journal "+m.JournalID)
	}
	return nil
}

// SaveJournal saves an entry with its items and, when posted, updates account
// balances within one DB transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, entry domain.JournalEntry, balanceChanges domain.BalanceChanges) error {
	tx, err := r.BeginLocking(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	posted := entry.Status == domain.Posted
	locked, err := lockAccountsInTx(ctx, tx, entry.AccountIDs(), posted)
	if err != nil {
		return err
	}
	if posted {
		if err := accounting.CheckSignedTypes(balanceChanges, locked); err != nil {
			return err
		}
	}
	if err := insertEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	if posted {
		if err := applyBalanceChangesInTx(ctx, tx, balanceChanges, entry.CreatedBy, entry.CreatedAt); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// lockJournalInTx locks the header row and checks it has the wanted status.
func lockJournalInTx(ctx context.Context, tx pgx.Tx, journalID string, want domain.JournalStatus) error {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM journal_entries WHERE journal_id = $1 FOR UPDATE;`, journalID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
		}
		return wrapPgError(err, "failed to lock journal "+journalID)
	}
	if domain.JournalStatus(status) != want {
		return fmt.Errorf("%w: journal %s is %s", apperrors.ErrConflict, journalID, status)
	}
	return nil
}

// PostDraft flips a draft to posted and applies its balance changes.
func (r *PgxJournalRepository) PostDraft(ctx context.Context, journalID string, balanceChanges domain.BalanceChanges, userID string, now time.Time) error {
	tx, err := r.BeginLocking(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockJournalInTx(ctx, tx, journalID, domain.Draft); err != nil {
		return err
	}
	locked, err := lockAccountsInTx(ctx, tx, balanceChanges.AccountIDs(), true)
	if err != nil {
		return err
	}
	if err := accounting.CheckSignedTypes(balanceChanges, locked); err != nil {
		return err
	}
	if err := applyBalanceChangesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE journal_entries SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $1;`, journalID, string(domain.Posted), now, userID)
	if err != nil {
		return wrapPgError(err, "failed to post draft "+journalID)
	}
	return r.Commit(ctx, tx)
}

// SaveReversal inserts the reversing entry, applies its balance changes and
// marks the original void, all in one DB transaction.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, originalID string, reversal domain.JournalEntry, balanceChanges domain.BalanceChanges) error {
	tx, err := r.BeginLocking(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockJournalInTx(ctx, tx, originalID, domain.Posted); err != nil {
		return err
	}
	locked, err := lockAccountsInTx(ctx, tx, reversal.AccountIDs(), false)
	if err != nil {
		return err
	}
	if err := accounting.CheckSignedTypes(balanceChanges, locked); err != nil {
		return err
	}
	if err := insertEntryInTx(ctx, tx, reversal); err != nil {
		return err
	}
	if err := applyBalanceChangesInTx(ctx, tx, balanceChanges, reversal.CreatedBy, reversal.CreatedAt); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, reversing_journal_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1;`,
		originalID, string(domain.Void), reversal.JournalID, reversal.CreatedAt, reversal.CreatedBy)
	if err != nil {
		return wrapPgError(err, "failed to void journal "+originalID)
	}
	return r.Commit(ctx, tx)
}

// FindJournalByID retrieves an entry with its items.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	entry, err := scanJournal(r.Pool.QueryRow(ctx,
		`SELECT `+journalColumns+` FROM journal_entries WHERE journal_id = $1;`, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}

	items, err := r.findItems(ctx, []string{journalID})
	if err != nil {
		return nil, err
	}
	entry.Items = items[journalID]
	return &entry, nil
}

// findItems loads the items of the given entries keyed by entry id, in line order.
func (r *PgxJournalRepository) findItems(ctx context.Context, journalIDs []string) (map[string][]domain.JournalItem, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT item_id, journal_id, account_id, line_no, debit, credit, description, created_at
		FROM journal_items
		WHERE journal_id = ANY($1)
		ORDER BY journal_id, line_no;`, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal items", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.JournalItem, len(journalIDs))
	for rows.Next() {
		var m models.JournalItem
		if err := rows.Scan(&m.ItemID, &m.JournalID, &m.AccountID, &m.LineNo, &m.Debit, &m.Credit, &m.Description, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal item", err)
		}
		items[m.JournalID] = append(items[m.JournalID], mapping.ToDomainJournalItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal items", err)
	}
	return items, nil
}

// ListJournals returns a page of entries, newest first, with their items.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeDrafts bool) ([]domain.JournalEntry, *string, error) {
	args := []interface{}{limit + 1}
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE 1 = 1`
	if !includeDrafts {
		args = append(args, visibleStatuses)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		date, id, err := pagination.DecodeJournalCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, date, id)
		query += fmt.Sprintf(" AND (journal_date, journal_id) < ($%d, $%d)", len(args)-1, len(args))
	}
	query += " ORDER BY journal_date DESC, journal_id DESC LIMIT $1;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journals", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanJournal(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeJournalCursor(last.JournalDate, last.JournalID)
		next = &token
	}
	if len(entries) == 0 {
		return entries, nil, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.JournalID
	}
	items, err := r.findItems(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range entries {
		entries[i].Items = items[entries[i].JournalID]
	}
	return entries, next, nil
}

// SumAccountActivity totals the account's posted items dated before `before`.
func (r *PgxJournalRepository) SumAccountActivity(ctx context.Context, accountID string, before time.Time) (domain.ActivityTotals, error) {
	query := `
		SELECT COALESCE(SUM(i.debit), 0), COALESCE(SUM(i.credit), 0), COUNT(i.item_id)
		FROM journal_items i
		JOIN journal_entries j ON j.journal_id = i.journal_id
		WHERE i.account_id = $1
			AND j.status = ANY($2)
			AND j.journal_date < $3;
	`
	totals := domain.ActivityTotals{}
	err := r.Pool.QueryRow(ctx, query, accountID, visibleStatuses, before).
		Scan(&totals.Debit, &totals.Credit, &totals.ItemCount)
	if err != nil {
		return domain.ActivityTotals{}, apperrors.NewAppError(500, "failed to sum activity for account "+accountID, err)
	}
	return totals, nil
}

// ListAccountActivity lists the account's posted items dated within [from, to].
func (r *PgxJournalRepository) ListAccountActivity(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerItem, error) {
	query := `
		SELECT j.journal_id, i.item_id, j.journal_date, j.reference,
		       COALESCE(NULLIF(i.description, ''), j.description), i.debit, i.credit
		FROM journal_items i
		JOIN journal_entries j ON j.journal_id = i.journal_id
		WHERE i.account_id = $1
			AND j.status = ANY($2)
			AND j.journal_date BETWEEN $3 AND $4
		ORDER BY j.journal_date, j.journal_id, i.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, visibleStatuses, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger for account "+accountID, err)
	}
	defer rows.Close()

	items := []domain.LedgerItem{}
	for rows.Next() {
		var it domain.LedgerItem
		if err := rows.Scan(&it.JournalID, &it.ItemID, &it.JournalDate, &it.Reference, &it.Description, &it.Debit, &it.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger row", err)
		}
		it.JournalDate = domain.NormalizeDate(it.JournalDate)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger rows", err)
	}
	return items, nil
}
