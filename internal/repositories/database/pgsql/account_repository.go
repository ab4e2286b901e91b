package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, code, name, account_type, parent_account_id, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by, balance`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool, LockTimeout: lockTimeout}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Balance,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Balance,
	)
	if err != nil {
		return wrapPgError(err, "failed to save account "+m.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	return collectAccounts(r.Pool.Query(ctx, query, accountIDs))
}

// ListAccounts retrieves the chart of accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// UpdateAccount overwrites account metadata. The row lock serializes it with
// postings, which lock the same rows before inserting items.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	tx, err := r.BeginLocking(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	current, err := scanAccount(tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1 FOR UPDATE;`, account.AccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
		}
		return wrapPgError(err, "failed to lock account "+account.AccountID)
	}

	if current.Code != account.Code || current.AccountType != account.AccountType {
		var hasItems bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM journal_items i
				JOIN journal_entries j ON j.journal_id = i.journal_id
				WHERE i.account_id = $1 AND j.status = ANY($2)
			);`, account.AccountID, visibleStatuses).Scan(&hasItems)
		if err != nil {
			return wrapPgError(err, "failed to check journal items of account "+account.AccountID)
		}
		if hasItems {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountLocked, current.Code)
		}
	}

	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET code = $2, name = $3, account_type = $4, parent_account_id = $5, description = $6,
		    is_active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE account_id = $1;
	`
	_, err = tx.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapPgError(err, "failed to update account "+m.AccountID)
	}
	return r.Commit(ctx, tx)
}

func collectAccounts(rows pgx.Rows, err error) (map[string]domain.Account, error) {
	if err != nil {
		return nil, wrapPgError(err, "failed to query accounts by IDs")
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError(err, "error iterating account rows")
	}
	return accounts, nil
}

// lockAccountsInTx locks the account rows in id order, so concurrent postings
// touching overlapping accounts always queue in the same order. Every id must
// exist, and be active when requireActive is set.
func lockAccountsInTx(ctx context.Context, tx pgx.Tx, accountIDs []string, requireActive bool) (map[string]domain.Account, error) {
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	locked, err := collectAccounts(tx.Query(ctx, query, ids))
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		acc, ok := locked[id]
		if !ok || (requireActive && !acc.IsActive) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, id)
		}
	}
	return locked, nil
}

// applyBalanceChangesInTx adds each delta to the cached balance in one batch.
func applyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, balanceChanges domain.BalanceChanges, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		UPDATE accounts
		SET balance = balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`
	for _, id := range balanceChanges.AccountIDs() {
		batch.Queue(query, balanceChanges[id].Delta, now, userID, id)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return wrapPgError(err, "failed to update account balances")
	}
	return nil
}
