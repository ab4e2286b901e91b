package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the Postgres-backed repositories. lockTimeout
// bounds how long a posting waits for account row locks.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool, lockTimeout),
		JournalRepo:   newPgxJournalRepository(dbPool, lockTimeout),
		ReportingRepo: newReportingRepository(dbPool),
	}
}
