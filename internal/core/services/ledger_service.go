package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewLedgerService creates the read-side ledger. It never touches cached balances.
func NewLedgerService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader) portssvc.LedgerService {
	return &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.LedgerService = (*ledgerService)(nil)

func (s *ledgerService) openingBalance(ctx context.Context, account *domain.Account, asOf time.Time) (decimal.Decimal, error) {
	totals, err := s.ledgerRepo.SumAccountActivity(ctx, account.AccountID, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum account activity: %w", err)
	}
	return accounting.SignedTotals(account.AccountType, totals)
}

func (s *ledgerService) GetOpeningBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	balance, err := s.openingBalance(ctx, account, domain.NormalizeDate(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute opening balance", slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *ledgerService) GetLedger(ctx context.Context, accountID string, start, end time.Time) (*domain.Ledger, error) {
	start, end = domain.NormalizeDate(start), domain.NormalizeDate(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: ledger end date %s is before start date %s", apperrors.ErrValidation,
			end.Format(domain.DateLayout), start.Format(domain.DateLayout))
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening, err := s.openingBalance(ctx, account, start)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute opening balance", slog.String("account_id", accountID))
		return nil, err
	}

	items, err := s.ledgerRepo.ListAccountActivity(ctx, accountID, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account activity", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list account activity: %w", err)
	}

	running := opening
	rows := make([]domain.LedgerRow, 0, len(items))
	for _, it := range items {
		delta, err := accounting.SignedDelta(account.AccountType, it.Debit, it.Credit)
		if err != nil {
			return nil, err
		}
		running = running.Add(delta)
		rows = append(rows, domain.LedgerRow{
			JournalID:      it.JournalID,
			ItemID:         it.ItemID,
			Date:           it.JournalDate,
			Reference:      it.Reference,
			Description:    it.Description,
			Debit:          it.Debit,
			Credit:         it.Credit,
			RunningBalance: running,
		})
	}

	s.LogDebug(ctx, "Ledger built", slog.String("account_id", accountID), slog.Int("row_count", len(rows)))
	return &domain.Ledger{
		Account:        *account,
		StartDate:      start,
		EndDate:        end,
		OpeningBalance: opening,
		ClosingBalance: running,
		Rows:           rows,
	}, nil
}
