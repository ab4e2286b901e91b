package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/google/uuid"
)

type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	reportCache portsrepo.ReportCache
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalReportCache makes every successful posting invalidate cached reports.
func WithJournalReportCache(cache portsrepo.ReportCache) JournalServiceOption {
	return func(s *journalService) {
		s.reportCache = cache
	}
}

// WithJournalClock overrides the clock used for audit fields.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new journal service, the only writer of account balances.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildEntry turns a request into a domain entry with fresh IDs. Items keep request order.
func (s *journalService) buildEntry(req dto.CreateJournalRequest, userID string, status domain.JournalStatus) (domain.JournalEntry, error) {
	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("%w: invalid journal date '%s', use YYYY-MM-DD", apperrors.ErrValidation, req.Date)
	}

	now := s.Now()
	journalID := uuid.NewString()
	items := make([]domain.JournalItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.JournalItem{
			ItemID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   it.AccountID,
			LineNo:      i + 1,
			Debit:       it.Debit,
			Credit:      it.Credit,
			Description: it.Description,
			CreatedAt:   now,
		}
	}

	return domain.JournalEntry{
		JournalID:   journalID,
		JournalDate: domain.NormalizeDate(date),
		Description: req.Description,
		Reference:   req.Reference,
		Status:      status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Items: items,
	}, nil
}

// resolveAccounts loads every referenced account. Missing accounts always fail;
// inactive ones fail only when requireActive is set.
func (s *journalService) resolveAccounts(ctx context.Context, items []domain.JournalItem, requireActive bool) (map[string]domain.AccountType, error) {
	ids := domain.JournalEntry{Items: items}.AccountIDs()
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	types := make(map[string]domain.AccountType, len(ids))
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s does not exist", apperrors.ErrUnknownAccount, id)
		}
		if requireActive && !acc.IsActive {
			return nil, fmt.Errorf("%w: %s (%s) is inactive", apperrors.ErrUnknownAccount, acc.Code, id)
		}
		types[id] = acc.AccountType
	}
	return types, nil
}

// validateForPosting runs the posting checks in their fixed order: item count,
// account resolution, item shape, balance. It returns the per-account deltas.
func (s *journalService) validateForPosting(ctx context.Context, items []domain.JournalItem) (domain.BalanceChanges, error) {
	if err := accounting.CheckItemCount(items); err != nil {
		return nil, err
	}
	types, err := s.resolveAccounts(ctx, items, true)
	if err != nil {
		return nil, err
	}
	if err := accounting.CheckItemShape(items); err != nil {
		return nil, err
	}
	if err := accounting.CheckBalance(items); err != nil {
		return nil, err
	}
	return accounting.BalanceChanges(items, types)
}

// invalidateReports bumps the report cache after a commit. The posting already
// committed, so a failure is logged rather than returned; the cache then
// bypasses itself until a later invalidation succeeds.
func (s *journalService) invalidateReports(ctx context.Context) {
	if s.reportCache == nil {
		return
	}
	if err := s.reportCache.Invalidate(ctx); err != nil {
		s.LogError(ctx, err, "Failed to invalidate report cache")
	}
}

func (s *journalService) logRejected(ctx context.Context, err error, msg string, keyvals ...any) {
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrNotFound) {
		s.LogWarn(ctx, err, msg, keyvals...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

// PostJournal validates and posts a new journal entry in one atomic store call.
func (s *journalService) PostJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error) {
	entry, err := s.buildEntry(req, creatorUserID, domain.Posted)
	if err != nil {
		return nil, err
	}

	balanceChanges, err := s.validateForPosting(ctx, entry.Items)
	if err != nil {
		s.logRejected(ctx, err, "Journal entry rejected", slog.String("reference", req.Reference))
		return nil, err
	}

	if err := s.journalRepo.SaveJournal(ctx, entry, balanceChanges); err != nil {
		s.logRejected(ctx, err, "Failed to save journal", slog.String("journal_id", entry.JournalID))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}
	s.invalidateReports(ctx)

	s.LogInfo(ctx, "Journal posted",
		slog.String("journal_id", entry.JournalID),
		slog.Int("item_count", len(entry.Items)),
		slog.String("total", entry.TotalDebit().String()))
	return &entry, nil
}

// SaveDraft stores an entry with status draft. Balance is checked only when posting.
func (s *journalService) SaveDraft(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error) {
	entry, err := s.buildEntry(req, creatorUserID, domain.Draft)
	if err != nil {
		return nil, err
	}

	if err := accounting.CheckItemCount(entry.Items); err != nil {
		return nil, err
	}
	if _, err := s.resolveAccounts(ctx, entry.Items, false); err != nil {
		return nil, err
	}
	if err := accounting.CheckItemShape(entry.Items); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveJournal(ctx, entry, nil); err != nil {
		s.logRejected(ctx, err, "Failed to save draft", slog.String("journal_id", entry.JournalID))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.LogInfo(ctx, "Draft journal saved", slog.String("journal_id", entry.JournalID))
	return &entry, nil
}

// PostDraft promotes a draft to posted after running the full posting validation.
func (s *journalService) PostDraft(ctx context.Context, journalID string, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: journal %s is %s, only drafts can be posted", apperrors.ErrConflict, journalID, entry.Status)
	}

	balanceChanges, err := s.validateForPosting(ctx, entry.Items)
	if err != nil {
		s.logRejected(ctx, err, "Draft journal rejected", slog.String("journal_id", journalID))
		return nil, err
	}

	now := s.Now()
	if err := s.journalRepo.PostDraft(ctx, journalID, balanceChanges, userID, now); err != nil {
		s.logRejected(ctx, err, "Failed to post draft", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to post draft: %w", err)
	}
	s.invalidateReports(ctx)

	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "Draft journal posted", slog.String("journal_id", journalID))
	return entry, nil
}

// VoidJournal posts the exact mirror of a posted entry, dated like the original,
// and flags the original void. Nothing is deleted or rewritten.
func (s *journalService) VoidJournal(ctx context.Context, journalID string, userID string) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: journal %s is %s, only posted journals can be voided", apperrors.ErrConflict, journalID, original.Status)
	}

	now := s.Now()
	reversalID := uuid.NewString()
	items := make([]domain.JournalItem, len(original.Items))
	for i, it := range original.Items {
		mirrored := it.Mirror()
		mirrored.ItemID = uuid.NewString()
		mirrored.JournalID = reversalID
		mirrored.CreatedAt = now
		items[i] = mirrored
	}

	// Voiding stays possible after an account is deactivated.
	types, err := s.resolveAccounts(ctx, items, false)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := accounting.BalanceChanges(items, types)
	if err != nil {
		return nil, err
	}

	originalID := original.JournalID
	reversal := domain.JournalEntry{
		JournalID:         reversalID,
		JournalDate:       original.JournalDate,
		Description:       fmt.Sprintf("Reversal of journal %s: %s", originalID, original.Description),
		Reference:         original.Reference,
		Status:            domain.Posted,
		OriginalJournalID: &originalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Items: items,
	}

	if err := s.journalRepo.SaveReversal(ctx, originalID, reversal, balanceChanges); err != nil {
		s.logRejected(ctx, err, "Failed to void journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to void journal: %w", err)
	}
	s.invalidateReports(ctx)

	s.LogInfo(ctx, "Journal voided", slog.String("journal_id", journalID), slog.String("reversing_journal_id", reversalID))
	return &reversal, nil
}

func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get journal", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, limit, token, params.IncludeDrafts)
	if err != nil {
		s.logRejected(ctx, err, "Failed to list journals")
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	return dto.ToListJournalsResponse(journals, nextToken), nil
}
