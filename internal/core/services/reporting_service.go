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

const (
	reportKindProfitLoss   = "profit-and-loss"
	reportKindBalanceSheet = "balance-sheet"
	reportKindTrialBalance = "trial-balance"
)

// reportingService implements the ReportingService interface. Reports are always
// derived from posted journal items, never from cached account balances.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	reportCache   portsrepo.ReportCache
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportCache enables caching of computed reports.
func WithReportCache(cache portsrepo.ReportCache) ReportingServiceOption {
	return func(s *reportingService) {
		s.reportCache = cache
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// cachedReport serves a report from the cache when possible and stores fresh
// results. Cache errors are logged and never fail the read.
func cachedReport[T any](ctx context.Context, s *reportingService, kind, params string, compute func() (*T, error)) (*T, error) {
	cache := s.reportCache
	var generation int64
	if cache != nil {
		gen, err := cache.Generation(ctx)
		if err != nil {
			s.LogError(ctx, err, "Report cache unavailable", slog.String("kind", kind))
			cache = nil
		}
		generation = gen
	}

	if cache != nil {
		var hit T
		found, err := cache.Fetch(ctx, generation, kind, params, &hit)
		if err != nil {
			s.LogError(ctx, err, "Report cache read failed", slog.String("kind", kind))
		} else if found {
			s.LogDebug(ctx, "Report served from cache", slog.String("kind", kind), slog.String("params", params))
			return &hit, nil
		}
	}

	report, err := compute()
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Store(ctx, generation, kind, params, report); err != nil {
			s.LogError(ctx, err, "Report cache write failed", slog.String("kind", kind))
		}
	}
	return report, nil
}

// ProfitAndLoss generates a profit and loss report for a specific period
func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.ProfitLossReport, error) {
	from, to = domain.NormalizeDate(from), domain.NormalizeDate(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end is before period start", apperrors.ErrValidation)
	}
	params := from.Format(domain.DateLayout) + ":" + to.Format(domain.DateLayout)

	return cachedReport(ctx, s, reportKindProfitLoss, params, func() (*domain.ProfitLossReport, error) {
		activity, err := s.reportingRepo.AccountActivity(ctx, domain.ActivityFilter{
			Types: []domain.AccountType{domain.Revenue, domain.Expense},
			From:  &from,
			To:    to,
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to retrieve profit and loss data", slog.String("params", params))
			return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
		}

		report := &domain.ProfitLossReport{
			StartDate:    from,
			EndDate:      to,
			Revenue:      []domain.AccountBalance{},
			TotalRevenue: decimal.Zero,
			Expense:      []domain.AccountBalance{},
			TotalExpense: decimal.Zero,
		}
		for _, a := range activity {
			balance, err := accounting.SignedTotals(a.AccountType, a.Totals)
			if err != nil {
				return nil, err
			}
			row := domain.AccountBalance{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Balance: balance}
			switch a.AccountType {
			case domain.Revenue:
				report.Revenue = append(report.Revenue, row)
				report.TotalRevenue = report.TotalRevenue.Add(balance)
			case domain.Expense:
				report.Expense = append(report.Expense, row)
				report.TotalExpense = report.TotalExpense.Add(balance)
			}
		}
		report.NetProfit = report.TotalRevenue.Sub(report.TotalExpense)

		s.LogInfo(ctx, "Profit and loss report generated", slog.String("params", params),
			slog.String("net_profit", report.NetProfit.String()))
		return report, nil
	})
}

// BalanceSheet generates a balance sheet report as of a specific date. All revenue
// and expense activity to date is folded into one synthetic retained earnings row.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	asOf = domain.NormalizeDate(asOf)
	params := asOf.Format(domain.DateLayout)

	return cachedReport(ctx, s, reportKindBalanceSheet, params, func() (*domain.BalanceSheetReport, error) {
		activity, err := s.reportingRepo.AccountActivity(ctx, domain.ActivityFilter{
			Types: domain.AccountTypes,
			To:    asOf,
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("asOf", params))
			return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
		}

		report := &domain.BalanceSheetReport{
			AsOf:             asOf,
			Assets:           []domain.AccountBalance{},
			TotalAssets:      decimal.Zero,
			Liabilities:      []domain.AccountBalance{},
			TotalLiabilities: decimal.Zero,
			Equity:           []domain.AccountBalance{},
			TotalEquity:      decimal.Zero,
		}
		retained := decimal.Zero
		for _, a := range activity {
			balance, err := accounting.SignedTotals(a.AccountType, a.Totals)
			if err != nil {
				return nil, err
			}
			row := domain.AccountBalance{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Balance: balance}
			switch a.AccountType {
			case domain.Asset:
				report.Assets = append(report.Assets, row)
				report.TotalAssets = report.TotalAssets.Add(balance)
			case domain.Liability:
				report.Liabilities = append(report.Liabilities, row)
				report.TotalLiabilities = report.TotalLiabilities.Add(balance)
			case domain.Equity:
				report.Equity = append(report.Equity, row)
				report.TotalEquity = report.TotalEquity.Add(balance)
			case domain.Revenue:
				retained = retained.Add(balance)
			case domain.Expense:
				retained = retained.Sub(balance)
			}
		}
		if !retained.IsZero() {
			report.Equity = append(report.Equity, domain.AccountBalance{Name: domain.RetainedEarningsName, Balance: retained})
			report.TotalEquity = report.TotalEquity.Add(retained)
		}

		if gap := report.TotalAssets.Sub(report.TotalLiabilities).Sub(report.TotalEquity); !gap.IsZero() {
			s.GetLogger(ctx).Warn("Balance sheet does not balance", slog.String("asOf", params), slog.String("gap", gap.String()))
		}
		s.LogInfo(ctx, "Balance sheet report generated", slog.String("asOf", params),
			slog.String("total_assets", report.TotalAssets.String()))
		return report, nil
	})
}

// TrialBalance generates a trial balance report as of a specific date. Each
// account's net sits in its natural column unless it has flipped sign.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	asOf = domain.NormalizeDate(asOf)
	params := asOf.Format(domain.DateLayout)

	return cachedReport(ctx, s, reportKindTrialBalance, params, func() (*domain.TrialBalanceReport, error) {
		activity, err := s.reportingRepo.AccountActivity(ctx, domain.ActivityFilter{
			Types: domain.AccountTypes,
			To:    asOf,
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("asOf", params))
			return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
		}

		report := &domain.TrialBalanceReport{
			AsOf:        asOf,
			Rows:        make([]domain.TrialBalanceRow, 0, len(activity)),
			TotalDebit:  decimal.Zero,
			TotalCredit: decimal.Zero,
		}
		for _, a := range activity {
			balance, err := accounting.SignedTotals(a.AccountType, a.Totals)
			if err != nil {
				return nil, err
			}
			row := domain.TrialBalanceRow{
				AccountID:   a.AccountID,
				Code:        a.Code,
				AccountName: a.Name,
				AccountType: a.AccountType,
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
			}
			debitSide := a.AccountType.IsDebitNormal() != balance.IsNegative()
			if debitSide {
				row.Debit = balance.Abs()
			} else {
				row.Credit = balance.Abs()
			}
			report.Rows = append(report.Rows, row)
			report.TotalDebit = report.TotalDebit.Add(row.Debit)
			report.TotalCredit = report.TotalCredit.Add(row.Credit)
		}

		s.LogInfo(ctx, "Trial balance report generated", slog.String("asOf", params), slog.Int("row_count", len(report.Rows)))
		return report, nil
	})
}
