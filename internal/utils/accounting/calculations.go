package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest accepted gap between total debits and credits.
var BalanceTolerance = decimal.RequireFromString("0.01")

// MinItems is the smallest number of items a journal entry may carry.
const MinItems = 2

// amountScale is the number of fractional digits an item amount may carry.
const amountScale = 2

// SignedDelta applies the account-type sign convention to one item.
// This is used in services, stores and reports so every balance agrees.
//
//	asset, expense:             +debit - credit
//	liability, equity, revenue: +credit - debit
func SignedDelta(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown account type '%s'", apperrors.ErrInvalidType, accountType)
	}
}

// SignedTotals is SignedDelta over aggregated activity.
func SignedTotals(accountType domain.AccountType, totals domain.ActivityTotals) (decimal.Decimal, error) {
	return SignedDelta(accountType, totals.Debit, totals.Credit)
}

// CheckItemCount enforces the minimum item count.
func CheckItemCount(items []domain.JournalItem) error {
	if len(items) < MinItems {
		return fmt.Errorf("%w: got %d", apperrors.ErrInsufficientItems, len(items))
	}
	return nil
}

// CheckItemShape requires exactly one positive side per item, in minor units.
func CheckItemShape(items []domain.JournalItem) error {
	for i, it := range items {
		if it.Debit.IsNegative() || it.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrMalformedItem, i+1)
		}
		if it.Debit.IsPositive() == it.Credit.IsPositive() {
			return fmt.Errorf("%w: line %d", apperrors.ErrMalformedItem, i+1)
		}
		if !fitsScale(it.Debit) || !fitsScale(it.Credit) {
			return fmt.Errorf("%w: line %d has more than %d decimal places", apperrors.ErrMalformedItem, i+1, amountScale)
		}
	}
	return nil
}

// CheckBalance compares total debits and credits against BalanceTolerance.
func CheckBalance(items []domain.JournalItem) error {
	debit, credit := decimal.Zero, decimal.Zero
	for _, it := range items {
		debit = debit.Add(it.Debit)
		credit = credit.Add(it.Credit)
	}
	if debit.Sub(credit).Abs().GreaterThan(BalanceTolerance) {
		return fmt.Errorf("%w: debit %s, credit %s", apperrors.ErrBalanceMismatch, debit.String(), credit.String())
	}
	return nil
}

// BalanceChanges sums the signed delta of every item per account and records
// the account type each sum was signed with.
func BalanceChanges(items []domain.JournalItem, accountTypes map[string]domain.AccountType) (domain.BalanceChanges, error) {
	changes := make(domain.BalanceChanges, len(items))
	for _, it := range items {
		accountType, ok := accountTypes[it.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, it.AccountID)
		}
		delta, err := SignedDelta(accountType, it.Debit, it.Credit)
		if err != nil {
			return nil, err
		}
		changes[it.AccountID] = domain.BalanceChange{
			AccountType: accountType,
			Delta:       changes[it.AccountID].Delta.Add(delta),
		}
	}
	return changes, nil
}

// CheckSignedTypes fails with apperrors.ErrConcurrentUpdate when an account's
// current type differs from the type its change was signed with. Accounts
// missing from current are left to the caller's existence check.
func CheckSignedTypes(changes domain.BalanceChanges, current map[string]domain.Account) error {
	for _, id := range changes.AccountIDs() {
		acc, ok := current[id]
		if !ok {
			continue
		}
		if signedAs := changes[id].AccountType; acc.AccountType != signedAs {
			return fmt.Errorf("%w: account %s changed type from %s to %s", apperrors.ErrConcurrentUpdate, acc.Code, signedAs, acc.AccountType)
		}
	}
	return nil
}

func fitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(amountScale))
}
