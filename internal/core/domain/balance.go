package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BalanceChange is what a posting adds to one account's cached balance.
// AccountType is the type the delta was signed with; stores compare it with
// the locked account row before applying the delta.
type BalanceChange struct {
	AccountType AccountType
	Delta       decimal.Decimal
}

// BalanceChanges maps account ID to its change.
type BalanceChanges map[string]BalanceChange

// AccountIDs returns the affected account IDs in ascending order.
func (c BalanceChanges) AccountIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
