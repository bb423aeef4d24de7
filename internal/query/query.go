// Package query derives the transaction-list views: free-text search,
// stable sorting, and calendar-date grouping. Everything operates on
// copies so the stored state keeps its own order.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/katerji/transaction-tracker/internal/format"
	"github.com/katerji/transaction-tracker/internal/ledger"
)

// SortKey selects the sort comparator.
type SortKey string

const (
	SortDate     SortKey = "date"
	SortAmount   SortKey = "amount"
	SortCategory SortKey = "category"
)

// Direction orders ascending or descending. Descending negates the
// ascending comparator rather than using a separate one, so ties keep
// their relative order either way.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Search filters by case-insensitive substring against description,
// category, and the decimal string form of the amount. An empty or
// whitespace-only query returns the input untouched.
func Search(txs []ledger.Transaction, query string) []ledger.Transaction {
	q := normalizeQuery(query)
	if q == "" {
		return txs
	}

	out := make([]ledger.Transaction, 0, len(txs))
	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.Description), q) ||
			strings.Contains(strings.ToLower(tx.Category), q) ||
			strings.Contains(tx.Amount.String(), q) {
			out = append(out, tx)
		}
	}
	return out
}

// normalizeQuery trims and collapses repeated whitespace to a single
// space, then lowercases.
func normalizeQuery(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(strings.Join(strings.Fields(trimmed), " "))
}

// Sort returns an ordered copy. Dates are ISO strings so lexicographic
// order is chronological; amounts compare numerically; categories
// lexicographically. The sort is stable.
func Sort(txs []ledger.Transaction, key SortKey, dir Direction) []ledger.Transaction {
	out := make([]ledger.Transaction, len(txs))
	copy(out, txs)

	cmp := func(a, b ledger.Transaction) int {
		switch key {
		case SortAmount:
			switch {
			case a.Amount < b.Amount:
				return -1
			case a.Amount > b.Amount:
				return 1
			}
			return 0
		case SortCategory:
			return strings.Compare(a.Category, b.Category)
		default:
			return strings.Compare(a.Date, b.Date)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// DateGroup is one calendar date's worth of transactions.
type DateGroup struct {
	Date         string
	Label        string
	Transactions []ledger.Transaction
}

// GroupByDate buckets transactions by their date portion, ignoring
// time-of-day. Groups appear in first-occurrence order of the input,
// which the caller is expected to have sorted already.
func GroupByDate(sorted []ledger.Transaction, now time.Time) []DateGroup {
	byDate := make(map[string]int)
	groups := make([]DateGroup, 0, len(sorted))

	for _, tx := range sorted {
		key := format.DateOnly(tx.Date)
		i, ok := byDate[key]
		if !ok {
			i = len(groups)
			byDate[key] = i
			groups = append(groups, DateGroup{
				Date:  key,
				Label: format.GroupLabel(key, now),
			})
		}
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}
	return groups
}
