// Package ledger owns the in-memory aggregate view of the expense data:
// the stats header, the per-category buckets, and the flat transaction
// list. A full refresh replaces the state wholesale; confirmed mutations
// are reconciled into it in place without a refetch.
package ledger

import (
	"sort"
	"time"

	"github.com/katerji/transaction-tracker/internal/format"
)

// CategoryIncome is the designated transfer/income category. Its amounts
// are excluded from spend totals but still counted.
const CategoryIncome = "Income/Transfer"

// Categories is the fixed category vocabulary, in menu order.
var Categories = []string{
	"Food & Dining",
	"Transport",
	"Shopping",
	"Bills & Utilities",
	"Entertainment",
	"Health & Fitness",
	"Travel",
	"Cash Withdrawal",
	CategoryIncome,
	"Unknown",
}

// Transaction is a single expense record. Identity is ID; description,
// amount, date, and category are the mutable fields.
type Transaction struct {
	ID          int64
	Description string
	Amount      format.Cents
	Date        string // "2006-01-02" or "2006-01-02 15:04:05", local wall clock
	Category    string
	Confidence  int
}

// CategoryBucket is the per-category aggregate. Total always equals the
// sum of member amounts and Count their number; a bucket never survives
// at Count == 0.
type CategoryBucket struct {
	Category     string
	Emoji        string
	Total        format.Cents
	Count        int
	Transactions []Transaction
}

// Stats is the aggregate header. Total excludes CategoryIncome; Count
// includes every transaction.
type Stats struct {
	Total format.Cents
	Count int
	Cycle string // e.g. "Mar 2024"
}

// AppState is the root snapshot. Every transaction in Transactions
// appears in exactly one bucket matching its category, and vice versa.
// Categories is kept sorted descending by Total.
type AppState struct {
	Stats        Stats
	Categories   []CategoryBucket
	Transactions []Transaction
	LastUpdate   time.Time
}

// NewState returns an empty state awaiting its first refresh.
func NewState() *AppState {
	return &AppState{}
}

// Replace swaps in a freshly fetched snapshot wholesale.
func (s *AppState) Replace(stats Stats, categories []CategoryBucket, transactions []Transaction, at time.Time) {
	s.Stats = stats
	s.Categories = categories
	s.Transactions = transactions
	s.LastUpdate = at
	s.sortBuckets()
}

func (s *AppState) sortBuckets() {
	sort.SliceStable(s.Categories, func(i, j int) bool {
		return s.Categories[i].Total > s.Categories[j].Total
	})
}

// bucketIndex returns the index of the bucket for a category, or -1.
// Linear scan; the vocabulary is ~10 categories.
func (s *AppState) bucketIndex(category string) int {
	for i := range s.Categories {
		if s.Categories[i].Category == category {
			return i
		}
	}
	return -1
}

// ensureBucket returns the index of the bucket for a category, appending
// an empty one if absent.
func (s *AppState) ensureBucket(category string) int {
	if i := s.bucketIndex(category); i >= 0 {
		return i
	}
	s.Categories = append(s.Categories, CategoryBucket{
		Category: category,
		Emoji:    format.Emoji(category),
	})
	return len(s.Categories) - 1
}

func indexByID(txs []Transaction, id int64) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}
