package ledger

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/katerji/transaction-tracker/internal/format"
)

// Derived dashboard metrics. All of these are pure reads over a state
// snapshot, recomputed on every call so they always reflect the latest
// reconciliation.

// TodaySpend sums today's non-income amounts.
func TodaySpend(s *AppState, now time.Time) format.Cents {
	today := now.Format("2006-01-02")
	var sum format.Cents
	for _, tx := range s.Transactions {
		if strings.HasPrefix(tx.Date, today) && tx.Category != CategoryIncome {
			sum += tx.Amount
		}
	}
	return sum
}

// BiggestExpense returns the largest non-income transaction, or a
// placeholder with a "-" description when there is none.
func BiggestExpense(s *AppState) Transaction {
	max := Transaction{Description: "-"}
	found := false
	for _, tx := range s.Transactions {
		if tx.Category == CategoryIncome {
			continue
		}
		if !found || tx.Amount > max.Amount {
			max = tx
			found = true
		}
	}
	return max
}

// DailyAverage divides the cycle total by the days elapsed in the cycle.
func DailyAverage(s *AppState, now time.Time) format.Cents {
	days := format.DaysElapsedInCycle(s.Stats.Cycle, now)
	if days <= 0 || s.Stats.Total == 0 {
		return 0
	}
	return format.Cents(math.Round(float64(s.Stats.Total) / float64(days)))
}

// TopCategory describes the non-income bucket with the highest total.
type TopCategory struct {
	Name  string
	Emoji string
	Total format.Cents
}

// TopSpendCategory returns the leading non-income bucket, or a
// placeholder when only income buckets (or none) exist.
func TopSpendCategory(s *AppState) TopCategory {
	top := TopCategory{Name: "-"}
	found := false
	for _, b := range s.Categories {
		if b.Category == CategoryIncome {
			continue
		}
		if !found || b.Total > top.Total {
			top = TopCategory{Name: b.Category, Emoji: b.Emoji, Total: b.Total}
			found = true
		}
	}
	return top
}

// RecentTransactions returns up to the five most recent transactions by
// date, leaving the stored order untouched.
func RecentTransactions(s *AppState) []Transaction {
	recent := make([]Transaction, len(s.Transactions))
	copy(recent, s.Transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return recent
}
