package ledger

import (
	"testing"
	"time"

	"github.com/katerji/transaction-tracker/internal/format"
)

// checkInvariants asserts the cross-structure consistency every confirmed
// mutation must preserve.
func checkInvariants(t *testing.T, s *AppState) {
	t.Helper()

	bucketIDs := make(map[int64]int)
	for _, b := range s.Categories {
		if b.Count == 0 {
			t.Fatalf("bucket %q kept at count 0", b.Category)
		}
		if b.Count != len(b.Transactions) {
			t.Fatalf("bucket %q count = %d, want %d", b.Category, b.Count, len(b.Transactions))
		}
		var sum format.Cents
		for _, tx := range b.Transactions {
			sum += tx.Amount
			bucketIDs[tx.ID]++
		}
		if b.Total != sum {
			t.Fatalf("bucket %q total = %d, want %d", b.Category, b.Total, sum)
		}
	}

	for id, n := range bucketIDs {
		if n != 1 {
			t.Fatalf("transaction %d appears in %d buckets, want 1", id, n)
		}
	}
	if len(bucketIDs) != len(s.Transactions) {
		t.Fatalf("bucket transactions = %d, flat list = %d", len(bucketIDs), len(s.Transactions))
	}
	for _, tx := range s.Transactions {
		if bucketIDs[tx.ID] != 1 {
			t.Fatalf("transaction %d missing from buckets", tx.ID)
		}
	}

	if s.Stats.Count != len(s.Transactions) {
		t.Fatalf("stats count = %d, want %d", s.Stats.Count, len(s.Transactions))
	}

	for i := 1; i < len(s.Categories); i++ {
		if s.Categories[i-1].Total < s.Categories[i].Total {
			t.Fatalf(
				"buckets out of order: %q (%d) before %q (%d)",
				s.Categories[i-1].Category, s.Categories[i-1].Total,
				s.Categories[i].Category, s.Categories[i].Total,
			)
		}
	}
}

func TestApplyAddToEmptyState(t *testing.T) {
	s := NewState()
	s.ApplyAdd(Transaction{
		ID:          1,
		Description: "Coffee",
		Amount:      1500,
		Date:        "2024-03-05",
		Category:    "Food & Dining",
	})

	if s.Stats.Total != 1500 {
		t.Fatalf("stats total = %d, want 1500", s.Stats.Total)
	}
	if s.Stats.Count != 1 {
		t.Fatalf("stats count = %d, want 1", s.Stats.Count)
	}
	if len(s.Categories) != 1 {
		t.Fatalf("buckets = %d, want 1", len(s.Categories))
	}
	b := s.Categories[0]
	if b.Category != "Food & Dining" || b.Total != 1500 || b.Count != 1 {
		t.Fatalf("bucket = %+v, want Food & Dining/1500/1", b)
	}
	if b.Emoji == "" {
		t.Fatal("bucket emoji not populated")
	}
	checkInvariants(t, s)
}

func TestApplyAddIncomeExcludedFromTotal(t *testing.T) {
	s := NewState()
	s.ApplyAdd(Transaction{ID: 1, Description: "Coffee", Amount: 1500, Date: "2024-03-05", Category: "Food & Dining"})
	s.ApplyAdd(Transaction{ID: 2, Description: "Salary", Amount: 50000, Date: "2024-03-05", Category: CategoryIncome})

	if s.Stats.Total != 1500 {
		t.Fatalf("stats total = %d, want 1500 (income excluded)", s.Stats.Total)
	}
	if s.Stats.Count != 2 {
		t.Fatalf("stats count = %d, want 2", s.Stats.Count)
	}
	checkInvariants(t, s)
}

func TestApplyAddPrependsToFlatList(t *testing.T) {
	s := NewState()
	s.ApplyAdd(Transaction{ID: 1, Description: "First", Amount: 100, Date: "2024-03-01", Category: "Transport"})
	s.ApplyAdd(Transaction{ID: 2, Description: "Second", Amount: 200, Date: "2024-03-02", Category: "Transport"})

	if s.Transactions[0].ID != 2 {
		t.Fatalf("flat list head = %d, want 2", s.Transactions[0].ID)
	}
	checkInvariants(t, s)
}

func TestApplyUpdateSameCategory(t *testing.T) {
	s := NewState()
	old := Transaction{ID: 1, Description: "Coffee", Amount: 1500, Date: "2024-03-05", Category: "Food & Dining"}
	s.ApplyAdd(old)
	s.ApplyAdd(Transaction{ID: 2, Description: "Bus", Amount: 500, Date: "2024-03-05", Category: "Transport"})

	updated := old
	updated.Description = "Latte"
	updated.Amount = 2000
	s.ApplyUpdate(1, old, updated)

	i := s.bucketIndex("Food & Dining")
	if i < 0 {
		t.Fatal("Food & Dining bucket missing")
	}
	b := s.Categories[i]
	if b.Total != 2000 || b.Count != 1 {
		t.Fatalf("bucket total/count = %d/%d, want 2000/1", b.Total, b.Count)
	}
	if b.Transactions[0].Description != "Latte" {
		t.Fatalf("description = %q, want %q", b.Transactions[0].Description, "Latte")
	}
	if s.Stats.Total != 2500 {
		t.Fatalf("stats total = %d, want 2500", s.Stats.Total)
	}
	checkInvariants(t, s)
}

func TestApplyUpdateCategoryChangePrunesAndCreates(t *testing.T) {
	s := NewState()
	old := Transaction{ID: 1, Description: "Coffee", Amount: 1500, Date: "2024-03-05", Category: "Food & Dining"}
	s.ApplyAdd(old)

	updated := old
	updated.Amount = 2000
	updated.Category = "Transport"
	s.ApplyUpdate(1, old, updated)

	if i := s.bucketIndex("Food & Dining"); i >= 0 {
		t.Fatal("emptied Food & Dining bucket not pruned")
	}
	i := s.bucketIndex("Transport")
	if i < 0 {
		t.Fatal("Transport bucket not created")
	}
	b := s.Categories[i]
	if b.Total != 2000 || b.Count != 1 {
		t.Fatalf("bucket total/count = %d/%d, want 2000/1", b.Total, b.Count)
	}
	if s.Stats.Total != 2000 {
		t.Fatalf("stats total = %d, want 2000 (increase of 5.00)", s.Stats.Total)
	}
	if s.Transactions[0].Category != "Transport" {
		t.Fatalf("flat record category = %q, want %q", s.Transactions[0].Category, "Transport")
	}
	checkInvariants(t, s)
}

func TestApplyUpdateIntoIncomeStillAddsNewAmount(t *testing.T) {
	// The total adjustment is gated on the *old* category only: editing an
	// expense into Income/Transfer subtracts the old amount and adds the
	// new one.
	s := NewState()
	old := Transaction{ID: 1, Description: "Coffee", Amount: 1500, Date: "2024-03-05", Category: "Food & Dining"}
	s.ApplyAdd(old)

	updated := old
	updated.Amount = 2000
	updated.Category = CategoryIncome
	s.ApplyUpdate(1, old, updated)

	if s.Stats.Total != 2000 {
		t.Fatalf("stats total = %d, want 2000", s.Stats.Total)
	}
	checkInvariants(t, s)
}

func TestApplyUpdateFromIncomeLeavesTotalUntouched(t *testing.T) {
	s := NewState()
	s.ApplyAdd(Transaction{ID: 1, Description: "Coffee", Amount: 1500, Date: "2024-03-05", Category: "Food & Dining"})
	old := Transaction{ID: 2, Description: "Salary", Amount: 50000, Date: "2024-03-05", Category: CategoryIncome}
	s.ApplyAdd(old)

	updated := old
	updated.Amount = 60000
	s.ApplyUpdate(2, old, updated)

	if s.Stats.Total != 1500 {
		t.Fatalf("stats total = %d, want 1500", s.Stats.Total)
	}
	checkInvariants(t, s)
}

func TestApplyDeleteLastInBucket(t *testing.T) {
	s := NewState()
	s.ApplyAdd(Transaction{ID: 1, Description: "Coffee", Amount: 1500, Date: "2024-03-05", Category: "Food & Dining"})
	s.ApplyAdd(Transaction{ID: 2, Description: "Bus", Amount: 500, Date: "2024-03-05", Category: "Transport"})

	s.ApplyDelete(1)

	if i := s.bucketIndex("Food & Dining"); i >= 0 {
		t.Fatal("emptied bucket not pruned")
	}
	if s.Stats.Count != 1 {
		t.Fatalf("stats count = %d, want 1", s.Stats.Count)
	}
	if s.Stats.Total != 500 {
		t.Fatalf("stats total = %d, want 500", s.Stats.Total)
	}
	if indexByID(s.Transactions, 1) >= 0 {
		t.Fatal("deleted transaction still in flat list")
	}
	checkInvariants(t, s)
}

func TestApplyDeleteIncomeKeepsTotal(t *testing.T) {
	s := NewState()
	s.ApplyAdd(Transaction{ID: 1, Description: "Coffee", Amount: 1500, Date: "2024-03-05", Category: "Food & Dining"})
	s.ApplyAdd(Transaction{ID: 2, Description: "Salary", Amount: 50000, Date: "2024-03-05", Category: CategoryIncome})

	s.ApplyDelete(2)

	if s.Stats.Total != 1500 {
		t.Fatalf("stats total = %d, want 1500", s.Stats.Total)
	}
	if s.Stats.Count != 1 {
		t.Fatalf("stats count = %d, want 1", s.Stats.Count)
	}
	checkInvariants(t, s)
}

func TestBucketsStaySortedByTotalDescending(t *testing.T) {
	s := NewState()
	s.ApplyAdd(Transaction{ID: 1, Description: "Bus", Amount: 500, Date: "2024-03-01", Category: "Transport"})
	s.ApplyAdd(Transaction{ID: 2, Description: "Coffee", Amount: 1500, Date: "2024-03-02", Category: "Food & Dining"})
	s.ApplyAdd(Transaction{ID: 3, Description: "Shoes", Amount: 30000, Date: "2024-03-03", Category: "Shopping"})

	want := []string{"Shopping", "Food & Dining", "Transport"}
	for i, cat := range want {
		if s.Categories[i].Category != cat {
			t.Fatalf("bucket[%d] = %q, want %q", i, s.Categories[i].Category, cat)
		}
	}

	// A big edit reorders the buckets.
	old := Transaction{ID: 1, Description: "Bus", Amount: 500, Date: "2024-03-01", Category: "Transport"}
	updated := old
	updated.Amount = 100000
	s.ApplyUpdate(1, old, updated)

	if s.Categories[0].Category != "Transport" {
		t.Fatalf("bucket[0] = %q, want %q after edit", s.Categories[0].Category, "Transport")
	}
	checkInvariants(t, s)
}

func TestMutationSequenceKeepsInvariants(t *testing.T) {
	s := NewState()
	txs := []Transaction{
		{ID: 1, Description: "Coffee", Amount: 1500, Date: "2024-03-01", Category: "Food & Dining"},
		{ID: 2, Description: "Bus", Amount: 500, Date: "2024-03-02 08:15:00", Category: "Transport"},
		{ID: 3, Description: "Salary", Amount: 500000, Date: "2024-03-02", Category: CategoryIncome},
		{ID: 4, Description: "Cinema", Amount: 4500, Date: "2024-03-03", Category: "Entertainment"},
	}
	for _, tx := range txs {
		s.ApplyAdd(tx)
		checkInvariants(t, s)
	}

	old := txs[1]
	updated := old
	updated.Amount = 750
	updated.Category = "Travel"
	s.ApplyUpdate(2, old, updated)
	checkInvariants(t, s)

	s.ApplyDelete(4)
	checkInvariants(t, s)
	s.ApplyDelete(3)
	checkInvariants(t, s)
	s.ApplyDelete(1)
	checkInvariants(t, s)
	s.ApplyDelete(2)
	checkInvariants(t, s)

	if len(s.Categories) != 0 || len(s.Transactions) != 0 || s.Stats.Count != 0 {
		t.Fatalf("state not empty after deleting everything: %+v", s)
	}
}

func TestReplaceSwapsStateWholesale(t *testing.T) {
	s := NewState()
	s.ApplyAdd(Transaction{ID: 1, Description: "Old", Amount: 100, Date: "2024-03-01", Category: "Transport"})

	at := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	tx := Transaction{ID: 9, Description: "Fresh", Amount: 2500, Date: "2024-03-05", Category: "Shopping"}
	s.Replace(
		Stats{Total: 2500, Count: 1, Cycle: "Mar 2024"},
		[]CategoryBucket{{Category: "Shopping", Emoji: "🛍️", Total: 2500, Count: 1, Transactions: []Transaction{tx}}},
		[]Transaction{tx},
		at,
	)

	if s.Stats.Cycle != "Mar 2024" {
		t.Fatalf("cycle = %q, want %q", s.Stats.Cycle, "Mar 2024")
	}
	if !s.LastUpdate.Equal(at) {
		t.Fatalf("last update = %v, want %v", s.LastUpdate, at)
	}
	if indexByID(s.Transactions, 1) >= 0 {
		t.Fatal("stale transaction survived the refresh")
	}
	checkInvariants(t, s)
}
