package ledger

// Reconciliation applies the effect of an API-confirmed mutation to the
// state in place. Nothing here is called before the backend confirms; a
// failed call leaves the state untouched.

// ApplyAdd reconciles a confirmed create. The transaction joins its
// category bucket (created on demand), the stats header is adjusted, and
// the new record is prepended to the flat list.
func (s *AppState) ApplyAdd(tx Transaction) {
	i := s.ensureBucket(tx.Category)
	b := &s.Categories[i]
	b.Transactions = append(b.Transactions, tx)
	b.Total += tx.Amount
	b.Count++

	if tx.Category != CategoryIncome {
		s.Stats.Total += tx.Amount
	}
	s.Stats.Count++

	s.Transactions = append([]Transaction{tx}, s.Transactions...)
	s.sortBuckets()
}

// ApplyUpdate reconciles a confirmed edit. old carries the pre-edit
// mutable fields; updated the post-edit ones. When the category changed,
// the record moves buckets and the emptied source bucket is pruned.
//
// Stats.Total moves by (new - old) only when the old category was not
// income/transfer; the old category alone decides whether the adjustment
// happens. An expense edited *into* the income category therefore still
// contributes its new amount to the total.
func (s *AppState) ApplyUpdate(id int64, old, updated Transaction) {
	categoryChanged := old.Category != updated.Category

	for i := range s.Categories {
		idx := indexByID(s.Categories[i].Transactions, id)
		if idx < 0 {
			continue
		}

		if categoryChanged {
			src := &s.Categories[i]
			moved := src.Transactions[idx]
			src.Transactions = append(src.Transactions[:idx], src.Transactions[idx+1:]...)
			src.Total -= old.Amount
			src.Count--

			moved.Description = updated.Description
			moved.Amount = updated.Amount
			moved.Date = updated.Date
			moved.Category = updated.Category

			// ensureBucket may grow the slice; re-take pointers after it.
			j := s.ensureBucket(updated.Category)
			dest := &s.Categories[j]
			dest.Transactions = append(dest.Transactions, moved)
			dest.Total += updated.Amount
			dest.Count++

			if s.Categories[i].Count == 0 {
				s.Categories = append(s.Categories[:i], s.Categories[i+1:]...)
			}
		} else {
			b := &s.Categories[i]
			t := &b.Transactions[idx]
			t.Description = updated.Description
			t.Amount = updated.Amount
			t.Date = updated.Date
			b.Total += updated.Amount - old.Amount
		}
		break
	}

	if old.Category != CategoryIncome {
		s.Stats.Total += updated.Amount - old.Amount
	}

	if k := indexByID(s.Transactions, id); k >= 0 {
		t := &s.Transactions[k]
		t.Description = updated.Description
		t.Amount = updated.Amount
		t.Date = updated.Date
		t.Category = updated.Category
	}

	s.sortBuckets()
}

// ApplyDelete reconciles a confirmed delete: the record leaves its bucket
// and the flat list, the bucket is pruned if emptied, and the stats
// header is adjusted.
func (s *AppState) ApplyDelete(id int64) {
	for i := range s.Categories {
		b := &s.Categories[i]
		idx := indexByID(b.Transactions, id)
		if idx < 0 {
			continue
		}

		deleted := b.Transactions[idx]
		b.Transactions = append(b.Transactions[:idx], b.Transactions[idx+1:]...)
		b.Total -= deleted.Amount
		b.Count--

		if deleted.Category != CategoryIncome {
			s.Stats.Total -= deleted.Amount
		}
		s.Stats.Count--

		if b.Count == 0 {
			s.Categories = append(s.Categories[:i], s.Categories[i+1:]...)
		}
		break
	}

	filtered := s.Transactions[:0:0]
	for _, t := range s.Transactions {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	s.Transactions = filtered

	s.sortBuckets()
}
