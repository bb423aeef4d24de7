package sync

import (
	"github.com/katerji/transaction-tracker/internal/api"
	"github.com/katerji/transaction-tracker/internal/format"
	"github.com/katerji/transaction-tracker/internal/ledger"
)

func fromWireTransaction(tx api.Transaction) ledger.Transaction {
	return ledger.Transaction{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      format.CentsFromAmount(tx.Amount),
		Date:        tx.Date,
		Category:    tx.Category,
		Confidence:  tx.Confidence,
	}
}

func fromStatsResponse(resp *api.StatsResponse) (ledger.Stats, []ledger.CategoryBucket, []ledger.Transaction) {
	stats := ledger.Stats{
		Total: format.CentsFromAmount(resp.Total),
		Count: resp.Count,
		Cycle: resp.Cycle,
	}

	categories := make([]ledger.CategoryBucket, 0, len(resp.Categories))
	for _, cat := range resp.Categories {
		bucket := ledger.CategoryBucket{
			Category: cat.Category,
			Emoji:    cat.Emoji,
			Total:    format.CentsFromAmount(cat.Total),
			Count:    cat.Count,
		}
		if bucket.Emoji == "" {
			bucket.Emoji = format.Emoji(cat.Category)
		}
		for _, tx := range cat.Transactions {
			bucket.Transactions = append(bucket.Transactions, fromWireTransaction(tx))
		}
		categories = append(categories, bucket)
	}

	transactions := make([]ledger.Transaction, 0, len(resp.AllTransactions))
	for _, tx := range resp.AllTransactions {
		transactions = append(transactions, fromWireTransaction(tx))
	}

	return stats, categories, transactions
}
