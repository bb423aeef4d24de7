package api

import "context"

// Transaction is the wire form of a single expense record.
type Transaction struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Confidence  int     `json:"confidence,omitempty"`
}

// CategoryStats is the wire form of a per-category aggregate.
type CategoryStats struct {
	Category     string        `json:"category"`
	Emoji        string        `json:"emoji"`
	Total        float64       `json:"total"`
	Count        int           `json:"count"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// StatsResponse is the aggregate document returned by GET /stats.
type StatsResponse struct {
	Success         bool            `json:"success"`
	Message         string          `json:"message,omitempty"`
	Cycle           string          `json:"cycle"`
	Total           float64         `json:"total"`
	Count           int             `json:"count"`
	Categories      []CategoryStats `json:"categories,omitempty"`
	AllTransactions []Transaction   `json:"allTransactions,omitempty"`
}

// GetStats calls GET /stats and returns the full aggregate state.
func (c *Client) GetStats(ctx context.Context) (*StatsResponse, error) {
	const fallback = "Failed to load stats"

	var out StatsResponse
	if err := c.get(ctx, "/stats", &out, fallback); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, appError(out.Message, fallback)
	}
	return &out, nil
}
