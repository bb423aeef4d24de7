package api

import (
	"context"
	"net/http"
	"strconv"
)

// TransactionInput carries the mutable fields for create and update.
type TransactionInput struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

// CreateResponse is the body of POST /transaction/manual.
type CreateResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Transaction Transaction `json:"transaction"`
}

// ParseResponse is the body of POST /transaction (free-text entry).
type ParseResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message,omitempty"`
	Count        int           `json:"count"`
	Total        float64       `json:"total"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// CreateTransaction calls POST /transaction/manual. The returned
// transaction carries the server-assigned id.
func (c *Client) CreateTransaction(ctx context.Context, input TransactionInput) (*CreateResponse, error) {
	const fallback = "Failed to add transaction"

	var out CreateResponse
	if err := c.send(ctx, http.MethodPost, "/transaction/manual", input, &out, fallback); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, appError(out.Message, fallback)
	}
	return &out, nil
}

// UpdateTransaction calls PUT /transaction/{id}. Only the HTTP status is
// checked; the body carries no success flag.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, input TransactionInput) error {
	const fallback = "Failed to update transaction"
	path := "/transaction/" + strconv.FormatInt(id, 10)
	return c.send(ctx, http.MethodPut, path, input, nil, fallback)
}

// DeleteTransaction calls DELETE /transaction/{id}. Only the HTTP status
// is checked.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	const fallback = "Failed to delete transaction"
	path := "/transaction/" + strconv.FormatInt(id, 10)
	return c.send(ctx, http.MethodDelete, path, nil, nil, fallback)
}

// ParseTransaction calls POST /transaction with a free-text line for the
// backend to parse into one or more transactions.
func (c *Client) ParseTransaction(ctx context.Context, text string) (*ParseResponse, error) {
	const fallback = "Failed to parse transaction"

	body := struct {
		Text string `json:"text"`
	}{Text: text}

	var out ParseResponse
	if err := c.send(ctx, http.MethodPost, "/transaction", body, &out, fallback); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, appError(out.Message, "No transactions found")
	}
	return &out, nil
}
