// Package sync orchestrates state changes: the full refresh that
// replaces the aggregate state wholesale, and the confirmed mutations
// that are reconciled into it. The backend is the source of truth;
// nothing is applied locally before the API confirms it.
//
// Every operation is split in two: the confirm step (Refresh, Add,
// Update, Delete) talks to the network and returns the confirmed
// payload without touching the state, so it is safe to run off the
// event loop; the matching Apply step mutates the state and must be
// called from the goroutine that owns it.
package sync

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/katerji/transaction-tracker/internal/api"
	"github.com/katerji/transaction-tracker/internal/format"
	"github.com/katerji/transaction-tracker/internal/ledger"
	"github.com/katerji/transaction-tracker/internal/storage"
)

// Validation failures surfaced before any API call is made.
var (
	ErrMissingDescription = errors.New("description is required")
	ErrNonPositiveAmount  = errors.New("amount must be greater than zero")
	ErrMissingDate        = errors.New("date is required")
)

// Input carries the user-editable fields of a transaction.
type Input struct {
	Description string
	Amount      format.Cents
	Date        string
	Category    string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return ErrMissingDescription
	}
	if in.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	if strings.TrimSpace(in.Date) == "" {
		return ErrMissingDate
	}
	return nil
}

// Controller owns the aggregate state and mediates every change to it.
// The snapshot repos may be nil; the controller then runs cache-less.
type Controller struct {
	client    *api.Client
	state     *ledger.AppState
	snapshots *storage.SnapshotRepo
	syncState *storage.SyncStateRepo
	log       zerolog.Logger
}

func NewController(
	client *api.Client,
	state *ledger.AppState,
	snapshots *storage.SnapshotRepo,
	syncState *storage.SyncStateRepo,
	log zerolog.Logger,
) *Controller {
	return &Controller{
		client:    client,
		state:     state,
		snapshots: snapshots,
		syncState: syncState,
		log:       log,
	}
}

// State returns the aggregate state the controller owns.
func (c *Controller) State() *ledger.AppState {
	return c.state
}

// RefreshResult is a fetched or cache-loaded aggregate waiting to be
// applied. Opaque to callers; hand it back via ApplyRefresh.
type RefreshResult struct {
	stats        ledger.Stats
	categories   []ledger.CategoryBucket
	transactions []ledger.Transaction
	fetchedAt    time.Time
}

// Refresh fetches the full stats document and returns it ready to
// apply. The state is untouched; the snapshot cache and sync-state
// bookkeeping are written here, off the owning goroutine.
func (c *Controller) Refresh(ctx context.Context) (*RefreshResult, error) {
	opID := uuid.NewString()
	attemptAt := time.Now().UTC()
	c.log.Info().Str("op_id", opID).Msg("refresh started")
	if c.syncState != nil {
		if err := c.syncState.RecordAttempt(ctx, attemptAt); err != nil {
			c.log.Warn().Str("op_id", opID).Err(err).Msg("sync-state write failed")
		}
	}

	resp, err := c.client.GetStats(ctx)
	if err != nil {
		c.log.Warn().Str("op_id", opID).Err(err).Msg("refresh failed")
		if c.syncState != nil {
			_ = c.syncState.RecordError(context.Background(), time.Now().UTC(), err)
		}
		return nil, err
	}

	stats, categories, transactions := fromStatsResponse(resp)
	fetchedAt := time.Now()
	c.writeSnapshot(ctx, opID, stats, transactions, fetchedAt)

	if c.syncState != nil {
		if err := c.syncState.RecordSuccess(ctx, fetchedAt.UTC()); err != nil {
			c.log.Warn().Str("op_id", opID).Err(err).Msg("sync-state write failed")
		}
	}
	c.log.Info().Str("op_id", opID).Int("count", stats.Count).Msg("refresh ok")
	return &RefreshResult{
		stats:        stats,
		categories:   categories,
		transactions: transactions,
		fetchedAt:    fetchedAt,
	}, nil
}

// ApplyRefresh replaces the state wholesale with a fetched or
// cache-loaded result.
func (c *Controller) ApplyRefresh(res *RefreshResult) {
	c.state.Replace(res.stats, res.categories, res.transactions, res.fetchedAt)
}

// LoadCached reads the local snapshot cache, if one exists, and returns
// it ready to apply. It reports whether anything was loaded.
func (c *Controller) LoadCached(ctx context.Context) (*RefreshResult, bool, error) {
	if c.snapshots == nil {
		return nil, false, nil
	}

	snap, ok, err := c.snapshots.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	// Replaying adds in reverse rebuilds the buckets and restores the
	// flat list's stored order, since each add prepends.
	rebuilt := ledger.NewState()
	for i := len(snap.Transactions) - 1; i >= 0; i-- {
		row := snap.Transactions[i]
		rebuilt.ApplyAdd(ledger.Transaction{
			ID:          row.ID,
			Description: row.Description,
			Amount:      format.Cents(row.AmountCents),
			Date:        row.Date,
			Category:    row.Category,
			Confidence:  row.Confidence,
		})
	}

	stats := ledger.Stats{
		Total: format.Cents(snap.TotalCents),
		Count: snap.Count,
		Cycle: snap.Cycle,
	}
	return &RefreshResult{
		stats:        stats,
		categories:   rebuilt.Categories,
		transactions: rebuilt.Transactions,
		fetchedAt:    snap.FetchedAt.Local(),
	}, true, nil
}

// Add validates the input and creates the transaction on the backend.
// The confirmed record is returned for ApplyAdd; the state is
// untouched.
func (c *Controller) Add(ctx context.Context, in Input) (ledger.Transaction, error) {
	if err := in.validate(); err != nil {
		return ledger.Transaction{}, err
	}

	opID := uuid.NewString()
	resp, err := c.client.CreateTransaction(ctx, api.TransactionInput{
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount.Amount(),
		Date:        in.Date,
		Category:    in.Category,
	})
	if err != nil {
		c.log.Warn().Str("op_id", opID).Err(err).Msg("add failed")
		return ledger.Transaction{}, err
	}

	tx := fromWireTransaction(resp.Transaction)
	c.log.Info().Str("op_id", opID).Int64("id", tx.ID).Msg("add confirmed")
	return tx, nil
}

// ApplyAdd reconciles a confirmed creation into the state and mirrors
// the result into the cache.
func (c *Controller) ApplyAdd(tx ledger.Transaction) {
	c.state.ApplyAdd(tx)
	c.persistSnapshot()
}

// Update validates the input and confirms the change with the backend.
// The updated record is returned for ApplyUpdate.
func (c *Controller) Update(ctx context.Context, old ledger.Transaction, in Input) (ledger.Transaction, error) {
	if err := in.validate(); err != nil {
		return ledger.Transaction{}, err
	}

	opID := uuid.NewString()
	err := c.client.UpdateTransaction(ctx, old.ID, api.TransactionInput{
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount.Amount(),
		Date:        in.Date,
		Category:    in.Category,
	})
	if err != nil {
		c.log.Warn().Str("op_id", opID).Int64("id", old.ID).Err(err).Msg("update failed")
		return ledger.Transaction{}, err
	}

	c.log.Info().Str("op_id", opID).Int64("id", old.ID).Msg("update confirmed")
	return ledger.Transaction{
		ID:          old.ID,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Date:        in.Date,
		Category:    in.Category,
		Confidence:  old.Confidence,
	}, nil
}

// ApplyUpdate reconciles a confirmed edit against the previous record.
func (c *Controller) ApplyUpdate(old, updated ledger.Transaction) {
	c.state.ApplyUpdate(old.ID, old, updated)
	c.persistSnapshot()
}

// Delete confirms the deletion with the backend. The state is
// untouched until ApplyDelete.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	opID := uuid.NewString()
	if err := c.client.DeleteTransaction(ctx, id); err != nil {
		c.log.Warn().Str("op_id", opID).Int64("id", id).Err(err).Msg("delete failed")
		return err
	}
	c.log.Info().Str("op_id", opID).Int64("id", id).Msg("delete confirmed")
	return nil
}

// ApplyDelete reconciles a confirmed deletion into the state.
func (c *Controller) ApplyDelete(id int64) {
	c.state.ApplyDelete(id)
	c.persistSnapshot()
}

// QuickAdd sends a free-text line to the backend parser. The response
// does not carry enough to reconcile incrementally, so the caller is
// expected to follow up with a Refresh.
func (c *Controller) QuickAdd(ctx context.Context, text string) (*api.ParseResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrMissingDescription
	}

	opID := uuid.NewString()
	resp, err := c.client.ParseTransaction(ctx, text)
	if err != nil {
		c.log.Warn().Str("op_id", opID).Err(err).Msg("quick add failed")
		return nil, err
	}
	c.log.Info().Str("op_id", opID).Int("count", resp.Count).Msg("quick add ok")
	return resp, nil
}

// persistSnapshot mirrors the current state into the local cache. Only
// safe from the goroutine that owns the state; the Apply methods call
// it after reconciling. Cache write failures are logged, never
// surfaced; the in-memory state is already correct.
func (c *Controller) persistSnapshot() {
	c.writeSnapshot(context.Background(), "", c.state.Stats, c.state.Transactions, c.state.LastUpdate)
}

// writeSnapshot persists an explicit aggregate, so the refresh path can
// write the cache from fetched rows without reading the shared state.
func (c *Controller) writeSnapshot(ctx context.Context, opID string, stats ledger.Stats, transactions []ledger.Transaction, fetchedAt time.Time) {
	if c.snapshots == nil {
		return
	}

	rows := make([]storage.SnapshotTransaction, len(transactions))
	for i, tx := range transactions {
		rows[i] = storage.SnapshotTransaction{
			ID:          tx.ID,
			Description: tx.Description,
			AmountCents: int64(tx.Amount),
			Date:        tx.Date,
			Category:    tx.Category,
			Confidence:  tx.Confidence,
		}
	}
	snap := storage.Snapshot{
		Cycle:        stats.Cycle,
		TotalCents:   int64(stats.Total),
		Count:        stats.Count,
		FetchedAt:    fetchedAt,
		Transactions: rows,
	}
	if err := c.snapshots.Replace(ctx, snap); err != nil {
		c.log.Warn().Str("op_id", opID).Err(err).Msg("snapshot write failed")
	}
}
