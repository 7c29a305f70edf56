// Package monitor drives the ingestion pipeline: block decomposition,
// operation filtering, enrichment, idempotent persistence, and checkpoint
// advancement.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"transferwatch/internal/chain"
	"transferwatch/internal/model"
	"transferwatch/internal/storage"
)

// Stream yields consecutive blocks; io.EOF marks a graceful end of the
// stream (stop block reached).
type Stream interface {
	Next(ctx context.Context) (*model.Block, error)
}

// Source opens a resumable block stream starting at the given height.
type Source interface {
	Blocks(ctx context.Context, mode chain.WatchMode, start, stop uint64) (Stream, error)
}

// RunConfig holds runtime settings for the monitor.
type RunConfig struct {
	// StartBlock, when non-zero, overrides checkpoint resumption.
	StartBlock uint64
	// StopBlock, when non-zero, ends the stream after that block.
	StopBlock   uint64
	WatchMode   chain.WatchMode
	ChainPrefix string
}

// Runner is the pipeline driver: one sequential consumer walking blocks in
// order, transactions in order, operations in order.
type Runner struct {
	cfg      RunConfig
	source   Source
	store    storage.Store
	filter   Filter
	enricher *Enricher
	logger   *zap.Logger

	// digest derives a transaction id; swapped out by tests to count
	// derivations.
	digest func(tx *model.Transaction) (string, error)
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, source Source, store storage.Store, filter Filter, enricher *Enricher, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.ChainPrefix
	if prefix == "" {
		prefix = model.DefaultChainPrefix
	}
	return &Runner{
		cfg:      cfg,
		source:   source,
		store:    store,
		filter:   filter,
		enricher: enricher,
		logger:   logger,
		digest: func(tx *model.Transaction) (string, error) {
			return tx.ID(prefix)
		},
	}
}

// Run executes the monitoring loop until the stream ends or the context is
// canceled. Each block is drained completely before its number is written as
// the new checkpoint, so a restart never skips operations; re-delivered
// events are no-ops at the sink.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("source is nil")
	}
	if r.store == nil {
		return fmt.Errorf("store is nil")
	}
	if r.filter == nil {
		return fmt.Errorf("filter is nil")
	}
	if r.enricher == nil {
		return fmt.Errorf("enricher is nil")
	}

	start := r.cfg.StartBlock
	if start == 0 {
		checkpoint, ok, err := r.store.Checkpoint(ctx)
		if err != nil {
			return fmt.Errorf("read checkpoint: %w", err)
		}
		if ok && checkpoint > 0 {
			start = checkpoint + 1
			r.logger.Info("resume from checkpoint",
				zap.Uint64("last_processed", checkpoint),
				zap.Uint64("start", start),
			)
		}
	}

	stream, err := r.source.Blocks(ctx, r.cfg.WatchMode, start, r.cfg.StopBlock)
	if err != nil {
		return fmt.Errorf("open block stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		block, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			r.logger.Info("block stream ended")
			return nil
		}
		if err != nil {
			return fmt.Errorf("next block: %w", err)
		}

		if err := r.processBlock(ctx, block); err != nil {
			return err
		}
		if err := r.store.SetCheckpoint(ctx, block.Number); err != nil {
			return fmt.Errorf("set checkpoint: %w", err)
		}
		blocksProcessed.Inc()
	}
}

// processBlock unpacks a block into its transactions, attaching block-level
// metadata to each.
func (r *Runner) processBlock(ctx context.Context, block *model.Block) error {
	if block.Transactions == nil {
		return fmt.Errorf("block %d: %w", block.Number, model.ErrMalformedBlock)
	}

	r.logger.Debug("processing block",
		zap.Uint64("block_num", block.Number),
		zap.Int("transactions", len(block.Transactions)),
	)

	for i := range block.Transactions {
		tx := &block.Transactions[i]
		tx.BlockNum = block.Number
		tx.Timestamp = block.Timestamp
		if err := r.processTransaction(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

// processTransaction unpacks a transaction into candidates, one per
// operation, all sharing one deferred transaction-id cell. Technically a
// single transaction can carry several matching transfers; op_in_tx keeps
// them distinguishable.
func (r *Runner) processTransaction(ctx context.Context, tx *model.Transaction) error {
	id := newTxID(func() (string, error) {
		return r.digest(tx)
	})

	for i, op := range tx.Operations {
		candidate := &Candidate{
			BlockNum:      tx.BlockNum,
			Timestamp:     tx.Timestamp,
			Expiration:    tx.Expiration,
			OpInTx:        i,
			OperationType: op.Name(),
			Op:            op,
			txID:          id,
		}

		if !r.filter(candidate) {
			continue
		}
		operationsMatched.Inc()

		event, err := r.enricher.Enrich(ctx, candidate)
		if err != nil {
			return fmt.Errorf("enrich op %d in block %d: %w", i, tx.BlockNum, err)
		}

		result, err := r.store.Insert(ctx, event)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", event.Key(), err)
		}
		if result == storage.AlreadyExists {
			r.logger.Debug("duplicate event",
				zap.String("transaction_id", event.TransactionID),
				zap.Int("op_in_tx", event.OpInTx),
			)
			eventsDuplicate.Inc()
			continue
		}

		r.logger.Debug("inserted transfer",
			zap.String("transaction_id", event.TransactionID),
			zap.Int("op_in_tx", event.OpInTx),
			zap.String("from", event.FromName),
			zap.String("to", event.ToName),
		)
		eventsStored.Inc()
	}
	return nil
}
