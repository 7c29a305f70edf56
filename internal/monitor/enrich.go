package monitor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"transferwatch/internal/account"
	"transferwatch/internal/memo"
	"transferwatch/internal/model"
)

// Enricher turns a matched candidate into the persisted event: it resolves
// both account names, decodes the memo with graceful degradation, and
// materializes the deferred transaction id.
type Enricher struct {
	resolver  account.Resolver
	decrypter memo.Decrypter
	logger    *zap.Logger
}

func NewEnricher(resolver account.Resolver, decrypter memo.Decrypter, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		resolver:  resolver,
		decrypter: decrypter,
		logger:    logger,
	}
}

// Enrich builds the full event for a matched candidate. Name resolution
// failures are fatal for the operation; memo failures degrade to sentinel
// statuses and never drop the event.
func (e *Enricher) Enrich(ctx context.Context, c *Candidate) (model.Event, error) {
	transfer, err := c.Transfer()
	if err != nil {
		return model.Event{}, err
	}

	// The stored record always carries both names, even when only one side
	// is the monitored account.
	fromName, err := e.resolver.ResolveName(ctx, transfer.From)
	if err != nil {
		return model.Event{}, err
	}
	toName, err := e.resolver.ResolveName(ctx, transfer.To)
	if err != nil {
		return model.Event{}, err
	}

	decodedMemo := e.decodeMemo(&transfer)

	// Only now, with the candidate definitely persisting, is the deferred
	// transaction id evaluated.
	transactionID, err := c.TransactionID()
	if err != nil {
		return model.Event{}, fmt.Errorf("derive transaction id: %w", err)
	}

	return model.Event{
		BlockNum:      c.BlockNum,
		Timestamp:     c.Timestamp,
		Expiration:    c.Expiration,
		OpInTx:        c.OpInTx,
		OperationType: c.OperationType,
		Payload:       c.Op.Payload,
		TransactionID: transactionID,
		FromName:      fromName,
		ToName:        toName,
		DecodedMemo:   decodedMemo,
	}, nil
}

func (e *Enricher) decodeMemo(transfer *model.TransferPayload) string {
	if transfer.Memo == nil {
		memoFailures.WithLabelValues("no_memo").Inc()
		return model.MemoAbsent
	}

	plaintext, err := e.decrypter.Decrypt(transfer.Memo)
	switch {
	case err == nil:
		return plaintext
	case errors.Is(err, memo.ErrKeyMissing):
		memoFailures.WithLabelValues("key_missing").Inc()
		return model.MemoKeyMissing
	default:
		e.logger.Debug("memo decode failed", zap.Error(err))
		memoFailures.WithLabelValues("decode_failed").Inc()
		return model.MemoDecodeFailed
	}
}
