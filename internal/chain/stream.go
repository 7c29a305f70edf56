package chain

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"transferwatch/internal/model"
)

// StreamOptions tunes the block stream's polling and retry behavior.
type StreamOptions struct {
	// PollInterval is how long to wait for the tip to advance once the
	// reader has caught up. Defaults to the chain's block interval.
	PollInterval time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *zap.Logger
}

const defaultPollInterval = 3 * time.Second

// BlockStream lazily yields consecutive blocks. When the reader catches up
// with the configured tip the stream waits for new blocks; with a stop block
// it ends with io.EOF instead.
type BlockStream struct {
	client *Client
	mode   WatchMode
	next   uint64
	stop   uint64 // inclusive; 0 means unbounded
	tip    uint64
	opts   StreamOptions
	logger *zap.Logger
}

// Blocks opens a block stream at the given start height. A zero start means
// the current tip for the selected mode. The stream is restartable: opening
// a new one with a later start resumes cleanly.
func (c *Client) Blocks(ctx context.Context, mode WatchMode, start, stop uint64, opts StreamOptions) (*BlockStream, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	stream := &BlockStream{
		client: c,
		mode:   mode,
		next:   start,
		stop:   stop,
		opts:   opts,
		logger: logger,
	}

	if stream.next == 0 {
		props, err := c.DynamicGlobalProperties(ctx)
		if err != nil {
			return nil, err
		}
		stream.next = props.Tip(mode)
		stream.tip = stream.next
	}

	return stream, nil
}

// Next blocks until the next block is available and returns it. It returns
// io.EOF once the stop block has been yielded.
func (s *BlockStream) Next(ctx context.Context) (*model.Block, error) {
	if s.stop > 0 && s.next > s.stop {
		return nil, io.EOF
	}

	if err := s.waitForTip(ctx); err != nil {
		return nil, err
	}

	var block *model.Block
	err := withRetry(ctx, s.opts.MaxRetries, s.opts.RetryBackoff, func(ctx context.Context) error {
		var err error
		block, err = s.client.BlockByNumber(ctx, s.next)
		if err != nil {
			s.logger.Warn("block fetch failed", zap.Error(err), zap.Uint64("block_num", s.next))
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.next++
	return block, nil
}

// waitForTip polls dynamic global properties until the tip reaches the next
// block to yield.
func (s *BlockStream) waitForTip(ctx context.Context) error {
	for s.tip < s.next {
		err := withRetry(ctx, s.opts.MaxRetries, s.opts.RetryBackoff, func(ctx context.Context) error {
			props, err := s.client.DynamicGlobalProperties(ctx)
			if err != nil {
				s.logger.Warn("tip fetch failed", zap.Error(err))
				return err
			}
			s.tip = props.Tip(s.mode)
			return nil
		})
		if err != nil {
			return err
		}
		if s.tip >= s.next {
			return nil
		}

		timer := time.NewTimer(s.opts.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
