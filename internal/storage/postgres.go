package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"transferwatch/internal/model"
)

// stateName keys the checkpoint row in monitor_state; the schema allows
// several monitors against one database.
const stateName = "transfer-monitor"

// PostgresStore persists events in Postgres. The unique key on
// (transaction_id, op_in_tx) enforces idempotence at the database level,
// which also makes concurrent monitor instances safe.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transfer_events (
			transaction_id text NOT NULL,
			op_in_tx int NOT NULL,
			block_num bigint NOT NULL,
			block_timestamp timestamptz NOT NULL,
			expiration timestamptz NOT NULL,
			operation_type text NOT NULL,
			payload jsonb NOT NULL,
			from_name text NOT NULL,
			to_name text NOT NULL,
			decoded_memo text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (transaction_id, op_in_tx)
		);
		CREATE TABLE IF NOT EXISTS monitor_state (
			name text PRIMARY KEY,
			last_processed_block bigint NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, event model.Event) (InsertResult, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO transfer_events (
			transaction_id, op_in_tx, block_num, block_timestamp, expiration,
			operation_type, payload, from_name, to_name, decoded_memo
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (transaction_id, op_in_tx) DO NOTHING
	`,
		event.TransactionID,
		event.OpInTx,
		int64(event.BlockNum),
		event.Timestamp.Time,
		event.Expiration.Time,
		event.OperationType,
		[]byte(event.Payload),
		event.FromName,
		event.ToName,
		event.DecodedMemo,
	)
	if err != nil {
		return Inserted, fmt.Errorf("insert event %s: %w", event.Key(), err)
	}
	if tag.RowsAffected() == 0 {
		return AlreadyExists, nil
	}
	return Inserted, nil
}

func (s *PostgresStore) Checkpoint(ctx context.Context) (uint64, bool, error) {
	var blockNum int64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_block FROM monitor_state WHERE name=$1`, stateName)
	if err := row.Scan(&blockNum); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read checkpoint: %w", err)
	}
	return uint64(blockNum), true, nil
}

func (s *PostgresStore) SetCheckpoint(ctx context.Context, blockNum uint64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO monitor_state (name, last_processed_block, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_block = GREATEST(monitor_state.last_processed_block, EXCLUDED.last_processed_block),
		    updated_at = now()
	`, stateName, int64(blockNum))
	if err != nil {
		return fmt.Errorf("set checkpoint: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
