package model

import (
	"encoding/json"
	"fmt"
)

// Sentinel statuses stored in DecodedMemo when no plaintext is available.
// Degradation never drops the event; the status travels with the record.
const (
	MemoKeyMissing   = "MEMO_KEY_MISSING"
	MemoAbsent       = "NO_MEMO"
	MemoDecodeFailed = "MEMO_DECODE_FAILED"
)

// Event is a fully enriched transfer record, the unit handed to storage.
// (TransactionID, OpInTx) uniquely identifies an event; inserts are
// idempotent on that pair.
type Event struct {
	BlockNum      uint64          `json:"block_num"`
	Timestamp     ChainTime       `json:"timestamp"`
	Expiration    ChainTime       `json:"expiration"`
	OpInTx        int             `json:"op_in_tx"`
	OperationType string          `json:"operation_type"`
	Payload       json.RawMessage `json:"payload"`
	TransactionID string          `json:"transaction_id"`
	FromName      string          `json:"from_name"`
	ToName        string          `json:"to_name"`
	DecodedMemo   string          `json:"decoded_memo"`
}

// Key returns the dedup key for idempotent persistence.
func (e Event) Key() string {
	return fmt.Sprintf("%s:%d", e.TransactionID, e.OpInTx)
}
