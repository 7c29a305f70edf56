package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DefaultChainPrefix is the address prefix of the main network. Transactions
// on other networks hash differently because the prefix participates in the
// canonical serialization.
const DefaultChainPrefix = "BTS"

// Transaction is one transaction as yielded inside a block. BlockNum and
// Timestamp are not on the wire; the block decomposer attaches them before
// the transaction is unpacked into operations.
type Transaction struct {
	RefBlockNum    uint16            `json:"ref_block_num"`
	RefBlockPrefix uint32            `json:"ref_block_prefix"`
	Expiration     ChainTime         `json:"expiration"`
	Operations     []Operation       `json:"operations"`
	Extensions     []json.RawMessage `json:"extensions,omitempty"`
	Signatures     []string          `json:"signatures,omitempty"`

	BlockNum  uint64    `json:"-"`
	Timestamp ChainTime `json:"-"`
}

// txDigestLength is the number of digest bytes kept for the transaction id.
const txDigestLength = 20

// ID derives the transaction identifier: sha256 over the canonical unsigned
// serialization, truncated to 20 bytes and hex-encoded. Deriving the id
// requires re-assembling the whole transaction, so callers should invoke it
// only for transactions they actually intend to record.
func (tx *Transaction) ID(prefix string) (string, error) {
	ops := tx.Operations
	if prefix != "" && prefix != DefaultChainPrefix && len(ops) > 0 {
		// Non-default networks carry their address prefix inside the first
		// operation payload so keys re-serialize with the right prefix.
		normalized, err := ops[0].withPrefix(prefix)
		if err != nil {
			return "", fmt.Errorf("normalize prefix: %w", err)
		}
		ops = append([]Operation{normalized}, ops[1:]...)
	}

	canonical := struct {
		RefBlockNum    uint16            `json:"ref_block_num"`
		RefBlockPrefix uint32            `json:"ref_block_prefix"`
		Expiration     ChainTime         `json:"expiration"`
		Operations     []Operation       `json:"operations"`
		Extensions     []json.RawMessage `json:"extensions"`
	}{
		RefBlockNum:    tx.RefBlockNum,
		RefBlockPrefix: tx.RefBlockPrefix,
		Expiration:     tx.Expiration,
		Operations:     ops,
		Extensions:     tx.Extensions,
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}

	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:txDigestLength]), nil
}

// withPrefix returns a copy of the operation whose payload carries the given
// address prefix.
func (op Operation) withPrefix(prefix string) (Operation, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(op.Payload, &payload); err != nil {
		return Operation{}, fmt.Errorf("decode payload: %w", err)
	}
	encoded, err := json.Marshal(prefix)
	if err != nil {
		return Operation{}, err
	}
	payload["prefix"] = encoded

	raw, err := json.Marshal(payload)
	if err != nil {
		return Operation{}, err
	}
	return Operation{TypeID: op.TypeID, Payload: raw}, nil
}
