package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Operation is one (type id, payload) pair inside a transaction. On the wire
// it is a two-element JSON array.
type Operation struct {
	TypeID  int
	Payload json.RawMessage
}

func (op Operation) MarshalJSON() ([]byte, error) {
	payload := op.Payload
	if payload == nil {
		payload = json.RawMessage("null")
	}
	return json.Marshal([]json.RawMessage{
		json.RawMessage(strconv.Itoa(op.TypeID)),
		payload,
	})
}

func (op *Operation) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("operation pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("operation pair has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &op.TypeID); err != nil {
		return fmt.Errorf("operation type id: %w", err)
	}
	op.Payload = pair[1]
	return nil
}

// Name returns the decoded operation type for the numeric id.
func (op Operation) Name() string {
	return OperationName(op.TypeID)
}

// Transfer decodes the payload as a transfer operation.
func (op Operation) Transfer() (TransferPayload, error) {
	var transfer TransferPayload
	if err := json.Unmarshal(op.Payload, &transfer); err != nil {
		return TransferPayload{}, fmt.Errorf("decode transfer payload: %w", err)
	}
	return transfer, nil
}

// AssetAmount is an asset quantity in the asset's smallest unit.
type AssetAmount struct {
	Amount  int64  `json:"amount"`
	AssetID string `json:"asset_id"`
}

// TransferPayload is the payload of a transfer operation.
type TransferPayload struct {
	Fee    AssetAmount  `json:"fee"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Amount AssetAmount  `json:"amount"`
	Memo   *MemoPayload `json:"memo,omitempty"`
}

// MemoPayload is the encrypted memo attached to a transfer. From and To are
// the memo public keys of the sender and recipient, Message is the
// hex-encoded ciphertext.
type MemoPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Nonce   Nonce  `json:"nonce"`
	Message string `json:"message"`
}

// Nonce is the memo nonce. Nodes serialize 64-bit integers as strings, but
// some tooling emits plain numbers, so decoding accepts both.
type Nonce uint64

func (n Nonce) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(n), 10) + `"`), nil
}

func (n *Nonce) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("parse nonce %q: %w", raw, err)
	}
	*n = Nonce(value)
	return nil
}

func (n Nonce) String() string {
	return strconv.FormatUint(uint64(n), 10)
}
