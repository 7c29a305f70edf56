package model

import (
	"encoding/json"
	"testing"
)

func TestOperationUnmarshalPair(t *testing.T) {
	raw := []byte(`[0, {"from": "1.2.100", "to": "1.2.200", "amount": {"amount": 10000, "asset_id": "1.3.0"}}]`)

	var op Operation
	if err := json.Unmarshal(raw, &op); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if op.TypeID != 0 {
		t.Fatalf("type id = %d, want 0", op.TypeID)
	}
	if op.Name() != "transfer" {
		t.Fatalf("name = %q, want transfer", op.Name())
	}

	transfer, err := op.Transfer()
	if err != nil {
		t.Fatalf("decode transfer: %v", err)
	}
	if transfer.From != "1.2.100" || transfer.To != "1.2.200" {
		t.Fatalf("unexpected transfer: %+v", transfer)
	}
	if transfer.Amount.Amount != 10000 || transfer.Amount.AssetID != "1.3.0" {
		t.Fatalf("unexpected amount: %+v", transfer.Amount)
	}
}

func TestOperationMarshalRoundTrip(t *testing.T) {
	op := Operation{TypeID: 6, Payload: json.RawMessage(`{"account":"1.2.100"}`)}

	data, err := json.Marshal(op)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Operation
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.TypeID != 6 {
		t.Fatalf("type id = %d, want 6", decoded.TypeID)
	}
	if string(decoded.Payload) != `{"account":"1.2.100"}` {
		t.Fatalf("payload = %s", decoded.Payload)
	}
}

func TestOperationUnmarshalRejectsBadPair(t *testing.T) {
	var op Operation
	if err := json.Unmarshal([]byte(`[0]`), &op); err == nil {
		t.Fatalf("expected error for one-element pair")
	}
	if err := json.Unmarshal([]byte(`{"type": 0}`), &op); err == nil {
		t.Fatalf("expected error for non-array operation")
	}
}

func TestOperationName(t *testing.T) {
	if got := OperationName(0); got != "transfer" {
		t.Fatalf("OperationName(0) = %q", got)
	}
	if got := OperationName(6); got != "account_update" {
		t.Fatalf("OperationName(6) = %q", got)
	}
	if got := OperationName(9999); got != "unknown_9999" {
		t.Fatalf("OperationName(9999) = %q", got)
	}
}

func TestNonceAcceptsStringAndNumber(t *testing.T) {
	var fromString Nonce
	if err := json.Unmarshal([]byte(`"5862723643998573708"`), &fromString); err != nil {
		t.Fatalf("string nonce: %v", err)
	}
	var fromNumber Nonce
	if err := json.Unmarshal([]byte(`1234`), &fromNumber); err != nil {
		t.Fatalf("numeric nonce: %v", err)
	}
	if fromString != 5862723643998573708 || fromNumber != 1234 {
		t.Fatalf("nonces = %d, %d", fromString, fromNumber)
	}

	data, err := json.Marshal(fromNumber)
	if err != nil {
		t.Fatalf("marshal nonce: %v", err)
	}
	if string(data) != `"1234"` {
		t.Fatalf("nonce encodes as %s, want string", data)
	}
}
