package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"transferwatch/internal/memo"
	"transferwatch/internal/model"
)

type fakeResolver struct {
	names map[string]string
	calls []string
}

func (r *fakeResolver) ResolveName(_ context.Context, accountID string) (string, error) {
	r.calls = append(r.calls, accountID)
	name, ok := r.names[accountID]
	if !ok {
		return "", fmt.Errorf("account %s unknown", accountID)
	}
	return name, nil
}

type fakeDecrypter struct {
	plaintext string
	err       error
}

func (d *fakeDecrypter) Decrypt(*model.MemoPayload) (string, error) {
	return d.plaintext, d.err
}

func transferOpWithMemo(from, to string) model.Operation {
	payload := fmt.Sprintf(
		`{"from":%q,"to":%q,"amount":{"amount":100,"asset_id":"1.3.0"},"memo":{"from":"BTS1","to":"BTS2","nonce":"42","message":"00"}}`,
		from, to,
	)
	return model.Operation{TypeID: model.OpTransfer, Payload: json.RawMessage(payload)}
}

func testResolver() *fakeResolver {
	return &fakeResolver{names: map[string]string{
		monitoredID: "exchange",
		"1.2.200":   "alice",
	}}
}

func TestEnrichResolvesBothSides(t *testing.T) {
	resolver := testResolver()
	enricher := NewEnricher(resolver, &fakeDecrypter{plaintext: "hello"}, nil)

	event, err := enricher.Enrich(context.Background(), candidateFor(transferOpWithMemo(monitoredID, "1.2.200")))
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}

	if event.FromName != "exchange" || event.ToName != "alice" {
		t.Fatalf("names = %q, %q", event.FromName, event.ToName)
	}
	if event.DecodedMemo != "hello" {
		t.Fatalf("memo = %q", event.DecodedMemo)
	}
	if event.TransactionID != "deadbeef" {
		t.Fatalf("transaction id = %q", event.TransactionID)
	}
	if len(resolver.calls) != 2 {
		t.Fatalf("resolver called %d times, want 2 (both sides)", len(resolver.calls))
	}
}

func TestEnrichMemoDegradation(t *testing.T) {
	cases := []struct {
		name      string
		op        model.Operation
		decrypter memo.Decrypter
		want      string
	}{
		{
			name:      "no memo field",
			op:        transferOp(monitoredID, "1.2.200"),
			decrypter: &fakeDecrypter{plaintext: "unused"},
			want:      model.MemoAbsent,
		},
		{
			name:      "key missing",
			op:        transferOpWithMemo(monitoredID, "1.2.200"),
			decrypter: memo.NopDecrypter{},
			want:      model.MemoKeyMissing,
		},
		{
			name:      "decode failure",
			op:        transferOpWithMemo(monitoredID, "1.2.200"),
			decrypter: &fakeDecrypter{err: fmt.Errorf("checksum mismatch")},
			want:      model.MemoDecodeFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enricher := NewEnricher(testResolver(), tc.decrypter, nil)
			event, err := enricher.Enrich(context.Background(), candidateFor(tc.op))
			if err != nil {
				t.Fatalf("degradation must not drop the event: %v", err)
			}
			if event.DecodedMemo != tc.want {
				t.Fatalf("memo status = %q, want %q", event.DecodedMemo, tc.want)
			}
		})
	}
}

func TestEnrichFailsOnUnknownAccount(t *testing.T) {
	enricher := NewEnricher(testResolver(), &fakeDecrypter{}, nil)
	_, err := enricher.Enrich(context.Background(), candidateFor(transferOp(monitoredID, "1.2.999")))
	if err == nil {
		t.Fatalf("expected error for unresolvable account")
	}
}
