package monitor

import (
	"fmt"
	"testing"
)

func TestTxIDDerivesOnce(t *testing.T) {
	calls := 0
	id := newTxID(func() (string, error) {
		calls++
		return "abc123", nil
	})

	for i := 0; i < 3; i++ {
		value, err := id.Value()
		if err != nil {
			t.Fatalf("value: %v", err)
		}
		if value != "abc123" {
			t.Fatalf("value = %q", value)
		}
	}

	if calls != 1 {
		t.Fatalf("derive called %d times, want 1", calls)
	}
}

func TestTxIDCachesError(t *testing.T) {
	calls := 0
	id := newTxID(func() (string, error) {
		calls++
		return "", fmt.Errorf("boom")
	})

	if _, err := id.Value(); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := id.Value(); err == nil {
		t.Fatalf("expected cached error")
	}
	if calls != 1 {
		t.Fatalf("derive called %d times, want 1", calls)
	}
}
