package account

import (
	"context"
	"fmt"
	"testing"
)

type fakeLookup struct {
	accounts map[string]Info
	calls    int
}

func (l *fakeLookup) AccountByID(_ context.Context, id string) (Info, error) {
	l.calls++
	info, ok := l.accounts[id]
	if !ok {
		return Info{}, fmt.Errorf("account %s unknown", id)
	}
	return info, nil
}

func TestCachedResolverCachesNames(t *testing.T) {
	lookup := &fakeLookup{accounts: map[string]Info{
		"1.2.100": {ID: "1.2.100", Name: "exchange"},
	}}
	resolver := NewCachedResolver(lookup)

	for i := 0; i < 3; i++ {
		name, err := resolver.ResolveName(context.Background(), "1.2.100")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if name != "exchange" {
			t.Fatalf("name = %q", name)
		}
	}

	if lookup.calls != 1 {
		t.Fatalf("lookup called %d times, want 1", lookup.calls)
	}
}

func TestCachedResolverFailsOnUnknownAccount(t *testing.T) {
	resolver := NewCachedResolver(&fakeLookup{})
	if _, err := resolver.ResolveName(context.Background(), "1.2.999"); err == nil {
		t.Fatalf("expected error for unknown account")
	}
}

func TestVerifyMonitored(t *testing.T) {
	resolver := NewCachedResolver(&fakeLookup{accounts: map[string]Info{
		"1.2.100": {ID: "1.2.100", Name: "exchange"},
	}})

	if err := VerifyMonitored(context.Background(), resolver, "1.2.100", "exchange"); err != nil {
		t.Fatalf("matching name: %v", err)
	}
	if err := VerifyMonitored(context.Background(), resolver, "1.2.100", "impostor"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
