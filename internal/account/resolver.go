package account

import (
	"context"
	"fmt"
	"sync"
)

// Info is the node's account record, reduced to what the monitor needs.
type Info struct {
	ID      string
	Name    string
	MemoKey string
}

// Lookup fetches account records from the node.
type Lookup interface {
	AccountByID(ctx context.Context, id string) (Info, error)
}

// Resolver maps account ids to display names. Resolution fails for unknown
// accounts; there is no placeholder name.
type Resolver interface {
	ResolveName(ctx context.Context, accountID string) (string, error)
}

// CachedResolver resolves names through a Lookup and caches results.
// Account names are immutable enough for a process-lifetime cache.
type CachedResolver struct {
	lookup Lookup

	mu    sync.RWMutex
	names map[string]string
}

func NewCachedResolver(lookup Lookup) *CachedResolver {
	return &CachedResolver{
		lookup: lookup,
		names:  make(map[string]string),
	}
}

func (r *CachedResolver) ResolveName(ctx context.Context, accountID string) (string, error) {
	r.mu.RLock()
	name, ok := r.names[accountID]
	r.mu.RUnlock()
	if ok {
		return name, nil
	}

	info, err := r.lookup.AccountByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("resolve account %s: %w", accountID, err)
	}
	if info.Name == "" {
		return "", fmt.Errorf("account %s has no name", accountID)
	}

	r.mu.Lock()
	r.names[accountID] = info.Name
	r.mu.Unlock()

	return info.Name, nil
}

// VerifyMonitored confirms that the configured account name matches the
// chain's record for the configured id. A mismatch is a configuration error
// and aborts before listening begins.
func VerifyMonitored(ctx context.Context, resolver Resolver, accountID, accountName string) error {
	resolved, err := resolver.ResolveName(ctx, accountID)
	if err != nil {
		return err
	}
	if resolved != accountName {
		return fmt.Errorf("account name for %s does not match configuration: %s != %s",
			accountID, resolved, accountName)
	}
	return nil
}
