package monitor

import "sync"

// txID computes a transaction identifier at most once, on first use. The
// same cell is shared by every candidate derived from one transaction, so
// all of them observe one value and transactions with no matching operation
// never pay for the derivation.
type txID struct {
	once   sync.Once
	derive func() (string, error)
	value  string
	err    error
}

func newTxID(derive func() (string, error)) *txID {
	return &txID{derive: derive}
}

func (t *txID) Value() (string, error) {
	t.once.Do(func() {
		t.value, t.err = t.derive()
	})
	return t.value, t.err
}
