package model

import (
	"fmt"
	"strings"
	"time"
)

// chainTimeLayout is the node's timestamp format: second precision, UTC,
// no zone suffix.
const chainTimeLayout = "2006-01-02T15:04:05"

// ChainTime wraps time.Time with the node's zone-less JSON encoding.
type ChainTime struct {
	time.Time
}

// NewChainTime builds a ChainTime truncated to second precision.
func NewChainTime(t time.Time) ChainTime {
	return ChainTime{t.UTC().Truncate(time.Second)}
}

func (t ChainTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(chainTimeLayout) + `"`), nil
}

func (t *ChainTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(chainTimeLayout, raw, time.UTC)
	if err != nil {
		return fmt.Errorf("parse chain time %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}
