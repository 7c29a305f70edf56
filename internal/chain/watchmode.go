package chain

import "fmt"

// WatchMode selects which chain tip bounds the block stream.
type WatchMode string

const (
	// WatchHead follows the most recent block, which may still be
	// reorganized away.
	WatchHead WatchMode = "head"
	// WatchIrreversible follows the last block confirmed by a quorum of
	// block producers.
	WatchIrreversible WatchMode = "irreversible"
)

// ParseWatchMode validates a configured watch mode string.
func ParseWatchMode(mode string) (WatchMode, error) {
	switch WatchMode(mode) {
	case WatchHead:
		return WatchHead, nil
	case WatchIrreversible, "":
		return WatchIrreversible, nil
	default:
		return "", fmt.Errorf("unknown watch mode %q", mode)
	}
}
