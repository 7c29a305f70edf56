package model

import "errors"

// ErrMalformedBlock marks a block without a transaction list. The pipeline
// treats it as fatal: skipping the block would advance the checkpoint past
// operations nobody examined.
var ErrMalformedBlock = errors.New("malformed block: missing transaction list")

// Block is one ledger block as yielded by the chain client. Number is not
// part of the node's get_block response; the client fills it in from the
// requested height. Immutable once yielded.
//
// A nil Transactions slice means the wire record had no transaction list at
// all; an empty block decodes to an empty, non-nil slice.
type Block struct {
	Number       uint64        `json:"block_num"`
	Previous     string        `json:"previous,omitempty"`
	Timestamp    ChainTime     `json:"timestamp"`
	Witness      string        `json:"witness,omitempty"`
	Transactions []Transaction `json:"transactions"`
}
