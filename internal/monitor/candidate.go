package monitor

import (
	"transferwatch/internal/model"
)

// Candidate is the per-operation working record between decomposition and
// persistence. Its transaction id is deferred: the shared txID cell is only
// evaluated once the candidate is actually being enriched for persistence.
type Candidate struct {
	BlockNum      uint64
	Timestamp     model.ChainTime
	Expiration    model.ChainTime
	OpInTx        int
	OperationType string
	Op            model.Operation

	txID     *txID
	transfer *model.TransferPayload
}

// Transfer decodes the operation payload as a transfer, once.
func (c *Candidate) Transfer() (model.TransferPayload, error) {
	if c.transfer == nil {
		transfer, err := c.Op.Transfer()
		if err != nil {
			return model.TransferPayload{}, err
		}
		c.transfer = &transfer
	}
	return *c.transfer, nil
}

// TransactionID materializes the deferred transaction identifier.
func (c *Candidate) TransactionID() (string, error) {
	return c.txID.Value()
}
