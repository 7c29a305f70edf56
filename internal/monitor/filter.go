package monitor

// Filter decides which operations the monitor records. It is the single
// extension point for what counts as interesting: monitoring additional
// operation types means supplying a different Filter, not touching the
// decomposers.
type Filter func(c *Candidate) bool

// TransferFilter matches transfer operations with the monitored account on
// either side. Non-matching and undecodable payloads are dropped silently.
func TransferFilter(accountID string) Filter {
	return func(c *Candidate) bool {
		if c.OperationType != "transfer" {
			return false
		}
		transfer, err := c.Transfer()
		if err != nil {
			return false
		}
		return transfer.From == accountID || transfer.To == accountID
	}
}
