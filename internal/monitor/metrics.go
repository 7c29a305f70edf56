package monitor

import "github.com/prometheus/client_golang/prometheus"

var (
	blocksProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "monitor_blocks_processed_total", Help: "Blocks fully drained and checkpointed"},
	)
	operationsMatched = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "monitor_operations_matched_total", Help: "Operations accepted by the filter"},
	)
	eventsStored = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "monitor_events_stored_total", Help: "Events newly persisted"},
	)
	eventsDuplicate = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "monitor_events_duplicate_total", Help: "Re-delivered events dropped by the sink"},
	)
	memoFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "monitor_memo_degraded_total", Help: "Memos recorded with a sentinel status"},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(blocksProcessed, operationsMatched, eventsStored, eventsDuplicate, memoFailures)
}
