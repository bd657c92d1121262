package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	DocumentsFetched  uint64            `json:"documents_fetched"`
	VotesSaved        uint64            `json:"votes_saved"`
	BillsCollected    uint64            `json:"bills_collected"`
	RecordsFound      uint64            `json:"records_found"`
	ReportsRendered   uint64            `json:"reports_rendered"`
	ErrorsTotal       uint64            `json:"errors_total"`
	FetchSecondsAvg   float64           `json:"fetch_seconds_avg"`
	SkippedBySource   map[string]uint64 `json:"skipped_by_source,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	documentsFetched uint64
	votesSaved       uint64
	billsCollected   uint64
	recordsFound     uint64
	reportsRendered  uint64
	errorsTotal      uint64

	fetchCount uint64
	fetchNanos uint64

	statsMu           sync.Mutex
	skippedBySource   = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncDocumentsFetched() {
	atomic.AddUint64(&documentsFetched, 1)
}

func IncVotesSaved() {
	atomic.AddUint64(&votesSaved, 1)
}

func IncBillsCollected() {
	atomic.AddUint64(&billsCollected, 1)
}

func AddRecordsFound(n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(&recordsFound, uint64(n))
}

func IncReportsRendered() {
	atomic.AddUint64(&reportsRendered, 1)
}

// IncSkipped counts a document left alone because it was already archived.
func IncSkipped(source string) {
	if source == "" {
		source = "unknown"
	}
	statsMu.Lock()
	skippedBySource[source]++
	statsMu.Unlock()
}

func ObserveFetchDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&fetchCount, 1)
	atomic.AddUint64(&fetchNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	skippedCopy := copyMap(skippedBySource)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&fetchCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&fetchNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		DocumentsFetched:  atomic.LoadUint64(&documentsFetched),
		VotesSaved:        atomic.LoadUint64(&votesSaved),
		BillsCollected:    atomic.LoadUint64(&billsCollected),
		RecordsFound:      atomic.LoadUint64(&recordsFound),
		ReportsRendered:   atomic.LoadUint64(&reportsRendered),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		FetchSecondsAvg:   avg,
		SkippedBySource:   skippedCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
