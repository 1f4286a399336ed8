package mining

import (
	"fmt"

	"github.com/go-procmine/procmine/eventlog"
	"github.com/go-procmine/procmine/petri"
)

// TracesFromLog adapts an ingested event log into the plain activity-
// sequence slices the mining core consumes. Source-level attributes
// (timestamps, resources) are discarded here, at the ingestion boundary —
// the relation, footprint, Alpha, dependency, binding and causal-net code
// works only on these plain traces.
func TracesFromLog(log *eventlog.EventLog) []Trace {
	traces := make([]Trace, 0, len(log.GetTraces()))
	for _, tr := range log.GetTraces() {
		traces = append(traces, Trace(tr.GetActivityVariant()))
	}
	return traces
}

// DiscoveryResult contains an Alpha-mined process model and metadata.
type DiscoveryResult struct {
	Net             *petri.PetriNet
	Maximal         []PlaceCandidate
	Method          string
	NumVariants     int
	MostCommonCount int
	CoveragePercent float64 // % of cases covered by the most frequent variant
}

// HeuristicResult contains a Heuristic-mined dependency graph and causal
// net, plus the same variant-coverage metadata as DiscoveryResult.
type HeuristicResult struct {
	DependencyGraph *DependencyGraph
	CausalNet       *CausalNet
	Bindings        BindingSet
	NumVariants     int
	MostCommonCount int
	CoveragePercent float64
}

// Discover performs process discovery over an event log.
//
// Available methods:
//   - "alpha": Alpha Miner algorithm (discovers concurrency from qualitative
//     ordering relations; sensitive to noise).
//   - "heuristic": Heuristic Miner (frequency-weighted, robust to noise and
//     short loops; produces a dependency graph and causal net).
func Discover(log *eventlog.EventLog, method string, opts HeuristicOptions) (interface{}, error) {
	traces := TracesFromLog(log)
	switch method {
	case "alpha":
		return DiscoverAlpha(traces)
	case "heuristic":
		return DiscoverHeuristic(traces, opts)
	default:
		return nil, fmt.Errorf("unknown discovery method: %s (available: alpha, heuristic)", method)
	}
}

// variantCounts tallies occurrences of each distinct trace (by activity
// sequence) across traces, skipping empty traces.
func variantCounts(traces []Trace) map[string]int {
	counts := make(map[string]int)
	for _, tr := range traces {
		if len(tr) == 0 {
			continue
		}
		counts[variantKeyOf(tr)]++
	}
	return counts
}

func variantKeyOf(tr Trace) string {
	var b []byte
	for _, a := range tr {
		b = append(b, []byte(fmt.Sprintf("%d:%s|", len(a), a))...)
	}
	return string(b)
}
