package mining

import (
	"context"
	"sort"
)

// DiscoverHeuristic runs the full Heuristic mining pipeline over traces:
// Relation Extractor → Dependency Engine → Binding Engine → Net Assembler,
// using the thresholds in opts. Binding enumeration across activities is
// independent and purely accumulative per §5, so it runs through
// EnumerateBindingsConcurrent rather than the sequential EnumerateBindings.
func DiscoverHeuristic(traces []Trace, opts HeuristicOptions) (*HeuristicResult, error) {
	r := ExtractRelations(traces)

	dg, err := BuildDependencyGraph(r, opts)
	if err != nil {
		return nil, err
	}

	bindings, err := EnumerateBindingsConcurrent(context.Background(), traces, r, dg, opts)
	if err != nil {
		return nil, err
	}

	cn := BuildCausalNet(r, dg, bindings)

	counts := variantCounts(traces)
	maxCount, numCases := 0, 0
	for _, tr := range traces {
		if len(tr) > 0 {
			numCases++
		}
	}
	for _, count := range counts {
		if count > maxCount {
			maxCount = count
		}
	}
	coverage := 0.0
	if numCases > 0 {
		coverage = float64(maxCount) / float64(numCases) * 100
	}

	return &HeuristicResult{
		DependencyGraph: dg,
		CausalNet:       cn,
		Bindings:        bindings,
		NumVariants:     len(counts),
		MostCommonCount: maxCount,
		CoveragePercent: coverage,
	}, nil
}

// DependencyEdge is a single scored edge surfaced for inspection or
// top-N ranking, independent of the threshold filtering already applied
// to a DependencyGraph.
type DependencyEdge struct {
	From  string
	To    string
	Score float64
}

// TopEdges returns the n highest-scoring dependency edges in a graph,
// descending by score.
func TopEdges(dg *DependencyGraph, n int) []DependencyEdge {
	var edges []DependencyEdge
	for a, successors := range dg.Edges {
		for b, score := range successors {
			edges = append(edges, DependencyEdge{From: a, To: b, Score: score})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Score != edges[j].Score {
			return edges[i].Score > edges[j].Score
		}
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	if n > len(edges) {
		n = len(edges)
	}
	if n < 0 {
		n = 0
	}
	return edges[:n]
}
