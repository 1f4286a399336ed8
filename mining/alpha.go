package mining

import (
	"fmt"

	"github.com/go-procmine/procmine/petri"
)

// AlphaMiner implements the Alpha algorithm for process discovery. It
// discovers a Petri net from an event log based on qualitative ordering
// relations alone (the set-level footprint, not frequency).
//
// Limitations:
//   - Cannot handle loops of length 1 or 2
//   - Sensitive to noise in the log
//   - May produce unsound models for complex processes
//
// For noisy logs, prefer the Heuristic miner.
type AlphaMiner struct {
	relations *Relations
	footprint *FootprintMatrix
}

// NewAlphaMiner creates a new Alpha miner over the given traces.
func NewAlphaMiner(traces []Trace) *AlphaMiner {
	r := ExtractRelations(traces)
	return &AlphaMiner{
		relations: r,
		footprint: BuildFootprint(r),
	}
}

// GetFootprint returns the footprint matrix used by the miner.
func (m *AlphaMiner) GetFootprint() *FootprintMatrix {
	return m.footprint
}

// MaximalPairs returns the maximal AB-pairs the miner derived, in the same
// order used to synthesize places during Mine. Exposed so callers (e.g.
// the Petri-net description emitter) can label places. The result is not
// cached: each call runs the candidate search and maximality filter again.
func (m *AlphaMiner) MaximalPairs() []PlaceCandidate {
	return m.filterMaximal(m.findPlaceCandidates())
}

// PlaceCandidate represents a candidate place in the Alpha algorithm.
// A place connects a set of input transitions (A) to output transitions (B).
type PlaceCandidate struct {
	InputSet  ActivitySet
	OutputSet ActivitySet
}

// String returns a string representation of the place candidate.
func (pc PlaceCandidate) String() string {
	return fmt.Sprintf("(%v, %v)", pc.InputSet, pc.OutputSet)
}

// ID returns a unique identifier for the place candidate, used both as
// the Petri net place label and as the map key for deduplication.
func (pc PlaceCandidate) ID() string {
	return "p_" + pc.InputSet.Key() + "__" + pc.OutputSet.Key()
}

// Mine discovers a Petri net from the traces using the Alpha algorithm,
// assembling it with the fluent petri.Builder rather than poking at
// PetriNet's AddX methods directly.
func (m *AlphaMiner) Mine() *petri.PetriNet {
	fp := m.footprint
	b := petri.Build()

	for _, activity := range fp.Activities {
		b.Transition(activity)
	}

	maximal := m.filterMaximal(m.findPlaceCandidates())

	for _, pc := range maximal {
		placeName := pc.ID()
		b.Place(placeName, 0)

		for _, input := range pc.InputSet {
			b.Arc(input, placeName, 1)
		}
		for _, output := range pc.OutputSet {
			b.Arc(placeName, output, 1)
		}
	}

	// i_L and o_L are always present, per step 3 of the Alpha Engine.
	b.Place("i_L", 1)
	b.Place("o_L", 0)
	for _, a := range m.relations.InitialActs {
		b.Arc("i_L", a, 1)
	}
	for _, a := range m.relations.FinalActs {
		b.Arc(a, "o_L", 1)
	}

	return b.Done()
}

// coarseFamily builds the candidate-set source described in step 1 of the
// Alpha Engine: {a} for each activity whose self-follow is absent (i.e.
// (a,a) is a choice, not a parallel self-loop), and {a,b} for each
// distinct symmetric choice pair. For n activities the family holds at
// most n + n(n-1)/2 sets regardless of log size — the combinatorics live
// in the A×B cross-product below, not in subset enumeration.
func coarseFamily(fp *FootprintMatrix) []ActivitySet {
	seen := make(map[string]bool)
	var family []ActivitySet

	add := func(s ActivitySet) {
		key := s.Key()
		if seen[key] {
			return
		}
		seen[key] = true
		family = append(family, s)
	}

	for _, a := range fp.Activities {
		if fp.IsChoice(a, a) {
			add(NewActivitySet(a))
		}
	}
	for i, a := range fp.Activities {
		for _, b := range fp.Activities[i+1:] {
			if fp.IsChoice(a, b) {
				add(NewActivitySet(a, b))
			}
		}
	}

	return family
}

// findPlaceCandidates finds all valid place candidates (A, B) drawn from
// the coarse family where every a in A causally precedes every b in B.
func (m *AlphaMiner) findPlaceCandidates() []PlaceCandidate {
	fp := m.footprint
	family := coarseFamily(fp)

	var candidates []PlaceCandidate
	for _, setA := range family {
		for _, setB := range family {
			if fp.SetsCausallyConnected(setA, setB) {
				candidates = append(candidates, PlaceCandidate{
					InputSet:  setA,
					OutputSet: setB,
				})
			}
		}
	}
	return candidates
}

// filterMaximal filters place candidates to keep only maximal ones under
// (A,B) ⊑ (A',B') ⇔ A ⊆ A' ∧ B ⊆ B'.
func (m *AlphaMiner) filterMaximal(candidates []PlaceCandidate) []PlaceCandidate {
	var maximal []PlaceCandidate

	for _, c1 := range candidates {
		isMaximal := true
		for _, c2 := range candidates {
			if c1.ID() == c2.ID() {
				continue
			}
			if c1.InputSet.SubsetOf(c2.InputSet) && c1.OutputSet.SubsetOf(c2.OutputSet) {
				isMaximal = false
				break
			}
		}
		if isMaximal {
			maximal = append(maximal, c1)
		}
	}

	return maximal
}

// DiscoverAlpha performs Alpha algorithm process discovery over traces,
// attaching coverage metadata computed from the trace multiset.
func DiscoverAlpha(traces []Trace) (*DiscoveryResult, error) {
	miner := NewAlphaMiner(traces)
	net := miner.Mine()
	maximal := miner.MaximalPairs()

	variantCounts := variantCounts(traces)
	maxCount, numCases := 0, 0
	for _, tr := range traces {
		if len(tr) > 0 {
			numCases++
		}
	}
	for _, count := range variantCounts {
		if count > maxCount {
			maxCount = count
		}
	}

	coverage := 0.0
	if numCases > 0 {
		coverage = float64(maxCount) / float64(numCases) * 100
	}

	return &DiscoveryResult{
		Net:             net,
		Maximal:         maximal,
		Method:          "alpha",
		NumVariants:     len(variantCounts),
		MostCommonCount: maxCount,
		CoveragePercent: coverage,
	}, nil
}
