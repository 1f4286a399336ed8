package mining

import (
	"fmt"
	"strings"
)

// Relation represents the ordering relation between two activities.
type Relation int

const (
	// Choice means a # b (neither ordering exists, exclusive choice).
	Choice Relation = iota
	// Causality means a -> b (a causes b: a > b and not b > a).
	Causality
	// ReverseCausality means a <- b (b causes a).
	ReverseCausality
	// Parallel means a || b (both orderings exist: a > b and b > a).
	Parallel
)

// String returns the symbol for the relation.
func (r Relation) String() string {
	switch r {
	case Causality:
		return "→"
	case ReverseCausality:
		return "←"
	case Parallel:
		return "∥"
	default:
		return "#"
	}
}

// FootprintMatrix is the square table of ordering relations between
// activities, indexed in canonical (sorted) order. This is the
// foundation for the Alpha Miner algorithm.
type FootprintMatrix struct {
	Activities ActivitySet
	rel        map[Activity]map[Activity]Relation
	StartSet   map[Activity]bool
	EndSet     map[Activity]bool
}

// BuildFootprint assembles the footprint matrix from Relations. Exactly
// one relation symbol is produced per cell, covering the full activity
// product.
func BuildFootprint(r *Relations) *FootprintMatrix {
	fp := &FootprintMatrix{
		Activities: r.Activities,
		rel:        make(map[Activity]map[Activity]Relation, len(r.Activities)),
		StartSet:   make(map[Activity]bool, len(r.InitialActs)),
		EndSet:     make(map[Activity]bool, len(r.FinalActs)),
	}
	for _, a := range r.InitialActs {
		fp.StartSet[a] = true
	}
	for _, a := range r.FinalActs {
		fp.EndSet[a] = true
	}
	for _, a := range r.Activities {
		fp.rel[a] = make(map[Activity]Relation, len(r.Activities))
		for _, b := range r.Activities {
			switch {
			case r.IsParallel(a, b):
				fp.rel[a][b] = Parallel
			case r.IsCausal(a, b):
				fp.rel[a][b] = Causality
			case r.IsCausal(b, a):
				fp.rel[a][b] = ReverseCausality
			default:
				fp.rel[a][b] = Choice
			}
		}
	}
	return fp
}

// GetRelation returns the ordering relation between two activities.
func (fp *FootprintMatrix) GetRelation(a, b Activity) Relation {
	if m, ok := fp.rel[a]; ok {
		return m[b]
	}
	return Choice
}

// IsCausal returns true if a -> b.
func (fp *FootprintMatrix) IsCausal(a, b Activity) bool {
	return fp.GetRelation(a, b) == Causality
}

// IsParallel returns true if a || b.
func (fp *FootprintMatrix) IsParallel(a, b Activity) bool {
	return fp.GetRelation(a, b) == Parallel
}

// IsChoice returns true if a # b.
func (fp *FootprintMatrix) IsChoice(a, b Activity) bool {
	return fp.GetRelation(a, b) == Choice
}

// GetStartActivities returns activities that start at least one trace.
func (fp *FootprintMatrix) GetStartActivities() ActivitySet {
	return NewActivitySet(mapKeys(fp.StartSet)...)
}

// GetEndActivities returns activities that end at least one trace.
func (fp *FootprintMatrix) GetEndActivities() ActivitySet {
	return NewActivitySet(mapKeys(fp.EndSet)...)
}

// SetIsUnrelated checks if all pairs of activities in a set are in choice,
// including reflexively (no element self-follows).
func (fp *FootprintMatrix) SetIsUnrelated(activities ActivitySet) bool {
	for i := 0; i < len(activities); i++ {
		if !fp.IsChoice(activities[i], activities[i]) {
			return false
		}
		for j := i + 1; j < len(activities); j++ {
			if !fp.IsChoice(activities[i], activities[j]) {
				return false
			}
		}
	}
	return true
}

// SetsCausallyConnected checks if all activities in setA causally precede
// all activities in setB.
func (fp *FootprintMatrix) SetsCausallyConnected(setA, setB ActivitySet) bool {
	for _, a := range setA {
		for _, b := range setB {
			if !fp.IsCausal(a, b) {
				return false
			}
		}
	}
	return true
}

// String returns a formatted representation of the footprint matrix.
func (fp *FootprintMatrix) String() string {
	var sb strings.Builder

	sb.WriteString("Footprint Matrix:\n")
	sb.WriteString("     ")
	for _, b := range fp.Activities {
		sb.WriteString(fmt.Sprintf("%4s", truncate(b, 4)))
	}
	sb.WriteString("\n")

	for _, a := range fp.Activities {
		sb.WriteString(fmt.Sprintf("%4s ", truncate(a, 4)))
		for _, b := range fp.Activities {
			sb.WriteString(fmt.Sprintf("%4s", fp.GetRelation(a, b).String()))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\nStart activities: %v\n", fp.GetStartActivities()))
	sb.WriteString(fmt.Sprintf("End activities: %v\n", fp.GetEndActivities()))

	return sb.String()
}

// Print prints the footprint matrix to stdout.
func (fp *FootprintMatrix) Print() {
	fmt.Print(fp.String())
}

// truncate truncates a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
