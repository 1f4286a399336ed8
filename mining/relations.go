package mining

import "sort"

// Activity is an opaque activity identifier. Equality and ordering are by
// value.
type Activity = string

// Trace is a finite ordered sequence of activities. Empty traces are
// admitted but contribute nothing to any relation.
type Trace []Activity

// Relations holds the ordering relations extracted from an event log: the
// activity universe, the initial/final activity sets, and the weighted
// direct-follows multiset. It is the input the Footprint Builder, Alpha
// Engine, and Dependency Engine all derive their own views from.
type Relations struct {
	Activities  ActivitySet
	InitialActs ActivitySet
	FinalActs   ActivitySet
	follows     map[Activity]map[Activity]int
}

// ExtractRelations builds Relations from a set of traces. A trace
// appearing multiple times (once per case) contributes once per
// occurrence, which is how trace frequency folds into the weighted
// direct-follows counts without a separate multiplicity parameter.
func ExtractRelations(traces []Trace) *Relations {
	activities := make(map[Activity]bool)
	initial := make(map[Activity]bool)
	final := make(map[Activity]bool)
	follows := make(map[Activity]map[Activity]int)

	for _, tr := range traces {
		if len(tr) == 0 {
			continue
		}
		initial[tr[0]] = true
		final[tr[len(tr)-1]] = true
		for _, a := range tr {
			activities[a] = true
			if _, ok := follows[a]; !ok {
				follows[a] = make(map[Activity]int)
			}
		}
		for i := 0; i < len(tr)-1; i++ {
			a, b := tr[i], tr[i+1]
			follows[a][b]++
		}
	}

	return &Relations{
		Activities:  NewActivitySet(mapKeys(activities)...),
		InitialActs: NewActivitySet(mapKeys(initial)...),
		FinalActs:   NewActivitySet(mapKeys(final)...),
		follows:     follows,
	}
}

// DirectlyFollows returns true if a is directly followed by b at least
// once in the log.
func (r *Relations) DirectlyFollows(a, b Activity) bool {
	return r.DirectlyFollowsCount(a, b) > 0
}

// DirectlyFollowsCount returns the weighted number of times a is directly
// followed by b.
func (r *Relations) DirectlyFollowsCount(a, b Activity) int {
	if m, ok := r.follows[a]; ok {
		return m[b]
	}
	return 0
}

// Successors returns the sorted list of activities directly following a.
func (r *Relations) Successors(a Activity) []Activity {
	var out []Activity
	for b, count := range r.follows[a] {
		if count > 0 {
			out = append(out, b)
		}
	}
	sort.Strings(out)
	return out
}

// Predecessors returns the sorted list of activities directly preceding b.
func (r *Relations) Predecessors(b Activity) []Activity {
	var out []Activity
	for a, m := range r.follows {
		if m[b] > 0 {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}

// IsCausal reports a → b: a>b and not b>a.
func (r *Relations) IsCausal(a, b Activity) bool {
	return r.DirectlyFollows(a, b) && !r.DirectlyFollows(b, a)
}

// IsParallel reports a ∥ b: a>b and b>a.
func (r *Relations) IsParallel(a, b Activity) bool {
	return r.DirectlyFollows(a, b) && r.DirectlyFollows(b, a)
}

// IsChoice reports a # b: neither a>b nor b>a. A self-follow (a,a) is
// never a choice — it is parallel with itself per the edge case in the
// Relation Extractor's contract.
func (r *Relations) IsChoice(a, b Activity) bool {
	return !r.DirectlyFollows(a, b) && !r.DirectlyFollows(b, a)
}

func mapKeys(m map[Activity]bool) []Activity {
	out := make([]Activity, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
