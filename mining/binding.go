package mining

import (
	"context"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Binding is a retained subset of a node's ingoing (resp. outgoing)
// activities, representing one way the node consumes (resp. produces)
// causal tokens in a single execution.
type Binding struct {
	Activities ActivitySet
	Frequency  int
	// DotLabel maps each participating activity to the dot label assigned
	// to its own position within this binding instance, e.g. "t-x_1" and
	// "t-y_2" for a two-element output binding {x,y} of node t. Populated
	// only for multi-element bindings, one dot per participant — trivial
	// singleton bindings pass straight through with no separate dot.
	DotLabel map[Activity]string
}

// NodeBindings holds the retained input and output bindings for a single
// activity node.
type NodeBindings struct {
	Activity Activity
	Input    []Binding
	Output   []Binding
}

// BindingSet is the result of the Binding Engine: retained, labelled
// bindings for every activity, keyed by activity name.
type BindingSet map[Activity]*NodeBindings

// EnumerateBindings runs the Binding Engine over every activity in the
// graph, sequentially.
func EnumerateBindings(traces []Trace, r *Relations, dg *DependencyGraph, opts HeuristicOptions) (BindingSet, error) {
	result := make(BindingSet, len(r.Activities))
	for _, t := range r.Activities {
		nb, err := enumerateNodeBindings(traces, r, dg, t, opts)
		if err != nil {
			return nil, err
		}
		result[t] = nb
	}
	return result, nil
}

// EnumerateBindingsConcurrent runs the Binding Engine with bounded fan-out
// across activities — per-activity enumeration is independent and purely
// accumulative, so concurrency here is legal but unobservable.
func EnumerateBindingsConcurrent(ctx context.Context, traces []Trace, r *Relations, dg *DependencyGraph, opts HeuristicOptions) (BindingSet, error) {
	result := make(BindingSet, len(r.Activities))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, t := range r.Activities {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			nb, err := enumerateNodeBindings(traces, r, dg, t, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			result[t] = nb
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func enumerateNodeBindings(traces []Trace, r *Relations, dg *DependencyGraph, t Activity, opts HeuristicOptions) (*NodeBindings, error) {
	in := directFollowSet(r, t, false)
	out := directFollowSet(r, t, true)

	ceiling := opts.maxFanOut()
	if len(in) > ceiling {
		return nil, newFanOutError(t, "In", len(in), ceiling)
	}
	if len(out) > ceiling {
		return nil, newFanOutError(t, "Out", len(out), ceiling)
	}

	outputBindings := retainBindings(traces, r, dg, t, out, true)
	inputBindings := retainBindings(traces, r, dg, t, in, false)

	return &NodeBindings{
		Activity: t,
		Input:    inputBindings,
		Output:   outputBindings,
	}, nil
}

// directFollowSet returns In(t) (forward=false) or Out(t) (forward=true):
// the set of activities directly following (or preceding) t at least once.
func directFollowSet(r *Relations, t Activity, forward bool) ActivitySet {
	var names []string
	for _, other := range r.Activities {
		if forward {
			if r.DirectlyFollows(t, other) {
				names = append(names, other)
			}
		} else {
			if r.DirectlyFollows(other, t) {
				names = append(names, other)
			}
		}
	}
	return NewActivitySet(names...)
}

// retainBindings generates, filters, computes frequencies for, and labels
// the candidate bindings of t over the given side-set (Out(t) when
// output=true, In(t) otherwise).
func retainBindings(traces []Trace, r *Relations, dg *DependencyGraph, t Activity, side ActivitySet, output bool) []Binding {
	candidates := nonEmptySubsets(side)

	type scored struct {
		set      ActivitySet
		minCount int
		isMulti  bool
	}

	var kept []scored
	for _, s := range candidates {
		if len(s) == 1 {
			x := s[0]
			if singletonAbsorbed(r, dg, t, x, side, output) {
				continue
			}
			kept = append(kept, scored{set: s})
			continue
		}

		minCount := minWitnessedPermutationCount(traces, t, s, output)
		if minCount <= 0 {
			continue
		}
		kept = append(kept, scored{set: s, minCount: minCount, isMulti: true})
	}

	// Subtract multi-element witness counts from singleton direct-follow
	// counts before emitting final frequencies.
	singletonBase := make(map[string]int)
	for _, s := range side {
		if output {
			singletonBase[s] = r.DirectlyFollowsCount(t, s)
		} else {
			singletonBase[s] = r.DirectlyFollowsCount(s, t)
		}
	}
	for _, k := range kept {
		if !k.isMulti {
			continue
		}
		for _, x := range k.set {
			singletonBase[x] -= k.minCount
		}
	}

	var bindings []Binding
	for _, k := range kept {
		freq := k.minCount * len(k.set)
		if !k.isMulti {
			freq = singletonBase[k.set[0]]
			if freq <= 0 {
				continue
			}
		}
		bindings = append(bindings, Binding{Activities: k.set, Frequency: freq})
	}

	labelBindings(bindings, t, output)

	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Activities.Key() < bindings[j].Activities.Key()
	})
	return bindings
}

// singletonAbsorbed implements filtering rules 1 and 2 for a singleton
// candidate {x} on side Out(t)/In(t).
func singletonAbsorbed(r *Relations, dg *DependencyGraph, t, x Activity, side ActivitySet, output bool) bool {
	if x == t {
		return false
	}

	var tToX, xToT int
	if output {
		tToX = r.DirectlyFollowsCount(t, x)
		xToT = r.DirectlyFollowsCount(x, t)
	} else {
		tToX = r.DirectlyFollowsCount(x, t)
		xToT = r.DirectlyFollowsCount(t, x)
	}

	// Rule 1: (t,x) is parallel and the full parallel frequency equals
	// the count in both directions.
	if r.IsParallel(t, x) && tToX == xToT {
		return true
	}

	// Rule 2: (t,x) is not itself parallel, but x participates in some
	// other parallel pair (x,y), y not self-parallel, and the directed
	// count equals min(count(t,y), count(t,x), parallel(x,y)).
	if dg == nil || r.IsParallel(t, x) {
		return false
	}
	for y, freq := range dg.ParallelPairs[x] {
		if y == x {
			continue
		}
		if r.IsParallel(y, y) {
			continue
		}
		var tToY int
		if output {
			tToY = r.DirectlyFollowsCount(t, y)
		} else {
			tToY = r.DirectlyFollowsCount(y, t)
		}
		m := min3(tToY, tToX, freq)
		if tToX == m {
			return true
		}
	}
	return false
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// minWitnessedPermutationCount computes, for a multi-element candidate S
// on node t, the minimum over permutations π (among those that occur at
// least once) of the count of the substring t,π(S) (output) or π(S),t
// (input) across all traces.
func minWitnessedPermutationCount(traces []Trace, t Activity, s ActivitySet, output bool) int {
	best := -1
	for _, perm := range permutations(s) {
		var seq []Activity
		if output {
			seq = append(append(seq, t), perm...)
		} else {
			seq = append(append(seq, perm...), t)
		}
		count := countSubsequenceOccurrences(traces, seq)
		if count == 0 {
			continue
		}
		if best == -1 || count < best {
			best = count
		}
	}
	if best == -1 {
		return 0
	}
	return best
}

func countSubsequenceOccurrences(traces []Trace, seq []Activity) int {
	if len(seq) == 0 {
		return 0
	}
	total := 0
	for _, tr := range traces {
		for i := 0; i+len(seq) <= len(tr); i++ {
			match := true
			for j, a := range seq {
				if tr[i+j] != a {
					match = false
					break
				}
			}
			if match {
				total++
			}
		}
	}
	return total
}

// permutations returns every ordering of the given set's elements.
func permutations(s ActivitySet) [][]Activity {
	items := append([]Activity(nil), s...)
	var out [][]Activity
	var rec func(prefix, rest []Activity)
	rec = func(prefix, rest []Activity) {
		if len(rest) == 0 {
			perm := append([]Activity(nil), prefix...)
			out = append(out, perm)
			return
		}
		for i := range rest {
			next := append([]Activity(nil), rest[:i]...)
			next = append(next, rest[i+1:]...)
			rec(append(append([]Activity(nil), prefix...), rest[i]), next)
		}
	}
	rec(nil, items)
	return out
}

// nonEmptySubsets returns every non-empty subset of s, as canonical
// ActivitySets.
func nonEmptySubsets(s ActivitySet) []ActivitySet {
	n := len(s)
	var out []ActivitySet
	for mask := 1; mask < (1 << n); mask++ {
		var names []string
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				names = append(names, s[i])
			}
		}
		out = append(out, NewActivitySet(names...))
	}
	return out
}

// labelBindings assigns sequential dot labels, in encounter order, to
// every activity participating in a multi-element binding — one dot per
// participant per binding instance, per §4.5. Trivial singleton bindings
// pass straight through unlabelled; their arcs fall back to the dummy
// nodes of §4.6 instead of a dot chain.
func labelBindings(bindings []Binding, t Activity, output bool) {
	sort.Slice(bindings, func(i, j int) bool {
		if len(bindings[i].Activities) != len(bindings[j].Activities) {
			return len(bindings[i].Activities) > len(bindings[j].Activities)
		}
		return bindings[i].Activities.Key() < bindings[j].Activities.Key()
	})

	index := 0
	for i := range bindings {
		b := &bindings[i]
		if len(b.Activities) < 2 {
			continue
		}
		b.DotLabel = make(map[Activity]string, len(b.Activities))
		for _, a := range b.Activities {
			index++
			var sb strings.Builder
			if output {
				sb.WriteString(t)
				sb.WriteByte('-')
				sb.WriteString(a)
				sb.WriteByte('_')
				sb.WriteString(strconv.Itoa(index))
			} else {
				sb.WriteString(strconv.Itoa(index))
				sb.WriteByte(' ')
				sb.WriteString(a)
				sb.WriteByte('-')
				sb.WriteString(t)
			}
			b.DotLabel[a] = sb.String()
		}
	}
}
