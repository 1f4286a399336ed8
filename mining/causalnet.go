package mining

import "fmt"

// CausalEdge is one edge of a causal net: a plain flow edge, a distinguished
// "bind" edge joining two dots of the same multi-element binding instance,
// or a self-loop.
type CausalEdge struct {
	From, To string
	Kind     string // "flow", "bind", or "self-loop"
	Label    int    // frequency/count carried by the edge, where meaningful
}

// CausalNet is the node/edge structure the Net Assembler produces from
// retained, labelled bindings and the parallel relation.
type CausalNet struct {
	// Nodes maps every node id (activity, dot label, or dummy label) to
	// its carried count.
	Nodes map[string]int
	Edges []CausalEdge
}

// BuildCausalNet runs the Net Assembler (C6): for every direct-follow pair
// not in parallel, it chains through retained binding dots (or a dummy
// pair when no binding covers the arc), adds bind edges between dots of
// the same multi-element binding, and adds self-loop edges.
func BuildCausalNet(r *Relations, dg *DependencyGraph, bindings BindingSet) *CausalNet {
	cn := &CausalNet{Nodes: make(map[string]int)}

	for _, t := range r.Activities {
		cn.Nodes[t] = activityCount(r, t)
	}

	for _, t := range r.Activities {
		nb := bindings[t]
		if nb == nil {
			continue
		}
		addBindEdges(cn, nb.Output)
		addBindEdges(cn, nb.Input)
	}

	for _, t := range r.Activities {
		if r.DirectlyFollows(t, t) {
			count := r.DirectlyFollowsCount(t, t)
			cn.Edges = append(cn.Edges, CausalEdge{From: t, To: t, Kind: "self-loop", Label: count})
		}

		for _, u := range r.Activities {
			if t == u || !r.DirectlyFollows(t, u) || (dg != nil && dg.IsParallel(t, u)) {
				continue
			}
			assembleArc(cn, r, t, u, bindings)
		}
	}

	return cn
}

func activityCount(r *Relations, t Activity) int {
	count := 0
	for _, u := range r.Activities {
		count += r.DirectlyFollowsCount(t, u)
	}
	return count
}

// addBindEdges registers a dot node for every participant of a
// multi-element binding and connects those dots to each other via a
// chain of distinguished "bind" edges, in the binding's canonical
// (sorted) activity order.
func addBindEdges(cn *CausalNet, bindings []Binding) {
	for _, b := range bindings {
		if len(b.Activities) < 2 || b.DotLabel == nil {
			continue
		}
		for _, a := range b.Activities {
			cn.Nodes[b.DotLabel[a]] = b.Frequency
		}
		for i := 0; i+1 < len(b.Activities); i++ {
			from := b.DotLabel[b.Activities[i]]
			to := b.DotLabel[b.Activities[i+1]]
			cn.Edges = append(cn.Edges, CausalEdge{From: from, To: to, Kind: "bind"})
		}
	}
}

// assembleArc builds the node/edge chain for a single direct-follow arc
// (t,u), per §4.6.
func assembleArc(cn *CausalNet, r *Relations, t, u Activity, bindings BindingSet) {
	count := r.DirectlyFollowsCount(t, u)

	outputDots := labelsContaining(bindings[t], true, u)
	inputDots := labelsContaining(bindings[u], false, t)

	chain := []string{t}
	if len(outputDots) > 0 {
		chain = append(chain, outputDots...)
	} else {
		dummyIn := fmt.Sprintf("%s-%s-i", t, u)
		cn.Nodes[dummyIn] = count
		chain = append(chain, dummyIn)
	}
	if len(inputDots) > 0 {
		chain = append(chain, inputDots...)
	} else {
		dummyOut := fmt.Sprintf("%s-%s-o", t, u)
		cn.Nodes[dummyOut] = count
		chain = append(chain, dummyOut)
	}
	chain = append(chain, u)

	for i := 0; i+1 < len(chain); i++ {
		cn.Edges = append(cn.Edges, CausalEdge{From: chain[i], To: chain[i+1], Kind: "flow", Label: count})
	}
}

// labelsContaining returns, in encounter order, the partner activity's own
// dot label from each of a node's retained multi-element bindings that
// contain it.
func labelsContaining(nb *NodeBindings, output bool, partner Activity) []string {
	if nb == nil {
		return nil
	}
	var side []Binding
	if output {
		side = nb.Output
	} else {
		side = nb.Input
	}

	var labels []string
	for _, b := range side {
		if len(b.Activities) < 2 || b.DotLabel == nil {
			continue
		}
		if lbl, ok := b.DotLabel[partner]; ok {
			labels = append(labels, lbl)
		}
	}
	return labels
}
