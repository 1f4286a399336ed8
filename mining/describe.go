package mining

import (
	"sort"

	"github.com/go-procmine/procmine/petri"
)

// Flow is a (source, target) pair over transitions ∪ places.
type Flow struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// TaggedPlace names a synthesized Alpha place: either the always-present
// source/sink (i_L, o_L) or a tagged (A,B) pair.
type TaggedPlace struct {
	ID string      `json:"id"`
	A  ActivitySet `json:"a,omitempty"`
	B  ActivitySet `json:"b,omitempty"`
}

// PetriNetDescription is the emitted description of an Alpha-mined net:
// transitions, an ordered place list, and the flow relation over both.
type PetriNetDescription struct {
	Transitions []string      `json:"transitions"`
	Places      []TaggedPlace `json:"places"`
	Flows       []Flow        `json:"flows"`
}

// DescribePetriNet renders a discovered net and its maximal AB-pairs into
// the canonical description contract. Places and flows are sorted for
// deterministic rendering.
func DescribePetriNet(net *petri.PetriNet, maximal []PlaceCandidate) *PetriNetDescription {
	desc := &PetriNetDescription{}

	for label := range net.Transitions {
		desc.Transitions = append(desc.Transitions, label)
	}
	sort.Strings(desc.Transitions)

	desc.Places = append(desc.Places, TaggedPlace{ID: "i_L"})
	desc.Places = append(desc.Places, TaggedPlace{ID: "o_L"})
	for _, pc := range maximal {
		desc.Places = append(desc.Places, TaggedPlace{ID: pc.ID(), A: pc.InputSet, B: pc.OutputSet})
	}
	sort.Slice(desc.Places, func(i, j int) bool { return desc.Places[i].ID < desc.Places[j].ID })

	for _, arc := range net.Arcs {
		desc.Flows = append(desc.Flows, Flow{Source: arc.Source, Target: arc.Target})
	}
	sort.Slice(desc.Flows, func(i, j int) bool {
		if desc.Flows[i].Source != desc.Flows[j].Source {
			return desc.Flows[i].Source < desc.Flows[j].Source
		}
		return desc.Flows[i].Target < desc.Flows[j].Target
	})

	return desc
}

// CausalNetEdgeDesc is one edge of a causal-net description: a plain
// (from,to) pair, or a "bind" triple joining two dots of the same binding
// instance.
type CausalNetEdgeDesc struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind,omitempty"`
}

// CausalNetDescription is the emitted description of a causal net: node
// counts and the edge list (plain or "bind" triples).
type CausalNetDescription struct {
	Nodes map[string]int      `json:"nodes"`
	Edges []CausalNetEdgeDesc `json:"edges"`
}

// DescribeCausalNet renders a causal net into the canonical description
// contract, with edges sorted by source label for deterministic output.
func DescribeCausalNet(cn *CausalNet) *CausalNetDescription {
	desc := &CausalNetDescription{Nodes: cn.Nodes}
	for _, e := range cn.Edges {
		desc.Edges = append(desc.Edges, CausalNetEdgeDesc{From: e.From, To: e.To, Kind: e.Kind})
	}
	sort.Slice(desc.Edges, func(i, j int) bool {
		if desc.Edges[i].From != desc.Edges[j].From {
			return desc.Edges[i].From < desc.Edges[j].From
		}
		return desc.Edges[i].To < desc.Edges[j].To
	})
	return desc
}

// DependencyEdgeDesc is one edge of a dependency-graph description, after
// threshold filtering.
type DependencyEdgeDesc struct {
	From              string  `json:"from"`
	To                string  `json:"to"`
	Frequency         int     `json:"frequency"`
	DependencyMeasure float64 `json:"dependency_measure"`
}

// DependencyGraphDescription is the emitted description of a Heuristic-
// mined dependency graph.
type DependencyGraphDescription struct {
	Nodes []string             `json:"nodes"`
	Edges []DependencyEdgeDesc `json:"edges"`
}

// DescribeDependencyGraph renders a dependency graph into the canonical
// description contract.
func DescribeDependencyGraph(r *Relations, dg *DependencyGraph) *DependencyGraphDescription {
	desc := &DependencyGraphDescription{Nodes: append([]string(nil), dg.Activities...)}
	for _, a := range dg.Activities {
		for _, b := range dg.Successors(a) {
			desc.Edges = append(desc.Edges, DependencyEdgeDesc{
				From:              a,
				To:                b,
				Frequency:         r.DirectlyFollowsCount(a, b),
				DependencyMeasure: dg.Edges[a][b],
			})
		}
	}
	sort.Slice(desc.Edges, func(i, j int) bool {
		if desc.Edges[i].From != desc.Edges[j].From {
			return desc.Edges[i].From < desc.Edges[j].From
		}
		return desc.Edges[i].To < desc.Edges[j].To
	})
	return desc
}
