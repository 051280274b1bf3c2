package wireframe

import (
	"github.com/emirpasic/gods/queues/arrayqueue"
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/Faultbox/wireframe-uv/pkg/topology"
)

// FallbackGroups labels the boundary edges of a grouping whose boundary is
// not a single cycle. A depth-first walk over boundary edges starts a new
// group at every transition between edges of one triangle, and labels
// alternate from group to group.
//
// This path checks neither committed vertex labels nor triangle coverage.
func FallbackGroups(g *topology.Graph, gr *topology.Grouping) []EdgeGroup {
	boundary := gr.BoundaryEdges(g)
	isBoundary := make(map[int]bool, len(boundary))
	for _, e := range boundary {
		isBoundary[e] = true
	}

	var groups []EdgeGroup
	groupOf := make(map[int]int, len(boundary))

	connect := func(a, b int) {
		if a == b {
			return
		}
		for _, c := range groups[a].Connections {
			if c == b {
				return
			}
		}
		groups[a].Connections = append(groups[a].Connections, b)
		groups[b].Connections = append(groups[b].Connections, a)
	}

	for _, start := range boundary {
		if _, ok := groupOf[start]; ok {
			continue
		}
		groups = append(groups, EdgeGroup{Kind: FallbackGroup, Edges: []int{start}})
		groupOf[start] = len(groups) - 1

		stack := arraystack.New()
		stack.Push(start)
		for !stack.Empty() {
			top, _ := stack.Pop()
			e := top.(int)
			cur := groupOf[e]

			for _, n := range boundaryNeighbors(g, e, isBoundary) {
				if other, ok := groupOf[n]; ok {
					if other != cur && len(g.SharedTriangles(e, n)) > 0 {
						connect(cur, other)
					}
					continue
				}
				if len(g.SharedTriangles(e, n)) > 0 {
					groups = append(groups, EdgeGroup{Kind: FallbackGroup, Edges: []int{n}})
					groupOf[n] = len(groups) - 1
					connect(cur, groupOf[n])
				} else {
					groups[cur].Edges = append(groups[cur].Edges, n)
					groupOf[n] = cur
				}
				stack.Push(n)
			}
		}
	}

	propagateLabels(groups)
	return groups
}

// boundaryNeighbors returns the boundary edges sharing a vertex with e.
func boundaryNeighbors(g *topology.Graph, e int, isBoundary map[int]bool) []int {
	var out []int
	k := g.Edges[e].Key
	for _, v := range [2]int{k.V0, k.V1} {
		for _, n := range g.Vertices[v].Edges {
			if n != e && isBoundary[n] {
				out = append(out, n)
			}
		}
	}
	return out
}

// propagateLabels walks the group connections breadth first. Each group
// takes the alternate of the label it was reached from; when that label is
// already used by a labelled neighbour the other of First/Second is tried,
// then Third, then Fourth.
func propagateLabels(groups []EdgeGroup) {
	for root := range groups {
		if groups[root].Label != LabelNone {
			continue
		}
		groups[root].Label = chooseFallbackLabel(groups, root, LabelSecond)

		queue := arrayqueue.New()
		queue.Enqueue(root)
		for !queue.Empty() {
			front, _ := queue.Dequeue()
			cur := front.(int)
			for _, n := range groups[cur].Connections {
				if groups[n].Label != LabelNone {
					continue
				}
				groups[n].Label = chooseFallbackLabel(groups, n, groups[cur].Label)
				queue.Enqueue(n)
			}
		}
	}
}

func chooseFallbackLabel(groups []EdgeGroup, k int, from TextureLabel) TextureLabel {
	var used LabelSet
	for _, n := range groups[k].Connections {
		used = used.With(groups[n].Label)
	}

	preferred, other := LabelSecond, LabelFirst
	if from != LabelFirst {
		preferred, other = LabelFirst, LabelSecond
	}
	for _, l := range []TextureLabel{preferred, other, LabelThird, LabelFourth} {
		if !used.Has(l) {
			return l
		}
	}
	return LabelFourth
}
