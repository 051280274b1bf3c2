package wireframe

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Faultbox/wireframe-uv/pkg/topology"
)

// CutType says why a boundary cycle is split at a position.
type CutType int

const (
	// CutSameTriangle separates two consecutive edges of one triangle.
	CutSameTriangle CutType = iota
	// CutEdgeAngle separates consecutive edges meeting above the angle cutoff.
	CutEdgeAngle
	// CutVirtual is added only to make a labeling feasible. It carries no
	// distinct-label requirement.
	CutVirtual
)

// String returns a human-readable cut type name.
func (c CutType) String() string {
	switch c {
	case CutSameTriangle:
		return "SameTriangle"
	case CutEdgeAngle:
		return "EdgeAngle"
	case CutVirtual:
		return "Virtual"
	default:
		return "Unknown"
	}
}

// AngleCut is an EdgeAngle cut and the angle that caused it.
type AngleCut struct {
	Index   int
	Degrees float32
}

// BoundaryEdgeCycle is the boundary of one shared-edge grouping as a single
// ordered loop of edge handles.
//
// A cut at index i falls between Edges[i-1] and Edges[i] (cyclically).
// When any cut exists, index 0 is a cut.
type BoundaryEdgeCycle struct {
	Edges            []int
	SameTriangleCuts []int
	EdgeAngleCuts    []AngleCut
}

// Len returns the number of edges in the cycle.
func (c *BoundaryEdgeCycle) Len() int {
	return len(c.Edges)
}

// CutCount returns the number of SameTriangle and EdgeAngle cuts.
func (c *BoundaryEdgeCycle) CutCount() int {
	return len(c.SameTriangleCuts) + len(c.EdgeAngleCuts)
}

// ExtractBoundaryCycle orders the boundary edges of a shared-edge grouping
// into one cycle and classifies every transition.
//
// It returns ok=false without error when the grouping has no boundary edge
// or when its boundary edges do not form exactly one simple cycle.
func ExtractBoundaryCycle(g *topology.Graph, gr *topology.Grouping, angleCutoffDegrees float32) (*BoundaryEdgeCycle, bool, error) {
	boundary := gr.BoundaryEdges(g)
	if len(boundary) == 0 {
		return nil, false, nil
	}

	isBoundary := make(map[int]bool, len(boundary))
	for _, e := range boundary {
		isBoundary[e] = true
	}
	visited := make(map[int]bool, len(boundary))

	start := boundary[0]
	cur := start
	far := g.Edges[start].Key.V1
	edges := []int{start}
	visited[start] = true

	var sameTriangle []int
	var edgeAngle []AngleCut

	for {
		next, ok := nextBoundaryEdge(g, cur, far, isBoundary)
		if !ok {
			return nil, false, nil
		}

		// The transition cur -> next lands at next's position.
		pos := len(edges) % len(boundary)
		if next == start {
			if len(edges) != len(boundary) {
				return nil, false, nil
			}
			pos = 0
		} else if visited[next] || len(edges) >= len(boundary) {
			return nil, false, nil
		}

		shared := g.SharedTriangles(cur, next)
		switch {
		case len(shared) > 1:
			return nil, false, errors.Wrapf(ErrDuplicateSharedTriangle,
				"edges %s and %s share triangles %v", g.Edges[cur].Key, g.Edges[next].Key, shared)
		case len(shared) == 1:
			sameTriangle = append(sameTriangle, pos)
		default:
			if angle := g.EdgeAngle(cur, next); angle > angleCutoffDegrees {
				edgeAngle = append(edgeAngle, AngleCut{Index: pos, Degrees: angle})
			}
		}

		if next == start {
			break
		}
		far = g.Edges[next].Other(far)
		cur = next
		edges = append(edges, cur)
		visited[cur] = true
	}

	cycle := &BoundaryEdgeCycle{
		Edges:            edges,
		SameTriangleCuts: sameTriangle,
		EdgeAngleCuts:    edgeAngle,
	}
	cycle.rotateToFirstCut()
	return cycle, true, nil
}

// nextBoundaryEdge returns the only boundary edge other than cur that
// touches vertex far. Candidates come from cur's triangle: its own edges and
// its connected edges cover every edge incident to far.
func nextBoundaryEdge(g *topology.Graph, cur, far int, isBoundary map[int]bool) (int, bool) {
	tri := &g.Triangles[g.Edges[cur].Triangles[0]]

	found := -1
	consider := func(e int) bool {
		if e == cur || !isBoundary[e] || !g.Edges[e].HasVertex(far) {
			return true
		}
		if found >= 0 && found != e {
			return false
		}
		found = e
		return true
	}
	for _, e := range tri.Edges {
		if !consider(e) {
			return -1, false
		}
	}
	for _, e := range tri.ConnectedEdges {
		if !consider(e) {
			return -1, false
		}
	}
	return found, found >= 0
}

// rotateToFirstCut shifts the cycle so the lowest cut index becomes 0 and
// re-derives the cut lists.
func (c *BoundaryEdgeCycle) rotateToFirstCut() {
	if c.CutCount() == 0 {
		return
	}
	first := len(c.Edges)
	for _, i := range c.SameTriangleCuts {
		if i < first {
			first = i
		}
	}
	for _, a := range c.EdgeAngleCuts {
		if a.Index < first {
			first = a.Index
		}
	}
	if first == 0 {
		c.sortCuts()
		return
	}

	n := len(c.Edges)
	rotated := make([]int, n)
	for i := range rotated {
		rotated[i] = c.Edges[(i+first)%n]
	}
	c.Edges = rotated
	for i := range c.SameTriangleCuts {
		c.SameTriangleCuts[i] = (c.SameTriangleCuts[i] - first + n) % n
	}
	for i := range c.EdgeAngleCuts {
		c.EdgeAngleCuts[i].Index = (c.EdgeAngleCuts[i].Index - first + n) % n
	}
	c.sortCuts()
}

func (c *BoundaryEdgeCycle) sortCuts() {
	sort.Ints(c.SameTriangleCuts)
	sort.Slice(c.EdgeAngleCuts, func(i, j int) bool {
		return c.EdgeAngleCuts[i].Index < c.EdgeAngleCuts[j].Index
	})
}
