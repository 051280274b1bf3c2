// Package topology builds the vertex/edge/triangle adjacency graph of a
// triangle mesh and splits it into connected regions.
//
// All elements live in flat arenas on Graph and refer to each other by
// integer handle: a vertex handle is its index in the mesh position array,
// edge and triangle handles index Graph.Edges and Graph.Triangles.
package topology

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/wireframe-uv/pkg/math"
	"github.com/Faultbox/wireframe-uv/pkg/mesh"
)

// Topology errors.
var (
	ErrInvalidIndexCount = errors.New("triangle index count is not a multiple of 3")
	ErrIndexOutOfRange   = errors.New("triangle index out of range")
)

// WarnFunc receives non-fatal diagnostics.
type WarnFunc func(msg string)

// EdgeKey identifies an edge by its vertex pair in canonical (min, max) order.
type EdgeKey struct {
	V0, V1 int
}

// NewEdgeKey returns the canonical key for the edge between a and b.
func NewEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{a, b}
}

// String returns the key as "(V0, V1)".
func (k EdgeKey) String() string {
	return fmt.Sprintf("(%d, %d)", k.V0, k.V1)
}

// Vertex holds the edges and triangles incident to one mesh vertex.
type Vertex struct {
	Index     int
	Edges     []int
	Triangles []int
}

// Edge is an undirected mesh edge and the triangles that use it.
// Triangles is a multiset: a triangle listed twice by the index buffer
// appears twice.
type Edge struct {
	Key       EdgeKey
	Triangles []int
}

// TriangleCount returns the number of incident triangles.
// 1 is a boundary edge, 2 a surface edge, more is non-manifold.
func (e *Edge) TriangleCount() int {
	return len(e.Triangles)
}

// IsBoundary reports whether exactly one triangle uses the edge.
func (e *Edge) IsBoundary() bool {
	return len(e.Triangles) == 1
}

// HasVertex reports whether v is an endpoint.
func (e *Edge) HasVertex(v int) bool {
	return e.Key.V0 == v || e.Key.V1 == v
}

// Other returns the endpoint opposite v.
func (e *Edge) Other(v int) int {
	if e.Key.V0 == v {
		return e.Key.V1
	}
	return e.Key.V0
}

// SharedVertex returns the endpoint both edges have in common.
func (e *Edge) SharedVertex(o *Edge) (int, bool) {
	switch {
	case o.HasVertex(e.Key.V0):
		return e.Key.V0, true
	case o.HasVertex(e.Key.V1):
		return e.Key.V1, true
	default:
		return -1, false
	}
}

// Triangle is one mesh triangle.
type Triangle struct {
	Vertices [3]int
	Edges    [3]int
	Submesh  int

	// ConnectedEdges are the edges touching one of this triangle's vertices
	// that are not one of its own three edges, sorted by handle.
	ConnectedEdges []int
}

// HasEdge reports whether edge handle e is one of the triangle's edges.
func (t *Triangle) HasEdge(e int) bool {
	return t.Edges[0] == e || t.Edges[1] == e || t.Edges[2] == e
}

// HasVertex reports whether v is one of the triangle's vertices.
func (t *Triangle) HasVertex(v int) bool {
	return t.Vertices[0] == v || t.Vertices[1] == v || t.Vertices[2] == v
}

// Graph is the adjacency graph of a triangle mesh.
type Graph struct {
	Positions []math.Vec3
	Vertices  []Vertex
	Edges     []Edge
	Triangles []Triangle

	edgeIndex map[EdgeKey]int
}

// FromMesh builds the graph for a mesh.
func FromMesh(m *mesh.Mesh, warn WarnFunc) (*Graph, error) {
	return Build(m.Positions, m.Submeshes, warn)
}

// Build creates the graph from vertex positions and per-submesh triangle
// index buffers. Triangles that repeat a vertex are skipped and edges with
// more than two triangles are reported through warn; neither is fatal.
func Build(positions []math.Vec3, submeshes [][]int, warn WarnFunc) (*Graph, error) {
	if warn == nil {
		warn = func(string) {}
	}

	g := &Graph{
		Positions: positions,
		Vertices:  make([]Vertex, len(positions)),
		edgeIndex: make(map[EdgeKey]int),
	}
	for i := range g.Vertices {
		g.Vertices[i].Index = i
	}

	for s, indices := range submeshes {
		if len(indices)%3 != 0 {
			return nil, fmt.Errorf("submesh %d has %d indices: %w", s, len(indices), ErrInvalidIndexCount)
		}
		for i := 0; i < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			for _, v := range [3]int{a, b, c} {
				if v < 0 || v >= len(positions) {
					return nil, fmt.Errorf("submesh %d triangle %d vertex %d (vertices: %d): %w",
						s, i/3, v, len(positions), ErrIndexOutOfRange)
				}
			}
			if a == b || b == c || a == c {
				warn(fmt.Sprintf("submesh %d triangle %d is degenerate (%d, %d, %d), skipped", s, i/3, a, b, c))
				continue
			}
			g.addTriangle(s, a, b, c)
		}
	}

	for e := range g.Edges {
		if n := g.Edges[e].TriangleCount(); n > 2 {
			warn(fmt.Sprintf("edge %s has %d triangles (non-manifold)", g.Edges[e].Key, n))
		}
	}

	g.computeConnectedEdges()
	return g, nil
}

func (g *Graph) addTriangle(submesh, a, b, c int) {
	t := len(g.Triangles)
	tri := Triangle{
		Vertices: [3]int{a, b, c},
		Submesh:  submesh,
	}
	tri.Edges[0] = g.ensureEdge(a, b)
	tri.Edges[1] = g.ensureEdge(b, c)
	tri.Edges[2] = g.ensureEdge(c, a)
	g.Triangles = append(g.Triangles, tri)

	for _, e := range tri.Edges {
		g.Edges[e].Triangles = append(g.Edges[e].Triangles, t)
	}
	for _, v := range tri.Vertices {
		g.Vertices[v].Triangles = append(g.Vertices[v].Triangles, t)
	}
}

func (g *Graph) ensureEdge(a, b int) int {
	key := NewEdgeKey(a, b)
	if e, ok := g.edgeIndex[key]; ok {
		return e
	}
	e := len(g.Edges)
	g.Edges = append(g.Edges, Edge{Key: key})
	g.edgeIndex[key] = e
	g.Vertices[key.V0].Edges = append(g.Vertices[key.V0].Edges, e)
	g.Vertices[key.V1].Edges = append(g.Vertices[key.V1].Edges, e)
	return e
}

func (g *Graph) computeConnectedEdges() {
	for t := range g.Triangles {
		tri := &g.Triangles[t]
		seen := make(map[int]bool)
		for _, v := range tri.Vertices {
			for _, e := range g.Vertices[v].Edges {
				if tri.HasEdge(e) || seen[e] {
					continue
				}
				seen[e] = true
				tri.ConnectedEdges = append(tri.ConnectedEdges, e)
			}
		}
		sort.Ints(tri.ConnectedEdges)
	}
}

// EdgeIndex returns the handle of the edge between a and b.
func (g *Graph) EdgeIndex(a, b int) (int, bool) {
	e, ok := g.edgeIndex[NewEdgeKey(a, b)]
	return e, ok
}

// EdgeDirection returns the unit vector from an edge's first to second
// endpoint.
func (g *Graph) EdgeDirection(e int) math.Vec3 {
	k := g.Edges[e].Key
	return math.Direction(g.Positions[k.V0], g.Positions[k.V1])
}

// EdgeAngle returns the angle between two edges' directions in degrees,
// folded into [0, 90].
func (g *Graph) EdgeAngle(a, b int) float32 {
	return math.FoldedAngleDegrees(g.EdgeDirection(a), g.EdgeDirection(b))
}

// SharedTriangles returns the triangles that contain both edges.
func (g *Graph) SharedTriangles(a, b int) []int {
	var shared []int
	for _, t := range g.Edges[a].Triangles {
		if g.Triangles[t].HasEdge(b) && !containsInt(shared, t) {
			shared = append(shared, t)
		}
	}
	return shared
}

// NonManifoldEdges returns the handles of edges with more than two triangles.
func (g *Graph) NonManifoldEdges() []int {
	var out []int
	for e := range g.Edges {
		if g.Edges[e].TriangleCount() > 2 {
			out = append(out, e)
		}
	}
	return out
}

// BoundaryEdges returns the handles of all edges with exactly one triangle.
func (g *Graph) BoundaryEdges() []int {
	var out []int
	for e := range g.Edges {
		if g.Edges[e].IsBoundary() {
			out = append(out, e)
		}
	}
	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
