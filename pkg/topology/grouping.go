package topology

import "sort"

// Relation is the adjacency used to connect triangles into groupings.
type Relation int

const (
	// ByEdge connects triangles that share an edge.
	ByEdge Relation = iota
	// ByVertex connects triangles that share any vertex.
	ByVertex
)

// String returns a human-readable relation name.
func (r Relation) String() string {
	if r == ByVertex {
		return "shared-vertex"
	}
	return "shared-edge"
}

// Grouping is a maximal connected set of triangles under one Relation,
// together with the edges and vertices they use. All lists are sorted.
type Grouping struct {
	ID        int
	Relation  Relation
	Triangles []int
	Edges     []int
	Vertices  []int
}

// BoundaryEdges returns the grouping's edges that have exactly one triangle.
func (gr *Grouping) BoundaryEdges(g *Graph) []int {
	var out []int
	for _, e := range gr.Edges {
		if g.Edges[e].IsBoundary() {
			out = append(out, e)
		}
	}
	return out
}

// GroupByEdge splits the whole mesh into shared-edge groupings.
func (g *Graph) GroupByEdge() []*Grouping {
	return g.group(ByEdge, nil)
}

// GroupByVertex splits the whole mesh into shared-vertex groupings.
func (g *Graph) GroupByVertex() []*Grouping {
	return g.group(ByVertex, nil)
}

// GroupByEdgeWithin splits a subset of triangles into shared-edge groupings.
// Triangles outside the subset are never visited.
func (g *Graph) GroupByEdgeWithin(triangles []int) []*Grouping {
	return g.group(ByEdge, triangles)
}

// group flood-fills from the lowest unvisited triangle until every triangle
// in scope belongs to a grouping. A nil scope means the whole mesh.
func (g *Graph) group(rel Relation, scope []int) []*Grouping {
	inScope := make([]bool, len(g.Triangles))
	if scope == nil {
		for t := range inScope {
			inScope[t] = true
		}
	} else {
		for _, t := range scope {
			inScope[t] = true
		}
	}

	visited := make([]bool, len(g.Triangles))
	var groupings []*Grouping

	for start := range g.Triangles {
		if !inScope[start] || visited[start] {
			continue
		}

		var members []int
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			t := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, t)

			for _, n := range g.neighbors(rel, t) {
				if inScope[n] && !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}

		groupings = append(groupings, g.newGrouping(len(groupings), rel, members))
	}
	return groupings
}

func (g *Graph) neighbors(rel Relation, t int) []int {
	var out []int
	tri := &g.Triangles[t]
	if rel == ByVertex {
		for _, v := range tri.Vertices {
			out = append(out, g.Vertices[v].Triangles...)
		}
		return out
	}
	for _, e := range tri.Edges {
		out = append(out, g.Edges[e].Triangles...)
	}
	return out
}

func (g *Graph) newGrouping(id int, rel Relation, triangles []int) *Grouping {
	sort.Ints(triangles)

	edgeSet := make(map[int]struct{})
	vertexSet := make(map[int]struct{})
	for _, t := range triangles {
		tri := &g.Triangles[t]
		for i := 0; i < 3; i++ {
			edgeSet[tri.Edges[i]] = struct{}{}
			vertexSet[tri.Vertices[i]] = struct{}{}
		}
	}

	return &Grouping{
		ID:        id,
		Relation:  rel,
		Triangles: triangles,
		Edges:     sortedKeys(edgeSet),
		Vertices:  sortedKeys(vertexSet),
	}
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
