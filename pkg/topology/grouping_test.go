package topology

import (
	"testing"

	"github.com/Faultbox/wireframe-uv/pkg/mesh"
)

func TestGroupByEdge_EngineCube(t *testing.T) {
	g := mustBuild(t, mesh.NewEngineCube())

	groups := g.GroupByEdge()
	if len(groups) != 6 {
		t.Fatalf("shared-edge groupings = %d, want 6", len(groups))
	}
	for i, gr := range groups {
		if gr.ID != i {
			t.Errorf("grouping %d has ID %d", i, gr.ID)
		}
		if gr.Relation != ByEdge {
			t.Errorf("grouping %d relation = %v", i, gr.Relation)
		}
		if len(gr.Triangles) != 2 || len(gr.Vertices) != 4 || len(gr.Edges) != 5 {
			t.Errorf("grouping %d: %d triangles, %d vertices, %d edges; want 2, 4, 5",
				i, len(gr.Triangles), len(gr.Vertices), len(gr.Edges))
		}
		if n := len(gr.BoundaryEdges(g)); n != 4 {
			t.Errorf("grouping %d boundary edges = %d, want 4", i, n)
		}
	}

	if n := len(g.GroupByVertex()); n != 6 {
		t.Errorf("shared-vertex groupings = %d, want 6", n)
	}
}

func TestGroupByVertex_Bowtie(t *testing.T) {
	g := mustBuild(t, mesh.NewBowtie())

	byVertex := g.GroupByVertex()
	if len(byVertex) != 1 {
		t.Fatalf("shared-vertex groupings = %d, want 1", len(byVertex))
	}
	if byVertex[0].Relation.String() != "shared-vertex" {
		t.Errorf("relation = %s", byVertex[0].Relation)
	}

	byEdge := g.GroupByEdge()
	if len(byEdge) != 2 {
		t.Fatalf("shared-edge groupings = %d, want 2", len(byEdge))
	}

	within := g.GroupByEdgeWithin(byVertex[0].Triangles)
	if len(within) != 2 {
		t.Errorf("GroupByEdgeWithin = %d groupings, want 2", len(within))
	}
	for i := range within {
		if within[i].Triangles[0] != byEdge[i].Triangles[0] {
			t.Errorf("grouping %d differs between GroupByEdge and GroupByEdgeWithin", i)
		}
	}
}

func TestGroupByEdgeWithin_Subset(t *testing.T) {
	g := mustBuild(t, mesh.NewCircleFan(8))

	// Triangles 0..2 are consecutive fan slices, 5 is separate from them.
	groups := g.GroupByEdgeWithin([]int{5, 0, 1, 2})
	if len(groups) != 2 {
		t.Fatalf("groupings = %d, want 2", len(groups))
	}
	if got := groups[0].Triangles; len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("first grouping triangles = %v, want [0 1 2]", got)
	}
	if got := groups[1].Triangles; len(got) != 1 || got[0] != 5 {
		t.Errorf("second grouping triangles = %v, want [5]", got)
	}
}

func TestGroupBy_Deterministic(t *testing.T) {
	g := mustBuild(t, mesh.NewEngineCube())
	a := g.GroupByEdge()
	b := g.GroupByEdge()
	for i := range a {
		for j := range a[i].Triangles {
			if a[i].Triangles[j] != b[i].Triangles[j] {
				t.Fatalf("grouping %d differs between runs", i)
			}
		}
	}
}

func TestGroupBy_Empty(t *testing.T) {
	g := mustBuild(t, &mesh.Mesh{})
	if n := len(g.GroupByEdge()); n != 0 {
		t.Errorf("groupings of empty mesh = %d, want 0", n)
	}
}
