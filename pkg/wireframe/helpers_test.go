package wireframe

import (
	"testing"
	"time"

	"github.com/Faultbox/wireframe-uv/pkg/math"
	"github.com/Faultbox/wireframe-uv/pkg/mesh"
	"github.com/Faultbox/wireframe-uv/pkg/topology"
)

// buildGraph builds the topology of a mesh or fails the test.
func buildGraph(t *testing.T, m *mesh.Mesh) *topology.Graph {
	t.Helper()
	g, err := topology.FromMesh(m, nil)
	if err != nil {
		t.Fatalf("FromMesh(%s): %v", m.Name, err)
	}
	return g
}

// soleRegion returns the only shared-edge grouping of a graph.
func soleRegion(t *testing.T, g *topology.Graph) *topology.Grouping {
	t.Helper()
	groups := g.GroupByEdge()
	if len(groups) != 1 {
		t.Fatalf("shared-edge groupings = %d, want 1", len(groups))
	}
	return groups[0]
}

// mustCycle extracts the cycle of a single-region mesh.
func mustCycle(t *testing.T, g *topology.Graph, cutoff float32) *BoundaryEdgeCycle {
	t.Helper()
	cycle, ok, err := ExtractBoundaryCycle(g, soleRegion(t, g), cutoff)
	if err != nil {
		t.Fatalf("ExtractBoundaryCycle: %v", err)
	}
	if !ok {
		t.Fatal("expected a boundary cycle")
	}
	return cycle
}

// newStrip returns a row of quads, each split along its a-c diagonal.
func newStrip(quads int) *mesh.Mesh {
	var positions []math.Vec3
	for i := 0; i <= quads; i++ {
		positions = append(positions, math.Vec3{X: float32(i)})
	}
	for i := 0; i <= quads; i++ {
		positions = append(positions, math.Vec3{X: float32(i), Y: 1})
	}
	top := quads + 1
	var indices []int
	for i := 0; i < quads; i++ {
		a, b, c, d := i, i+1, top+i+1, top+i
		indices = append(indices, a, b, c, a, c, d)
	}
	return &mesh.Mesh{Name: "strip", Positions: positions, Submeshes: [][]int{indices}}
}

// stepClock advances by step on every call.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

// distinctLabels counts the different labels used by groups.
func distinctLabels(groups []EdgeGroup) int {
	var set LabelSet
	for _, g := range groups {
		set = set.With(g.Label)
	}
	return len(set.Labels())
}

// checkCyclicInvariants verifies that labels differ across every real cut.
func checkCyclicInvariants(t *testing.T, groups []EdgeGroup) {
	t.Helper()
	n := len(groups)
	if n < 2 {
		return
	}
	for j, g := range groups {
		if g.Cut == CutVirtual {
			continue
		}
		prev := groups[(j-1+n)%n]
		if prev.Label == g.Label {
			t.Errorf("groups %d and %d share label %s across a %s cut", (j-1+n)%n, j, g.Label, g.Cut)
		}
	}
}

// checkNoFilledTriangle verifies that no triangle has a label on all three
// corners.
func checkNoFilledTriangle(t *testing.T, g *topology.Graph, state VertexLabelState) {
	t.Helper()
	for i, tri := range g.Triangles {
		v := tri.Vertices
		if common := state.Labels(v[0]) & state.Labels(v[1]) & state.Labels(v[2]); !common.IsEmpty() {
			t.Errorf("triangle %d %v is filled by %s", i, v, common)
		}
	}
}
