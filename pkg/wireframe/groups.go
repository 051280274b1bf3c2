package wireframe

import (
	"github.com/emirpasic/gods/maps/treemap"
)

// GroupKind tags which labelling path produced an EdgeGroup.
type GroupKind int

const (
	// CyclicGroup is a contiguous run of a BoundaryEdgeCycle.
	CyclicGroup GroupKind = iota
	// FallbackGroup comes from the traversal used when no cycle exists.
	FallbackGroup
)

// String returns a human-readable kind name.
func (k GroupKind) String() string {
	if k == FallbackGroup {
		return "Fallback"
	}
	return "Cyclic"
}

// EdgeGroup is a set of boundary edges sharing one texture label.
type EdgeGroup struct {
	Kind  GroupKind
	Edges []int
	Label TextureLabel

	// Cyclic groups only: cycle position of the first edge and the cut
	// that opens the group.
	Start int
	Cut   CutType

	// Fallback groups only: indices of neighbouring groups.
	Connections []int
}

// GroupCut is a position in a boundary cycle where a new group starts.
type GroupCut struct {
	Index int
	Type  CutType
}

// cutSet is the ordered set of cuts of one cycle, keyed by cycle index.
type cutSet struct {
	m *treemap.Map
}

func newCutSet(cycle *BoundaryEdgeCycle) cutSet {
	m := treemap.NewWithIntComparator()
	for _, a := range cycle.EdgeAngleCuts {
		m.Put(a.Index, CutEdgeAngle)
	}
	for _, i := range cycle.SameTriangleCuts {
		m.Put(i, CutSameTriangle)
	}
	if m.Empty() {
		m.Put(0, CutVirtual)
	}
	return cutSet{m: m}
}

func (s cutSet) Len() int {
	return s.m.Size()
}

// Cuts returns the cuts in ascending index order.
func (s cutSet) Cuts() []GroupCut {
	cuts := make([]GroupCut, 0, s.m.Size())
	it := s.m.Iterator()
	for it.Next() {
		cuts = append(cuts, GroupCut{Index: it.Key().(int), Type: it.Value().(CutType)})
	}
	return cuts
}

// addVirtual bisects the longest run between consecutive cuts. Runs whose
// bounding cuts are both virtual are only split when nothing else can be.
// Returns false when every run is a single edge.
func (s cutSet) addVirtual(n int) bool {
	cuts := s.Cuts()
	best, bestLen := -1, 1
	fallback, fallbackLen := -1, 1
	for j, c := range cuts {
		next := cuts[(j+1)%len(cuts)]
		length := (next.Index - c.Index + n) % n
		if length == 0 {
			length = n
		}
		if c.Type == CutVirtual && next.Type == CutVirtual {
			if length > fallbackLen {
				fallback, fallbackLen = j, length
			}
			continue
		}
		if length > bestLen {
			best, bestLen = j, length
		}
	}
	if best < 0 {
		best, bestLen = fallback, fallbackLen
	}
	if best < 0 {
		return false
	}
	s.m.Put((cuts[best].Index+bestLen/2)%n, CutVirtual)
	return true
}

// groupLayout is a cycle split at a cut set, with everything the solver
// needs precomputed.
type groupLayout struct {
	cycle  *BoundaryEdgeCycle
	cuts   []GroupCut
	groups [][]int // cycle positions per group
	owner  []int   // cycle position -> group
}

func newGroupLayout(cycle *BoundaryEdgeCycle, cuts []GroupCut) *groupLayout {
	n := cycle.Len()
	l := &groupLayout{
		cycle:  cycle,
		cuts:   cuts,
		groups: make([][]int, len(cuts)),
		owner:  make([]int, n),
	}
	for j, c := range cuts {
		end := cuts[(j+1)%len(cuts)].Index
		i := c.Index
		for {
			l.groups[j] = append(l.groups[j], i)
			l.owner[i] = j
			i = (i + 1) % n
			if i == end {
				break
			}
		}
	}
	return l
}

// Len returns the number of groups.
func (l *groupLayout) Len() int {
	return len(l.groups)
}

// edgeGroups materialises the layout with the given labels.
func (l *groupLayout) edgeGroups(labels []TextureLabel) []EdgeGroup {
	out := make([]EdgeGroup, len(l.groups))
	for j, positions := range l.groups {
		edges := make([]int, len(positions))
		for k, p := range positions {
			edges[k] = l.cycle.Edges[p]
		}
		out[j] = EdgeGroup{
			Kind:  CyclicGroup,
			Edges: edges,
			Label: labels[j],
			Start: l.cuts[j].Index,
			Cut:   l.cuts[j].Type,
		}
	}
	return out
}

// PartitionEdgeGroups cuts a boundary cycle into edge groups and labels
// them. Alphabets of 2, 3 and 4 labels are tried in turn; when none works a
// virtual cut is added and the search repeats. Failing with every edge in
// its own group returns ErrNoFeasibleLabeling. A timeout from the solver is
// returned as is.
func PartitionEdgeGroups(s *Solver) ([]EdgeGroup, error) {
	cycle := s.cycle
	cuts := newCutSet(cycle)

	for {
		layout := newGroupLayout(cycle, cuts.Cuts())
		for maxLabel := LabelSecond; maxLabel <= MaxTextureLabel; maxLabel++ {
			labels, err := s.Solve(layout, maxLabel)
			if err != nil {
				return nil, err
			}
			if labels != nil {
				return layout.edgeGroups(labels), nil
			}
		}
		if cuts.Len() >= cycle.Len() || !cuts.addVirtual(cycle.Len()) {
			return nil, ErrNoFeasibleLabeling
		}
	}
}
