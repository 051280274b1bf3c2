package wireframe

import (
	"time"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/Faultbox/wireframe-uv/pkg/topology"
)

// DefaultSolveTimeout bounds the label search of one grouping.
const DefaultSolveTimeout = 60 * time.Second

// Solver assigns one label per edge group of a boundary cycle by
// depth-first search. It honours labels already committed to shared
// vertices by earlier regions.
//
// The time budget starts at the first Solve call and covers every later
// call on the same Solver.
type Solver struct {
	graph   *topology.Graph
	cycle   *BoundaryEdgeCycle
	state   VertexLabelState
	timeout time.Duration
	now     func() time.Time
	started time.Time

	// per-layout search state
	layout   *groupLayout
	differ   [][]int     // differ[k]: groups < k (or k itself) that must differ from k
	touched  [][]int     // touched[k]: vertices of group k's edges
	implied  map[int]*[5]int
	labels   []TextureLabel
	maxLabel TextureLabel
}

// SolverOptions configures a Solver.
type SolverOptions struct {
	Timeout time.Duration    // zero means DefaultSolveTimeout
	Now     func() time.Time // nil means time.Now
}

// NewSolver returns a solver for one boundary cycle under a committed
// vertex label state.
func NewSolver(g *topology.Graph, cycle *BoundaryEdgeCycle, state VertexLabelState, opts SolverOptions) *Solver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSolveTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Solver{
		graph:   g,
		cycle:   cycle,
		state:   state,
		timeout: opts.Timeout,
		now:     opts.Now,
	}
}

type solveFrame struct {
	group int
	label TextureLabel
}

// Solve searches for labels in [First, maxLabel] satisfying every
// constraint of the layout. It returns nil labels and nil error when no
// labeling exists, and ErrSolveTimeout when the budget runs out.
func (s *Solver) Solve(layout *groupLayout, maxLabel TextureLabel) ([]TextureLabel, error) {
	if s.started.IsZero() {
		s.started = s.now()
	}
	s.prepare(layout, maxLabel)

	if labels := s.tryGroupSizesAtLeastTwo(); labels != nil {
		return labels, nil
	}

	n := layout.Len()
	stack := arraystack.New()
	next := LabelFirst
	for {
		if s.now().Sub(s.started) > s.timeout {
			return nil, ErrSolveTimeout
		}

		depth := len(s.labels)
		if depth == n {
			out := make([]TextureLabel, n)
			copy(out, s.labels)
			return out, nil
		}

		placed := false
		for l := next; l <= maxLabel; l++ {
			if s.place(depth, l) {
				stack.Push(solveFrame{group: depth, label: l})
				placed = true
				break
			}
		}
		if placed {
			next = LabelFirst
			continue
		}

		top, ok := stack.Pop()
		if !ok {
			return nil, nil
		}
		f := top.(solveFrame)
		s.unplace(f.group, f.label)
		next = f.label + 1
	}
}

// GroupSizesAtLeastTwoTextureLabels returns the alternating labeling that
// is always valid across cuts when every group holds at least two edges:
// First/Second, with Third on the last group when the count is odd.
// Returns nil when some group has a single edge.
func GroupSizesAtLeastTwoTextureLabels(groupSizes []int) []TextureLabel {
	for _, size := range groupSizes {
		if size < 2 {
			return nil
		}
	}
	n := len(groupSizes)
	labels := make([]TextureLabel, n)
	for i := range labels {
		if i%2 == 0 {
			labels[i] = LabelFirst
		} else {
			labels[i] = LabelSecond
		}
	}
	if n > 1 && n%2 == 1 {
		labels[n-1] = LabelThird
	}
	return labels
}

// tryGroupSizesAtLeastTwo checks the alternating labeling against the full
// constraint set and leaves the solver state reset.
func (s *Solver) tryGroupSizesAtLeastTwo() []TextureLabel {
	sizes := make([]int, s.layout.Len())
	for j, g := range s.layout.groups {
		sizes[j] = len(g)
	}
	candidate := GroupSizesAtLeastTwoTextureLabels(sizes)
	if candidate == nil {
		return nil
	}
	ok := true
	for k, l := range candidate {
		if l > s.maxLabel || !s.place(k, l) {
			ok = false
			break
		}
	}
	for k := len(s.labels) - 1; k >= 0; k-- {
		s.unplace(k, s.labels[k])
	}
	if !ok {
		return nil
	}
	return candidate
}

// prepare precomputes the pairwise constraints and touched vertices of a
// layout and resets the partial assignment.
func (s *Solver) prepare(layout *groupLayout, maxLabel TextureLabel) {
	s.layout = layout
	s.maxLabel = maxLabel
	s.labels = s.labels[:0]
	s.implied = make(map[int]*[5]int)

	n := layout.Len()
	s.differ = make([][]int, n)
	seen := make(map[[2]int]bool)
	addPair := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		key := [2]int{a, b}
		if seen[key] {
			return
		}
		seen[key] = true
		s.differ[b] = append(s.differ[b], a)
	}

	m := s.cycle.Len()
	at := func(i int) int {
		return layout.owner[((i%m)+m)%m]
	}
	for j, c := range layout.cuts {
		if c.Type == CutVirtual {
			continue
		}
		addPair((j-1+n)%n, j)
		if c.Type == CutSameTriangle {
			i := c.Index
			addPair(at(i-2), at(i))
			addPair(at(i-1), at(i+1))
			if ((i-2)%m+m)%m != (i+1)%m {
				addPair(at(i-2), at(i+1))
			}
		}
	}

	s.touched = make([][]int, n)
	for j, positions := range layout.groups {
		seenV := make(map[int]bool)
		for _, p := range positions {
			k := s.graph.Edges[s.cycle.Edges[p]].Key
			for _, v := range [2]int{k.V0, k.V1} {
				if !seenV[v] {
					seenV[v] = true
					s.touched[j] = append(s.touched[j], v)
				}
			}
		}
	}
}

// place assigns label l to group k (which must be len(s.labels)) if no
// constraint rejects it.
func (s *Solver) place(k int, l TextureLabel) bool {
	for _, j := range s.differ[k] {
		if j == k || s.labels[j] == l {
			return false
		}
	}

	for _, v := range s.touched[k] {
		committed := s.state.Labels(v)
		if !committed.IsEmpty() && !committed.Has(l) {
			return false
		}
	}

	s.labels = append(s.labels, l)
	for _, v := range s.touched[k] {
		counts := s.implied[v]
		if counts == nil {
			counts = new([5]int)
			s.implied[v] = counts
		}
		counts[l]++
	}

	if s.fillsTriangle(k) {
		s.unplace(k, l)
		return false
	}
	return true
}

// unplace removes group k's label.
func (s *Solver) unplace(k int, l TextureLabel) {
	for _, v := range s.touched[k] {
		s.implied[v][l]--
	}
	s.labels = s.labels[:k]
}

// vertexLabels is the committed set of v joined with the labels implied by
// the partial assignment.
func (s *Solver) vertexLabels(v int) LabelSet {
	set := s.state.Labels(v)
	if counts := s.implied[v]; counts != nil {
		for l := LabelFirst; l <= MaxTextureLabel; l++ {
			if counts[l] > 0 {
				set = set.With(l)
			}
		}
	}
	return set
}

// fillsTriangle reports whether a triangle around group k's vertices now
// has a label shared by all three corners that the committed state alone
// did not already give it.
func (s *Solver) fillsTriangle(k int) bool {
	for _, v := range s.touched[k] {
		for _, t := range s.graph.Vertices[v].Triangles {
			tv := s.graph.Triangles[t].Vertices
			common := s.vertexLabels(tv[0]) & s.vertexLabels(tv[1]) & s.vertexLabels(tv[2])
			before := s.state.Labels(tv[0]) & s.state.Labels(tv[1]) & s.state.Labels(tv[2])
			if common&^before != 0 {
				return true
			}
		}
	}
	return false
}
