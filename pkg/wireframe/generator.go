package wireframe

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Faultbox/wireframe-uv/pkg/mesh"
	"github.com/Faultbox/wireframe-uv/pkg/topology"
)

// Default generator settings.
const (
	DefaultAngleCutoffDegrees = 10
	DefaultChannel            = 3
)

// Options configures a Generator.
type Options struct {
	// AngleCutoffDegrees is the folded angle above which two consecutive
	// boundary edges of different triangles start a new group. [0, 90].
	AngleCutoffDegrees float32
	// Channel is the UV slot receiving the labels.
	Channel int
	// SolveTimeout bounds the label search of each region.
	SolveTimeout time.Duration
	// Warn receives non-fatal diagnostics. May be nil.
	Warn func(msg string)
	// Now is the solver clock. Nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns the default generator options.
func DefaultOptions() Options {
	return Options{
		AngleCutoffDegrees: DefaultAngleCutoffDegrees,
		Channel:            DefaultChannel,
		SolveTimeout:       DefaultSolveTimeout,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.AngleCutoffDegrees < 0 || o.AngleCutoffDegrees > 90 {
		return errors.Wrapf(ErrInvalidAngleCutoff, "got %v", o.AngleCutoffDegrees)
	}
	if o.Channel < 0 || o.Channel >= mesh.MaxUVChannels {
		return errors.Wrapf(ErrInvalidChannel, "got %d, want [0, %d)", o.Channel, mesh.MaxUVChannels)
	}
	if o.SolveTimeout <= 0 {
		return errors.Wrapf(ErrInvalidTimeout, "got %v", o.SolveTimeout)
	}
	return nil
}

// RegionOutcome is how a shared-edge region was handled.
type RegionOutcome int

const (
	// OutcomeLabeled regions were solved on their boundary cycle.
	OutcomeLabeled RegionOutcome = iota
	// OutcomeFallback regions had no single boundary cycle.
	OutcomeFallback
	// OutcomeClosed regions have no boundary edge.
	OutcomeClosed
	// OutcomeTimeout regions ran out of solve time and are unlabelled.
	OutcomeTimeout
)

// String returns a human-readable outcome name.
func (o RegionOutcome) String() string {
	switch o {
	case OutcomeLabeled:
		return "labeled"
	case OutcomeFallback:
		return "fallback"
	case OutcomeClosed:
		return "closed"
	case OutcomeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// RegionID names a shared-edge region inside its shared-vertex super-region.
type RegionID struct {
	Super int
	Sub   int
}

// String returns the id as "super.sub".
func (id RegionID) String() string {
	return fmt.Sprintf("%d.%d", id.Super, id.Sub)
}

// RegionResult describes one processed shared-edge region.
type RegionResult struct {
	ID            RegionID
	Order         int // position in processing order
	Triangles     int
	BoundaryEdges int
	Outcome       RegionOutcome
	Cycle         *BoundaryEdgeCycle // nil unless OutcomeLabeled
	Groups        []EdgeGroup
}

// Result is the outcome of one labelling pass.
type Result struct {
	Regions    []RegionResult
	State      VertexLabelState
	MaxLabel   TextureLabel
	Components int
}

// Generator computes wireframe texture labels for meshes.
type Generator struct {
	opts Options
}

// NewGenerator validates the options and returns a generator.
func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Warn == nil {
		opts.Warn = func(string) {}
	}
	return &Generator{opts: opts}, nil
}

// Generate labels the mesh and writes the result into its UV channel.
func (gen *Generator) Generate(ctx context.Context, m *mesh.Mesh) (*Result, error) {
	g, err := topology.FromMesh(m, gen.opts.Warn)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %q", m.Name)
	}
	res, err := gen.Label(ctx, g)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %q", m.Name)
	}
	if err := WriteUVs(m, gen.opts.Channel, res.State); err != nil {
		return nil, err
	}
	return res, nil
}

// Label computes labels for every region of the graph without touching a
// mesh. Regions are grouped by shared vertex; inside each, the shared-edge
// region with most already-labelled vertices goes next, then the one with
// fewest boundary edges.
func (gen *Generator) Label(ctx context.Context, g *topology.Graph) (*Result, error) {
	state := NewVertexLabelState(len(g.Vertices))
	res := &Result{}

	for _, super := range g.GroupByVertex() {
		subs := g.GroupByEdgeWithin(super.Triangles)
		boundaryCounts := make([]int, len(subs))
		for i, sub := range subs {
			boundaryCounts[i] = len(sub.BoundaryEdges(g))
		}

		done := make([]bool, len(subs))
		for range subs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			next := pickNextRegion(subs, done, boundaryCounts, state)
			done[next] = true
			sub := subs[next]

			rr := RegionResult{
				ID:            RegionID{Super: super.ID, Sub: sub.ID},
				Order:         len(res.Regions),
				Triangles:     len(sub.Triangles),
				BoundaryEdges: boundaryCounts[next],
			}

			var err error
			state, err = gen.labelRegion(g, sub, state, &rr)
			if err != nil {
				return nil, errors.Wrapf(err, "region %s", rr.ID)
			}
			res.Regions = append(res.Regions, rr)
		}
	}

	res.State = state
	res.MaxLabel = state.MaxLabel()
	res.Components = ComponentsFor(res.MaxLabel)
	return res, nil
}

// labelRegion processes one shared-edge region and returns the updated
// state.
func (gen *Generator) labelRegion(g *topology.Graph, sub *topology.Grouping, state VertexLabelState, rr *RegionResult) (VertexLabelState, error) {
	if rr.BoundaryEdges == 0 {
		rr.Outcome = OutcomeClosed
		return state, nil
	}

	cycle, ok, err := ExtractBoundaryCycle(g, sub, gen.opts.AngleCutoffDegrees)
	if err != nil {
		return state, err
	}
	if !ok {
		gen.opts.Warn(fmt.Sprintf("region %s: %d boundary edges do not form a single cycle, using fallback labelling (unsupported topology)",
			rr.ID, rr.BoundaryEdges))
		rr.Outcome = OutcomeFallback
		rr.Groups = FallbackGroups(g, sub)
		return state.Commit(g, rr.Groups), nil
	}

	solver := NewSolver(g, cycle, state, SolverOptions{
		Timeout: gen.opts.SolveTimeout,
		Now:     gen.opts.Now,
	})
	groups, err := PartitionEdgeGroups(solver)
	if errors.Is(err, ErrSolveTimeout) {
		gen.opts.Warn(fmt.Sprintf("region %s: label solve exceeded %v on %d boundary edges, region left unlabelled",
			rr.ID, gen.opts.SolveTimeout, cycle.Len()))
		rr.Outcome = OutcomeTimeout
		rr.Cycle = cycle
		return state, nil
	}
	if err != nil {
		return state, err
	}

	rr.Outcome = OutcomeLabeled
	rr.Cycle = cycle
	rr.Groups = groups
	return state.Commit(g, groups), nil
}

func pickNextRegion(subs []*topology.Grouping, done []bool, boundaryCounts []int, state VertexLabelState) int {
	best, bestShared := -1, -1
	for i, sub := range subs {
		if done[i] {
			continue
		}
		shared := state.CountLabeled(sub.Vertices)
		if best < 0 || shared > bestShared ||
			(shared == bestShared && boundaryCounts[i] < boundaryCounts[best]) {
			best, bestShared = i, shared
		}
	}
	return best
}

// ComponentsFor returns the UV component count needed to encode labels up
// to maxLabel: 2 for First/Second, otherwise one per label.
func ComponentsFor(maxLabel TextureLabel) int {
	if maxLabel <= LabelSecond {
		return 2
	}
	return int(maxLabel)
}

// EncodeUV returns the one-hot UV value of a vertex label set. Fourth is
// stored inverted because an unset fourth component reads as 1.
func EncodeUV(set LabelSet, components int) [4]float32 {
	var uv [4]float32
	for l := LabelFirst; l <= LabelThird && int(l) <= components; l++ {
		if set.Has(l) {
			uv[l-1] = 1
		}
	}
	if components >= 4 {
		uv[3] = 1
		if set.Has(LabelFourth) {
			uv[3] = 0
		}
	}
	return uv
}

// WriteUVs encodes the state into the mesh's UV channel, using as few
// components as the largest label allows.
func WriteUVs(m *mesh.Mesh, channel int, state VertexLabelState) error {
	components := ComponentsFor(state.MaxLabel())
	data := make([][4]float32, m.VertexCount())
	for v := range data {
		data[v] = EncodeUV(state.Labels(v), components)
	}
	if err := m.SetUVs(channel, components, data); err != nil {
		return errors.Wrap(err, "writing wireframe UVs")
	}
	return nil
}
