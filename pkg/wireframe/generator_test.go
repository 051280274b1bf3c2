package wireframe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/wireframe-uv/pkg/mesh"
)

func newTestGenerator(t *testing.T, cutoff float32, warnings *[]string) *Generator {
	t.Helper()
	opts := DefaultOptions()
	opts.AngleCutoffDegrees = cutoff
	if warnings != nil {
		opts.Warn = func(msg string) { *warnings = append(*warnings, msg) }
	}
	gen, err := NewGenerator(opts)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return gen
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Options)
		wantErr error
	}{
		{"defaults", func(*Options) {}, nil},
		{"cutoff 0", func(o *Options) { o.AngleCutoffDegrees = 0 }, nil},
		{"cutoff 90", func(o *Options) { o.AngleCutoffDegrees = 90 }, nil},
		{"negative cutoff", func(o *Options) { o.AngleCutoffDegrees = -1 }, ErrInvalidAngleCutoff},
		{"cutoff above 90", func(o *Options) { o.AngleCutoffDegrees = 91 }, ErrInvalidAngleCutoff},
		{"channel 8", func(o *Options) { o.Channel = 8 }, ErrInvalidChannel},
		{"negative channel", func(o *Options) { o.Channel = -1 }, ErrInvalidChannel},
		{"zero timeout", func(o *Options) { o.SolveTimeout = 0 }, ErrInvalidTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			_, err := NewGenerator(opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewGenerator() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate_Quad(t *testing.T) {
	m := mesh.NewQuad()
	res, err := newTestGenerator(t, 10, nil).Generate(context.Background(), m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(res.Regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(res.Regions))
	}
	rr := res.Regions[0]
	if rr.Outcome != OutcomeLabeled || len(rr.Groups) != 4 {
		t.Fatalf("region outcome %s with %d groups, want labeled with 4", rr.Outcome, len(rr.Groups))
	}
	if res.MaxLabel != LabelFourth || res.Components != 4 {
		t.Errorf("max label %s, components %d; want Fourth, 4", res.MaxLabel, res.Components)
	}

	uv := m.UV(DefaultChannel)
	if uv.Components != 4 || len(uv.Data) != 4 {
		t.Fatalf("UV channel: %d components, %d entries", uv.Components, len(uv.Data))
	}
	for v, value := range uv.Data {
		// Every quad corner touches exactly two differently labelled edges.
		ones := 0
		for c := 0; c < 3; c++ {
			ones += int(value[c])
		}
		ones += int(1 - value[3])
		if ones != 2 {
			t.Errorf("vertex %d UV %v encodes %d labels, want 2", v, value, ones)
		}
	}
	checkNoFilledTriangle(t, buildGraph(t, m), res.State)
}

func TestGenerate_ClosedCube(t *testing.T) {
	m := mesh.NewCube()
	var warnings []string
	res, err := newTestGenerator(t, 10, &warnings).Generate(context.Background(), m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Regions) != 1 || res.Regions[0].Outcome != OutcomeClosed {
		t.Fatalf("regions = %+v, want one closed region", res.Regions)
	}
	if res.MaxLabel != LabelNone || res.Components != 2 {
		t.Errorf("max label %s, components %d; want None, 2", res.MaxLabel, res.Components)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	for v, value := range m.UV(DefaultChannel).Data {
		if value != ([4]float32{}) {
			t.Errorf("vertex %d UV = %v, want zero", v, value)
		}
	}
}

func TestGenerate_EngineCube(t *testing.T) {
	forward := mesh.NewEngineCube()

	// Same faces with their triangles listed in reverse face order.
	reversed := mesh.NewEngineCube()
	idx := reversed.Submeshes[0]
	var flipped []int
	for f := len(idx)/6 - 1; f >= 0; f-- {
		flipped = append(flipped, idx[f*6:f*6+6]...)
	}
	reversed.Submeshes[0] = flipped

	for _, m := range []*mesh.Mesh{forward, reversed} {
		res, err := newTestGenerator(t, 10, nil).Generate(context.Background(), m)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(res.Regions) != 6 {
			t.Fatalf("regions = %d, want 6", len(res.Regions))
		}
		for _, rr := range res.Regions {
			if rr.Outcome != OutcomeLabeled {
				t.Errorf("region %s outcome = %s", rr.ID, rr.Outcome)
				continue
			}
			if rr.Cycle.Len() != 4 || len(rr.Groups) != 4 {
				t.Errorf("region %s: %d cycle edges, %d groups; want 4, 4", rr.ID, rr.Cycle.Len(), len(rr.Groups))
			}
			if n := distinctLabels(rr.Groups); n != 4 {
				t.Errorf("region %s distinct labels = %d, want 4", rr.ID, n)
			}
			checkCyclicInvariants(t, rr.Groups)
		}
		checkNoFilledTriangle(t, buildGraph(t, m), res.State)
	}
}

func TestGenerate_CircleFan(t *testing.T) {
	tests := []struct {
		cutoff     float32
		groups     int
		distinct   int
		components int
	}{
		{10, 32, 2, 2},
		{89, 1, 1, 2},
	}
	for _, tt := range tests {
		m := mesh.NewCircleFan(32)
		res, err := newTestGenerator(t, tt.cutoff, nil).Generate(context.Background(), m)
		if err != nil {
			t.Fatalf("cutoff %v: Generate: %v", tt.cutoff, err)
		}
		rr := res.Regions[0]
		if len(rr.Groups) != tt.groups {
			t.Errorf("cutoff %v: groups = %d, want %d", tt.cutoff, len(rr.Groups), tt.groups)
		}
		if n := distinctLabels(rr.Groups); n != tt.distinct {
			t.Errorf("cutoff %v: distinct labels = %d, want %d", tt.cutoff, n, tt.distinct)
		}
		if res.Components != tt.components {
			t.Errorf("cutoff %v: components = %d, want %d", tt.cutoff, res.Components, tt.components)
		}
		if uv := m.UV(DefaultChannel).Data[0]; uv != ([4]float32{}) {
			t.Errorf("cutoff %v: centre UV = %v, want zero", tt.cutoff, uv)
		}
	}
}

func TestGenerate_BowtieSharesVertexLabels(t *testing.T) {
	m := mesh.NewBowtie()
	res, err := newTestGenerator(t, 10, nil).Generate(context.Background(), m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(res.Regions))
	}
	for i, rr := range res.Regions {
		if rr.ID.Super != 0 || rr.Order != i {
			t.Errorf("region %d: id %s, order %d", i, rr.ID, rr.Order)
		}
		checkCyclicInvariants(t, rr.Groups)
	}

	// The shared centre keeps the two labels the first triangle gave it.
	if n := len(res.State.Labels(0).Labels()); n != 2 {
		t.Errorf("centre vertex labels = %s, want two", res.State.Labels(0))
	}
	checkNoFilledTriangle(t, buildGraph(t, m), res.State)
}

func TestGenerate_AnnulusFallsBack(t *testing.T) {
	m := mesh.NewAnnulus(8)
	var warnings []string
	res, err := newTestGenerator(t, 10, &warnings).Generate(context.Background(), m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Regions[0].Outcome != OutcomeFallback {
		t.Errorf("outcome = %s, want fallback", res.Regions[0].Outcome)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "region 0.0") {
		t.Errorf("warnings = %v, want one naming region 0.0", warnings)
	}
	if res.MaxLabel != LabelFirst {
		t.Errorf("max label = %s, want First", res.MaxLabel)
	}
}

func TestGenerate_TimeoutLeavesRegionUnlabelled(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: time.Second}
	var warnings []string
	opts := DefaultOptions()
	opts.SolveTimeout = 5 * time.Second
	opts.Now = clock.Now
	opts.Warn = func(msg string) { warnings = append(warnings, msg) }
	gen, err := NewGenerator(opts)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	m := mesh.NewCircleFan(32)
	res, err := gen.Generate(context.Background(), m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Regions[0].Outcome != OutcomeTimeout {
		t.Errorf("outcome = %s, want timeout", res.Regions[0].Outcome)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "exceeded") {
		t.Errorf("warnings = %v, want one timeout warning", warnings)
	}
	if res.MaxLabel != LabelNone {
		t.Errorf("max label = %s, want None", res.MaxLabel)
	}
}

func TestLabelRegion_NoFeasibleLabeling(t *testing.T) {
	g := buildGraph(t, mesh.NewTriangle())
	gen := newTestGenerator(t, 10, nil)

	// Commit Fourth alone to a corner by hand, then relabel: the corner's
	// two edges would both need Fourth.
	state := VertexLabelState{labels: []LabelSet{LabelFourth.Bit(), 0, 0}}
	rr := RegionResult{ID: RegionID{Super: 2, Sub: 1}, BoundaryEdges: 3}
	_, err := gen.labelRegion(g, soleRegion(t, g), state, &rr)
	if !errors.Is(err, ErrNoFeasibleLabeling) {
		t.Errorf("labelRegion() error = %v, want ErrNoFeasibleLabeling", err)
	}
}

func TestGenerate_EmptyMesh(t *testing.T) {
	m := &mesh.Mesh{Name: "empty"}
	res, err := newTestGenerator(t, 10, nil).Generate(context.Background(), m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Regions) != 0 {
		t.Errorf("regions = %d, want 0", len(res.Regions))
	}
	if !m.UV(DefaultChannel).IsSet() {
		t.Error("UV channel should be written even for an empty mesh")
	}
}

func TestGenerate_InvalidMesh(t *testing.T) {
	m := &mesh.Mesh{Name: "broken", Positions: mesh.NewQuad().Positions, Submeshes: [][]int{{0, 1}}}
	_, err := newTestGenerator(t, 10, nil).Generate(context.Background(), m)
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("Generate() error = %v, want one naming the mesh", err)
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestGenerator(t, 10, nil).Generate(ctx, mesh.NewQuad())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerate_StripInvariants(t *testing.T) {
	for quads := 1; quads <= 6; quads++ {
		m := newStrip(quads)
		res, err := newTestGenerator(t, 10, nil).Generate(context.Background(), m)
		if err != nil {
			t.Fatalf("%d quads: Generate: %v", quads, err)
		}
		for _, rr := range res.Regions {
			checkCyclicInvariants(t, rr.Groups)
		}
		checkNoFilledTriangle(t, buildGraph(t, m), res.State)
	}
}
