package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/wireframe-uv/internal/cache"
	"github.com/Faultbox/wireframe-uv/internal/config"
	"github.com/Faultbox/wireframe-uv/internal/logger"
	"github.com/Faultbox/wireframe-uv/pkg/formats"
	"github.com/Faultbox/wireframe-uv/pkg/mesh"
	"github.com/Faultbox/wireframe-uv/pkg/topology"
	"github.com/Faultbox/wireframe-uv/pkg/wireframe"
)

// commandEnv is what every mesh command needs after flag parsing.
type commandEnv struct {
	cfg  *config.Config
	mesh *mesh.Mesh
}

// setup parses the shared flags, loads config, starts the logger and loads
// the input mesh.
func setup(fs *flag.FlagSet, args []string) (*commandEnv, error) {
	flags := config.RegisterFlags(fs)
	primitive := fs.String("primitive", "", "Built-in mesh name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, errors.Wrap(err, "starting logger")
	}
	logger.Sugar.Debugf("config: %+v", cfg)

	m, err := loadMesh(*primitive, fs.Arg(0))
	if err != nil {
		return nil, err
	}
	logger.Debug("mesh loaded",
		zap.String("mesh", m.Name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("submeshes", len(m.Submeshes)))

	return &commandEnv{cfg: cfg, mesh: m}, nil
}

func loadMesh(primitive, path string) (*mesh.Mesh, error) {
	if primitive != "" {
		m := mesh.Primitive(primitive)
		if m == nil {
			return nil, errors.Errorf("unknown primitive %q", primitive)
		}
		return m, nil
	}
	if path == "" {
		return nil, errors.New("no input: pass an OBJ file or -primitive")
	}
	obj, err := formats.ParseOBJFile(path)
	if err != nil {
		return nil, err
	}
	return obj.Mesh(), nil
}

func cmdInfo(args []string) error {
	env, err := setup(flag.NewFlagSet("info", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	m := env.mesh
	g, err := topology.FromMesh(m, logger.WarnSink(m.Name))
	if err != nil {
		return err
	}

	supers := g.GroupByVertex()
	subs := g.GroupByEdge()
	closed := 0
	for _, sub := range subs {
		if len(sub.BoundaryEdges(g)) == 0 {
			closed++
		}
	}

	fmt.Printf("Mesh:        %s\n", m.Name)
	fmt.Printf("Vertices:    %d\n", m.VertexCount())
	fmt.Printf("Triangles:   %d (%d submeshes, %d skipped)\n", len(g.Triangles), len(m.Submeshes), m.TriangleCount()-len(g.Triangles))
	fmt.Printf("Edges:       %d\n", len(g.Edges))
	fmt.Printf("Boundary:    %d edges\n", len(g.BoundaryEdges()))
	fmt.Printf("Non-manifold: %d edges\n", len(g.NonManifoldEdges()))
	fmt.Printf("Regions:     %d by shared vertex, %d by shared edge (%d closed)\n", len(supers), len(subs), closed)
	return nil
}

func cmdRegions(args []string) error {
	env, err := setup(flag.NewFlagSet("regions", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	m := env.mesh
	g, err := topology.FromMesh(m, logger.WarnSink(m.Name))
	if err != nil {
		return err
	}

	cutoff := env.cfg.Wireframe.AngleCutoffDegrees
	fmt.Printf("%-8s %9s %9s %-8s %6s %6s\n", "REGION", "TRIANGLES", "BOUNDARY", "CYCLE", "SAME", "ANGLE")
	for _, super := range g.GroupByVertex() {
		for _, sub := range g.GroupByEdgeWithin(super.Triangles) {
			id := wireframe.RegionID{Super: super.ID, Sub: sub.ID}
			boundary := len(sub.BoundaryEdges(g))

			status, same, angle := "closed", "-", "-"
			if boundary > 0 {
				cycle, ok, err := wireframe.ExtractBoundaryCycle(g, sub, cutoff)
				if err != nil {
					return errors.Wrapf(err, "region %s", id)
				}
				status = "no"
				if ok {
					status = "yes"
					same = fmt.Sprint(len(cycle.SameTriangleCuts))
					angle = fmt.Sprint(len(cycle.EdgeAngleCuts))
				}
			}
			fmt.Printf("%-8s %9d %9d %-8s %6s %6s\n", id, len(sub.Triangles), boundary, status, same, angle)
		}
	}
	return nil
}

func cmdLabel(args []string) error {
	fs := flag.NewFlagSet("label", flag.ExitOnError)
	output := fs.String("o", "", "Write the report to this file instead of stdout")
	noUVs := fs.Bool("no-uvs", false, "Leave per-vertex UVs out of the report")
	env, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := label(ctx, env.cfg, env.mesh)
	if err != nil {
		return err
	}
	if *noUVs {
		rep.UVs = nil
	}

	data, err := yaml.Marshal(rep)
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	if *output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		return err
	}
	logger.Info("report written", zap.String("path", *output))
	return nil
}

// label runs the generator, going through the result cache when enabled.
func label(ctx context.Context, cfg *config.Config, m *mesh.Mesh) (*labelReport, error) {
	opts := cfg.Options()
	opts.Warn = logger.WarnSink(m.Name)

	var uvCache *cache.Cache
	var key cache.Key
	if cfg.Cache.Enabled {
		var err error
		uvCache, err = cache.Open(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		defer uvCache.Close()

		key = cache.Fingerprint(m, opts.AngleCutoffDegrees, opts.Channel)
		entry, ok, err := uvCache.Get(key)
		if err != nil {
			logger.Warn("cache read failed", zap.Error(err))
		} else if ok {
			if err := m.SetUVs(opts.Channel, entry.Components, entry.Data); err != nil {
				return nil, err
			}
			logger.Info("cache hit", zap.String("mesh", m.Name), zap.String("key", fmt.Sprintf("%016x", uint64(key))))
			return newCachedReport(m, opts.Channel), nil
		}
	}

	gen, err := wireframe.NewGenerator(opts)
	if err != nil {
		return nil, err
	}
	res, err := gen.Generate(ctx, m)
	if err != nil {
		return nil, err
	}
	logResult(m, res)

	// Timed out regions depend on machine speed and are not cached.
	if uvCache != nil && !hasTimeouts(res) {
		uv := m.UV(opts.Channel)
		if err := uvCache.Put(key, &cache.Entry{Components: uv.Components, Data: uv.Data}); err != nil {
			logger.Warn("cache write failed", zap.Error(err))
		}
	}
	return newLabelReport(m, opts.Channel, res), nil
}

func hasTimeouts(res *wireframe.Result) bool {
	for _, rr := range res.Regions {
		if rr.Outcome == wireframe.OutcomeTimeout {
			return true
		}
	}
	return false
}

func logResult(m *mesh.Mesh, res *wireframe.Result) {
	outcomes := make(map[string]int)
	for _, rr := range res.Regions {
		outcomes[rr.Outcome.String()]++
	}
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := []zap.Field{
		zap.String("mesh", m.Name),
		zap.Int("regions", len(res.Regions)),
		zap.Stringer("max_label", res.MaxLabel),
		zap.Int("components", res.Components),
	}
	for _, name := range names {
		fields = append(fields, zap.Int(name, outcomes[name]))
	}
	logger.Info("labelling finished", fields...)
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	if fs.NArg() > 0 {
		if err := cfg.SaveTo(fs.Arg(0)); err != nil {
			return err
		}
		fmt.Printf("Config written to %s\n", fs.Arg(0))
		return nil
	}
	path, err := cfg.Save()
	if err != nil {
		return err
	}
	fmt.Printf("Config written to %s\n", path)
	return nil
}
