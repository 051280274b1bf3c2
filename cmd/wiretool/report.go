package main

import (
	"github.com/Faultbox/wireframe-uv/pkg/mesh"
	"github.com/Faultbox/wireframe-uv/pkg/wireframe"
)

// labelReport is the YAML document written by the label command.
type labelReport struct {
	Mesh       string         `yaml:"mesh"`
	Vertices   int            `yaml:"vertices"`
	Triangles  int            `yaml:"triangles"`
	Channel    int            `yaml:"channel"`
	Components int            `yaml:"components"`
	MaxLabel   string         `yaml:"max_label,omitempty"`
	Cached     bool           `yaml:"cached,omitempty"`
	Regions    []regionReport `yaml:"regions,omitempty"`
	UVs        []vertexUV     `yaml:"uvs,omitempty"`
}

type regionReport struct {
	ID            string        `yaml:"id"`
	Order         int           `yaml:"order"`
	Triangles     int           `yaml:"triangles"`
	BoundaryEdges int           `yaml:"boundary_edges"`
	Outcome       string        `yaml:"outcome"`
	SameTriangle  int           `yaml:"same_triangle_cuts,omitempty"`
	EdgeAngle     int           `yaml:"edge_angle_cuts,omitempty"`
	Groups        []groupReport `yaml:"groups,omitempty"`
}

type groupReport struct {
	Kind        string `yaml:"kind"`
	Label       string `yaml:"label"`
	Edges       int    `yaml:"edges"`
	Start       *int   `yaml:"start,omitempty"`
	Cut         string `yaml:"cut,omitempty"`
	Connections []int  `yaml:"connections,omitempty,flow"`
}

type vertexUV struct {
	Vertex int       `yaml:"vertex"`
	Labels string    `yaml:"labels,omitempty"`
	UV     []float32 `yaml:"uv,flow"`
}

func newLabelReport(m *mesh.Mesh, channel int, res *wireframe.Result) *labelReport {
	rep := &labelReport{
		Mesh:       m.Name,
		Vertices:   m.VertexCount(),
		Triangles:  m.TriangleCount(),
		Channel:    channel,
		Components: res.Components,
		MaxLabel:   res.MaxLabel.String(),
	}

	for _, rr := range res.Regions {
		r := regionReport{
			ID:            rr.ID.String(),
			Order:         rr.Order,
			Triangles:     rr.Triangles,
			BoundaryEdges: rr.BoundaryEdges,
			Outcome:       rr.Outcome.String(),
		}
		if rr.Cycle != nil {
			r.SameTriangle = len(rr.Cycle.SameTriangleCuts)
			r.EdgeAngle = len(rr.Cycle.EdgeAngleCuts)
		}
		for _, eg := range rr.Groups {
			gr := groupReport{
				Kind:  eg.Kind.String(),
				Label: eg.Label.String(),
				Edges: len(eg.Edges),
			}
			if eg.Kind == wireframe.CyclicGroup {
				start := eg.Start
				gr.Start = &start
				gr.Cut = eg.Cut.String()
			} else {
				gr.Connections = eg.Connections
			}
			r.Groups = append(r.Groups, gr)
		}
		rep.Regions = append(rep.Regions, r)
	}

	rep.UVs = vertexUVs(m, channel, func(v int) string {
		if labels := res.State.Labels(v); !labels.IsEmpty() {
			return labels.String()
		}
		return ""
	})
	return rep
}

// newCachedReport describes a mesh whose UVs came from the cache. Region
// details are not stored there.
func newCachedReport(m *mesh.Mesh, channel int) *labelReport {
	uv := m.UV(channel)
	return &labelReport{
		Mesh:       m.Name,
		Vertices:   m.VertexCount(),
		Triangles:  m.TriangleCount(),
		Channel:    channel,
		Components: uv.Components,
		Cached:     true,
		UVs:        vertexUVs(m, channel, func(int) string { return "" }),
	}
}

func vertexUVs(m *mesh.Mesh, channel int, labels func(v int) string) []vertexUV {
	uv := m.UV(channel)
	out := make([]vertexUV, len(uv.Data))
	for v, value := range uv.Data {
		out[v] = vertexUV{
			Vertex: v,
			Labels: labels(v),
			UV:     append([]float32(nil), value[:uv.Components]...),
		}
	}
	return out
}
