package wireframe

import (
	"fmt"
	"strings"

	"github.com/Faultbox/wireframe-uv/pkg/topology"
)

// TextureLabel selects which UV component marks an edge group.
type TextureLabel uint8

const (
	LabelNone TextureLabel = iota
	LabelFirst
	LabelSecond
	LabelThird
	LabelFourth
)

// MaxTextureLabel is the largest label the encoding supports.
const MaxTextureLabel = LabelFourth

// String returns a human-readable label name.
func (l TextureLabel) String() string {
	switch l {
	case LabelNone:
		return "None"
	case LabelFirst:
		return "First"
	case LabelSecond:
		return "Second"
	case LabelThird:
		return "Third"
	case LabelFourth:
		return "Fourth"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(l))
	}
}

// Bit returns the set holding only l. LabelNone maps to the empty set.
func (l TextureLabel) Bit() LabelSet {
	if l == LabelNone || l > MaxTextureLabel {
		return 0
	}
	return LabelSet(1) << (l - 1)
}

// LabelSet is a bit set over First..Fourth.
type LabelSet uint8

// Has reports whether l is in the set.
func (s LabelSet) Has(l TextureLabel) bool {
	return l != LabelNone && s&l.Bit() != 0
}

// With returns the set with l added.
func (s LabelSet) With(l TextureLabel) LabelSet {
	return s | l.Bit()
}

// IsEmpty reports whether no label is set.
func (s LabelSet) IsEmpty() bool {
	return s == 0
}

// Labels returns the labels in ascending order.
func (s LabelSet) Labels() []TextureLabel {
	var out []TextureLabel
	for l := LabelFirst; l <= MaxTextureLabel; l++ {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Max returns the largest label in the set, or LabelNone.
func (s LabelSet) Max() TextureLabel {
	for l := MaxTextureLabel; l >= LabelFirst; l-- {
		if s.Has(l) {
			return l
		}
	}
	return LabelNone
}

// String returns the set as "{First,Third}".
func (s LabelSet) String() string {
	names := make([]string, 0, 4)
	for _, l := range s.Labels() {
		names = append(names, l.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// VertexLabelState records, per vertex, every label committed to it by the
// regions processed so far in one pass. Commit never clears a bit and never
// mutates the receiver.
type VertexLabelState struct {
	labels []LabelSet
}

// NewVertexLabelState returns an empty state for n vertices.
func NewVertexLabelState(n int) VertexLabelState {
	return VertexLabelState{labels: make([]LabelSet, n)}
}

// Len returns the number of vertices tracked.
func (s VertexLabelState) Len() int {
	return len(s.labels)
}

// Labels returns the labels committed to vertex v.
func (s VertexLabelState) Labels(v int) LabelSet {
	if v < 0 || v >= len(s.labels) {
		return 0
	}
	return s.labels[v]
}

// CountLabeled returns how many of the given vertices carry a label.
func (s VertexLabelState) CountLabeled(vertices []int) int {
	n := 0
	for _, v := range vertices {
		if !s.Labels(v).IsEmpty() {
			n++
		}
	}
	return n
}

// MaxLabel returns the largest label committed to any vertex.
func (s VertexLabelState) MaxLabel() TextureLabel {
	var all LabelSet
	for _, set := range s.labels {
		all |= set
	}
	return all.Max()
}

// Commit returns a new state with every group's label added to the
// endpoints of the group's edges.
func (s VertexLabelState) Commit(g *topology.Graph, groups []EdgeGroup) VertexLabelState {
	next := VertexLabelState{labels: make([]LabelSet, len(s.labels))}
	copy(next.labels, s.labels)
	for i := range groups {
		bit := groups[i].Label.Bit()
		for _, e := range groups[i].Edges {
			k := g.Edges[e].Key
			next.labels[k.V0] |= bit
			next.labels[k.V1] |= bit
		}
	}
	return next
}
