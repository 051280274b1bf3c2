// Package mesh holds triangle mesh data shared by the topology and
// wireframe labelling code.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/wireframe-uv/pkg/math"
)

// MaxUVChannels is the number of UV slots a mesh carries.
const MaxUVChannels = 8

// Mesh errors.
var (
	ErrInvalidChannel    = errors.New("invalid UV channel")
	ErrInvalidComponents = errors.New("UV component count must be 2, 3 or 4")
	ErrUVLengthMismatch  = errors.New("UV data length does not match vertex count")
	ErrInvalidIndexCount = errors.New("triangle index count is not a multiple of 3")
	ErrIndexOutOfRange   = errors.New("triangle index out of range")
)

// UVChannel is one UV slot. Every vertex stores four floats; only the first
// Components of them are meaningful.
type UVChannel struct {
	Components int
	Data       [][4]float32
}

// IsSet reports whether the channel has been written.
func (c UVChannel) IsSet() bool {
	return c.Components > 0
}

// Mesh is an indexed triangle mesh split into submeshes.
type Mesh struct {
	Name      string
	Positions []math.Vec3
	Submeshes [][]int // flat triangle index buffers, 3 indices per triangle
	UVs       [MaxUVChannels]UVChannel
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles across all submeshes.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, sub := range m.Submeshes {
		n += len(sub) / 3
	}
	return n
}

// Validate checks that every submesh index buffer is well formed.
func (m *Mesh) Validate() error {
	for s, sub := range m.Submeshes {
		if len(sub)%3 != 0 {
			return fmt.Errorf("submesh %d has %d indices: %w", s, len(sub), ErrInvalidIndexCount)
		}
		for i, idx := range sub {
			if idx < 0 || idx >= len(m.Positions) {
				return fmt.Errorf("submesh %d index %d = %d (vertices: %d): %w",
					s, i, idx, len(m.Positions), ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// UV returns the given channel, or an empty channel if out of range.
func (m *Mesh) UV(channel int) UVChannel {
	if channel < 0 || channel >= MaxUVChannels {
		return UVChannel{}
	}
	return m.UVs[channel]
}

// SetUVs replaces a UV channel in place.
func (m *Mesh) SetUVs(channel, components int, data [][4]float32) error {
	if channel < 0 || channel >= MaxUVChannels {
		return fmt.Errorf("channel %d: %w", channel, ErrInvalidChannel)
	}
	if components < 2 || components > 4 {
		return fmt.Errorf("components %d: %w", components, ErrInvalidComponents)
	}
	if len(data) != len(m.Positions) {
		return fmt.Errorf("got %d entries for %d vertices: %w", len(data), len(m.Positions), ErrUVLengthMismatch)
	}
	m.UVs[channel] = UVChannel{Components: components, Data: data}
	return nil
}
