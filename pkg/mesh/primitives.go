package mesh

import (
	gomath "math"

	"github.com/Faultbox/wireframe-uv/pkg/math"
)

// Primitive names accepted by Primitive.
const (
	PrimitiveTriangle   = "triangle"
	PrimitiveQuad       = "quad"
	PrimitiveCube       = "cube"
	PrimitiveEngineCube = "engine-cube"
	PrimitiveCircle     = "circle"
	PrimitiveAnnulus    = "annulus"
	PrimitiveBowtie     = "bowtie"
)

// PrimitiveNames lists the built-in primitives.
func PrimitiveNames() []string {
	return []string{
		PrimitiveTriangle, PrimitiveQuad, PrimitiveCube, PrimitiveEngineCube,
		PrimitiveCircle, PrimitiveAnnulus, PrimitiveBowtie,
	}
}

// Primitive builds a named primitive. Returns nil for unknown names.
func Primitive(name string) *Mesh {
	switch name {
	case PrimitiveTriangle:
		return NewTriangle()
	case PrimitiveQuad:
		return NewQuad()
	case PrimitiveCube:
		return NewCube()
	case PrimitiveEngineCube:
		return NewEngineCube()
	case PrimitiveCircle:
		return NewCircleFan(32)
	case PrimitiveAnnulus:
		return NewAnnulus(16)
	case PrimitiveBowtie:
		return NewBowtie()
	default:
		return nil
	}
}

// NewTriangle returns a single right triangle.
func NewTriangle() *Mesh {
	return &Mesh{
		Name:      PrimitiveTriangle,
		Positions: []math.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Submeshes: [][]int{{0, 1, 2}},
	}
}

// NewQuad returns a unit quad split along the 0-2 diagonal.
func NewQuad() *Mesh {
	return &Mesh{
		Name: PrimitiveQuad,
		Positions: []math.Vec3{
			{0, 0, 0}, // 0
			{1, 0, 0}, // 1
			{1, 1, 0}, // 2
			{0, 1, 0}, // 3
		},
		Submeshes: [][]int{{0, 1, 2, 0, 2, 3}},
	}
}

// cubeCorners are the 8 corners of a unit cube.
var cubeCorners = []math.Vec3{
	{0, 0, 0}, // 0
	{1, 0, 0}, // 1
	{1, 1, 0}, // 2
	{0, 1, 0}, // 3
	{0, 0, 1}, // 4
	{1, 0, 1}, // 5
	{1, 1, 1}, // 6
	{0, 1, 1}, // 7
}

// cubeFaces lists each face as a loop of corner indices.
var cubeFaces = [][4]int{
	{0, 3, 2, 1}, // bottom
	{4, 5, 6, 7}, // top
	{0, 1, 5, 4}, // front
	{1, 2, 6, 5}, // right
	{2, 3, 7, 6}, // back
	{3, 0, 4, 7}, // left
}

// NewCube returns a closed cube whose faces share their corner vertices.
func NewCube() *Mesh {
	var indices []int
	for _, f := range cubeFaces {
		indices = append(indices, f[0], f[1], f[2], f[0], f[2], f[3])
	}
	positions := make([]math.Vec3, len(cubeCorners))
	copy(positions, cubeCorners)
	return &Mesh{
		Name:      PrimitiveCube,
		Positions: positions,
		Submeshes: [][]int{indices},
	}
}

// NewEngineCube returns a cube built the way engines ship it: every face
// has its own four vertices, so the faces are not connected.
func NewEngineCube() *Mesh {
	var positions []math.Vec3
	var indices []int
	for _, f := range cubeFaces {
		base := len(positions)
		for _, c := range f {
			positions = append(positions, cubeCorners[c])
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return &Mesh{
		Name:      PrimitiveEngineCube,
		Positions: positions,
		Submeshes: [][]int{indices},
	}
}

// NewCircleFan returns a disc made of segments triangles around a centre
// vertex at index 0.
func NewCircleFan(segments int) *Mesh {
	positions := []math.Vec3{{0, 0, 0}}
	for i := 0; i < segments; i++ {
		positions = append(positions, ringPoint(i, segments, 1))
	}
	var indices []int
	for i := 0; i < segments; i++ {
		indices = append(indices, 0, 1+i, 1+(i+1)%segments)
	}
	return &Mesh{
		Name:      PrimitiveCircle,
		Positions: positions,
		Submeshes: [][]int{indices},
	}
}

// NewAnnulus returns a flat ring. Its boundary is two separate loops.
func NewAnnulus(segments int) *Mesh {
	var positions []math.Vec3
	for i := 0; i < segments; i++ {
		positions = append(positions, ringPoint(i, segments, 1))
	}
	for i := 0; i < segments; i++ {
		positions = append(positions, ringPoint(i, segments, 2))
	}
	var indices []int
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		in0, in1 := i, j
		out0, out1 := segments+i, segments+j
		indices = append(indices, in0, out0, out1, in0, out1, in1)
	}
	return &Mesh{
		Name:      PrimitiveAnnulus,
		Positions: positions,
		Submeshes: [][]int{indices},
	}
}

// NewBowtie returns two triangles touching at a single vertex (index 0).
// They form one shared-vertex region holding two shared-edge regions.
func NewBowtie() *Mesh {
	return &Mesh{
		Name: PrimitiveBowtie,
		Positions: []math.Vec3{
			{0, 0, 0},
			{1, 1, 0},
			{1, -1, 0},
			{-1, -1, 0},
			{-1, 1, 0},
		},
		Submeshes: [][]int{{0, 2, 1}, {0, 4, 3}},
	}
}

func ringPoint(i, segments int, radius float64) math.Vec3 {
	a := 2 * gomath.Pi * float64(i) / float64(segments)
	return math.Vec3{
		X: float32(radius * gomath.Cos(a)),
		Y: float32(radius * gomath.Sin(a)),
	}
}
