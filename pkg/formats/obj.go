// Package formats reads mesh interchange files into mesh.Mesh values.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/Faultbox/wireframe-uv/pkg/math"
	"github.com/Faultbox/wireframe-uv/pkg/mesh"
)

// OBJ format errors.
var (
	ErrInvalidOBJ         = errors.New("invalid OBJ data")
	ErrOBJIndexOutOfRange = errors.New("OBJ index out of range")
	ErrOBJShortFace       = errors.New("OBJ face has fewer than 3 vertices")
)

// OBJ is a parsed Wavefront OBJ file.
type OBJ struct {
	Name      string
	Positions []math.Vec3
	TexCoords [][2]float32
	Normals   []math.Vec3
	Groups    []OBJGroup
}

// OBJGroup is a run of triangles sharing one material. Polygons are fan
// triangulated.
type OBJGroup struct {
	Material string
	Indices  []int
}

// TriangleCount returns the number of triangles across all groups.
func (o *OBJ) TriangleCount() int {
	n := 0
	for _, g := range o.Groups {
		n += len(g.Indices) / 3
	}
	return n
}

// Mesh converts the file to a mesh with one submesh per material group.
func (o *OBJ) Mesh() *mesh.Mesh {
	m := &mesh.Mesh{
		Name:      o.Name,
		Positions: append([]math.Vec3(nil), o.Positions...),
	}
	for _, g := range o.Groups {
		m.Submeshes = append(m.Submeshes, append([]int(nil), g.Indices...))
	}
	return m
}

var objLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"comment", `#[^\n]*`},
	{"EOL", `\r?\n`},
	{"whitespace", `[ \t]+`},
	{"Number", `[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`},
	{"Slash", `/`},
	{"Ident", `[^\s/#]+`},
})

type objFile struct {
	Statements []*objStatement `EOL* ( @@ EOL* )*`
}

type objStatement struct {
	Pos lexer.Position

	Vertex   []float32        `  "v" @Number+`
	TexCoord []float32        `| "vt" @Number+`
	Normal   []float32        `| "vn" @Number+`
	Face     []*objFaceVertex `| "f" @@+`
	Material *string          `| "usemtl" @( Ident | Number )+`
	Object   *string          `| "o" @( Ident | Number )+`
	Other    string           `| @Ident ( Ident | Number | "/" )*`
}

// objFaceVertex is "p", "p/t", "p//n" or "p/t/n".
type objFaceVertex struct {
	Position int           `@Number`
	Refs     []*objFaceRef `@@*`
}

type objFaceRef struct {
	Slash string `@"/"`
	Index *int   `@Number?`
}

var objParser = participle.MustBuild[objFile](
	participle.Lexer(objLexer),
)

// ParseOBJ parses OBJ text. Supported statements are v, vt, vn, f, o and
// usemtl; everything else is ignored.
func ParseOBJ(data []byte) (*OBJ, error) {
	file, err := objParser.ParseBytes("", data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
	}

	obj := &OBJ{}
	current := -1
	startGroup := func(material string) {
		if current >= 0 && len(obj.Groups[current].Indices) == 0 {
			obj.Groups[current].Material = material
			return
		}
		obj.Groups = append(obj.Groups, OBJGroup{Material: material})
		current = len(obj.Groups) - 1
	}

	for _, st := range file.Statements {
		switch {
		case st.Vertex != nil:
			if len(st.Vertex) < 3 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrInvalidOBJ, st.Pos.Line)
			}
			obj.Positions = append(obj.Positions, math.Vec3{X: st.Vertex[0], Y: st.Vertex[1], Z: st.Vertex[2]})

		case st.TexCoord != nil:
			var uv [2]float32
			copy(uv[:], st.TexCoord)
			obj.TexCoords = append(obj.TexCoords, uv)

		case st.Normal != nil:
			if len(st.Normal) < 3 {
				return nil, fmt.Errorf("%w: line %d: normal needs 3 components", ErrInvalidOBJ, st.Pos.Line)
			}
			obj.Normals = append(obj.Normals, math.Vec3{X: st.Normal[0], Y: st.Normal[1], Z: st.Normal[2]})

		case st.Face != nil:
			if current < 0 {
				startGroup("")
			}
			indices, err := obj.resolveFace(st)
			if err != nil {
				return nil, err
			}
			for i := 1; i+1 < len(indices); i++ {
				obj.Groups[current].Indices = append(obj.Groups[current].Indices, indices[0], indices[i], indices[i+1])
			}

		case st.Material != nil:
			startGroup(*st.Material)

		case st.Object != nil:
			if obj.Name == "" {
				obj.Name = *st.Object
			}
		}
	}

	if current >= 0 && len(obj.Groups[current].Indices) == 0 {
		obj.Groups = obj.Groups[:current]
	}
	return obj, nil
}

// ParseOBJFile reads and parses an OBJ file. The mesh is named after the
// file when it has no "o" statement.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	obj, err := ParseOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if obj.Name == "" {
		obj.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return obj, nil
}

// resolveFace returns zero-based position indices of a face, checking the
// texture and normal references too.
func (o *OBJ) resolveFace(st *objStatement) ([]int, error) {
	if len(st.Face) < 3 {
		return nil, fmt.Errorf("%w: line %d", ErrOBJShortFace, st.Pos.Line)
	}

	indices := make([]int, len(st.Face))
	for i, fv := range st.Face {
		p, err := resolveIndex(fv.Position, len(o.Positions), st.Pos.Line)
		if err != nil {
			return nil, err
		}
		indices[i] = p

		if len(fv.Refs) > 2 {
			return nil, fmt.Errorf("%w: line %d: too many '/' in face vertex", ErrInvalidOBJ, st.Pos.Line)
		}
		counts := []int{len(o.TexCoords), len(o.Normals)}
		for r, ref := range fv.Refs {
			if ref.Index == nil {
				continue
			}
			if _, err := resolveIndex(*ref.Index, counts[r], st.Pos.Line); err != nil {
				return nil, err
			}
		}
	}
	return indices, nil
}

// resolveIndex maps a one-based or negative relative OBJ index to a
// zero-based one.
func resolveIndex(idx, count, line int) (int, error) {
	resolved := idx - 1
	if idx < 0 {
		resolved = count + idx
	}
	if idx == 0 || resolved < 0 || resolved >= count {
		return 0, fmt.Errorf("%w: line %d: index %d with %d elements", ErrOBJIndexOutOfRange, line, idx, count)
	}
	return resolved, nil
}
