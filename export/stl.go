package export

import (
	"bytes"
	"encoding/binary"

	"github.com/forma3d/forma"
)

// stlHeaderSize is the fixed STL header length in bytes.
const stlHeaderSize = 80

// stlTriangle is one binary STL record: facet normal, three vertices, and
// the unused attribute byte count.
type stlTriangle struct {
	Normal   [3]float32
	V1       [3]float32
	V2       [3]float32
	V3       [3]float32
	AttrSize uint16
}

// encodeSTL writes the binary STL layout: an 80-byte header, a uint32
// triangle count, then one fixed-size record per triangle, all
// little-endian.
func encodeSTL(mesh *forma.TriangleMesh, o options) ([]byte, error) {
	var buf bytes.Buffer
	var header [stlHeaderSize]byte
	copy(header[:], o.name)
	buf.Write(header[:])

	if err := binary.Write(&buf, binary.LittleEndian, uint32(mesh.TriangleCount())); err != nil {
		return nil, err
	}
	for i, f := range mesh.Faces {
		n := mesh.TriangleNormal(i)
		tri := stlTriangle{
			Normal: [3]float32{float32(n.X), float32(n.Y), float32(n.Z)},
			V1:     vec32(mesh.Vertices[f[0]]),
			V2:     vec32(mesh.Vertices[f[1]]),
			V3:     vec32(mesh.Vertices[f[2]]),
		}
		if err := binary.Write(&buf, binary.LittleEndian, tri); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func vec32(v forma.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
