package export

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/forma3d/forma"
)

// encodePLY writes the binary little-endian PLY layout: an ASCII header
// declaring the vertex and face element blocks, followed by float32 vertex
// records and uchar-counted int32 index lists.
func encodePLY(mesh *forma.TriangleMesh, o options) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "ply\n")
	fmt.Fprintf(&buf, "format binary_little_endian 1.0\n")
	fmt.Fprintf(&buf, "comment %s\n", o.name)
	fmt.Fprintf(&buf, "element vertex %d\n", mesh.VertexCount())
	fmt.Fprintf(&buf, "property float x\n")
	fmt.Fprintf(&buf, "property float y\n")
	fmt.Fprintf(&buf, "property float z\n")
	fmt.Fprintf(&buf, "element face %d\n", mesh.TriangleCount())
	fmt.Fprintf(&buf, "property list uchar int vertex_indices\n")
	fmt.Fprintf(&buf, "end_header\n")

	for _, v := range mesh.Vertices {
		if err := binary.Write(&buf, binary.LittleEndian, vec32(v)); err != nil {
			return nil, err
		}
	}
	for _, f := range mesh.Faces {
		buf.WriteByte(3)
		idx := [3]int32{int32(f[0]), int32(f[1]), int32(f[2])}
		if err := binary.Write(&buf, binary.LittleEndian, idx); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
