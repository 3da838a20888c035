package export

import (
	"bytes"
	"fmt"

	"github.com/forma3d/forma"
)

// encodeOFF writes the simple text OFF layout: the OFF magic line, a
// vertex/face/edge count line, then coordinate lines and 3-indexed face
// lines.
func encodeOFF(mesh *forma.TriangleMesh, o options) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "OFF\n")
	fmt.Fprintf(&buf, "%d %d 0\n", mesh.VertexCount(), mesh.TriangleCount())
	for _, v := range mesh.Vertices {
		fmt.Fprintf(&buf, "%.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	for _, f := range mesh.Faces {
		fmt.Fprintf(&buf, "3 %d %d %d\n", f[0], f[1], f[2])
	}
	return buf.Bytes(), nil
}
