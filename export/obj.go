package export

import (
	"bytes"
	"fmt"

	"github.com/forma3d/forma"
)

// encodeOBJ writes the Wavefront-style ASCII listing: `v x y z` vertex lines
// and 1-based `f i j k` face lines. Each story becomes its own `o` object so
// floors stay individually selectable downstream.
func encodeOBJ(a *forma.Assembly, o options) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", o.name)

	base := 1 // OBJ indices are 1-based and global across objects
	for _, story := range a.Stories {
		sub := forma.Assembly{Stories: []forma.Story{story}}
		mesh := forma.TessellateAssembly(&sub, o.tolerance)
		if mesh.IsEmpty() {
			continue
		}
		fmt.Fprintf(&buf, "o floor_%d\n", story.Index)
		for _, v := range mesh.Vertices {
			fmt.Fprintf(&buf, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
		}
		for _, f := range mesh.Faces {
			fmt.Fprintf(&buf, "f %d %d %d\n", base+f[0], base+f[1], base+f[2])
		}
		base += mesh.VertexCount()
	}
	return buf.Bytes(), nil
}
