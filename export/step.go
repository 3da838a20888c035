package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/forma3d/forma"
)

// stepWriter emits numbered ISO-10303-21 data-section entities.
// Entity numbers are assigned sequentially, so a given assembly always
// serializes to the same graph.
type stepWriter struct {
	buf  bytes.Buffer
	next int
}

func (w *stepWriter) entity(format string, args ...any) int {
	w.next++
	fmt.Fprintf(&w.buf, "#%d=%s;\n", w.next, fmt.Sprintf(format, args...))
	return w.next
}

// refs renders an entity id list as "(#1,#2,...)".
func refs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// encodeSTEP serializes the boundary representation directly, never a
// tessellated mesh, into an ISO-10303-21 style exchange structure: header,
// application-protocol tag, and an entity graph of faces, loops, and vertex
// points. Each solid becomes a MANIFOLD_SOLID_BREP over a CLOSED_SHELL of
// planar ADVANCED_FACEs bounded by POLY_LOOPs.
func encodeSTEP(a *forma.Assembly, o options) ([]byte, error) {
	var out bytes.Buffer
	out.WriteString("ISO-10303-21;\n")
	out.WriteString("HEADER;\n")
	fmt.Fprintf(&out, "FILE_DESCRIPTION(('%s'),'2;1');\n", o.name)
	fmt.Fprintf(&out, "FILE_NAME('%s.step','%s',('forma'),('forma'),'forma','forma','');\n",
		o.name, o.timestamp.UTC().Format("2006-01-02T15:04:05"))
	out.WriteString("FILE_SCHEMA(('CONFIG_CONTROL_DESIGN'));\n")
	out.WriteString("ENDSEC;\n")
	out.WriteString("DATA;\n")

	w := &stepWriter{}
	appCtx := w.entity("APPLICATION_CONTEXT('architectural building geometry')")
	w.entity("APPLICATION_PROTOCOL_DEFINITION('international standard','config_control_design',1994,#%d)", appCtx)

	var brepIDs []int
	for _, story := range a.Stories {
		for _, solid := range story.Solids {
			var faceIDs []int
			for _, face := range solid.Faces {
				if len(face.Loop) < 3 {
					continue
				}
				ptIDs := make([]int, len(face.Loop))
				for i, v := range face.Loop {
					ptIDs[i] = w.entity("CARTESIAN_POINT('',(%.6f,%.6f,%.6f))", v.X, v.Y, v.Z)
				}
				loopID := w.entity("POLY_LOOP('',%s)", refs(ptIDs))
				boundID := w.entity("FACE_OUTER_BOUND('',#%d,.T.)", loopID)

				n := face.Normal()
				ref := face.Loop[1].Sub(face.Loop[0]).Normalize()
				nID := w.entity("DIRECTION('',(%.6f,%.6f,%.6f))", n.X, n.Y, n.Z)
				refID := w.entity("DIRECTION('',(%.6f,%.6f,%.6f))", ref.X, ref.Y, ref.Z)
				axisID := w.entity("AXIS2_PLACEMENT_3D('',#%d,#%d,#%d)", ptIDs[0], nID, refID)
				planeID := w.entity("PLANE('',#%d)", axisID)
				faceIDs = append(faceIDs, w.entity("ADVANCED_FACE('',(#%d),#%d,.T.)", boundID, planeID))
			}
			shellID := w.entity("CLOSED_SHELL('',%s)", refs(faceIDs))
			brepIDs = append(brepIDs, w.entity("MANIFOLD_SOLID_BREP('%s',#%d)", solid.Room, shellID))
		}
	}

	ctxID := w.entity("GEOMETRIC_REPRESENTATION_CONTEXT(3)")
	w.entity("ADVANCED_BREP_SHAPE_REPRESENTATION('%s',%s,#%d)", o.name, refs(brepIDs), ctxID)

	out.Write(w.buf.Bytes())
	out.WriteString("ENDSEC;\n")
	out.WriteString("END-ISO-10303-21;\n")
	return out.Bytes(), nil
}
