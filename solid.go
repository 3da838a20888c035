package forma

import (
	"math"

	"github.com/google/uuid"
)

// Face is one planar boundary face of a Solid: a single closed loop of
// vertices, counter-clockwise when viewed from outside the solid.
type Face struct {
	Loop []Vec3
}

// Normal returns the face's unit outward normal, computed with Newell's
// method so that mildly non-planar loops still yield a stable direction.
func (f Face) Normal() Vec3 {
	var n Vec3
	for i, a := range f.Loop {
		b := f.Loop[(i+1)%len(f.Loop)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Normalize()
}

// reversed returns the face with opposite orientation.
func (f Face) reversed() Face {
	loop := make([]Vec3, len(f.Loop))
	for i, v := range f.Loop {
		loop[len(loop)-1-i] = v
	}
	return Face{Loop: loop}
}

// SolidKind records how a solid's boundary was derived, for diagnostics and
// for choosing the parametric export path.
type SolidKind int

const (
	// SolidPrism is a straight extrusion of a polygon.
	SolidPrism SolidKind = iota
	// SolidShell is a hollow wall shell (outer minus inner prism).
	SolidShell
	// SolidMesh is a triangle-faced solid produced by boolean operations.
	SolidMesh
)

func (k SolidKind) String() string {
	switch k {
	case SolidPrism:
		return "prism"
	case SolidShell:
		return "shell"
	case SolidMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Solid is a boundary-represented volume: a closed set of planar faces plus
// provenance identifying the source room. Solids are immutable; every
// operation returns a new Solid.
type Solid struct {
	// ID uniquely identifies this solid within a job, for diagnostics.
	ID uuid.UUID

	// Room is the source room's name, carried for diagnostics and export.
	Room string

	// Kind records how the boundary was derived.
	Kind SolidKind

	Faces []Face
}

func newSolid(room string, kind SolidKind, faces []Face) *Solid {
	return &Solid{ID: uuid.New(), Room: room, Kind: kind, Faces: faces}
}

// FaceCount returns the number of boundary faces.
func (s *Solid) FaceCount() int { return len(s.Faces) }

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *Solid) BoundingBox() (min, max Vec3) {
	min = Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = min.Neg()
	for _, f := range s.Faces {
		for _, v := range f.Loop {
			min = minVec3(min, v)
			max = maxVec3(max, v)
		}
	}
	return min, max
}

// Translate returns a copy of the solid displaced by delta.
// Provenance (ID, Room, Kind) is preserved.
func (s *Solid) Translate(delta Vec3) *Solid {
	faces := make([]Face, len(s.Faces))
	for i, f := range s.Faces {
		loop := make([]Vec3, len(f.Loop))
		for j, v := range f.Loop {
			loop[j] = v.Add(delta)
		}
		faces[i] = Face{Loop: loop}
	}
	return &Solid{ID: s.ID, Room: s.Room, Kind: s.Kind, Faces: faces}
}

// Volume returns the enclosed volume, computed over the tessellated boundary
// with the divergence theorem. Valid only for watertight solids, which every
// forma construction path produces.
func (s *Solid) Volume() float64 {
	mesh := tessellateFaces(s.Faces, DefaultTolerance)
	return mesh.Volume()
}

// Prism extrudes a polygon straight up from z=0 to the given height.
func Prism(room string, poly Polygon, height float64) *Solid {
	return newSolid(room, SolidPrism, prismFaces(poly.Points(), 0, height))
}

// prismFaces builds the boundary of an extrusion of a counter-clockwise ring
// between two elevations: bottom cap (facing down), top cap (facing up), and
// one outward quad per ring edge.
func prismFaces(ring []Point, z0, z1 float64) []Face {
	n := len(ring)
	faces := make([]Face, 0, n+2)

	bottom := make([]Vec3, n)
	top := make([]Vec3, n)
	for i, p := range ring {
		// Bottom loop reversed so its normal faces -Z.
		bottom[n-1-i] = p.XYZ(z0)
		top[i] = p.XYZ(z1)
	}
	faces = append(faces, Face{Loop: bottom}, Face{Loop: top})

	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		faces = append(faces, Face{Loop: []Vec3{
			a.XYZ(z0), b.XYZ(z0), b.XYZ(z1), a.XYZ(z1),
		}})
	}
	return faces
}

// shellFaces builds a hollow wall shell between an outer ring and its inward
// offset: outward side quads, inward-facing cavity quads, and top/bottom
// annulus quads joining corresponding vertices. The inner cavity itself stays
// uncapped; the shell boundary is closed, so the solid remains watertight and
// its volume equals outer prism minus inner prism.
//
// Both rings are counter-clockwise and have equal vertex counts with 1:1
// correspondence, which the miter offset guarantees.
func shellFaces(outer, inner []Point, height float64) []Face {
	n := len(outer)
	faces := make([]Face, 0, 4*n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		oa, ob := outer[i], outer[j]
		ia, ib := inner[i], inner[j]
		// Outer wall, facing away from the room.
		faces = append(faces, Face{Loop: []Vec3{
			oa.XYZ(0), ob.XYZ(0), ob.XYZ(height), oa.XYZ(height),
		}})
		// Inner wall, facing the cavity.
		faces = append(faces, Face{Loop: []Vec3{
			ib.XYZ(0), ia.XYZ(0), ia.XYZ(height), ib.XYZ(height),
		}})
		// Bottom annulus strip, facing down.
		faces = append(faces, Face{Loop: []Vec3{
			oa.XYZ(0), ia.XYZ(0), ib.XYZ(0), ob.XYZ(0),
		}})
		// Top annulus strip, facing up.
		faces = append(faces, Face{Loop: []Vec3{
			oa.XYZ(height), ob.XYZ(height), ib.XYZ(height), ia.XYZ(height),
		}})
	}
	return faces
}

// orientedBox builds a rectangular box solid from a 2D center, a unit
// direction for its width axis, half extents, and a vertical range.
// Used for opening cut volumes.
func orientedBox(room string, center, dir Point, halfW, halfD, z0, z1 float64) *Solid {
	out := dir.PerpCW()
	ring := []Point{
		center.Sub(dir.Mul(halfW)).Sub(out.Mul(halfD)),
		center.Add(dir.Mul(halfW)).Sub(out.Mul(halfD)),
		center.Add(dir.Mul(halfW)).Add(out.Mul(halfD)),
		center.Sub(dir.Mul(halfW)).Add(out.Mul(halfD)),
	}
	if signedArea(ring) < 0 {
		reverse(ring)
	}
	return newSolid(room, SolidPrism, prismFaces(ring, z0, z1))
}
