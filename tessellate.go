package forma

import "math"

// DefaultTolerance is the default chordal-deviation tolerance for
// tessellation, in the plan's length unit. It is the documented quality/size
// trade-off: smaller values increase triangle count, export size, and export
// time. forma's boundary faces are planar, so triangulation is exact at any
// tolerance; the tolerance still governs the vertex weld distance (a tenth of
// the tolerance) that closes seams between adjacent faces.
const DefaultTolerance = 0.1

// TessellateSolid converts a boundary-represented solid into a deduplicated
// triangle mesh at the given chordal tolerance. Coincident vertices within a
// tenth of the tolerance are merged so adjacent faces share vertices and a
// watertight boundary yields a watertight, 2-manifold mesh.
func TessellateSolid(s *Solid, tolerance float64) *TriangleMesh {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return tessellateFaces(s.Faces, tolerance)
}

// TessellateAssembly tessellates every solid of an assembly into one mesh.
// Welding happens per solid, never across solids: stacked floors touching at
// a slab stay separate closed shells instead of merging into a non-manifold
// seam, preserving the compound-not-fused contract.
func TessellateAssembly(a *Assembly, tolerance float64) *TriangleMesh {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	var mesh TriangleMesh
	for _, s := range a.Solids() {
		sub := tessellateFaces(s.Faces, tolerance)
		base := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, sub.Vertices...)
		for _, f := range sub.Faces {
			mesh.Faces = append(mesh.Faces, [3]int{f[0] + base, f[1] + base, f[2] + base})
		}
	}
	return &mesh
}

func tessellateFaces(faces []Face, tolerance float64) *TriangleMesh {
	b := newMeshBuilder(tolerance / 10)
	addFaces(b, faces)
	mesh := b.build()
	repairTJunctions(mesh, b.weld)
	return mesh
}

// repairTJunctions subdivides triangle edges at mesh vertices that lie on the
// edge interior within the weld distance. Boolean clipping can split one of
// two adjacent faces along a plane the other face never sees; the hanging
// vertex then sits mid-edge on the unsplit side, leaving that edge covered by
// one triangle in one direction and two in the other. Splitting the triangle
// at the hanging vertex restores one-to-one edge pairing.
//
// Each split makes the hanging vertex a corner of both fragments, so a given
// vertex can split a given triangle lineage at most once and the pass
// terminates. Meshes without hanging vertices pass through untouched.
func repairTJunctions(m *TriangleMesh, eps float64) {
	faces := m.Faces
	for fi := 0; fi < len(faces); fi++ {
		f := faces[fi]
	edges:
		for e := 0; e < 3; e++ {
			ia, ib := f[e], f[(e+1)%3]
			a, b := m.Vertices[ia], m.Vertices[ib]
			ab := b.Sub(a)
			length := ab.Length()
			if length < eps {
				continue
			}
			for k, v := range m.Vertices {
				if k == f[0] || k == f[1] || k == f[2] {
					continue
				}
				t := v.Sub(a).Dot(ab) / (length * length)
				// Interior only: splits at an endpoint would emit slivers.
				if t*length <= eps || (1-t)*length <= eps {
					continue
				}
				if v.Sub(a.Add(ab.Mul(t))).Length() > eps {
					continue
				}
				ic := f[(e+2)%3]
				faces[fi] = [3]int{ia, k, ic}
				faces = append(faces, [3]int{k, ib, ic})
				fi-- // revisit the shrunk triangle for further junctions
				break edges
			}
		}
	}
	m.Faces = faces
}

func addFaces(b *meshBuilder, faces []Face) {
	for _, f := range faces {
		for _, tri := range triangulateFace(f.Loop) {
			b.addTriangle(tri[0], tri[1], tri[2])
		}
	}
}

// triangulateFace splits a planar face loop into triangles that preserve the
// loop's orientation. Convex loops fan from the first vertex; non-convex
// loops are ear-clipped in the face plane.
func triangulateFace(loop []Vec3) [][3]Vec3 {
	n := len(loop)
	if n < 3 {
		return nil
	}
	if n == 3 {
		return [][3]Vec3{{loop[0], loop[1], loop[2]}}
	}

	uv := projectLoop(loop)
	if isConvexRing(uv) {
		tris := make([][3]Vec3, 0, n-2)
		for i := 1; i < n-1; i++ {
			tris = append(tris, [3]Vec3{loop[0], loop[i], loop[i+1]})
		}
		return tris
	}
	return earClip(loop, uv)
}

// projectLoop maps a 3D loop into the 2D coordinates of its own plane, with
// the basis chosen so counter-clockwise 2D winding corresponds to the loop's
// outward normal.
func projectLoop(loop []Vec3) []Point {
	normal := Face{Loop: loop}.Normal()
	// Pick the axis least aligned with the normal to seed the basis.
	seed := V3(1, 0, 0)
	if math.Abs(normal.X) > math.Abs(normal.Y) {
		seed = V3(0, 1, 0)
	}
	u := seed.Cross(normal).Normalize()
	v := normal.Cross(u)
	uv := make([]Point, len(loop))
	for i, p := range loop {
		uv[i] = Point{X: p.Dot(u), Y: p.Dot(v)}
	}
	return uv
}

func isConvexRing(uv []Point) bool {
	n := len(uv)
	for i := 0; i < n; i++ {
		a := uv[i]
		b := uv[(i+1)%n]
		c := uv[(i+2)%n]
		if b.Sub(a).Cross(c.Sub(b)) < -geomEps {
			return false
		}
	}
	return true
}

// earClip triangulates a simple, possibly non-convex loop.
// Falls back to a fan if no ear is found (degenerate input).
func earClip(loop []Vec3, uv []Point) [][3]Vec3 {
	n := len(loop)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// The projection keeps outward winding counter-clockwise; guard anyway.
	if signedArea(uv) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	tris := make([][3]Vec3, 0, n-2)
	for len(idx) > 3 {
		clipped := false
		for i := 0; i < len(idx); i++ {
			prev := idx[(i-1+len(idx))%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]
			a, b, c := uv[prev], uv[cur], uv[next]
			if b.Sub(a).Cross(c.Sub(b)) <= geomEps {
				continue // reflex or degenerate corner
			}
			ear := true
			for _, j := range idx {
				if j == prev || j == cur || j == next {
					continue
				}
				if pointInTriangle(uv[j], a, b, c) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}
			tris = append(tris, [3]Vec3{loop[prev], loop[cur], loop[next]})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Degenerate ring: fall back to a fan from the first remaining vertex.
			for i := 1; i < len(idx)-1; i++ {
				tris = append(tris, [3]Vec3{loop[idx[0]], loop[idx[i]], loop[idx[i+1]]})
			}
			return tris
		}
	}
	tris = append(tris, [3]Vec3{loop[idx[0]], loop[idx[1]], loop[idx[2]]})
	return tris
}

func pointInTriangle(p, a, b, c Point) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	hasNeg := d1 < -geomEps || d2 < -geomEps || d3 < -geomEps
	hasPos := d1 > geomEps || d2 > geomEps || d3 > geomEps
	return !(hasNeg && hasPos)
}
