package forma

import "math"

// TriangleMesh is a deduplicated triangle mesh: shared vertices plus indexed
// triangles with counter-clockwise outward winding. It is the uniform
// structure every mesh exporter consumes; exporters never mutate it.
type TriangleMesh struct {
	Vertices []Vec3
	Faces    [][3]int
}

// VertexCount returns the number of unique vertices.
func (m *TriangleMesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles.
func (m *TriangleMesh) TriangleCount() int { return len(m.Faces) }

// IsEmpty returns true if the mesh has no geometry.
func (m *TriangleMesh) IsEmpty() bool { return len(m.Faces) == 0 }

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *TriangleMesh) Bounds() (min, max Vec3) {
	min = Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = min.Neg()
	for _, v := range m.Vertices {
		min = minVec3(min, v)
		max = maxVec3(max, v)
	}
	return min, max
}

// TriangleNormal returns the unit normal of triangle i.
func (m *TriangleMesh) TriangleNormal(i int) Vec3 {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Volume returns the signed volume enclosed by the mesh via the divergence
// theorem. Positive for outward-wound watertight meshes.
func (m *TriangleMesh) Volume() float64 {
	var vol float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		vol += a.Dot(b.Cross(c))
	}
	return vol / 6
}

// SurfaceArea returns the total area of all triangles.
func (m *TriangleMesh) SurfaceArea() float64 {
	var area float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		area += b.Sub(a).Cross(c.Sub(a)).Length() / 2
	}
	return area
}

// IsWatertight reports whether the mesh is a closed 2-manifold: every
// undirected edge is shared by exactly two triangles, traversed once in each
// direction (consistent outward orientation).
func (m *TriangleMesh) IsWatertight() bool {
	if m.IsEmpty() {
		return false
	}
	type edge struct{ a, b int }
	counts := make(map[edge]int, len(m.Faces)*3)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a == b {
				return false
			}
			counts[edge{a, b}]++
		}
	}
	for e, c := range counts {
		if c != 1 || counts[edge{e.b, e.a}] != 1 {
			return false
		}
	}
	return true
}

// meshBuilder accumulates triangles while welding coincident vertices.
// Vertices are keyed on their position quantized to the weld distance, the
// same scheme the binary STL readers use to recover shared vertices from a
// triangle soup.
type meshBuilder struct {
	weld  float64
	index map[[3]int64]int
	mesh  TriangleMesh
}

func newMeshBuilder(weld float64) *meshBuilder {
	if weld <= 0 {
		weld = DefaultTolerance / 10
	}
	return &meshBuilder{weld: weld, index: make(map[[3]int64]int)}
}

func (b *meshBuilder) vertex(v Vec3) int {
	key := [3]int64{
		int64(math.Round(v.X / b.weld)),
		int64(math.Round(v.Y / b.weld)),
		int64(math.Round(v.Z / b.weld)),
	}
	if i, ok := b.index[key]; ok {
		return i
	}
	i := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	b.index[key] = i
	return i
}

// addTriangle welds the three corners and appends the triangle.
// Triangles that collapse under welding are skipped.
func (b *meshBuilder) addTriangle(v0, v1, v2 Vec3) {
	i0, i1, i2 := b.vertex(v0), b.vertex(v1), b.vertex(v2)
	if i0 == i1 || i1 == i2 || i2 == i0 {
		return
	}
	b.mesh.Faces = append(b.mesh.Faces, [3]int{i0, i1, i2})
}

func (b *meshBuilder) build() *TriangleMesh {
	return &b.mesh
}
