package forma

import (
	"math"
	"testing"
)

// unitCubeMesh builds a unit cube with outward winding by hand.
func unitCubeMesh() *TriangleMesh {
	b := newMeshBuilder(1e-6)
	ring := []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	addFaces(b, prismFaces(ring, 0, 1))
	return b.build()
}

func TestTriangleMesh_Cube(t *testing.T) {
	m := unitCubeMesh()
	if got := m.VertexCount(); got != 8 {
		t.Errorf("expected 8 welded vertices, got %d", got)
	}
	if got := m.TriangleCount(); got != 12 {
		t.Errorf("expected 12 triangles, got %d", got)
	}
	if !m.IsWatertight() {
		t.Error("cube mesh not watertight")
	}
	if got := m.Volume(); math.Abs(got-1) > 1e-9 {
		t.Errorf("volume: expected 1, got %g", got)
	}
	if got := m.SurfaceArea(); math.Abs(got-6) > 1e-9 {
		t.Errorf("surface area: expected 6, got %g", got)
	}
}

func TestTriangleMesh_OpenNotWatertight(t *testing.T) {
	m := unitCubeMesh()
	open := &TriangleMesh{Vertices: m.Vertices, Faces: m.Faces[:len(m.Faces)-1]}
	if open.IsWatertight() {
		t.Error("mesh with a missing triangle reported watertight")
	}
	var empty TriangleMesh
	if empty.IsWatertight() {
		t.Error("empty mesh reported watertight")
	}
}

func TestMeshBuilder_WeldsAndSkipsDegenerate(t *testing.T) {
	b := newMeshBuilder(0.01)
	// Two triangles sharing an edge within the weld distance.
	b.addTriangle(V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0))
	b.addTriangle(V3(1, 0.0001, 0), V3(1, 1, 0), V3(0, 1, 0.0001))
	// Degenerate sliver collapsing under welding.
	b.addTriangle(V3(0, 0, 0), V3(0.0001, 0, 0), V3(0, 1, 0))
	m := b.build()
	if got := m.VertexCount(); got != 4 {
		t.Errorf("expected 4 welded vertices, got %d", got)
	}
	if got := m.TriangleCount(); got != 2 {
		t.Errorf("expected 2 triangles (sliver skipped), got %d", got)
	}
}
