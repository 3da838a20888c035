package forma

import (
	"fmt"
	"log/slog"

	"github.com/forma3d/forma/internal/csg"
)

// toCSG triangulates a solid's faces into the convex polygons the boolean
// kernel requires.
func toCSG(s *Solid) []csg.Polygon {
	var polys []csg.Polygon
	for _, f := range s.Faces {
		for _, tri := range triangulateFace(f.Loop) {
			polys = append(polys, csg.NewPolygon([]csg.Vec{
				{X: tri[0].X, Y: tri[0].Y, Z: tri[0].Z},
				{X: tri[1].X, Y: tri[1].Y, Z: tri[1].Z},
				{X: tri[2].X, Y: tri[2].Y, Z: tri[2].Z},
			}))
		}
	}
	return polys
}

// fromCSG rebuilds a mesh-backed solid from the kernel's result polygons,
// keeping the source solid's identity.
func fromCSG(src *Solid, polys []csg.Polygon) *Solid {
	faces := make([]Face, 0, len(polys))
	for _, p := range polys {
		if len(p.Vertices) < 3 {
			continue
		}
		loop := make([]Vec3, len(p.Vertices))
		for i, v := range p.Vertices {
			loop[i] = Vec3{X: v.X, Y: v.Y, Z: v.Z}
		}
		faces = append(faces, Face{Loop: loop})
	}
	return &Solid{ID: src.ID, Room: src.Room, Kind: SolidMesh, Faces: faces}
}

// subtractSolid computes a minus b. A panic inside the kernel (pathological
// recursion on degenerate input) is converted to an error so one failing cut
// never takes down the job.
func subtractSolid(a, b *Solid) (result *Solid, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("boolean kernel: %v", r)
		}
	}()
	cut := toCSG(b)
	if len(cut) == 0 {
		return nil, fmt.Errorf("cut volume has no boundary: %w", ErrEmptyResult)
	}
	out := csg.Subtract(toCSG(a), cut)
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return fromCSG(a, out), nil
}

// unionSolids fuses a list of solids into one mesh-backed solid.
func unionSolids(solids []*Solid) (result *Solid, err error) {
	if len(solids) == 0 {
		return nil, ErrEmptyAssembly
	}
	if len(solids) == 1 {
		return solids[0], nil
	}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("boolean kernel: %v", r)
		}
	}()
	acc := toCSG(solids[0])
	for _, s := range solids[1:] {
		acc = csg.Union(acc, toCSG(s))
	}
	if len(acc) == 0 {
		return nil, ErrEmptyResult
	}
	return fromCSG(solids[0], acc), nil
}

// SubtractOpenings subtracts each cut volume from the room solid in turn.
// Every cut is isolated: a failing subtraction is logged, recorded as a
// Warning, and skipped, leaving the solid in its prior state for that one
// opening rather than losing the whole room.
func SubtractOpenings(solid *Solid, cuts []CutVolume) (*Solid, []Warning) {
	var warnings []Warning
	current := solid
	for _, cut := range cuts {
		next, err := subtractSolid(current, cut.Box)
		if err != nil {
			opErr := &GeometryOperationError{Op: "subtract opening", Room: solid.Room, Err: err}
			Logger().Warn("opening cut skipped",
				slog.String("room", solid.Room),
				slog.Int("opening", cut.Opening),
				slog.String("kind", cut.Kind.String()),
				slog.String("cause", err.Error()))
			warnings = append(warnings, Warning{
				Room:    solid.Room,
				Opening: cut.Opening,
				Message: "cut skipped: " + opErr.Error(),
			})
			continue
		}
		current = next
	}
	return current, warnings
}
