package forma

import (
	"fmt"
	"log/slog"
)

const (
	// minEdgeLength is the shortest wall edge an opening can target.
	// Shorter edges have no usable direction; the opening is undefined.
	minEdgeLength = 1e-6

	// openingProximity is how far an opening's resolved center may sit from
	// the nearest polygon edge before the opening is assumed to reference
	// the wrong wall and dropped. One length unit.
	openingProximity = 1.0

	// defaultWallDepth stands in for the wall thickness when sizing cut
	// volumes for zero-thickness prism rooms, so cuts still fully penetrate.
	defaultWallDepth = 200.0

	// cutOverrun extends a cut volume past the floor slab or ceiling when an
	// opening touches them, so the boolean cut clears those faces cleanly
	// instead of leaving a coplanar sliver.
	cutOverrun = 1.0
)

// CutVolume is one resolved opening: the rectangular solid to subtract from
// the room's wall solid, plus the opening's index for diagnostics.
type CutVolume struct {
	Opening int
	Kind    OpeningKind
	Box     *Solid
}

// PlaceOpenings projects a room's opening descriptors onto its original
// (non-offset) polygon and builds one rectangular cut volume per valid
// opening. The cut is centered on the wall line, aligned with the wall
// edge's direction, and deep enough to fully penetrate the wall from both
// sides.
//
// Invalid openings are dropped individually with a Warning, never aborting
// the room: a target edge shorter than an epsilon leaves the opening
// undefined, and a resolved center farther than the proximity threshold from
// every edge indicates the opening references the wrong wall. When two edges
// are equidistant from the center the lowest edge index wins.
func PlaceOpenings(room Room, poly Polygon) ([]CutVolume, []Warning) {
	var cuts []CutVolume
	var warnings []Warning
	drop := func(i int, msg string) {
		Logger().Warn("opening dropped",
			slog.String("room", room.Name),
			slog.Int("opening", i),
			slog.String("cause", msg))
		warnings = append(warnings, Warning{Room: room.Name, Opening: i, Message: msg})
	}

	for i, o := range room.Openings {
		if o.Edge < 0 || o.Edge >= poly.Len() {
			drop(i, fmt.Sprintf("edge index %d out of range [0,%d)", o.Edge, poly.Len()))
			continue
		}
		if o.Width <= 0 || o.Height <= 0 || o.Sill < 0 {
			drop(i, fmt.Sprintf("non-positive size %gx%g or negative sill %g", o.Width, o.Height, o.Sill))
			continue
		}

		a, b := poly.Edge(o.Edge)
		edgeLen := a.Distance(b)
		if edgeLen < minEdgeLength {
			drop(i, fmt.Sprintf("target edge %d shorter than %g", o.Edge, minEdgeLength))
			continue
		}

		// Interpolate along the edge line without clamping: an offset far
		// outside [0, edgeLen] resolves off the polygon and the proximity
		// check below rejects it instead of silently snapping to a corner.
		center := a.Lerp(b, o.Offset/edgeLen)

		if dist, _ := poly.DistanceToBoundary(center); dist > openingProximity {
			drop(i, fmt.Sprintf("resolved center %g from nearest wall, beyond %g", dist, openingProximity))
			continue
		}

		dir := b.Sub(a).Normalize()
		depth := 2 * room.WallThickness
		if depth < 2*defaultWallDepth {
			depth = 2 * defaultWallDepth
		}

		z0 := o.Sill
		z1 := o.Sill + o.Height
		// Overrun past coplanar slab faces so the subtraction cuts through.
		if z0 <= geomEps {
			z0 = -cutOverrun
		}
		if z1 >= room.Height-geomEps {
			z1 = room.Height + cutOverrun
		}

		box := orientedBox(room.Name, center, dir, o.Width/2, depth/2, z0, z1)
		cuts = append(cuts, CutVolume{Opening: i, Kind: o.Kind, Box: box})
	}
	return cuts, warnings
}
