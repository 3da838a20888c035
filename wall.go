package forma

import (
	"fmt"
	"log/slog"
)

// WallSolid extrudes a validated room polygon into its wall solid.
//
// With zero wall thickness the room becomes a simple prism. With positive
// thickness the polygon is offset inward by the thickness and the shell
// between the two rings is built: outward wall faces, cavity faces, and
// top/bottom annulus rings. The cavity is left uncapped, matching an
// architectural shell rather than a sealed tank, while the shell boundary
// itself stays closed and watertight.
//
// When the inward offset degenerates (thickness at or beyond half the
// polygon's minimum width), WallSolid falls back to the solid prism and
// reports the downgrade as a Warning instead of failing the room.
func WallSolid(room Room, poly Polygon) (*Solid, []Warning) {
	if room.WallThickness <= 0 {
		return Prism(room.Name, poly, room.Height), nil
	}

	// Pre-check: opposite walls each move in by the thickness, so a cavity
	// only survives when twice the thickness stays under the minimum width.
	if w := poly.MinWidth(); 2*room.WallThickness >= w {
		return prismFallback(room, poly,
			fmt.Errorf("%w: thickness %g with minimum width %g", ErrDegenerateOffset, room.WallThickness, w))
	}

	inner, err := poly.OffsetInward(room.WallThickness)
	if err != nil {
		return prismFallback(room, poly, err)
	}

	faces := shellFaces(poly.Points(), inner.Points(), room.Height)
	Logger().Debug("wall shell built",
		slog.String("room", room.Name),
		slog.Int("faces", len(faces)))
	return newSolid(room.Name, SolidShell, faces), nil
}

// prismFallback downgrades a degenerate shell to a solid prism, logging the
// cause and reporting it as a room-level warning.
func prismFallback(room Room, poly Polygon, cause error) (*Solid, []Warning) {
	opErr := &GeometryOperationError{Op: "inward offset", Room: room.Name, Err: cause}
	Logger().Warn("wall shell downgraded to prism",
		slog.String("room", room.Name),
		slog.Float64("thickness", room.WallThickness),
		slog.String("cause", cause.Error()))
	return Prism(room.Name, poly, room.Height), []Warning{{
		Room:    room.Name,
		Opening: -1,
		Message: "hollow shell fell back to solid prism: " + opErr.Error(),
	}}
}
