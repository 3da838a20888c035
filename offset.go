package forma

import (
	"fmt"
	"math"
)

// OffsetInward computes the ring offset toward the interior by distance d.
// Straight edges are preserved and corners are mitered: each offset vertex is
// the intersection of the two adjacent offset edge lines.
//
// The offset degenerates when d is too large for the ring (typically when it
// exceeds half the polygon's minimum width): the result collapses, flips
// orientation, or self-intersects. Degeneration is reported as
// ErrDegenerateOffset so the caller can fall back to a solid prism.
func (p Polygon) OffsetInward(d float64) (Polygon, error) {
	if d <= 0 {
		return Polygon{}, fmt.Errorf("%w: non-positive distance %g", ErrDegenerateOffset, d)
	}
	n := len(p.pts)
	out := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		// The two edges meeting at vertex i: edge i-1 (prev) and edge i (next).
		pa, pb := p.Edge(i - 1)
		na, nb := p.Edge(i)
		prevDir := pb.Sub(pa).Normalize()
		nextDir := nb.Sub(na).Normalize()
		// Interior lies to the left of a counter-clockwise ring.
		prevOff := pa.Add(prevDir.Perp().Mul(d))
		nextOff := na.Add(nextDir.Perp().Mul(d))

		denom := prevDir.Cross(nextDir)
		if math.Abs(denom) < geomEps {
			// Collinear edges: shift the shared vertex straight inward.
			out = append(out, p.pts[i].Add(nextDir.Perp().Mul(d)))
			continue
		}
		t := nextOff.Sub(prevOff).Cross(nextDir) / denom
		out = append(out, prevOff.Add(prevDir.Mul(t)))
	}

	area := signedArea(out)
	switch {
	case area < areaEps:
		return Polygon{}, fmt.Errorf("%w: offset ring collapsed (area %g)", ErrDegenerateOffset, area)
	case area >= p.SignedArea():
		return Polygon{}, fmt.Errorf("%w: offset ring did not shrink", ErrDegenerateOffset)
	case !ringIsSimple(out):
		return Polygon{}, fmt.Errorf("%w: offset ring self-intersects", ErrDegenerateOffset)
	}
	// Mitered vertices of a reflex corner can escape the original ring even
	// when the offset ring itself stays simple.
	for _, v := range out {
		if !p.Contains(v) {
			return Polygon{}, fmt.Errorf("%w: offset vertex outside ring", ErrDegenerateOffset)
		}
	}
	return Polygon{pts: out}, nil
}
