package forma

import (
	"fmt"
	"math"
)

// Geometric epsilons shared across the package.
const (
	// geomEps is the tolerance for coincident points and zero-length edges.
	geomEps = 1e-9

	// areaEps is the minimum absolute signed area for a non-degenerate ring.
	areaEps = 1e-6
)

// Polygon is a validated, normalized vertex ring: closed, planar,
// counter-clockwise, at least 3 distinct vertices, no zero-length edges.
// Polygons are immutable after construction.
type Polygon struct {
	pts []Point
}

// NewPolygon sanitizes and normalizes an input vertex ring.
//
// The ring may arrive open or closed: a coincident first/last point is
// deduplicated, as are consecutive coincident vertices (zero-length edges).
// Rings with fewer than 3 unique vertices or near-zero signed area are
// rejected with ErrInvalidPolygon. Clockwise rings are reversed so the result
// is always counter-clockwise.
func NewPolygon(ring []Point) (Polygon, error) {
	pts := make([]Point, 0, len(ring))
	for _, p := range ring {
		if len(pts) > 0 && p.Approx(pts[len(pts)-1], geomEps) {
			continue
		}
		pts = append(pts, p)
	}
	// Drop a closing vertex that repeats the first.
	if len(pts) > 1 && pts[len(pts)-1].Approx(pts[0], geomEps) {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return Polygon{}, fmt.Errorf("%w: %d unique vertices after dedup", ErrInvalidPolygon, len(pts))
	}
	area := signedArea(pts)
	if math.Abs(area) < areaEps {
		return Polygon{}, fmt.Errorf("%w: near-zero signed area %g", ErrInvalidPolygon, area)
	}
	if area < 0 {
		reverse(pts)
	}
	return Polygon{pts: pts}, nil
}

// signedArea computes the shoelace area of an open ring.
// Positive for counter-clockwise winding.
func signedArea(pts []Point) float64 {
	var area float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.Cross(q)
	}
	return area / 2
}

func reverse(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// Len returns the number of vertices (and edges) in the ring.
func (p Polygon) Len() int { return len(p.pts) }

// Points returns a copy of the ring's vertices in counter-clockwise order.
func (p Polygon) Points() []Point {
	out := make([]Point, len(p.pts))
	copy(out, p.pts)
	return out
}

// Vertex returns vertex i, wrapping around the ring.
func (p Polygon) Vertex(i int) Point {
	n := len(p.pts)
	return p.pts[((i%n)+n)%n]
}

// Edge returns the directed edge i as its two endpoints.
func (p Polygon) Edge(i int) (Point, Point) {
	return p.Vertex(i), p.Vertex(i + 1)
}

// SignedArea returns the signed area enclosed by the ring.
// Always positive after normalization.
func (p Polygon) SignedArea() float64 {
	return signedArea(p.pts)
}

// Area returns the absolute area enclosed by the ring.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Perimeter returns the total edge length of the ring.
func (p Polygon) Perimeter() float64 {
	var sum float64
	for i := range p.pts {
		a, b := p.Edge(i)
		sum += a.Distance(b)
	}
	return sum
}

// Centroid returns the area centroid of the ring.
func (p Polygon) Centroid() Point {
	var cx, cy, area float64
	for i := range p.pts {
		a, b := p.Edge(i)
		cross := a.Cross(b)
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
		area += cross
	}
	area /= 2
	if math.Abs(area) < areaEps {
		return p.pts[0]
	}
	return Point{X: cx / (6 * area), Y: cy / (6 * area)}
}

// Bounds returns the axis-aligned bounding box of the ring.
func (p Polygon) Bounds() (min, max Point) {
	min, max = p.pts[0], p.pts[0]
	for _, pt := range p.pts[1:] {
		min.X = math.Min(min.X, pt.X)
		min.Y = math.Min(min.Y, pt.Y)
		max.X = math.Max(max.X, pt.X)
		max.Y = math.Max(max.Y, pt.Y)
	}
	return min, max
}

// Contains reports whether pt lies inside the ring.
// Uses the non-zero winding rule with a horizontal ray to the right.
func (p Polygon) Contains(pt Point) bool {
	var winding int
	for i := range p.pts {
		a, b := p.Edge(i)
		if a.Y <= pt.Y {
			if b.Y > pt.Y && isLeft(a, b, pt) > 0 {
				winding++
			}
		} else if b.Y <= pt.Y && isLeft(a, b, pt) < 0 {
			winding--
		}
	}
	return winding != 0
}

// isLeft returns >0 if pt is left of the directed line a->b,
// <0 if right, 0 if on the line.
func isLeft(a, b, pt Point) float64 {
	return (b.X - a.X)*(pt.Y - a.Y) - (pt.X - a.X)*(b.Y - a.Y)
}

// MinWidth estimates the polygon's minimum width as the smallest distance
// from any vertex to any non-adjacent edge. For a rectangle this is the short
// side. Used as a pre-check before inward offsetting: a wall thickness at or
// above half this value is expected to degenerate.
func (p Polygon) MinWidth() float64 {
	n := len(p.pts)
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// Skip the two edges adjacent to vertex i.
			if j == i || (j+1)%n == i {
				continue
			}
			a, b := p.Edge(j)
			if d := distToSegment(p.pts[i], a, b); d < min {
				min = d
			}
		}
	}
	return min
}

// DistanceToBoundary returns the distance from pt to the nearest ring edge
// and that edge's index. When two edges are equidistant the lowest index
// wins, which keeps opening-to-wall association deterministic.
func (p Polygon) DistanceToBoundary(pt Point) (float64, int) {
	best := math.Inf(1)
	bestEdge := 0
	for i := range p.pts {
		a, b := p.Edge(i)
		if d := distToSegment(pt, a, b); d < best {
			best = d
			bestEdge = i
		}
	}
	return best, bestEdge
}

// distToSegment returns the distance from pt to segment ab.
func distToSegment(pt, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return pt.Distance(a)
	}
	t := pt.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return pt.Distance(a.Add(ab.Mul(t)))
}

// IsSimple reports whether the ring has no self-intersections.
// Adjacent edges sharing a vertex do not count as intersecting.
func (p Polygon) IsSimple() bool {
	return ringIsSimple(p.pts)
}

func ringIsSimple(pts []Point) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		a1 := pts[i]
		a2 := pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip adjacent edges (shared vertex).
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1 := pts[j]
			b2 := pts[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

// segmentsIntersect reports whether segments a1a2 and b1b2 properly intersect.
func segmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := isLeft(b1, b2, a1)
	d2 := isLeft(b1, b2, a2)
	d3 := isLeft(a1, a2, b1)
	d4 := isLeft(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
