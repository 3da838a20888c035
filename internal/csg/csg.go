// Package csg implements boolean operations (subtract, union) over convex
// polygon soups using BSP trees.
//
// The algorithm is the classic BSP constructive-solid-geometry scheme: each
// solid becomes a binary space partitioning tree of its boundary polygons;
// clipping one tree against the other removes the boundary parts inside the
// other solid, and recombining the surviving polygons yields the boundary of
// the result. Input polygons must be convex and consistently wound with
// outward normals; triangles always qualify. Output polygons are convex but
// may have more than three vertices where splitting planes cut them.
//
// The package has its own minimal vector type to stay free of the root
// package (which imports it).
package csg

import "math"

// eps is the plane-distance tolerance for classifying vertices.
const eps = 1e-5

// Vec is a 3D point or direction.
type Vec struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec) Sub(w Vec) Vec { return Vec{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Mul returns v scaled by s.
func (v Vec) Mul(s float64) Vec { return Vec{v.X * s, v.Y * s, v.Z * s} }

// Neg returns -v.
func (v Vec) Neg() Vec { return Vec{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product.
func (v Vec) Dot(w Vec) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product.
func (v Vec) Cross(w Vec) Vec {
	return Vec{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the magnitude of v.
func (v Vec) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec) Normalize() Vec {
	l := v.Length()
	if l == 0 {
		return Vec{}
	}
	return v.Mul(1 / l)
}

// Lerp interpolates between v and w.
func (v Vec) Lerp(w Vec, t float64) Vec {
	return v.Add(w.Sub(v).Mul(t))
}

// Plane is an oriented plane: N·p = W for points p on the plane.
type Plane struct {
	N Vec
	W float64
}

func planeFromPoints(a, b, c Vec) Plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{N: n, W: n.Dot(a)}
}

func (p Plane) flipped() Plane { return Plane{N: p.N.Neg(), W: -p.W} }

// ok reports whether the plane is well defined (non-degenerate polygon).
func (p Plane) ok() bool { return p.N.Length() > 0.5 }

// Polygon is a convex, planar boundary polygon with outward winding.
type Polygon struct {
	Vertices []Vec
	Plane    Plane
}

// NewPolygon builds a polygon and derives its plane from the first three
// vertices. Degenerate polygons get a zero plane and are dropped by build.
func NewPolygon(vertices []Vec) Polygon {
	p := Polygon{Vertices: vertices}
	if len(vertices) >= 3 {
		p.Plane = planeFromPoints(vertices[0], vertices[1], vertices[2])
	}
	return p
}

func (p Polygon) flipped() Polygon {
	verts := make([]Vec, len(p.Vertices))
	for i, v := range p.Vertices {
		verts[len(verts)-1-i] = v
	}
	return Polygon{Vertices: verts, Plane: p.Plane.flipped()}
}

// Vertex classifications relative to a plane.
const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// split classifies polygon against the plane and appends it (or its pieces)
// to the matching output lists.
func (pl Plane) split(poly Polygon, coplanarFront, coplanarBack, frontOut, backOut *[]Polygon) {
	polyType := 0
	types := make([]int, len(poly.Vertices))
	for i, v := range poly.Vertices {
		t := pl.N.Dot(v) - pl.W
		typ := coplanar
		if t < -eps {
			typ = back
		} else if t > eps {
			typ = front
		}
		polyType |= typ
		types[i] = typ
	}

	switch polyType {
	case coplanar:
		if pl.N.Dot(poly.Plane.N) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case front:
		*frontOut = append(*frontOut, poly)
	case back:
		*backOut = append(*backOut, poly)
	case spanning:
		var f, b []Vec
		n := len(poly.Vertices)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.Vertices[i], poly.Vertices[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if (ti | tj) == spanning {
				t := (pl.W - pl.N.Dot(vi)) / pl.N.Dot(vj.Sub(vi))
				v := vi.Lerp(vj, t)
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*frontOut = append(*frontOut, Polygon{Vertices: f, Plane: poly.Plane})
		}
		if len(b) >= 3 {
			*backOut = append(*backOut, Polygon{Vertices: b, Plane: poly.Plane})
		}
	}
}

// node is one BSP tree node holding the polygons coplanar with its plane.
type node struct {
	plane       *Plane
	front, back *node
	polygons    []Polygon
}

func newNode(polygons []Polygon) *node {
	n := &node{}
	n.build(polygons)
	return n
}

// invert swaps solid and empty space.
func (n *node) invert() {
	for i := range n.polygons {
		n.polygons[i] = n.polygons[i].flipped()
	}
	if n.plane != nil {
		p := n.plane.flipped()
		n.plane = &p
	}
	if n.front != nil {
		n.front.invert()
	}
	if n.back != nil {
		n.back.invert()
	}
	n.front, n.back = n.back, n.front
}

// clipPolygons removes from list all polygon parts inside this node's solid.
func (n *node) clipPolygons(list []Polygon) []Polygon {
	if n.plane == nil {
		return append([]Polygon(nil), list...)
	}
	var frontList, backList []Polygon
	for _, poly := range list {
		n.plane.split(poly, &frontList, &backList, &frontList, &backList)
	}
	if n.front != nil {
		frontList = n.front.clipPolygons(frontList)
	}
	if n.back != nil {
		backList = n.back.clipPolygons(backList)
	} else {
		backList = nil
	}
	return append(frontList, backList...)
}

// clipTo removes all polygons in this tree that are inside other's solid.
func (n *node) clipTo(other *node) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.front != nil {
		n.front.clipTo(other)
	}
	if n.back != nil {
		n.back.clipTo(other)
	}
}

// allPolygons returns every polygon in the tree.
func (n *node) allPolygons() []Polygon {
	out := append([]Polygon(nil), n.polygons...)
	if n.front != nil {
		out = append(out, n.front.allPolygons()...)
	}
	if n.back != nil {
		out = append(out, n.back.allPolygons()...)
	}
	return out
}

// build inserts polygons into the tree, creating child nodes as needed.
func (n *node) build(list []Polygon) {
	if len(list) == 0 {
		return
	}
	if n.plane == nil {
		for _, poly := range list {
			if poly.Plane.ok() {
				p := poly.Plane
				n.plane = &p
				break
			}
		}
		if n.plane == nil {
			return
		}
	}
	var frontList, backList []Polygon
	for _, poly := range list {
		if !poly.Plane.ok() {
			continue
		}
		n.plane.split(poly, &n.polygons, &n.polygons, &frontList, &backList)
	}
	if len(frontList) > 0 {
		if n.front == nil {
			n.front = &node{}
		}
		n.front.build(frontList)
	}
	if len(backList) > 0 {
		if n.back == nil {
			n.back = &node{}
		}
		n.back.build(backList)
	}
}

// Subtract returns the boundary of solid A minus solid B.
func Subtract(a, b []Polygon) []Polygon {
	if len(a) == 0 {
		return nil
	}
	if len(b) == 0 {
		return append([]Polygon(nil), a...)
	}
	na := newNode(a)
	nb := newNode(b)
	na.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	na.invert()
	return na.allPolygons()
}

// Union returns the boundary of solid A fused with solid B.
func Union(a, b []Polygon) []Polygon {
	if len(a) == 0 {
		return append([]Polygon(nil), b...)
	}
	if len(b) == 0 {
		return append([]Polygon(nil), a...)
	}
	na := newNode(a)
	nb := newNode(b)
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	return na.allPolygons()
}
