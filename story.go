package forma

import (
	"math"
	"sort"
)

// Story is one floor of the assembly: its index, its absolute elevation, the
// floor-to-floor height used for stacking, and the room solids already
// translated to that elevation.
type Story struct {
	Index     int
	Elevation float64
	Height    float64
	Solids    []*Solid
}

// Assembly is the finished building: an ordered collection of stories kept
// as a tagged compound. Stories are not fused by default so downstream tools
// keep per-floor selectability; WithFuseFloors requests a single fused solid
// instead. An Assembly is produced exactly once per job and is read-only to
// every exporter.
type Assembly struct {
	Stories []Story
}

// StackStories positions each floor's solids at its cumulative elevation:
// floor i starts at the sum of the heights of all floors with a smaller
// index, and floor 0 starts at Z=0. Variable per-floor heights are
// supported. Input solids sit at Z=0 and are translated, not mutated.
func StackStories(floors map[int][]*Solid, heights map[int]float64) *Assembly {
	indices := make([]int, 0, len(floors))
	for idx := range floors {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	asm := &Assembly{Stories: make([]Story, 0, len(indices))}
	elevation := 0.0
	for _, idx := range indices {
		height := heights[idx]
		solids := make([]*Solid, len(floors[idx]))
		for i, s := range floors[idx] {
			solids[i] = s.Translate(V3(0, 0, elevation))
		}
		asm.Stories = append(asm.Stories, Story{
			Index:     idx,
			Elevation: elevation,
			Height:    height,
			Solids:    solids,
		})
		elevation += height
	}
	return asm
}

// Solids returns every solid in the assembly in story order.
func (a *Assembly) Solids() []*Solid {
	var out []*Solid
	for _, st := range a.Stories {
		out = append(out, st.Solids...)
	}
	return out
}

// SolidCount returns the total number of solids across all stories.
func (a *Assembly) SolidCount() int {
	n := 0
	for _, st := range a.Stories {
		n += len(st.Solids)
	}
	return n
}

// Bounds returns the axis-aligned bounding box of the whole assembly.
func (a *Assembly) Bounds() (min, max Vec3) {
	min = Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = min.Neg()
	for _, s := range a.Solids() {
		smin, smax := s.BoundingBox()
		min = minVec3(min, smin)
		max = maxVec3(max, smax)
	}
	return min, max
}
