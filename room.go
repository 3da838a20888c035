package forma

// OpeningKind distinguishes the two supported wall penetrations.
type OpeningKind int

const (
	// OpeningDoor is a full-height penetration starting at the floor.
	OpeningDoor OpeningKind = iota
	// OpeningWindow is a penetration elevated by a sill height.
	OpeningWindow
)

// String returns the lowercase kind name.
func (k OpeningKind) String() string {
	switch k {
	case OpeningDoor:
		return "door"
	case OpeningWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Opening describes a door or window cut into one wall of a room.
// Positions are resolved against the room's original (non-offset) ring:
// Edge indexes a directed ring edge, Offset is the distance along that edge
// to the opening's center, in the plan's length unit.
type Opening struct {
	Kind   OpeningKind
	Edge   int     // index into the room ring's edges
	Offset float64 // distance along the edge, in [0, edge length]
	Width  float64 // > 0
	Height float64 // > 0
	Sill   float64 // bottom elevation above the floor, >= 0
}

// Room is one input room: a vertex ring in the floor plane plus wall and
// story parameters. Rooms are created once from externally shape-validated
// input and are immutable thereafter; forma re-validates only geometric
// well-formedness.
type Room struct {
	Name string

	// Ring is the wall outline in plan coordinates. It may arrive open or
	// closed and in either winding; NewPolygon normalizes it.
	Ring []Point

	// WallThickness >= 0. Zero produces a solid prism; positive produces a
	// hollow shell via inward offset, falling back to a prism when the
	// offset degenerates.
	WallThickness float64

	// Height is the room's extrusion height, > 0.
	Height float64

	// Floor is the story index. Floor 0 sits at elevation 0.
	Floor int

	Openings []Opening
}

// Plan is the complete input for one build job.
type Plan struct {
	Rooms []Room
}
