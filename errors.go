package forma

import (
	"errors"
	"fmt"
)

// Sentinel errors for the geometry core.
var (
	// ErrInvalidPolygon is returned when a vertex ring cannot be normalized
	// into a valid polygon (fewer than 3 unique vertices, degenerate area).
	ErrInvalidPolygon = errors.New("forma: invalid polygon")

	// ErrDegenerateOffset is returned when an inward offset self-intersects
	// or collapses, typically when the wall thickness exceeds half the
	// polygon's minimum width.
	ErrDegenerateOffset = errors.New("forma: degenerate inward offset")

	// ErrEmptyResult is returned when a boolean operation leaves no geometry.
	ErrEmptyResult = errors.New("forma: boolean operation produced empty solid")

	// ErrNoValidRooms is returned by Build when zero rooms produce valid
	// geometry. Per-room failures alone never fail a job.
	ErrNoValidRooms = errors.New("forma: no room produced valid geometry")

	// ErrEmptyAssembly is returned when an operation needs at least one solid.
	ErrEmptyAssembly = errors.New("forma: assembly contains no solids")
)

// ValidationError reports malformed input for one room. It is fatal for that
// room only; the rest of the job proceeds.
type ValidationError struct {
	Room   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forma: room %q: %s: %v", e.Room, e.Reason, e.Err)
	}
	return fmt.Sprintf("forma: room %q: %s", e.Room, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// GeometryOperationError reports a failed offset or boolean operation.
// Callers recover by falling back to the next-safest geometry (solid prism
// instead of hollow shell) or by skipping one opening; every fallback is
// logged and recorded in the build Report.
type GeometryOperationError struct {
	Op   string // "inward offset", "subtract opening", "union rooms", ...
	Room string
	Err  error
}

func (e *GeometryOperationError) Error() string {
	return fmt.Sprintf("forma: %s failed for room %q: %v", e.Op, e.Room, e.Err)
}

func (e *GeometryOperationError) Unwrap() error { return e.Err }

// Warning records one recoverable fallback taken during a build: a hollow
// shell downgraded to a prism, or an opening dropped or skipped. Opening is
// the index into the room's opening list, or -1 when the warning concerns the
// whole room.
type Warning struct {
	Room    string
	Opening int
	Message string
}

func (w Warning) String() string {
	if w.Opening >= 0 {
		return fmt.Sprintf("room %q opening %d: %s", w.Room, w.Opening, w.Message)
	}
	return fmt.Sprintf("room %q: %s", w.Room, w.Message)
}
