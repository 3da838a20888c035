package forma

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BuildOption configures a build job.
// Use functional options to customize Build behavior.
//
// Example:
//
//	// Default: rooms and floors kept as independent compounds
//	asm, report, err := forma.Build(ctx, plan)
//
//	// Fuse rooms on each floor into one solid
//	asm, report, err := forma.Build(ctx, plan, forma.WithUnionRooms())
type BuildOption func(*buildOptions)

type buildOptions struct {
	unionRooms   bool
	fuseFloors   bool
	parallelism  int
	floorHeights map[int]float64
}

func defaultBuildOptions() buildOptions {
	return buildOptions{
		parallelism:  runtime.GOMAXPROCS(0),
		floorHeights: map[int]float64{},
	}
}

// WithUnionRooms fuses the rooms of each floor into a single solid.
// By default rooms stay an independent compound: architecturally adjacent
// rooms should not silently merge wall faces.
func WithUnionRooms() BuildOption {
	return func(o *buildOptions) { o.unionRooms = true }
}

// WithFuseFloors fuses the whole stacked assembly into one compound solid.
// By default floors stay a tagged compound, preserving per-floor
// selectability in downstream tools.
func WithFuseFloors() BuildOption {
	return func(o *buildOptions) { o.fuseFloors = true }
}

// WithParallelism caps the number of rooms built concurrently.
// Values below 1 force sequential execution. The default is GOMAXPROCS.
func WithParallelism(n int) BuildOption {
	return func(o *buildOptions) {
		if n < 1 {
			n = 1
		}
		o.parallelism = n
	}
}

// WithFloorHeight overrides the stacking height of one floor. Without an
// override a floor's height is the tallest room on it.
func WithFloorHeight(floor int, height float64) BuildOption {
	return func(o *buildOptions) { o.floorHeights[floor] = height }
}

// RoomError records one room rejected during a build, with enough context to
// surface as a user-facing diagnostic.
type RoomError struct {
	Room string
	Err  error
}

// Report collects the diagnostics of one build job: every recoverable
// fallback taken and every room rejected. A report accompanies both
// successful and failed builds.
type Report struct {
	JobID      uuid.UUID
	Warnings   []Warning
	RoomErrors []RoomError
}

// roomResult is the outcome of one room's construction.
type roomResult struct {
	name     string
	solid    *Solid
	floor    int
	height   float64
	warnings []Warning
	err      error
}

// Build runs the full pipeline for one job: per-room validation, wall solid
// construction, opening subtraction, then story stacking. Per-room solid
// construction has no cross-room dependency and runs in parallel; stacking
// waits for every room.
//
// Per-room failures are isolated and reported; Build returns an error only
// when the context is canceled or zero rooms produce valid geometry. The
// returned Assembly is exclusively owned by the caller.
func Build(ctx context.Context, plan Plan, opts ...BuildOption) (*Assembly, *Report, error) {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(&o)
	}

	report := &Report{JobID: uuid.New()}
	if len(plan.Rooms) == 0 {
		return nil, report, ErrNoValidRooms
	}

	// Each room writes only its own slot; no shared mutable state.
	results := make([]roomResult, len(plan.Rooms))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i, room := range plan.Rooms {
		i, room := i, room
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = buildRoom(room, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, report, err
	}

	floors := map[int][]*Solid{}
	heights := map[int]float64{}
	for _, r := range results {
		report.Warnings = append(report.Warnings, r.warnings...)
		if r.err != nil {
			report.RoomErrors = append(report.RoomErrors, RoomError{Room: r.name, Err: r.err})
			continue
		}
		floors[r.floor] = append(floors[r.floor], r.solid)
		if r.height > heights[r.floor] {
			heights[r.floor] = r.height
		}
	}
	for floor, h := range o.floorHeights {
		heights[floor] = h
	}
	if len(floors) == 0 {
		return nil, report, fmt.Errorf("%w: %d rooms rejected", ErrNoValidRooms, len(report.RoomErrors))
	}

	if o.unionRooms {
		for floor, solids := range floors {
			fused, err := unionSolids(solids)
			if err != nil {
				opErr := &GeometryOperationError{Op: "union rooms", Room: fmt.Sprintf("floor %d", floor), Err: err}
				Logger().Warn("room union skipped, keeping compound",
					slog.Int("floor", floor),
					slog.String("cause", err.Error()))
				report.Warnings = append(report.Warnings, Warning{
					Room:    fmt.Sprintf("floor %d", floor),
					Opening: -1,
					Message: "union skipped: " + opErr.Error(),
				})
				continue
			}
			floors[floor] = []*Solid{fused}
		}
	}

	asm := StackStories(floors, heights)

	if o.fuseFloors {
		fused, err := unionSolids(asm.Solids())
		if err != nil {
			Logger().Warn("floor fuse skipped, keeping compound", slog.String("cause", err.Error()))
			report.Warnings = append(report.Warnings, Warning{
				Room:    "assembly",
				Opening: -1,
				Message: "floor fuse skipped: " + err.Error(),
			})
		} else {
			asm = &Assembly{Stories: []Story{{
				Index:     0,
				Elevation: 0,
				Height:    0,
				Solids:    []*Solid{fused},
			}}}
		}
	}

	Logger().Info("assembly built",
		slog.String("job", report.JobID.String()),
		slog.Int("stories", len(asm.Stories)),
		slog.Int("solids", asm.SolidCount()),
		slog.Int("warnings", len(report.Warnings)),
		slog.Int("rejected_rooms", len(report.RoomErrors)))
	return asm, report, nil
}

// buildRoom runs the per-room pipeline: validate, extrude, cut openings.
func buildRoom(room Room, index int) roomResult {
	if room.Name == "" {
		room.Name = fmt.Sprintf("room-%d", index)
	}
	res := roomResult{name: room.Name, floor: room.Floor, height: room.Height}

	if room.Height <= 0 {
		res.err = &ValidationError{Room: room.Name, Reason: fmt.Sprintf("non-positive height %g", room.Height)}
		return res
	}
	if room.WallThickness < 0 {
		res.err = &ValidationError{Room: room.Name, Reason: fmt.Sprintf("negative wall thickness %g", room.WallThickness)}
		return res
	}
	poly, err := NewPolygon(room.Ring)
	if err != nil {
		res.err = &ValidationError{Room: room.Name, Reason: "ring rejected", Err: err}
		return res
	}

	solid, warns := WallSolid(room, poly)
	res.warnings = append(res.warnings, warns...)

	cuts, warns := PlaceOpenings(room, poly)
	res.warnings = append(res.warnings, warns...)

	solid, warns = SubtractOpenings(solid, cuts)
	res.warnings = append(res.warnings, warns...)

	res.solid = solid
	return res
}
