// Package forma turns validated 2D floor-plan geometry into watertight 3D
// building solids and serializes them into parametric and mesh exchange
// formats.
//
// # Overview
//
// forma is a pure Go solid-geometry core. It consumes room polygons with
// optional wall thickness, door/window openings, and floor assignments, and
// produces a stacked building Assembly whose every solid tessellates into a
// 2-manifold, watertight triangle mesh.
//
// # Quick Start
//
//	plan := forma.Plan{Rooms: []forma.Room{{
//	    Name:          "living",
//	    Ring:          []forma.Point{{0, 0}, {5000, 0}, {5000, 4000}, {0, 4000}},
//	    WallThickness: 200,
//	    Height:        3000,
//	}}}
//
//	assembly, report, err := forma.Build(ctx, plan)
//	if err != nil {
//	    // no room produced valid geometry
//	}
//	for _, w := range report.Warnings {
//	    // recoverable fallbacks: dropped openings, prism fallback, ...
//	}
//
//	artifact, err := export.Export(assembly, export.GLB)
//
// # Pipeline
//
// Rooms flow through a fixed pipeline: polygon validation, wall solid
// construction (prism or hollow shell), opening placement and boolean
// subtraction, story stacking. Per-room failures are isolated; a build fails
// only when zero rooms yield valid geometry.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Plan, Room, Opening, Polygon, Solid, Assembly, Build
//   - Internal: csg (BSP boolean operations over triangle soups)
//   - Export: export (STEP, OBJ, STL, PLY, glTF, GLB, OFF encoders)
//
// # Coordinate System
//
// Plans live in the XY plane in a consistent length unit (millimeters in all
// examples). X increases east, Y increases north, Z is up. Polygon rings are
// normalized counter-clockwise, so the interior lies to the left of each
// directed edge and the outward wall normal to its right.
//
// # Concurrency
//
// Build runs per-room construction in parallel; exporters are pure functions
// and are independently parallelizable across formats. A job exclusively owns
// its Assembly; there is no shared mutable state between jobs.
package forma
