package forma

import (
	"context"
	"errors"
	"math"
	"testing"
)

func twoStoryPlan() Plan {
	return Plan{Rooms: []Room{
		{
			Name: "living", Ring: rect(5000, 4000), WallThickness: 200, Height: 3000, Floor: 0,
			Openings: []Opening{{Kind: OpeningDoor, Edge: 0, Offset: 2500, Width: 900, Height: 2100}},
		},
		{Name: "kitchen", Ring: []Point{{5000, 0}, {8000, 0}, {8000, 4000}, {5000, 4000}}, WallThickness: 200, Height: 3000, Floor: 0},
		{Name: "bedroom", Ring: rect(5000, 4000), WallThickness: 200, Height: 2700, Floor: 1},
	}}
}

func TestBuild_FullPipeline(t *testing.T) {
	asm, report, err := Build(context.Background(), twoStoryPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.RoomErrors) != 0 {
		t.Fatalf("unexpected room errors: %v", report.RoomErrors)
	}
	if len(asm.Stories) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(asm.Stories))
	}
	if got := len(asm.Stories[0].Solids); got != 2 {
		t.Errorf("floor 0: expected 2 room solids, got %d", got)
	}
	if got := asm.Stories[1].Elevation; math.Abs(got-3000) > 1e-9 {
		t.Errorf("floor 1 elevation: got %g, want 3000", got)
	}
	min, _ := asm.Stories[1].Solids[0].BoundingBox()
	if math.Abs(min.Z-3000) > 1e-9 {
		t.Errorf("floor 1 solid min Z: got %g, want 3000", min.Z)
	}
}

func TestBuild_IsolatesBadRooms(t *testing.T) {
	plan := twoStoryPlan()
	plan.Rooms = append(plan.Rooms,
		Room{Name: "sliver", Ring: []Point{{0, 0}, {1, 0}}, Height: 3000},
		Room{Name: "flat", Ring: rect(1000, 1000), Height: 0},
	)
	asm, report, err := Build(context.Background(), plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.RoomErrors) != 2 {
		t.Fatalf("expected 2 room errors, got %d: %v", len(report.RoomErrors), report.RoomErrors)
	}
	for _, re := range report.RoomErrors {
		var ve *ValidationError
		if !errors.As(re.Err, &ve) {
			t.Errorf("room %s: expected ValidationError, got %v", re.Room, re.Err)
		}
	}
	if asm.SolidCount() != 3 {
		t.Errorf("expected 3 surviving solids, got %d", asm.SolidCount())
	}
}

func TestBuild_AllRoomsInvalid(t *testing.T) {
	plan := Plan{Rooms: []Room{
		{Name: "a", Ring: []Point{{0, 0}, {1, 0}}, Height: 3000},
		{Name: "b", Ring: rect(1000, 1000), Height: -1},
	}}
	_, report, err := Build(context.Background(), plan)
	if !errors.Is(err, ErrNoValidRooms) {
		t.Fatalf("expected ErrNoValidRooms, got %v", err)
	}
	if len(report.RoomErrors) != 2 {
		t.Errorf("expected 2 room errors, got %d", len(report.RoomErrors))
	}
}

func TestBuild_EmptyPlan(t *testing.T) {
	if _, _, err := Build(context.Background(), Plan{}); !errors.Is(err, ErrNoValidRooms) {
		t.Fatalf("expected ErrNoValidRooms, got %v", err)
	}
}

func TestBuild_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Build(ctx, twoStoryPlan()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuild_Sequential(t *testing.T) {
	// Sequential execution is equally correct; parallelism is an optimization.
	asm, _, err := Build(context.Background(), twoStoryPlan(), WithParallelism(1))
	if err != nil {
		t.Fatal(err)
	}
	if asm.SolidCount() != 3 {
		t.Errorf("expected 3 solids, got %d", asm.SolidCount())
	}
}

func TestBuild_WithFloorHeight(t *testing.T) {
	asm, _, err := Build(context.Background(), twoStoryPlan(), WithFloorHeight(0, 4000))
	if err != nil {
		t.Fatal(err)
	}
	if got := asm.Stories[1].Elevation; math.Abs(got-4000) > 1e-9 {
		t.Errorf("floor 1 elevation with override: got %g, want 4000", got)
	}
}

func TestBuild_WithUnionRooms(t *testing.T) {
	plan := Plan{Rooms: []Room{
		{Name: "a", Ring: rect(3000, 3000), Height: 3000, Floor: 0},
		{Name: "b", Ring: []Point{{2500, 0}, {5500, 0}, {5500, 3000}, {2500, 3000}}, Height: 3000, Floor: 0},
	}}
	asm, _, err := Build(context.Background(), plan, WithUnionRooms())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(asm.Stories[0].Solids); got != 1 {
		t.Fatalf("expected 1 fused solid, got %d", got)
	}
	want := 5500.0 * 3000 * 3000 // overlap counted once
	if got := asm.Stories[0].Solids[0].Volume(); math.Abs(got-want) > want*0.02 {
		t.Errorf("fused volume: got %g, want %g", got, want)
	}
}

func TestBuild_DeterministicFloorAssignment(t *testing.T) {
	// The tallest room sets the default floor height.
	plan := Plan{Rooms: []Room{
		{Name: "low", Ring: rect(1000, 1000), Height: 2400, Floor: 0},
		{Name: "high", Ring: []Point{{2000, 0}, {3000, 0}, {3000, 1000}, {2000, 1000}}, Height: 3200, Floor: 0},
		{Name: "up", Ring: rect(1000, 1000), Height: 2400, Floor: 1},
	}}
	asm, _, err := Build(context.Background(), plan)
	if err != nil {
		t.Fatal(err)
	}
	if got := asm.Stories[1].Elevation; math.Abs(got-3200) > 1e-9 {
		t.Errorf("floor 1 elevation: got %g, want 3200", got)
	}
}
