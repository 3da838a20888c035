package forma

import (
	"errors"
	"math"
	"testing"
)

func TestOffsetInward_Rectangle(t *testing.T) {
	poly, err := NewPolygon(rect(5000, 4000))
	if err != nil {
		t.Fatal(err)
	}
	inner, err := poly.OffsetInward(200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	min, max := inner.Bounds()
	if !min.Approx(Pt(200, 200), 1e-6) || !max.Approx(Pt(4800, 3800), 1e-6) {
		t.Errorf("inner bounds: got min (%g,%g) max (%g,%g), want (200,200)-(4800,3800)",
			min.X, min.Y, max.X, max.Y)
	}
	if got := inner.Area(); math.Abs(got-4600*3600) > 1e-3 {
		t.Errorf("inner area: expected %g, got %g", 4600.0*3600, got)
	}
}

func TestOffsetInward_LShape(t *testing.T) {
	poly, err := NewPolygon(lShape())
	if err != nil {
		t.Fatal(err)
	}
	inner, err := poly.OffsetInward(150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.Len() != poly.Len() {
		t.Errorf("miter offset must preserve vertex count: got %d, want %d", inner.Len(), poly.Len())
	}
	if inner.Area() >= poly.Area() {
		t.Errorf("inner area %g not smaller than outer %g", inner.Area(), poly.Area())
	}
	for _, v := range inner.Points() {
		if !poly.Contains(v) {
			t.Errorf("offset vertex (%g,%g) escaped the outer ring", v.X, v.Y)
		}
	}
}

func TestOffsetInward_Degenerate(t *testing.T) {
	poly, err := NewPolygon(rect(5000, 4000))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		d    float64
	}{
		{"half the min width", 2000},
		{"beyond half the min width", 2500},
		{"wider than the polygon", 6000},
		{"zero distance", 0},
		{"negative distance", -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := poly.OffsetInward(tt.d); !errors.Is(err, ErrDegenerateOffset) {
				t.Errorf("expected ErrDegenerateOffset, got %v", err)
			}
		})
	}
}
