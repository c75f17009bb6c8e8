package centerline

import (
	"math"
	"testing"
)

func line(n int, step float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: float64(i) * step}
	}
	return pts
}

func TestNew_Validation(t *testing.T) {
	if _, err := New([]Point{{X: 1}}); err == nil {
		t.Error("expected error for single-point curve")
	}
	if _, err := New([]Point{{X: 1}, {X: 1}}); err == nil {
		t.Error("expected error for repeated consecutive points")
	}
}

func TestNew_Arclength(t *testing.T) {
	c, err := New([]Point{{}, {X: 3}, {X: 3, Y: 4}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []float64{0, 3, 8}
	got := c.Arclength()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("length[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if c.TotalLength() != 8 {
		t.Errorf("TotalLength = %v, want 8", c.TotalLength())
	}
}

func TestPointOps(t *testing.T) {
	a := Point{X: 1, Y: 2, Z: 3}
	b := Point{X: 4, Y: 5, Z: 6}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
	cross := a.Cross(b)
	want := Point{X: -3, Y: 6, Z: -3}
	if cross != want {
		t.Errorf("Cross = %v, want %v", cross, want)
	}
	if got := (Point{X: 3, Y: 4}).Norm(); got != 5 {
		t.Errorf("Norm = %v, want 5", got)
	}
}

func TestParseAxis(t *testing.T) {
	for s, want := range map[string]Axis{"x": AxisX, "y": AxisY, "z": AxisZ} {
		got, err := ParseAxis(s)
		if err != nil || got != want {
			t.Errorf("ParseAxis(%q) = %v, %v; want %v", s, got, err, want)
		}
	}
	if _, err := ParseAxis("w"); err == nil {
		t.Error("expected error for invalid axis")
	}
}

func TestCoordinate(t *testing.T) {
	c, _ := New([]Point{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}})
	if got := c.Coordinate(AxisY); got[0] != 2 || got[1] != 5 {
		t.Errorf("Coordinate(AxisY) = %v, want [2 5]", got)
	}
}

func TestReverse(t *testing.T) {
	c, _ := New(line(5, 1))
	r := c.Reverse()
	if r.Point(0) != c.Point(4) || r.Point(4) != c.Point(0) {
		t.Error("Reverse did not flip endpoints")
	}
	if r.TotalLength() != c.TotalLength() {
		t.Errorf("Reverse changed total length: %v vs %v", r.TotalLength(), c.TotalLength())
	}
}

func TestNearestPoint(t *testing.T) {
	c, _ := New(line(10, 1))
	if got := c.NearestPoint(Point{X: 3.4, Y: 2}); got != 3 {
		t.Errorf("NearestPoint = %d, want 3", got)
	}
	if got := c.NearestPoint(Point{X: 100}); got != 9 {
		t.Errorf("NearestPoint = %d, want 9", got)
	}
}

func TestSpacing(t *testing.T) {
	c, _ := New(line(11, 2))
	if got := c.Spacing(); math.Abs(got-2) > 1e-12 {
		t.Errorf("Spacing = %v, want 2", got)
	}
}

func TestResample(t *testing.T) {
	c, _ := New([]Point{{}, {X: 10}})
	r, err := c.Resample(1)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if r.Len() != 11 {
		t.Fatalf("Len = %d, want 11", r.Len())
	}
	for i := 0; i < r.Len(); i++ {
		if math.Abs(r.Point(i).X-float64(i)) > 1e-9 {
			t.Errorf("point %d at x=%v, want %v", i, r.Point(i).X, float64(i))
		}
	}
	if last := r.Point(r.Len() - 1); last != (Point{X: 10}) {
		t.Errorf("last point = %v, want (10,0,0)", last)
	}

	if _, err := c.Resample(0); err == nil {
		t.Error("expected error for non-positive step")
	}
}

func TestResample_KeepsEndpoint(t *testing.T) {
	// Total length 10.5 with step 1: the uniform samples stop at 10, the
	// original endpoint must be appended.
	c, _ := New([]Point{{}, {X: 10.5}})
	r, err := c.Resample(1)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	last := r.Point(r.Len() - 1)
	if math.Abs(last.X-10.5) > 1e-12 {
		t.Errorf("last point at x=%v, want 10.5", last.X)
	}
}

func TestOrient(t *testing.T) {
	pts := make([]Point, 300)
	for i := range pts {
		pts[i] = Point{X: float64(i), Y: math.Sin(float64(i) / 20), Z: 2}
	}
	c, _ := New(pts)

	if got := Orient(c); got.Point(0) != c.Point(0) {
		t.Error("forward curve should be unchanged")
	}

	rev := c.Reverse()
	oriented := Orient(rev)
	if oriented.Point(0) != c.Point(0) {
		t.Errorf("reversed curve not flipped back: starts at %v", oriented.Point(0))
	}
}
