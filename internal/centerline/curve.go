// Package centerline holds the 1-D curve-in-3-D data model shared by the
// landmarking engine: ordered points with a strictly increasing arclength
// coordinate, plus the small set of geometric queries the rule engines need
// (coordinate extraction, nearest-point lookup, resampling, orientation).
package centerline

import (
	"fmt"
	"math"
)

// Point is a position (or free vector) in 3-D space.
type Point struct {
	X, Y, Z float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f, p.Z * f} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y + p.Z*q.Z }

// Cross returns the cross product p × q.
func (p Point) Cross(q Point) Point {
	return Point{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 { return math.Sqrt(p.Dot(p)) }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Norm() }

// Axis selects one spatial coordinate of a curve. The coronal axis used by
// the anterior-bend search is configured as one of these.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis converts "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q (want x, y or z)", s)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Curve is an ordered polyline embedded in 3-D with a precomputed, strictly
// increasing arclength coordinate. A Curve is immutable once constructed.
type Curve struct {
	points []Point
	length []float64
}

// New builds a Curve from ordered points. It fails if fewer than two points
// are given or if consecutive points coincide, since the arclength coordinate
// must strictly increase.
func New(points []Point) (*Curve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("centerline: need at least 2 points, got %d", len(points))
	}
	pts := make([]Point, len(points))
	copy(pts, points)

	length := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		seg := pts[i].Dist(pts[i-1])
		if seg == 0 {
			return nil, fmt.Errorf("centerline: repeated point at index %d, arclength must strictly increase", i)
		}
		length[i] = length[i-1] + seg
	}
	return &Curve{points: pts, length: length}, nil
}

// Len returns the number of points.
func (c *Curve) Len() int { return len(c.points) }

// Point returns the i-th point.
func (c *Curve) Point(i int) Point { return c.points[i] }

// Points returns the backing point slice. Callers must not modify it.
func (c *Curve) Points() []Point { return c.points }

// Arclength returns the cumulative arclength coordinate. Callers must not
// modify the returned slice.
func (c *Curve) Arclength() []float64 { return c.length }

// TotalLength returns the arclength of the whole curve.
func (c *Curve) TotalLength() float64 { return c.length[len(c.length)-1] }

// Coordinate extracts one spatial coordinate as a per-point scalar array.
func (c *Curve) Coordinate(a Axis) []float64 {
	out := make([]float64, len(c.points))
	for i, p := range c.points {
		switch a {
		case AxisX:
			out[i] = p.X
		case AxisY:
			out[i] = p.Y
		default:
			out[i] = p.Z
		}
	}
	return out
}

// Reverse returns a new curve traversed end to start.
func (c *Curve) Reverse() *Curve {
	pts := make([]Point, len(c.points))
	for i, p := range c.points {
		pts[len(pts)-1-i] = p
	}
	rc, err := New(pts)
	if err != nil {
		// The forward curve was valid, so the reversed one is too.
		panic(err)
	}
	return rc
}

// NearestPoint returns the index of the curve point closest to p.
func (c *Curve) NearestPoint(p Point) int {
	best := 0
	bestDist := math.Inf(1)
	for i, q := range c.points {
		if d := q.Dist(p); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// Spacing returns the mean distance between consecutive points, used as the
// local point-spacing scale for divergence tolerances.
func (c *Curve) Spacing() float64 {
	return c.TotalLength() / float64(len(c.points)-1)
}

// Resample returns a copy of the curve resampled at a uniform arclength step.
// The final point is always kept so the curve span is preserved.
func (c *Curve) Resample(step float64) (*Curve, error) {
	if step <= 0 {
		return nil, fmt.Errorf("centerline: resampling step must be positive, got %g", step)
	}
	total := c.TotalLength()
	n := int(total/step) + 1

	pts := make([]Point, 0, n+1)
	seg := 1
	for i := 0; i < n; i++ {
		target := float64(i) * step
		for seg < len(c.length)-1 && c.length[seg] < target {
			seg++
		}
		lo, hi := c.length[seg-1], c.length[seg]
		t := (target - lo) / (hi - lo)
		a, b := c.points[seg-1], c.points[seg]
		pts = append(pts, a.Add(b.Sub(a).Scale(t)))
	}
	last := c.points[len(c.points)-1]
	if pts[len(pts)-1].Dist(last) > 1e-12 {
		pts = append(pts, last)
	}
	return New(pts)
}
