// Package attributes computes differential-geometry attributes for a
// centerline: Frenet tangent, curvature, torsion and the k1/k2 curvature
// basis, each aligned to curve indices. Three approximation methods are
// supported: discrete Frenet derivatives over the polyline ("frenet"),
// windowed least-squares derivatives ("disc"), and a global least-squares
// cubic spline with analytic derivatives ("spline").
package attributes

import (
	"errors"
	"fmt"

	"github.com/vasctools/siphon/internal/centerline"
)

// ErrUnsupportedMethod reports an approximation method this package does not
// implement. It is returned before any processing starts.
var ErrUnsupportedMethod = errors.New("attributes: unsupported approximation method")

// Method selects how curvature and torsion are approximated.
type Method string

const (
	// MethodFrenet differentiates the polyline directly with central
	// differences in arclength.
	MethodFrenet Method = "frenet"
	// MethodDisc fits a local quadratic over a sliding index window and
	// differentiates the fit. Torsion is not available with this method.
	MethodDisc Method = "disc"
	// MethodSpline fits one global least-squares cubic spline per
	// coordinate and differentiates it analytically.
	MethodSpline Method = "spline"
)

// ParseMethod validates a method name.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodFrenet, MethodDisc, MethodSpline:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q (want frenet, disc or spline)", ErrUnsupportedMethod, s)
}

// Set holds per-point geometric attributes aligned to curve indices.
type Set struct {
	Arclength []float64
	Curvature []float64
	Torsion   []float64
	Tangent   []centerline.Point
	K1        []float64
	K2        []float64
}

// Options controls optional centerline smoothing applied before attributes
// are computed.
type Options struct {
	// Smooth enables Laplacian smoothing of the curve points.
	Smooth bool
	// SmoothingFactor is the Laplacian relaxation factor in (0, 1].
	SmoothingFactor float64
	// Iterations is the number of smoothing passes.
	Iterations int
}

// Compute derives Frenet attributes for the curve with the "frenet" method.
// When opts.Smooth is set the curve points are Laplacian-smoothed first and
// the smoothed curve is returned alongside the attributes; otherwise the
// input curve is returned unchanged.
func Compute(curve *centerline.Curve, opts Options) (*centerline.Curve, *Set, error) {
	line := curve
	if opts.Smooth {
		var err error
		line, err = laplacianSmooth(curve, opts.SmoothingFactor, opts.Iterations)
		if err != nil {
			return nil, nil, err
		}
	}

	s := line.Arclength()
	pts := line.Points()

	d1 := derivative(pts, s)
	d2 := derivative(d1, s)
	d3 := derivative(d2, s)

	n := len(pts)
	set := &Set{
		Arclength: append([]float64(nil), s...),
		Curvature: make([]float64, n),
		Torsion:   make([]float64, n),
		Tangent:   make([]centerline.Point, n),
	}
	for i := 0; i < n; i++ {
		set.Tangent[i] = unit(d1[i])
		cross := d1[i].Cross(d2[i])
		speed := d1[i].Norm()
		if speed > 0 {
			set.Curvature[i] = cross.Norm() / (speed * speed * speed)
		}
		if c2 := cross.Dot(cross); c2 > 0 {
			set.Torsion[i] = cross.Dot(d3[i]) / c2
		}
	}
	set.K1, set.K2 = computeK1K2(set.Tangent, set.Curvature, s)
	return line, set, nil
}

// derivative differentiates a per-point vector field with respect to the
// arclength coordinate using central differences (one-sided at the ends).
func derivative(v []centerline.Point, s []float64) []centerline.Point {
	n := len(v)
	out := make([]centerline.Point, n)
	for i := 0; i < n; i++ {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		ds := s[hi] - s[lo]
		if ds == 0 {
			continue
		}
		out[i] = v[hi].Sub(v[lo]).Scale(1 / ds)
	}
	return out
}

func unit(p centerline.Point) centerline.Point {
	n := p.Norm()
	if n == 0 {
		return p
	}
	return p.Scale(1 / n)
}

// laplacianSmooth relaxes interior points toward the midpoint of their
// neighbours. Endpoints stay fixed.
func laplacianSmooth(curve *centerline.Curve, factor float64, iterations int) (*centerline.Curve, error) {
	if factor <= 0 || factor > 1 {
		return nil, fmt.Errorf("attributes: smoothing factor must be in (0, 1], got %g", factor)
	}
	pts := append([]centerline.Point(nil), curve.Points()...)
	for it := 0; it < iterations; it++ {
		prev := pts[0]
		for i := 1; i < len(pts)-1; i++ {
			mid := prev.Add(pts[i+1]).Scale(0.5)
			next := pts[i].Add(mid.Sub(pts[i]).Scale(factor))
			prev = pts[i]
			pts[i] = next
		}
	}
	return centerline.New(pts)
}
