package attributes

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/vasctools/siphon/internal/centerline"
	"github.com/vasctools/siphon/internal/extrema"
)

// SplineFit fits one global least-squares cubic spline per coordinate, with
// nknots interior knots spaced evenly in arclength, and computes attributes
// from the analytic derivatives of the fit. The extrema of the analytic
// curvature are returned alongside: they bypass the discrete-derivative noise
// that plagues extrema detection on sampled signals.
func SplineFit(curve *centerline.Curve, nknots int) (*centerline.Curve, *Set, *extrema.Set, error) {
	if nknots < 1 {
		return nil, nil, nil, fmt.Errorf("attributes: spline needs at least 1 interior knot, got %d", nknots)
	}
	n := curve.Len()
	ncoef := 4 + nknots
	if n < ncoef {
		return nil, nil, nil, fmt.Errorf("attributes: curve too short for %d-knot spline (%d points, need %d)", nknots, n, ncoef)
	}

	s := curve.Arclength()
	s0, s1 := s[0], s[n-1]
	knots := make([]float64, nknots)
	for j := range knots {
		knots[j] = s0 + (s1-s0)*float64(j+1)/float64(nknots+1)
	}

	// Least-squares fit on the truncated-power cubic basis
	// {1, u, u^2, u^3, (u - t_j)^3_+}.
	a := mat.NewDense(n, ncoef, nil)
	y := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		a.SetRow(i, powerBasis(s[i], knots, 0))
		p := curve.Point(i)
		y.SetRow(i, []float64{p.X, p.Y, p.Z})
	}
	var qr mat.QR
	qr.Factorize(a)
	var coef mat.Dense
	if err := qr.SolveTo(&coef, false, y); err != nil {
		return nil, nil, nil, fmt.Errorf("attributes: spline fit: %w", err)
	}

	eval := func(u float64, der int) centerline.Point {
		basis := powerBasis(u, knots, der)
		var p centerline.Point
		for j, b := range basis {
			p.X += b * coef.At(j, 0)
			p.Y += b * coef.At(j, 1)
			p.Z += b * coef.At(j, 2)
		}
		return p
	}

	pts := make([]centerline.Point, n)
	for i := 0; i < n; i++ {
		pts[i] = eval(s[i], 0)
	}
	fitted, err := centerline.New(pts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("attributes: splined curve degenerate: %w", err)
	}

	set := &Set{
		Arclength: append([]float64(nil), fitted.Arclength()...),
		Curvature: make([]float64, n),
		Torsion:   make([]float64, n),
		Tangent:   make([]centerline.Point, n),
	}
	for i := 0; i < n; i++ {
		d1 := eval(s[i], 1)
		d2 := eval(s[i], 2)
		d3 := eval(s[i], 3)
		set.Tangent[i] = unit(d1)
		cross := d1.Cross(d2)
		if speed := d1.Norm(); speed > 0 {
			set.Curvature[i] = cross.Norm() / (speed * speed * speed)
		}
		if c2 := cross.Dot(cross); c2 > 0 {
			set.Torsion[i] = cross.Dot(d3) / c2
		}
	}
	set.K1, set.K2 = computeK1K2(set.Tangent, set.Curvature, set.Arclength)

	maxima, minima := extrema.Detect(set.Curvature)
	return fitted, set, &extrema.Set{Maxima: maxima, Minima: minima}, nil
}

// powerBasis evaluates the truncated-power cubic basis, or its der-th
// derivative, at u.
func powerBasis(u float64, knots []float64, der int) []float64 {
	out := make([]float64, 4+len(knots))
	switch der {
	case 0:
		out[0], out[1], out[2], out[3] = 1, u, u*u, u*u*u
		for j, t := range knots {
			if d := u - t; d > 0 {
				out[4+j] = d * d * d
			}
		}
	case 1:
		out[1], out[2], out[3] = 1, 2*u, 3*u*u
		for j, t := range knots {
			if d := u - t; d > 0 {
				out[4+j] = 3 * d * d
			}
		}
	case 2:
		out[2], out[3] = 2, 6*u
		for j, t := range knots {
			if d := u - t; d > 0 {
				out[4+j] = 6 * d
			}
		}
	case 3:
		out[3] = 6
		for j, t := range knots {
			if u-t > 0 {
				out[4+j] = 6
			}
		}
	}
	return out
}
