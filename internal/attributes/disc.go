package attributes

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/vasctools/siphon/internal/centerline"
)

// DefaultDiscWindow is the half-width, in indices, of the sliding window used
// by the "disc" method.
const DefaultDiscWindow = 20

// ComputeDiscrete derives curvature by fitting a quadratic in arclength over
// a sliding window of +/- neigh indices around each point and differentiating
// the fit. The window averages out sampling noise that plain central
// differences amplify. Torsion needs a third derivative and is left zero;
// rule engines using this method work from curvature alone.
func ComputeDiscrete(curve *centerline.Curve, neigh int) (*Set, error) {
	if neigh < 2 {
		return nil, fmt.Errorf("attributes: disc window must be at least 2, got %d", neigh)
	}
	n := curve.Len()
	if n < 2*neigh+1 {
		return nil, fmt.Errorf("attributes: curve too short for disc window %d (%d points)", neigh, n)
	}

	s := curve.Arclength()
	pts := curve.Points()

	set := &Set{
		Arclength: append([]float64(nil), s...),
		Curvature: make([]float64, n),
		Torsion:   make([]float64, n),
		Tangent:   make([]centerline.Point, n),
	}

	for i := 0; i < n; i++ {
		lo := i - neigh
		if lo < 0 {
			lo = 0
		}
		hi := i + neigh
		if hi > n-1 {
			hi = n - 1
		}
		m := hi - lo + 1

		a := mat.NewDense(m, 3, nil)
		y := mat.NewDense(m, 3, nil)
		for r := 0; r < m; r++ {
			ds := s[lo+r] - s[i]
			a.SetRow(r, []float64{1, ds, ds * ds})
			p := pts[lo+r]
			y.SetRow(r, []float64{p.X, p.Y, p.Z})
		}

		var qr mat.QR
		qr.Factorize(a)
		var coef mat.Dense
		if err := qr.SolveTo(&coef, false, y); err != nil {
			return nil, fmt.Errorf("attributes: disc fit at index %d: %w", i, err)
		}

		d1 := centerline.Point{X: coef.At(1, 0), Y: coef.At(1, 1), Z: coef.At(1, 2)}
		d2 := centerline.Point{X: 2 * coef.At(2, 0), Y: 2 * coef.At(2, 1), Z: 2 * coef.At(2, 2)}

		set.Tangent[i] = unit(d1)
		if speed := d1.Norm(); speed > 0 {
			set.Curvature[i] = d1.Cross(d2).Norm() / (speed * speed * speed)
		}
	}

	set.K1, set.K2 = computeK1K2(set.Tangent, set.Curvature, s)
	return set, nil
}
