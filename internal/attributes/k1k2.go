package attributes

import "github.com/vasctools/siphon/internal/centerline"

// computeK1K2 expresses the curvature vector of the curve in a
// parallel-transported frame (E1, E2) orthogonal to the tangent. Unlike the
// Frenet normal, the transported frame does not flip at inflection points,
// so the (k1, k2) components rotate smoothly from bend to bend and the angle
// between them measures bend-to-bend turning.
func computeK1K2(tangent []centerline.Point, curvature, s []float64) (k1, k2 []float64) {
	n := len(tangent)
	k1 = make([]float64, n)
	k2 = make([]float64, n)
	if n == 0 {
		return k1, k2
	}

	e1 := perpendicular(tangent[0])
	for i := 0; i < n; i++ {
		if i > 0 {
			// Transport E1: remove the component along the new tangent.
			proj := tangent[i].Scale(e1.Dot(tangent[i]))
			e1 = unit(e1.Sub(proj))
			if e1.Norm() == 0 {
				e1 = perpendicular(tangent[i])
			}
		}
		e2 := tangent[i].Cross(e1)

		// Curvature vector = dT/ds, projected onto the frame and rescaled
		// so that k1^2 + k2^2 equals the squared curvature magnitude.
		normal := tangentDerivative(tangent, s, i)
		nn := normal.Norm()
		if nn == 0 {
			continue
		}
		normal = normal.Scale(1 / nn)
		k1[i] = curvature[i] * normal.Dot(e1)
		k2[i] = curvature[i] * normal.Dot(e2)
	}
	return k1, k2
}

func tangentDerivative(tangent []centerline.Point, s []float64, i int) centerline.Point {
	lo, hi := i-1, i+1
	if lo < 0 {
		lo = 0
	}
	if hi > len(tangent)-1 {
		hi = len(tangent) - 1
	}
	ds := s[hi] - s[lo]
	if ds == 0 {
		return centerline.Point{}
	}
	return tangent[hi].Sub(tangent[lo]).Scale(1 / ds)
}

// perpendicular returns a unit vector orthogonal to t.
func perpendicular(t centerline.Point) centerline.Point {
	ref := centerline.Point{X: 1}
	if t.X*t.X > 0.9*t.Dot(t) {
		ref = centerline.Point{Y: 1}
	}
	return unit(t.Cross(ref))
}
