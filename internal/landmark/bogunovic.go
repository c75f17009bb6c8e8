package landmark

import (
	"fmt"
	"math"

	"github.com/vasctools/siphon/internal/extrema"
)

// Bogunovic locates the four carotid-siphon interfaces of Bogunovic et al.
// (2012). Bends are identified where the turning angle between consecutive
// curvature maxima, measured on the unit (k1, k2) curvature-basis vectors,
// exceeds a per-interface tolerance; each interface is the curvature minimum
// between the bracketing maxima.
type Bogunovic struct {
	// Turning-angle tolerances in degrees, per Bogunovic et al.
	TolAntPost float64
	TolPostInf float64
	TolInfEnd  float64
	TolSupAnt  float64
	// CurvatureSigma is the Gaussian sigma applied to the curvature signal
	// before extrema detection. Zero disables smoothing. Ignored when the
	// input carries analytic spline extrema.
	CurvatureSigma float64
}

// NewBogunovic returns the engine with the published tolerances.
func NewBogunovic() *Bogunovic {
	return &Bogunovic{
		TolAntPost:     60,
		TolPostInf:     45,
		TolInfEnd:      110,
		TolSupAnt:      45,
		CurvatureSigma: 2,
	}
}

// Algorithm implements Strategy.
func (b *Bogunovic) Algorithm() Algorithm { return AlgorithmBogunovic }

// Landmark implements Strategy. Any missing threshold crossing other than
// the terminal inferior-end step aborts the run with ErrNoInterface.
func (b *Bogunovic) Landmark(in *Input) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ex, curv := in.curvatureExtrema(b.CurvatureSigma)
	ex = ex.SuppressSaddles(curv, extrema.SaddleGap, extrema.SaddleDelta)
	maxIDs, minIDs := ex.Maxima, ex.Minima
	if len(maxIDs) < 2 {
		return nil, fmt.Errorf("%w: need at least two curvature maxima, got %d", ErrNoInterface, len(maxIDs))
	}

	theta := turningAngles(in.Attrs.K1, in.Attrs.K2, maxIDs)

	coronalID, err := findCoronalExtremum(in.Analysis.Coordinate(in.CoronalAxis), in.Analysis.Arclength())
	if err != nil {
		return nil, err
	}

	// Position, within the maxima list, of the last maximum proximal to the
	// anterior bend. The directional scans start from here.
	anterior := -1
	for i, m := range maxIDs {
		if m < coronalID {
			anterior = i
		}
	}
	if anterior < 0 {
		return nil, fmt.Errorf("%w: no curvature maximum precedes the anterior bend", ErrNoInterface)
	}

	scan := func(start, dir int, tol float64) (iface, next int, found bool, err error) {
		i := start - 1
		for i >= 0 && i < len(theta) {
			if theta[i] > tol {
				iface, err = lastMinimumBetween(minIDs, maxIDs[i], maxIDs[i+1])
				return iface, i, true, err
			}
			i += dir
		}
		return 0, 0, false, nil
	}

	var interfaces []Interface

	antPost, next, found, err := scan(anterior, -1, b.TolAntPost)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: geometry too short to separate the anterior and posterior bends", ErrNoInterface)
	}
	interfaces = append(interfaces, Interface{Name: "ant_post", Index: antPost})

	postInf, next, found, err := scan(next, -1, b.TolPostInf)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: geometry too short to separate the posterior and inferior bends", ErrNoInterface)
	}
	interfaces = append(interfaces, Interface{Name: "post_inf", Index: postInf})

	// The inferior bend may run to the start of the geometry; a missing
	// crossing here is not fatal.
	infEnd, _, found, err := scan(next, -1, b.TolInfEnd)
	if err != nil {
		return nil, err
	}
	if !found {
		infEnd = 0
	}
	interfaces = append(interfaces, Interface{Name: "inf_end", Index: infEnd})

	supAnt, _, found, err := scan(anterior+1, 1, b.TolSupAnt)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no superior-anterior crossing, check the coronal coordinate", ErrNoInterface)
	}
	interfaces = append(interfaces, Interface{Name: "sup_ant", Index: supAnt})

	return finalize(AlgorithmBogunovic, in, interfaces, GeometryFull)
}

// turningAngles measures the angle, in degrees, between the unit (k1, k2)
// vectors at consecutive curvature maxima.
func turningAngles(k1, k2 []float64, maxIDs []int) []float64 {
	theta := make([]float64, len(maxIDs)-1)
	for i := range theta {
		a1, a2 := k1[maxIDs[i]], k2[maxIDs[i]]
		b1, b2 := k1[maxIDs[i+1]], k2[maxIDs[i+1]]
		na := math.Hypot(a1, a2)
		nb := math.Hypot(b1, b2)
		if na == 0 || nb == 0 {
			continue
		}
		dot := math.Abs(a1*b1+a2*b2) / (na * nb)
		if dot > 1 {
			dot = 1
		}
		theta[i] = math.Acos(dot) * 180 / math.Pi
	}
	return theta
}

// lastMinimumBetween returns the last curvature minimum strictly inside
// (lo, hi).
func lastMinimumBetween(minIDs []int, lo, hi int) (int, error) {
	for i := len(minIDs) - 1; i >= 0; i-- {
		if minIDs[i] > lo && minIDs[i] < hi {
			return minIDs[i], nil
		}
	}
	return 0, fmt.Errorf("%w: no curvature minimum between bend peaks %d and %d", ErrNoInterface, lo, hi)
}
