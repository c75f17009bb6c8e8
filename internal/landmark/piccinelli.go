package landmark

import (
	"fmt"
	"math"

	"github.com/vasctools/siphon/internal/extrema"
)

// Piccinelli subdivides the siphon into bends following Piccinelli et al.
// (2011): each bend is a curvature peak delimited by two enclosing torsion
// peaks. Curvature maxima too close to the curve ends are discarded, and
// same-signal peaks closer than PeakSpacing indices collapse to the one with
// the larger magnitude. Curvature maxima with no enclosing torsion pair are
// skipped silently.
type Piccinelli struct {
	// TorsionSigma is the Gaussian sigma applied to the torsion signal
	// before its maxima are detected. Zero disables smoothing.
	TorsionSigma float64
	// EndpointMargin drops curvature maxima within this many indices of
	// either curve end.
	EndpointMargin int
	// PeakSpacing is the minimum index separation between same-signal
	// peaks; closer pairs collapse to the larger-magnitude one.
	PeakSpacing int
}

// DefaultTorsionSigma matches the smoothing used with discrete torsion; the
// spline path uses the lighter SplineTorsionSigma since analytic torsion is
// already smooth.
const (
	DefaultTorsionSigma = 25.0
	SplineTorsionSigma  = 10.0
)

// NewPiccinelli returns the engine with its published parameters.
func NewPiccinelli() *Piccinelli {
	return &Piccinelli{
		TorsionSigma:   DefaultTorsionSigma,
		EndpointMargin: 10,
		PeakSpacing:    70,
	}
}

// Algorithm implements Strategy.
func (p *Piccinelli) Algorithm() Algorithm { return AlgorithmPiccinelli }

// Landmark implements Strategy. A run that brackets no bend at all returns
// an empty landmark set, not an error.
func (p *Piccinelli) Landmark(in *Input) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if len(in.Attrs.Torsion) != in.Analysis.Len() {
		return nil, fmt.Errorf("landmark: torsion array not aligned to analysis curve")
	}

	var curvMax []int
	if in.CurvatureExtrema != nil {
		curvMax = in.CurvatureExtrema.Maxima
	} else {
		curvMax, _ = extrema.Detect(in.Attrs.Curvature)
	}

	absTorsion := make([]float64, len(in.Attrs.Torsion))
	for i, t := range extrema.Smooth(in.Attrs.Torsion, p.TorsionSigma) {
		absTorsion[i] = math.Abs(t)
	}
	torMax, _ := extrema.Detect(absTorsion)

	curvMax = p.dropNearEndpoints(curvMax, in.Analysis.Len())
	curvMax = collapseClosePeaks(curvMax, in.Attrs.Curvature, p.PeakSpacing)
	torMax = collapseClosePeaks(torMax, absTorsion, p.PeakSpacing)

	interfaces := pairBends(curvMax, torMax)
	return finalize(AlgorithmPiccinelli, in, interfaces, GeometryFull)
}

func (p *Piccinelli) dropNearEndpoints(ids []int, n int) []int {
	var out []int
	for _, id := range ids {
		if id >= p.EndpointMargin && id < n-p.EndpointMargin {
			out = append(out, id)
		}
	}
	return out
}

// collapseClosePeaks resolves adjacent peaks closer than spacing indices by
// dropping the smaller-magnitude one of each such pair. Pairs are judged on
// the original list, so a run of close peaks can lose several members.
func collapseClosePeaks(ids []int, signal []float64, spacing int) []int {
	drop := make(map[int]bool)
	for i := 0; i+1 < len(ids); i++ {
		if ids[i+1]-ids[i] >= spacing {
			continue
		}
		if signal[ids[i]] > signal[ids[i+1]] {
			drop[ids[i+1]] = true
		} else {
			drop[ids[i]] = true
		}
	}
	var out []int
	for _, id := range ids {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}

// pairBends emits two interfaces per bracketed curvature maximum: the
// enclosing torsion peaks, named bend1, bend2, ... in emission order. The
// scan cursor resumes at the distal peak of each match, so one torsion pair
// brackets at most one curvature maximum. Unbracketed maxima are skipped.
func pairBends(curvMax, torMax []int) []Interface {
	var interfaces []Interface
	cursor := 0
	k := 0
	for _, c := range curvMax {
		for i := cursor; i+1 < len(torMax); i++ {
			if torMax[i] < c && c < torMax[i+1] {
				interfaces = append(interfaces,
					Interface{Name: fmt.Sprintf("bend%d", k+1), Index: torMax[i]},
					Interface{Name: fmt.Sprintf("bend%d", k+2), Index: torMax[i+1]},
				)
				k += 2
				cursor = i + 1
				break
			}
		}
	}
	return interfaces
}
