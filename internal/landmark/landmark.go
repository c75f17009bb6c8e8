// Package landmark partitions a vessel centerline into anatomically named
// segments. Three rule engines implement the Strategy interface: Bogunovic
// (four fixed interfaces from bend-to-bend turning angles), Piccinelli
// (bends delimited by enclosing torsion peaks) and Kjeldsberg (the C1-C7
// carotid classification). All three share the extrema-detection substrate
// and the landmark mapper.
package landmark

import (
	"fmt"

	"github.com/vasctools/siphon/internal/attributes"
	"github.com/vasctools/siphon/internal/centerline"
	"github.com/vasctools/siphon/internal/extrema"
	"github.com/vasctools/siphon/internal/landmark/divergence"
)

// Algorithm names a landmarking convention.
type Algorithm string

const (
	AlgorithmBogunovic  Algorithm = "bogunovic"
	AlgorithmPiccinelli Algorithm = "piccinelli"
	AlgorithmKjeldsberg Algorithm = "kjeldsberg"
)

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmBogunovic, AlgorithmPiccinelli, AlgorithmKjeldsberg:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("unknown landmarking algorithm %q", s)
}

// GeometryState records how far a short geometry degraded the Kjeldsberg
// segment set. It is threaded explicitly through the classification steps
// rather than held as ambient flags.
type GeometryState int

const (
	// GeometryFull means every segment could be located.
	GeometryFull GeometryState = iota
	// GeometryShort suppresses the C1 and C2 segments.
	GeometryShort
	// GeometryVeryShort suppresses C1 through C3.
	GeometryVeryShort
)

func (s GeometryState) String() string {
	switch s {
	case GeometryFull:
		return "full"
	case GeometryShort:
		return "short"
	case GeometryVeryShort:
		return "very-short"
	}
	return fmt.Sprintf("GeometryState(%d)", int(s))
}

// Interface is a named segment boundary: one index on the analysis curve.
type Interface struct {
	Name  string
	Index int
}

// Input bundles the immutable per-run inputs a rule engine consumes.
type Input struct {
	// Analysis is the attribute-bearing curve (possibly resampled or
	// smoothed) the rule engine works on.
	Analysis *centerline.Curve
	// Original is the input curve landmarks are mapped back onto.
	Original *centerline.Curve
	// Attrs holds the per-point geometric attributes of Analysis.
	Attrs *attributes.Set
	// CoronalAxis is the spatial axis carrying the coronal coordinate.
	CoronalAxis centerline.Axis
	// CurvatureExtrema, when set, are analytic curvature extrema from a
	// spline fit. Engines then skip their own curvature smoothing and
	// detection.
	CurvatureExtrema *extrema.Set
	// Divergence carries diverging-artery overrides for Kjeldsberg.
	Divergence *divergence.Detection
}

func (in *Input) validate() error {
	if in.Analysis == nil || in.Original == nil || in.Attrs == nil {
		return fmt.Errorf("landmark: input needs analysis curve, original curve and attributes")
	}
	if len(in.Attrs.Curvature) != in.Analysis.Len() {
		return fmt.Errorf("landmark: attribute arrays (%d) not aligned to analysis curve (%d points)",
			len(in.Attrs.Curvature), in.Analysis.Len())
	}
	return nil
}

// curvatureExtrema returns the curvature extrema the engine should work
// from: the analytic spline extrema when supplied, otherwise strict extrema
// of the (optionally smoothed) discrete curvature. The returned signal is
// the one the extrema were detected on.
func (in *Input) curvatureExtrema(sigma float64) (extrema.Set, []float64) {
	if in.CurvatureExtrema != nil {
		return *in.CurvatureExtrema, in.Attrs.Curvature
	}
	curv := extrema.Smooth(in.Attrs.Curvature, sigma)
	return extrema.DetectSet(curv, 0), curv
}

// Result is the outcome of one landmarking run.
type Result struct {
	Algorithm Algorithm
	// Interfaces are the named boundaries on the analysis curve, in
	// emission order.
	Interfaces []Interface
	// Landmarks are the interfaces snapped onto the original curve.
	Landmarks *Set
	// State reports geometry degeneracy (Kjeldsberg only; always
	// GeometryFull for the other engines).
	State GeometryState
}

// Strategy is a segmentation rule engine.
type Strategy interface {
	Algorithm() Algorithm
	Landmark(in *Input) (*Result, error)
}

// finalize turns named interface indices into a mapped landmark set.
func finalize(alg Algorithm, in *Input, interfaces []Interface, state GeometryState) (*Result, error) {
	set := NewSet()
	for _, iface := range interfaces {
		if err := set.Add(iface.Name, in.Analysis.Point(iface.Index)); err != nil {
			return nil, err
		}
	}
	return &Result{
		Algorithm:  alg,
		Interfaces: interfaces,
		Landmarks:  MapToCurve(set, in.Original, alg),
		State:      state,
	}, nil
}
