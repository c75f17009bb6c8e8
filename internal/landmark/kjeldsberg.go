package landmark

import (
	"fmt"
	"math"

	"github.com/vasctools/siphon/internal/centerline"
)

// Kjeldsberg classifies the internal carotid artery into the seven segments
// C1-C7. Interfaces are detected from the curvature profile and adjusted
// using tangent-plane angles; short geometries degrade gracefully to a
// reduced segment set, reported through the geometry state. Detected
// diverging arteries override the C5-C6 and C6-C7 interfaces.
type Kjeldsberg struct {
	// CurvatureSigma removes residual noise from the curvature signal
	// before extrema detection.
	CurvatureSigma float64
	// WedgeAngle is the tangent angle, in degrees, that closes the C5
	// wedge when expanding from the anterior-bend apex.
	WedgeAngle float64
	// BendAngle is the minimum tangent angle, in degrees, between an
	// interface and its downstream neighbour for the interface to sit on a
	// real bend.
	BendAngle float64
}

// NewKjeldsberg returns the engine with its published parameters.
func NewKjeldsberg() *Kjeldsberg {
	return &Kjeldsberg{
		CurvatureSigma: 15,
		WedgeAngle:     30,
		BendAngle:      60,
	}
}

// Algorithm implements Strategy.
func (k *Kjeldsberg) Algorithm() Algorithm { return AlgorithmKjeldsberg }

// Landmark implements Strategy. Only a failed anterior-bend sanity check
// aborts the run; every other missing feature degrades the segment set.
func (k *Kjeldsberg) Landmark(in *Input) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if len(in.Attrs.Tangent) != in.Analysis.Len() {
		return nil, fmt.Errorf("landmark: tangent array not aligned to analysis curve")
	}

	ex, _ := in.curvatureExtrema(k.CurvatureSigma)
	maxIDs, minIDs := ex.Maxima, ex.Minima
	tangent := in.Attrs.Tangent
	length := in.Analysis.Arclength()
	n := in.Analysis.Len()

	c4c5, err := findCoronalExtremum(in.Analysis.Coordinate(in.CoronalAxis), length)
	if err != nil {
		return nil, err
	}

	c3c4, windowStart, state := findC3C4(c4c5, maxIDs, minIDs)

	var c1c2, c2c3 int
	if state != GeometryVeryShort {
		c2c3, windowStart, state = findC2C3(maxIDs, minIDs, windowStart)
	}
	if state == GeometryFull {
		// Interfaces found by windowing may sit on straight stretches;
		// shrink them toward the curve start until they land on a bend,
		// then center them on the next downstream bend peak.
		c2c3 = k.adjustBend(c2c3, c3c4, tangent)
		c1c2 = findC1C2(maxIDs, minIDs, windowStart)
		c1c2 = k.adjustBend(c1c2, c2c3, tangent)
		c2c3 = midpointToNextMax(c2c3, maxIDs)
		c1c2 = midpointToNextMax(c1c2, maxIDs)
	}

	c5c6 := k.findC5C6(c4c5, tangent)
	c6c7 := findC6C7(c5c6, maxIDs, n)
	c5c6 = adjustC5C6(c4c5, c5c6, c6c7, length)
	c6c7 = adjustC6C7(c5c6, c6c7, length, n)

	if d := in.Divergence; d != nil && d.Classify {
		segC5 := c5c6 - c4c5
		if d.Ophthalmic != nil {
			c5c6 = *d.Ophthalmic
		}
		if d.PComA != nil {
			c6c7 = *d.PComA
		}
		// Keep the C5 span when the override pulled C5-C6 proximal to the
		// anterior-bend apex.
		if c5c6 < c4c5 {
			c4c5 = c5c6 - segC5
			if c4c5 < 0 {
				c4c5 = 0
			}
		}
	}

	var interfaces []Interface
	add := func(name string, index int) {
		interfaces = append(interfaces, Interface{Name: name, Index: index})
	}
	switch {
	case state == GeometryVeryShort:
		add("C4", c3c4)
	case state == GeometryShort:
		add("C3", c2c3)
		add("C4", c3c4)
	case c1c2 == 0:
		add("C2", c1c2)
		add("C3", c2c3)
		add("C4", c3c4)
	default:
		add("C1", 0)
		add("C2", c1c2)
		add("C3", c2c3)
		add("C4", c3c4)
	}
	add("C5", c4c5)
	add("C6", c5c6)
	add("C7", c6c7)

	return finalize(AlgorithmKjeldsberg, in, interfaces, state)
}

// findC3C4 windows between the two curvature maxima preceding the
// anterior-bend peak and takes the first curvature minimum inside. With a
// single preceding maximum the window runs from the curve start instead; no
// preceding maximum, or an empty window, marks the model very short.
func findC3C4(c4c5 int, maxIDs, minIDs []int) (c3c4, windowStart int, state GeometryState) {
	peak, ok := lastBelow(maxIDs, c4c5)
	if !ok {
		return 0, 0, GeometryVeryShort
	}
	var preceding []int
	for _, m := range maxIDs {
		if m < peak {
			preceding = append(preceding, m)
		}
	}
	var start, stop int
	switch {
	case len(preceding) >= 2:
		start, stop = preceding[len(preceding)-2], preceding[len(preceding)-1]
	case len(preceding) == 1:
		start, stop = 0, preceding[0]
	default:
		return 0, 0, GeometryVeryShort
	}
	if min, ok := firstMinBetween(minIDs, start, stop); ok {
		return min, start, GeometryFull
	}
	return 0, start, GeometryVeryShort
}

// findC2C3 repeats the windowing pattern one bend upstream. A missing
// window marks the model short.
func findC2C3(maxIDs, minIDs []int, start int) (c2c3, windowStart int, state GeometryState) {
	stop := start
	prev, ok := lastBelow(maxIDs, stop)
	if !ok {
		return 0, start, GeometryShort
	}
	if min, ok := firstMinBetween(minIDs, prev, stop); ok {
		return min, prev, GeometryFull
	}
	return 0, start, GeometryShort
}

// findC1C2 repeats the windowing once more; here a missing window pins the
// interface to the curve start instead of degrading the state.
func findC1C2(maxIDs, minIDs []int, start int) int {
	stop := start
	prev, ok := lastBelow(maxIDs, stop)
	if !ok {
		return 0
	}
	if min, ok := firstMinBetween(minIDs, prev, stop); ok {
		return min
	}
	return 0
}

// adjustBend shrinks idx toward the curve start until the tangent angle to
// its downstream neighbour reaches the bend tolerance. Index 0 is the
// termination bound on pathological input.
func (k *Kjeldsberg) adjustBend(idx, downstream int, tangent []centerline.Point) int {
	for idx > 0 && tangentAngle(tangent[idx], tangent[downstream]) < k.BendAngle {
		idx = int(float64(idx) * 0.95)
	}
	return idx
}

// findC5C6 expands distally from the anterior-bend apex until the tangent
// has turned by the wedge angle relative to the apex frame. The curve end
// is the termination bound.
func (k *Kjeldsberg) findC5C6(c4c5 int, tangent []centerline.Point) int {
	n := len(tangent)
	t45 := tangent[c4c5]
	c := int(float64(c4c5) * 1.02)
	if c <= c4c5 {
		c = c4c5 + 1
	}
	for c < n-1 && tangentAngle(t45, tangent[c]) < k.WedgeAngle {
		next := int(float64(c) * 1.02)
		if next <= c {
			next = c + 1
		}
		c = next
	}
	if c > n-1 {
		c = n - 1
	}
	return c
}

// findC6C7 takes the nearest curvature maximum distal to C5-C6, or the
// midpoint between C5-C6 and the curve end when no maximum remains.
func findC6C7(c5c6 int, maxIDs []int, n int) int {
	for _, m := range maxIDs {
		if m > c5c6 {
			return m
		}
	}
	return (n - 1 + c5c6) / 2
}

// adjustC5C6 shrinks C5-C6 toward the apex, in 10%-of-span steps, until
// segment C5 is no longer longer than 2/3 of segment C6.
func adjustC5C6(c4c5, c5c6, c6c7 int, length []float64) int {
	for segLen(length, c6c7, c5c6)*2/3 < segLen(length, c5c6, c4c5) {
		step := (c5c6 - c4c5) / 10
		if step < 1 {
			step = 1
		}
		if c5c6-step <= c4c5 {
			break
		}
		c5c6 -= step
	}
	return c5c6
}

// adjustC6C7 pushes C6-C7 distally, in 10%-of-span steps, until segment C6
// is at least as long as segment C7. The curve end is the termination bound.
func adjustC6C7(c5c6, c6c7 int, length []float64, n int) int {
	for segLen(length, c6c7, c5c6) < segLen(length, n-1, c6c7) {
		step := (c6c7 - c5c6) / 10
		if step < 1 {
			step = 1
		}
		if c6c7+step >= n-1 {
			return n - 1
		}
		c6c7 += step
	}
	return c6c7
}

func segLen(length []float64, a, b int) float64 {
	return math.Abs(length[a] - length[b])
}

// tangentAngle measures the angle between two tangent vectors in degrees,
// folding antiparallel directions together.
func tangentAngle(a, b centerline.Point) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	dot := math.Abs(a.Dot(b)) / (na * nb)
	if dot > 1 {
		dot = 1
	}
	return math.Acos(dot) * 180 / math.Pi
}

// lastBelow returns the last value in ids strictly below x.
func lastBelow(ids []int, x int) (int, bool) {
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] < x {
			return ids[i], true
		}
	}
	return 0, false
}

// firstMinBetween returns the first minimum strictly inside (lo, hi).
func firstMinBetween(minIDs []int, lo, hi int) (int, bool) {
	for _, m := range minIDs {
		if m > lo && m < hi {
			return m, true
		}
	}
	return 0, false
}

// midpointToNextMax centers idx between its current position and the next
// downstream curvature maximum, aligning the interface with the bend peak.
func midpointToNextMax(idx int, maxIDs []int) int {
	for _, m := range maxIDs {
		if m > idx {
			return (idx + m) / 2
		}
	}
	return idx
}
