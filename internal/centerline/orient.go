package centerline

import "github.com/vasctools/siphon/internal/extrema"

// orientSigma is the Gaussian sigma used to flatten local wiggles before
// deciding which coordinate is the axial one.
const orientSigma = 25

// Orient checks the axial coordinate of the curve and returns the curve
// reversed when it is traversed in the distal-to-proximal direction. The
// axial coordinate is the first one whose smoothed profile is monotone
// across the whole curve; if none is, the curve is returned unchanged.
func Orient(c *Curve) *Curve {
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		coord := extrema.Smooth(c.Coordinate(axis), orientSigma)
		minID, maxID := argMin(coord), argMax(coord)
		if minID == 0 && maxID == len(coord)-1 {
			return c
		}
		if maxID == 0 && minID == len(coord)-1 {
			return c.Reverse()
		}
	}
	return c
}

func argMin(v []float64) int {
	best := 0
	for i, x := range v {
		if x < v[best] {
			best = i
		}
	}
	return best
}

func argMax(v []float64) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}
