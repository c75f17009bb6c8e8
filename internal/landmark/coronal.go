package landmark

import (
	"fmt"
	"math"

	"github.com/vasctools/siphon/internal/extrema"
)

// coronalSearchFraction bounds how far from the curve end the anterior-bend
// coordinate extremum may sit, as a fraction of total arclength.
const coronalSearchFraction = 3.0 / 4.0

// findCoronalExtremum locates the anterior bend: the index of the global
// coronal-coordinate extremum nearest the curve end. Minima are tried first
// (plateau-tolerant); when the deepest minimum lies too far from the end the
// search retries with maxima. A second failure means the model has no
// anterior bend, which is unrecoverable.
func findCoronalExtremum(coronal, length []float64) (int, error) {
	tol := length[len(length)-1] * coronalSearchFraction

	_, minima := extrema.DetectEqual(coronal)
	if id, ok := pickExtremum(coronal, minima, false); ok {
		if math.Abs(length[id]-length[len(length)-1]) <= tol {
			return id, nil
		}
	}

	maxima, _ := extrema.DetectEqual(coronal)
	if id, ok := pickExtremum(coronal, maxima, true); ok {
		if math.Abs(length[id]-length[len(length)-1]) <= tol {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: no anterior bend within %.0f%% of curve end",
		ErrSanityCheck, coronalSearchFraction*100)
}

// pickExtremum selects the extremum with the smallest (or largest) value
// among candidate indices and returns the first index in the signal holding
// that value.
func pickExtremum(signal []float64, candidates []int, wantMax bool) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := signal[candidates[0]]
	for _, i := range candidates[1:] {
		if wantMax && signal[i] > best || !wantMax && signal[i] < best {
			best = signal[i]
		}
	}
	for i, v := range signal {
		if v == best {
			return i, true
		}
	}
	return 0, false
}
