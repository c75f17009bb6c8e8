package landmark

import (
	"errors"
	"testing"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestFindCoronalExtremum_MinimumNearEnd(t *testing.T) {
	n := 200
	coronal := make([]float64, n)
	for i := range coronal {
		d := float64(i - 170)
		coronal[i] = d * d
	}
	id, err := findCoronalExtremum(coronal, ramp(n))
	if err != nil {
		t.Fatalf("findCoronalExtremum: %v", err)
	}
	if id != 170 {
		t.Errorf("id = %d, want 170", id)
	}
}

func TestFindCoronalExtremum_MaximumFallback(t *testing.T) {
	// An inverted parabola has no interior minimum, so the search must fall
	// back to the maximum.
	n := 200
	coronal := make([]float64, n)
	for i := range coronal {
		d := float64(i - 180)
		coronal[i] = -d * d
	}
	id, err := findCoronalExtremum(coronal, ramp(n))
	if err != nil {
		t.Fatalf("findCoronalExtremum: %v", err)
	}
	if id != 180 {
		t.Errorf("id = %d, want 180", id)
	}
}

func TestFindCoronalExtremum_TooFarFromEnd(t *testing.T) {
	// Extremum at 10 of 200: 189 indices from the end, beyond 3/4 of the
	// curve. No fallback is available on a convex signal.
	n := 200
	coronal := make([]float64, n)
	for i := range coronal {
		d := float64(i - 10)
		coronal[i] = d * d
	}
	_, err := findCoronalExtremum(coronal, ramp(n))
	if !errors.Is(err, ErrSanityCheck) {
		t.Errorf("err = %v, want ErrSanityCheck", err)
	}
}

func TestPickExtremum_FirstOccurrenceOfValue(t *testing.T) {
	// Two minima share the best value; the index reported is the first
	// position in the signal holding that value.
	signal := []float64{5, 1, 5, 5, 1, 5}
	id, ok := pickExtremum(signal, []int{1, 4}, false)
	if !ok || id != 1 {
		t.Errorf("pickExtremum = %d, %v; want 1, true", id, ok)
	}

	id, ok = pickExtremum(signal, []int{1, 4}, true)
	if !ok || id != 1 {
		// Among candidate indices the best max value is 1 at both; still
		// first occurrence of that value in the signal.
		t.Errorf("pickExtremum(max) = %d, %v; want 1, true", id, ok)
	}

	if _, ok := pickExtremum(signal, nil, false); ok {
		t.Error("pickExtremum succeeded with no candidates")
	}
}
