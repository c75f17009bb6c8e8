package extrema

import (
	"math"
	"reflect"
	"testing"
)

func TestDetect(t *testing.T) {
	signal := []float64{0, 1, 0, -1, 0, 2, 0}
	maxima, minima := Detect(signal)
	if !reflect.DeepEqual(maxima, []int{1, 5}) {
		t.Errorf("maxima = %v, want [1 5]", maxima)
	}
	if !reflect.DeepEqual(minima, []int{3}) {
		t.Errorf("minima = %v, want [3]", minima)
	}
}

func TestDetect_EndpointsExcluded(t *testing.T) {
	maxima, minima := Detect([]float64{5, 1, 2, 3, 4})
	if len(maxima) != 0 {
		t.Errorf("maxima = %v, want none", maxima)
	}
	if !reflect.DeepEqual(minima, []int{1}) {
		t.Errorf("minima = %v, want [1]", minima)
	}
}

func TestDetect_PlateauIgnored(t *testing.T) {
	// Strict detection skips plateau members; the plateau-tolerant variant
	// reports them.
	signal := []float64{0, 2, 2, 2, 0}
	maxima, _ := Detect(signal)
	if len(maxima) != 0 {
		t.Errorf("strict maxima = %v, want none", maxima)
	}
	maxima, _ = DetectEqual(signal)
	if !reflect.DeepEqual(maxima, []int{1, 2, 3}) {
		t.Errorf("plateau maxima = %v, want [1 2 3]", maxima)
	}
}

func TestDetectSet_Smoothing(t *testing.T) {
	// A sharp two-point spike survives sigma=0 detection and is flattened
	// into a single smooth bump by smoothing.
	signal := make([]float64, 41)
	signal[10] = 1
	signal[12] = 1
	raw := DetectSet(signal, 0)
	if len(raw.Maxima) != 2 {
		t.Fatalf("raw maxima = %v, want two spikes", raw.Maxima)
	}
	smoothed := DetectSet(signal, 2)
	if len(smoothed.Maxima) != 1 {
		t.Errorf("smoothed maxima = %v, want one merged bump", smoothed.Maxima)
	}
}

func TestSuppressSaddles(t *testing.T) {
	// Maximum at 10 and minimum at 13: gap 3 < 5, delta 0.005 < 0.01. Both
	// members of the saddle pair must go; the genuine pair at 30/40 stays.
	signal := make([]float64, 50)
	signal[10] = 0.505
	signal[13] = 0.5
	for i := 11; i < 13; i++ {
		signal[i] = 0.502
	}
	signal[30] = 1.0
	signal[40] = -1.0

	s := Set{Maxima: []int{10, 30}, Minima: []int{13, 40}}
	out := s.SuppressSaddles(signal, SaddleGap, SaddleDelta)
	if !reflect.DeepEqual(out.Maxima, []int{30}) {
		t.Errorf("maxima = %v, want [30]", out.Maxima)
	}
	if !reflect.DeepEqual(out.Minima, []int{40}) {
		t.Errorf("minima = %v, want [40]", out.Minima)
	}
}

func TestSuppressSaddles_KeepsDistantPairs(t *testing.T) {
	signal := make([]float64, 50)
	signal[10] = 0.505
	signal[20] = 0.5 // gap 10 >= SaddleGap, kept despite small delta

	s := Set{Maxima: []int{10}, Minima: []int{20}}
	out := s.SuppressSaddles(signal, SaddleGap, SaddleDelta)
	if len(out.Maxima) != 1 || len(out.Minima) != 1 {
		t.Errorf("distant pair suppressed: %+v", out)
	}
}

func TestSmooth_PreservesConstant(t *testing.T) {
	signal := []float64{3, 3, 3, 3, 3, 3, 3, 3}
	out := Smooth(signal, 2)
	for i, v := range out {
		if math.Abs(v-3) > 1e-12 {
			t.Errorf("out[%d] = %v, want 3", i, v)
		}
	}
}

func TestSmooth_ReducesVariance(t *testing.T) {
	n := 100
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(float64(i)) // index-frequency noise
	}
	out := Smooth(signal, 5)
	var rawVar, outVar float64
	for i := range signal {
		rawVar += signal[i] * signal[i]
		outVar += out[i] * out[i]
	}
	if outVar >= rawVar/10 {
		t.Errorf("smoothing barely reduced variance: %v -> %v", rawVar, outVar)
	}
}

func TestSmooth_ZeroSigmaCopies(t *testing.T) {
	signal := []float64{1, 2, 3}
	out := Smooth(signal, 0)
	if !reflect.DeepEqual(out, signal) {
		t.Errorf("out = %v, want %v", out, signal)
	}
	out[0] = 99
	if signal[0] == 99 {
		t.Error("Smooth returned the input slice instead of a copy")
	}
}

func TestReflectIndex(t *testing.T) {
	n := 4
	cases := map[int]int{-1: 0, -2: 1, 0: 0, 3: 3, 4: 3, 5: 2}
	for in, want := range cases {
		if got := reflectIndex(in, n); got != want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", in, n, got, want)
		}
	}
}
