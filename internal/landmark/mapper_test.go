package landmark

import (
	"reflect"
	"testing"

	"github.com/vasctools/siphon/internal/centerline"
)

func coarseCurve(t *testing.T) *centerline.Curve {
	t.Helper()
	c, err := centerline.New([]centerline.Point{
		{X: 0}, {X: 10}, {X: 20}, {X: 30},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestMapToCurve_BogunovicKeepsNames(t *testing.T) {
	curve := coarseCurve(t)
	set := NewSet()
	set.Add("ant_post", centerline.Point{X: 9.2})
	set.Add("post_inf", centerline.Point{X: 21})

	mapped := MapToCurve(set, curve, AlgorithmBogunovic)
	if got := mapped.Names(); !reflect.DeepEqual(got, []string{"ant_post", "post_inf"}) {
		t.Errorf("Names = %v", got)
	}
	if p, _ := mapped.Point("ant_post"); p.X != 10 {
		t.Errorf("ant_post at %v, want x=10", p)
	}
	if p, _ := mapped.Point("post_inf"); p.X != 20 {
		t.Errorf("post_inf at %v, want x=20", p)
	}
}

func TestMapToCurve_DeduplicatesAndRenumbers(t *testing.T) {
	curve := coarseCurve(t)
	set := NewSet()
	set.Add("C1", centerline.Point{X: 0.1})
	set.Add("C2", centerline.Point{X: 0.2}) // same nearest point as C1
	set.Add("C3", centerline.Point{X: 10.3})

	mapped := MapToCurve(set, curve, AlgorithmKjeldsberg)
	if got := mapped.Names(); !reflect.DeepEqual(got, []string{"C1", "C2"}) {
		t.Errorf("Names = %v, want [C1 C2]", got)
	}
	if p, _ := mapped.Point("C1"); p.X != 0 {
		t.Errorf("C1 at %v, want x=0", p)
	}
	if p, _ := mapped.Point("C2"); p.X != 10 {
		t.Errorf("C2 at %v, want x=10", p)
	}
}

func TestMapToCurve_PreservesFirstOrdinal(t *testing.T) {
	// A degraded segment set starts at C4; the mapped names must not be
	// renumbered down to C1.
	curve := coarseCurve(t)
	set := NewSet()
	set.Add("C4", centerline.Point{X: 1})
	set.Add("C5", centerline.Point{X: 11})
	set.Add("C6", centerline.Point{X: 21})

	mapped := MapToCurve(set, curve, AlgorithmKjeldsberg)
	if got := mapped.Names(); !reflect.DeepEqual(got, []string{"C4", "C5", "C6"}) {
		t.Errorf("Names = %v, want [C4 C5 C6]", got)
	}
}

func TestMapToCurve_Idempotent(t *testing.T) {
	curve := coarseCurve(t)
	set := NewSet()
	set.Add("bend1", centerline.Point{X: 9})
	set.Add("bend2", centerline.Point{X: 19})

	once := MapToCurve(set, curve, AlgorithmPiccinelli)
	twice := MapToCurve(once, curve, AlgorithmPiccinelli)
	if !reflect.DeepEqual(once.Names(), twice.Names()) {
		t.Errorf("names changed on re-map: %v vs %v", once.Names(), twice.Names())
	}
	for _, name := range once.Names() {
		p1, _ := once.Point(name)
		p2, _ := twice.Point(name)
		if p1 != p2 {
			t.Errorf("%s moved on re-map: %v vs %v", name, p1, p2)
		}
	}
}

func TestNameOrdinal(t *testing.T) {
	cases := map[string]int{"C4": 4, "bend12": 12, "bend": 1, "Cx": 1, "C0": 1}
	for name, want := range cases {
		prefix := "C"
		if len(name) >= 4 && name[:4] == "bend" {
			prefix = "bend"
		}
		if got := nameOrdinal(name, prefix); got != want {
			t.Errorf("nameOrdinal(%q) = %d, want %d", name, got, want)
		}
	}
}
