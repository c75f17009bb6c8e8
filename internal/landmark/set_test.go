package landmark

import (
	"reflect"
	"testing"

	"github.com/vasctools/siphon/internal/centerline"
)

func TestSet_OrderAndLookup(t *testing.T) {
	s := NewSet()
	if err := s.Add("ant_post", centerline.Point{X: 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("post_inf", centerline.Point{X: 2}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if got := s.Names(); !reflect.DeepEqual(got, []string{"ant_post", "post_inf"}) {
		t.Errorf("Names = %v, want insertion order", got)
	}
	p, ok := s.Point("post_inf")
	if !ok || p.X != 2 {
		t.Errorf("Point(post_inf) = %v, %v", p, ok)
	}
	if _, ok := s.Point("sup_ant"); ok {
		t.Error("lookup of absent name succeeded")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestSet_DuplicateName(t *testing.T) {
	s := NewSet()
	if err := s.Add("C1", centerline.Point{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("C1", centerline.Point{X: 1}); err == nil {
		t.Error("expected error for duplicate name")
	}
}
