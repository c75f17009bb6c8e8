package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vasctools/siphon/internal/attributes"
	"github.com/vasctools/siphon/internal/landmark"
)

func testProfile(n int) *Profile {
	arclength := make([]float64, n)
	curvature := make([]float64, n)
	torsion := make([]float64, n)
	for i := range arclength {
		arclength[i] = float64(i) * 0.1
		curvature[i] = 0.5 + 0.4*math.Sin(float64(i)/10)
		torsion[i] = 0.1 * math.Cos(float64(i)/15)
	}
	return &Profile{
		CaseID: "case7",
		Attrs: &attributes.Set{
			Arclength: arclength,
			Curvature: curvature,
			Torsion:   torsion,
		},
		Interfaces: []landmark.Interface{
			{Name: "C4", Index: 30},
			{Name: "C5", Index: 70},
		},
	}
}

func TestWriteProfilePlots(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteProfilePlots(testProfile(100), dir)
	if err != nil {
		t.Fatalf("WriteProfilePlots: %v", err)
	}
	want := []string{
		filepath.Join(dir, "case7_curvature.png"),
		filepath.Join(dir, "case7_torsion.png"),
	}
	if len(written) != len(want) {
		t.Fatalf("written = %v, want %v", written, want)
	}
	for i, path := range want {
		if written[i] != path {
			t.Errorf("written[%d] = %s, want %s", i, written[i], path)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("missing plot %s: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("plot %s is empty", path)
		}
	}
}

func TestWriteProfilePlots_SkipsMissingTorsion(t *testing.T) {
	p := testProfile(100)
	p.Attrs.Torsion = nil

	dir := t.TempDir()
	written, err := WriteProfilePlots(p, dir)
	if err != nil {
		t.Fatalf("WriteProfilePlots: %v", err)
	}
	if len(written) != 1 || !strings.HasSuffix(written[0], "case7_curvature.png") {
		t.Errorf("written = %v, want only the curvature plot", written)
	}
}

func TestWriteProfilePlots_EmptyProfile(t *testing.T) {
	p := &Profile{CaseID: "case7", Attrs: &attributes.Set{}}
	if _, err := WriteProfilePlots(p, t.TempDir()); err == nil {
		t.Error("expected error for a profile without arclength data")
	}
}

func TestWriteHTMLReport(t *testing.T) {
	dir := t.TempDir()
	file, err := WriteHTMLReport(testProfile(100), dir)
	if err != nil {
		t.Fatalf("WriteHTMLReport: %v", err)
	}
	if file != filepath.Join(dir, "case7_profile.html") {
		t.Errorf("file = %s", file)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	for _, fragment := range []string{"case7 attribute profile", "curvature", "torsion", "interfaces"} {
		if !strings.Contains(html, fragment) {
			t.Errorf("report is missing %q", fragment)
		}
	}
}

func TestWriteHTMLReport_EmptyProfile(t *testing.T) {
	p := &Profile{CaseID: "case7", Attrs: &attributes.Set{}}
	if _, err := WriteHTMLReport(p, t.TempDir()); err == nil {
		t.Error("expected error for a profile without arclength data")
	}
}
