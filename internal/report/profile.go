// Package report renders the attribute profiles of a landmarking run: static
// PNG plots for archival and an interactive HTML chart for inspection.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/vasctools/siphon/internal/attributes"
	"github.com/vasctools/siphon/internal/landmark"
	"github.com/vasctools/siphon/internal/security"
)

// Profile bundles everything a run report plots.
type Profile struct {
	CaseID string
	Attrs  *attributes.Set
	// Interfaces mark the detected segment boundaries on the profile.
	Interfaces []landmark.Interface
}

// WriteProfilePlots renders the curvature and torsion profiles against
// arclength to <outputDir>/<case>_curvature.png and <case>_torsion.png, with
// the segment interfaces marked. Returns the written file paths.
func WriteProfilePlots(p *Profile, outputDir string) ([]string, error) {
	if len(p.Attrs.Arclength) == 0 {
		return nil, fmt.Errorf("report: profile has no arclength data")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var written []string
	signals := []struct {
		name   string
		values []float64
		label  string
	}{
		{"curvature", p.Attrs.Curvature, "Curvature (1/mm)"},
		{"torsion", p.Attrs.Torsion, "Torsion (1/mm)"},
	}
	for _, sig := range signals {
		if len(sig.values) == 0 {
			continue
		}
		file := filepath.Join(outputDir, fmt.Sprintf("%s_%s.png", security.SanitizeFilename(p.CaseID), sig.name))
		if err := writeSignalPlot(p, sig.name, sig.values, sig.label, file); err != nil {
			return written, err
		}
		written = append(written, file)
	}
	return written, nil
}

func writeSignalPlot(p *Profile, name string, values []float64, yLabel, file string) error {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s - %s profile", p.CaseID, name)
	pl.X.Label.Text = "Arclength (mm)"
	pl.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: p.Attrs.Arclength[i], Y: v}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	pl.Add(line)
	pl.Legend.Add(name, line)

	// Interface markers
	if len(p.Interfaces) > 0 {
		marks := make(plotter.XYs, 0, len(p.Interfaces))
		for _, iface := range p.Interfaces {
			if iface.Index < 0 || iface.Index >= len(values) {
				continue
			}
			marks = append(marks, plotter.XY{
				X: p.Attrs.Arclength[iface.Index],
				Y: values[iface.Index],
			})
		}
		scatter, err := plotter.NewScatter(marks)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = color.RGBA{R: 220, A: 255}
		scatter.GlyphStyle.Radius = vg.Points(3)
		pl.Add(scatter)
		pl.Legend.Add("interfaces", scatter)
	}

	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10

	if err := pl.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save %s plot: %w", name, err)
	}
	return nil
}
