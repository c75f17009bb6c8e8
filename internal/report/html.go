package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vasctools/siphon/internal/security"
)

// WriteHTMLReport renders an interactive curvature/torsion chart with the
// segment interfaces highlighted to <outputDir>/<case>_profile.html and
// returns the file path.
func WriteHTMLReport(p *Profile, outputDir string) (string, error) {
	if len(p.Attrs.Arclength) == 0 {
		return "", fmt.Errorf("report: profile has no arclength data")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s attribute profile", p.CaseID),
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s attribute profile", p.CaseID),
			Subtitle: fmt.Sprintf("points=%d interfaces=%d", len(p.Attrs.Arclength), len(p.Interfaces)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Arclength (mm)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Attribute value"}),
	)

	xAxis := make([]string, len(p.Attrs.Arclength))
	for i, s := range p.Attrs.Arclength {
		xAxis[i] = fmt.Sprintf("%.2f", s)
	}
	line.SetXAxis(xAxis)

	line.AddSeries("curvature", lineData(p.Attrs.Curvature))
	if len(p.Attrs.Torsion) == len(p.Attrs.Arclength) {
		line.AddSeries("torsion", lineData(p.Attrs.Torsion))
	}

	// Interface markers drawn as a sparse series on the curvature signal.
	if len(p.Interfaces) > 0 {
		marks := make([]opts.LineData, len(p.Attrs.Arclength))
		for i := range marks {
			marks[i] = opts.LineData{Value: nil}
		}
		for _, iface := range p.Interfaces {
			if iface.Index >= 0 && iface.Index < len(marks) {
				marks[iface.Index] = opts.LineData{
					Value:  p.Attrs.Curvature[iface.Index],
					Symbol: "diamond",
				}
			}
		}
		line.AddSeries("interfaces", marks,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}

	file := filepath.Join(outputDir, fmt.Sprintf("%s_profile.html", security.SanitizeFilename(p.CaseID)))
	if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return file, nil
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}
