// Command landmark runs the carotid-siphon landmarking pipeline over one
// case: it loads a centerline, computes geometric attributes with the chosen
// approximation method, runs the selected rule engine, exports the landmarks
// and optionally persists and plots the run.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vasctools/siphon/internal/attributes"
	"github.com/vasctools/siphon/internal/centerline"
	"github.com/vasctools/siphon/internal/config"
	"github.com/vasctools/siphon/internal/landmark"
	"github.com/vasctools/siphon/internal/landmark/divergence"
	"github.com/vasctools/siphon/internal/monitoring"
	"github.com/vasctools/siphon/internal/report"
	"github.com/vasctools/siphon/internal/store"
	"github.com/vasctools/siphon/internal/version"
)

func main() {
	var (
		centerlinePath = flag.String("centerline", "", "path to the traced centerline points file (x y z per line)")
		branchesPath   = flag.String("branches", "", "optional path to the full vessel tree (branches separated by blank lines)")
		configPath     = flag.String("config", "", "optional JSON tuning config")
		algorithmFlag  = flag.String("algorithm", "", "landmarking algorithm: bogunovic, piccinelli or kjeldsberg")
		methodFlag     = flag.String("method", "", "curvature method: frenet, disc or spline")
		axisFlag       = flag.String("axis", "", "coronal axis: x, y or z")
		stepFlag       = flag.Float64("step", 0, "resampling step length")
		knotsFlag      = flag.Int("knots", 0, "spline knot count (spline method)")
		smoothFlag     = flag.Bool("smooth", false, "Laplacian-smooth the centerline before attribute computation")
		divergingFlag  = flag.Bool("mark-diverging", false, "detect diverging arteries from the vessel tree (kjeldsberg)")
		dbPath         = flag.String("db", "", "optional SQLite database recording the run")
		plotDir        = flag.String("plots", "", "optional directory for profile plots and HTML report")
		showVersion    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("landmark %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *centerlinePath == "" {
		fmt.Fprintln(os.Stderr, "usage: landmark -centerline <points file> [options]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.EmptyLandmarkConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatal("load config: %v", err)
		}
		cfg = loaded
	}

	// Flags override the config; the config getters carry the defaults.
	algName := orDefault(*algorithmFlag, cfg.GetAlgorithm())
	methodName := orDefault(*methodFlag, cfg.GetMethod())
	axisName := orDefault(*axisFlag, cfg.GetCoronalAxis())
	step := cfg.GetResampleStep()
	if *stepFlag > 0 {
		step = *stepFlag
	}
	knots := cfg.GetSplineKnots()
	if *knotsFlag > 0 {
		knots = *knotsFlag
	}
	smooth := cfg.GetSmoothLine() || *smoothFlag
	markDiverging := cfg.GetMarkDiverging() || *divergingFlag

	alg, err := landmark.ParseAlgorithm(algName)
	if err != nil {
		fatal("%v", err)
	}
	method, err := attributes.ParseMethod(methodName)
	if err != nil {
		fatal("%v", err)
	}
	axis, err := centerline.ParseAxis(axisName)
	if err != nil {
		fatal("%v", err)
	}

	original, err := loadCenterline(*centerlinePath)
	if err != nil {
		fatal("load centerline: %v", err)
	}
	monitoring.Logf("loaded centerline with %d points from %s", original.Len(), *centerlinePath)

	oriented := centerline.Orient(original)
	analysis, err := oriented.Resample(step)
	if err != nil {
		fatal("resample centerline: %v", err)
	}
	monitoring.Logf("resampled to %d points at step %.3f", analysis.Len(), step)

	input := &landmark.Input{
		Original:    original,
		CoronalAxis: axis,
	}

	switch method {
	case attributes.MethodFrenet:
		line, attrs, err := attributes.Compute(analysis, attributes.Options{
			Smooth:          smooth,
			SmoothingFactor: cfg.GetSmoothingFactor(),
			Iterations:      cfg.GetIterations(),
		})
		if err != nil {
			fatal("compute attributes: %v", err)
		}
		input.Analysis, input.Attrs = line, attrs
	case attributes.MethodDisc:
		attrs, err := attributes.ComputeDiscrete(analysis, attributes.DefaultDiscWindow)
		if err != nil {
			fatal("compute attributes: %v", err)
		}
		input.Analysis, input.Attrs = analysis, attrs
	case attributes.MethodSpline:
		fitted, attrs, curvExtrema, err := attributes.SplineFit(analysis, knots)
		if err != nil {
			fatal("spline fit: %v", err)
		}
		input.Analysis, input.Attrs = fitted, attrs
		input.CurvatureExtrema = curvExtrema
	}

	var engine landmark.Strategy
	switch alg {
	case landmark.AlgorithmBogunovic:
		engine = landmark.NewBogunovic()
	case landmark.AlgorithmPiccinelli:
		p := landmark.NewPiccinelli()
		if method == attributes.MethodSpline {
			p.TorsionSigma = landmark.SplineTorsionSigma
		}
		engine = p
	case landmark.AlgorithmKjeldsberg:
		if markDiverging {
			input.Divergence, err = detectDiverging(*branchesPath, input.Analysis, cfg)
			if err != nil {
				fatal("mark diverging arteries: %v", err)
			}
		}
		engine = landmark.NewKjeldsberg()
	}

	result, err := engine.Landmark(input)
	if err != nil {
		fatal("landmarking failed: %v", err)
	}
	monitoring.Logf("case landmarked: %d landmarks, geometry %s", result.Landmarks.Len(), result.State)

	basePath := strings.TrimSuffix(*centerlinePath, filepath.Ext(*centerlinePath))
	landmark.RemoveStaleExports(basePath, alg, string(method))
	if err := landmark.WriteParameters(result.Landmarks, basePath); err != nil {
		fatal("write parameters: %v", err)
	}
	if err := landmark.WriteParticles(basePath, alg, string(method)); err != nil {
		fatal("write particles: %v", err)
	}
	monitoring.Logf("landmarks exported to %s_landmark_%s_%s.particles", basePath, alg, method)

	caseID := filepath.Base(basePath)

	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			fatal("open run database: %v", err)
		}
		defer db.Close()
		run := &store.Run{
			CaseID:    caseID,
			Algorithm: string(alg),
			Method:    string(method),
			State:     result.State.String(),
		}
		if err := store.NewRunStore(db).InsertRun(run, result.Landmarks); err != nil {
			fatal("record run: %v", err)
		}
		monitoring.Logf("run %s recorded in %s", run.RunID, *dbPath)
	}

	if *plotDir != "" {
		profile := &report.Profile{
			CaseID:     caseID,
			Attrs:      input.Attrs,
			Interfaces: result.Interfaces,
		}
		files, err := report.WriteProfilePlots(profile, *plotDir)
		if err != nil {
			fatal("write profile plots: %v", err)
		}
		htmlFile, err := report.WriteHTMLReport(profile, *plotDir)
		if err != nil {
			fatal("write HTML report: %v", err)
		}
		monitoring.Logf("wrote %d profile plots and %s", len(files), htmlFile)
	}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func fatal(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, "landmark: "+format+"\n", v...)
	os.Exit(1)
}

// detectDiverging loads the vessel tree and locates diverging arteries, first
// automatically and, when that finds fewer than two branches, by prompting
// the operator on stdin.
func detectDiverging(branchesPath string, traced *centerline.Curve, cfg *config.LandmarkConfig) (*divergence.Detection, error) {
	if branchesPath == "" {
		return nil, fmt.Errorf("-mark-diverging needs -branches")
	}
	tree, err := loadTree(branchesPath)
	if err != nil {
		return nil, err
	}

	sem := divergence.FlagLiteral
	if cfg.GetFlagSemantics() == "intended" {
		sem = divergence.FlagIntended
	}

	det := divergence.DetectAutomatic(tree, traced)
	if det.Classify {
		return det, nil
	}
	monitoring.Logf("automatic divergence detection found no branch pair; falling back to manual marking")
	return divergence.MarkManually(&stdinPicker{r: bufio.NewReader(os.Stdin)}, tree, traced, sem)
}

// stdinPicker prompts on stderr and reads one "x y z" line per pick from
// stdin. An empty line skips the prompt; a malformed line re-prompts.
type stdinPicker struct {
	r *bufio.Reader
}

func (p *stdinPicker) Pick(prompt string) (centerline.Point, bool, error) {
	for {
		fmt.Fprintln(os.Stderr, prompt)
		line, err := p.r.ReadString('\n')
		if err != nil {
			return centerline.Point{}, false, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return centerline.Point{}, false, nil
		}
		pt, err := parsePoint(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid point %q: %v\n", line, err)
			continue
		}
		return pt, true, nil
	}
}

// loadCenterline reads a points file: one "x y z" triple per line, blank
// lines and #-comments ignored.
func loadCenterline(path string) (*centerline.Curve, error) {
	points, groups, err := loadPointGroups(path)
	if err != nil {
		return nil, err
	}
	if groups > 1 {
		return nil, fmt.Errorf("%s holds %d branches, expected a single centerline", path, groups)
	}
	return centerline.New(points)
}

// loadTree reads a multi-branch points file: branches separated by blank
// lines.
func loadTree(path string) (*divergence.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tree := &divergence.Tree{}
	var points []centerline.Point
	flush := func() error {
		if len(points) == 0 {
			return nil
		}
		branch, err := centerline.New(points)
		if err != nil {
			return fmt.Errorf("branch %d: %w", len(tree.Branches)+1, err)
		}
		tree.Branches = append(tree.Branches, branch)
		points = nil
		return nil
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		p, err := parsePoint(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(tree.Branches) == 0 {
		return nil, fmt.Errorf("%s holds no branches", path)
	}
	return tree, nil
}

func loadPointGroups(path string) ([]centerline.Point, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var points []centerline.Point
	groups := 1
	inGap := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if len(points) > 0 {
				inGap = true
			}
			continue
		}
		if inGap {
			groups++
			inGap = false
		}
		p, err := parsePoint(line)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}
		points = append(points, p)
	}
	return points, groups, scanner.Err()
}

func parsePoint(line string) (centerline.Point, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return centerline.Point{}, fmt.Errorf("want 3 coordinates, got %d", len(fields))
	}
	var coords [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return centerline.Point{}, fmt.Errorf("invalid coordinate %q: %w", f, err)
		}
		coords[i] = v
	}
	return centerline.Point{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
