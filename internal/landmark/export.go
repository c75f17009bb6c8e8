package landmark

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// WriteParameters merges the landmark set into the case manifest at
// <basePath>_info.json, one "name": [x, y, z] entry per landmark. Existing
// unrelated manifest keys are preserved; existing landmark keys are
// overwritten.
func WriteParameters(set *Set, basePath string) error {
	path := basePath + "_info.json"

	manifest := map[string]json.RawMessage{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &manifest); err != nil {
			return fmt.Errorf("landmark: parse manifest %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("landmark: read manifest %s: %w", path, err)
	}

	for _, lm := range set.Landmarks() {
		coords, err := json.Marshal([3]float64{lm.Point.X, lm.Point.Y, lm.Point.Z})
		if err != nil {
			return err
		}
		manifest[lm.Name] = coords
	}

	out, err := json.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(out, '\n'), 0o644)
}

// WriteParticles reads the case manifest back and writes the landmark points
// matching the algorithm's naming convention to
// <basePath>_landmark_<algorithm>_<method>.particles, one "x y z" line per
// point in landmark order.
func WriteParticles(basePath string, alg Algorithm, method string) error {
	path := basePath + "_info.json"
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("landmark: read manifest %s: %w", path, err)
	}
	var manifest map[string]json.RawMessage
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("landmark: parse manifest %s: %w", path, err)
	}

	// Map iteration order is random; emit in the conventions' natural order
	// instead.
	var names []string
	switch alg {
	case AlgorithmBogunovic:
		for _, name := range []string{"ant_post", "post_inf", "inf_end", "sup_ant"} {
			if _, ok := manifest[name]; ok {
				names = append(names, name)
			}
		}
	case AlgorithmPiccinelli:
		names = orderedConvention(manifest, "bend")
	case AlgorithmKjeldsberg:
		names = orderedConvention(manifest, "C")
	}

	var b strings.Builder
	for _, name := range names {
		var p [3]float64
		if err := json.Unmarshal(manifest[name], &p); err != nil {
			return fmt.Errorf("landmark: manifest entry %q: %w", name, err)
		}
		fmt.Fprintf(&b, "%v %v %v\n", p[0], p[1], p[2])
	}

	out := fmt.Sprintf("%s_landmark_%s_%s.particles", basePath, alg, method)
	return os.WriteFile(out, []byte(b.String()), 0o644)
}

// orderedConvention collects the manifest keys of the form "<prefix>N",
// sorted by ordinal. Degraded segment sets need not start at 1.
func orderedConvention(manifest map[string]json.RawMessage, prefix string) []string {
	var names []string
	for name := range manifest {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimPrefix(name, prefix)); err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := strconv.Atoi(strings.TrimPrefix(names[i], prefix))
		b, _ := strconv.Atoi(strings.TrimPrefix(names[j], prefix))
		return a < b
	})
	return names
}

// RemoveStaleExports deletes manifest and particles files left by a previous
// run. Best effort; missing files are not an error.
func RemoveStaleExports(basePath string, alg Algorithm, method string) {
	os.Remove(basePath + "_info.json")
	os.Remove(fmt.Sprintf("%s_landmark_%s_%s.particles", basePath, alg, method))
}
