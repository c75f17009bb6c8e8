package landmark

import (
	"strconv"
	"strings"

	"github.com/vasctools/siphon/internal/centerline"
)

// MapToCurve snaps each landmark onto the nearest point of curve, normally
// the original input centerline. Bogunovic landmarks keep their fixed
// anatomical names verbatim. The numbered conventions (Piccinelli "bendN",
// Kjeldsberg "CN") may produce several interfaces that land on the same
// curve point; later duplicates are dropped and the surviving names are
// renumbered densely, preserving first-occurrence order and the ordinal of
// the first surviving name. Mapping an already-mapped set is a no-op.
func MapToCurve(set *Set, curve *centerline.Curve, alg Algorithm) *Set {
	mapped := NewSet()

	if alg == AlgorithmBogunovic {
		for _, lm := range set.Landmarks() {
			id := curve.NearestPoint(lm.Point)
			// Names are unique in the source set, so Add cannot fail.
			_ = mapped.Add(lm.Name, curve.Point(id))
		}
		return mapped
	}

	prefix := "bend"
	if alg == AlgorithmKjeldsberg {
		prefix = "C"
	}

	seen := make(map[int]bool)
	var points []centerline.Point
	ordinal := 0
	for _, lm := range set.Landmarks() {
		id := curve.NearestPoint(lm.Point)
		if seen[id] {
			continue
		}
		if len(points) == 0 {
			ordinal = nameOrdinal(lm.Name, prefix)
		}
		seen[id] = true
		points = append(points, curve.Point(id))
	}
	for i, p := range points {
		_ = mapped.Add(prefix+strconv.Itoa(ordinal+i), p)
	}
	return mapped
}

// nameOrdinal extracts the numeric suffix of a convention name ("bend3" ->
// 3). Unparseable names start the numbering at 1.
func nameOrdinal(name, prefix string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
