// Package divergence locates the indices where side branches (diverging
// arteries) leave a traced centerline. The Kjeldsberg classifier uses these
// indices to override its C5-C6 and C6-C7 interfaces. Branch points come
// either from manual picks supplied by an interactive boundary, or from an
// automatic comparison of the traced line against its sibling branches.
package divergence

import (
	"fmt"
	"sort"

	"github.com/vasctools/siphon/internal/centerline"
)

// ToleranceFactor scales the local point spacing into the distance at which
// a branch is considered to have left the traced line.
const ToleranceFactor = 4

// FlagSemantics selects how the classification flag is derived from the two
// optional divergence indices. Historically the flag ignored a first index of
// zero; both that reading and the either-index-present one are kept, selected
// by config.
type FlagSemantics int

const (
	// FlagLiteral sets the flag when the first index is present and
	// nonzero, or the second is present.
	FlagLiteral FlagSemantics = iota
	// FlagIntended sets the flag when either index is present.
	FlagIntended
)

// Detection is the outcome of diverging-artery detection: a classification
// flag plus up to two override indices on the traced centerline. Ophthalmic
// is the proximal override (C5-C6), PComA the distal one (C6-C7).
type Detection struct {
	Classify   bool
	Ophthalmic *int
	PComA      *int
}

func classify(oph, pcom *int, sem FlagSemantics) bool {
	switch sem {
	case FlagLiteral:
		return (oph != nil && *oph != 0) || pcom != nil
	default:
		return oph != nil || pcom != nil
	}
}

// PointPicker is the manual point-selection boundary. One call returns at
// most one picked point; ok is false when the operator skipped the prompt.
// Retrying on invalid selections happens behind this interface, so the
// engine only ever sees a resolved point.
type PointPicker interface {
	Pick(prompt string) (p centerline.Point, ok bool, err error)
}

// Tree is the full, unclipped vessel tree: the traced centerline plus its
// sibling branches.
type Tree struct {
	Branches []*centerline.Curve
}

// ClosestBranch returns the branch whose nearest point to p is closest.
func (t *Tree) ClosestBranch(p centerline.Point) *centerline.Curve {
	var best *centerline.Curve
	bestDist := -1.0
	for _, b := range t.Branches {
		d := b.Point(b.NearestPoint(p)).Dist(p)
		if best == nil || d < bestDist {
			best = b
			bestDist = d
		}
	}
	return best
}

// MarkManually prompts for the ophthalmic and posterior communicating artery
// points, projects each onto its closest branch of the tree and walks that
// branch against the traced line to find the divergence index.
func MarkManually(picker PointPicker, tree *Tree, traced *centerline.Curve, sem FlagSemantics) (*Detection, error) {
	tol := ToleranceFactor * traced.Spacing()

	resolve := func(prompt string) (*int, error) {
		p, ok, err := picker.Pick(prompt)
		if err != nil {
			return nil, fmt.Errorf("divergence: point selection failed: %w", err)
		}
		if !ok {
			return nil, nil
		}
		branch := tree.ClosestBranch(p)
		if branch == nil {
			return nil, nil
		}
		if id, found := divergingIndex(branch, traced, tol); found {
			return &id, nil
		}
		return nil, nil
	}

	oph, err := resolve("Select a point along the Ophthalmic Artery, or skip.")
	if err != nil {
		return nil, err
	}
	pcom, err := resolve("Select a point along the Posterior Communicating Artery, or skip.")
	if err != nil {
		return nil, err
	}

	return &Detection{Classify: classify(oph, pcom, sem), Ophthalmic: oph, PComA: pcom}, nil
}

// DetectAutomatic flags divergence by walking every sibling branch of the
// tree against the traced centerline. When at least two branches diverge
// from it, the two most proximal divergence indices become the overrides.
func DetectAutomatic(tree *Tree, traced *centerline.Curve) *Detection {
	tol := ToleranceFactor * traced.Spacing()

	var ids []int
	for _, branch := range tree.Branches {
		if branch == traced {
			continue
		}
		if id, found := divergingIndex(branch, traced, tol); found {
			ids = append(ids, id)
		}
	}
	if len(ids) < 2 {
		return &Detection{}
	}
	sort.Ints(ids)
	oph, pcom := ids[0], ids[1]
	return &Detection{Classify: true, Ophthalmic: &oph, PComA: &pcom}
}

// divergingIndex walks the branch from its start and reports the index on
// the traced line where the branch first moves farther than tol away. The
// branch must follow the traced line for at least one point; otherwise it is
// not a diverging sibling and found is false.
func divergingIndex(branch, traced *centerline.Curve, tol float64) (id int, found bool) {
	lastNear := -1
	for i := 0; i < branch.Len(); i++ {
		p := branch.Point(i)
		nearest := traced.NearestPoint(p)
		if p.Dist(traced.Point(nearest)) > tol {
			if lastNear < 0 {
				return 0, false
			}
			return lastNear, true
		}
		lastNear = nearest
	}
	return 0, false
}
