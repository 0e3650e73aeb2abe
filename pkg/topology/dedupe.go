package topology

import (
	"github.com/chazu/facet/pkg/geom"
)

// CloneDedupePoints rebuilds every edge set onto one fresh point buffer in
// which points closer than eps are merged. The returned sets mirror the input
// shape and order; the originals are left untouched. After the merge, edges
// from different sets that met at nearly the same coordinates share an index,
// so GetCommonIndex and IsTouching work across sets.
func CloneDedupePoints(tokens *geom.TokenSource, eps float64, edgeSets ...[]*Edge3D) ([][]*Edge3D, []geom.Vec3, error) {
	if eps < 0 {
		return nil, nil, geom.Invalidf("dedupe epsilon must not be negative, got %g", eps)
	}

	var merged []geom.Vec3
	indexOf := func(p geom.Vec3) int {
		for i, q := range merged {
			if q.IsNearValueEps(p, eps) {
				return i
			}
		}
		merged = append(merged, p)
		return len(merged) - 1
	}

	// Collect every index before building clones so the buffer is final.
	type remap struct {
		i0, i1 int
	}
	remaps := make([][]remap, len(edgeSets))
	for s, set := range edgeSets {
		remaps[s] = make([]remap, len(set))
		for k, e := range set {
			r := remap{i0: indexOf(e.Point0()), i1: -1}
			if p1, ok := e.Point1(); ok {
				r.i1 = indexOf(p1)
			}
			remaps[s][k] = r
		}
	}

	out := make([][]*Edge3D, len(edgeSets))
	for s, set := range edgeSets {
		out[s] = make([]*Edge3D, len(set))
		for k, e := range set {
			r := remaps[s][k]
			var (
				clone *Edge3D
				err   error
			)
			switch {
			case e.IsSegment():
				if r.i0 == r.i1 {
					return nil, nil, geom.Invalidf("edge %v collapses to a point at epsilon %g", e, eps)
				}
				clone, err = NewSegment(tokens, r.i0, r.i1, merged)
			case e.Kind() == geom.Ray:
				clone, err = NewRay(tokens, r.i0, e.dir, merged)
			default:
				clone, err = NewLine(tokens, r.i0, e.dir, merged)
			}
			if err != nil {
				return nil, nil, err
			}
			out[s][k] = clone
		}
	}

	return out, merged, nil
}
