package geom

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// SelectionPolicy narrows a raw (possibly multi-point) solution. The set of
// policies is closed: AllPoints, ClosestToRay, ClosestToRayOrigin and
// AlongRayDirection.
type SelectionPolicy interface {
	selectPairs(pairs []PointPair, origin, dir Vec3) []PointPair
	String() string
}

type allPoints struct{}
type closestToRay struct{}
type closestToRayOrigin struct{}
type alongRayDirection struct{}

var (
	// AllPoints keeps every solution.
	AllPoints SelectionPolicy = allPoints{}

	// ClosestToRay keeps the pair with the smallest gap between shape and
	// line. Equal gaps are broken by distance to the ray origin so symmetric
	// near/far solutions don't alternate between calls.
	ClosestToRay SelectionPolicy = closestToRay{}

	// ClosestToRayOrigin keeps the pair whose shape point is nearest the ray
	// origin.
	ClosestToRayOrigin SelectionPolicy = closestToRayOrigin{}

	// AlongRayDirection drops pairs behind the ray origin and keeps the
	// nearest of the rest.
	AlongRayDirection SelectionPolicy = alongRayDirection{}
)

func (allPoints) String() string          { return "all-points" }
func (closestToRay) String() string       { return "closest-to-ray" }
func (closestToRayOrigin) String() string { return "closest-to-ray-origin" }
func (alongRayDirection) String() string  { return "along-ray-direction" }

func (allPoints) selectPairs(pairs []PointPair, _, _ Vec3) []PointPair {
	return pairs
}

func (closestToRay) selectPairs(pairs []PointPair, origin, _ Vec3) []PointPair {
	if len(pairs) <= 1 {
		return pairs
	}
	sorted := append([]PointPair(nil), pairs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		gi, gj := sorted[i].Gap(), sorted[j].Gap()
		if !IsNearValueEps(gi, gj, tieTolerance(gi, gj)) {
			return gi < gj
		}
		return sorted[i].Line.DistanceSq(origin) < sorted[j].Line.DistanceSq(origin)
	})
	return sorted[:1]
}

func (closestToRayOrigin) selectPairs(pairs []PointPair, origin, _ Vec3) []PointPair {
	if len(pairs) <= 1 {
		return pairs
	}
	best := lo.MinBy(pairs, func(a, b PointPair) bool {
		return a.Shape.DistanceSq(origin) < b.Shape.DistanceSq(origin)
	})
	return []PointPair{best}
}

func (alongRayDirection) selectPairs(pairs []PointPair, origin, dir Vec3) []PointPair {
	ahead := lo.Filter(pairs, func(p PointPair, _ int) bool {
		return p.Line.Sub(origin).Dot(dir) >= -Epsilon
	})
	if len(ahead) == 0 {
		return nil
	}
	best := lo.MinBy(ahead, func(a, b PointPair) bool {
		return a.Line.DistanceSq(origin) < b.Line.DistanceSq(origin)
	})
	return []PointPair{best}
}

func tieTolerance(a, b float64) float64 {
	return math.Max(1, math.Max(math.Abs(a), math.Abs(b))) * 1e-9
}

// SelectPairs applies policy to pairs relative to the ray origin + t*dir.
func SelectPairs(policy SelectionPolicy, pairs []PointPair, origin, dir Vec3) []PointPair {
	return policy.selectPairs(pairs, origin, dir.Normalize())
}

func shapePoints(pairs []PointPair) []Vec3 {
	return lo.Map(pairs, func(p PointPair, _ int) Vec3 { return p.Shape })
}

func linePoints(pairs []PointPair) []Vec3 {
	return lo.Map(pairs, func(p PointPair, _ int) Vec3 { return p.Line })
}
