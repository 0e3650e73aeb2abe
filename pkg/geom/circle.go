package geom

import "math"

// CircleLineResult holds the paired closest points of a circle and a line.
// CirclePoints[i] pairs with LinePoints[i]. When the line passes through the
// circle's center perpendicular to its plane, every rim point is equally
// close: LinePoints holds the one representative line point and CirclePoints
// is empty.
type CircleLineResult struct {
	CirclePoints []Vec3
	LinePoints   []Vec3
}

// refineIterations bounds the alternating-projection pass of the general
// circle/line case; newtonIterations bounds the rim-angle polish after it.
const (
	refineIterations = 32
	newtonIterations = 64
)

// GetClosestPointsCircleLine finds the closest points between circle and the
// infinite line origin + t*dir, then narrows them with policy. ok is false
// only for a zero direction or when policy discards every solution.
func GetClosestPointsCircleLine(circle Circle, origin, dir Vec3, policy SelectionPolicy) (CircleLineResult, bool) {
	if dir.IsNearZero() {
		return CircleLineResult{}, false
	}
	d := dir.Normalize()
	n := circle.Plane.Normal

	var pairs []PointPair
	switch {
	case isParallelUnit(d, n):
		// Line pierces the plane at right angles.
		q := GetClosestPointLinePoint(origin, d, circle.Center)
		rim, ok := circle.ClosestPoint(q)
		if !ok {
			return CircleLineResult{LinePoints: []Vec3{q}}, true
		}
		pairs = []PointPair{{Shape: rim, Line: q}}

	case isPerpendicularUnit(d, n):
		// Line lies in, or parallel to, the circle's plane.
		pairs = circlePairsInPlane(circle, origin, d)

	default:
		pairs = circlePairsGeneral(circle, origin, d)
	}

	pairs = policy.selectPairs(pairs, origin, d)
	if len(pairs) == 0 {
		return CircleLineResult{}, false
	}
	return CircleLineResult{CirclePoints: shapePoints(pairs), LinePoints: linePoints(pairs)}, true
}

// circlePairsInPlane handles a line parallel to the circle's plane. When the
// line passes over the inside of the circle the two chord ends are equally
// close; otherwise the nearest line point is pushed out to the rim.
func circlePairsInPlane(circle Circle, origin, d Vec3) []PointPair {
	lift := circle.Plane.Normal.Scale(circle.Plane.DistanceFromPlane(origin))
	projected := origin.Sub(lift)

	q := GetClosestPointLinePoint(projected, d, circle.Center)
	toQ := q.Sub(circle.Center)
	h := toQ.Length()

	if h < circle.Radius {
		half := math.Sqrt(circle.Radius*circle.Radius - h*h)
		a := q.Add(d.Scale(half))
		b := q.Sub(d.Scale(half))
		return []PointPair{
			{Shape: a, Line: a.Add(lift)},
			{Shape: b, Line: b.Add(lift)},
		}
	}

	rim := circle.Center.Add(toQ.Scale(circle.Radius / h))
	return []PointPair{{Shape: rim, Line: q.Add(lift)}}
}

// circlePairsGeneral handles a line that is neither parallel nor
// perpendicular to the circle's plane. The plane containing the line and
// perpendicular to the circle's plane cuts the circle's plane along the
// line's projection; that projected line is solved like the in-plane case.
// The point where the line pierces the plane gives one more candidate, and
// the pairings with the smallest gap win.
func circlePairsGeneral(circle Circle, origin, d Vec3) []PointPair {
	n := circle.Plane.Normal
	sliceNormal := d.Cross(n).Normalize()
	projOrigin, projDir, ok := GetIntersectionPlanePlane(
		Plane{Normal: sliceNormal, D: -sliceNormal.Dot(origin)},
		circle.Plane,
	)
	if !ok {
		// Can't happen for a line that isn't perpendicular to the plane; fall
		// back to the direct projection.
		projOrigin = circle.Plane.ClosestPoint(origin)
		projDir = GetRejectedVector(d, n).Normalize()
	}

	var candidates []PointPair
	for _, p := range circlePairsInPlane(circle, projOrigin, projDir) {
		candidates = append(candidates, PointPair{
			Shape: p.Shape,
			Line:  GetClosestPointLinePoint(origin, d, p.Shape),
		})
	}

	if pierce, ok := GetIntersectionPlaneLine(circle.Plane, origin, d, Line); ok {
		rim, ok := circle.ClosestPoint(pierce)
		if !ok {
			rim = circle.Center.Add(projDir.Scale(circle.Radius))
		}
		candidates = append(candidates, PointPair{
			Shape: rim,
			Line:  GetClosestPointLinePoint(origin, d, rim),
		})
	}

	for i := range candidates {
		candidates[i] = refineCircleLine(circle, origin, d, candidates[i])
		candidates[i] = polishCircleLine(circle, origin, d, candidates[i])
	}
	return keepSmallestGaps(candidates, circle.Radius)
}

// refineCircleLine alternately projects onto the line and back onto the rim.
// Each step can only shrink the gap, but progress stalls when the line runs
// nearly parallel to the circle's plane; polishCircleLine finishes the job.
func refineCircleLine(circle Circle, origin, d Vec3, p PointPair) PointPair {
	for i := 0; i < refineIterations; i++ {
		linePt := GetClosestPointLinePoint(origin, d, p.Shape)
		rim, ok := circle.ClosestPoint(linePt)
		if !ok {
			return PointPair{Shape: p.Shape, Line: linePt}
		}
		next := PointPair{Shape: rim, Line: linePt}
		if next.Gap() > p.Gap() {
			break
		}
		converged := next.Shape.IsNearValueEps(p.Shape, circle.Radius*1e-12)
		p = next
		if converged {
			break
		}
	}
	return p
}

// polishCircleLine runs Newton's method on the rim angle, minimising the
// squared distance from the rim point to the line. A step that widens the gap
// or meets negative curvature ends the polish.
func polishCircleLine(circle Circle, origin, d Vec3, p PointPair) PointPair {
	basis := NewPlaneBasis(circle.Plane, circle.Center)
	at := basis.To2D(p.Shape)
	if isNearZeroScaled(math.Hypot(at.X, at.Y), circle.Radius) {
		return p
	}
	theta := math.Atan2(at.Y, at.X)

	rimAt := func(theta float64) (rim, tangent Vec3) {
		c, s := math.Cos(theta), math.Sin(theta)
		radial := basis.U.Scale(c).Add(basis.V.Scale(s))
		tangent = basis.U.Scale(-s).Add(basis.V.Scale(c)).Scale(circle.Radius)
		return circle.Center.Add(radial.Scale(circle.Radius)), tangent
	}

	for i := 0; i < newtonIterations; i++ {
		rim, tangent := rimAt(theta)
		w := GetRejectedVector(rim.Sub(origin), d)
		grad := w.Dot(tangent)
		curv := GetRejectedVector(tangent, d).LengthSq() - w.Dot(rim.Sub(circle.Center))
		if curv <= 0 {
			break
		}
		step := grad / curv
		next, _ := rimAt(theta - step)
		cand := PointPair{Shape: next, Line: GetClosestPointLinePoint(origin, d, next)}
		if cand.Gap() > p.Gap() {
			break
		}
		theta -= step
		p = cand
		if math.Abs(step) <= 1e-15 {
			break
		}
	}
	return p
}

// keepSmallestGaps drops candidates whose gap exceeds the minimum and merges
// candidates that converged to the same point.
func keepSmallestGaps(candidates []PointPair, scale float64) []PointPair {
	if len(candidates) == 0 {
		return nil
	}
	best := math.Inf(1)
	for _, c := range candidates {
		best = math.Min(best, c.Gap())
	}
	tol := math.Max(1, scale) * 1e-7
	var kept []PointPair
	for _, c := range candidates {
		if c.Gap()-best > tol {
			continue
		}
		dup := false
		for _, k := range kept {
			if k.Shape.IsNearValueEps(c.Shape, tol) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}
	return kept
}
