package geom

import "math"

// GetClosestPointsLineLine returns the points of closest approach between the
// infinite lines p1+s*d1 and p2+t*d2, solved with Paul Bourke's four
// dot-product system. ok is false when the lines are parallel, which shows up
// as a NaN or infinite solve.
func GetClosestPointsLineLine(p1, d1, p2, d2 Vec3) (onA, onB Vec3, ok bool) {
	mua, mub, ok := closestParamsLineLine(p1, d1, p2, d2)
	if !ok {
		return Zero, Zero, false
	}
	return p1.Add(d1.Scale(mua)), p2.Add(d2.Scale(mub)), true
}

// closestParamsLineLine returns the parametric positions along d1 and d2.
func closestParamsLineLine(p1, d1, p3, d3 Vec3) (mua, mub float64, ok bool) {
	p13 := p1.Sub(p3)
	p43 := d3
	p21 := d1

	d1343 := p13.Dot(p43)
	d4321 := p43.Dot(p21)
	d1321 := p13.Dot(p21)
	d4343 := p43.Dot(p43)
	d2121 := p21.Dot(p21)

	denom := d2121*d4343 - d4321*d4321
	if isNearZeroScaled(denom, d2121*d4343) {
		return 0, 0, false
	}
	numer := d1343*d4321 - d1321*d4343

	mua = numer / denom
	mub = (d1343 + d4321*mua) / d4343
	if math.IsNaN(mua) || math.IsNaN(mub) || math.IsInf(mua, 0) || math.IsInf(mub, 0) {
		return 0, 0, false
	}
	return mua, mub, true
}

// GetClosestPointsLineSegment returns the closest points between the infinite
// line origin+t*dir and the segment segA-segB. ok is false when the line is
// parallel to the segment or the closest approach falls outside the segment.
func GetClosestPointsLineSegment(origin, dir, segA, segB Vec3) (onLine, onSegment Vec3, ok bool) {
	mua, mub, ok := closestParamsLineLine(origin, dir, segA, segB.Sub(segA))
	if !ok || !Segment.accepts(mub) {
		return Zero, Zero, false
	}
	return origin.Add(dir.Scale(mua)), segA.Add(segB.Sub(segA).Scale(mub)), true
}

// GetClosestPointSegmentPoint clamps the projection of point onto the segment.
func GetClosestPointSegmentPoint(a, b, point Vec3) Vec3 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return a
	}
	t := point.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}

// IsPointOnSegment reports whether point lies within eps of the segment a-b.
func IsPointOnSegment(a, b, point Vec3, eps float64) bool {
	return GetClosestPointSegmentPoint(a, b, point).DistanceSq(point) <= eps*eps
}
