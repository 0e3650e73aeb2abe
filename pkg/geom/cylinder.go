package geom

import "math"

// cylinderLinePairs reduces cylinder/line to an auxiliary circle: the
// cylinder's cross-section through the point of the axis nearest the line.
// Chord ends found in that cross-section are carried back onto the line with
// a second line/line solve along the axis direction.
func cylinderLinePairs(cyl Cylinder, origin, d Vec3) (pairs []PointPair, intersects bool) {
	u := cyl.AxisDir

	if isParallelUnit(d, u) {
		offset := GetRejectedVector(origin.Sub(cyl.AxisOrigin), u)
		h := offset.Length()
		radial := offset
		if isNearZeroScaled(h, cyl.Radius) {
			radial = Orthogonal(u)
			h = 1
		}
		surface := origin.Sub(offset).Add(radial.Scale(cyl.Radius / h))
		onSurface := IsNearValueEps(offset.Length(), cyl.Radius, cyl.Radius*1e-9)
		return []PointPair{{Shape: surface, Line: origin}}, onSurface
	}

	onAxis, onLine, ok := GetClosestPointsLineLine(cyl.AxisOrigin, u, origin, d)
	if !ok {
		return nil, false
	}
	toLine := onLine.Sub(onAxis)
	h := toLine.Length()

	if h > cyl.Radius {
		surface := onAxis.Add(toLine.Scale(cyl.Radius / h))
		return []PointPair{{Shape: surface, Line: onLine}}, false
	}

	aux := Circle{
		Plane:  Plane{Normal: u, D: -u.Dot(onAxis)},
		Center: onAxis,
		Radius: cyl.Radius,
	}
	projDir := GetRejectedVector(d, u).Normalize()
	for _, chord := range circlePairsInPlane(aux, onLine, projDir) {
		hit, _, ok := GetClosestPointsLineLine(origin, d, chord.Shape, u)
		if !ok {
			continue
		}
		pairs = append(pairs, PointPair{Shape: hit, Line: hit})
	}
	return pairs, len(pairs) > 0
}

// GetIntersectionCylinderLine returns the points where the infinite line
// origin + t*dir crosses the cylinder's surface, narrowed by policy. A line
// parallel to the axis only intersects when it lies on the surface, in which
// case its origin stands in for the whole line.
func GetIntersectionCylinderLine(cyl Cylinder, origin, dir Vec3, policy SelectionPolicy) ([]Vec3, bool) {
	if dir.IsNearZero() {
		return nil, false
	}
	d := dir.Normalize()
	pairs, intersects := cylinderLinePairs(cyl, origin, d)
	if !intersects {
		return nil, false
	}
	pairs = policy.selectPairs(pairs, origin, d)
	if len(pairs) == 0 {
		return nil, false
	}
	return linePoints(pairs), true
}

// GetClosestPointsCylinderLine pairs surface points with line points; see
// GetClosestPointsSphereLine.
func GetClosestPointsCylinderLine(cyl Cylinder, origin, dir Vec3, policy SelectionPolicy) ([]PointPair, bool) {
	if dir.IsNearZero() {
		return nil, false
	}
	d := dir.Normalize()
	pairs, _ := cylinderLinePairs(cyl, origin, d)
	pairs = policy.selectPairs(pairs, origin, d)
	return pairs, len(pairs) > 0
}

// IsInsideCylinder reports whether p is within the radius of the axis.
func IsInsideCylinder(cyl Cylinder, p Vec3) bool {
	return cyl.DistanceFromAxis(p) <= cyl.Radius+math.Max(1, cyl.Radius)*1e-12
}
