package geom

// sphereLinePairs reduces sphere/line to the chord of an auxiliary circle:
// the sphere's cross-section through the line's nearest approach to the
// center, in the plane containing the line.
func sphereLinePairs(sphere Sphere, origin, d Vec3) (pairs []PointPair, intersects bool) {
	q := GetClosestPointLinePoint(origin, d, sphere.Center)
	toQ := q.Sub(sphere.Center)
	h := toQ.Length()

	if h > sphere.Radius {
		rim := sphere.Center.Add(toQ.Scale(sphere.Radius / h))
		return []PointPair{{Shape: rim, Line: q}}, false
	}

	normal := d.Cross(toQ)
	if normal.IsNearZero() {
		normal = Orthogonal(d)
	}
	aux := Circle{
		Plane:  Plane{Normal: normal.Normalize(), D: -normal.Normalize().Dot(sphere.Center)},
		Center: sphere.Center,
		Radius: sphere.Radius,
	}
	return circlePairsInPlane(aux, origin, d), true
}

// GetIntersectionSphereLine returns the points where the infinite line
// origin + t*dir crosses the sphere's surface, narrowed by policy. A tangent
// line yields one point.
func GetIntersectionSphereLine(sphere Sphere, origin, dir Vec3, policy SelectionPolicy) ([]Vec3, bool) {
	if dir.IsNearZero() {
		return nil, false
	}
	d := dir.Normalize()
	pairs, intersects := sphereLinePairs(sphere, origin, d)
	if !intersects {
		return nil, false
	}
	pairs = policy.selectPairs(pairs, origin, d)
	if len(pairs) == 0 {
		return nil, false
	}
	return linePoints(pairs), true
}

// GetClosestPointsSphereLine pairs surface points with line points. A line
// crossing the sphere pairs each crossing with itself; a line missing it
// pairs the nearest line point with the surface point beneath it.
func GetClosestPointsSphereLine(sphere Sphere, origin, dir Vec3, policy SelectionPolicy) ([]PointPair, bool) {
	if dir.IsNearZero() {
		return nil, false
	}
	d := dir.Normalize()
	pairs, _ := sphereLinePairs(sphere, origin, d)
	pairs = policy.selectPairs(pairs, origin, d)
	return pairs, len(pairs) > 0
}
