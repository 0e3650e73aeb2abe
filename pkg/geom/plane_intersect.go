package geom

import "math"

// GetIntersectionPlaneLine intersects plane with the edge origin + t*dir. For
// a Segment, dir is end minus start. The parameter is the signed distance of
// origin over -normal.dir; et rejects parametric values off the edge.
//
// A line parallel to the plane has no intersection, including one lying in
// the plane (infinitely many solutions are not enumerated).
func GetIntersectionPlaneLine(plane Plane, origin, dir Vec3, et EdgeType) (Vec3, bool) {
	t, ok := planeLineParam(plane, origin, dir)
	if !ok || !et.accepts(t) {
		return Zero, false
	}
	return origin.Add(dir.Scale(t)), true
}

func planeLineParam(plane Plane, origin, dir Vec3) (float64, bool) {
	denom := -plane.Normal.Dot(dir)
	if isNearZeroScaled(denom, dir.Length()) {
		return 0, false
	}
	t := plane.DistanceFromPlane(origin) / denom
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	return t, true
}

// GetIntersectionPlanePlane returns a point on, and the unit direction of,
// the line shared by two planes. Parallel (or anti-parallel) planes have no
// intersection.
func GetIntersectionPlanePlane(a, b Plane) (point, dir Vec3, ok bool) {
	cross := a.Normal.Cross(b.Normal)
	if isNearZeroScaled(cross.LengthSq(), 1) {
		return Zero, Zero, false
	}
	// point = c1*n1 + c2*n2 satisfying both plane equations
	dot := a.Normal.Dot(b.Normal)
	det := a.Normal.LengthSq()*b.Normal.LengthSq() - dot*dot
	c1 := (-a.D*b.Normal.LengthSq() + b.D*dot) / det
	c2 := (-b.D*a.Normal.LengthSq() + a.D*dot) / det
	point = a.Normal.Scale(c1).Add(b.Normal.Scale(c2))
	return point, cross.Normalize(), true
}

// GetIntersectionPlaneSphere returns the circle where plane cuts sphere:
// radius^2 = sphereRadius^2 - distance^2. A tangent plane yields a circle of
// radius zero; a plane farther than the radius yields no intersection.
func GetIntersectionPlaneSphere(plane Plane, sphere Sphere) (center Vec3, radius float64, ok bool) {
	dist := plane.DistanceFromPlane(sphere.Center)
	if math.Abs(dist) > sphere.Radius {
		return Zero, 0, false
	}

	// The normal's sign isn't authoritative; make sure the projected center
	// really is on the plane and try the other side if not.
	center = sphere.Center.Sub(plane.Normal.Scale(dist))
	tol := math.Max(1, math.Abs(plane.D)+sphere.Center.Length()) * 1e-9
	if !plane.IsOnPlane(center, tol) {
		center = sphere.Center.Add(plane.Normal.Scale(dist))
	}

	radius = math.Sqrt(math.Max(0, sphere.Radius*sphere.Radius-dist*dist))
	return center, radius, true
}
