package geom

import (
	"math"
	"sort"
)

// baryTolerance admits hits that rounding pushed just off an edge.
const baryTolerance = 1e-10

// GetIntersectionTriangleLine intersects the triangle's plane with the edge
// origin + t*dir (see GetIntersectionPlaneLine) and keeps the hit only if it
// falls inside the triangle.
func GetIntersectionTriangleLine(tri TriangleView, origin, dir Vec3, et EdgeType) (Vec3, bool) {
	hit, ok := GetIntersectionPlaneLine(tri.Plane(), origin, dir, et)
	if !ok {
		return Zero, false
	}
	u, v := ToBarycentric(tri.Point0(), tri.Point1(), tri.Point2(), hit)
	if !isInsideBarycentricEps(u, v, baryTolerance) {
		return Zero, false
	}
	return hit, true
}

// GetIntersectionTriangleTriangle returns the segment shared by two
// triangles. Triangles that only touch at a single point, are coplanar or
// parallel, or don't meet at all, have no intersection.
//
// Panics with a *Fault if more than two distinct points are found, which the
// geometry rules out.
func GetIntersectionTriangleTriangle(a, b TriangleView) ([2]Vec3, bool) {
	point, dir, ok := GetIntersectionPlanePlane(a.Plane(), b.Plane())
	if !ok {
		return [2]Vec3{}, false
	}

	scale := math.Max(triangleScale(a), triangleScale(b))
	tol := math.Max(1, scale) * 1e-9

	segA, ok := clipLineToTriangle(a, point, dir, tol)
	if !ok {
		return [2]Vec3{}, false
	}
	segB, ok := clipLineToTriangle(b, point, dir, tol)
	if !ok {
		return [2]Vec3{}, false
	}

	// Keep the endpoints of each segment that the other segment contains.
	var found []Vec3
	for _, p := range segA {
		if IsPointOnSegment(segB[0], segB[1], p, tol) {
			found = appendUnique(found, p, tol)
		}
	}
	for _, p := range segB {
		if IsPointOnSegment(segA[0], segA[1], p, tol) {
			found = appendUnique(found, p, tol)
		}
	}

	switch {
	case len(found) > 2:
		Panicf("GetIntersectionTriangleTriangle", "found %d intersection points, expected at most 2", len(found))
	case len(found) < 2:
		return [2]Vec3{}, false
	}

	// Order along the shared line for a stable answer.
	if found[1].Sub(found[0]).Dot(dir) < 0 {
		found[0], found[1] = found[1], found[0]
	}
	return [2]Vec3{found[0], found[1]}, true
}

// clipLineToTriangle walks the triangle's edges and returns the part of the
// coplanar line inside it. A single touching point is not a segment.
func clipLineToTriangle(tri TriangleView, point, dir Vec3, tol float64) ([2]Vec3, bool) {
	pts := tri.Points()
	var found []Vec3
	for i := 0; i < 3; i++ {
		e0, e1 := pts[i], pts[(i+1)%3]
		onLine, onSeg, ok := GetClosestPointsLineSegment(point, dir, e0, e1)
		if !ok || onLine.DistanceSq(onSeg) > tol*tol {
			continue
		}
		found = appendUnique(found, onSeg, tol)
	}
	if len(found) > 2 {
		Panicf("clipLineToTriangle", "line crosses triangle boundary at %d points", len(found))
	}
	if len(found) < 2 {
		return [2]Vec3{}, false
	}
	return [2]Vec3{found[0], found[1]}, true
}

func triangleScale(t TriangleView) float64 {
	pts := t.Points()
	box := GetAABB(pts[:])
	return box.Size().Length()
}

func appendUnique(points []Vec3, p Vec3, tol float64) []Vec3 {
	for _, q := range points {
		if q.DistanceSq(p) <= tol*tol {
			return points
		}
	}
	return append(points, p)
}

// ---------------------------------------------------------------------------
// Hull ray casts
// ---------------------------------------------------------------------------

// HullHit is one triangle crossed by a ray.
type HullHit struct {
	Point    Vec3
	Distance float64
	Triangle TriangleView
}

// sortHits orders by distance from the ray origin, then by triangle token, so
// the order never depends on goroutine scheduling.
func sortHits(hits []HullHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Triangle.Token() < hits[j].Triangle.Token()
	})
}
