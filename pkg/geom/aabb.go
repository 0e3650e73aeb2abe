package geom

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// GetAABB returns the bounding box of points in one pass. An empty input
// yields the zero box; callers that care must check len(points) themselves.
func GetAABB(points []Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Min.Z = math.Min(box.Min.Z, p.Z)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
		box.Max.Z = math.Max(box.Max.Z, p.Z)
	}
	return box
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Size returns the extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether point lies inside or on the box.
func (b AABB) Contains(point Vec3) bool {
	return point.X >= b.Min.X && point.X <= b.Max.X &&
		point.Y >= b.Min.Y && point.Y <= b.Max.Y &&
		point.Z >= b.Min.Z && point.Z <= b.Max.Z
}

// IsIntersectingAABBAABB reports whether two boxes overlap. Touching faces
// count as intersecting.
func IsIntersectingAABBAABB(a, b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// IsIntersectingAABBSphere reports whether the box and sphere overlap.
// Touching counts as intersecting.
func IsIntersectingAABBSphere(box AABB, center Vec3, radius float64) bool {
	closest := Vec3{
		X: math.Max(box.Min.X, math.Min(center.X, box.Max.X)),
		Y: math.Max(box.Min.Y, math.Min(center.Y, box.Max.Y)),
		Z: math.Max(box.Min.Z, math.Min(center.Z, box.Max.Z)),
	}
	return closest.DistanceSq(center) <= radius*radius
}
