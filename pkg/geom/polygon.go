package geom

import (
	"fmt"
	"math"
)

// Vec2 is a point in a plane's 2D coordinates.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) String() string       { return fmt.Sprintf("(%g %g)", a.X, a.Y) }
func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(k float64) Vec2 { return Vec2{a.X * k, a.Y * k} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Cross(b Vec2) float64 { return a.X*b.Y - a.Y*b.X }
func (a Vec2) Length() float64      { return math.Hypot(a.X, a.Y) }

// polygonInsideFactor absorbs rounding in the summed winding angle.
const polygonInsideFactor = 0.999999

// GetPolygonAngleSum returns the sum, in degrees, of the signed angles each
// polygon edge subtends at point. It is +-360 for points inside a simple
// polygon and near zero for points outside.
func GetPolygonAngleSum(point Vec2, polygon []Vec2) float64 {
	sum := 0.0
	for i := range polygon {
		a := polygon[i].Sub(point)
		b := polygon[(i+1)%len(polygon)].Sub(point)
		sum += math.Atan2(a.Cross(b), a.Dot(b))
	}
	return sum * 180 / math.Pi
}

// IsInsidePolygon2D reports whether point is inside polygon by its winding
// angle. Either vertex order works.
func IsInsidePolygon2D(point Vec2, polygon []Vec2) bool {
	if len(polygon) < 3 {
		return false
	}
	return math.Abs(GetPolygonAngleSum(point, polygon)) >= 360*polygonInsideFactor
}

// ---------------------------------------------------------------------------
// Plane coordinates
// ---------------------------------------------------------------------------

// PlaneBasis maps points of a plane to and from 2D coordinates.
type PlaneBasis struct {
	Origin Vec3
	U, V   Vec3
	Normal Vec3
}

// NewPlaneBasis builds an orthonormal basis of plane anchored at the plane
// point closest to origin.
func NewPlaneBasis(plane Plane, origin Vec3) PlaneBasis {
	u := Orthogonal(plane.Normal)
	v := plane.Normal.Cross(u)
	return PlaneBasis{Origin: plane.ClosestPoint(origin), U: u, V: v, Normal: plane.Normal}
}

// To2D projects p into plane coordinates; the out-of-plane part is dropped.
func (b PlaneBasis) To2D(p Vec3) Vec2 {
	d := p.Sub(b.Origin)
	return Vec2{d.Dot(b.U), d.Dot(b.V)}
}

// To3D maps plane coordinates back onto the plane.
func (b PlaneBasis) To3D(p Vec2) Vec3 {
	return b.Origin.Add(b.U.Scale(p.X)).Add(b.V.Scale(p.Y))
}

// IsInsidePolygon3D projects a planar polygon and point into 2D and applies
// IsInsidePolygon2D. The plane normal is Newell's, so collinear leading
// vertices don't matter.
func IsInsidePolygon3D(point Vec3, polygon []Vec3) bool {
	if len(polygon) < 3 {
		return false
	}
	plane, err := NewPlane(newellNormal(polygon), polygon[0])
	if err != nil {
		return false
	}
	basis := NewPlaneBasis(plane, polygon[0])
	flat := make([]Vec2, len(polygon))
	for i, p := range polygon {
		flat[i] = basis.To2D(p)
	}
	return IsInsidePolygon2D(basis.To2D(point), flat)
}

// newellNormal sums the edge cross terms of polygon; the result is zero for a
// degenerate polygon.
func newellNormal(polygon []Vec3) Vec3 {
	var n Vec3
	for i, a := range polygon {
		b := polygon[(i+1)%len(polygon)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}
