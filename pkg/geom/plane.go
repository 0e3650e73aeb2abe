package geom

import "fmt"

// Plane is a unit normal and signed distance from the origin. A point p lies
// on the plane when Normal.Dot(p) + D == 0.
type Plane struct {
	Normal Vec3
	D      float64
}

// NewPlane builds the plane with the given normal through point. The normal
// is normalized.
func NewPlane(normal, point Vec3) (Plane, error) {
	if err := requireDirection("plane normal", normal); err != nil {
		return Plane{}, err
	}
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}, nil
}

// NewPlaneFromPoints builds the plane through a, b and c, with the normal
// following the right-hand rule a->b->c.
func NewPlaneFromPoints(a, b, c Vec3) (Plane, error) {
	n := b.Sub(a).Cross(c.Sub(a))
	if err := requireDirection("plane normal (collinear points?)", n); err != nil {
		return Plane{}, err
	}
	return NewPlane(n, a)
}

func (p Plane) String() string {
	return fmt.Sprintf("plane(n=%v d=%g)", p.Normal, p.D)
}

// DistanceFromPlane returns the signed distance of point, positive on the
// side the normal points to.
func (p Plane) DistanceFromPlane(point Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// ClosestPoint projects point onto the plane.
func (p Plane) ClosestPoint(point Vec3) Vec3 {
	return point.Sub(p.Normal.Scale(p.DistanceFromPlane(point)))
}

// PointOnPlane returns the point of the plane closest to the origin.
func (p Plane) PointOnPlane() Vec3 {
	return p.Normal.Scale(-p.D)
}

// Flip returns the same plane with the opposite orientation.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Neg(), D: -p.D}
}

// IsOnPlane reports whether point lies on the plane within eps.
func (p Plane) IsOnPlane(point Vec3, eps float64) bool {
	return IsNearZeroEps(p.DistanceFromPlane(point), eps)
}
