package geom

import (
	"fmt"
	"math"
)

// Circle lies in Plane, centered on Center.
type Circle struct {
	Plane  Plane
	Center Vec3
	Radius float64
}

// NewCircle builds a circle with the given normal. The center defines the
// plane's offset.
func NewCircle(normal, center Vec3, radius float64) (Circle, error) {
	if err := requirePositive("circle radius", radius); err != nil {
		return Circle{}, err
	}
	plane, err := NewPlane(normal, center)
	if err != nil {
		return Circle{}, err
	}
	return Circle{Plane: plane, Center: center, Radius: radius}, nil
}

func (c Circle) String() string {
	return fmt.Sprintf("circle(c=%v n=%v r=%g)", c.Center, c.Plane.Normal, c.Radius)
}

// ClosestPoint returns the point on the rim closest to p. ok is false when p
// projects onto the center, where every rim point is equally close.
func (c Circle) ClosestPoint(p Vec3) (Vec3, bool) {
	v := c.Plane.ClosestPoint(p).Sub(c.Center)
	l := v.Length()
	if isNearZeroScaled(l, c.Radius) {
		return Zero, false
	}
	return c.Center.Add(v.Scale(c.Radius / l)), true
}

// Sphere is a center and radius.
type Sphere struct {
	Center Vec3
	Radius float64
}

func NewSphere(center Vec3, radius float64) (Sphere, error) {
	if err := requirePositive("sphere radius", radius); err != nil {
		return Sphere{}, err
	}
	return Sphere{Center: center, Radius: radius}, nil
}

func (s Sphere) String() string {
	return fmt.Sprintf("sphere(c=%v r=%g)", s.Center, s.Radius)
}

// Contains reports whether p is inside or on the sphere.
func (s Sphere) Contains(p Vec3) bool {
	return p.DistanceSq(s.Center) <= s.Radius*s.Radius
}

// Cylinder is an infinite, uncapped cylinder around an axis.
type Cylinder struct {
	AxisOrigin Vec3
	AxisDir    Vec3 // unit length
	Radius     float64
}

func NewCylinder(axisOrigin, axisDir Vec3, radius float64) (Cylinder, error) {
	if err := requireDirection("cylinder axis", axisDir); err != nil {
		return Cylinder{}, err
	}
	if err := requirePositive("cylinder radius", radius); err != nil {
		return Cylinder{}, err
	}
	return Cylinder{AxisOrigin: axisOrigin, AxisDir: axisDir.Normalize(), Radius: radius}, nil
}

func (c Cylinder) String() string {
	return fmt.Sprintf("cylinder(o=%v d=%v r=%g)", c.AxisOrigin, c.AxisDir, c.Radius)
}

// DistanceFromAxis returns the perpendicular distance of p from the axis.
func (c Cylinder) DistanceFromAxis(p Vec3) float64 {
	return GetRejectedVector(p.Sub(c.AxisOrigin), c.AxisDir).Length()
}

// PointPair is a closest-point or intersection result: a point on a shape
// and the matching point on the queried line.
type PointPair struct {
	Shape Vec3
	Line  Vec3
}

// Gap is the distance between the two points.
func (p PointPair) Gap() float64 {
	return p.Shape.Distance(p.Line)
}

// classification tolerance for "parallel" and "perpendicular" unit vectors
const alignTolerance = 1e-9

func isParallelUnit(a, b Vec3) bool {
	return a.Cross(b).Length() <= alignTolerance
}

func isPerpendicularUnit(a, b Vec3) bool {
	return math.Abs(a.Dot(b)) <= alignTolerance
}
