package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3D vector or point.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero  = Vec3{}
	UnitX = Vec3{1, 0, 0}
	UnitY = Vec3{0, 1, 0}
	UnitZ = Vec3{0, 0, 1}
)

func (a Vec3) String() string {
	return fmt.Sprintf("(%g %g %g)", a.X, a.Y, a.Z)
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) Scale(k float64) Vec3 {
	return Vec3{a.X * k, a.Y * k, a.Z * k}
}

func (a Vec3) Neg() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) LengthSq() float64 {
	return a.Dot(a)
}

func (a Vec3) Length() float64 {
	return math.Sqrt(a.Dot(a))
}

// Normalize returns the unit vector in the direction of a. The zero vector
// normalizes to itself.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// IsZero reports whether every component is exactly zero.
func (a Vec3) IsZero() bool {
	return a.X == 0 && a.Y == 0 && a.Z == 0
}

// IsNearZero reports whether every component is within Epsilon of zero.
func (a Vec3) IsNearZero() bool {
	return a.IsNearZeroEps(Epsilon)
}

func (a Vec3) IsNearZeroEps(eps float64) bool {
	return IsNearZeroEps(a.X, eps) && IsNearZeroEps(a.Y, eps) && IsNearZeroEps(a.Z, eps)
}

// IsNearValue reports whether a and b are equal per component within Epsilon.
func (a Vec3) IsNearValue(b Vec3) bool {
	return a.IsNearValueEps(b, Epsilon)
}

func (a Vec3) IsNearValueEps(b Vec3, eps float64) bool {
	return IsNearValueEps(a.X, b.X, eps) && IsNearValueEps(a.Y, b.Y, eps) && IsNearValueEps(a.Z, b.Z, eps)
}

func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Length()
}

func (a Vec3) DistanceSq(b Vec3) float64 {
	return a.Sub(b).LengthSq()
}

// Lerp interpolates from a (t=0) to b (t=1).
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// IsFinite reports whether no component is NaN or infinite.
func (a Vec3) IsFinite() bool {
	return !math.IsNaN(a.X) && !math.IsNaN(a.Y) && !math.IsNaN(a.Z) &&
		!math.IsInf(a.X, 0) && !math.IsInf(a.Y, 0) && !math.IsInf(a.Z, 0)
}

// Mgl converts to the mathgl representation.
func (a Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{a.X, a.Y, a.Z}
}

// FromMgl converts from the mathgl representation.
func FromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Orthogonal returns an arbitrary unit vector perpendicular to v.
func Orthogonal(v Vec3) Vec3 {
	// Cross with whichever axis is least aligned with v.
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	var other Vec3
	switch {
	case ax <= ay && ax <= az:
		other = UnitX
	case ay <= az:
		other = UnitY
	default:
		other = UnitZ
	}
	return v.Cross(other).Normalize()
}

// AngleBetween returns the unsigned angle between a and b in degrees.
func AngleBetween(a, b Vec3) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	return math.Atan2(a.Cross(b).Length(), a.Dot(b)) * 180 / math.Pi
}

// SignedAngle returns the angle from a to b in degrees, positive when the
// rotation is counter-clockwise looking down axis.
func SignedAngle(a, b, axis Vec3) float64 {
	angle := AngleBetween(a, b)
	if a.Cross(b).Dot(axis) < 0 {
		return -angle
	}
	return angle
}

// GetProjectedVector returns the component of v parallel to along. When
// eitherDirection is false and that component points opposite to along, the
// zero vector is returned.
func GetProjectedVector(v, along Vec3, eitherDirection bool) Vec3 {
	lenSq := along.LengthSq()
	if IsNearZero(lenSq) {
		return Zero
	}
	dot := v.Dot(along)
	if !eitherDirection && dot < 0 {
		return Zero
	}
	return along.Scale(dot / lenSq)
}

// GetRejectedVector returns the component of v perpendicular to along.
func GetRejectedVector(v, along Vec3) Vec3 {
	return v.Sub(GetProjectedVector(v, along, true))
}

// GetClosestPointLinePoint orthogonally projects point onto the line through
// origin with direction dir.
func GetClosestPointLinePoint(origin, dir, point Vec3) Vec3 {
	return origin.Add(GetProjectedVector(point.Sub(origin), dir, true))
}
