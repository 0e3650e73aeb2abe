package geom

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// GetRotation returns the rotation taking the oriented direction pair
// (from1, from2) onto (to1, to2): from1 maps exactly onto to1 and from2 is
// twisted about to1 into the half-plane of to2.
//
// The rotation is composed from a swing (from1 -> to1) and a twist about
// to1. When either angle lands within opts.SingularityToleranceDegrees of 90
// or 180 degrees the composition is unstable, so both pairs are rotated by a
// small random rotation, solved again, and the jitter is undone. Retries are
// bounded by opts.MaxRotationRetries.
func GetRotation(from1, from2, to1, to2 Vec3, opts Options) (mgl64.Quat, error) {
	opts = opts.withDefaults()
	for name, v := range map[string]Vec3{"from1": from1, "from2": from2, "to1": to1, "to2": to2} {
		if err := requireDirection(name, v); err != nil {
			return mgl64.QuatIdent(), err
		}
	}
	if isParallelUnit(from1.Normalize(), from2.Normalize()) || isParallelUnit(to1.Normalize(), to2.Normalize()) {
		return mgl64.QuatIdent(), invalidf("direction pairs must not be parallel")
	}

	return getRotation(from1.Normalize(), from2.Normalize(), to1.Normalize(), to2.Normalize(), opts, 0)
}

func getRotation(from1, from2, to1, to2 Vec3, opts Options, attempt int) (mgl64.Quat, error) {
	q, swing, twist := composeRotation(from1, from2, to1, to2)
	if !isSingularAngle(swing, opts.SingularityToleranceDegrees) && !isSingularAngle(twist, opts.SingularityToleranceDegrees) {
		return q, nil
	}
	if attempt >= opts.MaxRotationRetries {
		return mgl64.QuatIdent(), errors.Wrapf(ErrRetriesExhausted,
			"rotation still singular after %d jittered attempts (swing %.6f, twist %.6f)", attempt, swing, twist)
	}

	jFrom := randomJitter(opts)
	jTo := randomJitter(opts)
	inner, err := getRotation(
		rotate(jFrom, from1), rotate(jFrom, from2),
		rotate(jTo, to1), rotate(jTo, to2),
		opts, attempt+1,
	)
	if err != nil {
		return mgl64.QuatIdent(), err
	}

	// inner maps jFrom*from onto jTo*to, so jTo^-1 * inner * jFrom maps from onto to.
	return jTo.Inverse().Mul(inner).Mul(jFrom).Normalize(), nil
}

// composeRotation returns swing-then-twist and both angles in degrees.
func composeRotation(from1, from2, to1, to2 Vec3) (q mgl64.Quat, swing, twist float64) {
	swing = AngleBetween(from1, to1)
	axis := from1.Cross(to1)
	if axis.IsNearZeroEps(1e-12) {
		axis = Orthogonal(from1)
	}
	swingQ := mgl64.QuatRotate(mgl64.DegToRad(swing), axis.Normalize().Mgl())

	swung := FromMgl(swingQ.Rotate(from2.Mgl()))
	a := GetRejectedVector(swung, to1)
	b := GetRejectedVector(to2, to1)
	if a.IsNearZero() || b.IsNearZero() {
		return swingQ, swing, 0
	}
	twist = SignedAngle(a, b, to1)
	twistQ := mgl64.QuatRotate(mgl64.DegToRad(twist), to1.Mgl())

	return twistQ.Mul(swingQ).Normalize(), swing, twist
}

func isSingularAngle(deg, tol float64) bool {
	deg = math.Abs(deg)
	return IsNearValueEps(deg, 90, tol) || IsNearValueEps(deg, 180, tol)
}

// randomJitter returns a rotation of opts.JitterMinDegrees to
// opts.JitterMaxDegrees about a random axis.
func randomJitter(opts Options) mgl64.Quat {
	angle := opts.JitterMinDegrees + rand.Float64()*(opts.JitterMaxDegrees-opts.JitterMinDegrees)
	return mgl64.QuatRotate(mgl64.DegToRad(angle), RandomUnitVector().Mgl())
}

func rotate(q mgl64.Quat, v Vec3) Vec3 {
	return FromMgl(q.Rotate(v.Mgl()))
}

// RotateVec applies q to v.
func RotateVec(q mgl64.Quat, v Vec3) Vec3 {
	return rotate(q, v)
}

// RandomUnitVector returns a uniformly distributed unit vector. It draws
// from the goroutine-safe global source of math/rand.
func RandomUnitVector() Vec3 {
	for {
		v := Vec3{rand.Float64()*2 - 1, rand.Float64()*2 - 1, rand.Float64()*2 - 1}
		l := v.LengthSq()
		if l > 1e-6 && l <= 1 {
			return v.Normalize()
		}
	}
}
