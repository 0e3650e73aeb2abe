package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square2D() []Vec2 {
	return []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
}

func TestGetPolygonAngleSum(t *testing.T) {
	sq := square2D()
	assert.InDelta(t, 360, GetPolygonAngleSum(Vec2{0.5, 0.5}, sq), 1e-9)

	reversed := []Vec2{sq[3], sq[2], sq[1], sq[0]}
	assert.InDelta(t, -360, GetPolygonAngleSum(Vec2{0.5, 0.5}, reversed), 1e-9)

	outside := GetPolygonAngleSum(Vec2{1.001, 0.5}, sq)
	assert.Less(t, outside, 360*polygonInsideFactor)
	assert.InDelta(t, 0, outside, 1e-9)
}

func TestIsInsidePolygon2D(t *testing.T) {
	// L-shaped, so one test point sits in the notch
	ell := []Vec2{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}
	tests := []struct {
		name  string
		point Vec2
		want  bool
	}{
		{"inside arm", Vec2{1.5, 0.5}, true},
		{"inside corner", Vec2{0.5, 0.5}, true},
		{"in the notch", Vec2{1.5, 1.5}, false},
		{"far", Vec2{-5, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInsidePolygon2D(tt.point, ell))
		})
	}
	assert.False(t, IsInsidePolygon2D(Vec2{}, ell[:2]))
}

func TestPlaneBasisRoundTrip(t *testing.T) {
	plane, err := NewPlane(v3(1, 1, 1), v3(0, 0, 3))
	require.NoError(t, err)
	basis := NewPlaneBasis(plane, Zero)

	assert.InDelta(t, 0, basis.U.Dot(basis.V), 1e-12)
	assert.InDelta(t, 0, basis.U.Dot(plane.Normal), 1e-12)

	p := plane.ClosestPoint(v3(4, -2, 7))
	assertVecNear(t, p, basis.To3D(basis.To2D(p)), 1e-12)
}

func TestIsInsidePolygon3D(t *testing.T) {
	poly := []Vec3{v3(0, 0, 2), v3(1, 0, 2), v3(1, 1, 2), v3(0, 1, 2)}
	assert.True(t, IsInsidePolygon3D(v3(0.5, 0.5, 2), poly))
	assert.True(t, IsInsidePolygon3D(v3(0.5, 0.5, 7), poly), "projected along the normal")
	assert.False(t, IsInsidePolygon3D(v3(1.5, 0.5, 2), poly))
	assert.False(t, IsInsidePolygon3D(v3(1.5, 0.5, 2), poly[:2]))

	// first three vertices collinear
	pentagon := []Vec3{v3(0, 0, 0), v3(1, 0, 0), v3(2, 0, 0), v3(2, 2, 0), v3(0, 2, 0)}
	assert.True(t, IsInsidePolygon3D(v3(1, 1, 0), pentagon))
	assert.False(t, IsInsidePolygon3D(v3(3, 1, 0), pentagon))

	line := []Vec3{v3(0, 0, 0), v3(1, 0, 0), v3(2, 0, 0)}
	assert.False(t, IsInsidePolygon3D(v3(1, 0, 0), line))
}
