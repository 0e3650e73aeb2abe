package geom

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func assertVecNear(t *testing.T, want, got Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, delta, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, delta, msgAndArgs...)
}

// propertyRuns is the number of generated cases per property test.
const propertyRuns = 500

// randVec3 returns a vector with components uniform in [-scale, scale).
func randVec3(r *rand.Rand, scale float64) Vec3 {
	return v3(
		(r.Float64()*2-1)*scale,
		(r.Float64()*2-1)*scale,
		(r.Float64()*2-1)*scale,
	)
}

// unitCube returns the 12 outward-facing triangles of [0,1]^3.
func unitCube(t *testing.T, ts *TokenSource) []TriangleView {
	t.Helper()
	quads := [][4]Vec3{
		{v3(0, 0, 0), v3(0, 1, 0), v3(1, 1, 0), v3(1, 0, 0)}, // -Z
		{v3(0, 0, 1), v3(1, 0, 1), v3(1, 1, 1), v3(0, 1, 1)}, // +Z
		{v3(0, 0, 0), v3(1, 0, 0), v3(1, 0, 1), v3(0, 0, 1)}, // -Y
		{v3(0, 1, 0), v3(0, 1, 1), v3(1, 1, 1), v3(1, 1, 0)}, // +Y
		{v3(0, 0, 0), v3(0, 0, 1), v3(0, 1, 1), v3(0, 1, 0)}, // -X
		{v3(1, 0, 0), v3(1, 1, 0), v3(1, 1, 1), v3(1, 0, 1)}, // +X
	}
	var hull []TriangleView
	for _, q := range quads {
		a, err := NewTriangleFixed(ts, q[0], q[1], q[2])
		require.NoError(t, err)
		b, err := NewTriangleFixed(ts, q[0], q[2], q[3])
		require.NoError(t, err)
		hull = append(hull, a, b)
	}
	return hull
}
