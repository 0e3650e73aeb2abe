package geom

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVecNormalize(t *testing.T) {
	assertVecNear(t, v3(0.6, 0.8, 0), v3(3, 4, 0).Normalize(), 1e-15)
	assert.Equal(t, Zero, Zero.Normalize(), "zero stays zero")
}

func TestEpsilonIsMachineEpsilon(t *testing.T) {
	assert.Equal(t, math.Pow(2, -52), Epsilon)
	assert.True(t, IsNearZero(Epsilon))
	assert.False(t, IsNearZero(2*Epsilon))
	assert.True(t, IsNearValue(1, 1+Epsilon))
	assert.True(t, v3(1, 2, 3).IsNearValueEps(v3(1, 2, 3.001), 0.01))
}

func TestProjectedAndRejected(t *testing.T) {
	tests := []struct {
		name     string
		v, along Vec3
		either   bool
		want     Vec3
	}{
		{"same direction", v3(2, 3, 0), UnitX, false, v3(2, 0, 0)},
		{"opposite, one-sided", v3(-2, 3, 0), UnitX, false, Zero},
		{"opposite, either", v3(-2, 3, 0), UnitX, true, v3(-2, 0, 0)},
		{"unnormalized along", v3(1, 1, 0), v3(0, 5, 0), false, v3(0, 1, 0)},
		{"zero along", v3(1, 1, 0), Zero, true, Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVecNear(t, tt.want, GetProjectedVector(tt.v, tt.along, tt.either), 1e-15)
		})
	}
	assertVecNear(t, v3(0, 3, 0), GetRejectedVector(v3(2, 3, 0), UnitX), 1e-15)
}

func TestAngles(t *testing.T) {
	assert.InDelta(t, 90, AngleBetween(UnitX, UnitY), 1e-12)
	assert.InDelta(t, 180, AngleBetween(UnitX, UnitX.Neg()), 1e-12)
	assert.InDelta(t, 90, SignedAngle(UnitX, UnitY, UnitZ), 1e-12)
	assert.InDelta(t, -90, SignedAngle(UnitX, UnitY, UnitZ.Neg()), 1e-12)
}

func TestOrthogonal(t *testing.T) {
	for _, v := range []Vec3{UnitX, UnitY, UnitZ, v3(1, 1, 1), v3(-3, 0.1, 7)} {
		o := Orthogonal(v)
		assert.InDelta(t, 0, o.Dot(v), 1e-12, "%v", v)
		assert.InDelta(t, 1, o.Length(), 1e-12, "%v", v)
	}
}

func TestTokenSourceConcurrent(t *testing.T) {
	ts := NewTokenSource()
	const n = 1000
	seen := make(chan Token, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- ts.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[Token]bool{}
	for tok := range seen {
		require.False(t, unique[tok], "duplicate token %d", tok)
		unique[tok] = true
	}
	assert.Len(t, unique, n)
	assert.Equal(t, Token(n+1), ts.Next())
}

// --- AABB ---

func TestGetAABB(t *testing.T) {
	box := GetAABB([]Vec3{v3(1, -2, 3), v3(-1, 5, 0), v3(0, 0, 9)})
	assert.Equal(t, v3(-1, -2, 0), box.Min)
	assert.Equal(t, v3(1, 5, 9), box.Max)
	assert.Equal(t, AABB{}, GetAABB(nil))
	assert.True(t, box.Contains(v3(1, 5, 9)))
	assert.False(t, box.Contains(v3(1, 5, 9.1)))
}

func TestIsIntersectingAABBAABB(t *testing.T) {
	unit := AABB{Min: v3(0, 0, 0), Max: v3(1, 1, 1)}
	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"overlapping", AABB{Min: v3(0.5, 0.5, 0.5), Max: v3(2, 2, 2)}, true},
		{"touching face", AABB{Min: v3(1, 0, 0), Max: v3(2, 1, 1)}, true},
		{"touching corner", AABB{Min: v3(1, 1, 1), Max: v3(2, 2, 2)}, true},
		{"contained", AABB{Min: v3(0.25, 0.25, 0.25), Max: v3(0.75, 0.75, 0.75)}, true},
		{"separated on x", AABB{Min: v3(1.01, 0, 0), Max: v3(2, 1, 1)}, false},
		{"separated on z", AABB{Min: v3(0, 0, -2), Max: v3(1, 1, -0.5)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIntersectingAABBAABB(unit, tt.other))
			assert.Equal(t, tt.want, IsIntersectingAABBAABB(tt.other, unit))
		})
	}
}

func TestIsIntersectingAABBSphere(t *testing.T) {
	unit := AABB{Min: v3(0, 0, 0), Max: v3(1, 1, 1)}
	tests := []struct {
		name   string
		center Vec3
		radius float64
		want   bool
	}{
		{"center inside", v3(0.5, 0.5, 0.5), 0.1, true},
		{"touching face", v3(2, 0.5, 0.5), 1, true},
		{"near corner, too small", v3(2, 2, 2), 1.7, false},
		{"near corner, large enough", v3(2, 2, 2), 1.75, true},
		{"far", v3(5, 5, 5), 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIntersectingAABBSphere(unit, tt.center, tt.radius))
		})
	}
}
