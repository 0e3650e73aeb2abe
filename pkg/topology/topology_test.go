package topology

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/facet/pkg/geom"
)

func v(x, y, z float64) geom.Vec3 { return geom.Vec3{X: x, Y: y, Z: z} }

func squarePoints() []geom.Vec3 {
	return []geom.Vec3{v(0, 0, 0), v(1, 0, 0), v(1, 1, 0), v(0, 1, 0)}
}

func mustSegment(t *testing.T, ts *geom.TokenSource, i0, i1 int, pts []geom.Vec3) *Edge3D {
	t.Helper()
	e, err := NewSegment(ts, i0, i1, pts)
	require.NoError(t, err)
	return e
}

// --- Edge3D ---

func TestEdgeConstructionErrors(t *testing.T) {
	ts := geom.NewTokenSource()
	pts := squarePoints()
	tests := []struct {
		name string
		make func() error
	}{
		{"segment index out of range", func() error { _, err := NewSegment(ts, 0, 9, pts); return err }},
		{"segment negative index", func() error { _, err := NewSegment(ts, -1, 1, pts); return err }},
		{"segment same endpoints", func() error { _, err := NewSegment(ts, 2, 2, pts); return err }},
		{"ray zero direction", func() error { _, err := NewRay(ts, 0, geom.Zero, pts); return err }},
		{"line out of range", func() error { _, err := NewLine(ts, 4, geom.UnitX, pts); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.make()
			require.Error(t, err)
			assert.Equal(t, geom.ErrInvalidArgument, errors.Cause(err))
		})
	}
}

func TestEdgeAccessors(t *testing.T) {
	ts := geom.NewTokenSource()
	pts := squarePoints()

	seg := mustSegment(t, ts, 0, 1, pts)
	assert.True(t, seg.IsSegment())
	p1, ok := seg.Point1()
	require.True(t, ok)
	assert.Equal(t, v(1, 0, 0), p1)
	assert.Equal(t, v(1, 0, 0), seg.Direction())
	assert.Equal(t, v(1, 0, 0), seg.Point1Ext(50))

	ray, err := NewRay(ts, 2, v(0, 2, 0), pts)
	require.NoError(t, err)
	assert.Equal(t, geom.Ray, ray.Kind())
	_, ok = ray.Index1()
	assert.False(t, ok)
	assert.Equal(t, v(1, 4, 0), ray.Point1Ext(3))
	assert.NotEqual(t, seg.Token(), ray.Token())
}

func TestGetCommonIndex(t *testing.T) {
	ts := geom.NewTokenSource()
	pts := squarePoints()
	a := mustSegment(t, ts, 0, 1, pts)
	b := mustSegment(t, ts, 1, 2, pts)
	c := mustSegment(t, ts, 2, 3, pts)

	i, ok := GetCommonIndex(a, b)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.True(t, IsTouching(b, c))
	assert.False(t, IsTouching(a, c))

	ray, err := NewRay(ts, 3, geom.UnitY, pts)
	require.NoError(t, err)
	i, ok = GetCommonIndex(c, ray)
	require.True(t, ok)
	assert.Equal(t, 3, i)
}

// --- Face3D ---

func TestClosedFacePolygon(t *testing.T) {
	ts := geom.NewTokenSource()
	face, err := NewClosedFaceFromPoints(ts, squarePoints())
	require.NoError(t, err)
	assert.True(t, face.IsClosed())

	poly, err := face.GetPolygon(0)
	require.NoError(t, err)
	require.Len(t, poly, 4)
	// edge i runs i -> i+1, so the shared corner of edges 0 and 1 is point 1
	assert.Equal(t, v(1, 0, 0), poly[0])
	assert.Equal(t, v(0, 0, 0), poly[3])

	plane := face.GetPlane()
	assert.InDelta(t, 1, math.Abs(plane.Normal.Dot(geom.UnitZ)), 1e-12)
	assert.InDelta(t, 0, plane.DistanceFromPlane(v(0.3, 0.7, 0)), 1e-12)
}

func TestOpenFacePolygon(t *testing.T) {
	ts := geom.NewTokenSource()
	pts := []geom.Vec3{v(0, 0, 0), v(1, 0, 0)}
	r0, err := NewRay(ts, 0, v(0, 1, 0), pts)
	require.NoError(t, err)
	seg := mustSegment(t, ts, 0, 1, pts)
	r1, err := NewRay(ts, 1, v(0, 1, 0), pts)
	require.NoError(t, err)

	face, err := NewFace(ts, []*Edge3D{r0, seg, r1})
	require.NoError(t, err)
	assert.False(t, face.IsClosed())

	poly, err := face.GetPolygon(10)
	require.NoError(t, err)
	assert.Equal(t, []geom.Vec3{v(0, 10, 0), v(0, 0, 0), v(1, 0, 0), v(1, 10, 0)}, poly)

	_, err = face.GetPolygon(0)
	assert.Equal(t, geom.ErrInvalidArgument, errors.Cause(err))

	inside, err := face.ContainsPoint(v(0.5, 3, 0), 10)
	require.NoError(t, err)
	assert.True(t, inside)
	inside, err = face.ContainsPoint(v(0.5, -1, 0), 10)
	require.NoError(t, err)
	assert.False(t, inside)
}

func TestNewFaceErrors(t *testing.T) {
	ts := geom.NewTokenSource()
	pts := squarePoints()
	other := squarePoints()
	a := mustSegment(t, ts, 0, 1, pts)
	b := mustSegment(t, ts, 1, 2, pts)
	far := mustSegment(t, ts, 2, 3, pts)
	foreign := mustSegment(t, ts, 1, 2, other)
	collinearPts := []geom.Vec3{v(0, 0, 0), v(1, 0, 0), v(2, 0, 0)}
	ray, err := NewRay(ts, 0, geom.UnitY, pts)
	require.NoError(t, err)

	tests := []struct {
		name  string
		edges []*Edge3D
	}{
		{"single edge", []*Edge3D{a}},
		{"two segments", []*Edge3D{a, b}},
		{"mixed buffers", []*Edge3D{a, foreign, far}},
		{"first edges disjoint", []*Edge3D{a, far, b}},
		{"open face must end with ray", []*Edge3D{ray, a, b}},
		{"collinear corner", []*Edge3D{
			mustSegment(t, ts, 0, 1, collinearPts),
			mustSegment(t, ts, 1, 2, collinearPts),
			mustSegment(t, ts, 2, 0, collinearPts),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFace(ts, tt.edges)
			require.Error(t, err)
			assert.Equal(t, geom.ErrInvalidArgument, errors.Cause(err))
		})
	}
}

func TestGetPolygonPanicsOnBrokenLoop(t *testing.T) {
	ts := geom.NewTokenSource()
	pts := []geom.Vec3{v(0, 0, 0), v(1, 0, 0), v(1, 1, 0), v(0, 1, 0), v(5, 5, 0)}
	edges := []*Edge3D{
		mustSegment(t, ts, 0, 1, pts),
		mustSegment(t, ts, 1, 2, pts),
		mustSegment(t, ts, 2, 3, pts),
		mustSegment(t, ts, 4, 2, pts), // does not meet edge 0
	}
	face, err := NewFace(ts, edges)
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, isFault := r.(*geom.Fault)
		assert.True(t, isFault, "panic value %T", r)
	}()
	_, _ = face.GetPolygon(0)
}

// --- CloneDedupePoints ---

func TestCloneDedupePoints(t *testing.T) {
	ts := geom.NewTokenSource()
	ptsA := []geom.Vec3{v(0, 0, 0), v(1, 0, 0)}
	ptsB := []geom.Vec3{v(1+1e-9, 0, 0), v(1, 1, 0)}
	a := mustSegment(t, ts, 0, 1, ptsA)
	b := mustSegment(t, ts, 0, 1, ptsB)
	ray, err := NewRay(ts, 1, geom.UnitY, ptsB)
	require.NoError(t, err)

	sets, merged, err := CloneDedupePoints(ts, 1e-6, []*Edge3D{a}, []*Edge3D{b, ray})
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Len(t, merged, 3)
	assert.True(t, IsTouching(sets[0][0], sets[1][0]))
	assert.True(t, IsTouching(sets[1][0], sets[1][1]))
	assert.Equal(t, geom.Ray, sets[1][1].Kind())

	// originals are untouched
	assert.Len(t, a.AllPoints(), 2)
	assert.NotEqual(t, a.Token(), sets[0][0].Token())
}

func TestCloneDedupePointsErrors(t *testing.T) {
	ts := geom.NewTokenSource()
	pts := []geom.Vec3{v(0, 0, 0), v(1e-9, 0, 0)}
	seg := mustSegment(t, ts, 0, 1, pts)

	_, _, err := CloneDedupePoints(ts, -1, []*Edge3D{seg})
	assert.Equal(t, geom.ErrInvalidArgument, errors.Cause(err))

	_, _, err = CloneDedupePoints(ts, 1e-6, []*Edge3D{seg})
	assert.Equal(t, geom.ErrInvalidArgument, errors.Cause(err))
}

// --- face vs sphere ---

func TestGetIntersectionFaceSphere(t *testing.T) {
	ts := geom.NewTokenSource()
	// 4x4 square centred on the origin in the XY plane
	face, err := NewClosedFaceFromPoints(ts, []geom.Vec3{
		v(-2, -2, 0), v(2, -2, 0), v(2, 2, 0), v(-2, 2, 0),
	})
	require.NoError(t, err)

	t.Run("misses", func(t *testing.T) {
		s, err := geom.NewSphere(v(0, 0, 10), 1)
		require.NoError(t, err)
		_, ok, err := GetIntersectionFaceSphere(face, s, 0)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("contains whole face", func(t *testing.T) {
		s, err := geom.NewSphere(v(0, 0, 0), 10)
		require.NoError(t, err)
		res, ok, err := GetIntersectionFaceSphere(face, s, 0)
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, 10, res.Radius, 1e-12)
		assert.Len(t, res.Segments, 4)
	})

	t.Run("corner inside", func(t *testing.T) {
		// circle of radius 1 around (2,2): two edges are cut once each
		s, err := geom.NewSphere(v(2, 2, 0), 1)
		require.NoError(t, err)
		res, ok, err := GetIntersectionFaceSphere(face, s, 0)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, res.Segments, 2)
		for _, seg := range res.Segments {
			assert.InDelta(t, 1, seg[0].Distance(seg[1]), 1e-9)
		}
	})

	t.Run("chord through edge", func(t *testing.T) {
		// centred on the middle of the bottom edge, both its ends outside
		s, err := geom.NewSphere(v(0, -2, 0), 1)
		require.NoError(t, err)
		res, ok, err := GetIntersectionFaceSphere(face, s, 0)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, res.Segments, 1)
		assert.InDelta(t, 2, res.Segments[0][0].Distance(res.Segments[0][1]), 1e-9)
	})
}

func TestSegmentCirclePercents(t *testing.T) {
	c := geom.Vec2{}
	tests := []struct {
		name   string
		a, b   geom.Vec2
		t0, t1 float64
		ok     bool
	}{
		{"through", geom.Vec2{X: -2}, geom.Vec2{X: 2}, 0.25, 0.75, true},
		{"starts inside", geom.Vec2{}, geom.Vec2{X: 2}, 0, 0.5, true},
		{"fully inside", geom.Vec2{X: -0.5}, geom.Vec2{X: 0.5}, 0, 1, true},
		{"tangent", geom.Vec2{X: -2, Y: 1}, geom.Vec2{X: 2, Y: 1}, 0, 0, false},
		{"miss", geom.Vec2{X: 2}, geom.Vec2{X: 3}, 0, 0, false},
		{"degenerate", geom.Vec2{}, geom.Vec2{}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, ok := segmentCirclePercents(tt.a, tt.b, c, 1)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.t0, t0, 1e-12)
				assert.InDelta(t, tt.t1, t1, 1e-12)
			}
		})
	}
}
