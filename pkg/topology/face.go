package topology

import (
	"fmt"

	"github.com/chazu/facet/pkg/geom"
)

// Face3D is an ordered list of coplanar edges: either closed (every edge is a
// segment and the last wraps to the first) or open (the first and last edges
// are rays, the rest are segments, bounding an unbounded wedge).
type Face3D struct {
	edges  []*Edge3D
	closed bool
	plane  geom.Plane
	token  geom.Token
}

// NewFace validates the edge layout and derives the supporting plane from the
// shared point of the first two edges.
func NewFace(tokens *geom.TokenSource, edges []*Edge3D) (*Face3D, error) {
	if len(edges) < 2 {
		return nil, geom.Invalidf("face needs at least 2 edges, got %d", len(edges))
	}
	for i, e := range edges[1:] {
		if !samePoints(e.points, edges[0].points) {
			return nil, geom.Invalidf("edge %d uses a different point buffer; dedupe first", i+1)
		}
	}

	closed := true
	for _, e := range edges {
		if !e.IsSegment() {
			closed = false
			break
		}
	}
	if closed && len(edges) < 3 {
		return nil, geom.Invalidf("closed face needs at least 3 segments, got %d", len(edges))
	}
	if !closed {
		last := len(edges) - 1
		if edges[0].Kind() != geom.Ray || edges[last].Kind() != geom.Ray {
			return nil, geom.Invalidf("open face must start and end with rays")
		}
		for i, e := range edges[1:last] {
			if !e.IsSegment() {
				return nil, geom.Invalidf("open face edge %d must be a segment, got %s", i+1, e.Kind())
			}
		}
	}

	plane, err := facePlane(edges[0], edges[1])
	if err != nil {
		return nil, err
	}
	return &Face3D{edges: edges, closed: closed, plane: plane, token: tokens.Next()}, nil
}

func facePlane(a, b *Edge3D) (geom.Plane, error) {
	common, ok := GetCommonIndex(a, b)
	if !ok {
		return geom.Plane{}, geom.Invalidf("first two edges %v and %v share no point", a, b)
	}
	corner := a.points[common]
	return geom.NewPlaneFromPoints(corner, farEnd(a, common), farEnd(b, common))
}

// farEnd returns a point of e other than points[common].
func farEnd(e *Edge3D, common int) geom.Vec3 {
	if e.IsSegment() {
		if e.index0 == common {
			return e.points[e.index1]
		}
		return e.points[e.index0]
	}
	return e.Point0().Add(e.dir)
}

func (f *Face3D) String() string {
	kind := "open"
	if f.closed {
		kind = "closed"
	}
	return fmt.Sprintf("face#%d(%s, %d edges)", f.token, kind, len(f.edges))
}

func (f *Face3D) Edges() []*Edge3D     { return f.edges }
func (f *Face3D) IsClosed() bool       { return f.closed }
func (f *Face3D) GetPlane() geom.Plane { return f.plane }
func (f *Face3D) Token() geom.Token    { return f.token }

// GetPolygon returns the face's corner points in order. A closed face walks
// the shared index of each consecutive edge pair, wrapping from the last edge
// to the first. An open face adds a synthetic far point rayLength along each
// bounding ray.
//
// Panics with a *geom.Fault if consecutive edges share no point.
func (f *Face3D) GetPolygon(rayLength float64) ([]geom.Vec3, error) {
	points := f.edges[0].points
	n := len(f.edges)

	if f.closed {
		poly := make([]geom.Vec3, 0, n)
		for i := 0; i < n; i++ {
			poly = append(poly, points[mustCommon(f.edges[i], f.edges[(i+1)%n])])
		}
		return poly, nil
	}

	if !(rayLength > 0) {
		return nil, geom.Invalidf("ray length must be positive, got %g", rayLength)
	}
	poly := make([]geom.Vec3, 0, n+1)
	poly = append(poly, f.edges[0].Point1Ext(rayLength))
	for i := 0; i < n-1; i++ {
		poly = append(poly, points[mustCommon(f.edges[i], f.edges[i+1])])
	}
	poly = append(poly, f.edges[n-1].Point1Ext(rayLength))
	return poly, nil
}

func mustCommon(a, b *Edge3D) int {
	i, ok := GetCommonIndex(a, b)
	if !ok {
		geom.Panicf("GetPolygon", "edges %v and %v share no point", a, b)
	}
	return i
}

// ContainsPoint reports whether p, projected onto the face's plane, lies
// inside the face's polygon. Open faces are closed off at rayLength.
func (f *Face3D) ContainsPoint(p geom.Vec3, rayLength float64) (bool, error) {
	poly, err := f.GetPolygon(rayLength)
	if err != nil {
		return false, err
	}
	basis := geom.NewPlaneBasis(f.plane, poly[0])
	flat := make([]geom.Vec2, len(poly))
	for i, q := range poly {
		flat[i] = basis.To2D(q)
	}
	return geom.IsInsidePolygon2D(basis.To2D(p), flat), nil
}

// NewClosedFaceFromPoints builds a closed face over the polygon points, in
// order. The returned face owns a copy of the points.
func NewClosedFaceFromPoints(tokens *geom.TokenSource, polygon []geom.Vec3) (*Face3D, error) {
	if len(polygon) < 3 {
		return nil, geom.Invalidf("polygon needs at least 3 points, got %d", len(polygon))
	}
	points := append([]geom.Vec3(nil), polygon...)
	edges := make([]*Edge3D, len(points))
	for i := range points {
		e, err := NewSegment(tokens, i, (i+1)%len(points), points)
		if err != nil {
			return nil, err
		}
		edges[i] = e
	}
	return NewFace(tokens, edges)
}
