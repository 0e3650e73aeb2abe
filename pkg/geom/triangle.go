package geom

import "fmt"

// TriangleView is the capability shared by the mutable Triangle and the
// immutable TriangleFixed.
type TriangleView interface {
	Points() [3]Vec3
	Point0() Vec3
	Point1() Vec3
	Point2() Vec3

	// Normal is the unnormalized (p1-p0)x(p2-p0); its length is twice the
	// triangle's area.
	Normal() Vec3
	NormalUnit() Vec3
	NormalLength() float64

	// PlaneDistance is D in NormalUnit.Dot(p) + D == 0.
	PlaneDistance() float64
	Plane() Plane

	Token() Token
}

// triangleDerived holds the quantities computed from the three points.
type triangleDerived struct {
	normal       Vec3
	normalUnit   Vec3
	normalLength float64
	planeDist    float64
}

func deriveTriangle(p [3]Vec3) triangleDerived {
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	l := n.Length()
	unit := n
	if l > 0 {
		unit = n.Scale(1 / l)
	}
	return triangleDerived{
		normal:       n,
		normalUnit:   unit,
		normalLength: l,
		planeDist:    -unit.Dot(p[0]),
	}
}

func validateTriangle(p [3]Vec3) error {
	if isNearZeroScaled(p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Length(), p[1].Sub(p[0]).Length()*p[2].Sub(p[0]).Length()) {
		return invalidf("degenerate triangle %v %v %v", p[0], p[1], p[2])
	}
	return nil
}

// ---------------------------------------------------------------------------
// TriangleFixed
// ---------------------------------------------------------------------------

// TriangleFixed computes its derived geometry once, at construction, and
// never changes. Safe for concurrent use.
type TriangleFixed struct {
	points  [3]Vec3
	derived triangleDerived
	token   Token
}

var _ TriangleView = (*TriangleFixed)(nil)

// NewTriangleFixed builds an immutable triangle. Zero-area triangles are
// rejected.
func NewTriangleFixed(tokens *TokenSource, p0, p1, p2 Vec3) (*TriangleFixed, error) {
	pts := [3]Vec3{p0, p1, p2}
	if err := validateTriangle(pts); err != nil {
		return nil, err
	}
	return &TriangleFixed{points: pts, derived: deriveTriangle(pts), token: tokens.Next()}, nil
}

func (t *TriangleFixed) Points() [3]Vec3        { return t.points }
func (t *TriangleFixed) Point0() Vec3           { return t.points[0] }
func (t *TriangleFixed) Point1() Vec3           { return t.points[1] }
func (t *TriangleFixed) Point2() Vec3           { return t.points[2] }
func (t *TriangleFixed) Normal() Vec3           { return t.derived.normal }
func (t *TriangleFixed) NormalUnit() Vec3       { return t.derived.normalUnit }
func (t *TriangleFixed) NormalLength() float64  { return t.derived.normalLength }
func (t *TriangleFixed) PlaneDistance() float64 { return t.derived.planeDist }
func (t *TriangleFixed) Token() Token           { return t.token }

func (t *TriangleFixed) Plane() Plane {
	return Plane{Normal: t.derived.normalUnit, D: t.derived.planeDist}
}

func (t *TriangleFixed) String() string {
	return fmt.Sprintf("triangle#%d(%v %v %v)", t.token, t.points[0], t.points[1], t.points[2])
}

// ---------------------------------------------------------------------------
// Triangle
// ---------------------------------------------------------------------------

// Triangle is the mutable variant: setting a point invalidates the cached
// derived geometry, which is recomputed on next use. Not safe for concurrent
// use.
type Triangle struct {
	points  [3]Vec3
	derived *triangleDerived
	token   Token
}

var _ TriangleView = (*Triangle)(nil)

// NewTriangle builds a mutable triangle. Points may later be moved into a
// degenerate configuration; the normal is then zero.
func NewTriangle(tokens *TokenSource, p0, p1, p2 Vec3) *Triangle {
	return &Triangle{points: [3]Vec3{p0, p1, p2}, token: tokens.Next()}
}

func (t *Triangle) SetPoint0(p Vec3) { t.setPoint(0, p) }
func (t *Triangle) SetPoint1(p Vec3) { t.setPoint(1, p) }
func (t *Triangle) SetPoint2(p Vec3) { t.setPoint(2, p) }

func (t *Triangle) setPoint(i int, p Vec3) {
	t.points[i] = p
	t.derived = nil
}

func (t *Triangle) cache() *triangleDerived {
	if t.derived == nil {
		d := deriveTriangle(t.points)
		t.derived = &d
	}
	return t.derived
}

func (t *Triangle) Points() [3]Vec3        { return t.points }
func (t *Triangle) Point0() Vec3           { return t.points[0] }
func (t *Triangle) Point1() Vec3           { return t.points[1] }
func (t *Triangle) Point2() Vec3           { return t.points[2] }
func (t *Triangle) Normal() Vec3           { return t.cache().normal }
func (t *Triangle) NormalUnit() Vec3       { return t.cache().normalUnit }
func (t *Triangle) NormalLength() float64  { return t.cache().normalLength }
func (t *Triangle) PlaneDistance() float64 { return t.cache().planeDist }
func (t *Triangle) Token() Token           { return t.token }

func (t *Triangle) Plane() Plane {
	d := t.cache()
	return Plane{Normal: d.normalUnit, D: d.planeDist}
}

// Freeze returns an immutable copy. Fails if the triangle is degenerate.
func (t *Triangle) Freeze(tokens *TokenSource) (*TriangleFixed, error) {
	return NewTriangleFixed(tokens, t.points[0], t.points[1], t.points[2])
}

// ---------------------------------------------------------------------------
// Barycentric coordinates
// ---------------------------------------------------------------------------

// ToBarycentric returns (u, v) with point == p0 + u*(p2-p0) + v*(p1-p0).
// Note u runs toward p2 and v toward p1; FromBarycentric uses the same axes.
func ToBarycentric(p0, p1, p2, point Vec3) (u, v float64) {
	v0 := p2.Sub(p0)
	v1 := p1.Sub(p0)
	v2 := point.Sub(p0)

	dot00 := v0.Dot(v0)
	dot01 := v0.Dot(v1)
	dot02 := v0.Dot(v2)
	dot11 := v1.Dot(v1)
	dot12 := v1.Dot(v2)

	inv := 1 / (dot00*dot11 - dot01*dot01)
	u = (dot11*dot02 - dot01*dot12) * inv
	v = (dot00*dot12 - dot01*dot02) * inv
	return u, v
}

// FromBarycentric is the inverse of ToBarycentric.
func FromBarycentric(p0, p1, p2 Vec3, u, v float64) Vec3 {
	return p0.Add(p2.Sub(p0).Scale(u)).Add(p1.Sub(p0).Scale(v))
}

// IsInsideBarycentric reports whether (u, v) lies in the triangle, edges
// included.
func IsInsideBarycentric(u, v float64) bool {
	return u >= 0 && v >= 0 && u+v <= 1
}

// isInsideBarycentricEps accepts points a hair outside due to rounding.
func isInsideBarycentricEps(u, v, eps float64) bool {
	return u >= -eps && v >= -eps && u+v <= 1+eps
}
