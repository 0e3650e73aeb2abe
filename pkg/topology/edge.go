package topology

import (
	"fmt"

	"github.com/chazu/facet/pkg/geom"
)

// Edge3D is a segment, ray or line whose points live in a shared buffer.
// A segment references two indices; a ray or line references one index plus a
// direction. The kind never changes after construction.
type Edge3D struct {
	kind   geom.EdgeType
	index0 int
	index1 int
	dir    geom.Vec3
	points []geom.Vec3
	token  geom.Token
}

// NewSegment builds a segment between points[index0] and points[index1].
func NewSegment(tokens *geom.TokenSource, index0, index1 int, points []geom.Vec3) (*Edge3D, error) {
	if err := checkIndex(index0, points); err != nil {
		return nil, err
	}
	if err := checkIndex(index1, points); err != nil {
		return nil, err
	}
	if index0 == index1 {
		return nil, geom.Invalidf("segment endpoints must differ, both are %d", index0)
	}
	return &Edge3D{
		kind:   geom.Segment,
		index0: index0,
		index1: index1,
		points: points,
		token:  tokens.Next(),
	}, nil
}

// NewRay builds a ray from points[index0] along dir.
func NewRay(tokens *geom.TokenSource, index0 int, dir geom.Vec3, points []geom.Vec3) (*Edge3D, error) {
	return newDirected(tokens, geom.Ray, index0, dir, points)
}

// NewLine builds an infinite line through points[index0] along dir.
func NewLine(tokens *geom.TokenSource, index0 int, dir geom.Vec3, points []geom.Vec3) (*Edge3D, error) {
	return newDirected(tokens, geom.Line, index0, dir, points)
}

func newDirected(tokens *geom.TokenSource, kind geom.EdgeType, index0 int, dir geom.Vec3, points []geom.Vec3) (*Edge3D, error) {
	if err := checkIndex(index0, points); err != nil {
		return nil, err
	}
	if dir.IsNearZero() || !dir.IsFinite() {
		return nil, geom.Invalidf("%s direction must be non-zero, got %v", kind, dir)
	}
	return &Edge3D{
		kind:   kind,
		index0: index0,
		index1: -1,
		dir:    dir,
		points: points,
		token:  tokens.Next(),
	}, nil
}

func checkIndex(i int, points []geom.Vec3) error {
	if i < 0 || i >= len(points) {
		return geom.Invalidf("point index %d out of range [0,%d)", i, len(points))
	}
	return nil
}

func (e *Edge3D) String() string {
	if e.IsSegment() {
		return fmt.Sprintf("segment#%d(%d-%d)", e.token, e.index0, e.index1)
	}
	return fmt.Sprintf("%s#%d(%d %v)", e.kind, e.token, e.index0, e.dir)
}

func (e *Edge3D) Kind() geom.EdgeType { return e.kind }
func (e *Edge3D) IsSegment() bool     { return e.kind == geom.Segment }
func (e *Edge3D) Token() geom.Token   { return e.token }
func (e *Edge3D) Index0() int         { return e.index0 }
func (e *Edge3D) Point0() geom.Vec3   { return e.points[e.index0] }

// AllPoints is the shared point buffer the indices refer to.
func (e *Edge3D) AllPoints() []geom.Vec3 { return e.points }

// Index1 returns the second index of a segment.
func (e *Edge3D) Index1() (int, bool) {
	if !e.IsSegment() {
		return -1, false
	}
	return e.index1, true
}

// Point1 returns the second point of a segment.
func (e *Edge3D) Point1() (geom.Vec3, bool) {
	if !e.IsSegment() {
		return geom.Zero, false
	}
	return e.points[e.index1], true
}

// Direction is Point1-Point0 for a segment and the stored direction
// otherwise.
func (e *Edge3D) Direction() geom.Vec3 {
	if e.IsSegment() {
		return e.points[e.index1].Sub(e.points[e.index0])
	}
	return e.dir
}

// Point1Ext returns Point1 for a segment, or the point rayLength along the
// normalized direction for a ray or line.
func (e *Edge3D) Point1Ext(rayLength float64) geom.Vec3 {
	if e.IsSegment() {
		return e.points[e.index1]
	}
	return e.Point0().Add(e.dir.Normalize().Scale(rayLength))
}

// indices returns the point indices the edge references.
func (e *Edge3D) indices() []int {
	if e.IsSegment() {
		return []int{e.index0, e.index1}
	}
	return []int{e.index0}
}

// GetCommonIndex returns the point index a and b share. Only meaningful when
// both edges use the same point buffer.
func GetCommonIndex(a, b *Edge3D) (int, bool) {
	for _, i := range a.indices() {
		for _, j := range b.indices() {
			if i == j {
				return i, true
			}
		}
	}
	return -1, false
}

// IsTouching reports whether a and b share a point index.
func IsTouching(a, b *Edge3D) bool {
	_, ok := GetCommonIndex(a, b)
	return ok
}

// samePoints reports whether two slices are the same buffer.
func samePoints(a, b []geom.Vec3) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
