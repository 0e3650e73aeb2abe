package scene

import (
	"fmt"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/topology"
)

// ShapeKind enumerates the kinds of shapes a scene can hold.
type ShapeKind int

const (
	KindPlane    ShapeKind = iota // infinite plane
	KindSphere                    // sphere surface
	KindCircle                    // circle in 3D
	KindCylinder                  // infinite cylinder
	KindTriangle                  // single triangle
	KindEdge                      // segment, ray or line
	KindPolygon                   // closed planar polygon
	KindSolid                     // CSG solid, tessellated on demand
)

func (k ShapeKind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindSphere:
		return "sphere"
	case KindCircle:
		return "circle"
	case KindCylinder:
		return "cylinder"
	case KindTriangle:
		return "triangle"
	case KindEdge:
		return "edge"
	case KindPolygon:
		return "polygon"
	case KindSolid:
		return "solid"
	default:
		return "unknown"
	}
}

// Shape is the interface for scene entries. Shapes hold raw parameters as
// written by the user; the typed accessors (Plane, Sphere, ...) validate them.
type Shape interface {
	Kind() ShapeKind
	shape() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Analytic shapes
// ---------------------------------------------------------------------------

// PlaneShape is a plane through Point with the given Normal.
type PlaneShape struct {
	Normal geom.Vec3 `json:"normal"`
	Point  geom.Vec3 `json:"point"`
}

func (PlaneShape) shape()          {}
func (PlaneShape) Kind() ShapeKind { return KindPlane }

func (p PlaneShape) Plane() (geom.Plane, error) { return geom.NewPlane(p.Normal, p.Point) }

// SphereShape is a sphere.
type SphereShape struct {
	Center geom.Vec3 `json:"center"`
	Radius float64   `json:"radius"`
}

func (SphereShape) shape()          {}
func (SphereShape) Kind() ShapeKind { return KindSphere }

func (s SphereShape) Sphere() (geom.Sphere, error) { return geom.NewSphere(s.Center, s.Radius) }

// CircleShape is a circle lying in the plane through Center with the given
// Normal.
type CircleShape struct {
	Normal geom.Vec3 `json:"normal"`
	Center geom.Vec3 `json:"center"`
	Radius float64   `json:"radius"`
}

func (CircleShape) shape()          {}
func (CircleShape) Kind() ShapeKind { return KindCircle }

func (c CircleShape) Circle() (geom.Circle, error) { return geom.NewCircle(c.Normal, c.Center, c.Radius) }

// CylinderShape is an infinite cylinder around an axis.
type CylinderShape struct {
	AxisOrigin geom.Vec3 `json:"axis_origin"`
	AxisDir    geom.Vec3 `json:"axis_dir"`
	Radius     float64   `json:"radius"`
}

func (CylinderShape) shape()          {}
func (CylinderShape) Kind() ShapeKind { return KindCylinder }

func (c CylinderShape) Cylinder() (geom.Cylinder, error) {
	return geom.NewCylinder(c.AxisOrigin, c.AxisDir, c.Radius)
}

// TriangleShape is a single triangle.
type TriangleShape struct {
	P0 geom.Vec3 `json:"p0"`
	P1 geom.Vec3 `json:"p1"`
	P2 geom.Vec3 `json:"p2"`
}

func (TriangleShape) shape()          {}
func (TriangleShape) Kind() ShapeKind { return KindTriangle }

func (t TriangleShape) Triangle(tokens *geom.TokenSource) (*geom.TriangleFixed, error) {
	return geom.NewTriangleFixed(tokens, t.P0, t.P1, t.P2)
}

// EdgeShape is a segment, ray or line starting at Origin. For a segment Dir
// is the end point minus the start point.
type EdgeShape struct {
	Type   geom.EdgeType `json:"-"`
	Origin geom.Vec3     `json:"origin"`
	Dir    geom.Vec3     `json:"dir"`
}

func (EdgeShape) shape()          {}
func (EdgeShape) Kind() ShapeKind { return KindEdge }

func (e EdgeShape) String() string {
	return fmt.Sprintf("%s(%v %v)", e.Type, e.Origin, e.Dir)
}

// Check reports a zero or non-finite direction.
func (e EdgeShape) Check() error {
	if e.Dir.IsNearZero() || !e.Dir.IsFinite() {
		return geom.Invalidf("%s direction must be non-zero, got %v", e.Type, e.Dir)
	}
	return nil
}

// PolygonShape is a closed planar polygon, vertices in order.
type PolygonShape struct {
	Points []geom.Vec3 `json:"points"`
}

func (PolygonShape) shape()          {}
func (PolygonShape) Kind() ShapeKind { return KindPolygon }

// Face builds a closed topology face over the polygon.
func (p PolygonShape) Face(tokens *geom.TokenSource) (*topology.Face3D, error) {
	return topology.NewClosedFaceFromPoints(tokens, p.Points)
}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

// SolidOp distinguishes the nodes of a CSG tree.
type SolidOp int

const (
	SolidBox          SolidOp = iota // Size
	SolidSphere                      // Radius
	SolidCylinder                    // Height, Radius
	SolidTranslate                   // Offset applied to Children[0]
	SolidRotate                      // Euler degrees in Offset applied to Children[0]
	SolidUnion                       // Children[0] + Children[1]
	SolidDifference                  // Children[0] - Children[1]
	SolidIntersection                // Children[0] & Children[1]
)

func (op SolidOp) String() string {
	switch op {
	case SolidBox:
		return "box"
	case SolidSphere:
		return "solid-sphere"
	case SolidCylinder:
		return "solid-cylinder"
	case SolidTranslate:
		return "translate"
	case SolidRotate:
		return "rotate"
	case SolidUnion:
		return "union"
	case SolidDifference:
		return "difference"
	case SolidIntersection:
		return "intersection"
	default:
		return fmt.Sprintf("SolidOp(%d)", int(op))
	}
}

// Arity returns how many children the op takes.
func (op SolidOp) Arity() int {
	switch op {
	case SolidBox, SolidSphere, SolidCylinder:
		return 0
	case SolidTranslate, SolidRotate:
		return 1
	default:
		return 2
	}
}

// SolidShape is a node of a CSG tree. Meshing is left to a kernel.
type SolidShape struct {
	Op       SolidOp       `json:"op"`
	Size     geom.Vec3     `json:"size,omitempty"`
	Radius   float64       `json:"radius,omitempty"`
	Height   float64       `json:"height,omitempty"`
	Offset   geom.Vec3     `json:"offset,omitempty"`
	Children []*SolidShape `json:"children,omitempty"`
}

func (*SolidShape) shape()          {}
func (*SolidShape) Kind() ShapeKind { return KindSolid }

// Check validates the node's own parameters; children are not visited.
func (s *SolidShape) Check() error {
	switch s.Op {
	case SolidBox:
		if !(s.Size.X > 0 && s.Size.Y > 0 && s.Size.Z > 0) {
			return geom.Invalidf("box dimensions must be positive, got %v", s.Size)
		}
	case SolidSphere:
		if !(s.Radius > 0) {
			return geom.Invalidf("solid-sphere radius must be positive, got %g", s.Radius)
		}
	case SolidCylinder:
		if !(s.Height > 0 && s.Radius > 0) {
			return geom.Invalidf("solid-cylinder height and radius must be positive, got %g and %g", s.Height, s.Radius)
		}
	case SolidTranslate, SolidRotate:
		if !s.Offset.IsFinite() {
			return geom.Invalidf("%s offset must be finite, got %v", s.Op, s.Offset)
		}
	}
	return nil
}

func (s *SolidShape) String() string {
	switch s.Op {
	case SolidBox:
		return fmt.Sprintf("(box %gx%gx%g)", s.Size.X, s.Size.Y, s.Size.Z)
	case SolidSphere:
		return fmt.Sprintf("(solid-sphere %g)", s.Radius)
	case SolidCylinder:
		return fmt.Sprintf("(solid-cylinder h=%g r=%g)", s.Height, s.Radius)
	case SolidTranslate, SolidRotate:
		return fmt.Sprintf("(%s %v)", s.Op, s.Offset)
	default:
		return fmt.Sprintf("(%s)", s.Op)
	}
}
