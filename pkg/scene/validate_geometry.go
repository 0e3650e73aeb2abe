package scene

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/geom"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// sliverRatio is the smallest area-to-longest-edge-squared ratio a triangle
// can have before it is reported as a sliver.
const sliverRatio = 1e-3

// validateGeometry checks that every shape's parameters build the geometry
// they describe. Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(s *Scene) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning
	tokens := geom.NewTokenSource()

	fail := func(name string, err error) {
		errs = append(errs, ValidationError{Shape: name, Message: err.Error(), Severity: SeverityError})
	}

	for _, name := range s.Order {
		var err error
		switch sh := s.Shapes[name].(type) {
		case PlaneShape:
			_, err = sh.Plane()
		case SphereShape:
			_, err = sh.Sphere()
		case CircleShape:
			_, err = sh.Circle()
		case CylinderShape:
			_, err = sh.Cylinder()
		case EdgeShape:
			err = sh.Check()
		case TriangleShape:
			var tri *geom.TriangleFixed
			if tri, err = sh.Triangle(tokens); err == nil && isSliver(tri) {
				warnings = append(warnings, ValidationWarning{
					Shape:   name,
					Message: fmt.Sprintf("triangle is a sliver (area %.3g)", tri.NormalLength()/2),
				})
			}
		case PolygonShape:
			if _, err = sh.Face(tokens); err == nil {
				if d := polygonFlatness(sh.Points); d > 0 {
					warnings = append(warnings, ValidationWarning{
						Shape:   name,
						Message: fmt.Sprintf("polygon is not planar (max deviation %.3g)", d),
					})
				}
			}
		case *SolidShape:
			for _, e := range validateSolidParams(sh) {
				fail(name, e)
			}
		}
		if err != nil {
			fail(name, err)
		}
	}

	return errs, warnings
}

// validateSolidParams checks primitive dimensions across a CSG tree.
func validateSolidParams(root *SolidShape) []error {
	var errs []error
	seen := make(map[*SolidShape]bool)

	var walk func(n *SolidShape)
	walk = func(n *SolidShape) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		if err := n.Check(); err != nil {
			errs = append(errs, err)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)

	return errs
}

func isSliver(t geom.TriangleView) bool {
	p := t.Points()
	longest := math.Max(p[0].DistanceSq(p[1]), math.Max(p[1].DistanceSq(p[2]), p[2].DistanceSq(p[0])))
	return t.NormalLength()/longest < sliverRatio
}

// polygonFlatness returns the largest distance of a vertex from the plane of
// the first three, or zero when that is within rounding of the polygon's size.
func polygonFlatness(points []geom.Vec3) float64 {
	plane, err := geom.NewPlaneFromPoints(points[0], points[1], points[2])
	if err != nil {
		return 0
	}
	box := geom.GetAABB(points)
	tol := 1e-9 * math.Max(1, box.Size().Length())
	worst := 0.0
	for _, p := range points[3:] {
		worst = math.Max(worst, math.Abs(plane.DistanceFromPlane(p)))
	}
	if worst <= tol {
		return 0
	}
	return worst
}
