package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/scene"
	"github.com/chazu/facet/pkg/tessellate"
	"github.com/chazu/facet/pkg/topology"
)

// queryBuiltin runs one geometry query. Implementations record their result
// in the scene before returning it.
type queryBuiltin func(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error)

// queryBuiltins maps registered (underscore) names to queries.
var queryBuiltins = map[string]queryBuiltin{
	"closest_line_line":       queryClosestLineLine,
	"closest_line_segment":    queryClosestLineSegment,
	"intersect_plane_line":    queryIntersectPlaneLine,
	"intersect_plane_plane":   queryIntersectPlanePlane,
	"intersect_plane_sphere":  queryIntersectPlaneSphere,
	"closest_circle_line":     queryClosestCircleLine,
	"intersect_sphere_line":   queryIntersectSphereLine,
	"closest_sphere_line":     queryClosestSphereLine,
	"intersect_cylinder_line": queryIntersectCylinderLine,
	"closest_cylinder_line":   queryClosestCylinderLine,
	"inside_cylinder":         queryInsideCylinder,
	"intersect_triangle_line": queryIntersectTriangleLine,
	"intersect_triangles":     queryIntersectTriangles,
	"inside_polygon":          queryInsidePolygon,
	"intersect_face_sphere":   queryIntersectFaceSphere,
	"raycast":                 queryRaycast,
	"inside_hull":             queryInsideHull,
	"aabb":                    queryAABB,
	"aabb_overlap":            queryAABBOverlap,
	"aabb_sphere":             queryAABBSphere,
	"rotation":                queryRotation,
}

func registerQueries(env *zygo.Zlisp, c *evalContext) {
	for fn, q := range queryBuiltins {
		display := strings.ReplaceAll(fn, "_", "-")
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			a := parseArgs(args)
			out, err := q(c, env, a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
			}
			return out, nil
		})
	}

	// -----------------------------------------------------------------------
	// (rotate-vec q v)
	// -----------------------------------------------------------------------
	env.AddFunction("rotate_vec", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rotate-vec requires a rotation and a vector")
		}
		q, ok := args[0].(*sexpQuat)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("rotate-vec: expected rotation, got %T", args[0])
		}
		v, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate-vec: %w", err)
		}
		return &sexpVec3{vec: geom.RotateVec(q.q, v)}, nil
	})
}

// used returns the names of defined shapes among names.
func used(names ...string) []string {
	return lo.Filter(names, func(n string, _ int) bool { return n != "" })
}

// ---------------------------------------------------------------------------
// Argument shapes
// ---------------------------------------------------------------------------

// twoShapes resolves exactly two shape arguments of the given types.
func twoShapes[A, B scene.Shape](c *evalContext, a kwArgs, op string) (A, B, []string, error) {
	var (
		za A
		zb B
	)
	if len(a.positional) != 2 {
		return za, zb, nil, fmt.Errorf("%s requires 2 arguments, got %d", op, len(a.positional))
	}
	first, n1, err := shapeAs[A](c, a.positional[0])
	if err != nil {
		return za, zb, nil, fmt.Errorf("argument 1: %w", err)
	}
	second, n2, err := shapeAs[B](c, a.positional[1])
	if err != nil {
		return za, zb, nil, fmt.Errorf("argument 2: %w", err)
	}
	return first, second, used(n1, n2), nil
}

// shapeAndPoint resolves a shape followed by a vec3.
func shapeAndPoint[A scene.Shape](c *evalContext, a kwArgs, op string) (A, geom.Vec3, []string, error) {
	var za A
	if len(a.positional) != 2 {
		return za, geom.Vec3{}, nil, fmt.Errorf("%s requires a shape and a point", op)
	}
	shape, name, err := shapeAs[A](c, a.positional[0])
	if err != nil {
		return za, geom.Vec3{}, nil, err
	}
	p, err := toVec3(a.positional[1])
	if err != nil {
		return za, geom.Vec3{}, nil, err
	}
	return shape, p, used(name), nil
}

// ---------------------------------------------------------------------------
// Line/plane queries
// ---------------------------------------------------------------------------

// (closest-line-line a b): both edges are treated as infinite lines.
func queryClosestLineLine(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	l1, l2, names, err := twoShapes[scene.EdgeShape, scene.EdgeShape](c, a, "closest-line-line")
	if err != nil {
		return nil, err
	}
	rec := scene.QueryRecord{Op: "closest-line-line", Shapes: names}
	onA, onB, ok := geom.GetClosestPointsLineLine(l1.Origin, l1.Dir, l2.Origin, l2.Dir)
	if ok {
		rec.OK = true
		rec.Points = []geom.Vec3{onA, onB}
		rec.Scalars = []float64{onA.Distance(onB)}
	}
	c.scene.Record(rec)
	return pointsSexp(env, rec.Points), nil
}

// (closest-line-segment line segment)
func queryClosestLineSegment(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	line, seg, names, err := twoShapes[scene.EdgeShape, scene.EdgeShape](c, a, "closest-line-segment")
	if err != nil {
		return nil, err
	}
	if seg.Type != geom.Segment {
		return nil, fmt.Errorf("argument 2: expected segment, got %s", seg.Type)
	}
	rec := scene.QueryRecord{Op: "closest-line-segment", Shapes: names}
	onLine, onSeg, ok := geom.GetClosestPointsLineSegment(line.Origin, line.Dir, seg.Origin, seg.Origin.Add(seg.Dir))
	if ok {
		rec.OK = true
		rec.Points = []geom.Vec3{onLine, onSeg}
		rec.Scalars = []float64{onLine.Distance(onSeg)}
	}
	c.scene.Record(rec)
	return pointsSexp(env, rec.Points), nil
}

// (intersect-plane-line plane edge): the edge's type bounds the hit.
func queryIntersectPlaneLine(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	ps, e, names, err := twoShapes[scene.PlaneShape, scene.EdgeShape](c, a, "intersect-plane-line")
	if err != nil {
		return nil, err
	}
	plane, err := ps.Plane()
	if err != nil {
		return nil, err
	}
	rec := scene.QueryRecord{Op: "intersect-plane-line", Shapes: names}
	if p, ok := geom.GetIntersectionPlaneLine(plane, e.Origin, e.Dir, e.Type); ok {
		rec.OK = true
		rec.Points = []geom.Vec3{p}
	}
	c.scene.Record(rec)
	return pointsSexp(env, rec.Points), nil
}

// (intersect-plane-plane a b) returns a point on the line and its direction.
func queryIntersectPlanePlane(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	s1, s2, names, err := twoShapes[scene.PlaneShape, scene.PlaneShape](c, a, "intersect-plane-plane")
	if err != nil {
		return nil, err
	}
	p1, err := s1.Plane()
	if err != nil {
		return nil, err
	}
	p2, err := s2.Plane()
	if err != nil {
		return nil, err
	}
	rec := scene.QueryRecord{Op: "intersect-plane-plane", Shapes: names}
	if point, dir, ok := geom.GetIntersectionPlanePlane(p1, p2); ok {
		rec.OK = true
		rec.Points = []geom.Vec3{point, dir}
	}
	c.scene.Record(rec)
	return pointsSexp(env, rec.Points), nil
}

// (intersect-plane-sphere plane sphere) returns [center radius] of the circle.
func queryIntersectPlaneSphere(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	ps, ss, names, err := twoShapes[scene.PlaneShape, scene.SphereShape](c, a, "intersect-plane-sphere")
	if err != nil {
		return nil, err
	}
	plane, err := ps.Plane()
	if err != nil {
		return nil, err
	}
	sphere, err := ss.Sphere()
	if err != nil {
		return nil, err
	}
	rec := scene.QueryRecord{Op: "intersect-plane-sphere", Shapes: names}
	center, radius, ok := geom.GetIntersectionPlaneSphere(plane, sphere)
	if !ok {
		c.scene.Record(rec)
		return arraySexp(env, nil), nil
	}
	rec.OK = true
	rec.Points = []geom.Vec3{center}
	rec.Scalars = []float64{radius}
	c.scene.Record(rec)
	return arraySexp(env, []zygo.Sexp{&sexpVec3{vec: center}, floatSexp(radius)}), nil
}

// ---------------------------------------------------------------------------
// Curved surface queries
// ---------------------------------------------------------------------------

// (closest-circle-line circle edge :policy p) returns the circle points; the
// record also carries the matching line points after them.
func queryClosestCircleLine(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	cs, e, names, err := twoShapes[scene.CircleShape, scene.EdgeShape](c, a, "closest-circle-line")
	if err != nil {
		return nil, err
	}
	policy, err := policyArg(a)
	if err != nil {
		return nil, err
	}
	circle, err := cs.Circle()
	if err != nil {
		return nil, err
	}
	rec := scene.QueryRecord{Op: "closest-circle-line", Shapes: names}
	res, ok := geom.GetClosestPointsCircleLine(circle, e.Origin, e.Dir, policy)
	if ok {
		rec.OK = true
		rec.Points = append(append([]geom.Vec3(nil), res.CirclePoints...), res.LinePoints...)
	}
	c.scene.Record(rec)
	return pointsSexp(env, res.CirclePoints), nil
}

// (intersect-sphere-line sphere edge :policy p)
func queryIntersectSphereLine(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	ss, e, names, err := twoShapes[scene.SphereShape, scene.EdgeShape](c, a, "intersect-sphere-line")
	if err != nil {
		return nil, err
	}
	policy, err := policyArg(a)
	if err != nil {
		return nil, err
	}
	sphere, err := ss.Sphere()
	if err != nil {
		return nil, err
	}
	pts, ok := geom.GetIntersectionSphereLine(sphere, e.Origin, e.Dir, policy)
	c.scene.Record(scene.QueryRecord{Op: "intersect-sphere-line", Shapes: names, OK: ok, Points: pts})
	return pointsSexp(env, pts), nil
}

// (closest-sphere-line sphere edge :policy p) returns the sphere points; the
// record carries each pair and its gap.
func queryClosestSphereLine(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	ss, e, names, err := twoShapes[scene.SphereShape, scene.EdgeShape](c, a, "closest-sphere-line")
	if err != nil {
		return nil, err
	}
	policy, err := policyArg(a)
	if err != nil {
		return nil, err
	}
	sphere, err := ss.Sphere()
	if err != nil {
		return nil, err
	}
	pairs, ok := geom.GetClosestPointsSphereLine(sphere, e.Origin, e.Dir, policy)
	return recordPairs(c, env, "closest-sphere-line", names, pairs, ok), nil
}

// (intersect-cylinder-line cylinder edge :policy p)
func queryIntersectCylinderLine(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	cs, e, names, err := twoShapes[scene.CylinderShape, scene.EdgeShape](c, a, "intersect-cylinder-line")
	if err != nil {
		return nil, err
	}
	policy, err := policyArg(a)
	if err != nil {
		return nil, err
	}
	cyl, err := cs.Cylinder()
	if err != nil {
		return nil, err
	}
	pts, ok := geom.GetIntersectionCylinderLine(cyl, e.Origin, e.Dir, policy)
	c.scene.Record(scene.QueryRecord{Op: "intersect-cylinder-line", Shapes: names, OK: ok, Points: pts})
	return pointsSexp(env, pts), nil
}

// (closest-cylinder-line cylinder edge :policy p)
func queryClosestCylinderLine(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	cs, e, names, err := twoShapes[scene.CylinderShape, scene.EdgeShape](c, a, "closest-cylinder-line")
	if err != nil {
		return nil, err
	}
	policy, err := policyArg(a)
	if err != nil {
		return nil, err
	}
	cyl, err := cs.Cylinder()
	if err != nil {
		return nil, err
	}
	pairs, ok := geom.GetClosestPointsCylinderLine(cyl, e.Origin, e.Dir, policy)
	return recordPairs(c, env, "closest-cylinder-line", names, pairs, ok), nil
}

func recordPairs(c *evalContext, env *zygo.Zlisp, op string, names []string, pairs []geom.PointPair, ok bool) zygo.Sexp {
	rec := scene.QueryRecord{Op: op, Shapes: names, OK: ok}
	for _, p := range pairs {
		rec.Points = append(rec.Points, p.Shape, p.Line)
		rec.Scalars = append(rec.Scalars, p.Gap())
	}
	c.scene.Record(rec)
	return pointsSexp(env, lo.Map(pairs, func(p geom.PointPair, _ int) geom.Vec3 { return p.Shape }))
}

// (inside-cylinder cylinder point)
func queryInsideCylinder(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	cs, p, names, err := shapeAndPoint[scene.CylinderShape](c, a, "inside-cylinder")
	if err != nil {
		return nil, err
	}
	cyl, err := cs.Cylinder()
	if err != nil {
		return nil, err
	}
	inside := geom.IsInsideCylinder(cyl, p)
	c.scene.Record(scene.QueryRecord{Op: "inside-cylinder", Shapes: names, OK: inside, Points: []geom.Vec3{p}})
	return boolSexp(inside), nil
}

// ---------------------------------------------------------------------------
// Triangle and polygon queries
// ---------------------------------------------------------------------------

// (intersect-triangle-line triangle edge)
func queryIntersectTriangleLine(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	ts, e, names, err := twoShapes[scene.TriangleShape, scene.EdgeShape](c, a, "intersect-triangle-line")
	if err != nil {
		return nil, err
	}
	tri, err := ts.Triangle(c.tokens)
	if err != nil {
		return nil, err
	}
	rec := scene.QueryRecord{Op: "intersect-triangle-line", Shapes: names}
	if p, ok := geom.GetIntersectionTriangleLine(tri, e.Origin, e.Dir, e.Type); ok {
		rec.OK = true
		rec.Points = []geom.Vec3{p}
	}
	c.scene.Record(rec)
	return pointsSexp(env, rec.Points), nil
}

// (intersect-triangles a b) returns the ends of the intersection segment.
func queryIntersectTriangles(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	s1, s2, names, err := twoShapes[scene.TriangleShape, scene.TriangleShape](c, a, "intersect-triangles")
	if err != nil {
		return nil, err
	}
	t1, err := s1.Triangle(c.tokens)
	if err != nil {
		return nil, err
	}
	t2, err := s2.Triangle(c.tokens)
	if err != nil {
		return nil, err
	}
	rec := scene.QueryRecord{Op: "intersect-triangles", Shapes: names}
	if seg, ok := geom.GetIntersectionTriangleTriangle(t1, t2); ok {
		rec.OK = true
		rec.Points = seg[:]
	}
	c.scene.Record(rec)
	return pointsSexp(env, rec.Points), nil
}

// (inside-polygon polygon point)
func queryInsidePolygon(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	poly, p, names, err := shapeAndPoint[scene.PolygonShape](c, a, "inside-polygon")
	if err != nil {
		return nil, err
	}
	inside := geom.IsInsidePolygon3D(p, poly.Points)
	c.scene.Record(scene.QueryRecord{Op: "inside-polygon", Shapes: names, OK: inside, Points: []geom.Vec3{p}})
	return boolSexp(inside), nil
}

// (intersect-face-sphere polygon sphere) returns the clipped arc chords as a
// flat list of segment end points.
func queryIntersectFaceSphere(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	poly, ss, names, err := twoShapes[scene.PolygonShape, scene.SphereShape](c, a, "intersect-face-sphere")
	if err != nil {
		return nil, err
	}
	face, err := poly.Face(c.tokens)
	if err != nil {
		return nil, err
	}
	sphere, err := ss.Sphere()
	if err != nil {
		return nil, err
	}
	res, ok, err := topology.GetIntersectionFaceSphere(face, sphere, 1)
	if err != nil {
		return nil, err
	}
	rec := scene.QueryRecord{Op: "intersect-face-sphere", Shapes: names, OK: ok}
	if ok {
		for _, seg := range res.Segments {
			rec.Points = append(rec.Points, seg[0], seg[1])
		}
		rec.Scalars = []float64{res.Radius}
	}
	c.scene.Record(rec)
	return pointsSexp(env, rec.Points), nil
}

// ---------------------------------------------------------------------------
// Solid queries
// ---------------------------------------------------------------------------

// (raycast solid ray) returns the hit points ordered by distance.
func queryRaycast(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	solid, e, names, err := twoShapes[*scene.SolidShape, scene.EdgeShape](c, a, "raycast")
	if err != nil {
		return nil, err
	}
	h, err := c.hull(firstName(names), solid)
	if err != nil {
		return nil, err
	}
	hits := geom.GetIntersectionsHullRay(h.Triangles, e.Origin, e.Dir, c.opts)
	rec := scene.QueryRecord{Op: "raycast", Shapes: names, OK: len(hits) > 0}
	for _, hit := range hits {
		rec.Points = append(rec.Points, hit.Point)
		rec.Scalars = append(rec.Scalars, hit.Distance)
	}
	c.scene.Record(rec)
	return pointsSexp(env, rec.Points), nil
}

// (inside-hull solid point :convex true)
func queryInsideHull(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	solid, p, names, err := shapeAndPoint[*scene.SolidShape](c, a, "inside-hull")
	if err != nil {
		return nil, err
	}
	h, err := c.hull(firstName(names), solid)
	if err != nil {
		return nil, err
	}
	var inside bool
	if v, ok := a.kw["convex"]; ok && toBool(v) {
		inside = geom.IsInsideConvexHull(h.Triangles, p)
	} else {
		inside = geom.IsInsideConcaveHull(h.Triangles, p, c.opts)
	}
	c.scene.Record(scene.QueryRecord{Op: "inside-hull", Shapes: names, OK: inside, Points: []geom.Vec3{p}})
	return boolSexp(inside), nil
}

func firstName(names []string) string {
	if len(names) == 0 {
		return "anonymous"
	}
	return names[0]
}

// solidBounds returns the kernel's bounding box of a CSG tree.
func (c *evalContext) solidBounds(s *scene.SolidShape) (geom.AABB, error) {
	solid, err := tessellate.Build(c.kernel, s)
	if err != nil {
		return geom.AABB{}, err
	}
	return solid.BoundingBox(), nil
}

// (aabb solid) returns [min max].
func queryAABB(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	if err := a.need("aabb", 1); err != nil {
		return nil, err
	}
	solid, name, err := shapeAs[*scene.SolidShape](c, a.positional[0])
	if err != nil {
		return nil, err
	}
	box, err := c.solidBounds(solid)
	if err != nil {
		return nil, err
	}
	rec := scene.QueryRecord{Op: "aabb", Shapes: used(name), OK: true, Points: []geom.Vec3{box.Min, box.Max}}
	c.scene.Record(rec)
	return pointsSexp(env, rec.Points), nil
}

// (aabb-overlap a b)
func queryAABBOverlap(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	s1, s2, names, err := twoShapes[*scene.SolidShape, *scene.SolidShape](c, a, "aabb-overlap")
	if err != nil {
		return nil, err
	}
	b1, err := c.solidBounds(s1)
	if err != nil {
		return nil, err
	}
	b2, err := c.solidBounds(s2)
	if err != nil {
		return nil, err
	}
	hit := geom.IsIntersectingAABBAABB(b1, b2)
	c.scene.Record(scene.QueryRecord{Op: "aabb-overlap", Shapes: names, OK: hit})
	return boolSexp(hit), nil
}

// (aabb-sphere solid sphere)
func queryAABBSphere(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	solid, ss, names, err := twoShapes[*scene.SolidShape, scene.SphereShape](c, a, "aabb-sphere")
	if err != nil {
		return nil, err
	}
	box, err := c.solidBounds(solid)
	if err != nil {
		return nil, err
	}
	hit := geom.IsIntersectingAABBSphere(box, ss.Center, ss.Radius)
	c.scene.Record(scene.QueryRecord{Op: "aabb-sphere", Shapes: names, OK: hit})
	return boolSexp(hit), nil
}

// ---------------------------------------------------------------------------
// Rotation
// ---------------------------------------------------------------------------

// (rotation from1 from2 to1 to2) returns the rotation taking the first pair
// of directions onto the second. Exhausted retries are recorded, not raised.
func queryRotation(c *evalContext, env *zygo.Zlisp, a kwArgs) (zygo.Sexp, error) {
	if err := a.need("rotation", 4); err != nil {
		return nil, err
	}
	v, err := vecArgs(a, 4)
	if err != nil {
		return nil, err
	}

	q, err := geom.GetRotation(v[0], v[1], v[2], v[3], c.opts)
	if errors.Is(err, geom.ErrRetriesExhausted) {
		c.scene.Record(scene.QueryRecord{Op: "rotation", Err: err.Error()})
		return zygo.SexpNull, nil
	}
	if err != nil {
		return nil, err
	}

	c.scene.Record(scene.QueryRecord{
		Op:      "rotation",
		OK:      true,
		Points:  []geom.Vec3{geom.RotateVec(q, v[0]), geom.RotateVec(q, v[1])},
		Scalars: []float64{q.W, q.V[0], q.V[1], q.V[2]},
	})
	return &sexpQuat{q: q}, nil
}
