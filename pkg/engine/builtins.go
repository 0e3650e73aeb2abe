package engine

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/scene"
	"github.com/chazu/facet/pkg/tessellate"
	"github.com/chazu/facet/pkg/topology"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites facet source before passing it to zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//
//  2. Kebab-case to underscore: intersect-plane-line -> intersect_plane_line
//     zygomys reads a hyphen inside an identifier as subtraction.
//
//  3. ; line comments become // comments.
//
// String literals are left untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a scene shape. name is set once the shape is defined.
type sexpShape struct {
	shape scene.Shape
	name  string
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(shape %q)", s.name)
	}
	return fmt.Sprintf("(%s)", s.shape.Kind())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpQuat wraps a rotation so it can be applied with rotate-vec.
type sexpQuat struct {
	q mgl64.Quat
}

func (q *sexpQuat) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(quat %g %g %g %g)", q.q.W, q.q.V[0], q.q.V[1], q.q.V[2])
}
func (q *sexpQuat) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword acts as a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// need checks the positional argument count.
func (a kwArgs) need(op string, n int) error {
	if len(a.positional) != n {
		return fmt.Errorf("%s requires %d arguments, got %d", op, n, len(a.positional))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_all) and plain strings ("all").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toBool treats nil, false and the empty list as false.
func toBool(s zygo.Sexp) bool {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val
	case *zygo.SexpSentinel:
		return v != zygo.SexpNull
	}
	return true
}

// toVec3 extracts a Vec3 from a sexpVec3 or a three-number list or array.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 3 {
		return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
	}
	var xyz [3]float64
	for i, item := range items {
		if xyz[i], err = toFloat64(item); err != nil {
			return geom.Vec3{}, fmt.Errorf("vec3 component %d: %w", i, err)
		}
	}
	return geom.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// toVec3s extracts points either from a single list argument or from every
// argument in turn.
func toVec3s(args []zygo.Sexp) ([]geom.Vec3, error) {
	if len(args) == 1 {
		if _, single := args[0].(*sexpVec3); !single {
			items, err := sexpListToSlice(args[0])
			if err != nil {
				return nil, err
			}
			args = items
		}
	}
	out := make([]geom.Vec3, len(args))
	for i, a := range args {
		v, err := toVec3(a)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// toPolicy converts a keyword to a selection policy.
func toPolicy(s zygo.Sexp) (geom.SelectionPolicy, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return nil, fmt.Errorf("expected policy keyword: %w", err)
	}
	switch name {
	case "all":
		return geom.AllPoints, nil
	case "closest-to-ray":
		return geom.ClosestToRay, nil
	case "closest-to-origin":
		return geom.ClosestToRayOrigin, nil
	case "along-ray":
		return geom.AlongRayDirection, nil
	}
	return nil, fmt.Errorf("invalid policy %q, expected all, closest-to-ray, closest-to-origin or along-ray", name)
}

// policyArg reads the optional :policy keyword, defaulting to all points.
func policyArg(a kwArgs) (geom.SelectionPolicy, error) {
	v, ok := a.kw["policy"]
	if !ok {
		return geom.AllPoints, nil
	}
	return toPolicy(v)
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Result conversion
// ---------------------------------------------------------------------------

func floatSexp(f float64) zygo.Sexp { return &zygo.SexpFloat{Val: f} }
func boolSexp(b bool) zygo.Sexp     { return &zygo.SexpBool{Val: b} }

func arraySexp(env *zygo.Zlisp, items []zygo.Sexp) zygo.Sexp {
	return &zygo.SexpArray{Val: items, Env: env}
}

// pointsSexp returns points as an array of vec3. No answer is the empty array.
func pointsSexp(env *zygo.Zlisp, pts []geom.Vec3) zygo.Sexp {
	return arraySexp(env, lo.Map(pts, func(p geom.Vec3, _ int) zygo.Sexp { return &sexpVec3{vec: p} }))
}

// ---------------------------------------------------------------------------
// Evaluation context
// ---------------------------------------------------------------------------

// evalContext is the state shared by the builtins of one evaluation.
type evalContext struct {
	scene  *scene.Scene
	kernel kernel.Kernel
	opts   geom.Options
	dedupe float64
	tokens *geom.TokenSource
	hulls  map[*scene.SolidShape]*tessellate.Hull
}

func newEvalContext(s *scene.Scene, k kernel.Kernel, opts geom.Options, dedupe float64) *evalContext {
	return &evalContext{
		scene:  s,
		kernel: k,
		opts:   opts,
		dedupe: dedupe,
		tokens: geom.NewTokenSource(),
		hulls:  make(map[*scene.SolidShape]*tessellate.Hull),
	}
}

// toShape resolves a shape value or the name of a defined shape.
func (c *evalContext) toShape(s zygo.Sexp) (scene.Shape, string, error) {
	switch v := s.(type) {
	case *sexpShape:
		return v.shape, v.name, nil
	case *zygo.SexpStr:
		shape := c.scene.Lookup(v.S)
		if shape == nil {
			return nil, "", fmt.Errorf("no shape named %q", v.S)
		}
		return shape, v.S, nil
	}
	return nil, "", fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// shapeAs resolves a shape argument and checks its concrete type.
func shapeAs[T scene.Shape](c *evalContext, s zygo.Sexp) (T, string, error) {
	var zero T
	shape, name, err := c.toShape(s)
	if err != nil {
		return zero, "", err
	}
	typed, ok := shape.(T)
	if !ok {
		return zero, "", fmt.Errorf("expected %s, got %s", zero.Kind(), shape.Kind())
	}
	return typed, name, nil
}

// hull meshes a solid once per evaluation.
func (c *evalContext) hull(name string, s *scene.SolidShape) (*tessellate.Hull, error) {
	if h, ok := c.hulls[s]; ok {
		return h, nil
	}
	h, err := tessellate.Solid(c.kernel, name, s, c.tokens)
	if err != nil {
		return nil, err
	}
	c.hulls[s] = h
	return h, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// shapeBuiltin is the signature shared by the shape constructors.
type shapeBuiltin func(c *evalContext, a kwArgs) (scene.Shape, error)

// registerBuiltins installs the facet constructors and queries into a
// zygomys environment. They populate c.scene during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the registered underscore forms.
func registerBuiltins(env *zygo.Zlisp, c *evalContext) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		v, err := toVec3(arraySexp(env, args))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{vec: v}, nil
	})

	constructors := map[string]shapeBuiltin{
		"plane":          buildPlane,
		"sphere":         buildSphere,
		"circle":         buildCircle,
		"cylinder":       buildCylinder,
		"triangle":       buildTriangle,
		"ray":            buildEdge(geom.Ray),
		"line":           buildEdge(geom.Line),
		"segment":        buildSegment,
		"polygon":        buildPolygon,
		"box":            buildBox,
		"solid_sphere":   buildSolidSphere,
		"solid_cylinder": buildSolidCylinder,
		"translate":      buildTransform(scene.SolidTranslate),
		"rotate":         buildTransform(scene.SolidRotate),
		"union":          buildBoolean(scene.SolidUnion),
		"difference":     buildBoolean(scene.SolidDifference),
		"intersection":   buildBoolean(scene.SolidIntersection),
	}
	for fn, build := range constructors {
		display := strings.ReplaceAll(fn, "_", "-")
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			shape, err := build(c, parseArgs(args))
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
			}
			return &sexpShape{shape: shape}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (define "name" (sphere ...))
	// -----------------------------------------------------------------------
	env.AddFunction("define", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("define requires a name and a shape expression")
		}
		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("define: name: %w", err)
		}
		body, ok := args[1].(*sexpShape)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("define: expected shape expression, got %T", args[1])
		}
		if err := c.scene.Define(shapeName, body.shape); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: body.shape, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (shape "name")
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}
		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}
		shape := c.scene.Lookup(shapeName)
		if shape == nil {
			return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
		}
		return &sexpShape{shape: shape, name: shapeName}, nil
	})

	registerQueries(env, c)
}

// ---------------------------------------------------------------------------
// Shape constructors
// ---------------------------------------------------------------------------

// vecArgs reads n vec3 positionals.
func vecArgs(a kwArgs, n int) ([]geom.Vec3, error) {
	if len(a.positional) < n {
		return nil, fmt.Errorf("requires %d vector arguments, got %d", n, len(a.positional))
	}
	out := make([]geom.Vec3, n)
	for i := range out {
		v, err := toVec3(a.positional[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// floatArg reads positional i as a number.
func floatArg(a kwArgs, i int) (float64, error) {
	if i >= len(a.positional) {
		return 0, fmt.Errorf("missing argument %d", i+1)
	}
	f, err := toFloat64(a.positional[i])
	if err != nil {
		return 0, fmt.Errorf("argument %d: %w", i+1, err)
	}
	return f, nil
}

// (plane normal point)
func buildPlane(c *evalContext, a kwArgs) (scene.Shape, error) {
	if err := a.need("plane", 2); err != nil {
		return nil, err
	}
	v, err := vecArgs(a, 2)
	if err != nil {
		return nil, err
	}
	p := scene.PlaneShape{Normal: v[0], Point: v[1]}
	_, err = p.Plane()
	return p, err
}

// (sphere center radius)
func buildSphere(c *evalContext, a kwArgs) (scene.Shape, error) {
	if err := a.need("sphere", 2); err != nil {
		return nil, err
	}
	v, err := vecArgs(a, 1)
	if err != nil {
		return nil, err
	}
	r, err := floatArg(a, 1)
	if err != nil {
		return nil, err
	}
	s := scene.SphereShape{Center: v[0], Radius: r}
	_, err = s.Sphere()
	return s, err
}

// (circle normal center radius)
func buildCircle(c *evalContext, a kwArgs) (scene.Shape, error) {
	if err := a.need("circle", 3); err != nil {
		return nil, err
	}
	v, err := vecArgs(a, 2)
	if err != nil {
		return nil, err
	}
	r, err := floatArg(a, 2)
	if err != nil {
		return nil, err
	}
	s := scene.CircleShape{Normal: v[0], Center: v[1], Radius: r}
	_, err = s.Circle()
	return s, err
}

// (cylinder axis-origin axis-dir radius)
func buildCylinder(c *evalContext, a kwArgs) (scene.Shape, error) {
	if err := a.need("cylinder", 3); err != nil {
		return nil, err
	}
	v, err := vecArgs(a, 2)
	if err != nil {
		return nil, err
	}
	r, err := floatArg(a, 2)
	if err != nil {
		return nil, err
	}
	s := scene.CylinderShape{AxisOrigin: v[0], AxisDir: v[1], Radius: r}
	_, err = s.Cylinder()
	return s, err
}

// (triangle p0 p1 p2)
func buildTriangle(c *evalContext, a kwArgs) (scene.Shape, error) {
	if err := a.need("triangle", 3); err != nil {
		return nil, err
	}
	v, err := vecArgs(a, 3)
	if err != nil {
		return nil, err
	}
	s := scene.TriangleShape{P0: v[0], P1: v[1], P2: v[2]}
	_, err = s.Triangle(c.tokens)
	return s, err
}

// (ray origin dir), (line origin dir)
func buildEdge(et geom.EdgeType) shapeBuiltin {
	return func(c *evalContext, a kwArgs) (scene.Shape, error) {
		if err := a.need(et.String(), 2); err != nil {
			return nil, err
		}
		v, err := vecArgs(a, 2)
		if err != nil {
			return nil, err
		}
		e := scene.EdgeShape{Type: et, Origin: v[0], Dir: v[1]}
		return e, e.Check()
	}
}

// (segment start end)
func buildSegment(c *evalContext, a kwArgs) (scene.Shape, error) {
	if err := a.need("segment", 2); err != nil {
		return nil, err
	}
	v, err := vecArgs(a, 2)
	if err != nil {
		return nil, err
	}
	e := scene.EdgeShape{Type: geom.Segment, Origin: v[0], Dir: v[1].Sub(v[0])}
	return e, e.Check()
}

// (polygon p0 p1 p2 ...) or (polygon (list p0 p1 p2 ...))
//
// Vertices closer than the engine's dedupe epsilon are merged; a polygon
// whose consecutive vertices merge is rejected.
func buildPolygon(c *evalContext, a kwArgs) (scene.Shape, error) {
	points, err := toVec3s(a.positional)
	if err != nil {
		return nil, err
	}
	if len(points) < 3 {
		return nil, geom.Invalidf("polygon needs at least 3 points, got %d", len(points))
	}

	edges := make([]*topology.Edge3D, len(points))
	for i := range points {
		if edges[i], err = topology.NewSegment(c.tokens, i, (i+1)%len(points), points); err != nil {
			return nil, err
		}
	}
	sets, _, err := topology.CloneDedupePoints(c.tokens, c.dedupe, edges)
	if err != nil {
		return nil, err
	}

	p := scene.PolygonShape{Points: lo.Map(sets[0], func(e *topology.Edge3D, _ int) geom.Vec3 { return e.Point0() })}
	_, err = p.Face(c.tokens)
	return p, err
}

// (box x y z)
func buildBox(c *evalContext, a kwArgs) (scene.Shape, error) {
	if err := a.need("box", 3); err != nil {
		return nil, err
	}
	var size [3]float64
	for i := range size {
		f, err := floatArg(a, i)
		if err != nil {
			return nil, err
		}
		size[i] = f
	}
	s := &scene.SolidShape{Op: scene.SolidBox, Size: geom.Vec3{X: size[0], Y: size[1], Z: size[2]}}
	return s, s.Check()
}

// (solid-sphere radius)
func buildSolidSphere(c *evalContext, a kwArgs) (scene.Shape, error) {
	if err := a.need("solid-sphere", 1); err != nil {
		return nil, err
	}
	r, err := floatArg(a, 0)
	if err != nil {
		return nil, err
	}
	s := &scene.SolidShape{Op: scene.SolidSphere, Radius: r}
	return s, s.Check()
}

// (solid-cylinder height radius)
func buildSolidCylinder(c *evalContext, a kwArgs) (scene.Shape, error) {
	if err := a.need("solid-cylinder", 2); err != nil {
		return nil, err
	}
	h, err := floatArg(a, 0)
	if err != nil {
		return nil, err
	}
	r, err := floatArg(a, 1)
	if err != nil {
		return nil, err
	}
	s := &scene.SolidShape{Op: scene.SolidCylinder, Height: h, Radius: r}
	return s, s.Check()
}

// (translate solid (vec3 x y z)), (rotate solid (vec3 rx ry rz))
func buildTransform(op scene.SolidOp) shapeBuiltin {
	return func(c *evalContext, a kwArgs) (scene.Shape, error) {
		if err := a.need(op.String(), 2); err != nil {
			return nil, err
		}
		child, _, err := shapeAs[*scene.SolidShape](c, a.positional[0])
		if err != nil {
			return nil, err
		}
		offset, err := toVec3(a.positional[1])
		if err != nil {
			return nil, err
		}
		s := &scene.SolidShape{Op: op, Offset: offset, Children: []*scene.SolidShape{child}}
		return s, s.Check()
	}
}

// (union a b), (difference a b), (intersection a b)
func buildBoolean(op scene.SolidOp) shapeBuiltin {
	return func(c *evalContext, a kwArgs) (scene.Shape, error) {
		if err := a.need(op.String(), 2); err != nil {
			return nil, err
		}
		children := make([]*scene.SolidShape, 2)
		for i := range children {
			child, _, err := shapeAs[*scene.SolidShape](c, a.positional[i])
			if err != nil {
				return nil, fmt.Errorf("operand %d: %w", i+1, err)
			}
			children[i] = child
		}
		return &scene.SolidShape{Op: op, Children: children}, nil
	}
}
