// Package tessellate turns the CSG solids of a scene into triangle hulls
// using a geometry kernel. One hull is produced per named solid.
package tessellate

import (
	"fmt"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/scene"
)

// Hull is the tessellated surface of one named solid.
type Hull struct {
	Name      string
	Mesh      *kernel.Mesh
	Triangles []geom.TriangleView
	Skipped   int // mesh triangles dropped as degenerate
}

// transform is one translate or rotate step on the way down a CSG tree.
type transform struct {
	op     scene.SolidOp
	offset geom.Vec3
}

// transformStack accumulates spatial transforms during tree traversal. The
// bottom of the stack is the outermost transform.
type transformStack struct {
	steps []transform
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(op scene.SolidOp, offset geom.Vec3) {
	ts.steps = append(ts.steps, transform{op: op, offset: offset})
}

func (ts *transformStack) pop() {
	if len(ts.steps) > 0 {
		ts.steps = ts.steps[:len(ts.steps)-1]
	}
}

// apply places a primitive by running the stack innermost first.
func (ts *transformStack) apply(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	for i := len(ts.steps) - 1; i >= 0; i-- {
		step := ts.steps[i]
		if step.offset.IsZero() {
			continue
		}
		switch step.op {
		case scene.SolidTranslate:
			s = k.Translate(s, step.offset.X, step.offset.Y, step.offset.Z)
		case scene.SolidRotate:
			s = k.Rotate(s, step.offset.X, step.offset.Y, step.offset.Z)
		}
	}
	return s
}

// Tessellate produces one hull per solid in the scene, in definition order.
// The scene is not modified.
func Tessellate(s *scene.Scene, k kernel.Kernel, tokens *geom.TokenSource) ([]*Hull, error) {
	if s == nil {
		return nil, nil
	}

	var hulls []*Hull
	for _, name := range s.ByKind(scene.KindSolid) {
		hull, err := Solid(k, name, s.Shapes[name].(*scene.SolidShape), tokens)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking solid %s: %w", name, err)
		}
		hulls = append(hulls, hull)
	}

	return hulls, nil
}

// Solid builds and meshes a single CSG tree.
func Solid(k kernel.Kernel, name string, root *scene.SolidShape, tokens *geom.TokenSource) (*Hull, error) {
	solid, err := Build(k, root)
	if err != nil {
		return nil, err
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", name, err)
	}
	mesh.Name = name

	tris, skipped := mesh.Triangles(tokens)
	return &Hull{Name: name, Mesh: mesh, Triangles: tris, Skipped: skipped}, nil
}

// Build turns a CSG tree into a kernel solid without meshing it.
func Build(k kernel.Kernel, root *scene.SolidShape) (kernel.Solid, error) {
	return walkNode(k, root, newTransformStack())
}

// walkNode recursively traverses a node and its children.
func walkNode(k kernel.Kernel, n *scene.SolidShape, ts *transformStack) (kernel.Solid, error) {
	if n == nil {
		return nil, fmt.Errorf("nil solid node")
	}
	if want := n.Op.Arity(); len(n.Children) != want {
		return nil, fmt.Errorf("%s takes %d operands, has %d", n.Op, want, len(n.Children))
	}

	switch n.Op {
	case scene.SolidBox, scene.SolidSphere, scene.SolidCylinder:
		return handlePrimitive(k, n, ts)

	case scene.SolidTranslate, scene.SolidRotate:
		return handleTransform(k, n, ts)

	case scene.SolidUnion, scene.SolidDifference, scene.SolidIntersection:
		return handleBoolean(k, n, ts)

	default:
		return nil, fmt.Errorf("unknown solid op: %v", n.Op)
	}
}

// handlePrimitive creates geometry for a primitive and places it with the
// transforms collected on the way down.
func handlePrimitive(k kernel.Kernel, n *scene.SolidShape, ts *transformStack) (kernel.Solid, error) {
	var (
		solid kernel.Solid
		err   error
	)

	switch n.Op {
	case scene.SolidBox:
		solid, err = k.Box(n.Size.X, n.Size.Y, n.Size.Z)
	case scene.SolidSphere:
		solid, err = k.Sphere(n.Radius)
	case scene.SolidCylinder:
		solid, err = k.Cylinder(n.Height, n.Radius)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n, err)
	}

	return ts.apply(k, solid), nil
}

// handleTransform pushes the transform, recurses into the operand, then pops.
func handleTransform(k kernel.Kernel, n *scene.SolidShape, ts *transformStack) (kernel.Solid, error) {
	ts.push(n.Op, n.Offset)
	defer ts.pop()
	return walkNode(k, n.Children[0], ts)
}

// handleBoolean combines both operands under the current transforms.
func handleBoolean(k kernel.Kernel, n *scene.SolidShape, ts *transformStack) (kernel.Solid, error) {
	a, err := walkNode(k, n.Children[0], ts)
	if err != nil {
		return nil, err
	}
	b, err := walkNode(k, n.Children[1], ts)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case scene.SolidUnion:
		return k.Union(a, b), nil
	case scene.SolidDifference:
		return k.Difference(a, b), nil
	default:
		return k.Intersection(a, b), nil
	}
}
