package tessellate_test

import (
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/kernel/sdfx"
	"github.com/chazu/facet/pkg/scene"
	"github.com/chazu/facet/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel so marching cubes stays fast.
func newKernel() kernel.Kernel {
	return sdfx.NewWithCells(40)
}

func vec(x, y, z float64) geom.Vec3 { return geom.Vec3{X: x, Y: y, Z: z} }

func makeBox(x, y, z float64) *scene.SolidShape {
	return &scene.SolidShape{Op: scene.SolidBox, Size: vec(x, y, z)}
}

func makeTranslate(x, y, z float64, child *scene.SolidShape) *scene.SolidShape {
	return &scene.SolidShape{Op: scene.SolidTranslate, Offset: vec(x, y, z), Children: []*scene.SolidShape{child}}
}

func makeRotate(x, y, z float64, child *scene.SolidShape) *scene.SolidShape {
	return &scene.SolidShape{Op: scene.SolidRotate, Offset: vec(x, y, z), Children: []*scene.SolidShape{child}}
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func define(t *testing.T, s *scene.Scene, name string, shape scene.Shape) {
	t.Helper()
	if err := s.Define(name, shape); err != nil {
		t.Fatalf("Define(%s) failed: %v", name, err)
	}
}

func TestSingleBox(t *testing.T) {
	k := newKernel()
	s := scene.New()
	define(t, s, "shelf", makeBox(60, 30, 18))

	hulls, err := tessellate.Tessellate(s, k, geom.NewTokenSource())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(hulls) != 1 {
		t.Fatalf("expected 1 hull, got %d", len(hulls))
	}

	h := hulls[0]
	if h.Name != "shelf" || h.Mesh.Name != "shelf" {
		t.Errorf("expected name %q, got %q / %q", "shelf", h.Name, h.Mesh.Name)
	}
	if h.Mesh.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}
	if len(h.Triangles)+h.Skipped != h.Mesh.TriangleCount() {
		t.Errorf("triangles %d + skipped %d != mesh triangles %d", len(h.Triangles), h.Skipped, h.Mesh.TriangleCount())
	}

	b := h.Mesh.Bounds()
	if !near(b.Min.X, -30, 2) || !near(b.Max.X, 30, 2) || !near(b.Max.Z, 9, 2) {
		t.Errorf("bounds = %v, want about (-30 -15 -9)..(30 15 9)", b)
	}
}

func TestSolidsInDefinitionOrder(t *testing.T) {
	k := newKernel()
	s := scene.New()
	define(t, s, "side-panel", makeBox(40, 30, 2))
	define(t, s, "probe", scene.SphereShape{Radius: 1})
	define(t, s, "top-panel", makeBox(60, 30, 2))

	tokens := geom.NewTokenSource()
	hulls, err := tessellate.Tessellate(s, k, tokens)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(hulls) != 2 {
		t.Fatalf("expected 2 hulls, got %d", len(hulls))
	}
	if hulls[0].Name != "side-panel" || hulls[1].Name != "top-panel" {
		t.Errorf("order = %s, %s", hulls[0].Name, hulls[1].Name)
	}

	seen := map[geom.Token]bool{}
	for _, h := range hulls {
		for _, tri := range h.Triangles {
			if seen[tri.Token()] {
				t.Fatalf("token %d issued twice", tri.Token())
			}
			seen[tri.Token()] = true
		}
	}
}

func TestTransformOrder(t *testing.T) {
	// Rotate the long box upright first, then move it along X.
	k := newKernel()
	root := makeTranslate(100, 0, 0, makeRotate(0, 0, 90, makeBox(100, 10, 10)))

	hull, err := tessellate.Solid(k, "post", root, geom.NewTokenSource())
	if err != nil {
		t.Fatalf("Solid failed: %v", err)
	}

	b := hull.Mesh.Bounds()
	c := b.Center()
	if !near(c.X, 100, 3) || !near(c.Y, 0, 3) {
		t.Errorf("center = %v, want about (100 0 0)", c)
	}
	size := b.Size()
	if !near(size.X, 10, 3) || !near(size.Y, 100, 4) {
		t.Errorf("size = %v, want about (10 100 10)", size)
	}
}

func TestNestedTranslations(t *testing.T) {
	k := newKernel()
	root := makeTranslate(10, 0, 0, makeTranslate(0, 20, 0, makeBox(4, 4, 4)))

	solid, err := tessellate.Build(k, root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	c := solid.BoundingBox().Center()
	if !near(c.X, 10, 0.5) || !near(c.Y, 20, 0.5) {
		t.Errorf("center = %v, want about (10 20 0)", c)
	}
}

func TestBooleanDifference(t *testing.T) {
	k := newKernel()
	root := &scene.SolidShape{
		Op:       scene.SolidDifference,
		Children: []*scene.SolidShape{makeBox(20, 20, 20), {Op: scene.SolidSphere, Radius: 12}},
	}

	hull, err := tessellate.Solid(k, "hollow", root, geom.NewTokenSource())
	if err != nil {
		t.Fatalf("Solid failed: %v", err)
	}

	opts := geom.DefaultOptions()
	if geom.IsInsideConcaveHull(hull.Triangles, geom.Zero, opts) {
		t.Error("center was carved out and should be outside")
	}
	if !geom.IsInsideConcaveHull(hull.Triangles, vec(8, 8, 8), opts) {
		t.Error("corner should still be inside")
	}
}

func TestEmptyScene(t *testing.T) {
	k := newKernel()

	hulls, err := tessellate.Tessellate(nil, k, geom.NewTokenSource())
	if err != nil || hulls != nil {
		t.Errorf("nil scene: got %v, %v", hulls, err)
	}

	s := scene.New()
	define(t, s, "floor", scene.PlaneShape{Normal: geom.UnitZ})
	hulls, err = tessellate.Tessellate(s, k, geom.NewTokenSource())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(hulls) != 0 {
		t.Errorf("expected no hulls, got %d", len(hulls))
	}
}

func TestErrors(t *testing.T) {
	k := newKernel()

	t.Run("bad primitive", func(t *testing.T) {
		s := scene.New()
		define(t, s, "flat", makeTranslate(1, 0, 0, makeBox(10, 0, 10)))
		_, err := tessellate.Tessellate(s, k, geom.NewTokenSource())
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "flat") {
			t.Errorf("error %q should name the solid", err)
		}
		if !errors.Is(err, geom.ErrInvalidArgument) {
			t.Errorf("error %q should wrap ErrInvalidArgument", err)
		}
	})

	t.Run("missing operand", func(t *testing.T) {
		root := &scene.SolidShape{Op: scene.SolidUnion, Children: []*scene.SolidShape{makeBox(1, 1, 1)}}
		if _, err := tessellate.Build(k, root); err == nil {
			t.Fatal("expected arity error")
		}
	})

	t.Run("nil root", func(t *testing.T) {
		if _, err := tessellate.Build(k, nil); err == nil {
			t.Fatal("expected error")
		}
	})
}
