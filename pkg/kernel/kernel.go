// Package kernel defines the abstract solid-modeling backend that supplies
// triangle hulls to the geometry queries. Implementations (sdfx) build
// primitives and booleans and tessellate them; the rest of the system only
// sees Solid handles and Meshes.
package kernel

import "github.com/chazu/facet/pkg/geom"

// Solid is an opaque handle to a backend solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() geom.AABB
}

// Kernel is the abstract solid-modeling interface. Primitives are centered
// on the origin.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
