// Package geom is the facet geometry kernel: pure, stateless routines that
// compute closest points, intersections and containment among 3D primitives
// (points, lines/rays/segments, planes, circles, spheres, cylinders and
// triangles).
//
// Every function takes value inputs and returns a new result. Nothing in the
// package holds mutable shared state, so all routines are safe to call from
// multiple goroutines. The one exception is the mutable Triangle, whose
// cached derived quantities must not be read and written concurrently.
//
// Expected "no answer" outcomes are reported with an ok flag or an empty
// slice. Invalid parameters are reported as errors wrapping
// ErrInvalidArgument. Broken invariants panic with a *Fault.
package geom
