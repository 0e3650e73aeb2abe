// Package scene holds the named shapes and query results produced by
// evaluating a facet script. A Scene is built fresh on every evaluation and
// is not mutated once evaluation returns.
package scene
