// Package topology models polylines and planar polygons as edges that refer
// to a shared buffer of points by index. Structural questions such as "do
// these two edges touch?" compare integer indices instead of floating-point
// coordinates, so independently built edge sets must be merged onto one
// buffer with CloneDedupePoints before they are compared.
package topology
