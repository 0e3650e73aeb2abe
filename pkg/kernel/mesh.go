package kernel

import "github.com/chazu/facet/pkg/geom"

// Mesh is a flat triangle mesh.
// vertices has 3 floats per vertex (x,y,z), normals has 3 floats per vertex,
// indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // scene shape the mesh came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i widened to float64.
func (m *Mesh) Vertex(i uint32) geom.Vec3 {
	return geom.Vec3{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// Triangles converts the mesh into immutable kernel triangles, one token
// each. Triangles that collapsed to zero area in float32 are dropped; the
// second return value counts them.
func (m *Mesh) Triangles(tokens *geom.TokenSource) ([]geom.TriangleView, int) {
	tris := make([]geom.TriangleView, 0, m.TriangleCount())
	skipped := 0
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri, err := geom.NewTriangleFixed(tokens,
			m.Vertex(m.Indices[i]),
			m.Vertex(m.Indices[i+1]),
			m.Vertex(m.Indices[i+2]),
		)
		if err != nil {
			skipped++
			continue
		}
		tris = append(tris, tri)
	}
	return tris, skipped
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() geom.AABB {
	pts := make([]geom.Vec3, m.VertexCount())
	for i := range pts {
		pts[i] = m.Vertex(uint32(i))
	}
	return geom.GetAABB(pts)
}
