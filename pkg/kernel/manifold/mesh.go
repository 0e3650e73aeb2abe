package manifold

import (
	"fmt"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
)

// DefaultSegments is the number of segments used for circular cross sections.
const DefaultSegments = 64

// splitProperties separates positions and normals out of an interleaved
// vertex property array with numProp floats per vertex. Missing normals are
// averaged from the incident faces.
func splitProperties(props []float32, numProp int, indices []uint32) (*kernel.Mesh, error) {
	if numProp < 3 {
		return nil, fmt.Errorf("manifold: %d vertex properties, need at least 3", numProp)
	}
	if len(props)%numProp != 0 {
		return nil, fmt.Errorf("manifold: %d properties is not a multiple of %d", len(props), numProp)
	}
	numVert := len(props) / numProp
	for _, idx := range indices {
		if int(idx) >= numVert {
			return nil, fmt.Errorf("manifold: index %d out of range for %d vertices", idx, numVert)
		}
	}

	vertices := make([]float32, numVert*3)
	hasNormals := numProp >= 6
	var normals []float32
	if hasNormals {
		normals = make([]float32, numVert*3)
	}
	for i := 0; i < numVert; i++ {
		base := i * numProp
		copy(vertices[i*3:i*3+3], props[base:base+3])
		if hasNormals {
			copy(normals[i*3:i*3+3], props[base+3:base+6])
		}
	}

	mesh := &kernel.Mesh{Vertices: vertices, Normals: normals, Indices: indices}
	if !hasNormals {
		mesh.Normals = vertexNormals(mesh)
	}
	return mesh, nil
}

// vertexNormals averages the area-weighted face normals around each vertex.
func vertexNormals(m *kernel.Mesh) []float32 {
	acc := make([]geom.Vec3, m.VertexCount())
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		a, b, c := m.Vertex(i0), m.Vertex(i1), m.Vertex(i2)
		n := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range []uint32{i0, i1, i2} {
			acc[idx] = acc[idx].Add(n)
		}
	}

	normals := make([]float32, len(acc)*3)
	for i, n := range acc {
		if n.IsNearZero() {
			continue
		}
		n = n.Normalize()
		normals[i*3+0] = float32(n.X)
		normals[i*3+1] = float32(n.Y)
		normals[i*3+2] = float32(n.Z)
	}
	return normals
}
