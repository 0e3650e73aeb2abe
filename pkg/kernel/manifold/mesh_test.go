package manifold

import (
	"math"
	"testing"
)

func TestSplitPropertiesWithNormals(t *testing.T) {
	// x y z nx ny nz u per vertex
	props := []float32{
		0, 0, 0, 0, 0, 1, 9,
		1, 0, 0, 0, 0, 1, 9,
		0, 1, 0, 0, 0, 1, 9,
	}
	mesh, err := splitProperties(props, 7, []uint32{0, 1, 2})
	if err != nil {
		t.Fatalf("splitProperties() error = %v", err)
	}
	if mesh.VertexCount() != 3 || mesh.TriangleCount() != 1 {
		t.Fatalf("got %d vertices and %d triangles", mesh.VertexCount(), mesh.TriangleCount())
	}
	wantVerts := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	for i, v := range wantVerts {
		if mesh.Vertices[i] != v {
			t.Fatalf("Vertices = %v, want %v", mesh.Vertices, wantVerts)
		}
	}
	for i := 0; i < 3; i++ {
		if mesh.Normals[i*3+2] != 1 {
			t.Errorf("normal %d = %v, want +Z", i, mesh.Normals[i*3:i*3+3])
		}
	}
}

func TestSplitPropertiesComputesNormals(t *testing.T) {
	props := []float32{
		0, 0, 0,
		2, 0, 0,
		0, 2, 0,
	}
	mesh, err := splitProperties(props, 3, []uint32{0, 1, 2})
	if err != nil {
		t.Fatalf("splitProperties() error = %v", err)
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Fatalf("normals length = %d, want %d", len(mesh.Normals), len(mesh.Vertices))
	}
	for i := 0; i < 3; i++ {
		nz := float64(mesh.Normals[i*3+2])
		if math.Abs(nz-1) > 1e-6 {
			t.Errorf("normal %d = %v, want +Z", i, mesh.Normals[i*3:i*3+3])
		}
	}
}

func TestSplitPropertiesErrors(t *testing.T) {
	tests := []struct {
		name    string
		props   []float32
		numProp int
		indices []uint32
	}{
		{"too few properties", []float32{0, 0}, 2, nil},
		{"ragged properties", []float32{0, 0, 0, 1}, 3, nil},
		{"index out of range", []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, 3, []uint32{0, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := splitProperties(tt.props, tt.numProp, tt.indices); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
