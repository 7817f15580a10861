package kernel

import "math"

// Mesh is the triangulated surface of one solid in millimetres. The arrays
// are flat: three floats per vertex and normal, three indices per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // name of the model element this came from
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

// Bounds returns the axis-aligned extent of the mesh vertices.
func (m *Mesh) Bounds() (min, max [3]float32) {
	if m.IsEmpty() {
		return min, max
	}
	copy(min[:], m.Vertices[0:3])
	copy(max[:], m.Vertices[0:3])
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for j := 0; j < 3; j++ {
			v := m.Vertices[i+j]
			if v < min[j] {
				min[j] = v
			}
			if v > max[j] {
				max[j] = v
			}
		}
	}
	return min, max
}

// Volume returns the enclosed volume of a closed, consistently wound mesh
// as the sum of signed tetrahedra against the origin.
func (m *Mesh) Volume() float64 {
	var sum float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.vertex(m.Indices[i]), m.vertex(m.Indices[i+1]), m.vertex(m.Indices[i+2])
		sum += a[0]*(b[1]*c[2]-b[2]*c[1]) -
			a[1]*(b[0]*c[2]-b[2]*c[0]) +
			a[2]*(b[0]*c[1]-b[1]*c[0])
	}
	return math.Abs(sum) / 6
}

func (m *Mesh) vertex(i uint32) [3]float64 {
	v := m.Vertices[3*i : 3*i+3]
	return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
}
