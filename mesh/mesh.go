// Package mesh holds closed triangle surfaces and derives mass properties
// (mass, center of mass, inertia tensor) from them by surface integration.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// DegenerateArea is the twice-area under which a triangle is considered degenerate.
const DegenerateArea = 1e-14

// ErrInvalidMesh is returned for open, degenerate, inward or malformed meshes.
var ErrInvalidMesh = errors.New("invalid mesh")

// Triangle holds three vertex indices, counter-clockwise seen from outside.
type Triangle [3]int

// SurfaceMesh is a closed triangulated surface with outward-facing normals.
type SurfaceMesh struct {
	Vertices  []mgl64.Vec3
	Triangles []Triangle
}

// Corners returns the three vertices of the i-th triangle.
func (m *SurfaceMesh) Corners(i int) (mgl64.Vec3, mgl64.Vec3, mgl64.Vec3) {
	t := m.Triangles[i]
	return m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
}

// AreaNormal returns (X1-X0)x(X2-X0): the outward normal scaled by twice the area.
func AreaNormal(x0, x1, x2 mgl64.Vec3) mgl64.Vec3 {
	return x1.Sub(x0).Cross(x2.Sub(x0))
}

type edge struct {
	from, to int
}

// Validate checks the preconditions of ComputeInertia: indices in range, no
// degenerate triangle, and every directed edge matched by exactly one
// reverse edge (closed, consistently oriented surface). Orientation sign is
// checked later from the volume.
func (m *SurfaceMesh) Validate() error {
	if len(m.Triangles) < 4 {
		return errors.Wrapf(ErrInvalidMesh, "%d triangles cannot enclose a volume", len(m.Triangles))
	}

	edges := make(map[edge]int, 3*len(m.Triangles))
	for i, t := range m.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= len(m.Vertices) {
				return errors.Wrapf(ErrInvalidMesh, "triangle %d: vertex index %d out of range [0,%d)", i, idx, len(m.Vertices))
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			return errors.Wrapf(ErrInvalidMesh, "triangle %d: repeated vertex %v", i, t)
		}

		x0, x1, x2 := m.Corners(i)
		area := AreaNormal(x0, x1, x2).Len()
		if area <= DegenerateArea || math.IsNaN(area) || math.IsInf(area, 0) {
			return errors.Wrapf(ErrInvalidMesh, "triangle %d: degenerate (twice area %g)", i, area)
		}

		for k := 0; k < 3; k++ {
			e := edge{t[k], t[(k+1)%3]}
			edges[e]++
			if edges[e] > 1 {
				return errors.Wrapf(ErrInvalidMesh, "triangle %d: edge %d->%d used twice, inconsistent orientation", i, e.from, e.to)
			}
		}
	}

	for e := range edges {
		if edges[edge{e.to, e.from}] != 1 {
			return errors.Wrapf(ErrInvalidMesh, "edge %d->%d has no opposite edge, surface is open", e.from, e.to)
		}
	}

	return nil
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *SurfaceMesh) Bounds() AABB {
	if len(m.Vertices) == 0 {
		return AABB{}
	}

	lo, hi := m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}

	return AABB{Min: lo, Max: hi}
}

// Translate returns a copy of the mesh with every vertex moved by offset.
func (m *SurfaceMesh) Translate(offset mgl64.Vec3) *SurfaceMesh {
	vertices := make([]mgl64.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i] = v.Add(offset)
	}

	return &SurfaceMesh{Vertices: vertices, Triangles: m.Triangles}
}

// Box builds a closed, outward-oriented mesh of a box centered on the origin.
func Box(halfExtents mgl64.Vec3) *SurfaceMesh {
	hx, hy, hz := halfExtents.X(), halfExtents.Y(), halfExtents.Z()

	// Corner i has its x/y/z sign taken from bits 0/1/2 of i
	vertices := make([]mgl64.Vec3, 8)
	for i := range vertices {
		v := mgl64.Vec3{-hx, -hy, -hz}
		if i&1 != 0 {
			v[0] = hx
		}
		if i&2 != 0 {
			v[1] = hy
		}
		if i&4 != 0 {
			v[2] = hz
		}
		vertices[i] = v
	}

	// Each face is a quad, counter-clockwise seen from outside
	quads := [6][4]int{
		{1, 3, 7, 5}, // +X
		{0, 4, 6, 2}, // -X
		{2, 6, 7, 3}, // +Y
		{0, 1, 5, 4}, // -Y
		{4, 5, 7, 6}, // +Z
		{0, 2, 3, 1}, // -Z
	}

	triangles := make([]Triangle, 0, 12)
	for _, q := range quads {
		triangles = append(triangles,
			Triangle{q[0], q[1], q[2]},
			Triangle{q[0], q[2], q[3]},
		)
	}

	return &SurfaceMesh{Vertices: vertices, Triangles: triangles}
}

// Flip returns a copy of the mesh with every triangle's winding reversed.
func (m *SurfaceMesh) Flip() *SurfaceMesh {
	triangles := make([]Triangle, len(m.Triangles))
	for i, t := range m.Triangles {
		triangles[i] = Triangle{t[0], t[2], t[1]}
	}

	return &SurfaceMesh{Vertices: m.Vertices, Triangles: triangles}
}
