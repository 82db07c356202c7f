package actor

import (
	"math"

	"github.com/akmonengine/rigid/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of mass shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypeMesh
)

// ShapeInterface is the interface that all mass shapes must implement
type ShapeInterface interface {
	Type() ShapeType
	// MassProperties returns mass, center of mass (shape frame) and the
	// inertia tensor about that center for a uniform density
	MassProperties(density float64) (mesh.MassProperties, error)
}

// Box represents a box centered on its frame origin
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

func (b *Box) MassProperties(density float64) (mesh.MassProperties, error) {
	// Volume = 8 * hx * hy * hz (full dimensions are 2*halfExtents)
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2
	mass := density * x * y * z

	// I = (m/12) * (dimension1² + dimension2²)
	factor := mass / 12.0
	inertia := mgl64.Diag3(mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	})

	return mesh.MassProperties{Mass: mass, Inertia: inertia}, nil
}

// Surface returns the triangulated surface of the box
func (b *Box) Surface() *mesh.SurfaceMesh {
	return mesh.Box(b.HalfExtents)
}

// Sphere represents a sphere centered on its frame origin
type Sphere struct {
	Radius float64
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

func (s *Sphere) MassProperties(density float64) (mesh.MassProperties, error) {
	// Volume of sphere = (4/3) * π * r³
	mass := density * (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	// I = (2/5) * m * r² on every axis
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mesh.MassProperties{Mass: mass, Inertia: mgl64.Diag3(mgl64.Vec3{i, i, i})}, nil
}

// Mesh is an arbitrary closed, outward-oriented triangle surface
type Mesh struct {
	Surface *mesh.SurfaceMesh
	// Workers splits the surface integration, 0 or 1 runs it serially
	Workers int
}

func (m *Mesh) Type() ShapeType {
	return ShapeTypeMesh
}

func (m *Mesh) MassProperties(density float64) (mesh.MassProperties, error) {
	if m.Workers > 1 {
		return mesh.ComputeInertiaParallel(m.Surface, density, m.Workers)
	}

	return mesh.ComputeInertia(m.Surface, density)
}
