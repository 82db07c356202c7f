package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Accumulator holds the running surface integrals of a mesh, as volume
// integrals converted by the divergence theorem. Accumulators over disjoint
// triangle sets can be merged in any order.
type Accumulator struct {
	Volume float64    // ∫ 1 dV
	First  mgl64.Vec3 // ∫ x dV, ∫ y dV, ∫ z dV
	Second mgl64.Vec3 // ∫ x² dV, ∫ y² dV, ∫ z² dV
	Mixed  mgl64.Vec3 // ∫ xy dV, ∫ yz dV, ∫ zx dV

	Triangles  int
	Degenerate int
}

// Integrals of products of linear functions over the reference triangle
// {u,v >= 0, u+v <= 1}, each function given by its values at the corners.

func integrate1(f mgl64.Vec3) float64 {
	return (f[0] + f[1] + f[2]) / 6
}

func integrate2(f, g mgl64.Vec3) float64 {
	sf := f[0] + f[1] + f[2]
	sg := g[0] + g[1] + g[2]
	return (sf*sg + f.Dot(g)) / 24
}

func integrate3(f, g, h mgl64.Vec3) float64 {
	sf := f[0] + f[1] + f[2]
	sg := g[0] + g[1] + g[2]
	sh := h[0] + h[1] + h[2]

	var fgh float64
	for k := 0; k < 3; k++ {
		fgh += f[k] * g[k] * h[k]
	}

	return (sf*sg*sh + f.Dot(g)*sh + g.Dot(h)*sf + f.Dot(h)*sg + 2*fgh) / 120
}

// AddTriangle accumulates the contribution of one outward-oriented triangle.
// Degenerate triangles contribute nothing and are counted.
func (a *Accumulator) AddTriangle(x0, x1, x2 mgl64.Vec3) {
	a.Triangles++

	n := AreaNormal(x0, x1, x2)
	if n.Len() <= DegenerateArea {
		a.Degenerate++
		return
	}

	// Per axis, the corner coordinates
	x := mgl64.Vec3{x0.X(), x1.X(), x2.X()}
	y := mgl64.Vec3{x0.Y(), x1.Y(), x2.Y()}
	z := mgl64.Vec3{x0.Z(), x1.Z(), x2.Z()}

	// div(x, 0, 0) = 1
	a.Volume += n.X() * integrate1(x)

	// div(x²/2, 0, 0) = x
	a.First[0] += n.X() * integrate2(x, x) / 2
	a.First[1] += n.Y() * integrate2(y, y) / 2
	a.First[2] += n.Z() * integrate2(z, z) / 2

	// div(x³/3, 0, 0) = x²
	a.Second[0] += n.X() * integrate3(x, x, x) / 3
	a.Second[1] += n.Y() * integrate3(y, y, y) / 3
	a.Second[2] += n.Z() * integrate3(z, z, z) / 3

	// div(x²y/2, 0, 0) = xy
	a.Mixed[0] += n.X() * integrate3(x, x, y) / 2
	a.Mixed[1] += n.Y() * integrate3(y, y, z) / 2
	a.Mixed[2] += n.Z() * integrate3(z, z, x) / 2
}

// Merge adds the integrals of other into a.
func (a *Accumulator) Merge(other Accumulator) {
	a.Volume += other.Volume
	a.First = a.First.Add(other.First)
	a.Second = a.Second.Add(other.Second)
	a.Mixed = a.Mixed.Add(other.Mixed)
	a.Triangles += other.Triangles
	a.Degenerate += other.Degenerate
}

// MassProperties of a uniform solid.
type MassProperties struct {
	Mass    float64
	Center  mgl64.Vec3
	Inertia mgl64.Mat3 // about Center, in the mesh axes
}

// Finalize turns the integrals into mass properties for a uniform density.
// The inertia is returned about the center of mass.
func (a *Accumulator) Finalize(density float64) (MassProperties, error) {
	if !(a.Volume > 0) {
		return MassProperties{}, errorf("enclosed volume %g is not positive, triangles may face inward", a.Volume)
	}

	mass := density * a.Volume
	c := a.First.Mul(1 / a.Volume)

	// About the origin
	xx, yy, zz := density*a.Second[0], density*a.Second[1], density*a.Second[2]
	xy, yz, zx := density*a.Mixed[0], density*a.Mixed[1], density*a.Mixed[2]

	// Parallel-axis shift to the center of mass
	ixx := yy + zz - mass*(c.Y()*c.Y()+c.Z()*c.Z())
	iyy := zz + xx - mass*(c.Z()*c.Z()+c.X()*c.X())
	izz := xx + yy - mass*(c.X()*c.X()+c.Y()*c.Y())
	ixy := -xy + mass*c.X()*c.Y()
	iyz := -yz + mass*c.Y()*c.Z()
	izx := -zx + mass*c.Z()*c.X()

	inertia := mgl64.Mat3{
		ixx, ixy, izx,
		ixy, iyy, iyz,
		izx, iyz, izz,
	}

	return MassProperties{Mass: mass, Center: c, Inertia: inertia}, nil
}
