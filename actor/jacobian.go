package actor

import (
	"github.com/akmonengine/rigid/rotation"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Jacobian is the 3x6 operator J = [Angular | Linear] mapping a generalized
// velocity [ω; v] (world frame) to the world velocity of a material point.
type Jacobian struct {
	Angular mgl64.Mat3
	Linear  mgl64.Mat3
}

// VelocityJacobian returns the Jacobian of the material point x (body-local)
// of a body with rotation r. The position p does not enter the result.
// v is the world-frame linear velocity, so the linear block is I rather
// than r.
func VelocityJacobian(r mgl64.Mat3, p, x mgl64.Vec3) Jacobian {
	// ω × (R x) = R [x]ᵀ Rᵀ ω
	return Jacobian{
		Angular: r.Mul3(rotation.Skew(x).Transpose()).Mul3(r.Transpose()),
		Linear:  mgl64.Ident3(),
	}
}

func (t Transform) Jacobian(x mgl64.Vec3) Jacobian {
	return VelocityJacobian(t.Rotation, t.Position, x)
}

// Apply returns J*[omega; v].
func (j Jacobian) Apply(omega, v mgl64.Vec3) mgl64.Vec3 {
	return j.Angular.Mul3x1(omega).Add(j.Linear.Mul3x1(v))
}

// Transpose maps a world force applied at the point to a generalized force.
func (j Jacobian) Transpose(f mgl64.Vec3) GeneralizedForce {
	return GeneralizedForce{
		Torque: j.Angular.Transpose().Mul3x1(f),
		Force:  j.Linear.Transpose().Mul3x1(f),
	}
}

// Dense returns the Jacobian as a 3x6 gonum matrix.
func (j Jacobian) Dense() *mat.Dense {
	d := mat.NewDense(3, 6, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			d.Set(row, col, j.Angular.At(row, col))
			d.Set(row, col+3, j.Linear.At(row, col))
		}
	}

	return d
}

// PointVelocity returns the world velocity of the material point x.
func (t Transform) PointVelocity(x, omega, v mgl64.Vec3) mgl64.Vec3 {
	return omega.Cross(t.Rotation.Mul3x1(x)).Add(v)
}
