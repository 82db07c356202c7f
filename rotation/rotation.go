// Package rotation implements the exponential map from rotation vectors to
// rotation matrices (Rodrigues formula) and the helpers around it.
package rotation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// SmallAngle is the angle (rad) under which Exp switches to the Taylor
// expansion of its coefficients. The truncation error there is below 1e-17.
const SmallAngle = 1e-4

// ErrDegenerateRotation is returned when a rotation axis is requested for a
// zero rotation vector.
var ErrDegenerateRotation = errors.New("degenerate rotation vector")

// Skew returns the cross-product matrix [v] such that [v]*u == v x u
func Skew(v mgl64.Vec3) mgl64.Mat3 {
	// column-major
	return mgl64.Mat3{
		0, v.Z(), -v.Y(),
		-v.Z(), 0, v.X(),
		v.Y(), -v.X(), 0,
	}
}

// Exp maps a rotation vector (axis * angle, typically omega*dt) to the
// rotation matrix R = I + sin(θ)K + (1-cos(θ))K², K being the skew matrix of
// the unit axis. The zero vector maps exactly to the identity.
func Exp(rotvec mgl64.Vec3) mgl64.Mat3 {
	theta2 := rotvec.Dot(rotvec)
	theta := math.Sqrt(theta2)

	// Written on the unnormalized skew matrix [v] = θK:
	// R = I + (sin θ/θ)[v] + ((1-cos θ)/θ²)[v]²
	var a, b float64
	if theta < SmallAngle {
		a = 1 - theta2/6
		b = 0.5 - theta2/24
	} else {
		a = math.Sin(theta) / theta
		b = (1 - math.Cos(theta)) / theta2
	}

	k := Skew(rotvec)
	return mgl64.Ident3().Add(k.Mul(a)).Add(k.Mul3(k).Mul(b))
}

// AxisAngle splits a rotation vector into its unit axis and angle.
func AxisAngle(rotvec mgl64.Vec3) (mgl64.Vec3, float64, error) {
	theta := rotvec.Len()
	if theta == 0 || math.IsNaN(theta) {
		return mgl64.Vec3{}, 0, errors.Wrapf(ErrDegenerateRotation, "rotation vector %v", rotvec)
	}

	return rotvec.Mul(1 / theta), theta, nil
}

// IsRotation reports whether r is orthonormal with determinant +1, within tol.
func IsRotation(r mgl64.Mat3, tol float64) bool {
	return OrthonormalDrift(r) <= tol && math.Abs(r.Det()-1) <= tol
}

// OrthonormalDrift returns the largest absolute entry of RᵀR - I.
func OrthonormalDrift(r mgl64.Mat3) float64 {
	d := r.Transpose().Mul3(r).Sub(mgl64.Ident3())

	var drift float64
	for _, v := range d {
		drift = math.Max(drift, math.Abs(v))
	}
	return drift
}
