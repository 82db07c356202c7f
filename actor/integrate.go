package actor

import (
	"math"

	"github.com/akmonengine/rigid/rotation"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// RotationTolerance bounds the orthonormality error accepted on a body
// rotation before integration.
const RotationTolerance = 1e-9

var (
	ErrInvalidTimestep = errors.New("invalid timestep")
	ErrInvalidRotation = errors.New("invalid rotation")
)

// GeneralizedForce is the external load of one body for the current step.
type GeneralizedForce struct {
	Torque mgl64.Vec3
	Force  mgl64.Vec3
}

// UpdateAngularVelocity advances ω explicitly with the gyroscopic term and
// the external torque:
//
//	ω' = ω - (I_world⁻¹ (dt ω × (I_world ω)) + dt τ)
func UpdateAngularVelocity(inertiaWorld, inverseInertiaWorld mgl64.Mat3, omega, torque mgl64.Vec3, dt float64) mgl64.Vec3 {
	gyroscopic := inverseInertiaWorld.Mul3x1(omega.Cross(inertiaWorld.Mul3x1(omega)).Mul(dt))
	return omega.Sub(gyroscopic.Add(torque.Mul(dt)))
}

// UpdateLinearVelocity is explicit Euler on v.
func UpdateLinearVelocity(v, force mgl64.Vec3, mass, dt float64) mgl64.Vec3 {
	return v.Add(force.Mul(dt / mass))
}

// RetractOrientation rotates r by exp(ω dt), keeping it orthonormal.
func RetractOrientation(r mgl64.Mat3, omega mgl64.Vec3, dt float64) mgl64.Mat3 {
	return rotation.Exp(omega.Mul(dt)).Mul3(r)
}

// UpdatePosition is explicit Euler on p.
func UpdatePosition(p, v mgl64.Vec3, dt float64) mgl64.Vec3 {
	return p.Add(v.Mul(dt))
}

func ValidateTimestep(dt float64) error {
	if !(dt >= 0) || math.IsInf(dt, 0) {
		return errors.Wrapf(ErrInvalidTimestep, "dt %g must be finite and non-negative", dt)
	}

	return nil
}

// ValidateRotation checks that r is orthonormal with determinant +1.
func ValidateRotation(r mgl64.Mat3) error {
	if !rotation.IsRotation(r, RotationTolerance) {
		return errors.Wrapf(ErrInvalidRotation, "drift %g, det %g", rotation.OrthonormalDrift(r), r.Det())
	}

	return nil
}

// Integrate advances the body by dt under force. Orientation and position
// are advanced with the velocities from before the step. Static bodies are
// left untouched, as are bodies rejected with an error.
func (rb *RigidBody) Integrate(dt float64, force GeneralizedForce) error {
	if err := ValidateTimestep(dt); err != nil {
		return err
	}
	if rb.BodyType == BodyTypeStatic {
		return nil
	}
	if err := ValidateMass(rb.inertia.Mass); err != nil {
		return rb.wrap(err)
	}
	if err := ValidateRotation(rb.Transform.Rotation); err != nil {
		return rb.wrap(err)
	}

	omega := rb.AngularVelocity
	v := rb.Velocity

	rb.AngularVelocity = UpdateAngularVelocity(rb.GetInertiaWorld(), rb.GetInverseInertiaWorld(), omega, force.Torque, dt)
	rb.Velocity = UpdateLinearVelocity(v, force.Force, rb.inertia.Mass, dt)
	rb.Transform.Rotation = RetractOrientation(rb.Transform.Rotation, omega, dt)
	rb.Transform.Position = UpdatePosition(rb.Transform.Position, v, dt)

	return nil
}
