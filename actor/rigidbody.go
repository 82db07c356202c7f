package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are advanced by Integrate
	// They have finite mass and a positive definite inertia tensor
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// Integrate leaves them untouched
	BodyTypeStatic
)

func (t BodyType) String() string {
	switch t {
	case BodyTypeDynamic:
		return "dynamic"
	case BodyTypeStatic:
		return "static"
	default:
		return "unknown"
	}
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	ID uuid.UUID

	// Orientation and world-space center of mass
	Transform Transform

	// World-frame velocities
	AngularVelocity mgl64.Vec3 // rad/s
	Velocity        mgl64.Vec3 // m/s

	BodyType BodyType

	// Collision or mass shape, nil when built from raw mass properties
	Shape ShapeInterface

	inertia             SpatialInertia // body frame
	inverseInertiaLocal mgl64.Mat3
}

// NewRigidBody creates a body from its mass properties. Dynamic bodies are
// rejected with ErrInvalidMass or ErrInvalidInertia when their mass
// properties cannot be integrated; static bodies ignore them.
func NewRigidBody(transform Transform, inertia SpatialInertia, bodyType BodyType) (*RigidBody, error) {
	rb := &RigidBody{
		ID:        uuid.New(),
		Transform: transform,
		BodyType:  bodyType,
	}

	if bodyType == BodyTypeStatic {
		// Static bodies have infinite mass
		rb.inertia = SpatialInertia{Mass: math.Inf(1)}
		return rb, nil
	}

	if err := rb.SetInertia(inertia); err != nil {
		return nil, rb.wrap(err)
	}

	return rb, nil
}

// NewDynamicBody creates a dynamic body without ID, for callers that track
// body identity themselves such as packed state buffers.
func NewDynamicBody(transform Transform, inertia SpatialInertia) (*RigidBody, error) {
	rb := &RigidBody{
		Transform: transform,
		BodyType:  BodyTypeDynamic,
	}
	if err := rb.SetInertia(inertia); err != nil {
		return nil, err
	}

	return rb, nil
}

// wrap adds the body ID to err, when the body has one.
func (rb *RigidBody) wrap(err error) error {
	if rb.ID == uuid.Nil {
		return err
	}

	return errors.Wrapf(err, "body %s", rb.ID)
}

// NewRigidBodyFromShape computes the mass properties of shape for density and
// creates the body. transform places the shape frame; the body position is
// moved onto the computed center of mass.
func NewRigidBodyFromShape(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) (*RigidBody, error) {
	if bodyType == BodyTypeStatic {
		rb, err := NewRigidBody(transform, SpatialInertia{}, bodyType)
		if err != nil {
			return nil, err
		}
		rb.Shape = shape
		return rb, nil
	}

	props, err := shape.MassProperties(density)
	if err != nil {
		return nil, err
	}

	transform.Position = transform.PointToWorld(props.Center)
	rb, err := NewRigidBody(transform, SpatialInertia{Mass: props.Mass, Inertia: props.Inertia}, bodyType)
	if err != nil {
		return nil, err
	}
	rb.Shape = shape

	return rb, nil
}

// SetInertia validates and replaces the body-frame mass properties.
func (rb *RigidBody) SetInertia(inertia SpatialInertia) error {
	if err := inertia.Validate(); err != nil {
		return err
	}

	rb.inertia = inertia
	rb.inverseInertiaLocal = inertia.Inertia.Inv()
	return nil
}

func (rb *RigidBody) GetMass() float64 {
	return rb.inertia.Mass
}

func (rb *RigidBody) GetInertiaLocal() mgl64.Mat3 {
	return rb.inertia.Inertia
}

// GetInertiaWorld returns the inertia tensor expressed in world axes
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation
	return R.Mul3(rb.inertia.Inertia).Mul3(R.Transpose())
}

// GetInverseInertiaWorld is zero for static bodies
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation
	return R.Mul3(rb.inverseInertiaLocal).Mul3(R.Transpose())
}

// KineticEnergy returns ½mv² + ½ωᵀI_worldω, zero for static bodies.
func (rb *RigidBody) KineticEnergy() float64 {
	if rb.BodyType == BodyTypeStatic {
		return 0
	}

	linear := 0.5 * rb.inertia.Mass * rb.Velocity.Dot(rb.Velocity)
	angular := 0.5 * rb.AngularVelocity.Dot(rb.GetInertiaWorld().Mul3x1(rb.AngularVelocity))
	return linear + angular
}

// AngularMomentum returns I_world*ω about the center of mass.
func (rb *RigidBody) AngularMomentum() mgl64.Vec3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Vec3{}
	}

	return rb.GetInertiaWorld().Mul3x1(rb.AngularVelocity)
}

// PointToWorld returns the current world position of a body-local point.
func (rb *RigidBody) PointToWorld(x mgl64.Vec3) mgl64.Vec3 {
	return rb.Transform.PointToWorld(x)
}

// PointVelocity returns the world velocity of a body-local point.
func (rb *RigidBody) PointVelocity(x mgl64.Vec3) mgl64.Vec3 {
	return rb.Transform.PointVelocity(x, rb.AngularVelocity, rb.Velocity)
}
