package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform places a body frame in world space: x_world = Rotation*x + Position.
// Position is the world-space center of mass.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Mat3 // orthonormal, det +1
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.Ident3(),
	}
}

// NewTransformFromQuat builds a transform from a position and a unit quaternion.
func NewTransformFromQuat(position mgl64.Vec3, q mgl64.Quat) Transform {
	return Transform{
		Position: position,
		Rotation: q.Normalize().Mat4().Mat3(),
	}
}

// PointToWorld maps a body-local material point to world space.
func PointToWorld(r mgl64.Mat3, p, x mgl64.Vec3) mgl64.Vec3 {
	return r.Mul3x1(x).Add(p)
}

func (t Transform) PointToWorld(x mgl64.Vec3) mgl64.Vec3 {
	return PointToWorld(t.Rotation, t.Position, x)
}

// WorldToPoint is the inverse of PointToWorld.
func (t Transform) WorldToPoint(x mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Transpose().Mul3x1(x.Sub(t.Position))
}
