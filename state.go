package rigid

import (
	"github.com/akmonengine/rigid/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// CoordinatesPerBody is the packed size of one body's orientation
	// (9 column-major rotation entries) and position (3 entries)
	CoordinatesPerBody = 12
	// VelocitiesPerBody packs the angular then the linear velocity
	VelocitiesPerBody = 6
	// ForcesPerBody packs the torque then the force
	ForcesPerBody = 6
)

var ErrBufferLength = errors.New("inconsistent buffer length")

// Coordinates is a packed buffer of generalized coordinates, 12 values per body.
type Coordinates []float64

// Velocities is a packed buffer of generalized velocities, 6 values per body.
type Velocities []float64

// Forces is a packed buffer of generalized forces, 6 values per body.
type Forces []float64

func bodies(length, stride int, name string) (int, error) {
	if length%stride != 0 {
		return 0, errors.Wrapf(ErrBufferLength, "%s buffer of length %d is not a multiple of %d", name, length, stride)
	}

	return length / stride, nil
}

func (q Coordinates) Bodies() (int, error) {
	return bodies(len(q), CoordinatesPerBody, "coordinates")
}

func (qdot Velocities) Bodies() (int, error) {
	return bodies(len(qdot), VelocitiesPerBody, "velocities")
}

func (f Forces) Bodies() (int, error) {
	return bodies(len(f), ForcesPerBody, "forces")
}

// CoordinateView is the 12-value slice of one body in a Coordinates buffer.
type CoordinateView []float64

// Body returns the view of body i; writes through the view update q.
func (q Coordinates) Body(i int) CoordinateView {
	return CoordinateView(q[i*CoordinatesPerBody : (i+1)*CoordinatesPerBody : (i+1)*CoordinatesPerBody])
}

func (v CoordinateView) Rotation() mgl64.Mat3 {
	var r mgl64.Mat3
	copy(r[:], v[:9])
	return r
}

func (v CoordinateView) SetRotation(r mgl64.Mat3) {
	copy(v[:9], r[:])
}

func (v CoordinateView) Position() mgl64.Vec3 {
	return mgl64.Vec3{v[9], v[10], v[11]}
}

func (v CoordinateView) SetPosition(p mgl64.Vec3) {
	copy(v[9:12], p[:])
}

func (v CoordinateView) Transform() actor.Transform {
	return actor.Transform{Position: v.Position(), Rotation: v.Rotation()}
}

func (v CoordinateView) SetTransform(t actor.Transform) {
	v.SetRotation(t.Rotation)
	v.SetPosition(t.Position)
}

// VelocityView is the 6-value slice of one body in a Velocities buffer.
type VelocityView []float64

func (qdot Velocities) Body(i int) VelocityView {
	return VelocityView(qdot[i*VelocitiesPerBody : (i+1)*VelocitiesPerBody : (i+1)*VelocitiesPerBody])
}

func (v VelocityView) Angular() mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func (v VelocityView) Linear() mgl64.Vec3 {
	return mgl64.Vec3{v[3], v[4], v[5]}
}

func (v VelocityView) SetAngular(omega mgl64.Vec3) {
	copy(v[0:3], omega[:])
}

func (v VelocityView) SetLinear(velocity mgl64.Vec3) {
	copy(v[3:6], velocity[:])
}

// Body returns the generalized force of body i.
func (f Forces) Body(i int) actor.GeneralizedForce {
	base := i * ForcesPerBody
	return actor.GeneralizedForce{
		Torque: mgl64.Vec3{f[base], f[base+1], f[base+2]},
		Force:  mgl64.Vec3{f[base+3], f[base+4], f[base+5]},
	}
}

// Pack writes the state of bodies into newly allocated buffers.
func Pack(rigidBodies []*actor.RigidBody) (Coordinates, Velocities) {
	q := make(Coordinates, CoordinatesPerBody*len(rigidBodies))
	qdot := make(Velocities, VelocitiesPerBody*len(rigidBodies))

	for i, body := range rigidBodies {
		q.Body(i).SetTransform(body.Transform)
		qdot.Body(i).SetAngular(body.AngularVelocity)
		qdot.Body(i).SetLinear(body.Velocity)
	}

	return q, qdot
}

// Unpack builds dynamic bodies, each with a new ID, from packed buffers and
// per-body mass properties. Bodies with invalid mass properties are
// reported and left nil.
func Unpack(q Coordinates, qdot Velocities, inertias []actor.SpatialInertia) ([]*actor.RigidBody, error) {
	n, err := checkBuffers(q, qdot, inertias, nil)
	if err != nil {
		return nil, err
	}

	rigidBodies := make([]*actor.RigidBody, n)
	errs := make([]error, n)
	for i := range rigidBodies {
		rigidBodies[i], errs[i] = unpackBody(q, qdot, inertias, i)
		if rigidBodies[i] != nil {
			rigidBodies[i].ID = uuid.New()
		}
	}

	return rigidBodies, combine(errs)
}

func unpackBody(q Coordinates, qdot Velocities, inertias []actor.SpatialInertia, i int) (*actor.RigidBody, error) {
	body, err := actor.NewDynamicBody(q.Body(i).Transform(), inertias[i])
	if err != nil {
		return nil, errors.Wrapf(err, "body %d", i)
	}
	body.AngularVelocity = qdot.Body(i).Angular()
	body.Velocity = qdot.Body(i).Linear()

	return body, nil
}

// checkBuffers returns the body count shared by every buffer. A nil forces
// buffer is not checked.
func checkBuffers(q Coordinates, qdot Velocities, inertias []actor.SpatialInertia, forces Forces) (int, error) {
	n, err := q.Bodies()
	if err != nil {
		return 0, err
	}

	nv, err := qdot.Bodies()
	if err != nil {
		return 0, err
	}
	if nv != n {
		return 0, errors.Wrapf(ErrBufferLength, "%d bodies in coordinates, %d in velocities", n, nv)
	}
	if len(inertias) != n {
		return 0, errors.Wrapf(ErrBufferLength, "%d bodies in coordinates, %d mass properties", n, len(inertias))
	}

	if forces != nil {
		nf, err := forces.Bodies()
		if err != nil {
			return 0, err
		}
		if nf != n {
			return 0, errors.Wrapf(ErrBufferLength, "%d bodies in coordinates, %d in forces", n, nf)
		}
	}

	return n, nil
}
