package rigid

import (
	"github.com/akmonengine/rigid/actor"
	"github.com/pkg/errors"
)

// IntegrateStep advances every body of the packed buffers by dt and writes
// the result back into q and qdot. A nil forces buffer means no load.
// Bodies whose mass properties are invalid are left untouched; their errors
// are combined into the returned error while the other bodies still advance.
func IntegrateStep(q Coordinates, qdot Velocities, dt float64, inertias []actor.SpatialInertia, forces Forces) error {
	return IntegrateStepParallel(q, qdot, dt, inertias, forces, DEFAULT_WORKERS)
}

// IntegrateStepParallel is IntegrateStep with bodies split across workers
// goroutines, each owning a disjoint range of the buffers.
func IntegrateStepParallel(q Coordinates, qdot Velocities, dt float64, inertias []actor.SpatialInertia, forces Forces, workers int) error {
	if err := actor.ValidateTimestep(dt); err != nil {
		return err
	}
	if _, err := checkBuffers(q, qdot, inertias, forces); err != nil {
		return err
	}

	err := task(workers, inertias, func(i int, _ actor.SpatialInertia) error {
		body, err := unpackBody(q, qdot, inertias, i)
		if err != nil {
			return err
		}

		var force actor.GeneralizedForce
		if forces != nil {
			force = forces.Body(i)
		}
		if err := body.Integrate(dt, force); err != nil {
			return errors.Wrapf(err, "body %d", i)
		}

		q.Body(i).SetTransform(body.Transform)
		qdot.Body(i).SetAngular(body.AngularVelocity)
		qdot.Body(i).SetLinear(body.Velocity)
		return nil
	})
	if err != nil {
		Logger().Warn("bodies rejected by integration", "err", err)
	}

	return err
}
