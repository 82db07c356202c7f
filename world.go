package rigid

import (
	"github.com/akmonengine/rigid/actor"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const DEFAULT_WORKERS = 1

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Substeps splits each Step, forces are held constant across them
	Substeps int
	Workers  int
	// Logger overrides the package logger when set
	Logger *log.Logger
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}
}

// Body returns the body with the given ID, or nil
func (w *World) Body(id uuid.UUID) *actor.RigidBody {
	for _, b := range w.Bodies {
		if b.ID == id {
			return b
		}
	}

	return nil
}

func (w *World) logger() *log.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return Logger()
}

// Step advances every body by dt. forces holds the external load per body
// ID, bodies without an entry are integrated force-free. Bodies are
// independent and are processed by Workers goroutines.
func (w *World) Step(dt float64, forces map[uuid.UUID]actor.GeneralizedForce) error {
	if err := actor.ValidateTimestep(dt); err != nil {
		return err
	}

	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(1, w.Substeps)
	h := dt / float64(w.Substeps)

	// A rejected body fails identically on every substep, keep the first report
	var stepErr error
	for range w.Substeps {
		if err := w.integrate(h, forces); err != nil && stepErr == nil {
			stepErr = err
		}
	}

	for _, err := range multierr.Errors(stepErr) {
		w.logger().Warn("body rejected", "err", err)
	}
	w.logger().Debug("world step", "dt", dt, "substeps", w.Substeps, "bodies", len(w.Bodies), "energy", w.KineticEnergy())

	return stepErr
}

func (w *World) integrate(h float64, forces map[uuid.UUID]actor.GeneralizedForce) error {
	return task(w.Workers, w.Bodies, func(_ int, body *actor.RigidBody) error {
		return body.Integrate(h, forces[body.ID])
	})
}

// KineticEnergy sums the kinetic energy of every body
func (w *World) KineticEnergy() float64 {
	var energy float64
	for _, b := range w.Bodies {
		energy += b.KineticEnergy()
	}

	return energy
}
