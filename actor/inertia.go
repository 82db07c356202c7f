package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MaxInertiaCondition is the largest accepted condition number of an inertia
// tensor. Beyond it the inversion in the angular update loses too many digits.
const MaxInertiaCondition = 1e12

// symmetryTolerance is relative to the largest entry of the tensor.
const symmetryTolerance = 1e-9

var (
	ErrInvalidMass    = errors.New("invalid mass")
	ErrInvalidInertia = errors.New("invalid inertia tensor")
)

// SpatialInertia holds the mass and the body-frame inertia tensor (about the
// center of mass) of a rigid body.
type SpatialInertia struct {
	Mass    float64
	Inertia mgl64.Mat3
}

// Validate checks that the mass is positive and the tensor symmetric
// positive definite and well conditioned.
func (s SpatialInertia) Validate() error {
	if err := ValidateMass(s.Mass); err != nil {
		return err
	}

	return ValidateInertia(s.Inertia)
}

// Dense returns the 6x6 block-diagonal generalized mass matrix diag(I, m*I3).
func (s SpatialInertia) Dense() *mat.Dense {
	d := mat.NewDense(6, 6, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			d.Set(row, col, s.Inertia.At(row, col))
		}
		d.Set(row+3, row+3, s.Mass)
	}

	return d
}

func ValidateMass(mass float64) error {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return errors.Wrapf(ErrInvalidMass, "mass %g must be positive and finite", mass)
	}

	return nil
}

func ValidateInertia(inertia mgl64.Mat3) error {
	var scale float64
	for _, v := range inertia {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidInertia, "non-finite entry in %v", inertia)
		}
		scale = math.Max(scale, math.Abs(v))
	}
	if scale == 0 {
		return errors.Wrap(ErrInvalidInertia, "zero tensor")
	}

	for row := 0; row < 3; row++ {
		for col := row + 1; col < 3; col++ {
			if math.Abs(inertia.At(row, col)-inertia.At(col, row)) > symmetryTolerance*scale {
				return errors.Wrapf(ErrInvalidInertia, "not symmetric at (%d,%d): %v", row, col, inertia)
			}
		}
	}

	sym := mat.NewSymDense(3, nil)
	for row := 0; row < 3; row++ {
		for col := row; col < 3; col++ {
			sym.SetSym(row, col, inertia.At(row, col))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return errors.Wrapf(ErrInvalidInertia, "not positive definite: %v", inertia)
	}
	if cond := chol.Cond(); cond > MaxInertiaCondition {
		return errors.Wrapf(ErrInvalidInertia, "near singular, condition number %g", cond)
	}

	return nil
}
