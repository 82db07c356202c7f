package mesh

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// centerTolerance is the relative slack allowed when checking that the
// center of mass lies within the mesh bounds.
const centerTolerance = 1e-9

func errorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidMesh, format, args...)
}

// ComputeInertia returns the mass, center of mass and inertia tensor (about
// the center of mass) of the solid enclosed by m, for a uniform density.
// The mesh must be closed with outward-facing triangles.
func ComputeInertia(m *SurfaceMesh, density float64) (MassProperties, error) {
	if err := checkInput(m, density); err != nil {
		return MassProperties{}, err
	}

	var acc Accumulator
	for i := range m.Triangles {
		acc.AddTriangle(m.Corners(i))
	}

	return finalize(m, &acc, density)
}

// ComputeInertiaParallel is ComputeInertia with the triangles split across
// workers goroutines. Results match ComputeInertia up to summation order.
func ComputeInertiaParallel(m *SurfaceMesh, density float64, workers int) (MassProperties, error) {
	if err := checkInput(m, density); err != nil {
		return MassProperties{}, err
	}

	workers = max(1, min(workers, len(m.Triangles)))
	chunkSize := (len(m.Triangles) + workers - 1) / workers
	partials := make([]Accumulator, workers)

	var g errgroup.Group
	for workerID := 0; workerID < workers; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, len(m.Triangles))
		partial := &partials[workerID]
		g.Go(func() error {
			for i := start; i < end; i++ {
				partial.AddTriangle(m.Corners(i))
			}
			return nil
		})
	}
	g.Wait()

	var acc Accumulator
	for _, p := range partials {
		acc.Merge(p)
	}

	return finalize(m, &acc, density)
}

func checkInput(m *SurfaceMesh, density float64) error {
	if m == nil {
		return errorf("nil mesh")
	}
	if !(density > 0) || math.IsInf(density, 0) {
		return errorf("density %g must be positive and finite", density)
	}

	return m.Validate()
}

func finalize(m *SurfaceMesh, acc *Accumulator, density float64) (MassProperties, error) {
	props, err := acc.Finalize(density)
	if err != nil {
		return MassProperties{}, err
	}

	// A closed solid has its center of mass inside its bounds
	bounds := m.Bounds()
	tolerance := centerTolerance * math.Max(1, bounds.Size().Len())
	if !bounds.ContainsPoint(props.Center, tolerance) {
		return MassProperties{}, errorf("center of mass %v outside bounds [%v, %v]", props.Center, bounds.Min, bounds.Max)
	}

	return props, nil
}
