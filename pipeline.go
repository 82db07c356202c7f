package rigid

import (
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// task splits data in contiguous chunks, one per worker. Every item is
// processed even when others fail; the errors are combined.
func task[T any](workersCount int, data []T, fn func(i int, data T) error) error {
	workersCount = max(DEFAULT_WORKERS, workersCount)
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount
	errs := make([]error, dataSize)

	var g errgroup.Group
	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			break
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				errs[i] = fn(i, data[i])
			}
			return nil
		})
	}
	g.Wait()

	return combine(errs)
}

func combine(errs []error) error {
	return multierr.Combine(errs...)
}
