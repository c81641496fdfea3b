package experiment

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/logging"
	"github.com/san-kum/mdsim/internal/sim"
)

// RunEnsemble runs n independent replicas of cfg concurrently. Replica i is
// seeded with cfg.Seed+i; results come back in replica order.
func RunEnsemble(ctx context.Context, cfg *config.Config, n int, log logging.Logger) ([]*sim.Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("ensemble size must be positive, got %d", n)
	}
	if log == nil {
		log = logging.Noop()
	}

	results := make([]*sim.Result, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			replica := cfg.Clone()
			replica.Seed = cfg.Seed + int64(idx)

			e, err := New(replica, nil, log.With(logging.Int("replica", idx)))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = e.Run(ctx)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("replica %d: %w", i, err)
		}
	}
	return results, nil
}
