package simulate

import (
	"math"
	"runtime"
	"sync"

	"github.com/quantcore/riskengine/models"
	"golang.org/x/exp/rand"
)

// SimulatePaths runs numPaths independent single-asset paths of model
// from s0 over t years split into steps sub-steps, fanned out across
// GOMAXPROCS worker goroutines. It supplements the single-step API with
// full path generation for Monte Carlo cross-checks of closed-form
// prices.
func SimulatePaths(model models.Model, s0, r, sigma, t float64, steps, numPaths int, seed uint64) ([]float64, error) {
	dt := t / float64(steps)
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > numPaths {
		numWorkers = numPaths
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	pathsPerWorker := numPaths / numWorkers
	remainder := numPaths - pathsPerWorker*numWorkers

	results := make([]float64, numPaths)
	var wg sync.WaitGroup
	var firstErr error
	var mu sync.Mutex

	offset := 0
	for w := 0; w < numWorkers; w++ {
		n := pathsPerWorker
		if w < remainder {
			n++
		}
		start := offset
		offset += n

		wg.Add(1)
		go func(start, n int, workerSeed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(workerSeed))

			for i := 0; i < n; i++ {
				price := s0
				for step := 0; step < steps; step++ {
					next, err := model.SimulateStepWithShock(price, r, sigma, dt, rng.NormFloat64())
					if err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
						return
					}
					price = next
				}
				results[start+i] = price
			}
		}(start, n, seed+uint64(w)+1)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// MonteCarloOptionPrice cross-checks a closed-form option price by
// averaging discounted payoffs over simulated terminal prices.
func MonteCarloOptionPrice(model models.Model, s0, k, r, sigma, t float64, isCall bool, numPaths int, seed uint64) (float64, error) {
	terminals, err := SimulatePaths(model, s0, r, sigma, t, tradingDaysPerYear, numPaths, seed)
	if err != nil {
		return 0, err
	}

	var sumPayoff float64
	for _, sT := range terminals {
		if isCall {
			sumPayoff += math.Max(sT-k, 0)
		} else {
			sumPayoff += math.Max(k-sT, 0)
		}
	}

	return math.Exp(-r*t) * sumPayoff / float64(len(terminals)), nil
}
