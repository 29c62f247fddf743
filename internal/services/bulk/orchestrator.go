package bulk

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Orchestrator runs per-item fetches on a bounded pool. A failed item is
// logged and left out of the result; it never fails the whole run.
type Orchestrator struct {
	maxWorkers int
	verbose    bool
}

func NewOrchestrator(maxWorkers int, verbose bool) *Orchestrator {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Orchestrator{maxWorkers: maxWorkers, verbose: verbose}
}

// Workers is the pool size used for n items: min(maxWorkers, n), and zero
// when there is nothing to do.
func (o *Orchestrator) Workers(n int) int {
	if n <= 0 {
		return 0
	}
	if n < o.maxWorkers {
		return n
	}
	return o.maxWorkers
}

// Run calls fn once per distinct key and collects the successful results.
// Duplicate keys are fetched once.
func Run[K comparable, V any](ctx context.Context, o *Orchestrator, tag string, keys []K, fn func(context.Context, K) (V, error)) map[K]V {
	unique := make([]K, 0, len(keys))
	seen := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}

	results := make(map[K]V, len(unique))
	workers := o.Workers(len(unique))
	if workers == 0 {
		return results
	}

	var (
		mu     sync.Mutex
		failed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, key := range unique {
		g.Go(func() error {
			v, err := safeCall(gctx, fn, key)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.Printf("[%s] Failed for %v: %v", tag, key, err)
				return nil
			}
			results[key] = v
			return nil
		})
	}
	_ = g.Wait()

	log.Printf("[%s] %d/%d items fetched with %d workers (%d failed)", tag, len(results), len(unique), workers, failed)
	return results
}

func safeCall[K comparable, V any](ctx context.Context, fn func(context.Context, K) (V, error), key K) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, key)
}
