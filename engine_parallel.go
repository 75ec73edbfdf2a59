package changedistiller

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// IndexFilesParallel indexes files using a three-phase parallel pipeline:
//
//	Phase A (serial):  Hash check, delete old data, prepare file records.
//	Phase B (parallel): Parse and distill via worker pool into BatchedStores.
//	Phase C (serial):  Commit batches to SQLite.
func (e *Engine) IndexFilesParallel(ctx context.Context, paths []string) error {
	stale := e.stale()

	// ---- Phase A: Serial file preparation ----
	var items []workItem
	var errs []error
	for _, path := range paths {
		item, skip, err := e.prepareFile(ctx, path, stale)
		if err != nil {
			errs = append(errs, fmt.Errorf("prepare %s: %w", path, err))
			continue
		}
		if skip {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return parallelErr(errs)
	}

	// ---- Phase B: Parallel distillation ----
	numWorkers := min(runtime.NumCPU(), len(items))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	type result struct {
		item workItem
		err  error
	}
	resultCh := make(chan result, len(items))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each item owns its BatchedStore, so workers share no writes.
			for item := range workCh {
				err := e.distillFile(ctx, &item)
				resultCh <- result{item: item, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// ---- Phase C: Serial commit ----
	for res := range resultCh {
		if res.err != nil {
			errs = append(errs, e.discardFile(res.item, fmt.Errorf("distill %s: %w", res.item.path, res.err)))
			continue
		}
		if err := e.commitFile(res.item); err != nil {
			errs = append(errs, e.discardFile(res.item, fmt.Errorf("commit %s: %w", res.item.path, err)))
		}
	}

	return parallelErr(errs)
}

func parallelErr(errs []error) error {
	if len(errs) > 0 {
		return fmt.Errorf("parallel indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}
