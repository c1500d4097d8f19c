package optimizer

import "sync"

// parallelFor runs fn over chunks of [0, n) on a fixed worker count,
// falling back to a single synchronous call when n is too small to be
// worth the goroutine overhead. Grounded on the teacher's
// dynamo.ParallelFor, which chunks the same way for its batched
// simulation runs; here it spreads the optimizer's B-axis (independent
// samples, so chunk boundaries need no synchronization) across workers.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	const numWorkers = 4
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			if s < e {
				fn(s, e)
			}
		}(start, end)
	}
	wg.Wait()
}
