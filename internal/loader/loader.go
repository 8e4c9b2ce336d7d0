// Package loader implements the batching and shuffling engine behind
// dataset iterators. It turns an indexable item collection into a finite,
// restartable, lazy sequence of batches: a deterministic (seed, epoch)
// permutation when shuffling, fixed-size index groups, and optional
// worker-parallel item fetching that never changes batch contents or
// ordering.
package loader

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/internal/logger"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// epochMix spreads consecutive epoch numbers across the seed space
// (Fibonacci hashing constant).
const epochMix uint64 = 0x9E3779B97F4A7C15

// batchBuffer is the number of completed batches a worker-backed iterator
// keeps ready ahead of the consumer.
const batchBuffer = 2

// Items is a finite, indexable collection of transformed samples. Get must
// be safe for concurrent use when NumWorkers > 0.
type Items interface {
	Len() int
	Get(index int) (classy.Sample, error)
}

// Config holds the batching parameters fixed at dataset construction.
type Config struct {
	// Name labels the dataset in logs.
	Name string
	// BatchSize is the number of samples per batch (positive).
	BatchSize int
	// Shuffle enables the deterministic per-epoch permutation.
	Shuffle bool
	// DropLast drops an incomplete trailing batch instead of emitting it
	// shorter.
	DropLast bool
}

// Iterator is a single pass over an item collection in batch-size groups.
// Usage follows the scanner idiom:
//
//	it, err := loader.New(items, cfg, opts)
//	defer it.Close()
//	for it.Next() {
//	    batch := it.Batch()
//	}
//	if err := it.Err(); err != nil { ... }
//
// Iterators are not safe for concurrent use by multiple goroutines, but
// any number of independent iterators may run over the same collection.
type Iterator struct {
	items   Items
	batches [][]int
	cursor  int

	current classy.Batch
	err     error

	// worker mode
	results <-chan batchResult
	cancel  context.CancelFunc
	closed  bool
}

type batchResult struct {
	batch classy.Batch
	err   error
}

// New creates an iterator over items. The index order is the identity, or
// a permutation keyed by (opts.ShuffleSeed, opts.Epoch) when cfg.Shuffle
// is set: the same seed and epoch always reproduce the same order.
func New(items Items, cfg Config, opts classy.IteratorOptions) (*Iterator, error) {
	if items == nil {
		return nil, errhandling.NewInvalidConfigError("iterator requires an item collection", nil)
	}
	if cfg.BatchSize <= 0 {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("batch size must be positive, got %d", cfg.BatchSize), nil)
	}
	if opts.NumWorkers < 0 {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("num_workers must not be negative, got %d", opts.NumWorkers), nil)
	}
	switch opts.MultiprocessingContext {
	case classy.MPContextNone, classy.MPContextSpawn, classy.MPContextFork, classy.MPContextForkserver:
	default:
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("unsupported multiprocessing context %q", opts.MultiprocessingContext), nil)
	}

	order := indexOrder(items.Len(), cfg.Shuffle, opts.ShuffleSeed, opts.Epoch)
	it := &Iterator{
		items:   items,
		batches: splitBatches(order, cfg.BatchSize, cfg.DropLast),
	}

	logger.WithIteration(logger.IterationContext{
		Dataset:     cfg.Name,
		Epoch:       opts.Epoch,
		ShuffleSeed: opts.ShuffleSeed,
		NumWorkers:  opts.NumWorkers,
	}).Debug("iterator created",
		"length", items.Len(),
		"batch_size", cfg.BatchSize,
		"batches", len(it.batches),
		"shuffle", cfg.Shuffle,
		"drop_last", cfg.DropLast,
	)

	if opts.NumWorkers > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		it.cancel = cancel
		it.results = produce(ctx, items, it.batches, opts.NumWorkers)
	}
	return it, nil
}

// indexOrder returns the iteration order over [0, n): identity, or a
// Fisher-Yates permutation from a source seeded by (seed, epoch).
func indexOrder(n int, shuffle bool, seed, epoch int64) []int {
	if !shuffle {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order
	}
	mixed := uint64(seed) ^ uint64(epoch+1)*epochMix
	rng := rand.New(rand.NewSource(int64(mixed)))
	return rng.Perm(n)
}

// splitBatches groups the index order into batch-size chunks. The trailing
// incomplete chunk is dropped when dropLast is set, emitted shorter
// otherwise.
func splitBatches(order []int, batchSize int, dropLast bool) [][]int {
	batches := make([][]int, 0, (len(order)+batchSize-1)/batchSize)
	for start := 0; start < len(order); start += batchSize {
		end := start + batchSize
		if end > len(order) {
			if dropLast {
				break
			}
			end = len(order)
		}
		batches = append(batches, order[start:end])
	}
	return batches
}

// Next advances to the next batch. It returns false when the pass is
// exhausted or an error occurred; check Err after the loop.
func (it *Iterator) Next() bool {
	if it.err != nil || it.closed {
		return false
	}

	if it.results != nil {
		res, ok := <-it.results
		if !ok {
			return false
		}
		if res.err != nil {
			it.err = res.err
			return false
		}
		it.current = res.batch
		return true
	}

	if it.cursor >= len(it.batches) {
		return false
	}
	batch, err := fetchBatch(it.items, it.batches[it.cursor])
	it.cursor++
	if err != nil {
		it.err = err
		return false
	}
	it.current = batch
	return true
}

// Batch returns the batch produced by the last successful Next.
func (it *Iterator) Batch() classy.Batch {
	return it.current
}

// Err returns the first error encountered during iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// NumBatches returns the total number of batches this pass will produce.
func (it *Iterator) NumBatches() int {
	return len(it.batches)
}

// Close releases worker resources. It is safe to call multiple times and
// after exhaustion; an abandoned iterator must be closed to stop its
// workers promptly.
func (it *Iterator) Close() {
	if it.closed {
		return
	}
	it.closed = true
	if it.cancel != nil {
		it.cancel()
		// Drain so producer goroutines blocked on send can exit.
		for range it.results {
		}
	}
}

// fetchBatch fetches the samples for one index group synchronously, in
// index-group order.
func fetchBatch(items Items, indices []int) (classy.Batch, error) {
	batch := classy.Batch{
		Samples: make([]classy.Sample, len(indices)),
		Indices: append([]int(nil), indices...),
	}
	for pos, index := range indices {
		sample, err := items.Get(index)
		if err != nil {
			return classy.Batch{}, fmt.Errorf("fetching item %d: %w", index, err)
		}
		batch.Samples[pos] = sample
	}
	return batch, nil
}

// produce runs the worker-parallel fetch pipeline. Batches are processed
// one at a time: the positions of the current batch are distributed over
// numWorkers goroutines and reassembled by position before the batch is
// emitted, so worker count and scheduling never affect contents or order.
func produce(ctx context.Context, items Items, batches [][]int, numWorkers int) <-chan batchResult {
	results := make(chan batchResult, batchBuffer)

	go func() {
		defer close(results)
		for _, indices := range batches {
			batch, err := fetchBatchParallel(ctx, items, indices, numWorkers)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case results <- batchResult{err: err}:
				case <-ctx.Done():
				}
				return
			}
			select {
			case results <- batchResult{batch: batch}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return results
}

// fetchBatchParallel fetches one index group using a bounded worker pool,
// writing each sample into its batch position.
func fetchBatchParallel(ctx context.Context, items Items, indices []int, numWorkers int) (classy.Batch, error) {
	batch := classy.Batch{
		Samples: make([]classy.Sample, len(indices)),
		Indices: append([]int(nil), indices...),
	}

	if numWorkers > len(indices) {
		numWorkers = len(indices)
	}

	positions := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range positions {
				sample, err := items.Get(indices[pos])
				if err != nil {
					setErr(fmt.Errorf("fetching item %d: %w", indices[pos], err))
					continue
				}
				batch.Samples[pos] = sample
			}
		}()
	}

	for pos := range indices {
		select {
		case positions <- pos:
		case <-ctx.Done():
			close(positions)
			wg.Wait()
			return classy.Batch{}, ctx.Err()
		}
	}
	close(positions)
	wg.Wait()

	if firstErr != nil {
		return classy.Batch{}, firstErr
	}
	return batch, nil
}
