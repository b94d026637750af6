// Package batch validates many MAF files concurrently.
package batch

import (
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/mafvalidate/internal/maf"
)

// WorkItem is a file queued for validation.
type WorkItem struct {
	Seq  int
	Path string
}

// WorkResult holds the validation outcome for a single file.
type WorkResult struct {
	Seq    int
	Path   string
	Result *maf.Result
	Err    error
}

// Pool validates files with a fixed set of workers. Each worker owns its
// own maf.Validator, so no validation state is shared.
type Pool struct {
	opts   maf.Options
	logger *zap.Logger
}

// NewPool creates a pool that validates with the given options.
func NewPool(opts maf.Options) *Pool {
	return &Pool{
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger passed on to each worker's validator.
func (p *Pool) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Run validates work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (p *Pool) Run(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			v := maf.NewValidator(p.opts)
			v.SetLogger(p.logger)
			for item := range items {
				res, err := v.ValidateFile(item.Path)
				results <- WorkResult{
					Seq:    item.Seq,
					Path:   item.Path,
					Result: res,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// ValidateAll validates paths with the given number of workers and calls
// fn for each outcome in the order of paths.
func (p *Pool) ValidateAll(paths []string, workers int, fn func(WorkResult) error) error {
	items := make(chan WorkItem, len(paths))
	for i, path := range paths {
		items <- WorkItem{Seq: i, Path: path}
	}
	close(items)

	return OrderedCollect(p.Run(items, workers), fn)
}

// Record is the flattened outcome of validating one file, as written to
// reports and the result store.
type Record struct {
	Path            string
	Valid           bool
	Kind            maf.Kind // zero unless a format violation was found
	Line            int
	Text            string
	Message         string
	Lines           int
	Blocks          int
	Sequences       int
	Sources         int
	Digest          string
	CheckChromNames bool
}

// NewRecord flattens a WorkResult.
func NewRecord(r WorkResult, opts maf.Options) Record {
	rec := Record{Path: r.Path, CheckChromNames: opts.CheckChromNames}
	if r.Err != nil {
		var ve *maf.ValidationError
		if errors.As(r.Err, &ve) {
			rec.Kind = ve.Kind
			rec.Line = ve.Line
			rec.Text = ve.Text
			rec.Message = ve.Message
		} else {
			rec.Message = r.Err.Error()
		}
		return rec
	}

	rec.Valid = true
	rec.Lines = r.Result.Lines
	rec.Blocks = r.Result.Blocks
	rec.Sequences = r.Result.Sequences
	rec.Sources = r.Result.Sources
	rec.Digest = r.Result.Digest
	return rec
}
