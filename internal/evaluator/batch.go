// Package evaluator evaluates many hand strings concurrently.
package evaluator

import (
	"context"
	"io"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/handeval/poker"
)

// Result is the outcome of evaluating one input. Exactly one of Hand and
// Err is meaningful.
type Result struct {
	Index int
	Input string
	Hand  poker.Hand
	Err   error
}

// OK reports whether the input produced a valid hand.
func (r Result) OK() bool {
	return r.Err == nil
}

// Evaluator parses and evaluates batches of hands on a bounded worker pool.
type Evaluator struct {
	workers int
	logger  *log.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithWorkers bounds the number of concurrent evaluations. Values below one
// are ignored.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger used for batch diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger.WithPrefix("evaluator")
		}
	}
}

// New creates an Evaluator. By default it uses one worker per CPU and
// discards logs.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		workers: runtime.GOMAXPROCS(0),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured concurrency limit.
func (e *Evaluator) Workers() int {
	return e.workers
}

// Evaluate parses every input as a hand. Invalid inputs are reported in
// their Result and do not stop the batch; the returned error is non-nil
// only when ctx is cancelled. Results are in input order.
func (e *Evaluator) Evaluate(ctx context.Context, inputs []string) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hand, err := poker.ParseHand(input)
			results[i] = Result{Index: i, Input: input, Hand: hand, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Warn("Batch cancelled", "inputs", len(inputs), "error", err)
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			e.logger.Debug("Invalid hand", "index", r.Index, "input", r.Input, "error", r.Err)
		}
	}
	e.logger.Debug("Batch evaluated", "inputs", len(inputs), "failed", failed, "workers", e.workers)

	return results, nil
}

// Ranked returns the valid results ordered strongest first. Hands of equal
// rank keep input order.
func Ranked(results []Result) []Result {
	var ranked []Result
	for _, r := range results {
		if r.OK() {
			ranked = append(ranked, r)
		}
	}
	slices.SortStableFunc(ranked, func(a, b Result) int {
		return b.Hand.Compare(a.Hand)
	})
	return ranked
}

// Failed returns the results whose input could not be evaluated.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}
