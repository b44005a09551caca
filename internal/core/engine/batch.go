// Package engine runs identifier checks in bulk.
package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jidcheck/jidcheck/internal/core"
	"github.com/jidcheck/jidcheck/internal/core/confusable"
)

// DefaultConcurrency is used when Runner.Concurrency is not positive.
const DefaultConcurrency = 4

// Item is the outcome of checking one raw input line.
type Item struct {
	// Raw is the input as supplied by the caller.
	Raw string
	// Input is the normalized identifier that was checked.
	Input  string
	Result core.CheckResult
	// Err is set when the input was rejected by the input policy.
	Err error
	// Duration is the time spent on the policy and the classifier.
	Duration time.Duration
}

// Rejected reports whether the input policy rejected the item.
func (i Item) Rejected() bool {
	return i.Err != nil
}

// Runner checks many identifiers concurrently.
type Runner struct {
	Concurrency int
	MaxLength   int
	// Observe, when set, is called once per checked item from worker goroutines.
	Observe func(Item)
}

// Run checks every input and returns items in input order. Rejected inputs
// are reported in Item.Err rather than failing the run. The only error
// returned is ctx.Err() when the context is cancelled.
func (r *Runner) Run(ctx context.Context, inputs []string) ([]Item, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	items := make([]Item, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for idx, raw := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[idx] = r.checkOne(raw)
			if r.Observe != nil {
				r.Observe(items[idx])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// CheckOne applies the input policy and checks a single identifier.
func (r *Runner) CheckOne(raw string) Item {
	return r.checkOne(raw)
}

func (r *Runner) checkOne(raw string) Item {
	start := time.Now()
	input, err := core.NormalizeInput(raw, r.MaxLength)
	if err != nil {
		return Item{Raw: raw, Err: err, Result: core.NewCheckResult(input, nil), Duration: time.Since(start)}
	}
	return Item{Raw: raw, Input: input, Result: confusable.Check(input), Duration: time.Since(start)}
}

// Summary aggregates a batch of items.
type Summary struct {
	Total    int `json:"total"`
	Clean    int `json:"clean"`
	Flagged  int `json:"flagged"`
	Rejected int `json:"rejected"`
}

// Summarize counts clean, flagged and rejected items.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, item := range items {
		switch {
		case item.Rejected():
			s.Rejected++
		case item.Result.HasFlagged:
			s.Flagged++
		default:
			s.Clean++
		}
	}
	return s
}
