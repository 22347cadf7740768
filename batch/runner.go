/*
Package batch runs one day's evaluations concurrently.

PURPOSE:
  Classification is a pure function of (rules, punch set), so evaluations
  for different employee-days are fully independent. The runner fans the
  day's punch sets out to a bounded worker pool, appends exactly one
  result per employee-day to the result store, and reports a summary.

GUARANTEES:
  - Rules are validated once up front; an invalid configuration fails the
    whole batch before any employee is classified.
  - No ordering between employee-days; no shared mutable state besides
    the destination store.
  - Duplicate-run protection is the store's uniqueness index, not the
    runner: an employee-day already recorded counts as skipped.
*/
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/factory"
)

const defaultWorkers = 8

// Runner evaluates all pending punch sets for a date.
type Runner struct {
	Punches  engine.PunchSource
	Results  engine.ResultStore
	Dispatch *factory.Dispatcher

	// Workers bounds the evaluation pool. Zero means defaultWorkers.
	Workers int
}

// NewRunner builds a runner over the given collaborators.
func NewRunner(punches engine.PunchSource, results engine.ResultStore, dispatch *factory.Dispatcher) *Runner {
	return &Runner{Punches: punches, Results: results, Dispatch: dispatch}
}

// Summary reports what one batch run did.
type Summary struct {
	Date      engine.Date
	Evaluated int
	Skipped   int // employee-days already recorded
	Failed    int
}

// Run evaluates every punch set recorded for date. cfg is parsed and
// validated first; ErrInvalidRuleSet aborts the batch with nothing
// written. An unconfigured system (zero-value cfg disallowed upstream)
// is expressed by the caller passing a nil-rules evaluation instead.
func (r *Runner) Run(ctx context.Context, cfg engine.RuleConfig, date engine.Date) (Summary, error) {
	rules, err := cfg.Parse()
	if err != nil {
		return Summary{}, fmt.Errorf("batch for %s rejected: %w", date, err)
	}
	return r.run(ctx, rules, date)
}

// RunUnconfigured evaluates a date with no standard rule set configured.
// Standard-department results come back all-normal with no computation.
func (r *Runner) RunUnconfigured(ctx context.Context, date engine.Date) (Summary, error) {
	return r.run(ctx, nil, date)
}

func (r *Runner) run(ctx context.Context, rules *engine.RuleSet, date engine.Date) (Summary, error) {
	punchSets, err := r.Punches.PunchSetsForDate(ctx, date)
	if err != nil {
		return Summary{}, fmt.Errorf("loading punch sets for %s: %w", date, err)
	}

	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		summary = Summary{Date: date}
		jobs    = make(chan engine.PunchSet)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ps := range jobs {
				result := r.Dispatch.Evaluate(rules, ps)
				err := r.Results.SaveResult(ctx, result)

				mu.Lock()
				switch {
				case err == nil:
					summary.Evaluated++
				case errors.Is(err, engine.ErrDuplicateRecord):
					summary.Skipped++
				default:
					summary.Failed++
					log.Printf("[Batch] save result %s/%s: %v", ps.EmployeeID, date, err)
				}
				mu.Unlock()
			}
		}()
	}

	for _, ps := range punchSets {
		select {
		case jobs <- ps:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return summary, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if summary.Failed > 0 {
		return summary, fmt.Errorf("batch for %s: %d of %d results failed to persist",
			date, summary.Failed, len(punchSets))
	}
	return summary, nil
}
