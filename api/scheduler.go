/*
scheduler.go - Cron-driven nightly evaluation

PURPOSE:
  Runs the classification batch on a cron schedule, evaluating the
  previous calendar day (production night shifts punch out after
  midnight, so yesterday's punch set is only complete in the early
  morning). Manual runs go through the /api/evaluate endpoint instead.

SCHEDULE:
  A standard 5-field cron expression (minute hour day-of-month month
  day-of-week). Examples: "0 6 * * *" (daily 6am), "0 6 * * 1-5"
  (weekdays 6am). An empty schedule disables the scheduler.

USAGE:
  sched, err := NewEvaluationScheduler(handler, "0 6 * * *", time.Local)
  sched.Start()
  // ... later
  sched.Stop()

SEE ALSO:
  - batch/runner.go: The evaluation itself
  - handlers.go: Evaluate endpoint (manual runs)
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/warp/attendance-engine/engine"
)

// EvaluationScheduler triggers batch evaluation on a cron schedule.
type EvaluationScheduler struct {
	Handler  *Handler
	Schedule cron.Schedule
	Location *time.Location

	// now is swappable for tests.
	now func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup
	mu   sync.Mutex
	on   bool
}

// NewEvaluationScheduler parses the cron expression and builds a
// scheduler. An empty expression returns (nil, nil): disabled.
func NewEvaluationScheduler(h *Handler, expr string, loc *time.Location) (*EvaluationScheduler, error) {
	if expr == "" {
		return nil, nil
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid evaluation schedule %q: %w", expr, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &EvaluationScheduler{
		Handler:  h,
		Schedule: sched,
		Location: loc,
		now:      time.Now,
		stop:     make(chan struct{}),
	}, nil
}

// Start begins the scheduler loop.
func (s *EvaluationScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.on {
		return
	}
	s.on = true
	s.wg.Add(1)
	go s.run()
	log.Println("[Scheduler] Started")
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (s *EvaluationScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.on {
		return
	}
	close(s.stop)
	s.wg.Wait()
	s.on = false
	log.Println("[Scheduler] Stopped")
}

func (s *EvaluationScheduler) run() {
	defer s.wg.Done()

	for {
		now := s.now().In(s.Location)
		next := s.Schedule.Next(now)
		log.Printf("[Scheduler] Next evaluation at %s", next.Format("Mon Jan 2 15:04"))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-timer.C:
			s.evaluateYesterday()
		case <-s.stop:
			timer.Stop()
			return
		}
	}
}

// evaluateYesterday runs the batch for the previous calendar day.
func (s *EvaluationScheduler) evaluateYesterday() {
	ctx := context.Background()
	date := engine.DateOf(s.now().In(s.Location).AddDate(0, 0, -1))

	cfg, err := s.Handler.Store.Rules(ctx)
	var summary any
	switch {
	case errors.Is(err, engine.ErrRulesNotFound):
		summary, err = s.Handler.Runner.RunUnconfigured(ctx, date)
	case err != nil:
		log.Printf("[Scheduler] Loading rules failed: %v", err)
		return
	default:
		summary, err = s.Handler.Runner.Run(ctx, cfg, date)
	}

	if err != nil {
		log.Printf("[Scheduler] Evaluation for %s failed: %v", date, err)
		return
	}
	log.Printf("[Scheduler] Evaluation for %s complete: %+v", date, summary)
}
