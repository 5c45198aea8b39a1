// Package scheduler drives the collection cycles. Each collector runs inside
// its own failure boundary so one source's failure never starves the others,
// and at most one cycle is ever in flight.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorhill/cronexpr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mnhthng/marketpulse/collector"
	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/internal/models"
)

const defaultEvery = 2 * time.Hour

var collectorRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "marketpulse",
	Name:      "collector_runs_total",
	Help:      "Collector job executions by outcome.",
}, []string{"collector", "outcome"})

func init() {
	prometheus.MustRegister(collectorRuns)
}

type Scheduler struct {
	cfg    config.ScheduleConfig
	jobs   []collector.Collector
	logger *log.Logger
}

func New(cfg config.ScheduleConfig, jobs ...collector.Collector) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		jobs:   jobs,
		logger: log.New(log.Writer(), "[SCHED] ", log.LstdFlags),
	}
}

// Run drives cycles until ctx is cancelled. Cancellation stops scheduling
// new cycles; a cycle already in progress always runs to completion. Cycles
// run on the scheduler's own goroutine, so cycle N+1 cannot start before
// cycle N returns.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cfg.RunOnStart {
		s.RunCycle(ctx)
	}
	for {
		timer := time.NewTimer(s.untilNext(time.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Printf("shutting down")
			return nil
		case <-timer.C:
			s.RunCycle(ctx)
		}
	}
}

func (s *Scheduler) untilNext(now time.Time) time.Duration {
	if spec := strings.TrimSpace(s.cfg.Cron); spec != "" {
		expr, err := cronexpr.Parse(spec)
		if err == nil {
			return expr.Next(now).Sub(now)
		}
		s.logger.Printf("WARN: invalid cron %q, falling back to interval: %v", spec, err)
	}
	if s.cfg.Every > 0 {
		return s.cfg.Every
	}
	return defaultEvery
}

// RunCycle executes every job once, in order. An error or panic in one job
// is recorded and never prevents the remaining jobs from running.
func (s *Scheduler) RunCycle(ctx context.Context) []models.JobRun {
	s.logger.Printf("cycle started (%d jobs)", len(s.jobs))
	runs := make([]models.JobRun, 0, len(s.jobs))
	for _, job := range s.jobs {
		runs = append(runs, s.runJob(ctx, job))
	}
	s.logger.Printf("cycle finished")
	return runs
}

func (s *Scheduler) runJob(ctx context.Context, job collector.Collector) (run models.JobRun) {
	run = models.JobRun{
		ID:        uuid.NewString(),
		JobName:   job.Name(),
		StartedAt: time.Now(),
		Outcome:   models.OutcomeOK,
	}
	defer func() {
		if r := recover(); r != nil {
			run.Outcome = models.OutcomeFailed
			run.Reason = fmt.Sprintf("panic: %v", r)
		}
		run.Duration = time.Since(run.StartedAt)
		s.record(run)
	}()

	if err := job.Collect(ctx); err != nil {
		run.Outcome = models.OutcomeFailed
		run.Reason = err.Error()
	}
	return run
}

func (s *Scheduler) record(run models.JobRun) {
	collectorRuns.WithLabelValues(run.JobName, string(run.Outcome)).Inc()
	if run.Outcome == models.OutcomeOK {
		s.logger.Printf("job %s ok (run %s, took %s)", run.JobName, run.ID, run.Duration.Round(time.Millisecond))
		return
	}
	s.logger.Printf("ERROR: job %s failed (run %s): %s", run.JobName, run.ID, run.Reason)
}
