// Package scheduler runs background jobs on fixed schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faisal-shohag/contesthub-server/pkg/logger"
)

// Job is a unit of background work.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job.
	// The context is cancelled when the scheduler is stopping.
	Run(ctx context.Context) error

	// Description returns a human-readable description of the job.
	Description() string
}

// Schedule defines when a job should run.
type Schedule interface {
	// Next returns the next time the job should run after the given time.
	Next(t time.Time) time.Time

	// String returns a human-readable representation of the schedule.
	String() string
}

// JobResult contains the result of a job execution.
type JobResult struct {
	JobName     string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Success     bool
	Error       error
}

type scheduledJob struct {
	job      Job
	schedule Schedule
	nextRun  time.Time
	running  bool
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Scheduler runs registered jobs at their scheduled times.
// The check loop ticks once a second; jobs run in their own goroutines,
// and a job never overlaps with itself.
type Scheduler struct {
	mu sync.RWMutex

	log  *logger.Logger
	jobs map[string]*scheduledJob

	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a new Scheduler.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		log:  log,
		jobs: make(map[string]*scheduledJob),
	}
}

// Register adds a job with its schedule.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil || schedule == nil {
		return fmt.Errorf("scheduler: job and schedule are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("scheduler: job already registered: %s", job.Name())
	}

	s.jobs[job.Name()] = &scheduledJob{
		job:      job,
		schedule: schedule,
		nextRun:  schedule.Next(time.Now()),
	}

	s.log.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("schedule", schedule.String()),
	)
	return nil
}

// Start begins the scheduling loop. Non-blocking.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler: already running")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runLoop()

	s.log.Info("scheduler started")
	return nil
}

// Stop stops the loop and waits for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, jobName string) (*JobResult, error) {
	s.mu.RLock()
	sj, ok := s.jobs[jobName]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scheduler: unknown job: %s", jobName)
	}

	result := s.execute(ctx, sj.job)
	return &result, nil
}

func (s *Scheduler) runLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.checkAndRunJobs(now)
		}
	}
}

func (s *Scheduler) checkAndRunJobs(now time.Time) {
	s.mu.Lock()
	due := make([]*scheduledJob, 0)
	for _, sj := range s.jobs {
		if !sj.running && !sj.nextRun.After(now) {
			sj.running = true
			sj.nextRun = sj.schedule.Next(now)
			due = append(due, sj)
		}
	}
	s.mu.Unlock()

	for _, sj := range due {
		s.wg.Add(1)
		go func(sj *scheduledJob) {
			defer s.wg.Done()
			result := s.execute(s.ctx, sj.job)

			s.mu.Lock()
			sj.running = false
			s.mu.Unlock()

			if !result.Success {
				s.log.Error("job failed",
					logger.String("job", result.JobName),
					logger.Latency(result.Duration),
					logger.Err(result.Error),
				)
			}
		}(sj)
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) JobResult {
	started := time.Now()

	s.log.Debug("job starting", logger.String("job", job.Name()))
	err := job.Run(ctx)
	completed := time.Now()

	result := JobResult{
		JobName:     job.Name(),
		StartedAt:   started,
		CompletedAt: completed,
		Duration:    completed.Sub(started),
		Success:     err == nil,
		Error:       err,
	}

	if err == nil {
		s.log.Info("job completed",
			logger.String("job", job.Name()),
			logger.Latency(result.Duration),
		)
	}
	return result
}
