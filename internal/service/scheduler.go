package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/promptstash/backend/internal/logger"
)

// Weekly cadence: every Monday 09:00 UTC.
const (
	scheduleWeekday = time.Monday
	scheduleHour    = 9
	scheduleMinute  = 0

	scheduleDescriptor = "weekly on Monday at 09:00 UTC"
)

// ErrRunInProgress is returned when a pass is requested while another pass
// holds the run token.
var ErrRunInProgress = errors.New("a harvest pass is already running")

// ScheduleState is the externally observable scheduler status. Held in
// memory only; rebuilt on process restart.
type ScheduleState struct {
	LastRunResult *RunResult `json:"last_run_result,omitempty"`
	LastRun       *time.Time `json:"last_run,omitempty"`
	NextRun       *time.Time `json:"next_run,omitempty"`
	IsScheduled   bool       `json:"is_scheduled"`
	IsRunning     bool       `json:"is_running"`
	Schedule      string     `json:"schedule"`
}

// Scheduler owns the recurring weekly trigger, the on-demand trigger path,
// and the process-wide ScheduleState. A run token (mutex + flag) rejects
// overlapping passes so two passes can never race the dedup-then-insert
// sequence.
type Scheduler struct {
	harvest *HarvestService
	logger  *logger.Logger

	mu      sync.RWMutex
	running bool
	state   ScheduleState

	stop     chan struct{}
	stopOnce sync.Once
}

// NewScheduler creates a scheduler around the harvest service.
// Parameters:
//   - harvest: pipeline orchestrator to drive.
//   - log: base logger.
// Returns:
//   - *Scheduler: initialized scheduler (not yet started).
func NewScheduler(harvest *HarvestService, log *logger.Logger) *Scheduler {
	return &Scheduler{
		harvest: harvest,
		logger:  log,
		state:   ScheduleState{Schedule: scheduleDescriptor},
		stop:    make(chan struct{}),
	}
}

// NextRunTime computes the next occurrence of the fixed weekday/time that
// is strictly after the given instant.
// Parameters:
//   - from: reference instant.
// Returns:
//   - time.Time: next scheduled occurrence, in UTC.
func NextRunTime(from time.Time) time.Time {
	t := from.UTC()
	next := time.Date(t.Year(), t.Month(), t.Day(), scheduleHour, scheduleMinute, 0, 0, time.UTC)
	days := (int(scheduleWeekday) - int(next.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(t) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// Start registers the recurring weekly trigger and computes the first
// next-run time. The timer loop exits when ctx is canceled or Stop is
// called.
// Parameters:
//   - ctx: lifetime context for the timer loop.
// Returns: none.
func (s *Scheduler) Start(ctx context.Context) {
	next := NextRunTime(time.Now())

	s.mu.Lock()
	s.state.IsScheduled = true
	s.state.NextRun = &next
	s.mu.Unlock()

	s.logger.WithField("next_run", next.Format(time.RFC3339)).Info("Harvest schedule registered")

	go s.loop(ctx)
}

// Stop halts the timer loop. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		s.mu.RLock()
		next := *s.state.NextRun
		s.mu.RUnlock()

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.stop:
			timer.Stop()
			return
		case <-timer.C:
			if err := s.RunAll(context.Background()); err != nil {
				s.logger.WithError(err).Warn("Scheduled harvest pass skipped")
			}
		}
	}
}

// RunAll executes a full pass under the run token, records the result, and
// recomputes the next scheduled run. Faults inside the pass are wrapped
// into an error-marked RunResult and still recorded; the scheduler itself
// never crashes from an ingestion failure.
// Parameters:
//   - ctx: context for the pass.
// Returns:
//   - error: ErrRunInProgress when another pass holds the run token.
func (s *Scheduler) RunAll(ctx context.Context) error {
	if !s.acquire() {
		// Keep the cadence moving even when the slot was occupied
		s.advanceNextRun()
		return ErrRunInProgress
	}
	defer s.release()

	s.execute(ctx, "")
	return nil
}

// TriggerManual initiates a detached pass over all feeds, or a single feed
// when feed is non-empty. The call returns as soon as the run token is
// acquired; the pass executes in the background and its outcome is only
// observable through Status.
// Parameters:
//   - feed: feed name to scope the pass to, or "" for all feeds.
// Returns:
//   - error: ErrUnknownFeed for an unconfigured feed name, ErrRunInProgress
//     when a pass is already in flight.
func (s *Scheduler) TriggerManual(feed string) error {
	if feed != "" && !s.harvest.HasFeed(feed) {
		return fmt.Errorf("%w: %s", ErrUnknownFeed, feed)
	}

	if !s.acquire() {
		return ErrRunInProgress
	}

	go func() {
		defer s.release()
		// Detached from the triggering request's lifetime
		s.execute(context.Background(), feed)
	}()

	return nil
}

// Status returns a snapshot copy of the current schedule state.
// Parameters: none.
// Returns:
//   - ScheduleState: copy of the state, including run-in-flight visibility.
func (s *Scheduler) Status() ScheduleState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state
	snapshot.IsRunning = s.running
	if s.state.LastRunResult != nil {
		result := *s.state.LastRunResult
		snapshot.LastRunResult = &result
	}
	return snapshot
}

// acquire takes the run token; false when a pass is already in flight.
func (s *Scheduler) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// execute runs one pass (caller must hold the run token) and records it.
func (s *Scheduler) execute(ctx context.Context, feed string) {
	result := s.runGuarded(ctx, feed)

	s.mu.Lock()
	s.state.LastRunResult = result
	lastRun := result.StartTime
	s.state.LastRun = &lastRun
	if s.state.IsScheduled {
		next := NextRunTime(time.Now())
		s.state.NextRun = &next
	}
	s.mu.Unlock()

	if result.Error != "" {
		s.logger.WithField(logger.FieldStatus, "failed").Errorf("Harvest pass failed: %s", result.Error)
	}
}

// runGuarded wraps a pass so that a pass-level panic becomes an error-marked
// RunResult instead of escaping the scheduler.
func (s *Scheduler) runGuarded(ctx context.Context, feed string) (result *RunResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = &RunResult{
				StartTime: start,
				EndTime:   time.Now(),
				Error:     fmt.Sprintf("harvest pass panicked: %v", r),
			}
		}
	}()

	if feed == "" {
		return s.harvest.Run(ctx)
	}

	res, err := s.harvest.RunFeed(ctx, feed)
	if err != nil {
		return &RunResult{StartTime: start, EndTime: time.Now(), Error: err.Error()}
	}
	return res
}

// advanceNextRun recomputes the next scheduled occurrence from now.
func (s *Scheduler) advanceNextRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsScheduled {
		next := NextRunTime(time.Now())
		s.state.NextRun = &next
	}
}
