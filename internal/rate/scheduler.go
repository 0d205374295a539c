package rate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRefreshInterval = 5 * time.Minute

// Refresher is the refresh command invoked on every tick.
type Refresher interface {
	Refresh(ctx context.Context, force bool) error
}

type Scheduler struct {
	refresher       Refresher
	enabled         func(ctx context.Context) bool
	refreshInterval time.Duration
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
	job   gocron.Job
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	if s.isEnabled(ctx) {
		err = s.addJobLocked()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

// Rearm cancels the pending refresh job and starts a new one if auto update is
// still enabled. Called whenever the auto update flag changes.
func (s *Scheduler) Rearm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}

	if s.job != nil {
		err := s.sched.RemoveJob(s.job.ID())
		if err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
			return err
		}
		s.job = nil
	}
	if !s.isEnabled(ctx) {
		logrus.Info("Auto update disabled, refresh job removed")
		return nil
	}
	return s.addJobLocked()
}

func (s *Scheduler) addJobLocked() error {
	job, err := s.sched.NewJob(
		gocron.DurationJob(s.refreshInterval),
		gocron.NewTask(func(jobCtx context.Context) {
			s.tick(jobCtx, uuid.NewString())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	s.job = job
	return nil
}

func (s *Scheduler) isEnabled(ctx context.Context) bool {
	return s.enabled == nil || s.enabled(ctx)
}

// tick runs one periodic refresh unless auto update is switched off.
func (s *Scheduler) tick(ctx context.Context, execID string) {
	if !s.isEnabled(ctx) {
		logrus.Debugf("Auto update disabled, skipping refresh; execID: %s", execID)
		return
	}
	if err := s.refresher.Refresh(ctx, false); err != nil {
		logrus.Warnf("Scheduled rates refresh %s failed: %v", execID, err)
		return
	}
	logrus.Debugf("Scheduled rates refresh done; execID: %s", execID)
}

// Armed reports whether a refresh job is currently scheduled.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil && s.job != nil
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	s.job = nil
	return err
}

// NewScheduler builds a Scheduler. A nil enabled means always enabled; a
// non-positive interval falls back to five minutes.
func NewScheduler(refresher Refresher, enabled func(ctx context.Context) bool, refreshInterval time.Duration) *Scheduler {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	return &Scheduler{refresher: refresher, enabled: enabled, refreshInterval: refreshInterval}
}
