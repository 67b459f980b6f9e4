package rate

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const defaultSyncInterval = time.Hour

type syncer interface {
	Sync(ctx context.Context) (SyncReport, error)
}

// Scheduler triggers synchronization periodically.
type Scheduler struct {
	syncer       syncer
	syncInterval time.Duration
	// -----
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		report, syncErr := s.syncer.Sync(jobCtx)
		if syncErr != nil {
			if errors.Is(syncErr, context.Canceled) {
				return
			}
			logrus.WithError(syncErr).WithField("exec_id", report.ExecID).Error("Scheduled synchronization failed")
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.syncInterval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithContext(ctx),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func NewScheduler(syncer syncer, syncInterval time.Duration) *Scheduler {
	if syncInterval <= 0 {
		syncInterval = defaultSyncInterval
	}
	return &Scheduler{syncer: syncer, syncInterval: syncInterval}
}
