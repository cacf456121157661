// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the gocron scheduler for the worker process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterPaymentJobs registers the payment sweep, run every interval:
// - close pending payments past their QR expiry (activating late approvals)
// - re-drive paid payments whose activation never completed
func (m *SchedulerManager) RegisterPaymentJobs(
	interval time.Duration,
	expirePaymentsJob BatchJob,
	reconcileActivationsJob BatchJob,
) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.processPaymentTasks(ctx, expirePaymentsJob, reconcileActivationsJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("payment", "expire", "reconcile-activation"),
		gocron.WithName("payment-processor"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered payment jobs", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) processPaymentTasks(
	ctx context.Context,
	expirePaymentsJob BatchJob,
	reconcileActivationsJob BatchJob,
) {
	m.logger.Debugw("processing payment tasks started")

	startTime := biztime.NowUTC()

	// Step 1: expire overdue payments; late approvals are activated instead
	closed, err := expirePaymentsJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to process overdue payments",
			"error", err,
			"duration", time.Since(startTime),
		)
	} else if closed > 0 {
		m.logger.Infow("overdue payments processed",
			"count", closed,
			"duration", time.Since(startTime),
		)
	}

	// Step 2: finish activations a crashed request left half done
	if reconcileActivationsJob != nil {
		ready, err := reconcileActivationsJob.Execute(ctx)
		if err != nil {
			m.logger.Errorw("failed to reconcile activations", "error", err)
		} else if ready > 0 {
			m.logger.Infow("activations reconciled", "count", ready)
		}
	}
}

// Start starts the scheduler.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop shuts the scheduler down and waits for running jobs.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
