package usecase

import (
	"context"
	"time"

	"darkwebmonitor/internal/ports"
)

// Scheduler wires the interval driver with the monitor use case.
type Scheduler struct {
	driver  ports.Scheduler
	monitor *Monitor
}

// NewScheduler returns a helper to start/stop recurring cycles.
func NewScheduler(driver ports.Scheduler, monitor *Monitor) *Scheduler {
	return &Scheduler{driver: driver, monitor: monitor}
}

// Start registers the monitor with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.monitor == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.monitor.RunCycle(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
