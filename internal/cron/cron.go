package cron

import (
	"context"

	"github.com/robfig/cron/v3"

	"mangatracker/internal/logger"
	"mangatracker/internal/updater"
)

// Runner is the check pass the scheduler triggers.
type Runner interface {
	Run(ctx context.Context) ([]updater.Outcome, error)
}

// Scheduler manages the cron jobs.

type Scheduler struct {
	runner   Runner
	schedule string
}

// NewScheduler creates a new scheduler.

func NewScheduler(runner Runner, schedule string) *Scheduler {
	return &Scheduler{
		runner:   runner,
		schedule: schedule,
	}
}

// Start runs one pass immediately, then on the configured schedule.
func (s *Scheduler) Start() error {
	c := cron.New()
	logger.LogMsg(logger.LogInfo, "Scheduler started (runs immediately, then %s)", s.schedule)

	go s.performUpdate()

	_, err := c.AddFunc(s.schedule, s.performUpdate)
	if err != nil {
		logger.LogMsg(logger.LogError, "Failed to set up cron job: %v", err)
		return err
	}
	c.Start()
	return nil
}

func (s *Scheduler) performUpdate() {
	logger.LogMsg(logger.LogInfo, "Starting scheduled update")

	outcomes, err := s.runner.Run(context.Background())
	if err != nil {
		logger.LogMsg(logger.LogError, "Scheduled update failed: %v", err)
		return
	}

	var released, upcoming int
	for _, out := range outcomes {
		switch out.Class {
		case updater.Released:
			released++
		case updater.Upcoming:
			upcoming++
		}
	}

	logger.LogMsg(logger.LogInfo, "Scheduled update completed: %d checked, %d released, %d upcoming",
		len(outcomes), released, upcoming)
}
