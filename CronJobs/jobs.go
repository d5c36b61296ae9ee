package CronJobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"CarJournal/Journal"
)

// StatusSweeper runs the overdue-status sweep on a schedule. The sweep only
// touches ACTIVE records with a past due date, so repeated runs are safe.
type StatusSweeper struct {
	cronScheduler  *cron.Cron
	service        *Journal.RecordService
	runImmediately bool
	jobID          cron.EntryID
}

// NewStatusSweeper creates a sweeper over the given service.
func NewStatusSweeper(service *Journal.RecordService, runImmediately bool) *StatusSweeper {
	return &StatusSweeper{
		cronScheduler:  cron.New(cron.WithSeconds()),
		service:        service,
		runImmediately: runImmediately,
	}
}

// Start schedules the daily sweep and starts the scheduler.
func (s *StatusSweeper) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 0 1 * * *", func() {
		log.Println("Running scheduled overdue-status sweep")
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	log.Println("Status sweep scheduler started - will run daily at 1:00 AM")

	if s.runImmediately {
		log.Println("Running initial overdue-status sweep")
		s.runSweep()
	}
	return nil
}

// Stop terminates the scheduler.
func (s *StatusSweeper) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Status sweep scheduler stopped")
	}
}

// UpdateSchedule changes the sweep schedule.
// Format: "0 0 1 * * *" = At 01:00:00 AM every day
func (s *StatusSweeper) UpdateSchedule(schedule string) error {
	s.cronScheduler.Remove(s.jobID)

	var err error
	s.jobID, err = s.cronScheduler.AddFunc(schedule, func() {
		log.Println("Running scheduled overdue-status sweep")
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("error rescheduling cron job: %w", err)
	}
	return nil
}

func (s *StatusSweeper) runSweep() {
	changed, err := s.service.UpdateStatuses()
	if err != nil {
		log.Printf("Error running overdue-status sweep: %v", err)
		return
	}
	if changed > 0 {
		log.Printf("Overdue-status sweep promoted %d record(s) to PENDING", changed)
	}
}
