package scheduler

import (
	"fmt"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/config"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/pkg/logging"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily recurring expansion for every active window whose
// weekday matches the day
type Scheduler struct {
	cron *cron.Cron
}

// New creates the scheduler with the daily generation job
func New() (*Scheduler, error) {
	c := cron.New()

	spec := fmt.Sprintf("0 %d * * *", config.AppConfig.GenerationHour)
	if _, err := c.AddFunc(spec, RunDailyGeneration); err != nil {
		return nil, fmt.Errorf("failed to schedule generation job: %w", err)
	}

	return &Scheduler{cron: c}, nil
}

// Start begins the cron loop
func (s *Scheduler) Start() {
	s.cron.Start()
	logging.Infof("Scheduler started, daily generation at %02d:00", config.AppConfig.GenerationHour)
}

// Stop halts the cron loop, waiting for a running job
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunDailyGeneration expands every active window whose weekday matches today
func RunDailyGeneration() {
	service := services.NewRecurringService(database.GetDB(),
		services.NewNotificationService(database.GetDB(),
			config.AppConfig.OpsWebhookURL, config.AppConfig.OpsWebhookSecret))

	weekday := int(time.Now().Weekday())
	windows, err := service.ListActiveWindowsForWeekday(weekday)
	if err != nil {
		logging.Errorf("Daily generation: failed to list windows: %v", err)
		return
	}

	for _, window := range windows {
		result, err := service.Generate(window.UUID, nil)
		if err != nil {
			logging.Errorf("Daily generation: window %s failed: %v", window.UUID, err)
			continue
		}
		logging.Infof("Daily generation: window %s date %s generated=%d",
			result.WindowID, result.ScheduledFor, result.Generated)
	}
}
