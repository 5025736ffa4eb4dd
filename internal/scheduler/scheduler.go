package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mbaye/wacloud/internal/config"
	"github.com/mbaye/wacloud/pkg/clients/whatsapp"
)

// Scheduler sends the configured broadcast message on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	client whatsapp.Client
	cfg    config.BroadcastConfig
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.BroadcastConfig, client whatsapp.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(),
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the broadcast job and starts the cron loop. With no
// schedule configured the scheduler stays idle.
func (s *Scheduler) Start() {
	if s.cfg.CronSchedule == "" {
		s.logger.Info("broadcast scheduler disabled")
		return
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendBroadcast); err != nil {
		s.logger.Error("failed to schedule broadcast", zap.Error(err))
		return
	}

	s.logger.Info("broadcast scheduler started", zap.String("schedule", s.cfg.CronSchedule))
	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) sendBroadcast() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := s.client.SendText(ctx, s.cfg.To, s.cfg.Message, nil)
	if err != nil {
		s.logger.Error("failed to send broadcast", zap.Error(err))
		return
	}

	s.logger.Info("broadcast sent", zap.String("message_id", result.MessageID))
}
