package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const digestTimeout = 2 * time.Minute

// Publisher records the daily snapshot of a farm and returns its digest.
type Publisher interface {
	Publish(ctx context.Context, owner uuid.UUID) (string, error)
}

// Sender delivers a digest to a phone.
type Sender interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler runs the morning digest job.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.DigestConfig
	publisher Publisher
	sender    Sender
	logger    *zap.Logger
}

// NewScheduler creates a scheduler firing in the farm time zone. sender may be
// nil, in which case snapshots are still published but nothing is sent.
func NewScheduler(cfg config.DigestConfig, loc *time.Location, publisher Publisher, sender Sender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	// Standard 5 field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:      c,
		cfg:       cfg,
		publisher: publisher,
		sender:    sender,
		logger:    logger,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	if len(s.cfg.Recipients) == 0 {
		s.logger.Info("no digest recipients configured, scheduler idle")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendDigests); err != nil {
		return fmt.Errorf("schedule digest %q: %w", s.cfg.CronSchedule, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.CronSchedule),
		zap.Int("recipients", len(s.cfg.Recipients)))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// sendDigests publishes one digest per recipient. A failing farm does not stop
// the others.
func (s *Scheduler) sendDigests() {
	for _, r := range s.cfg.Recipients {
		s.sendDigest(r)
	}
}

func (s *Scheduler) sendDigest(r config.Recipient) {
	// Background context: the store falls back to its service key.
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	digest, err := s.publisher.Publish(ctx, r.Owner)
	if err != nil {
		s.logger.Error("failed to publish digest", zap.Stringer("owner", r.Owner), zap.Error(err))
		return
	}
	if s.sender == nil {
		return
	}

	req := models.OutboundMessageRequest{To: r.Phone, Message: digest}
	if err := s.sender.SendOutbound(ctx, req); err != nil {
		s.logger.Error("failed to send digest", zap.String("phone", r.Phone), zap.Error(err))
		return
	}
	s.logger.Info("digest sent", zap.Stringer("owner", r.Owner))
}
