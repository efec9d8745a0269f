// Package reporting computes the dashboard snapshot and the morning digest of
// a farm.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/alerts"
)

// ExpectedCalvingDays is the window of the dashboard calving counter.
const ExpectedCalvingDays = 30

// HerdSource provides the animals and the farm profile.
type HerdSource interface {
	List(ctx context.Context, owner uuid.UUID) ([]models.Animal, error)
	Profile(ctx context.Context, owner uuid.UUID) (models.FarmProfile, error)
}

// AlertSource provides the alert timeline.
type AlertSource interface {
	Timeline(ctx context.Context, owner uuid.UUID) (alerts.Timeline, error)
}

// MilkSource provides the milk records.
type MilkSource interface {
	Records(ctx context.Context, owner uuid.UUID) ([]models.MilkRecord, error)
}

// LedgerSource provides the financial records.
type LedgerSource interface {
	Records(ctx context.Context, owner uuid.UUID) ([]models.FinancialRecord, error)
}

// SnapshotStore keeps the history of published snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot models.DailySnapshot) error
	ListSnapshots(ctx context.Context, owner uuid.UUID, limit int64) ([]models.DailySnapshot, error)
}

// Exporter mirrors published snapshots somewhere the farmer can browse.
type Exporter interface {
	ExportSnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// Sources groups the read sides a snapshot is built from.
type Sources struct {
	Herd   HerdSource
	Alerts AlertSource
	Milk   MilkSource
	Ledger LedgerSource
}

// Service builds snapshots and digests.
type Service struct {
	src       Sources
	snapshots SnapshotStore
	exporter  Exporter
	settings  calendar.Settings
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a reporting service. snapshots and exporter may be nil.
func NewService(src Sources, snapshots SnapshotStore, exporter Exporter, settings calendar.Settings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		src:       src,
		snapshots: snapshots,
		exporter:  exporter,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
	}
}

// Report is a snapshot with the data it was derived from.
type Report struct {
	Profile  models.FarmProfile
	Timeline alerts.Timeline
	Snapshot models.DailySnapshot
}

// Snapshot computes today's dashboard figures.
func (s *Service) Snapshot(ctx context.Context, owner uuid.UUID) (models.DailySnapshot, error) {
	report, err := s.build(ctx, owner)
	if err != nil {
		return models.DailySnapshot{}, err
	}
	return report.Snapshot, nil
}

// Digest renders the morning digest for owner.
func (s *Service) Digest(ctx context.Context, owner uuid.UUID) (string, error) {
	report, err := s.build(ctx, owner)
	if err != nil {
		return "", err
	}
	return FormatDigest(report.Profile, report.Timeline, report.Snapshot), nil
}

// Publish computes the snapshot, records it in the history and the export,
// and returns the digest text. History and export failures are logged only.
func (s *Service) Publish(ctx context.Context, owner uuid.UUID) (string, error) {
	report, err := s.build(ctx, owner)
	if err != nil {
		return "", err
	}

	if s.snapshots != nil {
		if err := s.snapshots.SaveSnapshot(ctx, report.Snapshot); err != nil {
			s.logger.Error("failed to save snapshot", zap.Stringer("owner", owner), zap.Error(err))
		}
	}
	if s.exporter != nil {
		if err := s.exporter.ExportSnapshot(ctx, report.Snapshot); err != nil {
			s.logger.Error("failed to export snapshot", zap.Stringer("owner", owner), zap.Error(err))
		}
	}

	return FormatDigest(report.Profile, report.Timeline, report.Snapshot), nil
}

// History returns up to limit published snapshots, newest first.
func (s *Service) History(ctx context.Context, owner uuid.UUID, limit int64) ([]models.DailySnapshot, error) {
	if s.snapshots == nil {
		return []models.DailySnapshot{}, nil
	}
	list, err := s.snapshots.ListSnapshots(ctx, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("load snapshot history: %w", err)
	}
	return list, nil
}

func (s *Service) build(ctx context.Context, owner uuid.UUID) (Report, error) {
	profile, err := s.src.Herd.Profile(ctx, owner)
	if err != nil {
		return Report{}, fmt.Errorf("snapshot profile: %w", err)
	}
	animals, err := s.src.Herd.List(ctx, owner)
	if err != nil {
		return Report{}, fmt.Errorf("snapshot animals: %w", err)
	}
	timeline, err := s.src.Alerts.Timeline(ctx, owner)
	if err != nil {
		return Report{}, fmt.Errorf("snapshot alerts: %w", err)
	}
	milk, err := s.src.Milk.Records(ctx, owner)
	if err != nil {
		return Report{}, fmt.Errorf("snapshot milk: %w", err)
	}
	ledger, err := s.src.Ledger.Records(ctx, owner)
	if err != nil {
		return Report{}, fmt.Errorf("snapshot ledger: %w", err)
	}

	now := s.now()
	snapshot := Compute(owner, animals, timeline, milk, ledger, s.settings.Today(now), s.settings.Corrector)
	snapshot.CreatedAt = now.UTC()

	s.logger.Debug("snapshot computed",
		zap.Stringer("owner", owner),
		zap.Int("pending_alerts", snapshot.PendingAlerts),
		zap.Float64("herd_total", snapshot.HerdTotalLiters))

	return Report{Profile: profile, Timeline: timeline, Snapshot: snapshot}, nil
}
