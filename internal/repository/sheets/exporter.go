package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const (
	// SnapshotRange is where daily snapshots are appended.
	SnapshotRange = "Snapshots!A:L"
	snapshotKeys  = "Snapshots!A:B"
)

// SnapshotExporter appends one row per owner and day to the spreadsheet.
type SnapshotExporter struct {
	repo   Repository
	logger *zap.Logger
}

// NewSnapshotExporter wraps repo.
func NewSnapshotExporter(repo Repository, logger *zap.Logger) *SnapshotExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotExporter{repo: repo, logger: logger}
}

// ExportSnapshot appends the snapshot unless a row for the same day and owner
// is already present.
func (e *SnapshotExporter) ExportSnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	rows, err := e.repo.ReadRange(ctx, snapshotKeys)
	if err != nil {
		return fmt.Errorf("read exported snapshots: %w", err)
	}

	owner := snapshot.OwnerID.String()
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		if fmt.Sprint(row[0]) == snapshot.Day && fmt.Sprint(row[1]) == owner {
			e.logger.Debug("snapshot already exported", zap.String("day", snapshot.Day), zap.String("owner", owner))
			return nil
		}
	}

	if err := e.repo.WriteRow(ctx, SnapshotRange, SnapshotRow(snapshot)); err != nil {
		return fmt.Errorf("export snapshot %s: %w", snapshot.Day, err)
	}
	return nil
}

// SnapshotRow lays out a snapshot in column order.
func SnapshotRow(s models.DailySnapshot) []interface{} {
	return []interface{}{
		s.Day,
		s.OwnerID.String(),
		s.ActiveAnimals,
		s.PendingAlerts,
		s.ExpectedCalvings,
		s.UpcomingCalvings,
		s.UrgentVaccinations,
		s.HerdTotalLiters,
		s.IndividualLiters,
		s.Income.StringFixed(2),
		s.Expense.StringFixed(2),
		s.Balance.StringFixed(2),
	}
}
