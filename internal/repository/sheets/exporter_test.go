package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

type repoMock struct {
	rows    [][]interface{}
	readErr error
	written [][]interface{}
	ranges  []string
}

func (m *repoMock) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	m.ranges = append(m.ranges, sheetRange)
	m.written = append(m.written, values)
	return nil
}

func (m *repoMock) ReadRange(context.Context, string) ([][]interface{}, error) {
	return m.rows, m.readErr
}

func snapshot(owner uuid.UUID, day string) models.DailySnapshot {
	return models.DailySnapshot{
		OwnerID:         owner,
		Day:             day,
		PendingAlerts:   2,
		HerdTotalLiters: 140,
		Income:          decimal.NewFromInt(900),
		Expense:         decimal.RequireFromString("120.5"),
		Balance:         decimal.RequireFromString("779.5"),
	}
}

func TestSnapshotExporter_AppendsRow(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	repo := &repoMock{rows: [][]interface{}{{"day", "owner"}, {"2024-02-29", owner.String()}}}
	exp := NewSnapshotExporter(repo, nil)

	require.NoError(t, exp.ExportSnapshot(context.Background(), snapshot(owner, "2024-03-01")))
	require.Len(t, repo.written, 1)
	assert.Equal(t, SnapshotRange, repo.ranges[0])

	row := repo.written[0]
	require.Len(t, row, 12)
	assert.Equal(t, "2024-03-01", row[0])
	assert.Equal(t, owner.String(), row[1])
	assert.Equal(t, "120.50", row[10])
	assert.Equal(t, "779.50", row[11])
}

func TestSnapshotExporter_SkipsDuplicateDay(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	repo := &repoMock{rows: [][]interface{}{{"2024-03-01", owner.String()}, {"short"}}}
	exp := NewSnapshotExporter(repo, nil)

	require.NoError(t, exp.ExportSnapshot(context.Background(), snapshot(owner, "2024-03-01")))
	assert.Empty(t, repo.written)

	// Same day for another farm is still exported.
	require.NoError(t, exp.ExportSnapshot(context.Background(), snapshot(uuid.New(), "2024-03-01")))
	assert.Len(t, repo.written, 1)
}

func TestSnapshotExporter_ReadFailure(t *testing.T) {
	t.Parallel()

	repo := &repoMock{readErr: errors.New("quota exceeded")}
	err := NewSnapshotExporter(repo, nil).ExportSnapshot(context.Background(), snapshot(uuid.New(), "2024-03-01"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, repo.written)
}

func TestGoogleSheetRepository_RejectsEmptyRange(t *testing.T) {
	t.Parallel()

	repo := &GoogleSheetRepository{}
	assert.ErrorIs(t, repo.WriteRow(context.Background(), "", nil), errEmptyRange)
	_, err := repo.ReadRange(context.Background(), "")
	assert.ErrorIs(t, err, errEmptyRange)
}
