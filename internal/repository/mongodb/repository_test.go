package mongodb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

func sampleSnapshot() models.DailySnapshot {
	return models.DailySnapshot{
		OwnerID:          uuid.New(),
		Day:              "2024-03-01",
		ActiveAnimals:    12,
		PendingAlerts:    3,
		ExpectedCalvings: 1,
		HerdTotalLiters:  152.5,
		IndividualLiters: 48.25,
		Income:           decimal.RequireFromString("1500.10"),
		Expense:          decimal.RequireFromString("300.05"),
		Balance:          decimal.RequireFromString("1200.05"),
		CreatedAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSnapshotDocument_KeepsMoneyExact(t *testing.T) {
	t.Parallel()

	in := sampleSnapshot()
	doc := toDocument(in)
	assert.Equal(t, "1500.1", doc.Income)
	assert.Equal(t, in.OwnerID.String(), doc.OwnerID)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded snapshotDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	out, err := fromDocument(decoded)
	require.NoError(t, err)
	assert.Equal(t, in.OwnerID, out.OwnerID)
	assert.True(t, in.Balance.Equal(out.Balance))
	assert.True(t, in.Expense.Equal(out.Expense))
	assert.Equal(t, in.HerdTotalLiters, out.HerdTotalLiters)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
}

func TestFromDocument_RejectsCorruptValues(t *testing.T) {
	t.Parallel()

	doc := toDocument(sampleSnapshot())
	doc.Expense = "lots"
	_, err := fromDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `amount "lots"`)

	doc = toDocument(sampleSnapshot())
	doc.OwnerID = "farm-1"
	_, err = fromDocument(doc)
	assert.Error(t, err)
}
