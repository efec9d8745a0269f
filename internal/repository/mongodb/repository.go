package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const snapshotCollection = "daily_snapshots"

// SnapshotRepository keeps one published snapshot per owner and day.
type SnapshotRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// snapshotDocument is the stored form of a snapshot. Money is kept as decimal
// strings so no precision is lost.
type snapshotDocument struct {
	OwnerID            string    `bson:"owner_id"`
	Day                string    `bson:"day"`
	ActiveAnimals      int       `bson:"active_animals"`
	PendingAlerts      int       `bson:"pending_alerts"`
	ExpectedCalvings   int       `bson:"expected_calvings"`
	UpcomingCalvings   int       `bson:"upcoming_calvings"`
	UrgentVaccinations int       `bson:"urgent_vaccinations"`
	HerdTotalLiters    float64   `bson:"herd_total_liters"`
	IndividualLiters   float64   `bson:"individual_liters"`
	Income             string    `bson:"income"`
	Expense            string    `bson:"expense"`
	Balance            string    `bson:"balance"`
	CreatedAt          time.Time `bson:"created_at"`
}

// NewSnapshotRepository connects to MongoDB and makes sure the (owner, day)
// index exists.
func NewSnapshotRepository(ctx context.Context, cfg config.MongoDBConfig) (*SnapshotRepository, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &SnapshotRepository{
		client:   client,
		dbName:   cfg.DBName,
		collName: snapshotCollection,
	}

	_, err = r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "day", Value: -1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create snapshot index: %w", err)
	}
	return r, nil
}

func (r *SnapshotRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveSnapshot stores the snapshot, replacing an earlier one for the same day.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	doc := toDocument(snapshot)
	filter := bson.D{{Key: "owner_id", Value: doc.OwnerID}, {Key: "day", Value: doc.Day}}

	_, err := r.collection().ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", doc.Day, err)
	}
	return nil
}

// ListSnapshots returns up to limit snapshots of owner, newest day first.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context, owner uuid.UUID, limit int64) ([]models.DailySnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection().Find(ctx, bson.D{{Key: "owner_id", Value: owner.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	var docs []snapshotDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode snapshots: %w", err)
	}

	out := make([]models.DailySnapshot, 0, len(docs))
	for _, doc := range docs {
		s, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *SnapshotRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func toDocument(s models.DailySnapshot) snapshotDocument {
	return snapshotDocument{
		OwnerID:            s.OwnerID.String(),
		Day:                s.Day,
		ActiveAnimals:      s.ActiveAnimals,
		PendingAlerts:      s.PendingAlerts,
		ExpectedCalvings:   s.ExpectedCalvings,
		UpcomingCalvings:   s.UpcomingCalvings,
		UrgentVaccinations: s.UrgentVaccinations,
		HerdTotalLiters:    s.HerdTotalLiters,
		IndividualLiters:   s.IndividualLiters,
		Income:             s.Income.String(),
		Expense:            s.Expense.String(),
		Balance:            s.Balance.String(),
		CreatedAt:          s.CreatedAt.UTC(),
	}
}

func fromDocument(doc snapshotDocument) (models.DailySnapshot, error) {
	owner, err := uuid.Parse(doc.OwnerID)
	if err != nil {
		return models.DailySnapshot{}, fmt.Errorf("snapshot %s: owner: %w", doc.Day, err)
	}

	var money [3]decimal.Decimal
	for i, raw := range []string{doc.Income, doc.Expense, doc.Balance} {
		if money[i], err = decimal.NewFromString(raw); err != nil {
			return models.DailySnapshot{}, fmt.Errorf("snapshot %s: amount %q: %w", doc.Day, raw, err)
		}
	}

	return models.DailySnapshot{
		OwnerID:            owner,
		Day:                doc.Day,
		ActiveAnimals:      doc.ActiveAnimals,
		PendingAlerts:      doc.PendingAlerts,
		ExpectedCalvings:   doc.ExpectedCalvings,
		UpcomingCalvings:   doc.UpcomingCalvings,
		UrgentVaccinations: doc.UrgentVaccinations,
		HerdTotalLiters:    doc.HerdTotalLiters,
		IndividualLiters:   doc.IndividualLiters,
		Income:             money[0],
		Expense:            money[1],
		Balance:            money[2],
		CreatedAt:          doc.CreatedAt,
	}, nil
}
