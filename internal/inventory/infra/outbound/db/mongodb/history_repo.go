package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/davicafu/autostock/internal/inventory/domain"
)

const historyCollection = "vehicle_change_history"

// HistoryRepoMongoDB implementa domain.ChangeHistoryRepository para MongoDB.
type HistoryRepoMongoDB struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewHistoryRepoMongoDB comprueba la conexión y asegura el índice por vehículo.
func NewHistoryRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*HistoryRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	coll := client.Database(dbName).Collection(historyCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "vehicleId", Value: 1}, {Key: "changedAt", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create history index: %w", err)
	}
	return &HistoryRepoMongoDB{client: client, coll: coll}, nil
}

var _ domain.ChangeHistoryRepository = (*HistoryRepoMongoDB)(nil)

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type mongoChange struct {
	ID        string    `bson:"_id"`
	VehicleID string    `bson:"vehicleId"`
	Field     string    `bson:"field"`
	OldValue  string    `bson:"oldValue"`
	NewValue  string    `bson:"newValue"`
	ChangedBy string    `bson:"changedBy"`
	ChangedAt time.Time `bson:"changedAt"`
}

// Append inserta todas las entradas de una actualización de forma atómica.
func (r *HistoryRepoMongoDB) Append(ctx context.Context, changes []domain.VehicleChange) error {
	if len(changes) == 0 {
		return nil
	}
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	docs := make([]interface{}, 0, len(changes))
	for _, c := range changes {
		docs = append(docs, toMongoChange(c))
	}

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return r.coll.InsertMany(sessCtx, docs)
	})
	return err
}

func (r *HistoryRepoMongoDB) ListByVehicle(ctx context.Context, vehicleID string) ([]domain.VehicleChange, error) {
	opts := options.Find().SetSort(bson.D{{Key: "changedAt", Value: -1}, {Key: "field", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"vehicleId": vehicleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	changes := make([]domain.VehicleChange, 0)
	for cursor.Next(ctx) {
		var mc mongoChange
		if err := cursor.Decode(&mc); err != nil {
			return nil, err
		}
		changes = append(changes, fromMongoChange(mc))
	}
	return changes, cursor.Err()
}

// --- Helpers de Mapeo ---

func toMongoChange(c domain.VehicleChange) mongoChange {
	return mongoChange{
		ID: c.ID, VehicleID: c.VehicleID, Field: c.Field, OldValue: c.OldValue,
		NewValue: c.NewValue, ChangedBy: c.ChangedBy, ChangedAt: c.ChangedAt,
	}
}

func fromMongoChange(mc mongoChange) domain.VehicleChange {
	return domain.VehicleChange{
		ID: mc.ID, VehicleID: mc.VehicleID, Field: mc.Field, OldValue: mc.OldValue,
		NewValue: mc.NewValue, ChangedBy: mc.ChangedBy, ChangedAt: mc.ChangedAt.UTC(),
	}
}
