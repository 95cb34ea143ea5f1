// server/internal/database/mongo.go
package database

import (
	"context"
	"fmt"
	"time"

	"carbon-travel-api/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names. They match the collections of the existing deployment.
const (
	EmissionFactorsCollection = "emissionfactors"
	VehiclesCollection        = "uservehicles"
	TripsCollection           = "trips"
	TravelDetailsCollection   = "travel_details"
	UserGradesCollection      = "usergradedetails"
	UsersCollection           = "users"
)

// Connect opens a client, pings the primary and returns the configured database.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, client.Database(cfg.DBName), nil
}

// factorKeyIndex keeps one row per (category, fuel, engine size).
func factorKeyIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "vehicleCategory", Value: 1}, {Key: "fuelType", Value: 1}, {Key: "engineSize", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// factor index is what keeps one row per (category, fuel, engine size).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		EmissionFactorsCollection: {factorKeyIndex()},
		TravelDetailsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "data", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "tripId", Value: 1}}},
		},
		TripsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		},
		VehiclesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "vehicle_name", Value: 1}}},
		},
		UserGradesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "grade", Value: -1}}},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userName", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
