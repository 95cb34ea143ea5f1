package database

import (
	"context"
	"errors"
	"fmt"

	"carbon-travel-api/internal/emission"
	"carbon-travel-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FactorRepository is the emission factor table. The engine only reads it;
// writes come from the seed command.
type FactorRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewFactorRepository(db *mongo.Database) *FactorRepository {
	return &FactorRepository{db: db, coll: db.Collection(EmissionFactorsCollection)}
}

const factorStagingSuffix = "_staging"

func (r *FactorRepository) FindByKey(ctx context.Context, key emission.FactorKey) (*models.EmissionFactor, error) {
	return r.findOne(ctx, bson.M{
		"vehicleCategory": key.Category,
		"fuelType":        key.Fuel,
		"engineSize":      key.Engine,
	})
}

func (r *FactorRepository) FindByCategory(ctx context.Context, category string) (*models.EmissionFactor, error) {
	return r.findOne(ctx, bson.M{"vehicleCategory": emission.Normalize(category)})
}

func (r *FactorRepository) findOne(ctx context.Context, filter bson.M) (*models.EmissionFactor, error) {
	var factor models.EmissionFactor
	err := r.coll.FindOne(ctx, filter).Decode(&factor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &factor, nil
}

// Upsert writes row keyed on its triple, replacing the factor and source of
// an existing row.
func (r *FactorRepository) Upsert(ctx context.Context, row models.EmissionFactor) error {
	filter := bson.M{
		"vehicleCategory": row.VehicleCategory,
		"fuelType":        row.FuelType,
		"engineSize":      row.EngineSize,
	}
	update := bson.M{"$set": bson.M{
		"emissionFactor_g_per_km": row.EmissionFactorGPerKm,
		"source":                  row.Source,
	}}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert factor %s/%s/%s: %w", row.VehicleCategory, row.FuelType, row.EngineSize, err)
	}
	return nil
}

// ReplaceAll loads rows into a staging collection and renames it over the
// live table, so readers see either the old rows or the new ones. A failed
// load leaves the live table untouched.
func (r *FactorRepository) ReplaceAll(ctx context.Context, rows []models.EmissionFactor) error {
	stagingName := EmissionFactorsCollection + factorStagingSuffix
	staging := r.db.Collection(stagingName)
	if err := staging.Drop(ctx); err != nil {
		return fmt.Errorf("failed to reset staging factors: %w", err)
	}
	// Creating the index also creates the collection, even for zero rows.
	if _, err := staging.Indexes().CreateOne(ctx, factorKeyIndex()); err != nil {
		return fmt.Errorf("failed to index staging factors: %w", err)
	}
	if len(rows) > 0 {
		docs := make([]interface{}, len(rows))
		for i, row := range rows {
			docs[i] = row
		}
		if _, err := staging.InsertMany(ctx, docs); err != nil {
			_ = staging.Drop(context.WithoutCancel(ctx))
			return fmt.Errorf("failed to load staging factors: %w", err)
		}
	}

	cmd := renameCommand(r.db.Name(), stagingName, EmissionFactorsCollection)
	if err := r.db.Client().Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		_ = staging.Drop(context.WithoutCancel(ctx))
		return fmt.Errorf("failed to swap in emission factors: %w", err)
	}
	return nil
}

// renameCommand replaces collection to with from inside database dbName.
func renameCommand(dbName, from, to string) bson.D {
	return bson.D{
		{Key: "renameCollection", Value: dbName + "." + from},
		{Key: "to", Value: dbName + "." + to},
		{Key: "dropTarget", Value: true},
	}
}

// All returns every factor row ordered by its triple.
func (r *FactorRepository) All(ctx context.Context) ([]models.EmissionFactor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "vehicleCategory", Value: 1}, {Key: "fuelType", Value: 1}, {Key: "engineSize", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.EmissionFactor
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.EmissionFactor{}
	}
	return rows, nil
}
