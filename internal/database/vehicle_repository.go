package database

import (
	"context"
	"errors"

	"carbon-travel-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type VehicleRepository struct {
	coll *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{coll: db.Collection(VehiclesCollection)}
}

// Create inserts v and returns it with its new id.
func (r *VehicleRepository) Create(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByID is not owner-scoped; the emission engine reads any referenced vehicle.
func (r *VehicleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *VehicleRepository) FindByUserAndID(ctx context.Context, userID, id primitive.ObjectID) (*models.Vehicle, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

func (r *VehicleRepository) FindByUserAndName(ctx context.Context, userID primitive.ObjectID, name string) (*models.Vehicle, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "vehicle_name": name})
}

func (r *VehicleRepository) findOne(ctx context.Context, filter bson.M) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.coll.FindOne(ctx, filter).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByIDs returns the vehicles among ids keyed by id. Unknown ids are absent.
func (r *VehicleRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Vehicle, error) {
	out := make(map[primitive.ObjectID]models.Vehicle, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vehicles []models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		out[v.ID] = v
	}
	return out, nil
}

func (r *VehicleRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Vehicle, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vehicles []models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Update applies fields with $set to the owner's vehicle and returns the
// stored document, or nil when the owner has no such vehicle.
func (r *VehicleRepository) Update(ctx context.Context, userID, id primitive.ObjectID, fields bson.M) (*models.Vehicle, error) {
	filter := bson.M{"_id": id, "userId": userID}
	if len(fields) > 0 {
		res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, nil
		}
	}
	return r.findOne(ctx, filter)
}

// Delete removes the owner's vehicle. Trips referencing it are left alone.
func (r *VehicleRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
