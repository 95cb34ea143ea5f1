package database

import (
	"context"

	"carbon-travel-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TravelDetailRepository struct {
	coll *mongo.Collection
}

func NewTravelDetailRepository(db *mongo.Database) *TravelDetailRepository {
	return &TravelDetailRepository{coll: db.Collection(TravelDetailsCollection)}
}

func (r *TravelDetailRepository) Insert(ctx context.Context, d *models.TravelDetail) error {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, d)
	return err
}

// UpdateProjection copies p onto the detail linked to tripID. It reports
// whether a detail matched.
func (r *TravelDetailRepository) UpdateProjection(ctx context.Context, tripID primitive.ObjectID, p models.Projection) (bool, error) {
	set := bson.M{
		"mode":                  p.Mode,
		"distance_travelled_km": p.Distance,
		"data_travelled_co2":    p.Emission,
	}
	update := bson.M{"$set": set}
	if p.VehicleID != nil {
		set["vehicleId"] = *p.VehicleID
	} else {
		update["$unset"] = bson.M{"vehicleId": ""}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"tripId": tripID}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *TravelDetailRepository) DeleteByTripID(ctx context.Context, tripID primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"tripId": tripID})
	return err
}

// ListByUser returns the user's details, newest first.
func (r *TravelDetailRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.TravelDetail, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var details []models.TravelDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	return details, nil
}
