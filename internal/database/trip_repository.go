package database

import (
	"context"
	"errors"
	"time"

	"carbon-travel-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TripRepository struct {
	coll *mongo.Collection
}

func NewTripRepository(db *mongo.Database) *TripRepository {
	return &TripRepository{coll: db.Collection(TripsCollection)}
}

// Insert stores t. A zero id is assigned before the write so the caller
// knows the id even when the insert result is lost.
func (r *TripRepository) Insert(ctx context.Context, t *models.Trip) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, t)
	return err
}

func (r *TripRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	var t models.Trip
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Replace overwrites the stored trip with t.
func (r *TripRepository) Replace(ctx context.Context, t *models.Trip) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *TripRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *TripRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Trip, error) {
	out := make(map[primitive.ObjectID]models.Trip, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	for _, t := range trips {
		out[t.ID] = t
	}
	return out, nil
}

// ListByUser returns the user's trips, newest first. A non-zero since keeps
// only trips dated on or after it.
func (r *TripRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.Trip, error) {
	filter := bson.M{"userId": userID}
	if !since.IsZero() {
		filter["date"] = bson.M{"$gte": since}
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// AllUserTotals sums distance and emission per user across every trip.
func (r *TripRepository) AllUserTotals(ctx context.Context) ([]models.UserTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$userId"},
			{Key: "distance", Value: bson.D{{Key: "$sum", Value: "$distance"}}},
			{Key: "emission", Value: bson.D{{Key: "$sum", Value: "$emission"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.UserTotals
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
