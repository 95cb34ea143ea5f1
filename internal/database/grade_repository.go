package database

import (
	"context"
	"errors"

	"carbon-travel-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GradeRepository struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewGradeRepository(db *mongo.Database) *GradeRepository {
	return &GradeRepository{
		coll:  db.Collection(UserGradesCollection),
		users: db.Collection(UsersCollection),
	}
}

func (r *GradeRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.UserGrade, error) {
	var g models.UserGrade
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// AddPoints increments the user's grade by points and sets motivation in one
// atomic upsert, creating the record on first points.
func (r *GradeRepository) AddPoints(ctx context.Context, userID primitive.ObjectID, points int64, motivation string) (*models.UserGrade, error) {
	update := bson.M{
		"$inc": bson.M{"grade": points},
		"$set": bson.M{"motivation": motivation},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var g models.UserGrade
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Top returns the n highest grades joined with the owner's name and userName.
func (r *GradeRepository) Top(ctx context.Context, n int64) ([]models.LeaderboardEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "grade", Value: -1}}}},
		{{Key: "$limit", Value: n}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: UsersCollection},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "userId", Value: 1},
			{Key: "grade", Value: 1},
			{Key: "motivation", Value: 1},
			{Key: "name", Value: "$user.name"},
			{Key: "userName", Value: "$user.userName"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.LeaderboardEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, nil
}
