package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserGrade holds a user's cumulative gamification points.
type UserGrade struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Grade      int64              `bson:"grade" json:"grade"`
	Motivation string             `bson:"motivation" json:"motivation"`
}

// LeaderboardEntry is a UserGrade joined with the owner's public names.
type LeaderboardEntry struct {
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Name       string             `bson:"name" json:"name"`
	UserName   string             `bson:"userName" json:"userName"`
	Grade      int64              `bson:"grade" json:"grade"`
	Motivation string             `bson:"motivation" json:"motivation"`
}
