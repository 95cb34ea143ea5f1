package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Preferences struct {
	TransportMode string `bson:"transportMode" json:"transportMode"`
	EmissionUnit  string `bson:"emissionUnit" json:"emissionUnit"`
	DistanceUnit  string `bson:"distanceUnit" json:"distanceUnit"`
}

// User struct matches the document in MongoDB
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	UserName    string             `bson:"userName" json:"userName"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	DateLogin   time.Time          `bson:"date_login" json:"date_login"`
	Preferences Preferences        `bson:"preferences" json:"preferences"`
	IsOnboarded bool               `bson:"isOnboarded" json:"isOnboarded"`
}

// DefaultPreferences are applied to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{TransportMode: "Car", EmissionUnit: "kg", DistanceUnit: "km"}
}
