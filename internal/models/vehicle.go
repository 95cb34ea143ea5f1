// server/internal/models/vehicle.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle is a user's registered vehicle. Trips reference it weakly by ID.
type Vehicle struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                 primitive.ObjectID `bson:"userId" json:"userId"`
	VehicleName            string             `bson:"vehicle_name" json:"vehicle_name"`
	VehicleModel           string             `bson:"vehicle_model" json:"vehicle_model"`
	VehicleManufactureDate time.Time          `bson:"vehicle_manufacture_date" json:"vehicle_manufacture_date"`
	FuelType               string             `bson:"fuel_type" json:"fuel_type"`                             // Petrol, Diesel, Electric, Hybrid, Human Power
	VehicleType            string             `bson:"vehicle_type" json:"vehicle_type"`                       // Car, Bike, Scooter, Cycle
	VehicleEmissionRating  float64            `bson:"vehicle_emission_rating" json:"vehicle_emission_rating"` // legacy, informational only
	VehicleEngineSize      string             `bson:"vehicle_engine_size" json:"vehicle_engine_size"`         // Small, Medium, Large, Average, N/A
}
