package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// EmissionFactor is one row of the reference table. Category, fuel and engine
// size are stored lowercase; the triple is unique.
type EmissionFactor struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleCategory      string             `bson:"vehicleCategory" json:"vehicleCategory"` // car, motorcycle, bus, train, walking, bicycle
	FuelType             string             `bson:"fuelType" json:"fuelType"`               // petrol, diesel, hybrid, electric, human, na
	EngineSize           string             `bson:"engineSize" json:"engineSize"`           // small, medium, large, average, na
	EmissionFactorGPerKm float64            `bson:"emissionFactor_g_per_km" json:"emissionFactor_g_per_km"`
	Source               string             `bson:"source" json:"source"`
}
