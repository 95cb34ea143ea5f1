package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trip is the canonical record of one journey.
type Trip struct {
	ID                     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID                 primitive.ObjectID  `bson:"userId" json:"userId"`
	VehicleID              *primitive.ObjectID `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	Source                 string              `bson:"source" json:"source"`
	SourceDisplayName      string              `bson:"sourceDisplayName" json:"sourceDisplayName"`
	Destination            string              `bson:"destination" json:"destination"`
	DestinationDisplayName string              `bson:"destinationDisplayName" json:"destinationDisplayName"`
	Distance               float64             `bson:"distance" json:"distance"` // km
	Mode                   string              `bson:"mode" json:"mode"`         // Car, Bus, Train, Bike, Walk, Cycle, Scooter
	Emission               float64             `bson:"emission" json:"emission"` // kg CO2
	Date                   time.Time           `bson:"date" json:"date"`
	LastUpdatedAt          *time.Time          `bson:"lastUpdatedAt,omitempty" json:"lastUpdatedAt,omitempty"`
}

// TravelDetail is the history projection of a Trip, linked 1:1 by TripID.
// Mode, distance, emission and vehicle always match the owning Trip.
type TravelDetail struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID  `bson:"userId" json:"userId"`
	VehicleID           *primitive.ObjectID `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	TripID              primitive.ObjectID  `bson:"tripId" json:"tripId"`
	Date                time.Time           `bson:"data" json:"data"`
	Mode                string              `bson:"mode" json:"mode"`
	DistanceTravelledKm float64             `bson:"distance_travelled_km" json:"distance_travelled_km"`
	DataTravelledCO2    float64             `bson:"data_travelled_co2" json:"data_travelled_co2"`
}

// VehicleSnapshot is the part of a Vehicle shown next to a history entry.
type VehicleSnapshot struct {
	ID          primitive.ObjectID `json:"_id"`
	VehicleName string             `json:"vehicle_name"`
	VehicleType string             `json:"vehicle_type"`
}

// TripSnapshot is the part of a Trip shown next to a history entry.
type TripSnapshot struct {
	ID          primitive.ObjectID `json:"_id"`
	Source      string             `json:"source"`
	Destination string             `json:"destination"`
}

// HistoryEntry is a TravelDetail with its vehicle and trip resolved for display.
// Vehicle or Trip is nil when the referenced document no longer exists.
type HistoryEntry struct {
	ID                  primitive.ObjectID `json:"id"`
	UserID              primitive.ObjectID `json:"userId"`
	Vehicle             *VehicleSnapshot   `json:"vehicleId"`
	Trip                *TripSnapshot      `json:"tripId"`
	Date                time.Time          `json:"data"`
	Mode                string             `json:"mode"`
	DistanceTravelledKm float64            `json:"distance_travelled_km"`
	DataTravelledCO2    float64            `json:"data_travelled_co2"`
}

// Projection is the set of Trip fields mirrored onto its TravelDetail.
type Projection struct {
	VehicleID *primitive.ObjectID
	Mode      string
	Distance  float64
	Emission  float64
}

// Projection returns the fields this trip's TravelDetail must carry.
func (t Trip) Projection() Projection {
	return Projection{
		VehicleID: t.VehicleID,
		Mode:      t.Mode,
		Distance:  t.Distance,
		Emission:  t.Emission,
	}
}

// Projection returns the mirrored fields as currently stored on the detail.
func (d TravelDetail) Projection() Projection {
	return Projection{
		VehicleID: d.VehicleID,
		Mode:      d.Mode,
		Distance:  d.DistanceTravelledKm,
		Emission:  d.DataTravelledCO2,
	}
}

// UserTotals is one user's summed trip distance (km) and emission (kg).
type UserTotals struct {
	UserID   primitive.ObjectID `bson:"_id"`
	Distance float64            `bson:"distance"`
	Emission float64            `bson:"emission"`
}
