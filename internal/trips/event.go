package trips

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripLogged is emitted once a trip and its travel detail are both stored.
type TripLogged struct {
	UserID   primitive.ObjectID
	TripID   primitive.ObjectID
	Mode     string
	Distance float64
	At       time.Time
}

// Publisher receives TripLogged events. Publish must not block the caller
// for long and never reports failure back to it.
type Publisher interface {
	Publish(e TripLogged)
}
