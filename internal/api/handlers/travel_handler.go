// server/internal/api/handlers/travel_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"carbon-travel-api/internal/models"
	"carbon-travel-api/internal/trips"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripService interface {
	Create(ctx context.Context, userID primitive.ObjectID, in trips.CreateInput) (*models.TravelDetail, error)
	Update(ctx context.Context, tripID, userID primitive.ObjectID, patch trips.UpdatePatch) (*models.Trip, error)
	Delete(ctx context.Context, tripID, userID primitive.ObjectID) error
	History(ctx context.Context, userID primitive.ObjectID) ([]models.HistoryEntry, error)
}

type TravelHandler struct {
	Trips TripService
	Log   zerolog.Logger
}

type addTravelPayload struct {
	VehicleID              string     `json:"vehicleId"`
	Mode                   string     `json:"mode" binding:"required"`
	Distance               *float64   `json:"distance" binding:"required"`
	Emission               *float64   `json:"emission" binding:"required"`
	Source                 string     `json:"source"`
	Destination            string     `json:"destination"`
	SourceDisplayName      string     `json:"sourceDisplayName"`
	DestinationDisplayName string     `json:"destinationDisplayName"`
	Date                   *time.Time `json:"date"`
}

type updateTravelPayload struct {
	Source                 *string  `json:"source"`
	SourceDisplayName      *string  `json:"sourceDisplayName"`
	Destination            *string  `json:"destination"`
	DestinationDisplayName *string  `json:"destinationDisplayName"`
	Mode                   *string  `json:"mode"`
	VehicleID              *string  `json:"vehicleId"`
	Distance               *float64 `json:"distance"`
	Emission               *float64 `json:"emission"`
}

func (h *TravelHandler) AddTravel(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var payload addTravelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error saving travel data", "error": err.Error()})
		return
	}

	detail, err := h.Trips.Create(c.Request.Context(), userID, trips.CreateInput{
		VehicleID:              payload.VehicleID,
		Mode:                   payload.Mode,
		Distance:               *payload.Distance,
		Emission:               *payload.Emission,
		Source:                 payload.Source,
		SourceDisplayName:      payload.SourceDisplayName,
		Destination:            payload.Destination,
		DestinationDisplayName: payload.DestinationDisplayName,
		Date:                   payload.Date,
	})
	if err != nil {
		h.fail(c, err, "Error saving travel data")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Travel data saved successfully", "travelData": detail})
}

func (h *TravelHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	history, err := h.Trips.History(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Error fetching travel history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Travel history fetched successfully", "data": history})
}

func (h *TravelHandler) UpdateTrip(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var payload updateTravelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error updating trip", "error": err.Error()})
		return
	}
	// The caller recomputes both whenever route, mode or vehicle change.
	if payload.Distance == nil || payload.Emission == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Distance and emission must be recalculated and provided"})
		return
	}

	trip, err := h.Trips.Update(c.Request.Context(), tripID, userID, trips.UpdatePatch{
		Source:                 payload.Source,
		SourceDisplayName:      payload.SourceDisplayName,
		Destination:            payload.Destination,
		DestinationDisplayName: payload.DestinationDisplayName,
		Mode:                   payload.Mode,
		VehicleID:              payload.VehicleID,
		Distance:               payload.Distance,
		Emission:               payload.Emission,
	})
	if err != nil {
		h.fail(c, err, "Error updating trip")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip updated successfully", "data": trip})
}

func (h *TravelHandler) DeleteTrip(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.Trips.Delete(c.Request.Context(), tripID, userID); err != nil {
		h.fail(c, err, "Error deleting trip")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted successfully", "tripId": tripID.Hex()})
}

func (h *TravelHandler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, trips.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Trip not found"})
	case errors.Is(err, trips.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to modify this trip"})
	case errors.Is(err, trips.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": message, "error": err.Error()})
	default:
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": message, "error": err.Error()})
	}
}
