// server/internal/api/handlers/vehicle_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"carbon-travel-api/internal/models"
	"carbon-travel-api/internal/vehicles"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleService interface {
	Create(ctx context.Context, userID primitive.ObjectID, in vehicles.Input) (*models.Vehicle, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Vehicle, error)
	Get(ctx context.Context, userID primitive.ObjectID, identifier string) (*models.Vehicle, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, changes map[string]any) (*models.Vehicle, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

type VehicleHandler struct {
	Vehicles VehicleService
	Log      zerolog.Logger
}

type createVehiclePayload struct {
	VehicleName            string   `json:"vehicle_name"`
	VehicleType            string   `json:"vehicle_type"`
	VehicleModel           string   `json:"vehicle_model"`
	FuelType               string   `json:"fuel_type"`
	VehicleManufactureDate string   `json:"vehicle_manufacture_date"`
	VehicleEmissionRating  *float64 `json:"vehicle_emission_rating"`
	VehicleEngineSize      string   `json:"vehicle_engine_size"`
}

type updateVehiclePayload struct {
	DataToUpdate map[string]any `json:"data_to_update" binding:"required"`
}

// CreateVehicle registers a vehicle for the current user.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var payload createVehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Post Function failed", "error": err.Error()})
		return
	}
	manufactured, err := parseDate(payload.VehicleManufactureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Post Function failed", "error": "invalid vehicle_manufacture_date"})
		return
	}

	v, err := h.Vehicles.Create(c.Request.Context(), userID, vehicles.Input{
		VehicleName:            payload.VehicleName,
		VehicleType:            payload.VehicleType,
		VehicleModel:           payload.VehicleModel,
		FuelType:               payload.FuelType,
		VehicleManufactureDate: manufactured,
		VehicleEmissionRating:  payload.VehicleEmissionRating,
		VehicleEngineSize:      payload.VehicleEngineSize,
	})
	if err != nil {
		h.fail(c, err, "Post Function failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Vehicle details posted successfully", "data": v})
}

func (h *VehicleHandler) GetAllVehicles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Vehicles.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Error : Fetching all Vehicle details got failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All Vehicle details fetched successfully", "data": list})
}

// GetVehicle looks a vehicle up by id or by name.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	v, err := h.Vehicles.Get(c.Request.Context(), userID, c.Param("identifier"))
	if err != nil {
		h.fail(c, err, "Error : Fetching the Vehicle details got failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle details fetched successfully", "data": []models.Vehicle{*v}})
}

func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var payload updateVehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Update Function failed", "error": err.Error()})
		return
	}

	v, err := h.Vehicles.Update(c.Request.Context(), userID, id, payload.DataToUpdate)
	if err != nil {
		h.fail(c, err, "Update Function failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle details updated successfully", "data": v})
}

// DeleteVehicle removes a vehicle. Trips keep their reference to it.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.Vehicles.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err, "Delete Function failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle details deleted successfully", "data": gin.H{"deletedCount": 1}})
}

func (h *VehicleHandler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, vehicles.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": message, "error": err.Error()})
	case errors.Is(err, vehicles.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": message, "error": err.Error()})
	default:
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": message, "error": err.Error()})
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
