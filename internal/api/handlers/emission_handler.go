// server/internal/api/handlers/emission_handler.go
package handlers

import (
	"context"
	"math"
	"net/http"

	"carbon-travel-api/internal/emission"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type EmissionCalculator interface {
	Calculate(ctx context.Context, mode string, distanceKm float64, vehicleRef string) (emission.Result, error)
}

type EmissionHandler struct {
	Calculator EmissionCalculator
	Log        zerolog.Logger
}

type calculatePayload struct {
	Mode           string `json:"mode"`
	Distance       any    `json:"distance"`
	VehicleDetails string `json:"vehicleDetails"`
}

// Calculate prices a trip without storing anything.
func (h *EmissionHandler) Calculate(c *gin.Context) {
	var payload calculatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Calculation failed", "error": err.Error()})
		return
	}

	distance, err := emission.ParseDistance(payload.Distance)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Calculation failed", "error": err.Error()})
		return
	}

	result, err := h.Calculator.Calculate(c.Request.Context(), payload.Mode, distance, payload.VehicleDetails)
	if err != nil {
		if emission.IsCalculationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Calculation failed", "error": err.Error()})
			return
		}
		h.Log.Error().Err(err).Str("mode", payload.Mode).Msg("Emission calculation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Calculation failed", "error": "internal error"})
		return
	}

	// JSON cannot carry a non-finite number.
	if math.IsNaN(result.TotalEmissionKg) || math.IsInf(result.TotalEmissionKg, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Calculation failed", "error": emission.ErrInvalidInput.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Emission calculated successfully", "data": result})
}
