// server/internal/api/handlers/analysis_handler.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"carbon-travel-api/internal/analysis"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnalysisService interface {
	Summary(ctx context.Context, userID primitive.ObjectID) (analysis.Summary, error)
	ModeBreakdown(ctx context.Context, userID primitive.ObjectID) ([]analysis.ModeTotal, error)
	Trend(ctx context.Context, userID primitive.ObjectID, days int) ([]analysis.TrendPoint, error)
	VehicleUsage(ctx context.Context, userID primitive.ObjectID) ([]analysis.VehicleUsage, error)
	CommunityImpact(ctx context.Context, userID primitive.ObjectID) (analysis.CommunityImpact, error)
}

type DashboardBuilder interface {
	Build(ctx context.Context, userID primitive.ObjectID) (analysis.Dashboard, error)
}

type AnalysisHandler struct {
	Analysis  AnalysisService
	Dashboard DashboardBuilder
	Log       zerolog.Logger
}

func (h *AnalysisHandler) Summary(c *gin.Context) {
	h.respond(c, "Analysis summary", func(ctx context.Context, id primitive.ObjectID) (any, error) {
		return h.Analysis.Summary(ctx, id)
	})
}

func (h *AnalysisHandler) ModeBreakdown(c *gin.Context) {
	h.respond(c, "Mode breakdown", func(ctx context.Context, id primitive.ObjectID) (any, error) {
		return h.Analysis.ModeBreakdown(ctx, id)
	})
}

// Trend accepts an optional ?days= window.
func (h *AnalysisHandler) Trend(c *gin.Context) {
	days := analysis.DefaultTrendDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "days must be a positive integer"})
			return
		}
		days = n
	}
	h.respond(c, "Emission trend", func(ctx context.Context, id primitive.ObjectID) (any, error) {
		return h.Analysis.Trend(ctx, id, days)
	})
}

func (h *AnalysisHandler) VehicleUsage(c *gin.Context) {
	h.respond(c, "Vehicle usage", func(ctx context.Context, id primitive.ObjectID) (any, error) {
		return h.Analysis.VehicleUsage(ctx, id)
	})
}

func (h *AnalysisHandler) CommunityImpact(c *gin.Context) {
	h.respond(c, "Community impact", func(ctx context.Context, id primitive.ObjectID) (any, error) {
		return h.Analysis.CommunityImpact(ctx, id)
	})
}

// GetDashboard returns the dashboard document itself, without an envelope.
func (h *AnalysisHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	d, err := h.Dashboard.Build(c.Request.Context(), userID)
	if err != nil {
		h.Log.Error().Err(err).Msg("Dashboard failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *AnalysisHandler) respond(c *gin.Context, what string, fn func(context.Context, primitive.ObjectID) (any, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := fn(c.Request.Context(), userID)
	if err != nil {
		h.Log.Error().Err(err).Str("userId", userID.Hex()).Msg(what + " failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}
