// server/internal/api/handlers/grade_handler.go
package handlers

import (
	"context"
	"net/http"

	"carbon-travel-api/internal/grades"
	"carbon-travel-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GradeReader interface {
	Get(ctx context.Context, userID primitive.ObjectID) (grades.Summary, error)
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type GradeHandler struct {
	Grades GradeReader
	Log    zerolog.Logger
}

func (h *GradeHandler) GetUserGrade(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	summary, err := h.Grades.Get(c.Request.Context(), userID)
	if err != nil {
		h.Log.Error().Err(err).Str("userId", userID.Hex()).Msg("Failed to load user grade")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

func (h *GradeHandler) GetLeaderboard(c *gin.Context) {
	board, err := h.Grades.Leaderboard(c.Request.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("Failed to load leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": board})
}
