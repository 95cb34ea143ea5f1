package grades

import (
	"context"
	"fmt"

	"carbon-travel-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeaderboardSize is the number of users returned by Leaderboard.
const LeaderboardSize = 10

// Store persists UserGrade records. FindByUser returns nil, nil on a miss.
type Store interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.UserGrade, error)
	AddPoints(ctx context.Context, userID primitive.ObjectID, points int64, motivation string) (*models.UserGrade, error)
	Top(ctx context.Context, n int64) ([]models.LeaderboardEntry, error)
}

// Summary is the public view of a user's grade.
type Summary struct {
	Grade      int64  `json:"grade"`
	Motivation string `json:"motivation"`
}

type Service struct {
	store Store
	intn  func(int) int
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Award adds the points earned by a trip to the user's total and re-rolls the
// motivation. Trips worth zero points leave the record untouched and return nil.
func (s *Service) Award(ctx context.Context, userID primitive.ObjectID, mode string, distanceKm float64) (*models.UserGrade, error) {
	points := Points(mode, distanceKm)
	if points == 0 {
		return nil, nil
	}
	grade, err := s.store.AddPoints(ctx, userID, points, Motivation(s.intn))
	if err != nil {
		return nil, fmt.Errorf("failed to add %d points for user %s: %w", points, userID.Hex(), err)
	}
	return grade, nil
}

func (s *Service) Get(ctx context.Context, userID primitive.ObjectID) (Summary, error) {
	grade, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	if grade == nil {
		return Summary{Grade: 0, Motivation: DefaultMotivation}, nil
	}
	return Summary{Grade: grade.Grade, Motivation: grade.Motivation}, nil
}

func (s *Service) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return s.store.Top(ctx, LeaderboardSize)
}
