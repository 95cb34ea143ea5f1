package analysis

import (
	"context"
	"testing"
	"time"

	"carbon-travel-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memTrips struct {
	trips  []models.Trip
	totals []models.UserTotals
}

func (m *memTrips) ListByUser(_ context.Context, userID primitive.ObjectID, since time.Time) ([]models.Trip, error) {
	var out []models.Trip
	for _, t := range m.trips {
		if t.UserID != userID {
			continue
		}
		if !since.IsZero() && t.Date.Before(since) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memTrips) AllUserTotals(context.Context) ([]models.UserTotals, error) {
	return m.totals, nil
}

func (m *memTrips) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Trip, error) {
	out := map[primitive.ObjectID]models.Trip{}
	for _, t := range m.trips {
		for _, id := range ids {
			if t.ID == id {
				out[id] = t
			}
		}
	}
	return out, nil
}

type memVehicles map[primitive.ObjectID]models.Vehicle

func (m memVehicles) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Vehicle, error) {
	out := map[primitive.ObjectID]models.Vehicle{}
	for _, id := range ids {
		if v, ok := m[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

var fixedNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestService(trips *memTrips, vehicles memVehicles) *Service {
	s := NewService(trips, vehicles)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestSummary(t *testing.T) {
	user := primitive.NewObjectID()
	trips := &memTrips{trips: []models.Trip{
		{UserID: user, Distance: 10, Emission: 2},
		{UserID: user, Distance: 30, Emission: 4},
		{UserID: primitive.NewObjectID(), Distance: 100, Emission: 50},
	}}

	sum, err := newTestService(trips, nil).Summary(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, Summary{TotalDistance: 40, TotalEmission: 6, TotalTrips: 2, AvgEmission: 3}, sum)

	empty, err := newTestService(trips, nil).Summary(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, empty)
}

func TestModeBreakdown(t *testing.T) {
	user := primitive.NewObjectID()
	trips := &memTrips{trips: []models.Trip{
		{UserID: user, Mode: "Bus", Emission: 1},
		{UserID: user, Mode: "Car", Emission: 5},
		{UserID: user, Mode: "Bus", Emission: 1.5},
		{UserID: user, Mode: "Walk", Emission: 0},
	}}

	got, err := newTestService(trips, nil).ModeBreakdown(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, []ModeTotal{
		{Mode: "Car", TotalEmission: 5, Count: 1},
		{Mode: "Bus", TotalEmission: 2.5, Count: 2},
		{Mode: "Walk", TotalEmission: 0, Count: 1},
	}, got)
}

func TestTrend(t *testing.T) {
	user := primitive.NewObjectID()
	trips := &memTrips{trips: []models.Trip{
		{UserID: user, Date: fixedNow.AddDate(0, 0, -1), Distance: 5, Emission: 1},
		{UserID: user, Date: fixedNow.AddDate(0, 0, -1).Add(time.Hour), Distance: 5, Emission: 1},
		{UserID: user, Date: fixedNow.AddDate(0, 0, -3), Distance: 2, Emission: 0.5},
		{UserID: user, Date: fixedNow.AddDate(0, 0, -40), Distance: 99, Emission: 9},
	}}
	svc := newTestService(trips, nil)

	got, err := svc.Trend(context.Background(), user, 0)
	require.NoError(t, err)
	assert.Equal(t, []TrendPoint{
		{Date: "2025-06-27", TotalEmission: 0.5, Distance: 2},
		{Date: "2025-06-29", TotalEmission: 2, Distance: 10},
	}, got)

	got, err = svc.Trend(context.Background(), user, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-06-29", got[0].Date)
}

func TestVehicleUsage(t *testing.T) {
	user := primitive.NewObjectID()
	known := primitive.NewObjectID()
	gone := primitive.NewObjectID()
	trips := &memTrips{trips: []models.Trip{
		{UserID: user, VehicleID: &known, Distance: 10, Emission: 1},
		{UserID: user, VehicleID: &known, Distance: 5, Emission: 0.5},
		{UserID: user, VehicleID: &gone, Distance: 3, Emission: 0.3},
		{UserID: user, Distance: 7},
	}}
	vehicles := memVehicles{known: {ID: known, VehicleName: "Civic", VehicleModel: "EX"}}

	got, err := newTestService(trips, vehicles).VehicleUsage(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, VehicleUsage{VehicleID: known, VehicleName: "Civic", VehicleModel: "EX", Trips: 2, Distance: 15, Emission: 1.5}, got[0])
	assert.Equal(t, "Unknown Vehicle", got[1].VehicleName)
	assert.Equal(t, "N/A", got[1].VehicleModel)
}

func TestCommunityImpact(t *testing.T) {
	users := make([]primitive.ObjectID, 4)
	for i := range users {
		users[i] = primitive.NewObjectID()
	}
	trips := &memTrips{totals: []models.UserTotals{
		{UserID: users[0], Distance: 100, Emission: 0},  // saves 15
		{UserID: users[1], Distance: 100, Emission: 5},  // saves 10
		{UserID: users[2], Distance: 100, Emission: 14}, // saves 1
		{UserID: users[3], Distance: 100, Emission: 30}, // saves -15
	}}
	svc := newTestService(trips, nil)

	tests := []struct {
		user       primitive.ObjectID
		percentile int
		tier       string
		saved      float64
	}{
		{users[0], 100, "Eco Champion", 15},
		{users[1], 75, "Green Contributor", 10},
		{users[2], 50, "Conscious Traveler", 1},
		{users[3], 25, "Sustainability Starter", 0},
	}
	for _, tt := range tests {
		got, err := svc.CommunityImpact(context.Background(), tt.user)
		require.NoError(t, err)
		assert.Equal(t, tt.percentile, got.Percentile)
		assert.Equal(t, tt.tier, got.Tier)
		assert.InDelta(t, tt.saved, got.SavedKg, 1e-9)
	}

	got, err := svc.CommunityImpact(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Zero(t, got.Percentile)
	assert.Equal(t, "Start logging trips to see your impact!", got.Message)
}
