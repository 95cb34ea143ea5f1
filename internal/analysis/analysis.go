// Package analysis aggregates a user's stored trips into summaries, trends
// and community comparisons.
package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"carbon-travel-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultTrendDays is the trend window when the caller gives none.
	DefaultTrendDays = 30

	// communityBaselineKgPerKm is an average car, used to estimate savings.
	communityBaselineKgPerKm = 0.15

	unknownVehicleName  = "Unknown Vehicle"
	unknownVehicleModel = "N/A"
)

// TripReader reads trips for aggregation. ListByUser returns newest first;
// a zero since means no lower bound.
type TripReader interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.Trip, error)
	AllUserTotals(ctx context.Context) ([]models.UserTotals, error)
}

type VehicleReader interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Vehicle, error)
}

type Summary struct {
	TotalDistance float64 `json:"totalDistance"`
	TotalEmission float64 `json:"totalEmission"`
	TotalTrips    int     `json:"totalTrips"`
	AvgEmission   float64 `json:"avgEmission"`
}

type ModeTotal struct {
	Mode          string  `json:"_id"`
	TotalEmission float64 `json:"totalEmission"`
	Count         int     `json:"count"`
}

type TrendPoint struct {
	Date          string  `json:"_id"`
	TotalEmission float64 `json:"totalEmission"`
	Distance      float64 `json:"distance"`
}

type VehicleUsage struct {
	VehicleID    primitive.ObjectID `json:"_id"`
	VehicleName  string             `json:"vehicleName"`
	VehicleModel string             `json:"vehicleModel"`
	Trips        int                `json:"trips"`
	Distance     float64            `json:"distance"`
	Emission     float64            `json:"emission"`
}

type CommunityImpact struct {
	SavedKg    float64 `json:"savedKg"`
	Percentile int     `json:"percentile"`
	Tier       string  `json:"tier"`
	Message    string  `json:"message"`
}

type Service struct {
	trips    TripReader
	vehicles VehicleReader
	now      func() time.Time
}

func NewService(trips TripReader, vehicles VehicleReader) *Service {
	return &Service{trips: trips, vehicles: vehicles, now: time.Now}
}

func (s *Service) Summary(ctx context.Context, userID primitive.ObjectID) (Summary, error) {
	trips, err := s.trips.ListByUser(ctx, userID, time.Time{})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load trips: %w", err)
	}
	var sum Summary
	for _, t := range trips {
		sum.TotalDistance += t.Distance
		sum.TotalEmission += t.Emission
	}
	sum.TotalTrips = len(trips)
	if sum.TotalTrips > 0 {
		sum.AvgEmission = sum.TotalEmission / float64(sum.TotalTrips)
	}
	return sum, nil
}

// ModeBreakdown groups trips by mode, highest emission first.
func (s *Service) ModeBreakdown(ctx context.Context, userID primitive.ObjectID) ([]ModeTotal, error) {
	trips, err := s.trips.ListByUser(ctx, userID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}
	byMode := map[string]*ModeTotal{}
	out := []ModeTotal{}
	var order []string
	for _, t := range trips {
		m, ok := byMode[t.Mode]
		if !ok {
			m = &ModeTotal{Mode: t.Mode}
			byMode[t.Mode] = m
			order = append(order, t.Mode)
		}
		m.TotalEmission += t.Emission
		m.Count++
	}
	for _, mode := range order {
		out = append(out, *byMode[mode])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalEmission > out[j].TotalEmission })
	return out, nil
}

// Trend sums emission and distance per UTC day over the last days days,
// oldest day first. days <= 0 uses DefaultTrendDays.
func (s *Service) Trend(ctx context.Context, userID primitive.ObjectID, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	since := s.now().AddDate(0, 0, -days)
	trips, err := s.trips.ListByUser(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}

	byDay := map[string]*TrendPoint{}
	for _, t := range trips {
		if t.Date.Before(since) {
			continue
		}
		day := t.Date.UTC().Format("2006-01-02")
		p, ok := byDay[day]
		if !ok {
			p = &TrendPoint{Date: day}
			byDay[day] = p
		}
		p.TotalEmission += t.Emission
		p.Distance += t.Distance
	}

	out := make([]TrendPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// VehicleUsage totals the trips made with each of the user's vehicles.
// Vehicles that no longer exist are reported with placeholder names.
func (s *Service) VehicleUsage(ctx context.Context, userID primitive.ObjectID) ([]VehicleUsage, error) {
	trips, err := s.trips.ListByUser(ctx, userID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}

	byVehicle := map[primitive.ObjectID]*VehicleUsage{}
	var ids []primitive.ObjectID
	for _, t := range trips {
		if t.VehicleID == nil {
			continue
		}
		u, ok := byVehicle[*t.VehicleID]
		if !ok {
			u = &VehicleUsage{VehicleID: *t.VehicleID}
			byVehicle[*t.VehicleID] = u
			ids = append(ids, *t.VehicleID)
		}
		u.Trips++
		u.Distance += t.Distance
		u.Emission += t.Emission
	}

	vehicles, err := s.vehicles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}

	out := make([]VehicleUsage, 0, len(ids))
	for _, id := range ids {
		u := byVehicle[id]
		u.VehicleName, u.VehicleModel = unknownVehicleName, unknownVehicleModel
		if v, ok := vehicles[id]; ok {
			if v.VehicleName != "" {
				u.VehicleName = v.VehicleName
			}
			if v.VehicleModel != "" {
				u.VehicleModel = v.VehicleModel
			}
		}
		out = append(out, *u)
	}
	return out, nil
}

// CommunityImpact ranks every user by kilograms saved against an average car
// and places userID within that ranking.
func (s *Service) CommunityImpact(ctx context.Context, userID primitive.ObjectID) (CommunityImpact, error) {
	totals, err := s.trips.AllUserTotals(ctx)
	if err != nil {
		return CommunityImpact{}, fmt.Errorf("failed to aggregate community totals: %w", err)
	}

	type saving struct {
		userID primitive.ObjectID
		kg     float64
	}
	ranked := make([]saving, 0, len(totals))
	for _, t := range totals {
		ranked = append(ranked, saving{userID: t.UserID, kg: t.Distance*communityBaselineKgPerKm - t.Emission})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].kg > ranked[j].kg })

	idx := -1
	for i, r := range ranked {
		if r.userID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return CommunityImpact{
			Tier:    "Sustainability Starter",
			Message: "Start logging trips to see your impact!",
		}, nil
	}

	n := len(ranked)
	percentile := int(math.Round(float64(n-idx) / float64(n) * 100))
	saved := ranked[idx].kg
	tier, message := impactTier(percentile, saved)
	return CommunityImpact{
		SavedKg:    math.Max(0, round(saved, 2)),
		Percentile: percentile,
		Tier:       tier,
		Message:    message,
	}, nil
}

func impactTier(percentile int, savedKg float64) (string, string) {
	switch {
	case percentile >= 90:
		return "Eco Champion", "You're a sustainability leader! Amazing work."
	case percentile >= 75:
		return "Green Contributor", "You're doing great! Keep choosing green modes."
	case percentile >= 50:
		return "Conscious Traveler", "You're above average! Can you reach the next tier?"
	case savedKg > 0:
		return "Sustainability Starter", "Off to a good start! Try replacing one car trip this week."
	default:
		return "Sustainability Starter", "Every eco-friendly trip helps!"
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
