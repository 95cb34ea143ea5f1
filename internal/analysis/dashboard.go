package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"

	"carbon-travel-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dashboardBaselineKgPerKm is the car baseline the dashboard score is measured against.
const dashboardBaselineKgPerKm = 0.192

const recentTripCount = 5

// DetailReader lists a user's travel details, newest first.
type DetailReader interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.TravelDetail, error)
}

// TripLookup resolves the trips behind travel details.
type TripLookup interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Trip, error)
}

// UserReader returns nil, nil for an unknown user.
type UserReader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type DashboardStats struct {
	TotalTrips    int     `json:"totalTrips"`
	TotalDistance float64 `json:"totalDistance"`
	CO2Saved      float64 `json:"co2Saved"`
	Score         int     `json:"score"`
}

type ModeShare struct {
	Name       string  `json:"name"`
	Percentage int     `json:"percentage"`
	Trips      int     `json:"trips"`
	Distance   float64 `json:"distance"`
}

type RecentTrip struct {
	Date        string  `json:"date"`
	Mode        string  `json:"mode"`
	Distance    float64 `json:"distance"`
	CO2         float64 `json:"co2"`
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
}

type DashboardUser struct {
	Name string `json:"name"`
}

type Dashboard struct {
	Stats          DashboardStats `json:"stats"`
	User           DashboardUser  `json:"user"`
	TransportModes []ModeShare    `json:"transportModes"`
	RecentTrips    []RecentTrip   `json:"recentTrips"`
}

type DashboardService struct {
	details DetailReader
	trips   TripLookup
	users   UserReader
}

func NewDashboardService(details DetailReader, trips TripLookup, users UserReader) *DashboardService {
	return &DashboardService{details: details, trips: trips, users: users}
}

func (s *DashboardService) Build(ctx context.Context, userID primitive.ObjectID) (Dashboard, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load user: %w", err)
	}
	name := "Traveler"
	if user != nil && user.Name != "" {
		name = user.Name
	}

	details, err := s.details.ListByUser(ctx, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load travel details: %w", err)
	}
	sort.SliceStable(details, func(i, j int) bool { return details[i].Date.After(details[j].Date) })

	var distance, emission float64
	type modeAgg struct {
		trips    int
		distance float64
	}
	byMode := map[string]*modeAgg{}
	for _, d := range details {
		distance += d.DistanceTravelledKm
		emission += d.DataTravelledCO2

		mode := d.Mode
		if mode == "" {
			mode = "Unknown"
		}
		m, ok := byMode[mode]
		if !ok {
			m = &modeAgg{}
			byMode[mode] = m
		}
		m.trips++
		m.distance += d.DistanceTravelledKm
	}

	baseline := distance * dashboardBaselineKgPerKm
	saved := math.Max(0, baseline-emission)
	score := 0
	if baseline > 0 {
		score = int(math.Min(10, math.Round(saved/baseline*10)))
	}

	total := len(details)
	modes := make([]ModeShare, 0, len(byMode))
	for mode, m := range byMode {
		modes = append(modes, ModeShare{
			Name:       capitalize(mode),
			Percentage: int(math.Round(float64(m.trips) / float64(total) * 100)),
			Trips:      m.trips,
			Distance:   round(m.distance, 1),
		})
	}
	sort.Slice(modes, func(i, j int) bool {
		if modes[i].Trips != modes[j].Trips {
			return modes[i].Trips > modes[j].Trips
		}
		return modes[i].Name < modes[j].Name
	})

	recent := details
	if len(recent) > recentTripCount {
		recent = recent[:recentTripCount]
	}
	tripIDs := make([]primitive.ObjectID, 0, len(recent))
	for _, d := range recent {
		tripIDs = append(tripIDs, d.TripID)
	}
	trips, err := s.trips.FindByIDs(ctx, tripIDs)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load trips: %w", err)
	}

	recentTrips := make([]RecentTrip, 0, len(recent))
	for _, d := range recent {
		rt := RecentTrip{
			Date:        d.Date.Format("2006-01-02"),
			Mode:        capitalize(d.Mode),
			Distance:    round(d.DistanceTravelledKm, 1),
			CO2:         round(d.DataTravelledCO2, 2),
			Source:      "-",
			Destination: "-",
		}
		if rt.Mode == "" {
			rt.Mode = "Unknown"
		}
		if t, ok := trips[d.TripID]; ok {
			if t.Source != "" {
				rt.Source = t.Source
			}
			if t.Destination != "" {
				rt.Destination = t.Destination
			}
		}
		recentTrips = append(recentTrips, rt)
	}

	return Dashboard{
		Stats: DashboardStats{
			TotalTrips:    total,
			TotalDistance: round(distance, 1),
			CO2Saved:      round(saved, 1),
			Score:         score,
		},
		User:           DashboardUser{Name: name},
		TransportModes: modes,
		RecentTrips:    recentTrips,
	}, nil
}
