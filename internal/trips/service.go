package trips

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"carbon-travel-api/internal/models"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripStore persists Trip documents. FindByID returns nil, nil on a miss.
type TripStore interface {
	Insert(ctx context.Context, t *models.Trip) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)
	Replace(ctx context.Context, t *models.Trip) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Trip, error)
}

// DetailStore persists the TravelDetail projection of each trip.
type DetailStore interface {
	Insert(ctx context.Context, d *models.TravelDetail) error
	UpdateProjection(ctx context.Context, tripID primitive.ObjectID, p models.Projection) (bool, error)
	DeleteByTripID(ctx context.Context, tripID primitive.ObjectID) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.TravelDetail, error)
}

// VehicleLookup resolves vehicle snapshots for history entries.
type VehicleLookup interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Vehicle, error)
}

// CreateInput describes a new trip. Distance and Emission are stored as given.
type CreateInput struct {
	VehicleID              string
	Mode                   string
	Distance               float64
	Emission               float64
	Source                 string
	SourceDisplayName      string
	Destination            string
	DestinationDisplayName string
	Date                   *time.Time
}

// UpdatePatch holds the fields to change on a trip; nil fields are left
// untouched. An empty VehicleID clears the vehicle reference.
type UpdatePatch struct {
	Source                 *string
	SourceDisplayName      *string
	Destination            *string
	DestinationDisplayName *string
	Mode                   *string
	VehicleID              *string
	Distance               *float64
	Emission               *float64
}

// Service writes a Trip and its TravelDetail as a pair. When the second
// write fails the first is compensated; a failed compensation is logged with
// both ids and returned alongside the original error.
type Service struct {
	trips    TripStore
	details  DetailStore
	vehicles VehicleLookup
	events   Publisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(trips TripStore, details DetailStore, vehicles VehicleLookup, events Publisher, log zerolog.Logger) *Service {
	return &Service{
		trips:    trips,
		details:  details,
		vehicles: vehicles,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, in CreateInput) (*models.TravelDetail, error) {
	vehicleID, err := parseVehicleID(in.VehicleID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Mode) == "" {
		return nil, fmt.Errorf("%w: mode is required", ErrInvalidInput)
	}
	if in.Distance < 0 || in.Emission < 0 {
		return nil, fmt.Errorf("%w: distance and emission must not be negative", ErrInvalidInput)
	}

	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	trip := &models.Trip{
		UserID:                 userID,
		VehicleID:              vehicleID,
		Source:                 in.Source,
		SourceDisplayName:      orDefault(in.SourceDisplayName, in.Source),
		Destination:            in.Destination,
		DestinationDisplayName: orDefault(in.DestinationDisplayName, in.Destination),
		Distance:               in.Distance,
		Mode:                   in.Mode,
		Emission:               in.Emission,
		Date:                   date,
	}
	if err := s.trips.Insert(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	detail := &models.TravelDetail{
		UserID:              userID,
		VehicleID:           trip.VehicleID,
		TripID:              trip.ID,
		Date:                trip.Date,
		Mode:                trip.Mode,
		DistanceTravelledKm: trip.Distance,
		DataTravelledCO2:    trip.Emission,
	}
	if err := s.details.Insert(ctx, detail); err != nil {
		err = fmt.Errorf("failed to save travel detail: %w", err)
		if cerr := s.trips.Delete(context.WithoutCancel(ctx), trip.ID); cerr != nil {
			s.log.Error().Err(cerr).
				Str("tripId", trip.ID.Hex()).
				Str("userId", userID.Hex()).
				Msg("Orphan trip left after travel detail insert failed")
			return nil, errors.Join(err, fmt.Errorf("failed to remove trip %s: %w", trip.ID.Hex(), cerr))
		}
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(TripLogged{
			UserID:   userID,
			TripID:   trip.ID,
			Mode:     trip.Mode,
			Distance: trip.Distance,
			At:       date,
		})
	}
	return detail, nil
}

func (s *Service) Update(ctx context.Context, tripID, userID primitive.ObjectID, patch UpdatePatch) (*models.Trip, error) {
	trip, err := s.loadOwned(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	before := *trip

	if err := applyPatch(trip, patch); err != nil {
		return nil, err
	}
	now := s.now()
	trip.LastUpdatedAt = &now

	if err := s.trips.Replace(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	matched, err := s.details.UpdateProjection(ctx, trip.ID, trip.Projection())
	if err != nil {
		err = fmt.Errorf("failed to update travel detail: %w", err)
		if cerr := s.trips.Replace(context.WithoutCancel(ctx), &before); cerr != nil {
			s.log.Error().Err(cerr).
				Str("tripId", trip.ID.Hex()).
				Str("userId", userID.Hex()).
				Msg("Trip and travel detail diverged, restore failed")
			return nil, errors.Join(err, fmt.Errorf("failed to restore trip %s: %w", trip.ID.Hex(), cerr))
		}
		return nil, err
	}
	if !matched {
		s.log.Warn().Str("tripId", trip.ID.Hex()).Msg("Trip has no travel detail")
	}
	return trip, nil
}

func (s *Service) Delete(ctx context.Context, tripID, userID primitive.ObjectID) error {
	trip, err := s.loadOwned(ctx, tripID, userID)
	if err != nil {
		return err
	}

	if err := s.trips.Delete(ctx, trip.ID); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if err := s.details.DeleteByTripID(ctx, trip.ID); err != nil {
		err = fmt.Errorf("failed to delete travel detail: %w", err)
		if cerr := s.trips.Insert(context.WithoutCancel(ctx), trip); cerr != nil {
			s.log.Error().Err(cerr).
				Str("tripId", trip.ID.Hex()).
				Str("userId", userID.Hex()).
				Msg("Travel detail left without trip, re-insert failed")
			return errors.Join(err, fmt.Errorf("failed to restore trip %s: %w", trip.ID.Hex(), cerr))
		}
		return err
	}
	return nil
}

// History returns the user's travel details, newest first, with vehicle and
// trip snapshots resolved.
func (s *Service) History(ctx context.Context, userID primitive.ObjectID) ([]models.HistoryEntry, error) {
	details, err := s.details.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load travel history: %w", err)
	}
	sort.SliceStable(details, func(i, j int) bool { return details[i].Date.After(details[j].Date) })

	var vehicleIDs, tripIDs []primitive.ObjectID
	for _, d := range details {
		if d.VehicleID != nil {
			vehicleIDs = append(vehicleIDs, *d.VehicleID)
		}
		tripIDs = append(tripIDs, d.TripID)
	}

	vehicles, err := s.vehicles.FindByIDs(ctx, vehicleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}
	trips, err := s.trips.FindByIDs(ctx, tripIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}

	entries := make([]models.HistoryEntry, 0, len(details))
	for _, d := range details {
		entry := models.HistoryEntry{
			ID:                  d.ID,
			UserID:              d.UserID,
			Date:                d.Date,
			Mode:                d.Mode,
			DistanceTravelledKm: d.DistanceTravelledKm,
			DataTravelledCO2:    d.DataTravelledCO2,
		}
		if d.VehicleID != nil {
			if v, ok := vehicles[*d.VehicleID]; ok {
				entry.Vehicle = &models.VehicleSnapshot{ID: v.ID, VehicleName: v.VehicleName, VehicleType: v.VehicleType}
			}
		}
		if t, ok := trips[d.TripID]; ok {
			entry.Trip = &models.TripSnapshot{ID: t.ID, Source: t.Source, Destination: t.Destination}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Service) loadOwned(ctx context.Context, tripID, userID primitive.ObjectID) (*models.Trip, error) {
	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	if trip == nil {
		return nil, ErrNotFound
	}
	if trip.UserID != userID {
		return nil, ErrForbidden
	}
	return trip, nil
}

func applyPatch(t *models.Trip, p UpdatePatch) error {
	if p.VehicleID != nil {
		id, err := parseVehicleID(*p.VehicleID)
		if err != nil {
			return err
		}
		t.VehicleID = id
	}
	if p.Distance != nil {
		if *p.Distance < 0 {
			return fmt.Errorf("%w: distance must not be negative", ErrInvalidInput)
		}
		t.Distance = *p.Distance
	}
	if p.Emission != nil {
		if *p.Emission < 0 {
			return fmt.Errorf("%w: emission must not be negative", ErrInvalidInput)
		}
		t.Emission = *p.Emission
	}
	if p.Mode != nil {
		if strings.TrimSpace(*p.Mode) == "" {
			return fmt.Errorf("%w: mode must not be empty", ErrInvalidInput)
		}
		t.Mode = *p.Mode
	}
	if p.Source != nil {
		t.Source = *p.Source
	}
	if p.SourceDisplayName != nil {
		t.SourceDisplayName = *p.SourceDisplayName
	}
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.DestinationDisplayName != nil {
		t.DestinationDisplayName = *p.DestinationDisplayName
	}
	return nil
}

func parseVehicleID(raw string) (*primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed vehicle id %q", ErrInvalidInput, raw)
	}
	return &id, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
