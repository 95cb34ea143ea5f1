package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carbon-travel-api/internal/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = errors.New("vehicle not found")
	ErrInvalidInput = errors.New("invalid vehicle data")
)

// Store persists vehicles. Lookups return nil, nil on a miss.
type Store interface {
	Create(ctx context.Context, v models.Vehicle) (*models.Vehicle, error)
	FindByUserAndID(ctx context.Context, userID, id primitive.ObjectID) (*models.Vehicle, error)
	FindByUserAndName(ctx context.Context, userID primitive.ObjectID, name string) (*models.Vehicle, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Vehicle, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, fields bson.M) (*models.Vehicle, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) (bool, error)
}

// Input is a complete vehicle description as submitted by its owner.
type Input struct {
	VehicleName            string    `json:"vehicle_name" validate:"required,min=2,max=100"`
	VehicleType            string    `json:"vehicle_type" validate:"required,oneof=Car Bike Scooter Cycle"`
	VehicleModel           string    `json:"vehicle_model" validate:"required,min=1,max=100"`
	FuelType               string    `json:"fuel_type" validate:"required,oneof=Petrol Diesel Electric Hybrid 'Human Power'"`
	VehicleManufactureDate time.Time `json:"vehicle_manufacture_date" validate:"required,notfuture"`
	VehicleEmissionRating  *float64  `json:"vehicle_emission_rating" validate:"required,min=0,max=1000"`
	VehicleEngineSize      string    `json:"vehicle_engine_size" validate:"required,oneof=Small Medium Large Average N/A"`
}

// updatable maps each field an owner may change to its validation rule.
var updatable = map[string]string{
	"vehicle_name":             "min=2,max=100",
	"vehicle_type":             "oneof=Car Bike Scooter Cycle",
	"vehicle_model":            "min=1,max=100",
	"fuel_type":                "oneof=Petrol Diesel Electric Hybrid 'Human Power'",
	"vehicle_manufacture_date": "notfuture",
	"vehicle_emission_rating":  "min=0,max=1000",
	"vehicle_engine_size":      "oneof=Small Medium Large Average N/A",
}

type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store Store) *Service {
	s := &Service{store: store, validate: validator.New(), now: time.Now}
	_ = s.validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.After(s.now())
	})
	return s
}

func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, in Input) (*models.Vehicle, error) {
	in.VehicleName = strings.TrimSpace(in.VehicleName)
	in.VehicleModel = strings.TrimSpace(in.VehicleModel)
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	return s.store.Create(ctx, models.Vehicle{
		UserID:                 userID,
		VehicleName:            in.VehicleName,
		VehicleModel:           in.VehicleModel,
		VehicleManufactureDate: in.VehicleManufactureDate,
		FuelType:               in.FuelType,
		VehicleType:            in.VehicleType,
		VehicleEmissionRating:  *in.VehicleEmissionRating,
		VehicleEngineSize:      in.VehicleEngineSize,
	})
}

// List returns all of the user's vehicles, or ErrNotFound when there are none.
func (s *Service) List(ctx context.Context, userID primitive.ObjectID) ([]models.Vehicle, error) {
	vehicles, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, ErrNotFound
	}
	return vehicles, nil
}

// Get resolves identifier as a vehicle id when it is a valid ObjectID hex and
// as a vehicle name otherwise. Only the user's own vehicles are visible.
func (s *Service) Get(ctx context.Context, userID primitive.ObjectID, identifier string) (*models.Vehicle, error) {
	var (
		v   *models.Vehicle
		err error
	)
	if id, perr := primitive.ObjectIDFromHex(identifier); perr == nil {
		v, err = s.store.FindByUserAndID(ctx, userID, id)
	} else {
		v, err = s.store.FindByUserAndName(ctx, userID, identifier)
	}
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

// Update applies a partial change set keyed by stored field name.
func (s *Service) Update(ctx context.Context, userID, id primitive.ObjectID, changes map[string]any) (*models.Vehicle, error) {
	fields := bson.M{}
	for key, raw := range changes {
		rule, ok := updatable[key]
		if !ok {
			return nil, fmt.Errorf("%w: field %q cannot be updated", ErrInvalidInput, key)
		}
		value, err := coerce(key, raw)
		if err != nil {
			return nil, err
		}
		if err := s.validate.Var(value, rule); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, key, err)
		}
		fields[key] = value
	}

	v, err := s.store.Update(ctx, userID, id, fields)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

// Delete removes the vehicle. Trips that reference it keep their vehicle id.
func (s *Service) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	deleted, err := s.store.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func coerce(key string, raw any) (any, error) {
	switch key {
	case "vehicle_manufacture_date":
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			for _, layout := range []string{time.RFC3339, "2006-01-02"} {
				if t, err := time.Parse(layout, v); err == nil {
					return t, nil
				}
			}
		}
		return nil, fmt.Errorf("%w: %s must be a date", ErrInvalidInput, key)
	case "vehicle_emission_rating":
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
		return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidInput, key)
	default:
		v, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidInput, key)
		}
		return strings.TrimSpace(v), nil
	}
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, ", "))
}
