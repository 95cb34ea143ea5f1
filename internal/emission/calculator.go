package emission

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"carbon-travel-api/internal/models"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FactorUnit is the unit of every stored emission factor.
const FactorUnit = "gCO2/km"

// FactorStore reads the emission factor table. Both methods return nil, nil
// when no row matches.
type FactorStore interface {
	FindByKey(ctx context.Context, key FactorKey) (*models.EmissionFactor, error)
	FindByCategory(ctx context.Context, category string) (*models.EmissionFactor, error)
}

// VehicleStore reads vehicle records. It returns nil, nil for an unknown id.
type VehicleStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
}

type Factor struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Result is a computed estimate. Source is the provenance of the factor row
// the number was derived from.
type Result struct {
	TransportMode   string  `json:"transportMode"`
	DistanceKm      float64 `json:"distanceKm"`
	EmissionFactor  Factor  `json:"emissionFactor"`
	TotalEmissionKg float64 `json:"totalEmissionKg"`
	Source          string  `json:"source"`
}

// Calculator resolves emission factors and prices a distance with them.
// It only reads.
type Calculator struct {
	factors  FactorStore
	vehicles VehicleStore
	log      zerolog.Logger
}

func NewCalculator(factors FactorStore, vehicles VehicleStore, log zerolog.Logger) *Calculator {
	return &Calculator{factors: factors, vehicles: vehicles, log: log}
}

// Calculate estimates the CO2 of travelling distanceKm by mode. vehicleRef is
// the hex id of the user's vehicle and is only consulted for car and
// motorcycle. Every failure is returned; no default factor is ever used.
func (c *Calculator) Calculate(ctx context.Context, mode string, distanceKm float64, vehicleRef string) (Result, error) {
	if Normalize(mode) == "" {
		return Result{}, fmt.Errorf("%w: mode is required", ErrInvalidInput)
	}
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return Result{}, fmt.Errorf("%w: invalid distance", ErrInvalidInput)
	}

	factor, err := c.resolve(ctx, mode, vehicleRef)
	if err != nil {
		return Result{}, err
	}

	total := TotalKg(distanceKm, factor.EmissionFactorGPerKm)
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return Result{}, fmt.Errorf("%w: distance %g is too large to price", ErrInvalidInput, distanceKm)
	}

	return Result{
		TransportMode: mode,
		DistanceKm:    distanceKm,
		EmissionFactor: Factor{
			Value: factor.EmissionFactorGPerKm,
			Unit:  FactorUnit,
		},
		TotalEmissionKg: total,
		Source:          factor.Source,
	}, nil
}

// TotalKg converts a distance and a g/km factor to kilograms, rounded to 2 places.
func TotalKg(distanceKm, gramsPerKm float64) float64 {
	return math.Round(distanceKm*gramsPerKm/1000*100) / 100
}

func (c *Calculator) resolve(ctx context.Context, rawMode, vehicleRef string) (*models.EmissionFactor, error) {
	mode := ParseMode(rawMode)

	var (
		factor *models.EmissionFactor
		err    error
	)
	switch mode.strategy() {
	case strategyHumanPowered:
		factor, err = c.humanPowered(ctx, mode)
	case strategyPersonalVehicle:
		factor, err = c.personalVehicle(ctx, mode, vehicleRef)
	case strategyPublicTransport:
		factor, err = c.publicTransport(ctx, mode)
	}
	if err != nil {
		return nil, err
	}
	if factor == nil {
		return nil, fmt.Errorf("%w: emission factor lookup failed for %s", ErrUnsupportedMode, Normalize(rawMode))
	}
	return factor, nil
}

func (c *Calculator) humanPowered(ctx context.Context, mode TransportMode) (*models.EmissionFactor, error) {
	key := NewFactorKey(mode.Category(), FuelHuman, EngineNA)
	factor, err := c.factors.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lookup emission factor %s: %w", key, err)
	}
	if factor == nil {
		return nil, fmt.Errorf("%w: no emission factor found for mode: %s", ErrFactorNotFound, mode)
	}
	return factor, nil
}

func (c *Calculator) personalVehicle(ctx context.Context, mode TransportMode, vehicleRef string) (*models.EmissionFactor, error) {
	vehicleRef = strings.TrimSpace(vehicleRef)
	if vehicleRef == "" {
		return nil, ErrMissingVehicle
	}
	vehicleID, err := primitive.ObjectIDFromHex(vehicleRef)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed vehicle id %q", ErrInvalidInput, vehicleRef)
	}

	vehicle, err := c.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load vehicle %s: %w", vehicleRef, err)
	}
	if vehicle == nil {
		return nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, vehicleRef)
	}

	engine := Normalize(vehicle.VehicleEngineSize)
	if engine == "" || engine == engineUnknown {
		return nil, ErrIncompleteVehicleData
	}

	key := NewFactorKey(mode.Category(), vehicle.FuelType, engine)
	c.log.Debug().Str("vehicleId", vehicleRef).Stringer("key", key).Msg("emission factor lookup")

	factor, err := c.factors.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lookup emission factor %s: %w", key, err)
	}
	if factor == nil {
		c.log.Warn().Stringer("key", key).Msg("emission factor lookup failed")
		return nil, fmt.Errorf("%w: sustainability data missing for %s (fuel: %s, engine: %s), please check your vehicle details",
			ErrFactorNotFound, key.Category, key.Fuel, key.Engine)
	}
	return factor, nil
}

func (c *Calculator) publicTransport(ctx context.Context, mode TransportMode) (*models.EmissionFactor, error) {
	factor, err := c.factors.FindByCategory(ctx, mode.Category())
	if err != nil {
		return nil, fmt.Errorf("lookup emission factor %s: %w", mode, err)
	}
	if factor == nil {
		return nil, fmt.Errorf("%w: standard emission data missing for %s", ErrFactorNotFound, mode)
	}
	return factor, nil
}

// ParseDistance accepts a JSON number or a numeric string, the two shapes
// clients send, and returns a finite non-negative distance.
func ParseDistance(v any) (float64, error) {
	var d float64
	switch t := v.(type) {
	case float64:
		d = t
	case float32:
		d = float64(t)
	case int:
		d = float64(t)
	case int64:
		d = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: invalid distance", ErrInvalidInput)
		}
		d = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid distance", ErrInvalidInput)
		}
		d = f
	case nil:
		return 0, fmt.Errorf("%w: distance is required", ErrInvalidInput)
	default:
		return 0, fmt.Errorf("%w: invalid distance", ErrInvalidInput)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, fmt.Errorf("%w: invalid distance", ErrInvalidInput)
	}
	return d, nil
}
