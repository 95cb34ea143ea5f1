package vehicles

import (
	"context"
	"testing"
	"time"

	"carbon-travel-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memStore struct {
	docs map[primitive.ObjectID]models.Vehicle
}

func newMemStore() *memStore { return &memStore{docs: map[primitive.ObjectID]models.Vehicle{}} }

func (m *memStore) Create(_ context.Context, v models.Vehicle) (*models.Vehicle, error) {
	v.ID = primitive.NewObjectID()
	m.docs[v.ID] = v
	return &v, nil
}

func (m *memStore) FindByUserAndID(_ context.Context, userID, id primitive.ObjectID) (*models.Vehicle, error) {
	v, ok := m.docs[id]
	if !ok || v.UserID != userID {
		return nil, nil
	}
	return &v, nil
}

func (m *memStore) FindByUserAndName(_ context.Context, userID primitive.ObjectID, name string) (*models.Vehicle, error) {
	for _, v := range m.docs {
		if v.UserID == userID && v.VehicleName == name {
			return &v, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for _, v := range m.docs {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, userID, id primitive.ObjectID, fields bson.M) (*models.Vehicle, error) {
	v, ok := m.docs[id]
	if !ok || v.UserID != userID {
		return nil, nil
	}
	for k, val := range fields {
		switch k {
		case "vehicle_name":
			v.VehicleName = val.(string)
		case "vehicle_engine_size":
			v.VehicleEngineSize = val.(string)
		case "vehicle_emission_rating":
			v.VehicleEmissionRating = val.(float64)
		case "vehicle_manufacture_date":
			v.VehicleManufactureDate = val.(time.Time)
		}
	}
	m.docs[id] = v
	return &v, nil
}

func (m *memStore) Delete(_ context.Context, userID, id primitive.ObjectID) (bool, error) {
	v, ok := m.docs[id]
	if !ok || v.UserID != userID {
		return false, nil
	}
	delete(m.docs, id)
	return true, nil
}

func validInput() Input {
	rating := 120.0
	return Input{
		VehicleName:            "Daily Driver",
		VehicleType:            "Car",
		VehicleModel:           "Civic",
		FuelType:               "Petrol",
		VehicleManufactureDate: time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC),
		VehicleEmissionRating:  &rating,
		VehicleEngineSize:      "Small",
	}
}

func TestCreate_Valid(t *testing.T) {
	svc := NewService(newMemStore())
	user := primitive.NewObjectID()

	in := validInput()
	in.VehicleName = "  Daily Driver  "
	in.FuelType = "Human Power"
	in.VehicleType = "Cycle"
	in.VehicleEngineSize = "N/A"

	v, err := svc.Create(context.Background(), user, in)
	require.NoError(t, err)
	assert.Equal(t, "Daily Driver", v.VehicleName)
	assert.Equal(t, user, v.UserID)
	assert.Equal(t, "Human Power", v.FuelType)
}

func TestCreate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"short name", func(in *Input) { in.VehicleName = "A" }},
		{"bad type", func(in *Input) { in.VehicleType = "Truck" }},
		{"missing model", func(in *Input) { in.VehicleModel = " " }},
		{"bad fuel", func(in *Input) { in.FuelType = "Coal" }},
		{"future date", func(in *Input) { in.VehicleManufactureDate = time.Now().Add(48 * time.Hour) }},
		{"missing date", func(in *Input) { in.VehicleManufactureDate = time.Time{} }},
		{"negative rating", func(in *Input) { r := -1.0; in.VehicleEmissionRating = &r }},
		{"unrealistic rating", func(in *Input) { r := 1001.0; in.VehicleEmissionRating = &r }},
		{"missing rating", func(in *Input) { in.VehicleEmissionRating = nil }},
		{"bad engine size", func(in *Input) { in.VehicleEngineSize = "Huge" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			in := validInput()
			tt.mutate(&in)
			_, err := NewService(store).Create(context.Background(), primitive.NewObjectID(), in)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, store.docs)
		})
	}
}

func TestGet_ByIDOrName(t *testing.T) {
	svc := NewService(newMemStore())
	user := primitive.NewObjectID()
	v, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), user, v.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	got, err = svc.Get(context.Background(), user, "Daily Driver")
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	_, err = svc.Get(context.Background(), primitive.NewObjectID(), v.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), user, "Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	svc := NewService(newMemStore())
	user := primitive.NewObjectID()

	_, err := svc.List(context.Background(), user)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)
	list, err := svc.List(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdate(t *testing.T) {
	svc := NewService(newMemStore())
	user := primitive.NewObjectID()
	v, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), user, v.ID, map[string]any{
		"vehicle_engine_size":      "Medium",
		"vehicle_emission_rating":  float64(99),
		"vehicle_manufacture_date": "2020-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "Medium", got.VehicleEngineSize)
	assert.Equal(t, 99.0, got.VehicleEmissionRating)
	assert.Equal(t, 2020, got.VehicleManufactureDate.Year())

	tests := []struct {
		name    string
		changes map[string]any
	}{
		{"unknown field", map[string]any{"userId": "x"}},
		{"bad enum", map[string]any{"vehicle_engine_size": "Tiny"}},
		{"wrong type", map[string]any{"vehicle_emission_rating": "high"}},
		{"bad date", map[string]any{"vehicle_manufacture_date": "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), user, v.ID, tt.changes)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err = svc.Update(context.Background(), primitive.NewObjectID(), v.ID, map[string]any{"vehicle_name": "Other"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := NewService(newMemStore())
	user := primitive.NewObjectID()
	v, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), primitive.NewObjectID(), v.ID), ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), user, v.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), user, v.ID), ErrNotFound)
}
