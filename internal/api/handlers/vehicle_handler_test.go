package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"carbon-travel-api/internal/models"
	"carbon-travel-api/internal/vehicles"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeVehicles struct {
	err     error
	input   vehicles.Input
	changes map[string]any
	ident   string
}

func (f *fakeVehicles) Create(_ context.Context, userID primitive.ObjectID, in vehicles.Input) (*models.Vehicle, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Vehicle{ID: primitive.NewObjectID(), UserID: userID, VehicleName: in.VehicleName}, nil
}

func (f *fakeVehicles) List(context.Context, primitive.ObjectID) ([]models.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Vehicle{{VehicleName: "Civic"}, {VehicleName: "Bike"}}, nil
}

func (f *fakeVehicles) Get(_ context.Context, _ primitive.ObjectID, identifier string) (*models.Vehicle, error) {
	f.ident = identifier
	if f.err != nil {
		return nil, f.err
	}
	return &models.Vehicle{VehicleName: identifier}, nil
}

func (f *fakeVehicles) Update(_ context.Context, _, id primitive.ObjectID, changes map[string]any) (*models.Vehicle, error) {
	f.changes = changes
	if f.err != nil {
		return nil, f.err
	}
	return &models.Vehicle{ID: id}, nil
}

func (f *fakeVehicles) Delete(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return f.err
}

func vehicleRouter(svc *fakeVehicles) *gin.Engine {
	h := &VehicleHandler{Vehicles: svc, Log: zerolog.Nop()}
	r := gin.New()
	g := r.Group("/vehicle", asUser(primitive.NewObjectID()))
	g.POST("/create", h.CreateVehicle)
	g.GET("/get/all", h.GetAllVehicles)
	g.GET("/get/:identifier", h.GetVehicle)
	g.PUT("/update/:id", h.UpdateVehicle)
	g.DELETE("/delete/:id", h.DeleteVehicle)
	return r
}

func TestVehicleHandler_Create(t *testing.T) {
	body := gin.H{
		"vehicle_name": "Civic", "vehicle_type": "Car", "vehicle_model": "2019",
		"fuel_type": "Petrol", "vehicle_manufacture_date": "2019-05-01", "vehicle_engine_size": "Small",
	}

	svc := &fakeVehicles{}
	w := doJSON(t, vehicleRouter(svc), http.MethodPost, "/vehicle/create", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Civic", svc.input.VehicleName)
	assert.Equal(t, time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC), svc.input.VehicleManufactureDate)

	body["vehicle_manufacture_date"] = "first of may"
	w = doJSON(t, vehicleRouter(&fakeVehicles{}), http.MethodPost, "/vehicle/create", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["vehicle_manufacture_date"] = "2019-05-01T00:00:00Z"
	svc = &fakeVehicles{err: fmt.Errorf("%w: fuel_type", vehicles.ErrInvalidInput)}
	w = doJSON(t, vehicleRouter(svc), http.MethodPost, "/vehicle/create", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVehicleHandler_Reads(t *testing.T) {
	w := doJSON(t, vehicleRouter(&fakeVehicles{}), http.MethodGet, "/vehicle/get/all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)

	svc := &fakeVehicles{}
	w = doJSON(t, vehicleRouter(svc), http.MethodGet, "/vehicle/get/Civic", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Civic", svc.ident)
	assert.Len(t, decode(t, w)["data"], 1)

	w = doJSON(t, vehicleRouter(&fakeVehicles{err: vehicles.ErrNotFound}), http.MethodGet, "/vehicle/get/all", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVehicleHandler_UpdateAndDelete(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	svc := &fakeVehicles{}
	w := doJSON(t, vehicleRouter(svc), http.MethodPut, "/vehicle/update/"+id, gin.H{"data_to_update": gin.H{"vehicle_name": "New"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "New", svc.changes["vehicle_name"])

	w = doJSON(t, vehicleRouter(&fakeVehicles{}), http.MethodPut, "/vehicle/update/"+id, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, vehicleRouter(&fakeVehicles{err: vehicles.ErrNotFound}), http.MethodPut, "/vehicle/update/"+id, gin.H{"data_to_update": gin.H{"vehicle_name": "New"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, vehicleRouter(&fakeVehicles{}), http.MethodDelete, "/vehicle/delete/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, vehicleRouter(&fakeVehicles{err: vehicles.ErrNotFound}), http.MethodDelete, "/vehicle/delete/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
