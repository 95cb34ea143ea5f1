package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"carbon-travel-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseFactorRows_Normalizes(t *testing.T) {
	in := `[
		{"vehicleCategory":" Car ","fuelType":"PETROL","engineSize":"Small","emissionFactor_g_per_km":120,"source":"DEFRA 2023"},
		{"vehicleCategory":"walking","fuelType":"human","engineSize":"NA","emissionFactor_g_per_km":0,"source":"n/a"}
	]`
	rows, err := ParseFactorRows(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "car", rows[0].VehicleCategory)
	assert.Equal(t, "petrol", rows[0].FuelType)
	assert.Equal(t, "small", rows[0].EngineSize)
	assert.Equal(t, 120.0, rows[0].EmissionFactorGPerKm)
	assert.Equal(t, "na", rows[1].EngineSize)
}

func TestParseFactorRows_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "duplicate after normalization",
			in:   `[{"vehicleCategory":"car","fuelType":"petrol","engineSize":"small","emissionFactor_g_per_km":1,"source":"a"},{"vehicleCategory":"CAR","fuelType":"Petrol","engineSize":" small","emissionFactor_g_per_km":2,"source":"b"}]`,
			want: "duplicate of row 0",
		},
		{
			name: "missing source",
			in:   `[{"vehicleCategory":"bus","fuelType":"diesel","engineSize":"average","emissionFactor_g_per_km":80,"source":" "}]`,
			want: "source is required",
		},
		{
			name: "negative factor",
			in:   `[{"vehicleCategory":"bus","fuelType":"diesel","engineSize":"average","emissionFactor_g_per_km":-1,"source":"x"}]`,
			want: "invalid factor",
		},
		{
			name: "incomplete key",
			in:   `[{"vehicleCategory":"bus","fuelType":"","engineSize":"average","emissionFactor_g_per_km":1,"source":"x"}]`,
			want: "incomplete key",
		},
		{
			name: "not json",
			in:   `{`,
			want: "failed to decode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFactorRows(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

type recordingWriter struct {
	upserts  []models.EmissionFactor
	replaced []models.EmissionFactor
	err      error
}

func (w *recordingWriter) Upsert(_ context.Context, row models.EmissionFactor) error {
	if w.err != nil {
		return w.err
	}
	w.upserts = append(w.upserts, row)
	return nil
}

func (w *recordingWriter) ReplaceAll(_ context.Context, rows []models.EmissionFactor) error {
	if w.err != nil {
		return w.err
	}
	w.replaced = rows
	return nil
}

func TestSeedFactors(t *testing.T) {
	rows := []models.EmissionFactor{
		{VehicleCategory: "bus", FuelType: "diesel", EngineSize: "average", EmissionFactorGPerKm: 80, Source: "x"},
		{VehicleCategory: "train", FuelType: "electric", EngineSize: "average", EmissionFactorGPerKm: 35, Source: "x"},
	}

	t.Run("upsert", func(t *testing.T) {
		w := &recordingWriter{}
		require.NoError(t, SeedFactors(context.Background(), w, rows, false, zerolog.Nop()))
		assert.Equal(t, rows, w.upserts)
		assert.Nil(t, w.replaced)
	})

	t.Run("replace", func(t *testing.T) {
		w := &recordingWriter{}
		require.NoError(t, SeedFactors(context.Background(), w, rows, true, zerolog.Nop()))
		assert.Equal(t, rows, w.replaced)
		assert.Empty(t, w.upserts)
	})

	t.Run("write error", func(t *testing.T) {
		w := &recordingWriter{err: errors.New("boom")}
		assert.Error(t, SeedFactors(context.Background(), w, rows, false, zerolog.Nop()))
	})
}

func TestRenameCommand_SwapsStagingOverLiveTable(t *testing.T) {
	cmd := renameCommand("carbon_travel", EmissionFactorsCollection+factorStagingSuffix, EmissionFactorsCollection)

	require.Len(t, cmd, 3)
	assert.Equal(t, "renameCollection", cmd[0].Key, "command name must come first")
	assert.Equal(t, "carbon_travel.emissionfactors_staging", cmd[0].Value)
	assert.Equal(t, "carbon_travel.emissionfactors", cmd[1].Value)
	assert.Equal(t, bson.E{Key: "dropTarget", Value: true}, cmd[2])
}

func TestFactorKeyIndex_IsUnique(t *testing.T) {
	idx := factorKeyIndex()
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
	assert.Equal(t, bson.D{{Key: "vehicleCategory", Value: 1}, {Key: "fuelType", Value: 1}, {Key: "engineSize", Value: 1}}, idx.Keys)
}
