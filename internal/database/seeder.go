// server/internal/database/seeder.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"carbon-travel-api/internal/emission"
	"carbon-travel-api/internal/models"

	"github.com/rs/zerolog"
)

// FactorWriter is the write side of the factor table used by the seeder.
type FactorWriter interface {
	Upsert(ctx context.Context, row models.EmissionFactor) error
	ReplaceAll(ctx context.Context, rows []models.EmissionFactor) error
}

// ParseFactorRows decodes a JSON array of factor rows, normalizes every key
// and rejects the dataset when a row is invalid or a triple repeats.
func ParseFactorRows(r io.Reader) ([]models.EmissionFactor, error) {
	var rows []models.EmissionFactor
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode factor dataset: %w", err)
	}

	seen := make(map[emission.FactorKey]int, len(rows))
	var problems []string
	for i := range rows {
		row := &rows[i]
		key := emission.NewFactorKey(row.VehicleCategory, row.FuelType, row.EngineSize)
		row.VehicleCategory, row.FuelType, row.EngineSize = key.Category, key.Fuel, key.Engine
		row.Source = strings.TrimSpace(row.Source)

		switch {
		case key.Category == "" || key.Fuel == "" || key.Engine == "":
			problems = append(problems, fmt.Sprintf("row %d: incomplete key %s", i, key))
		case row.Source == "":
			problems = append(problems, fmt.Sprintf("row %d (%s): source is required", i, key))
		case row.EmissionFactorGPerKm < 0 || math.IsNaN(row.EmissionFactorGPerKm) || math.IsInf(row.EmissionFactorGPerKm, 0):
			problems = append(problems, fmt.Sprintf("row %d (%s): invalid factor %v", i, key, row.EmissionFactorGPerKm))
		}
		if first, dup := seen[key]; dup {
			problems = append(problems, fmt.Sprintf("row %d: duplicate of row %d (%s)", i, first, key))
			continue
		}
		seen[key] = i
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid factor dataset: %s", strings.Join(problems, "; "))
	}
	return rows, nil
}

// SeedFactors writes rows to the factor table. With replace the whole table
// is swapped for rows, otherwise each row is upserted on its triple.
func SeedFactors(ctx context.Context, w FactorWriter, rows []models.EmissionFactor, replace bool, log zerolog.Logger) error {
	if replace {
		if err := w.ReplaceAll(ctx, rows); err != nil {
			return err
		}
		log.Info().Int("rows", len(rows)).Msg("Emission factors replaced")
		return nil
	}

	for _, row := range rows {
		if err := w.Upsert(ctx, row); err != nil {
			return err
		}
	}
	log.Info().Int("rows", len(rows)).Msg("Emission factors upserted")
	return nil
}
