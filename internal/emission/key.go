package emission

import (
	"fmt"
	"strings"
)

// Reference values for fuel type and engine size used by the lookup strategies.
const (
	FuelHuman     = "human"
	EngineNA      = "na"
	engineUnknown = "n/a"
)

// Normalize is the canonical form of every lookup string: trimmed, lowercase.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FactorKey identifies one emission factor row. Build it with NewFactorKey so
// producer (seed data) and consumer (engine) agree on casing.
type FactorKey struct {
	Category string
	Fuel     string
	Engine   string
}

// NewFactorKey returns the normalized key for the triple.
func NewFactorKey(category, fuel, engine string) FactorKey {
	return FactorKey{
		Category: Normalize(category),
		Fuel:     Normalize(fuel),
		Engine:   Normalize(engine),
	}
}

func (k FactorKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Category, k.Fuel, k.Engine)
}
