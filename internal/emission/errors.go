package emission

import "errors"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Calculation failures. Compare with errors.Is; returned errors wrap these
// with the detail of what was attempted.
var (
	// ErrInvalidInput covers a missing mode, a malformed vehicle id and a
	// distance that is negative or not a finite number.
	ErrInvalidInput = constError("invalid input")

	// ErrMissingVehicle is returned for car and motorcycle without a vehicle reference.
	ErrMissingVehicle = constError("vehicle details required for car/motorcycle emission calculation")

	// ErrVehicleNotFound means the referenced vehicle does not exist.
	ErrVehicleNotFound = constError("vehicle not found")

	// ErrIncompleteVehicleData means the vehicle has no usable engine size.
	// The engine never guesses one; the owner has to correct the record.
	ErrIncompleteVehicleData = constError("vehicle engine size is missing, please update your vehicle details")

	// ErrFactorNotFound means no reference row matches the resolved key.
	ErrFactorNotFound = constError("emission factor not found")

	// ErrUnsupportedMode means the mode maps to no lookup strategy.
	ErrUnsupportedMode = constError("unsupported transport mode")
)

// IsCalculationError reports whether err belongs to the calculation taxonomy,
// as opposed to a storage failure.
func IsCalculationError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		ErrMissingVehicle,
		ErrVehicleNotFound,
		ErrIncompleteVehicleData,
		ErrFactorNotFound,
		ErrUnsupportedMode,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
