package trips

import "errors"

var (
	ErrNotFound     = errors.New("trip not found")
	ErrForbidden    = errors.New("not authorized to modify this trip")
	ErrInvalidInput = errors.New("invalid trip input")
)
