package sensor

import "errors"

var (
	ErrUnsupportedSensorType = errors.New("unsupported sensor type")
	ErrMissingMetadata       = errors.New("missing sensor metadata")
	ErrInvalidMetadata       = errors.New("invalid sensor metadata")
)
