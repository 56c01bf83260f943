package geo

import "errors"

var (
	ErrInvalidTransform  = errors.New("invalid geotransform")
	ErrSingularTransform = errors.New("singular geotransform")
	ErrInvalidGeometry   = errors.New("invalid geometry")
	ErrEmptyPolygon      = errors.New("empty polygon")
)
