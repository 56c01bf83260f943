package terrautils

import "errors"

var (
	ErrGdalDriverCreate = errors.New("gdal driver create err")
	ErrGdalDriverOpen   = errors.New("gdal driver open err")
	ErrGdalEmptyShp     = errors.New("gdal shp is empty")
	ErrVoidSrid         = errors.New("gdal shp with void srid")
	ErrGdalWrongGeoType = errors.New("gdal wrong geo type")
	ErrGdalWrongGeoJSON = errors.New("gdal wrong GeoJSON")
	ErrInvalidWKT       = errors.New("invalid WKT")
	ErrInvalidWKB       = errors.New("invalid WKB")
	ErrInvalidTif       = errors.New("invalid tif")
	ErrTifReadFailed    = errors.New("tif read failed")
	ErrTifWriteFailed   = errors.New("tif write failed")
	ErrWrongBand        = errors.New("wrong tif band")
	ErrEmptyTif         = errors.New("empty tif")
	ErrGeoTransform     = errors.New("tif without geotransform")
)
