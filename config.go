package terrautils

const (
	SHP_DRIVER_NAME = "ESRI Shapefile"
	SHAPE_ENCODING  = "UTF-8"
	ENCODING_OPTION = "ENCODING=" + SHAPE_ENCODING
	UNIVERSAL_SRID  = 4326
	GEOJSON_SRID    = 4326

	ErrColumnMissingTemplate = `shp文件中缺失【%s】字段`
	ErrColumnEmptyTemplate   = `shp文件小区中【%s】字段为空`

	COMPRESS_OPTION = "COMPRESS=LZW"

	TMP_CLIP_PREFIX = "clip"

	DEFAULT_WORKERS = 4
	PLOT_NAME_WIDTH = 64
)
