package terrautils

import (
	"fmt"

	"github.com/terraref/terrautils/geo"
)

func PointsToWkt(lon1, lon2, lat1, lat2 float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))", lon1, lon2, lat1, lat2)
}

// 外包范围转WKT
func BoundsToWkt(b geo.Bounds) string {
	return PointsToWkt(b.MinX, b.MaxX, b.MinY, b.MaxY)
}

// (lat min, lat max, lon min, lon max) 元组转WKT
func SpanToWkt(span [4]float64) string {
	return BoundsToWkt(geo.BoundsFromSpan(span[0], span[1], span[2], span[3]))
}

func PointToWkt(c geo.Coord) string {
	return fmt.Sprintf("POINT (%v %v)", c.X, c.Y)
}
