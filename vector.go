package terrautils

import (
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"

	"github.com/terraref/terrautils/geo"
	"github.com/terraref/terrautils/log"
)

func (g *Toolbox) parseWKT(wkt string, ref gdal.SpatialReference) (ret gdal.Geometry, err error) {
	ret, err = gdal.CreateFromWKT(wkt, ref)
	if err != nil {
		log.Error(g.logTag+"parse wkt failed", zap.Error(err))
		err = ErrInvalidWKT
	}
	return
}

func (g *Toolbox) parseWKB(wkb GdalGeo, ref gdal.SpatialReference) (ret gdal.Geometry, err error) {
	ret, err = gdal.CreateFromWKB(wkb, ref, len(wkb))
	if err != nil {
		log.Error(g.logTag+"parse wkb failed", zap.Error(err))
		err = ErrInvalidWKB
	}
	return
}

// 取面外环；多面取第一个部分，带Z值的几何先降为二维
func polygonFromGeometry(geom gdal.Geometry) (poly geo.Polygon, err error) {
	geom.FlattenTo2D()
	switch geom.Type() {
	case gdal.GT_Polygon:
	case gdal.GT_MultiPolygon:
		if geom.GeometryCount() == 0 {
			err = geo.ErrEmptyPolygon
			return
		}
		geom = geom.Geometry(0)
	default:
		err = ErrGdalWrongGeoType
		return
	}
	if geom.GeometryCount() == 0 {
		err = geo.ErrEmptyPolygon
		return
	}
	ring := geom.Geometry(0)
	np := ring.PointCount()
	poly = make(geo.Polygon, np)
	for i := 0; i < np; i++ {
		poly[i].X, poly[i].Y, _ = ring.Point(i)
	}
	return
}

func buildPolygon(poly geo.Polygon) (ret gdal.Geometry, err error) {
	pts := poly.Ring()
	if len(pts) < 3 {
		err = geo.ErrEmptyPolygon
		return
	}
	ring := gdal.Create(gdal.GT_LinearRing)
	for _, c := range pts {
		ring.AddPoint2D(c.X, c.Y)
	}
	ring.AddPoint2D(pts[0].X, pts[0].Y)
	ret = gdal.Create(gdal.GT_Polygon)
	if err = ret.AddGeometryDirectly(ring); err != nil {
		ring.Destroy()
		ret.Destroy()
	}
	return
}

// WKT（srid坐标系）转多边形
func (g *Toolbox) PolygonFromWKT(wkt string, srid int) (poly geo.Polygon, err error) {
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	geom, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	defer geom.Destroy()
	return polygonFromGeometry(geom)
}

func (g *Toolbox) PolygonFromWKB(wkb GdalGeo, srid int) (poly geo.Polygon, err error) {
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	geom, err := g.parseWKB(wkb, ref)
	if err != nil {
		return
	}
	defer geom.Destroy()
	return polygonFromGeometry(geom)
}

// GeoJSON几何（4326）转多边形
func (g *Toolbox) PolygonFromGeoJSON(geoJson string) (poly geo.Polygon, err error) {
	geom := gdal.CreateFromJson(geoJson)
	defer geom.Destroy()
	if geom.WKBSize() == 0 {
		err = ErrGdalWrongGeoJSON
		return
	}
	return polygonFromGeometry(geom)
}

// 转换多边形顶点坐标系
func (g *Toolbox) TransformPolygon(poly geo.Polygon, srid, tSrid int) (ret geo.Polygon, err error) {
	if srid == tSrid {
		ret = poly
		return
	}
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	tRef, err := g.getSridRef(tSrid)
	if err != nil {
		return
	}
	geom, err := buildPolygon(poly)
	if err != nil {
		return
	}
	defer geom.Destroy()
	geom.SetSpatialReference(ref)
	if err = geom.TransformTo(tRef); err != nil {
		log.Error(g.logTag+"geo transform failed", zap.Int("srid", srid), zap.Int("tSrid", tSrid), zap.Error(err))
		return
	}
	return polygonFromGeometry(geom)
}

func (g *Toolbox) PolygonToWKT(poly geo.Polygon) (wkt string, err error) {
	geom, err := buildPolygon(poly)
	if err != nil {
		return
	}
	defer geom.Destroy()
	return geom.ToWKT()
}

func (g *Toolbox) PolygonToWKB(poly geo.Polygon) (wkb GdalGeo, err error) {
	geom, err := buildPolygon(poly)
	if err != nil {
		return
	}
	defer geom.Destroy()
	return geom.ToWKB()
}

func (g *Toolbox) PolygonToGeoJSON(poly geo.Polygon) (ret string, err error) {
	geom, err := buildPolygon(poly)
	if err != nil {
		return
	}
	defer geom.Destroy()
	ret = geom.ToJSON()
	return
}

// WKT几何的质心
func (g *Toolbox) CentroidFromWKT(wkt string, srid int) (c geo.Coord, err error) {
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	geom, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	defer geom.Destroy()
	cg := geom.Centroid()
	defer cg.Destroy()
	c.X, c.Y = cg.X(0), cg.Y(0)
	return
}

// 获取WKT外包范围
func (g *Toolbox) BoundsOfWKT(wkt string, srid int) (b geo.Bounds, err error) {
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	geom, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	defer geom.Destroy()
	env := geom.Envelope()
	b = geo.Bounds{MinX: env.MinX(), MinY: env.MinY(), MaxX: env.MaxX(), MaxY: env.MaxY()}
	return
}
