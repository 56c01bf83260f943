package terrautils

import (
	"errors"
	"fmt"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"

	"github.com/terraref/terrautils/log"
	"github.com/terraref/terrautils/plots"
	"github.com/terraref/terrautils/utils"
)

// 从shp文件中解析小区边界（srid=4326），非面要素跳过
func (g *Toolbox) ParsePlotShapefile(shp, nameField string) (ret []plots.Plot, err error) {
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	nameIdx := layer.Definition().FieldIndex(nameField)
	if nameIdx < 0 {
		err = fmt.Errorf(ErrColumnMissingTemplate, nameField)
		return
	}
	srid, err := g.getSrid(layer.SpatialReference())
	if err != nil {
		return
	}
	var (
		needTrans = srid != UNIVERSAL_SRID
		tRef      gdal.SpatialReference
		feature   *gdal.Feature
		geom      gdal.Geometry
		name      string
		skipped   int
		gc        []destroyable
	)
	if needTrans {
		if tRef, err = g.getSridRef(UNIVERSAL_SRID); err != nil {
			return
		}
	}
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		if name = feature.FieldAsString(nameIdx); name == "" {
			err = fmt.Errorf(ErrColumnEmptyTemplate, nameField)
			return
		}
		geom = feature.Geometry()
		if needTrans {
			if err = geom.TransformTo(tRef); err != nil {
				log.Error(g.logTag+"geo transform failed", zap.String("plot", name), zap.Error(err))
				return
			}
		}
		p := plots.Plot{Name: name}
		if p.Boundary, err = polygonFromGeometry(geom); err != nil {
			if errors.Is(err, ErrGdalWrongGeoType) {
				log.Warn(g.logTag+"skip non-polygon plot", zap.String("plot", name))
				skipped++
				err = nil
				continue
			}
			return
		}
		ret = append(ret, p)
	}
	if len(ret) == 0 && skipped == 0 {
		err = ErrGdalEmptyShp
		return
	}
	log.Info(g.logTag+"got plots from shp", zap.String("shp", shp), zap.Int("srid", srid),
		zap.Int("plots", len(ret)), zap.Int("skipped", skipped))
	return
}

func (g *Toolbox) getShpDriver(shp string, srid int) (ds gdal.DataSource, layer gdal.Layer, err error) {
	log.Info(g.logTag+"output shp files", zap.String("shp", shp), zap.Int("srid", srid))
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Create(shp, nil)
	if !ok {
		err = ErrGdalDriverCreate
		return
	}
	layer = ds.CreateLayer(utils.GetFilenameWithoutExt(shp), ref, gdal.GT_Polygon, []string{ENCODING_OPTION})
	return
}

// 将小区边界写入shp，名称写入nameField字段
func (g *Toolbox) WritePlotShapefile(shp, nameField string, srid int, ps ...plots.Plot) (err error) {
	ds, layer, err := g.getShpDriver(shp, srid)
	if err != nil {
		return
	}
	defer ds.Destroy() // 生成shp文件 + 释放资源
	fd := gdal.CreateFieldDefinition(nameField, gdal.FT_String)
	fd.SetWidth(PLOT_NAME_WIDTH)
	if err = layer.CreateField(fd, false); err != nil {
		return
	}
	var (
		def     = layer.Definition()
		nameIdx = def.FieldIndex(nameField)
		feature gdal.Feature
		geom    gdal.Geometry
		cnt     int
		e       error
		gc      = make([]destroyable, 0, len(ps))
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for i, p := range ps {
		feature = def.Create()
		gc = append(gc, feature)
		if e = feature.SetFID(int64(i)); e != nil {
			log.Error(g.logTag+"err in set feature fid", zap.Error(e))
			continue
		}
		feature.SetFieldString(nameIdx, p.Name)
		if geom, e = buildPolygon(p.Boundary); e != nil {
			log.Error(g.logTag+"err in build plot polygon", zap.String("plot", p.Name), zap.Error(e))
			continue
		}
		if e = feature.SetGeometryDirectly(geom); e != nil {
			log.Error(g.logTag+"err in set geom of feature", zap.Error(e))
			continue
		}
		if e = layer.Create(feature); e != nil {
			log.Error(g.logTag+"err in create feature of layer", zap.Error(e))
			continue
		}
		cnt++
	}
	log.Info(g.logTag+"shp files created", zap.String("shp", shp), zap.Int("total", len(ps)), zap.Int("valid", cnt))
	return
}
