package terrautils

import (
	"context"
	"errors"
	"sync"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/terraref/terrautils/geo"
	"github.com/terraref/terrautils/log"
	"github.com/terraref/terrautils/utils"
)

var registerOnce sync.Once

func registerDrivers() {
	registerOnce.Do(gdal.RegisterAll)
}

// 读取Tif全部波段（按float64），无效值取第一波段的设置，未设置时用默认值
func (g *Toolbox) LoadRaster(tif string) (r *geo.Raster, err error) {
	r, _, err = g.loadRaster(tif)
	return
}

func (g *Toolbox) loadRaster(tif string) (r *geo.Raster, proj string, err error) {
	sds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	tifBands := sds.Bands()
	if len(tifBands) == 0 {
		log.Error(g.logTag+"tif has no band", zap.String("tif", tif))
		err = ErrWrongBand
		return
	}
	gt, err := sds.GeoTransform()
	if err != nil {
		log.Error(g.logTag+"read geotransform failed", zap.String("tif", tif), zap.Error(err))
		err = ErrGeoTransform
		return
	}
	st := sds.Structure()
	nd := g.noData
	if v, ok := tifBands[0].NoData(); ok {
		nd = v
	}
	log.Info(g.logTag+"start read tif", zap.String("tif", tif), zap.Int("bands", len(tifBands)),
		zap.Int("width", st.SizeX), zap.Int("height", st.SizeY), zap.Float64("nodata", nd))
	r = geo.NewRaster(st.SizeX, st.SizeY, len(tifBands), geo.GeoTransform(gt), nd, 0)
	for i, band := range tifBands {
		if err = band.Read(0, 0, r.Bands[i], st.SizeX, st.SizeY); err != nil {
			log.Error(g.logTag+"read tif band failed", zap.Int("band", i), zap.Error(err))
			err = ErrTifReadFailed
			return nil, "", err
		}
	}
	proj = sds.Projection()
	return
}

// 写出Float64 GeoTiff，各波段设置相同的无效值
func (g *Toolbox) WriteRaster(out string, r *geo.Raster, opts WriteOptions) (err error) {
	if r == nil || r.Empty() || len(r.Bands) == 0 {
		err = ErrEmptyTif
		return
	}
	var co []string
	if opts.Compress {
		co = append(co, COMPRESS_OPTION)
	}
	ds, err := gdal.Create(gdal.GTiff, out, len(r.Bands), gdal.Float64, r.Width, r.Height, gdal.CreationOption(co...))
	if err != nil {
		log.Error(g.logTag+"create tif failed", zap.String("out", out), zap.Error(err))
		err = ErrGdalDriverCreate
		return
	}
	defer func() {
		if e := ds.Close(); e != nil && err == nil {
			log.Error(g.logTag+"close tif failed", zap.String("out", out), zap.Error(e))
			err = ErrTifWriteFailed
		}
	}()
	if err = ds.SetGeoTransform([6]float64(r.Transform)); err != nil {
		log.Error(g.logTag+"set geotransform failed", zap.Error(err))
		err = ErrTifWriteFailed
		return
	}
	if err = g.setProjection(ds, opts); err != nil {
		log.Error(g.logTag+"set projection failed", zap.Int("srid", opts.SRID), zap.Error(err))
		err = ErrTifWriteFailed
		return
	}
	for i, band := range ds.Bands() {
		if err = band.SetNoData(r.NoData); err != nil {
			log.Error(g.logTag+"set band nodata failed", zap.Int("band", i), zap.Error(err))
			err = ErrTifWriteFailed
			return
		}
		if err = band.Write(0, 0, r.Bands[i], r.Width, r.Height); err != nil {
			log.Error(g.logTag+"write tif band failed", zap.Int("band", i), zap.Error(err))
			err = ErrTifWriteFailed
			return
		}
	}
	log.Info(g.logTag+"tif written", zap.String("out", out), zap.Int("bands", len(r.Bands)),
		zap.Int("width", r.Width), zap.Int("height", r.Height))
	return
}

func (g *Toolbox) setProjection(ds *gdal.Dataset, opts WriteOptions) (err error) {
	switch {
	case opts.ProjWKT != "":
		err = ds.SetProjection(opts.ProjWKT)
	case opts.SRID > 0:
		var sr *gdal.SpatialRef
		if sr, err = gdal.NewSpatialRefFromEPSG(opts.SRID); err != nil {
			return
		}
		defer sr.Close()
		err = ds.SetSpatialRef(sr)
	}
	return
}

// 栅格外包范围与中心点
func (g *Toolbox) RasterExtents(tif string) (b geo.Bounds, c geo.Coord, err error) {
	sds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	raw, err := sds.GeoTransform()
	if err != nil {
		log.Error(g.logTag+"read geotransform failed", zap.String("tif", tif), zap.Error(err))
		err = ErrGeoTransform
		return
	}
	st := sds.Structure()
	gt := geo.GeoTransform(raw)
	b = geo.Extent(st.SizeX, st.SizeY, gt).Bounds()
	c = geo.Center(st.SizeX, st.SizeY, gt)
	return
}

// 按多边形裁剪Tif并写出，out为空时写到临时目录；裁剪结果全为无效值时不写文件并返回ErrEmptyTif
func (g *Toolbox) ClipRasterFile(tif string, poly geo.Polygon, out string) (r *geo.Raster, dst string, err error) {
	src, proj, err := g.loadRaster(tif)
	if err != nil {
		return
	}
	if r, err = geo.Clip(src, poly); err != nil {
		log.Error(g.logTag+"clip raster failed", zap.String("tif", tif), zap.Error(err))
		return
	}
	valid := r.CountValid()
	log.Info(g.logTag+"raster clipped", zap.String("tif", tif), zap.Int("width", r.Width),
		zap.Int("height", r.Height), zap.Int("valid", valid))
	if r.Empty() || valid == 0 {
		err = ErrEmptyTif
		return
	}
	dst = out
	if dst == "" {
		dst = utils.GetUniqFilePath(g.tmpDir, TMP_CLIP_PREFIX, utils.FILE_EXT_TIF)
	}
	if err = g.WriteRaster(dst, r, WriteOptions{SRID: g.srid, ProjWKT: proj, Compress: g.compress}); err != nil {
		dst = ""
	}
	return
}

// 按矩形范围裁剪Tif
func (g *Toolbox) ClipBoundsFile(tif string, b geo.Bounds, out string) (*geo.Raster, string, error) {
	return g.ClipRasterFile(tif, b.Box().Polygon(), out)
}

// 并发裁剪多个文件，workers<=0时使用默认并发数；单个任务失败不影响其他任务。
// progress不为空时每完成一个任务调用一次
func (g *Toolbox) ClipFiles(ctx context.Context, jobs []ClipJob, workers int, progress func()) (rets []ClipResult, err error) {
	if workers <= 0 {
		workers = g.workers
	}
	rets = make([]ClipResult, len(jobs))
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i := range jobs {
		i := i
		eg.Go(func() error {
			ret := &rets[i]
			ret.Job = jobs[i]
			if ret.Err = ctx.Err(); ret.Err != nil {
				return nil
			}
			r, dst, e := g.ClipRasterFile(jobs[i].Tif, jobs[i].Polygon, jobs[i].Out)
			ret.Out, ret.Err = dst, e
			if r != nil {
				ret.Width, ret.Height, ret.Valid = r.Width, r.Height, r.CountValid()
			}
			if progress != nil {
				progress()
			}
			return nil
		})
	}
	eg.Wait()
	failed := 0
	for _, ret := range rets {
		if ret.Err != nil && !errors.Is(ret.Err, ErrEmptyTif) {
			failed++
		}
	}
	log.Info(g.logTag+"clip files done", zap.Int("jobs", len(jobs)), zap.Int("workers", workers), zap.Int("failed", failed))
	err = ctx.Err()
	return
}
