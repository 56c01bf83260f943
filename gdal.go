// Package terrautils 基于GDAL的栅格读写、按多边形裁剪及矢量解析
package terrautils

import (
	"strconv"
	"sync"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"

	"github.com/terraref/terrautils/config"
	"github.com/terraref/terrautils/geo"
	"github.com/terraref/terrautils/log"
)

type Toolbox struct {
	refMap   map[int]gdal.SpatialReference
	rLock    sync.Mutex
	tmpDir   string
	noData   float64
	srid     int
	compress bool
	workers  int
	logTag   string
}

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}

// 初始化工具箱，tmpDir为可选的临时目录路径（未提供的话为当前目录）
func NewToolbox(tmpDir ...string) *Toolbox {
	registerDrivers()
	g := &Toolbox{
		refMap:   map[int]gdal.SpatialReference{},
		noData:   geo.DefaultNoData,
		srid:     UNIVERSAL_SRID,
		compress: true,
		workers:  DEFAULT_WORKERS,
		logTag:   "Toolbox:",
	}
	if len(tmpDir) > 0 && tmpDir[0] != "" {
		g.tmpDir = tmpDir[0]
	}
	return g
}

// 按配置初始化工具箱
func NewToolboxFromConfig(cfg *config.Config) *Toolbox {
	g := NewToolbox(cfg.TmpDir)
	g.noData = cfg.Raster.NoData
	g.srid = cfg.Raster.SRID
	g.compress = cfg.Raster.Compress
	if cfg.Raster.Workers > 0 {
		g.workers = cfg.Raster.Workers
	}
	return g
}

func (g *Toolbox) TmpDir() string {
	return g.tmpDir
}

// 无坐标系的栅格写出时使用的srid
func (g *Toolbox) OutputSrid() int {
	return g.srid
}

// 获取srid对应的坐标系（可复用，故无需回收）
func (g *Toolbox) getSridRef(srid int) (ref gdal.SpatialReference, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(srid); err != nil {
		log.Error(g.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		ref.Destroy()
		return
	}
	// 数据轴次序固定为(经度,纬度)（传统GIS坐标序）
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	g.refMap[srid] = ref
	return
}

func (g *Toolbox) getSrid(sp gdal.SpatialReference) (srid int, err error) {
	wkt, _ := sp.ToWKT()
	log.Debug(g.logTag+"spatial ref attrs", zap.String("attr", wkt))
	rawId, ok := sp.AttrValue("AUTHORITY", 1)
	if !ok {
		// 不规范的prj文件没有AUTHORITY节点
		if e := sp.AutoIdentifyEPSG(); e == nil {
			rawId, ok = sp.AttrValue("AUTHORITY", 1)
		}
	}
	if !ok {
		err = ErrVoidSrid
		return
	}
	srid, err = strconv.Atoi(rawId)
	log.Info(g.logTag+"got srid from sp", zap.String("id", rawId))
	return
}

// 释放缓存的坐标系
func (g *Toolbox) Close() {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	for k, ref := range g.refMap {
		ref.Destroy()
		delete(g.refMap, k)
	}
}
