package terrautils

import (
	"github.com/terraref/terrautils/geo"
)

type GdalGeo = []byte

// 写GeoTiff的选项：ProjWKT优先于SRID，二者均为空时不写坐标系
type WriteOptions struct {
	SRID     int
	ProjWKT  string
	Compress bool
}

// 单个文件的裁剪任务，Out为空时输出到临时目录
type ClipJob struct {
	Tif     string
	Polygon geo.Polygon
	Out     string
}

type ClipResult struct {
	Job    ClipJob
	Out    string // 实际输出路径，结果为空时不写文件
	Width  int
	Height int
	Valid  int // 非无效值像元数
	Err    error
}
