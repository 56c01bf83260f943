package sensor

import (
	"fmt"

	"github.com/im7mortal/UTM"

	"github.com/terraref/terrautils/geo"
)

type Vec2 struct {
	X, Y float64
}

type Vec3 struct {
	X, Y, Z float64
}

// 单次观测的龙门架状态
type Position struct {
	Gantry        Vec3    // 扫描箱位置（米）
	ScanDistance  float64 // 激光扫描距离（米）
	ScanDirection int     // 0为负向扫描
}

// 3D扫描仪东西两个扫描头的经验偏移（米）
type ScannerOffsets struct {
	X       float64
	NegWest float64
	NegEast float64
	PosWest float64
	PosEast float64
}

var DefaultScannerOffsets = ScannerOffsets{
	X:       0.082,
	NegWest: -4.363,
	NegEast: -0.354,
	PosWest: -4.23,
	PosEast: 0.4,
}

// 传感器固定参数，构造后只读
type Params struct {
	FOV              Vec2 // 视场（米，或2米高处的米数）
	Mount            Vec3 // 传感器在扫描箱内的位置；3D扫描仪为西侧扫描头
	EastMount        Vec3 // 3D扫描仪东侧扫描头
	SlopeEstimation  float64
	RailHeightOffset float64
	StereoOffset     float64 // 立体相机左右镜头到中心的距离
	Scanner          ScannerOffsets
}

// 场地坐标系：龙门架本地米制坐标经仿射变换到UTM，再转经纬度并加固定偏移
type Frame struct {
	ToUTM      geo.GeoTransform
	Zone       int
	ZoneLetter string
	LatShift   float64
	LonShift   float64
}

// Maricopa场地扫描仪坐标系
var DefaultFrame = Frame{
	ToUTM:      geo.GeoTransform{409012.2032, 0.009, -0.9986, 3659974.971, 1.0002, 0.0078},
	Zone:       12,
	ZoneLetter: "S",
	LatShift:   0.000015258894,
	LonShift:   0.000020308287,
}

// 龙门架坐标转UTM
func (f Frame) UTM(gx, gy float64) geo.Coord {
	return f.ToUTM.PixelToGeo(gx, gy)
}

// 龙门架坐标转经纬度（未加偏移）
func (f Frame) LatLon(gx, gy float64) (lat, lon float64, err error) {
	u := f.UTM(gx, gy)
	lat, lon, err = UTM.ToLatLon(u.X, u.Y, f.Zone, f.ZoneLetter)
	if err != nil {
		err = fmt.Errorf("%w: gantry (%v, %v): %v", ErrInvalidMetadata, gx, gy, err)
	}
	return
}
