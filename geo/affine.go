// Package geo 提供像素坐标与地理坐标间的仿射变换、栅格范围计算及按多边形裁剪栅格
package geo

import (
	"fmt"
	"math"
)

const (
	// 浮点坐标贴近整数的最小容差
	snapEps = 1e-9

	roundoffUlps = 64
	ulp          = 0x1p-52
)

// 像素坐标（列，行），可为小数
type Pixel struct {
	Col float64
	Row float64
}

// 地理坐标（经度/东向，纬度/北向）
type Coord struct {
	X float64
	Y float64
}

// GeoTransform 采用GDAL六参数约定：
// originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight
type GeoTransform [6]float64

func NewGeoTransform(originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight float64) (gt GeoTransform, err error) {
	if pixelWidth == 0 || pixelHeight == 0 {
		err = fmt.Errorf("%w: pixel size (%v, %v)", ErrInvalidTransform, pixelWidth, pixelHeight)
		return
	}
	gt = GeoTransform{originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight}
	return
}

// 由范围与行列数构造北向朝上的变换
func FromBounds(b Bounds, cols, rows int) (GeoTransform, error) {
	if cols <= 0 || rows <= 0 {
		return GeoTransform{}, fmt.Errorf("%w: grid %dx%d", ErrInvalidTransform, cols, rows)
	}
	return NewGeoTransform(b.MinX, (b.MaxX-b.MinX)/float64(cols), 0, b.MaxY, 0, -(b.MaxY-b.MinY)/float64(rows))
}

func (gt GeoTransform) OriginX() float64     { return gt[0] }
func (gt GeoTransform) PixelWidth() float64  { return gt[1] }
func (gt GeoTransform) RowRotation() float64 { return gt[2] }
func (gt GeoTransform) OriginY() float64     { return gt[3] }
func (gt GeoTransform) ColRotation() float64 { return gt[4] }
func (gt GeoTransform) PixelHeight() float64 { return gt[5] }

// 行列式
func (gt GeoTransform) Det() float64 {
	return gt[1]*gt[5] - gt[2]*gt[4]
}

// 像元分辨率（绝对值）
func (gt GeoTransform) Resolution() (float64, float64) {
	return math.Abs(gt[1]), math.Abs(gt[5])
}

// 像素坐标转地理坐标
func (gt GeoTransform) PixelToGeo(col, row float64) Coord {
	return Coord{
		X: gt[0] + col*gt[1] + row*gt[2],
		Y: gt[3] + col*gt[4] + row*gt[5],
	}
}

// 地理坐标转像素坐标，行列式为0时无唯一解
func (gt GeoTransform) GeoToPixel(x, y float64) (p Pixel, err error) {
	det := gt.Det()
	if det == 0 {
		err = ErrSingularTransform
		return
	}
	dx := x - gt[0]
	dy := y - gt[3]
	p.Col = (dx*gt[5] - dy*gt[2]) / det
	p.Row = (dy*gt[1] - dx*gt[4]) / det
	return
}

// 逆变换：地理坐标 -> 像素坐标
func (gt GeoTransform) Invert() (inv GeoTransform, err error) {
	det := gt.Det()
	if det == 0 {
		err = ErrSingularTransform
		return
	}
	inv[1] = gt[5] / det
	inv[2] = -gt[2] / det
	inv[4] = -gt[4] / det
	inv[5] = gt[1] / det
	inv[0] = -gt[0]*inv[1] - gt[3]*inv[2]
	inv[3] = -gt[0]*inv[4] - gt[3]*inv[5]
	return
}

// 平移原点至(col,row)像素处，像元大小与旋转不变
func (gt GeoTransform) Translate(col, row float64) GeoTransform {
	o := gt.PixelToGeo(col, row)
	out := gt
	out[0] = o.X
	out[3] = o.Y
	return out
}

func (gt GeoTransform) String() string {
	return fmt.Sprintf("GeoTransform(%v, %v, %v, %v, %v, %v)", gt[0], gt[1], gt[2], gt[3], gt[4], gt[5])
}

// 逆变换的舍入误差上界（像素），mag为参与计算的坐标最大绝对值
func (gt GeoTransform) pixelTolerance(mag float64) float64 {
	det := math.Abs(gt.Det())
	if det == 0 {
		return snapEps
	}
	gain := math.Max(math.Abs(gt[5])+math.Abs(gt[2]), math.Abs(gt[4])+math.Abs(gt[1])) / det
	return math.Max(snapEps, roundoffUlps*ulp*mag*gain)
}
