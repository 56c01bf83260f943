package geo

import (
	"fmt"
	"math"
)

// 裁剪窗口（像素）
type Window struct {
	Col, Row   int
	Cols, Rows int
}

func (w Window) Empty() bool {
	return w.Cols == 0 || w.Rows == 0
}

// 多边形在栅格像素网格中的外包窗口，已截断至栅格范围
func PixelWindow(width, height int, gt GeoTransform, poly Polygon) (w Window, err error) {
	ring, tol, err := pixelRing(width, height, gt, poly)
	if err != nil {
		return
	}
	w = pixelWindow(width, height, ring, tol)
	return
}

// 多边形顶点转像素坐标，并给出像素空间的容差
func pixelRing(width, height int, gt GeoTransform, poly Polygon) (ring Polygon, tol float64, err error) {
	src := poly.Ring()
	if len(src) < 3 {
		err = fmt.Errorf("%w: %d vertices", ErrEmptyPolygon, len(src))
		return
	}
	far := gt.PixelToGeo(float64(width), float64(height))
	mag := math.Max(math.Max(math.Abs(gt[0]), math.Abs(gt[3])), math.Max(math.Abs(far.X), math.Abs(far.Y)))
	ring = make(Polygon, len(src))
	var p Pixel
	for i, v := range src {
		if p, err = gt.GeoToPixel(v.X, v.Y); err != nil {
			return nil, 0, err
		}
		ring[i] = Coord{X: p.Col, Y: p.Row}
		mag = math.Max(mag, math.Max(math.Abs(v.X), math.Abs(v.Y)))
	}
	tol = gt.pixelTolerance(mag)
	return
}

func pixelWindow(width, height int, ring Polygon, tol float64) (w Window) {
	b := ring.Bounds()
	w.Col, w.Cols = axisRange(b.MinX, b.MaxX, width, tol)
	w.Row, w.Rows = axisRange(b.MinY, b.MaxY, height, tol)
	if w.Empty() {
		w.Cols, w.Rows = 0, 0
	}
	return
}

func snap(v, tol float64) float64 {
	if r := math.Round(v); math.Abs(v-r) <= tol {
		return r
	}
	return v
}

func axisRange(lo, hi float64, limit int, tol float64) (start, n int) {
	lo, hi = snap(lo, tol), snap(hi, tol)
	s, e := math.Floor(lo), math.Ceil(hi)
	if hi-lo <= tol {
		e = s
	}
	lim := float64(limit)
	s = math.Max(0, math.Min(s, lim))
	e = math.Max(0, math.Min(e, lim))
	start = int(s)
	if e > s {
		n = int(e) - start
	}
	return
}

// 按多边形裁剪栅格：窗口外不输出，窗口内中心不在多边形内的像元置为无效值。
// 判断在像素空间进行，多边形退化或完全落在栅格外时返回空栅格而非错误
func Clip(r *Raster, poly Polygon) (*Raster, error) {
	ring, tol, err := pixelRing(r.Width, r.Height, r.Transform, poly)
	if err != nil {
		return nil, err
	}
	w := pixelWindow(r.Width, r.Height, ring, tol)
	gt := r.Transform.Translate(float64(w.Col), float64(w.Row))
	out := NewRaster(w.Cols, w.Rows, len(r.Bands), gt, r.NoData, r.NoData)
	if w.Empty() {
		return out, nil
	}
	for row := 0; row < w.Rows; row++ {
		sr := w.Row + row
		for col := 0; col < w.Cols; col++ {
			sc := w.Col + col
			if !ring.within(Coord{X: float64(sc) + 0.5, Y: float64(sr) + 0.5}, tol) {
				continue
			}
			for b := range r.Bands {
				out.Bands[b][row*w.Cols+col] = r.Bands[b][sr*r.Width+sc]
			}
		}
	}
	return out, nil
}

// 按矩形范围裁剪
func ClipBounds(r *Raster, b Bounds) (*Raster, error) {
	return Clip(r, b.Box().Polygon())
}
