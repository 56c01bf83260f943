package geo

// 默认无效值
const DefaultNoData float64 = -9999

// 栅格缓冲：多波段按行优先存储，共享同一变换与无效值
type Raster struct {
	Width     int
	Height    int
	Bands     [][]float64
	Transform GeoTransform
	NoData    float64
}

// 以fill填充新建栅格
func NewRaster(width, height, bands int, gt GeoTransform, nodata, fill float64) *Raster {
	r := &Raster{
		Width:     width,
		Height:    height,
		Bands:     make([][]float64, bands),
		Transform: gt,
		NoData:    nodata,
	}
	for i := range r.Bands {
		buf := make([]float64, width*height)
		if fill != 0 {
			for j := range buf {
				buf[j] = fill
			}
		}
		r.Bands[i] = buf
	}
	return r
}

func (r *Raster) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

func (r *Raster) At(band, col, row int) float64 {
	return r.Bands[band][row*r.Width+col]
}

func (r *Raster) Set(band, col, row int, v float64) {
	r.Bands[band][row*r.Width+col] = v
}

// 非无效值的像元数（所有波段）
func (r *Raster) CountValid() (n int) {
	for _, b := range r.Bands {
		for _, v := range b {
			if v != r.NoData {
				n++
			}
		}
	}
	return
}

func (r *Raster) Extent() BoundingBox {
	return Extent(r.Width, r.Height, r.Transform)
}

func (r *Raster) Center() Coord {
	return Center(r.Width, r.Height, r.Transform)
}

func (r *Raster) Bounds() Bounds {
	return r.Extent().Bounds()
}

// 栅格四角的地理坐标：左上、右上、右下、左下
func Extent(width, height int, gt GeoTransform) BoundingBox {
	w, h := float64(width), float64(height)
	return BoundingBox{
		gt.PixelToGeo(0, 0),
		gt.PixelToGeo(w, 0),
		gt.PixelToGeo(w, h),
		gt.PixelToGeo(0, h),
	}
}

// 栅格中心点的地理坐标
func Center(width, height int, gt GeoTransform) Coord {
	return gt.PixelToGeo(float64(width)/2, float64(height)/2)
}
