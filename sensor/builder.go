package sensor

import (
	"fmt"
	"math"

	"github.com/terraref/terrautils/geo"
)

// 观测足迹：左右镜头或东西扫描头各一个
type Footprint struct {
	Name   string
	Bounds geo.Bounds
}

func (f Footprint) Box() geo.BoundingBox {
	return f.Bounds.Box()
}

// 龙门架坐标下的足迹：中心点与有效视场
type footprintSpec struct {
	name   string
	center Vec2
	fov    Vec2
}

type formula func(t Type, pos Position, p Params) []footprintSpec

var formulas = map[Type]formula{
	StereoTop:    stereoTop,
	FlirIrCamera: flirIrCamera,
	Scanner3DTop: scanner3DTop,
	PS2Top:       nadir,
	VNIR:         nadir,
	SWIR:         nadir,
}

type Builder struct {
	frame Frame
}

// frame缺省为DefaultFrame
func NewBuilder(frame ...Frame) *Builder {
	b := &Builder{frame: DefaultFrame}
	if len(frame) > 0 {
		b.frame = frame[0]
	}
	return b
}

func (b *Builder) Frame() Frame {
	return b.frame
}

// 各足迹的经纬度范围
func (b *Builder) Footprints(t Type, pos Position, p Params) (fps []Footprint, err error) {
	f, ok := formulas[t]
	if !ok {
		err = fmt.Errorf("%w: %v", ErrUnsupportedSensorType, t)
		return
	}
	specs := f(t, pos, p)
	fps = make([]Footprint, len(specs))
	for i, s := range specs {
		fps[i].Name = s.name
		if fps[i].Bounds, err = b.bounds(s.center, s.fov); err != nil {
			return nil, err
		}
	}
	return
}

// 所有足迹的外包框：左上、右上、右下、左下
func (b *Builder) BoundingBox(t Type, pos Position, p Params) (geo.BoundingBox, error) {
	bs, err := b.Bounds(t, pos, p)
	if err != nil {
		return nil, err
	}
	return bs.Box(), nil
}

// 所有足迹范围的并集；足迹均为零面积时退化为各足迹中心均值处的点
func (b *Builder) Bounds(t Type, pos Position, p Params) (bs geo.Bounds, err error) {
	fps, err := b.Footprints(t, pos, p)
	if err != nil {
		return
	}
	bs = fps[0].Bounds
	degenerate := true
	var sx, sy float64
	for i, fp := range fps {
		if i > 0 {
			bs = bs.Union(fp.Bounds)
		}
		if fp.Bounds.Width() != 0 && fp.Bounds.Height() != 0 {
			degenerate = false
		}
		c := fp.Bounds.Center()
		sx += c.X
		sy += c.Y
	}
	if degenerate && len(fps) > 1 {
		n := float64(len(fps))
		x, y := sx/n, sy/n
		bs = geo.Bounds{MinX: x, MinY: y, MaxX: x, MaxY: y}
	}
	return
}

// 由中心与视场求西北、东南两角，x朝北，y朝西
func (b *Builder) bounds(c, fov Vec2) (bs geo.Bounds, err error) {
	yw := c.Y + fov.Y/2
	ye := c.Y - fov.Y/2
	xn := c.X + fov.X/2
	xs := c.X - fov.X/2
	nwLat, nwLon, err := b.frame.LatLon(xn, yw)
	if err != nil {
		return
	}
	seLat, seLon, err := b.frame.LatLon(xs, ye)
	if err != nil {
		return
	}
	nwLat -= b.frame.LatShift
	seLat -= b.frame.LatShift
	nwLon += b.frame.LonShift
	seLon += b.frame.LonShift
	bs = geo.BoundsFromSpan(math.Min(seLat, nwLat), math.Max(seLat, nwLat), math.Min(nwLon, seLon), math.Max(nwLon, seLon))
	return
}

func center(pos Position, m Vec3) (c Vec2, h float64) {
	c = Vec2{X: pos.Gantry.X + m.X, Y: pos.Gantry.Y + m.Y}
	h = pos.Gantry.Z + m.Z
	return
}

// 按冠层以上高度缩放视场（视场为2米高处的值）
func scaleFOV(fov Vec2, height float64) Vec2 {
	return Vec2{X: fov.X * height / 2, Y: fov.Y * height / 2}
}

func stereoTop(_ Type, pos Position, p Params) []footprintSpec {
	c, h := center(pos, p.Mount)
	canopy := h + p.RailHeightOffset - p.SlopeEstimation*h
	fov := scaleFOV(p.FOV, canopy)
	return []footprintSpec{
		{name: "left", center: Vec2{X: c.X - p.StereoOffset, Y: c.Y}, fov: fov},
		{name: "right", center: Vec2{X: c.X + p.StereoOffset, Y: c.Y}, fov: fov},
	}
}

func flirIrCamera(t Type, pos Position, p Params) []footprintSpec {
	c, h := center(pos, p.Mount)
	return []footprintSpec{{name: t.String(), center: c, fov: scaleFOV(p.FOV, h+p.RailHeightOffset)}}
}

// 扫描方向旋转90度，x向视场取FOV.Y，y向取扫描距离
func scanner3DTop(_ Type, pos Position, p Params) []footprintSpec {
	var (
		sd   = pos.ScanDistance
		off  = p.Scanner
		fov  = Vec2{X: p.FOV.Y, Y: sd}
		g    = pos.Gantry
		west = Vec2{X: g.X + p.Mount.X + off.X, Y: g.Y + 2*p.Mount.Y}
		east = Vec2{X: g.X + p.EastMount.X + off.X, Y: g.Y + 2*p.EastMount.Y}
	)
	if pos.ScanDirection == 0 {
		west.Y += -sd/2 + off.NegWest
		east.Y += -sd/2 + off.NegEast
	} else {
		west.Y += sd/2 + off.PosWest
		east.Y += sd/2 + off.PosEast
	}
	return []footprintSpec{
		{name: "east", center: east, fov: fov},
		{name: "west", center: west, fov: fov},
	}
}

func nadir(t Type, pos Position, p Params) []footprintSpec {
	c, _ := center(pos, p.Mount)
	return []footprintSpec{{name: t.String(), center: c, fov: p.FOV}}
}
