package geo

import (
	"fmt"
	"math"
	"strings"
)

// 点到边距离的相对容差（相对边长）
const edgeEps = 1e-9

// 外包矩形 minx,miny,maxx,maxy
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// 由(lat min, lat max, lon min, lon max)元组构造
func BoundsFromSpan(latMin, latMax, lonMin, lonMax float64) Bounds {
	return Bounds{MinX: lonMin, MinY: latMin, MaxX: lonMax, MaxY: latMax}
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

func (b Bounds) Center() Coord {
	return Coord{X: b.MinX + b.Width()/2, Y: b.MinY + b.Height()/2}
}

func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// 闭区间相交（含边界接触）
func (b Bounds) Overlaps(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// 四角点：左上、右上、右下、左下
func (b Bounds) Box() BoundingBox {
	return BoundingBox{
		{X: b.MinX, Y: b.MaxY},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MinX, Y: b.MinY},
	}
}

// 多边形外环，首尾点可重复也可隐式闭合
type Polygon []Coord

// 去掉重复闭合点后的顶点
func (p Polygon) Ring() []Coord {
	n := len(p)
	if n > 1 && p[0] == p[n-1] {
		return p[:n-1]
	}
	return p
}

func (p Polygon) Bounds() Bounds {
	if len(p) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: p[0].X, MinY: p[0].Y, MaxX: p[0].X, MaxY: p[0].Y}
	for _, c := range p[1:] {
		b.MinX = math.Min(b.MinX, c.X)
		b.MinY = math.Min(b.MinY, c.Y)
		b.MaxX = math.Max(b.MaxX, c.X)
		b.MaxY = math.Max(b.MaxY, c.Y)
	}
	return b
}

// 鞋带公式求面积（绝对值）
func (p Polygon) Area() float64 {
	ring := p.Ring()
	n := len(ring)
	if n < 3 {
		return 0
	}
	var s float64
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		s += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(s) / 2
}

// 点是否在多边形内，落在边上视为在内
func (p Polygon) Contains(c Coord) bool {
	return p.within(c, -1)
}

// 点到边的距离不超过tol视为在边上；tol<0时取边长的edgeEps倍
func (p Polygon) within(c Coord, tol float64) bool {
	ring := p.Ring()
	n := len(ring)
	if n == 0 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[j], ring[i]
		if onSegment(a, b, c, tol) {
			return true
		}
		if (b.Y > c.Y) != (a.Y > c.Y) {
			x := b.X + (c.Y-b.Y)*(a.X-b.X)/(a.Y-b.Y)
			if c.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(a, b, c Coord, tol float64) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		eps := math.Max(tol, snapEps)
		return math.Abs(c.X-a.X) <= eps && math.Abs(c.Y-a.Y) <= eps
	}
	l := math.Sqrt(l2)
	if tol < 0 {
		tol = edgeEps * l
	}
	cross := dx*(c.Y-a.Y) - dy*(c.X-a.X)
	if math.Abs(cross) > tol*l {
		return false
	}
	dot := (c.X-a.X)*dx + (c.Y-a.Y)*dy
	return dot >= -tol*l && dot <= l2+tol*l
}

// 两多边形是否相交（含接触）
func Intersects(p, q Polygon) bool {
	if !p.Bounds().Overlaps(q.Bounds()) {
		return false
	}
	pr, qr := p.Ring(), q.Ring()
	for _, c := range pr {
		if q.Contains(c) {
			return true
		}
	}
	for _, c := range qr {
		if p.Contains(c) {
			return true
		}
	}
	for i := range pr {
		a1, a2 := pr[i], pr[(i+1)%len(pr)]
		for j := range qr {
			if segmentsCross(a1, a2, qr[j], qr[(j+1)%len(qr)]) {
				return true
			}
		}
	}
	return false
}

func orient(a, b, c Coord) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func segmentsCross(a1, a2, b1, b2 Coord) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func (p Polygon) WKT() string {
	ring := p.Ring()
	if len(ring) == 0 {
		return "POLYGON EMPTY"
	}
	var sb strings.Builder
	sb.WriteString("POLYGON ((")
	for i, c := range ring {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v %v", c.X, c.Y)
	}
	fmt.Fprintf(&sb, ", %v %v))", ring[0].X, ring[0].Y)
	return sb.String()
}

// 观测外包框，构造器总是给出左上、右上、右下、左下四点
type BoundingBox []Coord

func (bb BoundingBox) Polygon() Polygon { return Polygon(bb) }

func (bb BoundingBox) Bounds() Bounds { return Polygon(bb).Bounds() }

func (bb BoundingBox) Area() float64 { return Polygon(bb).Area() }

func (bb BoundingBox) WKT() string { return Polygon(bb).WKT() }

func (bb BoundingBox) Centroid() (Coord, error) { return Centroid(bb) }

// 外包框四顶点的算术平均
func Centroid(bb BoundingBox) (c Coord, err error) {
	if len(bb) != 4 {
		err = fmt.Errorf("%w: centroid needs 4 vertices, got %d", ErrInvalidGeometry, len(bb))
		return
	}
	for _, v := range bb {
		c.X += v.X
		c.Y += v.Y
	}
	c.X /= 4
	c.Y /= 4
	return
}
