// Package plots 试验小区边界的空间索引
package plots

import (
	"slices"
	"strings"

	"github.com/dhconnelly/rtreego"

	"github.com/terraref/terrautils/geo"
	"github.com/terraref/terrautils/utils"
)

const (
	// R-tree要求矩形边长非零，同时外扩使边界接触也能命中
	rectPad = 1e-9

	minChildren = 25
	maxChildren = 50
)

// 非完整小区的名称标记
var (
	partialMarks    = []string{"KSU"}
	partialSuffixes = []string{" E", " W"}
)

type Plot struct {
	Name     string
	Boundary geo.Polygon
}

// fullmac模式下跳过KSU及东西半区
func (p Plot) Partial() bool {
	return utils.ContainsAny(p.Name, partialMarks...) || utils.HasAnySuffix(p.Name, partialSuffixes...)
}

type FilterOptions struct {
	FullMac bool
}

var DefaultFilter = FilterOptions{FullMac: true}

type entry struct {
	plot   Plot
	bounds geo.Bounds
}

func (e *entry) Bounds() rtreego.Rect {
	return toRect(e.bounds)
}

func toRect(b geo.Bounds) rtreego.Rect {
	point := rtreego.Point{b.MinX - rectPad, b.MinY - rectPad}
	lengths := []float64{b.Width() + 2*rectPad, b.Height() + 2*rectPad}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

type Index struct {
	rtree  *rtreego.Rtree
	byName map[string]*entry
}

// 边界少于3个顶点的小区不入索引
func NewIndex(ps []Plot) *Index {
	idx := &Index{
		rtree:  rtreego.NewTree(2, minChildren, maxChildren),
		byName: make(map[string]*entry, len(ps)),
	}
	for _, p := range ps {
		if len(p.Boundary.Ring()) < 3 {
			continue
		}
		e := &entry{plot: p, bounds: p.Boundary.Bounds()}
		if old, ok := idx.byName[p.Name]; ok {
			idx.rtree.Delete(old)
		}
		idx.byName[p.Name] = e
		idx.rtree.Insert(e)
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.byName)
}

func (idx *Index) Get(name string) (p Plot, ok bool) {
	e, ok := idx.byName[name]
	if ok {
		p = e.plot
	}
	return
}

// 与外包框相交（含接触）的小区，按名称排序
func (idx *Index) Intersecting(box geo.BoundingBox, opts FilterOptions) (ret []Plot) {
	poly := box.Polygon()
	if len(poly) == 0 {
		return
	}
	for _, s := range idx.rtree.SearchIntersect(toRect(poly.Bounds())) {
		e := s.(*entry)
		if opts.FullMac && e.plot.Partial() {
			continue
		}
		if geo.Intersects(poly, e.plot.Boundary) {
			ret = append(ret, e.plot)
		}
	}
	slices.SortFunc(ret, func(a, b Plot) int {
		return strings.Compare(a.Name, b.Name)
	})
	return
}
