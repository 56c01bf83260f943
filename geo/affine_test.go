package geo

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestNewGeoTransform(t *testing.T) {
	tests := []struct {
		name    string
		gt      [6]float64
		wantErr error
	}{
		{"north up", [6]float64{409000, 0.5, 0, 3660000, 0, -0.5}, nil},
		{"rotated", [6]float64{10, 2, 0.3, 20, -0.4, -2}, nil},
		{"zero width", [6]float64{10, 0, 0, 20, 0, -1}, ErrInvalidTransform},
		{"zero height", [6]float64{10, 1, 0, 20, 0, 0}, ErrInvalidTransform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.gt
			gt, err := NewGeoTransform(g[0], g[1], g[2], g[3], g[4], g[5])
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected err %v, got %v", tt.wantErr, err)
			}
			if err == nil && [6]float64(gt) != g {
				t.Errorf("coefficients changed: %v", gt)
			}
		})
	}
}

func TestPixelToGeo(t *testing.T) {
	gt := GeoTransform{10.0, 0.1, 0.0, 20.0, 0.0, -1.0}
	got := gt.PixelToGeo(10, 1)
	if diff := cmp.Diff(Coord{X: 11, Y: 19}, got, approx); diff != "" {
		t.Fatalf("PixelToGeo mismatch (-want +got):\n%s", diff)
	}

	rot := GeoTransform{0, 2, 0.5, 0, 0.25, -3}
	got = rot.PixelToGeo(4, 2)
	if diff := cmp.Diff(Coord{X: 4*2 + 2*0.5, Y: 4*0.25 - 2*3}, got, approx); diff != "" {
		t.Fatalf("rotated PixelToGeo mismatch (-want +got):\n%s", diff)
	}
}

func TestGeoToPixelRoundTrip(t *testing.T) {
	transforms := []GeoTransform{
		{409012.2032, 0.001, 0, 3659974.971, 0, -0.001},
		{-111.975, 1.0e-5, 0, 33.08, 0, -1.0e-5},
		{10, 2, 0.3, 20, -0.4, -2},
		{0, 0.009, -0.9986, 0, 1.0002, 0.0078},
	}
	pixels := []Pixel{{0, 0}, {1, 1}, {12.5, 7.25}, {-3, 40}, {2048, 1536}}
	for _, gt := range transforms {
		for _, p := range pixels {
			c := gt.PixelToGeo(p.Col, p.Row)
			back, err := gt.GeoToPixel(c.X, c.Y)
			if err != nil {
				t.Fatalf("%v: %v", gt, err)
			}
			if diff := cmp.Diff(p, back, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
				t.Errorf("%v round trip of %v (-want +got):\n%s", gt, p, diff)
			}
		}
	}
}

func TestGeoToPixelSingular(t *testing.T) {
	tests := []struct {
		name string
		gt   GeoTransform
	}{
		{"zero pixel size", GeoTransform{100, 0, 0, 200, 0, 0}},
		{"zero value", GeoTransform{}},
		{"collinear axes", GeoTransform{0, 1, 1, 0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.gt.GeoToPixel(1, 1); !errors.Is(err, ErrSingularTransform) {
				t.Fatalf("expected ErrSingularTransform, got %v", err)
			}
			if _, err := tt.gt.Invert(); !errors.Is(err, ErrSingularTransform) {
				t.Fatalf("Invert: expected ErrSingularTransform, got %v", err)
			}
		})
	}
}

func TestInvert(t *testing.T) {
	gt := GeoTransform{10, 2, 0.3, 20, -0.4, -2}
	inv, err := gt.Invert()
	if err != nil {
		t.Fatal(err)
	}
	c := gt.PixelToGeo(3, 5)
	p := inv.PixelToGeo(c.X, c.Y)
	if diff := cmp.Diff(Coord{X: 3, Y: 5}, p, approx); diff != "" {
		t.Fatalf("inverse mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslate(t *testing.T) {
	gt := GeoTransform{100, 0.5, 0, 200, 0, -0.5}
	moved := gt.Translate(4, 6)
	want := GeoTransform{102, 0.5, 0, 197, 0, -0.5}
	if diff := cmp.Diff(want, moved, approx); diff != "" {
		t.Fatalf("Translate mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(gt.PixelToGeo(5, 7), moved.PixelToGeo(1, 1), approx); diff != "" {
		t.Fatalf("translated grid not aligned (-want +got):\n%s", diff)
	}
}

func TestFromBounds(t *testing.T) {
	b := BoundsFromSpan(33.0, 33.1, -112.0, -111.8)
	gt, err := FromBounds(b, 200, 100)
	if err != nil {
		t.Fatal(err)
	}
	want := GeoTransform{-112.0, 0.2 / 200, 0, 33.1, 0, -0.1 / 100}
	if diff := cmp.Diff(want, gt, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("FromBounds mismatch (-want +got):\n%s", diff)
	}
	if _, err := FromBounds(b, 0, 10); !errors.Is(err, ErrInvalidTransform) {
		t.Fatalf("expected ErrInvalidTransform, got %v", err)
	}
}
