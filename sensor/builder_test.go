package sensor

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/terraref/terrautils/geo"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestParseType(t *testing.T) {
	for _, tt := range Types() {
		got, err := ParseType(tt.String())
		if err != nil || got != tt {
			t.Errorf("ParseType(%q) = %v, %v", tt.String(), got, err)
		}
	}
	if got, err := ParseType("FLIRIRCAMERA"); err != nil || got != FlirIrCamera {
		t.Errorf("case-insensitive parse failed: %v %v", got, err)
	}
	if _, err := ParseType("hyperspectral"); !errors.Is(err, ErrUnsupportedSensorType) {
		t.Errorf("expected ErrUnsupportedSensorType, got %v", err)
	}
	var ty Type
	if err := ty.UnmarshalText([]byte("scanner3dtop")); err != nil || ty != Scanner3DTop {
		t.Errorf("UnmarshalText: %v %v", ty, err)
	}
	if Type(42).String() != "Type(42)" {
		t.Errorf("unexpected name %s", Type(42))
	}
}

func TestFrameReference(t *testing.T) {
	lat, lon, err := DefaultFrame.LatLon(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lat-33.0745) > 0.01 || math.Abs(lon+111.975) > 0.01 {
		t.Fatalf("gantry origin at (%v, %v), expected near Maricopa field", lat, lon)
	}
	u := DefaultFrame.UTM(10, 20)
	want := geo.Coord{X: 409012.2032 + 0.009*10 - 0.9986*20, Y: 3659974.971 + 1.0002*10 + 0.0078*20}
	if diff := cmp.Diff(want, u, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Fatalf("UTM mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsupportedType(t *testing.T) {
	b := NewBuilder()
	for _, ty := range []Type{0, Type(42)} {
		if _, err := b.BoundingBox(ty, Position{}, Params{}); !errors.Is(err, ErrUnsupportedSensorType) {
			t.Errorf("%v: expected ErrUnsupportedSensorType, got %v", ty, err)
		}
	}
}

func TestZeroFOVIsZeroArea(t *testing.T) {
	b := NewBuilder()
	zeroFOV := Params{
		Mount:            Vec3{0.5, 1, 0.5},
		EastMount:        Vec3{0.5, 2, 0.5},
		RailHeightOffset: 0.974,
		StereoOffset:     0.095,
		Scanner:          DefaultScannerOffsets,
	}
	type testCase struct {
		name string
		ty   Type
		pos  Position
		p    Params
	}
	var tests []testCase
	for _, ty := range Types() {
		tests = append(tests, testCase{ty.String() + " zero fov", ty, Position{Gantry: Vec3{10, 20, 3}, ScanDirection: 1}, zeroFOV})
	}
	tests = append(tests, testCase{"flirIrCamera zero height", FlirIrCamera, Position{Gantry: Vec3{10, 20, 0}}, Params{FOV: Vec2{1.5, 1}}})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, err := b.BoundingBox(tt.ty, tt.pos, tt.p)
			if err != nil {
				t.Fatal(err)
			}
			if len(box) != 4 {
				t.Fatalf("expected 4 vertices, got %d", len(box))
			}
			if box.Area() != 0 {
				t.Fatalf("expected zero area, got %v", box.Area())
			}
			c, err := box.Centroid()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(box[0], c, approx); diff != "" {
				t.Fatalf("centroid of point box (-want +got):\n%s", diff)
			}
		})
	}
}

func TestZeroFOVCollapsesToFootprintMean(t *testing.T) {
	b := NewBuilder()
	pos := Position{Gantry: Vec3{10, 20, 3}}
	p := Params{Mount: Vec3{0.5, 1, 0.5}, StereoOffset: 0.095}
	fps, err := b.Footprints(StereoTop, pos, p)
	if err != nil {
		t.Fatal(err)
	}
	l, r := fps[0].Bounds.Center(), fps[1].Bounds.Center()
	want := geo.Coord{X: (l.X + r.X) / 2, Y: (l.Y + r.Y) / 2}
	bs, err := b.Bounds(StereoTop, pos, p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(geo.Bounds{MinX: want.X, MinY: want.Y, MaxX: want.X, MaxY: want.Y}, bs, approx); diff != "" {
		t.Fatalf("collapsed bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestBoxVertexOrder(t *testing.T) {
	box, err := NewBuilder().BoundingBox(PS2Top, Position{Gantry: Vec3{100, 10, 2}}, Params{FOV: Vec2{2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	ul, ur, lr, ll := box[0], box[1], box[2], box[3]
	if !(ul.X < ur.X && ul.Y == ur.Y && ur.X == lr.X && lr.Y < ur.Y && ll.X == ul.X && ll.Y == lr.Y) {
		t.Fatalf("box not ordered ul, ur, lr, ll: %v", box)
	}
	if box.Area() <= 0 {
		t.Fatal("expected positive area")
	}
}

func TestCentroidNearCenter(t *testing.T) {
	b := NewBuilder()
	pos := Position{Gantry: Vec3{50, 10, 2}}
	box, err := b.BoundingBox(VNIR, pos, Params{FOV: Vec2{1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	c, err := geo.Centroid(box)
	if err != nil {
		t.Fatal(err)
	}
	lat, lon, _ := DefaultFrame.LatLon(50, 10)
	want := geo.Coord{X: lon + DefaultFrame.LonShift, Y: lat - DefaultFrame.LatShift}
	if diff := cmp.Diff(want, c, approx); diff != "" {
		t.Fatalf("centroid mismatch (-want +got):\n%s", diff)
	}
}

func TestStereoTopSpecs(t *testing.T) {
	pos := Position{Gantry: Vec3{10, 20, 3}}
	p := Params{
		FOV:              Vec2{1, 2},
		Mount:            Vec3{0.5, 1, 0.5},
		SlopeEstimation:  0.4,
		RailHeightOffset: 0.1,
		StereoOffset:     0.2,
	}
	// h=3.5，冠层以上 3.5+0.1-1.4=2.2
	fov := Vec2{1.1, 2.2}
	want := []footprintSpec{
		{name: "left", center: Vec2{10.3, 21}, fov: fov},
		{name: "right", center: Vec2{10.7, 21}, fov: fov},
	}
	if diff := cmp.Diff(want, stereoTop(StereoTop, pos, p), cmp.AllowUnexported(footprintSpec{}), approx); diff != "" {
		t.Fatalf("stereo specs mismatch (-want +got):\n%s", diff)
	}
}

func TestStereoTopEnvelope(t *testing.T) {
	b := NewBuilder()
	pos := Position{Gantry: Vec3{10, 20, 3}}
	p := Params{FOV: Vec2{1, 1}, Mount: Vec3{0, 0, 0.5}, StereoOffset: 0.3}
	fps, err := b.Footprints(StereoTop, pos, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(fps) != 2 || fps[0].Name != "left" || fps[1].Name != "right" {
		t.Fatalf("unexpected footprints %+v", fps)
	}
	if fps[0].Bounds.MaxY >= fps[1].Bounds.MaxY {
		t.Errorf("left lens should be south of right lens")
	}
	env, err := b.Bounds(StereoTop, pos, p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fps[0].Bounds.Union(fps[1].Bounds), env, approx); diff != "" {
		t.Fatalf("envelope mismatch (-want +got):\n%s", diff)
	}
	box, _ := b.BoundingBox(StereoTop, pos, p)
	if diff := cmp.Diff(env.Box(), box, approx); diff != "" {
		t.Fatalf("box mismatch (-want +got):\n%s", diff)
	}
}

func TestFlirIrCameraSpec(t *testing.T) {
	pos := Position{Gantry: Vec3{1, 2, 3}}
	p := Params{FOV: Vec2{2, 4}, Mount: Vec3{0.1, 0.2, 1}, RailHeightOffset: 0.5, SlopeEstimation: 0.9}
	want := []footprintSpec{{name: "flirIrCamera", center: Vec2{1.1, 2.2}, fov: Vec2{4.5, 9}}}
	if diff := cmp.Diff(want, flirIrCamera(FlirIrCamera, pos, p), cmp.AllowUnexported(footprintSpec{}), approx); diff != "" {
		t.Fatalf("flir spec mismatch (-want +got):\n%s", diff)
	}
}

func TestScanner3DTopSpecs(t *testing.T) {
	p := Params{
		FOV:       Vec2{0.5, 0.8},
		Mount:     Vec3{1, 2, 0.5},
		EastMount: Vec3{1, 3, 0.5},
		Scanner:   DefaultScannerOffsets,
	}
	tests := []struct {
		name       string
		dir        int
		west, east Vec2
	}{
		{"negative", 0, Vec2{11.082, 20 + 4 - 1.5 - 4.363}, Vec2{11.082, 20 + 6 - 1.5 - 0.354}},
		{"positive", 1, Vec2{11.082, 20 + 4 + 1.5 - 4.23}, Vec2{11.082, 20 + 6 + 1.5 + 0.4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := Position{Gantry: Vec3{10, 20, 3}, ScanDistance: 3, ScanDirection: tt.dir}
			fov := Vec2{0.8, 3}
			want := []footprintSpec{
				{name: "east", center: tt.east, fov: fov},
				{name: "west", center: tt.west, fov: fov},
			}
			if diff := cmp.Diff(want, scanner3DTop(Scanner3DTop, pos, p), cmp.AllowUnexported(footprintSpec{}), approx); diff != "" {
				t.Fatalf("scanner specs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuilderCustomFrame(t *testing.T) {
	f := DefaultFrame
	f.LatShift, f.LonShift = 0, 0
	b := NewBuilder(f)
	if b.Frame() != f {
		t.Fatal("frame not kept")
	}
	pos := Position{Gantry: Vec3{5, 5, 2}}
	shifted, _ := NewBuilder().Bounds(PS2Top, pos, Params{FOV: Vec2{1, 1}})
	plain, _ := b.Bounds(PS2Top, pos, Params{FOV: Vec2{1, 1}})
	if diff := cmp.Diff(plain.MinY-DefaultFrame.LatShift, shifted.MinY, approx); diff != "" {
		t.Fatalf("lat shift not applied (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(plain.MinX+DefaultFrame.LonShift, shifted.MinX, approx); diff != "" {
		t.Fatalf("lon shift not applied (-want +got):\n%s", diff)
	}
}

func TestFrameOutOfZone(t *testing.T) {
	f := DefaultFrame
	f.ToUTM = geo.GeoTransform{0, 1, 0, 0, 0, 1}
	if _, err := NewBuilder(f).BoundingBox(PS2Top, Position{}, Params{}); !errors.Is(err, ErrInvalidMetadata) {
		t.Fatalf("expected ErrInvalidMetadata, got %v", err)
	}
}
