package sensor

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/terraref/terrautils/utils"
)

const (
	MD_CLEANED       = "terraref_cleaned_metadata"
	MD_GANTRY        = "gantry_variable_metadata"
	MD_POSITION      = "position_m"
	MD_FIXED         = "sensor_fixed_metadata"
	MD_VARIABLE      = "sensor_variable_metadata"
	MD_CAMBOX        = "location_in_camera_box_m"
	MD_WEST_CAMBOX   = "scanner_west_location_in_camera_box_m"
	MD_EAST_CAMBOX   = "scanner_east_location_in_camera_box_m"
	MD_SLOPE         = "slope_estimation"
	MD_RAIL_OFFSET   = "rail_height_offset"
	MD_STEREO_OFFSET = "stereo_offsets_from_center"
	MD_SCAN_DISTANCE = "scan_distance_mm"
	MD_SCAN_DIR      = "scan_direction"
)

// 依次读取，后出现的覆盖前面的
var fovFields = []string{"field_of_view_m", "field_of_view_at_2m_m", "field_of_view_degrees"}

// 从清洗后的元数据解析观测位置与传感器参数，键名忽略大小写，数值可为字符串
func FromMetadata(md map[string]any, t Type) (pos Position, p Params, err error) {
	if !t.valid() {
		err = fmt.Errorf("%w: %v", ErrUnsupportedSensorType, t)
		return
	}
	cleaned, ok := utils.LookupFold(md, MD_CLEANED)
	if !ok || !cast.ToBool(cleaned) {
		err = fmt.Errorf("%w: %s", ErrMissingMetadata, MD_CLEANED)
		return
	}
	if pos.Gantry, err = vec3(md, false, MD_GANTRY, MD_POSITION); err != nil {
		return
	}
	p.Scanner = DefaultScannerOffsets
	fixed, ok := lookupMap(md, MD_FIXED)
	if !ok {
		err = fmt.Errorf("%w: %s", ErrMissingMetadata, MD_FIXED)
		return
	}
	for _, f := range fovFields {
		if sub, ok := lookupMap(fixed, f); ok {
			if v, ok := utils.LookupFold(sub, "x"); ok {
				if p.FOV.X, err = toFloat(v, f+".x"); err != nil {
					return
				}
			}
			if v, ok := utils.LookupFold(sub, "y"); ok {
				if p.FOV.Y, err = toFloat(v, f+".y"); err != nil {
					return
				}
			}
		}
	}

	if t == Scanner3DTop {
		if p.Mount, err = vec3(fixed, true, MD_WEST_CAMBOX); err != nil {
			return
		}
		if p.EastMount, err = vec3(fixed, true, MD_EAST_CAMBOX); err != nil {
			return
		}
		var mm float64
		if mm, err = number(md, MD_VARIABLE, MD_SCAN_DISTANCE); err != nil {
			return
		}
		pos.ScanDistance = mm / 1000
		v, ok := utils.LookupPath(md, MD_VARIABLE, MD_SCAN_DIR)
		if !ok {
			err = fmt.Errorf("%w: %s.%s", ErrMissingMetadata, MD_VARIABLE, MD_SCAN_DIR)
			return
		}
		if pos.ScanDirection, err = cast.ToIntE(v); err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrInvalidMetadata, MD_SCAN_DIR, err)
			return
		}
		return
	}

	if p.Mount, err = vec3(fixed, true, MD_CAMBOX); err != nil {
		return
	}
	switch t {
	case StereoTop:
		if p.SlopeEstimation, err = number(fixed, MD_SLOPE); err != nil {
			return
		}
		if p.RailHeightOffset, err = number(fixed, MD_RAIL_OFFSET); err != nil {
			return
		}
		p.StereoOffset, err = number(fixed, MD_STEREO_OFFSET)
	case FlirIrCamera:
		p.RailHeightOffset, err = number(fixed, MD_RAIL_OFFSET)
	}
	return
}

func lookupMap(m map[string]any, path ...string) (sub map[string]any, ok bool) {
	v, ok := utils.LookupPath(m, path...)
	if !ok {
		return
	}
	sub, ok = v.(map[string]any)
	return
}

func toFloat(v any, key string) (f float64, err error) {
	if f, err = cast.ToFloat64E(v); err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrInvalidMetadata, key, err)
	}
	return
}

func number(m map[string]any, path ...string) (f float64, err error) {
	v, ok := utils.LookupPath(m, path...)
	if !ok {
		err = fmt.Errorf("%w: %s", ErrMissingMetadata, joinPath(path))
		return
	}
	return toFloat(v, joinPath(path))
}

// x、y必需；z缺失时当zOptional为true取0
func vec3(m map[string]any, zOptional bool, path ...string) (v Vec3, err error) {
	sub, ok := lookupMap(m, path...)
	if !ok {
		err = fmt.Errorf("%w: %s", ErrMissingMetadata, joinPath(path))
		return
	}
	if v.X, err = number(sub, "x"); err != nil {
		return
	}
	if v.Y, err = number(sub, "y"); err != nil {
		return
	}
	if _, ok = utils.LookupFold(sub, "z"); !ok && zOptional {
		return
	}
	v.Z, err = number(sub, "z")
	return
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
