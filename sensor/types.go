// Package sensor 由龙门架位置与传感器参数计算观测外包框
package sensor

import (
	"fmt"

	"github.com/terraref/terrautils/utils"
)

type Type int

const (
	StereoTop Type = iota + 1
	FlirIrCamera
	Scanner3DTop
	PS2Top
	VNIR
	SWIR
)

var typeNames = [...]string{
	StereoTop:    "stereoTop",
	FlirIrCamera: "flirIrCamera",
	Scanner3DTop: "scanner3DTop",
	PS2Top:       "ps2Top",
	VNIR:         "VNIR",
	SWIR:         "SWIR",
}

func (t Type) String() string {
	if t.valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) valid() bool {
	return t >= StereoTop && t <= SWIR
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSensorType, int(t))
	}
	return []byte(typeNames[t]), nil
}

func (t *Type) UnmarshalText(b []byte) (err error) {
	*t, err = ParseType(utils.B2S(b))
	return
}

// 全部已知传感器类型
func Types() []Type {
	return []Type{StereoTop, FlirIrCamera, Scanner3DTop, PS2Top, VNIR, SWIR}
}

// 名称忽略大小写
func ParseType(name string) (Type, error) {
	for _, t := range Types() {
		if utils.EqualFold(typeNames[t], name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSensorType, name)
}
