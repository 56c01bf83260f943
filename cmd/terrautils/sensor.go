package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/terraref/terrautils/sensor"
)

// bbox与plots命令共用
type sensorFlags struct {
	sensor   string
	metadata string
	side     string
}

func (f *sensorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sensor, "sensor", "", "sensor type: stereoTop, flirIrCamera, scanner3DTop, ps2Top, VNIR or SWIR")
	cmd.Flags().StringVar(&f.metadata, "metadata", "", "cleaned metadata json file")
	cmd.Flags().StringVar(&f.side, "side", "", "only this footprint (left/right for stereoTop, east/west for scanner3DTop)")
	cmd.MarkFlagRequired("sensor")
	cmd.MarkFlagRequired("metadata")
}

func readMetadata(path string) (md map[string]any, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading metadata %s", path)
	}
	if err = json.Unmarshal(b, &md); err != nil {
		return nil, errors.Wrapf(err, "metadata %s is not a json object", path)
	}
	return
}

// 按元数据计算足迹，side不为空时只保留同名足迹
func (f *sensorFlags) footprints() (t sensor.Type, fps []sensor.Footprint, err error) {
	if t, err = sensor.ParseType(f.sensor); err != nil {
		return
	}
	md, err := readMetadata(f.metadata)
	if err != nil {
		return
	}
	pos, params, err := sensor.FromMetadata(md, t)
	if err != nil {
		return t, nil, errors.Wrapf(err, "bad %s metadata", t)
	}
	params = cfg.SensorParams(t, params)
	frame, err := cfg.SensorFrame()
	if err != nil {
		return
	}
	all, err := sensor.NewBuilder(frame).Footprints(t, pos, params)
	if err != nil {
		return
	}
	if f.side == "" {
		return t, all, nil
	}
	for _, fp := range all {
		if fp.Name == f.side {
			fps = append(fps, fp)
		}
	}
	if len(fps) == 0 {
		err = errors.Errorf("%s has no %q footprint", t, f.side)
	}
	return
}
