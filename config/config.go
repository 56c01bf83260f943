// Package config 读取配置文件与TERRAUTILS_前缀的环境变量
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/terraref/terrautils/geo"
	"github.com/terraref/terrautils/sensor"
	"github.com/terraref/terrautils/utils"
)

const (
	ENV_PREFIX  = "TERRAUTILS"
	CONFIG_NAME = "terrautils"
	HOME_DIR    = "~/.terrautils"
)

var logLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	Log     LogConfig                 `mapstructure:"log"`
	TmpDir  string                    `mapstructure:"tmp_dir"`
	Raster  RasterConfig              `mapstructure:"raster"`
	Frame   FrameConfig               `mapstructure:"frame"`
	Sensors map[string]SensorOverride `mapstructure:"sensors"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type RasterConfig struct {
	NoData   float64 `mapstructure:"nodata"`
	SRID     int     `mapstructure:"srid"`
	Compress bool    `mapstructure:"compress"`
	Workers  int     `mapstructure:"workers"`
}

// 龙门架坐标系，to_utm为GDAL次序的6个仿射系数
type FrameConfig struct {
	ToUTM      []float64 `mapstructure:"to_utm"`
	Zone       int       `mapstructure:"zone"`
	ZoneLetter string    `mapstructure:"zone_letter"`
	LatShift   float64   `mapstructure:"lat_shift"`
	LonShift   float64   `mapstructure:"lon_shift"`
}

// 按传感器名覆盖元数据中的固定参数，未设置的字段保持原值
type SensorOverride struct {
	FOV              []float64       `mapstructure:"fov"`
	SlopeEstimation  *float64        `mapstructure:"slope_estimation"`
	RailHeightOffset *float64        `mapstructure:"rail_height_offset"`
	StereoOffset     *float64        `mapstructure:"stereo_offset"`
	Scanner          *ScannerOffsets `mapstructure:"scanner"`
}

type ScannerOffsets struct {
	X       float64 `mapstructure:"x"`
	NegWest float64 `mapstructure:"neg_west"`
	NegEast float64 `mapstructure:"neg_east"`
	PosWest float64 `mapstructure:"pos_west"`
	PosEast float64 `mapstructure:"pos_east"`
}

func setDefaults(v *viper.Viper) {
	f := sensor.DefaultFrame
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("tmp_dir", "")
	v.SetDefault("raster.nodata", geo.DefaultNoData)
	v.SetDefault("raster.srid", 4326)
	v.SetDefault("raster.compress", true)
	v.SetDefault("raster.workers", 4)
	v.SetDefault("frame.to_utm", f.ToUTM[:])
	v.SetDefault("frame.zone", f.Zone)
	v.SetDefault("frame.zone_letter", f.ZoneLetter)
	v.SetDefault("frame.lat_shift", f.LatShift)
	v.SetDefault("frame.lon_shift", f.LonShift)
}

// path为空时依次在当前目录、./configs及~/.terrautils下查找terrautils.yaml，找不到则只用默认值与环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(CONFIG_NAME)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := homedir.Expand(HOME_DIR); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// TERRAUTILS_RASTER_WORKERS → raster.workers
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Sprintf("log.level must be one of %s, got %q", strings.Join(logLevels, "/"), c.Log.Level))
	}
	if c.Raster.SRID <= 0 {
		errs = append(errs, fmt.Sprintf("raster.srid must be positive, got %d", c.Raster.SRID))
	}
	if c.Raster.Workers <= 0 {
		errs = append(errs, "raster.workers must be positive")
	}
	if _, err := c.SensorFrame(); err != nil {
		errs = append(errs, err.Error())
	}
	for name, o := range c.Sensors {
		if _, err := sensor.ParseType(name); err != nil {
			errs = append(errs, fmt.Sprintf("sensors.%s: unknown sensor", name))
		}
		if len(o.FOV) != 0 && len(o.FOV) != 2 {
			errs = append(errs, fmt.Sprintf("sensors.%s.fov must have 2 values, got %d", name, len(o.FOV)))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) SensorFrame() (f sensor.Frame, err error) {
	fc := c.Frame
	if len(fc.ToUTM) != 6 {
		err = fmt.Errorf("frame.to_utm must have 6 values, got %d", len(fc.ToUTM))
		return
	}
	copy(f.ToUTM[:], fc.ToUTM)
	if f.ToUTM.Det() == 0 {
		err = fmt.Errorf("frame.to_utm: %w", geo.ErrSingularTransform)
		return
	}
	if fc.Zone < 1 || fc.Zone > 60 {
		err = fmt.Errorf("frame.zone must be 1-60, got %d", fc.Zone)
		return
	}
	if fc.ZoneLetter == "" {
		err = errors.New("frame.zone_letter is required")
		return
	}
	f.Zone = fc.Zone
	f.ZoneLetter = fc.ZoneLetter
	f.LatShift = fc.LatShift
	f.LonShift = fc.LonShift
	return
}

// 以配置覆盖传感器参数
func (c *Config) SensorParams(t sensor.Type, base sensor.Params) sensor.Params {
	o, ok := c.override(t)
	if !ok {
		return base
	}
	p := base
	if len(o.FOV) == 2 {
		p.FOV = sensor.Vec2{X: o.FOV[0], Y: o.FOV[1]}
	}
	if o.SlopeEstimation != nil {
		p.SlopeEstimation = *o.SlopeEstimation
	}
	if o.RailHeightOffset != nil {
		p.RailHeightOffset = *o.RailHeightOffset
	}
	if o.StereoOffset != nil {
		p.StereoOffset = *o.StereoOffset
	}
	if s := o.Scanner; s != nil {
		p.Scanner = sensor.ScannerOffsets{X: s.X, NegWest: s.NegWest, NegEast: s.NegEast, PosWest: s.PosWest, PosEast: s.PosEast}
	}
	return p
}

// viper的键均为小写
func (c *Config) override(t sensor.Type) (o SensorOverride, ok bool) {
	key := utils.FoldKey(t.String())
	for name, v := range c.Sensors {
		if utils.FoldKey(name) == key {
			return v, true
		}
	}
	return
}
