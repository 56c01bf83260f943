package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/terraref/terrautils"
	"github.com/terraref/terrautils/config"
	"github.com/terraref/terrautils/log"
)

var (
	version = "head"
	commit  = "head"
)

var rootFlags struct {
	config   string
	logLevel string
}

var (
	cfg *config.Config
	tb  *terrautils.Toolbox
)

var rootCmd = &cobra.Command{
	Use:   "terrautils",
	Short: "Sensor footprints, plot lookup and raster clipping for the field scanner",
	Long: `terrautils computes ground footprints of gantry sensors from their cleaned
metadata, finds the field plots they cover and clips GeoTIFFs to plot
boundaries.

Configuration is read from terrautils.yaml (., ./configs or ~/.terrautils)
and TERRAUTILS_* environment variables, e.g. TERRAUTILS_RASTER_WORKERS=8.
`,
	Version:       fmt.Sprintf("%v, commit %v", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if cfg, err = config.Load(rootFlags.config); err != nil {
			return errors.Wrap(err, "failed loading configuration")
		}
		if rootFlags.logLevel != "" {
			cfg.Log.Level = rootFlags.logLevel
		}
		if err = log.Init(cfg.Log.Level, cfg.Log.JSON); err != nil {
			return errors.Wrapf(err, "bad log level %q", cfg.Log.Level)
		}
		tb = terrautils.NewToolboxFromConfig(cfg)
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// 子命令出错时同样释放工具箱并刷新日志
func run(args []string) error {
	rootCmd.SetArgs(args)
	defer cleanup()
	return rootCmd.Execute()
}

func cleanup() {
	if tb != nil {
		tb.Close()
		tb = nil
	}
	_ = log.Sync()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.config, "config", "", "config file (default terrautils.yaml in the search path)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}
