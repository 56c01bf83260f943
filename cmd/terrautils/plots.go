package main

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/terraref/terrautils/plots"
	"github.com/terraref/terrautils/utils"
)

var plotsFlags struct {
	sensorFlags
	shp       string
	nameField string
	all       bool
	write     string
}

var plotsCmd = &cobra.Command{
	Use:   "plots",
	Short: "List the field plots covered by a sensor capture",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, fps, err := plotsFlags.footprints()
		if err != nil {
			return err
		}
		idx, err := loadPlotIndex(plotsFlags.shp, plotsFlags.nameField)
		if err != nil {
			return err
		}
		bs := fps[0].Bounds
		for _, fp := range fps[1:] {
			bs = bs.Union(fp.Bounds)
		}
		hits := idx.Intersecting(bs.Box(), plots.FilterOptions{FullMac: !plotsFlags.all})
		for _, p := range hits {
			fmt.Println(p.Name)
		}
		if plotsFlags.write != "" && len(hits) > 0 {
			if filepath.Ext(plotsFlags.write) != utils.FILE_EXT_SHP {
				plotsFlags.write += utils.FILE_EXT_SHP
			}
			if err = tb.WritePlotShapefile(plotsFlags.write, plotsFlags.nameField, tb.OutputSrid(), hits...); err != nil {
				return errors.Wrapf(err, "failed writing %s plots of %s", plotsFlags.write, t)
			}
		}
		return nil
	},
}

func loadPlotIndex(shp, nameField string) (*plots.Index, error) {
	ps, err := tb.ParsePlotShapefile(shp, nameField)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading plots from %s", shp)
	}
	return plots.NewIndex(ps), nil
}

func init() {
	plotsFlags.register(plotsCmd)
	f := plotsCmd.Flags()
	f.StringVar(&plotsFlags.shp, "shp", "", "plot boundary shapefile")
	f.StringVar(&plotsFlags.nameField, "name-field", "sitename", "attribute holding the plot name")
	f.BoolVar(&plotsFlags.all, "all", false, "keep partial plots (KSU, east/west halves)")
	f.StringVar(&plotsFlags.write, "write", "", "also write the matched plots to this shapefile")
	plotsCmd.MarkFlagRequired("shp")
	rootCmd.AddCommand(plotsCmd)
}
