package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/terraref/terrautils"
	"github.com/terraref/terrautils/geo"
)

var bboxFlags sensorFlags

type footprintOut struct {
	Name     string     `json:"name"`
	Bounds   geo.Bounds `json:"bounds"`
	Centroid geo.Coord  `json:"centroid"`
	WKT      string     `json:"wkt"`
}

var bboxCmd = &cobra.Command{
	Use:   "bbox",
	Short: "Print the lat/lon footprints of a sensor capture",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, fps, err := bboxFlags.footprints()
		if err != nil {
			return err
		}
		out := make([]footprintOut, len(fps))
		for i, fp := range fps {
			c, err := fp.Box().Centroid()
			if err != nil {
				return err
			}
			out[i] = footprintOut{Name: fp.Name, Bounds: fp.Bounds, Centroid: c, WKT: terrautils.BoundsToWkt(fp.Bounds)}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	bboxFlags.register(bboxCmd)
	rootCmd.AddCommand(bboxCmd)
}
