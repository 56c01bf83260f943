package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/terraref/terrautils"
	"github.com/terraref/terrautils/geo"
)

type extentOut struct {
	Tif    string     `json:"tif"`
	Bounds geo.Bounds `json:"bounds"`
	Center geo.Coord  `json:"center"`
	WKT    string     `json:"wkt"`
}

var extentCmd = &cobra.Command{
	Use:   "extent <tif>...",
	Short: "Print the extent and center of GeoTIFFs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := make([]extentOut, 0, len(args))
		for _, tif := range args {
			b, c, err := tb.RasterExtents(tif)
			if err != nil {
				return errors.Wrapf(err, "failed reading extent of %s", tif)
			}
			out = append(out, extentOut{Tif: tif, Bounds: b, Center: c, WKT: terrautils.BoundsToWkt(b)})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(extentCmd)
}
