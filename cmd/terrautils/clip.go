package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cheggaaa/pb"
	perrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/terraref/terrautils"
	"github.com/terraref/terrautils/geo"
	"github.com/terraref/terrautils/utils"
)

const clipSuffix = "_clip"

var clipFlags struct {
	wkt        string
	geoJson    string
	bounds     string
	shp        string
	nameField  string
	plot       string
	srid       int
	rasterSrid int
	out        string
	tmp        bool
	workers    int
}

var clipCmd = &cobra.Command{
	Use:   "clip <tif>...",
	Short: "Clip GeoTIFFs to a polygon, masking pixels outside it with nodata",
	Long: `Clip GeoTIFFs to a polygon given as --wkt, --geojson, --bounds or a named
plot from --shp. Each x.tif is written to x_clip.tif next to it, to --out
for a single input, or to a new dir under tmp_dir with --tmp.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if clipFlags.out != "" && len(args) > 1 {
			return errors.New("--out only works with a single tif")
		}
		poly, err := clipPolygon()
		if err != nil {
			return err
		}
		var tmpDir string
		if clipFlags.tmp {
			if tmpDir, err = utils.GetUniqSubDir(tb.TmpDir()); err != nil {
				return perrors.Wrap(err, "failed creating temp output dir")
			}
		}
		jobs := make([]terrautils.ClipJob, len(args))
		for i, tif := range args {
			jobs[i] = terrautils.ClipJob{Tif: tif, Polygon: poly}
			switch {
			case clipFlags.out != "":
				jobs[i].Out = clipFlags.out
			case tmpDir != "":
				jobs[i].Out = filepath.Join(tmpDir, filepath.Base(utils.GetSiblingPath(tif, clipSuffix)))
			default:
				jobs[i].Out = utils.GetSiblingPath(tif, clipSuffix)
			}
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		bar := pb.StartNew(len(jobs))
		tStart := time.Now()
		rets, err := tb.ClipFiles(ctx, jobs, clipFlags.workers, func() { bar.Increment() })
		bar.FinishPrint(fmt.Sprintf("Clipping took %s", time.Since(tStart)))
		if err != nil {
			return err
		}
		failed := 0
		for _, ret := range rets {
			switch {
			case errors.Is(ret.Err, terrautils.ErrEmptyTif):
				fmt.Printf("%s: no valid pixels inside polygon\n", ret.Job.Tif)
			case ret.Err != nil:
				failed++
				fmt.Printf("%s: %v\n", ret.Job.Tif, ret.Err)
			default:
				fmt.Printf("%s -> %s (%dx%d, %d valid)\n", ret.Job.Tif, ret.Out, ret.Width, ret.Height, ret.Valid)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d clips failed", failed, len(rets))
		}
		return nil
	},
}

// 裁剪多边形，转换到栅格坐标系
func clipPolygon() (poly geo.Polygon, err error) {
	srid := clipFlags.srid
	switch {
	case clipFlags.wkt != "":
		poly, err = tb.PolygonFromWKT(clipFlags.wkt, srid)
	case clipFlags.geoJson != "":
		poly, err = tb.PolygonFromGeoJSON(clipFlags.geoJson)
		srid = terrautils.GEOJSON_SRID
	case clipFlags.bounds != "":
		vs := utils.StrToFloats(clipFlags.bounds, ",")
		if len(vs) != 4 {
			return nil, fmt.Errorf("--bounds needs minx,miny,maxx,maxy, got %q", clipFlags.bounds)
		}
		poly = geo.Bounds{MinX: vs[0], MinY: vs[1], MaxX: vs[2], MaxY: vs[3]}.Box().Polygon()
	case clipFlags.shp != "":
		if clipFlags.plot == "" {
			return nil, errors.New("--plot is required with --shp")
		}
		idx, e := loadPlotIndex(clipFlags.shp, clipFlags.nameField)
		if e != nil {
			return nil, e
		}
		p, ok := idx.Get(clipFlags.plot)
		if !ok {
			return nil, fmt.Errorf("plot %q not found in %s", clipFlags.plot, clipFlags.shp)
		}
		poly, srid = p.Boundary, terrautils.UNIVERSAL_SRID
	default:
		return nil, errors.New("one of --wkt, --geojson, --bounds or --shp is required")
	}
	if err != nil {
		return nil, perrors.Wrap(err, "bad clip polygon")
	}
	if clipFlags.rasterSrid > 0 && clipFlags.rasterSrid != srid {
		if poly, err = tb.TransformPolygon(poly, srid, clipFlags.rasterSrid); err != nil {
			return nil, perrors.Wrapf(err, "failed transforming polygon to srid %d", clipFlags.rasterSrid)
		}
	}
	return
}

func init() {
	f := clipCmd.Flags()
	f.StringVar(&clipFlags.wkt, "wkt", "", "clip polygon as WKT in --srid")
	f.StringVar(&clipFlags.geoJson, "geojson", "", "clip polygon as GeoJSON geometry (EPSG:4326)")
	f.StringVar(&clipFlags.bounds, "bounds", "", "clip box as minx,miny,maxx,maxy in --srid")
	f.StringVar(&clipFlags.shp, "shp", "", "plot boundary shapefile")
	f.StringVar(&clipFlags.nameField, "name-field", "sitename", "attribute holding the plot name")
	f.StringVar(&clipFlags.plot, "plot", "", "name of the plot to clip to")
	f.IntVar(&clipFlags.srid, "srid", terrautils.UNIVERSAL_SRID, "srid of --wkt and --bounds")
	f.IntVar(&clipFlags.rasterSrid, "raster-srid", 0, "srid of the tifs, the polygon is transformed when it differs")
	f.StringVarP(&clipFlags.out, "out", "o", "", "output tif for a single input")
	f.BoolVar(&clipFlags.tmp, "tmp", false, "write outputs to a new dir under tmp_dir")
	f.IntVar(&clipFlags.workers, "workers", 0, "parallel clips (default raster.workers)")
	rootCmd.AddCommand(clipCmd)
}
