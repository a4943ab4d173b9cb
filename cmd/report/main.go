// Command report renders every dashboard chart and the XLSX export of the
// 2015 poverty map into a directory.
//
// Usage:
//
//	go run ./cmd/report [-data <table>] [-geo <geojson>] [-out <dir>]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"povertymap/internal/dashboard/views"
	"povertymap/internal/platform/logger"
	"povertymap/internal/poverty/reference"
	"povertymap/internal/poverty/snapshot"
	"povertymap/internal/report"
)

type options struct {
	dataPath string
	geoPath  string
	outDir   string
}

func main() {
	var opts options
	flag.StringVar(&opts.dataPath, "data", "data/poverty_tunisia.csv", "governorate table (.csv or .xlsx)")
	flag.StringVar(&opts.geoPath, "geo", "geo/tunisia_governorates.geojson", "governorate boundaries")
	flag.StringVar(&opts.outDir, "out", "out", "output directory")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.NewWithWriter(os.Stderr, *level, "text")
	if err := run(context.Background(), opts, log, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log *slog.Logger, stdout io.Writer) error {
	table, err := reference.Default()
	if err != nil {
		return err
	}
	loader, err := snapshot.NewLoader(opts.dataPath, opts.geoPath, table, snapshot.WithLogger(log))
	if err != nil {
		return err
	}
	snap, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.outDir, err)
	}

	g, _ := errgroup.WithContext(ctx)
	for _, chart := range report.Charts() {
		g.Go(func() error {
			body, err := report.RenderChart(snap, chart)
			if err != nil {
				return fmt.Errorf("%s: %w", chart, err)
			}
			return write(opts.outDir, chart.Filename(), body)
		})
	}
	g.Go(func() error {
		body, err := report.Workbook(snap)
		if err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
		return write(opts.outDir, report.WorkbookFilename, body)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return summarize(stdout, snap, opts.outDir)
}

func write(dir, name string, body []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func summarize(w io.Writer, snap *snapshot.Snapshot, outDir string) error {
	overview, err := views.BuildOverview(snap)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Taux national: %s\n", report.FormatRate(overview.NationalRate))
	fmt.Fprintf(w, "Région la plus pauvre: %s (%s)\n", overview.PoorestRegion.Name, report.FormatRate(overview.PoorestRegion.PovertyRate))
	fmt.Fprintf(w, "Région la plus riche: %s (%s)\n", overview.RichestRegion.Name, report.FormatRate(overview.RichestRegion.PovertyRate))
	fmt.Fprintf(w, "Écart régional: %s\n", report.FormatPoints(overview.RegionalGap.Points))
	for _, r := range views.BuildRegionList(snap).Regions {
		fmt.Fprintf(w, "  %-14s %8s  %s pauvres estimés\n", r.Region, report.FormatRate(r.PovertyRate), report.FormatCount(r.EstimatedPoor))
	}
	fmt.Fprintf(w, "%d graphiques et %s écrits dans %s\n", len(report.Charts()), report.WorkbookFilename, outDir)
	return nil
}
