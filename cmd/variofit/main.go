package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/flywave/go-geom/general"

	variogram "github.com/flywave/go-variogram"
)

type report struct {
	Empirical *variogram.Empirical `json:"empirical"`
	Fit       *variogram.FitResult `json:"fit"`
}

func main() {
	input := flag.String("input", "", "GeoJSON feature collection with sample values in the third coordinate")
	configPath := flag.String("config", "variofit.yaml", "YAML configuration file (optional)")
	output := flag.String("output", "", "Output JSON file (default: stdout)")
	shape := flag.String("shape", "", "Override fit shape: gaussian, spherical, exponential or any")
	declusterCell := flag.Float64("decluster", 0, "Cell size for declustering before estimation (0: off)")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := variogram.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *shape != "" {
		cfg.Fit.Shape = *shape
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *input, err)
	}
	fcs, err := general.UnmarshalFeatureCollection(data)
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", *input, err)
	}
	samples, err := variogram.FromFeatureCollection(fcs)
	if err != nil {
		log.Fatalf("Failed to extract samples: %v", err)
	}
	log.Printf("Loaded %d samples from %s", len(samples), *input)

	if *declusterCell > 0 {
		samples, err = variogram.Decluster(samples, *declusterCell)
		if err != nil {
			log.Fatalf("Declustering failed: %v", err)
		}
		log.Printf("Declustered to %d samples (cell %g)", len(samples), *declusterCell)
	}

	emp, err := variogram.Estimate(samples, cfg.EstimateOptions())
	if err != nil {
		log.Fatalf("Estimation failed: %v", err)
	}
	log.Printf("Empirical variogram: %d non-empty bins", len(emp.Points))

	rep := report{Empirical: emp}
	fit, err := variogram.Fit(emp, cfg.FitFromConfig())
	switch {
	case errors.Is(err, variogram.ErrConvergenceFailure):
		log.Printf("Warning: %v (best iterate reported)", err)
		rep.Fit = fit
	case err != nil:
		log.Fatalf("Fit failed: %v", err)
	default:
		rep.Fit = fit
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
	if *output == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(*output, out, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	log.Printf("Wrote %s", *output)
}
