// Package main provides a benchmark harness for electrode detection. It stamps
// synthetic electrodes into a CT-like volume, runs one or both detection
// strategies, scores them against the known contact positions, and optionally
// persists runs and renders review plots.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/seegkit/seegkit/internal/config"
	"github.com/seegkit/seegkit/internal/detect"
	"github.com/seegkit/seegkit/internal/monitoring"
	"github.com/seegkit/seegkit/internal/report"
	"github.com/seegkit/seegkit/internal/store"
	"github.com/seegkit/seegkit/internal/version"
)

func main() {
	var (
		nx         = flag.Int("nx", 128, "volume X extent in voxels")
		ny         = flag.Int("ny", 128, "volume Y extent in voxels")
		nz         = flag.Int("nz", 128, "volume Z extent in voxels")
		voxelMM    = flag.Float64("voxel-mm", 1.0, "isotropic voxel size in millimetres")
		electrodes = flag.Int("electrodes", 4, "number of synthetic electrodes")
		contacts   = flag.Int("contacts", 10, "contacts per electrode")
		pitchMM    = flag.Float64("pitch-mm", 3.5, "contact pitch in millimetres")
		noiseBlobs = flag.Int("noise", 20, "number of single-voxel noise blobs")
		seed       = flag.Int64("seed", 1, "random seed for scene generation")
		detector   = flag.String("detector", "both", "detection strategy: spacing, density, or both")
		configPath = flag.String("config", "", "optional tuning config (JSON)")
		dbPath     = flag.String("db", "", "optional SQLite database to persist runs")
		plotDir    = flag.String("plots", "", "optional directory for PNG projections and 3D HTML")
		label      = flag.String("label", "", "label stored with persisted runs")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("seeg-bench %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	monitoring.SetVerbose(*verbose)

	tuning := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	cfg := tuning.DetectionConfig()

	spec := sceneSpec{
		NX: *nx, NY: *ny, NZ: *nz,
		VoxelMM:    *voxelMM,
		Electrodes: *electrodes,
		Contacts:   *contacts,
		PitchMM:    *pitchMM,
		NoiseBlobs: *noiseBlobs,
		Intensity:  float32(cfg.Threshold) + 600,
		Seed:       *seed,
	}
	vol, truth, err := buildScene(spec)
	if err != nil {
		log.Fatalf("build scene: %v", err)
	}
	fmt.Printf("scene: %dx%dx%d voxels, %d electrodes x %d contacts @ %.1f mm, %d noise blobs (seed %d)\n\n",
		*nx, *ny, *nz, *electrodes, *contacts, *pitchMM, *noiseBlobs, *seed)

	var detectors []detect.Detector
	switch *detector {
	case "spacing":
		detectors = append(detectors, detect.NewSpacingAwareDetector())
	case "density":
		detectors = append(detectors, detect.NewDensityDetector(tuning.GetDensityEpsMM(), tuning.GetDensityMinPts()))
	case "both":
		detectors = append(detectors,
			detect.NewSpacingAwareDetector(),
			detect.NewDensityDetector(tuning.GetDensityEpsMM(), tuning.GetDensityMinPts()))
	default:
		log.Fatalf("unknown detector %q (want spacing, density, or both)", *detector)
	}

	var db *store.Store
	if *dbPath != "" {
		db, err = store.Open(*dbPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
	}

	headers := []string{"Detector", "Electrodes", "Matched", "Precision", "Recall", "Time"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
	var rows [][]string

	for _, d := range detectors {
		start := time.Now()
		res, err := d.Detect(vol, cfg)
		if err != nil {
			log.Fatalf("%s: %v", d.Name(), err)
		}
		elapsed := time.Since(start)

		m := evaluate(res, truth)
		rows = append(rows, []string{
			d.Name(),
			fmt.Sprintf("%d/%d", m.DetectedElectrodes, m.TruthElectrodes),
			fmt.Sprintf("%d", m.MatchedElectrodes),
			fmt.Sprintf("%.3f", m.ContactPrecision),
			fmt.Sprintf("%.3f", m.ContactRecall),
			elapsed.Round(time.Millisecond).String(),
		})

		if db != nil {
			id, err := db.SaveRun(d.Name(), *label, cfg, res)
			if err != nil {
				log.Fatalf("save run: %v", err)
			}
			fmt.Printf("saved %s run %s\n", d.Name(), id)
		}

		if *plotDir != "" {
			files, err := report.SaveProjections(res, *plotDir, d.Name())
			if err != nil {
				log.Fatalf("save projections: %v", err)
			}
			html, err := report.SaveScatter3D(res, *plotDir, d.Name())
			if err != nil {
				log.Fatalf("save 3d view: %v", err)
			}
			fmt.Printf("wrote %d projections and %s\n", len(files), html)
		}
	}

	fmt.Println(renderTable(headers, rows, aligns))

	if *dbPath != "" {
		runs, err := db.ListRuns(5)
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		fmt.Printf("\n%d most recent stored runs:\n", len(runs))
		for _, r := range runs {
			fmt.Printf("  %s  %-14s %2d electrodes  %s\n",
				r.CreatedAt.Format(time.RFC3339), r.Detector, r.ElectrodeCount, r.ID)
		}
	}
}
