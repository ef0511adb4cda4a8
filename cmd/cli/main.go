package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	wavio "github.com/warpalign/warpalign/pkg/warpalign/audio"

	"github.com/warpalign/warpalign/internal/signal"
	"github.com/warpalign/warpalign/pkg/logger"
	"github.com/warpalign/warpalign/pkg/models"
	"github.com/warpalign/warpalign/pkg/warpalign"
)

// Global flags shared by every subcommand
var (
	dbPath      string
	sampleRate  float64
	durationSec float64
	seed        int64
	dtwWindow   int
)

func registerGlobalFlags(fs *flag.FlagSet) {
	fs.StringVar(&dbPath, "db", getEnvOrDefault("WARPALIGN_DB_PATH", "warpalign.sqlite3"), "Path to the SQLite database file")
	fs.Float64Var(&sampleRate, "rate", 1000, "Sampling rate of the synthetic reference signal (Hz)")
	fs.Float64Var(&durationSec, "duration", 1.0, "Duration of the synthetic reference signal (seconds)")
	fs.Int64Var(&seed, "seed", 42, "Seed for noise transformations")
	fs.IntVar(&dtwWindow, "window", 0, "Sakoe-Chiba band half-width for DTW (0 = unconstrained)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func createService(persist bool) (warpalign.Service, error) {
	opts := []warpalign.Option{
		warpalign.WithSampleRate(sampleRate),
		warpalign.WithSeed(seed),
		warpalign.WithDTWWindow(dtwWindow),
	}
	if persist {
		opts = append(opts, warpalign.WithDBPath(dbPath))
	} else {
		opts = append(opts, warpalign.WithoutPersistence())
	}
	return warpalign.NewService(opts...)
}

// referenceSignal is the canonical demo reference:
// sin(2*pi*5t) + 0.5*sin(2*pi*10t).
func referenceSignal() models.Signal {
	return signal.SineMix([]float64{5, 10}, []float64{1, 0.5}, durationSec, sampleRate)
}

func main() {
	log := logger.GetLogger()

	printBanner()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	log.Debugf("Executing command: %s", command)

	switch command {
	case "demo":
		handleDemo(os.Args[2:])
	case "analyze":
		handleAnalyze(os.Args[2:])
	case "list":
		handleList(os.Args[2:])
	case "show":
		handleShow(os.Args[2:])
	case "delete":
		handleDelete(os.Args[2:])
	case "export":
		handleExport(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
 __      __                  _   _ _
 \ \    / /_ _ _ _ _ __ __ _| | (_) |_  _ _ _
  \ \/\/ / _' | '_| '_ \ _' | |_| | | || | ' \
   \_/\_/\__,_|_| | .__/__,_|____|_|\_, |_||_|
                  |_|               |__/
      Temporal Alignment & Reconstruction
`
	fmt.Println(banner)
}

func printUsage() {
	fmt.Println(`Usage: warpalign <command> [flags]

Commands:
  demo      Run the full transformation catalog through both estimators
  analyze   Run one named catalog transformation
  list      List stored analysis runs
  show      Show one stored run by ID
  delete    Delete one stored run by ID
  export    Run one analysis and export reference/transformed/reconstructed WAVs

Run 'warpalign <command> -h' for command flags.`)
}

func handleDemo(args []string) {
	log := logger.GetLogger()
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	registerGlobalFlags(fs)
	persist := fs.Bool("persist", false, "Store runs in the database")
	fs.Parse(args)

	service, err := createService(*persist)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	analyses, err := service.AnalyzeCatalog(context.Background(), referenceSignal())
	if err != nil {
		log.Fatalf("Catalog analysis failed: %v", err)
	}
	printTable(analyses)
}

func handleAnalyze(args []string) {
	log := logger.GetLogger()
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	registerGlobalFlags(fs)
	name := fs.String("name", "", "Catalog transformation name (see 'demo' output)")
	method := fs.String("method", "dtw", "Estimator: skew or dtw")
	input := fs.String("input", "", "Optional WAV file to use as the reference signal")
	persist := fs.Bool("persist", true, "Store the run in the database")
	fs.Parse(args)

	entry, ok := warpalign.CatalogByName(*name)
	if !ok {
		log.Fatalf("Unknown transformation %q; catalog names: %v", *name, catalogNames())
	}

	ref := referenceSignal()
	if *input != "" {
		var err error
		ref, err = wavio.ReadWAV(*input)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *input, err)
		}
		log.Infof("Loaded %d samples at %.0f Hz from %s", ref.Len(), ref.SampleRate, *input)
	}

	service, err := createService(*persist)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	a, err := service.Analyze(context.Background(), ref, entry.Name, entry.Spec, warpalign.Method(*method))
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	printTable([]warpalign.Analysis{*a})
	fmt.Printf("Run ID: %s\n", a.Run.ID)
}

func handleList(args []string) {
	log := logger.GetLogger()
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	registerGlobalFlags(fs)
	fs.Parse(args)

	service, err := createService(true)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	runs, err := service.ListRuns()
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No stored runs.")
		return
	}
	fmt.Printf("%-36s  %-16s  %-5s  %10s  %10s  %s\n",
		"ID", "TRANSFORM", "MTHD", "RECON CORR", "RECON MSE", "CREATED")
	for _, run := range runs {
		fmt.Printf("%-36s  %-16s  %-5s  %10.4f  %10.6f  %s\n",
			run.ID, run.TransformName, run.Method, run.Corr, run.MSE,
			run.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func handleShow(args []string) {
	log := logger.GetLogger()
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	registerGlobalFlags(fs)
	fs.Parse(args)
	if fs.NArg() < 1 {
		log.Fatalf("Usage: warpalign show <run-id>")
	}

	service, err := createService(true)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	run, err := service.GetRun(fs.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load run: %v", err)
	}
	fmt.Printf("ID:             %s\n", run.ID)
	fmt.Printf("Transform:      %s (%s)\n", run.TransformName, run.TransformDesc)
	fmt.Printf("Method:         %s\n", run.Method)
	if run.Method == string(warpalign.MethodSkew) {
		fmt.Printf("Detected shift: %+.2f ms\n", run.ShiftMs)
	} else {
		fmt.Printf("DTW distance:   %.6f (path length %d)\n", run.DTWDistance, run.PathLength)
	}
	fmt.Printf("Raw fidelity:   corr=%.4f mse=%.6f\n", run.RawCorr, run.RawMSE)
	fmt.Printf("Reconstructed:  corr=%.4f mse=%.6f\n", run.Corr, run.MSE)
	fmt.Printf("Signal:         %d samples @ %.0f Hz\n", run.SampleCount, run.SampleRate)
	fmt.Printf("Created:        %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
}

func handleDelete(args []string) {
	log := logger.GetLogger()
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	registerGlobalFlags(fs)
	fs.Parse(args)
	if fs.NArg() < 1 {
		log.Fatalf("Usage: warpalign delete <run-id>")
	}

	service, err := createService(true)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	if err := service.DeleteRun(fs.Arg(0)); err != nil {
		log.Fatalf("Failed to delete run: %v", err)
	}
	fmt.Printf("Deleted run %s\n", fs.Arg(0))
}

func handleExport(args []string) {
	log := logger.GetLogger()
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	registerGlobalFlags(fs)
	name := fs.String("name", "", "Catalog transformation name")
	method := fs.String("method", "dtw", "Estimator: skew or dtw")
	dir := fs.String("dir", ".", "Output directory for WAV files")
	fs.Parse(args)

	entry, ok := warpalign.CatalogByName(*name)
	if !ok {
		log.Fatalf("Unknown transformation %q; catalog names: %v", *name, catalogNames())
	}

	service, err := createService(false)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	a, err := service.Analyze(context.Background(), referenceSignal(), entry.Name, entry.Spec, warpalign.Method(*method))
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *dir, err)
	}
	outputs := map[string]models.Signal{
		"reference.wav":     a.Reference,
		"transformed.wav":   a.Transformed,
		"reconstructed.wav": a.Reconstruction.Signal,
	}
	for fileName, sig := range outputs {
		path := filepath.Join(*dir, fileName)
		if err := wavio.WriteWAV(path, sig); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Infof("Wrote %s (%d samples)", path, sig.Len())
	}
}

func catalogNames() []string {
	entries := warpalign.Catalog()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

func printTable(analyses []warpalign.Analysis) {
	fmt.Printf("%-16s  %-5s  %10s  %10s  %9s  %10s  %10s\n",
		"TRANSFORM", "MTHD", "SHIFT(ms)", "DTW DIST", "RAW CORR", "RECON CORR", "RECON MSE")
	for _, a := range analyses {
		shift, dist := "-", "-"
		if a.Run.Method == string(warpalign.MethodSkew) {
			shift = fmt.Sprintf("%+.1f", a.Run.ShiftMs)
		} else {
			dist = fmt.Sprintf("%.4f", a.Run.DTWDistance)
		}
		fmt.Printf("%-16s  %-5s  %10s  %10s  %9.4f  %10.4f  %10.6f\n",
			a.Run.TransformName, a.Run.Method, shift, dist,
			a.Run.RawCorr, a.Run.Corr, a.Run.MSE)
	}
}
