package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"weasel/internal/evo"
	"weasel/internal/model"
	"weasel/internal/stats"
	"weasel/internal/storage"
	weaselapi "weasel/pkg/weasel"
)

const (
	artifactsDir = "artifacts"
	exportsDir   = "exports"
)

// defaultGuessTarget is the hidden string the reference `guess` command
// evolves toward. Like the original experiment, the target is the source of
// the parameter block that drives the search.
const defaultGuessTarget = `type Params struct {
	GenerationSize int
	EliteCount     int
	CrossOverCount int
	MutatedCount   int
	MutationRate   float64
}
`

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "guess":
		return runGuess(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "top":
		return runTop(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: weaselctl <init|guess|run|runs|fitness|diagnostics|top|export> [flags]", msg)
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "weasel.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

// runGuess replays the reference experiment: a long streaming search that
// prints periodic progress instead of accumulating per-generation artifacts.
func runGuess(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("guess", flag.ContinueOnError)
	target := fs.String("target", defaultGuessTarget, "target string to evolve toward")
	generations := fs.Int("gens", 100_000_000, "generation count")
	generationSize := fs.Int("generation-size", 500, "population size per generation")
	eliteCount := fs.Int("elite", 10, "elite survivors per generation")
	crossOverCount := fs.Int("crossover", 200, "crossover children per generation")
	mutatedCount := fs.Int("mutated", 200, "mutants per generation")
	mutationRate := fs.Float64("mutation-rate", 0.05, "per-position mutation probability")
	individualSize := fs.Int("individual-size", 0, "maximum individual length (0 uses 2x target length)")
	seed := fs.Int64("seed", 42, "rng seed")
	workers := fs.Int("workers", 0, "ranking worker count (0 uses all CPUs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *target == "" {
		return errors.New("guess requires a non-empty target")
	}
	if *generations <= 0 {
		return errors.New("gens must be > 0")
	}
	size := *individualSize
	if size <= 0 {
		size = 2 * len(*target)
	}

	driver, err := evo.NewDriver(evo.DriverConfig{
		Evaluator: evo.GuessEvaluator{Target: *target},
		Params: evo.Params{
			GenerationSize: *generationSize,
			EliteCount:     *eliteCount,
			CrossOverCount: *crossOverCount,
			MutatedCount:   *mutatedCount,
			MutationRate:   *mutationRate,
			IndividualSize: size,
		},
		Seed:    *seed,
		Workers: *workers,
	})
	if err != nil {
		return err
	}

	for g := 0; g < *generations; g++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		diag, err := driver.Step()
		if err != nil {
			return err
		}
		if diag.Generation%stats.BestInterval == 0 {
			fmt.Println(stats.FormatBestLine(diag))
		}
		if diag.Generation%stats.DurationInterval == 0 {
			fmt.Println(stats.FormatDurationLine(diag))
		}
		if diag.BestDiff == 0 {
			fmt.Println(stats.FormatBestLine(diag))
			fmt.Printf("target matched after %d generations\n", g+1)
			return nil
		}
	}
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	target := fs.String("target", "", "target string to evolve toward")
	generations := fs.Int("gens", 100, "generation count")
	generationSize := fs.Int("generation-size", 500, "population size per generation")
	eliteCount := fs.Int("elite", 10, "elite survivors per generation")
	crossOverCount := fs.Int("crossover", 200, "crossover children per generation")
	mutatedCount := fs.Int("mutated", 200, "mutants per generation")
	mutationRate := fs.Float64("mutation-rate", 0.05, "per-position mutation probability")
	individualSize := fs.Int("individual-size", 0, "maximum individual length (0 uses 2x target length)")
	seed := fs.Int64("seed", 1, "rng seed")
	workers := fs.Int("workers", 0, "ranking worker count (0 uses all CPUs)")
	progress := fs.Bool("progress", false, "print periodic progress lines while running")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "weasel.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = weaselapi.RunRequest{
			RunID:          *runID,
			Target:         *target,
			Seed:           *seed,
			Workers:        *workers,
			Generations:    *generations,
			GenerationSize: *generationSize,
			EliteCount:     *eliteCount,
			CrossOverCount: *crossOverCount,
			MutatedCount:   *mutatedCount,
			MutationRate:   *mutationRate,
			IndividualSize: *individualSize,
		}
	} else {
		overrideFromFlags(&req, setFlags, map[string]any{
			"run-id":          *runID,
			"target":          *target,
			"gens":            *generations,
			"generation-size": *generationSize,
			"elite":           *eliteCount,
			"crossover":       *crossOverCount,
			"mutated":         *mutatedCount,
			"mutation-rate":   *mutationRate,
			"individual-size": *individualSize,
			"seed":            *seed,
			"workers":         *workers,
		})
	}
	if req.Target == "" {
		return errors.New("run requires --target (or a config with target)")
	}
	if *progress {
		req.OnProgress = func(diag model.GenerationDiagnostics) {
			if diag.Generation%stats.BestInterval == 0 {
				fmt.Println(stats.FormatBestLine(diag))
			}
			if diag.Generation%stats.DurationInterval == 0 {
				fmt.Println(stats.FormatDurationLine(diag))
			}
		}
	}

	client, err := weaselapi.New(weaselapi.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runSummary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("run completed run_id=%s target_len=%d gens=%d seed=%d\n",
		runSummary.RunID, len(runSummary.Target), runSummary.Generations, req.Seed)
	fmt.Println(stats.FormatRunSummary(runSummary.RunID, runSummary.Generations, runSummary.FinalBestDiff, runSummary.FinalBestGuess))
	fmt.Printf("artifacts_dir=%s\n", filepath.Clean(runSummary.ArtifactsDir))
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "weasel.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := weaselapi.New(weaselapi.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, weaselapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	for _, item := range runs {
		fmt.Printf("run_id=%s created_at=%s target_len=%d seed=%d gens=%d pop=%d best=%g guess=%q\n",
			item.RunID,
			item.CreatedAtUTC,
			len(item.Target),
			item.Seed,
			item.Generations,
			item.GenerationSize,
			item.FinalBestDiff,
			item.FinalBestGuess,
		)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show fitness history for the most recent run")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit fitness history as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "weasel.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := weaselapi.New(weaselapi.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, weaselapi.FitnessHistoryRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no fitness history")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}

	for i, best := range history {
		fmt.Printf("generation=%d best=%g\n", i, best)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show diagnostics for the most recent run")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "weasel.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := weaselapi.New(weaselapi.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, weaselapi.DiagnosticsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(diagnostics) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diagnostics)
	}

	for _, d := range diagnostics {
		fmt.Printf("generation=%d best=%g mean=%g worst=%g best_len=%d duration_us=%d guess=%q\n",
			d.Generation,
			d.BestDiff,
			d.MeanDiff,
			d.WorstDiff,
			d.BestLength,
			d.DurationMicros,
			d.BestGuess,
		)
	}
	return nil
}

func runTop(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("top", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show top individuals for the most recent run")
	limit := fs.Int("limit", 5, "max top individuals to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit top individuals as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "weasel.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := weaselapi.New(weaselapi.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	top, err := client.TopIndividuals(ctx, weaselapi.TopIndividualsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(top) == 0 {
		fmt.Println("no top individuals")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(top)
	}

	for _, item := range top {
		fmt.Printf("rank=%d diff=%g data=%q\n", item.Rank, item.Diff, item.Data)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out-dir", "", "output directory (defaults to exports/)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "weasel.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := weaselapi.New(weaselapi.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, weaselapi.ExportRequest{
		RunID:  *runID,
		Latest: *latest,
		OutDir: *outDir,
	})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", exported.RunID, exported.Directory)
	return nil
}
