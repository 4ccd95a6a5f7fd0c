package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"weasel/internal/model"
)

const runIndexFile = "run_index.json"

// RunConfig is the JSON snapshot of one run's configuration, written next to
// the run's artifacts so archived results stay interpretable.
type RunConfig struct {
	RunID          string  `json:"run_id"`
	Target         string  `json:"target"`
	Seed           int64   `json:"seed"`
	Workers        int     `json:"workers"`
	Generations    int     `json:"generations"`
	GenerationSize int     `json:"generation_size"`
	EliteCount     int     `json:"elite_count"`
	CrossOverCount int     `json:"cross_over_count"`
	MutatedCount   int     `json:"mutated_count"`
	MutationRate   float64 `json:"mutation_rate"`
	IndividualSize int     `json:"individual_size"`
	CreatedAtUTC   string  `json:"created_at_utc"`
}

type TopIndividual struct {
	Rank int     `json:"rank"`
	Diff float64 `json:"diff"`
	Data string  `json:"data"`
}

type RunArtifacts struct {
	Config                RunConfig                     `json:"config"`
	BestByGeneration      []float64                     `json:"best_by_generation"`
	GenerationDiagnostics []model.GenerationDiagnostics `json:"generation_diagnostics,omitempty"`
	TopIndividuals        []TopIndividual               `json:"top_individuals,omitempty"`
	FinalBestDiff         float64                       `json:"final_best_diff"`
	FinalBestGuess        string                        `json:"final_best_guess"`
}

type RunIndexEntry struct {
	RunID          string  `json:"run_id"`
	Target         string  `json:"target"`
	Seed           int64   `json:"seed"`
	Workers        int     `json:"workers"`
	Generations    int     `json:"generations"`
	GenerationSize int     `json:"generation_size"`
	EliteCount     int     `json:"elite_count"`
	FinalBestDiff  float64 `json:"final_best_diff"`
	FinalBestGuess string  `json:"final_best_guess"`
	CreatedAtUTC   string  `json:"created_at_utc"`
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	history := map[string]any{
		"best_by_generation": artifacts.BestByGeneration,
		"final_best_diff":    artifacts.FinalBestDiff,
		"final_best_guess":   artifacts.FinalBestGuess,
	}
	if err := writeJSON(filepath.Join(runDir, "fitness_history.json"), history); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "generation_diagnostics.json"), artifacts.GenerationDiagnostics); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "top_individuals.json"), artifacts.TopIndividuals); err != nil {
		return "", err
	}

	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAtUTC > entries[j].CreatedAtUTC
	})
	return entries, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	var cfg RunConfig
	ok, err := readJSON(filepath.Join(baseDir, runID, "config.json"), &cfg)
	return cfg, ok, err
}

func ReadFitnessHistory(baseDir, runID string) ([]float64, bool, error) {
	var history struct {
		BestByGeneration []float64 `json:"best_by_generation"`
	}
	ok, err := readJSON(filepath.Join(baseDir, runID, "fitness_history.json"), &history)
	return history.BestByGeneration, ok, err
}

func ReadGenerationDiagnostics(baseDir, runID string) ([]model.GenerationDiagnostics, bool, error) {
	var diagnostics []model.GenerationDiagnostics
	ok, err := readJSON(filepath.Join(baseDir, runID, "generation_diagnostics.json"), &diagnostics)
	return diagnostics, ok, err
}

func ReadTopIndividuals(baseDir, runID string) ([]TopIndividual, bool, error) {
	var top []TopIndividual
	ok, err := readJSON(filepath.Join(baseDir, runID, "top_individuals.json"), &top)
	return top, ok, err
}

func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	files := []string{"config.json", "fitness_history.json", "generation_diagnostics.json", "top_individuals.json"}
	for _, file := range files {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

func readJSON(path string, value any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, value); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
