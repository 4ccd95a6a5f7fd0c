package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Individual is one candidate guess plus its cached distance from the target.
// Diff is -1 until the individual has been ranked.
type Individual struct {
	Data string  `json:"data"`
	Diff float64 `json:"diff"`
}

// Run records the configuration and outcome of one evolution run.
type Run struct {
	VersionedRecord
	ID             string  `json:"id"`
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
	FinalBestDiff  float64 `json:"final_best_diff"`
	FinalBestGuess string  `json:"final_best_guess"`
}

type GenerationDiagnostics struct {
	Generation     int     `json:"generation"`
	BestDiff       float64 `json:"best_diff"`
	MeanDiff       float64 `json:"mean_diff"`
	WorstDiff      float64 `json:"worst_diff"`
	BestGuess      string  `json:"best_guess"`
	BestLength     int     `json:"best_length"`
	DurationMicros int64   `json:"duration_micros"`
}

type TopIndividualRecord struct {
	VersionedRecord
	Rank int     `json:"rank"`
	Diff float64 `json:"diff"`
	Data string  `json:"data"`
}
