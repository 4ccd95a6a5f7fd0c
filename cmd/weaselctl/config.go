package main

import (
	"encoding/json"
	"fmt"
	"os"

	weaselapi "weasel/pkg/weasel"
)

func loadRunRequestFromConfig(path string) (weaselapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return weaselapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return weaselapi.RunRequest{}, err
	}

	var req weaselapi.RunRequest
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asString(raw["target"]); ok {
		req.Target = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asInt(raw["workers"]); ok {
		req.Workers = v
	}
	if v, ok := asInt(raw["generations"]); ok {
		req.Generations = v
	}
	if v, ok := asInt(raw["generation_size"]); ok {
		req.GenerationSize = v
	}
	if v, ok := asInt(raw["elite_count"]); ok {
		req.EliteCount = v
	}
	if v, ok := asInt(raw["cross_over_count"]); ok {
		req.CrossOverCount = v
	}
	if v, ok := asInt(raw["mutated_count"]); ok {
		req.MutatedCount = v
	}
	if v, ok := asFloat64(raw["mutation_rate"]); ok {
		req.MutationRate = v
	}
	if v, ok := asInt(raw["individual_size"]); ok {
		req.IndividualSize = v
	}
	return req, nil
}

func loadOrDefaultRunRequest(configPath string) (weaselapi.RunRequest, error) {
	if configPath == "" {
		return weaselapi.RunRequest{}, nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return weaselapi.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

// overrideFromFlags applies only the flags the user set on top of a loaded
// config file.
func overrideFromFlags(req *weaselapi.RunRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "run-id":
			req.RunID = v.(string)
		case "target":
			req.Target = v.(string)
		case "seed":
			req.Seed = v.(int64)
		case "workers":
			req.Workers = v.(int)
		case "gens":
			req.Generations = v.(int)
		case "generation-size":
			req.GenerationSize = v.(int)
		case "elite":
			req.EliteCount = v.(int)
		case "crossover":
			req.CrossOverCount = v.(int)
		case "mutated":
			req.MutatedCount = v.(int)
		case "mutation-rate":
			req.MutationRate = v.(float64)
		case "individual-size":
			req.IndividualSize = v.(int)
		}
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
