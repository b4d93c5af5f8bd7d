package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const path = "infra/config"

// KMeansKey is the key of the k-means config file under the config path.
const KMeansKey = "kmeans"

// KMeans configures the cluster count search.
type KMeans struct {
	Repeats       int    `json:"repeats"`
	MinK          int    `json:"min_k"`
	MaxK          int    `json:"max_k"`
	MaxIterations int    `json:"max_iterations"`
	Seed          uint64 `json:"seed"`
	Workers       int    `json:"workers"`
}

// Default returns the default k-means config.
// A zero seed means the seed is picked at fit time, a zero worker count means one worker per cpu.
func Default() KMeans {
	return KMeans{
		Repeats:       20,
		MinK:          2,
		MaxK:          10,
		MaxIterations: 300,
	}
}

// Validate checks the config values.
func (k KMeans) Validate() error {
	if k.Repeats <= 0 {
		return fmt.Errorf("repeats must be positive: %d", k.Repeats)
	}
	if k.MinK < 1 {
		return fmt.Errorf("min_k must be at least 1: %d", k.MinK)
	}
	if k.MaxK < k.MinK {
		return fmt.Errorf("max_k must not be smaller than min_k: %d < %d", k.MaxK, k.MinK)
	}
	if k.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive: %d", k.MaxIterations)
	}
	if k.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", k.Workers)
	}
	return nil
}

// Load reads the json config file into v.
// Fields missing from the file keep the values v already holds.
func Load(file string, v interface{}) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not load config from %s: %w", file, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("could not unmarshal the config from %s: %w", file, err)
	}
	return nil
}

// LoadKMeans reads a k-means config file on top of the defaults, and validates it.
func LoadKMeans(file string) (KMeans, error) {
	cfg := Default()
	if err := Load(file, &cfg); err != nil {
		return KMeans{}, err
	}
	if err := cfg.Validate(); err != nil {
		return KMeans{}, fmt.Errorf("invalid config in %s: %w", file, err)
	}
	return cfg, nil
}

// MustLoad loads the config for the given key
func MustLoad(key string, v interface{}) {
	file := filepath.Join(path, fmt.Sprintf("%s.json", key))
	if err := Load(file, v); err != nil {
		panic(err.Error())
	}
	log.Info().Str("config", key).Msg("loaded default config")
}
