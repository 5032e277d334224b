package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`
	}

	// Dataset ingestion configuration
	Dataset struct {
		// URL template of the yearly archives, %d is the year
		URLTemplate string `env:"DATASET_URL_TEMPLATE" envDefault:"https://files.data.gouv.fr/geo-dvf/latest/csv/%d/full.csv.gz"`

		// First and last dataset year to ingest (inclusive)
		StartYear int `env:"DATASET_START_YEAR" envDefault:"2018"`
		EndYear   int `env:"DATASET_END_YEAR" envDefault:"2022"`

		// Field separator of the CSV records
		Separator string `env:"DATASET_SEPARATOR" envDefault:","`

		// Fetch timeout per yearly archive (in seconds)
		FetchTimeout int `env:"DATASET_FETCH_TIMEOUT" envDefault:"300"`

		// Hours between automatic dataset refreshes (0 disables)
		RefreshHours int `env:"DATASET_REFRESH_HOURS" envDefault:"0"`
	}

	// Filtering configuration
	Filtering struct {
		// Year used when a query specifies none. A policy default,
		// not a data-driven choice.
		DefaultYear int `env:"DEFAULT_FILTER_YEAR" envDefault:"2018"`
	}

	// Aggregation configuration
	Aggregation struct {
		// Per-branch channel buffer of the metric fan-out
		BranchBuffer int `env:"AGGREGATION_BRANCH_BUFFER" envDefault:"256"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(cfg.Dataset.Separator) != 1 {
		return nil, fmt.Errorf("DATASET_SEPARATOR must be a single character, got %q", cfg.Dataset.Separator)
	}
	if cfg.Dataset.StartYear > cfg.Dataset.EndYear {
		return nil, fmt.Errorf("DATASET_START_YEAR %d is after DATASET_END_YEAR %d", cfg.Dataset.StartYear, cfg.Dataset.EndYear)
	}
	return cfg, nil
}

// SeparatorRune returns the validated field separator.
func (c *Config) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Dataset.Separator)
	return r
}
