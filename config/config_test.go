package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, 2018, cfg.Dataset.StartYear)
	assert.Equal(t, 2022, cfg.Dataset.EndYear)
	assert.Equal(t, 2018, cfg.Filtering.DefaultYear)
	assert.Equal(t, 256, cfg.Aggregation.BranchBuffer)
	assert.Equal(t, ',', cfg.SeparatorRune())
	assert.Contains(t, cfg.Dataset.URLTemplate, "%d")
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATASET_START_YEAR", "2019")
	t.Setenv("DATASET_END_YEAR", "2020")
	t.Setenv("DATASET_SEPARATOR", "|")
	t.Setenv("DEFAULT_FILTER_YEAR", "2020")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2019, cfg.Dataset.StartYear)
	assert.Equal(t, 2020, cfg.Dataset.EndYear)
	assert.Equal(t, '|', cfg.SeparatorRune())
	assert.Equal(t, 2020, cfg.Filtering.DefaultYear)
}

func TestLoadConfigRejectsMultiRuneSeparator(t *testing.T) {
	t.Setenv("DATASET_SEPARATOR", ",,")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvertedYearRange(t *testing.T) {
	t.Setenv("DATASET_START_YEAR", "2022")
	t.Setenv("DATASET_END_YEAR", "2018")

	_, err := LoadConfig()
	assert.Error(t, err)
}
