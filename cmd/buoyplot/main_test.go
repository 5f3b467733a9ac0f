package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wave-data-etl/internal/config"
	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/pipeline"
)

func TestApplyFlags(t *testing.T) {
	cfg := &config.Config{ChartSelection: "sigWave", OutputDir: "."}

	serve, err := applyFlags(cfg, []string{"-input", "bulk.csv", "-schema", "epoch", "-charts", "all", "-out", "plots", "-serve"})
	require.NoError(t, err)

	assert.True(t, serve)
	assert.Equal(t, "bulk.csv", cfg.Input)
	assert.Equal(t, domain.SchemaEpoch, cfg.Schema)
	assert.Equal(t, "all", cfg.ChartSelection)
	assert.Equal(t, "plots", cfg.OutputDir)
}

func TestApplyFlags_KeepsConfigDefaults(t *testing.T) {
	cfg := &config.Config{Input: "env.csv", ChartSelection: "rose", OutputDir: "/tmp"}

	serve, err := applyFlags(cfg, nil)
	require.NoError(t, err)

	assert.False(t, serve)
	assert.Equal(t, "env.csv", cfg.Input)
	assert.Equal(t, "rose", cfg.ChartSelection)
	assert.Equal(t, "/tmp", cfg.OutputDir)
}

func TestApplyFlags_BadSchema(t *testing.T) {
	_, err := applyFlags(&config.Config{}, []string{"-schema", "iso"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-schema")
}

func TestPrompt(t *testing.T) {
	cfg := &config.Config{ChartSelection: "sigWave,peakP,meanP"}
	var out bytes.Buffer

	require.NoError(t, prompt(cfg, strings.NewReader(" data/bulk.csv \nrose, hs_histogram\n"), &out))

	assert.Equal(t, "data/bulk.csv", cfg.Input)
	assert.Equal(t, "rose, hs_histogram", cfg.ChartSelection)
	assert.Contains(t, out.String(), "hs_peak_scatter")
}

func TestPrompt_EmptySelectionKeepsDefault(t *testing.T) {
	cfg := &config.Config{ChartSelection: "sigWave,peakP,meanP"}

	require.NoError(t, prompt(cfg, strings.NewReader("bulk.csv\n"), &bytes.Buffer{}))

	assert.Equal(t, "bulk.csv", cfg.Input)
	assert.Equal(t, "sigWave,peakP,meanP", cfg.ChartSelection)
}

func TestTableLen_BeforeFirstRun(t *testing.T) {
	p := pipeline.New(nil, nil, nil, nil, nil, nil, pipeline.Options{})
	assert.Equal(t, 0, tableLen(p))
}
