package driver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadConfigRoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 4
	cfg.EvaluationType = "fixed"
	cfg.FixedValue = 0.75
	cfg.MCTS.MaxIterations = 50

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigMissingFileReturnsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.MCTS.IsValid())
}
