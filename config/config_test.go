package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8, cfg.Board.Width)
	assert.Equal(t, 10, cfg.Board.Height)
	assert.Equal(t, 2, cfg.Board.DeployRows)

	assert.Equal(t, 50, cfg.Engine.MaxRounds)
	assert.Equal(t, 1, cfg.Engine.MinDamage)
	assert.Equal(t, 75, cfg.Engine.DodgeCap)
	assert.Equal(t, 1000, cfg.Engine.PathMaxIter)

	assert.Equal(t, 1, cfg.Mechanics.ZoneOfControlRange)
	assert.Equal(t, 50, cfg.Mechanics.ArcherPenaltyPct)
	assert.Equal(t, 25, cfg.Mechanics.ArcFireAccuracyPct)
	assert.Equal(t, 180, cfg.Mechanics.FiringArcWidthDeg)
	assert.Equal(t, 3, cfg.Mechanics.AuraRangeCap)

	assert.False(t, cfg.Log.Debug)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
engine:
  max_rounds: 20
mechanics:
  archer_penalty_pct: 30
log:
  debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Engine.MaxRounds)
	assert.Equal(t, 30, cfg.Mechanics.ArcherPenaltyPct)
	assert.True(t, cfg.Log.Debug)
	// Untouched keys keep their defaults.
	assert.Equal(t, 8, cfg.Board.Width)
	assert.Equal(t, 1, cfg.Engine.MinDamage)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
