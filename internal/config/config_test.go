package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 6, cfg.Server.MinPlayers)
	assert.Equal(t, 30, cfg.Server.MaxPlayers)
	assert.Equal(t, 6, cfg.Server.RoomCodeLength)
	assert.Equal(t, 30*time.Second, cfg.Round.ParlayDuration)
	assert.Equal(t, 8*time.Minute, cfg.DurationFor(3))
	assert.Equal(t, 6*time.Minute, cfg.DurationFor(5))
}

func TestLoadConfig_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	yamlContent := `
server:
  minPlayers: 8
  maxPlayers: 24
  roomCodeLength: 7
round:
  parlayDuration: 45s
  tieLimit: 2
  defaultDurations:
    3: 5m
    5: 4m
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Server.MinPlayers)
	assert.Equal(t, 24, cfg.Server.MaxPlayers)
	assert.Equal(t, 7, cfg.Server.RoomCodeLength)
	assert.Equal(t, 45*time.Second, cfg.Round.ParlayDuration)
	assert.Equal(t, 2, cfg.Round.TieLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"valid", func(c *ServerConfig) {}, ""},
		{"min>max", func(c *ServerConfig) { c.Server.MinPlayers = 10; c.Server.MaxPlayers = 5 }, "maxPlayers cannot be less"},
		{"short code", func(c *ServerConfig) { c.Server.RoomCodeLength = 2 }, "roomCodeLength"},
		{"missing durations", func(c *ServerConfig) { c.Round.DefaultDurations = map[int]time.Duration{3: time.Minute} }, "defaultDurations"},
		{"bad parlay", func(c *ServerConfig) { c.Round.ParlayDuration = 0 }, "parlayDuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
