package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 20, cfg.Simulator.GridWidth)
	assert.Equal(t, 20, cfg.Simulator.GridHeight)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ENCOUNTER_TTL", "1h")
	t.Setenv("GRID_WIDTH", "40")

	cfg := Load()

	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 40, cfg.Simulator.GridWidth)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	assert.Equal(t, 0, cfg.Redis.DB)
}
