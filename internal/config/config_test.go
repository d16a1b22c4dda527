package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, Config{
		Port:            8888,
		Room:            "lobby",
		MDNS:            true,
		ZoomMin:         0.1,
		ZoomMax:         10,
		HistoryLimit:    500,
		StrokeWidth:     3,
		EraserWidth:     20,
		FontSize:        20,
		Color:           "black",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}, cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8888", cfg.Addr())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ROOMBOARD_PORT", "9000")
	t.Setenv("ROOMBOARD_ROOM", "design")
	t.Setenv("ROOMBOARD_RELAY_URL", "ws://relay:9000")
	t.Setenv("ROOMBOARD_MDNS", "false")
	t.Setenv("ROOMBOARD_ZOOM_MAX", "4")
	t.Setenv("ROOMBOARD_STROKE_WIDTH", "5.5")
	t.Setenv("ROOMBOARD_COLOR", "#ff8800")
	t.Setenv("ROOMBOARD_LOG_LEVEL", "debug")
	t.Setenv("ROOMBOARD_SHUTDOWN_TIMEOUT", "3s")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "design", cfg.Room)
	assert.Equal(t, "ws://relay:9000", cfg.RelayURL)
	assert.False(t, cfg.MDNS)
	assert.Equal(t, 4.0, cfg.ZoomMax)
	assert.Equal(t, 5.5, cfg.StrokeWidth)
	assert.Equal(t, "#ff8800", cfg.Color)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_NonPositiveFallsBackToDefaults(t *testing.T) {
	t.Setenv("ROOMBOARD_HISTORY_LIMIT", "0")
	t.Setenv("ROOMBOARD_ERASER_WIDTH", "-4")
	t.Setenv("ROOMBOARD_FONT_SIZE", "nope")
	t.Setenv("ROOMBOARD_SHUTDOWN_TIMEOUT", "-1s")

	cfg := Load()
	assert.Equal(t, 500, cfg.HistoryLimit)
	assert.Equal(t, 20.0, cfg.EraserWidth)
	assert.Equal(t, 20.0, cfg.FontSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 70000 }},
		{"room", func(c *Config) { c.Room = "  " }},
		{"zoom min", func(c *Config) { c.ZoomMin = 0 }},
		{"zoom order", func(c *Config) { c.ZoomMin, c.ZoomMax = 5, 2 }},
		{"color", func(c *Config) { c.Color = "#12" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
