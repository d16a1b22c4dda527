package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"RoomBoard/internal/render"
)

type Config struct {
	// Relay
	Port     int
	Room     string
	RelayURL string
	MDNS     bool

	// View
	ZoomMin float64
	ZoomMax float64

	// Board
	HistoryLimit int
	StrokeWidth  float64
	EraserWidth  float64
	FontSize     float64
	Color        string

	LogLevel        string
	ShutdownTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port:     envInt("ROOMBOARD_PORT", 8888),
		Room:     envOr("ROOMBOARD_ROOM", "lobby"),
		RelayURL: os.Getenv("ROOMBOARD_RELAY_URL"),
		MDNS:     envBool("ROOMBOARD_MDNS", true),

		ZoomMin: envFloat("ROOMBOARD_ZOOM_MIN", 0.1),
		ZoomMax: envFloat("ROOMBOARD_ZOOM_MAX", 10),

		HistoryLimit: envInt("ROOMBOARD_HISTORY_LIMIT", 500),
		StrokeWidth:  envFloat("ROOMBOARD_STROKE_WIDTH", 3),
		EraserWidth:  envFloat("ROOMBOARD_ERASER_WIDTH", 20),
		FontSize:     envFloat("ROOMBOARD_FONT_SIZE", 20),
		Color:        envOr("ROOMBOARD_COLOR", "black"),

		LogLevel:        envOr("ROOMBOARD_LOG_LEVEL", "info"),
		ShutdownTimeout: envDuration("ROOMBOARD_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 500
	}
	if cfg.StrokeWidth <= 0 {
		cfg.StrokeWidth = 3
	}
	if cfg.EraserWidth <= 0 {
		cfg.EraserWidth = 20
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = 20
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("ROOMBOARD_PORT must be in 1..65535, got %d", c.Port)
	}
	if strings.TrimSpace(c.Room) == "" {
		return fmt.Errorf("ROOMBOARD_ROOM must not be blank")
	}
	if c.ZoomMin <= 0 || c.ZoomMax < c.ZoomMin {
		return fmt.Errorf("zoom bounds must satisfy 0 < ROOMBOARD_ZOOM_MIN <= ROOMBOARD_ZOOM_MAX, got [%g, %g]", c.ZoomMin, c.ZoomMax)
	}
	if _, err := render.ParseColor(c.Color); err != nil {
		return fmt.Errorf("ROOMBOARD_COLOR: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel as a slog level name.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("ROOMBOARD_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Addr is the relay listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
