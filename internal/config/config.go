// Package config loads the engine's startup configuration from the
// environment, following the same .env + getEnvX helper pattern used
// across the rest of the trading-bot ecosystem this engine grew out of.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gemscap/statarb-engine/internal/model"
)

// Timeframe is one of the supported bar widths.
type Timeframe struct {
	Label string
	Delta time.Duration
}

var (
	Timeframe1s  = Timeframe{"1s", time.Second}
	Timeframe1m  = Timeframe{"1m", time.Minute}
	Timeframe5m  = Timeframe{"5m", 5 * time.Minute}
	Timeframe15m = Timeframe{"15m", 15 * time.Minute}
	Timeframe1h  = Timeframe{"1h", time.Hour}
)

var allTimeframes = map[string]Timeframe{
	"1s":  Timeframe1s,
	"1m":  Timeframe1m,
	"5m":  Timeframe5m,
	"15m": Timeframe15m,
	"1h":  Timeframe1h,
}

// Config holds every recognized, overridable startup option.
type Config struct {
	Symbols    []string
	Timeframes []Timeframe

	RollingWindow         int
	ZScoreUpperThreshold  float64
	ZScoreLowerThreshold  float64
	ADFSignificance       float64

	MaxTicks int
	MaxBars  int

	ReconnectDelay      time.Duration
	MaxReconnectDelay   time.Duration
	ReconnectMultiplier float64

	AlertCooldown    time.Duration
	MaxAlertHistory  int

	BroadcastAddr string
	MetricsAddr   string
}

// LoadFromEnv loads configuration from environment variables, falling
// back to the documented defaults. It validates the result and returns
// ErrConfigError (fatal, per the error-handling design) on anything
// invalid.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Absence of a .env file is not an error; environment variables
		// (or defaults) are used instead.
	}

	cfg := &Config{
		Symbols:    splitCSV(getEnvOrDefault("STATARB_SYMBOLS", "BTCUSDT,ETHUSDT")),
		Timeframes: parseTimeframes(getEnvOrDefault("STATARB_TIMEFRAMES", "1s,1m,5m,15m,1h")),

		RollingWindow:        getEnvInt("STATARB_ROLLING_WINDOW", 60),
		ZScoreUpperThreshold: getEnvFloat("STATARB_ZSCORE_UPPER", 2.0),
		ZScoreLowerThreshold: getEnvFloat("STATARB_ZSCORE_LOWER", -2.0),
		ADFSignificance:      getEnvFloat("STATARB_ADF_SIGNIFICANCE", 0.05),

		MaxTicks: getEnvInt("STATARB_MAX_TICKS", 100_000),
		MaxBars:  getEnvInt("STATARB_MAX_BARS", 10_000),

		ReconnectDelay:      getEnvDuration("STATARB_RECONNECT_DELAY", time.Second),
		MaxReconnectDelay:   getEnvDuration("STATARB_MAX_RECONNECT_DELAY", 30*time.Second),
		ReconnectMultiplier: getEnvFloat("STATARB_RECONNECT_MULTIPLIER", 2.0),

		AlertCooldown:   getEnvDuration("STATARB_ALERT_COOLDOWN", 60*time.Second),
		MaxAlertHistory: getEnvInt("STATARB_MAX_ALERT_HISTORY", 100),

		BroadcastAddr: getEnvOrDefault("STATARB_BROADCAST_ADDR", ":8080"),
		MetricsAddr:   getEnvOrDefault("STATARB_METRICS_ADDR", ":9090"),
	}

	cfg.RollingWindow = clampInt(cfg.RollingWindow, 20, 200)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfigError, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("no symbols configured")
	}
	if len(c.Timeframes) == 0 {
		return fmt.Errorf("no timeframes configured")
	}
	if c.MaxTicks <= 0 || c.MaxBars <= 0 {
		return fmt.Errorf("max_ticks and max_bars must be positive")
	}
	if c.ZScoreUpperThreshold <= c.ZScoreLowerThreshold {
		return fmt.Errorf("zscore_upper_threshold must exceed zscore_lower_threshold")
	}
	return nil
}

func parseTimeframes(csv string) []Timeframe {
	var out []Timeframe
	for _, label := range splitCSV(csv) {
		if tf, ok := allTimeframes[strings.ToLower(label)]; ok {
			out = append(out, tf)
		}
	}
	return out
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultValue
	}
	return time.Duration(secs * float64(time.Second))
}
