// Package config loads service configuration from an optional JSON file
// and environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ironsheep/landcover-analytics/internal/catalog"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// Environment variables read by FromEnv.
const (
	EnvConfig    = "LANDCOVER_CONFIG"
	EnvDataDir   = "LANDCOVER_DATA_DIR"
	EnvHTTPAddr  = "LANDCOVER_HTTP_ADDR"
	EnvLogLevel  = "LANDCOVER_LOG_LEVEL"
	EnvLogFormat = "LANDCOVER_LOG_FORMAT"
	EnvPixelSize = "LANDCOVER_PIXEL_SIZE"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Bounds is the study area as [[south, west], [north, east]] in degrees.
type Bounds [2][2]float64

// Config is the service configuration.
type Config struct {
	// Raster layout
	DataDir         string         `json:"data_dir"`
	Region          string         `json:"region"`
	LULCYears       []int          `json:"lulc_years"`
	ChangePairs     []catalog.Pair `json:"change_pairs"`
	ConfidenceFiles map[int]string `json:"confidence_files"`
	RasterNodata    int            `json:"raster_nodata"` // on-disk nodata value, -1 for none

	// Analysis
	PixelSize       float64 `json:"pixel_size_m"`
	ConfidenceScale string  `json:"confidence_scale"` // "auto", "unit" or "percent"

	// Maps
	MapBounds     Bounds `json:"map_bounds"`
	MaxPreviewDim int    `json:"max_preview_dim"`

	// HTTP transport
	HTTPAddr     string `json:"http_addr"`
	ReadTimeout  string `json:"read_timeout"`  // duration string like "15s"
	WriteTimeout string `json:"write_timeout"` // duration string like "60s"

	// Logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // "json" or "console"
}

// Default returns the configuration of the Tirupati study area.
func Default() *Config {
	return &Config{
		DataDir:     filepath.Join("data", "gee_outputs"),
		Region:      "Tirupati",
		LULCYears:   []int{2018, 2019, 2024, 2025},
		ChangePairs: []catalog.Pair{{Start: 2019, End: 2024}, {Start: 2018, End: 2025}},
		ConfidenceFiles: map[int]string{
			2024: "Tirupati_Confidence_2024.tif",
			2025: "Tirupati_Confidence_2025.tif",
		},
		RasterNodata:    -1,
		PixelSize:       10,
		ConfidenceScale: "auto",
		MapBounds:       Bounds{{13.2934492, 78.9805086}, {14.2662349, 80.2686029}},
		MaxPreviewDim:   2048,
		HTTPAddr:        ":8000",
		ReadTimeout:     "15s",
		WriteTimeout:    "60s",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load reads a JSON config file on top of the defaults. Fields omitted from
// the file keep their default values. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// json merges into existing maps, so the default confidence files are
	// only restored when the file does not list its own.
	defaults := cfg.ConfidenceFiles
	cfg.ConfidenceFiles = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if cfg.ConfidenceFiles == nil {
		cfg.ConfidenceFiles = defaults
	}
	return cfg, nil
}

// FromEnv loads the file named by LANDCOVER_CONFIG (if any), applies the
// other LANDCOVER_* overrides and validates the result.
func FromEnv() (*Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	path, _ := lookup(EnvConfig)
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(EnvHTTPAddr); ok && v != "" {
		c.HTTPAddr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}
	if v, ok := lookup(EnvPixelSize); ok && v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPixelSize, v, err)
		}
		c.PixelSize = size
	}
	return nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must be set")
	}
	if c.Region == "" {
		return fmt.Errorf("region must be set")
	}
	if c.PixelSize <= 0 {
		return fmt.Errorf("pixel_size_m must be positive, got %g", c.PixelSize)
	}
	if _, err := raster.ParseScale(c.ConfidenceScale); err != nil {
		return fmt.Errorf("invalid confidence_scale: %w", err)
	}
	for _, p := range c.ChangePairs {
		if p.Start >= p.End {
			return fmt.Errorf("change pair %s must start before it ends", p)
		}
	}
	if c.RasterNodata < -1 || c.RasterNodata > 65535 {
		return fmt.Errorf("raster_nodata must be -1 or a 16-bit value, got %d", c.RasterNodata)
	}
	if c.MaxPreviewDim < 0 {
		return fmt.Errorf("max_preview_dim must be non-negative, got %d", c.MaxPreviewDim)
	}
	for _, d := range []struct{ name, value string }{
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s '%s': %w", d.name, d.value, err)
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// Layout returns the catalog layout described by the configuration.
func (c *Config) Layout() catalog.Layout {
	return catalog.Layout{
		DataDir:         c.DataDir,
		Region:          c.Region,
		LULCYears:       c.LULCYears,
		ChangePairs:     c.ChangePairs,
		ConfidenceFiles: c.ConfidenceFiles,
	}
}

// Scale returns the declared confidence scale. Call after Validate.
func (c *Config) Scale() raster.Scale {
	s, _ := raster.ParseScale(c.ConfidenceScale)
	return s
}

// GetReadTimeout returns the HTTP read timeout.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.WriteTimeout, 60*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
