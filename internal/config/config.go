package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/pagekit/internal/geometry"
)

// DefaultTimestampFormat produces names such as 20240131_154502.
const DefaultTimestampFormat = "20060102_150405"

const infoLevel = "info"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:  infoLevel,
		LogFormat: "json",
		Verbose:   false,
		Paths: PathsConfig{
			Input:  "input",
			Output: "output",
			Logs:   "logs",
		},
		Batch: BatchConfig{
			Recursive:       false,
			ContinueOnError: true,
			TimestampFormat: DefaultTimestampFormat,
			Progress:        false,
			Quiet:           false,
			Include:         []string{},
			Exclude:         []string{},
			ReportFormat:    "text",
			ReportFile:      "",
		},
		Pages: PagesConfig{
			Position: geometry.BottomRight.String(),
			Margin:   geometry.DefaultMargin,
			FontSize: 12,
			Size:     "a4",
		},
		Watermark: WatermarkConfig{
			Opacity:   0.5,
			MaxPixels: 2000,
		},
		Security: SecurityConfig{
			KeyLength: 256,
		},
	}
}

// Validate validates the configuration and returns the first problem found.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", infoLevel, "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format: %s (must be one of: %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}

	validReportFormats := []string{"text", "json", "csv"}
	if c.Batch.ReportFormat != "" && !contains(validReportFormats, c.Batch.ReportFormat) {
		return fmt.Errorf("invalid report format: %s (must be one of: %s)", c.Batch.ReportFormat, strings.Join(validReportFormats, ", "))
	}

	if strings.TrimSpace(c.Batch.TimestampFormat) == "" {
		return fmt.Errorf("invalid timestamp format: must not be empty")
	}

	if _, err := c.Corner(); err != nil {
		return fmt.Errorf("invalid pages.position: %w", err)
	}
	if _, err := c.TargetSize(); err != nil {
		return fmt.Errorf("invalid pages.size: %w", err)
	}
	if c.Pages.Margin < 0 {
		return fmt.Errorf("invalid pages.margin: %.2f (must not be negative)", c.Pages.Margin)
	}
	if c.Pages.FontSize <= 0 {
		return fmt.Errorf("invalid pages.font_size: %.2f (must be positive)", c.Pages.FontSize)
	}

	if err := validateThreshold(c.Watermark.Opacity, "watermark.opacity"); err != nil {
		return err
	}
	if c.Watermark.MaxPixels < 0 {
		return fmt.Errorf("invalid watermark.max_pixels: %d (must not be negative)", c.Watermark.MaxPixels)
	}

	if c.Security.KeyLength != 128 && c.Security.KeyLength != 256 {
		return fmt.Errorf("invalid security.key_length: %d (must be 128 or 256)", c.Security.KeyLength)
	}

	if c.Compress.ImageQuality < 0 || c.Compress.ImageQuality > 100 {
		return fmt.Errorf("invalid compress.image_quality: %d (must be between 0 and 100)", c.Compress.ImageQuality)
	}

	return nil
}

// Corner returns the configured page number corner.
func (c *Config) Corner() (geometry.Corner, error) {
	return geometry.ParseCorner(c.Pages.Position)
}

// TargetSize returns the configured resize target.
func (c *Config) TargetSize() (geometry.Size, error) {
	return geometry.LookupSize(c.Pages.Size)
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validateThreshold validates that a value is between 0.0 and 1.0.
func validateThreshold(value float64, name string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("invalid %s: %.2f (must be between 0.0 and 1.0)", name, value)
	}
	return nil
}
