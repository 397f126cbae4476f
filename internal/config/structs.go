//nolint:lll
package config

// Config represents the complete configuration for pagekit.
// It is shared by every subcommand and can be loaded from configuration
// files, environment variables, a .env file and command-line flags.
type Config struct {
	// Global settings
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Folder layout
	Paths PathsConfig `mapstructure:"paths" yaml:"paths" json:"paths"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Page stamping and sizing
	Pages PagesConfig `mapstructure:"pages" yaml:"pages" json:"pages"`

	// Image watermarks
	Watermark WatermarkConfig `mapstructure:"watermark" yaml:"watermark" json:"watermark"`

	// Encryption
	Security SecurityConfig `mapstructure:"security" yaml:"security" json:"security"`

	// Size reduction
	Compress CompressConfig `mapstructure:"compress" yaml:"compress" json:"compress"`

	// Run metrics export
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// PathsConfig holds the input, output and log folders.
type PathsConfig struct {
	Input  string `mapstructure:"input" yaml:"input" json:"input"`
	Output string `mapstructure:"output" yaml:"output" json:"output"`
	Logs   string `mapstructure:"logs" yaml:"logs" json:"logs"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	ContinueOnError bool     `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
	TimestampFormat string   `mapstructure:"timestamp_format" yaml:"timestamp_format" json:"timestamp_format"`
	Progress        bool     `mapstructure:"progress" yaml:"progress" json:"progress"`
	Quiet           bool     `mapstructure:"quiet" yaml:"quiet" json:"quiet"`
	Include         []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude         []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	ReportFormat    string   `mapstructure:"report_format" yaml:"report_format" json:"report_format"`
	ReportFile      string   `mapstructure:"report_file" yaml:"report_file" json:"report_file"`
}

// PagesConfig contains page numbering and resize settings.
type PagesConfig struct {
	Position string  `mapstructure:"position" yaml:"position" json:"position"`
	Margin   float64 `mapstructure:"margin" yaml:"margin" json:"margin"`
	FontSize float64 `mapstructure:"font_size" yaml:"font_size" json:"font_size"`
	Size     string  `mapstructure:"size" yaml:"size" json:"size"`
}

// WatermarkConfig contains image watermark settings.
type WatermarkConfig struct {
	Image     string  `mapstructure:"image" yaml:"image" json:"image"`
	Opacity   float64 `mapstructure:"opacity" yaml:"opacity" json:"opacity"`
	MaxPixels int     `mapstructure:"max_pixels" yaml:"max_pixels" json:"max_pixels"`
}

// SecurityConfig contains encryption settings. Passwords are never read
// from configuration files; use flags or PAGEKIT_* environment variables.
type SecurityConfig struct {
	KeyLength int `mapstructure:"key_length" yaml:"key_length" json:"key_length"`
}

// CompressConfig contains compress settings. An ImageQuality of 0 keeps
// embedded images as they are.
type CompressConfig struct {
	ImageQuality int `mapstructure:"image_quality" yaml:"image_quality" json:"image_quality"`
}

// MetricsConfig controls the node-exporter textfile written after a run.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile" json:"textfile"`
}
