package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "pagekit"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "PAGEKIT"

	// DotEnvFile is loaded from the working directory before the environment is read.
	DotEnvFile = ".env"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v       *viper.Viper
	envFile string
}

// NewLoader creates a loader on the global viper instance so that flags
// bound with viper.BindPFlag take part in resolution.
func NewLoader() *Loader {
	return newLoader(viper.GetViper())
}

func newLoader(v *viper.Viper) *Loader {
	return &Loader{v: v, envFile: DotEnvFile}
}

// Load reads the configuration file (if any), the environment and defaults,
// then validates the result. An empty configFile searches the standard paths.
func (l *Loader) Load(configFile string) (*Config, error) {
	cfg, err := l.LoadWithoutValidation(configFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithoutValidation is Load without the final Validate call. It backs
// `config show`, which must be able to print a broken configuration.
func (l *Loader) LoadWithoutValidation(configFile string) (*Config, error) {
	if err := l.loadDotEnv(); err != nil {
		return nil, err
	}

	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()

		if err := l.v.ReadInConfig(); err != nil {
			// A missing config file is fine; defaults and env vars apply.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// loadDotEnv exports the variables of a .env file without overriding
// variables that are already set.
func (l *Loader) loadDotEnv() error {
	if l.envFile == "" {
		return nil
	}
	if err := godotenv.Load(l.envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", l.envFile, err)
	}
	return nil
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	for _, p := range GetConfigSearchPaths() {
		l.v.AddConfigPath(p)
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()

	// Replace dots and dashes with underscores in env var names
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
// Every key must be registered here for AutomaticEnv to see it on Unmarshal.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("log_format", defaults.LogFormat)
	l.v.SetDefault("verbose", defaults.Verbose)

	l.v.SetDefault("paths.input", defaults.Paths.Input)
	l.v.SetDefault("paths.output", defaults.Paths.Output)
	l.v.SetDefault("paths.logs", defaults.Paths.Logs)

	l.v.SetDefault("batch.recursive", defaults.Batch.Recursive)
	l.v.SetDefault("batch.continue_on_error", defaults.Batch.ContinueOnError)
	l.v.SetDefault("batch.timestamp_format", defaults.Batch.TimestampFormat)
	l.v.SetDefault("batch.progress", defaults.Batch.Progress)
	l.v.SetDefault("batch.quiet", defaults.Batch.Quiet)
	l.v.SetDefault("batch.include", defaults.Batch.Include)
	l.v.SetDefault("batch.exclude", defaults.Batch.Exclude)
	l.v.SetDefault("batch.report_format", defaults.Batch.ReportFormat)
	l.v.SetDefault("batch.report_file", defaults.Batch.ReportFile)

	l.v.SetDefault("pages.position", defaults.Pages.Position)
	l.v.SetDefault("pages.margin", defaults.Pages.Margin)
	l.v.SetDefault("pages.font_size", defaults.Pages.FontSize)
	l.v.SetDefault("pages.size", defaults.Pages.Size)

	l.v.SetDefault("watermark.image", defaults.Watermark.Image)
	l.v.SetDefault("watermark.opacity", defaults.Watermark.Opacity)
	l.v.SetDefault("watermark.max_pixels", defaults.Watermark.MaxPixels)

	l.v.SetDefault("security.key_length", defaults.Security.KeyLength)

	l.v.SetDefault("compress.image_quality", defaults.Compress.ImageQuality)

	l.v.SetDefault("metrics.textfile", defaults.Metrics.Textfile)
}

// GenerateDefaultConfigFile writes a configuration file holding every
// default. It uses a private viper instance so bound flags do not leak in.
func GenerateDefaultConfigFile(filename string) error {
	loader := newLoader(viper.New())
	loader.setDefaults()

	if filename == "" {
		filename = ConfigFileName + ".yaml"
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	return loader.v.WriteConfigAs(filename)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, ConfigFileName))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigFileName))
	}

	paths = append(paths, "/etc/"+ConfigFileName)

	return paths
}
