// =============================================================================
// KCD2 Item Exporter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file. Every setting has a
// default, so running without a configuration file produces the standard
// KCD2Items.xlsx workbook from item*.txt files in the working directory.
//
// CONFIGURATION FILE:
//   kcd2items.yaml in the working directory, or the path given by --config.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up when --config is
// not given.
const DefaultConfigFile = "kcd2items.yaml"

// ErrUnknownEncoding is returned when the encoding setting names a charset
// that golang.org/x/text does not know.
var ErrUnknownEncoding = errors.New("unknown encoding")

// hexColor matches an RGB colour without the leading '#'.
var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the exporter settings.
type Config struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for item files.
	// Default: "."
	InputDir string `yaml:"input_dir"`

	// InputPattern is the doublestar glob matched against file names in
	// InputDir.
	// Default: "item*.txt"
	InputPattern string `yaml:"input_pattern"`

	// Encoding is the character set of the item files.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFile is the workbook written after all inputs are processed.
	// Default: "KCD2Items.xlsx"
	OutputFile string `yaml:"output_file"`

	// TitleSpanColumns is how many columns the "Data from ..." title covers.
	// Default: 10
	TitleSpanColumns int `yaml:"title_span_columns"`

	// SectionFillColor is the background of section header rows (RRGGBB).
	// Default: "FFA500"
	SectionFillColor string `yaml:"section_fill_color"`

	// SectionFontColor is the text colour of section header rows (RRGGBB).
	// Default: "FFFFFF"
	SectionFontColor string `yaml:"section_font_color"`

	// TableStyle is the built-in Excel table style name.
	// Default: "TableStyleMedium9"
	TableStyle string `yaml:"table_style"`

	// MiscSection labels items that appear before any section header.
	// Default: "Misc"
	MiscSection string `yaml:"misc_section"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// WATCH SETTINGS
	// =========================================================================

	// WatchDebounce is how long the watch command waits after the last file
	// event before exporting again.
	// Default: 500ms
	WatchDebounce Duration `yaml:"watch_debounce"`
}

// Duration is a time.Duration that decodes from strings like "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path.
//
// PARAMETERS:
//   - path: The configuration file. An empty path means DefaultConfigFile.
//   - explicit: Whether the caller named the file. A missing file is only an
//     error when it was named explicitly.
//
// RETURNS:
//   - The loaded configuration with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func Load(path string, explicit bool) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "."
	}
	if cfg.InputPattern == "" {
		cfg.InputPattern = "item*.txt"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "UTF-8"
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = "KCD2Items.xlsx"
	}
	if cfg.TitleSpanColumns == 0 {
		cfg.TitleSpanColumns = 10
	}
	if cfg.SectionFillColor == "" {
		cfg.SectionFillColor = "FFA500"
	}
	if cfg.SectionFontColor == "" {
		cfg.SectionFontColor = "FFFFFF"
	}
	if cfg.TableStyle == "" {
		cfg.TableStyle = "TableStyleMedium9"
	}
	if cfg.MiscSection == "" {
		cfg.MiscSection = "Misc"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.WatchDebounce.Duration == 0 {
		cfg.WatchDebounce.Duration = 500 * time.Millisecond
	}
}

// Validate checks the settings that defaults cannot repair.
func (c *Config) Validate() error {
	if c.TitleSpanColumns < 1 {
		return fmt.Errorf("title_span_columns must be at least 1, got %d", c.TitleSpanColumns)
	}
	if _, err := htmlindex.Get(c.Encoding); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownEncoding, c.Encoding)
	}
	for name, color := range map[string]string{
		"section_fill_color": c.SectionFillColor,
		"section_font_color": c.SectionFontColor,
	} {
		if !hexColor.MatchString(strings.TrimPrefix(color, "#")) {
			return fmt.Errorf("%s must be an RRGGBB colour, got %q", name, color)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	if c.WatchDebounce.Duration < 0 {
		return fmt.Errorf("watch_debounce must not be negative")
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
