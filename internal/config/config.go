// Package config reads and writes calculator settings files.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/decicalc"
)

// Format is a settings file format.
type Format int

const (
	// FormatTOML is the default format.
	FormatTOML Format = iota
	FormatYAML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatOf determines the format of a settings file from its extension.
// Unrecognized extensions are TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// EnvVar names the environment variable that overrides the settings file
// location.
const EnvVar = "DECICALC_CONFIG"

// file is the on-disk form of decicalc.Settings. Absent keys keep their
// defaults.
type file struct {
	Precision          *int  `toml:"precision,omitempty" yaml:"precision,omitempty" json:"precision,omitempty"`
	DecimalPlaces      *int  `toml:"decimal_places,omitempty" yaml:"decimal_places,omitempty" json:"decimal_places,omitempty"`
	NaturalPrecision   bool  `toml:"natural_precision,omitempty" yaml:"natural_precision,omitempty" json:"natural_precision,omitempty"`
	UseGrouping        *bool `toml:"use_grouping,omitempty" yaml:"use_grouping,omitempty" json:"use_grouping,omitempty"`
	StripTrailingZeros *bool `toml:"strip_trailing_zeros,omitempty" yaml:"strip_trailing_zeros,omitempty" json:"strip_trailing_zeros,omitempty"`
	MaxHistory         *int  `toml:"max_history,omitempty" yaml:"max_history,omitempty" json:"max_history,omitempty"`
}

// Load reads settings from path. A missing or blank file gives
// decicalc.DefaultSettings. Keys the calculator does not use are ignored. If a
// value is out of range, the error wraps a *decicalc.SettingsError.
func Load(path string) (decicalc.Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return decicalc.DefaultSettings(), nil
		}
		return decicalc.Settings{}, fmt.Errorf("couldn't read settings: %w", err)
	}
	s, err := Decode(b, FormatOf(path))
	if err != nil {
		return decicalc.Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode parses settings in the given format.
func Decode(data []byte, format Format) (decicalc.Settings, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return decicalc.DefaultSettings(), nil
	}
	var f file
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &f); err != nil {
			return decicalc.Settings{}, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return decicalc.Settings{}, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return decicalc.Settings{}, fmt.Errorf("JSON parse error: %w", err)
		}
	default:
		return decicalc.Settings{}, fmt.Errorf("unsupported format: %v", format)
	}
	return f.settings()
}

// settings applies the file's values over the defaults.
func (f *file) settings() (decicalc.Settings, error) {
	s := decicalc.DefaultSettings()
	if f.Precision != nil {
		if *f.Precision <= 0 {
			return s, &decicalc.SettingsError{Key: "precision", Reason: "must be a positive integer"}
		}
		s.Precision = uint(*f.Precision)
	}
	if f.DecimalPlaces != nil {
		if *f.DecimalPlaces < 0 {
			return s, &decicalc.SettingsError{Key: "decimal_places", Reason: "must be a non-negative integer"}
		}
		s.DecimalPlaces = *f.DecimalPlaces
	}
	if f.NaturalPrecision {
		s.DecimalPlaces = decicalc.NaturalPlaces
	}
	if f.UseGrouping != nil {
		s.UseGrouping = *f.UseGrouping
	}
	if f.StripTrailingZeros != nil {
		s.StripTrailingZeros = *f.StripTrailingZeros
	}
	if f.MaxHistory != nil {
		s.MaxHistory = *f.MaxHistory
	}
	return s, s.Validate()
}

// Encode renders settings in the given format. Every setting is written, so
// the result documents the defaults.
func Encode(s decicalc.Settings, format Format) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	prec := int(s.Precision)
	f := file{
		Precision:          &prec,
		UseGrouping:        &s.UseGrouping,
		StripTrailingZeros: &s.StripTrailingZeros,
		MaxHistory:         &s.MaxHistory,
	}
	if s.DecimalPlaces == decicalc.NaturalPlaces {
		f.NaturalPrecision = true
	} else {
		f.DecimalPlaces = &s.DecimalPlaces
	}
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return nil, fmt.Errorf("TOML encode error: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		b, err := yaml.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("YAML encode error: %w", err)
		}
		return b, nil
	case FormatJSON:
		b, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("JSON encode error: %w", err)
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// Save writes settings to path in the format its extension names, creating
// parent directories as needed.
func Save(path string, s decicalc.Settings) error {
	b, err := Encode(s, FormatOf(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("couldn't create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("couldn't write settings: %w", err)
	}
	return nil
}

// Locate finds the settings file to use. The environment variable EnvVar
// takes priority, then decicalc.toml in the working directory, then
// decicalc/config.toml in the user's configuration directory. The last is
// returned even if it does not exist.
func Locate() string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	if _, err := os.Stat("decicalc.toml"); err == nil {
		return "decicalc.toml"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "decicalc.toml"
	}
	return filepath.Join(dir, "decicalc", "config.toml")
}
