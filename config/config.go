// Package config loads and saves ttpc's user-level settings: the
// defaults for flags a user would otherwise have to repeat on every
// invocation (strict mode, trace presentation, the interrupt cap).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds ttpc's persisted defaults.
type Config struct {
	// Assemble settings govern the compile pass.
	Assemble struct {
		Strict           bool   `toml:"strict"`
		DefaultOutputExt string `toml:"default_output_ext"`
	} `toml:"assemble"`

	// Trace settings govern --analyze's VM run and its printed trace.
	Trace struct {
		CheckerMode    bool   `toml:"checker_mode"`
		ColorFlags     bool   `toml:"color_flags"`
		InterruptAfter uint64 `toml:"interrupt_after"` // 0 = unlimited
	} `toml:"trace"`

	// Display settings are loaded and saved with the file; --dump and
	// --tree do not read them.
	Display struct {
		NumberFormat string `toml:"number_format"` // hex, dec
		BytesPerLine int    `toml:"bytes_per_line"`
	} `toml:"display"`

	// Output settings are loaded and saved with the file; the emitted
	// image does not read them and always carries the header line.
	Output struct {
		EmitHeader bool `toml:"emit_header"`
	} `toml:"output"`
}

// DefaultConfig returns ttpc's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assemble.Strict = false
	cfg.Assemble.DefaultOutputExt = ""

	cfg.Trace.CheckerMode = false
	cfg.Trace.ColorFlags = true
	cfg.Trace.InterruptAfter = 0

	cfg.Display.NumberFormat = "hex"
	cfg.Display.BytesPerLine = 8

	cfg.Output.EmitHeader = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "ttpc")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "ttpc")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific trace/log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "ttpc", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "ttpc", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back to
// defaults (no error) when the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
