package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

// FileName is the project file looked up next to the source
const FileName = "power.toml"

// Config holds the resolved project settings
type Config struct {
	Build BuildConfig
	Log   LogConfig
}

type BuildConfig struct {
	ModuleName string
	Output     string
	Mode       string
}

type LogConfig struct {
	Level string
}

// tomlConfigFile represents the project file as it is encoded in TOML
type tomlConfigFile struct {
	Build *tomlBuild `toml:"build"`
	Log   *tomlLog   `toml:"log"`
}

type tomlBuild struct {
	ModuleName string `toml:"module-name,omitempty"`
	Output     string `toml:"output,omitempty"`
	Mode       string `toml:"mode,omitempty"`
}

type tomlLog struct {
	Level string `toml:"level,omitempty"`
}

// commonlog verbosities: -4 none, -2 error, 1 info, 2 debug
var logLevels = map[string]int{
	"quiet": -4,
	"error": -2,
	"info":  1,
	"debug": 2,
}

// Default returns the settings used when no project file exists
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			Output: "out.ll",
			Mode:   "script",
		},
		Log: LogConfig{
			Level: "error",
		},
	}
}

// Load reads and validates the project file at path
func Load(path string) (*Config, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(buff)
}

// Parse decodes and validates project file contents. Keys that are absent
// keep their default values.
func Parse(buff []byte) (*Config, error) {
	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buff, tcf); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	cfg := Default()
	if b := tcf.Build; b != nil {
		cfg.Build.ModuleName = b.ModuleName
		if b.Output != "" {
			cfg.Build.Output = b.Output
		}
		if b.Mode != "" {
			cfg.Build.Mode = b.Mode
		}
	}
	if l := tcf.Log; l != nil && l.Level != "" {
		cfg.Log.Level = l.Level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find walks up from dir looking for a project file and returns its path,
// or "" when there is none
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks values the TOML decoder cannot
func (c *Config) Validate() error {
	switch c.Build.Mode {
	case "script", "module":
	default:
		return fmt.Errorf("build.mode must be \"script\" or \"module\", got %q", c.Build.Mode)
	}

	if strings.TrimSpace(c.Build.Output) == "" {
		return fmt.Errorf("build.output must not be empty")
	}

	if _, ok := logLevels[c.Log.Level]; !ok {
		return fmt.Errorf("log.level must be one of quiet, error, info, debug, got %q", c.Log.Level)
	}
	return nil
}

// Verbosity maps log.level to a commonlog verbosity
func (c *Config) Verbosity() int {
	return logLevels[c.Log.Level]
}

// Marshal encodes the configuration back to TOML
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(tomlConfigFile{
		Build: &tomlBuild{
			ModuleName: c.Build.ModuleName,
			Output:     c.Build.Output,
			Mode:       c.Build.Mode,
		},
		Log: &tomlLog{Level: c.Log.Level},
	})
}
