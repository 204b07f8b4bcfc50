package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the arklens configuration. Tokens are deliberately
// env-only: they are never written to or read from the config file.
type Config struct {
	Extensions  []string `json:"extensions"`
	OutputDir   string   `json:"outputDir"`
	Format      string   `json:"format"`
	FailOn      string   `json:"failOn"`
	MaxCommits  int      `json:"maxCommits"`
	Verbose     bool     `json:"verbose"`
	GitLabToken string   `json:"-"`
	GitHubToken string   `json:"-"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Extensions: []string{".ets", ".ts"},
		OutputDir:  "arklens-reports",
		Format:     "text",
		FailOn:     "none",
	}
}

// ConfigDir returns the platform-appropriate config directory for arklens.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "arklens"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "arklens"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "arklens"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "arklens"), nil
	default:
		return filepath.Join(home, ".config", "arklens"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil
// error if the file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file. Token fields carry a `-`
// JSON tag, so secrets never land on disk.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <-
// overrides. The overrides map comes from CLI flags (only set values
// should be present).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if len(src.Extensions) > 0 {
		dst.Extensions = src.Extensions
	}
	if src.OutputDir != "" {
		dst.OutputDir = src.OutputDir
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	if src.MaxCommits > 0 {
		dst.MaxCommits = src.MaxCommits
	}
	dst.Verbose = src.Verbose || dst.Verbose
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("ARKLENS_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("ARKLENS_FAIL_ON"); v != "" {
		cfg.FailOn = v
	}
	if v := os.Getenv("ARKLENS_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("ARKLENS_EXTENSIONS"); v != "" {
		cfg.Extensions = splitExtensions(v)
	}
	if v := os.Getenv("ARKLENS_MAX_COMMITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ARKLENS_MAX_COMMITS must be an integer: %w", err)
		}
		cfg.MaxCommits = n
	}
	if v := firstEnv("ARKLENS_GITLAB_TOKEN", "GITLAB_TOKEN"); v != "" {
		cfg.GitLabToken = v
	}
	if v := firstEnv("ARKLENS_GITHUB_TOKEN", "GITHUB_TOKEN"); v != "" {
		cfg.GitHubToken = v
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["failOn"]; ok && v != "" {
		cfg.FailOn = v
	}
	if v, ok := overrides["outputDir"]; ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := overrides["extensions"]; ok && v != "" {
		cfg.Extensions = splitExtensions(v)
	}
	if v, ok := overrides["maxCommits"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("maxCommits must be an integer: %w", err)
		}
		cfg.MaxCommits = n
	}
	return nil
}

// SetField sets a single config field by key name. Returns an error if
// the key is unknown; tokens are not settable here because they are
// env-only.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	case "outputDir":
		cfg.OutputDir = value
	case "extensions":
		cfg.Extensions = splitExtensions(value)
	case "maxCommits":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxCommits must be an integer: %w", err)
		}
		cfg.MaxCommits = n
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be a boolean: %w", err)
		}
		cfg.Verbose = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// splitExtensions parses a comma-separated extension list. Entries gain a
// leading dot when missing, so "ets,ts" and ".ets,.ts" are equivalent.
func splitExtensions(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		out = append(out, part)
	}
	return out
}
