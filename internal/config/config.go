// Package config loads batch settings from defaults, an optional YAML
// file, an optional .env file and EPSDM_* environment variables, in that
// order of increasing precedence. Command-line flags are applied on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = "epsdm.yaml"

type Config struct {
	Input      string    `yaml:"input"`
	Output     string    `yaml:"output"`
	Workers    int       `yaml:"workers"`
	ClearEvery int       `yaml:"clear_every"`
	PixelSize  int       `yaml:"pixel_size"`
	QuietZone  int       `yaml:"quiet_zone"`
	Operator   string    `yaml:"operator"`
	Log        LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
	File   string `yaml:"file"`
}

func Default() Config {
	return Config{
		Input:      "In",
		Output:     "Out",
		Workers:    runtime.NumCPU(),
		ClearEvery: 5,
		PixelSize:  10,
		QuietZone:  4,
		Operator:   "rf",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the effective configuration. An explicit path must exist;
// with an empty path DefaultFile is used when present.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"EPSDM_INPUT":      &cfg.Input,
		"EPSDM_OUTPUT":     &cfg.Output,
		"EPSDM_OPERATOR":   &cfg.Operator,
		"EPSDM_LOG_LEVEL":  &cfg.Log.Level,
		"EPSDM_LOG_FORMAT": &cfg.Log.Format,
		"EPSDM_LOG_FILE":   &cfg.Log.File,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	num := map[string]*int{
		"EPSDM_WORKERS":     &cfg.Workers,
		"EPSDM_CLEAR_EVERY": &cfg.ClearEvery,
		"EPSDM_PIXEL_SIZE":  &cfg.PixelSize,
		"EPSDM_QUIET_ZONE":  &cfg.QuietZone,
	}
	for key, dst := range num {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, errors.New("input path is required"))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.ClearEvery < 0 {
		errs = append(errs, fmt.Errorf("clear_every must not be negative, got %d", c.ClearEvery))
	}
	if c.PixelSize < 1 {
		errs = append(errs, fmt.Errorf("pixel_size must be at least 1, got %d", c.PixelSize))
	}
	if c.QuietZone < 0 {
		errs = append(errs, fmt.Errorf("quiet_zone must not be negative, got %d", c.QuietZone))
	}
	if strings.TrimSpace(c.Operator) == "" || strings.ContainsAny(c.Operator, " \t\r\n") {
		errs = append(errs, fmt.Errorf("operator must be a single token, got %q", c.Operator))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
