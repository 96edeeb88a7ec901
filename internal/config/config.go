package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobpulse.
type Config struct {
	Data               DataConfig
	CacheTTL           time.Duration
	ExcludedCategories []string // left out of the category summary
	VelocityExcluded   []string // left out of velocity and the bulk hiring map
	Top                TopConfig
	SalaryWeightCap    int // max times one posting's salary is repeated when weighting by vacancies
}

// DataConfig locates the dataset files. Each may be a .csv or a SQLite file.
type DataConfig struct {
	Postings string `yaml:"postings"`
	Skills   string `yaml:"skills"`
}

// TopConfig holds the top-K sizes of each view.
type TopConfig struct {
	Summary  int `yaml:"summary"`
	Velocity int `yaml:"velocity"`
	Matrix   int `yaml:"matrix"`
	Skills   int `yaml:"skills"`
}

const (
	DefaultPostingsPath    = "data/postings.csv"
	DefaultSkillsPath      = "data/skills.csv"
	DefaultCacheTTL        = time.Hour
	DefaultSalaryWeightCap = 5
)

// DefaultExcludedCategories are the broad or catch-all sectors dropped from the
// category summary.
var DefaultExcludedCategories = []string{
	"Others",
	"F&B",
	"Wholesale Trade",
	"Personal Care / Beauty",
	"General Work",
	"Sales / Retail",
}

// DefaultTop returns the default top-K sizes of each view.
func DefaultTop() TopConfig {
	return TopConfig{Summary: 16, Velocity: 10, Matrix: 12, Skills: 10}
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Data:               DataConfig{Postings: DefaultPostingsPath, Skills: DefaultSkillsPath},
		CacheTTL:           DefaultCacheTTL,
		ExcludedCategories: append([]string(nil), DefaultExcludedCategories...),
		VelocityExcluded:   []string{"Others"},
		Top:                DefaultTop(),
		SalaryWeightCap:    DefaultSalaryWeightCap,
	}
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Data               DataConfig `yaml:"data"`
	CacheTTL           string     `yaml:"cache_ttl"`
	ExcludedCategories *[]string  `yaml:"excluded_categories"`
	VelocityExcluded   *[]string  `yaml:"velocity_excluded"`
	Top                TopConfig  `yaml:"top"`
	SalaryWeightCap    *int       `yaml:"salary_weight_cap"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// Fields left out of the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if raw.Data.Postings != "" {
		cfg.Data.Postings = raw.Data.Postings
	}
	if raw.Data.Skills != "" {
		cfg.Data.Skills = raw.Data.Skills
	}

	if raw.CacheTTL != "" {
		cfg.CacheTTL, err = time.ParseDuration(raw.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("parse cache_ttl %q: %w", raw.CacheTTL, err)
		}
	}

	// A present but empty list means "exclude nothing".
	if raw.ExcludedCategories != nil {
		cfg.ExcludedCategories = *raw.ExcludedCategories
	}
	if raw.VelocityExcluded != nil {
		cfg.VelocityExcluded = *raw.VelocityExcluded
	}

	if raw.Top.Summary != 0 {
		cfg.Top.Summary = raw.Top.Summary
	}
	if raw.Top.Velocity != 0 {
		cfg.Top.Velocity = raw.Top.Velocity
	}
	if raw.Top.Matrix != 0 {
		cfg.Top.Matrix = raw.Top.Matrix
	}
	if raw.Top.Skills != 0 {
		cfg.Top.Skills = raw.Top.Skills
	}
	if raw.SalaryWeightCap != nil {
		cfg.SalaryWeightCap = *raw.SalaryWeightCap
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default when
// allowMissing is set.
func LoadOrDefault(path string, allowMissing bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && allowMissing && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the invariants the commands rely on.
func (cfg *Config) Validate() error {
	if cfg.Data.Postings == "" {
		return fmt.Errorf("data.postings must be set")
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %v", cfg.CacheTTL)
	}
	tops := []struct {
		name string
		v    int
	}{
		{"top.summary", cfg.Top.Summary},
		{"top.velocity", cfg.Top.Velocity},
		{"top.matrix", cfg.Top.Matrix},
		{"top.skills", cfg.Top.Skills},
	}
	for _, t := range tops {
		if t.v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", t.name, t.v)
		}
	}
	if cfg.SalaryWeightCap < 1 {
		return fmt.Errorf("salary_weight_cap must be at least 1, got %d", cfg.SalaryWeightCap)
	}
	return nil
}
