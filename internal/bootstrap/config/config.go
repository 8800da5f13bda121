// Package config loads contractd settings from YAML with environment
// overrides. File values beat defaults; environment values beat both.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultAddr = "127.0.0.1:8790"

type File struct {
	Server ServerConfig `yaml:"server"`
}

type ServerConfig struct {
	Addr        string          `yaml:"addr"`
	Gzip        *bool           `yaml:"gzip"`
	MaxPageSize int             `yaml:"maxPageSize"`
	RateLimit   RateLimitConfig `yaml:"rateLimit"`
}

type RateLimitConfig struct {
	Enabled *bool   `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Addr             string
	GzipEnabled      bool
	MaxPageSize      int
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

func Default() Config {
	return Config{
		Addr:             DefaultAddr,
		GzipEnabled:      true,
		MaxPageSize:      100,
		RateLimitEnabled: true,
		RateLimitRPS:     30,
		RateLimitBurst:   60,
	}
}

// LoadFromPath reads the first readable candidate config file, merges it over
// the defaults and applies environment overrides. A missing or unparsable
// file falls through to defaults plus environment, never an error: contractd
// must come up with no config on disk.
func LoadFromPath(configPath string) Config {
	cfg := Default()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"configs/contractd.yaml",
			"contractd.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed File
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		merged := cfg
		Merge(&merged, parsed.Server)
		ApplyEnvOverrides(&merged)
		return merged
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

func Merge(dst *Config, src ServerConfig) {
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.Gzip != nil {
		dst.GzipEnabled = *src.Gzip
	}
	if src.MaxPageSize > 0 {
		dst.MaxPageSize = src.MaxPageSize
	}
	if src.RateLimit.Enabled != nil {
		dst.RateLimitEnabled = *src.RateLimit.Enabled
	}
	if src.RateLimit.RPS > 0 {
		dst.RateLimitRPS = src.RateLimit.RPS
	}
	if src.RateLimit.Burst > 0 {
		dst.RateLimitBurst = src.RateLimit.Burst
	}
}

func ApplyEnvOverrides(dst *Config) {
	if v := strings.TrimSpace(os.Getenv("CONTRACTD_ADDR")); v != "" {
		dst.Addr = v
	}
	if v, ok := parseBoolEnv("CONTRACTD_GZIP"); ok {
		dst.GzipEnabled = v
	}
	if v := strings.TrimSpace(os.Getenv("CONTRACTD_MAX_PAGE_SIZE")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			dst.MaxPageSize = parsed
		}
	}
	if v, ok := parseBoolEnv("CONTRACTD_RATE_LIMIT_ENABLED"); ok {
		dst.RateLimitEnabled = v
	}
	if v := strings.TrimSpace(os.Getenv("CONTRACTD_RATE_LIMIT_RPS")); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			dst.RateLimitRPS = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("CONTRACTD_RATE_LIMIT_BURST")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			dst.RateLimitBurst = parsed
		}
	}
}

func parseBoolEnv(name string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
