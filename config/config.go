// Package config loads bandplot settings from YAML and the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Plot    PlotConfig    `yaml:"plot"`
	Cache   CacheConfig   `yaml:"cache"`
	Plots   []PlotPreload `yaml:"plots"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr is host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// PlotConfig holds defaults applied to every plot the server creates.
type PlotConfig struct {
	Palette []string `yaml:"palette"`
	YLabel  string   `yaml:"y_label"`
}

// CacheConfig enables the on-disk dataset cache when Dir is set.
type CacheConfig struct {
	Dir    string `yaml:"dir"`
	SizeMB int    `yaml:"size_mb"`
}

// PlotPreload is a plot the server creates at startup.
type PlotPreload struct {
	ID      string   `yaml:"id"`
	Sources []string `yaml:"sources"`
	Path    string   `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "", Port: 8080},
		Cache:   CacheConfig{SizeMB: 8},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads filename over the defaults, applies environment overrides and
// validates the result. An empty filename skips the file.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("BANDPLOT_HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := os.LookupEnv("BANDPLOT_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BANDPLOT_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv("BANDPLOT_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv("BANDPLOT_CACHE_DIR"); ok {
		c.Cache.Dir = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Cache.SizeMB < 0 {
		return fmt.Errorf("cache.size_mb must not be negative")
	}
	for _, hex := range c.Plot.Palette {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("plot.palette: invalid color %q", hex)
		}
	}
	seen := make(map[string]bool, len(c.Plots))
	for i, p := range c.Plots {
		if p.ID == "" {
			return fmt.Errorf("plots[%d]: id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("plots[%d]: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// CacheBytes is the pebble block cache size.
func (c CacheConfig) CacheBytes() int64 {
	return int64(c.SizeMB) << 20
}
