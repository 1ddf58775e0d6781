// Package config loads the daemon configuration from an optional YAML file.
// Command-line flags override file values (see cmd/sound-and-vision).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/sound-and-vision/internal/adc"
)

type Config struct {
	Node    NodeConfig    `yaml:"node"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	HTTP    HTTPConfig    `yaml:"http"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Sensors SensorsConfig `yaml:"sensors"`

	Poll           time.Duration `yaml:"poll"`
	StatusInterval time.Duration `yaml:"status_interval"`
}

type NodeConfig struct {
	ID    string `yaml:"id"`
	Group string `yaml:"group"`
}

type MQTTConfig struct {
	Broker string `yaml:"broker"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables the console
}

// Store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type StoreConfig struct {
	Backend       string `yaml:"backend"`
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SensorsConfig struct {
	IIODevice string `yaml:"iio_device"`
	GPIOChip  string `yaml:"gpio_chip"`
}

// DefaultStatusInterval applies when status_interval is absent. An explicit
// 0 disables STATUS events.
const DefaultStatusInterval = 15 * time.Minute

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := Config{StatusInterval: DefaultStatusInterval}
	cfg.applyDefaults()
	return &cfg
}

// Load reads the YAML file at path. An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Seeded before decoding so that an explicit 0 in the file survives.
	cfg := Config{StatusInterval: DefaultStatusInterval}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Node.ID == "" {
		if host, err := os.Hostname(); err == nil && host != "" {
			c.Node.ID = host
		} else {
			c.Node.ID = "node"
		}
	}
	if c.Node.Group == "" {
		c.Node.Group = "default"
	}
	if c.MQTT.Broker == "" {
		c.MQTT.Broker = "tcp://192.168.1.200:1883"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreFile
	}
	if c.Store.Path == "" {
		c.Store.Path = "/var/lib/sound-and-vision/nv.yaml"
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = "localhost:6379"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Sensors.IIODevice == "" {
		c.Sensors.IIODevice = adc.DefaultDevice
	}
	if c.Sensors.GPIOChip == "" {
		c.Sensors.GPIOChip = "gpiochip0"
	}
	if c.Poll == 0 {
		c.Poll = 100 * time.Millisecond
	}
}

// Validate checks the configuration after defaults and overrides.
func (c *Config) Validate() error {
	if c.Poll <= 0 {
		return errors.New("poll must be positive")
	}
	if c.StatusInterval < 0 {
		return errors.New("status_interval must not be negative")
	}
	switch c.Store.Backend {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// RedisHash is the hash key holding this node's parameters.
func (c *Config) RedisHash() string {
	return fmt.Sprintf("soundandvision:%s:nv", c.Node.ID)
}
