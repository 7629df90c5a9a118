// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Benchmark configuration loaded from YAML, and a thread-safe store for the
// values that may change while a run is in progress.

package control

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/momentics/hioload-ring/api"
	"gopkg.in/yaml.v3"
)

// Modes accepted by Config.Mode.
const (
	ModeBlocking = "blocking"
	ModeAsync    = "async"
)

// Config describes one ring transfer run.
type Config struct {
	Capacity int           `yaml:"capacity"`
	Items    int           `yaml:"items"`
	Batch    int           `yaml:"batch"`
	Mode     string        `yaml:"mode"`
	Timeout  time.Duration `yaml:"timeout"`
	// Rate limits producer items per second; 0 disables the limit.
	Rate    float64 `yaml:"rate"`
	Workers int     `yaml:"workers"`
	// CPU indices for the producer and consumer threads; -1 leaves a side unpinned.
	PinProducer int    `yaml:"pin_producer"`
	PinConsumer int    `yaml:"pin_consumer"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// DefaultConfig returns the settings used for fields a file leaves out.
func DefaultConfig() Config {
	return Config{
		Capacity:    4096,
		Items:       10_000_000,
		Batch:       256,
		Mode:        ModeBlocking,
		Timeout:     time.Second,
		Workers:     2,
		PinProducer: -1,
		PinConsumer: -1,
		LogLevel:    "info",
	}
}

// LoadConfig reads path over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func invalid(field string, value any, msg string) *api.Error {
	return api.NewError(api.ErrCodeInvalidArgument, msg).
		WithContext("field", field).
		WithContext("value", value)
}

// Validate reports the first invalid field as an *api.Error.
func (c Config) Validate() error {
	switch {
	case c.Capacity < 1:
		return invalid("capacity", c.Capacity, "capacity must be at least 1")
	case c.Items < 0:
		return invalid("items", c.Items, "items must not be negative")
	case c.Batch < 1:
		return invalid("batch", c.Batch, "batch must be at least 1")
	case c.Mode != ModeBlocking && c.Mode != ModeAsync:
		return invalid("mode", c.Mode, "mode must be blocking or async")
	case c.Rate < 0:
		return invalid("rate", c.Rate, "rate must not be negative")
	case c.Workers < 1:
		return invalid("workers", c.Workers, "workers must be at least 1")
	case c.PinProducer < -1:
		return invalid("pin_producer", c.PinProducer, "cpu index must be -1 or a valid cpu")
	case c.PinConsumer < -1:
		return invalid("pin_consumer", c.PinConsumer, "cpu index must be -1 or a valid cpu")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log_level", c.LogLevel, "unknown log level")
	}
	return nil
}

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config: make(map[string]any),
	}
}

// Get returns the value stored under key.
func (cs *ConfigStore) Get(key string) (any, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	v, ok := cs.config[key]
	return v, ok
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		out[k] = v
	}
	return out
}

// SetConfig merges new values and notifies listeners.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	cs.dispatchReload()
}

// OnReload registers a listener called asynchronously after each SetConfig.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

// dispatchReload invokes all listeners.
func (cs *ConfigStore) dispatchReload() {
	for _, fn := range cs.listeners {
		go fn()
	}
}
