// Package config loads the YAML configuration file that drives cmd/gameserver
// and cmd/loginserver, following dmitrymodder/minewire's server.yaml + Config
// struct pattern (yaml.v3 decode straight off an *os.File, defaults applied
// for zero-valued fields afterward).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultIdleTimeout mirrors session.defaultIdleTimeout; kept independent so
// the config package has no dependency on session.
const defaultIdleTimeout = 180 * time.Second

const (
	defaultGameListenAddress  = "0.0.0.0:9250"
	defaultLoginListenAddress = "0.0.0.0:8080"
	defaultRegionSuffix       = ".uk"
	defaultOpcodeTablePath    = "opcodes.txt"
)

// Config holds every value read from the YAML config file.
type Config struct {
	// GameListenAddress is the TCP address cmd/gameserver listens on.
	GameListenAddress string `yaml:"game_listen_address"`
	// OpcodeTablePath points at the NAME: NUMBER opcode mapping file.
	OpcodeTablePath string `yaml:"opcode_table_path"`
	// IdleTimeoutSeconds is the per-Session idle timeout; 0 means use the default.
	IdleTimeoutSeconds int `yaml:"idle_timeout_seconds"`

	// LoginListenAddress is the HTTP address cmd/loginserver listens on.
	LoginListenAddress string `yaml:"login_listen_address"`
	// RegionSuffix is appended to the server-list path (".uk", ".de", ...).
	RegionSuffix string `yaml:"region_suffix"`
}

// IdleTimeout returns the configured idle timeout, or the package default
// when the file left it unset.
func (c Config) IdleTimeout() time.Duration {
	if c.IdleTimeoutSeconds <= 0 {
		return defaultIdleTimeout
	}
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// Load reads and decodes the YAML file at path, applying defaults to any
// field left zero-valued.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GameListenAddress == "" {
		c.GameListenAddress = defaultGameListenAddress
	}
	if c.OpcodeTablePath == "" {
		c.OpcodeTablePath = defaultOpcodeTablePath
	}
	if c.LoginListenAddress == "" {
		c.LoginListenAddress = defaultLoginListenAddress
	}
	if c.RegionSuffix == "" {
		c.RegionSuffix = defaultRegionSuffix
	}
}
