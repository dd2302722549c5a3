// Package config loads registry layer configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	RPCURL            string        `yaml:"rpc_url"`
	NetworkID         uint32        `yaml:"network_id"`
	ContractHash      string        `yaml:"contract_hash"`
	ListenAddr        string        `yaml:"listen_addr"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	ImageCheckTimeout time.Duration `yaml:"image_check_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	// WalletKey is a hex private key; env-only, never read from file.
	WalletKey string `yaml:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ListenAddr:        ":8090",
		CacheTTL:          5 * time.Second,
		ImageCheckTimeout: 10 * time.Second,
	}
}

// Load reads configuration from a YAML file, then applies env overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.LoadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from the given path, or from defaults
// plus env overrides when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		cfg := Default()
		cfg.LoadFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// LoadFromEnv applies environment variable overrides.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("RPC_URL"); v != "" {
		c.RPCURL = v
	}
	if v := os.Getenv("NETWORK_ID"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.NetworkID = uint32(id)
		}
	}
	if v := os.Getenv("CONTRACT_REGISTRY_HASH"); v != "" {
		c.ContractHash = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CacheTTL = d
		}
	}
	if v := os.Getenv("IMAGE_CHECK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.ImageCheckTimeout = d
		}
	}
	if v := os.Getenv("RPC_REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("REGISTRY_WALLET_KEY"); v != "" {
		c.WalletKey = v
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc_url is required")
	}
	if c.ContractHash == "" {
		return fmt.Errorf("contract_hash is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	return nil
}
