package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	SessionCache SessionCacheConfig `yaml:"session_cache"`
	Airtable     AirtableConfig     `yaml:"airtable"`
	BigCache     BigCacheConfig     `yaml:"bigcache"`
	KeyDB        KeyDBConfig        `yaml:"keydb"`
	Warmup       WarmupConfig       `yaml:"warmup"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port         int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"min=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"min=0"`
}

// SessionCacheConfig configures the process-local TTL+LRU caches
type SessionCacheConfig struct {
	TTL             time.Duration `yaml:"ttl" validate:"gt=0"`
	MaxSize         int           `yaml:"max_size" validate:"min=1"`
	MaxRecords      int           `yaml:"max_records" validate:"min=1"`
	JanitorInterval time.Duration `yaml:"janitor_interval" validate:"min=0"`
}

// AirtableConfig configures the upstream record API
type AirtableConfig struct {
	BaseURL         string            `yaml:"base_url" validate:"required,url"`
	BaseID          string            `yaml:"base_id" validate:"required"`
	Timeout         time.Duration     `yaml:"timeout" validate:"gt=0"`
	DefaultPageSize int               `yaml:"default_page_size" validate:"min=1,max=100"`
	MaxPages        int               `yaml:"max_pages" validate:"min=0"`
	Tables          map[string]string `yaml:"tables" validate:"required,min=1,dive,keys,required,endkeys,required"`
}

// BigCacheConfig configures the in-process byte store
type BigCacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Size            int           `yaml:"size" validate:"min=0"` // MB
	Shards          int           `yaml:"shards" validate:"min=0"`
	MaxEntrySize    int           `yaml:"max_entry_size" validate:"min=0"` // bytes
	LifeWindow      time.Duration `yaml:"life_window" validate:"min=0"`
	MetricsInterval time.Duration `yaml:"metrics_interval" validate:"min=0"`
}

// KeyDBConfig configures the shared KeyDB store
type KeyDBConfig struct {
	Enabled    bool             `yaml:"enabled"`
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
	ScanCount  int64            `yaml:"scan_count" validate:"min=0"`
	ScanMatch  string           `yaml:"scan_match"`
}

// ConnectionConfig holds KeyDB connection timeouts
type ConnectionConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// KeepaliveConfig holds KeyDB pool settings
type KeepaliveConfig struct {
	PoolSize       int           `yaml:"pool_size"`
	MaxIdleTimeout time.Duration `yaml:"max_idle_timeout"`
}

// WarmupConfig lists resources prefetched at startup
type WarmupConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Resources []string      `yaml:"resources"`
	Pages     int           `yaml:"pages" validate:"min=0"`
	Timeout   time.Duration `yaml:"timeout" validate:"min=0"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded",
		zap.Int("port", config.Server.Port),
		zap.Int("tables", len(config.Airtable.Tables)),
		zap.Bool("bigcache", config.BigCache.Enabled),
		zap.Bool("keydb", config.KeyDB.Enabled))

	return &config, nil
}

// Validate checks field constraints and cross-field references
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, resource := range c.Warmup.Resources {
		if _, ok := c.Airtable.Tables[resource]; !ok {
			return fmt.Errorf("invalid configuration: warmup resource %q has no table", resource)
		}
	}
	return nil
}

// TableFor returns the upstream table name of a resource
func (c *Config) TableFor(resource string) (string, bool) {
	table, ok := c.Airtable.Tables[resource]
	return table, ok
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}

	if c.SessionCache.TTL == 0 {
		c.SessionCache.TTL = 5 * time.Minute
	}
	if c.SessionCache.MaxSize == 0 {
		c.SessionCache.MaxSize = 200
	}
	if c.SessionCache.MaxRecords == 0 {
		c.SessionCache.MaxRecords = 1000
	}
	if c.SessionCache.JanitorInterval == 0 {
		c.SessionCache.JanitorInterval = time.Minute
	}

	if c.Airtable.BaseURL == "" {
		c.Airtable.BaseURL = "https://api.airtable.com/v0"
	}
	if c.Airtable.Timeout == 0 {
		c.Airtable.Timeout = 10 * time.Second
	}
	if c.Airtable.DefaultPageSize == 0 {
		c.Airtable.DefaultPageSize = 30
	}
	if c.Airtable.MaxPages == 0 {
		c.Airtable.MaxPages = 20
	}

	c.BigCache.applyDefaults()
	c.KeyDB.applyDefaults()

	if c.Warmup.Pages == 0 {
		c.Warmup.Pages = 1
	}
	if c.Warmup.Timeout == 0 {
		c.Warmup.Timeout = 30 * time.Second
	}
}

func (b *BigCacheConfig) applyDefaults() {
	if b.Size == 0 {
		b.Size = 64
	}
	if b.Shards == 0 {
		b.Shards = 1024
	}
	if b.MaxEntrySize == 0 {
		b.MaxEntrySize = 1024 * 1024
	}
	if b.LifeWindow == 0 {
		b.LifeWindow = 24 * time.Hour
	}
	if b.MetricsInterval == 0 {
		b.MetricsInterval = 30 * time.Second
	}
}

func (k *KeyDBConfig) applyDefaults() {
	if k.Connection.ConnectTimeout == 0 {
		k.Connection.ConnectTimeout = time.Second
	}
	if k.Connection.SendTimeout == 0 {
		k.Connection.SendTimeout = time.Second
	}
	if k.Connection.ReadTimeout == 0 {
		k.Connection.ReadTimeout = time.Second
	}
	if k.Keepalive.PoolSize == 0 {
		k.Keepalive.PoolSize = 10
	}
	if k.Keepalive.MaxIdleTimeout == 0 {
		k.Keepalive.MaxIdleTimeout = 10 * time.Second
	}
	if k.ScanCount == 0 {
		k.ScanCount = 100
	}
	if k.ScanMatch == "" {
		k.ScanMatch = "airtable:*"
	}
}

// GetConnectTimeout returns the KeyDB dial timeout
func (k *KeyDBConfig) GetConnectTimeout() time.Duration {
	return k.Connection.ConnectTimeout
}

// GetSendTimeout returns the KeyDB write timeout
func (k *KeyDBConfig) GetSendTimeout() time.Duration {
	return k.Connection.SendTimeout
}

// GetReadTimeout returns the KeyDB read timeout
func (k *KeyDBConfig) GetReadTimeout() time.Duration {
	return k.Connection.ReadTimeout
}
