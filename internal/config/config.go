package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Lists   ListsConfig   `mapstructure:"lists"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// FetcherConfig holds settings for retrieving token list documents.
type FetcherConfig struct {
	Gateway     string        `mapstructure:"gateway"`
	Timeout     time.Duration `mapstructure:"timeout"`
	DocumentTTL time.Duration `mapstructure:"document_ttl"`
}

// CacheConfig holds settings for the in-process document cache.
type CacheConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// ListsConfig points at the token list sources ingested on startup.
type ListsConfig struct {
	SourcesFile string `mapstructure:"sources_file"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "tokenlist-indexer")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("fetcher.gateway", "https://ipfs.io")
	v.SetDefault("fetcher.timeout", "15s")
	v.SetDefault("fetcher.document_ttl", "10m")
	v.SetDefault("cache.default_expiration", "10m")
	v.SetDefault("cache.cleanup_interval", "30m")
	v.SetDefault("lists.sources_file", "configs/sources.yaml")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
		}
	}

	v.SetEnvPrefix("TOKENLIST_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c FetcherConfig) GetTimeout() time.Duration {
	return c.Timeout
}

func (c CacheConfig) GetDefaultExpiration() time.Duration {
	return c.DefaultExpiration
}

func (c CacheConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}
