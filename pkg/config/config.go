// Package config loads the chunkvault configuration document (spec §6):
// connection strings, database key-namespace settings, chunk sizing and
// compression policy, and storage-provider wiring.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (CHUNKVAULT_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values
//
// Grounded on dittofs's pkg/config/config.go: viper + mapstructure decode
// hooks for human-readable durations and byte sizes, XDG config directory
// resolution, YAML round-trip via SaveConfig.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/chunkvault/chunkvault/internal/bytesize"
)

// Config is the root configuration document (spec §6 "Configuration").
type Config struct {
	// Logging controls log output behavior (ambient, not named by spec §6
	// but carried the way the teacher carries it for every deployable).
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// ShutdownTimeout is defaulted (30s) and validated as positive; no
	// component reads it, so it does not bound any wait on interrupt.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// ConnectionStrings names the two external dependencies (spec §6).
	// The original spec names a MongoDB connection string and a Redis
	// connection string; this system substitutes embedded BadgerDB for
	// MongoDB and an in-process Ristretto cache for Redis, so both
	// fields are repurposed as documented on each.
	ConnectionStrings ConnectionStringsConfig `mapstructure:"connection_strings" yaml:"connection_strings"`

	// Database names the logical collections/namespaces (spec §6).
	Database DatabaseSettings `mapstructure:"database" yaml:"database"`

	// Chunk controls chunk sizing, compression, and checksum policy
	// (spec §6 "ChunkSettings").
	Chunk ChunkSettings `mapstructure:"chunk" yaml:"chunk"`

	// Storage configures provider backends and the distribution
	// strategy across them (spec §6 "StorageProviderSettings").
	Storage StorageProviderSettings `mapstructure:"storage" yaml:"storage"`
}

// ConnectionStringsConfig names the engine's two external dependencies.
type ConnectionStringsConfig struct {
	// MongoDB is the filesystem path to the embedded BadgerDB directory
	// backing the metadata repositories — the spec's document-store
	// connection string, repurposed for an embedded engine that needs a
	// path rather than a network address.
	MongoDB string `mapstructure:"mongodb" validate:"required" yaml:"mongodb"`

	// Redis is reserved for a future distributed cache; Ristretto runs
	// in-process today and needs no connection string. Kept so the
	// configuration document's shape matches spec §6 even though this
	// field is presently unused.
	Redis string `mapstructure:"redis" yaml:"redis,omitempty"`
}

// DatabaseSettings names the logical collections the metadata store
// organizes records under (spec §6 "DatabaseSettings"). badgerstore does
// not read these names; it namespaces records in its single keyspace with
// fixed key prefixes (f:, k:, p:, c:, cf:).
type DatabaseSettings struct {
	DatabaseName               string `mapstructure:"database_name" validate:"required" yaml:"database_name"`
	ChunkCollectionName        string `mapstructure:"chunk_collection_name" yaml:"chunk_collection_name"`
	FileMetadataCollectionName string `mapstructure:"file_metadata_collection_name" yaml:"file_metadata_collection_name"`
	LogsCollectionName         string `mapstructure:"logs_collection_name" yaml:"logs_collection_name"`
}

// ChunkSettings controls chunk sizing, compression, and checksumming
// (spec §6 "ChunkSettings").
type ChunkSettings struct {
	DefaultChunkSizeInBytes bytesize.ByteSize `mapstructure:"default_chunk_size_in_bytes" yaml:"default_chunk_size_in_bytes"`
	MinChunkSizeInBytes     bytesize.ByteSize `mapstructure:"min_chunk_size_in_bytes" yaml:"min_chunk_size_in_bytes"`
	MaxChunkSizeInBytes     bytesize.ByteSize `mapstructure:"max_chunk_size_in_bytes" yaml:"max_chunk_size_in_bytes"`
	CompressionEnabled      bool              `mapstructure:"compression_enabled" yaml:"compression_enabled"`
	CompressionLevel        int               `mapstructure:"compression_level" validate:"gte=0,lte=9" yaml:"compression_level"`
	// ChecksumAlgorithm is fixed at "SHA256" (spec §6); retained as a
	// field so the configuration document is self-describing, but the
	// engine does not read it to select an algorithm.
	ChecksumAlgorithm string `mapstructure:"checksum_algorithm" validate:"eq=SHA256" yaml:"checksum_algorithm"`
}

// StorageProviderSettings configures the storage backends and how chunks
// are distributed across them (spec §6 "StorageProviderSettings").
type StorageProviderSettings struct {
	// FileSystemPath is the base directory for the filesystem provider.
	FileSystemPath string `mapstructure:"file_system_path" yaml:"file_system_path"`

	// MongoDBPath is the BadgerDB directory backing the blob-provider
	// storage backend (the spec's document-store blob path).
	MongoDBPath string `mapstructure:"mongodb_path" yaml:"mongodb_path"`

	// S3 configures the optional S3 storage provider. Only consulted
	// when Enabled is true.
	S3 S3ProviderConfig `mapstructure:"s3" yaml:"s3,omitempty"`

	// DistributionStrategy selects how chunks are spread across
	// registered providers: "round_robin", "weighted_random", or
	// "size_tier".
	DistributionStrategy string `mapstructure:"distribution_strategy" validate:"required,oneof=round_robin weighted_random size_tier" yaml:"distribution_strategy"`

	// ProviderWeights configures WeightedRandom when selected.
	ProviderWeights map[string]int `mapstructure:"provider_weights" yaml:"provider_weights,omitempty"`

	// SizeTierThresholds configures SizeTier when selected: a human
	// readable byte-size threshold (e.g. "8MB") mapped to the provider ID
	// that should hold chunks at or under that size, evaluated ascending.
	SizeTierThresholds map[string]string `mapstructure:"size_tier_thresholds" yaml:"size_tier_thresholds,omitempty"`

	// SizeTierFallbackProviderID is used by SizeTier when a chunk exceeds
	// every configured threshold.
	SizeTierFallbackProviderID string `mapstructure:"size_tier_fallback_provider_id" yaml:"size_tier_fallback_provider_id,omitempty"`
}

// S3ProviderConfig configures the optional S3 storage provider.
type S3ProviderConfig struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
	Bucket         string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Region         string `mapstructure:"region" yaml:"region,omitempty"`
	Endpoint       string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	KeyPrefix      string `mapstructure:"key_prefix" yaml:"key_prefix,omitempty"`
	ForcePathStyle bool   `mapstructure:"force_path_style" yaml:"force_path_style,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is normalized to upper case by Validate before checking, so
	// "debug" and "DEBUG" are equally valid in a config file.
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// Load loads configuration from file, environment, and defaults. When no
// config file is found it returns GetDefaultConfig() and environment
// variables are not applied.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages when no config
// file exists at the default location.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"initialize one first, or specify --config /path/to/config.yaml", GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path in YAML format.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("CHUNKVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only reaches keys viper already knows, so bind every
	// config key; env vars then apply even when the file omits the key.
	var bind func(t reflect.Type, prefix string)
	bind = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			key := prefix + f.Tag.Get("mapstructure")
			if f.Type.Kind() == reflect.Struct {
				bind(f.Type, key+".")
				continue
			}
			_ = v.BindEnv(key)
		}
	}
	bind(reflect.TypeOf(Config{}), "")

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
	)
}

func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chunkvault")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "chunkvault")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() string {
	return getConfigDir()
}
