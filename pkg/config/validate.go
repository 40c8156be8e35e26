package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks cfg against its struct tags and a handful of cross-field
// invariants the validator tag language can't express (min/max/default
// chunk-size ordering, S3 provider completeness).
//
// The retrieval pack's config.go calls a Validate function that isn't
// defined anywhere in the teacher's pkg/config — this is a fresh
// implementation following the validator tags already present on the
// teacher's config structs.
func Validate(cfg *Config) error {
	normalizeLogLevel(cfg)

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c := cfg.Chunk
	if c.MinChunkSizeInBytes > c.DefaultChunkSizeInBytes {
		return fmt.Errorf("config: chunk.min_chunk_size_in_bytes must be <= chunk.default_chunk_size_in_bytes")
	}
	if c.DefaultChunkSizeInBytes > c.MaxChunkSizeInBytes {
		return fmt.Errorf("config: chunk.default_chunk_size_in_bytes must be <= chunk.max_chunk_size_in_bytes")
	}

	switch cfg.Storage.DistributionStrategy {
	case "weighted_random":
		if len(cfg.Storage.ProviderWeights) == 0 {
			return fmt.Errorf("config: storage.provider_weights is required when distribution_strategy is weighted_random")
		}
	case "size_tier":
		if len(cfg.Storage.SizeTierThresholds) == 0 {
			return fmt.Errorf("config: storage.size_tier_thresholds is required when distribution_strategy is size_tier")
		}
		if cfg.Storage.SizeTierFallbackProviderID == "" {
			return fmt.Errorf("config: storage.size_tier_fallback_provider_id is required when distribution_strategy is size_tier")
		}
	}

	if cfg.Storage.S3.Enabled && cfg.Storage.S3.Bucket == "" {
		return fmt.Errorf("config: storage.s3.bucket is required when storage.s3.enabled is true")
	}

	return nil
}

// normalizeLogLevel upper-cases the configured log level so "debug" and
// "DEBUG" are equally valid in the config file.
func normalizeLogLevel(cfg *Config) {
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
}
