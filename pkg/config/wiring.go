package config

import (
	"context"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/chunkvault/chunkvault/internal/bytesize"
	"github.com/chunkvault/chunkvault/pkg/cache"
	"github.com/chunkvault/chunkvault/pkg/chunkmanager"
	"github.com/chunkvault/chunkvault/pkg/metadata/badgerstore"
	"github.com/chunkvault/chunkvault/pkg/storage/blobprovider"
	"github.com/chunkvault/chunkvault/pkg/storage/fsprovider"
	"github.com/chunkvault/chunkvault/pkg/storage/registry"
	"github.com/chunkvault/chunkvault/pkg/storage/s3provider"
)

const (
	fsProviderID   = "filesystem"
	blobProviderID = "document-store"
	s3ProviderID   = "object-store"
)

// Stores bundles the handles that Load's caller must close on shutdown.
type Stores struct {
	MetadataDB *badger.DB
	BlobDB     *badger.DB
}

// Close releases the embedded database handles.
func (s *Stores) Close() error {
	var firstErr error
	if s.BlobDB != nil {
		if err := s.BlobDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.MetadataDB != nil {
		if err := s.MetadataDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenMetadataRepositories opens the BadgerDB database backing the metadata
// repositories (the spec's "MongoDB" connection string, repurposed as a
// directory path for an embedded engine).
func OpenMetadataRepositories(cfg *Config) (*badger.DB, error) {
	db, err := badgerstore.Open(cfg.ConnectionStrings.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("config: open metadata store: %w", err)
	}
	return db, nil
}

// OpenBlobStore opens the BadgerDB database backing the document-store
// provider (spec's StorageProviderSettings.MongoDBPath).
func OpenBlobStore(cfg *Config) (*badger.DB, error) {
	db, err := badgerstore.Open(cfg.Storage.MongoDBPath)
	if err != nil {
		return nil, fmt.Errorf("config: open blob store: %w", err)
	}
	return db, nil
}

// BuildRegistry constructs the provider Registry and Distribution Strategy
// named by cfg.Storage. The filesystem and document-store providers are
// always registered (spec §6's StorageProviderSettings names paths for
// both); S3 is added only when cfg.Storage.S3.Enabled. ctx bounds the S3
// client's credential-chain resolution.
func BuildRegistry(ctx context.Context, cfg *Config, blobDB *badger.DB) (*registry.Registry, registry.Strategy, error) {
	reg := registry.New()

	fsProv, err := fsprovider.New(fsprovider.DefaultConfig(fsProviderID, cfg.Storage.FileSystemPath))
	if err != nil {
		return nil, nil, fmt.Errorf("config: build filesystem provider: %w", err)
	}
	if err := reg.Register(fsProv); err != nil {
		return nil, nil, err
	}

	blobProv := blobprovider.New(blobProviderID, blobDB)
	if err := reg.Register(blobProv); err != nil {
		return nil, nil, err
	}

	providerIDs := []string{fsProviderID, blobProviderID}

	if cfg.Storage.S3.Enabled {
		s3Prov, err := s3provider.NewFromConfig(ctx, s3provider.Config{
			ProviderID:     s3ProviderID,
			Bucket:         cfg.Storage.S3.Bucket,
			Region:         cfg.Storage.S3.Region,
			Endpoint:       cfg.Storage.S3.Endpoint,
			KeyPrefix:      cfg.Storage.S3.KeyPrefix,
			ForcePathStyle: cfg.Storage.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("config: build s3 provider: %w", err)
		}
		if err := reg.Register(s3Prov); err != nil {
			return nil, nil, err
		}
		providerIDs = append(providerIDs, s3ProviderID)
	}

	var strategy registry.Strategy
	switch cfg.Storage.DistributionStrategy {
	case "weighted_random":
		strategy, err = registry.NewWeightedRandom(cfg.Storage.ProviderWeights)
	case "size_tier":
		strategy, err = buildSizeTier(cfg)
	default:
		strategy, err = registry.NewRoundRobin(providerIDs)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("config: build distribution strategy: %w", err)
	}

	return reg, strategy, nil
}

func buildSizeTier(cfg *Config) (*registry.SizeTier, error) {
	tiers := make(map[int64]string, len(cfg.Storage.SizeTierThresholds))
	for raw, providerID := range cfg.Storage.SizeTierThresholds {
		size, err := bytesize.ParseByteSize(raw)
		if err != nil {
			return nil, fmt.Errorf("size_tier_thresholds key %q: %w", raw, err)
		}
		tiers[size.Int64()] = providerID
	}
	return registry.NewSizeTier(tiers, cfg.Storage.SizeTierFallbackProviderID)
}

// ChunkManagerSettings converts the config document's ChunkSettings into
// the Settings shape chunkmanager.New expects.
func ChunkManagerSettings(cfg *Config) chunkmanager.Settings {
	c := cfg.Chunk
	return chunkmanager.Settings{
		DefaultChunkSizeInBytes: c.DefaultChunkSizeInBytes.Int64(),
		MinChunkSizeInBytes:     c.MinChunkSizeInBytes.Int64(),
		MaxChunkSizeInBytes:     c.MaxChunkSizeInBytes.Int64(),
		CompressionEnabled:      c.CompressionEnabled,
		CompressionLevel:        c.CompressionLevel,
		RollbackOnFailure:       true,
	}
}

// BuildCache constructs the Ristretto-backed cache.Service used as the
// write-through layer in front of the chunk metadata repository.
func BuildCache() (*cache.Service, error) {
	return cache.New(cache.DefaultConfig())
}
