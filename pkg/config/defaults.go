package config

import "time"

// GetDefaultConfig returns a complete Config populated with defaults, for
// use when no config file is present.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields of cfg with sensible defaults.
// Fields already set by the config file or environment are left untouched.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyShutdownDefaults(cfg)
	applyConnectionStringDefaults(&cfg.ConnectionStrings)
	applyDatabaseDefaults(&cfg.Database)
	applyChunkDefaults(&cfg.Chunk)
	applyStorageDefaults(&cfg.Storage)
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "INFO"
	}
	if l.Format == "" {
		l.Format = "text"
	}
	if l.Output == "" {
		l.Output = "stderr"
	}
}

func applyShutdownDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

func applyConnectionStringDefaults(cs *ConnectionStringsConfig) {
	if cs.MongoDB == "" {
		cs.MongoDB = defaultDataDir("metadata")
	}
}

func applyDatabaseDefaults(db *DatabaseSettings) {
	if db.DatabaseName == "" {
		db.DatabaseName = "chunkvault"
	}
	if db.ChunkCollectionName == "" {
		db.ChunkCollectionName = "chunks"
	}
	if db.FileMetadataCollectionName == "" {
		db.FileMetadataCollectionName = "files"
	}
	if db.LogsCollectionName == "" {
		db.LogsCollectionName = "logs"
	}
}

func applyChunkDefaults(c *ChunkSettings) {
	if c.DefaultChunkSizeInBytes == 0 {
		c.DefaultChunkSizeInBytes = 64 << 20
	}
	if c.MinChunkSizeInBytes == 0 {
		c.MinChunkSizeInBytes = 1 << 20
	}
	if c.MaxChunkSizeInBytes == 0 {
		c.MaxChunkSizeInBytes = 512 << 20
	}
	if c.CompressionLevel == 0 {
		c.CompressionLevel = 3
	}
	if c.ChecksumAlgorithm == "" {
		c.ChecksumAlgorithm = "SHA256"
	}
}

func applyStorageDefaults(s *StorageProviderSettings) {
	if s.FileSystemPath == "" {
		s.FileSystemPath = defaultDataDir("chunks")
	}
	if s.MongoDBPath == "" {
		s.MongoDBPath = defaultDataDir("blobs")
	}
	if s.DistributionStrategy == "" {
		s.DistributionStrategy = "round_robin"
	}
}

func defaultDataDir(leaf string) string {
	return GetConfigDir() + "/data/" + leaf
}
