// Package app assembles the chunkvault engine's components from a loaded
// configuration: metadata repositories, the cache, the provider registry and
// distribution strategy, the Chunk Manager, File Service, Scanner, event
// bus, and Command Dispatcher. Grounded on dittofs's cmd/dittofs main.go
// runStart, which performs the equivalent assembly for the NFS/SMB server.
package app

import (
	"context"
	"reflect"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/chunkvault/chunkvault/internal/logger"
	"github.com/chunkvault/chunkvault/pkg/cache"
	"github.com/chunkvault/chunkvault/pkg/chunkmanager"
	"github.com/chunkvault/chunkvault/pkg/command"
	"github.com/chunkvault/chunkvault/pkg/config"
	"github.com/chunkvault/chunkvault/pkg/event"
	"github.com/chunkvault/chunkvault/pkg/fileservice"
	"github.com/chunkvault/chunkvault/pkg/metadata/badgerstore"
	"github.com/chunkvault/chunkvault/pkg/scanner"
	"github.com/chunkvault/chunkvault/pkg/storage/registry"
)

// App bundles a fully wired engine plus the database handles it owns.
type App struct {
	Config     *config.Config
	MetadataDB *badger.DB
	BlobDB     *badger.DB

	Bus        *event.Bus
	Cache      *cache.Service
	Registry   *registry.Registry
	Manager    *chunkmanager.Manager
	Files      *fileservice.Service
	Scanner    *scanner.Scanner
	Dispatcher *command.Dispatcher
}

// New opens the embedded stores named by cfg and wires every component on
// top of them, registering the command middleware stack (validation,
// logging, performance) and the chunk lifecycle handler on the event bus.
// ctx bounds construction of any provider that dials out (the S3 provider's
// credential-chain resolution); it is not retained.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	metadataDB, err := config.OpenMetadataRepositories(cfg)
	if err != nil {
		return nil, err
	}

	blobDB, err := config.OpenBlobStore(cfg)
	if err != nil {
		_ = metadataDB.Close()
		return nil, err
	}

	fileRepo := badgerstore.NewFileRepository(metadataDB)
	chunkRepo := badgerstore.NewChunkRepository(metadataDB)

	reg, strategy, err := config.BuildRegistry(ctx, cfg, blobDB)
	if err != nil {
		_ = blobDB.Close()
		_ = metadataDB.Close()
		return nil, err
	}

	cacheSvc, err := config.BuildCache()
	if err != nil {
		_ = blobDB.Close()
		_ = metadataDB.Close()
		return nil, err
	}

	bus := event.New(func(_ context.Context, eventType reflect.Type, err error) {
		logger.Error("event handler failed", logger.EventType(eventType.Name()), logger.Err(err))
	})
	event.NewChunkLifecycleHandler(fileRepo, chunkRepo, bus).Register(bus)

	manager := chunkmanager.New(fileRepo, chunkRepo, cacheSvc, reg, strategy, bus, config.ChunkManagerSettings(cfg))
	files := fileservice.New(fileRepo, manager)
	scan := scanner.New(fileRepo, files, bus)

	dispatcher := command.New()
	dispatcher.Use(command.NewValidationMiddleware())
	dispatcher.Use(&command.LoggingMiddleware{})
	dispatcher.Use(command.NewPerformanceMiddleware())
	command.RegisterFileHandlers(dispatcher, files)
	command.RegisterScanHandler(dispatcher, scan)

	return &App{
		Config:     cfg,
		MetadataDB: metadataDB,
		BlobDB:     blobDB,
		Bus:        bus,
		Cache:      cacheSvc,
		Registry:   reg,
		Manager:    manager,
		Files:      files,
		Scanner:    scan,
		Dispatcher: dispatcher,
	}, nil
}

// Close releases the embedded database handles.
func (a *App) Close() error {
	var firstErr error
	if a.BlobDB != nil {
		if err := a.BlobDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.MetadataDB != nil {
		if err := a.MetadataDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
