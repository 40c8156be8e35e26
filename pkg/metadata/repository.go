package metadata

import "context"

// FileRepository persists and queries FileDescriptors (spec §4.3).
type FileRepository interface {
	Add(ctx context.Context, file *FileDescriptor, correlationID string) error
	GetByID(ctx context.Context, id string, correlationID string) (*FileDescriptor, error)
	Update(ctx context.Context, file *FileDescriptor, correlationID string) (bool, error)
	Delete(ctx context.Context, id string, correlationID string) (bool, error)
	GetAll(ctx context.Context, correlationID string) ([]*FileDescriptor, error)

	GetByFullPath(ctx context.Context, fullPath string, correlationID string) (*FileDescriptor, error)
	GetChildren(ctx context.Context, parentID string, correlationID string) ([]*FileDescriptor, error)
	GetByParentPath(ctx context.Context, prefix string, correlationID string) ([]*FileDescriptor, error)
	GetByType(ctx context.Context, fileType FileType, correlationID string) ([]*FileDescriptor, error)
	GetNonIndexed(ctx context.Context, correlationID string) ([]*FileDescriptor, error)
	GetByTags(ctx context.Context, tags []string, correlationID string) ([]*FileDescriptor, error)
}

// ChunkRepository persists and queries ChunkDescriptors (spec §4.3).
type ChunkRepository interface {
	Add(ctx context.Context, chunk *ChunkDescriptor, correlationID string) error
	GetByID(ctx context.Context, id string, correlationID string) (*ChunkDescriptor, error)
	Update(ctx context.Context, chunk *ChunkDescriptor, correlationID string) (bool, error)
	Delete(ctx context.Context, id string, correlationID string) (bool, error)
	GetAll(ctx context.Context, correlationID string) ([]*ChunkDescriptor, error)

	// GetChunksByFileID returns chunks sorted ascending by SequenceNumber.
	GetChunksByFileID(ctx context.Context, fileID string, correlationID string) ([]*ChunkDescriptor, error)
	DeleteChunksByFileID(ctx context.Context, fileID string, correlationID string) error
}
