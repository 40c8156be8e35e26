// Package fileservice implements the File Service (spec §4.6): a thin
// orchestrator above the Chunk Manager that owns file-level identity,
// status transitions, and the whole-file checksum.
package fileservice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chunkvault/chunkvault/internal/logger"
	"github.com/chunkvault/chunkvault/pkg/chunkmanager"
	"github.com/chunkvault/chunkvault/pkg/metadata"
)

// Service exposes the five file-level operations of spec §4.6.
type Service struct {
	files   metadata.FileRepository
	manager *chunkmanager.Manager
}

// New builds a Service wired to a file repository and the Chunk Manager it
// delegates chunking to.
func New(files metadata.FileRepository, manager *chunkmanager.Manager) *Service {
	return &Service{files: files, manager: manager}
}

// UploadFile assigns a file ID, creates its FileDescriptor in Processing
// status, and streams r through the Chunk Manager. The whole-file SHA-256
// is computed by teeing the same stream the Chunk Manager reads (spec
// §4.6): the Chunk Manager never sees a second pass over the data.
func (s *Service) UploadFile(ctx context.Context, r io.Reader, name string, sizeHint int64, correlationID string) (*metadata.FileDescriptor, error) {
	fileID := uuid.New().String()
	now := time.Now().UTC()

	file := &metadata.FileDescriptor{
		ID:            fileID,
		Name:          name,
		FullPath:      name,
		Extension:     strings.TrimPrefix(filepath.Ext(name), "."),
		Type:          metadata.FileTypeFile,
		Status:        metadata.FileStatusProcessing,
		CreatedAt:     now,
		ModifiedAt:    now,
		UpdatedAt:     now,
		CorrelationID: correlationID,
	}
	if sizeHint >= 0 {
		sz := uint64(sizeHint)
		file.Size = &sz
	}

	if err := s.files.Add(ctx, file, correlationID); err != nil {
		return nil, err
	}

	hasher := sha256.New()
	tee := io.TeeReader(r, hasher)

	if _, err := s.manager.Upload(ctx, fileID, tee, sizeHint, correlationID); err != nil {
		logger.ErrorCtx(ctx, "upload failed", logger.FileID(fileID), logger.Err(err))
		return nil, err
	}

	updated, err := s.files.GetByID(ctx, fileID, correlationID)
	if err != nil {
		return nil, err
	}
	updated.Checksum = hex.EncodeToString(hasher.Sum(nil))
	updated.UpdatedAt = time.Now().UTC()
	if _, err := s.files.Update(ctx, updated, correlationID); err != nil {
		return nil, err
	}
	return updated, nil
}

// DownloadFile streams a file's reassembled content onto sink.
func (s *Service) DownloadFile(ctx context.Context, fileID string, sink io.Writer, correlationID string) (bool, error) {
	if err := s.manager.Download(ctx, fileID, sink, correlationID); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteFile removes a file and its chunks.
func (s *Service) DeleteFile(ctx context.Context, fileID string, correlationID string) (bool, error) {
	return s.manager.Delete(ctx, fileID, false, correlationID)
}

// VerifyFileIntegrity runs a deep Verify and reports overall health.
func (s *Service) VerifyFileIntegrity(ctx context.Context, fileID string, correlationID string) (bool, error) {
	report, err := s.manager.Verify(ctx, fileID, true, correlationID)
	if err != nil {
		return false, err
	}
	return report.Healthy, nil
}

// ListFiles returns every known file descriptor.
func (s *Service) ListFiles(ctx context.Context, correlationID string) ([]*metadata.FileDescriptor, error) {
	return s.files.GetAll(ctx, correlationID)
}
