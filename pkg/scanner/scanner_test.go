package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkvault/chunkvault/pkg/chunkmanager"
	"github.com/chunkvault/chunkvault/pkg/event"
	"github.com/chunkvault/chunkvault/pkg/fileservice"
	"github.com/chunkvault/chunkvault/pkg/metadata"
	"github.com/chunkvault/chunkvault/pkg/metadata/memory"
	"github.com/chunkvault/chunkvault/pkg/storage/fsprovider"
	"github.com/chunkvault/chunkvault/pkg/storage/registry"
)

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("world"), 0o644))
	return root
}

func TestScanMetadataOnly(t *testing.T) {
	ctx := context.Background()
	root := writeTree(t)

	files := memory.NewFileRepository()
	s := New(files, nil, nil)

	progress, err := s.Scan(ctx, root, Options{Recursive: true, ProcessContent: false, CorrelationID: "cid"})
	require.NoError(t, err)
	assert.Empty(t, progress.Errors)
	assert.Equal(t, 2, progress.DirsScanned)
	assert.Equal(t, 2, progress.FilesScanned)

	all, err := files.GetAll(ctx, "cid")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestScanNonRecursiveSkipsSubdirectories(t *testing.T) {
	ctx := context.Background()
	root := writeTree(t)

	files := memory.NewFileRepository()
	s := New(files, nil, nil)

	progress, err := s.Scan(ctx, root, Options{Recursive: false, ProcessContent: false, CorrelationID: "cid"})
	require.NoError(t, err)
	assert.Equal(t, 1, progress.DirsScanned)
	assert.Equal(t, 1, progress.FilesScanned)
}

func TestScanWithContentProcessingUploadsFiles(t *testing.T) {
	ctx := context.Background()
	root := writeTree(t)

	files := memory.NewFileRepository()
	chunks := memory.NewChunkRepository()

	provider, err := fsprovider.New(fsprovider.DefaultConfig("local", t.TempDir()))
	require.NoError(t, err)
	reg := registry.New()
	require.NoError(t, reg.Register(provider))
	strategy, err := registry.NewRoundRobin([]string{"local"})
	require.NoError(t, err)

	mgr := chunkmanager.New(files, chunks, nil, reg, strategy, event.New(nil), chunkmanager.DefaultSettings())
	fsvc := fileservice.New(files, mgr)

	s := New(files, fsvc, nil)
	progress, err := s.Scan(ctx, root, Options{Recursive: true, ProcessContent: true, CorrelationID: "cid"})
	require.NoError(t, err)
	assert.Empty(t, progress.Errors)

	all, err := files.GetAll(ctx, "cid")
	require.NoError(t, err)

	var completed int
	for _, f := range all {
		if f.Type == metadata.FileTypeFile {
			assert.Equal(t, metadata.FileStatusCompleted, f.Status)
			completed++
		}
	}
	assert.Equal(t, 2, completed)
}
