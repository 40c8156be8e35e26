package fileservice

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkvault/chunkvault/pkg/chunkmanager"
	"github.com/chunkvault/chunkvault/pkg/event"
	"github.com/chunkvault/chunkvault/pkg/metadata"
	"github.com/chunkvault/chunkvault/pkg/metadata/memory"
	"github.com/chunkvault/chunkvault/pkg/storage/fsprovider"
	"github.com/chunkvault/chunkvault/pkg/storage/registry"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	files := memory.NewFileRepository()
	chunks := memory.NewChunkRepository()

	provider, err := fsprovider.New(fsprovider.DefaultConfig("local", t.TempDir()))
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, reg.Register(provider))
	strategy, err := registry.NewRoundRobin([]string{"local"})
	require.NoError(t, err)

	settings := chunkmanager.DefaultSettings()
	settings.DefaultChunkSizeInBytes = 16
	settings.MinChunkSizeInBytes = 16
	settings.MaxChunkSizeInBytes = 16

	mgr := chunkmanager.New(files, chunks, nil, reg, strategy, event.New(nil), settings)
	return New(files, mgr)
}

func TestUploadFileComputesChecksumAndRoundtrips(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	payload := bytes.Repeat([]byte("service-"), 20)
	file, err := svc.UploadFile(ctx, bytes.NewReader(payload), "notes.txt", int64(len(payload)), "cid")
	require.NoError(t, err)
	assert.NotEmpty(t, file.Checksum)
	assert.Equal(t, metadata.FileStatusCompleted, file.Status)

	var out bytes.Buffer
	ok, err := svc.DownloadFile(ctx, file.ID, &out, "cid")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, out.Bytes())

	healthy, err := svc.VerifyFileIntegrity(ctx, file.ID, "cid")
	require.NoError(t, err)
	assert.True(t, healthy)

	list, err := svc.ListFiles(ctx, "cid")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	deleted, err := svc.DeleteFile(ctx, file.ID, "cid")
	require.NoError(t, err)
	assert.True(t, deleted)
}
