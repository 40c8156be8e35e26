package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false
	mu.Unlock()

	reconfigure()

	cleanup := func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		reconfigure()
	}

	return buf, cleanup
}

func TestLevelFiltering(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("WARN")
	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestJSONFormat(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("DEBUG")
	SetFormat("json")
	defer SetFormat("text")

	Info("hello", "key", "value")

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "hello", decoded["msg"])
	assert.Equal(t, "value", decoded["key"])
}

func TestContextFieldsAreInjected(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("DEBUG")
	SetFormat("json")
	defer SetFormat("text")

	lc := NewLogContext("corr-123")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "processed chunk")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "corr-123", decoded[KeyCorrelationID])
}

func TestLogContextClone(t *testing.T) {
	lc := NewLogContext("corr-1")
	lc = lc.WithComponent("chunkmanager")

	clone := lc.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, lc.CorrelationID, clone.CorrelationID)
	assert.Equal(t, lc.Component, clone.Component)

	clone.Component = "scanner"
	assert.Equal(t, "chunkmanager", lc.Component)
}

func TestFromContextNil(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	assert.Nil(t, FromContext(nil)) //nolint:staticcheck
}

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, "file_id", FileID("f1").Key)
	assert.Equal(t, "chunk_id", ChunkID("f1_0").Key)
	assert.Equal(t, uint64(0), Sequence(0).Value.Uint64())
	assert.Equal(t, "provider_id", ProviderID("fs-0").Key)
}

func TestErrAttrNilIsNoop(t *testing.T) {
	attr := Err(nil)
	assert.True(t, attr.Equal(attr))
	assert.Empty(t, attr.Key)
}
