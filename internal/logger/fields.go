package logger

import (
	"log/slog"
)

// Standard field keys for structured logging across the chunk storage
// engine. Use these keys consistently across all log statements so logs
// aggregate and query cleanly.
const (
	// ========================================================================
	// Distributed Tracing & Correlation
	// ========================================================================
	KeyTraceID       = "trace_id"       // OpenTelemetry trace ID, if tracing is wired in
	KeySpanID        = "span_id"        // OpenTelemetry span ID, if tracing is wired in
	KeyCorrelationID = "correlation_id" // per-operation tracing ID (spec §2/§7)
	KeyComponent     = "component"      // component emitting the log

	// ========================================================================
	// File / Chunk Descriptors
	// ========================================================================
	KeyFileID       = "file_id"
	KeyChunkID      = "chunk_id"
	KeySequence     = "sequence"
	KeyFileName     = "file_name"
	KeyFullPath     = "full_path"
	KeyFileType     = "file_type"
	KeyFileStatus   = "file_status"
	KeyChunkStatus  = "chunk_status"
	KeyChunkCount   = "chunk_count"
	KeySize         = "size"
	KeyCompressed   = "compressed_size"
	KeyIsCompressed = "is_compressed"
	KeyChecksum     = "checksum"

	// ========================================================================
	// Storage Provider / Distribution
	// ========================================================================
	KeyProviderID   = "provider_id"
	KeyProviderKind = "provider_kind"
	KeyStoragePath  = "storage_path"
	KeyStrategy     = "strategy"

	// ========================================================================
	// Command / Event Dispatch
	// ========================================================================
	KeyCommandType  = "command_type"
	KeyEventType    = "event_type"
	KeyEventID      = "event_id"
	KeyMiddleware   = "middleware"
	KeyOrder        = "order"

	// ========================================================================
	// Directory Scan
	// ========================================================================
	KeyRootPath     = "root_path"
	KeyFilesScanned = "files_scanned"
	KeyDirsScanned  = "dirs_scanned"
	KeyErrorsFound  = "errors_found"

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyErrorCode  = "error_code"
	KeyAttempt    = "attempt"
	KeyMaxRetries = "max_retries"
)

// TraceID returns a slog.Attr for the OpenTelemetry trace ID.
func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

// SpanID returns a slog.Attr for the OpenTelemetry span ID.
func SpanID(id string) slog.Attr { return slog.String(KeySpanID, id) }

// CorrelationID returns a slog.Attr for the operation's correlation ID.
func CorrelationID(id string) slog.Attr { return slog.String(KeyCorrelationID, id) }

// Component returns a slog.Attr naming the emitting component.
func Component(name string) slog.Attr { return slog.String(KeyComponent, name) }

// FileID returns a slog.Attr for a file descriptor ID.
func FileID(id string) slog.Attr { return slog.String(KeyFileID, id) }

// ChunkID returns a slog.Attr for a chunk descriptor ID.
func ChunkID(id string) slog.Attr { return slog.String(KeyChunkID, id) }

// Sequence returns a slog.Attr for a chunk sequence number.
func Sequence(n uint32) slog.Attr { return slog.Uint64(KeySequence, uint64(n)) }

// FileName returns a slog.Attr for a file's display name.
func FileName(name string) slog.Attr { return slog.String(KeyFileName, name) }

// FullPath returns a slog.Attr for a file's full path.
func FullPath(path string) slog.Attr { return slog.String(KeyFullPath, path) }

// Size returns a slog.Attr for a byte size.
func Size(n uint64) slog.Attr { return slog.Uint64(KeySize, n) }

// CompressedSize returns a slog.Attr for a compressed byte size.
func CompressedSize(n uint64) slog.Attr { return slog.Uint64(KeyCompressed, n) }

// Checksum returns a slog.Attr for a hex-encoded checksum.
func Checksum(sum string) slog.Attr { return slog.String(KeyChecksum, sum) }

// ProviderID returns a slog.Attr for a storage provider ID.
func ProviderID(id string) slog.Attr { return slog.String(KeyProviderID, id) }

// StoragePath returns a slog.Attr for a provider-opaque storage path.
func StoragePath(path string) slog.Attr { return slog.String(KeyStoragePath, path) }

// CommandType returns a slog.Attr naming a dispatched command type.
func CommandType(name string) slog.Attr { return slog.String(KeyCommandType, name) }

// EventType returns a slog.Attr naming a published event type.
func EventType(name string) slog.Attr { return slog.String(KeyEventType, name) }

// Middleware returns a slog.Attr naming a middleware in the chain.
func Middleware(name string) slog.Attr { return slog.String(KeyMiddleware, name) }

// RootPath returns a slog.Attr for a directory scan root.
func RootPath(path string) slog.Attr { return slog.String(KeyRootPath, path) }

// DurationMsAttr returns a slog.Attr for a duration in milliseconds.
func DurationMsAttr(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error value, or a no-op attr if nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
