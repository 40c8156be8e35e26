package chunkmanager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

// VerifyReport summarizes the outcome of a Verify call.
type VerifyReport struct {
	FileID     string
	ChunkCount int
	Deep       bool
	Healthy    bool
	Issues     []string
}

func (r *VerifyReport) addIssue(format string, args ...any) {
	r.Healthy = false
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// Verify checks a file's chunks for integrity (spec §4.5.4). In shallow
// mode it only checks metadata: sequence contiguity and duplicate
// detection. In deep mode it additionally reads every chunk back from its
// provider and recomputes checksums, matching Download's verification path
// without writing the plaintext anywhere.
func (m *Manager) Verify(ctx context.Context, fileID string, deep bool, correlationID string) (*VerifyReport, error) {
	file, err := m.files.GetByID(ctx, fileID, correlationID)
	if err != nil {
		return nil, err
	}

	chunks, err := m.chunks.GetChunksByFileID(ctx, fileID, correlationID)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{FileID: fileID, ChunkCount: len(chunks), Deep: deep, Healthy: true}

	seen := make(map[uint32]bool, len(chunks))
	for _, c := range chunks {
		if seen[c.SequenceNumber] {
			report.addIssue("duplicate sequence number %d", c.SequenceNumber)
		}
		seen[c.SequenceNumber] = true
	}
	for i := 0; i < len(chunks); i++ {
		if !seen[uint32(i)] {
			report.addIssue("missing sequence number %d", i)
		}
	}
	if file.ExpectedChunkCount > 0 && len(chunks) != file.ExpectedChunkCount {
		report.addIssue("expected %d chunks, found %d", file.ExpectedChunkCount, len(chunks))
	}

	if !deep || !report.Healthy {
		return report, nil
	}

	hasher := sha256.New()
	for _, c := range chunks {
		select {
		case <-ctx.Done():
			return report, &chunkerr.CanceledError{Op: "verify"}
		default:
		}

		plaintext, err := m.readChunkPlaintext(ctx, c, correlationID)
		if err != nil {
			report.addIssue("chunk %d: %v", c.SequenceNumber, err)
			continue
		}
		sum := sha256.Sum256(plaintext)
		if hex.EncodeToString(sum[:]) != c.Checksum {
			report.addIssue("chunk %d: checksum mismatch", c.SequenceNumber)
			continue
		}
		hasher.Write(plaintext)
	}

	if report.Healthy && file.Checksum != "" {
		if got := hex.EncodeToString(hasher.Sum(nil)); got != file.Checksum {
			report.addIssue("whole-file checksum mismatch")
		}
	}

	return report, nil
}
