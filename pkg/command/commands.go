package command

import "io"

// UploadFile requests a new file upload. Reader is unvalidated (no
// validator tag applies to an io.Reader) but is required by the handler.
type UploadFile struct {
	Name               string `validate:"required"`
	Reader             io.Reader
	SizeHint           int64
	CorrelationIDValue string `validate:"required"`
}

func (c UploadFile) CorrelationID() string { return c.CorrelationIDValue }

// DownloadFile requests a file's reassembled content.
type DownloadFile struct {
	FileID             string `validate:"required"`
	OutputPath         string
	CorrelationIDValue string `validate:"required"`
}

func (c DownloadFile) CorrelationID() string { return c.CorrelationIDValue }

// DeleteFile requests removal of a file and its chunks.
type DeleteFile struct {
	FileID             string `validate:"required"`
	CorrelationIDValue string `validate:"required"`
}

func (c DeleteFile) CorrelationID() string { return c.CorrelationIDValue }

// VerifyFile requests an integrity check of a file's chunks.
type VerifyFile struct {
	FileID             string `validate:"required"`
	CorrelationIDValue string `validate:"required"`
}

func (c VerifyFile) CorrelationID() string { return c.CorrelationIDValue }

// ListFiles requests the full file listing.
type ListFiles struct {
	CorrelationIDValue string `validate:"required"`
}

func (c ListFiles) CorrelationID() string { return c.CorrelationIDValue }

// ScanDirectory requests a recursive or single-level directory scan.
type ScanDirectory struct {
	Path               string `validate:"required"`
	Recursive          bool
	ProcessContent     bool
	CorrelationIDValue string `validate:"required"`
}

func (c ScanDirectory) CorrelationID() string { return c.CorrelationIDValue }
