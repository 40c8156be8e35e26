package command

import (
	"bytes"
	"context"
	"os"

	"github.com/chunkvault/chunkvault/pkg/fileservice"
	"github.com/chunkvault/chunkvault/pkg/scanner"
)

// RegisterFileHandlers binds UploadFile, DownloadFile, DeleteFile,
// VerifyFile, and ListFiles to a File Service instance.
func RegisterFileHandlers(d *Dispatcher, svc *fileservice.Service) {
	d.Register(UploadFile{}, func(ctx context.Context, cmd any) (any, error) {
		c := cmd.(UploadFile)
		return svc.UploadFile(ctx, c.Reader, c.Name, c.SizeHint, c.CorrelationIDValue)
	})

	d.Register(DownloadFile{}, func(ctx context.Context, cmd any) (any, error) {
		c := cmd.(DownloadFile)
		var sink bytes.Buffer
		if c.OutputPath != "" {
			f, err := os.Create(c.OutputPath)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			ok, err := svc.DownloadFile(ctx, c.FileID, f, c.CorrelationIDValue)
			return ok, err
		}
		ok, err := svc.DownloadFile(ctx, c.FileID, &sink, c.CorrelationIDValue)
		if err != nil {
			return nil, err
		}
		return sink.Bytes(), nil
	})

	d.Register(DeleteFile{}, func(ctx context.Context, cmd any) (any, error) {
		c := cmd.(DeleteFile)
		return svc.DeleteFile(ctx, c.FileID, c.CorrelationIDValue)
	})

	d.Register(VerifyFile{}, func(ctx context.Context, cmd any) (any, error) {
		c := cmd.(VerifyFile)
		return svc.VerifyFileIntegrity(ctx, c.FileID, c.CorrelationIDValue)
	})

	d.Register(ListFiles{}, func(ctx context.Context, cmd any) (any, error) {
		c := cmd.(ListFiles)
		return svc.ListFiles(ctx, c.CorrelationIDValue)
	})
}

// RegisterScanHandler binds ScanDirectory to a Scanner instance.
func RegisterScanHandler(d *Dispatcher, s *scanner.Scanner) {
	d.Register(ScanDirectory{}, func(ctx context.Context, cmd any) (any, error) {
		c := cmd.(ScanDirectory)
		return s.Scan(ctx, c.Path, scanner.Options{
			Recursive:      c.Recursive,
			ProcessContent: c.ProcessContent,
			CorrelationID:  c.CorrelationIDValue,
		})
	})
}
