// Package scanner implements the Directory Scanner (spec §4.7): a
// filesystem walk that creates or refreshes FileDescriptor entries,
// optionally streaming file content through the File Service, with
// per-file errors accumulated rather than aborting the scan.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chunkvault/chunkvault/pkg/event"
	"github.com/chunkvault/chunkvault/pkg/fileservice"
	"github.com/chunkvault/chunkvault/pkg/metadata"
)

// errNoFileService is returned when ProcessContent is requested but the
// Scanner was built without a File Service to hand content to.
var errNoFileService = errors.New("scanner: ProcessContent requested but no file service configured")

// Options configures a single Scan call.
type Options struct {
	Recursive      bool
	ProcessContent bool
	// Parallelism bounds the file-content worker pool; 0 means
	// min(8, runtime.NumCPU()).
	Parallelism int
	// ProgressFlush is the minimum interval between OnProgress calls as
	// the scan makes progress; 0 means one second.
	ProgressFlush time.Duration
	OnProgress    func(*Progress)
	CorrelationID string
}

// Progress accumulates counters and per-file errors for one scan,
// safe for concurrent updates from the worker pool.
type Progress struct {
	mu           sync.Mutex
	FilesScanned int
	DirsScanned  int
	Errors       []string
}

func (p *Progress) incFile() {
	p.mu.Lock()
	p.FilesScanned++
	p.mu.Unlock()
}

func (p *Progress) incDir() {
	p.mu.Lock()
	p.DirsScanned++
	p.mu.Unlock()
}

func (p *Progress) addError(format string, args ...any) {
	p.mu.Lock()
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
	p.mu.Unlock()
}

// snapshot returns a copy safe to hand to OnProgress without racing
// concurrent writers.
func (p *Progress) snapshot() *Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &Progress{
		FilesScanned: p.FilesScanned,
		DirsScanned:  p.DirsScanned,
		Errors:       append([]string(nil), p.Errors...),
	}
}

// Scanner walks a filesystem subtree and records it via a FileRepository,
// optionally handing file content to the File Service.
type Scanner struct {
	files metadata.FileRepository
	fsvc  *fileservice.Service
	bus   *event.Bus
}

// New builds a Scanner. fsvc may be nil if ProcessContent is never
// requested by any caller.
func New(files metadata.FileRepository, fsvc *fileservice.Service, bus *event.Bus) *Scanner {
	return &Scanner{files: files, fsvc: fsvc, bus: bus}
}

// Scan walks root, creating/refreshing FileDescriptor entries for every
// directory and file encountered. Directory descent is always serial so a
// parent's ID is known before its children are processed; file content
// processing (when requested) runs on a bounded worker pool.
func (s *Scanner) Scan(ctx context.Context, root string, opts Options) (*Progress, error) {
	progress := &Progress{}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > 8 {
		parallelism = 8
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)

	parentIDs := make(map[string]string)
	var parentMu sync.Mutex

	flushInterval := opts.ProgressFlush
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	lastFlush := time.Now()
	var flushMu sync.Mutex
	maybeFlush := func() {
		if opts.OnProgress == nil {
			return
		}
		flushMu.Lock()
		if time.Since(lastFlush) < flushInterval {
			flushMu.Unlock()
			return
		}
		lastFlush = time.Now()
		flushMu.Unlock()
		opts.OnProgress(progress.snapshot())
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			progress.addError("%s: %v", path, err)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if path != root && !opts.Recursive {
				return filepath.SkipDir
			}
			id, perr := s.recordDirectory(ctx, path, parentIDs, &parentMu, opts.CorrelationID)
			if perr != nil {
				progress.addError("directory %s: %v", path, perr)
				return nil
			}
			parentMu.Lock()
			parentIDs[path] = id
			parentMu.Unlock()
			progress.incDir()
			maybeFlush()
			return nil
		}

		group.Go(func() error {
			if err := s.processFile(gctx, path, parentIDs, &parentMu, opts, progress); err != nil {
				progress.addError("file %s: %v", path, err)
			}
			progress.incFile()
			maybeFlush()
			return nil
		})
		return nil
	})

	groupErr := group.Wait()

	if s.bus != nil {
		s.bus.Publish(ctx, event.DirectoryScanEvent{
			Envelope:     event.NewEnvelope("DirectoryScan", opts.CorrelationID),
			RootPath:     root,
			FilesScanned: progress.FilesScanned,
			Errors:       len(progress.Errors),
		})
	}

	if walkErr != nil {
		return progress, walkErr
	}
	return progress, groupErr
}

func (s *Scanner) recordDirectory(ctx context.Context, path string, parentIDs map[string]string, parentMu *sync.Mutex, correlationID string) (string, error) {
	existing, err := s.files.GetByFullPath(ctx, path, correlationID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	parentMu.Lock()
	parentID, hasParent := parentIDs[filepath.Dir(path)]
	parentMu.Unlock()

	now := time.Now().UTC()
	dir := &metadata.FileDescriptor{
		ID:            newID(path),
		Name:          filepath.Base(path),
		FullPath:      path,
		Type:          metadata.FileTypeDirectory,
		Status:        metadata.FileStatusCompleted,
		CreatedAt:     now,
		ModifiedAt:    now,
		UpdatedAt:     now,
		CorrelationID: correlationID,
	}
	if hasParent {
		dir.ParentID = &parentID
	}
	if err := s.files.Add(ctx, dir, correlationID); err != nil {
		return "", err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, event.FileDiscoveredEvent{
			Envelope: event.NewEnvelope("FileDiscovered", correlationID),
			FileID:   dir.ID,
			FullPath: path,
			IsDir:    true,
		})
	}
	return dir.ID, nil
}

func (s *Scanner) processFile(ctx context.Context, path string, parentIDs map[string]string, parentMu *sync.Mutex, opts Options, progress *Progress) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	parentMu.Lock()
	parentID, hasParent := parentIDs[filepath.Dir(path)]
	parentMu.Unlock()

	if !opts.ProcessContent {
		now := time.Now().UTC()
		sz := uint64(info.Size())
		file := &metadata.FileDescriptor{
			ID:            newID(path),
			Name:          filepath.Base(path),
			FullPath:      path,
			Extension:     filepath.Ext(path),
			Size:          &sz,
			Type:          metadata.FileTypeFile,
			Status:        metadata.FileStatusPending,
			CreatedAt:     now,
			ModifiedAt:    info.ModTime().UTC(),
			UpdatedAt:     now,
			CorrelationID: opts.CorrelationID,
		}
		if hasParent {
			file.ParentID = &parentID
		}
		if err := s.files.Add(ctx, file, opts.CorrelationID); err != nil {
			return err
		}
		if s.bus != nil {
			s.bus.Publish(ctx, event.FileDiscoveredEvent{
				Envelope: event.NewEnvelope("FileDiscovered", opts.CorrelationID),
				FileID:   file.ID,
				FullPath: path,
			})
		}
		return nil
	}

	if s.fsvc == nil {
		return errNoFileService
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	uploaded, err := s.fsvc.UploadFile(ctx, f, filepath.Base(path), info.Size(), opts.CorrelationID)
	if err != nil {
		return err
	}
	if hasParent {
		uploaded.ParentID = &parentID
		if _, err := s.files.Update(ctx, uploaded, opts.CorrelationID); err != nil {
			return err
		}
	}
	if s.bus != nil {
		s.bus.Publish(ctx, event.FileDiscoveredEvent{
			Envelope: event.NewEnvelope("FileDiscovered", opts.CorrelationID),
			FileID:   uploaded.ID,
			FullPath: path,
		})
	}
	return nil
}

// newID derives a deterministic file ID from its full path, so rescanning
// the same tree refreshes existing descriptors instead of duplicating them.
func newID(path string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))
	return fmt.Sprintf("scan-%x", h.Sum64())
}
